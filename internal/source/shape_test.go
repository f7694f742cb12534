package source

import (
	"errors"
	"testing"

	"github.com/afumu/codash/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Payload
	}{
		{"epoch keys", `{"1704067200": 3, "1704153600": 1}`, EpochCalendar{}},
		{"date keys", `{"2024-01-01": 3}`, DateCalendar{}},
		{"date keys with objects", `{"2024-01-01": {"count": 2}}`, DateCalendar{}},
		{"embedded json string", `"{\"1704067200\": 3}"`, EpochCalendar{}},
		{"submission list", `[{"creationTimeSeconds": 1704067200}]`, SubmissionList{}},
		{"day count list", `[{"date": "2024-01-01", "count": 4}]`, DayCountList{}},
		{"empty object", `{}`, DateCalendar{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Classify(gjson.Parse(tt.raw))
			require.True(t, ok)
			assert.IsType(t, tt.want, p)
		})
	}
}

func TestClassifyRejectsUnknownShapes(t *testing.T) {
	for _, raw := range []string{`42`, `"not json"`, `{"foo": 1, "bar": 2}`, `true`} {
		_, ok := Classify(gjson.Parse(raw))
		assert.False(t, ok, raw)
	}
}

func TestAdaptEpochCalendarDropsMalformedKeys(t *testing.T) {
	p, ok := Classify(gjson.Parse(`{"1704067200": 3, "1704153600": "2", "abc": 5, "1704240000": -1}`))
	require.True(t, ok)

	cal, dropped := Adapt(p)
	assert.Equal(t, model.ActivityMap{"2024-01-01": 3, "2024-01-02": 2}, cal)
	assert.Equal(t, 2, dropped)
}

func TestAdaptDateCalendarObjectValues(t *testing.T) {
	p, ok := Classify(gjson.Parse(`{"2024-01-05": {"count": 2}, "2024-01-06": "1", "2024-01-07": {"problemsSolved": "4"}, "2024-01-08": null}`))
	require.True(t, ok)

	cal, dropped := Adapt(p)
	assert.Zero(t, dropped)
	assert.Equal(t, model.ActivityMap{"2024-01-05": 2, "2024-01-06": 1, "2024-01-07": 4}, cal)
}

func TestAdaptSubmissionList(t *testing.T) {
	p, ok := Classify(gjson.Parse(`[
		{"creationTimeSeconds": 1704067200},
		{"creationTimeSeconds": 1704070800},
		{"timestamp": 1704153600000},
		{"submittedAt": "2024-01-03T10:00:00Z"},
		{"creationTimeSeconds": "garbage"},
		{"verdict": "OK"}
	]`))
	require.True(t, ok)

	cal, dropped := Adapt(p)
	assert.Equal(t, model.ActivityMap{"2024-01-01": 2, "2024-01-02": 1, "2024-01-03": 1}, cal)
	assert.Equal(t, 2, dropped)
}

func TestAdaptDayCountList(t *testing.T) {
	p, ok := Classify(gjson.Parse(`[{"date": "2024-02-01", "count": 2}, {"day": "2024-02-02", "value": "3"}, {"date": "bad", "count": 1}]`))
	require.True(t, ok)

	cal, dropped := Adapt(p)
	assert.Equal(t, model.ActivityMap{"2024-02-01": 2, "2024-02-02": 3}, cal)
	assert.Equal(t, 1, dropped)
}

func TestAdaptJSONProbesPaths(t *testing.T) {
	cal, err := AdaptJSON([]byte(`{"data": {"heatMap": {"2024-01-01": 1}}}`), "heatMap", "data.heatMap")
	require.NoError(t, err)
	assert.Equal(t, model.ActivityMap{"2024-01-01": 1}, cal)

	_, err = AdaptJSON([]byte(`{"message": "hello"}`), "heatMap", "calendar")
	assert.ErrorIs(t, err, ErrUnrecognizedShape)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))

	_, err = AdaptJSON([]byte(`<html>`), "")
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestCoerceCount(t *testing.T) {
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{`5`, 5, true},
		{`"7"`, 7, true},
		{`2.0`, 2, true},
		{`null`, 0, true},
		{`-3`, 0, false},
		{`"x"`, 0, false},
		{`true`, 0, false},
		{`[1]`, 0, false},
		{`{"submissions": 6}`, 6, true},
		{`{"count": 0}`, 0, true},
	}
	for _, tt := range tests {
		n, ok := coerceCount(gjson.Parse(tt.raw))
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, n, tt.raw)
	}
}
