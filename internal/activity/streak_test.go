package activity

import (
	"testing"

	"github.com/afumu/codash/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeStreaksSingleRun(t *testing.T) {
	cal := model.ActivityMap{"2024-01-01": 2, "2024-01-02": 1, "2024-01-03": 3}

	res := AnalyzeStreaks(cal, day("2024-01-31"), DefaultGraceDays)

	assert.Equal(t, 3, res.Longest)
	assert.Equal(t, 0, res.Current)
	require.Len(t, res.Ranges, 1)
	assert.Equal(t, model.StreakRange{StartDate: "2024-01-01", EndDate: "2024-01-03", Length: 3, Submissions: 6}, res.Ranges[0])
}

func TestAnalyzeStreaksEmpty(t *testing.T) {
	res := AnalyzeStreaks(model.ActivityMap{}, day("2024-06-16"), DefaultGraceDays)
	assert.Zero(t, res.Current)
	assert.Zero(t, res.Longest)
	assert.Empty(t, res.Ranges)
	assert.NotNil(t, res.Ranges)
}

func TestAnalyzeStreaksGraceDay(t *testing.T) {
	cal := model.ActivityMap{"2024-06-15": 5}

	res := AnalyzeStreaks(cal, day("2024-06-16"), 1)
	assert.Equal(t, 1, res.Current)
	assert.Equal(t, 1, res.Longest)
	assert.Empty(t, res.Ranges)

	// 没有宽限时必须当天有提交
	res = AnalyzeStreaks(cal, day("2024-06-16"), 0)
	assert.Equal(t, 0, res.Current)

	res = AnalyzeStreaks(cal, day("2024-06-17"), 1)
	assert.Equal(t, 0, res.Current)
}

func TestAnalyzeStreaksRangesSorted(t *testing.T) {
	cal := model.ActivityMap{
		"2024-01-01": 1, "2024-01-02": 1,
		"2024-01-10": 1, "2024-01-11": 1, "2024-01-12": 1,
	}

	res := AnalyzeStreaks(cal, day("2024-01-12"), DefaultGraceDays)

	assert.Equal(t, 3, res.Longest)
	assert.Equal(t, 3, res.Current)
	require.Len(t, res.Ranges, 2)
	assert.Equal(t, model.StreakRange{StartDate: "2024-01-10", EndDate: "2024-01-12", Length: 3, Submissions: 3}, res.Ranges[0])
	assert.Equal(t, model.StreakRange{StartDate: "2024-01-01", EndDate: "2024-01-02", Length: 2, Submissions: 2}, res.Ranges[1])
}

func TestAnalyzeStreaksTopTenLaterFirstOnTies(t *testing.T) {
	cal := model.ActivityMap{}
	start := day("2024-01-01")
	// 12 段长度为 2 的连续区间，彼此间隔一天
	for i := 0; i < 12; i++ {
		d := start.AddDate(0, 0, i*3)
		cal[FormatDay(d)] = 1
		cal[FormatDay(d.AddDate(0, 0, 1))] = 1
	}

	res := AnalyzeStreaks(cal, day("2024-12-31"), DefaultGraceDays)

	require.Len(t, res.Ranges, MaxStreakRanges)
	assert.Equal(t, FormatDay(start.AddDate(0, 0, 33)), res.Ranges[0].StartDate)
	for i := 1; i < len(res.Ranges); i++ {
		assert.Greater(t, res.Ranges[i-1].StartDate, res.Ranges[i].StartDate)
	}
}

func TestAnalyzeStreaksIgnoresFutureDays(t *testing.T) {
	cal := model.ActivityMap{"2024-03-01": 1, "2024-03-02": 1, "2024-03-05": 1, "2024-03-06": 1, "2024-03-07": 1}

	res := AnalyzeStreaks(cal, day("2024-03-03"), DefaultGraceDays)

	assert.Equal(t, 2, res.Longest)
	assert.Equal(t, 2, res.Current)
}

func TestAnalyzeStreaksIdempotent(t *testing.T) {
	cal := model.ActivityMap{
		"2023-12-31": 4, "2024-01-01": 1, "2024-01-03": 2,
		"2024-01-04": 2, "2024-01-05": 1, "2024-02-01": 1,
	}
	today := day("2024-02-02")

	first := AnalyzeStreaks(cal, today, DefaultGraceDays)
	second := AnalyzeStreaks(cal, today, DefaultGraceDays)

	assert.Equal(t, first, second)
	assert.LessOrEqual(t, first.Current, first.Longest)
	assert.Equal(t, 1, first.Current)
	assert.Equal(t, 3, first.Longest)
}
