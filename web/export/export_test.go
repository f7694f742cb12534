package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/afumu/codash/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleBundle() *model.HeatmapBundle {
	return &model.HeatmapBundle{
		Platform: model.GFG,
		Username: "al ice/../x",
		From:     "2024-03-01",
		To:       "2024-03-03",
		Heatmap: []model.HeatmapDay{
			{Date: "2024-03-01", Count: 0, Intensity: 0, DayOfWeek: 5, Week: 0},
			{Date: "2024-03-02", Count: 3, Intensity: 2, DayOfWeek: 6, Week: 0},
			{Date: "2024-03-03", Count: 12, Intensity: 4, DayOfWeek: 0, Week: 0},
		},
		Stats: model.AggregateStats{
			TotalSubmissions: 15,
			ActiveDays:       2,
			LongestStreak:    2,
			MonthlyStats: map[string]model.PeriodStat{
				"2024-03": {TotalSubmissions: 15, ActiveDays: 2, MaxSubmissionsInDay: 12},
			},
		},
	}
}

func TestHeatmapCSV(t *testing.T) {
	data, err := HeatmapCSV(sampleBundle())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

	rows, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"date", "count", "intensity", "weekday", "week"}, rows[0])
	assert.Equal(t, []string{"2024-03-03", "12", "4", "Sunday", "0"}, rows[3])
}

func TestHeatmapXLSX(t *testing.T) {
	data, err := HeatmapXLSX(sampleBundle())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{heatmapSheet, monthlySheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(heatmapSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Saturday", rows[2][3])

	monthly, err := f.GetRows(monthlySheet)
	require.NoError(t, err)
	require.Len(t, monthly, 2)
	assert.Equal(t, "2024-03", monthly[1][0])
	assert.Equal(t, "15", monthly[1][1])

	total, err := f.GetCellValue(summarySheet, "B5")
	require.NoError(t, err)
	assert.Equal(t, "15", total)
}

func TestETagAndFileName(t *testing.T) {
	a := ETag([]byte("a"))
	assert.Equal(t, a, ETag([]byte("a")))
	assert.NotEqual(t, a, ETag([]byte("b")))
	assert.Len(t, a, 18)

	assert.Equal(t, "gfg_al_ice_.._x_2024-03-01_2024-03-03.csv", fileName(sampleBundle(), FormatCSV))
}
