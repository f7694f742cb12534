package export

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/afumu/codash/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	heatmapSheet = "Heatmap"
	monthlySheet = "Monthly"
	summarySheet = "Summary"
)

// HeatmapXLSX 导出热力图为 XLSX 格式，包含每日、每月和汇总三个工作表
func HeatmapXLSX(b *model.HeatmapBundle) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", heatmapSheet)
	if _, err := f.NewSheet(monthlySheet); err != nil {
		return nil, fmt.Errorf("创建工作表失败: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("创建工作表失败: %w", err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})

	// 每日数据
	writeRow(f, heatmapSheet, 1, []any{"Date", "Count", "Intensity", "Weekday", "Week"})
	f.SetCellStyle(heatmapSheet, "A1", "E1", headerStyle)
	f.SetColWidth(heatmapSheet, "A", "A", 14)
	f.SetColWidth(heatmapSheet, "D", "D", 12)
	for i, d := range b.Heatmap {
		writeRow(f, heatmapSheet, i+2, []any{d.Date, d.Count, d.Intensity, weekdayName(d.DayOfWeek), d.Week})
	}

	// 月度统计
	writeRow(f, monthlySheet, 1, []any{"Month", "Submissions", "Active Days", "Max In Day", "Average Per Day"})
	f.SetCellStyle(monthlySheet, "A1", "E1", headerStyle)
	f.SetColWidth(monthlySheet, "A", "E", 16)
	months := make([]string, 0, len(b.Stats.MonthlyStats))
	for m := range b.Stats.MonthlyStats {
		months = append(months, m)
	}
	sort.Strings(months)
	for i, m := range months {
		st := b.Stats.MonthlyStats[m]
		writeRow(f, monthlySheet, i+2, []any{m, st.TotalSubmissions, st.ActiveDays, st.MaxSubmissionsInDay, st.AverageSubmissionsPerDay})
	}

	// 汇总
	s := b.Stats
	summary := [][]any{
		{"Platform", string(b.Platform)},
		{"Username", b.Username},
		{"From", b.From},
		{"To", b.To},
		{"Total Submissions", s.TotalSubmissions},
		{"Active Days", s.ActiveDays},
		{"Max Submissions Per Day", s.MaxSubmissionsPerDay},
		{"Current Streak", s.CurrentStreak},
		{"Longest Streak", s.LongestStreak},
		{"Average Per Day", s.AverageSubmissionsPerDay},
		{"Active Days %", s.ActiveDaysPercentage},
		{"Consistency Score", s.ConsistencyScore},
		{"Most Active Month", s.MostActiveMonth},
		{"Most Active Weekday", weekdayName(s.MostActiveDayOfWeek)},
		{"Last Submission", s.LastSubmissionDate},
	}
	for i, row := range summary {
		writeRow(f, summarySheet, i+1, row)
	}
	f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), headerStyle)
	f.SetColWidth(summarySheet, "A", "A", 26)
	f.SetColWidth(summarySheet, "B", "B", 20)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("写入XLSX失败: %w", err)
	}

	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []any) {
	for j, val := range values {
		cell, _ := excelize.CoordinatesToCellName(j+1, rowNum)
		f.SetCellValue(sheet, cell, val)
	}
}
