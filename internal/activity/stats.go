package activity

import (
	"math"
	"time"

	"github.com/afumu/codash/internal/model"
)

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Options 控制一次热力图计算。
type Options struct {
	Thresholds Thresholds
	Today      time.Time
	GraceDays  int
}

// Summarize 依次执行 BuildHeatmap、AnalyzeStreaks 和 Aggregate。
func Summarize(cal model.ActivityMap, r Range, opts Options) ([]model.HeatmapDay, model.AggregateStats) {
	heatmap := BuildHeatmap(cal, r, opts.Thresholds)
	streaks := AnalyzeStreaks(cal, opts.Today, opts.GraceDays)
	return heatmap, Aggregate(cal, heatmap, streaks)
}

// Aggregate 汇总统计。总量、均值、月/年汇总和周分布只统计 heatmap 覆盖的区间，
// 与返回的热力图保持一致；连续天数和最后提交日期基于整个 cal。
func Aggregate(cal model.ActivityMap, heatmap []model.HeatmapDay, streaks StreakResult) model.AggregateStats {
	stats := model.AggregateStats{
		CurrentStreak: streaks.Current,
		LongestStreak: streaks.Longest,
		StreakRanges:  streaks.Ranges,
		MonthlyStats:  map[string]model.PeriodStat{},
		YearlyStats:   map[string]model.PeriodStat{},
	}
	if stats.StreakRanges == nil {
		stats.StreakRanges = []model.StreakRange{}
	}
	if active := cal.ActiveDates(); len(active) > 0 {
		stats.LastSubmissionDate = active[len(active)-1]
	}

	monthTotals := map[string]int{}
	yearMonths := map[string]map[string]struct{}{}

	for _, d := range heatmap {
		if d.Count <= 0 {
			continue
		}
		count := d.Count
		stats.TotalSubmissions += count
		stats.ActiveDays++
		if count > stats.MaxSubmissionsPerDay {
			stats.MaxSubmissionsPerDay = count
		}

		month, year := d.Date[:7], d.Date[:4]
		monthTotals[month] += count
		stats.MonthlyStats[month] = addToPeriod(stats.MonthlyStats[month], count)
		stats.YearlyStats[year] = addToPeriod(stats.YearlyStats[year], count)
		if yearMonths[year] == nil {
			yearMonths[year] = map[string]struct{}{}
		}
		yearMonths[year][month] = struct{}{}

		if d.DayOfWeek >= 0 && d.DayOfWeek < 7 {
			stats.WeeklyPattern.WeeklyData[d.DayOfWeek] += count
		}
	}

	stats.AverageSubmissionsPerDay = average(stats.TotalSubmissions, stats.ActiveDays)
	for k, p := range stats.MonthlyStats {
		p.AverageSubmissionsPerDay = average(p.TotalSubmissions, p.ActiveDays)
		stats.MonthlyStats[k] = p
	}
	for k, p := range stats.YearlyStats {
		p.AverageSubmissionsPerDay = average(p.TotalSubmissions, p.ActiveDays)
		p.ActiveMonths = len(yearMonths[k])
		stats.YearlyStats[k] = p
	}

	stats.MostActiveMonth = mostActiveMonth(monthTotals)
	stats.WeeklyPattern = finishWeeklyPattern(stats.WeeklyPattern)
	if stats.WeeklyPattern.MostActiveDay != "" {
		stats.MostActiveDayOfWeek = weekdayIndex(stats.WeeklyPattern.MostActiveDay)
	}

	rate := activeRate(heatmap)
	stats.ActiveDaysPercentage = Round(rate, 1)
	stats.ConsistencyScore = ConsistencyScore(rate, stats.LongestStreak)
	return stats
}

// ConsistencyScore = min(活跃天占比 + min(最长连续/30, 1) * 20, 100)，保留一位小数。
func ConsistencyScore(activePercentage float64, longestStreak int) float64 {
	bonus := math.Min(float64(longestStreak)/30, 1) * 20
	return Round(math.Min(activePercentage+bonus, 100), 1)
}

// Round 四舍五入到 places 位小数。
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func addToPeriod(p model.PeriodStat, count int) model.PeriodStat {
	p.TotalSubmissions += count
	p.ActiveDays++
	if count > p.MaxSubmissionsInDay {
		p.MaxSubmissionsInDay = count
	}
	return p
}

func average(total, days int) float64 {
	if days == 0 {
		return 0
	}
	return Round(float64(total)/float64(days), 2)
}

func activeRate(heatmap []model.HeatmapDay) float64 {
	if len(heatmap) == 0 {
		return 0
	}
	active := 0
	for _, d := range heatmap {
		if d.Count > 0 {
			active++
		}
	}
	return float64(active) / float64(len(heatmap)) * 100
}

// mostActiveMonth 取提交最多的月份，并列时取较早的月份。
func mostActiveMonth(totals map[string]int) string {
	best, bestCount := "", 0
	for month, count := range totals {
		if count > bestCount || (count == bestCount && count > 0 && month < best) {
			best, bestCount = month, count
		}
	}
	return best
}

func finishWeeklyPattern(w model.WeeklyPattern) model.WeeklyPattern {
	best := -1
	for i, c := range w.WeeklyData {
		if c > 0 && (best < 0 || c > w.WeeklyData[best]) {
			best = i
		}
	}
	if best >= 0 {
		w.MostActiveDay = weekdayNames[best]
	}
	w.WeekendActivity = w.WeeklyData[0] + w.WeeklyData[6]
	for i := 1; i <= 5; i++ {
		w.WeekdayActivity += w.WeeklyData[i]
	}
	return w
}

func weekdayIndex(name string) int {
	for i, n := range weekdayNames {
		if n == name {
			return i
		}
	}
	return 0
}
