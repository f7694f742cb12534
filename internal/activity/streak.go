package activity

import (
	"sort"
	"time"

	"github.com/afumu/codash/internal/model"
)

// MaxStreakRanges 是返回的连续区间数量上限。
const MaxStreakRanges = 10

// DefaultGraceDays 允许最近一次活跃落后 today 的天数。
const DefaultGraceDays = 1

// StreakResult 是连续活跃分析的结果。
type StreakResult struct {
	Current int
	Longest int
	Ranges  []model.StreakRange
}

type activeDay struct {
	t     time.Time
	count int
}

// AnalyzeStreaks 计算当前连续、最长连续以及长度 >= 2 的连续区间。
// today 显式传入；晚于 today 的活跃日不参与计算。
// 最近一次活跃距 today 超过 graceDays 天时，当前连续为 0。
func AnalyzeStreaks(cal model.ActivityMap, today time.Time, graceDays int) StreakResult {
	if graceDays < 0 {
		graceDays = 0
	}
	today = truncateDay(today)

	days := activeDaysUntil(cal, today)
	if len(days) == 0 {
		return StreakResult{Ranges: []model.StreakRange{}}
	}

	var (
		ranges  []model.StreakRange
		longest = 1
		runLen  = 1
		runSubs = days[0].count
		runFrom = days[0].t
	)
	closeRun := func(end time.Time) {
		if runLen >= 2 {
			ranges = append(ranges, model.StreakRange{
				StartDate:   FormatDay(runFrom),
				EndDate:     FormatDay(end),
				Length:      runLen,
				Submissions: runSubs,
			})
		}
	}

	for i := 1; i < len(days); i++ {
		if daysBetween(days[i-1].t, days[i].t) == 1 {
			runLen++
			runSubs += days[i].count
		} else {
			closeRun(days[i-1].t)
			runLen = 1
			runSubs = days[i].count
			runFrom = days[i].t
		}
		if runLen > longest {
			longest = runLen
		}
	}
	closeRun(days[len(days)-1].t)

	sort.SliceStable(ranges, func(i, j int) bool {
		if ranges[i].Length != ranges[j].Length {
			return ranges[i].Length > ranges[j].Length
		}
		return ranges[i].StartDate > ranges[j].StartDate
	})
	if len(ranges) > MaxStreakRanges {
		ranges = ranges[:MaxStreakRanges]
	}
	if ranges == nil {
		ranges = []model.StreakRange{}
	}

	return StreakResult{
		Current: currentStreak(days, today, graceDays),
		Longest: longest,
		Ranges:  ranges,
	}
}

// currentStreak 从最近的活跃日向前数，遇到第一个缺口即停止。
func currentStreak(days []activeDay, today time.Time, graceDays int) int {
	last := days[len(days)-1].t
	if daysBetween(last, today) > graceDays {
		return 0
	}
	current := 1
	for i := len(days) - 1; i > 0; i-- {
		if daysBetween(days[i-1].t, days[i].t) != 1 {
			break
		}
		current++
	}
	return current
}

func activeDaysUntil(cal model.ActivityMap, today time.Time) []activeDay {
	days := make([]activeDay, 0, len(cal))
	for _, key := range cal.ActiveDates() {
		t, err := ParseDay(key)
		if err != nil || t.After(today) {
			continue
		}
		days = append(days, activeDay{t: t, count: cal[key]})
	}
	return days
}
