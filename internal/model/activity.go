package model

import (
	"sort"
	"strconv"
)

// DateLayout 是活动数据中统一使用的日期格式。
const DateLayout = "2006-01-02"

// ActivityMap 记录每个 YYYY-MM-DD 日期的提交数。
type ActivityMap map[string]int

// Add 累加某天的提交数，非正数忽略。
func (m ActivityMap) Add(day string, n int) {
	if n <= 0 {
		return
	}
	m[day] += n
}

// Merge 只补充 m 中尚不存在的日期，已有的值保持不变。
func (m ActivityMap) Merge(other ActivityMap) {
	for day, count := range other {
		if _, ok := m[day]; ok {
			continue
		}
		m[day] = count
	}
}

// Total 返回提交总数。
func (m ActivityMap) Total() int {
	total := 0
	for _, c := range m {
		total += c
	}
	return total
}

// SortedDates 按升序返回所有日期。
func (m ActivityMap) SortedDates() []string {
	dates := make([]string, 0, len(m))
	for d := range m {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// ActiveDates 按升序返回有提交的日期。
func (m ActivityMap) ActiveDates() []string {
	dates := make([]string, 0, len(m))
	for d, c := range m {
		if c > 0 {
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)
	return dates
}

// Years 返回有提交的年份，升序去重。
func (m ActivityMap) Years() []int {
	seen := make(map[int]struct{})
	for d, c := range m {
		if c <= 0 || len(d) < 4 {
			continue
		}
		y, err := strconv.Atoi(d[:4])
		if err != nil {
			continue
		}
		seen[y] = struct{}{}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// HeatmapDay 是热力图中的一天。
type HeatmapDay struct {
	Date      string `json:"date"`      // YYYY-MM-DD
	Count     int    `json:"count"`     // 当天提交数
	Intensity int    `json:"intensity"` // 0-4
	DayOfWeek int    `json:"dayOfWeek"` // 0 为周日
	Week      int    `json:"week"`      // 相对区间起点的 7 天分桶
	Month     int    `json:"month"`     // 1-12
	Day       int    `json:"day"`
	Year      int    `json:"year"`
}

// StreakRange 是一段连续活跃的日期。
type StreakRange struct {
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Length      int    `json:"length"`
	Submissions int    `json:"submissions"`
}

// PeriodStat 是单月或单年的汇总。
type PeriodStat struct {
	TotalSubmissions         int     `json:"totalSubmissions"`
	ActiveDays               int     `json:"activeDays"`
	MaxSubmissionsInDay      int     `json:"maxSubmissionsInDay"`
	AverageSubmissionsPerDay float64 `json:"averageSubmissionsPerDay"`
	ActiveMonths             int     `json:"activeMonths,omitempty"` // 仅年度汇总使用
}

// WeeklyPattern 是按星期统计的提交分布。
type WeeklyPattern struct {
	WeeklyData      [7]int `json:"weeklyData"` // 下标 0 为周日
	MostActiveDay   string `json:"mostActiveDay"`
	WeekendActivity int    `json:"weekendActivity"`
	WeekdayActivity int    `json:"weekdayActivity"`
}

// AggregateStats 由日历和热力图计算得出。
type AggregateStats struct {
	TotalSubmissions         int                   `json:"totalSubmissions"`
	ActiveDays               int                   `json:"activeDays"`
	MaxSubmissionsPerDay     int                   `json:"maxSubmissionsPerDay"`
	CurrentStreak            int                   `json:"currentStreak"`
	LongestStreak            int                   `json:"longestStreak"`
	AverageSubmissionsPerDay float64               `json:"averageSubmissionsPerDay"`
	MostActiveMonth          string                `json:"mostActiveMonth,omitempty"` // YYYY-MM
	MostActiveDayOfWeek      int                   `json:"mostActiveDayOfWeek"`
	LastSubmissionDate       string                `json:"lastSubmissionDate,omitempty"`
	ActiveDaysPercentage     float64               `json:"activeDaysPercentage"`
	ConsistencyScore         float64               `json:"consistencyScore"`
	StreakRanges             []StreakRange         `json:"streakRanges"`
	WeeklyPattern            WeeklyPattern         `json:"weeklyPattern"`
	MonthlyStats             map[string]PeriodStat `json:"monthlyStats"`
	YearlyStats              map[string]PeriodStat `json:"yearlyStats"`
}

// HeatmapBundle 是各平台通用的热力图响应。
type HeatmapBundle struct {
	Platform    Platform       `json:"platform"`
	Username    string         `json:"username"`
	From        string         `json:"from"`
	To          string         `json:"to"`
	Source      string         `json:"source"` // 产出数据的回退数据源
	ActiveYears []int          `json:"activeYears"`
	Heatmap     []HeatmapDay   `json:"heatmap"`
	Stats       AggregateStats `json:"stats"`
	Calendar    ActivityMap    `json:"calendar"`
}
