package model

import "strings"

// Platform 表示一个刷题平台。
type Platform string

const (
	LeetCode   Platform = "leetcode"
	CodeChef   Platform = "codechef"
	Codeforces Platform = "codeforces"
	GFG        Platform = "gfg"
	HackerRank Platform = "hackerrank"
)

// Platforms 按展示顺序列出所有支持的平台。
var Platforms = []Platform{LeetCode, CodeChef, Codeforces, GFG, HackerRank}

// ParsePlatform 接受平台名和常用简称。
func ParsePlatform(s string) (Platform, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "leetcode", "lc":
		return LeetCode, true
	case "codechef", "cc":
		return CodeChef, true
	case "codeforces", "cf":
		return Codeforces, true
	case "gfg", "geeksforgeeks":
		return GFG, true
	case "hackerrank", "hr":
		return HackerRank, true
	}
	return "", false
}

// Details 是单个平台的完整响应，包括资料、热力图和扩展数据。
type Details struct {
	Platform   Platform       `json:"platform"`
	Username   string         `json:"username"`
	ProfileURL string         `json:"profileUrl"`
	Profile    any            `json:"profile"`
	Heatmap    *HeatmapBundle `json:"heatmap"`
	Extras     any            `json:"extras,omitempty"`
}

// DashboardEntry 是总览中的一个平台。
type DashboardEntry struct {
	Platform Platform       `json:"platform"`
	Username string         `json:"username"`
	Heatmap  *HeatmapBundle `json:"heatmap,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Dashboard 合并多个平台的热力图。
type Dashboard struct {
	Entries          []DashboardEntry `json:"entries"`
	TotalSubmissions int              `json:"totalSubmissions"`
	Combined         []HeatmapDay     `json:"combined"`
	CombinedStats    AggregateStats   `json:"combinedStats"`
}

// DifficultyShare 是某个难度的解题数及占比。
type DifficultyShare struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DifficultyAnalysis 汇总难度分布。
type DifficultyAnalysis struct {
	Breakdown       map[string]DifficultyShare `json:"breakdown"`
	DifficultyScore int                        `json:"difficultyScore"`
	Recommendation  string                     `json:"recommendation"`
	Level           string                     `json:"level"`
}

// ActivityMetrics 是 GFG 资料页上的活跃度摘要。
type ActivityMetrics struct {
	TotalActiveDays       int           `json:"totalActiveDays"`
	TotalProblems         int           `json:"totalProblems"`
	AverageProblemsPerDay float64       `json:"averageProblemsPerDay"`
	ActiveDaysPercentage  float64       `json:"activeDaysPercentage"`
	MaxProblemsInDay      int           `json:"maxProblemsInDay"`
	CurrentStreak         int           `json:"currentStreak"`
	MaxStreak             int           `json:"maxStreak"`
	WeeklyPattern         WeeklyPattern `json:"weeklyPattern"`
	ConsistencyScore      float64       `json:"consistencyScore"`
}
