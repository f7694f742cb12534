package activity

import (
	"strings"

	"github.com/afumu/codash/internal/model"
)

// 难度键，GFG 另有 basic。
const (
	DifficultyBasic  = "basic"
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// AnalyzeDifficulty 计算难度分布、难度分、等级和练习建议。
func AnalyzeDifficulty(solved map[string]int) model.DifficultyAnalysis {
	total := 0
	for _, k := range []string{DifficultyBasic, DifficultyEasy, DifficultyMedium, DifficultyHard} {
		total += solved[k]
	}

	breakdown := make(map[string]model.DifficultyShare, 4)
	for _, k := range []string{DifficultyBasic, DifficultyEasy, DifficultyMedium, DifficultyHard} {
		breakdown[k] = model.DifficultyShare{Count: solved[k], Percentage: percent(solved[k], total)}
	}

	basic, easy, medium, hard := solved[DifficultyBasic], solved[DifficultyEasy], solved[DifficultyMedium], solved[DifficultyHard]
	return model.DifficultyAnalysis{
		Breakdown:       breakdown,
		DifficultyScore: basic + easy*2 + medium*5 + hard*10,
		Recommendation:  recommendation(easy, medium, hard, total),
		Level:           DifficultyLevel(easy, medium, hard),
	}
}

// DifficultyLevel 按 easy + medium*3 + hard*5 的加权分给出等级。
func DifficultyLevel(easy, medium, hard int) string {
	score := easy + medium*3 + hard*5
	switch {
	case score > 2000:
		return "Expert"
	case score > 1000:
		return "Advanced"
	case score > 500:
		return "Intermediate"
	case score > 100:
		return "Beginner"
	default:
		return "Novice"
	}
}

func recommendation(easy, medium, hard, total int) string {
	if total == 0 {
		return "Start with basic problems to build your foundation!"
	}
	easyPct := float64(easy) / float64(total) * 100
	mediumPct := float64(medium) / float64(total) * 100
	hardPct := float64(hard) / float64(total) * 100

	switch {
	case hardPct < 5 && total > 50:
		return "Try solving more hard problems to challenge yourself!"
	case mediumPct < 20 && total > 20:
		return "Focus on medium difficulty problems to build confidence."
	case easyPct > 80 && total > 30:
		return "Great foundation! Challenge yourself with harder problems."
	case hardPct > 30:
		return "Excellent! You're tackling challenging problems regularly."
	}
	return "Keep up the consistent practice across all difficulty levels!"
}

// ProfileFacts 是生成文字洞察所需的资料字段。
type ProfileFacts struct {
	Rank       int
	Streak     int
	ActiveDays int
}

// Insights 根据题量、排名、连续天数、难题比例和活跃天数生成文字洞察。
func Insights(solved map[string]int, facts ProfileFacts) []string {
	insights := []string{}
	total := solved[DifficultyBasic] + solved[DifficultyEasy] + solved[DifficultyMedium] + solved[DifficultyHard]

	switch {
	case total > 1000:
		insights = append(insights, "Problem Solving Legend! You've solved over 1000 problems!")
	case total > 500:
		insights = append(insights, "Problem Solving Master! You've solved over 500 problems.")
	case total > 100:
		insights = append(insights, "Great Progress! You're building strong problem-solving skills.")
	case total > 50:
		insights = append(insights, "Good Start! Keep practicing to improve further.")
	}

	switch {
	case facts.Rank > 0 && facts.Rank <= 1000:
		insights = append(insights, "Top Performer! You're among the top-ranked users.")
	case facts.Rank > 0 && facts.Rank <= 5000:
		insights = append(insights, "Strong Performance! You're in the top tier of users.")
	}

	switch {
	case facts.Streak > 50:
		insights = append(insights, "Incredible Streak! Your consistency is outstanding.")
	case facts.Streak > 20:
		insights = append(insights, "Great Streak! Keep up the consistent practice.")
	}

	hardPct := percent(solved[DifficultyHard], total)
	switch {
	case hardPct > 25:
		insights = append(insights, "Challenge Master! You tackle difficult problems regularly.")
	case hardPct > 15:
		insights = append(insights, "Challenge Seeker! You're comfortable with hard problems.")
	}

	switch {
	case facts.ActiveDays > 300:
		insights = append(insights, "Daily Coder! You practice almost every day.")
	case facts.ActiveDays > 200:
		insights = append(insights, "Consistent Coder! You maintain regular practice.")
	}
	return insights
}

// Metrics 把热力图统计压缩为 GFG 页面展示的活跃度指标。
func Metrics(stats model.AggregateStats) model.ActivityMetrics {
	return model.ActivityMetrics{
		TotalActiveDays:       stats.ActiveDays,
		TotalProblems:         stats.TotalSubmissions,
		AverageProblemsPerDay: stats.AverageSubmissionsPerDay,
		ActiveDaysPercentage:  stats.ActiveDaysPercentage,
		MaxProblemsInDay:      stats.MaxSubmissionsPerDay,
		CurrentStreak:         stats.CurrentStreak,
		MaxStreak:             stats.LongestStreak,
		WeeklyPattern:         stats.WeeklyPattern,
		ConsistencyScore:      stats.ConsistencyScore,
	}
}

// Completeness 返回非空字段所占百分比（取整）。
func Completeness(fields ...string) int {
	if len(fields) == 0 {
		return 0
	}
	filled := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			filled++
		}
	}
	return int(Round(float64(filled)/float64(len(fields))*100, 0))
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round(float64(part)/float64(total)*100, 1)
}
