package model

// GFGProfile 合并接口资料和可选的主页抓取结果。
type GFGProfile struct {
	Username            string   `json:"username"`
	FullName            string   `json:"fullName"`
	Institution         string   `json:"institution"`
	Rank                int      `json:"rank"`
	Score               int      `json:"score"`
	Streak              int      `json:"streak"`
	TotalProblemsSolved int      `json:"totalProblemsSolved"`
	TotalQuestionsCount int      `json:"totalQuestionsCount"`
	ProfileImageURL     string   `json:"profileImageUrl,omitempty"`
	Bio                 string   `json:"bio,omitempty"`
	Location            string   `json:"location,omitempty"`
	JoinDate            string   `json:"joinDate,omitempty"`
	Badges              []string `json:"badges"`
	Following           int      `json:"following"`
	Followers           int      `json:"followers"`
	ProfileCompleteness int      `json:"profileCompleteness"`
}

// GFGEnhancedProfile 是只有主页上才有的字段。
type GFGEnhancedProfile struct {
	ProfileImageURL string            `json:"profileImageUrl"`
	Bio             string            `json:"bio"`
	Location        string            `json:"location"`
	JoinDate        string            `json:"joinDate"`
	Following       int               `json:"following"`
	Followers       int               `json:"followers"`
	Badges          []string          `json:"badges"`
	SocialLinks     map[string]string `json:"socialLinks"`
}

type GFGExtras struct {
	SolvedStats        map[string]int     `json:"solvedStats"` // basic/easy/medium/hard
	Insights           []string           `json:"insights"`
	DifficultyAnalysis DifficultyAnalysis `json:"difficultyAnalysis"`
	ActivityMetrics    ActivityMetrics    `json:"activityMetrics"`
}

type GFGSummary struct {
	TotalProblems int    `json:"totalProblems"`
	Rank          int    `json:"rank"`
	Score         int    `json:"score"`
	Streak        int    `json:"streak"`
	Level         string `json:"level"`
}

// GFGInsights 是单独的学习洞察响应。
type GFGInsights struct {
	Username           string             `json:"username"`
	Insights           []string           `json:"insights"`
	DifficultyAnalysis DifficultyAnalysis `json:"difficultyAnalysis"`
	ActivityMetrics    ActivityMetrics    `json:"activityMetrics"`
	Summary            GFGSummary         `json:"summary"`
}
