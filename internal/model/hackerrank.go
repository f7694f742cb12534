package model

type HackerRankProfile struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Country   string `json:"country"`
	Company   string `json:"company"`
	School    string `json:"school"`
	CreatedAt string `json:"createdAt,omitempty"`
	Followers int    `json:"followers"`
	Following int    `json:"following"`
}

type HackerRankStatistics struct {
	TotalScore       float64 `json:"totalScore"`
	TopDomain        string  `json:"topDomain,omitempty"`
	TopDomainScore   float64 `json:"topDomainScore"`
	SolvedChallenges int     `json:"solvedChallenges"`
	TotalSubmissions int     `json:"totalSubmissions"`
	SuccessRate      float64 `json:"successRate"`
	Rank             string  `json:"rank,omitempty"`
	Level            string  `json:"level,omitempty"`
}

type HackerRankDomain struct {
	Name           string  `json:"name"`
	Score          float64 `json:"score"`
	Rank           string  `json:"rank,omitempty"`
	Level          string  `json:"level,omitempty"`
	ProblemsSolved int     `json:"problemsSolved"`
}

type HackerRankBadge struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Level       string `json:"level"`
	EarnedDate  string `json:"earnedDate,omitempty"`
}

type HackerRankSubmission struct {
	Challenge   string  `json:"challenge"`
	Status      string  `json:"status"`
	Score       float64 `json:"score"`
	Language    string  `json:"language"`
	SubmittedAt string  `json:"submittedAt,omitempty"`
}

type HackerRankExtras struct {
	Statistics           HackerRankStatistics   `json:"statistics"`
	Domains              []HackerRankDomain     `json:"domains"`
	Badges               []HackerRankBadge      `json:"badges"`
	ContestsParticipated int                    `json:"contestsParticipated"`
	RecentSubmissions    []HackerRankSubmission `json:"recentSubmissions"`
	Limited              bool                   `json:"limited"` // 只拿到了页面上的基础字段
}
