package model

// LeetCodeProfile 是 LeetCode 公开资料。
type LeetCodeProfile struct {
	Username             string         `json:"username"`
	Name                 string         `json:"name"`
	Avatar               string         `json:"avatar"`
	School               string         `json:"school"`
	Country              string         `json:"country"`
	GlobalRanking        int            `json:"globalRanking"`
	TotalSolved          int            `json:"totalSolved"`
	DifficultyWiseSolved map[string]int `json:"difficultyWiseSolved"` // Easy/Medium/Hard
}

// QuestionCounts 是全站各难度的题目数量。
type QuestionCounts struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

type RecentSubmission struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Lang      string `json:"lang"`
	Timestamp string `json:"timestamp"` // RFC3339
}

type TopicTag struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// LeetCodeQuestion 同时用于题库列表和每日一题。
type LeetCodeQuestion struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	TitleSlug        string     `json:"titleSlug"`
	Difficulty       string     `json:"difficulty"`
	URL              string     `json:"url"`
	AcceptanceRate   string     `json:"acceptanceRate"`
	Status           string     `json:"status,omitempty"`
	IsSolved         bool       `json:"isSolved"`
	TopicTags        []TopicTag `json:"topicTags"`
	HasSolution      bool       `json:"hasSolution"`
	HasVideoSolution bool       `json:"hasVideoSolution"`
	IsPremium        bool       `json:"isPremium"`
	Date             string     `json:"date,omitempty"`
	UserStatus       string     `json:"userStatus,omitempty"`
	IsDailyChallenge bool       `json:"isDailyChallenge,omitempty"`
}

type LeetCodeExtras struct {
	QuestionCounts    *QuestionCounts    `json:"leetCodeStats"`
	RecentSolved      []RecentSubmission `json:"recentSolved"`
	LatestQuestions   []LeetCodeQuestion `json:"latestQuestions"`
	TrendingQuestions []LeetCodeQuestion `json:"trendingQuestions"`
}

// QuestionFilter 是题库分页和筛选条件。
type QuestionFilter struct {
	Difficulty string
	Category   string
	Limit      int
	Skip       int
}

type QuestionPage struct {
	Total     int                `json:"total"`
	Questions []LeetCodeQuestion `json:"questions"`
	Limit     int                `json:"limit"`
	Skip      int                `json:"skip"`
	HasMore   bool               `json:"hasMore"`
}

type CodeSnippet struct {
	Lang     string `json:"lang"`
	LangSlug string `json:"langSlug"`
	Code     string `json:"code"`
}

type DailyQuestion struct {
	LeetCodeQuestion
	Content          string        `json:"content"`
	Likes            int           `json:"likes"`
	Dislikes         int           `json:"dislikes"`
	CodeSnippets     []CodeSnippet `json:"codeSnippets"`
	SampleTestCase   string        `json:"sampleTestCase"`
	ExampleTestcases string        `json:"exampleTestcases"`
}

// DailyChallenge 是今天的每日一题。
type DailyChallenge struct {
	Date       string        `json:"date"`
	UserStatus string        `json:"userStatus"`
	Link       string        `json:"link"`
	Question   DailyQuestion `json:"question"`
}
