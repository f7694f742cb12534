package model

type CodeforcesProfile struct {
	Username      string `json:"username"`
	FullName      string `json:"fullName"`
	Rank          string `json:"rank"`
	MaxRank       string `json:"maxRank"`
	Rating        int    `json:"rating"`
	MaxRating     int    `json:"maxRating"`
	Country       string `json:"country"`
	Organization  string `json:"organization"`
	Contribution  int    `json:"contribution"`
	FriendOfCount int    `json:"friendOfCount"`
}

// RatingChange 对应 user.rating 中的一条记录。
type RatingChange struct {
	ContestID               int    `json:"contestId"`
	ContestName             string `json:"contestName"`
	Handle                  string `json:"handle"`
	Rank                    int    `json:"rank"`
	RatingUpdateTimeSeconds int64  `json:"ratingUpdateTimeSeconds"`
	OldRating               int    `json:"oldRating"`
	NewRating               int    `json:"newRating"`
}

type SolvedProblem struct {
	ProblemID           string   `json:"problemId"` // contestId-index
	ContestID           int      `json:"contestId"`
	Index               string   `json:"index"`
	Name                string   `json:"name"`
	Rating              int      `json:"rating,omitempty"`
	Tags                []string `json:"tags"`
	SolvedAt            string   `json:"solvedAt"`
	DaysAgo             int      `json:"daysAgo"`
	URL                 string   `json:"url"`
	ContestURL          string   `json:"contestUrl"`
	Difficulty          string   `json:"difficulty"`
	ProgrammingLanguage string   `json:"programmingLanguage"`
	TimeConsumedMillis  int      `json:"timeConsumedMillis"`
	MemoryConsumedBytes int64    `json:"memoryConsumedBytes"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type RecentSummary struct {
	Last7Days        int        `json:"last7Days"`
	Last30Days       int        `json:"last30Days"`
	AverageRating    float64    `json:"averageRating"`
	MostUsedLanguage string     `json:"mostUsedLanguage"`
	TopTags          []TagCount `json:"topTags"`
}

type RecentlySolved struct {
	Problems    []SolvedProblem `json:"problems"`
	TotalRecent int             `json:"totalRecent"`
	Summary     RecentSummary   `json:"summary"`
}

type CodeforcesExtras struct {
	RatingHistory   []RatingChange `json:"ratingHistory"`
	DifficultyStats map[string]int `json:"difficultyStats"`
	SolvedCount     int            `json:"solvedCount"`
	RecentlySolved  RecentlySolved `json:"recentlySolved"`
}
