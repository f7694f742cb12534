package model

// CodeChefProfile 来自公开主页的抓取结果。
type CodeChefProfile struct {
	Rating               string         `json:"rating"`
	Stars                string         `json:"stars"`
	HighestRating        string         `json:"highestRating"`
	Institute            string         `json:"institute"`
	GlobalRank           string         `json:"globalRank"`
	CountryRank          string         `json:"countryRank"`
	TotalSolved          int            `json:"totalSolved"`
	TotalQuestionsCount  int            `json:"totalQuestionsCount"`
	ContestCount         int            `json:"contestCount"`
	DifficultyWiseSolved map[string]int `json:"difficultyWiseSolved"`
}

type CodeChefProblem struct {
	Code string `json:"code"`
	URL  string `json:"url"`
}

type CodeChefExtras struct {
	SolvedProblems []CodeChefProblem `json:"solvedProblems"`
}
