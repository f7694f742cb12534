package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/afumu/codash/internal/activity"
	"github.com/afumu/codash/internal/model"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

const (
	recentlySolvedLimit = 10
	topTagsLimit        = 5
)

// Codeforces 的活动数据来自完整的提交列表，没有日历接口。
type Codeforces struct {
	client *Client
	ep     Endpoints
	now    func() time.Time
}

type cfProblem struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Rating    int      `json:"rating"`
	Tags      []string `json:"tags"`
}

type cfSubmission struct {
	CreationTimeSeconds int64     `json:"creationTimeSeconds"`
	Verdict             string    `json:"verdict"`
	ProgrammingLanguage string    `json:"programmingLanguage"`
	TimeConsumedMillis  int       `json:"timeConsumedMillis"`
	MemoryConsumedBytes int64     `json:"memoryConsumedBytes"`
	Problem             cfProblem `json:"problem"`
}

func (p cfProblem) id() string {
	return fmt.Sprintf("%d-%s", p.ContestID, p.Index)
}

func (c *Codeforces) Platform() model.Platform { return model.Codeforces }

func (c *Codeforces) profileURL(username string) string {
	return fmt.Sprintf("%s/profile/%s", c.ep.CodeforcesWeb, username)
}

// call 请求 Codeforces API 并返回 result 字段。FAILED 且提示 not found 时返回 ErrUserNotFound。
func (c *Codeforces) call(ctx context.Context, base, method string, params url.Values) (gjson.Result, error) {
	body, err := c.client.GetJSON(ctx, model.Codeforces, fmt.Sprintf("%s/%s?%s", base, method, params.Encode()))
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && gjson.Valid(se.Body) {
			body = []byte(se.Body)
		} else {
			return gjson.Result{}, err
		}
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, unavailable("codeforces %s returned invalid json", method)
	}
	res := gjson.ParseBytes(body)
	if res.Get("status").String() != "OK" {
		comment := res.Get("comment").String()
		if strings.Contains(strings.ToLower(comment), "not found") {
			return gjson.Result{}, fmt.Errorf("codeforces: %s: %w", comment, ErrUserNotFound)
		}
		return gjson.Result{}, unavailable("codeforces %s: %s", method, comment)
	}
	return res.Get("result"), nil
}

// callWithMirror 在主站失败时改用镜像。用户不存在的结论不会再去镜像确认。
func (c *Codeforces) callWithMirror(ctx context.Context, method string, params url.Values) (gjson.Result, error) {
	res, err := c.call(ctx, c.ep.CodeforcesAPI, method, params)
	if err == nil || errors.Is(err, ErrUserNotFound) || c.ep.CodeforcesMirrorAPI == "" {
		return res, err
	}
	log.Warn().Err(err).Str("method", method).Msg("Codeforces 主站接口失败，尝试镜像")
	return c.call(ctx, c.ep.CodeforcesMirrorAPI, method, params)
}

func (c *Codeforces) FetchActivity(ctx context.Context, username string) Activity {
	status := func(base string) func(ctx context.Context) (model.ActivityMap, error) {
		return func(ctx context.Context) (model.ActivityMap, error) {
			res, err := c.call(ctx, base, "user.status", url.Values{"handle": {username}})
			if err != nil {
				return nil, err
			}
			cal, _ := Adapt(SubmissionList{Raw: res})
			return cal, nil
		}
	}
	attempts := []Attempt{{Name: "api", Fetch: status(c.ep.CodeforcesAPI)}}
	if c.ep.CodeforcesMirrorAPI != "" {
		attempts = append(attempts, Attempt{Name: "mirror-api", Fetch: status(c.ep.CodeforcesMirrorAPI)})
	}
	attempts = append(attempts, Attempt{Name: "submissions-page", Fetch: func(ctx context.Context) (model.ActivityMap, error) {
		doc, _, err := c.client.GetDocument(ctx, model.Codeforces, fmt.Sprintf("%s/submissions/%s", c.ep.CodeforcesWeb, username))
		if err != nil {
			return nil, err
		}
		return TableDates(doc), nil
	}})
	return RunChain(ctx, model.Codeforces, username, attempts)
}

func (c *Codeforces) FetchDetails(ctx context.Context, username string) (*Details, error) {
	profile := &model.CodeforcesProfile{Username: username}
	info, err := c.callWithMirror(ctx, "user.info", url.Values{"handles": {username}})
	switch {
	case errors.Is(err, ErrUserNotFound):
		return nil, err
	case err != nil:
		log.Warn().Err(err).Str("username", username).Msg("Codeforces 资料获取失败，返回空资料")
	case len(info.Array()) == 0:
		return nil, fmt.Errorf("codeforces %s: %w", username, ErrUserNotFound)
	default:
		profile = parseCodeforcesProfile(info.Get("0"))
	}

	var (
		d           = &Details{ProfileURL: c.profileURL(username), Profile: profile}
		extras      = &model.CodeforcesExtras{RatingHistory: []model.RatingChange{}}
		submissions gjson.Result
		g           errgroup.Group
	)
	g.Go(func() error {
		extras.RatingHistory = partial(ctx, "codeforces rating history", func(ctx context.Context) ([]model.RatingChange, error) {
			res, err := c.callWithMirror(ctx, "user.rating", url.Values{"handle": {username}})
			if err != nil {
				return nil, err
			}
			history := []model.RatingChange{}
			if err := json.Unmarshal([]byte(res.Raw), &history); err != nil {
				return nil, unavailable("decode rating history: %v", err)
			}
			return history, nil
		})
		return nil
	})
	g.Go(func() error {
		submissions = partial(ctx, "codeforces submissions", func(ctx context.Context) (gjson.Result, error) {
			return c.callWithMirror(ctx, "user.status", url.Values{"handle": {username}})
		})
		return nil
	})
	_ = g.Wait()
	if extras.RatingHistory == nil {
		extras.RatingHistory = []model.RatingChange{}
	}

	subs := decodeSubmissions(submissions)
	extras.DifficultyStats, extras.SolvedCount = difficultyStats(subs)
	extras.RecentlySolved = c.recentlySolved(subs)
	d.Extras = extras

	if cal, _ := Adapt(SubmissionList{Raw: submissions}); len(cal.ActiveDates()) > 0 {
		d.Activity = Activity{Calendar: cal, ActiveYears: cal.Years(), Source: "api"}
	} else {
		d.Activity = c.FetchActivity(ctx, username)
	}
	return d, nil
}

func parseCodeforcesProfile(u gjson.Result) *model.CodeforcesProfile {
	return &model.CodeforcesProfile{
		Username:      u.Get("handle").String(),
		FullName:      strings.TrimSpace(u.Get("firstName").String() + " " + u.Get("lastName").String()),
		Rank:          u.Get("rank").String(),
		MaxRank:       u.Get("maxRank").String(),
		Rating:        int(u.Get("rating").Int()),
		MaxRating:     int(u.Get("maxRating").Int()),
		Country:       u.Get("country").String(),
		Organization:  u.Get("organization").String(),
		Contribution:  int(u.Get("contribution").Int()),
		FriendOfCount: int(u.Get("friendOfCount").Int()),
	}
}

// decodeSubmissions 逐条解码，单条格式错误只跳过该条。
func decodeSubmissions(res gjson.Result) []cfSubmission {
	subs := []cfSubmission{}
	for _, item := range res.Array() {
		var s cfSubmission
		if err := json.Unmarshal([]byte(item.Raw), &s); err != nil {
			continue
		}
		subs = append(subs, s)
	}
	return subs
}

// difficultyLabel 按题目 rating 分档。
func difficultyLabel(rating int) string {
	switch {
	case rating <= 0:
		return "Unrated"
	case rating <= 1200:
		return "Easy"
	case rating <= 1800:
		return "Medium"
	case rating <= 2400:
		return "Hard"
	default:
		return "Very Hard"
	}
}

// difficultyStats 以 contestId-index 去重后统计通过题目的难度分布。
func difficultyStats(subs []cfSubmission) (map[string]int, int) {
	stats := map[string]int{
		"Easy (≤1200)":       0,
		"Medium (1201-1800)": 0,
		"Hard (1801-2400)":   0,
		"Very Hard (2401+)":  0,
		"Unrated":            0,
	}
	buckets := map[string]string{
		"Easy":      "Easy (≤1200)",
		"Medium":    "Medium (1201-1800)",
		"Hard":      "Hard (1801-2400)",
		"Very Hard": "Very Hard (2401+)",
		"Unrated":   "Unrated",
	}
	solved := map[string]struct{}{}
	for _, s := range subs {
		if s.Verdict != "OK" {
			continue
		}
		id := s.Problem.id()
		if _, ok := solved[id]; ok {
			continue
		}
		solved[id] = struct{}{}
		stats[buckets[difficultyLabel(s.Problem.Rating)]]++
	}
	return stats, len(solved)
}

func (c *Codeforces) recentlySolved(subs []cfSubmission) model.RecentlySolved {
	accepted := make([]cfSubmission, 0, len(subs))
	for _, s := range subs {
		if s.Verdict == "OK" {
			accepted = append(accepted, s)
		}
	}
	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].CreationTimeSeconds > accepted[j].CreationTimeSeconds
	})

	now := c.now().UTC()
	problems := []model.SolvedProblem{}
	seen := map[string]struct{}{}
	for _, s := range accepted {
		id := s.Problem.id()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		solvedAt := time.Unix(s.CreationTimeSeconds, 0).UTC()
		tags := s.Problem.Tags
		if tags == nil {
			tags = []string{}
		}
		problems = append(problems, model.SolvedProblem{
			ProblemID:           id,
			ContestID:           s.Problem.ContestID,
			Index:               s.Problem.Index,
			Name:                s.Problem.Name,
			Rating:              s.Problem.Rating,
			Tags:                tags,
			SolvedAt:            solvedAt.Format(time.RFC3339),
			DaysAgo:             int(now.Sub(solvedAt).Hours() / 24),
			URL:                 fmt.Sprintf("%s/problemset/problem/%d/%s", c.ep.CodeforcesWeb, s.Problem.ContestID, s.Problem.Index),
			ContestURL:          fmt.Sprintf("%s/contest/%d", c.ep.CodeforcesWeb, s.Problem.ContestID),
			Difficulty:          difficultyLabel(s.Problem.Rating),
			ProgrammingLanguage: s.ProgrammingLanguage,
			TimeConsumedMillis:  s.TimeConsumedMillis,
			MemoryConsumedBytes: s.MemoryConsumedBytes,
		})
		if len(problems) == recentlySolvedLimit {
			break
		}
	}

	return model.RecentlySolved{
		Problems:    problems,
		TotalRecent: len(problems),
		Summary:     summarizeSolved(problems),
	}
}

func summarizeSolved(problems []model.SolvedProblem) model.RecentSummary {
	summary := model.RecentSummary{MostUsedLanguage: "N/A", TopTags: []model.TagCount{}}
	var ratingSum, rated int
	langs := map[string]int{}
	tags := map[string]int{}
	for _, p := range problems {
		if p.DaysAgo <= 7 {
			summary.Last7Days++
		}
		if p.DaysAgo <= 30 {
			summary.Last30Days++
		}
		if p.Rating > 0 {
			ratingSum += p.Rating
			rated++
		}
		if p.ProgrammingLanguage != "" {
			langs[p.ProgrammingLanguage]++
		}
		for _, t := range p.Tags {
			tags[t]++
		}
	}
	if rated > 0 {
		summary.AverageRating = activity.Round(float64(ratingSum)/float64(rated), 2)
	}
	if top := rankCounts(langs); len(top) > 0 {
		summary.MostUsedLanguage = top[0].Tag
	}
	top := rankCounts(tags)
	if len(top) > topTagsLimit {
		top = top[:topTagsLimit]
	}
	summary.TopTags = top
	return summary
}

// rankCounts 按次数降序排列，次数相同按名称升序。
func rankCounts(m map[string]int) []model.TagCount {
	out := make([]model.TagCount, 0, len(m))
	for k, v := range m {
		out = append(out, model.TagCount{Tag: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}
