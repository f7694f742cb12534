package source

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/afumu/codash/internal/model"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

const (
	leetCodeProfileQuery = `query getUserProfile($username: String!) {
  matchedUser(username: $username) {
    username
    profile { realName userAvatar school countryName ranking }
    submitStatsGlobal { acSubmissionNum { difficulty count } }
  }
}`
	leetCodeCalendarQuery = `query userCalendar($username: String!) {
  matchedUser(username: $username) {
    userCalendar { activeYears submissionCalendar }
  }
}`
	leetCodeYearCalendarQuery = `query userCalendarYear($username: String!, $year: Int!) {
  matchedUser(username: $username) {
    userCalendar(year: $year) { submissionCalendar }
  }
}`
	leetCodeQuestionListQuery = `query problemsetQuestionList($categorySlug: String, $limit: Int, $skip: Int, $filters: QuestionListFilterInput) {
  problemsetQuestionList: questionList(categorySlug: $categorySlug, limit: $limit, skip: $skip, filters: $filters) {
    total: totalNum
    questions: data {
      acRate difficulty frontendQuestionId: questionFrontendId paidOnly: isPaidOnly
      status title titleSlug topicTags { name slug } hasSolution hasVideoSolution
    }
  }
}`
	leetCodeDailyRecordsQuery = `query dailyCodingQuestionRecords($year: Int!, $month: Int!) {
  dailyCodingChallengeV2(year: $year, month: $month) {
    challenges {
      date userStatus link
      question { questionFrontendId title titleSlug difficulty acRate topicTags { name slug } isPaidOnly }
    }
  }
}`
	leetCodeQuestionCountsQuery = `query questionCounts { allQuestionsCount { difficulty count } }`
	leetCodeDailyQuery          = `query questionOfToday {
  activeDailyCodingChallengeQuestion {
    date userStatus link
    question {
      questionFrontendId title titleSlug content difficulty acRate likes dislikes
      topicTags { name slug } codeSnippets { lang langSlug code }
      sampleTestCase exampleTestcases isPaidOnly
    }
  }
}`

	latestQuestionsLimit   = 20
	trendingQuestionsLimit = 10
	recentSolvedLimit      = 10
)

var nextDataRe = regexp.MustCompile(`(?s)<script id="__NEXT_DATA__" type="application/json"[^>]*>(.+?)</script>`)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// LeetCode 通过 GraphQL 获取数据，失败时回退到第三方日历接口和个人主页。
type LeetCode struct {
	client *Client
	ep     Endpoints
	now    func() time.Time
}

func (l *LeetCode) Platform() model.Platform { return model.LeetCode }

func (l *LeetCode) profileURL(username string) string {
	return fmt.Sprintf("%s/%s/", l.ep.LeetCodeWeb, username)
}

func (l *LeetCode) graphql(ctx context.Context, query string, vars map[string]any) (gjson.Result, error) {
	body, err := l.client.PostJSON(ctx, model.LeetCode, l.ep.LeetCodeGraphQL, graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, unavailable("leetcode graphql returned invalid json")
	}
	res := gjson.ParseBytes(body)
	data := res.Get("data")
	if !data.Exists() || data.Type == gjson.Null {
		return gjson.Result{}, unavailable("leetcode graphql: %s", res.Get("errors.0.message").String())
	}
	return data, nil
}

// FetchActivity 的日历覆盖所有活跃年份；ActiveYears 在观测到的年份更多时以观测为准。
func (l *LeetCode) FetchActivity(ctx context.Context, username string) Activity {
	var reported []int
	act := RunChain(ctx, model.LeetCode, username, []Attempt{
		{Name: "graphql", Fetch: func(ctx context.Context) (model.ActivityMap, error) {
			cal, years, err := l.graphqlCalendar(ctx, username)
			reported = years
			return cal, err
		}},
		{Name: "calendar-api", Fetch: func(ctx context.Context) (model.ActivityMap, error) {
			body, err := l.client.GetJSON(ctx, model.LeetCode, fmt.Sprintf(l.ep.LeetCodeCalendarAPI, username))
			if err != nil {
				return nil, err
			}
			return AdaptJSON(body, "submissionCalendar", "data.submissionCalendar", "calendar")
		}},
		{Name: "profile-page", Fetch: func(ctx context.Context) (model.ActivityMap, error) {
			return l.scrapeProfile(ctx, username)
		}},
	})
	act.ActiveYears = reconcileYears(reported, act.Calendar.Years())
	return act
}

func (l *LeetCode) graphqlCalendar(ctx context.Context, username string) (model.ActivityMap, []int, error) {
	data, err := l.graphql(ctx, leetCodeCalendarQuery, map[string]any{"username": username})
	if err != nil {
		return nil, nil, err
	}
	uc := data.Get("matchedUser.userCalendar")
	if !uc.Exists() {
		return nil, nil, unavailable("leetcode calendar missing for %s", username)
	}

	var years []int
	for _, y := range uc.Get("activeYears").Array() {
		years = append(years, int(y.Int()))
	}

	cal, err := AdaptJSON([]byte(uc.Raw), "submissionCalendar")
	if err != nil {
		cal = model.ActivityMap{}
	}
	// 默认日历只覆盖最近一年，逐年补齐历史数据，已有日期不覆盖
	for _, year := range years {
		yearCal := partial(ctx, fmt.Sprintf("leetcode calendar %d", year), func(ctx context.Context) (model.ActivityMap, error) {
			d, err := l.graphql(ctx, leetCodeYearCalendarQuery, map[string]any{"username": username, "year": year})
			if err != nil {
				return nil, err
			}
			return AdaptJSON([]byte(d.Get("matchedUser.userCalendar").Raw), "submissionCalendar")
		})
		for day, n := range yearCal {
			if strings.HasPrefix(day, fmt.Sprintf("%04d-", year)) {
				if _, ok := cal[day]; !ok {
					cal.Add(day, n)
				}
			}
		}
	}
	return cal, years, nil
}

func (l *LeetCode) scrapeProfile(ctx context.Context, username string) (model.ActivityMap, error) {
	doc, html, err := l.client.GetDocument(ctx, model.LeetCode, l.profileURL(username))
	if err != nil {
		return nil, err
	}
	if next, ok := scriptJSON(html, nextDataRe); ok {
		cal, err := AdaptJSON([]byte(next.Raw),
			"props.pageProps.profileData.submissionCalendar",
			"props.pageProps.submissionCalendar",
		)
		if err == nil && len(cal) > 0 {
			return cal, nil
		}
	}
	return ScrapeActivity(doc), nil
}

// reconcileYears 在观测到的年份多于平台报告的年份时使用观测值。
func reconcileYears(reported, observed []int) []int {
	years := reported
	if len(observed) > len(reported) {
		years = observed
	}
	out := append([]int{}, years...)
	sort.Ints(out)
	return out
}

// FetchDetails 先确认用户存在，再并发获取日历和各项补充数据。
func (l *LeetCode) FetchDetails(ctx context.Context, username string) (*Details, error) {
	profile, err := l.fetchProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	var (
		d      = &Details{ProfileURL: l.profileURL(username), Profile: profile}
		extras = &model.LeetCodeExtras{}
		g      errgroup.Group
	)
	g.Go(func() error {
		d.Activity = l.FetchActivity(ctx, username)
		return nil
	})
	g.Go(func() error {
		extras.QuestionCounts = partial(ctx, "leetcode question counts", l.QuestionCounts)
		return nil
	})
	g.Go(func() error {
		extras.RecentSolved = partial(ctx, "leetcode recent submissions", func(ctx context.Context) ([]model.RecentSubmission, error) {
			return l.recentSolved(ctx, username)
		})
		return nil
	})
	g.Go(func() error {
		extras.LatestQuestions = partial(ctx, "leetcode latest questions", l.latestQuestions)
		return nil
	})
	g.Go(func() error {
		extras.TrendingQuestions = partial(ctx, "leetcode trending questions", l.trendingQuestions)
		return nil
	})
	_ = g.Wait()

	if extras.RecentSolved == nil {
		extras.RecentSolved = []model.RecentSubmission{}
	}
	if extras.LatestQuestions == nil {
		extras.LatestQuestions = []model.LeetCodeQuestion{}
	}
	if extras.TrendingQuestions == nil {
		extras.TrendingQuestions = []model.LeetCodeQuestion{}
	}
	d.Extras = extras
	return d, nil
}

func (l *LeetCode) fetchProfile(ctx context.Context, username string) (*model.LeetCodeProfile, error) {
	profile := &model.LeetCodeProfile{Username: username, DifficultyWiseSolved: map[string]int{"Easy": 0, "Medium": 0, "Hard": 0}}

	data, err := l.graphql(ctx, leetCodeProfileQuery, map[string]any{"username": username})
	if err != nil {
		// 资料接口不可用不等于用户不存在
		log.Warn().Err(err).Str("username", username).Msg("LeetCode 资料获取失败，返回空资料")
		return profile, nil
	}
	user := data.Get("matchedUser")
	if !user.Exists() || user.Type == gjson.Null {
		return nil, fmt.Errorf("leetcode %s: %w", username, ErrUserNotFound)
	}

	profile.Username = user.Get("username").String()
	profile.Name = user.Get("profile.realName").String()
	profile.Avatar = user.Get("profile.userAvatar").String()
	profile.School = user.Get("profile.school").String()
	profile.Country = user.Get("profile.countryName").String()
	profile.GlobalRanking = int(user.Get("profile.ranking").Int())
	for _, s := range user.Get("submitStatsGlobal.acSubmissionNum").Array() {
		difficulty, count := s.Get("difficulty").String(), int(s.Get("count").Int())
		if difficulty == "All" {
			profile.TotalSolved = count
			continue
		}
		profile.DifficultyWiseSolved[difficulty] = count
	}
	return profile, nil
}

// QuestionCounts 返回全站各难度题目数量。
func (l *LeetCode) QuestionCounts(ctx context.Context) (*model.QuestionCounts, error) {
	data, err := l.graphql(ctx, leetCodeQuestionCountsQuery, nil)
	if err != nil {
		return nil, err
	}
	counts := &model.QuestionCounts{}
	for _, c := range data.Get("allQuestionsCount").Array() {
		n := int(c.Get("count").Int())
		switch c.Get("difficulty").String() {
		case "Easy":
			counts.Easy = n
		case "Medium":
			counts.Medium = n
		case "Hard":
			counts.Hard = n
		}
	}
	return counts, nil
}

func (l *LeetCode) recentSolved(ctx context.Context, username string) ([]model.RecentSubmission, error) {
	_, html, err := l.client.GetDocument(ctx, model.LeetCode, l.profileURL(username))
	if err != nil {
		return nil, err
	}
	next, ok := scriptJSON(html, nextDataRe)
	if !ok {
		return nil, unavailable("leetcode profile page has no __NEXT_DATA__")
	}

	recent := []model.RecentSubmission{}
	for _, item := range next.Get("props.pageProps.profileData.recentSubmissionList").Array() {
		if item.Get("statusDisplay").String() != "Accepted" {
			continue
		}
		recent = append(recent, model.RecentSubmission{
			Title:     item.Get("title").String(),
			URL:       fmt.Sprintf("%s/problems/%s/", l.ep.LeetCodeWeb, item.Get("titleSlug").String()),
			Lang:      item.Get("lang").String(),
			Timestamp: time.Unix(item.Get("timestamp").Int(), 0).UTC().Format(time.RFC3339),
		})
		if len(recent) == recentSolvedLimit {
			break
		}
	}
	return recent, nil
}

func (l *LeetCode) latestQuestions(ctx context.Context) ([]model.LeetCodeQuestion, error) {
	page, err := l.ListQuestions(ctx, model.QuestionFilter{Limit: 50})
	if err != nil {
		return nil, err
	}
	out := []model.LeetCodeQuestion{}
	for _, q := range page.Questions {
		if q.IsPremium {
			continue
		}
		out = append(out, q)
		if len(out) == latestQuestionsLimit {
			break
		}
	}
	return out, nil
}

func (l *LeetCode) trendingQuestions(ctx context.Context) ([]model.LeetCodeQuestion, error) {
	now := l.now().UTC()
	data, err := l.graphql(ctx, leetCodeDailyRecordsQuery, map[string]any{"year": now.Year(), "month": int(now.Month())})
	if err != nil {
		return nil, err
	}
	out := []model.LeetCodeQuestion{}
	for _, c := range data.Get("dailyCodingChallengeV2.challenges").Array() {
		q := c.Get("question")
		if !q.Exists() || q.Get("isPaidOnly").Bool() {
			continue
		}
		question := l.question(q)
		question.Date = c.Get("date").String()
		question.UserStatus = c.Get("userStatus").String()
		question.IsDailyChallenge = true
		out = append(out, question)
		if len(out) == trendingQuestionsLimit {
			break
		}
	}
	return out, nil
}

// ListQuestions 按难度和标签分页查询题库。
func (l *LeetCode) ListQuestions(ctx context.Context, f model.QuestionFilter) (*model.QuestionPage, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Skip < 0 {
		f.Skip = 0
	}
	filters := map[string]any{}
	if f.Difficulty != "" {
		filters["difficulty"] = strings.ToUpper(f.Difficulty)
	}
	if f.Category != "" {
		filters["tags"] = []string{f.Category}
	}

	data, err := l.graphql(ctx, leetCodeQuestionListQuery, map[string]any{
		"categorySlug": "",
		"limit":        f.Limit,
		"skip":         f.Skip,
		"filters":      filters,
	})
	if err != nil {
		return nil, err
	}
	list := data.Get("problemsetQuestionList")
	if !list.Exists() || list.Type == gjson.Null {
		return nil, unavailable("leetcode question list missing")
	}

	page := &model.QuestionPage{
		Total:     int(list.Get("total").Int()),
		Questions: []model.LeetCodeQuestion{},
		Limit:     f.Limit,
		Skip:      f.Skip,
	}
	for _, q := range list.Get("questions").Array() {
		page.Questions = append(page.Questions, l.question(q))
	}
	page.HasMore = f.Skip+f.Limit < page.Total
	return page, nil
}

// DailyChallenge 返回今日每日一题。
func (l *LeetCode) DailyChallenge(ctx context.Context) (*model.DailyChallenge, error) {
	data, err := l.graphql(ctx, leetCodeDailyQuery, nil)
	if err != nil {
		return nil, err
	}
	d := data.Get("activeDailyCodingChallengeQuestion")
	if !d.Exists() || d.Type == gjson.Null {
		return nil, unavailable("leetcode daily challenge missing")
	}

	q := d.Get("question")
	daily := &model.DailyChallenge{
		Date:       d.Get("date").String(),
		UserStatus: d.Get("userStatus").String(),
		Link:       d.Get("link").String(),
		Question: model.DailyQuestion{
			LeetCodeQuestion: l.question(q),
			Content:          q.Get("content").String(),
			Likes:            int(q.Get("likes").Int()),
			Dislikes:         int(q.Get("dislikes").Int()),
			SampleTestCase:   q.Get("sampleTestCase").String(),
			ExampleTestcases: q.Get("exampleTestcases").String(),
			CodeSnippets:     []model.CodeSnippet{},
		},
	}
	for _, s := range q.Get("codeSnippets").Array() {
		daily.Question.CodeSnippets = append(daily.Question.CodeSnippets, model.CodeSnippet{
			Lang:     s.Get("lang").String(),
			LangSlug: s.Get("langSlug").String(),
			Code:     s.Get("code").String(),
		})
	}
	return daily, nil
}

func (l *LeetCode) question(q gjson.Result) model.LeetCodeQuestion {
	id := q.Get("frontendQuestionId")
	if !id.Exists() {
		id = q.Get("questionFrontendId")
	}
	premium := q.Get("paidOnly")
	if !premium.Exists() {
		premium = q.Get("isPaidOnly")
	}
	slug := q.Get("titleSlug").String()

	out := model.LeetCodeQuestion{
		ID:               id.String(),
		Title:            q.Get("title").String(),
		TitleSlug:        slug,
		Difficulty:       q.Get("difficulty").String(),
		URL:              fmt.Sprintf("%s/problems/%s/", l.ep.LeetCodeWeb, slug),
		AcceptanceRate:   fmt.Sprintf("%.1f", q.Get("acRate").Float()),
		Status:           q.Get("status").String(),
		IsSolved:         q.Get("status").String() == "ac",
		HasSolution:      q.Get("hasSolution").Bool(),
		HasVideoSolution: q.Get("hasVideoSolution").Bool(),
		IsPremium:        premium.Bool(),
		TopicTags:        []model.TopicTag{},
	}
	for _, t := range q.Get("topicTags").Array() {
		out.TopicTags = append(out.TopicTags, model.TopicTag{Name: t.Get("name").String(), Slug: t.Get("slug").String()})
	}
	return out
}
