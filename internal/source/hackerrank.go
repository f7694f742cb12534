package source

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/afumu/codash/internal/activity"
	"github.com/afumu/codash/internal/model"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

const recentSubmissionLimit = 10

// 页面内嵌状态的几种已知写法，按顺序尝试。
var hackerRankStateRes = []*regexp.Regexp{
	regexp.MustCompile(`(?s)window\.__PRELOADED_STATE__\s*=\s*(\{.+?\});?\s*</script>`),
	regexp.MustCompile(`(?s)window\.__INITIAL_STATE__\s*=\s*(\{.+?\});?\s*</script>`),
	regexp.MustCompile(`(?s)window\.REDUX_STATE\s*=\s*(\{.+?\});?\s*</script>`),
	regexp.MustCompile(`(?s)window\.__APP_STATE__\s*=\s*(\{.+?\});?\s*</script>`),
	regexp.MustCompile(`(?s)<script[^>]*type="application/ld\+json"[^>]*>\s*(\{.+?\})\s*</script>`),
}

type HackerRank struct {
	client *Client
	ep     Endpoints
}

func (h *HackerRank) Platform() model.Platform { return model.HackerRank }

func (h *HackerRank) profileURL(username string) string {
	return fmt.Sprintf("%s/profile/%s", h.ep.HackerRankWeb, username)
}

func (h *HackerRank) FetchActivity(ctx context.Context, username string) Activity {
	return RunChain(ctx, model.HackerRank, username, []Attempt{
		{Name: "submission-histories", Fetch: func(ctx context.Context) (model.ActivityMap, error) {
			body, err := h.client.GetJSON(ctx, model.HackerRank, fmt.Sprintf("%s/rest/hackers/%s/submission_histories", h.ep.HackerRankWeb, username))
			if err != nil {
				return nil, err
			}
			return AdaptJSON(body, "", "models")
		}},
		{Name: "profile-page", Fetch: func(ctx context.Context) (model.ActivityMap, error) {
			doc, _, err := h.client.GetDocument(ctx, model.HackerRank, h.profileURL(username))
			if err != nil {
				return nil, err
			}
			return ScrapeActivity(doc), nil
		}},
	})
}

// FetchDetails 优先使用 REST 资料接口，附加信息来自页面内嵌状态。
// 两者都拿不到时退回到页面上的基础字段，并标记为 Limited。
func (h *HackerRank) FetchDetails(ctx context.Context, username string) (*Details, error) {
	var (
		profile          *model.HackerRankProfile
		restErr, pageErr error
		doc              *goquery.Document
		html             []byte
		act              Activity
		eg               errgroup.Group
	)
	eg.Go(func() error {
		profile, restErr = h.restProfile(ctx, username)
		return nil
	})
	eg.Go(func() error {
		doc, html, pageErr = h.client.GetDocument(ctx, model.HackerRank, h.profileURL(username))
		return nil
	})
	eg.Go(func() error {
		act = h.FetchActivity(ctx, username)
		return nil
	})
	_ = eg.Wait()

	if IsNotFound(restErr) || (restErr != nil && IsNotFound(pageErr)) {
		return nil, fmt.Errorf("hackerrank %s: %w", username, ErrUserNotFound)
	}
	if restErr != nil {
		log.Warn().Err(restErr).Str("username", username).Msg("HackerRank REST 资料获取失败，改用页面数据")
	}

	extras := &model.HackerRankExtras{
		Domains:           []model.HackerRankDomain{},
		Badges:            []model.HackerRankBadge{},
		RecentSubmissions: []model.HackerRankSubmission{},
	}
	if pageErr == nil {
		if state, ok := pageState(html); ok {
			user := state.Get("user")
			if !user.Exists() {
				user = state
			}
			if profile == nil {
				profile = hackerRankUser(user)
			}
			fillExtras(extras, state, user)
		} else if profile == nil {
			profile = basicProfile(doc, username)
			if profile == nil {
				return nil, fmt.Errorf("hackerrank %s: %w", username, ErrUserNotFound)
			}
			extras.Limited = true
		}
	}
	if profile == nil {
		log.Warn().Err(pageErr).Str("username", username).Msg("HackerRank 页面获取失败，返回空资料")
		profile = &model.HackerRankProfile{Username: username}
		extras.Limited = true
	}

	return &Details{
		ProfileURL: h.profileURL(username),
		Profile:    profile,
		Extras:     extras,
		Activity:   act,
	}, nil
}

func (h *HackerRank) restProfile(ctx context.Context, username string) (*model.HackerRankProfile, error) {
	body, err := h.client.GetJSON(ctx, model.HackerRank, fmt.Sprintf("%s/rest/contests/master/hackers/%s/profile", h.ep.HackerRankWeb, username))
	if err != nil {
		return nil, err
	}
	m := gjson.GetBytes(body, "model")
	if !m.Exists() || m.Get("username").String() == "" {
		return nil, ErrUnrecognizedShape
	}
	return hackerRankUser(m), nil
}

// pageState 返回内嵌状态中描述用户的那一段。
func pageState(html []byte) (gjson.Result, bool) {
	for _, re := range hackerRankStateRes {
		m := re.FindSubmatch(html)
		if m == nil || !gjson.ValidBytes(m[1]) {
			continue
		}
		parsed := gjson.ParseBytes(m[1])
		for _, path := range []string{"profile", "pageProps.profile"} {
			if v := parsed.Get(path); v.IsObject() {
				return v, true
			}
		}
		if v := parsed.Get("user"); v.IsObject() && v.Get("username").String() != "" {
			return parsed, true
		}
		var first gjson.Result
		parsed.Get("entities.users").ForEach(func(_, v gjson.Result) bool {
			first = v
			return false
		})
		if first.Get("username").String() != "" {
			return first, true
		}
	}
	return gjson.Result{}, false
}

func hackerRankUser(u gjson.Result) *model.HackerRankProfile {
	return &model.HackerRankProfile{
		Username:  u.Get("username").String(),
		Name:      firstNonEmpty(u.Get("name").String(), u.Get("display_name").String()),
		Avatar:    firstNonEmpty(u.Get("avatar").String(), u.Get("profile_image").String()),
		Country:   u.Get("country").String(),
		Company:   u.Get("company").String(),
		School:    u.Get("school").String(),
		CreatedAt: u.Get("created_at").String(),
		Followers: int(u.Get("followers_count").Int()),
		Following: int(u.Get("following_count").Int()),
	}
}

func fillExtras(x *model.HackerRankExtras, state, user gjson.Result) {
	top := -1
	for _, d := range state.Get("leaderboard.domains").Array() {
		domain := model.HackerRankDomain{
			Name:           d.Get("name").String(),
			Score:          d.Get("score").Float(),
			Rank:           d.Get("rank").String(),
			Level:          d.Get("level").String(),
			ProblemsSolved: int(d.Get("problems_solved").Int()),
		}
		x.Domains = append(x.Domains, domain)
		x.Statistics.TotalScore += domain.Score
		if top < 0 || domain.Score > x.Domains[top].Score {
			top = len(x.Domains) - 1
		}
	}
	if top >= 0 {
		x.Statistics.TopDomain = x.Domains[top].Name
		x.Statistics.TopDomainScore = x.Domains[top].Score
	}

	for _, b := range state.Get("badges").Array() {
		x.Badges = append(x.Badges, model.HackerRankBadge{
			Name:        b.Get("name").String(),
			Description: b.Get("description").String(),
			Level:       b.Get("level").String(),
			EarnedDate:  b.Get("earned_date").String(),
		})
	}

	subs := state.Get("submissions").Array()
	for i, s := range subs {
		if strings.EqualFold(s.Get("status").String(), "accepted") {
			x.Statistics.SolvedChallenges++
		}
		if i < recentSubmissionLimit {
			x.RecentSubmissions = append(x.RecentSubmissions, model.HackerRankSubmission{
				Challenge:   s.Get("challenge_name").String(),
				Status:      s.Get("status").String(),
				Score:       s.Get("score").Float(),
				Language:    s.Get("language").String(),
				SubmittedAt: s.Get("submitted_at").String(),
			})
		}
	}
	x.Statistics.TotalSubmissions = len(subs)
	if len(subs) > 0 {
		x.Statistics.SuccessRate = activity.Round(float64(x.Statistics.SolvedChallenges)/float64(len(subs))*100, 1)
	}
	x.Statistics.Rank = user.Get("rank").String()
	x.Statistics.Level = user.Get("level").String()
	x.ContestsParticipated = len(state.Get("contests").Array())
}

// basicProfile 从页面结构中读取名字和头像，两者都没有时返回 nil。
func basicProfile(doc *goquery.Document, username string) *model.HackerRankProfile {
	name := firstNonEmpty(firstText(doc, "h1.profile-heading"), firstText(doc, "div.username"))
	avatar, _ := doc.Find(`img[src*="avatar"]`).First().Attr("src")
	if avatar == "" {
		avatar, _ = doc.Find("img.avatar").First().Attr("src")
	}
	if name == "" && avatar == "" {
		return nil
	}
	return &model.HackerRankProfile{Username: username, Name: name, Avatar: avatar}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
