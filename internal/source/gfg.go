package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/afumu/codash/internal/activity"
	"github.com/afumu/codash/internal/model"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// GFG 的资料和日历来自社区维护的 geeks-for-geeks-api，个人主页只作为补充。
type GFG struct {
	client *Client
	ep     Endpoints
	now    func() time.Time
}

func (g *GFG) Platform() model.Platform { return model.GFG }

func (g *GFG) profileURL(username string) string {
	return fmt.Sprintf("%s/user/%s", g.ep.GFGWeb, username)
}

// FetchActivity 获取当年的日历。
func (g *GFG) FetchActivity(ctx context.Context, username string) Activity {
	return g.FetchActivityYears(ctx, username, nil)
}

// FetchActivityYears 逐年请求日历接口并合并，个人主页只作为兜底。
func (g *GFG) FetchActivityYears(ctx context.Context, username string, years []int) Activity {
	if len(years) == 0 {
		years = []int{g.now().UTC().Year()}
	}
	return RunChain(ctx, model.GFG, username, []Attempt{
		{Name: "calendar-api", Fetch: func(ctx context.Context) (model.ActivityMap, error) {
			return g.calendarYears(ctx, username, years)
		}},
		{Name: "profile-page", Fetch: func(ctx context.Context) (model.ActivityMap, error) {
			doc, _, err := g.client.GetDocument(ctx, model.GFG, g.profileURL(username))
			if err != nil {
				return nil, err
			}
			return ScrapeActivity(doc), nil
		}},
	})
}

// calendarYears 只要有一年成功就返回合并结果，全部失败时返回最后一个错误。
func (g *GFG) calendarYears(ctx context.Context, username string, years []int) (model.ActivityMap, error) {
	merged := model.ActivityMap{}
	var lastErr error
	ok := false
	for _, year := range years {
		body, err := g.client.GetJSON(ctx, model.GFG, fmt.Sprintf("%s/%s/calendar?year=%d", g.ep.GFGAPI, username, year))
		if err == nil {
			var cal model.ActivityMap
			if cal, err = AdaptJSON(body, "calendar", "data", ""); err == nil {
				merged.Merge(cal)
				ok = true
				continue
			}
		}
		log.Debug().Err(err).Str("username", username).Int("year", year).Msg("GFG 日历获取失败")
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	if !ok {
		return nil, lastErr
	}
	return merged, nil
}

func (g *GFG) FetchDetails(ctx context.Context, username string) (*Details, error) {
	profile := &model.GFGProfile{Username: username, Badges: []string{}}
	solved := map[string]int{}

	body, err := g.client.GetJSON(ctx, model.GFG, fmt.Sprintf("%s/%s", g.ep.GFGAPI, username))
	switch {
	case IsNotFound(err):
		return nil, fmt.Errorf("gfg %s: %w", username, ErrUserNotFound)
	case err != nil:
		log.Warn().Err(err).Str("username", username).Msg("GFG 资料获取失败，返回空资料")
	case !gjson.ValidBytes(body):
		log.Warn().Str("username", username).Msg("GFG 资料不是合法的 JSON")
	default:
		info := gjson.GetBytes(body, "info")
		if info.Get("userName").String() == "" {
			return nil, fmt.Errorf("gfg %s: %w", username, ErrUserNotFound)
		}
		profile.Username = info.Get("userName").String()
		profile.FullName = info.Get("fullName").String()
		profile.Institution = info.Get("institution").String()
		profile.Rank = cast.ToInt(info.Get("rank").Value())
		profile.Score = cast.ToInt(info.Get("score").Value())
		profile.Streak = cast.ToInt(info.Get("streak").Value())
		profile.TotalProblemsSolved = cast.ToInt(info.Get("totalSolved").Value())
		solved = parseSolvedStats(gjson.GetBytes(body, "solvedStats"))
	}
	profile.TotalQuestionsCount = totalSolved(solved)

	var (
		act      Activity
		enhanced *model.GFGEnhancedProfile
		eg       errgroup.Group
	)
	eg.Go(func() error {
		act = g.FetchActivity(ctx, username)
		return nil
	})
	eg.Go(func() error {
		enhanced = partial(ctx, "gfg enhanced profile", func(ctx context.Context) (*model.GFGEnhancedProfile, error) {
			return g.enhancedProfile(ctx, username)
		})
		return nil
	})
	_ = eg.Wait()

	if enhanced != nil {
		profile.ProfileImageURL = enhanced.ProfileImageURL
		profile.Bio = enhanced.Bio
		profile.Location = enhanced.Location
		profile.JoinDate = enhanced.JoinDate
		profile.Following = enhanced.Following
		profile.Followers = enhanced.Followers
		profile.Badges = enhanced.Badges
	}
	profile.ProfileCompleteness = activity.Completeness(
		profile.Username, profile.FullName, profile.Institution,
		profile.Bio, profile.Location, profile.ProfileImageURL,
	)

	extras := &model.GFGExtras{
		SolvedStats: solved,
		Insights: activity.Insights(solved, activity.ProfileFacts{
			Rank:       profile.Rank,
			Streak:     profile.Streak,
			ActiveDays: len(act.Calendar.ActiveDates()),
		}),
		DifficultyAnalysis: activity.AnalyzeDifficulty(solved),
	}
	return &Details{
		ProfileURL: g.profileURL(username),
		Profile:    profile,
		Extras:     extras,
		Activity:   act,
	}, nil
}

// parseSolvedStats 接受 {easy: {count: n}} 和 {easy: n} 两种形式，键统一为小写。
func parseSolvedStats(raw gjson.Result) map[string]int {
	solved := map[string]int{}
	raw.ForEach(func(k, v gjson.Result) bool {
		if n, ok := coerceCount(v); ok {
			solved[strings.ToLower(k.Str)] = n
		}
		return true
	})
	return solved
}

func totalSolved(solved map[string]int) int {
	if t, ok := solved["total"]; ok {
		return t
	}
	total := 0
	for _, n := range solved {
		total += n
	}
	return total
}

func (g *GFG) enhancedProfile(ctx context.Context, username string) (*model.GFGEnhancedProfile, error) {
	doc, _, err := g.client.GetDocument(ctx, model.GFG, g.profileURL(username))
	if err != nil {
		return nil, err
	}
	p := &model.GFGEnhancedProfile{
		Bio:         firstText(doc, ".profile_bio"),
		Location:    firstText(doc, ".location_details"),
		JoinDate:    firstText(doc, ".join_date"),
		Following:   cast.ToInt(firstText(doc, ".following_count")),
		Followers:   cast.ToInt(firstText(doc, ".followers_count")),
		Badges:      []string{},
		SocialLinks: map[string]string{},
	}
	p.ProfileImageURL, _ = doc.Find(".profile_pic img").First().Attr("src")
	for _, badge := range doc.Find(".badge_item").Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.Text())
	}) {
		if badge != "" {
			p.Badges = append(p.Badges, badge)
		}
	}
	for _, network := range []string{"linkedin", "github", "twitter"} {
		if href, ok := doc.Find(".social_links ." + network).First().Attr("href"); ok {
			p.SocialLinks[network] = href
		}
	}
	return p, nil
}
