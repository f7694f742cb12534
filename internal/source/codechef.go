package source

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/afumu/codash/internal/model"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

var (
	totalSolvedRe = regexp.MustCompile(`Total Problems Solved:\s*(\d+)`)
	contestsRe    = regexp.MustCompile(`Contests\s*\((\d+)\)`)
	firstNumberRe = regexp.MustCompile(`\d+`)
)

// CodeChef 没有稳定的官方接口：先尝试若干第三方接口，再抓取页面。
type CodeChef struct {
	client *Client
	ep     Endpoints
}

func (c *CodeChef) Platform() model.Platform { return model.CodeChef }

func (c *CodeChef) profileURL(username string) string {
	return fmt.Sprintf("%s/users/%s", c.ep.CodeChefWeb, username)
}

func (c *CodeChef) FetchActivity(ctx context.Context, username string) Activity {
	var attempts []Attempt
	for _, tmpl := range c.ep.CodeChefAPIs {
		apiURL := fmt.Sprintf(tmpl, username)
		attempts = append(attempts, Attempt{Name: apiURL, Fetch: func(ctx context.Context) (model.ActivityMap, error) {
			body, err := c.client.GetJSON(ctx, model.CodeChef, apiURL)
			if err != nil {
				return nil, err
			}
			if gjson.GetBytes(body, "success").Type == gjson.False {
				return nil, unavailable("%s reported success=false", apiURL)
			}
			return AdaptJSON(body, "heatMap", "submissionCalendar", "calendar", "submissions", "data.heatMap")
		}})
	}
	for _, page := range []string{
		fmt.Sprintf("%s/users/%s/submissions", c.ep.CodeChefWeb, username),
		c.profileURL(username),
		fmt.Sprintf("%s/ide/submissions/%s", c.ep.CodeChefWeb, username),
	} {
		pageURL := page
		attempts = append(attempts, Attempt{Name: pageURL, Fetch: func(ctx context.Context) (model.ActivityMap, error) {
			doc, _, err := c.client.GetDocument(ctx, model.CodeChef, pageURL)
			if err != nil {
				return nil, err
			}
			return ScrapeActivity(doc), nil
		}})
	}
	return RunChain(ctx, model.CodeChef, username, attempts)
}

func (c *CodeChef) FetchDetails(ctx context.Context, username string) (*Details, error) {
	profile := &model.CodeChefProfile{DifficultyWiseSolved: map[string]int{"Easy": 0, "Medium": 0, "Hard": 0}}
	extras := &model.CodeChefExtras{SolvedProblems: []model.CodeChefProblem{}}

	doc, _, err := c.client.GetDocument(ctx, model.CodeChef, c.profileURL(username))
	switch {
	case IsNotFound(err):
		return nil, fmt.Errorf("codechef %s: %w", username, ErrUserNotFound)
	case err != nil:
		log.Warn().Err(err).Str("username", username).Msg("CodeChef 资料页获取失败，返回空资料")
	default:
		profile, extras.SolvedProblems = c.parseProfile(doc)
	}

	return &Details{
		ProfileURL: c.profileURL(username),
		Profile:    profile,
		Extras:     extras,
		Activity:   c.FetchActivity(ctx, username),
	}, nil
}

func (c *CodeChef) parseProfile(doc *goquery.Document) (*model.CodeChefProfile, []model.CodeChefProblem) {
	p := &model.CodeChefProfile{
		Rating:               firstText(doc, ".rating-number"),
		Stars:                firstText(doc, ".rating-star"),
		HighestRating:        strings.Trim(firstText(doc, ".rating-header small"), "() "),
		Institute:            firstText(doc, ".user-details-container .user-country-name"),
		DifficultyWiseSolved: map[string]int{"Easy": 0, "Medium": 0, "Hard": 0},
	}
	// 高分段可能显示为 "(Highest Rating 2012)"
	if m := firstNumberRe.FindString(p.HighestRating); m != "" {
		p.HighestRating = m
	}

	ranks := doc.Find(".rating-ranks ul li")
	p.GlobalRank = strings.TrimSpace(ranks.First().Find("strong").Text())
	p.CountryRank = strings.TrimSpace(ranks.Last().Find("strong").Text())

	solvedSection := doc.Find("section.problems-solved")
	if m := totalSolvedRe.FindStringSubmatch(solvedSection.Text()); m != nil {
		p.TotalSolved = cast.ToInt(m[1])
	} else if m := totalSolvedRe.FindStringSubmatch(doc.Text()); m != nil {
		p.TotalSolved = cast.ToInt(m[1])
	}
	p.TotalQuestionsCount = p.TotalSolved

	solvedSection.Find("article").Each(func(_ int, a *goquery.Selection) {
		label := a.Find("h5").Text()
		n := cast.ToInt(firstNumberRe.FindString(a.Find("p").Text()))
		switch {
		case strings.Contains(label, "Easy"):
			p.DifficultyWiseSolved["Easy"] = n
		case strings.Contains(label, "Medium"):
			p.DifficultyWiseSolved["Medium"] = n
		case strings.Contains(label, "Hard"):
			p.DifficultyWiseSolved["Hard"] = n
		}
	})

	problems := []model.CodeChefProblem{}
	solvedSection.Find("article p a").Each(func(_ int, a *goquery.Selection) {
		code := strings.TrimSpace(a.Text())
		href, ok := a.Attr("href")
		if code == "" || !ok {
			return
		}
		if strings.HasPrefix(href, "/") {
			href = c.ep.CodeChefWeb + href
		}
		problems = append(problems, model.CodeChefProblem{Code: code, URL: href})
	})

	doc.Find("h5").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if m := contestsRe.FindStringSubmatch(h.Text()); m != nil {
			p.ContestCount = cast.ToInt(m[1])
			return false
		}
		return true
	})
	return p, problems
}
