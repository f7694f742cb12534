package platform

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/afumu/codash/internal/activity"
	"github.com/afumu/codash/internal/model"
	"github.com/afumu/codash/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

type fakeFetcher struct {
	platform model.Platform
	calendar model.ActivityMap
	details  *source.Details
	err      error
	calls    int
}

func (f *fakeFetcher) Platform() model.Platform { return f.platform }

func (f *fakeFetcher) FetchActivity(context.Context, string) source.Activity {
	f.calls++
	if len(f.calendar) == 0 {
		return source.Activity{Calendar: model.ActivityMap{}, ActiveYears: []int{}, Source: source.SourceNone}
	}
	return source.Activity{Calendar: f.calendar, ActiveYears: f.calendar.Years(), Source: "fake"}
}

func (f *fakeFetcher) FetchDetails(ctx context.Context, username string) (*source.Details, error) {
	if f.err != nil {
		return nil, f.err
	}
	d := *f.details
	d.Activity = f.FetchActivity(ctx, username)
	return &d, nil
}

type fakeQuestions struct {
	fakeFetcher
}

func (fakeQuestions) ListQuestions(_ context.Context, f model.QuestionFilter) (*model.QuestionPage, error) {
	return &model.QuestionPage{Total: 1, Limit: f.Limit, Questions: []model.LeetCodeQuestion{{ID: "1"}}}, nil
}

func (fakeQuestions) DailyChallenge(context.Context) (*model.DailyChallenge, error) {
	return &model.DailyChallenge{Date: "2024-03-15"}, nil
}

func newTestService(fetchers ...source.Fetcher) *Service {
	m := map[model.Platform]source.Fetcher{}
	for _, f := range fetchers {
		m[f.Platform()] = f
	}
	return NewService(m, func() time.Time { return testNow })
}

func TestGetHeatmapDefaultRanges(t *testing.T) {
	cal := model.ActivityMap{"2022-11-30": 1, "2024-03-14": 2, "2024-03-15": 1}
	svc := newTestService(
		&fakeFetcher{platform: model.LeetCode, calendar: cal},
		&fakeFetcher{platform: model.Codeforces, calendar: cal},
		&fakeFetcher{platform: model.CodeChef, calendar: cal},
	)

	tests := []struct {
		platform model.Platform
		from, to string
		days     int
	}{
		{model.LeetCode, "2022-11-30", "2024-03-15", 472},
		{model.Codeforces, "2024-01-01", "2024-03-15", 75},
		{model.CodeChef, "2024-01-01", "2024-12-31", 366},
	}
	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			b, err := svc.GetHeatmap(context.Background(), tt.platform, "alice", RangeSpec{})
			require.NoError(t, err)
			assert.Equal(t, tt.from, b.From)
			assert.Equal(t, tt.to, b.To)
			assert.Len(t, b.Heatmap, tt.days)
			assert.Equal(t, "fake", b.Source)
			assert.Equal(t, 2, b.Stats.CurrentStreak)
			assert.Equal(t, heatmapSum(b.Heatmap), b.Stats.TotalSubmissions)
		})
	}
}

func TestGetHeatmapExplicitRanges(t *testing.T) {
	svc := newTestService(&fakeFetcher{platform: model.GFG, calendar: model.ActivityMap{"2023-06-01": 12}})

	b, err := svc.GetHeatmap(context.Background(), model.GFG, "geek", RangeSpec{Year: 2023})
	require.NoError(t, err)
	assert.Len(t, b.Heatmap, 365)
	assert.Equal(t, 4, b.Heatmap[151].Intensity) // 2023-06-01 with GFG thresholds 2,5,10
	assert.Equal(t, "2023-06-01", b.Heatmap[151].Date)

	b, err = svc.GetHeatmap(context.Background(), model.GFG, "geek", RangeSpec{From: "2023-05-30", To: "2023-06-02"})
	require.NoError(t, err)
	assert.Len(t, b.Heatmap, 4)

	b, err = svc.GetHeatmap(context.Background(), model.GFG, "geek", RangeSpec{Observed: true})
	require.NoError(t, err)
	assert.Equal(t, "2023-06-01", b.From)
	assert.Equal(t, "2023-06-01", b.To)
}

func TestGetHeatmapStatsFollowRange(t *testing.T) {
	cal := model.ActivityMap{"2022-11-30": 1, "2024-03-14": 2, "2024-03-15": 1}
	svc := newTestService(&fakeFetcher{platform: model.Codeforces, calendar: cal})

	b, err := svc.GetHeatmap(context.Background(), model.Codeforces, "tourist", RangeSpec{})
	require.NoError(t, err)
	assert.Equal(t, 3, heatmapSum(b.Heatmap))
	assert.Equal(t, 3, b.Stats.TotalSubmissions)
	assert.Equal(t, 2, b.Stats.ActiveDays)
	assert.Equal(t, "2024-03", b.Stats.MostActiveMonth)
	assert.NotContains(t, b.Stats.YearlyStats, "2022")

	b, err = svc.GetHeatmap(context.Background(), model.Codeforces, "tourist", RangeSpec{Year: 2022})
	require.NoError(t, err)
	assert.Equal(t, 1, b.Stats.TotalSubmissions)
	assert.Equal(t, "2022-11", b.Stats.MostActiveMonth)
	assert.Equal(t, 2, b.Stats.LongestStreak)
}

func TestGetHeatmapEmptyActivityIsZeroFilled(t *testing.T) {
	svc := newTestService(&fakeFetcher{platform: model.HackerRank})

	b, err := svc.GetHeatmap(context.Background(), model.HackerRank, "nobody", RangeSpec{})
	require.NoError(t, err)
	assert.Equal(t, source.SourceNone, b.Source)
	assert.Len(t, b.Heatmap, 366)
	assert.Zero(t, b.Stats.TotalSubmissions)
	assert.NotNil(t, b.Calendar)
}

func TestGetHeatmapInvalidInput(t *testing.T) {
	f := &fakeFetcher{platform: model.LeetCode}
	svc := newTestService(f)
	ctx := context.Background()

	_, err := svc.GetHeatmap(ctx, "topcoder", "alice", RangeSpec{})
	assert.ErrorIs(t, err, ErrUnknownPlatform)

	_, err = svc.GetHeatmap(ctx, model.LeetCode, "  ", RangeSpec{})
	assert.ErrorIs(t, err, ErrMissingUsername)

	_, err = svc.GetHeatmap(ctx, model.LeetCode, "alice", RangeSpec{From: "2024-02-01", To: "2024-01-01"})
	assert.ErrorIs(t, err, activity.ErrInvalidRange)

	_, err = svc.GetHeatmap(ctx, model.LeetCode, "alice", RangeSpec{From: "2024-02-01"})
	assert.ErrorIs(t, err, activity.ErrInvalidRange)

	_, err = svc.GetHeatmap(ctx, model.LeetCode, "alice", RangeSpec{Year: 12})
	assert.ErrorIs(t, err, activity.ErrInvalidRange)

	assert.Zero(t, f.calls, "invalid input must not reach the platform")
}

func TestSetTuning(t *testing.T) {
	svc := newTestService(&fakeFetcher{platform: model.CodeChef, calendar: model.ActivityMap{"2024-03-10": 3, "2024-03-13": 1}})

	svc.SetTuning(Tuning{
		Thresholds: map[model.Platform]activity.Thresholds{model.CodeChef: {3, 4, 5}, model.LeetCode: {5, 1, 2}},
		GraceDays:  map[model.Platform]int{model.CodeChef: 2},
	})
	opts := svc.options(model.LeetCode)
	assert.Equal(t, activity.LowThresholds, opts.Thresholds)

	b, err := svc.GetHeatmap(context.Background(), model.CodeChef, "chef", RangeSpec{Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, 1, b.Heatmap[69].Intensity) // 2024-03-10
	assert.Equal(t, 1, b.Stats.CurrentStreak)
}

func TestGetDetailsUserNotFound(t *testing.T) {
	svc := newTestService(&fakeFetcher{platform: model.Codeforces, err: source.ErrUserNotFound})

	_, err := svc.GetDetails(context.Background(), model.Codeforces, "ghost", RangeSpec{})
	assert.True(t, errors.Is(err, source.ErrUserNotFound))
}

func TestGetDetailsFillsGFGMetrics(t *testing.T) {
	extras := &model.GFGExtras{SolvedStats: map[string]int{"easy": 10}}
	svc := newTestService(&fakeFetcher{
		platform: model.GFG,
		calendar: model.ActivityMap{"2024-03-14": 2, "2024-03-15": 4},
		details: &source.Details{
			ProfileURL: "https://gfg.test/user/geek",
			Profile:    &model.GFGProfile{Username: "geek", Rank: 7, TotalProblemsSolved: 10},
			Extras:     extras,
		},
	})

	d, err := svc.GetDetails(context.Background(), model.GFG, "geek", RangeSpec{})
	require.NoError(t, err)
	assert.Equal(t, "https://gfg.test/user/geek", d.ProfileURL)
	require.NotNil(t, d.Heatmap)
	assert.Equal(t, 6, d.Heatmap.Stats.TotalSubmissions)
	assert.Equal(t, 2, extras.ActivityMetrics.TotalActiveDays)
	assert.Equal(t, 2, extras.ActivityMetrics.CurrentStreak)

	insights, err := svc.GFGInsights(context.Background(), "geek")
	require.NoError(t, err)
	assert.Equal(t, 7, insights.Summary.Rank)
	assert.Equal(t, 6, insights.ActivityMetrics.TotalProblems)
}

func TestGetDashboard(t *testing.T) {
	svc := newTestService(
		&fakeFetcher{platform: model.LeetCode, calendar: model.ActivityMap{"2024-03-01": 2, "2024-03-02": 1}},
		&fakeFetcher{platform: model.Codeforces, calendar: model.ActivityMap{"2024-03-01": 3}},
	)

	dash, err := svc.GetDashboard(context.Background(), map[model.Platform]string{
		model.Codeforces: "tourist",
		model.LeetCode:   "alice",
		model.GFG:        "",
	}, RangeSpec{})
	require.NoError(t, err)
	require.Len(t, dash.Entries, 2)
	assert.Equal(t, model.LeetCode, dash.Entries[0].Platform)
	assert.Equal(t, model.Codeforces, dash.Entries[1].Platform)
	assert.Equal(t, 6, dash.TotalSubmissions)
	assert.Len(t, dash.Combined, 366)
	assert.Equal(t, 5, dash.Combined[60].Count) // 2024-03-01
	assert.Equal(t, 2, dash.CombinedStats.ActiveDays)

	_, err = svc.GetDashboard(context.Background(), map[model.Platform]string{}, RangeSpec{})
	assert.ErrorIs(t, err, ErrNoUsernames)
}

func TestGetDashboardReportsFailingPlatform(t *testing.T) {
	svc := newTestService(&fakeFetcher{platform: model.LeetCode, calendar: model.ActivityMap{"2024-03-01": 1}})

	dash, err := svc.GetDashboard(context.Background(), map[model.Platform]string{
		model.LeetCode:   "alice",
		model.HackerRank: "hacker",
	}, RangeSpec{})
	require.NoError(t, err)
	require.Len(t, dash.Entries, 2)
	assert.NotNil(t, dash.Entries[0].Heatmap)
	assert.Contains(t, dash.Entries[1].Error, "unknown platform")
	assert.Equal(t, 1, dash.TotalSubmissions)
}

func TestQuestions(t *testing.T) {
	svc := newTestService(&fakeQuestions{fakeFetcher{platform: model.LeetCode}})

	page, err := svc.ListQuestions(context.Background(), model.QuestionFilter{Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Limit)

	daily, err := svc.DailyChallenge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", daily.Date)

	plain := newTestService(&fakeFetcher{platform: model.LeetCode})
	_, err = plain.DailyChallenge(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestTuningReturnsCopy(t *testing.T) {
	svc := newTestService()
	svc.SetTuning(Tuning{
		Thresholds: map[model.Platform]activity.Thresholds{model.LeetCode: {2, 3, 4}},
		GraceDays:  map[model.Platform]int{model.LeetCode: 0},
	})

	got := svc.Tuning()
	assert.Equal(t, activity.Thresholds{2, 3, 4}, got.Thresholds[model.LeetCode])
	assert.Equal(t, 0, got.GraceDays[model.LeetCode])
	assert.Equal(t, activity.HighThresholds, got.Thresholds[model.GFG])

	got.Thresholds[model.LeetCode] = activity.Thresholds{9, 9, 9}
	assert.Equal(t, activity.Thresholds{2, 3, 4}, svc.Tuning().Thresholds[model.LeetCode])
}

type fakeYearFetcher struct {
	fakeFetcher
	byYear map[int]model.ActivityMap
	years  [][]int
}

func (f *fakeYearFetcher) FetchActivityYears(_ context.Context, _ string, years []int) source.Activity {
	f.years = append(f.years, years)
	cal := model.ActivityMap{}
	for _, y := range years {
		for d, n := range f.byYear[y] {
			cal.Add(d, n)
		}
	}
	return source.Activity{Calendar: cal, ActiveYears: cal.Years(), Source: "calendar-api"}
}

func TestGetHeatmapRequestsEveryYearOfRange(t *testing.T) {
	gfg := &fakeYearFetcher{
		fakeFetcher: fakeFetcher{
			platform: model.GFG,
			calendar: model.ActivityMap{"2024-03-01": 1},
			details:  &source.Details{Profile: &model.GFGProfile{}, Extras: &model.GFGExtras{}},
		},
		byYear: map[int]model.ActivityMap{
			2022: {"2022-12-31": 4},
			2023: {"2023-05-01": 3, "2023-05-02": 2},
		},
	}
	svc := newTestService(gfg)
	ctx := context.Background()

	b, err := svc.GetHeatmap(ctx, model.GFG, "geek", RangeSpec{Year: 2023})
	require.NoError(t, err)
	assert.Equal(t, []int{2023}, gfg.years[0])
	assert.Equal(t, 5, heatmapSum(b.Heatmap))
	assert.Equal(t, 5, b.Stats.TotalSubmissions)

	b, err = svc.GetHeatmap(ctx, model.GFG, "geek", RangeSpec{From: "2022-12-01", To: "2023-05-01"})
	require.NoError(t, err)
	assert.Equal(t, []int{2022, 2023}, gfg.years[1])
	assert.Equal(t, 7, heatmapSum(b.Heatmap))

	d, err := svc.GetDetails(ctx, model.GFG, "geek", RangeSpec{Year: 2023})
	require.NoError(t, err)
	assert.Equal(t, 5, heatmapSum(d.Heatmap.Heatmap))

	// 默认区间不走按年请求
	_, err = svc.GetHeatmap(ctx, model.GFG, "geek", RangeSpec{})
	require.NoError(t, err)
	assert.Len(t, gfg.years, 3)
}

func heatmapSum(days []model.HeatmapDay) int {
	total := 0
	for _, d := range days {
		total += d.Count
	}
	return total
}
