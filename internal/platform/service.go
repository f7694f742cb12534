package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/afumu/codash/internal/activity"
	"github.com/afumu/codash/internal/model"
	"github.com/afumu/codash/internal/source"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrMissingUsername = errors.New("username is required")
	ErrNoUsernames     = errors.New("at least one platform username is required")
	ErrUnsupported     = errors.New("operation not supported by platform")
)

// RangeSpec 是调用方请求的热力图区间，零值表示使用平台默认区间。
type RangeSpec struct {
	Year     int
	From     string
	To       string
	Observed bool
}

// IsDefault 判断是否没有指定区间。
func (r RangeSpec) IsDefault() bool {
	return r.Year == 0 && r.From == "" && r.To == "" && !r.Observed
}

// Tuning 是可在运行时调整的平台参数。
type Tuning struct {
	Thresholds map[model.Platform]activity.Thresholds
	GraceDays  map[model.Platform]int
}

// DefaultTuning 返回各平台默认的强度分档和 1 天宽限。
func DefaultTuning() Tuning {
	t := Tuning{
		Thresholds: make(map[model.Platform]activity.Thresholds, len(model.Platforms)),
		GraceDays:  make(map[model.Platform]int, len(model.Platforms)),
	}
	for _, p := range model.Platforms {
		t.Thresholds[p] = activity.DefaultThresholds(p)
		t.GraceDays[p] = activity.DefaultGraceDays
	}
	return t
}

// questionSource 由 LeetCode 的 Fetcher 实现。
type questionSource interface {
	ListQuestions(ctx context.Context, f model.QuestionFilter) (*model.QuestionPage, error)
	DailyChallenge(ctx context.Context) (*model.DailyChallenge, error)
}

// Service 把抓取到的活动数据转换为热力图结果。
type Service struct {
	fetchers map[model.Platform]source.Fetcher
	now      func() time.Time

	mu     sync.RWMutex
	tuning Tuning
}

// NewService 创建 Service，now 为空时使用 time.Now。
func NewService(fetchers map[model.Platform]source.Fetcher, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		fetchers: fetchers,
		now:      now,
		tuning:   DefaultTuning(),
	}
}

// SetTuning 替换运行参数，非法的分档和负数宽限回退到平台默认值。
func (s *Service) SetTuning(t Tuning) {
	next := DefaultTuning()
	for p, th := range t.Thresholds {
		if !th.Valid() {
			log.Warn().Str("platform", string(p)).Str("thresholds", th.String()).Msg("强度分档无效，使用默认值")
			continue
		}
		next.Thresholds[p] = th
	}
	for p, g := range t.GraceDays {
		if g < 0 {
			continue
		}
		next.GraceDays[p] = g
	}

	s.mu.Lock()
	s.tuning = next
	s.mu.Unlock()
}

// Tuning 返回当前参数的副本。
func (s *Service) Tuning() Tuning {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := Tuning{
		Thresholds: make(map[model.Platform]activity.Thresholds, len(s.tuning.Thresholds)),
		GraceDays:  make(map[model.Platform]int, len(s.tuning.GraceDays)),
	}
	for p, th := range s.tuning.Thresholds {
		t.Thresholds[p] = th
	}
	for p, g := range s.tuning.GraceDays {
		t.GraceDays[p] = g
	}
	return t
}

func (s *Service) options(p model.Platform) activity.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activity.Options{
		Thresholds: s.tuning.Thresholds[p],
		GraceDays:  s.tuning.GraceDays[p],
		Today:      s.now().UTC(),
	}
}

func (s *Service) fetcher(p model.Platform) (source.Fetcher, error) {
	f, ok := s.fetchers[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, p)
	}
	return f, nil
}

// resolveRange 把请求的区间转换为具体日期。显式区间非法时返回错误；
// 观测区间过长时退回当年。
func (s *Service) resolveRange(p model.Platform, spec RangeSpec, cal model.ActivityMap) (activity.Range, error) {
	today := s.now().UTC()
	switch {
	case spec.From != "" || spec.To != "":
		if spec.From == "" || spec.To == "" {
			return activity.Range{}, fmt.Errorf("%w: both from and to are required", activity.ErrInvalidRange)
		}
		return activity.NewRange(spec.From, spec.To)
	case spec.Year != 0:
		if spec.Year < 1970 || spec.Year > 9999 {
			return activity.Range{}, fmt.Errorf("%w: year %d", activity.ErrInvalidRange, spec.Year)
		}
		return activity.YearRange(spec.Year), nil
	case spec.Observed:
		return observed(cal, today), nil
	}

	switch p {
	case model.LeetCode:
		return observed(cal, today), nil
	case model.Codeforces:
		return activity.YearToDate(today), nil
	default:
		return activity.YearRange(today.Year()), nil
	}
}

func observed(cal model.ActivityMap, today time.Time) activity.Range {
	r := activity.ObservedRange(cal, today.Year())
	if err := r.Validate(); err != nil {
		log.Warn().Err(err).Msg("观测区间过长，退回当年")
		return activity.YearRange(today.Year())
	}
	return r
}

func (s *Service) bundle(p model.Platform, username string, act source.Activity, r activity.Range) *model.HeatmapBundle {
	heatmap, stats := activity.Summarize(act.Calendar, r, s.options(p))
	return &model.HeatmapBundle{
		Platform:    p,
		Username:    username,
		From:        activity.FormatDay(r.From),
		To:          activity.FormatDay(r.To),
		Source:      act.Source,
		ActiveYears: act.ActiveYears,
		Heatmap:     heatmap,
		Stats:       stats,
		Calendar:    act.Calendar,
	}
}

// checkSpec 在发起请求前校验显式区间。
func (s *Service) checkSpec(p model.Platform, spec RangeSpec) error {
	if spec.Observed || spec.IsDefault() {
		return nil
	}
	_, err := s.resolveRange(p, spec, nil)
	return err
}

func explicit(spec RangeSpec) bool {
	return !spec.IsDefault() && !spec.Observed
}

// fetchActivity 对按年份提供日历的平台，请求显式区间覆盖的每一年。
func (s *Service) fetchActivity(ctx context.Context, f source.Fetcher, username string, spec RangeSpec) source.Activity {
	yf, ok := f.(source.YearFetcher)
	if !ok || !explicit(spec) {
		return f.FetchActivity(ctx, username)
	}
	r, err := s.resolveRange(f.Platform(), spec, nil)
	if err != nil {
		return f.FetchActivity(ctx, username)
	}
	return yf.FetchActivityYears(ctx, username, r.Years())
}

// GetHeatmap 获取单个用户的活动并生成热力图。只有输入非法时返回错误，平台不可达时返回空热力图。
func (s *Service) GetHeatmap(ctx context.Context, p model.Platform, username string, spec RangeSpec) (*model.HeatmapBundle, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrMissingUsername
	}
	f, err := s.fetcher(p)
	if err != nil {
		return nil, err
	}
	if err := s.checkSpec(p, spec); err != nil {
		return nil, err
	}

	act := s.fetchActivity(ctx, f, username, spec)
	r, err := s.resolveRange(p, spec, act.Calendar)
	if err != nil {
		return nil, err
	}
	return s.bundle(p, username, act, r), nil
}

// GetDetails 返回用户的资料、扩展数据和热力图。平台确认用户不存在时返回 source.ErrUserNotFound。
func (s *Service) GetDetails(ctx context.Context, p model.Platform, username string, spec RangeSpec) (*model.Details, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrMissingUsername
	}
	f, err := s.fetcher(p)
	if err != nil {
		return nil, err
	}
	if err := s.checkSpec(p, spec); err != nil {
		return nil, err
	}

	d, err := f.FetchDetails(ctx, username)
	if err != nil {
		return nil, err
	}
	if _, ok := f.(source.YearFetcher); ok && explicit(spec) {
		d.Activity = s.fetchActivity(ctx, f, username, spec)
	}
	r, err := s.resolveRange(p, spec, d.Activity.Calendar)
	if err != nil {
		return nil, err
	}
	bundle := s.bundle(p, username, d.Activity, r)
	if x, ok := d.Extras.(*model.GFGExtras); ok {
		x.ActivityMetrics = activity.Metrics(bundle.Stats)
	}

	return &model.Details{
		Platform:   p,
		Username:   username,
		ProfileURL: d.ProfileURL,
		Profile:    d.Profile,
		Heatmap:    bundle,
		Extras:     d.Extras,
	}, nil
}

// GetDashboard 并发获取所有请求的平台并生成合并热力图，单个平台失败只记录在对应条目中。
func (s *Service) GetDashboard(ctx context.Context, users map[model.Platform]string, spec RangeSpec) (*model.Dashboard, error) {
	var requested []model.Platform
	for _, p := range model.Platforms {
		if strings.TrimSpace(users[p]) != "" {
			requested = append(requested, p)
		}
	}
	if len(requested) == 0 {
		return nil, ErrNoUsernames
	}

	today := s.now().UTC()
	combinedRange := activity.YearRange(today.Year())
	if explicit(spec) {
		r, err := s.resolveRange("", spec, nil)
		if err != nil {
			return nil, err
		}
		combinedRange = r
	}

	entries := make([]model.DashboardEntry, len(requested))
	var g errgroup.Group
	for i, p := range requested {
		i, p := i, p
		g.Go(func() error {
			entry := model.DashboardEntry{Platform: p, Username: strings.TrimSpace(users[p])}
			bundle, err := s.GetHeatmap(ctx, p, entry.Username, spec)
			if err != nil {
				entry.Error = err.Error()
			} else {
				entry.Heatmap = bundle
			}
			entries[i] = entry
			return nil
		})
	}
	_ = g.Wait()

	combined := model.ActivityMap{}
	for _, e := range entries {
		if e.Heatmap == nil {
			continue
		}
		for day, n := range e.Heatmap.Calendar {
			combined.Add(day, n)
		}
	}
	heatmap, stats := activity.Summarize(combined, combinedRange, activity.Options{
		Thresholds: activity.HighThresholds,
		Today:      today,
		GraceDays:  activity.DefaultGraceDays,
	})
	return &model.Dashboard{
		Entries:          entries,
		TotalSubmissions: stats.TotalSubmissions,
		Combined:         heatmap,
		CombinedStats:    stats,
	}, nil
}

func (s *Service) questions() (questionSource, error) {
	f, err := s.fetcher(model.LeetCode)
	if err != nil {
		return nil, err
	}
	q, ok := f.(questionSource)
	if !ok {
		return nil, fmt.Errorf("%w: questions", ErrUnsupported)
	}
	return q, nil
}

// ListQuestions 分页获取 LeetCode 题库。
func (s *Service) ListQuestions(ctx context.Context, f model.QuestionFilter) (*model.QuestionPage, error) {
	q, err := s.questions()
	if err != nil {
		return nil, err
	}
	return q.ListQuestions(ctx, f)
}

// DailyChallenge 返回今天的 LeetCode 每日一题。
func (s *Service) DailyChallenge(ctx context.Context) (*model.DailyChallenge, error) {
	q, err := s.questions()
	if err != nil {
		return nil, err
	}
	return q.DailyChallenge(ctx)
}

// GFGInsights 从 GFG 详情中提取学习洞察和汇总数据。
func (s *Service) GFGInsights(ctx context.Context, username string) (*model.GFGInsights, error) {
	d, err := s.GetDetails(ctx, model.GFG, username, RangeSpec{})
	if err != nil {
		return nil, err
	}
	profile, _ := d.Profile.(*model.GFGProfile)
	extras, _ := d.Extras.(*model.GFGExtras)
	if profile == nil || extras == nil {
		return nil, fmt.Errorf("%w: gfg insights", ErrUnsupported)
	}
	return &model.GFGInsights{
		Username:           profile.Username,
		Insights:           extras.Insights,
		DifficultyAnalysis: extras.DifficultyAnalysis,
		ActivityMetrics:    extras.ActivityMetrics,
		Summary: model.GFGSummary{
			TotalProblems: profile.TotalProblemsSolved,
			Rank:          profile.Rank,
			Score:         profile.Score,
			Streak:        profile.Streak,
			Level:         extras.DifficultyAnalysis.Level,
		},
	}, nil
}
