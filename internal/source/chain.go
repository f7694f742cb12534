package source

import (
	"context"

	"github.com/afumu/codash/internal/model"
	"github.com/rs/zerolog/log"
)

// SourceNone 表示回退链全部失败，返回的是空日历。
const SourceNone = "none"

// Attempt 是回退链中的一个数据源。Fetch 不应修改共享状态。
type Attempt struct {
	Name  string
	Fetch func(ctx context.Context) (model.ActivityMap, error)
}

// Activity 是一次抓取的结果。Calendar 永远不为 nil。
type Activity struct {
	Calendar    model.ActivityMap
	ActiveYears []int
	Source      string
}

// RunChain 按顺序尝试 attempts，返回第一个非空结果。
// 单个数据源失败只记录日志；全部失败时返回空日历而不是错误。
func RunChain(ctx context.Context, p model.Platform, username string, attempts []Attempt) Activity {
	for _, a := range attempts {
		if ctx.Err() != nil {
			break
		}
		cal, err := a.Fetch(ctx)
		if err != nil {
			log.Warn().Err(err).Str("platform", string(p)).Str("username", username).Str("source", a.Name).Msg("数据源失败，尝试下一个")
			continue
		}
		if len(cal.ActiveDates()) == 0 {
			log.Debug().Str("platform", string(p)).Str("username", username).Str("source", a.Name).Msg("数据源没有活动数据")
			continue
		}
		log.Debug().Str("platform", string(p)).Str("username", username).Str("source", a.Name).Int("days", len(cal)).Msg("获取活动数据成功")
		return Activity{Calendar: cal, ActiveYears: cal.Years(), Source: a.Name}
	}
	return Activity{Calendar: model.ActivityMap{}, ActiveYears: []int{}, Source: SourceNone}
}

// partial 执行一个可选的补充查询，失败时返回零值。
func partial[T any](ctx context.Context, what string, fn func(context.Context) (T, error)) T {
	v, err := fn(ctx)
	if err != nil {
		log.Warn().Err(err).Str("field", what).Msg("补充数据获取失败，使用默认值")
		var zero T
		return zero
	}
	return v
}
