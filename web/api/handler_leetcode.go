package api

import (
	"github.com/afumu/codash/internal/model"
	"github.com/afumu/codash/web/transport"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const maxQuestionLimit = 100

// GetQuestions 分页获取 LeetCode 题库
func (a *API) GetQuestions(c *gin.Context) {
	var q transport.QuestionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		transport.BadRequest(c, "参数错误: "+err.Error())
		return
	}
	if q.Limit <= 0 || q.Limit > maxQuestionLimit {
		transport.BadRequest(c, "limit 必须在 1 到 100 之间")
		return
	}
	if q.Skip < 0 {
		transport.BadRequest(c, "skip 不能为负数")
		return
	}

	page, err := a.Platform.ListQuestions(c.Request.Context(), model.QuestionFilter{
		Difficulty: q.Difficulty,
		Category:   q.Category,
		Limit:      q.Limit,
		Skip:       q.Skip,
	})
	if err != nil {
		log.Error().Err(err).Msg("获取题库失败")
		transport.Fail(c, err)
		return
	}
	transport.SendSuccess(c, page)
}

// GetDailyChallenge 获取今日每日一题
func (a *API) GetDailyChallenge(c *gin.Context) {
	daily, err := a.Platform.DailyChallenge(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("获取每日一题失败")
		transport.Fail(c, err)
		return
	}
	transport.SendSuccess(c, daily)
}
