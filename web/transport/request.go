package transport

import (
	"github.com/afumu/codash/internal/platform"
)

// RangeQuery 定义了热力图请求的时间范围参数。
type RangeQuery struct {
	Year  int    `form:"year"`
	From  string `form:"from"`
	To    string `form:"to"`
	Range string `form:"range"` // "observed" 表示按实际活动范围
}

// Spec converts the query into a platform range request.
func (q RangeQuery) Spec() platform.RangeSpec {
	return platform.RangeSpec{
		Year:     q.Year,
		From:     q.From,
		To:       q.To,
		Observed: q.Range == "observed",
	}
}

// PaginationQuery 定义了列表请求的通用分页参数。
type PaginationQuery struct {
	Limit int `form:"limit,default=20"`
	Skip  int `form:"skip,default=0"`
}

// QuestionQuery 定义了题库列表的筛选参数。
type QuestionQuery struct {
	PaginationQuery
	Difficulty string `form:"difficulty"`
	Category   string `form:"category"`
}

// ExportQuery 定义了导出格式参数。
type ExportQuery struct {
	RangeQuery
	Format string `form:"format,default=csv"`
}
