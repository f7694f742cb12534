package activity

import (
	"errors"
	"fmt"
	"time"

	"github.com/afumu/codash/internal/model"
)

// ErrInvalidRange 表示起止日期无法解析或顺序颠倒。
var ErrInvalidRange = errors.New("invalid date range")

// maxRangeDays 限制单次热力图的长度，避免请求 0001..9999 这种范围。
const maxRangeDays = 366 * 20

// Range 是闭区间 [From, To]，两端均为 UTC 零点。
type Range struct {
	From time.Time
	To   time.Time
}

// YearRange 返回 year 整年。
func YearRange(year int) Range {
	return Range{
		From: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// YearToDate 返回 today 所在年份的 1 月 1 日到 today。
func YearToDate(today time.Time) Range {
	t := truncateDay(today)
	return Range{From: time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), To: t}
}

// ObservedRange 返回日历中最早到最晚活跃日；没有活跃日时退回 fallbackYear 整年。
func ObservedRange(cal model.ActivityMap, fallbackYear int) Range {
	dates := cal.ActiveDates()
	if len(dates) == 0 {
		return YearRange(fallbackYear)
	}
	from, errFrom := ParseDay(dates[0])
	to, errTo := ParseDay(dates[len(dates)-1])
	if errFrom != nil || errTo != nil {
		return YearRange(fallbackYear)
	}
	return Range{From: from, To: to}
}

// NewRange 解析 YYYY-MM-DD 格式的起止日期。
func NewRange(from, to string) (Range, error) {
	f, err := ParseDay(from)
	if err != nil {
		return Range{}, fmt.Errorf("%w: from %q", ErrInvalidRange, from)
	}
	t, err := ParseDay(to)
	if err != nil {
		return Range{}, fmt.Errorf("%w: to %q", ErrInvalidRange, to)
	}
	r := Range{From: f, To: t}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Validate 检查区间顺序和长度。
func (r Range) Validate() error {
	if r.To.Before(r.From) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidRange, FormatDay(r.From), FormatDay(r.To))
	}
	if r.Days() > maxRangeDays {
		return fmt.Errorf("%w: %d days exceeds the limit of %d", ErrInvalidRange, r.Days(), maxRangeDays)
	}
	return nil
}

// Days 返回区间内的自然日数量（含两端）。
func (r Range) Days() int {
	if r.To.Before(r.From) {
		return 0
	}
	return daysBetween(r.From, r.To) + 1
}

// Contains 判断规范日期 day 是否落在区间内。
func (r Range) Contains(day string) bool {
	return day >= FormatDay(r.From) && day <= FormatDay(r.To)
}

// Years 返回区间覆盖的所有年份，升序。
func (r Range) Years() []int {
	if r.To.Before(r.From) {
		return nil
	}
	years := make([]int, 0, r.To.Year()-r.From.Year()+1)
	for y := r.From.Year(); y <= r.To.Year(); y++ {
		years = append(years, y)
	}
	return years
}

func (r Range) String() string {
	return FormatDay(r.From) + ".." + FormatDay(r.To)
}

// BuildHeatmap 生成区间内逐日、无缺口的热力图，缺失日期补 0。
// Week 是相对区间起点的 7 天分桶序号，不是 ISO 周。
func BuildHeatmap(cal model.ActivityMap, r Range, th Thresholds) []model.HeatmapDay {
	n := r.Days()
	if n == 0 {
		return []model.HeatmapDay{}
	}
	if !th.Valid() {
		th = LowThresholds
	}

	days := make([]model.HeatmapDay, 0, n)
	start := truncateDay(r.From)
	for i := 0; i < n; i++ {
		d := start.AddDate(0, 0, i)
		key := d.Format(model.DateLayout)
		count := cal[key]
		if count < 0 {
			count = 0
		}
		days = append(days, model.HeatmapDay{
			Date:      key,
			Count:     count,
			Intensity: th.Intensity(count),
			DayOfWeek: int(d.Weekday()),
			Week:      i / 7,
			Month:     int(d.Month()),
			Day:       d.Day(),
			Year:      d.Year(),
		})
	}
	return days
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween 返回 a 到 b 之间相差的自然日，两者都应为 UTC 零点。
func daysBetween(a, b time.Time) int {
	return int((truncateDay(b).Unix() - truncateDay(a).Unix()) / 86400)
}
