package source

import (
	"regexp"
	"strings"

	"github.com/afumu/codash/internal/activity"
	"github.com/afumu/codash/internal/model"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

// Payload 是外部平台返回的活动数据的已知结构之一。
// 具体类型：EpochCalendar、DateCalendar、SubmissionList、DayCountList。
type Payload interface {
	payload()
}

// EpochCalendar 以秒级时间戳字符串为键：{"1704067200": 3}。
type EpochCalendar struct{ Raw gjson.Result }

// DateCalendar 以日期字符串为键，值可以是数字、字符串或 {count: n} 对象。
type DateCalendar struct{ Raw gjson.Result }

// SubmissionList 是逐条提交记录，每条记录贡献一次提交。
type SubmissionList struct{ Raw gjson.Result }

// DayCountList 是 [{date, count}] 形式的逐日计数。
type DayCountList struct{ Raw gjson.Result }

func (EpochCalendar) payload()  {}
func (DateCalendar) payload()   {}
func (SubmissionList) payload() {}
func (DayCountList) payload()   {}

var (
	epochKeyRe = regexp.MustCompile(`^\d{9,13}$`)

	submissionTimeFields = []string{"creationTimeSeconds", "timestamp", "time", "submissionDate", "submittedAt", "submitted_at", "created_at", "date"}
	dayFields            = []string{"date", "day"}
	dayCountFields       = []string{"count", "value", "submissions", "solved"}
)

// Classify 判断 raw 属于哪种已知结构。字符串会被当作内嵌 JSON 再判断一次。
func Classify(raw gjson.Result) (Payload, bool) {
	if raw.Type == gjson.String {
		inner := strings.TrimSpace(raw.Str)
		if inner == "" || !gjson.Valid(inner) {
			return nil, false
		}
		parsed := gjson.Parse(inner)
		if parsed.Type == gjson.String {
			return nil, false
		}
		return Classify(parsed)
	}

	switch {
	case raw.IsArray():
		first := raw.Get("0")
		if !first.Exists() {
			return SubmissionList{Raw: raw}, true
		}
		if first.IsObject() && firstField(first, dayFields).Exists() && firstField(first, dayCountFields).Exists() {
			return DayCountList{Raw: raw}, true
		}
		return SubmissionList{Raw: raw}, true

	case raw.IsObject():
		var epochKeys, dateKeys, total int
		raw.ForEach(func(k, _ gjson.Result) bool {
			total++
			switch {
			case epochKeyRe.MatchString(k.Str):
				epochKeys++
			case looksLikeDate(k.Str):
				dateKeys++
			}
			return true
		})
		switch {
		case total == 0:
			return DateCalendar{Raw: raw}, true
		case epochKeys > 0 && epochKeys >= dateKeys:
			return EpochCalendar{Raw: raw}, true
		case dateKeys > 0:
			return DateCalendar{Raw: raw}, true
		}
	}
	return nil, false
}

// Adapt 把一种已知结构转换为规范的 ActivityMap，并返回被丢弃的记录数。
func Adapt(p Payload) (model.ActivityMap, int) {
	cal := model.ActivityMap{}
	dropped := 0

	switch v := p.(type) {
	case EpochCalendar:
		v.Raw.ForEach(func(k, val gjson.Result) bool {
			day, ok := activity.NormalizeDate(k.Str)
			n, okCount := coerceCount(val)
			if !ok || !okCount {
				dropped++
				return true
			}
			cal.Add(day, n)
			return true
		})

	case DateCalendar:
		v.Raw.ForEach(func(k, val gjson.Result) bool {
			day, ok := activity.NormalizeDate(k.Str)
			n, okCount := coerceCount(val)
			if !ok || !okCount {
				dropped++
				return true
			}
			cal.Add(day, n)
			return true
		})

	case SubmissionList:
		v.Raw.ForEach(func(_, item gjson.Result) bool {
			ts := item
			if item.IsObject() {
				ts = firstField(item, submissionTimeFields)
			}
			day, ok := activity.NormalizeTimestamp(ts.Value())
			if !ok {
				dropped++
				return true
			}
			cal.Add(day, 1)
			return true
		})

	case DayCountList:
		v.Raw.ForEach(func(_, item gjson.Result) bool {
			day, ok := activity.NormalizeDate(firstField(item, dayFields).Value())
			n, okCount := coerceCount(firstField(item, dayCountFields))
			if !ok || !okCount {
				dropped++
				return true
			}
			cal.Add(day, n)
			return true
		})

	default:
		// 新增的 Payload 类型必须在这里处理
		panic("source: unhandled payload type")
	}

	if dropped > 0 {
		log.Debug().Int("dropped", dropped).Int("days", len(cal)).Msg("丢弃无法解析的活动记录")
	}
	return cal, dropped
}

// AdaptJSON 依次探测 paths，对第一个可识别的字段执行 Classify + Adapt。
func AdaptJSON(body []byte, paths ...string) (model.ActivityMap, error) {
	if !gjson.ValidBytes(body) {
		return nil, unavailable("response is not valid json")
	}
	root := gjson.ParseBytes(body)
	for _, path := range paths {
		field := root
		if path != "" {
			field = root.Get(path)
		}
		if !field.Exists() {
			continue
		}
		p, ok := Classify(field)
		if !ok {
			continue
		}
		cal, _ := Adapt(p)
		return cal, nil
	}
	return nil, ErrUnrecognizedShape
}

// dayCount 是 GFG 这类以对象表示单日数据的结构。
type dayCount struct {
	Count          int `mapstructure:"count"`
	ProblemsSolved int `mapstructure:"problemsSolved"`
	Submissions    int `mapstructure:"submissions"`
	Solved         int `mapstructure:"solved"`
}

// coerceCount 在入口处把计数统一为非负整数。无法转换的值返回 false。
func coerceCount(v gjson.Result) (int, bool) {
	switch v.Type {
	case gjson.Number, gjson.String:
		n, err := cast.ToIntE(strings.TrimSpace(v.String()))
		if err != nil {
			f, ferr := cast.ToFloat64E(strings.TrimSpace(v.String()))
			if ferr != nil {
				return 0, false
			}
			n = int(f)
		}
		if n < 0 {
			return 0, false
		}
		return n, true
	case gjson.JSON:
		if !v.IsObject() {
			return 0, false
		}
		var dc dayCount
		if err := mapstructure.WeakDecode(v.Value(), &dc); err != nil {
			return 0, false
		}
		for _, n := range []int{dc.Count, dc.ProblemsSolved, dc.Submissions, dc.Solved} {
			if n < 0 {
				return 0, false
			}
			if n > 0 {
				return n, true
			}
		}
		return 0, true
	case gjson.Null:
		return 0, true
	}
	return 0, false
}

func firstField(obj gjson.Result, names []string) gjson.Result {
	for _, n := range names {
		if f := obj.Get(n); f.Exists() {
			return f
		}
	}
	return gjson.Result{}
}

func looksLikeDate(s string) bool {
	_, ok := activity.NormalizeDate(s)
	return ok && !epochKeyRe.MatchString(s)
}
