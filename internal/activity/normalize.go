package activity

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/afumu/codash/internal/model"
	"github.com/spf13/cast"
)

// millisThreshold 以上的整数时间戳按毫秒处理（约为 1973 年的毫秒值，秒级时间戳要到 5138 年才会达到）。
const millisThreshold = 1e11

// maxEpochSeconds 对应 9999-12-31，超出的时间戳视为无效。
const maxEpochSeconds = 253402300799

var digitsRe = regexp.MustCompile(`^\d+$`)

// dateLayouts 按优先级排列。不带时区的格式按 UTC 零点解析。
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-1-2",
	"2/1/2006",
	"2-1-2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Jan/02/2006 15:04",
	"Jan/02/2006",
	time.RFC1123Z,
	time.RFC1123,
}

// NormalizeDate 将时间戳（秒）、ISO 字符串或常见的自由格式日期转换为 YYYY-MM-DD (UTC)。
// 无法解析时返回 false，调用方应跳过该记录。
func NormalizeDate(v any) (string, bool) {
	return normalize(v, false)
}

// NormalizeTimestamp 与 NormalizeDate 相同，但大于 1e11 的整数按毫秒处理。
// 仅用于提交列表里的时间戳字段。
func NormalizeTimestamp(v any) (string, bool) {
	return normalize(v, true)
}

// IsCanonicalDate 判断 s 是否已经是合法的 YYYY-MM-DD。
func IsCanonicalDate(s string) bool {
	if len(s) != len(model.DateLayout) {
		return false
	}
	_, err := time.Parse(model.DateLayout, s)
	return err == nil
}

// ParseDay 解析一个规范日期为 UTC 零点。
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(model.DateLayout, s, time.UTC)
}

// FormatDay 返回 t 在 UTC 下的规范日期。
func FormatDay(t time.Time) string {
	return t.UTC().Format(model.DateLayout)
}

func normalize(v any, allowMillis bool) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case time.Time:
		if x.IsZero() {
			return "", false
		}
		return FormatDay(x), true
	case string:
		return normalizeString(x, allowMillis)
	case json.Number:
		return normalizeString(x.String(), allowMillis)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) {
			return "", false
		}
		return normalizeEpoch(int64(x), allowMillis)
	case float32:
		return normalize(float64(x), allowMillis)
	case bool:
		return "", false
	}

	n, err := cast.ToInt64E(v)
	if err != nil {
		return "", false
	}
	return normalizeEpoch(n, allowMillis)
}

func normalizeString(s string, allowMillis bool) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	if digitsRe.MatchString(s) {
		// 8 位纯数字更可能是 20240115 这种紧凑日期，而不是 1970 年的时间戳
		if len(s) == 8 {
			if t, err := time.ParseInLocation("20060102", s, time.UTC); err == nil {
				return FormatDay(t), true
			}
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return "", false
		}
		return normalizeEpoch(n, allowMillis)
	}

	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return FormatDay(t), true
		}
	}
	return "", false
}

func normalizeEpoch(n int64, allowMillis bool) (string, bool) {
	if n < 0 {
		return "", false
	}
	if allowMillis && n >= millisThreshold {
		n /= 1000
	}
	if n > maxEpochSeconds {
		return "", false
	}
	return FormatDay(time.Unix(n, 0)), true
}
