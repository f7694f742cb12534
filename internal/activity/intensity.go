package activity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/afumu/codash/internal/model"
)

// MaxIntensity 是热力图的最高档位。
const MaxIntensity = 4

// Thresholds 是 1/2/3 档的上界（含），超过第三个值即为 4 档。
type Thresholds [3]int

var (
	// LowThresholds 对应 0 / 1 / 2-3 / 4-6 / 7+。
	LowThresholds = Thresholds{1, 3, 6}
	// HighThresholds 对应 0 / 1-2 / 3-5 / 6-10 / 11+。
	HighThresholds = Thresholds{2, 5, 10}
)

// DefaultThresholds 返回平台默认的强度分档。
func DefaultThresholds(p model.Platform) Thresholds {
	switch p {
	case model.GFG, model.Codeforces:
		return HighThresholds
	default:
		return LowThresholds
	}
}

// Valid 要求 1 <= t1 <= t2 <= t3。
func (t Thresholds) Valid() bool {
	return t[0] >= 1 && t[0] <= t[1] && t[1] <= t[2]
}

// Intensity 把提交数映射到 0..4。0 永远映射为 0，且随 count 单调不减。
func (t Thresholds) Intensity(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= t[0]:
		return 1
	case count <= t[1]:
		return 2
	case count <= t[2]:
		return 3
	default:
		return MaxIntensity
	}
}

func (t Thresholds) String() string {
	return fmt.Sprintf("%d,%d,%d", t[0], t[1], t[2])
}

// ParseThresholds 解析 "1,3,6" 形式的配置值。
func ParseThresholds(s string) (Thresholds, error) {
	var t Thresholds
	parts := strings.Split(s, ",")
	if len(parts) != len(t) {
		return t, fmt.Errorf("intensity thresholds %q: want 3 comma separated values", s)
	}
	for i, p := range parts {
		// 按十进制解析，"010" 是 10 而不是八进制
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return t, fmt.Errorf("intensity thresholds %q: %w", s, err)
		}
		t[i] = n
	}
	if !t.Valid() {
		return t, fmt.Errorf("intensity thresholds %q: values must be positive and non-decreasing", s)
	}
	return t, nil
}
