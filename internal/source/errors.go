package source

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUserNotFound 表示平台的权威资料接口确认用户不存在。
	ErrUserNotFound = errors.New("user not found")
	// ErrSourceUnavailable 表示单个数据源失败（超时、非 200、无法解析），只在回退链内部处理。
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrUnrecognizedShape 表示响应可以解析，但不是任何已知的活动数据结构。
	ErrUnrecognizedShape = fmt.Errorf("%w: unrecognized payload shape", ErrSourceUnavailable)
)

// StatusError 是非 2xx 响应。
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.URL, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrSourceUnavailable
}

// IsNotFound 判断 err 是否为 404 响应。
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSourceUnavailable, fmt.Sprintf(format, args...))
}
