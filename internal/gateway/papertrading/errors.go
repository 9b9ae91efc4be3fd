package papertrading

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// APIError 表示后端返回的非 2xx 响应。后端把业务失败包在
// {"detail": {"error": ..., "message": ...}} 里，这里提前拆出来。
type APIError struct {
	StatusCode int
	Status     string
	Code       string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" {
		return fmt.Sprintf("后端返回错误(%s): %s", e.Status, e.Message)
	}
	if e.Body != "" {
		return fmt.Sprintf("后端返回错误(%s): %s", e.Status, e.Body)
	}
	return fmt.Sprintf("后端返回错误: %s", e.Status)
}

func newAPIError(statusCode int, status string, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Status:     status,
		Body:       strings.TrimSpace(string(body)),
	}
	if apiErr.Body == "" || !gjson.Valid(apiErr.Body) {
		return apiErr
	}
	parsed := gjson.Parse(apiErr.Body)
	detail := parsed.Get("detail")
	switch {
	case detail.IsObject():
		apiErr.Code = strings.TrimSpace(detail.Get("error").String())
		apiErr.Message = strings.TrimSpace(detail.Get("message").String())
	case detail.Type == gjson.String:
		apiErr.Message = strings.TrimSpace(detail.String())
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(parsed.Get("message").String())
	}
	return apiErr
}
