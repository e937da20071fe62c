package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ogurasousui/hr-records/internal/platform/logger"
)

// APIError はエラーレスポンスの本体です。Fields はフィールドパスごとのメッセージです。
type APIError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// ErrorEnvelope はエラーレスポンスの外側の JSON です。
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// respondError はドメインエラーを HTTP ステータスとエンベロープに変換して書き込みます。
func respondError(c *gin.Context, log *logger.Logger, err error) {
	mapped := toHTTPError(err)

	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}

	if mapped.status >= http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"error", msg,
			)
		}
		msg = http.StatusText(mapped.status)
	}

	c.AbortWithStatusJSON(mapped.status, ErrorEnvelope{
		Error: APIError{
			Code:    mapped.code,
			Message: msg,
			Fields:  mapped.fields,
		},
	})
}
