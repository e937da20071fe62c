package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ogurasousui/hr-records/internal/platform/logger"
)

// HealthHandler はデータベース疎通を含むヘルスチェックを返します。
type HealthHandler struct {
	check func(ctx context.Context) error
	log   *logger.Logger
}

// NewHealthHandler は HealthHandler を生成します。check が nil の場合は常に ok を返します。
func NewHealthHandler(check func(ctx context.Context) error, log *logger.Logger) *HealthHandler {
	return &HealthHandler{check: check, log: log}
}

// HealthCheck は GET /healthz の実装です。
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.check != nil {
		if err := h.check(c.Request.Context()); err != nil {
			if h.log != nil {
				h.log.Warn("health check failed", "error", err.Error())
			}
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
