package handler

import (
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ogurasousui/hr-records/internal/adapters/http/middleware"
	"github.com/ogurasousui/hr-records/internal/platform/logger"
)

// RouterConfig は NewRouter に渡す依存関係です。nil のハンドラはルートを登録しません。
type RouterConfig struct {
	Employees      *EmployeeHandler
	Skills         *CatalogHandler
	Certifications *CatalogHandler
	Languages      *CatalogHandler
	Health         *HealthHandler

	Metrics        *middleware.Metrics
	MetricsHandler http.Handler
	AllowedOrigins []string
	Logger         *logger.Logger
}

// NewRouter は REST API の gin.Engine を構築します。
func NewRouter(cfg RouterConfig) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Instrument(cfg.Metrics))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	if cfg.Health != nil {
		r.GET("/healthz", cfg.Health.HealthCheck)
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	if h := cfg.Employees; h != nil {
		r.GET("/employees/", h.List)
		r.POST("/employees/", h.Create)
		r.GET("/employees/:id/", h.Get)
		r.PUT("/employees/:id/", h.Replace)
		r.PATCH("/employees/:id/", h.Patch)
		r.DELETE("/employees/:id/", h.Delete)
	}

	registerCatalog(r, "/skills/", cfg.Skills)
	registerCatalog(r, "/certifications/", cfg.Certifications)
	registerCatalog(r, "/languages/", cfg.Languages)

	return r
}

func registerCatalog(r *gin.Engine, base string, h *CatalogHandler) {
	if h == nil {
		return
	}
	r.GET(base, h.List)
	r.POST(base, h.Create)
	r.GET(base+":id/", h.Get)
	r.PUT(base+":id/", h.Update)
	r.PATCH(base+":id/", h.Update)
	r.DELETE(base+":id/", h.Delete)
}

var tagNameOnce sync.Once

// useJSONFieldNames は binding エラーのフィールド名を json タグ名にします。
func useJSONFieldNames() {
	tagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}
