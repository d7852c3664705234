package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"riskassess-backend/internal/assessments"
	"riskassess-backend/internal/documents"
	"riskassess-backend/internal/services/health"
	"riskassess-backend/internal/shared/config"
	"riskassess-backend/internal/shared/metrics"
	"riskassess-backend/internal/shared/server/middleware"
	"riskassess-backend/internal/shared/server/respond"
	"riskassess-backend/internal/uploads"
)

// RouterDeps holds the handlers and services the router wires up.
type RouterDeps struct {
	Config            config.Config
	DocumentHandler   *documents.Handler
	AssessmentHandler *assessments.Handler
	Health            *health.Service
	UploadsEnabled    bool
}

const assessRateGroup = "ASSESS"

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Status())
	})
	api.GET("/providers/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Providers())
	})

	authed := api.Group("", middleware.Identity())
	// Provider calls are the expensive path; cap run submissions per user.
	authed.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			assessRateGroup: {Rate: 0.5, Burst: 3},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/assessments" {
				return assessRateGroup
			}
			return ""
		},
	}))

	registerMeRoutes(authed)
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(authed)
	}
	if deps.AssessmentHandler != nil {
		deps.AssessmentHandler.RegisterRoutes(authed)
	}
	if deps.UploadsEnabled {
		uploads.RegisterRoutes(authed)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
