package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workload-tlx/internal/service"
)

// Pinger reports storage liveness for the health endpoint.
type Pinger func(ctx context.Context) error

// NewRouter wires middlewares and routes.
func NewRouter(
	logger *zap.Logger,
	assessmentH *AssessmentHandler,
	statsH *StatsHandler,
	adminTokens *service.AdminTokenService,
	ping Pinger,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	assessments := r.Group("/assessments")
	assessments.POST("", assessmentH.Submit)
	assessments.POST("/partial", assessmentH.Create)
	assessments.GET("/:id", assessmentH.Get)
	assessments.PUT("/:id/ratings", assessmentH.AddRatings)
	assessments.POST("/:id/score", assessmentH.Score)
	assessments.DELETE("/:id", AdminAuthMiddleware(adminTokens), assessmentH.Delete)

	r.GET("/stats/:task_name", statsH.GetTaskStats)

	r.GET("/healthz", func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "storage unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

// zapLoggerMiddleware logs one line per request.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware forces Content-Type: application/json on responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
