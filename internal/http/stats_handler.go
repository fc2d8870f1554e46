package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workload-tlx/internal/service"
)

// StatsHandler serves per-task aggregates.
type StatsHandler struct {
	logger *zap.Logger
	stats  *service.StatsService
}

func NewStatsHandler(logger *zap.Logger, stats *service.StatsService) *StatsHandler {
	return &StatsHandler{
		logger: logger,
		stats:  stats,
	}
}

// GetTaskStats handles GET /stats/:task_name.
func (h *StatsHandler) GetTaskStats(c *gin.Context) {
	stats, err := h.stats.TaskStats(c.Request.Context(), c.Param("task_name"))
	if err != nil {
		writeDomainError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
