package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workload-tlx/internal/domain"
	"workload-tlx/internal/service"
)

// AssessmentHandler holds dependencies for the assessment endpoints.
type AssessmentHandler struct {
	logger *zap.Logger
	svc    *service.AssessmentService
}

func NewAssessmentHandler(logger *zap.Logger, svc *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{
		logger: logger,
		svc:    svc,
	}
}

// Submit handles POST /assessments: create, rate and score in one call.
func (h *AssessmentHandler) Submit(c *gin.Context) {
	var req struct {
		TaskName      string                      `json:"task_name" binding:"required"`
		ParticipantID string                      `json:"participant_id" binding:"required"`
		Ratings       *domain.Ratings             `json:"ratings" binding:"required"`
		Comparisons   []domain.PairwiseComparison `json:"pairwise_comparisons"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid submit request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	a, err := h.svc.Submit(c.Request.Context(), req.TaskName, req.ParticipantID, *req.Ratings, req.Comparisons)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"assessment": a})
}

// Create handles POST /assessments/partial for step-wise clients.
func (h *AssessmentHandler) Create(c *gin.Context) {
	var req struct {
		TaskName      string `json:"task_name" binding:"required"`
		ParticipantID string `json:"participant_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	a, err := h.svc.Create(c.Request.Context(), req.TaskName, req.ParticipantID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"assessment": a})
}

// Get handles GET /assessments/:id.
func (h *AssessmentHandler) Get(c *gin.Context) {
	a, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessment": a})
}

// AddRatings handles PUT /assessments/:id/ratings.
func (h *AssessmentHandler) AddRatings(c *gin.Context) {
	var req struct {
		Ratings     *domain.Ratings             `json:"ratings" binding:"required"`
		Comparisons []domain.PairwiseComparison `json:"pairwise_comparisons"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid ratings request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	a, err := h.svc.AddRatings(c.Request.Context(), c.Param("id"), *req.Ratings, req.Comparisons)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assessment": a})
}

// Score handles POST /assessments/:id/score.
func (h *AssessmentHandler) Score(c *gin.Context) {
	a, err := h.svc.CalculateScores(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessment": a})
}

// Delete handles DELETE /assessments/:id (admin only, see router wiring).
func (h *AssessmentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// writeError maps the domain error taxonomy onto HTTP status codes.
func (h *AssessmentHandler) writeError(c *gin.Context, err error) {
	writeDomainError(c, h.logger, err)
}

func writeDomainError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		validationErr *domain.ValidationError
		stateErr      *domain.StateError
		notFoundErr   *domain.NotFoundError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Reason})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, gin.H{"error": stateErr.Reason})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Reason})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many submissions"})
	default:
		logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
