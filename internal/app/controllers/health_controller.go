package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rifat402/courses-app/internal/app/models/dto"
	"github.com/Rifat402/courses-app/internal/app/services"
)

// HealthController reports whether the store is reachable
type HealthController struct {
	courseService services.CourseService
}

// NewHealthController creates a new HealthController
func NewHealthController(courseService services.CourseService) *HealthController {
	return &HealthController{courseService: courseService}
}

// Health pings the store
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Store reachable"
// @Failure 503 {object} dto.ErrorResponse "Store unavailable."
// @Router /health [get]
func (h *HealthController) Health(ctx *gin.Context) {
	if err := h.courseService.CheckHealth(ctx.Request.Context()); err != nil {
		_ = ctx.Error(err)
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(dto.MsgStoreUnavailable))
		return
	}
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
