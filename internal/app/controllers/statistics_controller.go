package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esisa/student-records/internal/app/models/dto"
	"github.com/esisa/student-records/internal/app/services"
	"github.com/esisa/student-records/internal/middleware"
)

// StatisticsController serves the dashboard aggregate
type StatisticsController struct {
	statisticsService *services.StatisticsService
}

// NewStatisticsController creates a new StatisticsController
func NewStatisticsController(statisticsService *services.StatisticsService) *StatisticsController {
	return &StatisticsController{statisticsService: statisticsService}
}

// GetStatistics returns the dashboard aggregate
// @Summary Student statistics
// @Description Returns totals, per-status and per-program counts, recent students, average GPA and the GPA histogram
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StatisticsResponse} "Statistics computed successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/statistics [get]
func (c *StatisticsController) GetStatistics(ctx *gin.Context) {
	stats, err := c.statisticsService.Compute(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(stats))
}
