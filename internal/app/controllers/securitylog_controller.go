package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/esisa/student-records/internal/app/models/dto"
	"github.com/esisa/student-records/internal/app/services"
	"github.com/esisa/student-records/internal/middleware"
)

// SecurityLogController serves the audit trail
type SecurityLogController struct {
	securityLogService *services.SecurityLogService
}

// NewSecurityLogController creates a new SecurityLogController
func NewSecurityLogController(securityLogService *services.SecurityLogService) *SecurityLogController {
	return &SecurityLogController{securityLogService: securityLogService}
}

// ListSecurityLogs returns the newest audit entries
// @Summary List security logs
// @Description Returns the newest audit trail entries, newest first. Admin only.
// @Tags security-logs
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of entries" default(50)
// @Success 200 {object} dto.APIResponse{data=[]models.SecurityLog} "Security logs retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /security-logs [get]
func (c *SecurityLogController) ListSecurityLogs(ctx *gin.Context) {
	actor, _ := middleware.ActorFromContext(ctx)

	// A malformed limit falls through as zero and gets the default.
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "0"))

	entries, err := c.securityLogService.Recent(ctx, actor, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(entries))
}
