package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/esisa/student-records/internal/app/models/dto"
	"github.com/esisa/student-records/internal/app/services"
)

// requestMeta captures the request attributes recorded in the audit trail
func requestMeta(ctx *gin.Context) services.RequestMeta {
	return services.RequestMeta{
		IPAddress: ctx.ClientIP(),
		UserAgent: ctx.Request.UserAgent(),
	}
}

// parseIDParam reads a numeric path parameter, writing a 400 on failure.
// Returns ok=false when the response has already been written.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ID")
		errorDetail = errorDetail.WithDetails("ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
