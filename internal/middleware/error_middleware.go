package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/esisa/student-records/internal/app/models/dto"
	"github.com/esisa/student-records/internal/pkg/apperrors"
	"github.com/esisa/student-records/internal/pkg/logger"
)

// HandleAPIError translates service errors into the standard error envelope.
// Error kinds the application knows about map to precise statuses; anything
// else is a 500, logged with its cause.
func HandleAPIError(c *gin.Context, err error) {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").WithFields(verr.Fields)
		c.JSON(400, dto.NewErrorResponse(detail))
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		c.JSON(404, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "User not found")))
	case errors.Is(err, apperrors.ErrStudentNotFound):
		c.JSON(404, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Student not found")))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(404, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")))
	case errors.Is(err, apperrors.ErrSelfDeletion):
		// Deliberately a 400, not a 403: the caller is allowed to delete
		// users, just not this one.
		c.JSON(400, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeBadRequest, "You cannot delete your own account")))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(403, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid email or password")))
	case errors.Is(err, apperrors.ErrAccountDisabled):
		c.JSON(403, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeAccountDisabled, "Account is disabled")))
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")))
	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(401, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")))
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(401, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
	case errors.Is(err, apperrors.ErrStudentIDAlreadyExists):
		c.JSON(409, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Student ID already exists")))
	case errors.Is(err, apperrors.ErrStudentEmailAlreadyInUse):
		c.JSON(409, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Student email already exists")))
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		c.JSON(409, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Email already exists")))
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(409, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Resource already exists")))
	case errors.Is(err, apperrors.ErrValidationFailed):
		c.JSON(400, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")))
	case errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(400, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeBadRequest, err.Error())))
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
		c.JSON(500, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}
