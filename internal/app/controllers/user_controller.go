package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esisa/student-records/internal/app/models/dto"
	"github.com/esisa/student-records/internal/app/services"
	"github.com/esisa/student-records/internal/middleware"
)

// UserController handles user account operations
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// GetUser retrieves a user account
// @Summary Get user by ID
// @Description Retrieves a user account with its created-student count. Regular users can only read their own account.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserDetailResponse} "User retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	actor, _ := middleware.ActorFromContext(ctx)

	user, err := c.userService.GetByID(ctx, id, actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(user))
}

// UpdateUser applies a partial update to a user account.
// Admins may change any field; everyone else only their own name fields.
// The two cases bind different request types, so a regular user sending
// role or email changes has them silently dropped by the decoder, never
// applied.
// @Summary Update user
// @Description Partially updates a user account. Non-admin users can only change their own first and last name.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.AdminUserPatch true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "User updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	actor, _ := middleware.ActorFromContext(ctx)

	if actor.IsAdmin() {
		var patch dto.AdminUserPatch
		if err := ctx.ShouldBindJSON(&patch); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
			return
		}

		user, err := c.userService.AdminUpdate(ctx, id, actor, &patch, requestMeta(ctx))
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewUserResponse(user)))
		return
	}

	var patch dto.SelfProfilePatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	user, err := c.userService.UpdateProfile(ctx, id, actor, &patch, requestMeta(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewUserResponse(user)))
}

// DeleteUser removes a user account
// @Summary Delete user
// @Description Deletes a user account. Admin only; deleting your own account is rejected.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "User deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Self-deletion attempted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	actor, _ := middleware.ActorFromContext(ctx)

	if err := c.userService.Delete(ctx, id, actor, requestMeta(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "User deleted successfully"}))
}
