package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/esisa/student-records/internal/pkg/apperrors"
)

func respondWith(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	HandleAPIError(c, err)
	return w
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"student not found", apperrors.ErrStudentNotFound, 404},
		{"user not found", apperrors.ErrUserNotFound, 404},
		{"permission denied", apperrors.ErrPermissionDenied, 403},
		{"self deletion is a bad request", apperrors.ErrSelfDeletion, 400},
		{"invalid credentials", apperrors.ErrInvalidCredentials, 401},
		{"account disabled", apperrors.ErrAccountDisabled, 403},
		{"student code conflict", apperrors.ErrStudentIDAlreadyExists, 409},
		{"student email conflict", apperrors.ErrStudentEmailAlreadyInUse, 409},
		{"user email conflict", apperrors.ErrEmailAlreadyExists, 409},
		{"validation", apperrors.ErrValidationFailed, 400},
		{"unknown", assert.AnError, 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := respondWith(tc.err)
			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestHandleAPIErrorValidationFields(t *testing.T) {
	verr := apperrors.NewValidationError().
		Add("email", "must be a valid email address").
		Add("year", "must be between 1 and 5")

	w := respondWith(verr.ErrOrNil())

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"must be a valid email address"`)
	assert.Contains(t, w.Body.String(), `"year":"must be between 1 and 5"`)
}
