package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esisa/student-records/internal/app/models"
	"github.com/esisa/student-records/internal/app/models/dto"
	"github.com/esisa/student-records/internal/pkg/apperrors"
	"github.com/esisa/student-records/internal/pkg/auth"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "test",
	})
}

func newAuthFixture() (*AuthService, *fakeUserStore, *fakeSecurityLogStore) {
	users := newFakeUserStore()
	logs := &fakeSecurityLogStore{}
	return NewAuthService(users, newTestJWTService(), logs), users, logs
}

func TestRegisterCreatesRegularUser(t *testing.T) {
	svc, users, logs := newAuthFixture()

	user, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "Nadia.Benali@esisa.ac.ma",
		Password:  "Secure#Pass1",
		FirstName: "Nadia",
		LastName:  "Benali",
	}, RequestMeta{IPAddress: "10.0.0.1"})
	require.NoError(t, err)

	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.Equal(t, "nadia.benali@esisa.ac.ma", user.Email)
	assert.NotEqual(t, "Secure#Pass1", user.Password)

	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(stored.Password, "Secure#Pass1"))

	require.Len(t, logs.entries, 1)
	assert.Equal(t, models.ActionUserRegistered, logs.entries[0].Action)
	assert.Equal(t, "10.0.0.1", logs.entries[0].IPAddress)
}

func TestRegisterRejectsWeakPasswords(t *testing.T) {
	svc, _, logs := newAuthFixture()

	cases := map[string]string{
		"too short": "Ab1!",
		"no upper":  "secure#pass1",
		"no lower":  "SECURE#PASS1",
		"no digit":  "Secure#Pass",
		"no symbol": "SecurePass1",
	}

	for name, password := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), &dto.RegisterRequest{
				Email:     "weak@esisa.ac.ma",
				Password:  password,
				FirstName: "Weak",
				LastName:  "Password",
			}, RequestMeta{})
			require.Error(t, err)

			var verr *apperrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, "password")
		})
	}

	assert.Empty(t, logs.entries, "failed registrations must not be audited as success")
}

func TestRegisterCollectsAllFieldErrors(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "not-an-email",
		Password:  "weak",
		FirstName: "A",
		LastName:  "B",
	}, RequestMeta{})
	require.Error(t, err)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 4)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, users, _ := newAuthFixture()
	users.add(models.User{Email: "taken@esisa.ac.ma", Role: models.RoleUser, IsActive: true})

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "taken@esisa.ac.ma",
		Password:  "Secure#Pass1",
		FirstName: "Dup",
		LastName:  "Email",
	}, RequestMeta{})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestLoginIssuesToken(t *testing.T) {
	svc, users, logs := newAuthFixture()
	hashed, err := auth.HashPassword("Secure#Pass1")
	require.NoError(t, err)
	users.add(models.User{
		Email:    "nadia@esisa.ac.ma",
		Password: hashed,
		Role:     models.RoleAdmin,
		IsActive: true,
	})

	token, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nadia@esisa.ac.ma",
		Password: "Secure#Pass1",
	}, RequestMeta{})
	require.NoError(t, err)

	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, int(time.Hour.Seconds()), token.ExpiresIn)
	assert.Equal(t, "nadia@esisa.ac.ma", token.User.Email)

	claims, err := newTestJWTService().ValidateAndExtractClaims(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	require.Len(t, logs.entries, 1)
	assert.Equal(t, models.ActionUserLogin, logs.entries[0].Action)
}

func TestLoginWrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	svc, users, _ := newAuthFixture()
	hashed, err := auth.HashPassword("Secure#Pass1")
	require.NoError(t, err)
	users.add(models.User{Email: "known@esisa.ac.ma", Password: hashed, IsActive: true})

	_, errWrong := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "known@esisa.ac.ma",
		Password: "Wrong#Pass1",
	}, RequestMeta{})
	_, errUnknown := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "unknown@esisa.ac.ma",
		Password: "Secure#Pass1",
	}, RequestMeta{})

	assert.ErrorIs(t, errWrong, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, apperrors.ErrInvalidCredentials)
}

func TestLoginDisabledAccountRejected(t *testing.T) {
	svc, users, _ := newAuthFixture()
	hashed, err := auth.HashPassword("Secure#Pass1")
	require.NoError(t, err)
	users.add(models.User{Email: "gone@esisa.ac.ma", Password: hashed, IsActive: false})

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "gone@esisa.ac.ma",
		Password: "Secure#Pass1",
	}, RequestMeta{})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestRegisterSurvivesAuditFailure(t *testing.T) {
	users := newFakeUserStore()
	logs := &fakeSecurityLogStore{failing: true}
	svc := NewAuthService(users, newTestJWTService(), logs)

	user, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     "audit@esisa.ac.ma",
		Password:  "Secure#Pass1",
		FirstName: "Audit",
		LastName:  "Down",
	}, RequestMeta{})
	require.NoError(t, err, "a broken audit sink must not fail the registration")
	assert.NotZero(t, user.ID)
}
