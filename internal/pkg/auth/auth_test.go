package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esisa/student-records/internal/app/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       42,
		Email:    "admin@esisa.ac.ma",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "student-records-test",
	})

	token, expiresIn, err := svc.GenerateToken(testUser())
	require.NoError(t, err)
	assert.Equal(t, 3600, expiresIn)

	claims, err := svc.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "admin@esisa.ac.ma", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.True(t, claims.IsActive)
	assert.Equal(t, "student-records-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID, "token carries a unique JTI")

	actor := claims.Actor()
	assert.Equal(t, int64(42), actor.ID)
	assert.True(t, actor.IsAdmin())
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := NewJWTService(JWTConfig{SecretKey: "secret-a", AccessTokenExp: time.Hour})
	verifier := NewJWTService(JWTConfig{SecretKey: "secret-b", AccessTokenExp: time.Hour})

	token, _, err := issuer.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = verifier.ValidateAndExtractClaims(token)
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: -time.Minute})

	token, _, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateAndExtractClaims(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("")
	assert.Error(t, err)

	// A bare token without the Bearer prefix is accepted as-is
	token, err = ExtractBearerToken("abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hashed, err := HashPassword("Secure#Pass1")
	require.NoError(t, err)

	assert.NotEqual(t, "Secure#Pass1", hashed)
	assert.True(t, CheckPassword(hashed, "Secure#Pass1"))
	assert.False(t, CheckPassword(hashed, "Wrong#Pass1"))
}
