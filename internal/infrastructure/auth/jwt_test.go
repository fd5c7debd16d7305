package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	cfg := config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Expiration: 15 * time.Minute,
		Issuer:     "test-issuer",
	}
	return NewJWTService(cfg)
}

func newTestInput() GenerateTokenInput {
	return GenerateTokenInput{
		UserID: uuid.New(),
		Email:  "shopper@example.com",
		Role:   RoleShopper,
	}
}

func TestNewJWTService(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Expiration: 15 * time.Minute,
		Issuer:     "test-issuer",
	}

	svc := NewJWTService(cfg)

	assert.NotNil(t, svc)
	assert.Equal(t, []byte(cfg.Secret), svc.secret)
	assert.Equal(t, cfg.Expiration, svc.expiration)
	assert.Equal(t, cfg.Issuer, svc.issuer)
}

func TestNewJWTService_Defaults(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars"})

	assert.Equal(t, defaultExpiration, svc.expiration)
	assert.Equal(t, defaultIssuer, svc.issuer)
}

func TestGenerateToken(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	token, err := svc.GenerateToken(input)

	require.NoError(t, err)
	assert.NotEmpty(t, token.Value)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.True(t, token.ExpiresAt.After(time.Now()))
}

func TestValidateToken_Success(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	token, err := svc.GenerateToken(input)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token.Value)

	require.NoError(t, err)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, input.Email, claims.Email)
	assert.Equal(t, RoleShopper, claims.Role)
	assert.Equal(t, "test-issuer", claims.Issuer)
	assert.Equal(t, input.UserID.String(), claims.Subject)
	assert.False(t, claims.IsAdmin())
}

func TestValidateToken_AdminRole(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.GenerateToken(GenerateTokenInput{
		UserID: uuid.New(),
		Email:  "ops@example.com",
		Role:   RoleAdmin,
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token.Value)

	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.True(t, claims.IsAdmin())
}

func TestGenerateToken_EmptyRoleDefaultsToShopper(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.GenerateToken(GenerateTokenInput{UserID: uuid.New()})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token.Value)

	require.NoError(t, err)
	assert.Equal(t, RoleShopper, claims.Role)
	assert.False(t, claims.IsAdmin())
}

func TestValidateToken_ExpiredToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Expiration: 15 * time.Minute,
		Issuer:     "test-issuer",
	}
	svc := NewJWTService(cfg)
	svc.expiration = -1 * time.Hour

	token, err := svc.GenerateToken(newTestInput())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token.Value)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_InvalidToken(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateToken("invalid-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := newTestJWTService()
	other := NewJWTService(config.JWTConfig{
		Secret:     "another-secret-key-at-least-32-ch",
		Expiration: 15 * time.Minute,
		Issuer:     "test-issuer",
	})

	token, err := other.GenerateToken(newTestInput())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token.Value)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongSigningMethod(t *testing.T) {
	svc := newTestJWTService()

	// Unsigned token: alg "none" must be rejected by the HMAC check.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: uuid.New().String(),
		Role:   RoleShopper,
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_MissingUserID(t *testing.T) {
	svc := newTestJWTService()

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: RoleShopper,
	})
	signed, err := token.SignedString(svc.secret)
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)

	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestClaims_GetUserUUID(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	token, err := svc.GenerateToken(input)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token.Value)
	require.NoError(t, err)

	id, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, input.UserID, id)
}

func TestClaims_GetRemainingTTL(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.GenerateToken(newTestInput())
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token.Value)
	require.NoError(t, err)

	ttl := claims.GetRemainingTTL()
	assert.Greater(t, ttl, 14*time.Minute)
	assert.LessOrEqual(t, ttl, 15*time.Minute)

	expired := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	assert.Equal(t, time.Duration(0), expired.GetRemainingTTL())

	assert.Equal(t, time.Duration(0), (&Claims{}).GetRemainingTTL())
}

func TestJWTService_Expiration(t *testing.T) {
	svc := newTestJWTService()
	assert.Equal(t, 15*time.Minute, svc.Expiration())
}
