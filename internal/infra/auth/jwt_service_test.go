package auth

import (
	"testing"
	"time"

	"storefront/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"

	return cfg
}

func TestJWTService_GenerateAndValidateTokens(t *testing.T) {
	jwtService, err := NewJWTService(testConfig())
	assert.NoError(t, err)
	assert.NotNil(t, jwtService)

	// Generate tokens
	accessToken, err := jwtService.GenerateAccessToken("seller@example.com", 42, "seller")
	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)

	refreshToken, err := jwtService.GenerateRefreshToken("seller@example.com", 42, "seller")
	assert.NoError(t, err)
	assert.NotEmpty(t, refreshToken)

	// Validate access token
	accessClaims, err := jwtService.ValidateAccessToken(accessToken)
	assert.NoError(t, err)
	assert.NotNil(t, accessClaims)
	assert.Equal(t, "seller@example.com", accessClaims.Subject)
	assert.Equal(t, int64(42), accessClaims.UserID)
	assert.Equal(t, "seller", accessClaims.Role)

	// Validate refresh token
	refreshClaims, err := jwtService.ValidateRefreshToken(refreshToken)
	assert.NoError(t, err)
	assert.NotNil(t, refreshClaims)
	assert.Equal(t, "seller@example.com", refreshClaims.Subject)
}

func TestJWTService_SecretsAreNotInterchangeable(t *testing.T) {
	jwtService, err := NewJWTService(testConfig())
	assert.NoError(t, err)

	accessToken, err := jwtService.GenerateAccessToken("buyer@example.com", 7, "buyer")
	assert.NoError(t, err)

	// An access token must not validate as a refresh token
	claims, err := jwtService.ValidateRefreshToken(accessToken)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(testConfig())
	assert.NoError(t, err)

	invalidToken := "clearly-not-a-jwt-token-format"
	claims, err := jwtService.ValidateAccessToken(invalidToken)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_MissingSubject(t *testing.T) {
	cfg := testConfig()

	jwtService, err := NewJWTService(cfg)
	assert.NoError(t, err)

	// A correctly signed token without a subject must not validate.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   int64(7),
		"role": "seller",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(cfg.SecretKey.Access))
	assert.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken(signed)
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, jwt.ErrTokenRequiredClaimMissing)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.Auth = &config.AuthConfig{AccessTokenTTL: -time.Minute}

	jwtService, err := NewJWTService(cfg)
	assert.NoError(t, err)

	token, err := jwtService.GenerateAccessToken("buyer@example.com", 7, "buyer")
	assert.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTService_EmptySecrets(t *testing.T) {
	cfg := &config.Config{}

	jwtService, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, jwtService)
	assert.Contains(t, err.Error(), "jwt secrets must be provided")
}

func TestJWTService_HashToken(t *testing.T) {
	jwtService, err := NewJWTService(testConfig())
	assert.NoError(t, err)

	first := jwtService.HashToken("some-raw-token")
	second := jwtService.HashToken("some-raw-token")
	other := jwtService.HashToken("another-raw-token")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Len(t, first, 64)
}

func TestJWTService_RefreshTokenDuration(t *testing.T) {
	cfg := testConfig()
	cfg.Auth = &config.AuthConfig{RefreshTokenTTL: 48 * time.Hour}

	jwtService, err := NewJWTService(cfg)
	assert.NoError(t, err)
	assert.Equal(t, 48*time.Hour, jwtService.GetRefreshTokenDuration())
}
