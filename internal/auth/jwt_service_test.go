package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	require.EqualError(t, err, "jwt: secret must be provided")
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, err := NewJWTService(JWTConfig{
		Secret:         "super-secret",
		Issuer:         "reviewerdesk",
		AccessTokenTTL: time.Hour,
		Clock:          func() time.Time { return current },
	})
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(AccessTokenInput{
		EditorID: "editor-123",
		Name:     "Grace Hopper",
		Audience: []string{"api"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, "editor-123", claims.EditorID)
	require.Equal(t, "editor-123", claims.Subject)
	require.Equal(t, "Grace Hopper", claims.Name)
	require.Equal(t, "reviewerdesk", claims.Issuer)
	require.Equal(t, jwt.ClaimStrings{"api"}, claims.Audience)
	require.Equal(t, current.Add(time.Hour), claims.ExpiresAt.Time)
}

func TestGenerateAccessTokenRequiresEditor(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "secret"})
	require.NoError(t, err)

	_, err = svc.GenerateAccessToken(AccessTokenInput{EditorID: "  "})
	require.Error(t, err)
}

func TestValidateAccessTokenRejectsExpired(t *testing.T) {
	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, err := NewJWTService(JWTConfig{
		Secret:         "secret",
		AccessTokenTTL: time.Minute,
		Clock:          func() time.Time { return current },
	})
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(AccessTokenInput{EditorID: "editor-1"})
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	_, err = svc.ValidateAccessToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessTokenRejectsForeignTokens(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "secret", Issuer: "reviewerdesk"})
	require.NoError(t, err)

	other, err := NewJWTService(JWTConfig{Secret: "other", Issuer: "reviewerdesk"})
	require.NoError(t, err)
	token, err := other.GenerateAccessToken(AccessTokenInput{EditorID: "editor-1"})
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer, err := NewJWTService(JWTConfig{Secret: "secret", Issuer: "elsewhere"})
	require.NoError(t, err)
	token, err = wrongIssuer.GenerateAccessToken(AccessTokenInput{EditorID: "editor-1"})
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"uid": "editor-1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(unsigned)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateAccessToken("")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessTokenRequiresUID(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "secret"})
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "editor-1"})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}
