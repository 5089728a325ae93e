package auth_test

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/domain"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		SigningSecret:         "test-secret",
		Issuer:                "identity-service-test",
		AccessTokenTTLMinutes: 60,
		RefreshTokenTTLHours:  168,
		BcryptCost:            4,
	}
}

func testClaims(cfg config.AuthConfig, kind domain.TokenKind, issuedAt time.Time, ttl time.Duration) *auth.Claims {
	return &auth.Claims{
		Role: domain.RoleRegularUser,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   "account-1",
			ID:        "jti-1",
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}
}

func TestClaimCodecRoundTrip(t *testing.T) {
	cfg := testAuthConfig()
	codec := auth.NewClaimCodec(cfg)

	issuedAt := time.Now().Truncate(time.Second)
	claims := testClaims(cfg, domain.TokenKindAccess, issuedAt, time.Hour)

	token, err := codec.Encode(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	decoded, err := codec.Decode(token)
	require.NoError(t, err)
	require.Equal(t, claims.Subject, decoded.Subject)
	require.Equal(t, claims.Role, decoded.Role)
	require.Equal(t, claims.Kind, decoded.Kind)
	require.Equal(t, claims.Issuer, decoded.Issuer)
	require.True(t, claims.ExpiresAt.Time.Equal(decoded.ExpiresAtTime()))
	require.True(t, claims.IssuedAt.Time.Equal(decoded.IssuedAtTime()))
}

func TestClaimCodecRejectsTamperedToken(t *testing.T) {
	cfg := testAuthConfig()
	codec := auth.NewClaimCodec(cfg)

	token, err := codec.Encode(testClaims(cfg, domain.TokenKindAccess, time.Now(), time.Hour))
	require.NoError(t, err)

	// Flip the last signature character.
	tampered := token[:len(token)-1]
	if strings.HasSuffix(token, "A") {
		tampered += "B"
	} else {
		tampered += "A"
	}

	_, err = codec.Decode(tampered)
	require.ErrorIs(t, err, auth.ErrTokenSignatureInvalid)
}

func TestClaimCodecRejectsForeignKey(t *testing.T) {
	cfg := testAuthConfig()
	codec := auth.NewClaimCodec(cfg)

	foreign := cfg
	foreign.SigningSecret = "some-other-secret"
	token, err := auth.NewClaimCodec(foreign).Encode(testClaims(foreign, domain.TokenKindAccess, time.Now(), time.Hour))
	require.NoError(t, err)

	_, err = codec.Decode(token)
	require.ErrorIs(t, err, auth.ErrTokenSignatureInvalid)
}

func TestClaimCodecRejectsGarbage(t *testing.T) {
	codec := auth.NewClaimCodec(testAuthConfig())

	for _, tokenStr := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err := codec.Decode(tokenStr)
		require.ErrorIs(t, err, auth.ErrTokenMalformed, "token %q", tokenStr)
	}
}

func TestClaimCodecRejectsWrongIssuer(t *testing.T) {
	cfg := testAuthConfig()
	codec := auth.NewClaimCodec(cfg)

	claims := testClaims(cfg, domain.TokenKindAccess, time.Now(), time.Hour)
	claims.Issuer = "somebody-else"
	token, err := codec.Encode(claims)
	require.NoError(t, err)

	_, err = codec.Decode(token)
	require.ErrorIs(t, err, auth.ErrTokenMalformed)
}

func TestClaimCodecDecodesExpiredToken(t *testing.T) {
	// Expiry is semantic validity, owned by the caller; the codec only
	// vouches for the signature.
	cfg := testAuthConfig()
	codec := auth.NewClaimCodec(cfg)

	token, err := codec.Encode(testClaims(cfg, domain.TokenKindAccess, time.Now().Add(-2*time.Hour), time.Hour))
	require.NoError(t, err)

	decoded, err := codec.Decode(token)
	require.NoError(t, err)
	require.True(t, decoded.ExpiresAtTime().Before(time.Now()))
}
