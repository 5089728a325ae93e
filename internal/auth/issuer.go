package auth

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/domain"
)

// TokenIssuer mints access/refresh pairs for already-verified accounts. It
// never touches account storage; callers verify first.
type TokenIssuer struct {
	codec      *ClaimCodec
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenIssuer builds an issuer from the auth configuration.
func NewTokenIssuer(codec *ClaimCodec, cfg config.AuthConfig) *TokenIssuer {
	return &TokenIssuer{
		codec:      codec,
		accessTTL:  cfg.AccessTokenTTL(),
		refreshTTL: cfg.RefreshTokenTTL(),
		now:        time.Now,
	}
}

// WithClock overrides the issuer's clock. Intended for tests.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	i.now = now
	return i
}

// Issue produces a fresh token pair for the account. Each token carries a
// unique jti, so two pairs minted within the same second still differ.
func (i *TokenIssuer) Issue(accountID string, role domain.RoleTag) (domain.TokenPair, error) {
	issuedAt := i.now()

	access, accessExp, err := i.mint(accountID, role, domain.TokenKindAccess, issuedAt, i.accessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, refreshExp, err := i.mint(accountID, role, domain.TokenKindRefresh, issuedAt, i.refreshTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
		IssuedAt:         issuedAt,
	}, nil
}

func (i *TokenIssuer) mint(accountID string, role domain.RoleTag, kind domain.TokenKind, issuedAt time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := issuedAt.Add(ttl)
	claims := &Claims{
		Role: role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.codec.Issuer(),
			Subject:   accountID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := i.codec.Encode(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}
