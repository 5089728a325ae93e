package auth

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
)

// Authenticator verifies presented tokens against the signing key and live
// account state. It holds no mutable state between calls; deactivating an
// account takes effect on the very next request, which is the system's only
// revocation mechanism.
type Authenticator struct {
	codec      *ClaimCodec
	issuer     *TokenIssuer
	accounts   repository.AccountRepository
	watermarks repository.RotationWatermarkStore
	refreshTTL time.Duration
	now        func() time.Time
}

// NewAuthenticator builds an authenticator. watermarks may be nil, in which
// case refresh tokens stay valid until natural expiry regardless of later
// rotations.
func NewAuthenticator(codec *ClaimCodec, issuer *TokenIssuer, accounts repository.AccountRepository, watermarks repository.RotationWatermarkStore) *Authenticator {
	return &Authenticator{
		codec:      codec,
		issuer:     issuer,
		accounts:   accounts,
		watermarks: watermarks,
		refreshTTL: issuer.refreshTTL,
		now:        time.Now,
	}
}

// WithClock overrides the authenticator's clock. Intended for tests.
func (a *Authenticator) WithClock(now func() time.Time) *Authenticator {
	a.now = now
	return a
}

// Authenticate validates an access token and yields the caller's identity.
func (a *Authenticator) Authenticate(ctx context.Context, token string, expected domain.RoleTag) (*domain.Identity, error) {
	claims, err := a.validate(ctx, token, expected, domain.TokenKindAccess)
	if err != nil {
		return nil, err
	}
	return &domain.Identity{AccountID: claims.Subject, Role: claims.Role}, nil
}

// Refresh validates a refresh token and rotates a new pair. The presented
// token is not invalidated unless the rotation watermark is enabled; it
// otherwise stays valid until its own expiry.
func (a *Authenticator) Refresh(ctx context.Context, token string, expected domain.RoleTag) (domain.TokenPair, error) {
	claims, err := a.validate(ctx, token, expected, domain.TokenKindRefresh)
	if err != nil {
		return domain.TokenPair{}, err
	}

	if a.watermarks != nil {
		last, ok, err := a.watermarks.LastRotation(ctx, claims.Role, claims.Subject)
		if err != nil {
			return domain.TokenPair{}, err
		}
		if ok && claims.IssuedAtTime().Before(last) {
			// Superseded by a later rotation; treat like natural expiry.
			return domain.TokenPair{}, ErrTokenExpired
		}
	}

	pair, err := a.issuer.Issue(claims.Subject, claims.Role)
	if err != nil {
		return domain.TokenPair{}, err
	}

	if a.watermarks != nil {
		// Record the watermark at the new pair's issuance instant, truncated
		// to the second precision the token's iat claim is encoded with, so
		// the Before comparison above only fences strictly older tokens and
		// never the pair just handed out.
		rotatedAt := pair.IssuedAt.Truncate(time.Second)
		if err := a.watermarks.Touch(ctx, claims.Role, claims.Subject, rotatedAt, a.refreshTTL); err != nil {
			return domain.TokenPair{}, err
		}
	}
	return pair, nil
}

// validate runs the shared verification pipeline: decode, kind, expiry,
// role, then the live activity check. Pure token-math failures reject
// before any account store call.
func (a *Authenticator) validate(ctx context.Context, token string, expected domain.RoleTag, kind domain.TokenKind) (*Claims, error) {
	claims, err := a.codec.Decode(token)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, ErrWrongTokenKind
	}
	if a.now().After(claims.ExpiresAtTime()) {
		return nil, ErrTokenExpired
	}
	if claims.Role != expected {
		return nil, ErrRoleMismatch
	}

	account, err := a.accounts.GetByID(ctx, claims.Role, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountInactive
		}
		return nil, err
	}
	if !account.Active() {
		return nil, ErrAccountInactive
	}
	return claims, nil
}
