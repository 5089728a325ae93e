package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/domain"
)

// Claims is the signed, self-contained payload carried by every token.
type Claims struct {
	Role domain.RoleTag   `json:"role"`
	Kind domain.TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// ClaimCodec encodes and decodes HS256-signed claim sets. Decode establishes
// signature validity and issuer only; expiry and kind checks belong to the
// caller.
type ClaimCodec struct {
	secret []byte
	issuer string
	parser *jwt.Parser
}

// NewClaimCodec builds a codec from the auth configuration.
func NewClaimCodec(cfg config.AuthConfig) *ClaimCodec {
	return &ClaimCodec{
		secret: []byte(cfg.SigningSecret),
		issuer: cfg.Issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

// Issuer returns the issuer constant tokens are stamped with.
func (c *ClaimCodec) Issuer() string {
	return c.issuer
}

// Encode serializes and signs the claim set into a compact token string.
func (c *ClaimCodec) Encode(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies the signature and issuer and returns the parsed claims.
// Expired or wrong-kind tokens decode successfully; semantic validation is
// the caller's responsibility.
func (c *ClaimCodec) Decode(tokenStr string) (*Claims, error) {
	parsed, err := c.parser.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrTokenMalformed
	}
	if claims.Issuer != c.issuer {
		return nil, ErrTokenMalformed
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// ExpiresAtTime returns the expiry instant of the claim set.
func (cl *Claims) ExpiresAtTime() time.Time {
	return cl.ExpiresAt.Time
}

// IssuedAtTime returns the issuance instant of the claim set.
func (cl *Claims) IssuedAtTime() time.Time {
	return cl.IssuedAt.Time
}
