package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/events"
	"github.com/spec-kit/identity-service/internal/repository"
)

// AuthService coordinates registration, login, refresh and deactivation for
// every role namespace through one parameterized mechanism.
type AuthService struct {
	accounts      repository.AccountRepository
	registry      *domain.Registry
	hasher        *auth.PasswordHasher
	issuer        *auth.TokenIssuer
	authenticator *auth.Authenticator
	dispatcher    events.Dispatcher

	// decoyHash keeps login latency comparable when the identifier is
	// unknown, so response timing does not reveal account existence.
	decoyHash string
}

// AuthDependencies encapsulates collaborator requirements for the service.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	Watermarks  repository.RotationWatermarkStore
	Dispatcher  events.Dispatcher
}

// NewAuthService builds the service and its verification pipeline from one
// AuthConfig instance.
func NewAuthService(cfg config.AuthConfig, registry *domain.Registry, deps AuthDependencies) (*AuthService, error) {
	codec := auth.NewClaimCodec(cfg)
	issuer := auth.NewTokenIssuer(codec, cfg)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	var watermarks repository.RotationWatermarkStore
	if cfg.RotationWatermark {
		watermarks = deps.Watermarks
	}

	decoy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}

	return &AuthService{
		accounts:      deps.AccountRepo,
		registry:      registry,
		hasher:        hasher,
		issuer:        issuer,
		authenticator: auth.NewAuthenticator(codec, issuer, deps.AccountRepo, watermarks),
		dispatcher:    deps.Dispatcher,
		decoyHash:     decoy,
	}, nil
}

// Register creates an account in the role namespace and returns it with a
// freshly issued token pair.
func (s *AuthService) Register(ctx context.Context, role domain.RoleTag, identifier, secret string) (*domain.Account, domain.TokenPair, error) {
	if !s.registry.Known(role) {
		return nil, domain.TokenPair{}, auth.ErrUnknownRole
	}

	if _, err := s.accounts.GetByIdentifier(ctx, role, identifier); err == nil {
		return nil, domain.TokenPair{}, auth.ErrIdentifierTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, domain.TokenPair{}, err
	}

	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}

	account := &domain.Account{
		Role:       role,
		Identifier: identifier,
		SecretHash: hash,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		// A concurrent registration can win the race between the pre-check
		// and the insert; the unique index surfaces it here.
		if errors.Is(err, repository.ErrDuplicateIdentifier) {
			return nil, domain.TokenPair{}, auth.ErrIdentifierTaken
		}
		return nil, domain.TokenPair{}, err
	}

	pair, err := s.issuer.Issue(account.ID, role)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventAccountRegistered,
		Role:      role,
		AccountID: account.ID,
		Payload:   events.AccountRegisteredPayload{Identifier: identifier},
	})
	return account, pair, nil
}

// Login verifies credentials and issues a token pair. Unknown identifier,
// wrong secret and deactivated account all surface as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, role domain.RoleTag, identifier, secret string) (domain.TokenPair, error) {
	if !s.registry.Known(role) {
		return domain.TokenPair{}, auth.ErrUnknownRole
	}

	account, err := s.accounts.GetByIdentifier(ctx, role, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(secret, s.decoyHash)
			s.publishLoginFailed(ctx, role)
			return domain.TokenPair{}, auth.ErrInvalidCredentials
		}
		return domain.TokenPair{}, err
	}

	if !s.hasher.Verify(secret, account.SecretHash) || !account.Active() {
		s.publishLoginFailed(ctx, role)
		return domain.TokenPair{}, auth.ErrInvalidCredentials
	}

	pair, err := s.issuer.Issue(account.ID, role)
	if err != nil {
		return domain.TokenPair{}, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventLoginSucceeded,
		Role:      role,
		AccountID: account.ID,
	})
	return pair, nil
}

// Refresh exchanges a refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context, role domain.RoleTag, refreshToken string) (domain.TokenPair, error) {
	if !s.registry.Known(role) {
		return domain.TokenPair{}, auth.ErrUnknownRole
	}

	pair, err := s.authenticator.Refresh(ctx, refreshToken, role)
	if err != nil {
		return domain.TokenPair{}, err
	}

	s.publish(ctx, events.Event{
		Type: events.EventTokenRefreshed,
		Role: role,
		Payload: events.TokenRefreshedPayload{
			AccessExpiresAt:  pair.AccessExpiresAt,
			RefreshExpiresAt: pair.RefreshExpiresAt,
		},
	})
	return pair, nil
}

// Deactivate soft-deletes the account. Outstanding tokens fail their next
// activity check, which is the only revocation this system performs.
func (s *AuthService) Deactivate(ctx context.Context, role domain.RoleTag, accountID string) error {
	if !s.registry.Known(role) {
		return auth.ErrUnknownRole
	}
	if err := s.accounts.Deactivate(ctx, role, accountID); err != nil {
		return err
	}
	s.publish(ctx, events.Event{
		Type:      events.EventAccountDeactivated,
		Role:      role,
		AccountID: accountID,
	})
	return nil
}

// Authenticator exposes the verification pipeline for middleware usage.
func (s *AuthService) Authenticator() *auth.Authenticator {
	return s.authenticator
}

func (s *AuthService) publishLoginFailed(ctx context.Context, role domain.RoleTag) {
	s.publish(ctx, events.Event{
		Type:    events.EventLoginFailed,
		Role:    role,
		Payload: events.LoginFailedPayload{Reason: "invalid credentials"},
	})
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
