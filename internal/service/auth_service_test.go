package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/events"
	"github.com/spec-kit/identity-service/internal/repository"
	"github.com/spec-kit/identity-service/internal/service"
)

type serviceFixture struct {
	accounts *repository.MemoryAccountRepository
	service  *service.AuthService
	recorded []events.Event
}

func newServiceFixture(t *testing.T, rotationWatermark bool) *serviceFixture {
	t.Helper()

	cfg := config.AuthConfig{
		SigningSecret:         "test-secret",
		Issuer:                "identity-service-test",
		AccessTokenTTLMinutes: 60,
		RefreshTokenTTLHours:  168,
		BcryptCost:            4,
		RotationWatermark:     rotationWatermark,
	}

	f := &serviceFixture{accounts: repository.NewMemoryAccountRepository()}

	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	for _, eventType := range []events.EventType{
		events.EventAccountRegistered,
		events.EventLoginSucceeded,
		events.EventLoginFailed,
		events.EventTokenRefreshed,
		events.EventAccountDeactivated,
	} {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			f.recorded = append(f.recorded, event)
			return nil
		})
	}

	svc, err := service.NewAuthService(cfg, domain.DefaultRegistry(), service.AuthDependencies{
		AccountRepo: f.accounts,
		Watermarks:  repository.NewMemoryWatermarkStore(),
		Dispatcher:  dispatcher,
	})
	require.NoError(t, err)
	f.service = svc
	return f
}

func (f *serviceFixture) eventTypes() []events.EventType {
	types := make([]events.EventType, 0, len(f.recorded))
	for _, event := range f.recorded {
		types = append(types, event.Type)
	}
	return types
}

func TestRegisterLoginAuthenticateScenario(t *testing.T) {
	f := newServiceFixture(t, false)
	ctx := context.Background()

	account, pair, err := f.service.Register(ctx, domain.RoleRegularUser, "a@example.com", "s3cret!")
	require.NoError(t, err)
	require.NotEmpty(t, account.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	identity, err := f.service.Authenticator().Authenticate(ctx, pair.AccessToken, domain.RoleRegularUser)
	require.NoError(t, err)
	require.Equal(t, account.ID, identity.AccountID)
	require.Equal(t, domain.RoleRegularUser, identity.Role)

	// A refresh token must not pass as an access credential.
	_, err = f.service.Authenticator().Authenticate(ctx, pair.RefreshToken, domain.RoleRegularUser)
	require.ErrorIs(t, err, auth.ErrWrongTokenKind)

	// Deactivation revokes the still-unexpired access token on next use.
	require.NoError(t, f.service.Deactivate(ctx, domain.RoleRegularUser, account.ID))
	_, err = f.service.Authenticator().Authenticate(ctx, pair.AccessToken, domain.RoleRegularUser)
	require.ErrorIs(t, err, auth.ErrAccountInactive)
}

func TestLoginCollapsesFailureCauses(t *testing.T) {
	f := newServiceFixture(t, false)
	ctx := context.Background()

	account, _, err := f.service.Register(ctx, domain.RoleRegularUser, "a@example.com", "s3cret!")
	require.NoError(t, err)

	// Wrong secret.
	_, wrongSecret := f.service.Login(ctx, domain.RoleRegularUser, "a@example.com", "nope")
	require.ErrorIs(t, wrongSecret, auth.ErrInvalidCredentials)

	// Unknown identifier.
	_, unknown := f.service.Login(ctx, domain.RoleRegularUser, "nobody@example.com", "s3cret!")
	require.ErrorIs(t, unknown, auth.ErrInvalidCredentials)

	// Deactivated account, correct secret.
	require.NoError(t, f.service.Deactivate(ctx, domain.RoleRegularUser, account.ID))
	_, inactive := f.service.Login(ctx, domain.RoleRegularUser, "a@example.com", "s3cret!")
	require.ErrorIs(t, inactive, auth.ErrInvalidCredentials)

	// All three collapse into the identical outward signal.
	require.Equal(t, wrongSecret, unknown)
	require.Equal(t, unknown, inactive)
}

func TestLoginSucceedsWithCorrectSecret(t *testing.T) {
	f := newServiceFixture(t, false)
	ctx := context.Background()

	_, _, err := f.service.Register(ctx, domain.RoleModerator, "mod@example.com", "s3cret!")
	require.NoError(t, err)

	pair, err := f.service.Login(ctx, domain.RoleModerator, "mod@example.com", "s3cret!")
	require.NoError(t, err)

	identity, err := f.service.Authenticator().Authenticate(ctx, pair.AccessToken, domain.RoleModerator)
	require.NoError(t, err)
	require.Equal(t, domain.RoleModerator, identity.Role)
}

func TestRegisterRejectsDuplicateActiveIdentifier(t *testing.T) {
	f := newServiceFixture(t, false)
	ctx := context.Background()

	_, _, err := f.service.Register(ctx, domain.RoleRegularUser, "a@example.com", "s3cret!")
	require.NoError(t, err)

	_, _, err = f.service.Register(ctx, domain.RoleRegularUser, "a@example.com", "other")
	require.ErrorIs(t, err, auth.ErrIdentifierTaken)

	// The same identifier is free in a different role namespace.
	_, _, err = f.service.Register(ctx, domain.RoleModerator, "a@example.com", "s3cret!")
	require.NoError(t, err)
}

// racingAccountStore simulates a concurrent registration winning between
// the service's identifier pre-check and the insert: the lookup sees no
// account, but Create hits the unique index.
type racingAccountStore struct {
	*repository.MemoryAccountRepository
}

func (s *racingAccountStore) GetByIdentifier(context.Context, domain.RoleTag, string) (*domain.Account, error) {
	return nil, repository.ErrNotFound
}

func (s *racingAccountStore) Create(context.Context, *domain.Account) error {
	return repository.ErrDuplicateIdentifier
}

func TestRegisterMapsCreateRaceToIdentifierTaken(t *testing.T) {
	cfg := config.AuthConfig{
		SigningSecret:         "test-secret",
		Issuer:                "identity-service-test",
		AccessTokenTTLMinutes: 60,
		RefreshTokenTTLHours:  168,
		BcryptCost:            4,
	}

	svc, err := service.NewAuthService(cfg, domain.DefaultRegistry(), service.AuthDependencies{
		AccountRepo: &racingAccountStore{repository.NewMemoryAccountRepository()},
		Dispatcher:  events.NewInMemoryDispatcher(zap.NewNop()),
	})
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), domain.RoleRegularUser, "a@example.com", "s3cret!")
	require.ErrorIs(t, err, auth.ErrIdentifierTaken)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	f := newServiceFixture(t, false)
	ctx := context.Background()

	_, _, err := f.service.Register(ctx, "clinician", "a@example.com", "s3cret!")
	require.ErrorIs(t, err, auth.ErrUnknownRole)

	_, err = f.service.Login(ctx, "clinician", "a@example.com", "s3cret!")
	require.ErrorIs(t, err, auth.ErrUnknownRole)

	_, err = f.service.Refresh(ctx, "clinician", "whatever")
	require.ErrorIs(t, err, auth.ErrUnknownRole)
}

func TestRefreshRotatesDistinctPairs(t *testing.T) {
	f := newServiceFixture(t, false)
	ctx := context.Background()

	_, initial, err := f.service.Register(ctx, domain.RoleRegularUser, "a@example.com", "s3cret!")
	require.NoError(t, err)

	first, err := f.service.Refresh(ctx, domain.RoleRegularUser, initial.RefreshToken)
	require.NoError(t, err)
	second, err := f.service.Refresh(ctx, domain.RoleRegularUser, first.RefreshToken)
	require.NoError(t, err)

	require.NotEqual(t, first.AccessToken, second.AccessToken)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)
	require.NotEqual(t, initial.AccessToken, first.AccessToken)
	require.NotEqual(t, initial.RefreshToken, first.RefreshToken)
}

func TestRefreshRejectsTokenFromOtherRole(t *testing.T) {
	f := newServiceFixture(t, false)
	ctx := context.Background()

	_, pair, err := f.service.Register(ctx, domain.RoleRegularUser, "a@example.com", "s3cret!")
	require.NoError(t, err)

	_, err = f.service.Refresh(ctx, domain.RoleAdmin, pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrRoleMismatch)
}

func TestAuditEventsPublished(t *testing.T) {
	f := newServiceFixture(t, false)
	ctx := context.Background()

	account, pair, err := f.service.Register(ctx, domain.RoleRegularUser, "a@example.com", "s3cret!")
	require.NoError(t, err)

	_, err = f.service.Login(ctx, domain.RoleRegularUser, "a@example.com", "wrong")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.service.Refresh(ctx, domain.RoleRegularUser, pair.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, f.service.Deactivate(ctx, domain.RoleRegularUser, account.ID))

	require.Equal(t, []events.EventType{
		events.EventAccountRegistered,
		events.EventLoginFailed,
		events.EventTokenRefreshed,
		events.EventAccountDeactivated,
	}, f.eventTypes())

	// Failed logins never carry an account id or identifier.
	for _, event := range f.recorded {
		if event.Type == events.EventLoginFailed {
			require.Empty(t, event.AccountID)
		}
	}
}
