package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/identity-service/internal/domain"
)

// ErrNotFound is returned when no account matches the lookup.
var ErrNotFound = errors.New("account not found")

// ErrDuplicateIdentifier is returned by Create when an active account in the
// same role namespace already holds the identifier.
var ErrDuplicateIdentifier = errors.New("identifier already in use")

// uniqueViolation is the SQLSTATE raised by the partial unique index on
// active (role, identifier).
const uniqueViolation = "23505"

// AccountRepository defines persistence access for credential accounts.
// Lookups are scoped to a role namespace; deletion is always soft.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, role domain.RoleTag, id string) (*domain.Account, error)
	GetByIdentifier(ctx context.Context, role domain.RoleTag, identifier string) (*domain.Account, error)
	Deactivate(ctx context.Context, role domain.RoleTag, id string) error
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (role, identifier, secret_hash)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		account.Role,
		account.Identifier,
		account.SecretHash,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateIdentifier
		}
		return err
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, role domain.RoleTag, id string) (*domain.Account, error) {
	const query = `
        SELECT id, role, identifier, secret_hash, created_at, updated_at, deactivated_at
        FROM accounts WHERE role=$1 AND id=$2`

	return r.scanOne(r.pool.QueryRow(ctx, query, role, id))
}

func (r *accountRepository) GetByIdentifier(ctx context.Context, role domain.RoleTag, identifier string) (*domain.Account, error) {
	const query = `
        SELECT id, role, identifier, secret_hash, created_at, updated_at, deactivated_at
        FROM accounts WHERE role=$1 AND identifier=$2 AND deactivated_at IS NULL`

	return r.scanOne(r.pool.QueryRow(ctx, query, role, identifier))
}

func (r *accountRepository) Deactivate(ctx context.Context, role domain.RoleTag, id string) error {
	const query = `
        UPDATE accounts SET deactivated_at=NOW(), updated_at=NOW()
        WHERE role=$1 AND id=$2 AND deactivated_at IS NULL`

	cmd, err := r.pool.Exec(ctx, query, role, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *accountRepository) scanOne(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	if err := row.Scan(
		&account.ID,
		&account.Role,
		&account.Identifier,
		&account.SecretHash,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.DeactivatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}
