package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists accounts.
type Repository interface {
	Create(ctx context.Context, acct Account) error
	FindByIdentifier(ctx context.Context, kind Kind, identifier string) (Account, error)
	FindByID(ctx context.Context, kind Kind, id string) (Account, error)
	List(ctx context.Context, kind Kind) ([]Account, error)
	UpdateStatus(ctx context.Context, kind Kind, id string, status Status) error
}

const uniqueViolation = "23505"

// PostgresRepository implements Repository using PostgreSQL. Uniqueness of
// (kind, mobile_number) and (kind, email) is enforced by unique indexes, so a
// concurrent duplicate insert loses at the constraint rather than the pre-check.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed account repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, kind, name, pin_hash, mobile_number, email, status, balance, created_at`

// Create inserts a new account.
func (r *PostgresRepository) Create(ctx context.Context, acct Account) error {
	accountID, err := uuid.Parse(acct.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO accounts (id, kind, name, pin_hash, mobile_number, email, status, balance, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		accountID, string(acct.Kind), acct.Name, acct.PINHash, acct.MobileNumber, acct.Email, string(acct.Status), acct.Balance, acct.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateAccount
	}
	return err
}

// FindByIdentifier fetches an account by mobile number or email within a kind.
func (r *PostgresRepository) FindByIdentifier(ctx context.Context, kind Kind, identifier string) (Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts
        WHERE kind = $1 AND (mobile_number = $2 OR email = $2)`, string(kind), identifier)
	return scanAccount(row)
}

// FindByID fetches an account by its identifier within a kind.
func (r *PostgresRepository) FindByID(ctx context.Context, kind Kind, id string) (Account, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return Account{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts
        WHERE kind = $1 AND id = $2`, string(kind), accountID)
	return scanAccount(row)
}

// List returns all accounts of a kind ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context, kind Kind) ([]Account, error) {
	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts
        WHERE kind = $1 ORDER BY created_at`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	return accounts, rows.Err()
}

// UpdateStatus transitions an account to the given status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, kind Kind, id string, status Status) error {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE accounts SET status = $1 WHERE kind = $2 AND id = $3`,
		string(status), string(kind), accountID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		id        uuid.UUID
		kind      string
		status    string
		createdAt time.Time
		acct      Account
	)
	if err := row.Scan(&id, &kind, &acct.Name, &acct.PINHash, &acct.MobileNumber, &acct.Email, &status, &acct.Balance, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	acct.ID = id.String()
	acct.Kind = Kind(kind)
	acct.Status = Status(status)
	acct.CreatedAt = createdAt.UTC()
	return acct, nil
}
