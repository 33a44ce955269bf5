package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/member-hub/memberhub/internal/dbx"
)

var (
	// ErrNotFound indicates no identity matches the lookup.
	ErrNotFound = errors.New("identity not found")
	// ErrConflict indicates the username is already taken.
	ErrConflict = errors.New("username already taken")
)

// Repository persists credential records. The store is the single source of
// truth for username uniqueness: Create must be atomic, so a race between two
// inserts of the same username yields exactly one success and one ErrConflict.
type Repository interface {
	Create(ctx context.Context, ident Identity) error
	FindByUsername(ctx context.Context, username string) (Identity, error)
	FindByID(ctx context.Context, id string) (Identity, error)
	FindByProfileID(ctx context.Context, profileID string) (Identity, error)
	UpdatePasswordHash(ctx context.Context, id string, hash []byte) error
	Delete(ctx context.Context, id string) error
}

// PostgresRepository implements Repository over a pgx pool or transaction.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository builds a Postgres-backed credential repository.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new credential record. Duplicate usernames surface as
// ErrConflict via the unique index.
func (r *PostgresRepository) Create(ctx context.Context, ident Identity) error {
	identID, err := uuid.Parse(ident.ID)
	if err != nil {
		return err
	}
	profileID, err := uuid.Parse(ident.ProfileID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO identities (id, username, password_hash, role, profile_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		identID, ident.Username, ident.PasswordHash, string(ident.Role), profileID, ident.CreatedAt.UTC())
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

// FindByUsername fetches a credential record by its unique username.
func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (Identity, error) {
	row := r.db.QueryRow(ctx, `SELECT id, username, password_hash, role, profile_id, created_at
        FROM identities WHERE username = $1`, username)
	return scanIdentity(row)
}

// FindByID fetches a credential record by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Identity, error) {
	identID, err := uuid.Parse(id)
	if err != nil {
		return Identity{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, username, password_hash, role, profile_id, created_at
        FROM identities WHERE id = $1`, identID)
	return scanIdentity(row)
}

// FindByProfileID fetches the credential record linked to a profile.
func (r *PostgresRepository) FindByProfileID(ctx context.Context, profileID string) (Identity, error) {
	pid, err := uuid.Parse(profileID)
	if err != nil {
		return Identity{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, username, password_hash, role, profile_id, created_at
        FROM identities WHERE profile_id = $1`, pid)
	return scanIdentity(row)
}

// UpdatePasswordHash overwrites the stored digest. This is the only mutation
// path for credentials after creation.
func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id string, hash []byte) error {
	identID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE identities SET password_hash = $1 WHERE id = $2`, hash, identID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a credential record.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	identID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM identities WHERE id = $1`, identID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanIdentity(row pgx.Row) (Identity, error) {
	var (
		id        uuid.UUID
		profileID uuid.UUID
		role      string
		createdAt time.Time
		ident     Identity
	)
	if err := row.Scan(&id, &ident.Username, &ident.PasswordHash, &role, &profileID, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Identity{}, ErrNotFound
		}
		return Identity{}, err
	}
	ident.ID = id.String()
	ident.ProfileID = profileID.String()
	ident.Role = Role(role)
	ident.CreatedAt = createdAt.UTC()
	return ident, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
