package profile

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
	// ErrNotFound indicates no profile matches the lookup.
	ErrNotFound = errors.New("profile not found")
	// ErrConflict indicates the email is already registered.
	ErrConflict = errors.New("email already registered")
)

// Repository persists profile records. Email uniqueness is enforced here: a
// violating write is rejected with ErrConflict, never silently overwritten.
type Repository interface {
	List(ctx context.Context) ([]Profile, error)
	FindByID(ctx context.Context, id string) (Profile, error)
	Create(ctx context.Context, p Profile) error
	Update(ctx context.Context, p Profile) error
	Delete(ctx context.Context, id string) error
}

// PostgresRepository implements Repository over a pgx pool or transaction.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository builds a Postgres-backed profile repository.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const profileColumns = `id, first_name, last_name, email, address, national_id, club, mission, job_title, phone, created_at`

// List returns all profiles ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]Profile, error) {
	rows, err := r.db.Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// FindByID fetches a profile by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Profile, error) {
	profileID, err := uuid.Parse(id)
	if err != nil {
		return Profile{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, profileID)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	return p, nil
}

// Create inserts a profile record.
func (r *PostgresRepository) Create(ctx context.Context, p Profile) error {
	profileID, err := uuid.Parse(p.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO profiles (`+profileColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		profileID, p.FirstName, p.LastName, p.Email, p.Address, p.NationalID,
		p.Club, p.Mission, p.JobTitle, p.Phone, p.CreatedAt.UTC())
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

// Update overwrites the mutable attributes of a profile.
func (r *PostgresRepository) Update(ctx context.Context, p Profile) error {
	profileID, err := uuid.Parse(p.ID)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE profiles
        SET first_name = $1, last_name = $2, email = $3, address = $4, national_id = $5,
            club = $6, mission = $7, job_title = $8, phone = $9
        WHERE id = $10`,
		p.FirstName, p.LastName, p.Email, p.Address, p.NationalID,
		p.Club, p.Mission, p.JobTitle, p.Phone, profileID)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a profile record.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	profileID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, profileID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (Profile, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		p         Profile
	)
	if err := row.Scan(&id, &p.FirstName, &p.LastName, &p.Email, &p.Address, &p.NationalID,
		&p.Club, &p.Mission, &p.JobTitle, &p.Phone, &createdAt); err != nil {
		return Profile{}, err
	}
	p.ID = id.String()
	p.CreatedAt = createdAt.UTC()
	return p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
