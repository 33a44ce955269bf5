package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/member-hub/memberhub/internal/dbx"
	"github.com/member-hub/memberhub/internal/identity"
	"github.com/member-hub/memberhub/internal/profile"
)

// PostgresStore implements Store over a pgx pool. Inside WithinTx the
// repositories share a single pgx.Tx.
type PostgresStore struct {
	pool *pgxpool.Pool
	db   dbx.DBTX
}

// NewPostgres builds a Store backed by the given connection pool.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, db: pool}
}

// Identities returns a credential repository bound to the current scope.
func (s *PostgresStore) Identities() identity.Repository {
	return identity.NewPostgresRepository(s.db)
}

// Profiles returns a profile repository bound to the current scope.
func (s *PostgresStore) Profiles() profile.Repository {
	return profile.NewPostgresRepository(s.db)
}

// WithinTx begins a transaction and hands fn a Store whose repositories run
// inside it. Nested calls reuse the enclosing transaction.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if s.pool == nil {
		return fn(s)
	}
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if err := fn(&PostgresStore{db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
