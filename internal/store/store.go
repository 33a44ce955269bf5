// Package store aggregates the credential and profile repositories behind a
// single transaction boundary. Writes that must be atomic across the two
// record types (registration, cascade delete) run inside WithinTx.
package store

import (
	"context"

	"github.com/member-hub/memberhub/internal/identity"
	"github.com/member-hub/memberhub/internal/profile"
)

// Store exposes the repositories and a transactional scope over them.
type Store interface {
	Identities() identity.Repository
	Profiles() profile.Repository

	// WithinTx runs fn against transaction-scoped repositories. The
	// transaction commits when fn returns nil and rolls back otherwise:
	// both record types persist together or not at all.
	WithinTx(ctx context.Context, fn func(Store) error) error
}
