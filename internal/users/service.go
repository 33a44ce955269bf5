// Package users implements the administrative profile CRUD service. It does
// no authorization itself; gating is the concern of the HTTP layer or an
// upstream gateway.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/member-hub/memberhub/internal/crypto"
	"github.com/member-hub/memberhub/internal/identity"
	"github.com/member-hub/memberhub/internal/profile"
	"github.com/member-hub/memberhub/internal/store"
)

// ErrValidation wraps rejected input on the CRUD path.
var ErrValidation = errors.New("validation failed")

// Service exposes list/get/create/update/delete over profile records.
type Service struct {
	store  store.Store
	hasher crypto.Hasher
}

// NewService builds the profile CRUD service.
func NewService(st store.Store, hasher crypto.Hasher) *Service {
	return &Service{store: st, hasher: hasher}
}

// Input carries the mutable profile attributes plus an optional raw secret.
// The secret is never persisted as-is: on update it re-hashes the linked
// credential, on create of an unlinked profile it is discarded.
type Input struct {
	FirstName  string
	LastName   string
	Email      string
	Address    string
	NationalID string
	Club       string
	Mission    string
	JobTitle   string
	Phone      string
	Password   string
}

// List returns all profiles in creation order.
func (s *Service) List(ctx context.Context) ([]profile.Profile, error) {
	return s.store.Profiles().List(ctx)
}

// Get fetches a single profile.
func (s *Service) Get(ctx context.Context, id string) (profile.Profile, error) {
	return s.store.Profiles().FindByID(ctx, id)
}

// Create persists a new profile with no credential attached. This is the
// administrative write path; registration is the only path that pairs a
// profile with an identity.
func (s *Service) Create(ctx context.Context, in Input) (profile.Profile, error) {
	if err := validate(in); err != nil {
		return profile.Profile{}, err
	}

	p := profile.Profile{
		ID:         uuid.NewString(),
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Address:    in.Address,
		NationalID: in.NationalID,
		Club:       in.Club,
		Mission:    in.Mission,
		JobTitle:   in.JobTitle,
		Phone:      in.Phone,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.Profiles().Create(ctx, p); err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}

// Update overwrites the mutable attributes present in the input; empty fields
// keep their stored values. A non-empty password re-hashes the linked
// credential; an empty one leaves the stored hash untouched.
func (s *Service) Update(ctx context.Context, id string, in Input) (profile.Profile, error) {
	if in.NationalID != "" && len(in.NationalID) != profile.NationalIDLength {
		return profile.Profile{}, fmt.Errorf("%w: national id must be %d characters", ErrValidation, profile.NationalIDLength)
	}

	var updated profile.Profile
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		existing, err := tx.Profiles().FindByID(ctx, id)
		if err != nil {
			return err
		}
		merged := merge(existing, in)
		if err := tx.Profiles().Update(ctx, merged); err != nil {
			return err
		}

		if in.Password != "" {
			ident, err := tx.Identities().FindByProfileID(ctx, id)
			switch {
			case err == nil:
				hash, err := s.hasher.Hash(in.Password)
				if err != nil {
					return fmt.Errorf("hash password: %w", err)
				}
				if err := tx.Identities().UpdatePasswordHash(ctx, ident.ID, hash); err != nil {
					return err
				}
			case errors.Is(err, identity.ErrNotFound):
				// Unlinked profile: nowhere to store a credential, discard.
			default:
				return err
			}
		}

		updated = merged
		return nil
	})
	if err != nil {
		return profile.Profile{}, err
	}
	return updated, nil
}

// Delete removes a profile and, in the same transaction, its linked identity.
// An orphaned credential must never remain reachable.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.WithinTx(ctx, func(tx store.Store) error {
		ident, err := tx.Identities().FindByProfileID(ctx, id)
		switch {
		case err == nil:
			if err := tx.Identities().Delete(ctx, ident.ID); err != nil {
				return err
			}
		case errors.Is(err, identity.ErrNotFound):
			// Profile-only record, nothing to cascade.
		default:
			return err
		}
		return tx.Profiles().Delete(ctx, id)
	})
}

func validate(in Input) error {
	if in.Email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if in.NationalID != "" && len(in.NationalID) != profile.NationalIDLength {
		return fmt.Errorf("%w: national id must be %d characters", ErrValidation, profile.NationalIDLength)
	}
	return nil
}

func merge(existing profile.Profile, in Input) profile.Profile {
	merged := existing
	if in.FirstName != "" {
		merged.FirstName = in.FirstName
	}
	if in.LastName != "" {
		merged.LastName = in.LastName
	}
	if in.Email != "" {
		merged.Email = in.Email
	}
	if in.Address != "" {
		merged.Address = in.Address
	}
	if in.NationalID != "" {
		merged.NationalID = in.NationalID
	}
	if in.Club != "" {
		merged.Club = in.Club
	}
	if in.Mission != "" {
		merged.Mission = in.Mission
	}
	if in.JobTitle != "" {
		merged.JobTitle = in.JobTitle
	}
	if in.Phone != "" {
		merged.Phone = in.Phone
	}
	return merged
}
