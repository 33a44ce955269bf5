package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/member-hub/memberhub/internal/identity"
	"github.com/member-hub/memberhub/internal/profile"
)

func testProfile(email string) profile.Profile {
	return profile.Profile{
		ID:        uuid.NewString(),
		FirstName: "test",
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	boom := errors.New("boom")
	p := testProfile("a@x.com")
	err := s.WithinTx(ctx, func(tx Store) error {
		if err := tx.Profiles().Create(ctx, p); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Profiles().FindByID(ctx, p.ID)
	require.ErrorIs(t, err, profile.ErrNotFound)
}

func TestWithinTxCommits(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	p := testProfile("a@x.com")
	ident := identity.Identity{
		ID:           uuid.NewString(),
		Username:     "alice",
		PasswordHash: []byte("digest"),
		Role:         identity.RoleVisitor,
		ProfileID:    p.ID,
		CreatedAt:    time.Now().UTC(),
	}
	err := s.WithinTx(ctx, func(tx Store) error {
		if err := tx.Profiles().Create(ctx, p); err != nil {
			return err
		}
		return tx.Identities().Create(ctx, ident)
	})
	require.NoError(t, err)

	got, err := s.Identities().FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ProfileID)
}

func TestConcurrentDuplicateUsername(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := testProfile(uuid.NewString() + "@x.com")
			errs[i] = s.WithinTx(ctx, func(tx Store) error {
				if err := tx.Profiles().Create(ctx, p); err != nil {
					return err
				}
				return tx.Identities().Create(ctx, identity.Identity{
					ID:           uuid.NewString(),
					Username:     "alice",
					PasswordHash: []byte("digest"),
					ProfileID:    p.ID,
					CreatedAt:    time.Now().UTC(),
				})
			})
		}(i)
	}
	wg.Wait()

	var conflicts, successes int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, identity.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, successes)
	require.Equal(t, 1, conflicts)

	// The losing registration must not leave an orphan profile.
	profiles, err := s.Profiles().List(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
}

func TestDuplicateEmailRejected(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Profiles().Create(ctx, testProfile("a@x.com")))
	err := s.Profiles().Create(ctx, testProfile("a@x.com"))
	require.ErrorIs(t, err, profile.ErrConflict)
}
