package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/member-hub/memberhub/internal/crypto"
	"github.com/member-hub/memberhub/internal/identity"
	"github.com/member-hub/memberhub/internal/profile"
	"github.com/member-hub/memberhub/internal/store"
)

func newTestService() (*Service, *store.MemoryStore, crypto.BcryptHasher) {
	st := store.NewMemory()
	hasher := crypto.NewBcryptHasher(bcrypt.MinCost)
	return NewService(st, hasher), st, hasher
}

// seedLinked creates a profile with an attached credential, mimicking what
// registration produces.
func seedLinked(t *testing.T, st *store.MemoryStore, hasher crypto.BcryptHasher, username, email, password string) (profile.Profile, identity.Identity) {
	t.Helper()
	ctx := context.Background()

	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	p := profile.Profile{ID: uuid.NewString(), FirstName: username, Email: email, CreatedAt: time.Now().UTC()}
	ident := identity.Identity{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         identity.RoleMember,
		ProfileID:    p.ID,
		CreatedAt:    p.CreatedAt,
	}
	err = st.WithinTx(ctx, func(tx store.Store) error {
		if err := tx.Profiles().Create(ctx, p); err != nil {
			return err
		}
		return tx.Identities().Create(ctx, ident)
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return p, ident
}

func TestCrudRoundtrip(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, Input{
		FirstName:  "Alice",
		LastName:   "Martin",
		Email:      "alice@x.com",
		Address:    "12 Rue des Clubs",
		NationalID: "AB123456",
		Club:       "Falcons",
		Mission:    "coaching",
		JobTitle:   "coach",
		Phone:      "+21612345678",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected assigned id")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != "alice@x.com" || got.Club != "Falcons" {
		t.Fatalf("unexpected profile: %+v", got)
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(all))
	}

	updated, err := svc.Update(ctx, created.ID, Input{Club: "Eagles"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Club != "Eagles" {
		t.Fatalf("expected club overwrite, got %q", updated.Club)
	}
	if updated.Email != "alice@x.com" {
		t.Fatal("empty fields must keep stored values")
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGetUnknownID(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Get(context.Background(), uuid.NewString()); !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, Input{Email: "a@x.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, Input{Email: "a@x.com"}); !errors.Is(err, profile.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, Input{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing email, got %v", err)
	}
	if _, err := svc.Create(ctx, Input{Email: "a@x.com", NationalID: "too-long-id"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for national id length, got %v", err)
	}
}

func TestCreateDiscardsSecretForUnlinkedProfile(t *testing.T) {
	svc, st, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, Input{Email: "a@x.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := st.Identities().FindByProfileID(ctx, created.ID); !errors.Is(err, identity.ErrNotFound) {
		t.Fatalf("administrative create must not mint a credential, got %v", err)
	}
}

func TestUpdateEmptyPasswordKeepsHash(t *testing.T) {
	svc, st, hasher := newTestService()
	ctx := context.Background()

	p, ident := seedLinked(t, st, hasher, "alice", "a@x.com", "secret123")

	if _, err := svc.Update(ctx, p.ID, Input{Club: "Eagles"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	after, err := st.Identities().FindByID(ctx, ident.ID)
	if err != nil {
		t.Fatalf("find identity: %v", err)
	}
	if !hasher.Verify("secret123", after.PasswordHash) {
		t.Fatal("original password must still verify after empty-password update")
	}
}

func TestUpdateRehashesNonEmptyPassword(t *testing.T) {
	svc, st, hasher := newTestService()
	ctx := context.Background()

	p, ident := seedLinked(t, st, hasher, "alice", "a@x.com", "secret123")

	if _, err := svc.Update(ctx, p.ID, Input{Password: "newsecret"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	after, err := st.Identities().FindByID(ctx, ident.ID)
	if err != nil {
		t.Fatalf("find identity: %v", err)
	}
	if !hasher.Verify("newsecret", after.PasswordHash) {
		t.Fatal("new password must verify after update")
	}
	if hasher.Verify("secret123", after.PasswordHash) {
		t.Fatal("old password must no longer verify")
	}
	if string(after.PasswordHash) == "newsecret" {
		t.Fatal("raw secret must never be persisted")
	}
}

func TestDeleteCascadesIdentity(t *testing.T) {
	svc, st, hasher := newTestService()
	ctx := context.Background()

	p, ident := seedLinked(t, st, hasher, "alice", "a@x.com", "secret123")

	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := st.Profiles().FindByID(ctx, p.ID); !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("expected profile gone, got %v", err)
	}
	if _, err := st.Identities().FindByID(ctx, ident.ID); !errors.Is(err, identity.ErrNotFound) {
		t.Fatalf("expected identity gone, got %v", err)
	}
	if _, err := st.Identities().FindByUsername(ctx, "alice"); !errors.Is(err, identity.ErrNotFound) {
		t.Fatalf("expected username unreachable, got %v", err)
	}
}

func TestDeleteUnknownID(t *testing.T) {
	svc, _, _ := newTestService()
	if err := svc.Delete(context.Background(), uuid.NewString()); !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
