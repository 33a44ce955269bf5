package store

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/member-hub/memberhub/internal/identity"
	"github.com/member-hub/memberhub/internal/profile"
)

// MemoryStore implements Store with in-process maps. It backs tests and the
// development mode without a database. WithinTx applies fn to a copy of the
// maps and swaps them in on success, so a failing fn leaves no partial write.
type MemoryStore struct {
	mu         sync.Mutex
	identities map[string]identity.Identity // keyed by id
	profiles   map[string]profile.Profile   // keyed by id
	inTx       bool
}

// NewMemory builds an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		identities: make(map[string]identity.Identity),
		profiles:   make(map[string]profile.Profile),
	}
}

func (s *MemoryStore) Identities() identity.Repository {
	return &memoryIdentities{s: s}
}

func (s *MemoryStore) Profiles() profile.Repository {
	return &memoryProfiles{s: s}
}

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	scratch := &MemoryStore{
		identities: maps.Clone(s.identities),
		profiles:   maps.Clone(s.profiles),
		inTx:       true,
	}
	if err := fn(scratch); err != nil {
		return err
	}
	s.identities = scratch.identities
	s.profiles = scratch.profiles
	return nil
}

func (s *MemoryStore) lock() {
	if !s.inTx {
		s.mu.Lock()
	}
}

func (s *MemoryStore) unlock() {
	if !s.inTx {
		s.mu.Unlock()
	}
}

type memoryIdentities struct {
	s *MemoryStore
}

func (r *memoryIdentities) Create(_ context.Context, ident identity.Identity) error {
	r.s.lock()
	defer r.s.unlock()
	for _, existing := range r.s.identities {
		if existing.Username == ident.Username {
			return identity.ErrConflict
		}
	}
	r.s.identities[ident.ID] = ident
	return nil
}

func (r *memoryIdentities) FindByUsername(_ context.Context, username string) (identity.Identity, error) {
	r.s.lock()
	defer r.s.unlock()
	for _, ident := range r.s.identities {
		if ident.Username == username {
			return ident, nil
		}
	}
	return identity.Identity{}, identity.ErrNotFound
}

func (r *memoryIdentities) FindByID(_ context.Context, id string) (identity.Identity, error) {
	r.s.lock()
	defer r.s.unlock()
	ident, ok := r.s.identities[id]
	if !ok {
		return identity.Identity{}, identity.ErrNotFound
	}
	return ident, nil
}

func (r *memoryIdentities) FindByProfileID(_ context.Context, profileID string) (identity.Identity, error) {
	r.s.lock()
	defer r.s.unlock()
	for _, ident := range r.s.identities {
		if ident.ProfileID == profileID {
			return ident, nil
		}
	}
	return identity.Identity{}, identity.ErrNotFound
}

func (r *memoryIdentities) UpdatePasswordHash(_ context.Context, id string, hash []byte) error {
	r.s.lock()
	defer r.s.unlock()
	ident, ok := r.s.identities[id]
	if !ok {
		return identity.ErrNotFound
	}
	ident.PasswordHash = hash
	r.s.identities[id] = ident
	return nil
}

func (r *memoryIdentities) Delete(_ context.Context, id string) error {
	r.s.lock()
	defer r.s.unlock()
	if _, ok := r.s.identities[id]; !ok {
		return identity.ErrNotFound
	}
	delete(r.s.identities, id)
	return nil
}

type memoryProfiles struct {
	s *MemoryStore
}

func (r *memoryProfiles) List(_ context.Context) ([]profile.Profile, error) {
	r.s.lock()
	defer r.s.unlock()
	profiles := make([]profile.Profile, 0, len(r.s.profiles))
	for _, p := range r.s.profiles {
		profiles = append(profiles, p)
	}
	sortProfiles(profiles)
	return profiles, nil
}

func (r *memoryProfiles) FindByID(_ context.Context, id string) (profile.Profile, error) {
	r.s.lock()
	defer r.s.unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	return p, nil
}

func (r *memoryProfiles) Create(_ context.Context, p profile.Profile) error {
	r.s.lock()
	defer r.s.unlock()
	for _, existing := range r.s.profiles {
		if existing.Email == p.Email {
			return profile.ErrConflict
		}
	}
	r.s.profiles[p.ID] = p
	return nil
}

func (r *memoryProfiles) Update(_ context.Context, p profile.Profile) error {
	r.s.lock()
	defer r.s.unlock()
	if _, ok := r.s.profiles[p.ID]; !ok {
		return profile.ErrNotFound
	}
	for id, existing := range r.s.profiles {
		if id != p.ID && existing.Email == p.Email {
			return profile.ErrConflict
		}
	}
	r.s.profiles[p.ID] = p
	return nil
}

func (r *memoryProfiles) Delete(_ context.Context, id string) error {
	r.s.lock()
	defer r.s.unlock()
	if _, ok := r.s.profiles[id]; !ok {
		return profile.ErrNotFound
	}
	delete(r.s.profiles, id)
	return nil
}

// sortProfiles matches the Postgres ordering: created_at, then id.
func sortProfiles(profiles []profile.Profile) {
	sort.Slice(profiles, func(i, j int) bool {
		if !profiles[i].CreatedAt.Equal(profiles[j].CreatedAt) {
			return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
		}
		return profiles[i].ID < profiles[j].ID
	})
}
