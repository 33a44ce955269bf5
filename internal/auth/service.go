package auth

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

var (
	// ErrUserNotFound indicates the login username has no identity.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidPassword indicates the secret did not match the stored hash.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrValidation wraps missing-field failures at registration.
	ErrValidation = errors.New("validation failed")
)

// Service orchestrates registration and login over the credential and
// profile stores.
type Service struct {
	store  store.Store
	hasher crypto.Hasher
	issuer *Issuer
}

// NewService builds the auth core.
func NewService(st store.Store, hasher crypto.Hasher, issuer *Issuer) *Service {
	return &Service{store: st, hasher: hasher, issuer: issuer}
}

// RegisterInput carries the registration request fields. Role is free-form
// input; unknown values fall back to VISITOR.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// PublicIdentity is the caller-visible view of a created identity. It never
// carries the password hash.
type PublicIdentity struct {
	ID       string        `json:"id"`
	Username string        `json:"username"`
	Role     identity.Role `json:"role"`
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token    string
	Role     identity.Role
	UserID   string
	Username string
}

// Register creates a profile and its credential record in one transaction.
// Partial registration is a defect: either both records persist or neither
// does. Duplicate usernames and emails surface the stores' conflict errors.
func (s *Service) Register(ctx context.Context, in RegisterInput) (PublicIdentity, error) {
	if in.Username == "" {
		return PublicIdentity{}, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if in.Email == "" {
		return PublicIdentity{}, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if in.Password == "" {
		return PublicIdentity{}, fmt.Errorf("%w: password is required", ErrValidation)
	}
	role := identity.ParseRole(in.Role)

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return PublicIdentity{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	ident := identity.Identity{
		ID:           uuid.NewString(),
		Username:     in.Username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
	}
	err = s.store.WithinTx(ctx, func(tx store.Store) error {
		p := profile.Profile{
			ID:        uuid.NewString(),
			FirstName: in.Username,
			Email:     in.Email,
			CreatedAt: now,
		}
		if err := tx.Profiles().Create(ctx, p); err != nil {
			return err
		}
		ident.ProfileID = p.ID
		return tx.Identities().Create(ctx, ident)
	})
	if err != nil {
		return PublicIdentity{}, err
	}

	return PublicIdentity{ID: ident.ID, Username: ident.Username, Role: ident.Role}, nil
}

// Login verifies the secret against the stored hash and issues a token. All
// failures are terminal; there are no retries.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	ident, err := s.store.Identities().FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return LoginResult{}, ErrUserNotFound
		}
		return LoginResult{}, err
	}

	if !s.hasher.Verify(password, ident.PasswordHash) {
		return LoginResult{}, ErrInvalidPassword
	}

	role := ident.Role
	if role == "" {
		role = identity.RoleVisitor
	}

	token, err := s.issuer.Issue(ident.ID, role)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	return LoginResult{Token: token, Role: role, UserID: ident.ID, Username: ident.Username}, nil
}
