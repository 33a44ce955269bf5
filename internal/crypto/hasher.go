package crypto

import "golang.org/x/crypto/bcrypt"

// Hasher is the one-way password hashing contract. Implementations must never
// expose or log the raw secret.
type Hasher interface {
	// Hash produces a salted, non-deterministic digest of the secret.
	Hash(secret string) ([]byte, error)
	// Verify reports whether the secret matches the digest. A malformed
	// digest reports false rather than an error.
	Verify(secret string, digest []byte) bool
}

// BcryptHasher implements Hasher using bcrypt with a tunable work factor.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher builds a hasher with the given cost. Out-of-range costs
// fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{cost: cost}
}

func (h BcryptHasher) Hash(secret string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(secret), h.cost)
}

func (h BcryptHasher) Verify(secret string, digest []byte) bool {
	return bcrypt.CompareHashAndPassword(digest, []byte(secret)) == nil
}
