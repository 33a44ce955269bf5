package identity

import (
	"strings"
	"time"
)

// Role is the closed set of authorization roles an identity can carry.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleMember  Role = "MEMBER"
	RoleVisitor Role = "VISITOR"
)

// ParseRole maps free-form input onto the role set. Absent or unrecognized
// values fall back to VISITOR; callers that care about operator typos should
// log the input alongside the result.
func ParseRole(s string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleMember:
		return RoleMember
	default:
		return RoleVisitor
	}
}

// Identity is the credential record backing a login: who can authenticate,
// with what secret, and with which role. Profile data lives in a separate
// record linked one-to-one through ProfileID.
type Identity struct {
	ID           string
	Username     string
	PasswordHash []byte
	Role         Role
	ProfileID    string
	CreatedAt    time.Time
}
