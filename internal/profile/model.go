package profile

import "time"

// NationalIDLength is the fixed length of the national identifier field.
const NationalIDLength = 8

// Profile is the user-facing data record. It may exist without a credential
// record when created through the administrative CRUD path; registration
// always pairs it with exactly one identity.
type Profile struct {
	ID         string
	FirstName  string
	LastName   string
	Email      string
	Address    string
	NationalID string
	Club       string
	Mission    string
	JobTitle   string
	Phone      string
	CreatedAt  time.Time
}
