// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is a registered account holder.
type User struct {
	ID           string    // Opaque identifier assigned by the user store on insert.
	FirstName    string    // Given name as submitted at registration.
	LastName     string    // Family name as submitted at registration.
	Email        string    // Login identifier. Not guaranteed unique.
	PasswordHash string    // bcrypt hash of the password; never the plaintext.
	PhoneNumber  string    // Contact phone number, stored verbatim.
	CreatedAt    time.Time // Timestamp of registration.
}
