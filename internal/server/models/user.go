// Package models defines server-side data models persisted in the database.
package models

import "time"

// Role labels assigned to accounts. An account carries exactly one label;
// Admin passes every role check.
const (
	RoleCustomer = "Customer"
	RoleVendor   = "Vendor"
	RoleAdmin    = "Admin"
)

// User is an identity record. PasswordHash holds the encoded argon2id
// digest; the raw password is never persisted.
type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	Role         string
	FullName     string
	Phone        string
	Address      string
	CreatedAt    time.Time
}

// Roles returns the role labels carried by the user's access tokens.
func (u *User) Roles() []string {
	if u.Role == "" {
		return nil
	}
	return []string{u.Role}
}
