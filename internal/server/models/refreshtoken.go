package models

import "time"

// RefreshToken is the persisted form of an opaque refresh credential.
// TokenHash is the SHA-256 digest of the bearer value, so a database leak
// does not expose usable tokens. A token is valid while ConsumedAt is nil
// and Expires is in the future; consumption is terminal.
type RefreshToken struct {
	ID         string
	UserID     string
	TokenHash  string
	Expires    time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}
