package models

// User is a registered account. Created once at sign-up; this service never
// updates or deletes user rows.
type User struct {
	ID             int    `json:"id"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	HashedPassword string `json:"-"` // never expose the hash
	IsActive       bool   `json:"is_active"`
	Role           string `json:"role"` // stored, not used for authorization yet
}

// Identity is the authenticated principal extracted from a verified token.
type Identity struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}
