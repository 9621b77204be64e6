package users

import "time"

// User is an auth identity row.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile is the user-facing profile row, keyed by the user id.
// HasSeenWelcome gates the one-time welcome notice and flips exactly once.
type Profile struct {
	ID             string
	Name           string
	Email          string
	HasSeenWelcome bool
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult carries everything the client needs after signing in.
type AuthResult struct {
	Tokens  TokenPair
	UserID  string
	Profile *Profile
}
