package models

import "time"

// Account represents a vault owner used for authentication and authorization.
// It contains identity attributes and credential-comparison artifacts.
// Sensitive fields must never be exposed outside trusted boundaries.
type Account struct {
	// AccountID is the unique identifier of the account (UUID string).
	AccountID string `json:"id"`

	// Email is the unique, case-normalized account email.
	Email string `json:"email"`

	// PasswordHash is the salted, irreversible hash of the account password.
	// It is never exposed via JSON and never returned to any caller.
	PasswordHash string `json:"-"`

	// EncryptionSalt is the random salt clients use to derive the vault key.
	// The server never derives anything from it; it is opaque client material.
	EncryptionSalt []byte `json:"encryptionSalt"`

	// RefreshTokenHash is the comparison artifact for the single active
	// refresh token. Empty means no active session. The raw token is never
	// stored and cannot be recovered from this value.
	RefreshTokenHash string `json:"-"`

	// RefreshTokenExpiry is the expiry of the active refresh token.
	// Zero when RefreshTokenHash is empty.
	RefreshTokenExpiry time.Time `json:"-"`

	// ResetTokenHash is the comparison artifact for the pending single-use
	// password-reset token. Empty when no reset is in flight.
	ResetTokenHash string `json:"-"`

	// ResetTokenExpiry is the expiry of the pending reset token.
	ResetTokenExpiry time.Time `json:"-"`

	// Finalized reports whether registration completed all dependent steps.
	// Accounts stuck with Finalized == false past a grace window are swept
	// and reverted by the finalization worker.
	Finalized bool `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// HasActiveRefreshToken reports whether the account currently holds a
// refresh-token hash that has not yet passed its expiry.
func (a Account) HasActiveRefreshToken(now time.Time) bool {
	return a.RefreshTokenHash != "" && now.Before(a.RefreshTokenExpiry)
}

// HasPendingResetToken reports whether the account currently holds a
// reset-token hash that has not yet passed its expiry.
func (a Account) HasPendingResetToken(now time.Time) bool {
	return a.ResetTokenHash != "" && now.Before(a.ResetTokenExpiry)
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "accounts"
}
