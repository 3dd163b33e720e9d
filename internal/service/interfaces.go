package service

import (
	"context"

	"github.com/MKhiriev/zero-vault/models"
)

// VaultService is the application layer over encrypted vault items and the
// deletion log. All methods operate strictly within one account; the account
// id always comes from the authenticated request context, never from input.
type VaultService interface {
	// Upsert applies one last-write-wins write. A lost comparison is not an
	// error: the outcome carries Conflict=true and the winning stored
	// timestamp.
	Upsert(ctx context.Context, item models.VaultItem) (UpsertOutcome, error)

	// Delete removes an item and appends a tombstone. Deleting an absent
	// item still appends the tombstone and succeeds, so replayed deletes
	// stay idempotent.
	Delete(ctx context.Context, accountID, storeName, itemID string, deletedAt int64) error

	// Get retrieves one item including its payload.
	Get(ctx context.Context, accountID, storeName, itemID string) (models.VaultItem, error)

	// List returns payload-free descriptors of one store's items.
	List(ctx context.Context, accountID, storeName string) ([]models.VaultItemState, error)

	// SyncStatus returns item states and tombstones recorded strictly after
	// the client's high-water mark.
	SyncStatus(ctx context.Context, accountID string, since int64) (models.SyncStatusResponse, error)

	// BatchPush applies up to the configured ceiling of writes, each
	// independently, and reports per-item outcomes in input order.
	BatchPush(ctx context.Context, accountID string, items []models.VaultItem) ([]models.BatchPushResult, error)

	// BatchPull retrieves up to the configured ceiling of items and reports
	// per-item results in input order. Missing items are marked, not errors.
	BatchPull(ctx context.Context, accountID string, refs []models.ItemRef) ([]models.BatchPullResult, error)
}

// AuthService handles account registration, credential verification, and the
// full token lifecycle (access, refresh, reset).
type AuthService interface {
	// Register creates a new account and issues its first session.
	Register(ctx context.Context, req models.RegisterRequest) (models.Account, models.Session, error)

	// Login verifies credentials and issues a fresh session, replacing any
	// previously active refresh token.
	Login(ctx context.Context, req models.LoginRequest) (models.Account, models.Session, error)

	// Refresh rotates a valid refresh token into a fresh session. The
	// presented token is invalidated even when rotation loses a race.
	Refresh(ctx context.Context, rawRefreshToken string) (models.Account, models.Session, error)

	// Logout revokes the active refresh token. Idempotent.
	Logout(ctx context.Context, accountID string) error

	// ChangePassword verifies the current password, then atomically installs
	// the new password hash and encryption salt and revokes the session.
	ChangePassword(ctx context.Context, accountID string, req models.ChangePasswordRequest) error

	// ForgotPassword issues a reset token and mails it. It reports success
	// for unknown emails too, so the endpoint cannot be used to probe which
	// emails are registered.
	ForgotPassword(ctx context.Context, email string) error

	// VerifyResetToken checks a reset token without consuming it, so clients
	// can validate the link before asking the user for a new password.
	VerifyResetToken(ctx context.Context, email, token string) error

	// ResetAccount consumes a reset token, installs the new credentials,
	// wipes all vault data, and issues a fresh session.
	ResetAccount(ctx context.Context, req models.ResetAccountRequest) (models.Account, models.Session, error)

	// ParseAccessToken validates a compact access token and returns its
	// decoded form.
	ParseAccessToken(ctx context.Context, tokenString string) (models.Token, error)
}
