package models

// RegisterRequest is the payload of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the payload of POST /api/auth/change-password.
// NewEncryptionSalt accompanies the new password because the client
// re-encrypts its vault key under the new credentials.
type ChangePasswordRequest struct {
	CurrentPassword   string `json:"currentPassword"`
	NewPassword       string `json:"newPassword"`
	NewEncryptionSalt []byte `json:"newEncryptionSalt"`
}

// ForgotPasswordRequest is the payload of POST /api/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// VerifyResetTokenRequest is the payload of POST /api/auth/verify-reset-token.
type VerifyResetTokenRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// ResetAccountRequest is the payload of POST /api/auth/reset-account.
// Consuming the token wipes all vault data: the old vault key is
// unrecoverable without the old password, so nothing stored remains usable.
type ResetAccountRequest struct {
	Email             string `json:"email"`
	Token             string `json:"token"`
	NewPassword       string `json:"newPassword"`
	NewEncryptionSalt []byte `json:"newEncryptionSalt"`
}

// ItemRef identifies one vault item inside a batch-pull request.
type ItemRef struct {
	StoreName string `json:"storeName"`
	ItemID    string `json:"itemId"`
}

// BatchPushRequest is the payload of POST /api/vault/batch/push.
// Each item is applied independently; one stale item never blocks the rest.
type BatchPushRequest struct {
	Items []VaultItem `json:"items"`
}

// BatchPullRequest is the payload of POST /api/vault/batch/pull.
type BatchPullRequest struct {
	Items []ItemRef `json:"items"`
}

// UpsertRequest is the payload of PUT /api/vault/{store}/{itemId}.
// Store name and item id travel in the URL; the body carries the rest.
type UpsertRequest struct {
	ItemName  string            `json:"itemName"`
	Payload   *EncryptedPayload `json:"encryptedPayload"`
	UpdatedAt int64             `json:"updatedAt"`
}

// DeleteRequest is the optional payload of DELETE /api/vault/{store}/{itemId}.
// DeletedAt is the client-side deletion time in Unix milliseconds; when zero
// the server stamps the tombstone with its own current time.
type DeleteRequest struct {
	DeletedAt int64 `json:"deletedAt"`
}
