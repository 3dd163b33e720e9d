package models

// AccountInfo is the public projection of an [Account] returned by
// authentication endpoints. It never carries hashes of any kind.
type AccountInfo struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	EncryptionSalt []byte `json:"encryptionSalt"`
}

// AuthResponse is returned by register, login, and reset-account.
// The refresh token is deliberately absent: it is delivered only as an
// HTTP-only cookie by the transport layer.
type AuthResponse struct {
	Token string      `json:"token"`
	User  AccountInfo `json:"user"`
}

// SyncStatusResponse carries everything a reconnecting device needs to
// reconcile: states of items changed after the client's high-water mark and
// deletions that happened after it. Both cutoffs are strictly greater-than so
// the boundary record is never re-delivered.
type SyncStatusResponse struct {
	Items     []VaultItemState   `json:"items"`
	Deletions []DeletionLogEntry `json:"deletions"`
}

// ListResponse is the payload-free inventory of one store,
// ordered by last-modified timestamp descending.
type ListResponse struct {
	Items []VaultItemState `json:"items"`

	// Length is the total number of entries in Items. Provided for
	// convenience so the client can pre-allocate or validate the response
	// without iterating the slice.
	Length int `json:"length"`
}

// BatchPushResult is the per-item outcome of one candidate in a batch push,
// reported in input order.
//
// A conflict is not an error: Success is false, Conflict is true, and
// RemoteUpdatedAt plus Stored carry the winning stored copy so the client
// can re-merge locally.
type BatchPushResult struct {
	StoreName       string     `json:"storeName"`
	ItemID          string     `json:"itemId"`
	Success         bool       `json:"success"`
	Conflict        bool       `json:"conflict,omitempty"`
	RemoteUpdatedAt int64      `json:"remoteUpdatedAt,omitempty"`
	Stored          *VaultItem `json:"stored,omitempty"`
	Error           string     `json:"error,omitempty"`
}

// BatchPushResponse is the payload of POST /api/vault/batch/push.
type BatchPushResponse struct {
	Results []BatchPushResult `json:"results"`
}

// BatchPullResult is one entry of a batch-pull response, in input order.
// NotFound marks pairs with no live item; Item is nil in that case.
type BatchPullResult struct {
	StoreName string     `json:"storeName"`
	ItemID    string     `json:"itemId"`
	NotFound  bool       `json:"notFound,omitempty"`
	Item      *VaultItem `json:"item,omitempty"`
}

// BatchPullResponse is the payload of POST /api/vault/batch/pull.
type BatchPullResponse struct {
	Results []BatchPullResult `json:"results"`
}

// MessageResponse is a minimal acknowledgement body used by endpoints that
// have nothing else to return (logout, forgot-password, change-password).
type MessageResponse struct {
	Message string `json:"message"`
}
