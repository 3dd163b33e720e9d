package models

import "encoding/base64"

// AllowedStores is the closed set of store names a vault item may belong to.
// Store names outside this set are rejected before any database access.
var AllowedStores = []string{
	"image-presets",
	"svg-projects",
	"three-scenes",
	"pdf-documents",
	"spreadsheet-workbooks",
	"markdown-documents",
	"color-palettes",
	"devtools-snippets",
	"api-collections",
	"phone-configs",
	"map-projects",
	"invoice-configs",
	"kanban-boards",
}

// IsAllowedStore reports whether name is a member of [AllowedStores].
func IsAllowedStore(name string) bool {
	for _, s := range AllowedStores {
		if s == name {
			return true
		}
	}
	return false
}

// EncryptedPayload is the opaque ciphertext envelope produced by a client.
// The server stores and returns it verbatim; it cannot decrypt any part of it.
type EncryptedPayload struct {
	// Salt is the base64-encoded key-derivation salt for this payload.
	Salt string `json:"salt"`

	// IV is the base64-encoded initialization vector.
	IV string `json:"iv"`

	// Data is the base64-encoded ciphertext.
	Data string `json:"data"`
}

// DecodedSize returns the byte length of the decoded ciphertext.
// Malformed base64 yields 0; the payload is opaque, so the server makes no
// further judgement about its contents.
func (p EncryptedPayload) DecodedSize() int {
	decoded, err := base64.StdEncoding.DecodeString(p.Data)
	if err != nil {
		return 0
	}
	return len(decoded)
}

// VaultItem is one encrypted record owned by exactly one account.
// Exactly one live item exists per (account, store, item id); deletions remove
// the row entirely and are represented only in the deletion log.
type VaultItem struct {
	// AccountID is the owning account. Never exposed via JSON;
	// it is always taken from the authenticated request context.
	AccountID string `json:"-"`

	// StoreName is a member of [AllowedStores].
	StoreName string `json:"storeName"`

	// ItemID is an opaque client-assigned identifier,
	// unique within (account, store).
	ItemID string `json:"itemId"`

	// ItemName is a short client-supplied display name (not encrypted).
	ItemName string `json:"itemName"`

	// Payload is the encrypted content. May be nil for items whose payload
	// was never uploaded (metadata-only writes).
	Payload *EncryptedPayload `json:"encryptedPayload"`

	// PayloadSize is the decoded byte length of Payload.Data,
	// computed server-side on every write.
	PayloadSize int `json:"payloadSize"`

	// UpdatedAt is the client-supplied last-modified timestamp in Unix
	// milliseconds. It is authoritative for conflict resolution.
	UpdatedAt int64 `json:"updatedAt"`
}

// TableName returns the name of the database table
// associated with the VaultItem model.
func (v VaultItem) TableName() string {
	return "vault_items"
}

// VaultItemState is the lightweight, payload-free descriptor of a vault item
// used by listings and incremental sync responses.
type VaultItemState struct {
	StoreName   string `json:"storeName"`
	ItemID      string `json:"itemId"`
	ItemName    string `json:"itemName"`
	PayloadSize int    `json:"payloadSize"`
	UpdatedAt   int64  `json:"updatedAt"`
}
