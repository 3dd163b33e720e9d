package models

// DeletionLogEntry is a tombstone: an append-only record of one deletion.
// The log is an event stream, not a current-state table — the same item id
// may appear more than once if it was deleted more than once historically.
// Consumers that need only current deletion state must de-duplicate by item
// id and latest timestamp.
type DeletionLogEntry struct {
	// AccountID is the owning account. Never exposed via JSON.
	AccountID string `json:"-"`

	// StoreName is the store the deleted item belonged to.
	StoreName string `json:"storeName"`

	// ItemID is the identifier of the deleted item.
	ItemID string `json:"itemId"`

	// DeletedAt is the deletion timestamp in Unix milliseconds.
	DeletedAt int64 `json:"deletedAt"`
}

// TableName returns the name of the database table
// associated with the DeletionLogEntry model.
func (d DeletionLogEntry) TableName() string {
	return "deletion_log"
}
