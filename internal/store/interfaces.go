// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/MKhiriev/zero-vault/models"
)

// ErrorClassificator decides whether a failed database operation is worth
// retrying. [PostgresErrorClassifier] is the production implementation.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// AccountRepository persists vault owner accounts and their credential
// artifacts (password hash, refresh-token hash, reset-token hash).
//
// All token "rotate" and "consume" operations are compare-and-swap: they only
// succeed when the stored hash still equals the hash the caller read earlier.
// A lost race surfaces as [ErrRefreshTokenMismatch] or [ErrResetTokenMismatch].
type AccountRepository interface {
	// CreateAccount inserts a new, not-yet-finalized account and returns the
	// stored record with server-assigned fields populated.
	// Returns [ErrEmailAlreadyExists] when the email is taken.
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)

	// FindAccountByEmail retrieves the account with the given
	// case-normalized email. Returns [ErrNoAccountWasFound] when absent.
	FindAccountByEmail(ctx context.Context, email string) (models.Account, error)

	// FindAccountByID retrieves the account with the given id.
	// Returns [ErrNoAccountWasFound] when absent.
	FindAccountByID(ctx context.Context, accountID string) (models.Account, error)

	// FinalizeAccount marks a freshly registered account as fully set up,
	// taking it out of the sweeper's reach.
	FinalizeAccount(ctx context.Context, accountID string) error

	// DeleteAccount removes the account row. Vault items and deletion-log
	// entries cascade. Used as the compensating step when registration fails
	// after the insert.
	DeleteAccount(ctx context.Context, accountID string) error

	// UpdatePassword replaces the password hash and the encryption salt in a
	// single statement so clients never observe a hash/salt mismatch.
	UpdatePassword(ctx context.Context, accountID, passwordHash string, encryptionSalt []byte) error

	// SetRefreshToken stores a new refresh-token hash unconditionally,
	// replacing whatever session was active before. Used at login.
	SetRefreshToken(ctx context.Context, accountID, tokenHash string, expiry time.Time) error

	// RotateRefreshToken swaps oldHash for newHash only if oldHash is still
	// the stored value. Returns [ErrRefreshTokenMismatch] when it is not.
	RotateRefreshToken(ctx context.Context, accountID, oldHash, newHash string, expiry time.Time) error

	// ClearRefreshToken drops the active session. Idempotent.
	ClearRefreshToken(ctx context.Context, accountID string) error

	// SetResetToken stores a new reset-token hash, replacing any pending one.
	SetResetToken(ctx context.Context, accountID, tokenHash string, expiry time.Time) error

	// ConsumeResetToken clears the reset-token hash, installs the new
	// credentials, and revokes the active refresh token in one conditional
	// update, only if tokenHash is still the stored value.
	// Returns [ErrResetTokenMismatch] when it is not.
	ConsumeResetToken(ctx context.Context, accountID, tokenHash, passwordHash string, encryptionSalt []byte) error

	// SweepUnfinalized deletes accounts that never finalized and were
	// created before cutoff. Returns the number of rows removed.
	SweepUnfinalized(ctx context.Context, cutoff time.Time) (int64, error)
}

// VaultItemRepository persists encrypted vault items.
//
// The write path is last-write-wins: [VaultItemRepository.UpsertItem] only
// lands when the incoming timestamp is strictly newer than the stored one,
// so concurrent writers race safely without explicit locking.
type VaultItemRepository interface {
	// UpsertItem inserts the item, or replaces the stored copy when the
	// incoming UpdatedAt is strictly greater than the stored UpdatedAt.
	// The returned bool reports whether a new row was created.
	// Returns [ErrStaleWrite] when the stored copy wins the comparison.
	UpsertItem(ctx context.Context, item models.VaultItem) (bool, error)

	// GetItem retrieves one item including its payload.
	// Returns [ErrItemNotFound] when absent.
	GetItem(ctx context.Context, accountID, storeName, itemID string) (models.VaultItem, error)

	// ListItems returns payload-free descriptors of every item the account
	// holds in one store, newest first.
	ListItems(ctx context.Context, accountID, storeName string) ([]models.VaultItemState, error)

	// ListItemsSince returns payload-free descriptors of items across all
	// stores whose UpdatedAt is strictly greater than since, ordered by
	// ascending UpdatedAt.
	ListItemsSince(ctx context.Context, accountID string, since int64) ([]models.VaultItemState, error)

	// DeleteItem removes the item row. The returned bool reports whether a
	// row existed; deleting an absent item is not an error.
	DeleteItem(ctx context.Context, accountID, storeName, itemID string) (bool, error)

	// DeleteAllItems wipes every item the account owns, across all stores.
	DeleteAllItems(ctx context.Context, accountID string) error
}

// DeletionLogRepository persists tombstones. The log is append-only; entries
// are never updated, and duplicates per item id are expected.
type DeletionLogRepository interface {
	// AppendDeletion records one tombstone.
	AppendDeletion(ctx context.Context, entry models.DeletionLogEntry) error

	// ListDeletionsSince returns tombstones whose DeletedAt is strictly
	// greater than since, ordered by ascending DeletedAt.
	ListDeletionsSince(ctx context.Context, accountID string, since int64) ([]models.DeletionLogEntry, error)

	// PurgeDeletions removes every tombstone the account owns. Used only by
	// the full account reset.
	PurgeDeletions(ctx context.Context, accountID string) error
}
