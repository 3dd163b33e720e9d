package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/models"
)

// vaultItemRepository is the PostgreSQL-backed implementation of
// [VaultItemRepository]. It executes all item reads and the timestamp-guarded
// upsert against the "vault_items" table using the embedded [*DB] connection.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced
// with structured fields (account_id, store_name, item_id).
type vaultItemRepository struct {
	*DB
	logger *logger.Logger
}

// NewVaultItemRepository constructs a [VaultItemRepository] backed by the
// provided database connection and logger.
//
// The logger parameter is stored for fallback logging; most methods prefer
// the context-scoped logger obtained via [logger.FromContext].
func NewVaultItemRepository(db *DB, logger *logger.Logger) VaultItemRepository {
	return &vaultItemRepository{
		DB:     db,
		logger: logger,
	}
}

// UpsertItem inserts item or replaces the stored copy when the incoming
// timestamp is strictly newer.
//
// The statement's conditional DO UPDATE clause makes the last-write-wins
// comparison atomic: when the stored row already carries an equal or greater
// updated_at, no row is returned and the caller receives [ErrStaleWrite].
// The returned bool reports whether the row was freshly inserted.
func (v *vaultItemRepository) UpsertItem(ctx context.Context, item models.VaultItem) (bool, error) {
	log := logger.FromContext(ctx)

	payload := item.Payload
	if payload == nil {
		payload = &models.EncryptedPayload{}
	}

	var inserted bool
	err := v.DB.QueryRowContext(ctx, upsertVaultItem,
		item.AccountID,
		item.StoreName,
		item.ItemID,
		item.ItemName,
		payload.Salt,
		payload.IV,
		payload.Data,
		item.PayloadSize,
		item.UpdatedAt,
	).Scan(&inserted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug().
				Str("func", "vaultItemRepository.UpsertItem").
				Str("store_name", item.StoreName).
				Str("item_id", item.ItemID).
				Int64("updated_at", item.UpdatedAt).
				Msg("stored item is newer, write rejected")
			return false, ErrStaleWrite
		}

		log.Err(err).
			Str("func", "vaultItemRepository.UpsertItem").
			Str("store_name", item.StoreName).
			Str("item_id", item.ItemID).
			Msg("failed to execute conditional upsert")
		return false, v.classify(fmt.Errorf("%w: %w", ErrExecutingStatement, err))
	}

	return inserted, nil
}

// GetItem retrieves one item including its payload, or [ErrItemNotFound]
// when no such item exists.
func (v *vaultItemRepository) GetItem(ctx context.Context, accountID, storeName, itemID string) (models.VaultItem, error) {
	log := logger.FromContext(ctx)

	var (
		item    models.VaultItem
		payload models.EncryptedPayload
	)
	err := v.DB.QueryRowContext(ctx, getVaultItem, accountID, storeName, itemID).Scan(
		&item.AccountID,
		&item.StoreName,
		&item.ItemID,
		&item.ItemName,
		&payload.Salt,
		&payload.IV,
		&payload.Data,
		&item.PayloadSize,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.VaultItem{}, ErrItemNotFound
		}

		log.Err(err).
			Str("func", "vaultItemRepository.GetItem").
			Str("store_name", storeName).
			Str("item_id", itemID).
			Msg("failed to scan vault item row")
		return models.VaultItem{}, v.classify(fmt.Errorf("%w: %w", ErrScanningRow, err))
	}

	// An empty ciphertext column means the payload was never uploaded.
	if payload.Data != "" {
		item.Payload = &payload
	}

	return item, nil
}

// ListItems returns payload-free descriptors of every item the account holds
// in one store, newest first.
//
// Returns an empty slice when the store holds no items.
func (v *vaultItemRepository) ListItems(ctx context.Context, accountID, storeName string) ([]models.VaultItemState, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListItemsQuery(accountID, storeName)
	if err != nil {
		log.Err(err).
			Str("func", "vaultItemRepository.ListItems").
			Str("store_name", storeName).
			Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return v.queryStates(ctx, "vaultItemRepository.ListItems", query, args...)
}

// ListItemsSince returns payload-free descriptors of items across all stores
// whose UpdatedAt is strictly greater than since, ordered by ascending
// UpdatedAt. The strict comparison lets clients pass their previous
// high-water mark without replaying it.
func (v *vaultItemRepository) ListItemsSince(ctx context.Context, accountID string, since int64) ([]models.VaultItemState, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListItemsSinceQuery(accountID, since)
	if err != nil {
		log.Err(err).
			Str("func", "vaultItemRepository.ListItemsSince").
			Int64("since", since).
			Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return v.queryStates(ctx, "vaultItemRepository.ListItemsSince", query, args...)
}

// DeleteItem removes the item row. The returned bool reports whether a row
// existed; deleting an absent item is a no-op, not an error, so deletes stay
// idempotent against replayed sync batches.
func (v *vaultItemRepository) DeleteItem(ctx context.Context, accountID, storeName, itemID string) (bool, error) {
	log := logger.FromContext(ctx)

	result, err := v.DB.ExecContext(ctx, deleteVaultItem, accountID, storeName, itemID)
	if err != nil {
		log.Err(err).
			Str("func", "vaultItemRepository.DeleteItem").
			Str("store_name", storeName).
			Str("item_id", itemID).
			Msg("failed to delete vault item")
		return false, v.classify(fmt.Errorf("%w: %w", ErrExecutingStatement, err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "vaultItemRepository.DeleteItem").
			Str("store_name", storeName).
			Str("item_id", itemID).
			Msg("failed to read affected rows")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected > 0, nil
}

// DeleteAllItems wipes every item the account owns, across all stores.
func (v *vaultItemRepository) DeleteAllItems(ctx context.Context, accountID string) error {
	log := logger.FromContext(ctx)

	if _, err := v.DB.ExecContext(ctx, deleteAllVaultItems, accountID); err != nil {
		log.Err(err).
			Str("func", "vaultItemRepository.DeleteAllItems").
			Str("account_id", accountID).
			Msg("failed to wipe vault items")
		return v.classify(fmt.Errorf("%w: %w", ErrExecutingStatement, err))
	}

	return nil
}

// queryStates runs a state-listing query and scans the descriptor rows.
func (v *vaultItemRepository) queryStates(ctx context.Context, funcName, query string, args ...any) ([]models.VaultItemState, error) {
	log := logger.FromContext(ctx)

	rows, err := v.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", funcName).
			Msg("failed to execute query for vault item states")
		return nil, v.classify(fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}
	defer rows.Close()

	states := make([]models.VaultItemState, 0, 50)

	for rows.Next() {
		var state models.VaultItemState

		scanErr := rows.Scan(
			&state.StoreName,
			&state.ItemID,
			&state.ItemName,
			&state.PayloadSize,
			&state.UpdatedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", funcName).
				Msg("failed to scan vault item state row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		states = append(states, state)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", funcName).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return states, nil
}
