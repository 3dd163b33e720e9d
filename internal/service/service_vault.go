package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/zero-vault/internal/config"
	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/store"
	"github.com/MKhiriev/zero-vault/internal/validators"
	"github.com/MKhiriev/zero-vault/models"
)

// vaultService is the concrete implementation of VaultService.
// It enforces input limits via the injected validator, computes payload sizes
// server-side, and delegates the last-write-wins comparison to the
// timestamp-guarded upsert in the store layer.
type vaultService struct {
	// items is the data-access layer for encrypted vault items.
	items store.VaultItemRepository

	// deletions is the append-only tombstone log.
	deletions store.DeletionLogRepository

	// validator enforces store-name membership, id and name limits, payload
	// size, and batch ceilings before any database access.
	validator validators.Validator

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewVaultService constructs a VaultService wired to the given repositories
// and populated with limits from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewVaultService(items store.VaultItemRepository, deletions store.DeletionLogRepository, cfg config.App, logger *logger.Logger) VaultService {
	return &vaultService{
		items:     items,
		deletions: deletions,
		validator: validators.NewVaultValidator(cfg.MaxPayloadBytes, cfg.MaxBatchItems),
		logger:    logger,
	}
}

// Upsert applies one last-write-wins write for the item's account.
//
// The payload size is recomputed server-side on every write; client-supplied
// sizes are ignored. A rejected stale write is reported through the outcome,
// not as an error, and carries the stored timestamp that won.
//
// Returns:
//   - ErrInvalidDataProvided (wrapped) when validation fails or the
//     timestamp is missing.
//   - A wrapped storage error when the write fails for technical reasons.
func (v *vaultService) Upsert(ctx context.Context, item models.VaultItem) (UpsertOutcome, error) {
	log := logger.FromContext(ctx)

	if err := v.validateWrite(ctx, &item); err != nil {
		return UpsertOutcome{}, err
	}

	created, err := v.upsertWithRetry(ctx, item)
	if err == nil {
		log.Debug().
			Str("store_name", item.StoreName).
			Str("item_id", item.ItemID).
			Str("outcome", outcomeOf(created).String()).
			Msg("vault write applied")
		return UpsertOutcome{Created: created}, nil
	}

	if !errors.Is(err, store.ErrStaleWrite) {
		log.Err(err).
			Str("store_name", item.StoreName).
			Str("item_id", item.ItemID).
			Msg("vault write failed")
		return UpsertOutcome{}, fmt.Errorf("vault write failed: %w", err)
	}

	// The stored copy won. Re-read it so the client learns the winning
	// item and can re-merge locally.
	outcome := UpsertOutcome{Conflict: true}
	stored, readErr := v.items.GetItem(ctx, item.AccountID, item.StoreName, item.ItemID)
	if readErr == nil {
		outcome.RemoteUpdatedAt = stored.UpdatedAt
		outcome.Stored = &stored
	}

	log.Debug().
		Str("store_name", item.StoreName).
		Str("item_id", item.ItemID).
		Str("outcome", OutcomeRejectedStale.String()).
		Int64("remote_updated_at", outcome.RemoteUpdatedAt).
		Msg("vault write rejected, stored copy is newer")

	return outcome, nil
}

// Delete removes the item and appends a tombstone.
//
// The tombstone is appended whether or not a live row existed, so a delete
// replayed from another device converges to the same state. A zero deletedAt
// is stamped with the server's current time.
func (v *vaultService) Delete(ctx context.Context, accountID, storeName, itemID string, deletedAt int64) error {
	log := logger.FromContext(ctx)

	ref := models.ItemRef{StoreName: storeName, ItemID: itemID}
	if err := v.validator.Validate(ctx, ref); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	if deletedAt <= 0 {
		deletedAt = time.Now().UnixMilli()
	}

	existed, err := v.items.DeleteItem(ctx, accountID, storeName, itemID)
	if err != nil {
		log.Err(err).Str("store_name", storeName).Str("item_id", itemID).Msg("vault delete failed")
		return fmt.Errorf("vault delete failed: %w", err)
	}

	if err := v.deletions.AppendDeletion(ctx, models.DeletionLogEntry{
		AccountID: accountID,
		StoreName: storeName,
		ItemID:    itemID,
		DeletedAt: deletedAt,
	}); err != nil {
		log.Err(err).Str("store_name", storeName).Str("item_id", itemID).Msg("tombstone append failed")
		return fmt.Errorf("tombstone append failed: %w", err)
	}

	log.Debug().
		Str("store_name", storeName).
		Str("item_id", itemID).
		Bool("existed", existed).
		Msg("vault item deleted")

	return nil
}

// Get retrieves one item including its payload.
func (v *vaultService) Get(ctx context.Context, accountID, storeName, itemID string) (models.VaultItem, error) {
	ref := models.ItemRef{StoreName: storeName, ItemID: itemID}
	if err := v.validator.Validate(ctx, ref); err != nil {
		return models.VaultItem{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	item, err := v.items.GetItem(ctx, accountID, storeName, itemID)
	if err != nil {
		return models.VaultItem{}, fmt.Errorf("vault read failed: %w", err)
	}

	return item, nil
}

// List returns payload-free descriptors of one store's items, newest first.
func (v *vaultService) List(ctx context.Context, accountID, storeName string) ([]models.VaultItemState, error) {
	if !models.IsAllowedStore(storeName) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrInvalidStoreName)
	}

	states, err := v.items.ListItems(ctx, accountID, storeName)
	if err != nil {
		return nil, fmt.Errorf("vault listing failed: %w", err)
	}

	return states, nil
}

// SyncStatus returns item states and tombstones recorded strictly after
// since. A since of zero returns the account's full history.
func (v *vaultService) SyncStatus(ctx context.Context, accountID string, since int64) (models.SyncStatusResponse, error) {
	log := logger.FromContext(ctx)

	if since < 0 {
		return models.SyncStatusResponse{}, fmt.Errorf("%w: since must not be negative", ErrInvalidDataProvided)
	}

	items, err := v.items.ListItemsSince(ctx, accountID, since)
	if err != nil {
		log.Err(err).Int64("since", since).Msg("sync status item listing failed")
		return models.SyncStatusResponse{}, fmt.Errorf("sync status item listing failed: %w", err)
	}

	deletions, err := v.deletions.ListDeletionsSince(ctx, accountID, since)
	if err != nil {
		log.Err(err).Int64("since", since).Msg("sync status deletion listing failed")
		return models.SyncStatusResponse{}, fmt.Errorf("sync status deletion listing failed: %w", err)
	}

	return models.SyncStatusResponse{Items: items, Deletions: deletions}, nil
}

// BatchPush applies each candidate write independently and reports per-item
// outcomes in input order. One stale or invalid item never blocks the rest;
// only a batch over the ceiling fails the whole call. An empty batch yields
// empty results.
func (v *vaultService) BatchPush(ctx context.Context, accountID string, items []models.VaultItem) ([]models.BatchPushResult, error) {
	log := logger.FromContext(ctx)

	if err := v.validator.Validate(ctx, models.BatchPushRequest{Items: items}, validators.FieldBatchSize); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	results := make([]models.BatchPushResult, 0, len(items))

	for _, item := range items {
		item.AccountID = accountID
		result := models.BatchPushResult{StoreName: item.StoreName, ItemID: item.ItemID}

		outcome, err := v.Upsert(ctx, item)
		switch {
		case err != nil:
			result.Error = err.Error()
		case outcome.Conflict:
			result.Conflict = true
			result.RemoteUpdatedAt = outcome.RemoteUpdatedAt
			result.Stored = outcome.Stored
		default:
			result.Success = true
		}

		results = append(results, result)
	}

	log.Debug().Int("batch_size", len(items)).Msg("batch push applied")

	return results, nil
}

// BatchPull retrieves each referenced item independently and reports per-item
// results in input order. Missing items are marked NotFound, not errors.
func (v *vaultService) BatchPull(ctx context.Context, accountID string, refs []models.ItemRef) ([]models.BatchPullResult, error) {
	if err := v.validator.Validate(ctx, models.BatchPullRequest{Items: refs}, validators.FieldBatchSize); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	results := make([]models.BatchPullResult, 0, len(refs))

	for _, ref := range refs {
		result := models.BatchPullResult{StoreName: ref.StoreName, ItemID: ref.ItemID}

		if err := v.validator.Validate(ctx, ref); err != nil {
			result.NotFound = true
			results = append(results, result)
			continue
		}

		item, err := v.items.GetItem(ctx, accountID, ref.StoreName, ref.ItemID)
		switch {
		case err == nil:
			result.Item = &item
		case errors.Is(err, store.ErrItemNotFound):
			result.NotFound = true
		default:
			return nil, fmt.Errorf("batch pull failed: %w", err)
		}

		results = append(results, result)
	}

	return results, nil
}

// validateWrite checks the item against all input limits and recomputes the
// server-side payload size. The timestamp must be present: without it the
// write cannot participate in conflict resolution.
func (v *vaultService) validateWrite(ctx context.Context, item *models.VaultItem) error {
	if err := v.validator.Validate(ctx, *item); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if item.UpdatedAt <= 0 {
		return fmt.Errorf("%w: updatedAt timestamp is required", ErrInvalidDataProvided)
	}

	if item.Payload != nil {
		item.PayloadSize = item.Payload.DecodedSize()
	} else {
		item.PayloadSize = 0
	}

	return nil
}

// upsertWithRetry runs the timestamp-guarded upsert, retrying once when the
// failure is classified transient. A stale rejection is never retried; the
// comparison result cannot change without a newer write.
func (v *vaultService) upsertWithRetry(ctx context.Context, item models.VaultItem) (bool, error) {
	created, err := v.items.UpsertItem(ctx, item)
	if err != nil && errors.Is(err, store.ErrTransient) {
		created, err = v.items.UpsertItem(ctx, item)
	}
	return created, err
}

func outcomeOf(created bool) Outcome {
	if created {
		return OutcomeCreated
	}
	return OutcomeUpdated
}
