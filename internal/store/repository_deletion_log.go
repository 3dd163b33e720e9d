package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/models"
)

// deletionLogRepository is the PostgreSQL-backed implementation of
// [DeletionLogRepository]. The "deletion_log" table is append-only; rows are
// only ever inserted, listed, or purged wholesale during an account reset.
type deletionLogRepository struct {
	*DB
	logger *logger.Logger
}

// NewDeletionLogRepository constructs a [DeletionLogRepository] backed by the
// provided database connection and logger.
func NewDeletionLogRepository(db *DB, logger *logger.Logger) DeletionLogRepository {
	return &deletionLogRepository{
		DB:     db,
		logger: logger,
	}
}

// AppendDeletion records one tombstone. Duplicate tombstones for the same
// item id are expected when an item is recreated and deleted again.
func (d *deletionLogRepository) AppendDeletion(ctx context.Context, entry models.DeletionLogEntry) error {
	log := logger.FromContext(ctx)

	_, err := d.DB.ExecContext(ctx, appendDeletion, entry.AccountID, entry.StoreName, entry.ItemID, entry.DeletedAt)
	if err != nil {
		log.Err(err).
			Str("func", "deletionLogRepository.AppendDeletion").
			Str("store_name", entry.StoreName).
			Str("item_id", entry.ItemID).
			Msg("failed to append deletion log entry")
		return d.classify(fmt.Errorf("%w: %w", ErrExecutingStatement, err))
	}

	return nil
}

// ListDeletionsSince returns tombstones whose DeletedAt is strictly greater
// than since, ordered by ascending DeletedAt.
//
// Returns an empty slice when the account has no matching tombstones.
func (d *deletionLogRepository) ListDeletionsSince(ctx context.Context, accountID string, since int64) ([]models.DeletionLogEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListDeletionsSinceQuery(accountID, since)
	if err != nil {
		log.Err(err).
			Str("func", "deletionLogRepository.ListDeletionsSince").
			Int64("since", since).
			Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, queryErr := d.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "deletionLogRepository.ListDeletionsSince").
			Int64("since", since).
			Msg("failed to execute query for deletion log entries")
		return nil, d.classify(fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr))
	}
	defer rows.Close()

	entries := make([]models.DeletionLogEntry, 0, 50)

	for rows.Next() {
		entry := models.DeletionLogEntry{AccountID: accountID}

		scanErr := rows.Scan(&entry.StoreName, &entry.ItemID, &entry.DeletedAt)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "deletionLogRepository.ListDeletionsSince").
				Msg("failed to scan deletion log row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "deletionLogRepository.ListDeletionsSince").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return entries, nil
}

// PurgeDeletions removes every tombstone the account owns. Only the full
// account reset calls this; ordinary operation never deletes from the log.
func (d *deletionLogRepository) PurgeDeletions(ctx context.Context, accountID string) error {
	log := logger.FromContext(ctx)

	if _, err := d.DB.ExecContext(ctx, purgeDeletions, accountID); err != nil {
		log.Err(err).
			Str("func", "deletionLogRepository.PurgeDeletions").
			Str("account_id", accountID).
			Msg("failed to purge deletion log")
		return d.classify(fmt.Errorf("%w: %w", ErrExecutingStatement, err))
	}

	return nil
}
