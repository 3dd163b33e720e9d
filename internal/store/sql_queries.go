package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	createAccount = `INSERT INTO accounts (account_id, email, password_hash, encryption_salt, finalized)
    VALUES ($1, $2, $3, $4, false)
    RETURNING account_id, email, password_hash, encryption_salt, refresh_token_hash, refresh_token_expiry, reset_token_hash, reset_token_expiry, finalized, created_at;`

	findAccountByEmail = `SELECT account_id, email, password_hash, encryption_salt, refresh_token_hash, refresh_token_expiry, reset_token_hash, reset_token_expiry, finalized, created_at
    FROM accounts
    WHERE email = $1;`

	findAccountByID = `SELECT account_id, email, password_hash, encryption_salt, refresh_token_hash, refresh_token_expiry, reset_token_hash, reset_token_expiry, finalized, created_at
    FROM accounts
    WHERE account_id = $1;`

	finalizeAccount = `UPDATE accounts
    SET finalized = true
    WHERE account_id = $1;`

	deleteAccount = `DELETE FROM accounts
    WHERE account_id = $1;`

	updatePassword = `UPDATE accounts
    SET password_hash = $2, encryption_salt = $3
    WHERE account_id = $1;`

	setRefreshToken = `UPDATE accounts
    SET refresh_token_hash = $2, refresh_token_expiry = $3
    WHERE account_id = $1;`

	// Compare-and-swap: the swap lands only when the previously observed hash
	// is still the stored one. Zero affected rows means a concurrent rotation.
	rotateRefreshToken = `UPDATE accounts
    SET refresh_token_hash = $3, refresh_token_expiry = $4
    WHERE account_id = $1 AND refresh_token_hash = $2;`

	clearRefreshToken = `UPDATE accounts
    SET refresh_token_hash = '', refresh_token_expiry = to_timestamp(0)
    WHERE account_id = $1;`

	setResetToken = `UPDATE accounts
    SET reset_token_hash = $2, reset_token_expiry = $3
    WHERE account_id = $1;`

	// Single-use enforcement: the update lands only when the observed hash is
	// still stored. Zero affected rows means the token was already consumed.
	// Credential install and session revocation ride on the same condition,
	// so a consumed token can never leave the old password or refresh token
	// behind.
	consumeResetToken = `UPDATE accounts
    SET reset_token_hash = '', reset_token_expiry = to_timestamp(0),
        password_hash = $3, encryption_salt = $4,
        refresh_token_hash = '', refresh_token_expiry = to_timestamp(0)
    WHERE account_id = $1 AND reset_token_hash = $2;`

	sweepUnfinalized = `DELETE FROM accounts
    WHERE finalized = false AND created_at < $1;`

	// Last-write-wins guard: the conditional DO UPDATE lands only when the
	// incoming timestamp is strictly greater than the stored one. Zero
	// returned rows means the stored copy wins. The (xmax = 0) trick reports
	// whether the row was freshly inserted rather than updated.
	upsertVaultItem = `INSERT INTO vault_items (account_id, store_name, item_id, item_name, payload_salt, payload_iv, payload_data, payload_size, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    ON CONFLICT (account_id, store_name, item_id) DO UPDATE
    SET item_name = excluded.item_name,
        payload_salt = excluded.payload_salt,
        payload_iv = excluded.payload_iv,
        payload_data = excluded.payload_data,
        payload_size = excluded.payload_size,
        updated_at = excluded.updated_at
    WHERE vault_items.updated_at < excluded.updated_at
    RETURNING (xmax = 0) AS inserted;`

	getVaultItem = `SELECT account_id, store_name, item_id, item_name, payload_salt, payload_iv, payload_data, payload_size, updated_at
    FROM vault_items
    WHERE account_id = $1 AND store_name = $2 AND item_id = $3;`

	deleteVaultItem = `DELETE FROM vault_items
    WHERE account_id = $1 AND store_name = $2 AND item_id = $3;`

	deleteAllVaultItems = `DELETE FROM vault_items
    WHERE account_id = $1;`

	appendDeletion = `INSERT INTO deletion_log (account_id, store_name, item_id, deleted_at)
    VALUES ($1, $2, $3, $4);`

	purgeDeletions = `DELETE FROM deletion_log
    WHERE account_id = $1;`
)

// psql is the shared squirrel statement builder configured for PostgreSQL
// positional placeholders ($1, $2, ...).
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildListItemsQuery builds the payload-free listing of one store, newest
// first, the order an inventory view shows.
func buildListItemsQuery(accountID, storeName string) (string, []any, error) {
	return psql.
		Select("store_name", "item_id", "item_name", "payload_size", "updated_at").
		From("vault_items").
		Where(sq.Eq{"account_id": accountID, "store_name": storeName}).
		OrderBy("updated_at DESC").
		ToSql()
}

// buildListItemsSinceQuery builds the incremental-sync listing across all
// stores. The comparison is strictly greater than, so entries carrying the
// caller's own high-water mark are not replayed.
func buildListItemsSinceQuery(accountID string, since int64) (string, []any, error) {
	return psql.
		Select("store_name", "item_id", "item_name", "payload_size", "updated_at").
		From("vault_items").
		Where(sq.Eq{"account_id": accountID}).
		Where(sq.Gt{"updated_at": since}).
		OrderBy("updated_at ASC").
		ToSql()
}

// buildListDeletionsSinceQuery builds the incremental tombstone listing.
// Strictly greater than, ascending, same contract as the item listing.
func buildListDeletionsSinceQuery(accountID string, since int64) (string, []any, error) {
	return psql.
		Select("store_name", "item_id", "deleted_at").
		From("deletion_log").
		Where(sq.Eq{"account_id": accountID}).
		Where(sq.Gt{"deleted_at": since}).
		OrderBy("deleted_at ASC").
		ToSql()
}
