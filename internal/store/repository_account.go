package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/models"
	"github.com/jackc/pgerrcode"
)

// accountRepository is the PostgreSQL-backed implementation of
// [AccountRepository]. It handles account creation, lookup, and the
// compare-and-swap token operations against the "accounts" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type accountRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAccountRepository constructs an [AccountRepository] backed by the
// provided database connection and logger.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

// CreateAccount persists a new, not-yet-finalized account and returns the
// fully populated [models.Account] with server-assigned fields.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyExists].
//   - Any other driver-level error → classified and wrapped.
//   - Scan failure → wrapped as [ErrScanningRow].
func (r *accountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createAccount, account.AccountID, account.Email, account.PasswordHash, account.EncryptionSalt)

	var stored models.Account
	if err := row.Scan(
		&stored.AccountID,
		&stored.Email,
		&stored.PasswordHash,
		&stored.EncryptionSalt,
		&stored.RefreshTokenHash,
		&stored.RefreshTokenExpiry,
		&stored.ResetTokenHash,
		&stored.ResetTokenExpiry,
		&stored.Finalized,
		&stored.CreatedAt,
	); err != nil {
		log.Err(err).Str("func", "*accountRepository.CreateAccount").Msg("error: failed to insert account")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.Account{}, ErrEmailAlreadyExists
		default:
			return models.Account{}, r.db.classify(fmt.Errorf("%w: %w", ErrExecutingStatement, err))
		}
	}

	return stored, nil
}

// FindAccountByEmail retrieves the account with the given case-normalized
// email, or [ErrNoAccountWasFound] when no such account exists.
func (r *accountRepository) FindAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findAccountByEmail, email)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrNoAccountWasFound
		}
		log.Err(err).Str("func", "*accountRepository.FindAccountByEmail").Msg("error: failed to read account row")
		return models.Account{}, r.db.classify(fmt.Errorf("%w: %w", ErrScanningRow, err))
	}

	return account, nil
}

// FindAccountByID retrieves the account with the given id, or
// [ErrNoAccountWasFound] when no such account exists.
func (r *accountRepository) FindAccountByID(ctx context.Context, accountID string) (models.Account, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findAccountByID, accountID)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrNoAccountWasFound
		}
		log.Err(err).Str("func", "*accountRepository.FindAccountByID").Str("account_id", accountID).Msg("error: failed to read account row")
		return models.Account{}, r.db.classify(fmt.Errorf("%w: %w", ErrScanningRow, err))
	}

	return account, nil
}

// FinalizeAccount marks the account as fully registered. A finalize that
// matches no row means the sweeper already removed the account; callers see
// [ErrNoAccountWasFound] so they can surface the lost registration.
func (r *accountRepository) FinalizeAccount(ctx context.Context, accountID string) error {
	return r.execOnAccount(ctx, "*accountRepository.FinalizeAccount", accountID, ErrNoAccountWasFound, finalizeAccount, accountID)
}

// DeleteAccount removes the account row; vault items and tombstones cascade.
// Deleting an absent account is not an error, so the compensating step of a
// failed registration stays idempotent.
func (r *accountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	return r.execOnAccount(ctx, "*accountRepository.DeleteAccount", accountID, nil, deleteAccount, accountID)
}

// UpdatePassword atomically replaces the password hash and the encryption
// salt.
func (r *accountRepository) UpdatePassword(ctx context.Context, accountID, passwordHash string, encryptionSalt []byte) error {
	return r.execOnAccount(ctx, "*accountRepository.UpdatePassword", accountID, ErrNoAccountWasFound, updatePassword, accountID, passwordHash, encryptionSalt)
}

// SetRefreshToken stores a new refresh-token hash unconditionally, replacing
// any active session.
func (r *accountRepository) SetRefreshToken(ctx context.Context, accountID, tokenHash string, expiry time.Time) error {
	return r.execOnAccount(ctx, "*accountRepository.SetRefreshToken", accountID, ErrNoAccountWasFound, setRefreshToken, accountID, tokenHash, expiry)
}

// RotateRefreshToken swaps oldHash for newHash with a compare-and-swap on the
// stored hash. Zero affected rows means another request rotated or cleared
// the token first; the caller receives [ErrRefreshTokenMismatch] and the
// losing token stays revoked.
func (r *accountRepository) RotateRefreshToken(ctx context.Context, accountID, oldHash, newHash string, expiry time.Time) error {
	return r.execOnAccount(ctx, "*accountRepository.RotateRefreshToken", accountID, ErrRefreshTokenMismatch, rotateRefreshToken, accountID, oldHash, newHash, expiry)
}

// ClearRefreshToken drops the active session. Idempotent: clearing an
// already-clear session succeeds.
func (r *accountRepository) ClearRefreshToken(ctx context.Context, accountID string) error {
	return r.execOnAccount(ctx, "*accountRepository.ClearRefreshToken", accountID, ErrNoAccountWasFound, clearRefreshToken, accountID)
}

// SetResetToken stores a new reset-token hash, replacing any pending one.
// Issuing a new reset token invalidates the previous one by construction.
func (r *accountRepository) SetResetToken(ctx context.Context, accountID, tokenHash string, expiry time.Time) error {
	return r.execOnAccount(ctx, "*accountRepository.SetResetToken", accountID, ErrNoAccountWasFound, setResetToken, accountID, tokenHash, expiry)
}

// ConsumeResetToken clears the stored reset-token hash with a
// compare-and-swap, installing the new credentials and revoking the active
// refresh token in the same statement. Zero affected rows means the token
// was already consumed or replaced; the caller receives
// [ErrResetTokenMismatch] and no credential changes.
func (r *accountRepository) ConsumeResetToken(ctx context.Context, accountID, tokenHash, passwordHash string, encryptionSalt []byte) error {
	return r.execOnAccount(ctx, "*accountRepository.ConsumeResetToken", accountID, ErrResetTokenMismatch, consumeResetToken, accountID, tokenHash, passwordHash, encryptionSalt)
}

// SweepUnfinalized deletes accounts that never completed registration and
// were created before cutoff. Returns the number of removed rows so the
// worker can report sweep activity.
func (r *accountRepository) SweepUnfinalized(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, sweepUnfinalized, cutoff)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.SweepUnfinalized").Msg("error: failed to sweep unfinalized accounts")
		return 0, r.db.classify(fmt.Errorf("%w: %w", ErrExecutingStatement, err))
	}

	swept, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.SweepUnfinalized").Msg("error: failed to read affected rows")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return swept, nil
}

// execOnAccount runs a single-account DML statement and translates a
// zero-rows outcome into noRowsErr. A nil noRowsErr makes zero rows a
// success, which is how idempotent operations opt out of the check.
func (r *accountRepository) execOnAccount(ctx context.Context, funcName, accountID string, noRowsErr error, query string, args ...any) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Str("account_id", accountID).Msg("error: failed to execute statement")
		return r.db.classify(fmt.Errorf("%w: %w", ErrExecutingStatement, err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", funcName).Str("account_id", accountID).Msg("error: failed to read affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected == 0 && noRowsErr != nil {
		log.Debug().Str("func", funcName).Str("account_id", accountID).Msg("statement matched no rows")
		return noRowsErr
	}

	return nil
}

// scanAccount reads one full account row.
func scanAccount(row *sql.Row) (models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.AccountID,
		&account.Email,
		&account.PasswordHash,
		&account.EncryptionSalt,
		&account.RefreshTokenHash,
		&account.RefreshTokenExpiry,
		&account.ResetTokenHash,
		&account.ResetTokenExpiry,
		&account.Finalized,
		&account.CreatedAt,
	)
	return account, err
}
