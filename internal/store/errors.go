package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when an attempt to register a new
	// account fails because an account with the same email already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrNoAccountWasFound is returned when a query expected to match at
	// least one account record produces an empty result set.
	ErrNoAccountWasFound = errors.New("no account was found")

	// ErrItemNotFound is returned when a query targets a vault item
	// (identified by account, store name, and item id) that does not exist.
	ErrItemNotFound = errors.New("vault item was not found")

	// ErrStaleWrite is returned when the timestamp-guarded upsert affects no
	// rows: the stored item already carries a last-modified timestamp greater
	// than or equal to the incoming one. The existing copy wins.
	ErrStaleWrite = errors.New("stored item is newer or equally new")

	// ErrRefreshTokenMismatch is returned when the compare-and-swap rotation
	// of the refresh-token hash affects no rows: another request already
	// rotated (or cleared) the token between verification and replacement.
	ErrRefreshTokenMismatch = errors.New("refresh token hash did not match stored value")

	// ErrResetTokenMismatch is returned when the compare-and-swap consumption
	// of a reset token affects no rows: the token was already consumed or
	// replaced. Single-use enforcement relies on this failure.
	ErrResetTokenMismatch = errors.New("reset token hash did not match stored value")

	// ErrTransient marks a database failure the error classifier considers
	// retryable (connection loss, serialization failure, deadlock). Callers
	// may retry once before surfacing the error.
	ErrTransient = errors.New("transient database error")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
