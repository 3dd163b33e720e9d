package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidStoreName = errors.New("invalid store name")
	ErrEmptyItemID      = errors.New("item id cannot be empty")
	ErrItemNameTooLong  = errors.New("item name exceeds maximum length")
	ErrPayloadTooLarge  = errors.New("payload exceeds maximum size")
	ErrBatchTooLarge    = errors.New("batch exceeds maximum item count")
)
