package validators

import (
	"context"
	"fmt"

	"github.com/MKhiriev/zero-vault/models"
)

const (
	FieldStoreName = "store_name"
	FieldItemID    = "item_id"
	FieldItemName  = "item_name"
	FieldPayload   = "payload"
	FieldBatchSize = "batch_size"
)

// MaxItemNameLength is the ceiling on the (unencrypted) display name of an
// item. Matches the limit clients enforce on their side.
const MaxItemNameLength = 200

// VaultValidator enforces the request-shape rules of the sync engine:
// store names must belong to the closed allowed set, payloads must not
// exceed the configured byte ceiling, and batches must not exceed the
// configured item ceiling. All checks run before any database access.
type VaultValidator struct {
	maxPayloadBytes int
	maxBatchItems   int
}

// NewVaultValidator constructs a [Validator] with the given vault limits.
func NewVaultValidator(maxPayloadBytes, maxBatchItems int) Validator {
	return &VaultValidator{
		maxPayloadBytes: maxPayloadBytes,
		maxBatchItems:   maxBatchItems,
	}
}

func (v *VaultValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.VaultItem:
		return v.validateVaultItem(ctx, value, fields...)
	case *models.VaultItem:
		return v.validateVaultItem(ctx, *value, fields...)

	case models.ItemRef:
		return v.validateItemRef(ctx, value, fields...)
	case *models.ItemRef:
		return v.validateItemRef(ctx, *value, fields...)

	case models.BatchPushRequest:
		return v.validateBatchSize(len(value.Items))
	case *models.BatchPushRequest:
		return v.validateBatchSize(len(value.Items))

	case models.BatchPullRequest:
		return v.validateBatchSize(len(value.Items))
	case *models.BatchPullRequest:
		return v.validateBatchSize(len(value.Items))

	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}
}

// validateVaultItem checks an item candidate ahead of a write.
// With no field scope every rule is applied; a scope restricts checking to
// the named fields only.
func (v *VaultValidator) validateVaultItem(_ context.Context, item models.VaultItem, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldStoreName, FieldItemID, FieldItemName, FieldPayload}
	}

	for _, field := range fields {
		switch field {
		case FieldStoreName:
			if !models.IsAllowedStore(item.StoreName) {
				return fmt.Errorf("%w: %q", ErrInvalidStoreName, item.StoreName)
			}
		case FieldItemID:
			if item.ItemID == "" {
				return ErrEmptyItemID
			}
		case FieldItemName:
			if len(item.ItemName) > MaxItemNameLength {
				return fmt.Errorf("%w: %d > %d", ErrItemNameTooLong, len(item.ItemName), MaxItemNameLength)
			}
		case FieldPayload:
			if item.Payload != nil && item.Payload.DecodedSize() > v.maxPayloadBytes {
				return fmt.Errorf("%w: limit is %d bytes", ErrPayloadTooLarge, v.maxPayloadBytes)
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
	}

	return nil
}

func (v *VaultValidator) validateItemRef(_ context.Context, ref models.ItemRef, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldStoreName, FieldItemID}
	}

	for _, field := range fields {
		switch field {
		case FieldStoreName:
			if !models.IsAllowedStore(ref.StoreName) {
				return fmt.Errorf("%w: %q", ErrInvalidStoreName, ref.StoreName)
			}
		case FieldItemID:
			if ref.ItemID == "" {
				return ErrEmptyItemID
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
	}

	return nil
}

// validateBatchSize enforces the batch ceiling only. An empty batch is
// valid: it yields an empty result set.
func (v *VaultValidator) validateBatchSize(n int) error {
	if n > v.maxBatchItems {
		return fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, n, v.maxBatchItems)
	}

	return nil
}
