package validators

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/MKhiriev/zero-vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMaxPayloadBytes = 1024
	testMaxBatchItems   = 50
)

func testItem() models.VaultItem {
	return models.VaultItem{
		StoreName: "kanban-boards",
		ItemID:    "a1",
		ItemName:  "board",
		Payload: &models.EncryptedPayload{
			Salt: "c2FsdA==",
			IV:   "aXY=",
			Data: base64.StdEncoding.EncodeToString([]byte("ciphertext")),
		},
		UpdatedAt: 100,
	}
}

func TestValidateVaultItem(t *testing.T) {
	v := NewVaultValidator(testMaxPayloadBytes, testMaxBatchItems)
	ctx := context.Background()

	t.Run("valid item", func(t *testing.T) {
		require.NoError(t, v.Validate(ctx, testItem()))
	})

	t.Run("every allowed store accepted", func(t *testing.T) {
		for _, store := range models.AllowedStores {
			item := testItem()
			item.StoreName = store
			assert.NoError(t, v.Validate(ctx, item), store)
		}
	})

	t.Run("unknown store rejected", func(t *testing.T) {
		item := testItem()
		item.StoreName = "secret-диary"
		assert.ErrorIs(t, v.Validate(ctx, item), ErrInvalidStoreName)
	})

	t.Run("empty item id rejected", func(t *testing.T) {
		item := testItem()
		item.ItemID = ""
		assert.ErrorIs(t, v.Validate(ctx, item), ErrEmptyItemID)
	})

	t.Run("item name over limit rejected", func(t *testing.T) {
		item := testItem()
		item.ItemName = strings.Repeat("n", MaxItemNameLength+1)
		assert.ErrorIs(t, v.Validate(ctx, item), ErrItemNameTooLong)
	})

	t.Run("oversized payload rejected", func(t *testing.T) {
		item := testItem()
		item.Payload = &models.EncryptedPayload{
			Data: base64.StdEncoding.EncodeToString(make([]byte, testMaxPayloadBytes+1)),
		}
		assert.ErrorIs(t, v.Validate(ctx, item), ErrPayloadTooLarge)
	})

	t.Run("payload at limit accepted", func(t *testing.T) {
		item := testItem()
		item.Payload = &models.EncryptedPayload{
			Data: base64.StdEncoding.EncodeToString(make([]byte, testMaxPayloadBytes)),
		}
		assert.NoError(t, v.Validate(ctx, item))
	})

	t.Run("nil payload accepted", func(t *testing.T) {
		item := testItem()
		item.Payload = nil
		assert.NoError(t, v.Validate(ctx, item))
	})

	t.Run("field scoping skips unscoped rules", func(t *testing.T) {
		item := testItem()
		item.ItemID = ""
		assert.NoError(t, v.Validate(ctx, item, FieldStoreName))
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		assert.ErrorIs(t, v.Validate(ctx, testItem(), "no_such_field"), ErrUnknownField)
	})
}

func TestValidateItemRef(t *testing.T) {
	v := NewVaultValidator(testMaxPayloadBytes, testMaxBatchItems)
	ctx := context.Background()

	require.NoError(t, v.Validate(ctx, models.ItemRef{StoreName: "color-palettes", ItemID: "x"}))
	assert.ErrorIs(t, v.Validate(ctx, models.ItemRef{StoreName: "nope", ItemID: "x"}), ErrInvalidStoreName)
	assert.ErrorIs(t, v.Validate(ctx, models.ItemRef{StoreName: "color-palettes"}), ErrEmptyItemID)
}

func TestValidateBatchSize(t *testing.T) {
	v := NewVaultValidator(testMaxPayloadBytes, testMaxBatchItems)
	ctx := context.Background()

	atLimit := models.BatchPushRequest{Items: make([]models.VaultItem, testMaxBatchItems)}
	require.NoError(t, v.Validate(ctx, atLimit))

	overLimit := models.BatchPushRequest{Items: make([]models.VaultItem, testMaxBatchItems+1)}
	assert.ErrorIs(t, v.Validate(ctx, overLimit), ErrBatchTooLarge)

	// An empty batch is valid and produces an empty result set downstream.
	require.NoError(t, v.Validate(ctx, models.BatchPushRequest{}))
	require.NoError(t, v.Validate(ctx, models.BatchPullRequest{}))

	pullOver := models.BatchPullRequest{Items: make([]models.ItemRef, testMaxBatchItems+1)}
	assert.ErrorIs(t, v.Validate(ctx, pullOver), ErrBatchTooLarge)
}

func TestValidate_UnsupportedType(t *testing.T) {
	v := NewVaultValidator(testMaxPayloadBytes, testMaxBatchItems)
	assert.ErrorIs(t, v.Validate(context.Background(), 42), ErrUnsupportedType)
}
