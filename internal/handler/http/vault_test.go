package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/zero-vault/internal/service"
	"github.com/MKhiriev/zero-vault/internal/store"
	"github.com/MKhiriev/zero-vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveAuthed routes the request through the full router with the auth
// middleware satisfied by authedParse, so chi URL parameters are populated
// exactly as in production.
func serveAuthed(t *testing.T, vault service.VaultService, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	auth := &mockAuthService{parseAccessTokenFn: authedParse}
	router := newTestHandler(t, auth, vault).Init()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer any.access.token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// ─────────────────────────────────────────────
// upsertItem
// ─────────────────────────────────────────────

// TestUpsertItem_Created verifies that a write landing as a new item returns
// 201 and that the account, store, and item identity reach the service from
// the context and URL, never from the body.
func TestUpsertItem_Created(t *testing.T) {
	var got models.VaultItem
	vault := &mockVaultService{
		upsertFn: func(_ context.Context, item models.VaultItem) (service.UpsertOutcome, error) {
			got = item
			return service.UpsertOutcome{Created: true}, nil
		},
	}

	body := jsonBody(t, models.UpsertRequest{
		ItemName:  "Sunset preset",
		Payload:   &models.EncryptedPayload{Salt: "c2FsdA==", IV: "aXY=", Data: "Y2lwaGVydGV4dA=="},
		UpdatedAt: 1700000000000,
	})
	rec := serveAuthed(t, vault, http.MethodPut, "/api/vault/image-presets/item-1", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, stubAccount.AccountID, got.AccountID)
	assert.Equal(t, "image-presets", got.StoreName)
	assert.Equal(t, "item-1", got.ItemID)
	assert.Equal(t, int64(1700000000000), got.UpdatedAt)
}

// TestUpsertItem_Updated verifies that overwriting an existing item returns
// 200.
func TestUpsertItem_Updated(t *testing.T) {
	vault := &mockVaultService{
		upsertFn: func(_ context.Context, _ models.VaultItem) (service.UpsertOutcome, error) {
			return service.UpsertOutcome{}, nil
		},
	}

	body := jsonBody(t, models.UpsertRequest{ItemName: "n", UpdatedAt: 2})
	rec := serveAuthed(t, vault, http.MethodPut, "/api/vault/image-presets/item-1", body)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// TestUpsertItem_Conflict verifies that a lost comparison returns 409 with
// the winning stored copy in the body.
func TestUpsertItem_Conflict(t *testing.T) {
	winning := models.VaultItem{
		StoreName: "image-presets",
		ItemID:    "item-1",
		Payload:   &models.EncryptedPayload{Salt: "c2FsdA==", IV: "aXY=", Data: "d2lubmluZyBjaXBoZXJ0ZXh0"},
		UpdatedAt: 1700000000999,
	}
	vault := &mockVaultService{
		upsertFn: func(_ context.Context, _ models.VaultItem) (service.UpsertOutcome, error) {
			return service.UpsertOutcome{Conflict: true, RemoteUpdatedAt: 1700000000999, Stored: &winning}, nil
		},
	}

	body := jsonBody(t, models.UpsertRequest{ItemName: "n", UpdatedAt: 1700000000000})
	rec := serveAuthed(t, vault, http.MethodPut, "/api/vault/image-presets/item-1", body)

	require.Equal(t, http.StatusConflict, rec.Code)

	var result models.BatchPushResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.True(t, result.Conflict)
	assert.Equal(t, int64(1700000000999), result.RemoteUpdatedAt)
	require.NotNil(t, result.Stored)
	assert.Equal(t, winning.Payload, result.Stored.Payload)
	assert.Equal(t, winning.UpdatedAt, result.Stored.UpdatedAt)
}

// TestUpsertItem_InvalidStore verifies that validation failures from the
// service map to 400.
func TestUpsertItem_InvalidStore(t *testing.T) {
	vault := &mockVaultService{
		upsertFn: func(_ context.Context, _ models.VaultItem) (service.UpsertOutcome, error) {
			return service.UpsertOutcome{}, service.ErrInvalidDataProvided
		},
	}

	body := jsonBody(t, models.UpsertRequest{ItemName: "n", UpdatedAt: 1})
	rec := serveAuthed(t, vault, http.MethodPut, "/api/vault/no-such-store/item-1", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────
// getItem
// ─────────────────────────────────────────────

// TestGetItem_Success verifies that the full item, payload included, is
// returned.
func TestGetItem_Success(t *testing.T) {
	vault := &mockVaultService{
		getFn: func(_ context.Context, accountID, storeName, itemID string) (models.VaultItem, error) {
			return models.VaultItem{
				AccountID: accountID,
				StoreName: storeName,
				ItemID:    itemID,
				ItemName:  "Sunset preset",
				Payload:   &models.EncryptedPayload{Salt: "c2FsdA==", IV: "aXY=", Data: "Y2lwaGVydGV4dA=="},
				UpdatedAt: 42,
			}, nil
		},
	}

	rec := serveAuthed(t, vault, http.MethodGet, "/api/vault/image-presets/item-1", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var item models.VaultItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, "item-1", item.ItemID)
	require.NotNil(t, item.Payload)
	assert.Equal(t, "Y2lwaGVydGV4dA==", item.Payload.Data)
}

// TestGetItem_NotFound verifies that a missing item maps to 404.
func TestGetItem_NotFound(t *testing.T) {
	vault := &mockVaultService{
		getFn: func(_ context.Context, _, _, _ string) (models.VaultItem, error) {
			return models.VaultItem{}, store.ErrItemNotFound
		},
	}

	rec := serveAuthed(t, vault, http.MethodGet, "/api/vault/image-presets/ghost", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ─────────────────────────────────────────────
// deleteItem
// ─────────────────────────────────────────────

// TestDeleteItem_WithTimestamp verifies that the client's deletion time is
// forwarded to the service.
func TestDeleteItem_WithTimestamp(t *testing.T) {
	var gotDeletedAt int64
	vault := &mockVaultService{
		deleteFn: func(_ context.Context, _, _, _ string, deletedAt int64) error {
			gotDeletedAt = deletedAt
			return nil
		},
	}

	body := jsonBody(t, models.DeleteRequest{DeletedAt: 1700000000555})
	rec := serveAuthed(t, vault, http.MethodDelete, "/api/vault/image-presets/item-1", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1700000000555), gotDeletedAt)
}

// TestDeleteItem_EmptyBody verifies that the body is optional: the service
// receives a zero timestamp and stamps the tombstone itself.
func TestDeleteItem_EmptyBody(t *testing.T) {
	var gotDeletedAt int64 = -1
	vault := &mockVaultService{
		deleteFn: func(_ context.Context, _, _, _ string, deletedAt int64) error {
			gotDeletedAt = deletedAt
			return nil
		},
	}

	rec := serveAuthed(t, vault, http.MethodDelete, "/api/vault/image-presets/item-1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, gotDeletedAt)
}

// ─────────────────────────────────────────────
// listStore
// ─────────────────────────────────────────────

// TestListStore_Success verifies the payload-free listing with its length.
func TestListStore_Success(t *testing.T) {
	vault := &mockVaultService{
		listFn: func(_ context.Context, _, storeName string) ([]models.VaultItemState, error) {
			return []models.VaultItemState{
				{StoreName: storeName, ItemID: "a", UpdatedAt: 1},
				{StoreName: storeName, ItemID: "b", UpdatedAt: 2},
			}, nil
		},
	}

	rec := serveAuthed(t, vault, http.MethodGet, "/api/vault/kanban-boards", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Length)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "kanban-boards", resp.Items[0].StoreName)
}

// TestListStore_InvalidStore verifies that an unknown store name maps to 400.
func TestListStore_InvalidStore(t *testing.T) {
	vault := &mockVaultService{
		listFn: func(_ context.Context, _, _ string) ([]models.VaultItemState, error) {
			return nil, service.ErrInvalidDataProvided
		},
	}

	rec := serveAuthed(t, vault, http.MethodGet, "/api/vault/no-such-store", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────
// batchPush
// ─────────────────────────────────────────────

// TestBatchPush_MixedOutcomes verifies that per-item results come back in
// input order with a 200 even when some items conflicted.
func TestBatchPush_MixedOutcomes(t *testing.T) {
	vault := &mockVaultService{
		batchPushFn: func(_ context.Context, accountID string, items []models.VaultItem) ([]models.BatchPushResult, error) {
			require.Equal(t, stubAccount.AccountID, accountID)
			require.Len(t, items, 2)
			return []models.BatchPushResult{
				{StoreName: "image-presets", ItemID: "a", Success: true},
				{StoreName: "image-presets", ItemID: "b", Conflict: true, RemoteUpdatedAt: 99},
			}, nil
		},
	}

	body := jsonBody(t, models.BatchPushRequest{Items: []models.VaultItem{
		{StoreName: "image-presets", ItemID: "a", UpdatedAt: 1},
		{StoreName: "image-presets", ItemID: "b", UpdatedAt: 2},
	}})
	rec := serveAuthed(t, vault, http.MethodPost, "/api/vault/batch/push", body)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.BatchPushResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.True(t, resp.Results[0].Success)
	assert.True(t, resp.Results[1].Conflict)
}

// TestBatchPush_OverCeiling verifies that an oversized batch maps to 400.
func TestBatchPush_OverCeiling(t *testing.T) {
	vault := &mockVaultService{
		batchPushFn: func(_ context.Context, _ string, _ []models.VaultItem) ([]models.BatchPushResult, error) {
			return nil, service.ErrInvalidDataProvided
		},
	}

	body := jsonBody(t, models.BatchPushRequest{Items: make([]models.VaultItem, 51)})
	rec := serveAuthed(t, vault, http.MethodPost, "/api/vault/batch/push", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────
// batchPull
// ─────────────────────────────────────────────

// TestBatchPull_MarksMissing verifies that absent items come back flagged,
// not as errors.
func TestBatchPull_MarksMissing(t *testing.T) {
	vault := &mockVaultService{
		batchPullFn: func(_ context.Context, _ string, refs []models.ItemRef) ([]models.BatchPullResult, error) {
			require.Len(t, refs, 2)
			return []models.BatchPullResult{
				{StoreName: "image-presets", ItemID: "a", Item: &models.VaultItem{StoreName: "image-presets", ItemID: "a"}},
				{StoreName: "image-presets", ItemID: "ghost", NotFound: true},
			}, nil
		},
	}

	body := jsonBody(t, models.BatchPullRequest{Items: []models.ItemRef{
		{StoreName: "image-presets", ItemID: "a"},
		{StoreName: "image-presets", ItemID: "ghost"},
	}})
	rec := serveAuthed(t, vault, http.MethodPost, "/api/vault/batch/pull", body)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.BatchPullResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.NotNil(t, resp.Results[0].Item)
	assert.True(t, resp.Results[1].NotFound)
	assert.Nil(t, resp.Results[1].Item)
}
