package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/store"
	"github.com/MKhiriev/zero-vault/internal/utils"
	"github.com/MKhiriev/zero-vault/models"
)

func (h *Handler) upsertItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, found := utils.GetAccountIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.upsertItem").Msg("no account ID was given")
		http.Error(w, "no account ID was given", http.StatusBadRequest)
		return
	}

	var req models.UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.upsertItem").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	item := models.VaultItem{
		AccountID: accountID,
		StoreName: chi.URLParam(r, "store"),
		ItemID:    chi.URLParam(r, "itemID"),
		ItemName:  req.ItemName,
		Payload:   req.Payload,
		UpdatedAt: req.UpdatedAt,
	}

	outcome, err := h.services.VaultService.Upsert(ctx, item)
	if err != nil {
		log.Err(err).Str("func", "*Handler.upsertItem").Msg("error upserting vault item")
		http.Error(w, "error upserting vault item", statusFromError(err))
		return
	}

	result := models.BatchPushResult{
		StoreName:       item.StoreName,
		ItemID:          item.ItemID,
		Success:         !outcome.Conflict,
		Conflict:        outcome.Conflict,
		RemoteUpdatedAt: outcome.RemoteUpdatedAt,
		Stored:          outcome.Stored,
	}

	// A lost comparison reports 409 with the winning stored copy so the
	// client can re-merge without a follow-up pull.
	switch {
	case outcome.Conflict:
		utils.WriteJSON(w, result, http.StatusConflict)
	case outcome.Created:
		utils.WriteJSON(w, result, http.StatusCreated)
	default:
		utils.WriteJSON(w, result, http.StatusOK)
	}
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, found := utils.GetAccountIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.getItem").Msg("no account ID was given")
		http.Error(w, "no account ID was given", http.StatusBadRequest)
		return
	}

	item, err := h.services.VaultService.Get(ctx, accountID, chi.URLParam(r, "store"), chi.URLParam(r, "itemID"))
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			log.Warn().Str("func", "*Handler.getItem").Msg("vault item not found")
			http.Error(w, "vault item not found", http.StatusNotFound)
			return
		}
		log.Err(err).Str("func", "*Handler.getItem").Msg("error getting vault item")
		http.Error(w, "error getting vault item", statusFromError(err))
		return
	}

	utils.WriteJSON(w, item, http.StatusOK)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, found := utils.GetAccountIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.deleteItem").Msg("no account ID was given")
		http.Error(w, "no account ID was given", http.StatusBadRequest)
		return
	}

	// The body is optional: an empty one means "stamp the tombstone with
	// server time".
	var req models.DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Err(err).Str("func", "*Handler.deleteItem").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	err := h.services.VaultService.Delete(ctx, accountID, chi.URLParam(r, "store"), chi.URLParam(r, "itemID"), req.DeletedAt)
	if err != nil {
		log.Err(err).Str("func", "*Handler.deleteItem").Msg("error deleting vault item")
		http.Error(w, "error deleting vault item", statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: "deleted"}, http.StatusOK)
}

func (h *Handler) listStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, found := utils.GetAccountIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.listStore").Msg("no account ID was given")
		http.Error(w, "no account ID was given", http.StatusBadRequest)
		return
	}

	states, err := h.services.VaultService.List(ctx, accountID, chi.URLParam(r, "store"))
	if err != nil {
		log.Err(err).Str("func", "*Handler.listStore").Msg("error listing vault store")
		http.Error(w, "error listing vault store", statusFromError(err))
		return
	}

	response := models.ListResponse{
		Items:  states,
		Length: len(states),
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) batchPush(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, found := utils.GetAccountIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.batchPush").Msg("no account ID was given")
		http.Error(w, "no account ID was given", http.StatusBadRequest)
		return
	}

	var req models.BatchPushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.batchPush").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	results, err := h.services.VaultService.BatchPush(ctx, accountID, req.Items)
	if err != nil {
		log.Err(err).Str("func", "*Handler.batchPush").Msg("error pushing batch")
		http.Error(w, "error pushing batch", statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.BatchPushResponse{Results: results}, http.StatusOK)
}

func (h *Handler) batchPull(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, found := utils.GetAccountIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.batchPull").Msg("no account ID was given")
		http.Error(w, "no account ID was given", http.StatusBadRequest)
		return
	}

	var req models.BatchPullRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.batchPull").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	results, err := h.services.VaultService.BatchPull(ctx, accountID, req.Items)
	if err != nil {
		log.Err(err).Str("func", "*Handler.batchPull").Msg("error pulling batch")
		http.Error(w, "error pulling batch", statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.BatchPullResponse{Results: results}, http.StatusOK)
}
