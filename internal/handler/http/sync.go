package http

import (
	"net/http"
	"strconv"

	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/utils"
)

func (h *Handler) syncStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, found := utils.GetAccountIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.syncStatus").Msg("no account ID was given")
		http.Error(w, "no account ID was given", http.StatusBadRequest)
		return
	}

	// "since" is the client's high-water mark in Unix milliseconds.
	// Absent means zero: a full reconciliation.
	var since int64
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Err(err).Str("func", "*Handler.syncStatus").Msg("invalid `since` query parameter")
			http.Error(w, "invalid `since` query parameter", http.StatusBadRequest)
			return
		}
		since = parsed
	}

	response, err := h.services.VaultService.SyncStatus(ctx, accountID, since)
	if err != nil {
		log.Err(err).Str("func", "*Handler.syncStatus").Msg("error getting sync status")
		http.Error(w, "error getting sync status", statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}
