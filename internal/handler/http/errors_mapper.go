package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/zero-vault/internal/service"
	"github.com/MKhiriev/zero-vault/internal/store"
	"github.com/MKhiriev/zero-vault/internal/validators"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrInvalidCredentials:      http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrEmailAlreadyRegistered:  http.StatusConflict,
	service.ErrAccountNotFound:         http.StatusNotFound,
	service.ErrRegistrationIncomplete:  http.StatusInternalServerError,
	service.ErrTokenCreationFailed:     http.StatusInternalServerError,

	validators.ErrInvalidStoreName: http.StatusBadRequest,
	validators.ErrEmptyItemID:      http.StatusBadRequest,
	validators.ErrItemNameTooLong:  http.StatusBadRequest,
	validators.ErrPayloadTooLarge:  http.StatusRequestEntityTooLarge,
	validators.ErrBatchTooLarge:    http.StatusBadRequest,

	store.ErrEmailAlreadyExists:   http.StatusConflict,
	store.ErrNoAccountWasFound:    http.StatusNotFound,
	store.ErrItemNotFound:         http.StatusNotFound,
	store.ErrStaleWrite:           http.StatusConflict,
	store.ErrRefreshTokenMismatch: http.StatusUnauthorized,
	store.ErrResetTokenMismatch:   http.StatusUnauthorized,
	store.ErrTransient:            http.StatusServiceUnavailable,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
