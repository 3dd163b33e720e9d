package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/service"
	"github.com/MKhiriev/zero-vault/internal/utils"
	"github.com/MKhiriev/zero-vault/models"
)

// refreshCookieName is the HTTP-only cookie carrying the raw refresh token.
// The access token travels in the JSON body; the refresh token never does.
const refreshCookieName = "refresh_token"

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	account, session, err := h.services.AuthService.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			log.Err(err).Msg("email already registered")
			http.Error(w, "email already registered", http.StatusConflict)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during account registration")
			http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
			return
		}
	}

	log.Debug().Str("id", account.AccountID).Msg("account registered")

	h.writeSession(w, account, session, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	account, session, err := h.services.AuthService.Login(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrInvalidCredentials):
			log.Err(err).Msg("invalid email/password")
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during login")
			http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
			return
		}
	}

	log.Debug().Str("id", account.AccountID).Msg("account logged in")

	h.writeSession(w, account, session, http.StatusOK)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		log.Warn().Msg("refresh cookie is missing")
		http.Error(w, "refresh token is missing", http.StatusUnauthorized)
		return
	}

	account, session, err := h.services.AuthService.Refresh(ctx, cookie.Value)
	if err != nil {
		log.Err(err).Msg("refresh token rejected")
		h.clearRefreshCookie(w)
		http.Error(w, "refresh token is expired or invalid", http.StatusUnauthorized)
		return
	}

	h.writeSession(w, account, session, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, found := utils.GetAccountIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.logout").Msg("no account ID was given")
		http.Error(w, "no account ID was given", http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.Logout(ctx, accountID); err != nil {
		log.Err(err).Str("func", "*Handler.logout").Msg("error revoking refresh token")
		http.Error(w, "error revoking refresh token", statusFromError(err))
		return
	}

	h.clearRefreshCookie(w)
	utils.WriteJSON(w, models.MessageResponse{Message: "logged out"}, http.StatusOK)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	accountID, found := utils.GetAccountIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.changePassword").Msg("no account ID was given")
		http.Error(w, "no account ID was given", http.StatusBadRequest)
		return
	}

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.changePassword").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.ChangePassword(ctx, accountID, req); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrInvalidCredentials):
			log.Err(err).Msg("current password does not match")
			http.Error(w, "current password does not match", http.StatusUnauthorized)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during password change")
			http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
			return
		}
	}

	// The session was revoked server-side; drop the cookie too.
	h.clearRefreshCookie(w)
	utils.WriteJSON(w, models.MessageResponse{Message: "password changed"}, http.StatusOK)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.ForgotPassword(ctx, req.Email); err != nil {
		if errors.Is(err, service.ErrInvalidDataProvided) {
			log.Err(err).Msg("invalid data provided")
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		}
		log.Err(err).Msg("error issuing reset token")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	// Unknown emails take this path too: the response never reveals whether
	// the address is registered.
	utils.WriteJSON(w, models.MessageResponse{Message: "if the email is registered, a reset link has been sent"}, http.StatusOK)
}

func (h *Handler) verifyResetToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.VerifyResetTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.VerifyResetToken(ctx, req.Email, req.Token); err != nil {
		log.Err(err).Msg("reset token rejected")
		http.Error(w, "reset token is expired or invalid", http.StatusUnauthorized)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: "reset token is valid"}, http.StatusOK)
}

func (h *Handler) resetAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.ResetAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	account, session, err := h.services.AuthService.ResetAccount(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrTokenIsExpiredOrInvalid):
			log.Err(err).Msg("reset token rejected")
			http.Error(w, "reset token is expired or invalid", http.StatusUnauthorized)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during account reset")
			http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
			return
		}
	}

	log.Info().Str("id", account.AccountID).Msg("account reset, vault wiped")

	h.writeSession(w, account, session, http.StatusOK)
}

// writeSession delivers a freshly minted session: the refresh token as an
// HTTP-only cookie and the access token in the JSON body together with the
// account's public profile.
func (h *Handler) writeSession(w http.ResponseWriter, account models.Account, session models.Session, statusCode int) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    session.RefreshToken,
		Path:     "/api/auth",
		Expires:  session.RefreshExpiry,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	response := models.AuthResponse{
		Token: session.AccessToken.SignedString,
		User: models.AccountInfo{
			ID:             account.AccountID,
			Email:          account.Email,
			EncryptionSalt: account.EncryptionSalt,
		},
	}

	utils.WriteJSON(w, response, statusCode)
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api/auth",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
