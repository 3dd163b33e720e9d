package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.withSecurityHeaders)

	// The body ceiling leaves headroom over the payload limit for base64
	// expansion and the JSON envelope.
	router.Use(middleware.RequestSize(int64(h.cfg.App.MaxPayloadBytes) * 2))

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Use(h.withRateLimit())

		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/refresh", h.refresh)
		r.Post("/api/auth/forgot-password", h.forgotPassword)
		r.Post("/api/auth/verify-reset-token", h.verifyResetToken)
		r.Post("/api/auth/reset-account", h.resetAccount)
	})

	// routes behind bearer-token authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/auth/logout", h.logout)
		r.Post("/api/auth/change-password", h.changePassword)

		r.Get("/api/vault/sync-status", h.syncStatus)
		r.Post("/api/vault/batch/push", h.batchPush)
		r.Post("/api/vault/batch/pull", h.batchPull)

		r.Get("/api/vault/{store}", h.listStore)
		r.Get("/api/vault/{store}/{itemID}", h.getItem)
		r.Put("/api/vault/{store}/{itemID}", h.upsertItem)
		r.Delete("/api/vault/{store}/{itemID}", h.deleteItem)
	})

	return router
}
