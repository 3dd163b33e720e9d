package service

import (
	"github.com/MKhiriev/zero-vault/internal/adapter"
	"github.com/MKhiriev/zero-vault/internal/config"
	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/store"
)

type Services struct {
	AuthService  AuthService
	VaultService VaultService
}

func NewServices(repositories *store.Repositories, mailer adapter.Mailer, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService: NewAuthService(
			repositories.AccountRepository,
			repositories.VaultItemRepository,
			repositories.DeletionLogRepository,
			mailer,
			cfg.App,
			logger,
		),
		VaultService: NewVaultService(
			repositories.VaultItemRepository,
			repositories.DeletionLogRepository,
			cfg.App,
			logger,
		),
	}
}
