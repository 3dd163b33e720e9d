package store

import "github.com/MKhiriev/zero-vault/internal/logger"

// Repositories bundles every repository the service layer depends on.
type Repositories struct {
	AccountRepository     AccountRepository
	VaultItemRepository   VaultItemRepository
	DeletionLogRepository DeletionLogRepository
}

// NewRepositories constructs all repositories over a shared database
// connection.
func NewRepositories(db *DB, logger *logger.Logger) *Repositories {
	return &Repositories{
		AccountRepository:     NewAccountRepository(db, logger),
		VaultItemRepository:   NewVaultItemRepository(db, logger),
		DeletionLogRepository: NewDeletionLogRepository(db, logger),
	}
}
