package service

import (
	"context"
	"time"

	"github.com/MKhiriev/zero-vault/models"
)

// ─────────────────────────────────────────────
// Mock: store.AccountRepository
// ─────────────────────────────────────────────

type mockAccountRepository struct {
	createFn           func(ctx context.Context, account models.Account) (models.Account, error)
	findByEmailFn      func(ctx context.Context, email string) (models.Account, error)
	findByIDFn         func(ctx context.Context, accountID string) (models.Account, error)
	finalizeFn         func(ctx context.Context, accountID string) error
	deleteFn           func(ctx context.Context, accountID string) error
	updatePasswordFn   func(ctx context.Context, accountID, passwordHash string, encryptionSalt []byte) error
	setRefreshFn       func(ctx context.Context, accountID, tokenHash string, expiry time.Time) error
	rotateRefreshFn    func(ctx context.Context, accountID, oldHash, newHash string, expiry time.Time) error
	clearRefreshFn     func(ctx context.Context, accountID string) error
	setResetFn         func(ctx context.Context, accountID, tokenHash string, expiry time.Time) error
	consumeResetFn     func(ctx context.Context, accountID, tokenHash, passwordHash string, encryptionSalt []byte) error
	sweepUnfinalizedFn func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *mockAccountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	if m.createFn != nil {
		return m.createFn(ctx, account)
	}
	return account, nil
}

func (m *mockAccountRepository) FindAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return models.Account{}, nil
}

func (m *mockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (models.Account, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, accountID)
	}
	return models.Account{}, nil
}

func (m *mockAccountRepository) FinalizeAccount(ctx context.Context, accountID string) error {
	if m.finalizeFn != nil {
		return m.finalizeFn(ctx, accountID)
	}
	return nil
}

func (m *mockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, accountID)
	}
	return nil
}

func (m *mockAccountRepository) UpdatePassword(ctx context.Context, accountID, passwordHash string, encryptionSalt []byte) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, accountID, passwordHash, encryptionSalt)
	}
	return nil
}

func (m *mockAccountRepository) SetRefreshToken(ctx context.Context, accountID, tokenHash string, expiry time.Time) error {
	if m.setRefreshFn != nil {
		return m.setRefreshFn(ctx, accountID, tokenHash, expiry)
	}
	return nil
}

func (m *mockAccountRepository) RotateRefreshToken(ctx context.Context, accountID, oldHash, newHash string, expiry time.Time) error {
	if m.rotateRefreshFn != nil {
		return m.rotateRefreshFn(ctx, accountID, oldHash, newHash, expiry)
	}
	return nil
}

func (m *mockAccountRepository) ClearRefreshToken(ctx context.Context, accountID string) error {
	if m.clearRefreshFn != nil {
		return m.clearRefreshFn(ctx, accountID)
	}
	return nil
}

func (m *mockAccountRepository) SetResetToken(ctx context.Context, accountID, tokenHash string, expiry time.Time) error {
	if m.setResetFn != nil {
		return m.setResetFn(ctx, accountID, tokenHash, expiry)
	}
	return nil
}

func (m *mockAccountRepository) ConsumeResetToken(ctx context.Context, accountID, tokenHash, passwordHash string, encryptionSalt []byte) error {
	if m.consumeResetFn != nil {
		return m.consumeResetFn(ctx, accountID, tokenHash, passwordHash, encryptionSalt)
	}
	return nil
}

func (m *mockAccountRepository) SweepUnfinalized(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.sweepUnfinalizedFn != nil {
		return m.sweepUnfinalizedFn(ctx, cutoff)
	}
	return 0, nil
}

// ─────────────────────────────────────────────
// Mock: store.VaultItemRepository
// ─────────────────────────────────────────────

type mockVaultItemRepository struct {
	upsertFn    func(ctx context.Context, item models.VaultItem) (bool, error)
	getFn       func(ctx context.Context, accountID, storeName, itemID string) (models.VaultItem, error)
	listFn      func(ctx context.Context, accountID, storeName string) ([]models.VaultItemState, error)
	listSinceFn func(ctx context.Context, accountID string, since int64) ([]models.VaultItemState, error)
	deleteFn    func(ctx context.Context, accountID, storeName, itemID string) (bool, error)
	deleteAllFn func(ctx context.Context, accountID string) error
}

func (m *mockVaultItemRepository) UpsertItem(ctx context.Context, item models.VaultItem) (bool, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, item)
	}
	return true, nil
}

func (m *mockVaultItemRepository) GetItem(ctx context.Context, accountID, storeName, itemID string) (models.VaultItem, error) {
	if m.getFn != nil {
		return m.getFn(ctx, accountID, storeName, itemID)
	}
	return models.VaultItem{}, nil
}

func (m *mockVaultItemRepository) ListItems(ctx context.Context, accountID, storeName string) ([]models.VaultItemState, error) {
	if m.listFn != nil {
		return m.listFn(ctx, accountID, storeName)
	}
	return nil, nil
}

func (m *mockVaultItemRepository) ListItemsSince(ctx context.Context, accountID string, since int64) ([]models.VaultItemState, error) {
	if m.listSinceFn != nil {
		return m.listSinceFn(ctx, accountID, since)
	}
	return nil, nil
}

func (m *mockVaultItemRepository) DeleteItem(ctx context.Context, accountID, storeName, itemID string) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, accountID, storeName, itemID)
	}
	return false, nil
}

func (m *mockVaultItemRepository) DeleteAllItems(ctx context.Context, accountID string) error {
	if m.deleteAllFn != nil {
		return m.deleteAllFn(ctx, accountID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.DeletionLogRepository
// ─────────────────────────────────────────────

type mockDeletionLogRepository struct {
	appendFn    func(ctx context.Context, entry models.DeletionLogEntry) error
	listSinceFn func(ctx context.Context, accountID string, since int64) ([]models.DeletionLogEntry, error)
	purgeFn     func(ctx context.Context, accountID string) error
}

func (m *mockDeletionLogRepository) AppendDeletion(ctx context.Context, entry models.DeletionLogEntry) error {
	if m.appendFn != nil {
		return m.appendFn(ctx, entry)
	}
	return nil
}

func (m *mockDeletionLogRepository) ListDeletionsSince(ctx context.Context, accountID string, since int64) ([]models.DeletionLogEntry, error) {
	if m.listSinceFn != nil {
		return m.listSinceFn(ctx, accountID, since)
	}
	return nil, nil
}

func (m *mockDeletionLogRepository) PurgeDeletions(ctx context.Context, accountID string) error {
	if m.purgeFn != nil {
		return m.purgeFn(ctx, accountID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: adapter.Mailer
// ─────────────────────────────────────────────

type mockMailer struct {
	sendResetFn func(ctx context.Context, email, resetToken string) error
}

func (m *mockMailer) SendPasswordReset(ctx context.Context, email, resetToken string) error {
	if m.sendResetFn != nil {
		return m.sendResetFn(ctx, email, resetToken)
	}
	return nil
}
