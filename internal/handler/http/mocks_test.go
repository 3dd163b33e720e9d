package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/zero-vault/internal/config"
	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/service"
	"github.com/MKhiriev/zero-vault/internal/utils"
	"github.com/MKhiriev/zero-vault/models"
)

// ─────────────────────────────────────────────
// Mock AuthService
// ─────────────────────────────────────────────

// mockAuthService implements service.AuthService for unit tests.
// Each method field can be overridden per test case.
type mockAuthService struct {
	registerFn         func(ctx context.Context, req models.RegisterRequest) (models.Account, models.Session, error)
	loginFn            func(ctx context.Context, req models.LoginRequest) (models.Account, models.Session, error)
	refreshFn          func(ctx context.Context, rawRefreshToken string) (models.Account, models.Session, error)
	logoutFn           func(ctx context.Context, accountID string) error
	changePasswordFn   func(ctx context.Context, accountID string, req models.ChangePasswordRequest) error
	forgotPasswordFn   func(ctx context.Context, email string) error
	verifyResetFn      func(ctx context.Context, email, token string) error
	resetAccountFn     func(ctx context.Context, req models.ResetAccountRequest) (models.Account, models.Session, error)
	parseAccessTokenFn func(ctx context.Context, tokenString string) (models.Token, error)
}

func (m *mockAuthService) Register(ctx context.Context, req models.RegisterRequest) (models.Account, models.Session, error) {
	return m.registerFn(ctx, req)
}

func (m *mockAuthService) Login(ctx context.Context, req models.LoginRequest) (models.Account, models.Session, error) {
	return m.loginFn(ctx, req)
}

func (m *mockAuthService) Refresh(ctx context.Context, rawRefreshToken string) (models.Account, models.Session, error) {
	return m.refreshFn(ctx, rawRefreshToken)
}

func (m *mockAuthService) Logout(ctx context.Context, accountID string) error {
	return m.logoutFn(ctx, accountID)
}

func (m *mockAuthService) ChangePassword(ctx context.Context, accountID string, req models.ChangePasswordRequest) error {
	return m.changePasswordFn(ctx, accountID, req)
}

func (m *mockAuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.forgotPasswordFn(ctx, email)
}

func (m *mockAuthService) VerifyResetToken(ctx context.Context, email, token string) error {
	return m.verifyResetFn(ctx, email, token)
}

func (m *mockAuthService) ResetAccount(ctx context.Context, req models.ResetAccountRequest) (models.Account, models.Session, error) {
	return m.resetAccountFn(ctx, req)
}

func (m *mockAuthService) ParseAccessToken(ctx context.Context, tokenString string) (models.Token, error) {
	return m.parseAccessTokenFn(ctx, tokenString)
}

// ─────────────────────────────────────────────
// Mock VaultService
// ─────────────────────────────────────────────

// mockVaultService implements service.VaultService for unit tests.
type mockVaultService struct {
	upsertFn     func(ctx context.Context, item models.VaultItem) (service.UpsertOutcome, error)
	deleteFn     func(ctx context.Context, accountID, storeName, itemID string, deletedAt int64) error
	getFn        func(ctx context.Context, accountID, storeName, itemID string) (models.VaultItem, error)
	listFn       func(ctx context.Context, accountID, storeName string) ([]models.VaultItemState, error)
	syncStatusFn func(ctx context.Context, accountID string, since int64) (models.SyncStatusResponse, error)
	batchPushFn  func(ctx context.Context, accountID string, items []models.VaultItem) ([]models.BatchPushResult, error)
	batchPullFn  func(ctx context.Context, accountID string, refs []models.ItemRef) ([]models.BatchPullResult, error)
}

func (m *mockVaultService) Upsert(ctx context.Context, item models.VaultItem) (service.UpsertOutcome, error) {
	return m.upsertFn(ctx, item)
}

func (m *mockVaultService) Delete(ctx context.Context, accountID, storeName, itemID string, deletedAt int64) error {
	return m.deleteFn(ctx, accountID, storeName, itemID, deletedAt)
}

func (m *mockVaultService) Get(ctx context.Context, accountID, storeName, itemID string) (models.VaultItem, error) {
	return m.getFn(ctx, accountID, storeName, itemID)
}

func (m *mockVaultService) List(ctx context.Context, accountID, storeName string) ([]models.VaultItemState, error) {
	return m.listFn(ctx, accountID, storeName)
}

func (m *mockVaultService) SyncStatus(ctx context.Context, accountID string, since int64) (models.SyncStatusResponse, error) {
	return m.syncStatusFn(ctx, accountID, since)
}

func (m *mockVaultService) BatchPush(ctx context.Context, accountID string, items []models.VaultItem) ([]models.BatchPushResult, error) {
	return m.batchPushFn(ctx, accountID, items)
}

func (m *mockVaultService) BatchPull(ctx context.Context, accountID string, refs []models.ItemRef) ([]models.BatchPullResult, error) {
	return m.batchPullFn(ctx, accountID, refs)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// testHandlerConfig is a minimal configuration for handler-level tests.
// The rate limit is generous enough that tests never trip it by accident.
func testHandlerConfig() config.StructuredConfig {
	return config.StructuredConfig{
		App: config.App{
			MaxPayloadBytes: 10 * 1024 * 1024,
			MaxBatchItems:   50,
		},
		Server: config.Server{
			HTTPAddress:    "localhost:8080",
			RateLimitRPS:   1000,
			RateLimitBurst: 1000,
		},
	}
}

// newTestHandler builds a Handler around the given service mocks.
func newTestHandler(t *testing.T, auth service.AuthService, vault service.VaultService) *Handler {
	t.Helper()
	svcs := &service.Services{
		AuthService:  auth,
		VaultService: vault,
	}
	return NewHandler(svcs, testHandlerConfig(), logger.Nop())
}

// jsonBody serialises v to a JSON request body string.
func jsonBody(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

// stubSession returns a Session with fixed token values.
func stubSession() models.Session {
	return models.Session{
		AccessToken:   models.Token{SignedString: "signed.access.token"},
		RefreshToken:  "raw-refresh-token",
		RefreshExpiry: time.Now().Add(time.Hour),
	}
}

// stubAccount is a convenience fixture used across multiple tests.
var stubAccount = models.Account{
	AccountID:      "acc-1",
	Email:          "alice@example.com",
	EncryptionSalt: []byte{1, 2, 3, 4},
}

// authedParse returns a ParseAccessToken implementation that accepts any
// token and resolves it to the stub account.
func authedParse(_ context.Context, _ string) (models.Token, error) {
	return models.Token{AccountID: stubAccount.AccountID}, nil
}

// authedRequest builds a request whose context already carries the stub
// account's ID, as the auth middleware would have left it.
func authedRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := context.WithValue(req.Context(), utils.AccountIDCtxKey, stubAccount.AccountID)
	return req.WithContext(ctx)
}
