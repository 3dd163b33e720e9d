package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/MKhiriev/zero-vault/internal/adapter"
	"github.com/MKhiriev/zero-vault/internal/config"
	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/store"
	"github.com/MKhiriev/zero-vault/internal/utils"
	"github.com/MKhiriev/zero-vault/models"
)

const (
	// minPasswordLength is the floor on account passwords. The password also
	// feeds client-side key derivation, so trivially short ones are refused.
	minPasswordLength = 8

	// encryptionSaltLength is the byte length of the key-derivation salt
	// generated at registration.
	encryptionSaltLength = 16

	// resetTokenBytes of randomness per reset token; hex-encoded the token
	// is twice as many characters.
	resetTokenBytes = 32
)

// authService is the concrete implementation of AuthService.
// It handles account registration, credential verification, and the lifecycle
// of all three token kinds: stateless access JWTs, single-active refresh
// JWTs (stored only as salted hashes), and single-use reset tokens.
type authService struct {
	// accounts is the data-access layer used to create and look up accounts.
	accounts store.AccountRepository

	// items and deletions are wiped wholesale during an account reset.
	items     store.VaultItemRepository
	deletions store.DeletionLogRepository

	// mailer delivers reset tokens. Never receives anything else.
	mailer adapter.Mailer

	// accessSignKey is the HMAC secret for access tokens; refreshSignKey for
	// refresh tokens. Distinct keys so a leaked access-token key cannot mint
	// refresh tokens.
	accessSignKey  string
	refreshSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	accessDuration  time.Duration
	refreshDuration time.Duration
	resetDuration   time.Duration

	// bcryptCost applies to password hashes and token digests alike.
	bcryptCost int

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs an AuthService wired to the given repositories
// and mailer, populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(accounts store.AccountRepository, items store.VaultItemRepository, deletions store.DeletionLogRepository, mailer adapter.Mailer, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		accounts:        accounts,
		items:           items,
		deletions:       deletions,
		mailer:          mailer,
		accessSignKey:   cfg.AccessTokenSignKey,
		refreshSignKey:  cfg.RefreshTokenSignKey,
		tokenIssuer:     cfg.TokenIssuer,
		accessDuration:  cfg.AccessTokenDuration,
		refreshDuration: cfg.RefreshTokenDuration,
		resetDuration:   cfg.ResetTokenDuration,
		bcryptCost:      cfg.BcryptCost,
		logger:          logger,
	}
}

// Register creates a new account and issues its first session.
//
// Registration is two-phase: the account row is inserted unfinalized, the
// first session is installed, and only then is the row finalized. If any
// dependent step fails, the row is deleted again so a half-registered email
// never stays claimed. Rows that escape the compensation (process crash) are
// reaped by the finalization sweeper.
//
// Returns:
//   - ErrInvalidDataProvided for a malformed email or short password.
//   - ErrEmailAlreadyRegistered when the email is taken.
//   - ErrRegistrationIncomplete when a dependent step failed and the
//     registration was rolled back.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.Account, models.Session, error) {
	log := logger.FromContext(ctx)

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return models.Account{}, models.Session{}, err
	}
	if len(req.Password) < minPasswordLength {
		return models.Account{}, models.Session{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidDataProvided, minPasswordLength)
	}

	passwordHash, err := utils.HashPassword(req.Password, a.bcryptCost)
	if err != nil {
		return models.Account{}, models.Session{}, fmt.Errorf("password hashing failed: %w", err)
	}

	salt, err := utils.NewRandomBytes(encryptionSaltLength)
	if err != nil {
		return models.Account{}, models.Session{}, fmt.Errorf("salt generation failed: %w", err)
	}

	account, err := a.accounts.CreateAccount(ctx, models.Account{
		AccountID:      utils.NewUUID(),
		Email:          email,
		PasswordHash:   passwordHash,
		EncryptionSalt: salt,
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			return models.Account{}, models.Session{}, ErrEmailAlreadyRegistered
		}
		log.Err(err).Msg("account creation ended with error")
		return models.Account{}, models.Session{}, fmt.Errorf("account creation ended with error: %w", err)
	}

	session, err := a.issueSession(ctx, account)
	if err == nil {
		err = a.accounts.FinalizeAccount(ctx, account.AccountID)
	}
	if err != nil {
		log.Err(err).Str("account_id", account.AccountID).Msg("registration step failed, rolling back account")
		if deleteErr := a.accounts.DeleteAccount(ctx, account.AccountID); deleteErr != nil {
			log.Err(deleteErr).Str("account_id", account.AccountID).Msg("registration rollback failed, sweeper will reap the account")
		}
		return models.Account{}, models.Session{}, fmt.Errorf("%w: %w", ErrRegistrationIncomplete, err)
	}

	account.Finalized = true

	return account, session, nil
}

// Login verifies credentials and issues a fresh session, replacing any
// previously active refresh token.
//
// Unknown emails, unfinalized accounts, and wrong passwords all collapse to
// ErrInvalidCredentials.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.Account, models.Session, error) {
	log := logger.FromContext(ctx)

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return models.Account{}, models.Session{}, ErrInvalidCredentials
	}

	account, err := a.accounts.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoAccountWasFound) {
			return models.Account{}, models.Session{}, ErrInvalidCredentials
		}
		log.Err(err).Msg("account search by email failed")
		return models.Account{}, models.Session{}, fmt.Errorf("account search by email failed: %w", err)
	}

	if !account.Finalized || !utils.VerifyPassword(req.Password, account.PasswordHash) {
		log.Debug().Str("account_id", account.AccountID).Msg("credential verification failed")
		return models.Account{}, models.Session{}, ErrInvalidCredentials
	}

	session, err := a.issueSession(ctx, account)
	if err != nil {
		log.Err(err).Str("account_id", account.AccountID).Msg("session issuance failed")
		return models.Account{}, models.Session{}, fmt.Errorf("session issuance failed: %w", err)
	}

	return account, session, nil
}

// Refresh rotates a valid refresh token into a fresh session.
//
// The rotation is a compare-and-swap on the stored hash: when two requests
// race with the same token, exactly one wins and the other finds the hash
// already replaced. The loser gets ErrTokenIsExpiredOrInvalid and the token
// it presented is gone either way — a replayed refresh token is always dead.
func (a *authService) Refresh(ctx context.Context, rawRefreshToken string) (models.Account, models.Session, error) {
	log := logger.FromContext(ctx)

	token, err := utils.ValidateAndParseJWTToken(rawRefreshToken, a.refreshSignKey, a.tokenIssuer)
	if err != nil {
		return models.Account{}, models.Session{}, ErrTokenIsExpiredOrInvalid
	}

	account, err := a.accounts.FindAccountByID(ctx, token.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrNoAccountWasFound) {
			return models.Account{}, models.Session{}, ErrTokenIsExpiredOrInvalid
		}
		log.Err(err).Msg("account search by id failed")
		return models.Account{}, models.Session{}, fmt.Errorf("account search by id failed: %w", err)
	}

	now := time.Now()
	if !account.HasActiveRefreshToken(now) || !utils.VerifyToken(rawRefreshToken, account.RefreshTokenHash) {
		log.Debug().Str("account_id", account.AccountID).Msg("presented refresh token does not match the active session")
		return models.Account{}, models.Session{}, ErrTokenIsExpiredOrInvalid
	}

	session, newHash, err := a.mintSession(account.AccountID)
	if err != nil {
		return models.Account{}, models.Session{}, err
	}

	err = a.accounts.RotateRefreshToken(ctx, account.AccountID, account.RefreshTokenHash, newHash, session.RefreshExpiry)
	if err != nil {
		if errors.Is(err, store.ErrRefreshTokenMismatch) {
			log.Debug().Str("account_id", account.AccountID).Msg("refresh rotation lost a race, token already rotated")
			return models.Account{}, models.Session{}, ErrTokenIsExpiredOrInvalid
		}
		log.Err(err).Str("account_id", account.AccountID).Msg("refresh rotation failed")
		return models.Account{}, models.Session{}, fmt.Errorf("refresh rotation failed: %w", err)
	}

	return account, session, nil
}

// Logout revokes the active refresh token. Revoking an already-clear session
// or an absent account succeeds: the desired state is reached either way.
func (a *authService) Logout(ctx context.Context, accountID string) error {
	log := logger.FromContext(ctx)

	if err := a.accounts.ClearRefreshToken(ctx, accountID); err != nil && !errors.Is(err, store.ErrNoAccountWasFound) {
		log.Err(err).Str("account_id", accountID).Msg("logout failed")
		return fmt.Errorf("logout failed: %w", err)
	}

	return nil
}

// ChangePassword verifies the current password, installs the new password
// hash and encryption salt atomically, and revokes the active session so
// every device re-authenticates under the new credentials.
func (a *authService) ChangePassword(ctx context.Context, accountID string, req models.ChangePasswordRequest) error {
	log := logger.FromContext(ctx)

	if len(req.NewPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidDataProvided, minPasswordLength)
	}
	if len(req.NewEncryptionSalt) == 0 {
		return fmt.Errorf("%w: new encryption salt is required", ErrInvalidDataProvided)
	}

	account, err := a.accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNoAccountWasFound) {
			return ErrAccountNotFound
		}
		log.Err(err).Msg("account search by id failed")
		return fmt.Errorf("account search by id failed: %w", err)
	}

	if !utils.VerifyPassword(req.CurrentPassword, account.PasswordHash) {
		log.Debug().Str("account_id", accountID).Msg("current password verification failed")
		return ErrInvalidCredentials
	}

	newHash, err := utils.HashPassword(req.NewPassword, a.bcryptCost)
	if err != nil {
		return fmt.Errorf("password hashing failed: %w", err)
	}

	if err := a.accounts.UpdatePassword(ctx, accountID, newHash, req.NewEncryptionSalt); err != nil {
		log.Err(err).Str("account_id", accountID).Msg("password update failed")
		return fmt.Errorf("password update failed: %w", err)
	}

	if err := a.accounts.ClearRefreshToken(ctx, accountID); err != nil {
		log.Err(err).Str("account_id", accountID).Msg("session revocation after password change failed")
		return fmt.Errorf("session revocation after password change failed: %w", err)
	}

	return nil
}

// ForgotPassword issues a single-use reset token and mails it.
//
// An unknown email is reported as success so the endpoint cannot be used to
// probe which emails are registered. Issuing a new token replaces any
// pending one.
func (a *authService) ForgotPassword(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	email, err := normalizeEmail(email)
	if err != nil {
		return nil
	}

	account, err := a.accounts.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoAccountWasFound) {
			log.Debug().Msg("password reset requested for unknown email")
			return nil
		}
		log.Err(err).Msg("account search by email failed")
		return fmt.Errorf("account search by email failed: %w", err)
	}

	rawToken, err := utils.NewRandomHex(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("reset token generation failed: %w", err)
	}

	tokenHash, err := utils.HashToken(rawToken, a.bcryptCost)
	if err != nil {
		return fmt.Errorf("reset token hashing failed: %w", err)
	}

	expiry := time.Now().Add(a.resetDuration)
	if err := a.accounts.SetResetToken(ctx, account.AccountID, tokenHash, expiry); err != nil {
		log.Err(err).Str("account_id", account.AccountID).Msg("reset token persistence failed")
		return fmt.Errorf("reset token persistence failed: %w", err)
	}

	// A relay outage must look like success too: surfacing it would tell the
	// caller that the email is registered.
	if err := a.mailer.SendPasswordReset(ctx, account.Email, rawToken); err != nil {
		log.Err(err).Str("account_id", account.AccountID).Msg("reset mail delivery failed")
	}

	return nil
}

// VerifyResetToken checks a reset token without consuming it. Unknown
// emails, expired tokens, and wrong tokens all collapse to
// ErrTokenIsExpiredOrInvalid.
func (a *authService) VerifyResetToken(ctx context.Context, email, rawToken string) error {
	_, err := a.verifiedResetAccount(ctx, email, rawToken)
	return err
}

// ResetAccount consumes a reset token, installs the new credentials, wipes
// all vault data, and issues a fresh session.
//
// The wipe is not optional. The vault key is derived from the old password,
// which the account owner no longer knows; every stored ciphertext is
// permanently unreadable, so keeping it would only preserve garbage.
func (a *authService) ResetAccount(ctx context.Context, req models.ResetAccountRequest) (models.Account, models.Session, error) {
	log := logger.FromContext(ctx)

	if len(req.NewPassword) < minPasswordLength {
		return models.Account{}, models.Session{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidDataProvided, minPasswordLength)
	}

	account, err := a.verifiedResetAccount(ctx, req.Email, req.Token)
	if err != nil {
		return models.Account{}, models.Session{}, err
	}

	newHash, err := utils.HashPassword(req.NewPassword, a.bcryptCost)
	if err != nil {
		return models.Account{}, models.Session{}, fmt.Errorf("password hashing failed: %w", err)
	}

	salt := req.NewEncryptionSalt
	if len(salt) == 0 {
		if salt, err = utils.NewRandomBytes(encryptionSaltLength); err != nil {
			return models.Account{}, models.Session{}, fmt.Errorf("salt generation failed: %w", err)
		}
	}

	// One conditional update consumes the token, installs the new
	// credentials, and revokes the active refresh token. Two concurrent
	// resets with the same token must not both proceed past this point, and
	// a consumed token must never leave the old session or password behind.
	if err := a.accounts.ConsumeResetToken(ctx, account.AccountID, account.ResetTokenHash, newHash, salt); err != nil {
		if errors.Is(err, store.ErrResetTokenMismatch) {
			return models.Account{}, models.Session{}, ErrTokenIsExpiredOrInvalid
		}
		log.Err(err).Str("account_id", account.AccountID).Msg("reset token consumption failed")
		return models.Account{}, models.Session{}, fmt.Errorf("reset token consumption failed: %w", err)
	}

	if err := a.items.DeleteAllItems(ctx, account.AccountID); err != nil {
		log.Err(err).Str("account_id", account.AccountID).Msg("vault wipe failed")
		return models.Account{}, models.Session{}, fmt.Errorf("vault wipe failed: %w", err)
	}
	if err := a.deletions.PurgeDeletions(ctx, account.AccountID); err != nil {
		log.Err(err).Str("account_id", account.AccountID).Msg("deletion log purge failed")
		return models.Account{}, models.Session{}, fmt.Errorf("deletion log purge failed: %w", err)
	}

	account.PasswordHash = newHash
	account.EncryptionSalt = salt

	session, err := a.issueSession(ctx, account)
	if err != nil {
		log.Err(err).Str("account_id", account.AccountID).Msg("session issuance failed")
		return models.Account{}, models.Session{}, fmt.Errorf("session issuance failed: %w", err)
	}

	log.Info().Str("account_id", account.AccountID).Msg("account reset completed, vault wiped")

	return account, session, nil
}

// ParseAccessToken validates a compact access token and returns its decoded
// form. Any validation failure (expired, wrong issuer, wrong key, malformed)
// is normalised to ErrTokenIsExpiredOrInvalid so that callers do not need to
// inspect low-level JWT errors.
func (a *authService) ParseAccessToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.accessSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// verifiedResetAccount looks up the account and checks the presented reset
// token against the stored hash without consuming it.
func (a *authService) verifiedResetAccount(ctx context.Context, email, rawToken string) (models.Account, error) {
	log := logger.FromContext(ctx)

	email, err := normalizeEmail(email)
	if err != nil || rawToken == "" {
		return models.Account{}, ErrTokenIsExpiredOrInvalid
	}

	account, err := a.accounts.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoAccountWasFound) {
			return models.Account{}, ErrTokenIsExpiredOrInvalid
		}
		log.Err(err).Msg("account search by email failed")
		return models.Account{}, fmt.Errorf("account search by email failed: %w", err)
	}

	if !account.HasPendingResetToken(time.Now()) || !utils.VerifyToken(rawToken, account.ResetTokenHash) {
		log.Debug().Str("account_id", account.AccountID).Msg("reset token verification failed")
		return models.Account{}, ErrTokenIsExpiredOrInvalid
	}

	return account, nil
}

// issueSession mints a fresh token pair and installs the refresh hash as the
// account's single active session.
func (a *authService) issueSession(ctx context.Context, account models.Account) (models.Session, error) {
	session, refreshHash, err := a.mintSession(account.AccountID)
	if err != nil {
		return models.Session{}, err
	}

	if err := a.accounts.SetRefreshToken(ctx, account.AccountID, refreshHash, session.RefreshExpiry); err != nil {
		return models.Session{}, fmt.Errorf("refresh token persistence failed: %w", err)
	}

	return session, nil
}

// mintSession creates the access/refresh token pair and the salted hash of
// the refresh token. Nothing is persisted; callers decide whether the hash
// is installed unconditionally or via compare-and-swap.
func (a *authService) mintSession(accountID string) (models.Session, string, error) {
	access, err := utils.GenerateJWTToken(a.tokenIssuer, accountID, a.accessDuration, a.accessSignKey)
	if err != nil {
		return models.Session{}, "", fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	refresh, err := utils.GenerateJWTToken(a.tokenIssuer, accountID, a.refreshDuration, a.refreshSignKey)
	if err != nil {
		return models.Session{}, "", fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	refreshHash, err := utils.HashToken(refresh.SignedString, a.bcryptCost)
	if err != nil {
		return models.Session{}, "", fmt.Errorf("refresh token hashing failed: %w", err)
	}

	session := models.Session{
		AccessToken:   access,
		RefreshToken:  refresh.SignedString,
		RefreshExpiry: time.Now().Add(a.refreshDuration),
	}

	return session, refreshHash, nil
}

// normalizeEmail lower-cases and trims the address and rejects anything that
// does not parse as a bare RFC 5322 address.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrInvalidDataProvided)
	}

	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		return "", fmt.Errorf("%w: malformed email address", ErrInvalidDataProvided)
	}

	return email, nil
}
