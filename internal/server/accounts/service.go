// Package accounts implements the registration/login coordinator: it keeps
// the identity provider and the local users table consistent by wrapping the
// local write in a transaction and compensating at the provider when the
// local side fails after the provider side succeeded.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/apponta/apponta-server/internal/common"
	"github.com/apponta/apponta-server/internal/logging"
	"github.com/apponta/apponta-server/internal/server/auth"
	"github.com/apponta/apponta-server/internal/server/config"
	"github.com/apponta/apponta-server/internal/server/identity"
	"github.com/apponta/apponta-server/internal/server/models"
	"github.com/apponta/apponta-server/internal/server/repositories/repomanager"
)

// RegisterResult links the new local row to its provider account.
type RegisterResult struct {
	UserID     int64
	ExternalID string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	UserID      int64
	ExternalID  string
	AccessToken string
}

type Service struct {
	db                          *sql.DB
	rm                          repomanager.RepositoryManager
	provider                    identity.Provider
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewService(db *sql.DB, rm repomanager.RepositoryManager, provider identity.Provider, logger logging.Logger, cfg *config.Config) *Service {
	return &Service{
		db:                          db,
		rm:                          rm,
		provider:                    provider,
		logger:                      logger.With("module", "accounts"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates the provider account and the local user row as one
// logical unit.
//
// The local transaction is opened first so the insert and the commit decide
// the outcome: if the provider call fails nothing was written; if the local
// side fails after the account exists, the account is removed again
// (best-effort). A failed compensation returns ErrorConsistency, the one
// error that means a dangling provider account needs manual reconciliation.
func (s *Service) Register(ctx context.Context, name, email, credential string, termsAccepted bool) (*RegisterResult, error) {

	if !termsAccepted {
		return nil, fmt.Errorf("%w: terms must be accepted", common.ErrorValidation)
	}
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || credential == "" {
		return nil, fmt.Errorf("%w: name, email and credential are required", common.ErrorValidation)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", common.ErrorStore, err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	account, err := s.provider.CreateAccount(ctx, email, credential)
	if err != nil {
		// nothing written locally; the deferred rollback releases the
		// connection
		return nil, err
	}

	user := &models.User{
		Name:          name,
		Email:         email,
		TermsAccepted: termsAccepted,
		ExternalID:    account.ExternalID,
	}

	user, err = s.rm.Users(tx).Create(ctx, user)
	if err != nil {
		return nil, s.compensate(ctx, account, fmt.Errorf("%w: inserting user: %v", common.ErrorStore, err))
	}

	if err := tx.Commit(); err != nil {
		return nil, s.compensate(ctx, account, fmt.Errorf("%w: commit: %v", common.ErrorStore, err))
	}
	committed = true

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "external_id", account.ExternalID)

	return &RegisterResult{UserID: user.ID, ExternalID: account.ExternalID}, nil
}

// compensate removes the provider account created earlier in a failed
// Register. It returns the original cause when compensation succeeds, or
// ErrorConsistency when the account could not be removed.
func (s *Service) compensate(ctx context.Context, account *identity.Account, cause error) error {
	// run even if the request context was cancelled mid-flight
	ctx = context.WithoutCancel(ctx)

	if err := s.provider.RemoveAccount(ctx, account); err != nil {
		s.logger.Error(ctx, "compensation failed, provider account dangling",
			"email", account.Email, "external_id", account.ExternalID,
			"cause", cause.Error(), "compensation_error", err.Error())
		return fmt.Errorf("%w: account %s not removed after: %v", common.ErrorConsistency, account.ExternalID, cause)
	}

	s.logger.Warn(ctx, "registration rolled back, provider account removed",
		"email", account.Email, "external_id", account.ExternalID)
	return cause
}

// Login verifies credentials at the provider and resolves the local user
// row. Provider refusals and missing local linkage both surface as
// ErrorUnauthorized; the linkage gap is additionally logged as a
// consistency anomaly.
func (s *Service) Login(ctx context.Context, email, credential string) (*LoginResult, error) {

	if strings.TrimSpace(email) == "" || credential == "" {
		return nil, fmt.Errorf("%w: email and credential are required", common.ErrorValidation)
	}

	account, err := s.provider.VerifyCredentials(ctx, email, credential)
	if err != nil {
		return nil, err
	}

	user, err := s.rm.Users(s.db).GetByEmailAndExternalID(ctx, email, account.ExternalID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "provider account without local user record",
				"email", email, "external_id", account.ExternalID)
			return nil, fmt.Errorf("%w: invalid credentials", common.ErrorUnauthorized)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorStore, err)
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &LoginResult{UserID: user.ID, ExternalID: user.ExternalID, AccessToken: token}, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.rm.Users(s.db).GetByID(ctx, id)
}

func (s *Service) UpdateName(ctx context.Context, id int64, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	return s.rm.Users(s.db).UpdateName(ctx, id, name)
}

func (s *Service) UpdateEmail(ctx context.Context, id int64, email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	return s.rm.Users(s.db).UpdateEmail(ctx, id, email)
}

// ChangePassword verifies the current credential at the provider before
// asking it to store the new one. Providers that cannot rotate credentials
// reject the call with ErrorIdentity.
func (s *Service) ChangePassword(ctx context.Context, id int64, current, updated string) error {
	if current == "" || updated == "" {
		return fmt.Errorf("%w: current and new credentials are required", common.ErrorValidation)
	}

	user, err := s.rm.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return err
	}

	updater, ok := s.provider.(identity.CredentialUpdater)
	if !ok {
		return fmt.Errorf("%w: provider does not support credential updates", common.ErrorIdentity)
	}

	return updater.UpdateCredential(ctx, user.Email, current, updated)
}

// DeleteUser removes the local row. A user still owning categories is not
// deleted; callers must empty the account first.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	n, err := s.rm.Categories(s.db).CountByUser(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: user still owns %d categories", common.ErrorConflict, n)
	}

	return s.rm.Users(s.db).Delete(ctx, id)
}
