// Package services contains server-side business logic. This file implements
// AuthService, which sequences the signup, login, verify and resend flows
// over the credential store, the verification machine, the password hasher,
// the token issuer and the notification sender.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmatveev/authd/internal/common"
	"github.com/dmatveev/authd/internal/dbx"
	"github.com/dmatveev/authd/internal/logging"
	"github.com/dmatveev/authd/internal/server/mail"
	"github.com/dmatveev/authd/internal/server/models"
	"github.com/dmatveev/authd/internal/server/password"
	"github.com/dmatveev/authd/internal/server/repositories/repomanager"
	"github.com/dmatveev/authd/internal/server/verification"
)

// TokenIssuer mints a session token bound to an account's stable ID.
type TokenIssuer interface {
	IssueToken(userID string) (string, error)
}

// AuthService provides the account authentication flows:
//   - SignUp: create a pending account and send it a verification code
//   - Login: check credentials and force a fresh code confirmation
//   - VerifyCode: consume the code and mint a session token
//   - ResendCode: reissue the code, invalidating the previous one
//
// There is no rate limiting or lockout on repeated failed verification
// attempts; that gap is accepted here and left to the deployment's edge.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	machine     *verification.Machine
	hasher      password.Hasher
	tokens      TokenIssuer
	sender      mail.Sender
	logger      logging.Logger
}

// NewAuthService constructs an AuthService from its collaborators.
func NewAuthService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	machine *verification.Machine,
	hasher password.Hasher,
	tokens TokenIssuer,
	sender mail.Sender,
	logger logging.Logger,
) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		machine:     machine,
		hasher:      hasher,
		tokens:      tokens,
		sender:      sender,
		logger:      logger.With("module", "auth_service"),
	}
}

// SignUp creates a new pending account and sends it a verification code.
// Duplicate email or username fails with ErrConflict before anything is
// written. No session token is produced; the caller must verify first.
//
// When the account was created but the mail could not be delivered, the
// created account is returned together with ErrDeliveryFailed: the issued
// code stays valid and a resend recovers.
func (s *AuthService) SignUp(ctx context.Context, email, username, fullName, plainPassword string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	taken, err := repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, s.infraErr(err)
	}
	if taken {
		return nil, fmt.Errorf("%w: email is already registered", common.ErrConflict)
	}

	taken, err = repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, s.infraErr(err)
	}
	if taken {
		return nil, fmt.Errorf("%w: username is already taken", common.ErrConflict)
	}

	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return nil, s.infraErr(err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		FullName:     fullName,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := s.machine.Issue(user); err != nil {
		return nil, s.infraErr(err)
	}

	created, err := repo.Create(ctx, user)
	if err != nil {
		// A concurrent signup can still win the race between the exists
		// checks and the insert; the unique constraints settle it.
		return nil, s.infraErr(err)
	}

	s.logger.Info(ctx, "account created", "email", created.Email, "username", created.Username)
	return created, s.deliver(ctx, created)
}

// Login verifies the credentials and drives the account back into the
// pending state: Verified is forced to false and a fresh code is issued.
// Login never yields a session token; every login requires a new code
// confirmation via VerifyCode.
func (s *AuthService) Login(ctx context.Context, email, plainPassword string) error {
	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		return s.infraErr(err)
	}
	if !s.hasher.Matches(plainPassword, user.PasswordHash) {
		return common.ErrInvalidCredentials
	}

	updated, err := s.reissue(ctx, email, func(u *models.User) {
		u.Verified = false
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "login pending verification", "email", email)
	return s.deliver(ctx, updated)
}

// VerifyCode consumes the pending code and, on success, returns a session
// token bound to the account's stable ID.
func (s *AuthService) VerifyCode(ctx context.Context, email, code string) (string, error) {
	var user *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Users(tx)

		u, err := repoTx.FindByEmailForUpdate(ctx, email)
		if err != nil {
			return err
		}
		if err := s.machine.Consume(u, code); err != nil {
			return err
		}
		user, err = repoTx.Update(ctx, u)
		return err
	})
	if err != nil {
		return "", s.infraErr(err)
	}

	token, err := s.tokens.IssueToken(user.ID)
	if err != nil {
		return "", s.infraErr(err)
	}

	s.logger.Info(ctx, "account verified", "email", email)
	return token, nil
}

// ResendCode issues a fresh code unconditionally. Whatever code existed
// before — valid or expired — is superseded and permanently dead.
func (s *AuthService) ResendCode(ctx context.Context, email string) error {
	updated, err := s.reissue(ctx, email, nil)
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "verification code reissued", "email", email)
	return s.deliver(ctx, updated)
}

// reissue locks the account row, applies mutate (if any), issues a fresh
// code and persists the result in one transaction. The row lock serializes
// concurrent logins/verifies on the same account so two issued codes cannot
// silently overwrite each other.
func (s *AuthService) reissue(ctx context.Context, email string, mutate func(*models.User)) (*models.User, error) {
	var updated *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Users(tx)

		u, err := repoTx.FindByEmailForUpdate(ctx, email)
		if err != nil {
			return err
		}
		if mutate != nil {
			mutate(u)
		}
		if err := s.machine.Issue(u); err != nil {
			return err
		}
		updated, err = repoTx.Update(ctx, u)
		return err
	})
	if err != nil {
		return nil, s.infraErr(err)
	}
	return updated, nil
}

// deliver sends the pending code. The code is already committed at this
// point, so a transport failure is reported but rolls nothing back.
func (s *AuthService) deliver(ctx context.Context, u *models.User) error {
	if err := s.sender.SendVerificationCode(ctx, u); err != nil {
		s.logger.Warn(ctx, "verification mail not delivered", "email", u.Email, "error", err.Error())
		return err
	}
	return nil
}

// infraErr passes the domain sentinels through untouched and folds
// everything else into ErrUnavailable, keeping the error surface closed.
func (s *AuthService) infraErr(err error) error {
	for _, sentinel := range []error{
		common.ErrNotFound,
		common.ErrConflict,
		common.ErrCodeExpired,
		common.ErrCodeMismatch,
		common.ErrInvalidCredentials,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
}
