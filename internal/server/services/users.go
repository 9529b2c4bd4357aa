package services

import (
	"context"
	"database/sql"

	"github.com/dmatveev/authd/internal/logging"
	"github.com/dmatveev/authd/internal/server/models"
	"github.com/dmatveev/authd/internal/server/password"
	"github.com/dmatveev/authd/internal/server/repositories/repomanager"
)

// UserService provides plain CRUD over account records. Email is immutable
// here: it anchors the verification flows, so changing it would require a
// re-verification cycle this service does not perform.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      password.Hasher
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher password.Hasher, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		logger:      logger.With("module", "user_service"),
	}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repomanager.Users(s.db).FindByUsername(ctx, username)
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// Update replaces the account's full name, username and password.
// A username collision surfaces as ErrConflict.
func (s *UserService) Update(ctx context.Context, id, fullName, username, plainPassword string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	u, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return nil, err
	}

	u.FullName = fullName
	u.Username = username
	u.PasswordHash = hash

	updated, err := repo.Update(ctx, u)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "account updated", "id", id)
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repomanager.Users(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "account deleted", "id", id)
	return nil
}
