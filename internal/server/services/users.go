package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bridgekeeper/internal/common"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/auth"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/models"
	"github.com/dmitrijs2005/bridgekeeper/internal/server/repositories/repomanager"
)

// UserService registers accounts and checks password credentials.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m}
}

// Register creates an account. passwordHash is the client's hex SHA-256
// of the password; only a salted verifier of it is stored.
func (s *UserService) Register(ctx context.Context, email, passwordHash string) (*models.User, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") || strings.ContainsAny(email, " \t\r\n") {
		return nil, fmt.Errorf("%w: email is malformed", common.ErrValidation)
	}
	if err := auth.ValidatePasswordHash(passwordHash); err != nil {
		return nil, err
	}

	salt, verifier := auth.NewVerifier(passwordHash)
	u, err := s.repomanager.Users(conn(s.db)).Create(ctx, &models.User{Email: email, Salt: salt, Verifier: verifier})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: email is already registered", common.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Authenticate returns the user whose email and password hash match, or
// common.ErrUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, email, passwordHash string) (*models.User, error) {
	u, err := s.repomanager.Users(conn(s.db)).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// keep the timing of unknown emails close to wrong passwords
			auth.CheckVerifier(passwordHash, common.GenerateRandByteArray(16), nil)
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	if !auth.CheckVerifier(passwordHash, u.Salt, u.Verifier) {
		return nil, common.ErrUnauthorized
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(conn(s.db)).GetByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
