// Package services contains server-side business logic. UserService owns
// account creation, credential checks and demo account seeding.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// DemoUser is an account created by SeedDemoUsers.
type DemoUser struct {
	UserName string
	Password string
	IsAdmin  bool
}

var DemoUsers = []DemoUser{
	{UserName: "admin", Password: "admin123", IsAdmin: true},
	{UserName: "alice", Password: "alice123"},
}

// UserService owns account creation and credential checks.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hashCost    int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewUserService hashes passwords with bcrypt.DefaultCost.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hashCost:    bcrypt.DefaultCost,
	}
}

// Register creates a regular account. Blank username or password yields
// common.ErrorValidation, a taken username common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	return s.create(ctx, s.db, username, password, false)
}

// RegisterAdmin is Register with the admin flag set.
func (s *UserService) RegisterAdmin(ctx context.Context, username, password string) (*models.User, error) {
	return s.create(ctx, s.db, username, password, true)
}

func (s *UserService) create(ctx context.Context, db dbx.DBTX, username, password string, admin bool) (*models.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password is too long", common.ErrorValidation)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{UserName: username, PasswordHash: hash, IsAdmin: admin}
	u, err := s.repomanager.Users(db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// FindByCredentials returns the user whose name and password both match, or
// nil, nil when either does not. Only store failures produce an error.
func (s *UserService) FindByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// same bcrypt work as a real check so absent users are not
			// distinguishable by timing
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return nil, nil
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, nil
	}
	return user, nil
}

// SeedDemoUsers creates any missing DemoUsers in one transaction. Existing
// accounts are left as they are.
func (s *UserService) SeedDemoUsers(ctx context.Context) (created int, err error) {
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		for _, d := range DemoUsers {
			_, err := repo.GetUserByLogin(ctx, d.UserName)
			if err == nil {
				continue
			}
			if !errors.Is(err, common.ErrorNotFound) {
				return err
			}
			if _, err := s.create(ctx, tx, d.UserName, d.Password, d.IsAdmin); err != nil {
				return fmt.Errorf("seed %s: %w", d.UserName, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (s *UserService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.hashCost)
	})
	return s.dummyHash
}
