// Package users persists user accounts. Usernames are unique; the database
// constraint is the only uniqueness check, so concurrent signups for the same
// name resolve to exactly one row and common.ErrorAlreadyExists for the rest.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in ID and CreatedAt.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin returns common.ErrorNotFound when no row matches.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}
