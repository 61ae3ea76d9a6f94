package auth

import (
	"context"
	"errors"
)

var ErrAccountNotFound = errors.New("account not found")

// Repository defines all database operations for operator accounts
type Repository interface {
	Save(ctx context.Context, acct *Account) error
	FindByEmail(ctx context.Context, email string) (*Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
