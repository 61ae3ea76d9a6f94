package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, acct *Account) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO accounts (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
	`,
		acct.ID,
		acct.Name,
		acct.Email,
		acct.PasswordHash,
		acct.Role,
	)
	return err
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	var acct Account
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role
		FROM accounts
		WHERE email = $1
	`, email).Scan(
		&acct.ID,
		&acct.Name,
		&acct.Email,
		&acct.PasswordHash,
		&acct.Role,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &acct, nil
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)
	`, email).Scan(&exists)
	return exists, err
}
