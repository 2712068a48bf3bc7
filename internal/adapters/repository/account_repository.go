package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

type SQLAccountRepository struct {
	db *sql.DB
}

var _ ports.AccountRepository = (*SQLAccountRepository)(nil)

func NewSQLAccountRepository(db *sql.DB) *SQLAccountRepository {
	return &SQLAccountRepository{db: db}
}

func (r *SQLAccountRepository) CreateAccount(ctx context.Context, account domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)",
		account.ID,
		account.Email,
		account.PasswordHash,
		account.CreatedAt,
	)
	return err
}

func (r *SQLAccountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var account domain.Account
	err := r.db.QueryRowContext(
		ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE email = $1",
		email,
	).Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}
