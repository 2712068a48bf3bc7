package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

type SQLProfileRepository struct {
	db *sql.DB
}

var _ ports.ProfileRepository = (*SQLProfileRepository)(nil)

func NewSQLProfileRepository(db *sql.DB) *SQLProfileRepository {
	return &SQLProfileRepository{db: db}
}

func (r *SQLProfileRepository) CreateProfile(ctx context.Context, profile domain.UserProfile) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO profiles (user_id, email, roles, created_at) VALUES ($1, $2, $3, $4)",
		profile.ID,
		profile.Email,
		pq.Array(rolesToStrings(profile.Roles)),
		profile.CreatedAt,
	)
	return err
}

func (r *SQLProfileRepository) FindProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return r.scanProfile(r.db.QueryRowContext(ctx,
		"SELECT user_id, email, roles, role, created_at FROM profiles WHERE user_id = $1",
		userID,
	))
}

func (r *SQLProfileRepository) FindProfileByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	return r.scanProfile(r.db.QueryRowContext(ctx,
		"SELECT user_id, email, roles, role, created_at FROM profiles WHERE email = $1",
		email,
	))
}

// scanProfile reads both the roles array and the legacy scalar column;
// normalization happens in the domain, not here.
func (r *SQLProfileRepository) scanProfile(row *sql.Row) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	var roles []string
	var legacy sql.NullString

	err := row.Scan(&profile.ID, &profile.Email, pq.Array(&roles), &legacy, &profile.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	profile.Roles = stringsToRoles(roles)
	if legacy.Valid {
		profile.LegacyRole = domain.Role(legacy.String)
	}
	return &profile, nil
}

func rolesToStrings(roles []domain.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func stringsToRoles(values []string) []domain.Role {
	if len(values) == 0 {
		return nil
	}
	out := make([]domain.Role, len(values))
	for i, v := range values {
		out[i] = domain.Role(v)
	}
	return out
}
