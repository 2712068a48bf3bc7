package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

type SQLInviteRepository struct {
	db *sql.DB
}

var _ ports.InviteRepository = (*SQLInviteRepository)(nil)

func NewSQLInviteRepository(db *sql.DB) *SQLInviteRepository {
	return &SQLInviteRepository{db: db}
}

func (r *SQLInviteRepository) UpsertInvite(ctx context.Context, invite domain.Invite) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invites (email, roles, created_by_doctor_uid, created_at)
         VALUES ($1, $2, $3, $4)
         ON CONFLICT (email) DO UPDATE
         SET roles = EXCLUDED.roles,
             created_by_doctor_uid = EXCLUDED.created_by_doctor_uid,
             created_at = EXCLUDED.created_at`,
		invite.Email,
		pq.Array(rolesToStrings(invite.Roles)),
		invite.CreatedByDoctorUID,
		invite.CreatedAt,
	)
	return err
}

func (r *SQLInviteRepository) FindInvite(ctx context.Context, email string) (*domain.Invite, error) {
	var invite domain.Invite
	var roles []string
	var legacy sql.NullString

	err := r.db.QueryRowContext(ctx,
		"SELECT email, roles, role, created_by_doctor_uid, created_at FROM invites WHERE email = $1",
		email,
	).Scan(&invite.Email, pq.Array(&roles), &legacy, &invite.CreatedByDoctorUID, &invite.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	invite.Roles = stringsToRoles(roles)
	if legacy.Valid {
		invite.LegacyRole = domain.Role(legacy.String)
	}
	return &invite, nil
}
