package ports

import (
	"context"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
)

type AccountRepository interface {
	CreateAccount(ctx context.Context, account domain.Account) error
	FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
}

type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile domain.UserProfile) error
	FindProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	FindProfileByEmail(ctx context.Context, email string) (*domain.UserProfile, error)
}

type InviteRepository interface {
	// UpsertInvite replaces any prior invite for the same email.
	UpsertInvite(ctx context.Context, invite domain.Invite) error
	FindInvite(ctx context.Context, email string) (*domain.Invite, error)
}

type StudentRepository interface {
	CreateStudent(ctx context.Context, student domain.Student) error
	FindStudent(ctx context.Context, studentID string) (*domain.Student, error)
	ListByDoctor(ctx context.Context, doctorUID string) ([]domain.Student, error)
	ListByMember(ctx context.Context, kind domain.AssignmentKind, userID string) ([]domain.Student, error)
	// AddMember unions userID into the teachers or parents set. Re-adding an
	// existing member is a no-op.
	AddMember(ctx context.Context, studentID string, kind domain.AssignmentKind, userID string) error
}

type RecordRepository interface {
	// CreateRecord appends the record and the outbox payload in one
	// transaction so the relay can never observe one without the other.
	CreateRecord(ctx context.Context, record domain.Record, outboxPayload []byte) (*domain.Record, error)
	ListByStudent(ctx context.Context, studentID string, limit int) ([]domain.Record, error)
	ListLatest(ctx context.Context, limit int) ([]domain.Record, error)
}
