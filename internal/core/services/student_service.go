package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

// StudentService covers the doctor-side operations: creating students and
// invites, assigning users to students by email, and the role-scoped
// student listings every dashboard builds its dropdown from.
type StudentService struct {
	students ports.StudentRepository
	profiles ports.ProfileRepository
	invites  ports.InviteRepository
}

func NewStudentService(
	students ports.StudentRepository,
	profiles ports.ProfileRepository,
	invites ports.InviteRepository,
) *StudentService {
	return &StudentService{students: students, profiles: profiles, invites: invites}
}

var _ ports.StudentService = (*StudentService)(nil)

func (s *StudentService) CreateStudent(ctx context.Context, doctorUID, fullName string) (*domain.Student, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, domain.ValidationError("fullName", "is required")
	}

	student := domain.Student{
		ID:                 uuid.NewString(),
		FullName:           fullName,
		CreatedByDoctorUID: doctorUID,
		Parents:            []string{},
		Teachers:           []string{},
		CreatedAt:          time.Now(),
	}
	if err := s.students.CreateStudent(ctx, student); err != nil {
		return nil, &domain.PersistenceError{Op: "create student", Err: err}
	}
	return &student, nil
}

// ListForViewer scopes students the way the dashboards do: doctors see the
// students they created, teachers and parents the ones whose membership
// set contains them.
func (s *StudentService) ListForViewer(ctx context.Context, viewer domain.Identity, as domain.Role) ([]domain.Student, error) {
	switch as {
	case domain.RoleDoctor:
		students, err := s.students.ListByDoctor(ctx, viewer.UserID)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "list students", Err: err}
		}
		return students, nil
	case domain.RoleTeacher:
		students, err := s.students.ListByMember(ctx, domain.AssignTeacher, viewer.UserID)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "list students", Err: err}
		}
		return students, nil
	case domain.RoleParent:
		students, err := s.students.ListByMember(ctx, domain.AssignParent, viewer.UserID)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "list students", Err: err}
		}
		return students, nil
	default:
		return nil, domain.ValidationError("role", "is not recognized")
	}
}

// Assign resolves email to a registered profile and unions its id into the
// student's teacher or parent set. A pending invite without a registered
// profile is indistinguishable from "never invited" here and reports not
// found.
func (s *StudentService) Assign(ctx context.Context, studentID, email string, kind domain.AssignmentKind) error {
	if studentID == "" {
		return domain.ValidationError("studentId", "is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.ValidationError("email", "is required")
	}
	if kind != domain.AssignTeacher && kind != domain.AssignParent {
		return domain.ValidationError("kind", "must be teacher or parent")
	}

	profile, err := s.profiles.FindProfileByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return &domain.PersistenceError{Op: "find profile by email", Err: err}
	}

	if err := s.students.AddMember(ctx, studentID, kind, profile.ID); err != nil {
		return &domain.PersistenceError{Op: "add member", Err: err}
	}
	return nil
}

// Invite upserts the invite document keyed by lowercased email so the
// invited user can register with the given role.
func (s *StudentService) Invite(ctx context.Context, doctorUID, email string, role domain.Role) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.ValidationError("email", "is required")
	}
	if !domain.IsKnownRole(role) {
		return domain.ValidationError("role", "is not recognized")
	}

	invite := domain.Invite{
		Email:              email,
		Roles:              []domain.Role{role},
		CreatedByDoctorUID: doctorUID,
		CreatedAt:          time.Now(),
	}
	if err := s.invites.UpsertInvite(ctx, invite); err != nil {
		return &domain.PersistenceError{Op: "upsert invite", Err: err}
	}
	return nil
}
