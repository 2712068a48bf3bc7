package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

type SQLStudentRepository struct {
	db *sql.DB
}

var _ ports.StudentRepository = (*SQLStudentRepository)(nil)

func NewSQLStudentRepository(db *sql.DB) *SQLStudentRepository {
	return &SQLStudentRepository{db: db}
}

func (r *SQLStudentRepository) CreateStudent(ctx context.Context, student domain.Student) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO students (id, full_name, created_by_doctor_uid, parents, teachers, created_at)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		student.ID,
		student.FullName,
		student.CreatedByDoctorUID,
		pq.Array(student.Parents),
		pq.Array(student.Teachers),
		student.CreatedAt,
	)
	return err
}

func (r *SQLStudentRepository) FindStudent(ctx context.Context, studentID string) (*domain.Student, error) {
	var student domain.Student
	err := r.db.QueryRowContext(ctx,
		`SELECT id, full_name, created_by_doctor_uid, parents, teachers, created_at
         FROM students WHERE id = $1`,
		studentID,
	).Scan(
		&student.ID,
		&student.FullName,
		&student.CreatedByDoctorUID,
		pq.Array(&student.Parents),
		pq.Array(&student.Teachers),
		&student.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *SQLStudentRepository) ListByDoctor(ctx context.Context, doctorUID string) ([]domain.Student, error) {
	return r.list(ctx,
		`SELECT id, full_name, created_by_doctor_uid, parents, teachers, created_at
         FROM students WHERE created_by_doctor_uid = $1 ORDER BY created_at`,
		doctorUID,
	)
}

func (r *SQLStudentRepository) ListByMember(ctx context.Context, kind domain.AssignmentKind, userID string) ([]domain.Student, error) {
	column, err := memberColumn(kind)
	if err != nil {
		return nil, err
	}
	return r.list(ctx,
		`SELECT id, full_name, created_by_doctor_uid, parents, teachers, created_at
         FROM students WHERE $1 = ANY(`+column+`) ORDER BY created_at`,
		userID,
	)
}

// AddMember performs an idempotent set-union append: the guard clause makes
// re-adding an existing member a no-op instead of a duplicate.
func (r *SQLStudentRepository) AddMember(ctx context.Context, studentID string, kind domain.AssignmentKind, userID string) error {
	column, err := memberColumn(kind)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE students SET `+column+` = array_append(`+column+`, $2)
         WHERE id = $1 AND NOT ($2 = ANY(`+column+`))`,
		studentID, userID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the member is already present (fine) or the student does
		// not exist (not fine); tell the two apart.
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM students WHERE id = $1)", studentID,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
	}
	return nil
}

func (r *SQLStudentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Student, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []domain.Student
	for rows.Next() {
		var student domain.Student
		if err := rows.Scan(
			&student.ID,
			&student.FullName,
			&student.CreatedByDoctorUID,
			pq.Array(&student.Parents),
			pq.Array(&student.Teachers),
			&student.CreatedAt,
		); err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

// memberColumn maps the assignment kind to a column name. Kinds are a
// closed enum so this never interpolates caller input.
func memberColumn(kind domain.AssignmentKind) (string, error) {
	switch kind {
	case domain.AssignTeacher:
		return "teachers", nil
	case domain.AssignParent:
		return "parents", nil
	default:
		return "", domain.ValidationError("kind", "must be teacher or parent")
	}
}
