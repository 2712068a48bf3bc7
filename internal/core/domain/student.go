package domain

import "time"

// Student is owned by the creating doctor. Parents and Teachers are
// membership sets of user ids, only ever grown by assignment.
type Student struct {
	ID                 string    `json:"id"`
	FullName           string    `json:"full_name"`
	CreatedByDoctorUID string    `json:"created_by_doctor_uid"`
	Parents            []string  `json:"parents"`
	Teachers           []string  `json:"teachers"`
	CreatedAt          time.Time `json:"created_at"`
}

// AssignmentKind selects which membership set an assignment targets.
type AssignmentKind string

const (
	AssignTeacher AssignmentKind = "teacher"
	AssignParent  AssignmentKind = "parent"
)
