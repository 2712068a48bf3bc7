package domain

import "time"

// RecordKind is the caller-supplied type tag on a record. The set below is
// what the dashboards offer; submissions are not validated against it.
type RecordKind string

const (
	RecordNota       RecordKind = "nota"
	RecordAvance     RecordKind = "avance"
	RecordIncidencia RecordKind = "incidencia"
	RecordTarea      RecordKind = "tarea"
)

// Record is an append-only timestamped note attached to a student. Records
// are never edited or deleted and display newest first.
type Record struct {
	ID          string     `json:"id"`
	StudentID   string     `json:"student_id"`
	Type        RecordKind `json:"type"`
	Text        string     `json:"text"`
	CreatedAt   time.Time  `json:"created_at"`
	AuthorUID   string     `json:"author_uid"`
	AuthorEmail string     `json:"author_email"`
	AuthorRole  Role       `json:"author_role"`
}
