package services

import (
	"context"
	"testing"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
	"github.com/pensamiento-creativo/student-records-service/test/mocks"
)

// Exercises the doctor-to-parent flow end to end across the services:
// the doctor creates a student, writes a record and assigns a parent, and
// the parent's live view shows exactly that record.
func TestDoctorToParentFlow(t *testing.T) {
	ctx := context.Background()

	studentRepo := mocks.NewMockStudentRepository()
	profileRepo := mocks.NewMockProfileRepository()
	inviteRepo := mocks.NewMockInviteRepository()
	recordRepo := mocks.NewMockRecordRepository()
	activeRoles := mocks.NewMockActiveRoleStore()

	students := NewStudentService(studentRepo, profileRepo, inviteRepo)
	records := NewRecordService(recordRepo, activeRoles)

	doctor := domain.Identity{UserID: "doc-1", Email: "doc@example.com", Roles: []domain.Role{domain.RoleDoctor}}
	profileRepo.SeedProfile(&domain.UserProfile{ID: "p-1", Email: "madre@example.com", Roles: []domain.Role{domain.RoleParent}})

	student, err := students.CreateStudent(ctx, doctor.UserID, "Ana García")
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}

	listed, err := students.ListForViewer(ctx, doctor, domain.RoleDoctor)
	if err != nil {
		t.Fatalf("ListForViewer: %v", err)
	}
	if len(listed) != 1 || listed[0].FullName != "Ana García" {
		t.Fatalf("doctor listing = %v, want the new student", listed)
	}

	if _, err := records.Submit(ctx, doctor, student.ID, domain.RecordNota, "primera visita"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err := students.Assign(ctx, student.ID, "madre@example.com", domain.AssignParent); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	parent := domain.Identity{UserID: "p-1", Email: "madre@example.com", Roles: []domain.Role{domain.RoleParent}}
	visible, err := students.ListForViewer(ctx, parent, domain.RoleParent)
	if err != nil {
		t.Fatalf("parent ListForViewer: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != student.ID {
		t.Fatalf("parent listing = %v, want the assigned student", visible)
	}

	// The parent selects the student; the live view gets a snapshot built
	// from the same record query the feed uses.
	stream := mocks.NewMockRecordStream()
	sink := mocks.NewMockSnapshotSink()
	manager := NewSubscriptionManager(stream, sink)
	defer manager.Close()

	if err := manager.Select(ctx, student.ID); err != nil {
		t.Fatalf("Select: %v", err)
	}

	feed, err := records.ListForStudent(ctx, student.ID)
	if err != nil {
		t.Fatalf("ListForStudent: %v", err)
	}
	stream.Subscriptions[0].Push(ports.RecordSnapshot{StudentID: student.ID, Records: feed})
	waitForRender(t, sink)

	rendered := sink.Rendered()
	if len(rendered) != 1 {
		t.Fatalf("rendered %d snapshots, want 1", len(rendered))
	}
	snap := rendered[0]
	if snap.StudentID != student.ID {
		t.Errorf("snapshot for %q, want %q", snap.StudentID, student.ID)
	}
	if len(snap.Records) != 1 {
		t.Fatalf("snapshot has %d records, want 1", len(snap.Records))
	}
	record := snap.Records[0]
	if record.Text != "primera visita" || record.Type != domain.RecordNota {
		t.Errorf("record = %+v", record)
	}
	if record.AuthorUID != "doc-1" || record.AuthorRole != domain.RoleDoctor {
		t.Errorf("author = %q/%q, want the doctor's identity stamped", record.AuthorUID, record.AuthorRole)
	}
}
