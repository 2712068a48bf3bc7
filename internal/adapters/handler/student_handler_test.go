package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pensamiento-creativo/student-records-service/internal/adapters/middleware"
	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/services"
	"github.com/pensamiento-creativo/student-records-service/test/mocks"
)

func newStudentHandler() (*StudentHandler, *mocks.MockStudentRepository, *mocks.MockProfileRepository, *mocks.MockInviteRepository) {
	students := mocks.NewMockStudentRepository()
	profiles := mocks.NewMockProfileRepository()
	invites := mocks.NewMockInviteRepository()
	svc := services.NewStudentService(students, profiles, invites)
	return NewStudentHandler(svc), students, profiles, invites
}

func authedRequest(method, path, body string, identity domain.Identity) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	return req.WithContext(middleware.WithIdentity(req.Context(), identity))
}

func TestCreateStudentHandler(t *testing.T) {
	h, _, _, _ := newStudentHandler()
	doctor := domain.Identity{UserID: "doc-1", Roles: []domain.Role{domain.RoleDoctor}}

	req := authedRequest(http.MethodPost, "/students", `{"full_name":"Ana García"}`, doctor)
	rec := httptest.NewRecorder()
	h.CreateStudent(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var student domain.Student
	if err := json.NewDecoder(rec.Body).Decode(&student); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if student.FullName != "Ana García" || student.CreatedByDoctorUID != "doc-1" {
		t.Errorf("student = %+v", student)
	}
}

func TestCreateStudentWithoutIdentity(t *testing.T) {
	h, _, _, _ := newStudentHandler()

	req := httptest.NewRequest(http.MethodPost, "/students", strings.NewReader(`{"full_name":"Ana"}`))
	rec := httptest.NewRecorder()
	h.CreateStudent(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestCreateStudentEmptyName(t *testing.T) {
	h, _, _, _ := newStudentHandler()
	doctor := domain.Identity{UserID: "doc-1", Roles: []domain.Role{domain.RoleDoctor}}

	req := authedRequest(http.MethodPost, "/students", `{"full_name":"  "}`, doctor)
	rec := httptest.NewRecorder()
	h.CreateStudent(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListStudentsScopedByQuery(t *testing.T) {
	h, studentRepo, _, _ := newStudentHandler()
	studentRepo.SeedStudent(&domain.Student{ID: "s1", FullName: "Ana", CreatedByDoctorUID: "u1", Teachers: []string{"u1"}})
	studentRepo.SeedStudent(&domain.Student{ID: "s2", FullName: "Luis", Teachers: []string{"u1"}})

	viewer := domain.Identity{UserID: "u1", Roles: []domain.Role{domain.RoleDoctor, domain.RoleTeacher}}

	req := authedRequest(http.MethodGet, "/students?as=teacher", "", viewer)
	rec := httptest.NewRecorder()
	h.ListStudents(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var students []domain.Student
	if err := json.NewDecoder(rec.Body).Decode(&students); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(students) != 2 {
		t.Errorf("got %d students as teacher, want 2", len(students))
	}
}

func TestListStudentsDefaultsToFirstRole(t *testing.T) {
	h, studentRepo, _, _ := newStudentHandler()
	studentRepo.SeedStudent(&domain.Student{ID: "s1", FullName: "Ana", CreatedByDoctorUID: "u1"})

	viewer := domain.Identity{UserID: "u1", Roles: []domain.Role{domain.RoleDoctor}}

	req := authedRequest(http.MethodGet, "/students", "", viewer)
	rec := httptest.NewRecorder()
	h.ListStudents(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var students []domain.Student
	if err := json.NewDecoder(rec.Body).Decode(&students); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(students) != 1 {
		t.Errorf("got %d students, want 1", len(students))
	}
}

func TestListStudentsEmptyIsArray(t *testing.T) {
	h, _, _, _ := newStudentHandler()
	viewer := domain.Identity{UserID: "u9", Roles: []domain.Role{domain.RoleParent}}

	req := authedRequest(http.MethodGet, "/students", "", viewer)
	rec := httptest.NewRecorder()
	h.ListStudents(rec, req)

	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %q, want an empty JSON array, not null", body)
	}
}

func TestAssignHandler(t *testing.T) {
	h, studentRepo, profileRepo, _ := newStudentHandler()
	studentRepo.SeedStudent(&domain.Student{ID: "s1", FullName: "Ana"})
	profileRepo.SeedProfile(&domain.UserProfile{ID: "p-1", Email: "madre@example.com", Roles: []domain.Role{domain.RoleParent}})

	doctor := domain.Identity{UserID: "doc-1", Roles: []domain.Role{domain.RoleDoctor}}
	req := authedRequest(http.MethodPost, "/assignments", `{"student_id":"s1","email":"madre@example.com","kind":"parent"}`, doctor)
	rec := httptest.NewRecorder()
	h.Assign(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	student, _ := studentRepo.FindStudent(req.Context(), "s1")
	if len(student.Parents) != 1 || student.Parents[0] != "p-1" {
		t.Errorf("Parents = %v, want [p-1]", student.Parents)
	}
}

func TestAssignUnknownEmail(t *testing.T) {
	h, studentRepo, _, _ := newStudentHandler()
	studentRepo.SeedStudent(&domain.Student{ID: "s1", FullName: "Ana"})

	doctor := domain.Identity{UserID: "doc-1", Roles: []domain.Role{domain.RoleDoctor}}
	req := authedRequest(http.MethodPost, "/assignments", `{"student_id":"s1","email":"nadie@example.com","kind":"teacher"}`, doctor)
	rec := httptest.NewRecorder()
	h.Assign(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestInviteHandler(t *testing.T) {
	h, _, _, inviteRepo := newStudentHandler()
	doctor := domain.Identity{UserID: "doc-1", Roles: []domain.Role{domain.RoleDoctor}}

	req := authedRequest(http.MethodPost, "/invites", `{"email":"Maestra@Example.com","role":"teacher"}`, doctor)
	rec := httptest.NewRecorder()
	h.Invite(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if len(inviteRepo.UpsertInviteCalls) != 1 {
		t.Fatalf("UpsertInvite called %d times, want 1", len(inviteRepo.UpsertInviteCalls))
	}
	if got := inviteRepo.UpsertInviteCalls[0].Email; got != "maestra@example.com" {
		t.Errorf("Email = %q, want lowercased", got)
	}
}

func TestInviteUnknownRole(t *testing.T) {
	h, _, _, _ := newStudentHandler()
	doctor := domain.Identity{UserID: "doc-1", Roles: []domain.Role{domain.RoleDoctor}}

	req := authedRequest(http.MethodPost, "/invites", `{"email":"a@example.com","role":"admin"}`, doctor)
	rec := httptest.NewRecorder()
	h.Invite(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
