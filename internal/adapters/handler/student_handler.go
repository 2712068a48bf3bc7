package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pensamiento-creativo/student-records-service/internal/adapters/middleware"
	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

type StudentHandler struct {
	studentService ports.StudentService
}

func NewStudentHandler(students ports.StudentService) *StudentHandler {
	return &StudentHandler{studentService: students}
}

type CreateStudentRequest struct {
	FullName string `json:"full_name"`
}

func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	student, err := h.studentService.CreateStudent(r.Context(), identity.UserID, req.FullName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, student)
}

// ListStudents scopes the listing to the caller's role; multi-role users
// pick the dashboard with the "as" query parameter.
func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	as := domain.Role(r.URL.Query().Get("as"))
	if as == "" && len(identity.Roles) > 0 {
		as = identity.Roles[0]
	}

	students, err := h.studentService.ListForViewer(r.Context(), identity, as)
	if err != nil {
		writeError(w, err)
		return
	}
	if students == nil {
		students = []domain.Student{}
	}

	writeJSON(w, http.StatusOK, students)
}

type AssignRequest struct {
	StudentID string `json:"student_id"`
	Email     string `json:"email"`
	Kind      string `json:"kind"`
}

func (h *StudentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := h.studentService.Assign(r.Context(), req.StudentID, req.Email, domain.AssignmentKind(req.Kind))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Assignment completed"})
}

type InviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *StudentHandler) Invite(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.studentService.Invite(r.Context(), identity.UserID, req.Email, domain.Role(req.Role)); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Invite created"})
}
