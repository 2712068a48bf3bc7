package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

type RegistrationHandler struct {
	registrationService ports.RegistrationService
}

func NewRegistrationHandler(registration ports.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registration}
}

type RegistrationRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Mode     string `json:"mode"`
}

type RegistrationResponse struct {
	Message string        `json:"message"`
	UserID  string        `json:"user_id"`
	Roles   []domain.Role `json:"roles"`
	View    string        `json:"view"`
}

func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	mode := ports.RegistrationMode(req.Mode)
	switch mode {
	case ports.RegisterDirect, ports.RegisterInvited:
	case "":
		mode = ports.RegisterDirect
	default:
		http.Error(w, "Unsupported registration mode", http.StatusBadRequest)
		return
	}

	profile, err := h.registrationService.Register(r.Context(), req.Email, req.Password, mode)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, RegistrationResponse{
		Message: "Account created successfully",
		UserID:  profile.ID,
		Roles:   profile.NormalizedRoles(),
		View:    domain.ViewDashboard,
	})
}
