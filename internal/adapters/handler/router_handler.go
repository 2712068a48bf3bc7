package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pensamiento-creativo/student-records-service/internal/adapters/middleware"
	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/ports"
)

// RouterHandler is the dashboard router: it answers "which view next" for
// the authenticated caller and records explicit role choices.
type RouterHandler struct {
	routerService ports.RouterService
}

func NewRouterHandler(router ports.RouterService) *RouterHandler {
	return &RouterHandler{routerService: router}
}

type RouteResponse struct {
	Route domain.RouteDecision `json:"route"`
	View  string               `json:"view"`
}

func (h *RouterHandler) Route(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	decision, err := h.routerService.Route(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, RouteResponse{Route: decision, View: decision.ViewFor()})
}

type ChooseRoleRequest struct {
	Role string `json:"role"`
}

func (h *RouterHandler) ChooseRole(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req ChooseRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	decision, err := h.routerService.ChooseRole(r.Context(), identity.UserID, domain.Role(req.Role))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, RouteResponse{Route: decision, View: decision.ViewFor()})
}
