package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/services"
	"github.com/pensamiento-creativo/student-records-service/test/mocks"
)

func newRouterHandler() (*RouterHandler, *mocks.MockProfileRepository, *mocks.MockActiveRoleStore) {
	profiles := mocks.NewMockProfileRepository()
	activeRoles := mocks.NewMockActiveRoleStore()
	svc := services.NewRouterService(profiles, services.NewRoleResolver(activeRoles), activeRoles)
	return NewRouterHandler(svc), profiles, activeRoles
}

func TestRouteHandler(t *testing.T) {
	h, profiles, _ := newRouterHandler()
	profiles.SeedProfile(&domain.UserProfile{ID: "u1", Roles: []domain.Role{domain.RoleDoctor, domain.RoleParent}})

	req := authedRequest(http.MethodGet, "/route", "", domain.Identity{UserID: "u1"})
	rec := httptest.NewRecorder()
	h.Route(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp RouteResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Route.Kind != domain.RouteChooseRole {
		t.Errorf("Kind = %q, want %q", resp.Route.Kind, domain.RouteChooseRole)
	}
	if resp.View != domain.ViewChooseRole {
		t.Errorf("View = %q, want %q", resp.View, domain.ViewChooseRole)
	}
}

func TestRouteHandlerMissingProfile(t *testing.T) {
	h, _, _ := newRouterHandler()

	req := authedRequest(http.MethodGet, "/route", "", domain.Identity{UserID: "u-missing"})
	rec := httptest.NewRecorder()
	h.Route(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp RouteResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.View != domain.ViewLogin {
		t.Errorf("View = %q, want %q for a profile-less account", resp.View, domain.ViewLogin)
	}
}

func TestChooseRoleHandler(t *testing.T) {
	h, profiles, activeRoles := newRouterHandler()
	profiles.SeedProfile(&domain.UserProfile{ID: "u1", Roles: []domain.Role{domain.RoleDoctor, domain.RoleParent}})

	req := authedRequest(http.MethodPost, "/choose-role", `{"role":"parent"}`, domain.Identity{UserID: "u1"})
	rec := httptest.NewRecorder()
	h.ChooseRole(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp RouteResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.View != domain.ViewDashboardParent {
		t.Errorf("View = %q, want %q", resp.View, domain.ViewDashboardParent)
	}
	if len(activeRoles.SetCalls) != 1 {
		t.Errorf("SetActiveRole called %d times, want 1", len(activeRoles.SetCalls))
	}
}

func TestChooseRoleHandlerNotHeld(t *testing.T) {
	h, profiles, _ := newRouterHandler()
	profiles.SeedProfile(&domain.UserProfile{ID: "u1", Roles: []domain.Role{domain.RoleParent}})

	req := authedRequest(http.MethodPost, "/choose-role", `{"role":"doctor"}`, domain.Identity{UserID: "u1"})
	rec := httptest.NewRecorder()
	h.ChooseRole(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
