package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/baancha/pos/internal/database"
	"github.com/baancha/pos/internal/handler"
	"github.com/go-chi/chi/v5"
)

// --- Mock store ---

type mockThemeStore struct {
	theme database.Theme
}

func (m *mockThemeStore) GetTheme(_ context.Context) (database.Theme, error) {
	return m.theme, nil
}

func (m *mockThemeStore) UpdateTheme(_ context.Context, arg database.UpdateThemeParams) (database.Theme, error) {
	m.theme = database.Theme{
		Variant:      arg.Variant,
		PrimaryColor: arg.PrimaryColor,
		Appearance:   arg.Appearance,
		Radius:       arg.Radius,
		UpdatedAt:    time.Now(),
	}
	return m.theme, nil
}

func defaultTheme() database.Theme {
	return database.Theme{
		Variant:      "classic",
		PrimaryColor: "hsl(30, 35%, 33%)",
		Appearance:   "light",
		Radius:       "0.5rem",
		UpdatedAt:    time.Now(),
	}
}

func setupThemeRouter(store *mockThemeStore, hub *mockHub) *chi.Mux {
	h := handler.NewThemeHandler(store, hub)
	r := chi.NewRouter()
	r.Route("/api/theme", func(r chi.Router) {
		h.RegisterRoutes(r)
		h.RegisterAdminRoutes(r)
	})
	return r
}

// --- Tests ---

func TestThemeGet(t *testing.T) {
	store := &mockThemeStore{theme: defaultTheme()}
	router := setupThemeRouter(store, &mockHub{})

	rr := doRequest(t, router, "GET", "/api/theme", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeResponse(t, rr)
	if resp["variant"] != "classic" {
		t.Errorf("variant: got %v, want classic", resp["variant"])
	}
	if resp["primary"] != "hsl(30, 35%, 33%)" {
		t.Errorf("primary: got %v", resp["primary"])
	}
}

func TestThemePut_BroadcastsUpdate(t *testing.T) {
	store := &mockThemeStore{theme: defaultTheme()}
	hub := &mockHub{}
	router := setupThemeRouter(store, hub)

	rr := doRequest(t, router, "PUT", "/api/theme", map[string]interface{}{
		"variant":    "vibrant",
		"primary":    "hsl(142, 71%, 45%)",
		"appearance": "dark",
		"radius":     "0.75rem",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	if store.theme.PrimaryColor != "hsl(142, 71%, 45%)" {
		t.Errorf("stored primary: got %s", store.theme.PrimaryColor)
	}

	if len(hub.events) != 1 {
		t.Fatalf("broadcasts: got %d, want 1", len(hub.events))
	}
	if hub.events[0].eventType != "theme.updated" {
		t.Errorf("event type: got %s, want theme.updated", hub.events[0].eventType)
	}
}

func TestThemePut_InvalidAppearance(t *testing.T) {
	store := &mockThemeStore{theme: defaultTheme()}
	hub := &mockHub{}
	router := setupThemeRouter(store, hub)

	rr := doRequest(t, router, "PUT", "/api/theme", map[string]interface{}{
		"variant":    "classic",
		"primary":    "hsl(30, 35%, 33%)",
		"appearance": "sepia",
		"radius":     "0.5rem",
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if len(hub.events) != 0 {
		t.Errorf("rejected update must not broadcast, got %d events", len(hub.events))
	}
}

func TestThemePut_MissingFields(t *testing.T) {
	router := setupThemeRouter(&mockThemeStore{theme: defaultTheme()}, &mockHub{})

	rr := doRequest(t, router, "PUT", "/api/theme", map[string]interface{}{
		"variant":    "classic",
		"appearance": "light",
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
