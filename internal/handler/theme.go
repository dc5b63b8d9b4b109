package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/baancha/pos/internal/database"
	"github.com/baancha/pos/internal/enum"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

// ThemeStore defines the database methods needed by theme handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ThemeStore interface {
	GetTheme(ctx context.Context) (database.Theme, error)
	UpdateTheme(ctx context.Context, arg database.UpdateThemeParams) (database.Theme, error)
}

// ThemeHandler handles the store-wide theme endpoints.
type ThemeHandler struct {
	store ThemeStore
	hub   Broadcaster
}

// NewThemeHandler creates a new ThemeHandler.
func NewThemeHandler(store ThemeStore, hub Broadcaster) *ThemeHandler {
	return &ThemeHandler{store: store, hub: hub}
}

// RegisterRoutes registers the read endpoint every terminal uses.
func (h *ThemeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
}

// RegisterAdminRoutes registers the theme management endpoint.
func (h *ThemeHandler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/", h.Put)
}

type themeRequest struct {
	Variant    string `json:"variant"`
	Primary    string `json:"primary"`
	Appearance string `json:"appearance"`
	Radius     string `json:"radius"`
}

type themeResponse struct {
	Variant    string    `json:"variant"`
	Primary    string    `json:"primary"`
	Appearance string    `json:"appearance"`
	Radius     string    `json:"radius"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toThemeResponse(t database.Theme) themeResponse {
	return themeResponse{
		Variant:    t.Variant,
		Primary:    t.PrimaryColor,
		Appearance: t.Appearance,
		Radius:     t.Radius,
		UpdatedAt:  t.UpdatedAt,
	}
}

// Get returns the current store-wide theme.
func (h *ThemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	theme, err := h.store.GetTheme(r.Context())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "theme not configured"})
			return
		}
		log.Printf("ERROR: get theme: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toThemeResponse(theme))
}

// Put replaces the store-wide theme and broadcasts theme.updated so every
// connected terminal restyles immediately.
func (h *ThemeHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Variant == "" || req.Primary == "" || req.Radius == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "variant, primary, and radius are required"})
		return
	}
	if req.Appearance != enum.ThemeAppearanceLight && req.Appearance != enum.ThemeAppearanceDark {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "appearance must be light or dark"})
		return
	}

	theme, err := h.store.UpdateTheme(r.Context(), database.UpdateThemeParams{
		Variant:      req.Variant,
		PrimaryColor: req.Primary,
		Appearance:   req.Appearance,
		Radius:       req.Radius,
	})
	if err != nil {
		log.Printf("ERROR: update theme: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toThemeResponse(theme)
	h.hub.Broadcast(enum.EventThemeUpdated, resp)
	writeJSON(w, http.StatusOK, resp)
}
