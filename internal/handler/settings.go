package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/baancha/pos/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

// SettingStore defines the database methods needed by settings handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type SettingStore interface {
	GetSetting(ctx context.Context, key string) (database.Setting, error)
	UpsertSetting(ctx context.Context, arg database.UpsertSettingParams) (database.Setting, error)
}

// SettingHandler handles store settings endpoints (store_name and friends).
type SettingHandler struct {
	store SettingStore
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(store SettingStore) *SettingHandler {
	return &SettingHandler{store: store}
}

// RegisterRoutes registers the read endpoint every terminal uses.
func (h *SettingHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{key}", h.Get)
}

// RegisterAdminRoutes registers settings management endpoints.
func (h *SettingHandler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/{key}", h.Put)
}

type settingRequest struct {
	Value string `json:"value"`
}

type settingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Get returns a single setting by key.
func (h *SettingHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	setting, err := h.store.GetSetting(r.Context(), key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "setting not found"})
			return
		}
		log.Printf("ERROR: get setting: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, settingResponse{Key: setting.Key, Value: setting.Value, UpdatedAt: setting.UpdatedAt})
}

// Put creates or replaces a setting.
func (h *SettingHandler) Put(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req settingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Value == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "value is required"})
		return
	}

	setting, err := h.store.UpsertSetting(r.Context(), database.UpsertSettingParams{Key: key, Value: req.Value})
	if err != nil {
		log.Printf("ERROR: upsert setting: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, settingResponse{Key: setting.Key, Value: setting.Value, UpdatedAt: setting.UpdatedAt})
}
