package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/baancha/pos/internal/database"
	"github.com/baancha/pos/internal/enum"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// OptionStore defines the database methods needed by customization option
// handlers. Satisfied by *database.Queries; narrow interface for testability.
type OptionStore interface {
	ListOptions(ctx context.Context) ([]database.CustomizationOption, error)
	CreateOption(ctx context.Context, arg database.CreateOptionParams) (database.CustomizationOption, error)
	UpdateOption(ctx context.Context, arg database.UpdateOptionParams) (database.CustomizationOption, error)
	SoftDeleteOption(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// OptionHandler handles customization option endpoints.
type OptionHandler struct {
	store OptionStore
}

// NewOptionHandler creates a new OptionHandler.
func NewOptionHandler(store OptionStore) *OptionHandler {
	return &OptionHandler{store: store}
}

// RegisterRoutes registers the read endpoint every terminal uses.
func (h *OptionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// RegisterAdminRoutes registers option management endpoints.
func (h *OptionHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

var validOptionTypes = map[string]bool{
	enum.OptionTypeTemperature: true,
	enum.OptionTypeSugarLevel:  true,
	enum.OptionTypeMilkType:    true,
	enum.OptionTypeTopping:     true,
	enum.OptionTypeExtra:       true,
}

// --- Request / Response types ---

type optionRequest struct {
	Name       string `json:"name"`
	OptionType string `json:"option_type"`
	PriceDelta string `json:"price_delta"`
	SortOrder  int32  `json:"sort_order"`
}

type optionResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	OptionType string    `json:"option_type"`
	PriceDelta string    `json:"price_delta"`
	SortOrder  int32     `json:"sort_order"`
}

func toOptionResponse(o database.CustomizationOption) optionResponse {
	return optionResponse{
		ID:         o.ID,
		Name:       o.Name,
		OptionType: o.OptionType,
		PriceDelta: numericToString(o.PriceDelta),
		SortOrder:  o.SortOrder,
	}
}

// --- Handlers ---

// List returns all active options grouped by option_type, so the
// customization dialog can render one control per group.
func (h *OptionHandler) List(w http.ResponseWriter, r *http.Request) {
	options, err := h.store.ListOptions(r.Context())
	if err != nil {
		log.Printf("ERROR: list options: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	grouped := make(map[string][]optionResponse)
	for _, o := range options {
		grouped[o.OptionType] = append(grouped[o.OptionType], toOptionResponse(o))
	}

	writeJSON(w, http.StatusOK, grouped)
}

// Create adds a new customization option.
func (h *OptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req optionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	params, errMsg := optionParams(req)
	if errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}

	option, err := h.store.CreateOption(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: create option: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toOptionResponse(option))
}

// Update modifies an existing customization option.
func (h *OptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid option ID"})
		return
	}

	var req optionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	params, errMsg := optionParams(req)
	if errMsg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
		return
	}

	option, err := h.store.UpdateOption(r.Context(), database.UpdateOptionParams{
		Name:       params.Name,
		OptionType: params.OptionType,
		PriceDelta: params.PriceDelta,
		SortOrder:  params.SortOrder,
		ID:         id,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "option not found"})
			return
		}
		log.Printf("ERROR: update option: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toOptionResponse(option))
}

// Delete soft-deletes a customization option. Existing order lines keep
// their snapshot, so removing an option never rewrites history.
func (h *OptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid option ID"})
		return
	}

	if _, err := h.store.SoftDeleteOption(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "option not found"})
			return
		}
		log.Printf("ERROR: delete option: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func optionParams(req optionRequest) (database.CreateOptionParams, string) {
	if req.Name == "" {
		return database.CreateOptionParams{}, "name is required"
	}
	if !validOptionTypes[req.OptionType] {
		return database.CreateOptionParams{}, "invalid option_type"
	}

	delta := decimal.Zero
	if req.PriceDelta != "" {
		var err error
		delta, err = decimal.NewFromString(req.PriceDelta)
		if err != nil {
			return database.CreateOptionParams{}, "price_delta must be a decimal"
		}
	}

	return database.CreateOptionParams{
		Name:       req.Name,
		OptionType: req.OptionType,
		PriceDelta: stringToNumeric(delta.StringFixed(2)),
		SortOrder:  req.SortOrder,
	}, ""
}
