package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/baancha/pos/internal/cartstore"
	"github.com/baancha/pos/pkg/cart"
	"github.com/go-chi/chi/v5"
)

// CartHandler parks and resumes in-progress carts so a cashier can take the
// next customer and pick the suspended order back up on any terminal.
type CartHandler struct {
	store cartstore.Store
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(store cartstore.Store) *CartHandler {
	return &CartHandler{store: store}
}

// RegisterRoutes registers held-cart endpoints on the given Chi router.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Post("/hold", h.Hold)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
}

type holdCartRequest struct {
	Label string      `json:"label"`
	Items []cart.Item `json:"items"`
}

type holdCartResponse struct {
	ID string `json:"id"`
}

// Hold parks the submitted cart and returns its resume id.
func (h *CartHandler) Hold(w http.ResponseWriter, r *http.Request) {
	var req holdCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "items are required"})
		return
	}

	id, err := h.store.Hold(r.Context(), req.Items, req.Label)
	if err != nil {
		log.Printf("ERROR: hold cart: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, holdCartResponse{ID: id})
}

// Get returns a held cart so the terminal can restore it.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	held, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, cartstore.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "held cart not found"})
			return
		}
		log.Printf("ERROR: get held cart: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, held)
}

// Delete discards a held cart, typically after it has been resumed.
func (h *CartHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, cartstore.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "held cart not found"})
			return
		}
		log.Printf("ERROR: delete held cart: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
