package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/models"
	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/services"
)

type ItemHandler struct {
	lifecycle *services.LifecycleService
}

func NewItemHandler(lifecycle *services.LifecycleService) *ItemHandler {
	return &ItemHandler{lifecycle: lifecycle}
}

func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, "manager"); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	var input services.CreateItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, &models.ValidationError{Message: "invalid request payload"})
		return
	}

	item, err := h.lifecycle.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// UpdateItem applies direct field edits; status and column stay untouched.
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, "manager", "member"); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	var input services.UpdateItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, &models.ValidationError{Message: "invalid request payload"})
		return
	}

	item, err := h.lifecycle.UpdateFields(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) StartItem(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, "manager", "member"); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	item, err := h.lifecycle.Start(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) CompleteItem(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, "manager", "member"); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	item, err := h.lifecycle.Complete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type timeTrackingRequest struct {
	ActualHours float64 `json:"actualHours"`
}

func (h *ItemHandler) UpdateTimeTracking(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, "manager", "member"); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	var req timeTrackingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &models.ValidationError{Message: "invalid request payload"})
		return
	}

	item, err := h.lifecycle.UpdateTimeTracking(r.Context(), mux.Vars(r)["id"], req.ActualHours)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, "manager"); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	if err := h.lifecycle.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
