package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/models"
	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/services"
)

type KanbanHandler struct {
	workflow  *services.WorkflowService
	lifecycle *services.LifecycleService
}

func NewKanbanHandler(workflow *services.WorkflowService, lifecycle *services.LifecycleService) *KanbanHandler {
	return &KanbanHandler{workflow: workflow, lifecycle: lifecycle}
}

// GetBoard returns the project's items bucketed by column.
func (h *KanbanHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, "manager", "member"); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	projectID := mux.Vars(r)["projectId"]

	board, err := h.workflow.KanbanBoard(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

type moveItemRequest struct {
	Column models.BoardColumn `json:"column"`
	// Status is accepted for compatibility with older clients but ignored:
	// the state machine derives status from the target column.
	Status models.ItemStatus `json:"status"`
}

// MoveItem places an item in a column and lets the state machine derive the
// resulting status and timestamps.
func (h *KanbanHandler) MoveItem(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, "manager", "member"); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	itemID := mux.Vars(r)["id"]

	var req moveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &models.ValidationError{Message: "invalid request payload"})
		return
	}

	item, err := h.lifecycle.Move(r.Context(), itemID, req.Column)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
