package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/models"
	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/services"
)

type WorkflowHandler struct {
	service *services.WorkflowService
}

func NewWorkflowHandler(service *services.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{service: service}
}

// GetProjectWorkflow returns the composed workflow view: items, dependency
// graph, critical path and metrics.
func (h *WorkflowHandler) GetProjectWorkflow(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, "manager", "member"); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	projectID := mux.Vars(r)["projectId"]
	if projectID == "" {
		writeError(w, &models.ValidationError{Field: "projectId", Message: "is required"})
		return
	}

	workflow, err := h.service.ProjectWorkflow(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workflow)
}

type updateDependenciesRequest struct {
	Dependencies []string `json:"dependencies"`
}

type updateDependenciesResponse struct {
	Item            *models.WorkItem        `json:"item"`
	DependencyGraph *models.DependencyGraph `json:"dependencyGraph"`
}

// UpdateDependencies replaces an item's dependency set; a cycle or unknown
// id rejects the edit and leaves the graph unchanged.
func (h *WorkflowHandler) UpdateDependencies(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, "manager"); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	itemID := mux.Vars(r)["itemId"]

	var req updateDependenciesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &models.ValidationError{Message: "invalid request payload"})
		return
	}

	item, graph, err := h.service.UpdateDependencies(r.Context(), itemID, req.Dependencies)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updateDependenciesResponse{Item: item, DependencyGraph: graph})
}
