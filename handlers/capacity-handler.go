package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/models"
	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/repositories"
	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/services"
)

type CapacityHandler struct {
	engine  *services.CapacityEngine
	items   repositories.WorkItemRepository
	members repositories.MemberRepository
}

func NewCapacityHandler(engine *services.CapacityEngine, items repositories.WorkItemRepository, members repositories.MemberRepository) *CapacityHandler {
	return &CapacityHandler{engine: engine, items: items, members: members}
}

func (h *CapacityHandler) snapshot(r *http.Request) ([]models.TeamMember, []models.WorkItem, error) {
	members, err := h.members.ActiveMembers(r.Context())
	if err != nil {
		return nil, nil, err
	}
	items, err := h.items.ActiveItems(r.Context())
	if err != nil {
		return nil, nil, err
	}
	return members, items, nil
}

// GetTeamCapacity returns per-member workload snapshots with the team
// rollup.
func (h *CapacityHandler) GetTeamCapacity(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, "manager"); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	members, items, err := h.snapshot(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.engine.TeamOverview(members, items))
}

type alertsResponse struct {
	Alerts      []models.CapacityAlert `json:"alerts"`
	TotalAlerts int                    `json:"totalAlerts"`
}

// GetCapacityAlerts recomputes the current alert list; nothing is stored.
func (h *CapacityHandler) GetCapacityAlerts(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, "manager"); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	members, items, err := h.snapshot(r)
	if err != nil {
		writeError(w, err)
		return
	}
	alerts := h.engine.Alerts(members, items)
	writeJSON(w, http.StatusOK, alertsResponse{Alerts: alerts, TotalAlerts: len(alerts)})
}

// GetMemberCapacity returns one member's workload analysis.
func (h *CapacityHandler) GetMemberCapacity(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, "manager", "member"); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	member, err := h.members.MemberByID(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.items.ActiveItems(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.engine.MemberCapacity(*member, items))
}

// GetSkillGaps diffs a member's skills against the required-skills table
// for the requested work-item type (default work_unit).
func (h *CapacityHandler) GetSkillGaps(w http.ResponseWriter, r *http.Request) {
	if err := checkRole(r, "manager", "member"); err != nil {
		http.Error(w, "Access forbidden: insufficient permissions", http.StatusForbidden)
		return
	}
	member, err := h.members.MemberByID(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err)
		return
	}

	workType := models.ItemKind(r.URL.Query().Get("workType"))
	if workType == "" {
		workType = models.KindWorkUnit
	}
	if workType != models.KindTask && workType != models.KindWorkUnit {
		writeError(w, &models.ValidationError{Field: "workType", Message: "must be task or work_unit"})
		return
	}
	writeJSON(w, http.StatusOK, h.engine.SkillGap(*member, workType))
}
