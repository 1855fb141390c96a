package services

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/models"
)

// CapacityConfig tunes the workload classification and alerting thresholds.
type CapacityConfig struct {
	DefaultMaxCapacity int
	HighThreshold      float64
	WarnThreshold      float64
}

func DefaultCapacityConfig() CapacityConfig {
	return CapacityConfig{
		DefaultMaxCapacity: models.DefaultMaxCapacity,
		HighThreshold:      90,
		WarnThreshold:      75,
	}
}

// CapacityEngine aggregates active assignments per person into workload,
// utilization and alerts. Pure over the item/member snapshot it is handed;
// nothing is persisted.
type CapacityEngine struct {
	cfg    CapacityConfig
	skills models.SkillMatrix
}

func NewCapacityEngine(cfg CapacityConfig, skills models.SkillMatrix) *CapacityEngine {
	if cfg.DefaultMaxCapacity <= 0 {
		cfg.DefaultMaxCapacity = models.DefaultMaxCapacity
	}
	if cfg.HighThreshold <= 0 {
		cfg.HighThreshold = 90
	}
	if cfg.WarnThreshold <= 0 {
		cfg.WarnThreshold = 75
	}
	if skills == nil {
		skills = DefaultSkillMatrix()
	}
	return &CapacityEngine{cfg: cfg, skills: skills}
}

// MemberCapacity computes one member's workload snapshot. Work units and
// tasks both count; only pending and in-progress items are active.
func (e *CapacityEngine) MemberCapacity(member models.TeamMember, activeItems []models.WorkItem) models.MemberCapacity {
	workload := 0
	for _, item := range activeItems {
		if item.AssigneeID == member.ID && item.Active() {
			workload++
		}
	}

	maxCapacity := member.MaxConcurrentCapacity
	if maxCapacity <= 0 {
		maxCapacity = e.cfg.DefaultMaxCapacity
	}
	utilization := float64(workload) / float64(maxCapacity) * 100

	status := models.CapacityAvailable
	switch {
	case utilization >= 90:
		status = models.CapacityOverloaded
	case utilization >= 75:
		status = models.CapacityBusy
	case utilization >= 50:
		status = models.CapacityModerate
	}

	action := models.ActionMaintain
	switch {
	case utilization > 90:
		action = models.ActionReduce
	case utilization < 50:
		action = models.ActionIncrease
	}

	available := maxCapacity - workload
	if available < 0 {
		available = 0
	}

	return models.MemberCapacity{
		Member:            member,
		CurrentWorkload:   workload,
		MaxCapacity:       maxCapacity,
		Utilization:       utilization,
		Status:            status,
		AvailableCapacity: available,
		RecommendedAction: action,
	}
}

// TeamOverview rolls every member's snapshot into team-level metrics,
// sorted busiest first (ties by member id for stable output).
func (e *CapacityEngine) TeamOverview(members []models.TeamMember, activeItems []models.WorkItem) models.TeamCapacityOverview {
	overview := models.TeamCapacityOverview{
		TeamCapacity:    []models.MemberCapacity{},
		Recommendations: []models.TeamRecommendation{},
	}

	for _, member := range members {
		mc := e.MemberCapacity(member, activeItems)
		overview.TeamCapacity = append(overview.TeamCapacity, mc)

		overview.TeamMetrics.TotalMembers++
		overview.TeamMetrics.TotalCapacity += mc.MaxCapacity
		overview.TeamMetrics.TotalWorkload += mc.CurrentWorkload
		switch mc.Status {
		case models.CapacityAvailable:
			overview.TeamMetrics.AvailableMembers++
		case models.CapacityModerate:
			overview.TeamMetrics.ModerateMembers++
		case models.CapacityBusy:
			overview.TeamMetrics.BusyMembers++
		case models.CapacityOverloaded:
			overview.TeamMetrics.OverloadedMembers++
		}
	}
	if overview.TeamMetrics.TotalCapacity > 0 {
		overview.TeamMetrics.OverallUtilization = float64(overview.TeamMetrics.TotalWorkload) / float64(overview.TeamMetrics.TotalCapacity) * 100
	}

	sort.Slice(overview.TeamCapacity, func(i, j int) bool {
		a, b := overview.TeamCapacity[i], overview.TeamCapacity[j]
		if a.Utilization != b.Utilization {
			return a.Utilization > b.Utilization
		}
		return a.Member.ID < b.Member.ID
	})

	overview.Recommendations = e.teamRecommendations(overview)
	return overview
}

func (e *CapacityEngine) teamRecommendations(overview models.TeamCapacityOverview) []models.TeamRecommendation {
	recs := []models.TeamRecommendation{}
	metrics := overview.TeamMetrics

	if metrics.OverloadedMembers > 0 {
		recs = append(recs, models.TeamRecommendation{
			Type:     "workload_redistribution",
			Priority: "high",
			Message:  fmt.Sprintf("%d team member(s) are overloaded", metrics.OverloadedMembers),
			Action:   "Consider redistributing work to available team members",
		})
	}
	if metrics.AvailableMembers > 2 {
		recs = append(recs, models.TeamRecommendation{
			Type:     "capacity_optimization",
			Priority: "medium",
			Message:  fmt.Sprintf("%d team member(s) have available capacity", metrics.AvailableMembers),
			Action:   "Consider assigning new work units or tasks to optimize team utilization",
		})
	}
	if metrics.TotalMembers > 0 && metrics.OverallUtilization < 50 {
		recs = append(recs, models.TeamRecommendation{
			Type:     "underutilization",
			Priority: "medium",
			Message:  fmt.Sprintf("Team utilization is %d%%", int(math.Round(metrics.OverallUtilization))),
			Action:   "Consider increasing workload or reallocating resources",
		})
	}
	return recs
}

// Alerts flags every member at or above the warn threshold, high severity
// at or above the high threshold. Sorted high severity first, then by
// utilization, then member id.
func (e *CapacityEngine) Alerts(members []models.TeamMember, activeItems []models.WorkItem) []models.CapacityAlert {
	alerts := []models.CapacityAlert{}
	for _, member := range members {
		mc := e.MemberCapacity(member, activeItems)
		name := strings.TrimSpace(member.FirstName + " " + member.LastName)
		if name == "" {
			name = "User"
		}
		message := fmt.Sprintf("%s is at %d%% capacity", name, int(math.Round(mc.Utilization)))

		switch {
		case mc.Utilization >= e.cfg.HighThreshold:
			alerts = append(alerts, models.CapacityAlert{
				Type:            models.AlertOverload,
				Severity:        models.SeverityHigh,
				Member:          member,
				Message:         message,
				Recommendation:  "Consider redistributing work or delaying new assignments",
				CurrentWorkload: mc.CurrentWorkload,
				MaxCapacity:     mc.MaxCapacity,
			})
		case mc.Utilization >= e.cfg.WarnThreshold:
			alerts = append(alerts, models.CapacityAlert{
				Type:            models.AlertHighUtilization,
				Severity:        models.SeverityMedium,
				Member:          member,
				Message:         message,
				Recommendation:  "Monitor workload and plan assignments carefully",
				CurrentWorkload: mc.CurrentWorkload,
				MaxCapacity:     mc.MaxCapacity,
			})
		}
	}

	severityRank := map[string]int{models.SeverityHigh: 2, models.SeverityMedium: 1}
	sort.Slice(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if severityRank[a.Severity] != severityRank[b.Severity] {
			return severityRank[a.Severity] > severityRank[b.Severity]
		}
		if a.CurrentWorkload != b.CurrentWorkload {
			return a.CurrentWorkload > b.CurrentWorkload
		}
		return a.Member.ID < b.Member.ID
	})
	return alerts
}

// SkillGap diffs a member's recorded skills against the required-skills
// table for their role and the given work-item type. A required skill
// counts as covered when any recorded skill contains it, case-insensitive.
func (e *CapacityEngine) SkillGap(member models.TeamMember, workType models.ItemKind) models.SkillGapReport {
	required := e.skills[models.SkillKey{Role: strings.ToLower(member.Role), WorkType: workType}]

	current := make([]string, 0, len(member.Skills))
	for _, s := range member.Skills {
		current = append(current, strings.ToLower(s))
	}

	missing := []string{}
	for _, req := range required {
		covered := false
		for _, have := range current {
			if strings.Contains(have, req) {
				covered = true
				break
			}
		}
		if !covered {
			missing = append(missing, req)
		}
	}

	recommendations := make([]models.SkillRecommendation, 0, len(missing))
	for _, skill := range missing {
		recommendations = append(recommendations, models.SkillRecommendation{
			Skill:             skill,
			Priority:          "high",
			Reason:            fmt.Sprintf("Required for %s role", member.Role),
			SuggestedTraining: fmt.Sprintf("Consider training in %s", skill),
		})
	}

	match := 0.0
	if len(required) > 0 {
		match = float64(len(required)-len(missing)) / float64(len(required)) * 100
	}

	return models.SkillGapReport{
		Member:               member,
		WorkType:             workType,
		CurrentSkills:        current,
		RequiredSkills:       append([]string{}, required...),
		MissingSkills:        missing,
		Recommendations:      recommendations,
		SkillMatchPercentage: match,
	}
}

// DefaultSkillMatrix is the built-in engineering required-skills table.
// Work units cover the full discipline; tasks need the hands-on subset.
func DefaultSkillMatrix() models.SkillMatrix {
	roleSkills := map[string]struct {
		workUnit []string
		task     []string
	}{
		"mechanical_designer": {
			workUnit: []string{"cad", "solidworks", "mechanical design", "3d modeling"},
			task:     []string{"cad", "solidworks"},
		},
		"electrical_designer": {
			workUnit: []string{"electrical design", "circuit design", "pcb design"},
			task:     []string{"electrical design", "circuit design"},
		},
		"simulation_engineer": {
			workUnit: []string{"ansys", "simulation", "finite element analysis", "cfd"},
			task:     []string{"simulation", "finite element analysis"},
		},
		"manufacturing_engineer": {
			workUnit: []string{"manufacturing", "cnc", "production planning", "quality control"},
			task:     []string{"manufacturing", "cnc"},
		},
		"quality_engineer": {
			workUnit: []string{"quality assurance", "testing", "inspection", "iso standards"},
			task:     []string{"quality assurance", "testing"},
		},
	}

	matrix := models.SkillMatrix{}
	for role, skills := range roleSkills {
		matrix[models.SkillKey{Role: role, WorkType: models.KindWorkUnit}] = skills.workUnit
		matrix[models.SkillKey{Role: role, WorkType: models.KindTask}] = skills.task
	}
	return matrix
}

type skillMatrixEntry struct {
	Role     string          `json:"role"`
	WorkType models.ItemKind `json:"workType"`
	Skills   []string        `json:"skills"`
}

// LoadSkillMatrix reads a declarative required-skills table from a JSON
// file so the matrix can be extended without a rebuild.
func LoadSkillMatrix(path string) (models.SkillMatrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read skill matrix: %w", err)
	}
	var entries []skillMatrixEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse skill matrix: %w", err)
	}

	matrix := models.SkillMatrix{}
	for _, entry := range entries {
		if entry.Role == "" || len(entry.Skills) == 0 {
			continue
		}
		skills := make([]string, 0, len(entry.Skills))
		for _, s := range entry.Skills {
			skills = append(skills, strings.ToLower(s))
		}
		matrix[models.SkillKey{Role: strings.ToLower(entry.Role), WorkType: entry.WorkType}] = skills
	}
	return matrix, nil
}
