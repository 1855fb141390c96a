package services

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/models"
)

func activeFor(assignee string, n int) []models.WorkItem {
	items := make([]models.WorkItem, 0, n)
	for i := 0; i < n; i++ {
		status := models.StatusPending
		if i%2 == 0 {
			status = models.StatusInProgress
		}
		items = append(items, models.WorkItem{
			ID: assignee + "-item-" + string(rune('a'+i)), AssigneeID: assignee, Status: status,
		})
	}
	return items
}

func TestMemberCapacityFullyLoaded(t *testing.T) {
	engine := NewCapacityEngine(DefaultCapacityConfig(), nil)
	member := models.TeamMember{ID: "u1", MaxConcurrentCapacity: 5}

	mc := engine.MemberCapacity(member, activeFor("u1", 5))
	if mc.CurrentWorkload != 5 || mc.MaxCapacity != 5 {
		t.Errorf("workload/max = %d/%d, want 5/5", mc.CurrentWorkload, mc.MaxCapacity)
	}
	if mc.Utilization != 100 {
		t.Errorf("Utilization = %v, want 100", mc.Utilization)
	}
	if mc.Status != models.CapacityOverloaded {
		t.Errorf("Status = %s, want overloaded", mc.Status)
	}
	if mc.AvailableCapacity != 0 {
		t.Errorf("AvailableCapacity = %d, want 0", mc.AvailableCapacity)
	}
	if mc.RecommendedAction != models.ActionReduce {
		t.Errorf("RecommendedAction = %s, want reduce", mc.RecommendedAction)
	}
}

func TestMemberCapacityIdle(t *testing.T) {
	engine := NewCapacityEngine(DefaultCapacityConfig(), nil)
	member := models.TeamMember{ID: "u1"}

	// Completed and review items never count toward workload.
	items := []models.WorkItem{
		{ID: "x1", AssigneeID: "u1", Status: models.StatusCompleted},
		{ID: "x2", AssigneeID: "u1", Status: models.StatusReview},
		{ID: "x3", AssigneeID: "other", Status: models.StatusPending},
	}
	mc := engine.MemberCapacity(member, items)
	if mc.CurrentWorkload != 0 {
		t.Errorf("CurrentWorkload = %d, want 0", mc.CurrentWorkload)
	}
	if mc.MaxCapacity != models.DefaultMaxCapacity {
		t.Errorf("MaxCapacity = %d, want default %d", mc.MaxCapacity, models.DefaultMaxCapacity)
	}
	if mc.Status != models.CapacityAvailable || mc.RecommendedAction != models.ActionIncrease {
		t.Errorf("status/action = %s/%s, want available/increase", mc.Status, mc.RecommendedAction)
	}
}

func TestMemberCapacityStatusLadder(t *testing.T) {
	engine := NewCapacityEngine(DefaultCapacityConfig(), nil)

	cases := []struct {
		workload int
		max      int
		status   string
	}{
		{0, 10, models.CapacityAvailable},
		{4, 10, models.CapacityAvailable},
		{5, 10, models.CapacityModerate},
		{7, 10, models.CapacityModerate},
		{8, 10, models.CapacityBusy},
		{9, 10, models.CapacityOverloaded},
		{10, 10, models.CapacityOverloaded},
	}
	for _, c := range cases {
		member := models.TeamMember{ID: "u1", MaxConcurrentCapacity: c.max}
		mc := engine.MemberCapacity(member, activeFor("u1", c.workload))
		if mc.Status != c.status {
			t.Errorf("workload %d/%d: status = %s, want %s", c.workload, c.max, mc.Status, c.status)
		}
	}
}

func TestTeamOverviewRollup(t *testing.T) {
	engine := NewCapacityEngine(DefaultCapacityConfig(), nil)
	members := []models.TeamMember{
		{ID: "u1", MaxConcurrentCapacity: 5},
		{ID: "u2", MaxConcurrentCapacity: 5},
		{ID: "u3", MaxConcurrentCapacity: 5},
	}
	items := append(activeFor("u1", 5), activeFor("u2", 2)...)

	overview := engine.TeamOverview(members, items)
	metrics := overview.TeamMetrics
	if metrics.TotalMembers != 3 || metrics.TotalCapacity != 15 || metrics.TotalWorkload != 7 {
		t.Errorf("rollup = %d members %d/%d, want 3 members 7/15",
			metrics.TotalMembers, metrics.TotalWorkload, metrics.TotalCapacity)
	}
	if metrics.OverloadedMembers != 1 || metrics.AvailableMembers != 2 {
		t.Errorf("overloaded/available = %d/%d, want 1/2", metrics.OverloadedMembers, metrics.AvailableMembers)
	}
	wantUtil := 7.0 / 15.0 * 100
	if metrics.OverallUtilization != wantUtil {
		t.Errorf("OverallUtilization = %v, want %v", metrics.OverallUtilization, wantUtil)
	}

	// Busiest first.
	order := []string{overview.TeamCapacity[0].Member.ID, overview.TeamCapacity[1].Member.ID, overview.TeamCapacity[2].Member.ID}
	if order[0] != "u1" || order[1] != "u2" || order[2] != "u3" {
		t.Errorf("sort order = %v, want [u1 u2 u3]", order)
	}

	types := map[string]bool{}
	for _, rec := range overview.Recommendations {
		types[rec.Type] = true
	}
	if !types["workload_redistribution"] {
		t.Error("expected a workload_redistribution recommendation with one member overloaded")
	}
	if !types["underutilization"] {
		t.Error("expected an underutilization recommendation below 50% overall")
	}
}

func TestAlertsThresholds(t *testing.T) {
	engine := NewCapacityEngine(DefaultCapacityConfig(), nil)
	members := []models.TeamMember{
		{ID: "u1", FirstName: "Mira", LastName: "K", MaxConcurrentCapacity: 10},
		{ID: "u2", FirstName: "Dane", LastName: "L", MaxConcurrentCapacity: 10},
		{ID: "u3", FirstName: "Iva", LastName: "P", MaxConcurrentCapacity: 10},
	}
	items := append(activeFor("u1", 9), activeFor("u2", 8)...) // 90% and 80%
	items = append(items, activeFor("u3", 3)...)               // 30%, no alert

	alerts := engine.Alerts(members, items)
	if len(alerts) != 2 {
		t.Fatalf("alerts = %d, want 2", len(alerts))
	}
	if alerts[0].Type != models.AlertOverload || alerts[0].Severity != models.SeverityHigh || alerts[0].Member.ID != "u1" {
		t.Errorf("first alert = %s/%s for %s, want overload/high for u1",
			alerts[0].Type, alerts[0].Severity, alerts[0].Member.ID)
	}
	if alerts[1].Type != models.AlertHighUtilization || alerts[1].Severity != models.SeverityMedium || alerts[1].Member.ID != "u2" {
		t.Errorf("second alert = %s/%s for %s, want high_utilization/medium for u2",
			alerts[1].Type, alerts[1].Severity, alerts[1].Member.ID)
	}
	if alerts[0].Message != "Mira K is at 90% capacity" {
		t.Errorf("message = %q", alerts[0].Message)
	}
}

func TestSkillGap(t *testing.T) {
	engine := NewCapacityEngine(DefaultCapacityConfig(), nil)
	member := models.TeamMember{
		ID:     "u1",
		Role:   "mechanical_designer",
		Skills: []string{"SolidWorks 2024", "CAD"},
	}

	report := engine.SkillGap(member, models.KindWorkUnit)
	// Required: cad, solidworks, mechanical design, 3d modeling.
	if len(report.RequiredSkills) != 4 {
		t.Fatalf("RequiredSkills = %v, want 4 entries", report.RequiredSkills)
	}
	wantMissing := map[string]bool{"mechanical design": true, "3d modeling": true}
	if len(report.MissingSkills) != 2 {
		t.Fatalf("MissingSkills = %v, want 2 entries", report.MissingSkills)
	}
	for _, skill := range report.MissingSkills {
		if !wantMissing[skill] {
			t.Errorf("unexpected missing skill %q", skill)
		}
	}
	if report.SkillMatchPercentage != 50 {
		t.Errorf("SkillMatchPercentage = %v, want 50", report.SkillMatchPercentage)
	}
	if len(report.Recommendations) != 2 {
		t.Errorf("Recommendations = %v, want one per missing skill", report.Recommendations)
	}

	// The task subset is fully covered.
	taskReport := engine.SkillGap(member, models.KindTask)
	if len(taskReport.MissingSkills) != 0 || taskReport.SkillMatchPercentage != 100 {
		t.Errorf("task report = %v missing, %v%%, want none missing at 100%%",
			taskReport.MissingSkills, taskReport.SkillMatchPercentage)
	}
}

func TestSkillGapUnknownRole(t *testing.T) {
	engine := NewCapacityEngine(DefaultCapacityConfig(), nil)
	report := engine.SkillGap(models.TeamMember{ID: "u1", Role: "astronaut"}, models.KindWorkUnit)
	if len(report.RequiredSkills) != 0 || len(report.MissingSkills) != 0 {
		t.Errorf("unknown role should require nothing, got %+v", report)
	}
	if report.SkillMatchPercentage != 0 {
		t.Errorf("SkillMatchPercentage = %v, want 0", report.SkillMatchPercentage)
	}
}

func TestLoadSkillMatrix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skills.json")
	content := `[
		{"role": "Welder", "workType": "task", "skills": ["MIG", "TIG"]},
		{"role": "", "workType": "task", "skills": ["ignored"]},
		{"role": "welder", "workType": "work_unit", "skills": []}
	]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	matrix, err := LoadSkillMatrix(path)
	if err != nil {
		t.Fatalf("LoadSkillMatrix() error = %v", err)
	}
	got := matrix[models.SkillKey{Role: "welder", WorkType: models.KindTask}]
	if !reflect.DeepEqual(got, []string{"mig", "tig"}) {
		t.Errorf("welder task skills = %v, want lowercased [mig tig]", got)
	}
	if len(matrix) != 1 {
		t.Errorf("matrix has %d entries, want 1 (empty role and skills skipped)", len(matrix))
	}

	if _, err := LoadSkillMatrix(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCapacityEngineConfigDefaults(t *testing.T) {
	engine := NewCapacityEngine(CapacityConfig{}, nil)
	member := models.TeamMember{ID: "u1"}
	mc := engine.MemberCapacity(member, nil)
	if mc.MaxCapacity != models.DefaultMaxCapacity {
		t.Errorf("MaxCapacity = %d, want default %d", mc.MaxCapacity, models.DefaultMaxCapacity)
	}
}
