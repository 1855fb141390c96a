package models

// DefaultMaxCapacity is the assumed concurrent-item limit for members with
// no configured capacity.
const DefaultMaxCapacity = 5

// TeamMember is a person who can be assigned work items. Supplied by the
// member directory; MaxConcurrentCapacity of 0 means "use the default".
type TeamMember struct {
	ID                    string   `json:"id" bson:"_id,omitempty"`
	FirstName             string   `json:"firstName" bson:"firstName"`
	LastName              string   `json:"lastName" bson:"lastName"`
	Role                  string   `json:"role" bson:"role"`
	Department            string   `json:"department" bson:"department"`
	Skills                []string `json:"skills" bson:"skills"`
	MaxConcurrentCapacity int      `json:"maxConcurrentCapacity" bson:"maxConcurrentCapacity"`
	IsActive              bool     `json:"isActive" bson:"isActive"`
}

// Capacity classification buckets, evaluated highest threshold first.
const (
	CapacityOverloaded = "overloaded"
	CapacityBusy       = "busy"
	CapacityModerate   = "moderate"
	CapacityAvailable  = "available"
)

// Recommended actions derived from utilization.
const (
	ActionReduce   = "reduce"
	ActionIncrease = "increase"
	ActionMaintain = "maintain"
)

// MemberCapacity is one member's workload snapshot. Utilization is
// unbounded above 100 so overload stays visible.
type MemberCapacity struct {
	Member            TeamMember `json:"user"`
	CurrentWorkload   int        `json:"currentWorkload"`
	MaxCapacity       int        `json:"maxCapacity"`
	Utilization       float64    `json:"utilization"`
	Status            string     `json:"status"`
	AvailableCapacity int        `json:"availableCapacity"`
	RecommendedAction string     `json:"recommendedAction"`
}

// TeamMetrics is the team-wide rollup of member capacities.
type TeamMetrics struct {
	TotalMembers       int     `json:"totalMembers"`
	AvailableMembers   int     `json:"availableMembers"`
	ModerateMembers    int     `json:"moderateMembers"`
	BusyMembers        int     `json:"busyMembers"`
	OverloadedMembers  int     `json:"overloadedMembers"`
	TotalCapacity      int     `json:"totalCapacity"`
	TotalWorkload      int     `json:"totalWorkload"`
	OverallUtilization float64 `json:"overallUtilization"`
}

// TeamRecommendation suggests a team-level rebalancing action.
type TeamRecommendation struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
	Action   string `json:"action"`
}

// TeamCapacityOverview bundles the per-member snapshots with the team
// rollup, sorted busiest first.
type TeamCapacityOverview struct {
	TeamCapacity    []MemberCapacity     `json:"teamCapacity"`
	TeamMetrics     TeamMetrics          `json:"teamMetrics"`
	Recommendations []TeamRecommendation `json:"recommendations"`
}

// Alert severities and types.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"

	AlertOverload        = "overload"
	AlertHighUtilization = "high_utilization"
)

// CapacityAlert flags a member at or above an alerting threshold. Alerts are
// recomputed per request and never persisted.
type CapacityAlert struct {
	Type            string     `json:"type"`
	Severity        string     `json:"severity"`
	Member          TeamMember `json:"user"`
	Message         string     `json:"message"`
	Recommendation  string     `json:"recommendation"`
	CurrentWorkload int        `json:"currentWorkload"`
	MaxCapacity     int        `json:"maxCapacity"`
}

// SkillKey identifies a required-skills table entry.
type SkillKey struct {
	Role     string
	WorkType ItemKind
}

// SkillMatrix maps role and work-item type to the skills that work requires.
// Injected configuration; see capacity service for the built-in table.
type SkillMatrix map[SkillKey][]string

// SkillGapReport diffs a member's recorded skills against the required set.
type SkillGapReport struct {
	Member               TeamMember            `json:"user"`
	WorkType             ItemKind              `json:"workType"`
	CurrentSkills        []string              `json:"currentSkills"`
	RequiredSkills       []string              `json:"requiredSkills"`
	MissingSkills        []string              `json:"missingSkills"`
	Recommendations      []SkillRecommendation `json:"recommendations"`
	SkillMatchPercentage float64               `json:"skillMatchPercentage"`
}

// SkillRecommendation is a canned training suggestion for one missing skill.
type SkillRecommendation struct {
	Skill             string `json:"skill"`
	Priority          string `json:"priority"`
	Reason            string `json:"reason"`
	SuggestedTraining string `json:"suggestedTraining"`
}
