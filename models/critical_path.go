package models

// NodeSchedule holds the CPM times for one node. All values are hours from
// project start.
type NodeSchedule struct {
	ID             string  `json:"id"`
	Duration       float64 `json:"duration"`
	EarliestStart  float64 `json:"earliestStart"`
	EarliestFinish float64 `json:"earliestFinish"`
	LatestStart    float64 `json:"latestStart"`
	LatestFinish   float64 `json:"latestFinish"`
	Slack          float64 `json:"slack"`
}

// CriticalPathResult is the full output of a CPM run. CriticalNodes holds
// every zero-slack node across parallel chains; Path is one concrete maximal
// source-to-sink chain through critical nodes. Both are sorted/ordered
// deterministically.
type CriticalPathResult struct {
	Nodes         []NodeSchedule `json:"nodes"`
	TotalDuration float64        `json:"totalDuration"`
	CriticalNodes []string       `json:"criticalNodes"`
	Path          []string       `json:"path"`
}
