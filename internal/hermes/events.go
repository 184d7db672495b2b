package hermes

import "time"

type AssessmentCompletedEvent struct {
	AssessmentID  string    `json:"assessment_id"`
	Source        string    `json:"source"`
	EENow         float64   `json:"ee_now"`
	Band          string    `json:"band"`
	ScenarioCount int       `json:"scenario_count"`
	Timestamp     time.Time `json:"timestamp"`
}

// AssessmentFailedEvent is published when the remote analyzer cannot
// produce a result. Kind is one of "timeout", "status" or "transport".
type AssessmentFailedEvent struct {
	Source     string    `json:"source"`
	Kind       string    `json:"kind"`
	StatusCode int       `json:"status_code,omitempty"`
	Error      string    `json:"error"`
	Timestamp  time.Time `json:"timestamp"`
}
