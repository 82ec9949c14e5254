package seed

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL      string        // Base URL of the service
	NumEmployees int           // Number of employees to seed
	NumCheckins  int           // Number of check-ins to submit
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	OutputFile   string        // Output file for generated check-ins
	LogFile      string        // Log file for run output
	Verbose      bool          // Enable verbose logging
}

// Employee is the directory ingest payload.
type Employee struct {
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	SkillLevel string `json:"skill_level,omitempty"`
	HireDate   string `json:"hire_date,omitempty"`
}

// Evaluation is the draft creation payload.
type Evaluation struct {
	EmployeeID string             `json:"employee_id"`
	Period     string             `json:"period"`
	Scores     map[string]float64 `json:"scores"`
}

// Decision is the approve/reject payload.
type Decision struct {
	Approver string `json:"approver"`
	Reason   string `json:"reason,omitempty"`
}

// Checkin is the sentiment pipeline payload.
type Checkin struct {
	MessageID string `json:"message_id"`
	InternID  string `json:"intern_id"`
	Message   string `json:"message"`
	TS        string `json:"ts"`
}

// AckResponse represents the response from check-in submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// IDResponse carries the ID assigned by an ingest endpoint.
type IDResponse struct {
	ID string `json:"id"`
}

// Dashboard mirrors the rollup payload shape this tool verifies.
type Dashboard struct {
	Employees struct {
		Total int `json:"total"`
	} `json:"employees"`
	Evaluations struct {
		Total    int     `json:"total"`
		AvgScore float64 `json:"avg_score"`
	} `json:"evaluations"`
	Equipment struct {
		Total int `json:"total"`
	} `json:"equipment"`
	Training struct {
		Total int `json:"total"`
	} `json:"training"`
}

// Stats holds seeding run statistics.
type Stats struct {
	EmployeesSeeded      int
	EvaluationsCreated   int
	EvaluationsApproved  int
	CheckinsGenerated    int
	CheckinsSubmitted    int
	CheckinsSuccessful   int
	CheckinsDuplicate    int
	CheckinsFailed       int
	CheckinsVerified     int
	DashboardEmployees   int
	DashboardEvaluations int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
