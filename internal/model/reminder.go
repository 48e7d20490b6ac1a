package model

// Severity enum constants
const (
	SeverityNormal   = "normal"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Reminder is a manually entered note shown among the alerts.
type Reminder struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity,omitempty"`
	DueDate  string `json:"due_date,omitempty"`
}
