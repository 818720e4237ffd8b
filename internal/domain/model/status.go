package model

// Severity tags a status message for display.
type Severity string

const (
	SeverityNeutral Severity = ""
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// StatusMessage is the single active message of a status region.
type StatusMessage struct {
	Text     string
	Severity Severity
}
