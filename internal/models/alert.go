package models

import "time"

type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

type AlertStatus string

const (
	AlertStatusActive        AlertStatus = "Active"
	AlertStatusInProgress    AlertStatus = "In Progress"
	AlertStatusMonitoring    AlertStatus = "Monitoring"
	AlertStatusInvestigating AlertStatus = "Investigating"
	AlertStatusResolved      AlertStatus = "Resolved"
)

// OpenAlertStatuses are the statuses counted as "active" on the alerts board.
var OpenAlertStatuses = []AlertStatus{
	AlertStatusActive,
	AlertStatusInProgress,
	AlertStatusMonitoring,
	AlertStatusInvestigating,
}

type Alert struct {
	ID                 int         `json:"id" yaml:"id"`
	Village            string      `json:"village" yaml:"village"`
	Type               string      `json:"type" yaml:"type"`
	Severity           Severity    `json:"severity" yaml:"severity"`
	Message            string      `json:"message" yaml:"message"`
	Timestamp          time.Time   `json:"timestamp" yaml:"timestamp"`
	Status             AlertStatus `json:"status" yaml:"status"`
	AssignedTo         string      `json:"assigned_to" yaml:"assigned_to"`
	AffectedPopulation int         `json:"affected_population" yaml:"affected_population"`
	Priority           int         `json:"priority" yaml:"priority"` // 1 (highest) to 3
	DeviceID           string      `json:"device_id" yaml:"device_id"`
	Actions            []string    `json:"actions" yaml:"actions"`
}

func (a *Alert) IsOpen() bool {
	return IsOpenStatus(a.Status)
}

func IsOpenStatus(s AlertStatus) bool {
	for _, open := range OpenAlertStatuses {
		if s == open {
			return true
		}
	}
	return false
}

// Advisory is a citizen-facing notice shown on the village dashboard.
type Advisory struct {
	ID        int      `json:"id" yaml:"id"`
	Title     string   `json:"title" yaml:"title"`
	Message   string   `json:"message" yaml:"message"`
	Severity  Severity `json:"severity" yaml:"severity"`
	Timestamp string   `json:"timestamp" yaml:"timestamp"` // display label, e.g. "2 hours ago"
	Status    string   `json:"status" yaml:"status"`
}
