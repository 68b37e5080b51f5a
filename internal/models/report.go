package models

import (
	"strings"
	"time"
)

type HealthReport struct {
	ID               string    `json:"id" yaml:"id"`
	ReporterName     string    `json:"reporter_name" yaml:"reporter_name"`
	Village          string    `json:"village" yaml:"village"`
	Type             string    `json:"type" yaml:"type"`
	Severity         Severity  `json:"severity" yaml:"severity"`
	PatientsAffected int       `json:"patients_affected" yaml:"patients_affected"`
	Symptoms         []string  `json:"symptoms" yaml:"symptoms"`
	Status           string    `json:"status" yaml:"status"`
	DateReported     time.Time `json:"date_reported" yaml:"date_reported"`
	ContactPhone     string    `json:"contact_phone" yaml:"contact_phone"`
	AssignedTo       string    `json:"assigned_to" yaml:"assigned_to"`
	Description      string    `json:"description" yaml:"description"`
	FollowUpRequired bool      `json:"follow_up_required" yaml:"follow_up_required"`
	LabTestsOrdered  bool      `json:"lab_tests_ordered" yaml:"lab_tests_ordered"`
}

// UnderInvestigation covers both "Under Investigation" and "Active Investigation".
func (r *HealthReport) UnderInvestigation() bool {
	return strings.Contains(r.Status, "Investigation")
}

type SystemReport struct {
	ID          string    `json:"id" yaml:"id"`
	Type        string    `json:"type" yaml:"type"`
	Village     string    `json:"village" yaml:"village"`
	DeviceID    string    `json:"device_id" yaml:"device_id"`
	AlertType   string    `json:"alert_type" yaml:"alert_type"`
	Severity    Severity  `json:"severity" yaml:"severity"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	Status      string    `json:"status" yaml:"status"`
	Description string    `json:"description" yaml:"description"`
	ActionTaken string    `json:"action_taken" yaml:"action_taken"`
	Downtime    string    `json:"downtime" yaml:"downtime"`
}
