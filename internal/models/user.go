package models

import "time"

const (
	RoleHealthAdministrator = "Health Administrator"
	RoleDiseaseSpecialist   = "Disease Specialist"
	RoleSystemAdministrator = "System Administrator"
	RoleHealthWorker        = "Health Worker"
	RoleDataAnalyst         = "Data Analyst"
	RoleVillageCoordinator  = "Village Coordinator"
)

var Roles = []string{
	RoleHealthAdministrator,
	RoleDiseaseSpecialist,
	RoleSystemAdministrator,
	RoleHealthWorker,
	RoleDataAnalyst,
	RoleVillageCoordinator,
}

type User struct {
	ID          int       `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Email       string    `json:"email" yaml:"email"`
	Role        string    `json:"role" yaml:"role"`
	Phone       string    `json:"phone" yaml:"phone"`
	Village     string    `json:"village" yaml:"village"`
	Status      string    `json:"status" yaml:"status"` // "Active" or "Inactive"
	LastLogin   time.Time `json:"last_login" yaml:"last_login"`
	Permissions []string  `json:"permissions" yaml:"permissions"`
}

func DefaultPermissions(role string) []string {
	switch role {
	case RoleHealthAdministrator:
		return []string{"View Reports", "Manage Alerts", "Village Management", "User Management"}
	case RoleDiseaseSpecialist:
		return []string{"View Reports", "Health Investigation", "Data Analysis"}
	case RoleSystemAdministrator:
		return []string{"Device Management", "System Configuration", "User Management"}
	case RoleHealthWorker:
		return []string{"View Reports", "Basic Alerts"}
	case RoleDataAnalyst:
		return []string{"View Reports", "Data Analysis", "Export Data"}
	case RoleVillageCoordinator:
		return []string{"View Reports", "Village Management", "Basic Alerts"}
	default:
		return []string{"View Reports"}
	}
}

type AlertThresholds struct {
	TurbidityHigh   float64 `json:"turbidity_high" yaml:"turbidity_high"`
	TurbidityMedium float64 `json:"turbidity_medium" yaml:"turbidity_medium"`
	PHLow           float64 `json:"ph_low" yaml:"ph_low"`
	PHHigh          float64 `json:"ph_high" yaml:"ph_high"`
	TemperatureHigh float64 `json:"temperature_high" yaml:"temperature_high"`
	ChlorineLow     float64 `json:"chlorine_low" yaml:"chlorine_low"`
}

type NotificationSettings struct {
	EmailEnabled   bool   `json:"email_enabled" yaml:"email_enabled"`
	SMSEnabled     bool   `json:"sms_enabled" yaml:"sms_enabled"`
	PushEnabled    bool   `json:"push_enabled" yaml:"push_enabled"`
	AlertFrequency string `json:"alert_frequency" yaml:"alert_frequency"`
	ReportSchedule string `json:"report_schedule" yaml:"report_schedule"`
}

type SystemSettings struct {
	DataRetentionDays int    `json:"data_retention_days" yaml:"data_retention_days"`
	BackupFrequency   string `json:"backup_frequency" yaml:"backup_frequency"`
	MaintenanceWindow string `json:"maintenance_window" yaml:"maintenance_window"`
	AutoReports       bool   `json:"auto_reports" yaml:"auto_reports"`
	PublicDashboard   bool   `json:"public_dashboard" yaml:"public_dashboard"`
}

type SystemConfig struct {
	AlertThresholds AlertThresholds      `json:"alert_thresholds" yaml:"alert_thresholds"`
	Notifications   NotificationSettings `json:"notifications" yaml:"notifications"`
	System          SystemSettings       `json:"system" yaml:"system"`
}
