package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/mr1hm/hydrosense/internal/models"
	"github.com/mr1hm/hydrosense/internal/summary"
)

var ErrMissingFields = errors.New("missing required fields")

var missingFieldsNotification = Notification{
	Title:       "Error",
	Description: "Please fill in all required fields.",
}

var settingsSavedNotification = Notification{
	Title:       "Settings Saved",
	Description: "System configuration has been updated successfully.",
}

// Settings tabs.
const (
	TabUsers          = "users"
	TabThresholds     = "thresholds"
	TabNotifications  = "notifications"
	TabSettingsSystem = "system"
)

var SettingsTabs = []string{TabUsers, TabThresholds, TabNotifications, TabSettingsSystem}

// Extra assignment targets offered next to the village names.
var extraUserVillages = []string{"Multiple", "All"}

type SettingsView struct {
	Tab         string              `json:"tab"`
	Users       []models.User       `json:"users"`
	ActiveUsers int                 `json:"active_users"`
	Config      models.SystemConfig `json:"config"`
	Roles       []string            `json:"roles"`
	Villages    []string            `json:"village_options"`

	AlertFrequencies  []Option `json:"alert_frequency_options"`
	ReportSchedules   []Option `json:"report_schedule_options"`
	BackupFrequencies []Option `json:"backup_frequency_options"`
}

func (s *Service) Settings(ctx context.Context, tab string) (*SettingsView, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	cfg, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching settings: %w", err)
	}
	villages, err := s.repo.ListVillages(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing villages: %w", err)
	}

	if !slices.Contains(SettingsTabs, tab) {
		tab = TabUsers
	}

	options := summary.Distinct(villages, func(v models.Village) string { return v.Name })
	return &SettingsView{
		Tab:         tab,
		Users:       users,
		ActiveUsers: summary.Count(users, func(u models.User) bool { return u.Status == "Active" }),
		Config:      cfg,
		Roles:       models.Roles,
		Villages:    append(options, extraUserVillages...),

		AlertFrequencies:  AlertFrequencyOptions,
		ReportSchedules:   ReportScheduleOptions,
		BackupFrequencies: BackupFrequencyOptions,
	}, nil
}

type NewUser struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Role    string `form:"role" json:"role"`
	Phone   string `form:"phone" json:"phone"`
	Village string `form:"village" json:"village"`
}

// AddUser appends a user with the role's default permissions. Name, email
// and role are required; when one is missing nothing is stored and
// ErrMissingFields is returned along with the notification to show.
func (s *Service) AddUser(ctx context.Context, in NewUser) (Notification, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Role = strings.TrimSpace(in.Role)
	if in.Name == "" || in.Email == "" || in.Role == "" {
		s.notify(missingFieldsNotification)
		return missingFieldsNotification, ErrMissingFields
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return Notification{}, fmt.Errorf("error listing users: %w", err)
	}

	u := &models.User{
		ID:          len(users) + 1,
		Name:        in.Name,
		Email:       in.Email,
		Role:        in.Role,
		Phone:       strings.TrimSpace(in.Phone),
		Village:     in.Village,
		Status:      "Active",
		LastLogin:   s.now().UTC(),
		Permissions: models.DefaultPermissions(in.Role),
	}
	if err := s.repo.AddUser(ctx, u); err != nil {
		return Notification{}, fmt.Errorf("error adding user: %w", err)
	}

	n := Notification{
		Title:       "User Added",
		Description: fmt.Sprintf("%s has been added to the system.", u.Name),
	}
	s.notify(n)
	return n, nil
}

// Choices offered for the enumerated notification and system settings.
var (
	AlertFrequencyOptions = []Option{
		{Value: "immediate", Label: "Immediate"},
		{Value: "every-15min", Label: "Every 15 minutes"},
		{Value: "hourly", Label: "Hourly"},
		{Value: "daily", Label: "Daily digest"},
	}
	ReportScheduleOptions = []Option{
		{Value: "daily", Label: "Daily"},
		{Value: "weekly", Label: "Weekly"},
		{Value: "monthly", Label: "Monthly"},
		{Value: "none", Label: "None"},
	}
	BackupFrequencyOptions = []Option{
		{Value: "hourly", Label: "Hourly"},
		{Value: "daily", Label: "Daily"},
		{Value: "weekly", Label: "Weekly"},
	}
)

// SettingsFields lists every form key SaveSettings understands. The keys
// match the JSON names of the settings they change.
var SettingsFields = []string{
	"turbidity_high", "turbidity_medium", "ph_low", "ph_high", "temperature_high", "chlorine_low",
	"email_enabled", "sms_enabled", "push_enabled", "alert_frequency", "report_schedule",
	"data_retention_days", "backup_frequency", "maintenance_window", "auto_reports", "public_dashboard",
}

// SaveSettings applies the submitted values, keyed by SettingsFields.
// Missing keys are left alone, and a value that does not parse or is not
// one of the offered choices keeps the previous setting.
func (s *Service) SaveSettings(ctx context.Context, values map[string]string) (Notification, error) {
	cfg, err := s.repo.GetSettings(ctx)
	if err != nil {
		return Notification{}, fmt.Errorf("error fetching settings: %w", err)
	}

	t, n, sys := &cfg.AlertThresholds, &cfg.Notifications, &cfg.System
	setters := map[string]func(string){
		"turbidity_high":      setFloat(&t.TurbidityHigh),
		"turbidity_medium":    setFloat(&t.TurbidityMedium),
		"ph_low":              setFloat(&t.PHLow),
		"ph_high":             setFloat(&t.PHHigh),
		"temperature_high":    setFloat(&t.TemperatureHigh),
		"chlorine_low":        setFloat(&t.ChlorineLow),
		"email_enabled":       setBool(&n.EmailEnabled),
		"sms_enabled":         setBool(&n.SMSEnabled),
		"push_enabled":        setBool(&n.PushEnabled),
		"alert_frequency":     setChoice(&n.AlertFrequency, AlertFrequencyOptions),
		"report_schedule":     setChoice(&n.ReportSchedule, ReportScheduleOptions),
		"data_retention_days": setPositiveInt(&sys.DataRetentionDays),
		"backup_frequency":    setChoice(&sys.BackupFrequency, BackupFrequencyOptions),
		"maintenance_window":  setText(&sys.MaintenanceWindow),
		"auto_reports":        setBool(&sys.AutoReports),
		"public_dashboard":    setBool(&sys.PublicDashboard),
	}
	for key, raw := range values {
		if set, ok := setters[key]; ok {
			set(strings.TrimSpace(raw))
		}
	}

	if err := s.repo.SaveSettings(ctx, cfg); err != nil {
		return Notification{}, fmt.Errorf("error saving settings: %w", err)
	}
	s.notify(settingsSavedNotification)
	return settingsSavedNotification, nil
}

func setFloat(dst *float64) func(string) {
	return func(raw string) {
		v, err := strconv.ParseFloat(raw, 64)
		if err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			*dst = v
		}
	}
}

func setPositiveInt(dst *int) func(string) {
	return func(raw string) {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			*dst = v
		}
	}
}

// setBool accepts the strconv spellings plus "on", which browsers send for
// a checked checkbox without a value.
func setBool(dst *bool) func(string) {
	return func(raw string) {
		if raw == "on" {
			*dst = true
			return
		}
		if v, err := strconv.ParseBool(raw); err == nil {
			*dst = v
		}
	}
}

func setChoice(dst *string, opts []Option) func(string) {
	return func(raw string) {
		if slices.ContainsFunc(opts, func(o Option) bool { return o.Value == raw }) {
			*dst = raw
		}
	}
}

func setText(dst *string) func(string) {
	return func(raw string) {
		if raw != "" {
			*dst = raw
		}
	}
}
