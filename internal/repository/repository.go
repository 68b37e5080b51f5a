package repository

import (
	"context"
	"errors"

	"github.com/mr1hm/hydrosense/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type VillageRepository interface {
	ListVillages(ctx context.Context) ([]models.Village, error)
	GetVillage(ctx context.Context, id string) (*models.Village, error)
}

type AlertRepository interface {
	ListAlerts(ctx context.Context) ([]models.Alert, error)
}

type DeviceRepository interface {
	ListDevices(ctx context.Context) ([]models.Device, error)
	GetDevice(ctx context.Context, id string) (*models.Device, error)
}

type ReportRepository interface {
	ListHealthReports(ctx context.Context) ([]models.HealthReport, error)
	ListSystemReports(ctx context.Context) ([]models.SystemReport, error)
}

type UserRepository interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	AddUser(ctx context.Context, u *models.User) error
}

type SettingsRepository interface {
	GetSettings(ctx context.Context) (models.SystemConfig, error)
	SaveSettings(ctx context.Context, cfg models.SystemConfig) error
}

// CareRepository serves the citizen-facing reference content.
type CareRepository interface {
	ListAdvisories(ctx context.Context) ([]models.Advisory, error)
	ListReadings(ctx context.Context) ([]models.SensorSample, error)
	ListFacilities(ctx context.Context) ([]models.Facility, error)
	ListAdvice(ctx context.Context) ([]models.TreatmentAdvice, error)
	ListContacts(ctx context.Context) ([]models.EmergencyContact, error)
	ListWeeklyActivity(ctx context.Context) ([]models.WeeklyActivity, error)
	ListLandingStats(ctx context.Context) ([]models.LandingStat, error)
	ListDiseases(ctx context.Context) ([]models.Disease, error)
	GetPrevention(ctx context.Context) (models.PreventionTips, error)
}

// Provider is the data source every dashboard view reads from. Lists are
// returned in fixture order and are safe for the caller to modify.
type Provider interface {
	VillageRepository
	AlertRepository
	DeviceRepository
	ReportRepository
	UserRepository
	SettingsRepository
	CareRepository
	Close() error
}
