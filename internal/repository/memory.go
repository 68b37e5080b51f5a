package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/mr1hm/hydrosense/internal/fixtures"
	"github.com/mr1hm/hydrosense/internal/models"
)

// MemoryStore keeps the data pack in process memory. Writes last until the
// process exits.
type MemoryStore struct {
	mu sync.RWMutex
	ds fixtures.Dataset
}

func NewMemoryStore(ds *fixtures.Dataset) *MemoryStore {
	return &MemoryStore{ds: *ds}
}

func (m *MemoryStore) ListVillages(ctx context.Context) ([]models.Village, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.ds.Villages), nil
}

func (m *MemoryStore) GetVillage(ctx context.Context, id string) (*models.Village, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.ds.Villages {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ListAlerts(ctx context.Context) ([]models.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.ds.Alerts), nil
}

func (m *MemoryStore) ListDevices(ctx context.Context) ([]models.Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.ds.Devices), nil
}

func (m *MemoryStore) GetDevice(ctx context.Context, id string) (*models.Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.ds.Devices {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ListHealthReports(ctx context.Context) ([]models.HealthReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.ds.HealthReports), nil
}

func (m *MemoryStore) ListSystemReports(ctx context.Context) ([]models.SystemReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.ds.SystemReports), nil
}

func (m *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.ds.Users), nil
}

func (m *MemoryStore) AddUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.ds.Users {
		if existing.ID == u.ID {
			return ErrDuplicate
		}
	}
	m.ds.Users = append(m.ds.Users, *u)
	return nil
}

func (m *MemoryStore) GetSettings(ctx context.Context) (models.SystemConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ds.Settings, nil
}

func (m *MemoryStore) SaveSettings(ctx context.Context, cfg models.SystemConfig) error {
	m.mu.Lock()
	m.ds.Settings = cfg
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) ListAdvisories(ctx context.Context) ([]models.Advisory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.ds.Advisories), nil
}

func (m *MemoryStore) ListReadings(ctx context.Context) ([]models.SensorSample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.ds.Readings), nil
}

func (m *MemoryStore) ListFacilities(ctx context.Context) ([]models.Facility, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.ds.Facilities), nil
}

func (m *MemoryStore) ListAdvice(ctx context.Context) ([]models.TreatmentAdvice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.ds.Advice), nil
}

func (m *MemoryStore) ListContacts(ctx context.Context) ([]models.EmergencyContact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.ds.Contacts), nil
}

func (m *MemoryStore) ListWeeklyActivity(ctx context.Context) ([]models.WeeklyActivity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.ds.WeeklyTrend), nil
}

func (m *MemoryStore) ListLandingStats(ctx context.Context) ([]models.LandingStat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.ds.LandingStats), nil
}

func (m *MemoryStore) ListDiseases(ctx context.Context) ([]models.Disease, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.ds.Diseases), nil
}

func (m *MemoryStore) GetPrevention(ctx context.Context) (models.PreventionTips, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ds.Prevention, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
