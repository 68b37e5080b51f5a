// Package fixtures holds the mock data pack the dashboard ships with.
package fixtures

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mr1hm/hydrosense/internal/models"
)

//go:embed data/*.yaml
var files embed.FS

// Dataset is every record collection the dashboard reads.
type Dataset struct {
	Villages      []models.Village          `yaml:"villages"`
	Alerts        []models.Alert            `yaml:"alerts"`
	Advisories    []models.Advisory         `yaml:"advisories"`
	Devices       []models.Device           `yaml:"devices"`
	HealthReports []models.HealthReport     `yaml:"health_reports"`
	SystemReports []models.SystemReport     `yaml:"system_reports"`
	Users         []models.User             `yaml:"users"`
	Settings      models.SystemConfig       `yaml:"settings"`
	Facilities    []models.Facility         `yaml:"facilities"`
	Advice        []models.TreatmentAdvice  `yaml:"advice"`
	Contacts      []models.EmergencyContact `yaml:"emergency_contacts"`
	Readings      []models.SensorSample     `yaml:"readings"`
	WeeklyTrend   []models.WeeklyActivity   `yaml:"weekly_activity"`
	LandingStats  []models.LandingStat      `yaml:"landing_stats"`
	Diseases      []models.Disease          `yaml:"diseases"`
	Prevention    models.PreventionTips     `yaml:"prevention"`
}

var sources = []string{
	"data/villages.yaml",
	"data/alerts.yaml",
	"data/devices.yaml",
	"data/reports.yaml",
	"data/settings.yaml",
	"data/care.yaml",
}

// Load decodes the embedded data pack. Each file fills its own top-level
// keys of Dataset.
func Load() (*Dataset, error) {
	ds := &Dataset{}
	for _, name := range sources {
		raw, err := files.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", name, err)
		}
		if err := yaml.Unmarshal(raw, ds); err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", name, err)
		}
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Validate checks the invariants the views depend on.
func (ds *Dataset) Validate() error {
	villageIDs := make(map[string]bool, len(ds.Villages))
	for _, v := range ds.Villages {
		if v.ID == "" {
			return fmt.Errorf("village %q has no id", v.Name)
		}
		if villageIDs[v.ID] {
			return fmt.Errorf("duplicate village id: %s", v.ID)
		}
		villageIDs[v.ID] = true
		if v.RiskPercentage < 0 || v.RiskPercentage > 100 {
			return fmt.Errorf("village %s: risk percentage out of range: %d", v.ID, v.RiskPercentage)
		}
	}

	deviceIDs := make(map[string]bool, len(ds.Devices))
	for _, d := range ds.Devices {
		if deviceIDs[d.ID] {
			return fmt.Errorf("duplicate device id: %s", d.ID)
		}
		deviceIDs[d.ID] = true
		if err := d.Sensors.Validate(); err != nil {
			return fmt.Errorf("device %s: %w", d.ID, err)
		}
		for _, h := range d.History {
			for k := range h.Values {
				if _, err := models.ParseSensorKind(string(k)); err != nil {
					return fmt.Errorf("device %s history: %w", d.ID, err)
				}
			}
		}
		if d.BatteryLevel < 0 || d.BatteryLevel > 100 {
			return fmt.Errorf("device %s: battery level out of range: %d", d.ID, d.BatteryLevel)
		}
	}
	return nil
}
