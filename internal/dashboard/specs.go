package dashboard

import (
	"github.com/mr1hm/hydrosense/internal/filter"
	"github.com/mr1hm/hydrosense/internal/models"
)

// TabKey is the criteria key that selects a board tab.
const TabKey = "tab"

// Alert board tabs.
const (
	TabActive   = "active"
	TabResolved = "resolved"
)

// Report board tabs.
const (
	TabHealth = "health"
	TabSystem = "system"
)

var signInSpec = filter.Spec[models.Village]{
	Text: []filter.Field[models.Village]{
		func(v models.Village) string { return v.Name },
		func(v models.Village) string { return v.District },
	},
}

var villageSpec = filter.Spec[models.Village]{
	Text: []filter.Field[models.Village]{
		func(v models.Village) string { return v.Name },
		func(v models.Village) string { return v.District },
		func(v models.Village) string { return v.LocalName },
		func(v models.Village) string { return v.LocalDistrict },
	},
	Categories: map[string]filter.Category[models.Village]{
		"risk": {Value: func(v models.Village) string { return string(v.RiskLevel) }},
	},
}

var facilitySpec = filter.Spec[models.Facility]{
	Text: []filter.Field[models.Facility]{
		func(f models.Facility) string { return f.Name },
		func(f models.Facility) string { return f.Specialty },
		func(f models.Facility) string { return f.Facility },
	},
	Categories: map[string]filter.Category[models.Facility]{
		"specialty": {
			Value: func(f models.Facility) string { return f.Specialty },
			Match: filter.Contains,
		},
	},
}

var alertSpec = filter.Spec[models.Alert]{
	Text: []filter.Field[models.Alert]{
		func(a models.Alert) string { return a.Village },
		func(a models.Alert) string { return a.Type },
		func(a models.Alert) string { return a.Message },
	},
	Categories: map[string]filter.Category[models.Alert]{
		"severity": {Value: func(a models.Alert) string { return string(a.Severity) }},
		"status":   {Value: func(a models.Alert) string { return string(a.Status) }},
		"village":  {Value: func(a models.Alert) string { return a.Village }},
		TabKey: {
			Value: func(a models.Alert) string { return string(a.Status) },
			Match: matchAlertTab,
		},
	},
}

func matchAlertTab(status, tab string) bool {
	switch tab {
	case TabActive:
		return models.IsOpenStatus(models.AlertStatus(status))
	case TabResolved:
		return models.AlertStatus(status) == models.AlertStatusResolved
	default:
		return false
	}
}

var healthReportSpec = filter.Spec[models.HealthReport]{
	Text: []filter.Field[models.HealthReport]{
		func(r models.HealthReport) string { return r.ReporterName },
		func(r models.HealthReport) string { return r.Village },
		func(r models.HealthReport) string { return r.Description },
	},
	Categories: map[string]filter.Category[models.HealthReport]{
		"severity": {Value: func(r models.HealthReport) string { return string(r.Severity) }},
		"village":  {Value: func(r models.HealthReport) string { return r.Village }},
		"status":   {Value: func(r models.HealthReport) string { return r.Status }},
	},
}

var systemReportSpec = filter.Spec[models.SystemReport]{
	Text: []filter.Field[models.SystemReport]{
		func(r models.SystemReport) string { return r.Type },
		func(r models.SystemReport) string { return r.Village },
		func(r models.SystemReport) string { return r.Description },
	},
	Categories: map[string]filter.Category[models.SystemReport]{
		"severity": {Value: func(r models.SystemReport) string { return string(r.Severity) }},
		"village":  {Value: func(r models.SystemReport) string { return r.Village }},
		"status":   {Value: func(r models.SystemReport) string { return r.Status }},
	},
}

var deviceSpec = filter.Spec[models.Device]{
	Text: []filter.Field[models.Device]{
		func(d models.Device) string { return d.Name },
		func(d models.Device) string { return d.ID },
		func(d models.Device) string { return d.Village },
	},
	Categories: map[string]filter.Category[models.Device]{
		"status":  {Value: func(d models.Device) string { return string(d.Status) }},
		"village": {Value: func(d models.Device) string { return d.Village }},
	},
}
