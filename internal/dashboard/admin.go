package dashboard

import (
	"context"
	"fmt"
	"slices"

	"github.com/mr1hm/hydrosense/internal/filter"
	"github.com/mr1hm/hydrosense/internal/models"
	"github.com/mr1hm/hydrosense/internal/summary"
)

const recentAlertLimit = 4

type KPIs struct {
	ActiveAlerts   int `json:"active_alerts"`
	VillagesAtRisk int `json:"villages_at_risk"`
	ActiveCases    int `json:"active_cases"`
	DevicesOnline  int `json:"devices_online"`
	TotalDevices   int `json:"total_devices"`
	Uptime         int `json:"uptime"`
}

type OverviewView struct {
	KPIs             KPIs                    `json:"kpis"`
	RecentAlerts     []models.Alert          `json:"recent_alerts"`
	Villages         []models.Village        `json:"villages"`
	Selected         *VillageDetail          `json:"selected,omitempty"`
	RiskDistribution []summary.Bucket        `json:"risk_distribution"`
	Weekly           []models.WeeklyActivity `json:"weekly"`
}

// Overview builds the admin landing page. When selectedID names a village
// its detail panel is included.
func (s *Service) Overview(ctx context.Context, selectedID string) (*OverviewView, error) {
	alerts, err := s.repo.ListAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing alerts: %w", err)
	}
	villages, err := s.repo.ListVillages(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing villages: %w", err)
	}
	weekly, err := s.repo.ListWeeklyActivity(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing weekly activity: %w", err)
	}

	kpis := KPIs{
		ActiveAlerts: summary.Count(alerts, func(a models.Alert) bool { return a.IsOpen() }),
		VillagesAtRisk: summary.Count(villages, func(v models.Village) bool {
			return v.RiskLevel != models.RiskLow
		}),
		ActiveCases:   summary.Sum(villages, func(v models.Village) int { return v.ActiveCases }),
		DevicesOnline: summary.Sum(villages, func(v models.Village) int { return v.DevicesOnline }),
		TotalDevices:  summary.Sum(villages, func(v models.Village) int { return v.TotalDevices }),
	}
	if kpis.TotalDevices > 0 {
		kpis.Uptime = summary.Round(float64(kpis.DevicesOnline) / float64(kpis.TotalDevices) * 100)
	}

	recent := slices.Clone(alerts)
	slices.SortStableFunc(recent, func(a, b models.Alert) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if len(recent) > recentAlertLimit {
		recent = recent[:recentAlertLimit]
	}

	distribution := summary.GroupCount(villages,
		func(v models.Village) string { return string(v.RiskLevel) },
		riskKeys())

	view := &OverviewView{
		KPIs:             kpis,
		RecentAlerts:     recent,
		Villages:         villages,
		RiskDistribution: distribution,
		Weekly:           weekly,
	}

	if selectedID != "" {
		detail, err := s.Village(ctx, selectedID)
		if err != nil {
			return nil, err
		}
		view.Selected = detail
	}
	return view, nil
}

func riskKeys() []string {
	keys := make([]string, len(models.RiskLevels))
	for i, r := range models.RiskLevels {
		keys[i] = string(r)
	}
	return keys
}

type AlertStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Resolved int `json:"resolved"`
	High     int `json:"high"`
}

type AlertsView struct {
	Search   string         `json:"search"`
	Severity string         `json:"severity"`
	Status   string         `json:"status"`
	Tab      string         `json:"tab"`
	Alerts   []models.Alert `json:"alerts"`
	Stats    AlertStats     `json:"stats"`
}

// Alerts filters the alert board. Stats always cover every alert.
func (s *Service) Alerts(ctx context.Context, c filter.Criteria) (*AlertsView, error) {
	alerts, err := s.repo.ListAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing alerts: %w", err)
	}

	c = withDefault(c, TabKey, TabActive)
	switch c.Categories[TabKey] {
	case TabActive, TabResolved, filter.All:
	default:
		c.Categories[TabKey] = TabActive
	}

	return &AlertsView{
		Search:   c.Search,
		Severity: categoryOrAll(c, "severity"),
		Status:   categoryOrAll(c, "status"),
		Tab:      c.Categories[TabKey],
		Alerts:   filter.Apply(alerts, alertSpec, c),
		Stats: AlertStats{
			Total:  len(alerts),
			Active: summary.Count(alerts, func(a models.Alert) bool { return a.IsOpen() }),
			Resolved: summary.Count(alerts, func(a models.Alert) bool {
				return a.Status == models.AlertStatusResolved
			}),
			High: summary.Count(alerts, func(a models.Alert) bool { return a.Severity == models.SeverityHigh }),
		},
	}, nil
}

func categoryOrAll(c filter.Criteria, key string) string {
	if v := c.Categories[key]; v != "" {
		return v
	}
	return filter.All
}

type VillageTotals struct {
	Villages      int `json:"villages"`
	Population    int `json:"population"`
	ActiveCases   int `json:"active_cases"`
	AverageRisk   int `json:"average_risk"`
	HighRisk      int `json:"high_risk"`
	DevicesOnline int `json:"devices_online"`
	TotalDevices  int `json:"total_devices"`
}

type VillagesView struct {
	Search   string           `json:"search"`
	Risk     string           `json:"risk"`
	View     string           `json:"view"`
	Villages []models.Village `json:"villages"`
	Visible  int              `json:"visible"`
	Totals   VillageTotals    `json:"totals"`
}

// Villages filters the village list. Totals cover the full collection and
// Visible counts the filtered one.
func (s *Service) Villages(ctx context.Context, c filter.Criteria) (*VillagesView, error) {
	villages, err := s.repo.ListVillages(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing villages: %w", err)
	}

	visible := filter.Apply(villages, villageSpec, c)
	return &VillagesView{
		Search:   c.Search,
		Risk:     categoryOrAll(c, "risk"),
		Villages: visible,
		Visible:  len(visible),
		Totals: VillageTotals{
			Villages:    len(villages),
			Population:  summary.Sum(villages, func(v models.Village) int { return v.Population }),
			ActiveCases: summary.Sum(villages, func(v models.Village) int { return v.ActiveCases }),
			AverageRisk: summary.Average(villages, func(v models.Village) int { return v.RiskPercentage }),
			HighRisk: summary.Count(villages, func(v models.Village) bool {
				return v.RiskLevel == models.RiskHigh
			}),
			DevicesOnline: summary.Sum(villages, func(v models.Village) int { return v.DevicesOnline }),
			TotalDevices:  summary.Sum(villages, func(v models.Village) int { return v.TotalDevices }),
		},
	}, nil
}

type VillageDetail struct {
	Village           models.Village        `json:"village"`
	DeviceHealth      string                `json:"device_health"`
	RecommendedAction string                `json:"recommended_action"`
	Alerts            []models.Alert        `json:"alerts"`
	Devices           []models.Device       `json:"devices"`
	Reports           []models.HealthReport `json:"reports"`
}

// Village gathers everything known about one village. Related records are
// matched on the village name.
func (s *Service) Village(ctx context.Context, id string) (*VillageDetail, error) {
	v, err := s.repo.GetVillage(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	alerts, err := s.repo.ListAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing alerts: %w", err)
	}
	devices, err := s.repo.ListDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing devices: %w", err)
	}
	reports, err := s.repo.ListHealthReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing health reports: %w", err)
	}

	byVillage := filter.Criteria{Categories: map[string]string{"village": v.Name}}
	return &VillageDetail{
		Village:           *v,
		DeviceHealth:      v.DeviceHealth(),
		RecommendedAction: v.RecommendedAction(),
		Alerts:            filter.Apply(alerts, alertSpec, byVillage),
		Devices:           filter.Apply(devices, deviceSpec, byVillage),
		Reports:           filter.Apply(reports, healthReportSpec, byVillage),
	}, nil
}

type ReportStats struct {
	HealthReports        int `json:"health_reports"`
	SystemReports        int `json:"system_reports"`
	ActiveInvestigations int `json:"active_investigations"`
	HighPriority         int `json:"high_priority"`
}

type ReportsView struct {
	Search        string                `json:"search"`
	Severity      string                `json:"severity"`
	Village       string                `json:"village"`
	Status        string                `json:"status"`
	Tab           string                `json:"tab"`
	HealthReports []models.HealthReport `json:"health_reports"`
	SystemReports []models.SystemReport `json:"system_reports"`
	Villages      []string              `json:"village_options"`
	Stats         ReportStats           `json:"stats"`
}

// Reports filters both report lists with the same criteria. Tab only picks
// which list is shown.
func (s *Service) Reports(ctx context.Context, c filter.Criteria) (*ReportsView, error) {
	health, err := s.repo.ListHealthReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing health reports: %w", err)
	}
	system, err := s.repo.ListSystemReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing system reports: %w", err)
	}

	tab := c.Categories[TabKey]
	if tab != TabSystem {
		tab = TabHealth
	}

	names := make([]string, 0, len(health)+len(system))
	for _, r := range health {
		names = append(names, r.Village)
	}
	for _, r := range system {
		names = append(names, r.Village)
	}

	high := summary.Count(health, func(r models.HealthReport) bool { return r.Severity == models.SeverityHigh }) +
		summary.Count(system, func(r models.SystemReport) bool { return r.Severity == models.SeverityHigh })

	return &ReportsView{
		Search:        c.Search,
		Severity:      categoryOrAll(c, "severity"),
		Village:       categoryOrAll(c, "village"),
		Status:        categoryOrAll(c, "status"),
		Tab:           tab,
		HealthReports: filter.Apply(health, healthReportSpec, c),
		SystemReports: filter.Apply(system, systemReportSpec, c),
		Villages:      summary.Distinct(names, func(n string) string { return n }),
		Stats: ReportStats{
			HealthReports: len(health),
			SystemReports: len(system),
			ActiveInvestigations: summary.Count(health, func(r models.HealthReport) bool {
				return r.UnderInvestigation()
			}),
			HighPriority: high,
		},
	}, nil
}

type DeviceStats struct {
	Total          int `json:"total"`
	Online         int `json:"online"`
	Warning        int `json:"warning"`
	Offline        int `json:"offline"`
	AverageBattery int `json:"average_battery"`
}

type DevicesView struct {
	Search   string          `json:"search"`
	Status   string          `json:"status"`
	Village  string          `json:"village"`
	Devices  []models.Device `json:"devices"`
	Villages []string        `json:"village_options"`
	Stats    DeviceStats     `json:"stats"`
}

func (s *Service) Devices(ctx context.Context, c filter.Criteria) (*DevicesView, error) {
	devices, err := s.repo.ListDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing devices: %w", err)
	}

	countStatus := func(st models.DeviceStatus) int {
		return summary.Count(devices, func(d models.Device) bool { return d.Status == st })
	}
	return &DevicesView{
		Search:   c.Search,
		Status:   categoryOrAll(c, "status"),
		Village:  categoryOrAll(c, "village"),
		Devices:  filter.Apply(devices, deviceSpec, c),
		Villages: summary.Distinct(devices, func(d models.Device) string { return d.Village }),
		Stats: DeviceStats{
			Total:          len(devices),
			Online:         countStatus(models.DeviceStatusOnline),
			Warning:        countStatus(models.DeviceStatusWarning),
			Offline:        countStatus(models.DeviceStatusOffline),
			AverageBattery: summary.Average(devices, func(d models.Device) int { return d.BatteryLevel }),
		},
	}, nil
}

type SensorView struct {
	Kind    models.SensorKind `json:"kind"`
	Reading models.Reading    `json:"reading"`
}

type DeviceDetail struct {
	Device      models.Device      `json:"device"`
	SignalBars  int                `json:"signal_bars"`
	BatteryBand models.BatteryBand `json:"battery_band"`
	Sensors     []SensorView       `json:"sensors"`
}

func (s *Service) Device(ctx context.Context, id string) (*DeviceDetail, error) {
	d, err := s.repo.GetDevice(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	kinds := d.Sensors.Installed()
	sensors := make([]SensorView, len(kinds))
	for i, k := range kinds {
		sensors[i] = SensorView{Kind: k, Reading: d.Sensors[k]}
	}
	return &DeviceDetail{
		Device:      *d,
		SignalBars:  d.SignalBars(),
		BatteryBand: d.BatteryBand(),
		Sensors:     sensors,
	}, nil
}
