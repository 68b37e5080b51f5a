package models

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

type Demographics struct {
	Children int `json:"children" yaml:"children"`
	Adults   int `json:"adults" yaml:"adults"`
	Elderly  int `json:"elderly" yaml:"elderly"`
}

type Infrastructure struct {
	WaterSources     int `json:"water_sources" yaml:"water_sources"`
	HealthFacilities int `json:"health_facilities" yaml:"health_facilities"`
	Schools          int `json:"schools" yaml:"schools"`
}

type TrendPoint struct {
	Day   string `json:"day" yaml:"day"`
	Risk  int    `json:"risk" yaml:"risk"`
	Cases int    `json:"cases" yaml:"cases"`
}

// Village is a monitored settlement. RiskLevel and RiskPercentage are
// supplied independently by the risk model and are not derived from each
// other.
type Village struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	LocalName      string         `json:"local_name" yaml:"local_name"`
	District       string         `json:"district" yaml:"district"`
	LocalDistrict  string         `json:"local_district" yaml:"local_district"`
	Population     int            `json:"population" yaml:"population"`
	RiskLevel      RiskLevel      `json:"risk_level" yaml:"risk_level"`
	RiskPercentage int            `json:"risk_percentage" yaml:"risk_percentage"`
	ActiveCases    int            `json:"active_cases" yaml:"active_cases"`
	DevicesOnline  int            `json:"devices_online" yaml:"devices_online"`
	TotalDevices   int            `json:"total_devices" yaml:"total_devices"`
	HealthWorkers  int            `json:"health_workers" yaml:"health_workers"`
	LastUpdate     string         `json:"last_update" yaml:"last_update"`
	Coordinates    Coordinates    `json:"coordinates" yaml:"coordinates"`
	Demographics   Demographics   `json:"demographics" yaml:"demographics"`
	Infrastructure Infrastructure `json:"infrastructure" yaml:"infrastructure"`
	WeeklyTrend    []TrendPoint   `json:"weekly_trend" yaml:"weekly_trend"`
}

// DeviceHealth summarises how many of the village's stations report in.
func (v *Village) DeviceHealth() string {
	if v.TotalDevices > 0 {
		pct := float64(v.DevicesOnline) / float64(v.TotalDevices) * 100
		switch {
		case pct == 100:
			return "All Online"
		case pct >= 80:
			return "Mostly Online"
		}
	}
	return "Issues Detected"
}

func (v *Village) RecommendedAction() string {
	switch v.RiskLevel {
	case RiskHigh:
		return "Assign Worker"
	case RiskMedium:
		return "Monitor"
	default:
		return "Routine Check"
	}
}
