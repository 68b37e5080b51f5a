package models

import (
	"fmt"
	"time"
)

type DeviceStatus string

const (
	DeviceStatusOnline  DeviceStatus = "Online"
	DeviceStatusWarning DeviceStatus = "Warning"
	DeviceStatusOffline DeviceStatus = "Offline"
)

// SensorKind is the closed set of water-quality sensors a station can carry.
type SensorKind string

const (
	SensorTurbidity   SensorKind = "turbidity"
	SensorPH          SensorKind = "ph"
	SensorTemperature SensorKind = "temperature"
	SensorChlorine    SensorKind = "chlorine"
)

var SensorKinds = []SensorKind{SensorTurbidity, SensorPH, SensorTemperature, SensorChlorine}

func ParseSensorKind(s string) (SensorKind, error) {
	for _, k := range SensorKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sensor kind: %q", s)
}

type SensorStatus string

const (
	SensorStatusNormal   SensorStatus = "Normal"
	SensorStatusLow      SensorStatus = "Low"
	SensorStatusHigh     SensorStatus = "High"
	SensorStatusCritical SensorStatus = "Critical"
	SensorStatusNoData   SensorStatus = "No Data"
)

// Reading is the latest value of one sensor. A nil Value means the station
// is equipped with the sensor but has not reported.
type Reading struct {
	Value  *float64     `json:"value" yaml:"value"`
	Unit   string       `json:"unit" yaml:"unit"`
	Status SensorStatus `json:"status" yaml:"status"`
}

func (r Reading) HasData() bool {
	return r.Value != nil
}

// Sensors maps each installed sensor to its latest reading. Kinds missing
// from the map are not installed on the station.
type Sensors map[SensorKind]Reading

// Installed returns the installed sensor kinds in canonical order.
func (s Sensors) Installed() []SensorKind {
	kinds := make([]SensorKind, 0, len(s))
	for _, k := range SensorKinds {
		if _, ok := s[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func (s Sensors) Validate() error {
	for k := range s {
		if _, err := ParseSensorKind(string(k)); err != nil {
			return err
		}
	}
	return nil
}

type HistoryPoint struct {
	Time   string                 `json:"time" yaml:"time"`
	Values map[SensorKind]float64 `json:"values" yaml:"values"`
}

type DeviceAlert struct {
	Type      string    `json:"type" yaml:"type"`
	Severity  Severity  `json:"severity" yaml:"severity"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

type Device struct {
	ID                   string         `json:"id" yaml:"id"`
	Name                 string         `json:"name" yaml:"name"`
	Village              string         `json:"village" yaml:"village"`
	Type                 string         `json:"type" yaml:"type"`
	Status               DeviceStatus   `json:"status" yaml:"status"`
	BatteryLevel         int            `json:"battery_level" yaml:"battery_level"`
	SignalStrength       int            `json:"signal_strength" yaml:"signal_strength"`
	LastUpdate           time.Time      `json:"last_update" yaml:"last_update"`
	Location             Coordinates    `json:"location" yaml:"location"`
	Firmware             string         `json:"firmware" yaml:"firmware"`
	InstallDate          string         `json:"install_date" yaml:"install_date"`
	MaintenanceScheduled string         `json:"maintenance_scheduled" yaml:"maintenance_scheduled"`
	Sensors              Sensors        `json:"sensors" yaml:"sensors"`
	Alerts               []DeviceAlert  `json:"alerts" yaml:"alerts"`
	History              []HistoryPoint `json:"history" yaml:"history"`
}

// SignalBars maps signal strength onto a 1-4 bar indicator.
func (d *Device) SignalBars() int {
	switch {
	case d.SignalStrength > 80:
		return 4
	case d.SignalStrength > 60:
		return 3
	case d.SignalStrength > 40:
		return 2
	default:
		return 1
	}
}

type BatteryBand string

const (
	BatteryGood BatteryBand = "good"
	BatteryFair BatteryBand = "fair"
	BatteryLow  BatteryBand = "low"
)

func (d *Device) BatteryBand() BatteryBand {
	switch {
	case d.BatteryLevel > 50:
		return BatteryGood
	case d.BatteryLevel > 20:
		return BatteryFair
	default:
		return BatteryLow
	}
}
