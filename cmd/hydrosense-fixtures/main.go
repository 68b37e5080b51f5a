// Command hydrosense-fixtures checks the embedded data pack: it validates
// the fixtures, seeds them into the SQLite provider at DB_PATH and logs the
// headline figures read back from it.
package main

import (
	"context"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/mr1hm/hydrosense/internal/config"
	"github.com/mr1hm/hydrosense/internal/fixtures"
	"github.com/mr1hm/hydrosense/internal/logging"
	"github.com/mr1hm/hydrosense/internal/models"
	"github.com/mr1hm/hydrosense/internal/repository"
	"github.com/mr1hm/hydrosense/internal/summary"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	ds, err := fixtures.Load()
	if err != nil {
		logging.Fatalf("Invalid fixtures: %v", err)
	}

	db, err := repository.NewSQLiteDB(cfg.Data.DBPath)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Seed(ctx, ds); err != nil {
		logging.Fatalf("Failed to seed database: %v", err)
	}
	slog.Info("database seeded", "path", cfg.Data.DBPath)

	villages, err := db.ListVillages(ctx)
	if err != nil {
		logging.Fatalf("Failed to list villages: %v", err)
	}
	alerts, err := db.ListAlerts(ctx)
	if err != nil {
		logging.Fatalf("Failed to list alerts: %v", err)
	}
	devices, err := db.ListDevices(ctx)
	if err != nil {
		logging.Fatalf("Failed to list devices: %v", err)
	}

	slog.Info("village totals",
		"villages", len(villages),
		"population", summary.Sum(villages, func(v models.Village) int { return v.Population }),
		"active_cases", summary.Sum(villages, func(v models.Village) int { return v.ActiveCases }),
		"average_risk", summary.Average(villages, func(v models.Village) int { return v.RiskPercentage }),
	)
	for _, b := range summary.GroupCount(villages,
		func(v models.Village) string { return string(v.RiskLevel) },
		[]string{string(models.RiskLow), string(models.RiskMedium), string(models.RiskHigh)}) {
		slog.Info("risk distribution", "level", b.Key, "villages", b.Count)
	}
	slog.Info("alert and device totals",
		"alerts", len(alerts),
		"open_alerts", summary.Count(alerts, func(a models.Alert) bool { return a.IsOpen() }),
		"devices", len(devices),
		"device_villages", len(summary.Distinct(devices, func(d models.Device) string { return d.Village })),
		"average_battery", summary.Average(devices, func(d models.Device) int { return d.BatteryLevel }),
	)
}
