package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/mr1hm/hydrosense/internal/fixtures"
	"github.com/mr1hm/hydrosense/internal/models"
)

// Record kinds stored in the records table.
const (
	kindVillage      = "village"
	kindAlert        = "alert"
	kindAdvisory     = "advisory"
	kindDevice       = "device"
	kindHealthReport = "health_report"
	kindSystemReport = "system_report"
	kindUser         = "user"
	kindSettings     = "settings"
	kindFacility     = "facility"
	kindAdvice       = "advice"
	kindContact      = "contact"
	kindReading      = "reading"
	kindWeekly       = "weekly_activity"
	kindLandingStat  = "landing_stat"
	kindDisease      = "disease"
	kindPrevention   = "prevention"
)

const singletonID = "default"

// SQLiteDB stores each record as a JSON document keyed by kind and id.
type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// every connection to :memory: opens its own empty database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS records (
			kind TEXT NOT NULL,
			id TEXT NOT NULL,
			body BLOB NOT NULL,
			PRIMARY KEY (kind, id)
		);

		CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Seed replaces the stored records with the data pack in one transaction,
// so seeding an existing file again leaves exactly one copy.
func (s *SQLiteDB) Seed(ctx context.Context, ds *fixtures.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting seed transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("error clearing records: %w", err)
	}

	steps := []func() error{
		func() error { return insertAll(ctx, tx, kindVillage, ds.Villages, villageID) },
		func() error { return insertAll(ctx, tx, kindAlert, ds.Alerts, alertID) },
		func() error { return insertAll(ctx, tx, kindAdvisory, ds.Advisories, advisoryID) },
		func() error { return insertAll(ctx, tx, kindDevice, ds.Devices, deviceID) },
		func() error { return insertAll(ctx, tx, kindHealthReport, ds.HealthReports, healthReportID) },
		func() error { return insertAll(ctx, tx, kindSystemReport, ds.SystemReports, systemReportID) },
		func() error { return insertAll(ctx, tx, kindUser, ds.Users, userID) },
		func() error { return insertAll(ctx, tx, kindFacility, ds.Facilities, facilityID) },
		func() error { return insertAll(ctx, tx, kindAdvice, ds.Advice, byPosition[models.TreatmentAdvice]) },
		func() error { return insertAll(ctx, tx, kindContact, ds.Contacts, byPosition[models.EmergencyContact]) },
		func() error { return insertAll(ctx, tx, kindReading, ds.Readings, byPosition[models.SensorSample]) },
		func() error { return insertAll(ctx, tx, kindWeekly, ds.WeeklyTrend, byPosition[models.WeeklyActivity]) },
		func() error { return insertAll(ctx, tx, kindLandingStat, ds.LandingStats, byPosition[models.LandingStat]) },
		func() error { return insertAll(ctx, tx, kindDisease, ds.Diseases, byPosition[models.Disease]) },
		func() error { return put(ctx, tx, kindSettings, singletonID, ds.Settings) },
		func() error { return put(ctx, tx, kindPrevention, singletonID, ds.Prevention) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("error seeding database: %w", err)
		}
	}

	return tx.Commit()
}

func villageID(_ int, v models.Village) string { return v.ID }
func alertID(_ int, a models.Alert) string { return strconv.Itoa(a.ID) }
func advisoryID(_ int, a models.Advisory) string { return strconv.Itoa(a.ID) }
func deviceID(_ int, d models.Device) string { return d.ID }
func healthReportID(_ int, r models.HealthReport) string { return r.ID }
func systemReportID(_ int, r models.SystemReport) string { return r.ID }
func userID(_ int, u models.User) string { return strconv.Itoa(u.ID) }
func facilityID(_ int, f models.Facility) string { return strconv.Itoa(f.ID) }

func (s *SQLiteDB) ListVillages(ctx context.Context) ([]models.Village, error) {
	return list[models.Village](ctx, s.db, kindVillage)
}

func (s *SQLiteDB) GetVillage(ctx context.Context, id string) (*models.Village, error) {
	return get[models.Village](ctx, s.db, kindVillage, id)
}

func (s *SQLiteDB) ListAlerts(ctx context.Context) ([]models.Alert, error) {
	return list[models.Alert](ctx, s.db, kindAlert)
}

func (s *SQLiteDB) ListDevices(ctx context.Context) ([]models.Device, error) {
	return list[models.Device](ctx, s.db, kindDevice)
}

func (s *SQLiteDB) GetDevice(ctx context.Context, id string) (*models.Device, error) {
	return get[models.Device](ctx, s.db, kindDevice, id)
}

func (s *SQLiteDB) ListHealthReports(ctx context.Context) ([]models.HealthReport, error) {
	return list[models.HealthReport](ctx, s.db, kindHealthReport)
}

func (s *SQLiteDB) ListSystemReports(ctx context.Context) ([]models.SystemReport, error) {
	return list[models.SystemReport](ctx, s.db, kindSystemReport)
}

func (s *SQLiteDB) ListUsers(ctx context.Context) ([]models.User, error) {
	return list[models.User](ctx, s.db, kindUser)
}

func (s *SQLiteDB) AddUser(ctx context.Context, u *models.User) error {
	body, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("error encoding user: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO records (kind, id, body) VALUES (?, ?, ?) ON CONFLICT (kind, id) DO NOTHING`,
		kindUser, strconv.Itoa(u.ID), body)
	if err != nil {
		return fmt.Errorf("error adding user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error adding user: %w", err)
	}
	if n == 0 {
		return ErrDuplicate
	}
	return nil
}

func (s *SQLiteDB) GetSettings(ctx context.Context) (models.SystemConfig, error) {
	cfg, err := get[models.SystemConfig](ctx, s.db, kindSettings, singletonID)
	if errors.Is(err, ErrNotFound) {
		return models.SystemConfig{}, nil
	}
	if err != nil {
		return models.SystemConfig{}, err
	}
	return *cfg, nil
}

func (s *SQLiteDB) SaveSettings(ctx context.Context, cfg models.SystemConfig) error {
	if err := put(ctx, s.db, kindSettings, singletonID, cfg); err != nil {
		return fmt.Errorf("error saving settings: %w", err)
	}
	return nil
}

func (s *SQLiteDB) ListAdvisories(ctx context.Context) ([]models.Advisory, error) {
	return list[models.Advisory](ctx, s.db, kindAdvisory)
}

func (s *SQLiteDB) ListReadings(ctx context.Context) ([]models.SensorSample, error) {
	return list[models.SensorSample](ctx, s.db, kindReading)
}

func (s *SQLiteDB) ListFacilities(ctx context.Context) ([]models.Facility, error) {
	return list[models.Facility](ctx, s.db, kindFacility)
}

func (s *SQLiteDB) ListAdvice(ctx context.Context) ([]models.TreatmentAdvice, error) {
	return list[models.TreatmentAdvice](ctx, s.db, kindAdvice)
}

func (s *SQLiteDB) ListContacts(ctx context.Context) ([]models.EmergencyContact, error) {
	return list[models.EmergencyContact](ctx, s.db, kindContact)
}

func (s *SQLiteDB) ListWeeklyActivity(ctx context.Context) ([]models.WeeklyActivity, error) {
	return list[models.WeeklyActivity](ctx, s.db, kindWeekly)
}

func (s *SQLiteDB) ListLandingStats(ctx context.Context) ([]models.LandingStat, error) {
	return list[models.LandingStat](ctx, s.db, kindLandingStat)
}

func (s *SQLiteDB) ListDiseases(ctx context.Context) ([]models.Disease, error) {
	return list[models.Disease](ctx, s.db, kindDisease)
}

func (s *SQLiteDB) GetPrevention(ctx context.Context) (models.PreventionTips, error) {
	tips, err := get[models.PreventionTips](ctx, s.db, kindPrevention, singletonID)
	if errors.Is(err, ErrNotFound) {
		return models.PreventionTips{}, nil
	}
	if err != nil {
		return models.PreventionTips{}, err
	}
	return *tips, nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func byPosition[T any](i int, _ T) string {
	return strconv.Itoa(i)
}

func insertAll[T any](ctx context.Context, ex execer, kind string, items []T, id func(int, T) string) error {
	for i, it := range items {
		body, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("error encoding %s: %w", kind, err)
		}
		if _, err := ex.ExecContext(ctx,
			`INSERT INTO records (kind, id, body) VALUES (?, ?, ?)`,
			kind, id(i, it), body); err != nil {
			return fmt.Errorf("error inserting %s %s: %w", kind, id(i, it), err)
		}
	}
	return nil
}

func put(ctx context.Context, ex execer, kind, id string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", kind, err)
	}
	_, err = ex.ExecContext(ctx, `
		INSERT INTO records (kind, id, body) VALUES (?, ?, ?)
		ON CONFLICT (kind, id) DO UPDATE SET body = excluded.body`,
		kind, id, body)
	return err
}

// list returns every record of kind in insertion order.
func list[T any](ctx context.Context, db *sql.DB, kind string) ([]T, error) {
	rows, err := db.QueryContext(ctx, `SELECT body FROM records WHERE kind = ? ORDER BY rowid`, kind)
	if err != nil {
		return nil, fmt.Errorf("error listing %s records: %w", kind, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("error scanning %s record: %w", kind, err)
		}
		var v T
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("error decoding %s record: %w", kind, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error listing %s records: %w", kind, err)
	}
	return out, nil
}

func get[T any](ctx context.Context, db *sql.DB, kind, id string) (*T, error) {
	var body []byte
	err := db.QueryRowContext(ctx, `SELECT body FROM records WHERE kind = ? AND id = ?`, kind, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching %s %s: %w", kind, id, err)
	}
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("error decoding %s %s: %w", kind, id, err)
	}
	return &v, nil
}
