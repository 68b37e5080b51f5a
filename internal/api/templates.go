package api

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/mr1hm/hydrosense/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("Jan 2, 2006 15:04")
	},
	"join":  strings.Join,
	"lower": strings.ToLower,
	"list":  func(items ...string) []string { return items },
	"reading": func(r models.Reading) string {
		if !r.HasData() {
			return string(models.SensorStatusNoData)
		}
		return fmt.Sprintf("%g %s", *r.Value, r.Unit)
	},
	"signal":       func(d models.Device) int { return d.SignalBars() },
	"battery":      func(d models.Device) string { return string(d.BatteryBand()) },
	"deviceHealth": func(v models.Village) string { return v.DeviceHealth() },
	"action":       func(v models.Village) string { return v.RecommendedAction() },
	"open":         func(a models.Alert) bool { return a.IsOpen() },
}

// parseTemplates panics on a malformed template.
func parseTemplates() *template.Template {
	return template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl"))
}
