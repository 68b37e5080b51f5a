package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/hydrosense/internal/dashboard"
	"github.com/mr1hm/hydrosense/internal/filter"
)

// criteria reads the search box and the listed category filters from the
// query string.
func criteria(c *gin.Context, keys ...string) filter.Criteria {
	cr := filter.Criteria{
		Search:     c.Query("q"),
		Categories: make(map[string]string, len(keys)),
	}
	for _, k := range keys {
		if v := c.Query(k); v != "" {
			cr.Categories[k] = v
		}
	}
	return cr
}

func adminPage(title, active string, view any) page {
	return page{Title: title, Section: "admin", Active: active, View: view}
}

func (h *Handler) overview(c *gin.Context) {
	view, err := h.svc.Overview(c.Request.Context(), c.Query("village"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin_overview.tmpl", adminPage("Overview", "overview", view))
}

func (h *Handler) alerts(c *gin.Context) {
	view, err := h.svc.Alerts(c.Request.Context(), criteria(c, "severity", "status", "village", dashboard.TabKey))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin_alerts.tmpl", adminPage("Alerts", "alerts", view))
}

func (h *Handler) villages(c *gin.Context) {
	view, err := h.svc.Villages(c.Request.Context(), criteria(c, "risk"))
	if err != nil {
		h.fail(c, err)
		return
	}
	view.View = "table"
	if c.Query("view") == "grid" {
		view.View = "grid"
	}
	h.render(c, http.StatusOK, "admin_villages.tmpl", adminPage("Villages", "villages", view))
}

func (h *Handler) village(c *gin.Context) {
	view, err := h.svc.Village(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin_village.tmpl", adminPage(view.Village.Name, "villages", view))
}

func (h *Handler) reports(c *gin.Context) {
	view, err := h.svc.Reports(c.Request.Context(), criteria(c, "severity", "village", "status", dashboard.TabKey))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin_reports.tmpl", adminPage("Reports", "reports", view))
}

func (h *Handler) devices(c *gin.Context) {
	view, err := h.svc.Devices(c.Request.Context(), criteria(c, "status", "village"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin_devices.tmpl", adminPage("Devices", "devices", view))
}

func (h *Handler) device(c *gin.Context) {
	view, err := h.svc.Device(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin_device.tmpl", adminPage(view.Device.Name, "devices", view))
}

// settingsResult is the JSON shape of a settings form post.
type settingsResult struct {
	Notification dashboard.Notification  `json:"notification"`
	Settings     *dashboard.SettingsView `json:"settings"`
}

func (h *Handler) settings(c *gin.Context) {
	view, err := h.svc.Settings(c.Request.Context(), c.Query("tab"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin_settings.tmpl", adminPage("Settings", "settings", view))
}

func (h *Handler) renderSettings(c *gin.Context, status int, tab string, n dashboard.Notification) {
	view, err := h.svc.Settings(c.Request.Context(), tab)
	if err != nil {
		h.fail(c, err)
		return
	}
	p := adminPage("Settings", "settings", view)
	p.Toast = &n
	c.Negotiate(status, gin.Negotiate{
		Offered:  offered,
		HTMLName: "admin_settings.tmpl",
		HTMLData: p,
		JSONData: settingsResult{Notification: n, Settings: view},
	})
}

// saveSettings applies the posted settings form. Checkboxes post a hidden
// "false" ahead of the box itself, so the last value of a key wins.
func (h *Handler) saveSettings(c *gin.Context) {
	values := make(map[string]string)
	for _, key := range dashboard.SettingsFields {
		if vs, ok := c.GetPostFormArray(key); ok && len(vs) > 0 {
			values[key] = vs[len(vs)-1]
		}
	}

	n, err := h.svc.SaveSettings(c.Request.Context(), values)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderSettings(c, http.StatusOK, c.DefaultPostForm("tab", dashboard.TabThresholds), n)
}

func (h *Handler) addUser(c *gin.Context) {
	var in dashboard.NewUser
	if err := c.ShouldBind(&in); err != nil {
		h.renderSettings(c, http.StatusBadRequest, dashboard.TabUsers, dashboard.Notification{
			Title:       "Error",
			Description: "Please fill in all required fields.",
		})
		return
	}

	n, err := h.svc.AddUser(c.Request.Context(), in)
	switch {
	case errors.Is(err, dashboard.ErrMissingFields):
		h.renderSettings(c, http.StatusUnprocessableEntity, dashboard.TabUsers, n)
	case err != nil:
		h.fail(c, err)
	default:
		h.renderSettings(c, http.StatusOK, dashboard.TabUsers, n)
	}
}
