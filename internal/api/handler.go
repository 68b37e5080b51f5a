package api

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/mr1hm/hydrosense/internal/dashboard"
	"github.com/mr1hm/hydrosense/internal/notify"
	"github.com/mr1hm/hydrosense/internal/wizard"
)

var offered = []string{binding.MIMEHTML, binding.MIMEJSON}

type Options struct {
	// RedirectDelay is how long the report confirmation stays up before
	// returning to the citizen dashboard.
	RedirectDelay  time.Duration
	DraftTTL       time.Duration
	AllowedOrigins []string
}

type Handler struct {
	svc         *dashboard.Service
	drafts      *wizard.Drafts
	broadcaster *notify.Broadcaster
	templates   *template.Template
	opts        Options
}

func NewHandler(svc *dashboard.Service, drafts *wizard.Drafts, broadcaster *notify.Broadcaster, opts Options) *Handler {
	return &Handler{
		svc:         svc,
		drafts:      drafts,
		broadcaster: broadcaster,
		templates:   parseTemplates(),
		opts:        opts,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(h.templates)

	r.GET("/", h.landing)
	r.GET("/health", h.health)
	r.GET("/ws/notifications", h.notifications)

	citizen := r.Group("/citizen")
	citizen.GET("", h.signIn)
	citizen.POST("", h.continueSignIn)
	citizen.GET("/dashboard", h.citizenDashboard)
	citizen.GET("/report", h.report)
	citizen.POST("/report", h.submitReport)
	citizen.GET("/treatment", h.treatment)

	admin := r.Group("/admin")
	admin.GET("", h.overview)
	admin.GET("/alerts", h.alerts)
	admin.GET("/villages", h.villages)
	admin.GET("/villages/:id", h.village)
	admin.GET("/reports", h.reports)
	admin.GET("/devices", h.devices)
	admin.GET("/devices/:id", h.device)
	admin.GET("/settings", h.settings)
	admin.POST("/settings", h.saveSettings)
	admin.POST("/settings/users", h.addUser)

	r.NoRoute(h.notFound)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// page is the data every HTML template receives. JSON responses carry only
// View.
type page struct {
	Title   string
	Section string
	Active  string
	Toast   *dashboard.Notification
	Refresh *refresh
	View    any
}

type refresh struct {
	URL     string
	Seconds int
}

func (h *Handler) render(c *gin.Context, status int, name string, p page) {
	c.Negotiate(status, gin.Negotiate{
		Offered:  offered,
		HTMLName: name,
		HTMLData: p,
		JSONData: p.View,
	})
}

// fail maps service errors onto responses. Not-found errors become the 404
// page; anything else is logged and reported as a 500.
func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, dashboard.ErrNotFound) {
		h.notFound(c)
		return
	}
	slog.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	c.Negotiate(http.StatusInternalServerError, gin.Negotiate{
		Offered:  offered,
		HTMLName: "error.tmpl",
		HTMLData: page{Title: "Something went wrong"},
		JSONData: gin.H{"error": "internal server error"},
	})
}

func (h *Handler) notFound(c *gin.Context) {
	slog.Warn("attempted to access non-existent route", "method", c.Request.Method, "path", c.Request.URL.Path)
	c.Negotiate(http.StatusNotFound, gin.Negotiate{
		Offered:  offered,
		HTMLName: "not_found.tmpl",
		HTMLData: page{Title: "Page not found", View: c.Request.URL.Path},
		JSONData: gin.H{"error": "not found"},
	})
}

// navigate redirects to path, carrying state as query parameters.
func navigate(c *gin.Context, path string, state map[string]string) {
	u := url.URL{Path: path}
	if len(state) > 0 {
		q := url.Values{}
		for k, v := range state {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	c.Redirect(http.StatusSeeOther, u.String())
}
