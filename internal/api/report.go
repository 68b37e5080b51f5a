package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/hydrosense/internal/wizard"
)

const draftCookie = "hydrosense_report"

var errDraftExpired = errors.New("report draft expired")

// Report form actions.
const (
	actionNext     = "next"
	actionPrevious = "previous"
	actionSubmit   = "submit"
	actionCancel   = "cancel"
	actionToggle   = "toggle"
)

type reportView struct {
	Step       wizard.Step     `json:"step"`
	StepName   string          `json:"step_name"`
	Progress   int             `json:"progress"`
	Valid      bool            `json:"valid"`
	Submitted  bool            `json:"submitted"`
	Answer     wizard.Answer   `json:"answer"`
	Village    string          `json:"village,omitempty"`
	Symptoms   []wizard.Option `json:"symptom_options"`
	Severities []wizard.Option `json:"severity_options"`
	Durations  []wizard.Option `json:"duration_options"`
}

func snapshot(ctrl *wizard.Controller, village string) reportView {
	return reportView{
		Step:       ctrl.Step(),
		StepName:   ctrl.Step().String(),
		Progress:   ctrl.Progress(),
		Valid:      ctrl.Valid(),
		Submitted:  ctrl.Step() == wizard.Submitted,
		Answer:     ctrl.Answer(),
		Village:    village,
		Symptoms:   wizard.SymptomOptions,
		Severities: wizard.SeverityOptions,
		Durations:  wizard.DurationOptions,
	}
}

// openDraft resumes the visitor's draft or starts a new one, refreshing
// the cookie either way.
func (h *Handler) openDraft(c *gin.Context) string {
	id, _ := c.Cookie(draftCookie)
	id = h.drafts.Open(id)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(draftCookie, id, int(h.opts.DraftTTL/time.Second), "/citizen", "", false, true)
	return id
}

func (h *Handler) report(c *gin.Context) {
	id := h.openDraft(c)
	village := c.Query("village")

	var view reportView
	if !h.drafts.With(id, func(ctrl *wizard.Controller) { view = snapshot(ctrl, village) }) {
		h.fail(c, errDraftExpired)
		return
	}
	h.renderReport(c, view)
}

func (h *Handler) submitReport(c *gin.Context) {
	id := h.openDraft(c)
	village := c.PostForm("village")
	action := c.PostForm("action")

	var (
		view      reportView
		answer    wizard.Answer
		submitted bool
	)
	ok := h.drafts.With(id, func(ctrl *wizard.Controller) {
		if action != actionCancel {
			bindStep(c, ctrl)
		}
		switch action {
		case actionNext:
			ctrl.Next()
		case actionPrevious:
			ctrl.Previous()
		case actionToggle:
			ctrl.ToggleSymptom(c.PostForm("symptom"))
		case actionSubmit:
			answer, submitted = ctrl.Submit()
		case actionCancel:
			ctrl.Reset()
		}
		view = snapshot(ctrl, village)
	})
	if !ok {
		h.fail(c, errDraftExpired)
		return
	}

	switch {
	case action == actionCancel:
		h.drafts.Discard(id)
		navigate(c, "/citizen/dashboard", villageState(village))
	case submitted:
		h.drafts.Discard(id)
		slog.Info("symptom report submitted",
			"patients", answer.PatientCount,
			"symptoms", len(answer.Symptoms),
			"severity", answer.Severity,
			"duration", answer.Duration,
		)
		h.renderReport(c, view)
	default:
		h.renderReport(c, view)
	}
}

func (h *Handler) renderReport(c *gin.Context, view reportView) {
	p := page{
		Title:   "Report Symptoms",
		Section: "citizen",
		Active:  "report",
		View:    view,
	}
	if view.Submitted {
		p.Toast = &wizard.SubmittedNotification
		target := url.URL{Path: "/citizen/dashboard"}
		if view.Village != "" {
			target.RawQuery = url.Values{"village": {view.Village}}.Encode()
		}
		p.Refresh = &refresh{URL: target.String(), Seconds: int(h.opts.RedirectDelay.Round(time.Second) / time.Second)}
	}
	h.render(c, http.StatusOK, "report.tmpl", p)
}

// bindStep copies the posted fields of the active step into the draft.
// Fields missing from the form are left as they are.
func bindStep(c *gin.Context, ctrl *wizard.Controller) {
	switch ctrl.Step() {
	case wizard.Step1:
		if ids, ok := c.GetPostFormArray("symptoms"); ok {
			ctrl.SetSymptoms(ids)
		}
		ctrl.Update(func(a *wizard.Answer) {
			setField(c, "patient_count", &a.PatientCount)
			setField(c, "location", &a.Location)
		})
	case wizard.Step2:
		ctrl.Update(func(a *wizard.Answer) {
			setField(c, "severity", &a.Severity)
			setField(c, "duration", &a.Duration)
			setField(c, "additional_info", &a.AdditionalInfo)
		})
	case wizard.Step3:
		ctrl.Update(func(a *wizard.Answer) {
			setField(c, "contact_name", &a.ContactName)
			setField(c, "contact_phone", &a.ContactPhone)
			// Only the file name is kept with the draft.
			if fh, err := c.FormFile("photo"); err == nil {
				a.Photo = fh.Filename
			}
		})
	}
}

func setField(c *gin.Context, key string, dst *string) {
	if v, ok := c.GetPostForm(key); ok {
		*dst = v
	}
}

func villageState(village string) map[string]string {
	if village == "" {
		return nil
	}
	return map[string]string{"village": village}
}
