package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/hydrosense/internal/dashboard"
)

func (h *Handler) landing(c *gin.Context) {
	view, err := h.svc.Landing(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "landing.tmpl", page{Title: "HydroSense", Section: "public", View: view})
}

func (h *Handler) signIn(c *gin.Context) {
	h.renderSignIn(c, c.Query("q"))
}

func (h *Handler) renderSignIn(c *gin.Context, search string) {
	view, err := h.svc.SignIn(c.Request.Context(), search)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "signin.tmpl", page{Title: "Select your village", Section: "citizen", View: view})
}

// continueSignIn moves to the dashboard of the chosen village. Without a
// valid choice the sign-in page is shown again.
func (h *Handler) continueSignIn(c *gin.Context) {
	id := strings.TrimSpace(c.PostForm("village_id"))
	if id == "" {
		h.renderSignIn(c, c.PostForm("q"))
		return
	}

	v, err := h.svc.ResolveVillage(c.Request.Context(), id)
	if errors.Is(err, dashboard.ErrNotFound) {
		h.renderSignIn(c, c.PostForm("q"))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	navigate(c, "/citizen/dashboard", map[string]string{"village": v.ID})
}

func (h *Handler) citizenDashboard(c *gin.Context) {
	view, err := h.svc.CitizenDashboard(c.Request.Context(), c.Query("village"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "citizen_dashboard.tmpl", page{
		Title:   view.Village.Name,
		Section: "citizen",
		Active:  "dashboard",
		View:    view,
	})
}

func (h *Handler) treatment(c *gin.Context) {
	view, err := h.svc.Treatment(c.Request.Context(), c.Query("q"), c.Query("specialty"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "treatment.tmpl", page{
		Title:   "Treatment & Doctors",
		Section: "citizen",
		Active:  "treatment",
		View:    view,
	})
}
