package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/goleak"

	"github.com/mr1hm/hydrosense/internal/dashboard"
	"github.com/mr1hm/hydrosense/internal/fixtures"
	"github.com/mr1hm/hydrosense/internal/models"
	"github.com/mr1hm/hydrosense/internal/notify"
	"github.com/mr1hm/hydrosense/internal/repository"
	"github.com/mr1hm/hydrosense/internal/wizard"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

func setupRouter(t *testing.T) (*gin.Engine, *notify.Broadcaster) {
	t.Helper()

	ds, err := fixtures.Load()
	if err != nil {
		t.Fatalf("loading fixtures: %v", err)
	}
	b := notify.NewBroadcaster()
	t.Cleanup(b.Close)

	svc := dashboard.NewService(repository.NewMemoryStore(ds), b)
	h := NewHandler(svc, wizard.NewDrafts(b, time.Minute), b, Options{
		RedirectDelay:  2 * time.Second,
		DraftTTL:       time.Minute,
		AllowedOrigins: []string{"*"},
	})

	r := gin.New()
	h.RegisterRoutes(r)
	return r, b
}

type request struct {
	method string
	target string
	form   url.Values
	asJSON bool
	cookie *http.Cookie
}

func serve(r *gin.Engine, req request) *httptest.ResponseRecorder {
	var body *strings.Reader
	if req.form != nil {
		body = strings.NewReader(req.form.Encode())
	} else {
		body = strings.NewReader("")
	}
	httpReq := httptest.NewRequest(req.method, req.target, body)
	if req.form != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if req.asJSON {
		httpReq.Header.Set("Accept", "application/json")
	}
	if req.cookie != nil {
		httpReq.AddCookie(req.cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	r, _ := setupRouter(t)

	w := serve(r, request{method: http.MethodGet, target: "/health"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestPages_RenderHTML(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		target string
		want   string
	}{
		{"/", "Diseases we watch for"},
		{"/citizen", "Available Villages (8)"},
		{"/citizen?q=east+district", "Willow Creek"},
		{"/citizen/dashboard?village=3", "Water quality today"},
		{"/citizen/dashboard", "Advisories"},
		{"/citizen/report", "Step 1 of 3"},
		{"/citizen/treatment", "Emergency contacts"},
		{"/admin", "Health Surveillance Overview"},
		{"/admin?village=1", "Recommended action"},
		{"/admin/alerts", "Alert Management"},
		{"/admin/villages?view=grid", "Village Management"},
		{"/admin/villages/1", "Weekly trend"},
		{"/admin/reports?tab=system", "System Reports"},
		{"/admin/devices", "IoT Devices"},
		{"/admin/settings?tab=thresholds", "Save Settings"},
		{"/admin/settings?tab=notifications", "Alert Frequency"},
		{"/admin/settings?tab=system", "Maintenance Window"},
		{"/admin/settings", "Add user"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := serve(r, request{method: http.MethodGet, target: tt.target})
			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("expected HTML, got %q", ct)
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("expected body to contain %q", tt.want)
			}
		})
	}
}

func TestDeviceDetail_NoDataReading(t *testing.T) {
	r, _ := setupRouter(t)

	w := serve(r, request{method: http.MethodGet, target: "/admin/devices"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var devices dashboard.DevicesView
	decode(t, serve(r, request{method: http.MethodGet, target: "/admin/devices?status=Offline", asJSON: true}), &devices)
	if len(devices.Devices) != 1 {
		t.Fatalf("expected 1 offline device, got %d", len(devices.Devices))
	}

	w = serve(r, request{method: http.MethodGet, target: "/admin/devices/" + devices.Devices[0].ID})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No Data") {
		t.Error("expected offline device sensors to show No Data")
	}
}

func TestSignIn_RedirectsToDashboard(t *testing.T) {
	r, _ := setupRouter(t)

	w := serve(r, request{
		method: http.MethodPost,
		target: "/citizen",
		form:   url.Values{"village_id": {"3"}},
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", w.Code)
	}
	loc := w.Header().Get("Location")
	if loc != "/citizen/dashboard?village=3" {
		t.Fatalf("unexpected redirect: %q", loc)
	}

	ds, err := fixtures.Load()
	if err != nil {
		t.Fatalf("loading fixtures: %v", err)
	}
	var want models.Village
	for _, v := range ds.Villages {
		if v.ID == "3" {
			want = v
		}
	}

	var view dashboard.CitizenDashboardView
	decode(t, serve(r, request{method: http.MethodGet, target: loc, asJSON: true}), &view)
	got := view.Village
	if got.Name != want.Name || got.RiskLevel != want.RiskLevel || got.RiskPercentage != want.RiskPercentage {
		t.Errorf("expected %s %s %d%%, got %s %s %d%%",
			want.Name, want.RiskLevel, want.RiskPercentage, got.Name, got.RiskLevel, got.RiskPercentage)
	}
}

func TestSignIn_InvalidChoiceRerenders(t *testing.T) {
	r, _ := setupRouter(t)

	for _, id := range []string{"", "99"} {
		w := serve(r, request{
			method: http.MethodPost,
			target: "/citizen",
			form:   url.Values{"village_id": {id}},
		})
		if w.Code != http.StatusOK {
			t.Errorf("village_id %q: expected status 200, got %d", id, w.Code)
		}
		if !strings.Contains(w.Body.String(), "Select your village") {
			t.Errorf("village_id %q: expected the sign-in page", id)
		}
	}
}

func TestNotFound(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		name   string
		target string
	}{
		{"unknown route", "/does-not-exist"},
		{"unknown citizen village", "/citizen/dashboard?village=99"},
		{"unknown admin village", "/admin/villages/99"},
		{"unknown overview village", "/admin?village=99"},
		{"unknown device", "/admin/devices/NOPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, request{method: http.MethodGet, target: tt.target})
			if w.Code != http.StatusNotFound {
				t.Fatalf("expected status 404, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), "Page not found") {
				t.Error("expected the not found page")
			}
		})
	}

	w := serve(r, request{method: http.MethodGet, target: "/does-not-exist", asJSON: true})
	var body map[string]string
	decode(t, w, &body)
	if body["error"] != "not found" {
		t.Errorf("unexpected JSON body: %v", body)
	}
}

func TestAlerts_JSONDefaultsToActiveTab(t *testing.T) {
	r, _ := setupRouter(t)

	w := serve(r, request{method: http.MethodGet, target: "/admin/alerts", asJSON: true})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var view dashboard.AlertsView
	decode(t, w, &view)
	if view.Tab != dashboard.TabActive {
		t.Errorf("expected tab %q, got %q", dashboard.TabActive, view.Tab)
	}
	if len(view.Alerts) != 4 {
		t.Errorf("expected 4 active alerts, got %d", len(view.Alerts))
	}
	if view.Stats.Total != 6 {
		t.Errorf("expected stats over all 6 alerts, got %d", view.Stats.Total)
	}

	w = serve(r, request{method: http.MethodGet, target: "/admin/alerts?tab=resolved&severity=High", asJSON: true})
	decode(t, w, &view)
	if len(view.Alerts) != 0 {
		t.Errorf("expected no resolved High alerts, got %d", len(view.Alerts))
	}
}

type reportState struct {
	Step      int  `json:"step"`
	Valid     bool `json:"valid"`
	Submitted bool `json:"submitted"`
}

func draftCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == draftCookie {
			return c
		}
	}
	t.Fatal("expected a report draft cookie")
	return nil
}

func TestReportWizard_EndToEnd(t *testing.T) {
	r, b := setupRouter(t)

	w := serve(r, request{method: http.MethodGet, target: "/citizen/report?village=3"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	cookie := draftCookieFrom(t, w)

	post := func(form url.Values, asJSON bool) *httptest.ResponseRecorder {
		form.Set("village", "3")
		return serve(r, request{
			method: http.MethodPost,
			target: "/citizen/report",
			form:   form,
			asJSON: asJSON,
			cookie: cookie,
		})
	}
	step := func(form url.Values) reportState {
		t.Helper()
		var s reportState
		decode(t, post(form, true), &s)
		return s
	}

	if s := step(url.Values{"action": {actionNext}}); s.Step != 1 {
		t.Fatalf("expected to stay on step 1, got %d", s.Step)
	}

	s := step(url.Values{
		"action":        {actionNext},
		"patient_count": {"2"},
		"symptoms":      {"", "fever", "diarrhea"},
		"location":      {"Near the well"},
	})
	if s.Step != 2 {
		t.Fatalf("expected step 2, got %d", s.Step)
	}

	if s := step(url.Values{"action": {actionNext}, "severity": {"extreme"}, "duration": {"1_3_days"}}); s.Step != 2 {
		t.Fatalf("expected unknown severity to block, got step %d", s.Step)
	}
	if s := step(url.Values{"action": {actionNext}, "severity": {"moderate"}}); s.Step != 3 {
		t.Fatalf("expected step 3, got %d", s.Step)
	}

	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	w = post(url.Values{
		"action":        {actionSubmit},
		"contact_name":  {"Jane Doe"},
		"contact_phone": {"555-0100"},
	}, false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, wizard.SubmittedNotification.Title) {
		t.Error("expected the confirmation view")
	}
	if !strings.Contains(body, `http-equiv="refresh"`) || !strings.Contains(body, `content="2;url=`) {
		t.Error("expected a delayed redirect to the dashboard")
	}

	select {
	case n := <-ch:
		if n != wizard.SubmittedNotification {
			t.Errorf("unexpected notification: %+v", n)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a submission notification")
	}

	// The draft is gone, so the same cookie starts over.
	var fresh reportState
	decode(t, serve(r, request{method: http.MethodGet, target: "/citizen/report", asJSON: true, cookie: cookie}), &fresh)
	if fresh.Step != 1 || fresh.Submitted {
		t.Errorf("expected a fresh draft, got %+v", fresh)
	}
}

func TestReportWizard_PhotoUpload(t *testing.T) {
	r, _ := setupRouter(t)

	cookie := draftCookieFrom(t, serve(r, request{method: http.MethodGet, target: "/citizen/report?village=3"}))
	steps := []url.Values{
		{"action": {actionNext}, "patient_count": {"1"}, "symptoms": {"fever"}},
		{"action": {actionNext}, "severity": {"mild"}, "duration": {"less_than_day"}},
	}
	for _, form := range steps {
		form.Set("village", "3")
		serve(r, request{method: http.MethodPost, target: "/citizen/report", form: form, cookie: cookie})
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"action":        actionNext,
		"village":       "3",
		"contact_name":  "Jane Doe",
		"contact_phone": "555-0100",
	} {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	fw, err := mw.CreateFormFile("photo", "well.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte("jpeg")); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/citizen/report", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var got struct {
		Step   int           `json:"step"`
		Answer wizard.Answer `json:"answer"`
	}
	decode(t, w, &got)
	if got.Step != 3 {
		t.Errorf("expected to stay on step 3, got %d", got.Step)
	}
	if got.Answer.Photo != "well.jpg" || got.Answer.ContactPhone != "555-0100" {
		t.Errorf("unexpected answer: %+v", got.Answer)
	}

	html := serve(r, request{method: http.MethodGet, target: "/citizen/report", cookie: cookie}).Body.String()
	if !strings.Contains(html, "Attached: well.jpg") {
		t.Error("expected the attached photo name on step 3")
	}
}

func TestReportWizard_Cancel(t *testing.T) {
	r, _ := setupRouter(t)

	cookie := draftCookieFrom(t, serve(r, request{method: http.MethodGet, target: "/citizen/report"}))
	w := serve(r, request{
		method: http.MethodPost,
		target: "/citizen/report",
		form:   url.Values{"action": {actionCancel}, "village": {"2"}, "patient_count": {"4"}},
		cookie: cookie,
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/citizen/dashboard?village=2" {
		t.Errorf("unexpected redirect: %q", loc)
	}
}

func TestReportWizard_ToggleSymptom(t *testing.T) {
	r, _ := setupRouter(t)

	cookie := draftCookieFrom(t, serve(r, request{method: http.MethodGet, target: "/citizen/report"}))
	toggle := func() wizard.Answer {
		var v struct {
			Answer wizard.Answer `json:"answer"`
		}
		decode(t, serve(r, request{
			method: http.MethodPost,
			target: "/citizen/report",
			form:   url.Values{"action": {actionToggle}, "symptom": {"fever"}},
			asJSON: true,
			cookie: cookie,
		}), &v)
		return v.Answer
	}

	if a := toggle(); !a.HasSymptom("fever") {
		t.Error("expected fever to be selected")
	}
	if a := toggle(); a.HasSymptom("fever") {
		t.Error("expected fever to be deselected")
	}
}

type settingsResponse struct {
	Notification dashboard.Notification `json:"notification"`
	Settings     dashboard.SettingsView `json:"settings"`
}

func TestAddUser(t *testing.T) {
	r, _ := setupRouter(t)

	w := serve(r, request{
		method: http.MethodPost,
		target: "/admin/settings/users",
		form:   url.Values{"name": {"  "}, "email": {"a@example.org"}, "role": {"Health Worker"}},
		asJSON: true,
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", w.Code)
	}
	var res settingsResponse
	decode(t, w, &res)
	if res.Notification.Title != "Error" || len(res.Settings.Users) != 4 {
		t.Errorf("unexpected result: %+v with %d users", res.Notification, len(res.Settings.Users))
	}

	w = serve(r, request{
		method: http.MethodPost,
		target: "/admin/settings/users",
		form: url.Values{
			"name":    {"Amina Yusuf"},
			"email":   {"amina@example.org"},
			"role":    {"Data Analyst"},
			"village": {"All"},
		},
		asJSON: true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	decode(t, w, &res)
	if res.Notification.Title != "User Added" {
		t.Errorf("unexpected notification: %+v", res.Notification)
	}
	if n := len(res.Settings.Users); n != 5 {
		t.Fatalf("expected 5 users, got %d", n)
	}
	if got := res.Settings.Users[4]; got.Name != "Amina Yusuf" || got.ID != 5 || got.Status != "Active" {
		t.Errorf("unexpected new user: %+v", got)
	}
}

func TestSaveSettings(t *testing.T) {
	r, b := setupRouter(t)

	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	w := serve(r, request{
		method: http.MethodPost,
		target: "/admin/settings",
		form:   url.Values{"turbidity_high": {"7.5"}, "ph_low": {"abc"}},
		asJSON: true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var res settingsResponse
	decode(t, w, &res)
	if res.Settings.Tab != dashboard.TabThresholds {
		t.Errorf("expected thresholds tab, got %q", res.Settings.Tab)
	}
	th := res.Settings.Config.AlertThresholds
	if th.TurbidityHigh != 7.5 {
		t.Errorf("expected turbidity_high 7.5, got %v", th.TurbidityHigh)
	}
	if th.PHLow == 0 {
		t.Error("expected unparsable ph_low to keep its previous value")
	}

	select {
	case n := <-ch:
		if n.Title != "Settings Saved" {
			t.Errorf("unexpected notification: %+v", n)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a settings notification")
	}
}

func TestSaveSettings_NotificationsAndSystemTabs(t *testing.T) {
	r, _ := setupRouter(t)

	w := serve(r, request{
		method: http.MethodPost,
		target: "/admin/settings",
		form: url.Values{
			"tab":             {dashboard.TabNotifications},
			"email_enabled":   {"false"},
			"sms_enabled":     {"false", "true"},
			"push_enabled":    {"false"},
			"alert_frequency": {"every-15min"},
			"report_schedule": {"weekly"},
		},
		asJSON: true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var res settingsResponse
	decode(t, w, &res)
	if res.Settings.Tab != dashboard.TabNotifications {
		t.Errorf("expected notifications tab, got %q", res.Settings.Tab)
	}
	n := res.Settings.Config.Notifications
	if n.EmailEnabled || !n.SMSEnabled || n.PushEnabled {
		t.Errorf("unexpected toggles: %+v", n)
	}
	if n.AlertFrequency != "every-15min" || n.ReportSchedule != "weekly" {
		t.Errorf("unexpected schedules: %+v", n)
	}

	w = serve(r, request{
		method: http.MethodPost,
		target: "/admin/settings",
		form: url.Values{
			"tab":                 {dashboard.TabSettingsSystem},
			"data_retention_days": {"180"},
			"backup_frequency":    {"hourly"},
			"maintenance_window":  {"23:00-01:00"},
			"auto_reports":        {"false"},
			"public_dashboard":    {"false", "true"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Settings Saved", `value="180"`, `value="23:00-01:00"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected the system tab to contain %q", want)
		}
	}

	var view dashboard.SettingsView
	decode(t, serve(r, request{method: http.MethodGet, target: "/admin/settings?tab=system", asJSON: true}), &view)
	sys := view.Config.System
	if sys.DataRetentionDays != 180 || sys.BackupFrequency != "hourly" || sys.AutoReports || !sys.PublicDashboard {
		t.Errorf("unexpected system settings: %+v", sys)
	}
}

func TestNotifications_WebSocket(t *testing.T) {
	r, b := setupRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}

	waitFor(t, func() bool { return b.SubscriberCount() == 1 })

	want := notify.Notification{Title: "User Added", Description: "Amina Yusuf has been added to the system."}
	b.Notify(want)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got notify.Notification
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	conn.Close()
	waitFor(t, func() bool { return b.SubscriberCount() == 0 })
}

func TestCheckOrigin(t *testing.T) {
	h := &Handler{opts: Options{AllowedOrigins: []string{"https://dashboard.example.org"}}}

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"no origin", "", true},
		{"listed origin", "https://dashboard.example.org", true},
		{"same host", "http://localhost:8080", true},
		{"foreign origin", "https://evil.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/ws/notifications", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if got := h.checkOrigin(req); got != tt.want {
				t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(1))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := get("192.0.2.1:1000"); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := get("192.0.2.1:1001"); code != http.StatusTooManyRequests {
		t.Errorf("expected second request to be limited, got %d", code)
	}
	if code := get("192.0.2.2:1000"); code != http.StatusOK {
		t.Errorf("expected another client to pass, got %d", code)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
