package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/nirmalhealthcare/clinic-console/config"
	"github.com/nirmalhealthcare/clinic-console/internal/console"
	"github.com/nirmalhealthcare/clinic-console/internal/handlers"
	"github.com/nirmalhealthcare/clinic-console/internal/middleware"
	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/internal/session"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)

	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

// fakeClinic is a minimal clinic backend.
type fakeClinic struct {
	mu           sync.Mutex
	rejectTokens bool
	loginDown    bool
	deleted      []string
	marks        []string
}

func (f *fakeClinic) setRejectTokens(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejectTokens = v
}

func (f *fakeClinic) seenMarks() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.marks...)
}

func (f *fakeClinic) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.loginDown && r.URL.Path == "/api/admin/login" {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"success":false,"message":"Service unavailable"}`))
		return
	}
	if r.URL.Path != "/api/admin/login" && (f.rejectTokens || r.Header.Get("Authorization") != "Bearer tok") {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"Token expired"}`))
		return
	}

	switch {
	case r.URL.Path == "/api/admin/login":
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), "wrong-pass") {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"token":"tok","admin":{"id":1,"name":"Dr. Nirmal","email":"admin@clinic.in"}}}`))
	case r.URL.Path == "/api/appointments/admin/stats":
		_, _ = w.Write([]byte(`{"success":true,"data":{"total":12,"today":2,"pending":3}}`))
	case r.URL.Path == "/api/appointments/admin/today":
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	case r.URL.Path == "/api/appointments/admin" && r.Method == http.MethodGet:
		_, _ = w.Write([]byte(`{"success":true,"data":[
			{"id":1,"patient_name":"Riya Shah","status":"pending"},
			{"id":2,"patient_name":"Arjun Mehta","status":"confirmed"}
		],"pagination":{"page":1,"limit":20,"total":2,"totalPages":1}}`))
	case strings.HasPrefix(r.URL.Path, "/api/appointments/admin/") && r.Method == http.MethodDelete:
		f.deleted = append(f.deleted, strings.TrimPrefix(r.URL.Path, "/api/appointments/admin/"))
		_, _ = w.Write([]byte(`{"success":true}`))
	case r.URL.Path == "/api/contact/admin/unread-count":
		_, _ = w.Write([]byte(`{"success":true,"data":{"count":3}}`))
	case r.URL.Path == "/api/admin/notifications/count":
		unseen := 1
		if len(f.marks) > 0 {
			unseen = 0
		}
		_, _ = fmt.Fprintf(w, `{"success":true,"data":{"count":%d}}`, unseen)
	case r.URL.Path == "/api/admin/notifications" && r.Method == http.MethodGet:
		_, _ = w.Write([]byte(`{"success":true,"data":[
			{"id":5,"type":"appointment","title":"New appointment","message":"Riya Shah booked","is_seen":0,"created_at":"2026-01-01 10:00:00"}
		]}`))
	case r.URL.Path == "/api/admin/notifications/mark-seen" && r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.marks = append(f.marks, string(body))
		_, _ = w.Write([]byte(`{"success":true}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Not found"}`))
	}
}

type harness struct {
	router  *gin.Engine
	clinic  *fakeClinic
	cookies []*http.Cookie
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	clinic := &fakeClinic{}
	backend := httptest.NewServer(clinic)
	t.Cleanup(backend.Close)

	cfg := &config.Config{
		Server: config.ServerConfig{
			GinMode:        gin.TestMode,
			AllowedOrigins: []string{"http://localhost:3000"},
			ProxyAPI:       true,
		},
		Backend:       config.BackendConfig{BaseURL: backend.URL, TimeoutSeconds: 5},
		Observability: config.ObservabilityConfig{ServiceName: "clinic-console-test"},
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	registry := console.NewRegistry(ctx, console.Factory{
		Store:                session.NewMemoryStore(0),
		BaseURL:              backend.URL,
		PageSize:             20,
		NotificationLimit:    10,
		NotificationInterval: time.Hour,
	}, time.Minute)
	t.Cleanup(registry.Close)

	router, err := buildRouter(ctx, cfg, registry, map[string]handlers.ReadinessCheck{})
	require.NoError(t, err)

	return &harness{router: router, clinic: clinic}
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, http.NoBody)
	}
	for _, c := range h.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.WorkspaceCookieName {
			h.cookies = []*http.Cookie{c}
		}
	}
	return w
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	w := h.do(http.MethodPost, "/login", `{"email":"admin@clinic.in","password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRoutes_GuardedScreenRedirectsWithoutSession(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/dashboard", "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRoutes_LoginThenDashboard(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/login", `{"email":"admin@clinic.in","password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "/dashboard", body["redirect"])
	require.Len(t, h.cookies, 1)

	w = h.do(http.MethodGet, "/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decode(t, w)["data"].(map[string]any)
	assert.EqualValues(t, 12, data["stats"].(map[string]any)["total"])
	assert.EqualValues(t, 3, data["unreadContacts"])
	assert.EqualValues(t, 1, data["unseenNotifications"])
}

func TestRoutes_LoginFailures(t *testing.T) {
	t.Run("rejected credentials", func(t *testing.T) {
		h := newHarness(t)

		w := h.do(http.MethodPost, "/login", `{"email":"admin@clinic.in","password":"wrong-pass"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid credentials", decode(t, w)["error"])
	})

	t.Run("backend outage", func(t *testing.T) {
		h := newHarness(t)
		h.clinic.loginDown = true

		w := h.do(http.MethodPost, "/login", `{"email":"admin@clinic.in","password":"secret123"}`)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "Service unavailable", decode(t, w)["error"])
	})
}

func TestRoutes_LoginValidation(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/login", `{"email":"not-an-email"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", decode(t, w)["error"])
}

func TestRoutes_BackendUnauthorizedRedirectsToLogin(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	h.clinic.mu.Lock()
	h.clinic.rejectTokens = true
	h.clinic.mu.Unlock()

	w := h.do(http.MethodGet, "/appointments", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// The session is gone for later requests too
	w = h.do(http.MethodGet, "/dashboard", "")
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestRoutes_SelectAllThenBulkDelete(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	w := h.do(http.MethodGet, "/appointments", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 2, decode(t, w)["totalCount"])

	w = h.do(http.MethodPost, "/appointments/select-all", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["allSelected"])

	w = h.do(http.MethodPost, "/appointments/bulk", `{"action":"delete"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "2 appointments deleted successfully", decode(t, w)["message"])

	h.clinic.mu.Lock()
	defer h.clinic.mu.Unlock()
	assert.ElementsMatch(t, []string{"1", "2"}, h.clinic.deleted)
}

func TestRoutes_BulkWithoutSelection(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	w := h.do(http.MethodPost, "/appointments/bulk", `{"action":"delete"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoutes_InvalidDateFilter(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	w := h.do(http.MethodGet, "/appointments?date_filter=custom_range&date_from=2025-02-10&date_to=2025-02-01", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoutes_ProxyForwardsAPI(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/api/appointments/admin/stats", http.NoBody)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":12`)
}

func TestRoutes_Healthcheck(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/healthcheck", "")

	assert.Equal(t, http.StatusOK, w.Code)
}

type streamEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func (h *harness) dialStream(t *testing.T) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h.router)
	t.Cleanup(srv.Close)

	header := http.Header{}
	for _, c := range h.cookies {
		header.Add("Cookie", c.String())
	}
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/notifications/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// nextEvent reads until an event named want arrives.
func nextEvent(t *testing.T, conn *websocket.Conn, want string) streamEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var ev streamEvent
		require.NoError(t, conn.ReadJSON(&ev))
		if ev.Event == want {
			return ev
		}
	}
}

// nextSnapshot reads snapshots until one satisfies ok.
func nextSnapshot(t *testing.T, conn *websocket.Conn, ok func(models.NotificationSnapshot) bool) models.NotificationSnapshot {
	t.Helper()
	for {
		ev := nextEvent(t, conn, "snapshot")
		var snap models.NotificationSnapshot
		require.NoError(t, json.Unmarshal(ev.Data, &snap))
		if ok(snap) {
			return snap
		}
	}
}

func TestRoutes_NotificationStreamPushesSnapshots(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	conn := h.dialStream(t)

	snap := nextSnapshot(t, conn, func(models.NotificationSnapshot) bool { return true })
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "5", snap.Items[0].ID)
	assert.False(t, snap.Items[0].Seen)
	assert.Equal(t, 1, snap.UnseenCount)

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "mark_seen", "id": "5"}))
	snap = nextSnapshot(t, conn, func(s models.NotificationSnapshot) bool { return s.UnseenCount == 0 })
	assert.Equal(t, 0, snap.UnseenCount)
	assert.Equal(t, []string{`{"id":"5"}`}, h.clinic.seenMarks())

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "mark_all_seen"}))
	nextEvent(t, conn, "snapshot")
	assert.Equal(t, []string{`{"id":"5"}`, `{"mark_all":true}`}, h.clinic.seenMarks())

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "archive"}))
	ev := nextEvent(t, conn, "error")
	assert.Equal(t, "unknown action: archive", ev.Error)

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "refresh"}))
	snap = nextSnapshot(t, conn, func(models.NotificationSnapshot) bool { return true })
	assert.Len(t, snap.Items, 1)
}

func TestRoutes_NotificationStreamEndsOnSignOut(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	conn := h.dialStream(t)
	nextEvent(t, conn, "snapshot")

	h.clinic.setRejectTokens(true)
	require.NoError(t, conn.WriteJSON(map[string]string{"action": "refresh"}))

	nextEvent(t, conn, "signed_out")

	// The server closes the connection after signing out.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestRoutes_NotificationStreamRequiresSession(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodGet, "/login", "")

	srv := httptest.NewServer(h.router)
	defer srv.Close()

	header := http.Header{}
	for _, c := range h.cookies {
		header.Add("Cookie", c.String())
	}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/notifications/stream", header)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}
