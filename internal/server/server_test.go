// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/termfolio/internal/config"
	"github.com/jeranaias/termfolio/internal/content"
	"github.com/jeranaias/termfolio/internal/storage"
	"github.com/jeranaias/termfolio/internal/terminal"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// =============================================================================
// HELPERS
// =============================================================================

type fakeRecorder struct {
	mu       sync.Mutex
	visits   []storage.Visit
	commands []storage.CommandRecord
	statsErr error
}

func (f *fakeRecorder) RecordVisit(_ context.Context, v storage.Visit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visits = append(f.visits, v)
	return nil
}

func (f *fakeRecorder) RecordCommand(_ context.Context, c storage.CommandRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, c)
	return nil
}

func (f *fakeRecorder) Stats(_ context.Context, since time.Time, _ int) (storage.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statsErr != nil {
		return storage.Stats{}, f.statsErr
	}
	return storage.Stats{Since: since, Visits: len(f.visits), Commands: len(f.commands)}, nil
}

func (f *fakeRecorder) snapshot() ([]storage.Visit, []storage.CommandRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]storage.Visit(nil), f.visits...), append([]storage.CommandRecord(nil), f.commands...)
}

var testEpoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLocalListener() (net.Listener, error) {
	return net.Listen("tcp", "127.0.0.1:0")
}

func newTestServer(t *testing.T, mutate func(*Options)) (*Server, *fakeRecorder, *testClock) {
	t.Helper()
	cfg := config.Default()
	rec := &fakeRecorder{}
	clock := &testClock{now: testEpoch}
	opts := Options{
		Config:   cfg.Server,
		Terminal: cfg.Terminal,
		Reveal:   cfg.RevealSettings(),
		Bundle:   content.Default(),
		Recorder: rec,
		Now:      clock.Now,
		Logger:   testLogger(),
	}
	opts.Config.RatePerSec = 0
	opts.Config.Salt = "pepper"
	if mutate != nil {
		mutate(&opts)
	}
	s, err := New(opts)
	require.NoError(t, err)
	return s, rec, clock
}

func do(t *testing.T, s *Server, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func createSession(t *testing.T, s *Server, mode string) sessionResponse {
	t.Helper()
	var body any
	if mode != "" {
		body = createSessionRequest{Mode: mode}
	}
	w := do(t, s, http.MethodPost, "/api/sessions", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[sessionResponse](t, w)
}

// =============================================================================
// CATALOG TESTS
// =============================================================================

func TestHandleHealth(t *testing.T) {
	s, _, _ := newTestServer(t, nil)

	w := do(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[healthResponse](t, w)
	require.Equal(t, "ok", resp.Status)
	require.Equal(t, 0, resp.Sessions)
	require.Equal(t, int64(1), resp.Requests)
}

func TestHandleCommands(t *testing.T) {
	s, _, _ := newTestServer(t, nil)

	w := do(t, s, http.MethodGet, "/api/commands", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[struct {
		Commands []terminal.CommandDescriptor `json:"commands"`
	}](t, w)
	require.Equal(t, terminal.Catalog(), resp.Commands)
}

func TestHandleThemes(t *testing.T) {
	s, _, _ := newTestServer(t, nil)

	w := do(t, s, http.MethodGet, "/api/themes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[struct {
		Themes  []terminal.ThemeTokens `json:"themes"`
		Default string                 `json:"default"`
	}](t, w)
	require.Len(t, resp.Themes, len(terminal.ThemeNames()))
	require.Equal(t, terminal.DefaultTheme, resp.Default)
}

func TestHandleSections(t *testing.T) {
	s, _, _ := newTestServer(t, nil)

	w := do(t, s, http.MethodGet, "/api/sections", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[struct {
		Sections []content.Section `json:"sections"`
	}](t, w)
	require.Len(t, resp.Sections, len(content.DefaultSections()))
	require.Equal(t, "about", resp.Sections[0].ID)
}

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want terminal.Mode
		code int
	}{
		{name: "default mode", mode: "", want: terminal.ModeScrollAuto, code: http.StatusCreated},
		{name: "interactive", mode: "interactive", want: terminal.ModeInteractive, code: http.StatusCreated},
		{name: "invalid mode", mode: "turbo", code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestServer(t, nil)
			var body any
			if tt.mode != "" {
				body = createSessionRequest{Mode: tt.mode}
			}
			w := do(t, s, http.MethodPost, "/api/sessions", body)
			require.Equal(t, tt.code, w.Code, w.Body.String())
			if tt.code != http.StatusCreated {
				return
			}
			resp := decode[sessionResponse](t, w)
			require.NotEmpty(t, resp.ID)
			require.Equal(t, tt.want, resp.Mode)
			require.Equal(t, terminal.DefaultTheme, resp.Theme)
			require.NotEmpty(t, resp.Transcript, "startup banner")
			require.Empty(t, resp.Triggered)
		})
	}
}

func TestCreateSession_Limit(t *testing.T) {
	s, _, clock := newTestServer(t, func(o *Options) {
		o.Config.MaxSessions = 1
		o.Config.SessionTTLMin = 1
	})

	createSession(t, s, "")
	w := do(t, s, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Equal(t, "60", w.Header().Get("Retry-After"))

	// The idle session expires and frees its slot.
	clock.Advance(2 * time.Minute)
	createSession(t, s, "")
	require.Equal(t, 1, s.Sessions().Len())
}

func TestSessionExpiry(t *testing.T) {
	s, _, clock := newTestServer(t, func(o *Options) { o.Config.SessionTTLMin = 1 })
	sess := createSession(t, s, "")

	clock.Advance(30 * time.Second)
	w := do(t, s, http.MethodGet, "/api/sessions/"+sess.ID+"/transcript", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Reads refresh the idle timer.
	clock.Advance(50 * time.Second)
	w = do(t, s, http.MethodGet, "/api/sessions/"+sess.ID+"/transcript", nil)
	require.Equal(t, http.StatusOK, w.Code)

	clock.Advance(61 * time.Second)
	w = do(t, s, http.MethodGet, "/api/sessions/"+sess.ID+"/transcript", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteSession(t *testing.T) {
	s, _, _ := newTestServer(t, nil)
	sess := createSession(t, s, "")

	w := do(t, s, http.MethodDelete, "/api/sessions/"+sess.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, s, http.MethodDelete, "/api/sessions/"+sess.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnknownSession(t *testing.T) {
	s, _, _ := newTestServer(t, nil)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/sessions/nope/transcript"},
		{http.MethodPost, "/api/sessions/nope/run"},
		{http.MethodPost, "/api/sessions/nope/visible"},
		{http.MethodPut, "/api/sessions/nope/mode"},
	} {
		w := do(t, s, tc.method, tc.path, map[string]string{"command": "help"})
		require.Equal(t, http.StatusNotFound, w.Code, tc.path)
	}
}

// =============================================================================
// RUN TESTS
// =============================================================================

func TestHandleRun(t *testing.T) {
	s, rec, _ := newTestServer(t, nil)
	sess := createSession(t, s, "interactive")
	path := "/api/sessions/" + sess.ID + "/run"

	w := do(t, s, http.MethodPost, path, runRequest{Command: "  HELP "})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[runResponse](t, w)
	require.Len(t, resp.Entries, 2)
	require.Equal(t, terminal.EntryCommand, resp.Entries[0].Kind)
	require.Equal(t, "HELP", resp.Entries[0].Text)
	require.Equal(t, terminal.EntryOutput, resp.Entries[1].Kind)
	require.False(t, resp.Cleared)

	w = do(t, s, http.MethodPost, path, runRequest{Command: "sudo rm -rf"})
	require.Equal(t, http.StatusOK, w.Code)

	_, commands := rec.snapshot()
	require.Len(t, commands, 2)
	require.Equal(t, storage.CommandRecord{Source: SourceWeb, Command: "help", Known: true, Timestamp: testEpoch}, commands[0])
	require.Equal(t, "sudo rm -rf", commands[1].Command)
	require.False(t, commands[1].Known)
}

func TestHandleRun_ThemeAndClear(t *testing.T) {
	s, _, _ := newTestServer(t, nil)
	sess := createSession(t, s, "interactive")
	path := "/api/sessions/" + sess.ID + "/run"

	w := do(t, s, http.MethodPost, path, runRequest{Command: "theme set gruvbox"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "gruvbox", decode[runResponse](t, w).Theme)

	w = do(t, s, http.MethodPost, path, runRequest{Command: "clear"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[runResponse](t, w)
	require.True(t, resp.Cleared)
	require.NotEmpty(t, resp.Entries)

	w = do(t, s, http.MethodGet, "/api/sessions/"+sess.ID+"/transcript", nil)
	require.Equal(t, len(resp.Entries), len(decode[sessionResponse](t, w).Transcript))
}

func TestHandleRun_BadInput(t *testing.T) {
	s, rec, _ := newTestServer(t, nil)
	sess := createSession(t, s, "interactive")
	path := "/api/sessions/" + sess.ID + "/run"

	w := do(t, s, http.MethodPost, path, runRequest{Command: "   "})
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, decode[runResponse](t, w).Entries)

	w = do(t, s, http.MethodPost, path, runRequest{Command: strings.Repeat("a", maxCommandLen+1)})
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{"))
	rw := httptest.NewRecorder()
	s.Handler().ServeHTTP(rw, req)
	require.Equal(t, http.StatusBadRequest, rw.Code)

	_, commands := rec.snapshot()
	require.Empty(t, commands)
}

// =============================================================================
// VISIBILITY TESTS
// =============================================================================

func TestHandleVisible_FiresOnce(t *testing.T) {
	s, rec, _ := newTestServer(t, nil)
	sess := createSession(t, s, "")
	path := "/api/sessions/" + sess.ID + "/visible"

	w := do(t, s, http.MethodPost, path, visibleRequest{Section: "skills"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[visibleResponse](t, w)
	require.True(t, resp.Fired)
	require.Len(t, resp.Entries, 2)
	require.Equal(t, "skills", resp.Entries[0].Text)

	w = do(t, s, http.MethodPost, path, visibleRequest{Section: "skills"})
	resp = decode[visibleResponse](t, w)
	require.False(t, resp.Fired)
	require.Empty(t, resp.Entries)

	w = do(t, s, http.MethodGet, "/api/sessions/"+sess.ID+"/transcript", nil)
	require.Equal(t, []string{"skills"}, decode[sessionResponse](t, w).Triggered)

	_, commands := rec.snapshot()
	require.Len(t, commands, 1)
	require.Equal(t, "skills", commands[0].Command)
}

func TestHandleVisible_ConcurrentReportsGetOwnEntries(t *testing.T) {
	s, _, _ := newTestServer(t, nil)
	sess := createSession(t, s, "")
	path := "/api/sessions/" + sess.ID + "/visible"

	sections := content.Default().Sections
	recorders := make([]*httptest.ResponseRecorder, len(sections))
	var wg sync.WaitGroup
	for i, sec := range sections {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			recorders[i] = do(t, s, http.MethodPost, path, visibleRequest{Section: id})
		}(i, sec.ID)
	}
	wg.Wait()

	for i, sec := range sections {
		require.Equal(t, http.StatusOK, recorders[i].Code, recorders[i].Body.String())
		resp := decode[visibleResponse](t, recorders[i])
		require.True(t, resp.Fired, sec.ID)
		require.Len(t, resp.Entries, 2, sec.ID)
		require.Equal(t, sec.Command, resp.Entries[0].Text)
	}
}

func TestHandleVisible_InteractiveModeMarksOnly(t *testing.T) {
	s, _, _ := newTestServer(t, nil)
	sess := createSession(t, s, "interactive")
	path := "/api/sessions/" + sess.ID + "/visible"

	w := do(t, s, http.MethodPost, path, visibleRequest{Section: "about"})
	resp := decode[visibleResponse](t, w)
	require.True(t, resp.Fired)
	require.Empty(t, resp.Entries)

	// Switching back does not replay the section.
	w = do(t, s, http.MethodPut, "/api/sessions/"+sess.ID+"/mode", modeRequest{Mode: "scrollAuto"})
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, s, http.MethodPost, path, visibleRequest{Section: "about"})
	require.False(t, decode[visibleResponse](t, w).Fired)
}

func TestHandleVisible_Errors(t *testing.T) {
	s, _, _ := newTestServer(t, nil)
	sess := createSession(t, s, "")
	path := "/api/sessions/" + sess.ID + "/visible"

	w := do(t, s, http.MethodPost, path, visibleRequest{Section: "hobbies"})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodPost, path, map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleMode(t *testing.T) {
	s, _, _ := newTestServer(t, nil)
	sess := createSession(t, s, "")
	path := "/api/sessions/" + sess.ID + "/mode"

	w := do(t, s, http.MethodPut, path, modeRequest{Mode: "interactive"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodGet, "/api/sessions/"+sess.ID+"/transcript", nil)
	require.Equal(t, terminal.ModeInteractive, decode[sessionResponse](t, w).Mode)

	w = do(t, s, http.MethodPut, path, modeRequest{Mode: "sideways"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

// =============================================================================
// CONTENT RELOAD TESTS
// =============================================================================

func TestSetBundle(t *testing.T) {
	s, _, _ := newTestServer(t, nil)
	sess := createSession(t, s, "interactive")

	b := content.Default()
	b.Outputs = terminal.Outputs{"about": {terminal.Text{Value: "reloaded bio"}}}
	b.Sections = b.Sections[:1]
	s.SetBundle(b)

	w := do(t, s, http.MethodPost, "/api/sessions/"+sess.ID+"/run", runRequest{Command: "about"})
	require.Contains(t, w.Body.String(), "reloaded bio")

	w = do(t, s, http.MethodGet, "/api/sections", nil)
	require.Len(t, decode[struct {
		Sections []content.Section `json:"sections"`
	}](t, w).Sections, 1)

	s.SetBundle(nil)
	require.Len(t, s.currentBundle().Sections, 1)
}

// =============================================================================
// STATS TESTS
// =============================================================================

func TestHandleStats(t *testing.T) {
	s, rec, _ := newTestServer(t, nil)

	w := do(t, s, http.MethodGet, "/api/stats?days=3", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := decode[storage.Stats](t, w)
	require.True(t, stats.Since.Equal(testEpoch.AddDate(0, 0, -3)))

	for _, q := range []string{"0", "abc", "400"} {
		w = do(t, s, http.MethodGet, "/api/stats?days="+q, nil)
		require.Equal(t, http.StatusBadRequest, w.Code, q)
	}

	rec.mu.Lock()
	rec.statsErr = errors.New("disk gone")
	rec.mu.Unlock()
	w = do(t, s, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleStats_NoRecorder(t *testing.T) {
	s, _, _ := newTestServer(t, func(o *Options) { o.Recorder = nil })

	w := do(t, s, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

// =============================================================================
// MIDDLEWARE TESTS
// =============================================================================

func TestVisitorTracking(t *testing.T) {
	s, rec, _ := newTestServer(t, nil)

	do(t, s, http.MethodGet, "/api/commands", nil, "User-Agent", "curl/8")
	do(t, s, http.MethodGet, "/api/themes", nil, "DNT", "1")
	do(t, s, http.MethodGet, "/health", nil)
	do(t, s, http.MethodGet, "/no/such/route", nil)

	visits, _ := rec.snapshot()
	require.Len(t, visits, 1)
	require.Equal(t, "/api/commands", visits[0].Path)
	require.Equal(t, "curl/8", visits[0].UserAgent)
	require.Equal(t, HashIP("192.0.2.1", "pepper"), visits[0].HashedIP)
	require.Len(t, visits[0].HashedIP, 16)
}

func TestVisitorTracking_Disabled(t *testing.T) {
	s, rec, _ := newTestServer(t, func(o *Options) { o.Config.TrackVisitors = false })

	do(t, s, http.MethodGet, "/api/commands", nil)
	visits, _ := rec.snapshot()
	require.Empty(t, visits)
}

func TestHashIP(t *testing.T) {
	a := HashIP("203.0.113.7", "salt-a")
	require.Len(t, a, 16)
	require.Equal(t, a, HashIP("203.0.113.7", "salt-a"))
	require.NotEqual(t, a, HashIP("203.0.113.7", "salt-b"))
	require.NotEqual(t, a, HashIP("203.0.113.8", "salt-a"))
	require.NotContains(t, a, "203")
}

func TestRandomSalt(t *testing.T) {
	a, b := RandomSalt(), RandomSalt()
	require.Len(t, a, 32)
	require.NotEqual(t, a, b)
}

func TestRateLimitMiddleware(t *testing.T) {
	s, _, _ := newTestServer(t, func(o *Options) {
		o.Config.RatePerSec = 0.001
		o.Config.Burst = 2
	})

	require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", nil).Code)
	require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", nil).Code)
	w := do(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := testEpoch
	rl.now = func() time.Time { return now }
	rl.lastCleanup = now

	require.True(t, rl.Allow("a"))
	require.False(t, rl.Allow("a"))
	require.True(t, rl.Allow("b"))
	require.Equal(t, 2, rl.Clients())

	now = now.Add(11 * time.Minute)
	require.True(t, rl.Allow("c"))
	require.Equal(t, 1, rl.Clients())
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		require.True(t, rl.Allow("a"))
	}
	require.Equal(t, 0, rl.Clients())
}

func TestSecurityHeaders(t *testing.T) {
	s, _, _ := newTestServer(t, nil)

	w := do(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	require.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestCORSMiddleware(t *testing.T) {
	s, _, _ := newTestServer(t, func(o *Options) {
		o.CORS = &CORSConfig{
			AllowedOrigins: []string{"https://folio.example", "*.example.org"},
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         60,
		}
	})

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://folio.example", true},
		{"https://www.example.org", true},
		{"https://evil.example", false},
		{"", false},
	}
	for _, tt := range tests {
		w := do(t, s, http.MethodOptions, "/api/commands", nil, "Origin", tt.origin)
		require.Equal(t, http.StatusNoContent, w.Code)
		if tt.allowed {
			require.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
			require.Equal(t, "60", w.Header().Get("Access-Control-Max-Age"))
		} else {
			require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"), tt.origin)
		}
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	engine := gin.New()
	engine.Use(RecoveryMiddleware(testLogger()))
	engine.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "internal server error")
}

func TestTrustedProxies(t *testing.T) {
	s, rec, _ := newTestServer(t, func(o *Options) { o.Config.TrustedProxies = "192.0.2.0/24, 10.0.0.0/8" })

	do(t, s, http.MethodGet, "/api/commands", nil, "X-Forwarded-For", "198.51.100.4")
	visits, _ := rec.snapshot()
	require.Len(t, visits, 1)
	require.Equal(t, HashIP("198.51.100.4", "pepper"), visits[0].HashedIP)

	require.Equal(t, []string{"192.0.2.0/24", "10.0.0.0/8"}, ParseTrustedProxies(" 192.0.2.0/24,,10.0.0.0/8 "))
	require.Nil(t, ParseTrustedProxies(""))

	_, err := New(Options{Config: config.ServerConfig{TrustedProxies: "not-a-cidr/99"}, Terminal: config.Default().Terminal})
	require.Error(t, err)
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestServe_ShutdownOnCancel(t *testing.T) {
	s, _, _ := newTestServer(t, nil)
	ln, err := newLocalListener()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestNew_InvalidStartMode(t *testing.T) {
	term := config.Default().Terminal
	term.StartMode = "autopilot"
	_, err := New(Options{Terminal: term})
	require.Error(t, err)
}
