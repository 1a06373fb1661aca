package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amonks/focus/internal/config"
	"github.com/amonks/focus/task"
	"github.com/amonks/focus/tracker"
)

func newTestServer(t *testing.T) (*Server, *tracker.Tracker, *tracker.Collector) {
	t.Helper()
	collector := &tracker.Collector{}
	now := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	next := 0
	tr, err := tracker.Open(context.Background(), tracker.Options{
		Notifier: collector,
		Logger:   log.New(io.Discard, "", 0),
		Now:      func() time.Time { return now },
		NewID: func() string {
			next++
			return []string{"aaaaaaaa", "bbbbbbbb", "cccccccc", "dddddddd"}[next-1]
		},
		Pick: func(int) int { return 0 },
	})
	if err != nil {
		t.Fatalf("open tracker: %v", err)
	}
	t.Cleanup(func() { _ = tr.Close() })
	s, err := NewServer(ServerOptions{
		Tracker:       tr,
		Notifications: collector,
		Logger:        log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return s, tr, collector
}

func postRPC(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.NewDecoder(recorder.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func errorMessage(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var payload map[string]string
	decodeBody(t, recorder, &payload)
	return payload["error"]
}

func TestNewServerRequiresTracker(t *testing.T) {
	if _, err := NewServer(ServerOptions{}); err == nil {
		t.Fatalf("expected error without tracker")
	}
}

func TestTasksAddParsesText(t *testing.T) {
	s, _, _ := newTestServer(t)

	recorder := postRPC(t, s.Handler(), "/tasks/add", `{"text":"Report 45min"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var response taskResponse
	decodeBody(t, recorder, &response)
	got := response.Task
	if got.Title != "Report" || got.InitialTime != 45*60 || got.Category != task.CategoryWork {
		t.Fatalf("unexpected task: %+v", got)
	}
	if got.Difficulty != task.DifficultyHard || got.RewardPoints != 135 {
		t.Fatalf("expected hard task worth 135, got %+v", got)
	}
}

func TestTasksAddDurationOverride(t *testing.T) {
	s, _, _ := newTestServer(t)

	recorder := postRPC(t, s.Handler(), "/tasks/add", `{"text":"gym","minutes":60}`)
	var response taskResponse
	decodeBody(t, recorder, &response)
	if response.Task.InitialTime != 60*60 || response.Task.RewardPoints != 60*3 {
		t.Fatalf("expected 60 minute hard task, got %+v", response.Task)
	}
}

func TestTasksAddRejectsBlankText(t *testing.T) {
	s, tr, _ := newTestServer(t)

	recorder := postRPC(t, s.Handler(), "/tasks/add", `{"text":"   "}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
	if message := errorMessage(t, recorder); message != task.ErrEmptyTitle.Error() {
		t.Fatalf("unexpected error %q", message)
	}
	if len(tr.Tasks()) != 0 {
		t.Fatalf("expected no tasks to be added")
	}
}

func TestTasksAddRejectsUnknownFields(t *testing.T) {
	s, _, _ := newTestServer(t)

	recorder := postRPC(t, s.Handler(), "/tasks/add", `{"text":"gym","priority":1}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestTaskTriggers(t *testing.T) {
	s, tr, collector := newTestServer(t)
	handler := s.Handler()
	postRPC(t, handler, "/tasks/add", `{"text":"gym"}`)
	postRPC(t, handler, "/tasks/add", `{"text":"read 10min"}`)

	recorder := postRPC(t, handler, "/tasks/timer", `{"id":"aaaa"}`)
	var response taskResponse
	decodeBody(t, recorder, &response)
	if !response.Task.TimerRunning {
		t.Fatalf("expected timer to run, got %+v", response.Task)
	}

	recorder = postRPC(t, handler, "/tasks/timer", `{"id":"bbbbbbbb"}`)
	decodeBody(t, recorder, &response)
	if !response.Task.TimerRunning {
		t.Fatalf("expected second timer to run")
	}
	first, err := tr.Get("aaaaaaaa")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if first.TimerRunning {
		t.Fatalf("expected first timer to be paused")
	}

	recorder = postRPC(t, handler, "/tasks/complete", `{"id":"bbbbbbbb"}`)
	decodeBody(t, recorder, &response)
	if !response.Task.Completed || response.Task.TimerRunning {
		t.Fatalf("expected completed task with stopped timer, got %+v", response.Task)
	}
	if stats := tr.Stats(); stats.CurrentXP != 10 {
		t.Fatalf("expected 10 XP, got %+v", stats)
	}
	if len(collector.Drain()) == 0 {
		t.Fatalf("expected reward notification")
	}

	recorder = postRPC(t, handler, "/tasks/delete", `{"id":"aaaaaaaa"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if len(tr.Tasks()) != 1 {
		t.Fatalf("expected one task left")
	}
}

func TestTaskTriggerErrors(t *testing.T) {
	s, _, _ := newTestServer(t)
	handler := s.Handler()

	recorder := postRPC(t, handler, "/tasks/complete", `{"id":"zzzz"}`)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
	recorder = postRPC(t, handler, "/tasks/timer", `{"id":""}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
	recorder = postRPC(t, handler, "/tasks/delete", `not json`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestRequireMethod(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/tasks/list", nil)
	recorder := httptest.NewRecorder()
	s.Handler().ServeHTTP(recorder, req)
	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", recorder.Code)
	}
	if allow := recorder.Header().Get("Allow"); allow != http.MethodPost {
		t.Fatalf("expected Allow POST, got %q", allow)
	}
}

func TestListStatsSuggestCapacity(t *testing.T) {
	s, _, _ := newTestServer(t)
	handler := s.Handler()

	recorder := postRPC(t, handler, "/suggest", `{}`)
	var suggestion suggestResponse
	decodeBody(t, recorder, &suggestion)
	if suggestion.Found {
		t.Fatalf("expected no suggestion on empty list")
	}

	postRPC(t, handler, "/tasks/add", `{"text":"gym"}`)
	postRPC(t, handler, "/tasks/add", `{"text":"Report 45min"}`)

	recorder = postRPC(t, handler, "/suggest", `{}`)
	decodeBody(t, recorder, &suggestion)
	if !suggestion.Found || suggestion.Task == nil || suggestion.Task.ID != "aaaaaaaa" {
		t.Fatalf("expected short task suggestion, got %+v", suggestion)
	}

	recorder = postRPC(t, handler, "/tasks/list", `{}`)
	var list listResponse
	decodeBody(t, recorder, &list)
	if len(list.Tasks) != 2 || list.Capacity.RemainingSeconds != 70*60 || list.Stats.Level != 1 {
		t.Fatalf("unexpected list response: %+v", list)
	}

	recorder = postRPC(t, handler, "/capacity", `{"minutes":60}`)
	var capacity capacityResponse
	decodeBody(t, recorder, &capacity)
	if capacity.Minutes != 60 || !capacity.Capacity.Over() {
		t.Fatalf("expected over capacity at 60 minutes, got %+v", capacity)
	}

	recorder = postRPC(t, handler, "/capacity", `{}`)
	decodeBody(t, recorder, &capacity)
	if capacity.Minutes != 60 {
		t.Fatalf("expected capacity read to keep 60, got %d", capacity.Minutes)
	}

	recorder = postRPC(t, handler, "/capacity", `{"minutes":0}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero capacity, got %d", recorder.Code)
	}

	recorder = postRPC(t, handler, "/stats", `{}`)
	var stats statsResponse
	decodeBody(t, recorder, &stats)
	if stats.Stats.Level != 1 || stats.Stats.NextLevelXP != 100 {
		t.Fatalf("unexpected stats: %+v", stats.Stats)
	}
}

func TestTasksParsePreview(t *testing.T) {
	s, tr, _ := newTestServer(t)

	recorder := postRPC(t, s.Handler(), "/tasks/parse", `{"text":"Study 40min"}`)
	var response parseResponse
	decodeBody(t, recorder, &response)
	if response.Draft.Title != "Study" || response.Draft.DurationMinutes != 40 {
		t.Fatalf("unexpected draft: %+v", response.Draft)
	}
	if len(tr.Tasks()) != 0 {
		t.Fatalf("expected preview not to add a task")
	}
}

func TestTasksRejectDurationOverADay(t *testing.T) {
	s, tr, _ := newTestServer(t)

	for _, path := range []string{"/tasks/add", "/tasks/parse"} {
		recorder := postRPC(t, s.Handler(), path, `{"text":"gym","minutes":1441}`)
		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, recorder.Code)
		}
		if message := errorMessage(t, recorder); !strings.HasPrefix(message, task.ErrInvalidDuration.Error()) {
			t.Fatalf("%s: unexpected error %q", path, message)
		}
	}
	if len(tr.Tasks()) != 0 {
		t.Fatalf("expected no tasks to be added")
	}
}

func TestNotificationsDrain(t *testing.T) {
	s, _, collector := newTestServer(t)
	collector.Notify(tracker.Notification{Kind: tracker.KindLevelUp, Level: 2})

	recorder := postRPC(t, s.Handler(), "/notifications", `{}`)
	var response notificationsResponse
	decodeBody(t, recorder, &response)
	if len(response.Notifications) != 1 || response.Notifications[0].Level != 2 {
		t.Fatalf("unexpected notifications: %+v", response.Notifications)
	}

	recorder = postRPC(t, s.Handler(), "/notifications", `{}`)
	decodeBody(t, recorder, &response)
	if len(response.Notifications) != 0 {
		t.Fatalf("expected drained buffer, got %+v", response.Notifications)
	}
}

func TestRootRedirectsToWeb(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	s.Handler().ServeHTTP(recorder, req)
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", recorder.Code)
	}
	if location := recorder.Header().Get("Location"); location != "/web/" {
		t.Fatalf("expected redirect to /web/, got %q", location)
	}
}

func TestRecoverHandlerWritesInternalError(t *testing.T) {
	s, _, _ := newTestServer(t)
	handler := s.recoverHandler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodPost, "/tasks/list", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", recorder.Code)
	}
	if message := errorMessage(t, recorder); message != "internal server error" {
		t.Fatalf("unexpected error %q", message)
	}
}

func TestClientRoundTrip(t *testing.T) {
	s, _, _ := newTestServer(t)
	httpServer := httptest.NewServer(s.Handler())
	defer httpServer.Close()

	ctx := context.Background()
	client := NewClient(strings.TrimPrefix(httpServer.URL, "http://"))

	created, err := client.Add(ctx, "Read paper 25min", 0)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.Category != task.CategoryStudy {
		t.Fatalf("expected study task, got %+v", created)
	}
	if _, err := client.ToggleTimer(ctx, created.ID); err != nil {
		t.Fatalf("toggle timer: %v", err)
	}
	tasks, load, stats, err := client.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 || !tasks[0].TimerRunning || load.OpenTasks != 1 || stats.Level != 1 {
		t.Fatalf("unexpected list: %+v %+v %+v", tasks, load, stats)
	}
	budget := 120
	minutes, _, err := client.Capacity(ctx, &budget)
	if err != nil || minutes != 120 {
		t.Fatalf("capacity: %d %v", minutes, err)
	}
	if _, ok, err := client.Suggest(ctx); err != nil || !ok {
		t.Fatalf("suggest: %v %v", ok, err)
	}
	if _, err := client.ToggleComplete(ctx, created.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	got, err := client.Stats(ctx)
	if err != nil || got.CurrentXP != 25 {
		t.Fatalf("stats: %+v %v", got, err)
	}
	notifications, err := client.Notifications(ctx)
	if err != nil || len(notifications) != 1 || notifications[0].Kind != tracker.KindRewardGranted {
		t.Fatalf("notifications: %+v %v", notifications, err)
	}
	if _, err := client.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = client.Delete(ctx, created.ID)
	if err == nil || !strings.Contains(err.Error(), task.ErrTaskNotFound.Error()) {
		t.Fatalf("expected not found error, got %v", err)
	}
	draft, err := client.Parse(ctx, "gym", 45)
	if err != nil || draft.DurationMinutes != 45 || draft.Difficulty != task.DifficultyHard {
		t.Fatalf("parse: %+v %v", draft, err)
	}
}

func TestWebPageServedThroughServer(t *testing.T) {
	s, _, _ := newTestServer(t)
	httpServer := httptest.NewServer(s.Handler())
	defer httpServer.Close()

	if _, err := NewClient(httpServer.URL).Add(context.Background(), "gym", 0); err != nil {
		t.Fatalf("add: %v", err)
	}
	resp, err := http.Get(httpServer.URL + "/web/")
	if err != nil {
		t.Fatalf("get web: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "<h2>gym</h2>") {
		t.Fatalf("expected task on page, got %s", body)
	}
}

func TestServeStopsWithContext(t *testing.T) {
	s, _, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, "127.0.0.1:0")
	}()
	cancel()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not stop")
	}
}

func TestResolveAddr(t *testing.T) {
	addr, err := ResolveAddr(nil, "")
	if err != nil || addr != "127.0.0.1:8089" {
		t.Fatalf("expected default addr, got %q %v", addr, err)
	}
	cfg := &config.Config{}
	cfg.Server.Port = 9001
	addr, err = ResolveAddr(cfg, "")
	if err != nil || addr != "127.0.0.1:9001" {
		t.Fatalf("expected configured port, got %q %v", addr, err)
	}
	addr, err = ResolveAddr(cfg, "7000")
	if err != nil || addr != "127.0.0.1:7000" {
		t.Fatalf("expected explicit port, got %q %v", addr, err)
	}
	addr, err = ResolveAddr(cfg, "0.0.0.0:7000")
	if err != nil || addr != "0.0.0.0:7000" {
		t.Fatalf("expected explicit addr, got %q %v", addr, err)
	}
	if _, err := ResolveAddr(cfg, "70000"); err == nil {
		t.Fatalf("expected out of range error")
	}
	if _, err := ResolveAddr(cfg, "abc"); err == nil {
		t.Fatalf("expected invalid port error")
	}
}

func TestResolveWebBaseURL(t *testing.T) {
	for _, tc := range []struct {
		addr string
		want string
	}{
		{"", ""},
		{":8089", "http://127.0.0.1:8089"},
		{"0.0.0.0:8089", "http://127.0.0.1:8089"},
		{"localhost:8089", "http://localhost:8089"},
		{"http://example.com/", "http://example.com"},
	} {
		if got := resolveWebBaseURL(tc.addr); got != tc.want {
			t.Fatalf("resolveWebBaseURL(%q) = %q, want %q", tc.addr, got, tc.want)
		}
	}
}
