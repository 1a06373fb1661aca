package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/amonks/focus/reward"
	"github.com/amonks/focus/task"
	"github.com/amonks/focus/tracker"
)

func sampleTasks() []task.Task {
	now := time.Now()
	return []task.Task{
		{
			ID:           "aaaaaaaa",
			Title:        "Report",
			TimeLeft:     45 * 60,
			InitialTime:  45 * 60,
			Category:     task.CategoryWork,
			Difficulty:   task.DifficultyHard,
			RewardPoints: 135,
			CreatedAt:    now,
		},
		{
			ID:           "bbbbbbbb",
			Title:        "Gym",
			TimeLeft:     30,
			InitialTime:  25 * 60,
			TimerRunning: true,
			Category:     task.CategoryHealth,
			Difficulty:   task.DifficultyEasy,
			RewardPoints: 25,
			CreatedAt:    now,
		},
	}
}

func newRPCMux(t *testing.T, tasks []task.Task, notifications []tracker.Notification) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/list", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_ = json.NewEncoder(w).Encode(listResponse{
			Tasks:    tasks,
			Capacity: task.Capacity(tasks, 4*60),
			Stats:    reward.Stats{Level: 2, CurrentXP: 10, NextLevelXP: 120},
		})
	})
	mux.HandleFunc("/notifications", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(notificationsResponse{Notifications: notifications})
		notifications = nil
	})
	return mux
}

func noRedirectClient() *http.Client {
	return &http.Client{CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func getBody(t *testing.T, target string) string {
	t.Helper()
	resp, err := http.Get(target)
	if err != nil {
		t.Fatalf("get %s: %v", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return string(body)
}

func TestTasksViewDefaultsToRunningTask(t *testing.T) {
	mux := newRPCMux(t, sampleTasks(), nil)
	mux.Handle("/web/", NewHandler(Options{}))
	server := httptest.NewServer(mux)
	defer server.Close()

	output := getBody(t, server.URL+"/web/")
	if !strings.Contains(output, "<h2>Gym</h2>") {
		t.Fatalf("expected running task to be selected, got %s", output)
	}
	if !strings.Contains(output, "Pause timer") {
		t.Fatalf("expected pause button for running task")
	}
	if !strings.Contains(output, `http-equiv="refresh"`) {
		t.Fatalf("expected auto refresh while a timer runs")
	}
	if !strings.Contains(output, `class="urgent"`) {
		t.Fatalf("expected urgent clock for task under a minute")
	}
	if !strings.Contains(output, "Level 2") {
		t.Fatalf("expected stats in header")
	}
}

func TestTasksViewSelectsByID(t *testing.T) {
	mux := newRPCMux(t, sampleTasks(), nil)
	mux.Handle("/web/", NewHandler(Options{}))
	server := httptest.NewServer(mux)
	defer server.Close()

	output := getBody(t, server.URL+"/web/?id=aaaaaaaa")
	if !strings.Contains(output, "<h2>Report</h2>") {
		t.Fatalf("expected selected task, got %s", output)
	}
	if !strings.Contains(output, "★★★") {
		t.Fatalf("expected hard difficulty stars")
	}
	if !strings.Contains(output, "Start timer") {
		t.Fatalf("expected start button for paused task")
	}
}

func TestTasksViewKeepsRecentNotifications(t *testing.T) {
	notifications := []tracker.Notification{
		{Kind: tracker.KindTimerFinished, Title: "Gym"},
		{Kind: tracker.KindLevelUp, Level: 3},
	}
	mux := newRPCMux(t, sampleTasks(), notifications)
	mux.Handle("/web/", NewHandler(Options{}))
	server := httptest.NewServer(mux)
	defer server.Close()

	first := getBody(t, server.URL+"/web/")
	second := getBody(t, server.URL+"/web/")
	for _, output := range []string{first, second} {
		if !strings.Contains(output, "Time&#39;s up: Gym") {
			t.Fatalf("expected timer notification, got %s", output)
		}
		if !strings.Contains(output, "Level up! You reached level 3") {
			t.Fatalf("expected level notification")
		}
	}
	if strings.Index(second, "Level up!") > strings.Index(second, "Time&#39;s up") {
		t.Fatalf("expected newest notification first")
	}
}

func TestTaskAddRedirectsToNewTask(t *testing.T) {
	createdID := "cccccccc"

	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/add", func(w http.ResponseWriter, r *http.Request) {
		var request addRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if request.Text != "Read chapter" || request.Minutes != 45 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(taskResponse{Task: task.Task{ID: createdID, Title: request.Text}})
	})
	mux.Handle("/web/", NewHandler(Options{}))
	server := httptest.NewServer(mux)
	defer server.Close()

	form := url.Values{}
	form.Set("text", "Read chapter")
	form.Set("minutes", "45")
	resp, err := noRedirectClient().PostForm(server.URL+"/web/tasks/add", form)
	if err != nil {
		t.Fatalf("post add: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", resp.StatusCode)
	}
	if location := resp.Header.Get("Location"); location != "/web/?id="+createdID {
		t.Fatalf("expected redirect to task, got %q", location)
	}
}

func TestTaskAddShowsErrorAfterRedirect(t *testing.T) {
	mux := newRPCMux(t, nil, nil)
	mux.HandleFunc("/tasks/add", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "title exceeds maximum length"})
	})
	mux.Handle("/web/", NewHandler(Options{}))
	server := httptest.NewServer(mux)
	defer server.Close()

	form := url.Values{}
	form.Set("text", "Too long")
	form.Set("minutes", "25")
	resp, err := noRedirectClient().PostForm(server.URL+"/web/tasks/add", form)
	if err != nil {
		t.Fatalf("post add: %v", err)
	}
	resp.Body.Close()
	if location := resp.Header.Get("Location"); location != "/web/" {
		t.Fatalf("expected redirect to page, got %q", location)
	}

	output := getBody(t, server.URL+"/web/")
	if !strings.Contains(output, "title exceeds maximum length") {
		t.Fatalf("expected error on page, got %s", output)
	}
	if !strings.Contains(output, `value="Too long"`) {
		t.Fatalf("expected text to be kept")
	}
	if !strings.Contains(output, `<option value="25" selected>`) {
		t.Fatalf("expected duration to be kept")
	}
}

func TestTaskActionsPostID(t *testing.T) {
	for _, tc := range []struct {
		action   string
		rpc      string
		location string
	}{
		{action: "/web/tasks/complete", rpc: "/tasks/complete", location: "/web/?id=aaaaaaaa"},
		{action: "/web/tasks/timer", rpc: "/tasks/timer", location: "/web/?id=aaaaaaaa"},
		{action: "/web/tasks/delete", rpc: "/tasks/delete", location: "/web/"},
	} {
		t.Run(tc.rpc, func(t *testing.T) {
			called := ""
			mux := http.NewServeMux()
			mux.HandleFunc(tc.rpc, func(w http.ResponseWriter, r *http.Request) {
				var request idRequest
				if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				called = request.ID
				_ = json.NewEncoder(w).Encode(taskResponse{Task: task.Task{ID: request.ID}})
			})
			mux.Handle("/web/", NewHandler(Options{}))
			server := httptest.NewServer(mux)
			defer server.Close()

			resp, err := noRedirectClient().Post(server.URL+tc.action+"?id=aaaaaaaa", "application/x-www-form-urlencoded", nil)
			if err != nil {
				t.Fatalf("post: %v", err)
			}
			resp.Body.Close()
			if called != "aaaaaaaa" {
				t.Fatalf("expected rpc with id, got %q", called)
			}
			if location := resp.Header.Get("Location"); location != tc.location {
				t.Fatalf("expected redirect to %q, got %q", tc.location, location)
			}
		})
	}
}

func TestCapacitySetsBudget(t *testing.T) {
	var got int
	mux := newRPCMux(t, sampleTasks(), nil)
	mux.HandleFunc("/capacity", func(w http.ResponseWriter, r *http.Request) {
		var request capacityRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Minutes == nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		got = *request.Minutes
		_ = json.NewEncoder(w).Encode(capacityResponse{
			Minutes:  got,
			Capacity: task.Load{RemainingSeconds: 3600, BudgetSeconds: got * 60},
		})
	})
	mux.Handle("/web/", NewHandler(Options{}))
	server := httptest.NewServer(mux)
	defer server.Close()

	form := url.Values{}
	form.Set("minutes", "120")
	resp, err := noRedirectClient().PostForm(server.URL+"/web/capacity", form)
	if err != nil {
		t.Fatalf("post capacity: %v", err)
	}
	resp.Body.Close()
	if got != 120 {
		t.Fatalf("expected budget 120, got %d", got)
	}

	output := getBody(t, server.URL+"/web/")
	if !strings.Contains(output, "Capacity: 1h planned of 2h (50%)") {
		t.Fatalf("expected capacity message, got %s", output)
	}
}

func TestSuggestRedirectsToSuggestion(t *testing.T) {
	mux := newRPCMux(t, sampleTasks(), nil)
	mux.HandleFunc("/suggest", func(w http.ResponseWriter, r *http.Request) {
		suggestion := sampleTasks()[1]
		_ = json.NewEncoder(w).Encode(suggestResponse{Found: true, Task: &suggestion})
	})
	mux.Handle("/web/", NewHandler(Options{}))
	server := httptest.NewServer(mux)
	defer server.Close()

	resp, err := noRedirectClient().Post(server.URL+"/web/suggest", "application/x-www-form-urlencoded", nil)
	if err != nil {
		t.Fatalf("post suggest: %v", err)
	}
	resp.Body.Close()
	if location := resp.Header.Get("Location"); location != "/web/?id=bbbbbbbb" {
		t.Fatalf("expected redirect to suggestion, got %q", location)
	}
	output := getBody(t, server.URL+"/web/?id=bbbbbbbb")
	if !strings.Contains(output, "Suggested: Gym") {
		t.Fatalf("expected suggestion message, got %s", output)
	}
}

func TestSuggestWithoutCandidates(t *testing.T) {
	mux := newRPCMux(t, nil, nil)
	mux.HandleFunc("/suggest", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(suggestResponse{Found: false})
	})
	mux.Handle("/web/", NewHandler(Options{}))
	server := httptest.NewServer(mux)
	defer server.Close()

	resp, err := noRedirectClient().Post(server.URL+"/web/suggest", "application/x-www-form-urlencoded", nil)
	if err != nil {
		t.Fatalf("post suggest: %v", err)
	}
	resp.Body.Close()
	output := getBody(t, server.URL+"/web/")
	if !strings.Contains(output, "No quick tasks available") {
		t.Fatalf("expected empty suggestion message, got %s", output)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handler := NewHandler(Options{})
	req := httptest.NewRequest(http.MethodGet, "/web/tasks/add", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", recorder.Code)
	}
	if allow := recorder.Header().Get("Allow"); allow != http.MethodPost {
		t.Fatalf("expected Allow POST, got %q", allow)
	}
}

func TestUnknownPathNotFound(t *testing.T) {
	handler := NewHandler(Options{})
	req := httptest.NewRequest(http.MethodGet, "/web/nope", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}
