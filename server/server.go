// Package server exposes a tracker over JSON RPC and serves the web UI.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"time"

	internalstrings "github.com/amonks/focus/internal/strings"
	"github.com/amonks/focus/task"
	"github.com/amonks/focus/tracker"
	"github.com/amonks/focus/web"
)

const shutdownTimeout = 5 * time.Second

// ServerOptions configures a server.
type ServerOptions struct {
	Tracker *tracker.Tracker

	// Notifications buffers notifications for the web page. Optional.
	Notifications *tracker.Collector

	Logger *log.Logger
}

// Server handles focus RPCs.
type Server struct {
	tracker       *tracker.Tracker
	notifications *tracker.Collector
	logger        *log.Logger
}

// NewServer creates a server.
func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Tracker == nil {
		return nil, fmt.Errorf("tracker is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "focus: ", log.LstdFlags)
	}
	notifications := opts.Notifications
	if notifications == nil {
		notifications = tracker.NewCollector(tracker.DefaultCollectorLimit)
	}
	return &Server{
		tracker:       opts.Tracker,
		notifications: notifications,
		logger:        logger,
	}, nil
}

// Handler returns the HTTP handler for RPCs and the web UI.
func (s *Server) Handler() http.Handler {
	return s.handler("")
}

func (s *Server) handler(baseURL string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/list", s.handleTasksList)
	mux.HandleFunc("/tasks/add", s.handleTasksAdd)
	mux.HandleFunc("/tasks/complete", s.handleTasksComplete)
	mux.HandleFunc("/tasks/timer", s.handleTasksTimer)
	mux.HandleFunc("/tasks/delete", s.handleTasksDelete)
	mux.HandleFunc("/tasks/parse", s.handleTasksParse)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/suggest", s.handleSuggest)
	mux.HandleFunc("/capacity", s.handleCapacity)
	mux.HandleFunc("/notifications", s.handleNotifications)
	webHandler := web.NewHandler(web.Options{BaseURL: baseURL})
	mux.Handle("/web/", webHandler)
	mux.Handle("/web", http.RedirectHandler("/web/", http.StatusFound))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/web/", http.StatusFound)
	})
	return s.recoverHandler(mux)
}

// Serve runs the server on addr and ticks the tracker until ctx is done or
// an interrupt arrives.
func (s *Server) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:     addr,
		Handler:  s.handler(resolveWebBaseURL(addr)),
		ErrorLog: s.logger,
	}

	tickCtx, stopTicking := context.WithCancel(ctx)
	ticking := make(chan struct{})
	go func() {
		defer close(ticking)
		_ = s.tracker.Run(tickCtx)
	}()
	defer func() {
		stopTicking()
		<-ticking
	}()

	listenErrs := make(chan error, 1)
	go func() {
		listenErrs <- server.ListenAndServe()
	}()
	s.logf("listening on %s", addr)

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	select {
	case err := <-listenErrs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logf("server stopped: %v", err)
			return err
		}
		return nil
	case <-interrupts:
		s.logf("interrupt received, shutting down")
	case <-ctx.Done():
		s.logf("context done, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	shutdownErr := server.Shutdown(shutdownCtx)
	cancel()
	listenErr := <-listenErrs
	if errors.Is(listenErr, http.ErrServerClosed) {
		listenErr = nil
	}
	if errors.Is(shutdownErr, http.ErrServerClosed) {
		shutdownErr = nil
	}
	return errors.Join(shutdownErr, listenErr)
}

func (s *Server) handleTasksList(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var request emptyRequest
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{
		Tasks:    s.tracker.Tasks(),
		Capacity: s.tracker.Capacity(),
		Stats:    s.tracker.Stats(),
	})
}

func (s *Server) handleTasksAdd(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var request addRequest
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if internalstrings.IsBlank(request.Text) {
		s.writeError(w, r, http.StatusBadRequest, task.ErrEmptyTitle)
		return
	}
	created, err := s.tracker.AddWithDuration(r.Context(), request.Text, request.Minutes)
	if err != nil {
		s.writeTaskError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{Task: created})
}

func (s *Server) handleTasksComplete(w http.ResponseWriter, r *http.Request) {
	s.handleTaskTrigger(w, r, s.tracker.ToggleComplete)
}

func (s *Server) handleTasksTimer(w http.ResponseWriter, r *http.Request) {
	s.handleTaskTrigger(w, r, s.tracker.ToggleTimer)
}

func (s *Server) handleTasksDelete(w http.ResponseWriter, r *http.Request) {
	s.handleTaskTrigger(w, r, s.tracker.Delete)
}

func (s *Server) handleTaskTrigger(w http.ResponseWriter, r *http.Request, trigger func(context.Context, string) (task.Task, error)) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var request idRequest
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if internalstrings.IsBlank(request.ID) {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("task id is required"))
		return
	}
	updated, err := trigger(r.Context(), request.ID)
	if err != nil {
		s.writeTaskError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{Task: updated})
}

func (s *Server) handleTasksParse(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var request parseRequest
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	draft := s.tracker.Preview(request.Text)
	if request.Minutes != 0 {
		if err := task.ValidateMinutes(request.Minutes); err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}
		draft = draft.WithDuration(request.Minutes)
	}
	writeJSON(w, http.StatusOK, parseResponse{Draft: draft})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var request emptyRequest
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Stats: s.tracker.Stats()})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var request emptyRequest
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	suggestion, ok := s.tracker.Suggest()
	response := suggestResponse{Found: ok}
	if ok {
		response.Task = &suggestion
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleCapacity(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var request capacityRequest
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if request.Minutes != nil {
		if err := s.tracker.SetCapacity(*request.Minutes); err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, capacityResponse{
		Minutes:  s.tracker.CapacityMinutes(),
		Capacity: s.tracker.Capacity(),
	})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var request emptyRequest
	if err := decodeJSON(r, &request); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	items := s.notifications.Drain()
	if items == nil {
		items = []tracker.Notification{}
	}
	writeJSON(w, http.StatusOK, notificationsResponse{Notifications: items})
}

func (s *Server) recoverHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tracked := &responseTracker{ResponseWriter: w}
		defer func() {
			if recovered := recover(); recovered != nil {
				s.logf("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, recovered, debug.Stack())
				if !tracked.wroteHeader {
					writeJSON(tracked, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
				}
			}
		}()
		next.ServeHTTP(tracked, r)
	})
}

func (s *Server) writeTaskError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		s.writeError(w, r, http.StatusNotFound, err)
	case errors.Is(err, task.ErrAmbiguousTaskIDPrefix),
		errors.Is(err, task.ErrEmptyTitle),
		errors.Is(err, task.ErrTitleTooLong),
		errors.Is(err, task.ErrInvalidDuration):
		s.writeError(w, r, http.StatusBadRequest, err)
	default:
		s.writeError(w, r, http.StatusInternalServerError, err)
	}
}

func resolveWebBaseURL(addr string) string {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return internalstrings.TrimTrailingSlash(trimmed)
	}
	host := trimmed
	if strings.HasPrefix(host, ":") {
		host = "127.0.0.1" + host
	}
	if strings.HasPrefix(host, "0.0.0.0:") {
		host = "127.0.0.1:" + strings.TrimPrefix(host, "0.0.0.0:")
	}
	return "http://" + host
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	return false
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	if decoder.More() {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logRequestError(r, status, err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) logRequestError(r *http.Request, status int, err error) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Printf("request %s %s failed (%d): %v", r.Method, r.URL.Path, status, err)
}

func (s *Server) logf(format string, args ...any) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Printf(format, args...)
}

type responseTracker struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *responseTracker) WriteHeader(status int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseTracker) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(data)
}
