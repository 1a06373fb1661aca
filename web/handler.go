package web

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"sync"
	"time"

	internalstrings "github.com/amonks/focus/internal/strings"
	"github.com/amonks/focus/internal/ui"
	"github.com/amonks/focus/reward"
	"github.com/amonks/focus/task"
	"github.com/amonks/focus/tracker"
)

// recentNotifications bounds the notification list shown on the page.
const recentNotifications = 8

// Options configures the web handler.
type Options struct {
	BaseURL string
}

// Handler serves the focus web client. It talks to the RPC endpoints of
// the server it is mounted on.
type Handler struct {
	baseURL   string
	client    *http.Client
	mux       *http.ServeMux
	templates *templateWrapper

	mu            sync.Mutex
	tasks         []task.Task
	notifications []tracker.Notification
	draft         *formDraft
}

// NewHandler creates a new web handler.
func NewHandler(opts Options) *Handler {
	handler := &Handler{
		baseURL:   internalstrings.TrimTrailingSlash(opts.BaseURL),
		client:    &http.Client{},
		templates: newTemplateWrapper(),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/web/", handler.handleTasks)
	mux.HandleFunc("/web/tasks/add", handler.handleTasksAdd)
	mux.HandleFunc("/web/tasks/complete", handler.handleTasksComplete)
	mux.HandleFunc("/web/tasks/timer", handler.handleTasksTimer)
	mux.HandleFunc("/web/tasks/delete", handler.handleTasksDelete)
	mux.HandleFunc("/web/capacity", handler.handleCapacity)
	mux.HandleFunc("/web/suggest", handler.handleSuggest)
	handler.mux = mux
	return handler
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type templateWrapper struct {
	tmpl *template.Template
}

func newTemplateWrapper() *templateWrapper {
	return &templateWrapper{tmpl: newTemplates()}
}

func (tw *templateWrapper) Render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = tw.tmpl.ExecuteTemplate(w, "page", data)
}

type selectOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Tasks           []task.Task
	SelectedTask    *task.Task
	SelectedTaskID  string
	Stats           reward.Stats
	Capacity        task.Load
	Notifications   []tracker.Notification
	Running         bool
	Error           string
	Message         string
	AddText         string
	DurationOptions []selectOption
	CapacityOptions []selectOption
}

// formDraft carries the outcome of a POST across its redirect.
type formDraft struct {
	err     string
	message string
	text    string
	minutes string
}

func (h *Handler) handleTasks(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/web/" && r.URL.Path != "/web/tasks" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	baseURL := h.requestBaseURL(r)
	list, err := h.refreshTasks(r.Context(), baseURL)
	pageError := ""
	if err != nil {
		pageError = err.Error()
	}
	notifications, err := h.refreshNotifications(r.Context(), baseURL)
	if err != nil && pageError == "" {
		pageError = err.Error()
	}

	selectedID := trimmedQueryValue(r, "id")
	selectedTask := selectTask(list.Tasks, selectedID)
	if selectedTask == nil {
		selectedTask = defaultSelection(list.Tasks)
	}
	if selectedTask != nil {
		selectedID = selectedTask.ID
	}

	data := pageData{
		Tasks:           list.Tasks,
		SelectedTask:    selectedTask,
		SelectedTaskID:  selectedID,
		Stats:           list.Stats,
		Capacity:        list.Capacity,
		Notifications:   notifications,
		Running:         anyRunning(list.Tasks),
		Error:           pageError,
		DurationOptions: durationOptions(""),
		CapacityOptions: capacityOptions(list.Capacity.BudgetSeconds / 60),
	}
	if draft := h.consumeDraft(); draft != nil {
		if draft.err != "" {
			data.Error = draft.err
		}
		data.Message = draft.message
		data.AddText = draft.text
		data.DurationOptions = durationOptions(draft.minutes)
	}
	h.templates.Render(w, data)
}

func (h *Handler) handleTasksAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.setDraft(formDraft{err: "invalid form input"})
		http.Redirect(w, r, "/web/", http.StatusSeeOther)
		return
	}
	text := trimmedFormValue(r, "text")
	minutesValue := trimmedFormValue(r, "minutes")
	minutes, err := parseMinutes(minutesValue)
	if err != nil {
		h.setDraft(formDraft{err: err.Error(), text: text, minutes: minutesValue})
		http.Redirect(w, r, "/web/", http.StatusSeeOther)
		return
	}
	if text == "" {
		h.setDraft(formDraft{err: task.ErrEmptyTitle.Error(), minutes: minutesValue})
		http.Redirect(w, r, "/web/", http.StatusSeeOther)
		return
	}

	var response taskResponse
	request := addRequest{Text: text, Minutes: minutes}
	if err := postJSON(r.Context(), h.client, h.requestBaseURL(r), "/tasks/add", request, &response); err != nil {
		h.setDraft(formDraft{err: err.Error(), text: text, minutes: minutesValue})
		http.Redirect(w, r, "/web/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, taskRedirectPath(response.Task.ID), http.StatusSeeOther)
}

func (h *Handler) handleTasksComplete(w http.ResponseWriter, r *http.Request) {
	h.handleTaskAction(w, r, "/tasks/complete")
}

func (h *Handler) handleTasksTimer(w http.ResponseWriter, r *http.Request) {
	h.handleTaskAction(w, r, "/tasks/timer")
}

func (h *Handler) handleTasksDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	taskID := trimmedQueryValue(r, "id")
	if taskID == "" {
		h.setDraft(formDraft{err: "task id is required"})
		http.Redirect(w, r, "/web/", http.StatusSeeOther)
		return
	}
	var response taskResponse
	if err := postJSON(r.Context(), h.client, h.requestBaseURL(r), "/tasks/delete", idRequest{ID: taskID}, &response); err != nil {
		h.setDraft(formDraft{err: err.Error()})
		http.Redirect(w, r, taskRedirectPath(taskID), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/web/", http.StatusSeeOther)
}

func (h *Handler) handleTaskAction(w http.ResponseWriter, r *http.Request, path string) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	taskID := trimmedQueryValue(r, "id")
	if taskID == "" {
		h.setDraft(formDraft{err: "task id is required"})
		http.Redirect(w, r, "/web/", http.StatusSeeOther)
		return
	}
	var response taskResponse
	if err := postJSON(r.Context(), h.client, h.requestBaseURL(r), path, idRequest{ID: taskID}, &response); err != nil {
		h.setDraft(formDraft{err: err.Error()})
	}
	http.Redirect(w, r, taskRedirectPath(taskID), http.StatusSeeOther)
}

func (h *Handler) handleCapacity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.setDraft(formDraft{err: "invalid form input"})
		http.Redirect(w, r, "/web/", http.StatusSeeOther)
		return
	}
	minutes, err := parseMinutes(trimmedFormValue(r, "minutes"))
	if err != nil {
		h.setDraft(formDraft{err: err.Error()})
		http.Redirect(w, r, "/web/", http.StatusSeeOther)
		return
	}
	if minutes == 0 {
		h.setDraft(formDraft{err: "capacity is required"})
		http.Redirect(w, r, "/web/", http.StatusSeeOther)
		return
	}
	var response capacityResponse
	if err := postJSON(r.Context(), h.client, h.requestBaseURL(r), "/capacity", capacityRequest{Minutes: &minutes}, &response); err != nil {
		h.setDraft(formDraft{err: err.Error()})
		http.Redirect(w, r, "/web/", http.StatusSeeOther)
		return
	}
	h.setDraft(formDraft{message: "Capacity: " + ui.CapacitySummary(response.Capacity)})
	http.Redirect(w, r, "/web/", http.StatusSeeOther)
}

func (h *Handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	var response suggestResponse
	if err := postJSON(r.Context(), h.client, h.requestBaseURL(r), "/suggest", emptyRequest{}, &response); err != nil {
		h.setDraft(formDraft{err: err.Error()})
		http.Redirect(w, r, "/web/", http.StatusSeeOther)
		return
	}
	if !response.Found || response.Task == nil {
		h.setDraft(formDraft{message: "No quick tasks available. Try a task of 15 minutes or less."})
		http.Redirect(w, r, "/web/", http.StatusSeeOther)
		return
	}
	suggestion := response.Task
	h.setDraft(formDraft{message: fmt.Sprintf("Suggested: %s (%s)", suggestion.Title, ui.FormatMinutes(suggestion.TimeLeft))})
	http.Redirect(w, r, taskRedirectPath(suggestion.ID), http.StatusSeeOther)
}

func (h *Handler) requestBaseURL(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (h *Handler) refreshTasks(ctx context.Context, baseURL string) (listResponse, error) {
	var response listResponse
	err := postJSON(ctx, h.client, baseURL, "/tasks/list", emptyRequest{}, &response)
	if err != nil {
		h.mu.Lock()
		cached := append([]task.Task(nil), h.tasks...)
		h.mu.Unlock()
		return listResponse{Tasks: cached}, err
	}
	h.mu.Lock()
	h.tasks = append([]task.Task(nil), response.Tasks...)
	h.mu.Unlock()
	return response, nil
}

// refreshNotifications drains the server's buffer and returns the most
// recent notifications, newest first.
func (h *Handler) refreshNotifications(ctx context.Context, baseURL string) ([]tracker.Notification, error) {
	var response notificationsResponse
	err := postJSON(ctx, h.client, baseURL, "/notifications", emptyRequest{}, &response)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err == nil {
		for _, item := range response.Notifications {
			h.notifications = append([]tracker.Notification{item}, h.notifications...)
		}
		if len(h.notifications) > recentNotifications {
			h.notifications = h.notifications[:recentNotifications]
		}
	}
	return append([]tracker.Notification(nil), h.notifications...), err
}

func (h *Handler) setDraft(draft formDraft) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.draft = &draft
}

func (h *Handler) consumeDraft() *formDraft {
	h.mu.Lock()
	defer h.mu.Unlock()
	draft := h.draft
	h.draft = nil
	return draft
}

func parseMinutes(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	minutes, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("minutes must be a number")
	}
	if minutes < 0 {
		return 0, task.ErrInvalidDuration
	}
	return minutes, nil
}

func trimmedValue(value string) string {
	return internalstrings.TrimSpace(value)
}

func trimmedQueryValue(r *http.Request, key string) string {
	return trimmedValue(r.URL.Query().Get(key))
}

func trimmedFormValue(r *http.Request, key string) string {
	return trimmedValue(r.FormValue(key))
}

func selectTask(tasks []task.Task, id string) *task.Task {
	if id == "" {
		return nil
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}

// defaultSelection prefers the running task, then the first open one.
func defaultSelection(tasks []task.Task) *task.Task {
	for i := range tasks {
		if tasks[i].TimerRunning {
			return &tasks[i]
		}
	}
	for i := range tasks {
		if !tasks[i].Completed {
			return &tasks[i]
		}
	}
	if len(tasks) > 0 {
		return &tasks[0]
	}
	return nil
}

func anyRunning(tasks []task.Task) bool {
	for _, item := range tasks {
		if item.TimerRunning {
			return true
		}
	}
	return false
}

func durationOptions(selected string) []selectOption {
	options := []selectOption{{Value: "", Label: "from text", Selected: selected == ""}}
	for _, minutes := range task.DurationOptions() {
		value := strconv.Itoa(minutes)
		options = append(options, selectOption{
			Value:    value,
			Label:    ui.FormatMinutes(minutes * 60),
			Selected: value == selected,
		})
	}
	return options
}

func capacityOptions(current int) []selectOption {
	values := task.CapacityOptions()
	options := make([]selectOption, 0, len(values)+1)
	found := false
	for _, minutes := range values {
		if minutes == current {
			found = true
		}
		options = append(options, selectOption{
			Value:    strconv.Itoa(minutes),
			Label:    ui.FormatMinutes(minutes * 60),
			Selected: minutes == current,
		})
	}
	if !found && current > 0 {
		options = append(options, selectOption{
			Value:    strconv.Itoa(current),
			Label:    ui.FormatMinutes(current * 60),
			Selected: true,
		})
	}
	return options
}

func taskRedirectPath(taskID string) string {
	if internalstrings.IsBlank(taskID) {
		return "/web/"
	}
	return "/web/?id=" + taskID
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format("2006-01-02 15:04:05")
}

func formatOptionalTime(value *time.Time) string {
	if value == nil {
		return "-"
	}
	return formatTime(*value)
}

func writeMethodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
