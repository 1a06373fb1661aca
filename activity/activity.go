// Package activity keeps an append-only JSONL history of tracker triggers.
package activity

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileName is the log's file name inside the state directory.
const FileName = "activity.jsonl"

// Event names.
const (
	TaskAdded     = "task.added"
	TaskCompleted = "task.completed"
	TaskReopened  = "task.reopened"
	TaskDeleted   = "task.deleted"
	TimerStarted  = "timer.started"
	TimerPaused   = "timer.paused"
	TimerFinished = "timer.finished"
	RewardGranted = "reward.granted"
	LevelUp       = "level.up"
	CapacitySet   = "capacity.set"
)

// Event is one line of the activity log.
type Event struct {
	Time   time.Time `json:"time"`
	Name   string    `json:"name"`
	TaskID string    `json:"task_id,omitempty"`
	Data   string    `json:"data,omitempty"`
}

// Log appends events to a JSONL file.
type Log struct {
	path    string
	file    *os.File
	encoder *json.Encoder
	now     func() time.Time
	mu      sync.Mutex
}

// Path returns the log path inside stateDir.
func Path(stateDir string) string {
	return filepath.Join(stateDir, FileName)
}

// OpenLog opens the log at path for appending, creating it if needed.
func OpenLog(path string) (*Log, error) {
	if path == "" {
		return nil, fmt.Errorf("activity log path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create activity dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open activity log: %w", err)
	}
	return &Log{path: path, file: file, encoder: json.NewEncoder(file), now: time.Now}, nil
}

// Append writes an event. A zero Time is stamped with the current time.
// Appending to a nil log is a no-op.
func (log *Log) Append(event Event) error {
	if log == nil {
		return nil
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if log.encoder == nil {
		return fmt.Errorf("activity log is closed")
	}
	if event.Time.IsZero() {
		event.Time = log.now().UTC()
	}
	return log.encoder.Encode(event)
}

// Record appends an event whose data is payload encoded as JSON. String
// payloads are stored as-is.
func (log *Log) Record(name, taskID string, payload any) error {
	if log == nil {
		return nil
	}
	data, err := marshalData(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", name, err)
	}
	return log.Append(Event{Name: name, TaskID: taskID, Data: data})
}

// Close closes the log file.
func (log *Log) Close() error {
	if log == nil {
		return nil
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if log.file == nil {
		return nil
	}
	err := log.file.Close()
	log.file = nil
	log.encoder = nil
	return err
}

// ReadEvents reads events from a JSONL reader.
func ReadEvents(reader io.Reader) ([]Event, error) {
	events := make([]Event, 0)
	if reader == nil {
		return events, nil
	}
	buffer := bufio.NewReader(reader)
	for {
		line, err := buffer.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line != "" {
			var event Event
			if unmarshalErr := json.Unmarshal([]byte(line), &event); unmarshalErr != nil {
				return nil, fmt.Errorf("decode activity event: %w", unmarshalErr)
			}
			events = append(events, event)
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}
	return events, nil
}

// Snapshot returns the events stored at path. A missing log is empty.
func Snapshot(path string) ([]Event, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Event{}, nil
		}
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()
	return ReadEvents(file)
}

func marshalData(payload any) (string, error) {
	if payload == nil {
		return "", nil
	}
	if value, ok := payload.(string); ok {
		return value, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
