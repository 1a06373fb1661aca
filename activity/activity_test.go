package activity

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogAppendsEvents(t *testing.T) {
	path := Path(t.TempDir())
	log, err := OpenLog(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	stamp := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	log.now = func() time.Time { return stamp }

	if err := log.Record(TaskAdded, "abc12345", map[string]int{"minutes": 25}); err != nil {
		_ = log.Close()
		t.Fatalf("record event: %v", err)
	}
	if err := log.Record(TimerStarted, "abc12345", nil); err != nil {
		_ = log.Close()
		t.Fatalf("record event: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("close log: %v", err)
	}

	events, err := Snapshot(path)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Name != TaskAdded || events[0].TaskID != "abc12345" || events[0].Data != `{"minutes":25}` {
		t.Fatalf("unexpected first event: %#v", events[0])
	}
	if !events[0].Time.Equal(stamp) {
		t.Fatalf("expected time %v, got %v", stamp, events[0].Time)
	}
	if events[1].Name != TimerStarted || events[1].Data != "" {
		t.Fatalf("unexpected second event: %#v", events[1])
	}
}

func TestLogReopenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	for _, name := range []string{TaskAdded, TaskDeleted} {
		log, err := OpenLog(path)
		if err != nil {
			t.Fatalf("open log: %v", err)
		}
		if err := log.Record(name, "", "x"); err != nil {
			t.Fatalf("record: %v", err)
		}
		if err := log.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}

	events, err := Snapshot(path)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(events) != 2 || events[1].Name != TaskDeleted {
		t.Fatalf("unexpected events: %#v", events)
	}
}

func TestAppendAfterCloseFails(t *testing.T) {
	log, err := OpenLog(Path(t.TempDir()))
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := log.Append(Event{Name: TaskAdded}); err == nil {
		t.Fatalf("expected error appending to closed log")
	}
}

func TestNilLogIsNoop(t *testing.T) {
	var log *Log
	if err := log.Record(TaskAdded, "id", nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestSnapshotMissingFileReturnsEmpty(t *testing.T) {
	events, err := Snapshot(filepath.Join(t.TempDir(), "missing.jsonl"))
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Fatalf("expected empty events, got %#v", events)
	}
}

func TestReadEventsRejectsGarbage(t *testing.T) {
	_, err := ReadEvents(strings.NewReader("{\"name\":\"task.added\"}\nnot json\n"))
	if err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestOpenLogRequiresPath(t *testing.T) {
	if _, err := OpenLog(""); err == nil {
		t.Fatalf("expected error")
	}
}
