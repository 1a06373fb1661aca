package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/amonks/focus/reward"
	"github.com/amonks/focus/task"
)

// Store encodes the tracker's records on top of a Backend.
type Store struct {
	backend Backend
}

// NewStore returns a store writing through backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// OpenStore opens the backend for driver in dir and wraps it in a Store.
func OpenStore(driver, dir string) (*Store, error) {
	backend, err := Open(driver, dir)
	if err != nil {
		return nil, err
	}
	return NewStore(backend), nil
}

// LoadTasks returns the stored tasks. A missing record yields an empty list;
// undecodable data yields ErrCorruptRecord.
func (s *Store) LoadTasks(ctx context.Context) ([]task.Task, error) {
	data, err := s.backend.Read(ctx, RecordTasks)
	if errors.Is(err, ErrRecordNotFound) {
		return []task.Task{}, nil
	}
	if err != nil {
		return nil, err
	}

	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, RecordTasks, err)
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

// LoadStats returns the stored stats. A missing record yields the defaults;
// undecodable or invalid data yields ErrCorruptRecord.
func (s *Store) LoadStats(ctx context.Context) (reward.Stats, error) {
	data, err := s.backend.Read(ctx, RecordStats)
	if errors.Is(err, ErrRecordNotFound) {
		return reward.DefaultStats(), nil
	}
	if err != nil {
		return reward.Stats{}, err
	}

	var stats reward.Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return reward.Stats{}, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, RecordStats, err)
	}
	if err := stats.Validate(); err != nil {
		return reward.Stats{}, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, RecordStats, err)
	}
	return stats, nil
}

// SaveTasks writes the tasks record.
func (s *Store) SaveTasks(ctx context.Context, tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	return s.save(ctx, RecordTasks, tasks)
}

// SaveStats writes the stats record.
func (s *Store) SaveStats(ctx context.Context, stats reward.Stats) error {
	return s.save(ctx, RecordStats, stats)
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) save(ctx context.Context, name string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	data = append(data, '\n')
	if err := s.backend.Write(ctx, name, data); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}
