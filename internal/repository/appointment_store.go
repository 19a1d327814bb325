package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"property-assistant/internal/model"
)

// AppointmentStore keeps appointments in a JSON object keyed by id.
// Writes within one process are serialised; concurrent processes sharing
// the file overwrite each other.
type AppointmentStore struct {
	mu   sync.Mutex
	path string
}

// NewAppointmentStore creates a store backed by path
func NewAppointmentStore(path string) *AppointmentStore {
	return &AppointmentStore{path: path}
}

func (s *AppointmentStore) load() (map[string]model.Appointment, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]model.Appointment{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read appointments: %w", err)
	}
	if len(data) == 0 {
		return map[string]model.Appointment{}, nil
	}

	all := map[string]model.Appointment{}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return all, nil
}

func (s *AppointmentStore) save(all map[string]model.Appointment) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode appointments: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write appointments: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Create stores a new appointment
func (s *AppointmentStore) Create(ctx context.Context, a *model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	all[a.ID] = *a
	return s.save(all)
}

// List returns appointments ordered by creation time
func (s *AppointmentStore) List(ctx context.Context) ([]model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return nil, err
	}

	out := make([]model.Appointment, 0, len(all))
	for _, a := range all {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Update applies the non-nil fields of update
func (s *AppointmentStore) Update(ctx context.Context, id string, update model.AppointmentUpdate) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return nil, err
	}
	a, ok := all[id]
	if !ok {
		return nil, ErrNotFound
	}

	if update.Date != nil {
		a.Date = *update.Date
	}
	if update.Time != nil {
		a.Time = *update.Time
	}
	if update.Message != nil {
		a.Message = *update.Message
	}
	if update.Status != nil {
		a.Status = *update.Status
	}
	a.UpdatedAt = time.Now().UTC()

	all[id] = a
	if err := s.save(all); err != nil {
		return nil, err
	}
	return &a, nil
}

// Delete removes an appointment
func (s *AppointmentStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := all[id]; !ok {
		return ErrNotFound
	}
	delete(all, id)
	return s.save(all)
}
