package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"property-assistant/internal/model"
	"property-assistant/internal/repository"
)

// AppointmentStore persists visit requests
type AppointmentStore interface {
	Create(ctx context.Context, a *model.Appointment) error
	List(ctx context.Context) ([]model.Appointment, error)
	Update(ctx context.Context, id string, update model.AppointmentUpdate) (*model.Appointment, error)
	Delete(ctx context.Context, id string) error
}

var validStatuses = map[string]bool{
	model.AppointmentPending:   true,
	model.AppointmentConfirmed: true,
	model.AppointmentCancelled: true,
}

// ScheduleService manages property visit appointments
type ScheduleService struct {
	store  AppointmentStore
	logger *zap.Logger
}

// NewScheduleService creates a new schedule service
func NewScheduleService(store AppointmentStore, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{store: store, logger: logger}
}

// Schedule records a new pending appointment
func (s *ScheduleService) Schedule(ctx context.Context, req model.ScheduleRequest) (*model.Appointment, error) {
	now := time.Now().UTC()
	a := &model.Appointment{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		Email:        strings.TrimSpace(req.Email),
		PropertyName: strings.TrimSpace(req.PropertyName),
		Date:         req.Date,
		Time:         req.Time,
		Message:      req.Message,
		Status:       model.AppointmentPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to save appointment: %w", err)
	}

	s.logger.Info("appointment scheduled",
		zap.String("id", a.ID),
		zap.String("property", a.PropertyName),
		zap.String("date", a.Date))
	return a, nil
}

// List returns all appointments
func (s *ScheduleService) List(ctx context.Context) ([]model.Appointment, error) {
	return s.store.List(ctx)
}

// Update changes the mutable fields of an appointment
func (s *ScheduleService) Update(ctx context.Context, id string, update model.AppointmentUpdate) (*model.Appointment, error) {
	if update.Status != nil && !validStatuses[*update.Status] {
		return nil, fmt.Errorf("%q: %w", *update.Status, ErrInvalidStatus)
	}
	a, err := s.store.Update(ctx, id, update)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("appointment %s: %w", id, ErrAppointmentNotFound)
	}
	return a, err
}

// Delete removes an appointment
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("appointment %s: %w", id, ErrAppointmentNotFound)
	}
	return err
}
