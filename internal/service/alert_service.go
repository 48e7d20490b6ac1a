package service

import (
	"context"
	"fmt"
	"strings"

	"shopledger/internal/ledger"
	"shopledger/internal/model"

	"github.com/google/uuid"
)

type AddReminderRequest struct {
	Title    string `json:"title" validate:"required_without=Message"`
	Message  string `json:"message" validate:"required_without=Title"`
	Severity string `json:"severity" validate:"omitempty,oneof=normal high critical"`
	DueDate  string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type AlertService interface {
	Alerts(ctx context.Context) ([]model.Alert, error)
	AddReminder(ctx context.Context, req AddReminderRequest) (model.Reminder, error)
	ClearReminders(ctx context.Context) (int, error)
}

type alertService struct {
	store ledger.StateHolder
	now   Clock
}

func NewAlertService(store ledger.StateHolder, now Clock) AlertService {
	return &alertService{store: store, now: now}
}

// Alerts is a read-only view; reminders stay until ClearReminders is called.
func (s *alertService) Alerts(ctx context.Context) ([]model.Alert, error) {
	return ledger.Alerts(s.store.GetState(), s.now()), nil
}

func (s *alertService) AddReminder(ctx context.Context, req AddReminderRequest) (model.Reminder, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Message = strings.TrimSpace(req.Message)
	if err := validateRequest(req); err != nil {
		return model.Reminder{}, err
	}

	severity := req.Severity
	if severity == "" {
		severity = model.SeverityNormal
	}
	reminder := model.Reminder{
		ID:       uuid.NewString(),
		Title:    req.Title,
		Message:  req.Message,
		Severity: severity,
		DueDate:  req.DueDate,
	}

	res := s.store.Dispatch(ledger.NewEvent(ledger.KindAddReminder, s.now(), ledger.AddReminder{Reminder: reminder}))
	if !res.Applied {
		return model.Reminder{}, fmt.Errorf("failed to add reminder %q", reminder.Title)
	}
	return reminder, nil
}

// ClearReminders drops every manual reminder and reports how many were removed.
func (s *alertService) ClearReminders(ctx context.Context) (int, error) {
	var count int
	s.store.DispatchWith(func(state model.State) ledger.Event {
		count = len(state.Reminders)
		return ledger.NewEvent(ledger.KindClearReminders, s.now(), ledger.ClearReminders{})
	})
	return count, nil
}
