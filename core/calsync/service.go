// Package calsync keeps domain entities' event identifiers consistent
// with the external calendar store: it gates every calendar-touching
// operation behind the permission check, recreates vanished events on
// update, and performs the detached best-effort cleanup after domain
// deletions.
package calsync

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/planner/core"
)

type Service struct {
	cal         core.CalendarService
	logger      core.Logger
	deleteDelay time.Duration
}

func NewService(cal core.CalendarService, logger core.Logger, deleteDelay time.Duration) *Service {
	return &Service{
		cal:         cal,
		logger:      logger,
		deleteDelay: deleteDelay,
	}
}

// CheckPermissions resolves the calendar authorization gate:
// authorized proceeds; notDetermined prompts and proceeds only when
// granted; denied and restricted fail immediately without a prompt;
// anything else is a generic error.
func (svc *Service) CheckPermissions(ctx context.Context) error {
	switch svc.cal.AuthorizationStatus(ctx) {
	case core.AuthAuthorized:
		return nil
	case core.AuthNotDetermined:
		granted, err := svc.cal.RequestAccess(ctx)
		if err != nil {
			return errors.Wrap(err, "requesting calendar access")
		}
		if !granted {
			return core.ErrAccessDeniedOrRestricted
		}
		return nil
	case core.AuthDenied, core.AuthRestricted:
		return core.ErrAccessDeniedOrRestricted
	}
	return errors.New("unknown calendar authorization status")
}

// CreateEvent creates a reminder and returns its identifier.
// Returns core.ErrEventExists when an identical event is already present.
func (svc *Service) CreateEvent(ctx context.Context, ev core.CalendarEvent) (string, error) {
	if err := svc.CheckPermissions(ctx); err != nil {
		return "", err
	}
	return svc.cal.CreateEvent(ctx, ev)
}

// UpdateEvent updates the reminder in place and returns the identifier to
// keep on the entity. When the referenced event no longer exists it
// self-heals by creating a new one and returning the adopted identifier.
func (svc *Service) UpdateEvent(ctx context.Context, identifier string, ev core.CalendarEvent) (string, error) {
	if err := svc.CheckPermissions(ctx); err != nil {
		return "", err
	}
	err := svc.cal.UpdateEvent(ctx, identifier, ev)
	if errors.Cause(err) == core.ErrEventNotFound {
		return svc.cal.CreateEvent(ctx, ev)
	}
	if err != nil {
		return "", err
	}
	return identifier, nil
}

// DeleteEvent removes the reminder synchronously.
func (svc *Service) DeleteEvent(ctx context.Context, identifier string) error {
	if err := svc.CheckPermissions(ctx); err != nil {
		return err
	}
	return svc.cal.DeleteEvent(ctx, identifier)
}

// IsEventLive reports whether the identifier still resolves to a calendar
// entry. Used by the editor-open staleness check.
func (svc *Service) IsEventLive(ctx context.Context, identifier string) bool {
	_, err := svc.cal.FindEvent(ctx, identifier)
	return err == nil
}

// DeleteEventAsync schedules a detached, best-effort removal of the
// reminder after a fixed delay. The outcome is logged and never surfaced,
// never retried; the domain operation that triggered it has already
// committed. An empty identifier is a no-op.
func (svc *Service) DeleteEventAsync(identifier string) {
	if identifier == "" {
		return
	}
	go func() {
		ctx := context.Background()
		if err := svc.CheckPermissions(ctx); err != nil {
			svc.logger.Warn("calendar cleanup skipped: "+identifier, err)
			return
		}
		time.Sleep(svc.deleteDelay)
		switch err := svc.cal.DeleteEvent(ctx, identifier); errors.Cause(err) {
		case nil:
			svc.logger.Info("removed calendar event " + identifier)
		case core.ErrEventNotFound:
			svc.logger.Info("no such event found to remove from the calendar: " + identifier)
		default:
			svc.logger.Warn("calendar cleanup failed: "+identifier, err)
		}
	}()
}
