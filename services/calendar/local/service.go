// Package localcal stores calendar events in the application database.
// It stands in for a platform calendar while keeping the exact same
// authorization and duplicate-detection contract.
package localcal

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/planner/core"
)

type Service struct {
	db   *sqlx.DB
	conf *core.Config
}

var _ core.CalendarService = (*Service)(nil)

func NewService(db *sqlx.DB, conf *core.Config) *Service {
	return &Service{db: db, conf: conf}
}

type eventRow struct {
	ID         uuid.UUID        `db:"id"`
	Title      string           `db:"title"`
	StartAt    time.Time        `db:"start_at"`
	EndAt      time.Time        `db:"end_at"`
	Notes      string           `db:"notes"`
	Alarm      core.AlarmOffset `db:"alarm"`
	AlarmCount int              `db:"alarm_count"`
	CreatedAt  time.Time        `db:"created_at"`
}

func (r eventRow) event() core.CalendarEvent {
	return core.CalendarEvent{
		Title: r.Title,
		Start: r.StartAt,
		End:   r.EndAt,
		Notes: r.Notes,
		Alarm: r.Alarm,
	}
}

func (svc *Service) AuthorizationStatus(ctx context.Context) core.AuthorizationStatus {
	return core.ParseAuthorizationStatus(svc.conf.Calendar.AuthStatus)
}

func (svc *Service) RequestAccess(ctx context.Context) (bool, error) {
	return svc.conf.Calendar.GrantOnRequest, nil
}

func (svc *Service) CreateEvent(ctx context.Context, ev core.CalendarEvent) (string, error) {
	// duplicate identity: title, start, end, notes and alarm count
	var exists bool
	const dupQ = `
		SELECT EXISTS (
			SELECT 1 FROM calendar_event
			WHERE title = $1 AND start_at = $2 AND end_at = $3 AND notes = $4 AND alarm_count = $5
		)`
	if err := svc.db.GetContext(ctx, &exists, dupQ, ev.Title, ev.Start, ev.End, ev.Notes, ev.Alarm.AlarmCount()); err != nil {
		return "", errors.Wrap(err, "checking for duplicate event")
	}
	if exists {
		return "", core.ErrEventExists
	}

	row := eventRow{
		ID:         uuid.New(),
		Title:      ev.Title,
		StartAt:    ev.Start,
		EndAt:      ev.End,
		Notes:      ev.Notes,
		Alarm:      ev.Alarm,
		AlarmCount: ev.Alarm.AlarmCount(),
		CreatedAt:  time.Now().UTC(),
	}
	const q = `
		INSERT INTO calendar_event (id, title, start_at, end_at, notes, alarm, alarm_count, created_at)
		VALUES (:id, :title, :start_at, :end_at, :notes, :alarm, :alarm_count, :created_at)`
	if _, err := svc.db.NamedExecContext(ctx, q, row); err != nil {
		return "", errors.Wrap(core.ErrEventNotAdded, err.Error())
	}
	return row.ID.String(), nil
}

func (svc *Service) UpdateEvent(ctx context.Context, identifier string, ev core.CalendarEvent) error {
	id, err := uuid.Parse(identifier)
	if err != nil {
		return core.ErrEventNotFound
	}
	const q = `
		UPDATE calendar_event
		SET title = $2, start_at = $3, end_at = $4, notes = $5, alarm = $6, alarm_count = $7
		WHERE id = $1`
	res, err := svc.db.ExecContext(ctx, q, id, ev.Title, ev.Start, ev.End, ev.Notes, ev.Alarm, ev.Alarm.AlarmCount())
	if err != nil {
		return errors.Wrap(core.ErrEventUpdateFailed, err.Error())
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrEventNotFound
	}
	return nil
}

func (svc *Service) DeleteEvent(ctx context.Context, identifier string) error {
	id, err := uuid.Parse(identifier)
	if err != nil {
		return core.ErrEventNotFound
	}
	res, err := svc.db.ExecContext(ctx, `DELETE FROM calendar_event WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting event")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrEventNotFound
	}
	return nil
}

func (svc *Service) FindEvent(ctx context.Context, identifier string) (core.CalendarEvent, error) {
	id, err := uuid.Parse(identifier)
	if err != nil {
		return core.CalendarEvent{}, core.ErrEventNotFound
	}
	var row eventRow
	if err = svc.db.GetContext(ctx, &row, `SELECT * FROM calendar_event WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return core.CalendarEvent{}, core.ErrEventNotFound
		}
		return core.CalendarEvent{}, errors.Wrap(err, "selecting event")
	}
	return row.event(), nil
}
