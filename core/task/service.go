package task

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/planner/core"
	"github.com/trezcool/planner/core/calsync"
)

var (
	ErrNotFound = errors.New("task not found")

	// for tests
	nowFunc = time.Now
)

// SaveStatus reports which branch a Save took.
type SaveStatus string

const (
	SaveUpdated         SaveStatus = "updated"
	SaveNoChanges       SaveStatus = "no_changes"
	SaveCalendarDropped SaveStatus = "calendar_dropped"
)

// SaveResult is what the editor hands back after a Save.
type SaveResult struct {
	Task     Task       `json:"task"`
	Status   SaveStatus `json:"status"`
	Warnings []string   `json:"warnings,omitempty"`
}

type Repository interface {
	CreateTask(ctx context.Context, t Task) (Task, error)
	QueryAllTasks(ctx context.Context, qf QueryFilter) ([]Task, error)
	GetTaskByID(ctx context.Context, id uuid.UUID) (Task, error)
	UpdateTask(ctx context.Context, t Task) error
	DeleteTasksByID(ctx context.Context, ids ...uuid.UUID) error
	// GetAssessmentDates returns the owning assessment's hand-in and due
	// dates, used to fence task dates.
	GetAssessmentDates(ctx context.Context, assessmentID uuid.UUID) (handIn, due time.Time, err error)
}

type Service struct {
	repo   Repository
	calSvc *calsync.Service
}

func NewService(repo Repository, calSvc *calsync.Service) *Service {
	return &Service{
		repo:   repo,
		calSvc: calSvc,
	}
}

// Create inserts a new Task. A fresh task starts with no progress; when the
// calendar toggle is off the reminder collapses to none. With the toggle on,
// a reminder event is created first and any calendar failure, a duplicate
// included, blocks the whole insert.
func (svc *Service) Create(ctx context.Context, nt NewTask) (SaveResult, error) {
	now := nowFunc().UTC()

	t := Task{
		AssessmentID:   nt.AssessmentID,
		Name:           nt.Name,
		Notes:          nt.Notes,
		Progress:       0,
		StartDate:      core.TruncateSeconds(nt.StartDate),
		EndDate:        core.TruncateSeconds(nt.EndDate),
		AddToCalendar:  nt.AddToCalendar,
		ReminderBefore: core.AlarmNone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := svc.checkWindow(ctx, t); err != nil {
		return SaveResult{}, err
	}

	if nt.AddToCalendar {
		t.ReminderBefore = core.AlarmOffsetFromRaw(nt.ReminderBefore)
		id, err := svc.calSvc.CreateEvent(ctx, t.CalendarEvent())
		if err != nil {
			return SaveResult{}, err
		}
		t.EventIdentifier = id
	}

	t, err := svc.repo.CreateTask(ctx, t)
	if err != nil {
		return SaveResult{}, errors.Wrap(err, "creating task")
	}
	return SaveResult{Task: t, Status: SaveUpdated}, nil
}

func (svc *Service) QueryAll(ctx context.Context, qf QueryFilter) ([]Task, error) {
	tasks, err := svc.repo.QueryAllTasks(ctx, qf)
	return tasks, errors.Wrap(err, "querying tasks")
}

func (svc *Service) GetByID(ctx context.Context, id uuid.UUID) (Task, error) {
	return svc.repo.GetTaskByID(ctx, id)
}

// Open loads a task for editing and returns the snapshot Save will later
// compare against, dropping a stale calendar claim first if the event no
// longer exists. A failing permission check skips the liveness probe.
func (svc *Service) Open(ctx context.Context, id uuid.UUID) (Task, EditState, error) {
	t, err := svc.repo.GetTaskByID(ctx, id)
	if err != nil {
		return Task{}, EditState{}, err
	}

	if t.AddToCalendar && svc.calSvc.CheckPermissions(ctx) == nil && !svc.calSvc.IsEventLive(ctx, t.EventIdentifier) {
		t.AddToCalendar = false
		t.ReminderBefore = core.AlarmNone
		t.EventIdentifier = ""
		t.UpdatedAt = nowFunc().UTC()
		if err = svc.repo.UpdateTask(ctx, t); err != nil {
			return Task{}, EditState{}, errors.Wrap(err, "reconciling task calendar state")
		}
	}
	return t, NewEditState(t), nil
}

// Save applies an edit against the snapshot taken at Open. Branches are
// checked in order: calendar toggle removed, calendar toggle added, event
// fields changed while the toggle stays on, any other field changed, and
// finally nothing changed at all.
func (svc *Service) Save(ctx context.Context, id uuid.UUID, state EditState, upd UpdateTask) (SaveResult, error) {
	t, err := svc.repo.GetTaskByID(ctx, id)
	if err != nil {
		return SaveResult{}, err
	}

	next := t
	next.AssessmentID = upd.AssessmentID
	next.Name = upd.Name
	next.Notes = upd.Notes
	next.Progress = mustPercent(upd.Progress)
	next.StartDate = core.TruncateSeconds(upd.StartDate)
	next.EndDate = core.TruncateSeconds(upd.EndDate)
	next.AddToCalendar = upd.AddToCalendar
	next.ReminderBefore = core.AlarmOffsetFromRaw(upd.ReminderBefore)

	if err = svc.checkWindow(ctx, next); err != nil {
		return SaveResult{}, err
	}

	var warnings []string
	status := SaveUpdated

	switch {
	case state.AddToCalendar && !next.AddToCalendar:
		// toggle removed: schedule the event removal, persist without it
		svc.calSvc.DeleteEventAsync(t.EventIdentifier)
		next.EventIdentifier = ""
		next.ReminderBefore = core.AlarmNone

	case !state.AddToCalendar && next.AddToCalendar:
		eventID, err := svc.calSvc.CreateEvent(ctx, next.CalendarEvent())
		switch errors.Cause(err) {
		case nil:
			next.EventIdentifier = eventID
		case core.ErrEventExists:
			next.AddToCalendar = false
			next.ReminderBefore = core.AlarmNone
			next.EventIdentifier = ""
			status = SaveCalendarDropped
			warnings = append(warnings, "an identical calendar event already exists; the task was saved without one")
		case core.ErrEventNotAdded:
			// the edit itself must survive a failing calendar
			next.AddToCalendar = false
			next.ReminderBefore = core.AlarmNone
			next.EventIdentifier = ""
			status = SaveCalendarDropped
			warnings = append(warnings, "the calendar event could not be created; the task was saved without one")
		default:
			return SaveResult{}, err
		}

	case next.AddToCalendar && calendarPropsChanged(state, next):
		eventID, err := svc.calSvc.UpdateEvent(ctx, t.EventIdentifier, next.CalendarEvent())
		if err != nil {
			return SaveResult{}, err
		}
		next.EventIdentifier = eventID

	case anyChanged(state, next):
		// plain field edit, the calendar is untouched

	default:
		return SaveResult{Task: t, Status: SaveNoChanges}, nil
	}

	next.UpdatedAt = nowFunc().UTC()
	if err = svc.repo.UpdateTask(ctx, next); err != nil {
		return SaveResult{}, errors.Wrap(err, "saving task")
	}
	return SaveResult{Task: next, Status: status, Warnings: warnings}, nil
}

// Delete removes tasks; any calendar events they hold are cleaned up in the
// background.
func (svc *Service) Delete(ctx context.Context, ids ...uuid.UUID) error {
	for _, id := range ids {
		t, err := svc.repo.GetTaskByID(ctx, id)
		if err != nil {
			return err
		}
		svc.calSvc.DeleteEventAsync(t.EventIdentifier)
	}
	return errors.Wrap(svc.repo.DeleteTasksByID(ctx, ids...), "deleting tasks")
}

// checkWindow fences the task's dates inside the owning assessment's
// hand-in/due window, with a second of slack on either side so dates equal
// to the boundaries pass.
func (svc *Service) checkWindow(ctx context.Context, t Task) error {
	handIn, due, err := svc.repo.GetAssessmentDates(ctx, t.AssessmentID)
	if err != nil {
		return errors.Wrap(err, "fetching assessment dates")
	}
	lo := handIn.Add(-time.Second)
	hi := due.Add(time.Second)
	if t.StartDate.Before(lo) || t.EndDate.After(hi) {
		return core.NewValidationError(nil, core.FieldError{
			Field: "start_date",
			Error: "task dates should always be within the assessment hand-in and due dates",
		})
	}
	return nil
}

func calendarPropsChanged(state EditState, next Task) bool {
	return state.Name != next.Name ||
		!state.StartDate.Equal(next.StartDate) ||
		!state.EndDate.Equal(next.EndDate) ||
		state.Notes != next.Notes ||
		state.ReminderBefore != next.ReminderBefore
}

func anyChanged(state EditState, next Task) bool {
	return calendarPropsChanged(state, next) ||
		state.AssessmentID != next.AssessmentID ||
		state.Progress != next.Progress ||
		state.AddToCalendar != next.AddToCalendar
}

// mustPercent converts a percent form field that already passed validation.
func mustPercent(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
