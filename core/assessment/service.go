package assessment

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/planner/core"
	"github.com/trezcool/planner/core/calsync"
	"github.com/trezcool/planner/core/module"
)

var (
	ErrNotFound = errors.New("assessment not found")

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
	Assessment Assessment `json:"assessment"`
	Status     SaveStatus `json:"status"`
	Warnings   []string   `json:"warnings,omitempty"`
}

type Repository interface {
	CreateAssessment(ctx context.Context, a Assessment) (Assessment, error)
	// ModuleExists reports whether the module an assessment is filed under
	// is present.
	ModuleExists(ctx context.Context, moduleID uuid.UUID) (bool, error)
	QueryAllAssessments(ctx context.Context, qf QueryFilter) ([]Assessment, error)
	GetAssessmentByID(ctx context.Context, id uuid.UUID) (Assessment, error)
	UpdateAssessment(ctx context.Context, a Assessment) error
	// TaskEventIdentifiersForAssessment returns the non-empty calendar event
	// identifiers held by the assessment's tasks.
	TaskEventIdentifiersForAssessment(ctx context.Context, id uuid.UUID) ([]string, error)
	DeleteAssessmentsByID(ctx context.Context, ids ...uuid.UUID) error
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

// Create inserts a new Assessment under an existing module. A fresh
// assessment never carries a mark; when the calendar toggle is off the
// reminder collapses to none. With the toggle on, a reminder event is
// created first and any calendar failure, a duplicate included, blocks
// the whole insert.
func (svc *Service) Create(ctx context.Context, na NewAssessment) (SaveResult, error) {
	ok, err := svc.repo.ModuleExists(ctx, na.ModuleID)
	if err != nil {
		return SaveResult{}, errors.Wrap(err, "checking module")
	}
	if !ok {
		return SaveResult{}, module.ErrNotFound
	}

	now := nowFunc().UTC()

	a := Assessment{
		ModuleID:       na.ModuleID,
		Name:           na.Name,
		Priority:       na.Priority,
		Weightage:      mustPercent(na.Weightage),
		MarkAchieved:   0,
		Notes:          na.Notes,
		HandIn:         core.PreviousMinute(na.HandIn),
		Due:            core.PreviousMinute(na.Due),
		AddToCalendar:  na.AddToCalendar,
		ReminderBefore: core.AlarmNone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if na.AddToCalendar {
		a.ReminderBefore = core.AlarmOffsetFromRaw(na.ReminderBefore)
		id, err := svc.calSvc.CreateEvent(ctx, a.CalendarEvent())
		if err != nil {
			return SaveResult{}, err
		}
		a.EventIdentifier = id
	}

	a, err = svc.repo.CreateAssessment(ctx, a)
	if err != nil {
		return SaveResult{}, errors.Wrap(err, "creating assessment")
	}
	return SaveResult{Assessment: a, Status: SaveUpdated}, nil
}

func (svc *Service) QueryAll(ctx context.Context, qf QueryFilter) ([]Assessment, error) {
	asmts, err := svc.repo.QueryAllAssessments(ctx, qf)
	return asmts, errors.Wrap(err, "querying assessments")
}

func (svc *Service) GetByID(ctx context.Context, id uuid.UUID) (Assessment, error) {
	return svc.repo.GetAssessmentByID(ctx, id)
}

// Open loads an assessment for editing and returns the snapshot Save will
// later compare against. If the assessment claims a calendar event that no
// longer exists out there, the claim is dropped and persisted before the
// snapshot is taken. A failing permission check skips the liveness probe
// rather than failing the open.
func (svc *Service) Open(ctx context.Context, id uuid.UUID) (Assessment, EditState, error) {
	a, err := svc.repo.GetAssessmentByID(ctx, id)
	if err != nil {
		return Assessment{}, EditState{}, err
	}

	if a.AddToCalendar && svc.calSvc.CheckPermissions(ctx) == nil && !svc.calSvc.IsEventLive(ctx, a.EventIdentifier) {
		a.AddToCalendar = false
		a.ReminderBefore = core.AlarmNone
		a.EventIdentifier = ""
		a.UpdatedAt = nowFunc().UTC()
		if err = svc.repo.UpdateAssessment(ctx, a); err != nil {
			return Assessment{}, EditState{}, errors.Wrap(err, "reconciling assessment calendar state")
		}
	}
	return a, NewEditState(a), nil
}

// Save applies an edit against the snapshot taken at Open. Branches are
// checked in order: calendar toggle removed, calendar toggle added, event
// fields changed while the toggle stays on, any other field changed, and
// finally nothing changed at all.
func (svc *Service) Save(ctx context.Context, id uuid.UUID, state EditState, ua UpdateAssessment) (SaveResult, error) {
	a, err := svc.repo.GetAssessmentByID(ctx, id)
	if err != nil {
		return SaveResult{}, err
	}

	next := a
	next.ModuleID = ua.ModuleID
	next.Name = ua.Name
	next.Priority = ua.Priority
	next.Weightage = mustPercent(ua.Weightage)
	next.MarkAchieved = mustPercent(ua.MarkAchieved)
	next.Notes = ua.Notes
	// normalize freshly picked dates only; an untouched date already is
	next.HandIn = ua.HandIn
	if !ua.HandIn.Equal(state.HandIn) {
		next.HandIn = core.PreviousMinute(ua.HandIn)
	}
	next.Due = ua.Due
	if !ua.Due.Equal(state.Due) {
		next.Due = core.PreviousMinute(ua.Due)
	}
	next.AddToCalendar = ua.AddToCalendar
	next.ReminderBefore = core.AlarmOffsetFromRaw(ua.ReminderBefore)

	var warnings []string
	status := SaveUpdated

	switch {
	case state.AddToCalendar && !next.AddToCalendar:
		// toggle removed: schedule the event removal, persist without it
		svc.calSvc.DeleteEventAsync(a.EventIdentifier)
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
			warnings = append(warnings, "an identical calendar event already exists; the assessment was saved without one")
		case core.ErrEventNotAdded:
			// the edit itself must survive a failing calendar
			next.AddToCalendar = false
			next.ReminderBefore = core.AlarmNone
			next.EventIdentifier = ""
			status = SaveCalendarDropped
			warnings = append(warnings, "the calendar event could not be created; the assessment was saved without one")
		default:
			return SaveResult{}, err
		}

	case next.AddToCalendar && calendarPropsChanged(state, next):
		eventID, err := svc.calSvc.UpdateEvent(ctx, a.EventIdentifier, next.CalendarEvent())
		if err != nil {
			return SaveResult{}, err
		}
		next.EventIdentifier = eventID

	case anyChanged(state, next):
		// plain field edit, the calendar is untouched

	default:
		return SaveResult{Assessment: a, Status: SaveNoChanges}, nil
	}

	next.UpdatedAt = nowFunc().UTC()
	if err = svc.repo.UpdateAssessment(ctx, next); err != nil {
		return SaveResult{}, errors.Wrap(err, "saving assessment")
	}
	return SaveResult{Assessment: next, Status: status, Warnings: warnings}, nil
}

// Delete removes assessments and their tasks; any calendar events they hold
// are cleaned up in the background.
func (svc *Service) Delete(ctx context.Context, ids ...uuid.UUID) error {
	for _, id := range ids {
		a, err := svc.repo.GetAssessmentByID(ctx, id)
		if err != nil {
			return err
		}
		taskIDs, err := svc.repo.TaskEventIdentifiersForAssessment(ctx, id)
		if err != nil {
			return errors.Wrap(err, "fetching task event identifiers")
		}
		svc.calSvc.DeleteEventAsync(a.EventIdentifier)
		for _, eventID := range taskIDs {
			svc.calSvc.DeleteEventAsync(eventID)
		}
	}
	return errors.Wrap(svc.repo.DeleteAssessmentsByID(ctx, ids...), "deleting assessments")
}

func calendarPropsChanged(state EditState, next Assessment) bool {
	return state.Name != next.Name ||
		!state.HandIn.Equal(next.HandIn) ||
		!state.Due.Equal(next.Due) ||
		state.Notes != next.Notes ||
		state.ReminderBefore != next.ReminderBefore
}

func anyChanged(state EditState, next Assessment) bool {
	return calendarPropsChanged(state, next) ||
		state.ModuleID != next.ModuleID ||
		state.Priority != next.Priority ||
		state.Weightage != next.Weightage ||
		state.MarkAchieved != next.MarkAchieved ||
		state.AddToCalendar != next.AddToCalendar
}

// mustPercent converts a percent form field that already passed validation.
func mustPercent(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
