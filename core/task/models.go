package task

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/trezcool/planner/core"
)

// Task is a unit of work towards an Assessment. Its dates must stay within
// the owning assessment's hand-in/due window.
type Task struct {
	ID              uuid.UUID        `db:"id" json:"id"`
	AssessmentID    uuid.UUID        `db:"assessment_id" json:"assessment_id"`
	Name            string           `db:"name" json:"name"`
	Notes           string           `db:"notes" json:"notes"`
	Progress        int              `db:"progress" json:"progress"`
	StartDate       time.Time        `db:"start_date" json:"start_date"`
	EndDate         time.Time        `db:"end_date" json:"end_date"`
	AddToCalendar   bool             `db:"add_to_calendar" json:"add_to_calendar"`
	ReminderBefore  core.AlarmOffset `db:"reminder_before" json:"reminder_before"`
	EventIdentifier string           `db:"event_identifier" json:"event_identifier"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"` // UTC
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"` // UTC
}

func (t Task) Done() bool { return t.Progress == 100 }

// CalendarEvent is the reminder payload representing this task.
func (t Task) CalendarEvent() core.CalendarEvent {
	return core.CalendarEvent{
		Title: t.Name,
		Start: t.StartDate,
		End:   t.EndDate,
		Notes: t.Notes,
		Alarm: t.ReminderBefore,
	}
}

// NewTask contains information needed to create a new Task.
type NewTask struct {
	AssessmentID   uuid.UUID `json:"assessment_id" validate:"required"`
	Name           string    `json:"name" validate:"required,entityname"`
	Notes          string    `json:"notes" validate:"max=150"`
	StartDate      time.Time `json:"start_date" validate:"required"`
	EndDate        time.Time `json:"end_date" validate:"required"`
	AddToCalendar  bool      `json:"add_to_calendar"`
	ReminderBefore string    `json:"reminder_before"`
}

func (nt *NewTask) Validate(validate *validator.Validate, translator ut.Translator) error {
	nt.Name = core.CleanString(nt.Name)
	nt.Notes = core.CleanString(nt.Notes)

	if err := validate.Struct(nt); err != nil {
		return err
	}
	return validateDateOrder(nt.StartDate, nt.EndDate)
}

// UpdateTask defines what information may be provided to modify an existing
// Task on save.
type UpdateTask struct {
	AssessmentID   uuid.UUID `json:"assessment_id" validate:"required"`
	Name           string    `json:"name" validate:"required,entityname"`
	Notes          string    `json:"notes" validate:"max=150"`
	Progress       string    `json:"progress" validate:"required,percent"`
	StartDate      time.Time `json:"start_date" validate:"required"`
	EndDate        time.Time `json:"end_date" validate:"required"`
	AddToCalendar  bool      `json:"add_to_calendar"`
	ReminderBefore string    `json:"reminder_before"`
}

func (upd *UpdateTask) Validate(validate *validator.Validate, translator ut.Translator) error {
	upd.Name = core.CleanString(upd.Name)
	upd.Notes = core.CleanString(upd.Notes)

	if err := validate.Struct(upd); err != nil {
		return err
	}
	return validateDateOrder(upd.StartDate, upd.EndDate)
}

// EditState is the snapshot of a Task's form fields taken when the editor
// opens; Save compares submitted values against it field-by-field.
type EditState struct {
	AssessmentID   uuid.UUID        `json:"assessment_id"`
	Name           string           `json:"name"`
	Notes          string           `json:"notes"`
	Progress       int              `json:"progress"`
	StartDate      time.Time        `json:"start_date"`
	EndDate        time.Time        `json:"end_date"`
	AddToCalendar  bool             `json:"add_to_calendar"`
	ReminderBefore core.AlarmOffset `json:"reminder_before"`
}

func NewEditState(t Task) EditState {
	return EditState{
		AssessmentID:   t.AssessmentID,
		Name:           t.Name,
		Notes:          t.Notes,
		Progress:       t.Progress,
		StartDate:      t.StartDate,
		EndDate:        t.EndDate,
		AddToCalendar:  t.AddToCalendar,
		ReminderBefore: t.ReminderBefore,
	}
}

// QueryFilter narrows down task lists.
type QueryFilter struct {
	AssessmentID *uuid.UUID `query:"assessment"`
	Done         *bool      `query:"done"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.AssessmentID == nil && qf.Done == nil
}

func validateDateOrder(start, end time.Time) error {
	if !start.Before(end) {
		return core.NewValidationError(nil, core.FieldError{
			Field: "end_date",
			Error: "start date should always be less than the end date",
		})
	}
	return nil
}
