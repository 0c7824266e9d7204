package assessment

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/trezcool/planner/core"
)

// Priorities
const (
	PriorityLow       = "Low"
	PriorityNormal    = "Normal"
	PriorityImportant = "Important"
	PriorityCritical  = "Critical"
)

var Priorities = []string{PriorityLow, PriorityNormal, PriorityImportant, PriorityCritical}

// PriorityFromRaw maps a raw value back to a priority; unknown values map
// to PriorityLow.
func PriorityFromRaw(s string) string {
	for _, p := range Priorities {
		if p == s {
			return p
		}
	}
	return PriorityLow
}

// Assessment is a gradable deliverable belonging to a Module and owning
// Tasks. EventIdentifier is non-empty iff a live reminder exists in the
// external calendar for it; the empty string means "no calendar event".
type Assessment struct {
	ID              uuid.UUID        `db:"id" json:"id"`
	ModuleID        uuid.UUID        `db:"module_id" json:"module_id"`
	Name            string           `db:"name" json:"name"`
	Priority        string           `db:"priority" json:"priority"`
	Weightage       int              `db:"weightage" json:"weightage"`
	MarkAchieved    int              `db:"mark_achieved" json:"mark_achieved"`
	Notes           string           `db:"notes" json:"notes"`
	HandIn          time.Time        `db:"hand_in" json:"hand_in"`
	Due             time.Time        `db:"due" json:"due"`
	AddToCalendar   bool             `db:"add_to_calendar" json:"add_to_calendar"`
	ReminderBefore  core.AlarmOffset `db:"reminder_before" json:"reminder_before"`
	EventIdentifier string           `db:"event_identifier" json:"event_identifier"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"` // UTC
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"` // UTC
}

// OverallMark is this assessment's contribution to the module grade.
func (a Assessment) OverallMark() int {
	return a.MarkAchieved * a.Weightage / 100
}

// CalendarEvent is the reminder payload representing this assessment.
func (a Assessment) CalendarEvent() core.CalendarEvent {
	return core.CalendarEvent{
		Title: a.Name,
		Start: a.HandIn,
		End:   a.Due,
		Notes: a.Notes,
		Alarm: a.ReminderBefore,
	}
}

// NewAssessment contains information needed to create a new Assessment.
// Percentage fields arrive as form strings and are validated against the
// exact 0..100 pattern (no leading zeros, nothing above 100).
type NewAssessment struct {
	ModuleID       uuid.UUID `json:"module_id" validate:"required"`
	Name           string    `json:"name" validate:"required,entityname"`
	Priority       string    `json:"priority"`
	Weightage      string    `json:"weightage" validate:"required,percent"`
	Notes          string    `json:"notes" validate:"max=200"`
	HandIn         time.Time `json:"hand_in" validate:"required"`
	Due            time.Time `json:"due" validate:"required"`
	AddToCalendar  bool      `json:"add_to_calendar"`
	ReminderBefore string    `json:"reminder_before"`
}

func (na *NewAssessment) Validate(validate *validator.Validate, translator ut.Translator) error {
	na.Name = core.CleanString(na.Name)
	na.Notes = core.CleanString(na.Notes)
	na.Priority = PriorityFromRaw(na.Priority)

	if err := validate.Struct(na); err != nil {
		return err
	}
	return validateDateOrder(na.HandIn, na.Due)
}

// UpdateAssessment defines what information may be provided to modify an
// existing Assessment on save.
type UpdateAssessment struct {
	ModuleID       uuid.UUID `json:"module_id" validate:"required"`
	Name           string    `json:"name" validate:"required,entityname"`
	Priority       string    `json:"priority"`
	Weightage      string    `json:"weightage" validate:"required,percent"`
	MarkAchieved   string    `json:"mark_achieved" validate:"required,percent"`
	Notes          string    `json:"notes" validate:"max=200"`
	HandIn         time.Time `json:"hand_in" validate:"required"`
	Due            time.Time `json:"due" validate:"required"`
	AddToCalendar  bool      `json:"add_to_calendar"`
	ReminderBefore string    `json:"reminder_before"`
}

func (ua *UpdateAssessment) Validate(validate *validator.Validate, translator ut.Translator) error {
	ua.Name = core.CleanString(ua.Name)
	ua.Notes = core.CleanString(ua.Notes)
	ua.Priority = PriorityFromRaw(ua.Priority)

	if err := validate.Struct(ua); err != nil {
		return err
	}
	return validateDateOrder(ua.HandIn, ua.Due)
}

// EditState is the snapshot of an Assessment's form fields taken when the
// editor opens. Save decisions compare submitted values against it
// field-by-field rather than diffing the persisted entity.
type EditState struct {
	ModuleID         uuid.UUID        `json:"module_id"`
	Name             string           `json:"name"`
	Priority         string           `json:"priority"`
	Weightage        int              `json:"weightage"`
	MarkAchieved     int              `json:"mark_achieved"`
	Notes            string           `json:"notes"`
	HandIn           time.Time        `json:"hand_in"`
	Due              time.Time        `json:"due"`
	AddToCalendar    bool             `json:"add_to_calendar"`
	ReminderBefore   core.AlarmOffset `json:"reminder_before"`
	HadCalendarEvent bool             `json:"had_calendar_event"`
}

// NewEditState maps an Assessment to its editor-open snapshot.
func NewEditState(a Assessment) EditState {
	return EditState{
		ModuleID:         a.ModuleID,
		Name:             a.Name,
		Priority:         a.Priority,
		Weightage:        a.Weightage,
		MarkAchieved:     a.MarkAchieved,
		Notes:            a.Notes,
		HandIn:           a.HandIn,
		Due:              a.Due,
		AddToCalendar:    a.AddToCalendar,
		ReminderBefore:   a.ReminderBefore,
		HadCalendarEvent: a.AddToCalendar,
	}
}

// QueryFilter narrows down assessment lists.
// Applied as an AND of the set fields; both nil lists everything.
type QueryFilter struct {
	Priority string     `query:"priority"`
	ModuleID *uuid.UUID `query:"module"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Priority == "" && qf.ModuleID == nil
}

func validateDateOrder(handIn, due time.Time) error {
	if !handIn.Before(due) {
		return core.NewValidationError(nil, core.FieldError{
			Field: "due",
			Error: "hand-in date should always be less than the due date",
		})
	}
	return nil
}
