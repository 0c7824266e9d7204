package module

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/trezcool/planner/core"
)

// Academic levels
const (
	Level3 = "Level 3"
	Level4 = "Level 4"
	Level5 = "Level 5"
	Level6 = "Level 6"
	Level7 = "Level 7"
)

var Levels = []string{Level3, Level4, Level5, Level6, Level7}

func IsValidLevel(level string) bool {
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}

// Module is an academic course unit owning assessments.
// Deleting a Module cascades to its Assessments and their Tasks.
type Module struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	Level     string    `db:"level" json:"level"`
	Leader    string    `db:"leader" json:"leader"`
	CreatedAt time.Time `db:"created_at" json:"created_at"` // UTC
}

// NewModule contains information needed to create a new Module.
type NewModule struct {
	Code   string `json:"code" validate:"required,modulecode"`
	Name   string `json:"name" validate:"required,modulename"`
	Level  string `json:"level" validate:"required"`
	Leader string `json:"leader" validate:"required,leadername"`
}

func (nm *NewModule) Validate(validate *validator.Validate, translator ut.Translator) error {
	nm.Code = core.CleanString(nm.Code)
	nm.Name = core.CleanString(nm.Name)
	nm.Leader = core.CleanString(nm.Leader)

	if err := validate.Struct(nm); err != nil {
		return err
	}
	if !IsValidLevel(nm.Level) {
		return core.NewValidationError(nil, core.FieldError{Field: "level", Error: "invalid module level"})
	}
	return nil
}
