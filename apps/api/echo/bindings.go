package echoapi

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/planner/core"
	"github.com/trezcool/planner/core/assessment"
	"github.com/trezcool/planner/core/task"
)

const (
	priorityParam   = "priority"
	moduleParam     = "module"
	assessmentParam = "assessment"
	doneParam       = "done"
)

func bindAssessmentFilter(ctx echo.Context) (assessment.QueryFilter, error) {
	var qf assessment.QueryFilter

	if val := ctx.QueryParam(priorityParam); val != "" {
		qf.Priority = assessment.PriorityFromRaw(val)
	}
	if val := ctx.QueryParam(moduleParam); val != "" {
		id, err := uuid.Parse(val)
		if err != nil {
			return qf, core.NewValidationError(nil, core.FieldError{Field: moduleParam, Error: "invalid module id"})
		}
		qf.ModuleID = &id
	}
	return qf, nil
}

func bindTaskFilter(ctx echo.Context) (task.QueryFilter, error) {
	var qf task.QueryFilter

	if val := ctx.QueryParam(assessmentParam); val != "" {
		id, err := uuid.Parse(val)
		if err != nil {
			return qf, core.NewValidationError(nil, core.FieldError{Field: assessmentParam, Error: "invalid assessment id"})
		}
		qf.AssessmentID = &id
	}
	if val := ctx.QueryParam(doneParam); val != "" {
		done, err := strconv.ParseBool(val)
		if err != nil {
			return qf, core.NewValidationError(nil, core.FieldError{Field: doneParam, Error: "invalid boolean value"})
		}
		qf.Done = &done
	}
	return qf, nil
}

func bindID(ctx echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return uuid.Nil, errHttpNotFound
	}
	return id, nil
}
