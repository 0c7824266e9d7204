package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/planner/core"
	"github.com/trezcool/planner/core/assessment"
	"github.com/trezcool/planner/core/module"
	"github.com/trezcool/planner/core/task"
)

func CreateModule(t *testing.T, repo module.Repository, code, name, level, leader string) module.Module {
	mod, err := repo.CreateModule(context.Background(), module.Module{
		Code:      code,
		Name:      name,
		Level:     level,
		Leader:    leader,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateModule() failed: %v", err)
	}
	return mod
}

func CreateAssessment(
	t *testing.T,
	repo assessment.Repository,
	moduleID uuid.UUID,
	name string,
	weightage int,
	handIn, due time.Time,
	eventID ...string,
) assessment.Assessment {
	tstamp := time.Now().UTC()
	asmt := assessment.Assessment{
		ModuleID:       moduleID,
		Name:           name,
		Priority:       assessment.PriorityNormal,
		Weightage:      weightage,
		Notes:          "",
		HandIn:         handIn,
		Due:            due,
		ReminderBefore: core.AlarmNone,
		CreatedAt:      tstamp,
		UpdatedAt:      tstamp,
	}
	if len(eventID) > 0 && eventID[0] != "" {
		asmt.AddToCalendar = true
		asmt.ReminderBefore = core.AlarmOneDayBefore
		asmt.EventIdentifier = eventID[0]
	}
	asmt, err := repo.CreateAssessment(context.Background(), asmt)
	if err != nil {
		t.Fatalf("CreateAssessment() failed: %v", err)
	}
	return asmt
}

func CreateTask(
	t *testing.T,
	repo task.Repository,
	assessmentID uuid.UUID,
	name string,
	start, end time.Time,
	eventID ...string,
) task.Task {
	tstamp := time.Now().UTC()
	tsk := task.Task{
		AssessmentID:   assessmentID,
		Name:           name,
		StartDate:      start,
		EndDate:        end,
		ReminderBefore: core.AlarmNone,
		CreatedAt:      tstamp,
		UpdatedAt:      tstamp,
	}
	if len(eventID) > 0 && eventID[0] != "" {
		tsk.AddToCalendar = true
		tsk.ReminderBefore = core.AlarmOneHourBefore
		tsk.EventIdentifier = eventID[0]
	}
	tsk, err := repo.CreateTask(context.Background(), tsk)
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}
	return tsk
}

// NewLogger returns a quiet core.Logger for tests.
func NewLogger() core.Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Enable(enabled bool)                   {}
func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}
