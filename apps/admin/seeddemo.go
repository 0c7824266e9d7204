package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/planner/core"
	"github.com/trezcool/planner/core/assessment"
	"github.com/trezcool/planner/core/module"
	"github.com/trezcool/planner/core/task"
)

// seedDemo wipes all planner data and loads a small demo data set:
// three modules, two assessments each, and three tasks under the
// draft thesis.
func (cli *commandLine) seedDemo() error {
	ctx := context.Background()
	now := time.Now().UTC()

	// wipe everything; module deletes cascade
	mods, err := cli.modRepo.QueryAllModules(ctx)
	if err != nil {
		return errors.Wrap(err, "querying modules")
	}
	for _, mod := range mods {
		if err = cli.modRepo.DeleteModulesByID(ctx, mod.ID); err != nil {
			return errors.Wrap(err, "wiping modules")
		}
	}

	date := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02T15:04:05", s)
		return t
	}

	newModule := func(code, name, leader string) (module.Module, error) {
		return cli.modRepo.CreateModule(ctx, module.Module{
			Code:      code,
			Name:      name,
			Level:     module.Level6,
			Leader:    leader,
			CreatedAt: now,
		})
	}
	newAssessment := func(mod module.Module, name, priority, notes string, weightage int, handIn, due time.Time) (assessment.Assessment, error) {
		return cli.asmtRepo.CreateAssessment(ctx, assessment.Assessment{
			ModuleID:       mod.ID,
			Name:           name,
			Priority:       priority,
			Weightage:      weightage,
			Notes:          notes,
			HandIn:         handIn,
			Due:            due,
			ReminderBefore: core.AlarmNone,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	newTask := func(asmt assessment.Assessment, name, notes string, progress int, start, end time.Time) (task.Task, error) {
		return cli.taskRepo.CreateTask(ctx, task.Task{
			AssessmentID:   asmt.ID,
			Name:           name,
			Notes:          notes,
			Progress:       progress,
			StartDate:      start,
			EndDate:        end,
			ReminderBefore: core.AlarmNone,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	mobile, err := newModule("6COSC004W.2", "Mobile Native Programming", "Guhanathan Poravi")
	if err != nil {
		return errors.Wrap(err, "seeding modules")
	}
	fyp, err := newModule("6COSC012C.Y", "Final Year Project", "Kaneeka Vidanage")
	if err != nil {
		return errors.Wrap(err, "seeding modules")
	}
	concurrent, err := newModule("6SENG004C.1", "Concurrent Programming", "Achala Aponso")
	if err != nil {
		return errors.Wrap(err, "seeding modules")
	}

	asmts := []struct {
		mod       module.Module
		name      string
		priority  string
		notes     string
		weightage int
		handIn    time.Time
		due       time.Time
	}{
		{mobile, "Coursework 1", assessment.PriorityImportant, "A financial calculator application", 40,
			date("2020-06-01T00:00:00"), date("2020-07-01T23:59:59")},
		{mobile, "Coursework 2", assessment.PriorityCritical, "An assessment planner application", 60,
			date("2020-04-01T00:00:00"), date("2020-06-03T23:59:59")},
		{concurrent, "Coursework", assessment.PriorityLow, "Banking system application implemented in Java and modelled with FSP", 40,
			date("2020-03-15T00:00:00"), date("2020-06-15T23:59:59")},
		{concurrent, "Examination", assessment.PriorityNormal, "Final examination of the module (2 FSP questions, and 4 other)", 60,
			date("2020-06-18T14:30:00"), date("2020-06-18T16:30:00")},
		{fyp, "Software Requirement Specification", assessment.PriorityLow, "Include onion diagram, functional & non-functional requirements.", 0,
			date("2020-05-28T00:00:00"), date("2020-06-28T23:59:59")},
	}
	for _, a := range asmts {
		if _, err = newAssessment(a.mod, a.name, a.priority, a.notes, a.weightage, a.handIn, a.due); err != nil {
			return errors.Wrap(err, "seeding assessments")
		}
	}

	thesis, err := newAssessment(fyp, "Draft Thesis", assessment.PriorityCritical,
		"Include all chapters SRS, Methodology, Testing, Implementation, etc", 0,
		date("2020-06-01T00:00:00"), date("2020-06-28T23:59:59"))
	if err != nil {
		return errors.Wrap(err, "seeding assessments")
	}

	tasks := []struct {
		name     string
		notes    string
		progress int
		start    time.Time
		end      time.Time
	}{
		{"Literature Review Chapter", "Add references and paraphrase existing systems properly. Also, add conceptual map.", 40,
			date("2020-06-01T00:00:00"), date("2020-06-06T00:00:00")},
		{"Implementation Chapter", "Add core implementation code snippets. List technologies utilized and justify why used.", 100,
			date("2020-06-01T00:00:00"), date("2020-06-16T00:00:00")},
		{"Testing Chapter", "Add functional and non-functional testing. Add performance test results of algorithms.", 18,
			date("2020-06-01T00:00:00"), date("2020-06-26T00:00:00")},
	}
	for _, t := range tasks {
		if _, err = newTask(thesis, t.name, t.notes, t.progress, t.start, t.end); err != nil {
			return errors.Wrap(err, "seeding tasks")
		}
	}

	logger.Println("demo data loaded")
	return nil
}
