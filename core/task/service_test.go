package task_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/planner/core"
	"github.com/trezcool/planner/core/assessment"
	"github.com/trezcool/planner/core/calsync"
	"github.com/trezcool/planner/core/module"
	"github.com/trezcool/planner/core/task"
	dummycal "github.com/trezcool/planner/services/calendar/dummy"
	dummydb "github.com/trezcool/planner/storage/database/dummy"
	testutil "github.com/trezcool/planner/tests"
)

var (
	ctx = context.Background()

	handIn = time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC)
	due    = time.Date(2021, 4, 30, 13, 0, 0, 0, time.UTC)
)

func setup(t *testing.T) (*task.Service, assessment.Assessment, *dummydb.DB, *dummycal.Service) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	cal := dummycal.NewService()
	calSvc := calsync.NewService(cal, testutil.NewLogger(), 5*time.Millisecond)
	svc := task.NewService(dummydb.NewTaskRepository(db), calSvc)

	asmt := testutil.CreateAssessment(t, dummydb.NewAssessmentRepository(db), uuid.New(), "Final Report", 60, handIn, due)
	return svc, asmt, db, cal
}

// updFrom builds an update that resubmits the task unchanged.
func updFrom(tsk task.Task) task.UpdateTask {
	return task.UpdateTask{
		AssessmentID:   tsk.AssessmentID,
		Name:           tsk.Name,
		Notes:          tsk.Notes,
		Progress:       strconv.Itoa(tsk.Progress),
		StartDate:      tsk.StartDate,
		EndDate:        tsk.EndDate,
		AddToCalendar:  tsk.AddToCalendar,
		ReminderBefore: string(tsk.ReminderBefore),
	}
}

func TestService_Create(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc, asmt, _, cal := setup(t)

		res, err := svc.Create(ctx, task.NewTask{
			AssessmentID: asmt.ID,
			Name:         "Literature Review",
			StartDate:    handIn.Add(42 * time.Second),
			EndDate:      handIn.AddDate(0, 0, 14),
		})
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		tsk := res.Task
		if tsk.ID == uuid.Nil {
			t.Error("Create() did not assign an ID")
		}
		if tsk.Progress != 0 {
			t.Errorf("Create() Progress = %d, want 0", tsk.Progress)
		}
		// picked dates lose their seconds
		if want := handIn; !tsk.StartDate.Equal(want) {
			t.Errorf("Create() StartDate = %v, want %v", tsk.StartDate, want)
		}
		if n := cal.TotalCalls(); n != 0 {
			t.Errorf("Create() reached the calendar %d times", n)
		}
	})

	t.Run("with calendar", func(t *testing.T) {
		svc, asmt, _, cal := setup(t)
		cal.NextIdentifier = "evt-1"

		res, err := svc.Create(ctx, task.NewTask{
			AssessmentID:   asmt.ID,
			Name:           "Literature Review",
			StartDate:      handIn,
			EndDate:        handIn.AddDate(0, 0, 14),
			AddToCalendar:  true,
			ReminderBefore: string(core.AlarmOneHourBefore),
		})
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if res.Task.EventIdentifier != "evt-1" || res.Task.ReminderBefore != core.AlarmOneHourBefore {
			t.Errorf("Create() = %q %q", res.Task.EventIdentifier, res.Task.ReminderBefore)
		}
		if !cal.HasEvent("evt-1") {
			t.Error("Create() did not store the calendar event")
		}
	})

	t.Run("identical event exists", func(t *testing.T) {
		svc, asmt, db, cal := setup(t)
		end := handIn.AddDate(0, 0, 14)
		cal.SeedEvent("evt-1", core.CalendarEvent{
			Title: "Literature Review",
			Start: handIn,
			End:   end,
			Alarm: core.AlarmOneHourBefore,
		})

		// a duplicate blocks a brand-new task outright
		_, err := svc.Create(ctx, task.NewTask{
			AssessmentID:   asmt.ID,
			Name:           "Literature Review",
			StartDate:      handIn,
			EndDate:        end,
			AddToCalendar:  true,
			ReminderBefore: string(core.AlarmOneHourBefore),
		})
		if err != core.ErrEventExists {
			t.Fatalf("Create() error = %v, want %v", err, core.ErrEventExists)
		}

		tasks, err := dummydb.NewTaskRepository(db).QueryAllTasks(ctx, task.QueryFilter{})
		if err != nil {
			t.Fatalf("QueryAllTasks() failed: %v", err)
		}
		if len(tasks) != 0 {
			t.Errorf("Create() persisted %d task(s) despite the duplicate", len(tasks))
		}
	})

	t.Run("dates outside the assessment window", func(t *testing.T) {
		svc, asmt, _, _ := setup(t)

		tests := []struct {
			name       string
			start, end time.Time
			wantErr    bool
		}{
			{name: "inside", start: handIn.AddDate(0, 0, 1), end: due.AddDate(0, 0, -1)},
			{name: "on the boundaries", start: handIn, end: due},
			{name: "starts before hand-in", start: handIn.AddDate(0, 0, -1), end: due, wantErr: true},
			{name: "ends after due", start: handIn, end: due.AddDate(0, 0, 1), wantErr: true},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Create(ctx, task.NewTask{
					AssessmentID: asmt.ID,
					Name:         "Literature Review",
					StartDate:    tt.start,
					EndDate:      tt.end,
				})
				if (err != nil) != tt.wantErr {
					t.Errorf("Create() error = %v, wantErr %v", err, tt.wantErr)
				}
			})
		}
	})

	t.Run("unknown assessment", func(t *testing.T) {
		svc, _, _, _ := setup(t)

		_, err := svc.Create(ctx, task.NewTask{
			AssessmentID: uuid.New(),
			Name:         "Literature Review",
			StartDate:    handIn,
			EndDate:      due,
		})
		if err == nil {
			t.Error("Create() expected an error for an unknown assessment")
		}
	})
}

// A task resolves to its assessment, and the assessment to the module it
// was filed under, reading back the exact code and name supplied at create.
func TestTaskAssessmentModuleRoundTrip(t *testing.T) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	modRepo := dummydb.NewModuleRepository(db)
	asmtRepo := dummydb.NewAssessmentRepository(db)
	taskRepo := dummydb.NewTaskRepository(db)

	mod := testutil.CreateModule(t, modRepo, "6COSC004W.2", "Mobile Native Programming", module.Level6, "Guhanathan Poravi")
	asmt := testutil.CreateAssessment(t, asmtRepo, mod.ID, "Final Report", 60, handIn, due)
	tsk := testutil.CreateTask(t, taskRepo, asmt.ID, "Literature Review", handIn, handIn.AddDate(0, 0, 14))

	gotAsmt, err := asmtRepo.GetAssessmentByID(ctx, tsk.AssessmentID)
	if err != nil {
		t.Fatalf("GetAssessmentByID() failed: %v", err)
	}
	if gotAsmt.ID != asmt.ID || gotAsmt.Name != "Final Report" {
		t.Errorf("GetAssessmentByID() = %v %q, want the owning assessment", gotAsmt.ID, gotAsmt.Name)
	}

	gotMod, err := modRepo.GetModuleByID(ctx, gotAsmt.ModuleID)
	if err != nil {
		t.Fatalf("GetModuleByID() failed: %v", err)
	}
	if gotMod.Code != "6COSC004W.2" || gotMod.Name != "Mobile Native Programming" {
		t.Errorf("GetModuleByID() = %q %q, want the supplied code and name", gotMod.Code, gotMod.Name)
	}
}

func TestService_Open(t *testing.T) {
	svc, asmt, db, _ := setup(t)
	repo := dummydb.NewTaskRepository(db)
	tsk := testutil.CreateTask(t, repo, asmt.ID, "Literature Review", handIn, handIn.AddDate(0, 0, 14), "gone")

	got, state, err := svc.Open(ctx, tsk.ID)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if got.AddToCalendar || got.EventIdentifier != "" {
		t.Errorf("Open() kept a stale calendar claim: %v %q", got.AddToCalendar, got.EventIdentifier)
	}
	if state.AddToCalendar {
		t.Error("Open() snapshot kept a stale calendar claim")
	}

	stored, err := repo.GetTaskByID(ctx, tsk.ID)
	if err != nil {
		t.Fatalf("GetTaskByID() failed: %v", err)
	}
	if stored.AddToCalendar || stored.EventIdentifier != "" {
		t.Error("Open() did not persist the dropped claim")
	}
}

func TestService_Save(t *testing.T) {
	t.Run("calendar added", func(t *testing.T) {
		svc, asmt, db, cal := setup(t)
		tsk := testutil.CreateTask(t, dummydb.NewTaskRepository(db), asmt.ID, "Literature Review", handIn, handIn.AddDate(0, 0, 14))
		cal.NextIdentifier = "evt-1"

		upd := updFrom(tsk)
		upd.AddToCalendar = true
		upd.ReminderBefore = string(core.AlarmOneHourBefore)
		res, err := svc.Save(ctx, tsk.ID, task.NewEditState(tsk), upd)
		if err != nil {
			t.Fatalf("Save() failed: %v", err)
		}
		if res.Task.EventIdentifier != "evt-1" {
			t.Errorf("Save() EventIdentifier = %q, want evt-1", res.Task.EventIdentifier)
		}
	})

	t.Run("calendar added but event creation fails", func(t *testing.T) {
		svc, asmt, db, cal := setup(t)
		repo := dummydb.NewTaskRepository(db)
		tsk := testutil.CreateTask(t, repo, asmt.ID, "Literature Review", handIn, handIn.AddDate(0, 0, 14))
		cal.CreateErr = core.ErrEventNotAdded

		// the domain edit survives; only the calendar toggle is dropped
		upd := updFrom(tsk)
		upd.AddToCalendar = true
		upd.ReminderBefore = string(core.AlarmOneHourBefore)
		upd.Progress = "40"
		res, err := svc.Save(ctx, tsk.ID, task.NewEditState(tsk), upd)
		if err != nil {
			t.Fatalf("Save() failed: %v", err)
		}
		if res.Status != task.SaveCalendarDropped {
			t.Errorf("Save() status = %q, want %q", res.Status, task.SaveCalendarDropped)
		}
		if len(res.Warnings) == 0 {
			t.Error("Save() returned no warning")
		}
		if got := res.Task; got.AddToCalendar || got.EventIdentifier != "" || got.ReminderBefore != core.AlarmNone {
			t.Errorf("Save() kept calendar state: %v %q %q", got.AddToCalendar, got.EventIdentifier, got.ReminderBefore)
		}

		stored, err := repo.GetTaskByID(ctx, tsk.ID)
		if err != nil {
			t.Fatalf("GetTaskByID() failed: %v", err)
		}
		if stored.Progress != 40 {
			t.Errorf("Save() Progress = %d, want 40", stored.Progress)
		}
	})

	t.Run("progress-only change leaves the calendar alone", func(t *testing.T) {
		svc, asmt, db, cal := setup(t)
		repo := dummydb.NewTaskRepository(db)
		tsk := testutil.CreateTask(t, repo, asmt.ID, "Literature Review", handIn, handIn.AddDate(0, 0, 14), "evt-1")
		cal.SeedEvent("evt-1", tsk.CalendarEvent())
		seeded := cal.TotalCalls()

		upd := updFrom(tsk)
		upd.Progress = "100"
		res, err := svc.Save(ctx, tsk.ID, task.NewEditState(tsk), upd)
		if err != nil {
			t.Fatalf("Save() failed: %v", err)
		}
		if res.Status != task.SaveUpdated || !res.Task.Done() {
			t.Errorf("Save() = %q done=%v", res.Status, res.Task.Done())
		}
		if n := cal.TotalCalls() - seeded; n != 0 {
			t.Errorf("Save() reached the calendar %d times", n)
		}
	})

	t.Run("no changes", func(t *testing.T) {
		svc, asmt, db, cal := setup(t)
		tsk := testutil.CreateTask(t, dummydb.NewTaskRepository(db), asmt.ID, "Literature Review", handIn, handIn.AddDate(0, 0, 14), "evt-1")
		cal.SeedEvent("evt-1", tsk.CalendarEvent())
		seeded := cal.TotalCalls()

		res, err := svc.Save(ctx, tsk.ID, task.NewEditState(tsk), updFrom(tsk))
		if err != nil {
			t.Fatalf("Save() failed: %v", err)
		}
		if res.Status != task.SaveNoChanges {
			t.Errorf("Save() status = %q, want %q", res.Status, task.SaveNoChanges)
		}
		if n := cal.TotalCalls() - seeded; n != 0 {
			t.Errorf("Save() reached the calendar %d times", n)
		}
	})

	t.Run("dates moved outside the window", func(t *testing.T) {
		svc, asmt, db, _ := setup(t)
		tsk := testutil.CreateTask(t, dummydb.NewTaskRepository(db), asmt.ID, "Literature Review", handIn, handIn.AddDate(0, 0, 14))

		upd := updFrom(tsk)
		upd.EndDate = due.AddDate(0, 0, 7)
		if _, err := svc.Save(ctx, tsk.ID, task.NewEditState(tsk), upd); err == nil {
			t.Error("Save() expected a window validation error")
		}
	})
}

func TestService_Delete(t *testing.T) {
	svc, asmt, db, cal := setup(t)
	repo := dummydb.NewTaskRepository(db)
	tsk := testutil.CreateTask(t, repo, asmt.ID, "Literature Review", handIn, handIn.AddDate(0, 0, 14), "evt-1")
	cal.SeedEvent("evt-1", tsk.CalendarEvent())

	if err := svc.Delete(ctx, tsk.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := repo.GetTaskByID(ctx, tsk.ID); err != task.ErrNotFound {
		t.Errorf("GetTaskByID() error = %v, want %v", err, task.ErrNotFound)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !cal.HasEvent("evt-1") {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("Delete() did not clean up the calendar event")
}
