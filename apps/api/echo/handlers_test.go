package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

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
	handIn = time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC)
	due    = time.Date(2021, 4, 30, 13, 0, 0, 0, time.UTC)
)

func setup(t *testing.T) (*Server, *dummydb.DB, *dummycal.Service) {
	conf := &core.Config{
		TestMode: true,
		Env:      "TEST",
		Server:   core.ServerConfig{APIAddress: ":0"},
	}

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	cal := dummycal.NewService()
	calSvc := calsync.NewService(cal, testutil.NewLogger(), 5*time.Millisecond)

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)

	srv := NewServer(ServerDeps{
		Conf:          conf,
		Logger:        testutil.NewLogger(),
		ModuleSvc:     module.NewService(dummydb.NewModuleRepository(db), calSvc),
		AssessmentSvc: assessment.NewService(dummydb.NewAssessmentRepository(db), calSvc),
		TaskSvc:       task.NewService(dummydb.NewTaskRepository(db), calSvc),
		Validate:      validate,
		Translator:    translator,
	})
	return srv, db, cal
}

func request(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("request() failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode() failed: %v\nbody: %s", err, rec.Body.String())
	}
}

func TestAPI_home(t *testing.T) {
	srv, _, _ := setup(t)
	rec := request(t, srv, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_modules(t *testing.T) {
	srv, db, _ := setup(t)

	t.Run("create", func(t *testing.T) {
		rec := request(t, srv, http.MethodPost, "/v1/modules", module.NewModule{
			Code: "6COSC004W", Name: "Final Year Project", Level: module.Level6, Leader: "A. Lecturer",
		})
		assert.Equal(t, http.StatusCreated, rec.Code)

		var mod module.Module
		decode(t, rec, &mod)
		assert.NotEqual(t, uuid.Nil, mod.ID)
		assert.Equal(t, "6COSC004W", mod.Code)
	})

	t.Run("create with invalid fields", func(t *testing.T) {
		rec := request(t, srv, http.MethodPost, "/v1/modules", module.NewModule{
			Code: "6C", Name: "Fi", Level: "Level 9", Leader: "Lecturer 1",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var fldErrs map[string]string
		decode(t, rec, &fldErrs)
		assert.Contains(t, fldErrs, "code")
		assert.Contains(t, fldErrs, "name")
		assert.Contains(t, fldErrs, "leader")
	})

	t.Run("query", func(t *testing.T) {
		rec := request(t, srv, http.MethodGet, "/v1/modules", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var mods []module.Module
		decode(t, rec, &mods)
		assert.Len(t, mods, 1)
	})

	t.Run("levels", func(t *testing.T) {
		rec := request(t, srv, http.MethodGet, "/v1/modules/levels", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var levels []string
		decode(t, rec, &levels)
		assert.Equal(t, module.Levels, levels)
	})

	t.Run("retrieve unknown", func(t *testing.T) {
		rec := request(t, srv, http.MethodGet, "/v1/modules/"+uuid.New().String(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("retrieve malformed id", func(t *testing.T) {
		rec := request(t, srv, http.MethodGet, "/v1/modules/lol", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("destroy", func(t *testing.T) {
		mod := testutil.CreateModule(t, dummydb.NewModuleRepository(db), "6SENG004C.1", "Concurrent Programming", module.Level6, "B. Lecturer")
		rec := request(t, srv, http.MethodDelete, "/v1/modules/"+mod.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = request(t, srv, http.MethodGet, "/v1/modules/"+mod.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAPI_assessments(t *testing.T) {
	srv, db, cal := setup(t)
	mod := testutil.CreateModule(t, dummydb.NewModuleRepository(db), "6COSC004W", "Final Year Project", module.Level6, "A. Lecturer")

	t.Run("create with calendar", func(t *testing.T) {
		cal.NextIdentifier = "ABC123"
		rec := request(t, srv, http.MethodPost, "/v1/assessments", assessment.NewAssessment{
			ModuleID:       mod.ID,
			Name:           "Final Report",
			Priority:       assessment.PriorityImportant,
			Weightage:      "60",
			HandIn:         handIn,
			Due:            due,
			AddToCalendar:  true,
			ReminderBefore: string(core.AlarmOneDayBefore),
		})
		assert.Equal(t, http.StatusCreated, rec.Code)

		var res assessment.SaveResult
		decode(t, rec, &res)
		assert.Equal(t, assessment.SaveUpdated, res.Status)
		assert.Equal(t, "ABC123", res.Assessment.EventIdentifier)
	})

	t.Run("create under an unknown module", func(t *testing.T) {
		rec := request(t, srv, http.MethodPost, "/v1/assessments", assessment.NewAssessment{
			ModuleID:  uuid.New(),
			Name:      "Orphan Report",
			Weightage: "60",
			HandIn:    handIn,
			Due:       due,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("create without calendar access", func(t *testing.T) {
		cal.Status = core.AuthDenied
		rec := request(t, srv, http.MethodPost, "/v1/assessments", assessment.NewAssessment{
			ModuleID:      mod.ID,
			Name:          "Presentation",
			Weightage:     "20",
			HandIn:        handIn,
			Due:           due,
			AddToCalendar: true,
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		cal.Status = core.AuthAuthorized
	})

	t.Run("query with filter", func(t *testing.T) {
		rec := request(t, srv, http.MethodGet, "/v1/assessments?priority=Important&module="+mod.ID.String(), nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var details []assessmentDetail
		decode(t, rec, &details)
		assert.Len(t, details, 1)
		assert.Equal(t, "Final Report", details[0].Name)
	})

	t.Run("query with malformed module id", func(t *testing.T) {
		rec := request(t, srv, http.MethodGet, "/v1/assessments?module=lol", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("open then save without changes", func(t *testing.T) {
		asmt := testutil.CreateAssessment(t, dummydb.NewAssessmentRepository(db), mod.ID, "Essay", 20, handIn, due)

		rec := request(t, srv, http.MethodGet, "/v1/assessments/"+asmt.ID.String()+"/edit", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var edit editResponse
		decode(t, rec, &edit)
		assert.Equal(t, asmt.ID, edit.Assessment.ID)

		rec = request(t, srv, http.MethodPut, "/v1/assessments/"+asmt.ID.String(), saveRequest{
			State: edit.State,
			Data: assessment.UpdateAssessment{
				ModuleID:       edit.Assessment.ModuleID,
				Name:           edit.Assessment.Name,
				Priority:       edit.Assessment.Priority,
				Weightage:      "20",
				MarkAchieved:   "0",
				HandIn:         edit.Assessment.HandIn,
				Due:            edit.Assessment.Due,
				ReminderBefore: string(edit.Assessment.ReminderBefore),
			},
		})
		assert.Equal(t, http.StatusOK, rec.Code)

		var res assessment.SaveResult
		decode(t, rec, &res)
		assert.Equal(t, assessment.SaveNoChanges, res.Status)
	})

	t.Run("reminder offsets", func(t *testing.T) {
		rec := request(t, srv, http.MethodGet, "/v1/assessments/reminder-offsets", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var offsets []reminderOffset
		decode(t, rec, &offsets)
		assert.Len(t, offsets, 11)
	})

	t.Run("destroy", func(t *testing.T) {
		asmt := testutil.CreateAssessment(t, dummydb.NewAssessmentRepository(db), mod.ID, "Quiz", 10, handIn, due)
		rec := request(t, srv, http.MethodDelete, "/v1/assessments/"+asmt.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestAPI_tasks(t *testing.T) {
	srv, db, _ := setup(t)
	mod := testutil.CreateModule(t, dummydb.NewModuleRepository(db), "6COSC004W", "Final Year Project", module.Level6, "A. Lecturer")
	asmt := testutil.CreateAssessment(t, dummydb.NewAssessmentRepository(db), mod.ID, "Final Report", 60, handIn, due)

	t.Run("create", func(t *testing.T) {
		rec := request(t, srv, http.MethodPost, "/v1/tasks", task.NewTask{
			AssessmentID: asmt.ID,
			Name:         "Literature Review",
			StartDate:    handIn,
			EndDate:      handIn.AddDate(0, 0, 14),
		})
		assert.Equal(t, http.StatusCreated, rec.Code)

		var res task.SaveResult
		decode(t, rec, &res)
		assert.Equal(t, task.SaveUpdated, res.Status)
		assert.Equal(t, 0, res.Task.Progress)
	})

	t.Run("create outside the assessment window", func(t *testing.T) {
		rec := request(t, srv, http.MethodPost, "/v1/tasks", task.NewTask{
			AssessmentID: asmt.ID,
			Name:         "Early Start",
			StartDate:    handIn.AddDate(0, 0, -7),
			EndDate:      due,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("query with filter", func(t *testing.T) {
		rec := request(t, srv, http.MethodGet, "/v1/tasks?assessment="+asmt.ID.String()+"&done=false", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var details []taskDetail
		decode(t, rec, &details)
		assert.Len(t, details, 1)
	})

	t.Run("retrieve unknown", func(t *testing.T) {
		rec := request(t, srv, http.MethodGet, "/v1/tasks/"+uuid.New().String(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
