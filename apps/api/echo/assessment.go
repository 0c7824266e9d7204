package echoapi

import (
	"net/http"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/planner/core"
	"github.com/trezcool/planner/core/assessment"
)

// for tests
var nowFunc = time.Now

type assessmentApi struct {
	svc        *assessment.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerAssessmentAPI(
	g *echo.Group,
	svc *assessment.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := assessmentApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	ag := g.Group("/assessments")
	ag.POST("", api.create)
	ag.GET("", api.query)
	ag.GET("/priorities", api.queryPriorities)
	ag.GET("/reminder-offsets", api.queryReminderOffsets)

	dg := ag.Group("/:id")
	dg.GET("", api.retrieve)
	dg.GET("/edit", api.open)
	dg.PUT("", api.save)
	dg.DELETE("", api.destroy)
}

type (
	// assessmentDetail decorates an assessment with its derived metrics.
	assessmentDetail struct {
		assessment.Assessment
		DaysRemaining  int     `json:"days_remaining"`
		ElapsedPercent float64 `json:"elapsed_percent"`
		OverallMark    int     `json:"overall_mark"`
	}

	// editResponse is what the editor opens with: the entity and the
	// snapshot to send back on save.
	editResponse struct {
		Assessment assessment.Assessment `json:"assessment"`
		State      assessment.EditState  `json:"state"`
	}

	// saveRequest carries the editor-open snapshot alongside the edit.
	saveRequest struct {
		State assessment.EditState        `json:"state"`
		Data  assessment.UpdateAssessment `json:"data"`
	}

	reminderOffset struct {
		Value   core.AlarmOffset `json:"value"`
		Label   string           `json:"label"`
		Minutes int              `json:"minutes"`
	}
)

func newAssessmentDetail(a assessment.Assessment) assessmentDetail {
	days, pct := core.ElapsedPercentage(a.HandIn, a.Due, nowFunc())
	return assessmentDetail{
		Assessment:     a,
		DaysRemaining:  days,
		ElapsedPercent: pct,
		OverallMark:    a.OverallMark(),
	}
}

// Handlers

func (api *assessmentApi) create(ctx echo.Context) error {
	var data assessment.NewAssessment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssessment")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	res, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *assessmentApi) query(ctx echo.Context) error {
	qf, err := bindAssessmentFilter(ctx)
	if err != nil {
		return err
	}
	asmts, err := api.svc.QueryAll(ctx.Request().Context(), qf)
	if err != nil {
		return errors.Wrap(err, "querying assessments")
	}

	details := make([]assessmentDetail, 0, len(asmts))
	for _, a := range asmts {
		details = append(details, newAssessmentDetail(a))
	}
	return ctx.JSON(http.StatusOK, details)
}

func (api *assessmentApi) queryPriorities(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, assessment.Priorities)
}

func (api *assessmentApi) queryReminderOffsets(ctx echo.Context) error {
	offsets := core.AlarmOffsets()
	out := make([]reminderOffset, 0, len(offsets))
	for _, off := range offsets {
		out = append(out, reminderOffset{Value: off, Label: off.Label(), Minutes: off.Minutes()})
	}
	return ctx.JSON(http.StatusOK, out)
}

func (api *assessmentApi) retrieve(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	a, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newAssessmentDetail(a))
}

func (api *assessmentApi) open(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	a, state, err := api.svc.Open(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, editResponse{Assessment: a, State: state})
}

func (api *assessmentApi) save(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	var req saveRequest
	if err = ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding to saveRequest")
	}
	if err = req.Data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	res, err := api.svc.Save(ctx.Request().Context(), id, req.State, req.Data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *assessmentApi) destroy(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
