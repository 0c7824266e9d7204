package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/planner/core"
	"github.com/trezcool/planner/core/task"
)

type taskApi struct {
	svc        *task.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerTaskAPI(
	g *echo.Group,
	svc *task.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := taskApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	tg := g.Group("/tasks")
	tg.POST("", api.create)
	tg.GET("", api.query)

	dg := tg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.GET("/edit", api.open)
	dg.PUT("", api.save)
	dg.DELETE("", api.destroy)
}

type (
	// taskDetail decorates a task with its calendar-aware countdown.
	taskDetail struct {
		task.Task
		Done             bool `json:"done"`
		CountdownDays    int  `json:"countdown_days"`
		CountdownHours   int  `json:"countdown_hours"`
		CountdownMinutes int  `json:"countdown_minutes"`
		CountdownSeconds int  `json:"countdown_seconds"`
	}

	taskEditResponse struct {
		Task  task.Task      `json:"task"`
		State task.EditState `json:"state"`
	}

	taskSaveRequest struct {
		State task.EditState  `json:"state"`
		Data  task.UpdateTask `json:"data"`
	}
)

func newTaskDetail(t task.Task) taskDetail {
	days, hours, minutes, seconds := core.CountdownComponents(nowFunc(), t.EndDate)
	return taskDetail{
		Task:             t,
		Done:             t.Done(),
		CountdownDays:    days,
		CountdownHours:   hours,
		CountdownMinutes: minutes,
		CountdownSeconds: seconds,
	}
}

// Handlers

func (api *taskApi) create(ctx echo.Context) error {
	var data task.NewTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
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

func (api *taskApi) query(ctx echo.Context) error {
	qf, err := bindTaskFilter(ctx)
	if err != nil {
		return err
	}
	tasks, err := api.svc.QueryAll(ctx.Request().Context(), qf)
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}

	details := make([]taskDetail, 0, len(tasks))
	for _, t := range tasks {
		details = append(details, newTaskDetail(t))
	}
	return ctx.JSON(http.StatusOK, details)
}

func (api *taskApi) retrieve(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	t, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newTaskDetail(t))
}

func (api *taskApi) open(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	t, state, err := api.svc.Open(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, taskEditResponse{Task: t, State: state})
}

func (api *taskApi) save(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	var req taskSaveRequest
	if err = ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding to taskSaveRequest")
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

func (api *taskApi) destroy(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
