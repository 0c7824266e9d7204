package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/planner/core/module"
)

type moduleApi struct {
	svc        *module.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerModuleAPI(
	g *echo.Group,
	svc *module.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := moduleApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	mg := g.Group("/modules")
	mg.POST("", api.create)
	mg.GET("", api.query)
	mg.GET("/levels", api.queryLevels)

	dg := mg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.DELETE("", api.destroy)
}

// Handlers

func (api *moduleApi) create(ctx echo.Context) error {
	var data module.NewModule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewModule")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	mod, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating module")
	}
	return ctx.JSON(http.StatusCreated, mod)
}

func (api *moduleApi) query(ctx echo.Context) error {
	mods, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying modules")
	}
	return ctx.JSON(http.StatusOK, mods)
}

func (api *moduleApi) queryLevels(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, module.Levels)
}

func (api *moduleApi) retrieve(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	mod, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, mod)
}

func (api *moduleApi) destroy(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
