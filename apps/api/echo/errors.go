package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/planner/core"
	"github.com/trezcool/planner/core/assessment"
	"github.com/trezcool/planner/core/module"
	"github.com/trezcool/planner/core/task"
)

var (
	errHttpNotFound     = echo.NewHTTPError(http.StatusNotFound, "not found")
	errCalendarAccess   = echo.NewHTTPError(http.StatusForbidden, core.ErrAccessDeniedOrRestricted.Error())
	errCalendarConflict = echo.NewHTTPError(http.StatusConflict, core.ErrEventExists.Error())
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err); origErr {
		case module.ErrNotFound, assessment.ErrNotFound, task.ErrNotFound, core.ErrEventNotFound:
			code = errHttpNotFound.Code
			message = errHttpNotFound.Message
		case core.ErrAccessDeniedOrRestricted:
			code = errCalendarAccess.Code
			message = errCalendarAccess.Message
		case core.ErrEventExists:
			code = errCalendarConflict.Code
			message = errCalendarConflict.Message
		default:
			switch typedErr := origErr.(type) {
			case *echo.HTTPError:
				if typedErr.Internal != nil {
					if herr, ok := typedErr.Internal.(*echo.HTTPError); ok {
						typedErr = herr
					}
				}
				code = typedErr.Code
				message = typedErr.Message
			case validator.ValidationErrors:
				fldErrs := make(map[string]string, len(typedErr))
				for _, vErr := range typedErr {
					fldErrs[vErr.Field()] = vErr.Translate(translator)
				}
				code = http.StatusBadRequest
				message = fldErrs
			case *core.ValidationError:
				if typedErr.Fields != nil {
					fldErrs := make(map[string]string, len(typedErr.Fields))
					for _, fErr := range typedErr.Fields {
						fldErrs[fErr.Field] = fErr.Error
					}
					message = fldErrs
				} else {
					message = typedErr.Error()
				}
				code = http.StatusBadRequest
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg
				logger.Error(msg, errors.Wrap(err, msg))

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
