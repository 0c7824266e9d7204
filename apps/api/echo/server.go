package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/planner/core"
	"github.com/trezcool/planner/core/assessment"
	"github.com/trezcool/planner/core/module"
	"github.com/trezcool/planner/core/task"
)

type (
	ServerDeps struct {
		Conf          *core.Config
		Logger        core.Logger
		ModuleSvc     *module.Service
		AssessmentSvc *assessment.Service
		TaskSvc       *task.Service
		Validate      *validator.Validate
		Translator    ut.Translator
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	registerModuleAPI(v1, s.deps.ModuleSvc, s.deps.Validate, s.deps.Translator)
	registerAssessmentAPI(v1, s.deps.AssessmentSvc, s.deps.Validate, s.deps.Translator)
	registerTaskAPI(v1, s.deps.TaskSvc, s.deps.Validate, s.deps.Translator)
}

func (s *Server) Start() {
	s.errs <- s.app.Start(s.deps.Conf.Server.APIAddress)
}

// Errors receives the server's fatal run error, if any.
func (s *Server) Errors() <-chan error { return s.errs }

// ShutdownSignal receives SIGINT/SIGTERM.
func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Planner API!")
}
