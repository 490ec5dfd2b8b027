package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/saikalpataru/sadhana/core"
	"github.com/saikalpataru/sadhana/core/course"
	"github.com/saikalpataru/sadhana/core/material"
	"github.com/saikalpataru/sadhana/core/practice"
	"github.com/saikalpataru/sadhana/core/user"
)

type (
	// ServerDeps regroups all the dependencies needed by the Server.
	ServerDeps struct {
		Conf        *core.Config
		Logger      core.Logger
		DB          *sqlx.DB
		UserSvc     user.Service
		CourseSvc   *course.Service
		PracticeSvc *practice.Service
		MaterialSvc *material.Service
		Validate    *validator.Validate
		Translator  ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf
	ConfigureAuth(conf)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)
	s.app.GET("/healthz", s.healthz)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(api, jwt, s.deps.UserSvc, s.deps.Validate)
	registerCourseAPI(api, jwt, s.deps.CourseSvc, s.deps.UserSvc)
	registerPracticeAPI(api, jwt, s.deps.PracticeSvc, s.deps.UserSvc, s.deps.Validate)
	registerMaterialAPI(api, jwt, s.deps.MaterialSvc, s.deps.UserSvc, s.deps.Validate)
}

func (s *server) Start() {
	s.errs <- s.app.Start(s.deps.Conf.Server.Address())
}

func (s *server) Errors() <-chan error { return s.errs }

func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// signalShutdown triggers a graceful shutdown of the Server. it is called
// when an integrity issue (core.shutdown error) is identified.
func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Welcome to Sadhana API!"})
}

// healthz reports readiness. A failed database ping is an integrity
// issue and requests a graceful shutdown.
func (s *server) healthz(ctx echo.Context) error {
	if err := s.deps.DB.PingContext(ctx.Request().Context()); err != nil {
		return core.NewShutdownError("database unreachable: " + err.Error())
	}
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
