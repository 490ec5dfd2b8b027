package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/saikalpataru/sadhana/core/practice"
	"github.com/saikalpataru/sadhana/core/user"
)

type practiceApi struct {
	svc      *practice.Service
	usrSvc   user.Service
	validate *validator.Validate
}

func registerPracticeAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *practice.Service, usrSvc user.Service, validate *validator.Validate) {
	api := practiceApi{
		svc:      svc,
		usrSvc:   usrSvc,
		validate: validate,
	}

	ag := g.Group("", jwt)
	ag.POST("/time-tracking", api.record)
	ag.GET("/time-stats/:student_id", api.queryStats, selfOrAdminMiddleware(usrSvc))
}

// Handlers

// record logs a session for the authenticated caller. The student id
// comes from the token, never from the payload.
func (api *practiceApi) record(ctx echo.Context) error {
	var data practice.NewEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEntry")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if _, err := api.svc.Record(ctx.Request().Context(), usr.ID, data); err != nil {
		return errors.Wrap(err, "recording time entry")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Time entry recorded successfully"})
}

func (api *practiceApi) queryStats(ctx echo.Context) error {
	studentID, err := strconv.Atoi(ctx.Param("student_id"))
	if err != nil {
		return errHttpNotFound
	}

	stats, err := api.svc.StatsFor(ctx.Request().Context(), studentID)
	if err != nil {
		return errors.Wrap(err, "querying time stats")
	}
	if stats == nil {
		stats = []practice.CourseStats{}
	}
	return ctx.JSON(http.StatusOK, stats)
}
