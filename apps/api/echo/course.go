package echoapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/saikalpataru/sadhana/core"
	"github.com/saikalpataru/sadhana/core/course"
	"github.com/saikalpataru/sadhana/core/user"
)

type courseApi struct {
	svc    *course.Service
	usrSvc user.Service
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *course.Service, usrSvc user.Service) {
	api := courseApi{
		svc:    svc,
		usrSvc: usrSvc,
	}

	ag := g.Group("", jwt)
	ag.GET("/courses", api.query)
	ag.POST("/assign-course", api.assign, adminMiddleware(usrSvc))
	ag.POST("/update-student-courses", api.updateStudentCourses, adminMiddleware(usrSvc))
	ag.GET("/student-assignments/:student_id", api.queryAssignments, adminMiddleware(usrSvc))
}

// Handlers

// query returns all courses for admins, the caller's assigned courses
// otherwise.
func (api *courseApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	courses, err := api.svc.ListFor(ctx.Request().Context(), usr.ID, usr.IsAdmin)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) assign(ctx echo.Context) error {
	studentID, err := strconv.Atoi(ctx.FormValue("student_id"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: "must be an integer"})
	}
	courseID, err := strconv.Atoi(ctx.FormValue("course_id"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "course_id", Error: "must be an integer"})
	}

	if err := api.svc.Assign(ctx.Request().Context(), studentID, courseID); err != nil {
		return errors.Wrap(err, "assigning course")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Course assigned successfully"})
}

// updateStudentCourses replaces a student's assignments with the posted
// set. course_ids comes in as a JSON array string, e.g. "[1,2,3]".
func (api *courseApi) updateStudentCourses(ctx echo.Context) error {
	studentID, err := strconv.Atoi(ctx.FormValue("student_id"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: "must be an integer"})
	}

	var courseIDs []int
	if err := json.Unmarshal([]byte(ctx.FormValue("course_ids")), &courseIDs); err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "course_ids", Error: "must be a JSON array of integers"})
	}

	if err := api.svc.Replace(ctx.Request().Context(), studentID, courseIDs); err != nil {
		return errors.Wrap(err, "updating student courses")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Student courses updated successfully"})
}

func (api *courseApi) queryAssignments(ctx echo.Context) error {
	studentID, err := strconv.Atoi(ctx.Param("student_id"))
	if err != nil {
		return errHttpNotFound
	}

	assignments, err := api.svc.AssignmentsFor(ctx.Request().Context(), studentID)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if assignments == nil {
		assignments = []course.Assignment{}
	}
	return ctx.JSON(http.StatusOK, assignments)
}
