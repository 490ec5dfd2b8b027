package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/saikalpataru/sadhana/core"
	"github.com/saikalpataru/sadhana/core/user"
)

type userApi struct {
	svc      user.Service
	validate *validator.Validate
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc user.Service, validate *validator.Validate) {
	api := userApi{
		svc:      svc,
		validate: validate,
	}

	// un-authed endpoints
	g.POST("/register", api.register)
	g.POST("/login", api.login)

	// authed endpoints
	ag := g.Group("", jwt)
	ag.GET("/students", api.queryStudents, adminMiddleware(svc))
	ag.POST("/remove-student", api.removeStudent, adminMiddleware(svc))
}

// Handlers

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if _, err := api.svc.Register(ctx.Request().Context(), data); err != nil {
		if _, ok := errors.Cause(err).(*core.ValidationError); ok {
			return err
		}
		return errors.Wrap(err, "registering user")
	}

	return ctx.JSON(http.StatusOK, MessageResponse{Message: "User registered successfully"})
}

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, usr, err := authenticate(ctx, data.Email, data.Password, api.svc)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        usr.Public(),
	})
}

func (api *userApi) queryStudents(ctx echo.Context) error {
	students, err := api.svc.Students(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []user.StudentOverview{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *userApi) removeStudent(ctx echo.Context) error {
	var data RemoveStudentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RemoveStudentRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.svc.RemoveStudent(ctx.Request().Context(), data.StudentID); err != nil {
		// admin accounts are reported the same as missing ones
		switch errors.Cause(err) {
		case user.ErrNotFound, user.ErrAdminProtected:
			return echo.NewHTTPError(http.StatusNotFound, "Student not found or cannot remove admin users")
		}
		return errors.Wrap(err, "removing student")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Student removed successfully"})
}

type (
	LoginRequest struct {
		Email    string `json:"email" form:"email" validate:"required"`
		Password string `json:"password" form:"password" validate:"required"`
	}

	LoginResponse struct {
		AccessToken string      `json:"access_token"`
		TokenType   string      `json:"token_type"`
		User        user.Public `json:"user"`
	}

	RemoveStudentRequest struct {
		StudentID int `json:"student_id" form:"student_id" validate:"required"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email)
	return validate.Struct(lr)
}

func (rr *RemoveStudentRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(rr)
}
