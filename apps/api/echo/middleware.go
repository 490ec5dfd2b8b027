package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/saikalpataru/sadhana/core/user"
)

// adminMiddleware restricts a route to admin users. The admin flag is
// read from the user record, not from the token claims, so a demotion
// takes effect on tokens minted before it.
func adminMiddleware(svc user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			if usr.IsAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// selfOrAdminMiddleware restricts a route carrying a `:student_id` param to
// the student themselves or to an admin.
func selfOrAdminMiddleware(svc user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			studentID, err := strconv.Atoi(ctx.Param("student_id"))
			if err != nil {
				return errAccessDenied
			}

			ctxUsr, err := getContextUser(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			if ctxUsr.ID == studentID || ctxUsr.IsAdmin {
				return next(ctx)
			}
			return errAccessDenied
		}
	}
}
