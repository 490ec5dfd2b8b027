package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/saikalpataru/sadhana/core"
)

var (
	// errors
	ErrNotFound       = errors.New("user not found")
	ErrEmailExists    = errors.New("Email already registered")
	ErrAdminProtected = errors.New("admin users cannot be removed")
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id int) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		QueryStudentOverviews(ctx context.Context) ([]StudentOverview, error)
		// DeleteStudentByID removes the student's time tracking entries,
		// then their course assignments, then the user row, atomically.
		DeleteStudentByID(ctx context.Context, id int) error
	}

	Service interface {
		Register(ctx context.Context, nu NewUser) (User, error)
		GetByID(ctx context.Context, id int) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		Students(ctx context.Context) ([]StudentOverview, error)
		RemoveStudent(ctx context.Context, id int) error
	}

	service struct {
		conf    *core.Config
		repo    Repository
		mailSvc core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(conf *core.Config, repo Repository, mailSvc core.EmailService) Service {
	return &service{
		conf:    conf,
		repo:    repo,
		mailSvc: mailSvc,
	}
}

// Register creates a non-admin user after checking email uniqueness
// (exact, case-sensitive match) and sends a welcome email.
func (svc *service) Register(ctx context.Context, nu NewUser) (User, error) {
	if _, err := svc.repo.GetUserByEmail(ctx, nu.Email); err == nil {
		return User{}, core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	} else if errors.Cause(err) != ErrNotFound {
		return User{}, errors.Wrap(err, "checking email uniqueness")
	}

	usr := User{
		FirstName: nu.FirstName,
		LastName:  nu.LastName,
		Email:     nu.Email,
		IsAdmin:   false,
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, errors.Wrap(err, "creating user")
	}

	svc.sendWelcomeEmail(usr)
	return usr, nil
}

func (svc *service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email))
}

func (svc *service) Students(ctx context.Context) ([]StudentOverview, error) {
	return svc.repo.QueryStudentOverviews(ctx)
}

// RemoveStudent cascades a student's data away. Admin accounts are
// protected; callers map ErrAdminProtected the same as ErrNotFound to
// avoid confirming which admin accounts exist.
func (svc *service) RemoveStudent(ctx context.Context, id int) error {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if usr.IsAdmin {
		return ErrAdminProtected
	}
	return svc.repo.DeleteStudentByID(ctx, id)
}

func (svc *service) sendWelcomeEmail(usr User) {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour %s account is ready. Log in with this email address to see your assigned practices.\n",
		usr.FirstName, svc.conf.AppName,
	)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.FirstName + " " + usr.LastName, Address: usr.Email}},
		Subject: "Welcome to " + svc.conf.AppName,
		Body:    body,
	})
}
