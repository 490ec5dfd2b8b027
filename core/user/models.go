package user

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/saikalpataru/sadhana/core"
)

type User struct {
	ID           int       `json:"id" db:"id"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (u *User) SetPassword(pwd string) error {
	hash, err := MakePassword(pwd)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword reports whether pwd matches the stored credential.
// It fails closed on malformed credentials.
func (u *User) CheckPassword(pwd string) bool {
	return VerifyPassword(pwd, u.PasswordHash)
}

// Public is the projection of a User safe to return to clients.
type Public struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
}

func (u User) Public() Public {
	return Public{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
	}
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

// Validate cleans the input and runs struct validation. Email matching is
// case-sensitive throughout the app, so the address is trimmed but not
// lowered.
func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.LastName = core.CleanString(nu.LastName)
	nu.Email = core.CleanString(nu.Email)
	return validate.Struct(nu)
}

// StudentOverview is the admin listing row: one student with their
// comma-joined course names and total practice seconds.
type StudentOverview struct {
	ID                int    `json:"id" db:"id"`
	FirstName         string `json:"first_name" db:"first_name"`
	LastName          string `json:"last_name" db:"last_name"`
	Email             string `json:"email" db:"email"`
	AssignedCourses   string `json:"assigned_courses" db:"-"`
	TotalPracticeTime int64  `json:"total_practice_time" db:"-"`
}
