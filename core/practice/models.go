package practice

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"
)

// Entry is one practice session. The log is append-only; sessions may be
// recorded without an end time or duration.
type Entry struct {
	ID        int       `json:"id" db:"id"`
	StudentID int       `json:"student_id" db:"student_id"`
	CourseID  int       `json:"course_id" db:"course_id"`
	StartTime time.Time `json:"start_time" db:"start_time"`
	EndTime   null.Time `json:"end_time" db:"end_time"`
	Duration  null.Int  `json:"duration" db:"duration"` // seconds
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewEntry is the payload for recording a session. The student is always
// the authenticated caller, never client-supplied.
type NewEntry struct {
	CourseID  int       `json:"course_id" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   null.Time `json:"end_time"`
	Duration  null.Int  `json:"duration"`
}

func (ne *NewEntry) Validate(validate *validator.Validate) error {
	return validate.Struct(ne)
}

// CourseStats aggregates a student's sessions for one course.
type CourseStats struct {
	CourseName string `json:"course_name" db:"course_name"`
	TotalTime  int64  `json:"total_time" db:"total_time"`
	Sessions   int64  `json:"sessions" db:"sessions"`
}
