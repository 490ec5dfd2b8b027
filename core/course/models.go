package course

import "time"

// Course is reference data: the six practices seeded at startup.
type Course struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Enrollment links a student to a course. Uniqueness of
// (StudentID, CourseID) is enforced before insert, not by the schema.
type Enrollment struct {
	ID         int       `json:"id" db:"id"`
	StudentID  int       `json:"student_id" db:"student_id"`
	CourseID   int       `json:"course_id" db:"course_id"`
	AssignedAt time.Time `json:"assigned_at" db:"assigned_at"`
}

// Assignment is the admin view of one enrollment.
type Assignment struct {
	CourseID   int    `json:"course_id" db:"course_id"`
	CourseName string `json:"course_name" db:"course_name"`
}
