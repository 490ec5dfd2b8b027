package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/saikalpataru/sadhana/core/course"
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *sqlx.DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	courses := make([]course.Course, 0)
	err := repo.db.SelectContext(ctx, &courses, `SELECT * FROM courses ORDER BY name`)
	return courses, errors.Wrap(err, "querying courses")
}

func (repo *courseRepository) QueryCoursesByStudent(ctx context.Context, studentID int) ([]course.Course, error) {
	courses := make([]course.Course, 0)
	q := repo.db.Rebind(`
		SELECT c.* FROM courses c
		JOIN student_courses sc ON c.id = sc.course_id
		WHERE sc.student_id = ?
		ORDER BY c.name`)
	err := repo.db.SelectContext(ctx, &courses, q, studentID)
	return courses, errors.Wrap(err, "querying student courses")
}

func (repo *courseRepository) EnrollmentExists(ctx context.Context, studentID, courseID int) (bool, error) {
	var exists bool
	q := repo.db.Rebind(`
		SELECT EXISTS (SELECT 1 FROM student_courses WHERE student_id = ? AND course_id = ?)`)
	err := repo.db.GetContext(ctx, &exists, q, studentID, courseID)
	return exists, errors.Wrap(err, "checking enrollment")
}

func (repo *courseRepository) CreateEnrollment(ctx context.Context, enr course.Enrollment) (course.Enrollment, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return course.Enrollment{}, errors.Wrap(err, "beginning transaction")
	}
	defer rollback(tx)

	enr.ID, err = nextID(tx, "student_courses")
	if err != nil {
		return course.Enrollment{}, err
	}

	q := tx.Rebind(`
		INSERT INTO student_courses (id, student_id, course_id, assigned_at)
		VALUES (?, ?, ?, ?)`)
	if _, err = tx.ExecContext(ctx, q, enr.ID, enr.StudentID, enr.CourseID, enr.AssignedAt); err != nil {
		return course.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}

	if err = tx.Commit(); err != nil {
		return course.Enrollment{}, errors.Wrap(err, "committing enrollment")
	}
	return enr, nil
}

func (repo *courseRepository) QueryAssignmentsByStudent(ctx context.Context, studentID int) ([]course.Assignment, error) {
	assignments := make([]course.Assignment, 0)
	q := repo.db.Rebind(`
		SELECT sc.course_id, c.name AS course_name
		FROM student_courses sc
		JOIN courses c ON sc.course_id = c.id
		WHERE sc.student_id = ?
		ORDER BY c.name`)
	err := repo.db.SelectContext(ctx, &assignments, q, studentID)
	return assignments, errors.Wrap(err, "querying assignments")
}

func (repo *courseRepository) ReplaceEnrollments(ctx context.Context, studentID int, courseIDs []int) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer rollback(tx)

	if _, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM student_courses WHERE student_id = ?`), studentID); err != nil {
		return errors.Wrap(err, "clearing enrollments")
	}

	insertQ := tx.Rebind(`
		INSERT INTO student_courses (id, student_id, course_id, assigned_at)
		VALUES (?, ?, ?, ?)`)
	now := time.Now().UTC()
	for _, courseID := range courseIDs {
		id, err := nextID(tx, "student_courses")
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, insertQ, id, studentID, courseID, now); err != nil {
			return errors.Wrap(err, "inserting enrollment")
		}
	}
	return errors.Wrap(tx.Commit(), "committing enrollments")
}
