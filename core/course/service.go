package course

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

type (
	Repository interface {
		QueryAllCourses(ctx context.Context) ([]Course, error)
		QueryCoursesByStudent(ctx context.Context, studentID int) ([]Course, error)
		EnrollmentExists(ctx context.Context, studentID, courseID int) (bool, error)
		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		QueryAssignmentsByStudent(ctx context.Context, studentID int) ([]Assignment, error)
		// ReplaceEnrollments deletes all of the student's enrollments and
		// inserts the given set within one transaction.
		ReplaceEnrollments(ctx context.Context, studentID int, courseIDs []int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListFor returns all courses for admins, only assigned courses for
// students; both ordered by course name.
func (svc *Service) ListFor(ctx context.Context, studentID int, isAdmin bool) ([]Course, error) {
	if isAdmin {
		return svc.repo.QueryAllCourses(ctx)
	}
	return svc.repo.QueryCoursesByStudent(ctx, studentID)
}

// Assign enrolls the student in the course. Assigning an existing pair
// is a no-op.
func (svc *Service) Assign(ctx context.Context, studentID, courseID int) error {
	exists, err := svc.repo.EnrollmentExists(ctx, studentID, courseID)
	if err != nil {
		return errors.Wrap(err, "checking enrollment")
	}
	if exists {
		return nil
	}
	_, err = svc.repo.CreateEnrollment(ctx, Enrollment{
		StudentID:  studentID,
		CourseID:   courseID,
		AssignedAt: time.Now().UTC(),
	})
	return errors.Wrap(err, "creating enrollment")
}

// Replace swaps the student's enrollments for the given set.
func (svc *Service) Replace(ctx context.Context, studentID int, courseIDs []int) error {
	return svc.repo.ReplaceEnrollments(ctx, studentID, courseIDs)
}

func (svc *Service) AssignmentsFor(ctx context.Context, studentID int) ([]Assignment, error) {
	return svc.repo.QueryAssignmentsByStudent(ctx, studentID)
}
