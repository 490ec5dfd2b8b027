package practice

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

type (
	Repository interface {
		CreateEntry(ctx context.Context, entry Entry) (Entry, error)
		// QueryStatsByStudent aggregates per-course totals and session
		// counts, ordered by total time descending.
		QueryStatsByStudent(ctx context.Context, studentID int) ([]CourseStats, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record appends a session for the given student.
func (svc *Service) Record(ctx context.Context, studentID int, ne NewEntry) (Entry, error) {
	entry, err := svc.repo.CreateEntry(ctx, Entry{
		StudentID: studentID,
		CourseID:  ne.CourseID,
		StartTime: ne.StartTime,
		EndTime:   ne.EndTime,
		Duration:  ne.Duration,
		CreatedAt: time.Now().UTC(),
	})
	return entry, errors.Wrap(err, "creating time entry")
}

func (svc *Service) StatsFor(ctx context.Context, studentID int) ([]CourseStats, error) {
	return svc.repo.QueryStatsByStudent(ctx, studentID)
}
