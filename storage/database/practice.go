package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/saikalpataru/sadhana/core/practice"
)

type practiceRepository struct {
	db *sqlx.DB
}

var _ practice.Repository = (*practiceRepository)(nil)

func NewPracticeRepository(db *sqlx.DB) practice.Repository {
	return &practiceRepository{db: db}
}

func (repo *practiceRepository) CreateEntry(ctx context.Context, entry practice.Entry) (practice.Entry, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return practice.Entry{}, errors.Wrap(err, "beginning transaction")
	}
	defer rollback(tx)

	entry.ID, err = nextID(tx, "time_tracking")
	if err != nil {
		return practice.Entry{}, err
	}

	q := tx.Rebind(`
		INSERT INTO time_tracking (id, student_id, course_id, start_time, end_time, duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err = tx.ExecContext(ctx, q,
		entry.ID, entry.StudentID, entry.CourseID, entry.StartTime, entry.EndTime, entry.Duration, entry.CreatedAt)
	if err != nil {
		return practice.Entry{}, errors.Wrap(err, "inserting time entry")
	}

	if err = tx.Commit(); err != nil {
		return practice.Entry{}, errors.Wrap(err, "committing time entry")
	}
	return entry, nil
}

func (repo *practiceRepository) QueryStatsByStudent(ctx context.Context, studentID int) ([]practice.CourseStats, error) {
	stats := make([]practice.CourseStats, 0)
	q := repo.db.Rebind(`
		SELECT c.name AS course_name,
		       COALESCE(SUM(tt.duration), 0) AS total_time,
		       COUNT(tt.id) AS sessions
		FROM time_tracking tt
		JOIN courses c ON tt.course_id = c.id
		WHERE tt.student_id = ?
		GROUP BY c.id, c.name
		ORDER BY total_time DESC`)
	err := repo.db.SelectContext(ctx, &stats, q, studentID)
	return stats, errors.Wrap(err, "querying practice stats")
}
