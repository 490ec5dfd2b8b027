package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/saikalpataru/sadhana/core/course"
	"github.com/saikalpataru/sadhana/core/user"
	"github.com/saikalpataru/sadhana/storage/database"
)

// PrepareDB opens a fresh in-memory database and applies all migrations.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	db.SetMaxOpenConns(1) // :memory: lives per connection

	if err = database.Migrate(db, "sqlite3"); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	first, last, email, pwd string,
	isAdmin bool,
) user.User {
	t.Helper()

	usr := user.User{
		FirstName: first,
		LastName:  last,
		Email:     email,
		IsAdmin:   isAdmin,
		CreatedAt: time.Now().UTC(),
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(t *testing.T, db *sqlx.DB, id int, name, description string) course.Course {
	t.Helper()

	crs := course.Course{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	q := db.Rebind(`INSERT INTO courses (id, name, description, created_at) VALUES (?, ?, ?, ?)`)
	if _, err := db.Exec(q, crs.ID, crs.Name, crs.Description, crs.CreatedAt); err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

func CreateEnrollment(t *testing.T, repo course.Repository, studentID, courseID int) course.Enrollment {
	t.Helper()

	enr, err := repo.CreateEnrollment(context.Background(), course.Enrollment{
		StudentID:  studentID,
		CourseID:   courseID,
		AssignedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateEnrollment() failed: %v", err)
	}
	return enr
}
