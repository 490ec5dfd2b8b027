package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/saikalpataru/sadhana/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return user.User{}, errors.Wrap(err, "beginning transaction")
	}
	defer rollback(tx)

	usr.ID, err = nextID(tx, "users")
	if err != nil {
		return user.User{}, err
	}

	q := tx.Rebind(`
		INSERT INTO users (id, first_name, last_name, email, password_hash, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if _, err = tx.ExecContext(ctx, q, usr.ID, usr.FirstName, usr.LastName, usr.Email, usr.PasswordHash, usr.IsAdmin, usr.CreatedAt); err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}

	if err = tx.Commit(); err != nil {
		return user.User{}, errors.Wrap(err, "committing user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	var usr user.User
	q := repo.db.Rebind(`SELECT * FROM users WHERE id = ?`)
	if err := repo.db.GetContext(ctx, &usr, q, id); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user by id")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	q := repo.db.Rebind(`SELECT * FROM users WHERE email = ?`)
	if err := repo.db.GetContext(ctx, &usr, q, email); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user by email")
	}
	return usr, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := repo.db.Rebind(`
		UPDATE users
		SET first_name = ?, last_name = ?, email = ?, password_hash = ?, is_admin = ?
		WHERE id = ?`)
	res, err := repo.db.ExecContext(ctx, q, usr.FirstName, usr.LastName, usr.Email, usr.PasswordHash, usr.IsAdmin, usr.ID)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) QueryStudentOverviews(ctx context.Context) ([]user.StudentOverview, error) {
	overviews := make([]user.StudentOverview, 0)
	err := repo.db.SelectContext(ctx, &overviews, `
		SELECT id, first_name, last_name, email
		FROM users
		WHERE is_admin = FALSE
		ORDER BY first_name, last_name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	courseQ := repo.db.Rebind(`
		SELECT c.name
		FROM student_courses sc
		JOIN courses c ON sc.course_id = c.id
		WHERE sc.student_id = ?
		ORDER BY c.name`)
	totalQ := repo.db.Rebind(`
		SELECT COALESCE(SUM(duration), 0)
		FROM time_tracking
		WHERE student_id = ?`)

	for i := range overviews {
		var names []string
		if err = repo.db.SelectContext(ctx, &names, courseQ, overviews[i].ID); err != nil {
			return nil, errors.Wrap(err, "querying assigned courses")
		}
		overviews[i].AssignedCourses = strings.Join(names, ", ")

		if err = repo.db.GetContext(ctx, &overviews[i].TotalPracticeTime, totalQ, overviews[i].ID); err != nil {
			return nil, errors.Wrap(err, "querying practice total")
		}
	}
	return overviews, nil
}

// DeleteStudentByID removes dependent rows before the user row so the
// foreign key declarations stay satisfied.
func (repo *userRepository) DeleteStudentByID(ctx context.Context, id int) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer rollback(tx)

	for _, q := range []string{
		`DELETE FROM time_tracking WHERE student_id = ?`,
		`DELETE FROM student_courses WHERE student_id = ?`,
		`DELETE FROM users WHERE id = ?`,
	} {
		if _, err = tx.ExecContext(ctx, tx.Rebind(q), id); err != nil {
			return errors.Wrap(err, "deleting student data")
		}
	}
	return errors.Wrap(tx.Commit(), "committing student removal")
}
