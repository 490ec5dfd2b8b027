package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/saikalpataru/sadhana/core"
	"github.com/saikalpataru/sadhana/core/user"
)

// The six practices are fixed reference data; their ids are part of the
// frontend contract and must not shift between deployments.
var seedCourses = []string{
	"śravaṇaṃ",
	"Kirtanam",
	"Smaranam",
	"Pada Sevanam",
	"Archanam",
	"Vandanam",
}

// Seed inserts reference data idempotently: the six courses by fixed id,
// and the admin account configured via ADMIN_* env vars (skipped when
// unset). Safe to run on every startup.
func Seed(ctx context.Context, db *sqlx.DB, conf *core.Config) error {
	if err := seedCoursesData(ctx, db); err != nil {
		return err
	}
	return seedAdmin(ctx, db, conf)
}

func seedCoursesData(ctx context.Context, db *sqlx.DB) error {
	q := db.Rebind(`
		INSERT INTO courses (id, name, description, created_at)
		SELECT ?, ?, ?, ?
		WHERE NOT EXISTS (SELECT 1 FROM courses WHERE id = ?)`)

	now := time.Now().UTC()
	for i, name := range seedCourses {
		id := i + 1
		desc := fmt.Sprintf("Traditional Vedic practice: %s", name)
		if _, err := db.ExecContext(ctx, q, id, name, desc, now, id); err != nil {
			return errors.Wrapf(err, "seeding course %q", name)
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, db *sqlx.DB, conf *core.Config) error {
	adm := conf.Admin
	if adm.Email == "" || adm.Password == "" {
		return nil
	}

	hash, err := user.MakePassword(adm.Password)
	if err != nil {
		return errors.Wrap(err, "hashing admin password")
	}

	q := db.Rebind(`
		INSERT INTO users (id, first_name, last_name, email, password_hash, is_admin, created_at)
		SELECT (SELECT COALESCE(MAX(id), 0) + 1 FROM users), ?, ?, ?, ?, TRUE, ?
		WHERE NOT EXISTS (SELECT 1 FROM users WHERE email = ?)`)
	_, err = db.ExecContext(ctx, q, adm.FirstName, adm.LastName, adm.Email, hash, time.Now().UTC(), adm.Email)
	return errors.Wrap(err, "seeding admin user")
}
