package database

import (
	"embed"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratelite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/saikalpataru/sadhana/core"
)

//go:embed migrations
var migrationsFS embed.FS

// Open connects to the configured engine. The default is an embedded
// sqlite3 file; postgres is available for hosted deployments.
func Open(conf *core.Config) (*sqlx.DB, error) {
	switch conf.Database.Engine {
	case "sqlite3":
		db, err := sqlx.Open("sqlite3", conf.Database.Name)
		if err != nil {
			return nil, errors.Wrap(err, "opening sqlite database")
		}
		// sqlite does not tolerate unmoderated concurrent writers;
		// funnel everything through one connection.
		db.SetMaxOpenConns(1)
		return db, nil
	case "postgres":
		q := make(url.Values)
		sslMode := "require"
		if conf.Database.DisableTLS {
			sslMode = "disable"
		}
		q.Set("sslmode", sslMode)
		q.Set("timezone", "utc")
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(conf.Database.User, conf.Database.Password),
			Host:     conf.Database.Address(),
			Path:     conf.Database.Name,
			RawQuery: q.Encode(),
		}
		db, err := sqlx.Open("postgres", u.String())
		if err != nil {
			return nil, errors.Wrap(err, "opening postgres database")
		}
		if err = ping(db); err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, errors.Errorf("unsupported database engine %q", conf.Database.Engine)
	}
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}
	return errors.Wrap(err, "DB ping timeout")
}

// NewMigrate builds a migrator over the embedded migration files for the
// given engine.
func NewMigrate(db *sqlx.DB, engine string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations/"+engine)
	if err != nil {
		return nil, errors.Wrap(err, "loading migrations")
	}

	var driver migratedb.Driver
	switch engine {
	case "sqlite3":
		driver, err = migratelite.WithInstance(db.DB, &migratelite.Config{})
	case "postgres":
		driver, err = migratepg.WithInstance(db.DB, &migratepg.Config{})
	default:
		return nil, errors.Errorf("unsupported database engine %q", engine)
	}
	if err != nil {
		return nil, errors.Wrap(err, "preparing migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", src, engine, driver)
	return m, errors.Wrap(err, "preparing migrator")
}

// Migrate applies all pending migrations.
func Migrate(db *sqlx.DB, engine string) error {
	m, err := NewMigrate(db, engine)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

// nextID allocates the next primary key for table within tx. Kept inside
// a transaction so the read and the subsequent insert commit together.
func nextID(tx *sqlx.Tx, table string) (int, error) {
	var id int
	err := tx.Get(&id, fmt.Sprintf("SELECT COALESCE(MAX(id), 0) + 1 FROM %s", table))
	return id, errors.Wrapf(err, "allocating id for %s", table)
}

// rollback is a no-op after a successful commit.
func rollback(tx *sqlx.Tx) {
	_ = tx.Rollback()
}
