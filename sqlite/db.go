// Package sqlite implements taskmaster's Database and TaskRepo on an embedded
// SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/benjamonnguyen/taskmaster"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SchemaVersion is the schema version after the index step: migration files
// bring the table to version 1 and ensureIndexes adds the version 2 indexes.
const SchemaVersion = 2

type Database struct {
	conn *sql.DB
	l    taskmaster.Logger
}

var _ taskmaster.Database = (*Database)(nil)

func Open(url string, logger taskmaster.Logger) (*Database, error) {
	conn, err := sql.Open("sqlite", url)
	if err != nil {
		return nil, fmt.Errorf("failed database open: %w", err)
	}
	// one writer at a time; transactions hold the only connection
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed database ping: %w", err)
	}
	return &Database{
		conn: conn,
		l:    logger,
	}, nil
}

func (db *Database) Conn() *sql.DB {
	return db.conn
}

// Migrate applies the versioned table migrations, then the index step.
// Index failures are reported, not returned.
func (db *Database) Migrate(ctx context.Context) (taskmaster.MigrationReport, error) {
	version, err := db.migrateTables()
	if err != nil {
		return taskmaster.MigrationReport{}, err
	}
	db.l.Debug("migrated tables", "version", version)

	report, err := ensureIndexes(ctx, db.conn, taskIndexes, db.l)
	if err != nil {
		return report, err
	}
	report.SchemaVersion = SchemaVersion
	return report, nil
}

func (db *Database) migrateTables() (uint, error) {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return 0, err
	}
	d, err := migratesqlite.WithInstance(db.conn, &migratesqlite.Config{})
	if err != nil {
		return 0, err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", d)
	if err != nil {
		return 0, err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("failed migration: %w", err)
	}
	version, dirty, err := m.Version()
	if err != nil {
		return 0, err
	}
	if dirty {
		return version, fmt.Errorf("database schema version %d is dirty", version)
	}
	return version, nil
}

// TaskRepo returns a TaskRepo whose queries share one transactor.
func (db *Database) TaskRepo() taskmaster.TaskRepo {
	transactor, dbGetter := txStdLib.NewTransactor(db.conn, txStdLib.NestedTransactionsSavepoints)
	return NewTaskRepo(transactor, dbGetter, db.l)
}

func (db *Database) Close() error {
	return db.conn.Close()
}

// Opener returns a StoreOpener that opens and migrates the database at url.
func Opener(url string, logger taskmaster.Logger) taskmaster.StoreOpener {
	return func(ctx context.Context) (taskmaster.TaskRepo, io.Closer, error) {
		db, err := Open(url, logger)
		if err != nil {
			return nil, nil, err
		}
		report, err := db.Migrate(ctx)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		if err := report.Err(); err != nil {
			logger.Warn("schema migrated with missing indexes", "version", report.SchemaVersion, "error", err)
		} else {
			logger.Info("schema migrated", "version", report.SchemaVersion)
		}
		return db.TaskRepo(), db, nil
	}
}
