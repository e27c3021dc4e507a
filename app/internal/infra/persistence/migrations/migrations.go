package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/logx"
)

// NotifyChannel is the Postgres channel the productos trigger notifies.
const NotifyChannel = "productos_changed"

//go:embed mysql/*.sql
var mysqlFiles embed.FS

//go:embed postgres/*.sql
var postgresFiles embed.FS

// UpMySQL applies the pending MySQL migrations on db.
func UpMySQL(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return fmt.Errorf("mysql migrate driver: %w", err)
	}
	return up(mysqlFiles, "mysql", "mysql", driver)
}

// UpPostgres applies the pending Postgres migrations on the database at dsn.
func UpPostgres(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("postgres migrate driver: %w", err)
	}
	return up(postgresFiles, "postgres", "postgres", driver)
}

func up(files embed.FS, dir, name string, driver database.Driver) error {
	src, err := iofs.New(files, dir)
	if err != nil {
		return fmt.Errorf("open %s migrations: %w", name, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, name, driver)
	if err != nil {
		return fmt.Errorf("create %s migrator: %w", name, err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logx.Info().Str("database", name).Msg("no migrations to apply")
			return nil
		}
		return fmt.Errorf("%s migration up: %w", name, err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("%s migration version: %w", name, err)
	}
	logx.Info().Str("database", name).Uint("version", version).Bool("dirty", dirty).Msg("migrations applied")
	return nil
}
