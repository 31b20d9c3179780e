package postgres

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // register pgx5 driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// migrateScheme selects the golang-migrate driver built on pgx/v5.
const migrateScheme = "pgx5"

// RunMigrations applies all pending up migrations read from the root of
// migrations, e.g. an embed.FS or os.DirFS. No pending migrations is not an
// error.
func RunMigrations(dsn string, migrations fs.FS) error {
	return migrateWith(dsn, migrations, (*migrate.Migrate).Up, "up")
}

// RunMigrationsDown rolls back every applied migration.
func RunMigrationsDown(dsn string, migrations fs.FS) error {
	return migrateWith(dsn, migrations, (*migrate.Migrate).Down, "down")
}

func migrateWith(dsn string, migrations fs.FS, step func(*migrate.Migrate) error, name string) error {
	src, err := iofs.New(migrations, ".")
	if err != nil {
		return fmt.Errorf("postgres: open migrations: %w", err)
	}

	dbURL, err := MigrateURL(dsn)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return fmt.Errorf("postgres: create migrator: %w", err)
	}
	defer m.Close()

	if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: run migrations %s: %w", name, err)
	}
	return nil
}

// MigrateURL rewrites a postgres:// DSN to the pgx5:// scheme golang-migrate
// expects for its pgx driver.
func MigrateURL(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("postgres: parse dsn: %w", err)
	}

	switch u.Scheme {
	case "postgres", "postgresql", migrateScheme:
		u.Scheme = migrateScheme
		return u.String(), nil
	default:
		return "", fmt.Errorf("postgres: unsupported dsn scheme %q", u.Scheme)
	}
}
