package postgres

import (
	"embed"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// runMigrations is swapped in tests that run against a mock pool.
var runMigrations = applyMigrations

func applyMigrations(cfg *pgxpool.Config, logger *zap.Logger) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, migrationURL(cfg))
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	logger.Info("database schema ready", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// migrationURL rebuilds the connection settings as a pgx5:// URL, which is
// the only form the migrate driver accepts.
func migrationURL(cfg *pgxpool.Config) string {
	cc := cfg.ConnConfig
	u := url.URL{
		Scheme: "pgx5",
		Host:   net.JoinHostPort(cc.Host, strconv.Itoa(int(cc.Port))),
		Path:   "/" + cc.Database,
	}
	if cc.User != "" {
		if cc.Password != "" {
			u.User = url.UserPassword(cc.User, cc.Password)
		} else {
			u.User = url.User(cc.User)
		}
	}

	q := url.Values{}
	if cc.TLSConfig == nil {
		q.Set("sslmode", "disable")
	} else {
		q.Set("sslmode", "prefer")
	}
	if strings.HasPrefix(cc.Host, "/") {
		u.Host = ""
		q.Set("host", cc.Host)
		q.Set("port", strconv.Itoa(int(cc.Port)))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
