package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrator handles DB schema migrations using golang-migrate.
type Migrator struct {
	dsn string
	dir string
}

// NewMigrator reads migrations from dir, or ./db/migrations when dir is empty.
func NewMigrator(dsn, dir string) (*Migrator, error) {
	if dsn == "" {
		return nil, fmt.Errorf("missing DSN")
	}
	return &Migrator{dsn: dsn, dir: dir}, nil
}

func (m *Migrator) sourceURL() (string, error) {
	p := m.dir
	if p == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		p = filepath.Join(wd, "db", "migrations")
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, func(mig *migrate.Migrate) error { return mig.Up() })
}

// Down rolls back the latest migration.
func (m *Migrator) Down(ctx context.Context) error {
	return m.run(ctx, func(mig *migrate.Migrate) error { return mig.Steps(-1) })
}

func (m *Migrator) run(ctx context.Context, step func(*migrate.Migrate) error) error {
	src, err := m.sourceURL()
	if err != nil {
		return err
	}
	mig, err := migrate.New(src, m.dsn)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer mig.Close()

	done := make(chan error, 1)
	go func() { done <- step(mig) }()
	select {
	case <-ctx.Done():
		mig.GracefulStop <- true
		<-done
		return ctx.Err()
	case err := <-done:
		if errors.Is(err, migrate.ErrNoChange) {
			return ErrNoChange
		}
		return err
	}
}
