package migration

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/ogurasousui/hr-records/internal/platform/logger"
)

// SeedsTable はシードデータ用のバージョン管理テーブル名です。スキーマ用とは別に管理します。
const SeedsTable = "schema_seeds"

var ErrUnsupportedAction = errors.New("migration: unsupported action")

// Options はマイグレーションの実行対象です。Table が空なら golang-migrate の既定テーブルを使います。
type Options struct {
	Dir   string
	DSN   string
	Table string
}

// Run は action (up / down / drop / version / reset) を実行します。
func Run(action string, opts Options, log *logger.Logger) error {
	switch action {
	case "up", "down", "drop", "version", "reset":
	default:
		return fmt.Errorf("%w %q", ErrUnsupportedAction, action)
	}

	sourceURL, err := SourceURL(opts.Dir)
	if err != nil {
		return err
	}

	dsn, err := withMigrationsTable(opts.DSN, opts.Table)
	if err != nil {
		return err
	}

	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case "up":
		return ignoreNoChange(m.Up())
	case "down":
		return ignoreNoChange(m.Down())
	case "reset":
		if err := ignoreNoChange(m.Down()); err != nil {
			return err
		}
		return ignoreNoChange(m.Up())
	case "drop":
		return m.Drop()
	default:
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				if log != nil {
					log.Info("no migration applied", "dir", opts.Dir)
				}
				return nil
			}
			return err
		}
		if log != nil {
			log.Info("migration version", "dir", opts.Dir, "version", version, "dirty", dirty)
		}
		return nil
	}
}

// SourceURL はディレクトリを golang-migrate の file:// ソース URL に変換します。
func SourceURL(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve path for %s: %w", dir, err)
	}
	return "file://" + filepath.ToSlash(absDir), nil
}

func withMigrationsTable(dsn, table string) (string, error) {
	if table == "" {
		return dsn, nil
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse dsn: %w", err)
	}
	q := u.Query()
	q.Set("x-migrations-table", table)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func ignoreNoChange(err error) error {
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
