// Package sqlite is a geo.API backed by a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"citypick/internal/domain"
	"citypick/internal/geo"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	levelRegion = 0
	levelCity   = 1
)

// Store implements geo.API on SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ geo.API = (*Store)(nil)

// Open opens sqlite with sensible defaults.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate applies all up migrations embedded in the binary to the database
// at path.
func Migrate(path string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite3://"+path)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Seed loads ds when the nodes table is empty. It reports whether rows were
// inserted.
func (s *Store) Seed(ctx context.Context, ds *Dataset) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes`).Scan(&count); err != nil {
		return false, fmt.Errorf("count nodes: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO nodes (code, name, parent_code, source, level, position) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		insert := func(source string, regions []RegionRecord) error {
			for i, r := range regions {
				if _, err := stmt.ExecContext(ctx, r.ID, r.Name, nil, source, levelRegion, i); err != nil {
					return fmt.Errorf("insert region %s: %w", r.ID, err)
				}
				for j, c := range r.Cities {
					if _, err := stmt.ExecContext(ctx, c.Code, c.Name, r.ID, source, levelCity, j); err != nil {
						return fmt.Errorf("insert city %s: %w", c.Code, err)
					}
				}
			}
			return nil
		}
		if err := insert(domain.SourceChina, ds.China); err != nil {
			return err
		}
		return insert(domain.SourceForeign, ds.Foreign)
	})
	if err != nil {
		return false, fmt.Errorf("seed dataset: %w", err)
	}
	s.logger.Info("geo store seeded", "domestic", len(ds.China), "overseas", len(ds.Foreign))
	return true, nil
}

// withTx runs fn in a transaction.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) ChinaCities(ctx context.Context) ([]domain.GeoNode, error) {
	return s.regions(ctx, domain.SourceChina)
}

func (s *Store) Countries(ctx context.Context) ([]domain.GeoNode, error) {
	return s.regions(ctx, domain.SourceForeign)
}

func (s *Store) regions(ctx context.Context, source string) ([]domain.GeoNode, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, name FROM nodes WHERE source = ? AND level = ? ORDER BY position`, source, levelRegion)
	if err != nil {
		return nil, fmt.Errorf("query regions: %w", err)
	}
	defer rows.Close()

	var out []domain.GeoNode
	for rows.Next() {
		var n domain.GeoNode
		if err := rows.Scan(&n.ID, &n.Name); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) List(ctx context.Context, region domain.Code) ([]domain.City, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, name FROM nodes WHERE parent_code = ? ORDER BY position`, string(region))
	if err != nil {
		return nil, fmt.Errorf("query cities: %w", err)
	}
	defer rows.Close()

	var out []domain.City
	for rows.Next() {
		var c domain.City
		if err := rows.Scan(&c.Code, &c.Name); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) node(ctx context.Context, code domain.Code) (domain.GeoNode, error) {
	var (
		n      domain.GeoNode
		parent sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT code, name, parent_code FROM nodes WHERE code = ?`, string(code)).Scan(&n.ID, &n.Name, &parent)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GeoNode{}, fmt.Errorf("%w: %s", geo.ErrNotFound, code)
	}
	if err != nil {
		return domain.GeoNode{}, fmt.Errorf("query node: %w", err)
	}
	n.ParentID = domain.Code(parent.String)
	return n, nil
}

func (s *Store) City(ctx context.Context, code domain.Code) (domain.CityDetail, error) {
	n, err := s.node(ctx, code)
	if err != nil {
		return domain.CityDetail{}, err
	}
	detail := domain.CityDetail{City: n}
	if !n.ParentID.IsZero() {
		p, err := s.node(ctx, n.ParentID)
		if err != nil {
			return domain.CityDetail{}, err
		}
		detail.Parent = &p
	}
	return detail, nil
}

// Combine merges code into basket. Adding a region drops its selected
// cities; adding a city whose region is selected replaces the region.
func (s *Store) Combine(ctx context.Context, code domain.Code, basket []domain.Code) ([]domain.Code, error) {
	for _, c := range basket {
		if c == code {
			return append([]domain.Code(nil), basket...), nil
		}
	}
	n, err := s.node(ctx, code)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Code, 0, len(basket)+1)
	for _, c := range basket {
		if c == n.ParentID {
			continue
		}
		existing, err := s.node(ctx, c)
		if err != nil && !errors.Is(err, geo.ErrNotFound) {
			return nil, err
		}
		if err == nil && existing.ParentID == code {
			continue
		}
		out = append(out, c)
	}
	return append(out, code), nil
}
