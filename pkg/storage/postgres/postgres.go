// Package postgres provides a PostgreSQL-backed implementation of
// [storage.DataStore] on top of the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/skylark-social/skylark/pkg/logger"
	"github.com/skylark-social/skylark/pkg/storage"
	"github.com/skylark-social/skylark/pkg/storage/migrate"
	"github.com/skylark-social/skylark/pkg/storage/sqlcommon"
)

//go:embed migrations/*.sql
var Migrations embed.FS

// Datastore is a PostgreSQL-backed [storage.DataStore].
type Datastore struct {
	*sqlcommon.Store

	db               *sql.DB
	logger           logger.Logger
	dbStatsCollector prometheus.Collector
}

var _ storage.DataStore = (*Datastore)(nil)

// New opens a PostgreSQL datastore using the given connection URI.
func New(uri string, cfg *sqlcommon.Config) (*Datastore, error) {
	db, err := sql.Open("pgx", uri)
	if err != nil {
		return nil, fmt.Errorf("initialize postgres connection: %w", err)
	}
	cfg.ApplyPoolSettings(db)

	var collector prometheus.Collector
	if cfg.ExportMetrics {
		collector = collectors.NewDBStatsCollector(db, "skylark")
		if err := prometheus.Register(collector); err != nil {
			return nil, fmt.Errorf("initialize metrics: %w", err)
		}
	}

	stbl := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(db)

	return &Datastore{
		Store:            sqlcommon.NewStore(db, stbl, HandleSQLError),
		db:               db,
		logger:           cfg.Logger,
		dbStatsCollector: collector,
	}, nil
}

// RunMigrations brings the schema up to date.
func (s *Datastore) RunMigrations(ctx context.Context) error {
	return migrate.Up(ctx, s.db, "postgres", Migrations)
}

// Close see [storage.DataStore].Close.
func (s *Datastore) Close() {
	if s.dbStatsCollector != nil {
		prometheus.Unregister(s.dbStatsCollector)
	}
	s.db.Close()
}

// HandleSQLError translates pgx driver errors into storage sentinels.
func HandleSQLError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 is a unique constraint violation.
		if pgErr.Code == "23505" {
			return storage.ErrCollision
		}
	}

	return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
}
