package sink

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobsweep/jobsweep/internal/scrape"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresConfig controls the Postgres connection pool used for job records.
type PostgresConfig struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// Postgres writes job records into a Postgres table.
type Postgres struct {
	pool  execCloser
	table string
}

// NewPostgres creates a Postgres-backed sink using the provided config.
func NewPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("sink.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "job_records"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Postgres{
		pool:  pool,
		table: table,
	}, nil
}

// NewPostgresWithPool constructs a sink from an existing pool (primarily for testing).
func NewPostgresWithPool(pool execCloser, table string) (*Postgres, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "job_records"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Postgres{pool: pool, table: table}, nil
}

// Append inserts each record in the batch as one row.
func (p *Postgres) Append(ctx context.Context, records []scrape.JobRecord) error {
	if p == nil || p.pool == nil {
		return fmt.Errorf("postgres sink is not configured")
	}
	// Listing-card records may carry no detail URL; NULLIF keeps them out of
	// the unique-url conflict check so distinct cards never shadow each other.
	query := fmt.Sprintf(`
INSERT INTO %s (
	url,
	source,
	title,
	company,
	company_logo,
	location,
	salary,
	experience,
	qualification,
	job_type,
	skills,
	industry,
	date_posted,
	valid_through,
	description_html,
	description_text,
	apply_link
) VALUES (
	NULLIF($1,''),$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17
) ON CONFLICT (url) DO NOTHING`, p.table)

	for _, record := range records {
		args := []any{
			record.URL,
			record.Source,
			record.Title,
			record.Company,
			record.CompanyLogo,
			record.Location,
			record.Salary,
			record.Experience,
			record.Qualification,
			record.JobType,
			record.Skills,
			record.Industry,
			record.DatePosted,
			record.ValidThrough,
			record.DescriptionHTML,
			record.DescriptionText,
			record.ApplyLink,
		}
		if _, err := p.pool.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert job record: %w", err)
		}
	}
	return nil
}

// Close releases the underlying pool resources.
func (p *Postgres) Close(context.Context) error {
	if p == nil || p.pool == nil {
		return nil
	}
	p.pool.Close()
	return nil
}
