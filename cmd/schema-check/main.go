// Command schema-check reports whether the users table carries the columns
// the profile features expect. It exits 1 when any column is missing.
package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/okian/teamhub/internal/adapters/postgres"
	"github.com/okian/teamhub/internal/config"
	"github.com/okian/teamhub/internal/schemacheck"
	"github.com/okian/teamhub/pkg/logger"
)

const checkTimeout = 30 * time.Second

func main() {
	var (
		dsn     = flag.String("database-url", "", "PostgreSQL connection URL (default: TEAMHUB_DATABASE_URL)")
		table   = flag.String("table", schemacheck.DefaultTable, "Table to inspect")
		columns = flag.String("columns", strings.Join(schemacheck.DefaultColumns, ","), "Comma separated expected columns")
	)
	flag.Parse()

	if err := logger.Init(logger.WithSource(false)); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	os.Exit(run(*dsn, *table, *columns))
}

func run(dsn, table, columns string) int {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()
	log := logger.Get()

	if dsn == "" {
		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, "failed to load config", logger.Error(err))
			return 1
		}
		dsn = cfg.DatabaseURL
	}

	db, err := postgres.Open(ctx, dsn)
	if err != nil {
		log.Error(ctx, "failed to connect", logger.Error(err))
		return 1
	}
	defer func() { _ = db.Close() }()

	report, err := schemacheck.New(db,
		schemacheck.WithTable(table),
		schemacheck.WithExpected(splitColumns(columns)...),
	).Check(ctx)
	if err != nil {
		log.Error(ctx, "schema check failed", logger.Error(err))
		return 1
	}
	_, _ = report.WriteTo(os.Stdout)

	if !report.OK() {
		log.Warn(ctx, "missing columns", logger.String("table", report.Table), logger.Any("missing", report.Missing))
		return 1
	}
	log.Info(ctx, "schema ok", logger.String("table", report.Table))
	return 0
}

func splitColumns(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
