package iopostgres

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gnames/sp2tax/pkg/schema"
	"github.com/jackc/pgx/v5"
)

// vacuumAnalyze reclaims space left by truncated rows and updates
// planner statistics of taxonomy tables. It cannot run inside a
// transaction.
func (p *postgres) vacuumAnalyze(ctx context.Context) error {
	slog.Info("Running VACUUM ANALYZE on taxonomy tables")
	timeStart := time.Now()

	var tables []string
	for _, v := range schema.TableNames() {
		tables = append(tables, pgx.Identifier{v}.Sanitize())
	}
	q := "VACUUM ANALYZE " + strings.Join(tables, ", ")
	if _, err := p.operator.Pool().Exec(ctx, q); err != nil {
		return LoadError(strings.Join(schema.TableNames(), ", "), err)
	}

	slog.Info("VACUUM ANALYZE completed",
		"duration", time.Since(timeStart).String())
	return nil
}
