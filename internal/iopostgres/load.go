package iopostgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/sp2tax/internal/iotaxdump"
	"github.com/gnames/sp2tax/pkg/schema"
	"github.com/gnames/sp2tax/pkg/taxonomy"
	"github.com/jackc/pgx/v5"
)

var (
	nodeColumns   = []string{"tax_id", "parent_id", "rank"}
	nameColumns   = []string{"tax_id", "name", "name_class"}
	mergedColumns = []string{"old_id", "new_id"}
)

// copier accumulates dump records and sends them to PostgreSQL in
// batches with CopyFrom.
type copier struct {
	ctx       context.Context
	tx        pgx.Tx
	batchSize int

	nodes  [][]any
	names  [][]any
	merged [][]any
	total  int
}

func (c *copier) Node(n taxonomy.Node) error {
	c.nodes = append(c.nodes, []any{int64(n.ID), int64(n.ParentID), n.Rank})
	if len(c.nodes) < c.batchSize {
		return nil
	}
	return c.flush(schema.Node{}.TableName(), nodeColumns, &c.nodes)
}

func (c *copier) Name(n taxonomy.Name) error {
	c.names = append(c.names, []any{int64(n.TaxID), n.Name, n.Class})
	if len(c.names) < c.batchSize {
		return nil
	}
	return c.flush(schema.Name{}.TableName(), nameColumns, &c.names)
}

func (c *copier) Merged(m taxonomy.Merged) error {
	c.merged = append(c.merged, []any{int64(m.OldID), int64(m.NewID)})
	if len(c.merged) < c.batchSize {
		return nil
	}
	return c.flush(schema.Merged{}.TableName(), mergedColumns, &c.merged)
}

// flushAll sends the remaining records.
func (c *copier) flushAll() error {
	err := c.flush(schema.Node{}.TableName(), nodeColumns, &c.nodes)
	if err != nil {
		return err
	}
	err = c.flush(schema.Name{}.TableName(), nameColumns, &c.names)
	if err != nil {
		return err
	}
	return c.flush(schema.Merged{}.TableName(), mergedColumns, &c.merged)
}

func (c *copier) flush(table string, columns []string, rows *[][]any) error {
	if len(*rows) == 0 {
		return nil
	}
	n, err := c.tx.CopyFrom(
		c.ctx,
		pgx.Identifier{table},
		columns,
		pgx.CopyFromRows(*rows),
	)
	if err != nil {
		return LoadError(table, err)
	}
	c.total += int(n)
	*rows = (*rows)[:0]

	fmt.Fprintf(os.Stderr, "\r%s", strings.Repeat(" ", 50))
	fmt.Fprintf(os.Stderr, "\rCopied %s records",
		humanize.Comma(int64(c.total)))
	return nil
}

// load replaces the content of taxonomy tables with records from dump
// files in dir. It runs in one transaction, so a failed load keeps the
// previous data.
func (p *postgres) load(ctx context.Context, dir string) error {
	slog.Info("Loading taxonomy dump into PostgreSQL",
		"dir", dir,
		"database", p.cfg.Database.Database,
	)

	if err := p.schema.Create(ctx); err != nil {
		return err
	}

	tx, err := p.operator.Pool().Begin(ctx)
	if err != nil {
		return LoadError("nodes", err)
	}
	defer tx.Rollback(ctx)

	var tables []string
	for _, v := range schema.TableNames() {
		tables = append(tables, pgx.Identifier{v}.Sanitize())
	}
	q := "TRUNCATE TABLE " + strings.Join(tables, ", ")
	if _, err = tx.Exec(ctx, q); err != nil {
		return LoadError(strings.Join(schema.TableNames(), ", "), err)
	}

	c := copier{ctx: ctx, tx: tx, batchSize: p.cfg.Database.BatchSize}
	if c.batchSize <= 0 {
		c.batchSize = 50_000
	}

	err = iotaxdump.ReadDir(dir, &c)
	if err == nil {
		err = c.flushAll()
	}
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", 50))
	if err != nil {
		var gnErr *gn.Error
		if errors.As(err, &gnErr) {
			return err
		}
		return LoadError(dir, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return LoadError(dir, err)
	}

	if err = p.vacuumAnalyze(ctx); err != nil {
		return err
	}

	gn.Info("Loaded <em>%s</em> taxonomy records",
		humanize.Comma(int64(c.total)))
	return nil
}
