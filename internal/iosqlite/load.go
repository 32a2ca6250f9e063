package iosqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/sp2tax/internal/iotaxdump"
	"github.com/gnames/sp2tax/pkg/taxonomy"
)

// loader inserts dump records within one transaction.
type loader struct {
	ctx    context.Context
	nodes  *sql.Stmt
	names  *sql.Stmt
	merged *sql.Stmt
	count  int
}

func (l *loader) Node(n taxonomy.Node) error {
	_, err := l.nodes.ExecContext(l.ctx,
		int64(n.ID), int64(n.ParentID), n.Rank)
	return l.done(err)
}

func (l *loader) Name(n taxonomy.Name) error {
	_, err := l.names.ExecContext(l.ctx, int64(n.TaxID), n.Name, n.Class)
	return l.done(err)
}

func (l *loader) Merged(m taxonomy.Merged) error {
	_, err := l.merged.ExecContext(l.ctx, int64(m.OldID), int64(m.NewID))
	return l.done(err)
}

func (l *loader) done(err error) error {
	if err != nil {
		return err
	}
	l.count++
	if l.count%1_000_000 == 0 {
		fmt.Fprintf(os.Stderr, "\r%s", strings.Repeat(" ", 50))
		fmt.Fprintf(os.Stderr, "\rInserted %s records",
			humanize.Comma(int64(l.count)))
	}
	return nil
}

// load replaces the content of the database with records from the
// dump files in dir.
func (s *sqlite) load(ctx context.Context, dir string) error {
	slog.Info("Loading taxonomy dump into sqlite", "dir", dir, "db", s.path)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoadError(dir, err)
	}
	defer tx.Rollback()

	for _, v := range []string{"nodes", "names", "merged"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+v); err != nil {
			return LoadError(dir, err)
		}
	}

	l := loader{ctx: ctx}
	stmts := []struct {
		stmt **sql.Stmt
		q    string
	}{
		{&l.nodes,
			"INSERT OR REPLACE INTO nodes (tax_id, parent_id, rank) VALUES (?, ?, ?)"},
		{&l.names,
			"INSERT INTO names (tax_id, name, name_class) VALUES (?, ?, ?)"},
		{&l.merged,
			"INSERT OR REPLACE INTO merged (old_id, new_id) VALUES (?, ?)"},
	}
	for _, v := range stmts {
		*v.stmt, err = tx.PrepareContext(ctx, v.q)
		if err != nil {
			return LoadError(dir, err)
		}
		defer (*v.stmt).Close()
	}

	if err = iotaxdump.ReadDir(dir, &l); err != nil {
		var gnErr *gn.Error
		if errors.As(err, &gnErr) {
			return err
		}
		return LoadError(dir, err)
	}

	if _, err = tx.ExecContext(ctx, indicesSQL); err != nil {
		return LoadError(dir, err)
	}

	if err = tx.Commit(); err != nil {
		return LoadError(dir, err)
	}

	if l.count >= 1_000_000 {
		fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", 50))
	}
	gn.Info("Loaded <em>%s</em> taxonomy records",
		humanize.Comma(int64(l.count)))
	return nil
}
