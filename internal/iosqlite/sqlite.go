// Package iosqlite implements the default taxonomy backend on top of
// a local SQLite file.
package iosqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gnames/gnsys"
	"github.com/gnames/sp2tax/internal/iotaxdump"
	"github.com/gnames/sp2tax/pkg/config"
	"github.com/gnames/sp2tax/pkg/sp2tax"
	"github.com/gnames/sp2tax/pkg/taxonomy"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

//go:embed indices.sql
var indicesSQL string

// batchSize limits the number of parameters in IN (...) lists.
const batchSize = 500

// maxDepth stops lineage traversal on corrupted data with cycles.
const maxDepth int64 = 1000

type sqlite struct {
	path string
	src  iotaxdump.Source
	db   *sql.DB
}

// New opens (or creates) the sqlite backend at the default cache
// location.
func New(cfg *config.Config) (sp2tax.Resolver, error) {
	return Open(config.SQLitePath(cfg.HomeDir), iotaxdump.NewSource(cfg))
}

// Open opens (or creates) the sqlite backend at path. The src is used
// by Refresh.
func Open(path string, src iotaxdump.Source) (sp2tax.Resolver, error) {
	err := gnsys.MakeDir(filepath.Dir(path))
	if err != nil {
		return nil, OpenError(path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, OpenError(path, err)
	}
	// sqlite allows only one writer.
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, OpenError(path, err)
	}

	return &sqlite{path: path, src: src, db: db}, nil
}

func (s *sqlite) Translate(
	ctx context.Context,
	names []string,
) (map[string][]taxonomy.TaxID, error) {
	sci := make(map[string][]taxonomy.TaxID)
	other := make(map[string][]taxonomy.TaxID)

	for _, batch := range batches(names) {
		q := `
SELECT name, tax_id, name_class
  FROM names
  WHERE name IN (` + placeholders(len(batch)) + `)`
		rows, err := s.db.QueryContext(ctx, q, nameArgs(batch)...)
		if err != nil {
			return nil, QueryError(err)
		}
		for rows.Next() {
			var name, class string
			var id taxonomy.TaxID
			if err = rows.Scan(&name, &id, &class); err != nil {
				rows.Close()
				return nil, QueryError(err)
			}
			if class == taxonomy.ScientificClass {
				sci[name] = append(sci[name], id)
				continue
			}
			other[name] = append(other[name], id)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, QueryError(err)
		}
	}

	return chooseIDs(names, sci, other), nil
}

func (s *sqlite) Lineage(
	ctx context.Context,
	id taxonomy.TaxID,
) ([]taxonomy.TaxID, error) {
	var newID taxonomy.TaxID
	err := s.db.QueryRowContext(ctx,
		"SELECT new_id FROM merged WHERE old_id = ?", int64(id),
	).Scan(&newID)
	switch {
	case err == nil:
		id = newID
	case !errors.Is(err, sql.ErrNoRows):
		return nil, QueryError(err)
	}

	q := `
WITH RECURSIVE lin(id, parent, depth) AS (
  SELECT tax_id, parent_id, 0 FROM nodes WHERE tax_id = ?
  UNION ALL
  SELECT n.tax_id, n.parent_id, lin.depth + 1
    FROM nodes n
    JOIN lin ON n.tax_id = lin.parent
    WHERE lin.id <> lin.parent AND lin.depth < ?
)
SELECT id FROM lin ORDER BY depth`
	rows, err := s.db.QueryContext(ctx, q, int64(id), maxDepth)
	if err != nil {
		return nil, QueryError(err)
	}
	defer rows.Close()

	var res []taxonomy.TaxID
	seen := make(map[taxonomy.TaxID]struct{})
	for rows.Next() {
		var v taxonomy.TaxID
		if err = rows.Scan(&v); err != nil {
			return nil, QueryError(err)
		}
		if _, ok := seen[v]; ok {
			break
		}
		seen[v] = struct{}{}
		res = append(res, v)
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError(err)
	}

	slices.Reverse(res)
	return res, nil
}

func (s *sqlite) RankOf(
	ctx context.Context,
	ids []taxonomy.TaxID,
) (map[taxonomy.TaxID]string, error) {
	q := "SELECT tax_id, rank FROM nodes WHERE tax_id IN (%s)"
	return s.idMap(ctx, q, ids)
}

func (s *sqlite) NameOf(
	ctx context.Context,
	ids []taxonomy.TaxID,
) (map[taxonomy.TaxID]string, error) {
	q := `
SELECT tax_id, name
  FROM names
  WHERE name_class = 'scientific name' AND tax_id IN (%s)`
	return s.idMap(ctx, q, ids)
}

// idMap runs a query that returns (tax_id, value) pairs for ids. The
// query must contain a single %s for the list of placeholders.
func (s *sqlite) idMap(
	ctx context.Context,
	query string,
	ids []taxonomy.TaxID,
) (map[taxonomy.TaxID]string, error) {
	res := make(map[taxonomy.TaxID]string, len(ids))
	for _, batch := range batches(ids) {
		q := strings.Replace(query, "%s", placeholders(len(batch)), 1)
		rows, err := s.db.QueryContext(ctx, q, idArgs(batch)...)
		if err != nil {
			return nil, QueryError(err)
		}
		for rows.Next() {
			var id taxonomy.TaxID
			var val string
			if err = rows.Scan(&id, &val); err != nil {
				rows.Close()
				return nil, QueryError(err)
			}
			res[id] = val
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, QueryError(err)
		}
	}
	return res, nil
}

func (s *sqlite) Refresh(ctx context.Context) error {
	return s.src.Refresh(ctx, s.load)
}

func (s *sqlite) HasData(ctx context.Context) (bool, error) {
	var res bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM nodes)",
	).Scan(&res)
	if err != nil {
		return false, QueryError(err)
	}
	return res, nil
}

func (s *sqlite) Close() error {
	return s.db.Close()
}

// chooseIDs picks scientific matches when they exist, other name
// classes otherwise. Identifiers are sorted and unique.
func chooseIDs(
	names []string,
	sci, other map[string][]taxonomy.TaxID,
) map[string][]taxonomy.TaxID {
	res := make(map[string][]taxonomy.TaxID)
	for _, v := range names {
		ids := sci[v]
		if len(ids) == 0 {
			ids = other[v]
		}
		if len(ids) == 0 {
			continue
		}
		slices.Sort(ids)
		res[v] = slices.Compact(ids)
	}
	return res
}

func batches[T any](s []T) [][]T {
	var res [][]T
	for len(s) > batchSize {
		res = append(res, s[:batchSize])
		s = s[batchSize:]
	}
	if len(s) > 0 {
		res = append(res, s)
	}
	return res
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func nameArgs(names []string) []any {
	res := make([]any, len(names))
	for i := range names {
		res[i] = names[i]
	}
	return res
}

func idArgs(ids []taxonomy.TaxID) []any {
	res := make([]any, len(ids))
	for i := range ids {
		res[i] = int64(ids[i])
	}
	return res
}
