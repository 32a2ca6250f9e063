// Package iopostgres implements the taxonomy backend on top of
// PostgreSQL. Connection and schema are handled by iodb and ioschema,
// the data is bulk loaded with CopyFrom.
package iopostgres

import (
	"context"
	"slices"

	"github.com/gnames/sp2tax/internal/iodb"
	"github.com/gnames/sp2tax/internal/ioschema"
	"github.com/gnames/sp2tax/internal/iotaxdump"
	"github.com/gnames/sp2tax/pkg/config"
	"github.com/gnames/sp2tax/pkg/db"
	"github.com/gnames/sp2tax/pkg/schema"
	"github.com/gnames/sp2tax/pkg/sp2tax"
	"github.com/gnames/sp2tax/pkg/taxonomy"
)

// maxDepth stops lineage traversal on corrupted data with cycles.
const maxDepth = 1000

type postgres struct {
	cfg      *config.Config
	src      iotaxdump.Source
	operator db.Operator
	schema   db.SchemaManager
}

// New connects to PostgreSQL using database settings from cfg and
// makes sure taxonomy tables exist.
func New(ctx context.Context, cfg *config.Config) (sp2tax.Resolver, error) {
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return nil, err
	}

	res := postgres{
		cfg:      cfg,
		src:      iotaxdump.NewSource(cfg),
		operator: op,
		schema:   ioschema.NewManager(op),
	}
	if err := res.schema.Create(ctx); err != nil {
		op.Close()
		return nil, err
	}
	return &res, nil
}

func (p *postgres) Translate(
	ctx context.Context,
	names []string,
) (map[string][]taxonomy.TaxID, error) {
	q := `
SELECT name, tax_id, name_class
  FROM names
  WHERE name = ANY($1)`
	rows, err := p.operator.Pool().Query(ctx, q, names)
	if err != nil {
		return nil, QueryError(err)
	}
	defer rows.Close()

	sci := make(map[string][]taxonomy.TaxID)
	other := make(map[string][]taxonomy.TaxID)
	for rows.Next() {
		var name, class string
		var id int64
		if err = rows.Scan(&name, &id, &class); err != nil {
			return nil, QueryError(err)
		}
		if class == taxonomy.ScientificClass {
			sci[name] = append(sci[name], taxonomy.TaxID(id))
			continue
		}
		other[name] = append(other[name], taxonomy.TaxID(id))
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError(err)
	}

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
	return res, nil
}

func (p *postgres) Lineage(
	ctx context.Context,
	id taxonomy.TaxID,
) ([]taxonomy.TaxID, error) {
	q := `
WITH RECURSIVE lin(id, parent, depth) AS (
  SELECT tax_id, parent_id, 0
    FROM nodes
    WHERE tax_id = COALESCE(
      (SELECT new_id FROM merged WHERE old_id = $1), $1
    )
  UNION ALL
  SELECT n.tax_id, n.parent_id, lin.depth + 1
    FROM nodes n
    JOIN lin ON n.tax_id = lin.parent
    WHERE lin.id <> lin.parent AND lin.depth < $2
)
SELECT id FROM lin ORDER BY depth`
	rows, err := p.operator.Pool().Query(ctx, q, int64(id), maxDepth)
	if err != nil {
		return nil, QueryError(err)
	}
	defer rows.Close()

	var res []taxonomy.TaxID
	seen := make(map[taxonomy.TaxID]struct{})
	for rows.Next() {
		var v int64
		if err = rows.Scan(&v); err != nil {
			return nil, QueryError(err)
		}
		tid := taxonomy.TaxID(v)
		if _, ok := seen[tid]; ok {
			break
		}
		seen[tid] = struct{}{}
		res = append(res, tid)
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError(err)
	}

	slices.Reverse(res)
	return res, nil
}

func (p *postgres) RankOf(
	ctx context.Context,
	ids []taxonomy.TaxID,
) (map[taxonomy.TaxID]string, error) {
	q := "SELECT tax_id, rank FROM nodes WHERE tax_id = ANY($1)"
	return p.idMap(ctx, q, ids)
}

func (p *postgres) NameOf(
	ctx context.Context,
	ids []taxonomy.TaxID,
) (map[taxonomy.TaxID]string, error) {
	q := `
SELECT tax_id, name
  FROM names
  WHERE name_class = 'scientific name' AND tax_id = ANY($1)`
	return p.idMap(ctx, q, ids)
}

func (p *postgres) idMap(
	ctx context.Context,
	q string,
	ids []taxonomy.TaxID,
) (map[taxonomy.TaxID]string, error) {
	res := make(map[taxonomy.TaxID]string, len(ids))
	args := make([]int64, len(ids))
	for i := range ids {
		args[i] = int64(ids[i])
	}

	rows, err := p.operator.Pool().Query(ctx, q, args)
	if err != nil {
		return nil, QueryError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var val string
		if err = rows.Scan(&id, &val); err != nil {
			return nil, QueryError(err)
		}
		res[taxonomy.TaxID(id)] = val
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError(err)
	}
	return res, nil
}

func (p *postgres) Refresh(ctx context.Context) error {
	return p.src.Refresh(ctx, p.load)
}

// HasData is true when taxonomy tables exist and nodes table is not
// empty.
func (p *postgres) HasData(ctx context.Context) (bool, error) {
	ok, err := p.operator.TableExists(ctx, schema.Node{}.TableName())
	if err != nil || !ok {
		return false, err
	}

	var res bool
	err = p.operator.Pool().QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM nodes)",
	).Scan(&res)
	if err != nil {
		return false, QueryError(err)
	}
	return res, nil
}

func (p *postgres) Close() error {
	return p.operator.Close()
}
