// Package ioconvert runs the species-to-taxonomy pipeline: it reads
// species names, resolves them with a Resolver and writes the table of
// lineages.
package ioconvert

import (
	"context"
	"log/slog"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/sp2tax/internal/iofs"
	"github.com/gnames/sp2tax/internal/iooutput"
	"github.com/gnames/sp2tax/internal/iospecies"
	"github.com/gnames/sp2tax/pkg/config"
	"github.com/gnames/sp2tax/pkg/normalizer"
	"github.com/gnames/sp2tax/pkg/sp2tax"
	"github.com/gnames/sp2tax/pkg/taxonomy"
)

const (
	reasonNotFound  = "name not found"
	reasonNoLineage = "no lineage"
)

type converter struct {
	cfg      *config.Config
	resolver sp2tax.Resolver
}

// New creates a Converter. The resolver must be ready for lookups,
// refreshing it is the responsibility of the caller.
func New(cfg *config.Config, r sp2tax.Resolver) sp2tax.Converter {
	return &converter{cfg: cfg, resolver: r}
}

// Convert reads species names, resolves them and writes rows in the
// order of the first occurrence of each name in the input. Identifiers
// of one name are written in ascending order.
func (c *converter) Convert(ctx context.Context) (*sp2tax.Summary, error) {
	start := time.Now()

	names, err := iospecies.Read(c.cfg.InputFile)
	if err != nil {
		return nil, err
	}
	names = iospecies.Unique(names)

	queries := c.queries(names)

	ids, err := c.resolver.Translate(ctx, uniqueValues(names, queries))
	if err != nil {
		return nil, err
	}

	rows, failures, err := c.project(ctx, names, queries, ids)
	if err != nil {
		return nil, err
	}

	if err = c.handleFailures(failures); err != nil {
		return nil, err
	}

	rows = taxonomy.Compact(rows)
	format, _ := gnfmt.NewFormat(c.cfg.Format)
	err = iooutput.WriteTable(c.cfg.OutputFile, format, c.cfg.Ranks, rows)
	if err != nil {
		return nil, err
	}

	res := sp2tax.Summary{
		NamesNum:  len(names),
		RowsNum:   len(rows),
		FailedNum: len(failures),
	}
	slog.Info("Conversion is complete",
		"names", res.NamesNum,
		"rows", res.RowsNum,
		"failed", res.FailedNum,
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return &res, nil
}

// queries maps input names to the strings sent to the resolver. With
// normalization it is the canonical form, otherwise the name itself.
func (c *converter) queries(names []string) map[string]string {
	res := make(map[string]string, len(names))
	if !c.cfg.WithNormalize {
		for _, v := range names {
			res[v] = v
		}
		return res
	}

	code := normalizer.CodeFromString(c.cfg.NomCode)
	norm := normalizer.New(code, c.cfg.JobsNumber)
	defer norm.Close()

	canonicals := norm.Canonicals(names)
	for i, v := range names {
		res[v] = canonicals[i]
		if v != canonicals[i] {
			slog.Debug("Normalized name", "input", v, "canonical", canonicals[i])
		}
	}
	return res
}

// project resolves lineages of all identifiers and projects them to
// the configured ranks.
func (c *converter) project(
	ctx context.Context,
	names []string,
	queries map[string]string,
	ids map[string][]taxonomy.TaxID,
) ([]taxonomy.Row, []sp2tax.Failure, error) {
	type job struct {
		input   string
		id      taxonomy.TaxID
		lineage []taxonomy.TaxID
	}

	var jobs []job
	var failures []sp2tax.Failure
	var nodes []taxonomy.TaxID
	seen := make(map[taxonomy.TaxID]struct{})

	for _, name := range names {
		nameIDs := ids[queries[name]]
		if len(nameIDs) == 0 {
			failures = append(failures, sp2tax.Failure{
				Input:  name,
				Reason: reasonNotFound,
			})
			continue
		}

		for _, id := range nameIDs {
			lin, err := c.resolver.Lineage(ctx, id)
			if err != nil {
				return nil, nil, err
			}
			jobs = append(jobs, job{input: name, id: id, lineage: lin})
			for _, v := range lin {
				if _, ok := seen[v]; ok {
					continue
				}
				seen[v] = struct{}{}
				nodes = append(nodes, v)
			}
		}
	}

	ranks, err := c.resolver.RankOf(ctx, nodes)
	if err != nil {
		return nil, nil, err
	}
	sciNames, err := c.resolver.NameOf(ctx, nodes)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]taxonomy.Row, 0, len(jobs))
	for _, v := range jobs {
		row := taxonomy.Project(v.input, v.id, v.lineage, ranks, sciNames,
			c.cfg.Ranks)
		if row.IsNull() {
			failures = append(failures, sp2tax.Failure{
				Input:  v.input,
				TaxID:  v.id,
				Reason: reasonNoLineage,
			})
		}
		rows = append(rows, row)
	}
	return rows, failures, nil
}

// handleFailures aborts the run on failures, unless they are allowed.
// Allowed failures are saved to the fail file.
func (c *converter) handleFailures(failures []sp2tax.Failure) error {
	if len(failures) == 0 {
		if c.cfg.SkipFailed {
			return iofs.RemoveIfExists(c.cfg.FailFile)
		}
		return nil
	}

	if !c.cfg.SkipFailed {
		return UnresolvedNamesError(failures)
	}

	for _, v := range failures {
		slog.Warn("Name is skipped",
			"input", v.Input, "taxon", int(v.TaxID), "reason", v.Reason)
	}
	if err := iooutput.WriteFailures(c.cfg.FailFile, failures); err != nil {
		return err
	}
	gn.Warn("Skipped <em>%d</em> name(s), see <em>%s</em>",
		len(failures), c.cfg.FailFile)
	return nil
}

// uniqueValues returns query strings in the order of names without
// repeats.
func uniqueValues(names []string, queries map[string]string) []string {
	res := make([]string, len(names))
	for i, v := range names {
		res[i] = queries[v]
	}
	return iospecies.Unique(res)
}
