// Package sp2tax defines the contracts of the species-to-taxonomy
// pipeline. Implementations live in internal/io* packages.
package sp2tax

import (
	"context"

	"github.com/gnames/sp2tax/pkg/taxonomy"
)

// Resolver translates species names to NCBI taxonomy identifiers and
// identifiers to lineages. It is implemented by sqlite, postgres and
// in-memory backends.
type Resolver interface {
	// Translate maps every name to identifiers that carry this name.
	// Scientific names are matched first, other name classes
	// (synonyms, common names) are used only if there is no scientific
	// match. Names without a match are absent from the result.
	// Identifiers of a name are sorted in ascending order.
	Translate(ctx context.Context, names []string) (map[string][]taxonomy.TaxID, error)

	// Lineage returns identifiers from the root to id, including id.
	// A merged identifier is replaced by its current one. Unknown
	// identifiers return an empty lineage.
	Lineage(ctx context.Context, id taxonomy.TaxID) ([]taxonomy.TaxID, error)

	// RankOf returns the rank of every known identifier.
	RankOf(ctx context.Context, ids []taxonomy.TaxID) (map[taxonomy.TaxID]string, error)

	// NameOf returns the scientific name of every known identifier.
	NameOf(ctx context.Context, ids []taxonomy.TaxID) (map[taxonomy.TaxID]string, error)

	// Refresh downloads NCBI taxdump archive and reloads the backend.
	// The downloaded archive is removed after a successful load.
	Refresh(ctx context.Context) error

	// HasData returns true if the backend was loaded with taxonomy data.
	HasData(ctx context.Context) (bool, error)

	// Close releases resources held by the backend.
	Close() error
}

// Converter runs the species-to-taxonomy pipeline.
type Converter interface {
	// Convert reads species names, resolves them and writes the
	// taxonomy table.
	Convert(ctx context.Context) (*Summary, error)
}

// Summary contains statistics of a conversion run.
type Summary struct {
	// NamesNum is the number of unique names in the input.
	NamesNum int
	// RowsNum is the number of rows written to the output.
	RowsNum int
	// FailedNum is the number of names or identifiers that could not
	// be converted.
	FailedNum int
}

// Failure describes an input that did not produce a row.
type Failure struct {
	// Input is the species name from the input file.
	Input string
	// TaxID is set when the name was resolved but the identifier had
	// no lineage.
	TaxID taxonomy.TaxID
	// Reason is a short human-readable explanation.
	Reason string
}
