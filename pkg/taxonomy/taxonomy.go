// Package taxonomy contains the data model of NCBI taxonomy lineages and
// the projection of a lineage onto a fixed list of ranks.
// This is a pure package - no I/O.
package taxonomy

import (
	"strings"
)

// Sentinel is written instead of a name when a rank is absent from
// a lineage.
const Sentinel = "Nan"

// DefaultRanks are the ranks extracted when the user does not
// provide a list.
var DefaultRanks = []string{
	"kingdom",
	"phylum",
	"superclass",
	"class",
	"subclass",
	"order",
	"infraorder",
	"superfamily",
	"family",
	"genus",
	"species",
}

// TaxID is NCBI taxonomy identifier.
type TaxID int

// Node is a record of nodes.dmp file.
type Node struct {
	ID       TaxID
	ParentID TaxID
	Rank     string
}

// Name is a record of names.dmp file.
type Name struct {
	TaxID TaxID
	Name  string
	// Class is the name class, for example 'scientific name', 'synonym'
	// or 'genbank common name'.
	Class string
}

// ScientificClass is the name class of the valid name of a taxon.
const ScientificClass = "scientific name"

// Merged is a record of merged.dmp file. It maps a retired
// identifier to the identifier that replaced it.
type Merged struct {
	OldID TaxID
	NewID TaxID
}

// Row is a lineage projected onto a list of ranks.
type Row struct {
	// Input is the species name as it was given by the user.
	Input string
	// TaxID is the identifier the Input was resolved to.
	TaxID TaxID
	// Names are the names of ancestors aligned with the ranks list,
	// Sentinel stands for a missing rank. Nil Names denote a row without
	// a lineage.
	Names []string
}

// IsNull returns true if the row has no lineage data.
func (r Row) IsNull() bool {
	return r.Names == nil
}

// ParseRanks converts comma-separated ranks into a slice.
// Duplicates, unknown and empty ranks are preserved, so the number of
// output columns always equals the number of comma-separated fields.
func ParseRanks(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	res := strings.Split(s, ",")
	for i := range res {
		res[i] = strings.TrimSpace(res[i])
	}
	return res
}
