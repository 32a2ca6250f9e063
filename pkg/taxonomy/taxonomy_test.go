package taxonomy_test

import (
	"testing"

	"github.com/gnames/sp2tax/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
)

// lineage of Homo sapiens, shortened
var (
	humanLineage = []taxonomy.TaxID{1, 2759, 33208, 7711, 8287, 40674, 9443, 314293, 314295, 9604, 9605, 9606}
	humanRanks   = map[taxonomy.TaxID]string{
		1:      "no rank",
		2759:   "superkingdom",
		33208:  "kingdom",
		7711:   "phylum",
		8287:   "superclass",
		40674:  "class",
		9443:   "order",
		314293: "infraorder",
		314295: "superfamily",
		9604:   "family",
		9605:   "genus",
		9606:   "species",
	}
	humanNames = map[taxonomy.TaxID]string{
		1:      "root",
		2759:   "Eukaryota",
		33208:  "Metazoa",
		7711:   "Chordata",
		8287:   "Sarcopterygii",
		40674:  "Mammalia",
		9443:   "Primates",
		314293: "Simiiformes",
		314295: "Hominoidea",
		9604:   "Hominidae",
		9605:   "Homo",
		9606:   "Homo sapiens",
	}
)

func TestProject(t *testing.T) {
	tests := []struct {
		msg   string
		ranks []string
		res   []string
	}{
		{
			msg:   "default ranks",
			ranks: taxonomy.DefaultRanks,
			res: []string{
				"Metazoa", "Chordata", "Sarcopterygii", "Mammalia", "Nan",
				"Primates", "Simiiformes", "Hominoidea", "Hominidae", "Homo",
				"Homo sapiens",
			},
		},
		{
			msg:   "two ranks",
			ranks: []string{"kingdom", "species"},
			res:   []string{"Metazoa", "Homo sapiens"},
		},
		{
			msg:   "order follows rank list",
			ranks: []string{"species", "kingdom"},
			res:   []string{"Homo sapiens", "Metazoa"},
		},
		{
			msg:   "duplicates and unknown ranks",
			ranks: []string{"genus", "bogus", "genus", ""},
			res:   []string{"Homo", "Nan", "Homo", "Nan"},
		},
		{
			msg:   "empty rank list",
			ranks: []string{},
			res:   []string{},
		},
	}

	for _, v := range tests {
		row := taxonomy.Project(
			"Homo sapiens", 9606, humanLineage, humanRanks, humanNames, v.ranks,
		)
		assert.Equal(t, "Homo sapiens", row.Input, v.msg)
		assert.Equal(t, taxonomy.TaxID(9606), row.TaxID, v.msg)
		assert.False(t, row.IsNull(), v.msg)
		assert.Len(t, row.Names, len(v.ranks), v.msg)
		assert.Equal(t, v.res, row.Names, v.msg)
	}
}

func TestProjectMissingData(t *testing.T) {
	t.Run("empty lineage gives null row", func(t *testing.T) {
		row := taxonomy.Project("Nothing", 42, nil, humanRanks, humanNames,
			taxonomy.DefaultRanks)
		assert.True(t, row.IsNull())
		assert.Equal(t, taxonomy.TaxID(42), row.TaxID)
	})

	t.Run("node without name gives sentinel", func(t *testing.T) {
		names := map[taxonomy.TaxID]string{9606: "Homo sapiens", 9605: ""}
		row := taxonomy.Project("Homo sapiens", 9606, humanLineage, humanRanks,
			names, []string{"kingdom", "genus", "species"})
		assert.Equal(t, []string{"Nan", "Nan", "Homo sapiens"}, row.Names)
	})

	t.Run("node without rank is skipped", func(t *testing.T) {
		ranks := map[taxonomy.TaxID]string{9606: "species"}
		row := taxonomy.Project("Homo sapiens", 9606, humanLineage, ranks,
			humanNames, []string{"genus", "species"})
		assert.Equal(t, []string{"Nan", "Homo sapiens"}, row.Names)
	})

	t.Run("repeated rank takes node closer to leaf", func(t *testing.T) {
		lineage := []taxonomy.TaxID{1, 10, 11}
		ranks := map[taxonomy.TaxID]string{1: "no rank", 10: "clade", 11: "clade"}
		names := map[taxonomy.TaxID]string{1: "root", 10: "Outer", 11: "Inner"}
		row := taxonomy.Project("Inner", 11, lineage, ranks, names,
			[]string{"clade"})
		assert.Equal(t, []string{"Inner"}, row.Names)
	})
}

func TestCompact(t *testing.T) {
	rows := []taxonomy.Row{
		{Input: "a", TaxID: 1, Names: []string{"x"}},
		{Input: "b", TaxID: 2},
		{Input: "c", TaxID: 3, Names: []string{"Nan"}},
	}
	res := taxonomy.Compact(rows)
	assert.Len(t, res, 2)
	assert.Equal(t, "a", res[0].Input)
	assert.Equal(t, "c", res[1].Input)
}

func TestParseRanks(t *testing.T) {
	tests := []struct {
		msg string
		inp string
		res []string
	}{
		{"two ranks", "kingdom,species", []string{"kingdom", "species"}},
		{"spaces", " kingdom , species ", []string{"kingdom", "species"}},
		{"empty field", "kingdom,,species", []string{"kingdom", "", "species"}},
		{"duplicates", "genus,genus", []string{"genus", "genus"}},
		{"empty string", "", nil},
		{"blank string", "  ", nil},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, taxonomy.ParseRanks(v.inp), v.msg)
	}
}
