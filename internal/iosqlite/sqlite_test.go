package iosqlite_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/sp2tax/internal/iosqlite"
	"github.com/gnames/sp2tax/internal/iotaxdump"
	"github.com/gnames/sp2tax/internal/iotesting"
	"github.com/gnames/sp2tax/pkg/errcode"
	"github.com/gnames/sp2tax/pkg/sp2tax"
	"github.com/gnames/sp2tax/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadedDB creates a database populated through Refresh from a local
// archive built out of the fixture files.
func loadedDB(t *testing.T) (sp2tax.Resolver, iotaxdump.Source) {
	t.Helper()
	dir := t.TempDir()
	src := iotaxdump.Source{
		URL:     iotesting.MakeArchive(t, iotesting.DumpFiles...),
		Archive: filepath.Join(dir, "taxdump.tar.gz"),
		DumpDir: filepath.Join(dir, "taxdump"),
	}
	r, err := iosqlite.Open(filepath.Join(dir, "cache", "taxonomy.sqlite"), src)
	require.Nil(t, err)
	t.Cleanup(func() { r.Close() })

	err = r.Refresh(context.Background())
	require.Nil(t, err)
	return r, src
}

func TestOpenEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "taxonomy.sqlite")
	r, err := iosqlite.Open(path, iotaxdump.Source{})
	require.Nil(t, err)
	defer r.Close()

	ok, err := r.HasData(ctx)
	require.Nil(t, err)
	assert.False(t, ok)

	res, err := r.Translate(ctx, []string{"Homo sapiens"})
	require.Nil(t, err)
	assert.Empty(t, res)

	lin, err := r.Lineage(ctx, 9606)
	require.Nil(t, err)
	assert.Empty(t, lin)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	r, src := loadedDB(t)

	ok, err := r.HasData(ctx)
	require.Nil(t, err)
	assert.True(t, ok)
	assert.NoFileExists(t, src.Archive)
	assert.False(t, iotaxdump.HasDump(src.DumpDir))

	// second refresh replaces data instead of duplicating it
	require.Nil(t, r.Refresh(ctx))

	res, err := r.Translate(ctx, []string{"Homo sapiens"})
	require.Nil(t, err)
	assert.Equal(t, []taxonomy.TaxID{9606}, res["Homo sapiens"])

	names, err := r.NameOf(ctx, []taxonomy.TaxID{9606})
	require.Nil(t, err)
	assert.Equal(t, map[taxonomy.TaxID]string{9606: "Homo sapiens"}, names)
}

func TestRefreshBadArchive(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.tar.gz")
	require.Nil(t, os.WriteFile(bad, []byte("oops"), 0644))

	src := iotaxdump.Source{
		URL:     bad,
		Archive: filepath.Join(dir, "taxdump.tar.gz"),
		DumpDir: filepath.Join(dir, "taxdump"),
	}
	r, err := iosqlite.Open(filepath.Join(dir, "taxonomy.sqlite"), src)
	require.Nil(t, err)
	defer r.Close()

	err = r.Refresh(context.Background())
	require.NotNil(t, err)
	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.TaxdumpExtractError, gnErr.Code)
	assert.FileExists(t, src.Archive)
}

func TestTranslate(t *testing.T) {
	ctx := context.Background()
	r, _ := loadedDB(t)

	res, err := r.Translate(ctx, []string{
		"Homo sapiens", "Morus", "human", "mulberry", "Sula bassana",
		"Unicornus magicus",
	})
	require.Nil(t, err)
	assert.Equal(t, map[string][]taxonomy.TaxID{
		"Homo sapiens": {9606},
		"Morus":        {3497, 37577},
		"human":        {9606},
		"mulberry":     {3497, 3498},
		"Sula bassana": {37578},
	}, res)
}

func TestLineage(t *testing.T) {
	ctx := context.Background()
	r, _ := loadedDB(t)

	res, err := r.Lineage(ctx, 37578)
	require.Nil(t, err)
	assert.Equal(t, []taxonomy.TaxID{
		1, 131567, 2759, 33154, 33208, 6072, 33213, 33511, 7711, 89593,
		7742, 7776, 117570, 117571, 8287, 1338369, 32523, 32524, 8457, 8782,
		1545744, 30446, 37577, 37578,
	}, res)

	merged, err := r.Lineage(ctx, 1000002)
	require.Nil(t, err)
	require.NotEmpty(t, merged)
	assert.Equal(t, taxonomy.TaxID(3498), merged[len(merged)-1])

	root, err := r.Lineage(ctx, 1)
	require.Nil(t, err)
	assert.Equal(t, []taxonomy.TaxID{1}, root)

	none, err := r.Lineage(ctx, 424242)
	require.Nil(t, err)
	assert.Empty(t, none)
}

func TestRankOfNameOf(t *testing.T) {
	ctx := context.Background()
	r, _ := loadedDB(t)

	ids := []taxonomy.TaxID{9606, 3497, 37577, 424242}
	ranks, err := r.RankOf(ctx, ids)
	require.Nil(t, err)
	assert.Equal(t, map[taxonomy.TaxID]string{
		9606: "species", 3497: "genus", 37577: "genus",
	}, ranks)

	names, err := r.NameOf(ctx, ids)
	require.Nil(t, err)
	assert.Equal(t, map[taxonomy.TaxID]string{
		9606: "Homo sapiens", 3497: "Morus", 37577: "Morus",
	}, names)
}

func TestManyIDs(t *testing.T) {
	ctx := context.Background()
	r, _ := loadedDB(t)

	// more than one IN (...) batch
	ids := make([]taxonomy.TaxID, 0, 1200)
	for i := range 1200 {
		ids = append(ids, taxonomy.TaxID(i+9000))
	}
	names, err := r.NameOf(ctx, ids)
	require.Nil(t, err)
	assert.Equal(t, map[taxonomy.TaxID]string{
		9347: "Eutheria", 9443: "Primates", 9526: "Catarrhini",
		9604: "Hominidae", 9605: "Homo", 9606: "Homo sapiens",
	}, names)
}
