package iotaxdump_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/sp2tax/internal/iotaxdump"
	"github.com/gnames/sp2tax/internal/iotesting"
	"github.com/gnames/sp2tax/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeArchive(t *testing.T, files ...string) string {
	return iotesting.MakeArchive(t, files...)
}

func fullArchive(t *testing.T) string {
	return iotesting.MakeArchive(t, iotesting.DumpFiles...)
}

func TestExtract(t *testing.T) {
	archive := fullArchive(t)
	dir := filepath.Join(t.TempDir(), "taxdump")

	// stale files are removed
	require.Nil(t, os.MkdirAll(dir, 0755))
	stale := filepath.Join(dir, "stale.dmp")
	require.Nil(t, os.WriteFile(stale, []byte("x"), 0644))

	err := iotaxdump.Extract(archive, dir)
	require.Nil(t, err)
	assert.True(t, iotaxdump.HasDump(dir))
	assert.NoFileExists(t, stale)
	assert.NoFileExists(t, filepath.Join(dir, "readme.txt"))

	exp, err := os.ReadFile(filepath.Join(dumpDir, iotaxdump.NodesFile))
	require.Nil(t, err)
	res, err := os.ReadFile(filepath.Join(dir, iotaxdump.NodesFile))
	require.Nil(t, err)
	assert.Equal(t, exp, res)
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		msg     string
		archive func(t *testing.T) string
	}{
		{"no archive", func(t *testing.T) string {
			return filepath.Join(t.TempDir(), "none.tar.gz")
		}},
		{"not gzip", func(t *testing.T) string {
			path := filepath.Join(t.TempDir(), "bad.tar.gz")
			require.Nil(t, os.WriteFile(path, []byte("not an archive"), 0644))
			return path
		}},
		{"no names file", func(t *testing.T) string {
			return makeArchive(t, iotaxdump.NodesFile)
		}},
	}

	for _, v := range tests {
		dir := filepath.Join(t.TempDir(), "taxdump")
		err := iotaxdump.Extract(v.archive(t), dir)
		require.NotNil(t, err, v.msg)

		var gnErr *gn.Error
		require.True(t, errors.As(err, &gnErr), v.msg)
		assert.Equal(t, errcode.TaxdumpExtractError, gnErr.Code, v.msg)
	}
}

func TestExtractWithoutMerged(t *testing.T) {
	archive := makeArchive(t, iotaxdump.NodesFile, iotaxdump.NamesFile)
	dir := t.TempDir()
	err := iotaxdump.Extract(archive, dir)
	require.Nil(t, err)
	assert.True(t, iotaxdump.HasDump(dir))
	assert.NoFileExists(t, filepath.Join(dir, iotaxdump.MergedFile))
}

func TestDownload(t *testing.T) {
	archive := fullArchive(t)
	data, err := os.ReadFile(archive)
	require.Nil(t, err)

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/taxdump.tar.gz" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write(data)
		}))
	defer srv.Close()

	ctx := context.Background()

	t.Run("http", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dl", "taxdump.tar.gz")
		err := iotaxdump.Download(ctx, srv.URL+"/taxdump.tar.gz", path)
		require.Nil(t, err)
		res, err := os.ReadFile(path)
		require.Nil(t, err)
		assert.Equal(t, data, res)
	})

	t.Run("local file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "taxdump.tar.gz")
		err := iotaxdump.Download(ctx, archive, path)
		require.Nil(t, err)
		assert.FileExists(t, path)
	})

	t.Run("not found", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "taxdump.tar.gz")
		err := iotaxdump.Download(ctx, srv.URL+"/nothing", path)
		require.NotNil(t, err)

		var gnErr *gn.Error
		require.True(t, errors.As(err, &gnErr))
		assert.Equal(t, errcode.TaxdumpDownloadError, gnErr.Code)
		assert.NoFileExists(t, path)
	})
}

func TestSourceRefresh(t *testing.T) {
	ctx := context.Background()

	newSource := func(t *testing.T, keep bool) iotaxdump.Source {
		dir := t.TempDir()
		return iotaxdump.Source{
			URL:      fullArchive(t),
			Archive:  filepath.Join(dir, "taxdump.tar.gz"),
			DumpDir:  filepath.Join(dir, "taxdump"),
			KeepDump: keep,
		}
	}

	t.Run("success cleans up", func(t *testing.T) {
		src := newSource(t, false)
		var called bool
		err := src.Refresh(ctx, func(_ context.Context, dir string) error {
			called = true
			assert.True(t, iotaxdump.HasDump(dir))
			return nil
		})
		require.Nil(t, err)
		assert.True(t, called)
		assert.NoFileExists(t, src.Archive)
		assert.False(t, iotaxdump.HasDump(src.DumpDir))
	})

	t.Run("keep dump", func(t *testing.T) {
		src := newSource(t, true)
		err := src.Refresh(ctx, func(context.Context, string) error {
			return nil
		})
		require.Nil(t, err)
		assert.NoFileExists(t, src.Archive)
		assert.True(t, iotaxdump.HasDump(src.DumpDir))
	})

	t.Run("failed load keeps archive", func(t *testing.T) {
		src := newSource(t, false)
		boom := errors.New("boom")
		err := src.Refresh(ctx, func(context.Context, string) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.FileExists(t, src.Archive)
	})
}
