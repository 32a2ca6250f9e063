package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/sp2tax/internal/iotesting"
	"github.com/gnames/sp2tax/pkg/config"
	"github.com/gnames/sp2tax/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv isolates a test in a temporary home and points the taxdump
// URL to a fixture archive.
func setupEnv(t *testing.T) string {
	t.Helper()
	home := iotesting.SetupHome(t)
	t.Setenv("SP2TAX_TAXDUMP_URL", iotesting.MakeArchive(t, iotesting.DumpFiles...))
	t.Setenv("SP2TAX_ARCHIVE_FILE", filepath.Join(home, config.ArchiveFile))
	t.Setenv("SP2TAX_FAIL_FILE", filepath.Join(home, config.FailFile))
	t.Setenv("SP2TAX_FLAG_ERRORS", "strict")
	return home
}

// copyDump puts fixture dump files where the 'dump' backend reads them.
func copyDump(t *testing.T, home string) {
	t.Helper()
	dir := config.DumpDir(home)
	require.Nil(t, os.MkdirAll(dir, 0755))
	for _, v := range iotesting.DumpFiles {
		data, err := os.ReadFile(filepath.Join(iotesting.TaxdumpDir(), v))
		require.Nil(t, err)
		require.Nil(t, os.WriteFile(filepath.Join(dir, v), data, 0644))
	}
}

func writeInput(t *testing.T, home, names string) (string, string) {
	t.Helper()
	inp := filepath.Join(home, "species.txt")
	require.Nil(t, os.WriteFile(inp, []byte(names), 0644))
	return inp, filepath.Join(home, "out.tsv")
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := getRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func errCode(t *testing.T, err error) gn.ErrorCode {
	t.Helper()
	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr), "expected gn.Error, got %v", err)
	return gnErr.Code
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.Nil(t, err)
	return string(data)
}

// TestGetRootCmd_Exists verifies getRootCmd returns
// a valid command.
func TestGetRootCmd_Exists(t *testing.T) {
	cmd := getRootCmd()
	require.NotNil(t, cmd, "Root command should exist")
	assert.Equal(t, "sp2tax", cmd.Use,
		"Command name should be sp2tax")

	for _, v := range []string{"input", "output", "ranks", "skip-update",
		"skip-failed", "normalize", "format", "backend"} {
		assert.NotNil(t, cmd.Flags().Lookup(v), v)
	}

	sub, _, err := cmd.Find([]string{"update"})
	require.NoError(t, err)
	assert.Equal(t, "update", sub.Name())
}

// TestGetRootCmd_VersionFormat verifies version
// output format.
func TestGetRootCmd_VersionFormat(t *testing.T) {
	cmd := getRootCmd()

	// Set a test version
	cmd.Version = "version: v1.2.3\nbuild:   abc123"

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Equal(t, "version: v1.2.3\nbuild:   abc123\n", output,
		"Version output should have no command prefix")
}

// TestGetRootCmd_ShortVersionFlag verifies
// -V flag works.
func TestGetRootCmd_ShortVersionFlag(t *testing.T) {
	cmd := getRootCmd()
	cmd.Version = "version: v1.2.3\nbuild:   abc123"

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-V"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "v1.2.3",
		"Version output should work with -V flag")
}

// TestRootHelp verifies help works without required flags.
func TestRootHelp(t *testing.T) {
	cmd := getRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "--skip-update")
	assert.Contains(t, buf.String(), "update")
}

func TestRootMissingFlags(t *testing.T) {
	home := setupEnv(t)
	copyDump(t, home)
	inp, out := writeInput(t, home, "Homo sapiens\n")

	tests := []struct {
		msg  string
		args []string
	}{
		{"no flags", []string{"-b", "dump", "-s"}},
		{"no output", []string{"-b", "dump", "-s", "-i", inp}},
		{"no input", []string{"-b", "dump", "-s", "-o", out}},
	}

	for _, v := range tests {
		err := execute(t, v.args...)
		require.Error(t, err, v.msg)
		assert.Equal(t, errcode.MissingFlagError, errCode(t, err), v.msg)
		assert.NoFileExists(t, out, v.msg)
	}
}

func TestRootSkipUpdate(t *testing.T) {
	home := setupEnv(t)
	copyDump(t, home)
	inp, out := writeInput(t, home, "Homo sapiens\n")

	// stale report of a previous run
	failFile := filepath.Join(home, config.FailFile)
	require.Nil(t, os.WriteFile(failFile, []byte("old\n"), 0644))

	err := execute(t, "-b", "dump", "-s", "-i", inp, "-o", out,
		"-r", "kingdom,species")
	require.NoError(t, err)
	assert.Equal(t, "kingdom\tspecies\nMetazoa\tHomo sapiens\n", readFile(t, out))
	assert.NoFileExists(t, failFile)
	assert.NoFileExists(t, filepath.Join(home, config.ArchiveFile))
}

func TestRootEmptyBackend(t *testing.T) {
	home := setupEnv(t)
	inp, out := writeInput(t, home, "Homo sapiens\n")

	err := execute(t, "-b", "dump", "-s", "-i", inp, "-o", out)
	require.Error(t, err)
	assert.Equal(t, errcode.BackendEmptyError, errCode(t, err))
	assert.NoFileExists(t, out)
}

func TestRootRefresh(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping full refresh test")
	}

	home := setupEnv(t)
	inp, out := writeInput(t, home, "Homo sapiens\nMorus alba\n")

	// default backend is sqlite
	err := execute(t, "-i", inp, "-o", out, "-r", "family,species")
	require.NoError(t, err)
	assert.Equal(t,
		"family\tspecies\nHominidae\tHomo sapiens\nMoraceae\tMorus alba\n",
		readFile(t, out))
	assert.FileExists(t, config.SQLitePath(home))
	assert.NoFileExists(t, filepath.Join(home, config.ArchiveFile))

	// second run uses data loaded before
	err = execute(t, "-s", "-i", inp, "-o", out, "-r", "genus")
	require.NoError(t, err)
	assert.Equal(t, "genus\nHomo\nMorus\n", readFile(t, out))
}

func TestRootUnresolved(t *testing.T) {
	home := setupEnv(t)
	copyDump(t, home)
	inp, out := writeInput(t, home, "Homo sapiens\nBogus bogus\n")
	failFile := filepath.Join(home, config.FailFile)

	t.Run("abort", func(t *testing.T) {
		err := execute(t, "-b", "dump", "-s", "-i", inp, "-o", out)
		require.Error(t, err)
		assert.Equal(t, errcode.UnresolvedNamesError, errCode(t, err))
		assert.NoFileExists(t, out)
	})

	t.Run("skip failed", func(t *testing.T) {
		err := execute(t, "-b", "dump", "-s", "-f", "-i", inp, "-o", out,
			"-r", "species")
		require.NoError(t, err)
		assert.Equal(t, "species\nHomo sapiens\n", readFile(t, out))
		assert.Contains(t, readFile(t, failFile), "Bogus bogus")
	})
}

func TestRootFlagErrors(t *testing.T) {
	home := setupEnv(t)
	copyDump(t, home)
	inp, out := writeInput(t, home, "Homo sapiens\n")
	args := []string{"-b", "dump", "-s", "-i", inp, "-o", out,
		"-r", "species", "--bogus"}

	t.Run("strict", func(t *testing.T) {
		err := execute(t, args...)
		require.Error(t, err)
		assert.Equal(t, errcode.FlagParseError, errCode(t, err))
		assert.NoFileExists(t, out)
	})

	t.Run("warn", func(t *testing.T) {
		t.Setenv("SP2TAX_FLAG_ERRORS", "warn")
		err := execute(t, args...)
		require.NoError(t, err)
		assert.Equal(t, "species\nHomo sapiens\n", readFile(t, out))
	})
}

func TestNewResolver(t *testing.T) {
	c := config.New()
	c.Update([]config.Option{config.OptHomeDir(t.TempDir())})

	c.Backend = "bogus"
	_, err := newResolver(context.Background(), c)
	require.Error(t, err)
	assert.Equal(t, errcode.UnknownBackendError, errCode(t, err))

	c.Backend = "dump"
	res, err := newResolver(context.Background(), c)
	require.NoError(t, err)
	ok, err := res.HasData(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, res.Close())
}
