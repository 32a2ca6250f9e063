// Package iotesting provides shared test utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"archive/tar"
	"compress/gzip"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gnames/sp2tax/pkg/config"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "sp2tax_test"
)

// DumpFiles are the files of the fixture taxonomy dump.
var DumpFiles = []string{"nodes.dmp", "names.dmp", "merged.dmp"}

// TaxdumpDir returns the absolute path to the fixture taxonomy dump.
func TaxdumpDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "testdata", "taxdump")
}

// GetTestConfig returns a configuration suitable for tests. The home
// directory is a temporary one, the taxdump URL points to a local
// archive made of fixture files, and the database name is
// TestDatabaseName.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig(t)
//	    // ... use cfg for database operations
//	}
func GetTestConfig(t *testing.T) *config.Config {
	t.Helper()
	home := t.TempDir()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptHomeDir(home),
		config.OptTaxdumpURL(MakeArchive(t, DumpFiles...)),
		config.OptArchiveFile(filepath.Join(home, config.ArchiveFile)),
		config.OptFailFile(filepath.Join(home, config.FailFile)),
		config.OptDatabaseDatabase(TestDatabaseName),
	})

	// CI can point tests to a different server.
	if host := os.Getenv("SP2TAX_TEST_DB_HOST"); host != "" {
		cfg.Update([]config.Option{config.OptDatabaseHost(host)})
	}
	return cfg
}

// MakeArchive packs given fixture dump files into a taxdump-like
// tar.gz archive and returns its path.
func MakeArchive(t *testing.T, files ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), config.ArchiveFile)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	readme := []byte("NCBI taxonomy dump fixture\n")
	writeEntry(t, tw, "readme.txt", readme)

	for _, v := range files {
		data, err := os.ReadFile(filepath.Join(TaxdumpDir(), v))
		if err != nil {
			t.Fatalf("Failed to read fixture %s: %v", v, err)
		}
		writeEntry(t, tw, v, data)
	}

	if err = tw.Close(); err != nil {
		t.Fatalf("Failed to close tar: %v", err)
	}
	if err = gz.Close(); err != nil {
		t.Fatalf("Failed to close gzip: %v", err)
	}
	return path
}

func writeEntry(t *testing.T, tw *tar.Writer, name string, data []byte) {
	t.Helper()
	err := tw.WriteHeader(&tar.Header{
		Name: name, Mode: 0644, Size: int64(len(data)),
	})
	if err != nil {
		t.Fatalf("Failed to write tar header %s: %v", name, err)
	}
	if _, err = tw.Write(data); err != nil {
		t.Fatalf("Failed to write tar entry %s: %v", name, err)
	}
}

// SetupHome points HOME to a temporary directory so that config, cache
// and logs of a test never touch real user files.
func SetupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}
