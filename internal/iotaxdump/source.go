package iotaxdump

import (
	"context"
	"log/slog"

	"github.com/gnames/gnsys"
	"github.com/gnames/sp2tax/internal/iofs"
	"github.com/gnames/sp2tax/pkg/config"
)

// Source describes where a taxonomy dump comes from and where it is
// unpacked.
type Source struct {
	// URL of taxdump.tar.gz, or a path to a local copy.
	URL string
	// Archive is where the downloaded archive is saved.
	Archive string
	// DumpDir receives extracted .dmp files.
	DumpDir string
	// KeepDump prevents cleaning of DumpDir after the load.
	KeepDump bool
}

// NewSource creates a Source from configuration.
func NewSource(cfg *config.Config) Source {
	return Source{
		URL:     cfg.TaxdumpURL,
		Archive: cfg.ArchiveFile,
		DumpDir: config.DumpDir(cfg.HomeDir),
	}
}

// Refresh downloads and extracts the dump, then calls load with the
// directory of extracted files. The archive is removed only when load
// succeeds, so a failed run leaves it for inspection.
func (s Source) Refresh(
	ctx context.Context,
	load func(ctx context.Context, dumpDir string) error,
) error {
	err := Fetch(ctx, s.URL, s.Archive, s.DumpDir)
	if err != nil {
		return err
	}

	if err = load(ctx, s.DumpDir); err != nil {
		return err
	}

	if !s.KeepDump {
		if err = gnsys.CleanDir(s.DumpDir); err != nil {
			slog.Warn("Cannot clean dump directory",
				"dir", s.DumpDir, "error", err)
		}
	}

	slog.Info("Removing taxonomy dump archive", "path", s.Archive)
	return iofs.RemoveIfExists(s.Archive)
}
