// Package iologger sets up log/slog for sp2tax. Logs go to a file in
// the log directory by default, or to STDOUT/STDERR.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gnames/sp2tax/pkg/config"
)

// LogFile is the name of the log file in the log directory.
const LogFile = "sp2tax.log"

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init makes a logger from cfg the default slog logger. With 'file'
// destination the log is created in logDir. If append is true, records
// are added to the existing file, otherwise the file starts empty.
// A file opened by a previous call is closed.
func Init(logDir string, cfg config.LogConfig, append bool) error {
	mu.Lock()
	defer mu.Unlock()

	w, f, err := newWriter(logDir, cfg.Destination, append)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(newHandler(w, cfg)))

	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	return nil
}

// newWriter returns the destination of log records. The file is nil
// for STDOUT and STDERR.
func newWriter(
	logDir, destination string,
	append bool,
) (io.Writer, *os.File, error) {
	switch destination {
	case "stdout":
		return os.Stdout, nil, nil
	case "file":
	default:
		return os.Stderr, nil, nil
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if append {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}

	path := filepath.Join(logDir, LogFile)
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, nil, CreateLogFileError(path, err)
	}
	return f, f, nil
}

func newHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	// tint has no colored handler yet, it falls back to text
	if cfg.Format == "text" || cfg.Format == "tint" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// parseLevel converts string level to slog.Level, unknown values give
// info level.
func parseLevel(level string) slog.Level {
	var res slog.Level
	if err := res.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return res
}
