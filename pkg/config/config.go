// Package config provides configuration management for sp2tax.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - General: backend, taxdump_url, archive_file, fail_file, flag_errors,
//     format, nom_code, jobs_number
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - Log: level, format, destination
//
// Runtime-only fields (CLI flags only):
//   - InputFile, OutputFile, Ranks, SkipUpdate, SkipFailed, WithNormalize
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use SP2TAX_ prefix with underscores for nesting:
//
//	SP2TAX_BACKEND=sqlite
//	SP2TAX_DATABASE_HOST=localhost
//	SP2TAX_LOG_LEVEL=info
//	SP2TAX_JOBS_NUMBER=8
package config

import (
	"runtime"

	"github.com/gnames/sp2tax/pkg/taxonomy"
)

// Config represents the complete sp2tax configuration.
type Config struct {
	// InputFile is the path to the species list, one name per line.
	InputFile string

	// OutputFile is the path where the taxonomy table is written.
	OutputFile string

	// Ranks is the ordered list of ranks to extract. It also defines
	// the columns of the output table.
	Ranks []string

	// SkipUpdate is true when the taxonomy database refresh is skipped.
	SkipUpdate bool

	// SkipFailed is true when unresolved names go to FailFile instead
	// of aborting the run.
	SkipFailed bool

	// WithNormalize is true when input names are converted to their
	// canonical form by gnparser before the lookup.
	WithNormalize bool

	// Backend determines the taxonomy store: 'sqlite', 'postgres' or 'dump'.
	Backend string `mapstructure:"backend" yaml:"backend"`

	// TaxdumpURL is the location of NCBI taxdump.tar.gz archive.
	TaxdumpURL string `mapstructure:"taxdump_url" yaml:"taxdump_url"`

	// ArchiveFile is where the downloaded archive is kept until the
	// backend is loaded. Relative paths are resolved against
	// the working directory.
	ArchiveFile string `mapstructure:"archive_file" yaml:"archive_file"`

	// FailFile receives names that could not be resolved when
	// SkipFailed is true.
	FailFile string `mapstructure:"fail_file" yaml:"fail_file"`

	// FlagErrors is either 'strict' (malformed flags abort the run) or
	// 'warn' (usage is printed and the run continues).
	FlagErrors string `mapstructure:"flag_errors" yaml:"flag_errors"`

	// Format of the output: 'tsv', 'csv', 'compact' or 'pretty'.
	Format string `mapstructure:"format" yaml:"format"`

	// NomCode is the nomenclatural code used for name normalization,
	// 'zoological' or 'botanical'.
	NomCode string `mapstructure:"nom_code" yaml:"nom_code"`

	// Database contains PostgreSQL connection settings for the
	// 'postgres' backend.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parsing.
	// Default value is set accoring to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize defines the number of records sent to PostgreSQL in one
	// bulk copy during the taxonomy load.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Ranks:       append([]string(nil), taxonomy.DefaultRanks...),
		Backend:     "sqlite",
		TaxdumpURL:  TaxdumpURL,
		ArchiveFile: ArchiveFile,
		FailFile:    FailFile,
		FlagErrors:  "strict",
		Format:      "tsv",
		NomCode:     "zoological",
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "ncbi_taxonomy",
			SSLMode:   "disable",
			BatchSize: 50_000,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
