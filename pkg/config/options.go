package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptInputFile sets the path to the species list.
// Runtime-only field - not in ToOptions().
func OptInputFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Input File", s) {
			c.InputFile = s
		}
	}
}

// OptOutputFile sets the path of the resulting taxonomy table.
// Runtime-only field - not in ToOptions().
func OptOutputFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Output File", s) {
			c.OutputFile = s
		}
	}
}

// OptRanks sets the ranks to extract and the order of output columns.
// Ranks are not checked against NCBI vocabulary, unknown ranks
// produce 'Nan' columns.
// Runtime-only field - not in ToOptions().
func OptRanks(ranks []string) Option {
	return func(c *Config) {
		if len(ranks) == 0 {
			warnEmpty("Ranks")
			return
		}
		c.Ranks = ranks
	}
}

// OptSkipUpdate sets whether the taxonomy database refresh is skipped.
// Runtime-only field - not in ToOptions().
func OptSkipUpdate(b bool) Option {
	return func(c *Config) {
		c.SkipUpdate = b
	}
}

// OptSkipFailed sets whether unresolved names are reported to a file
// instead of aborting the run.
// Runtime-only field - not in ToOptions().
func OptSkipFailed(b bool) Option {
	return func(c *Config) {
		c.SkipFailed = b
	}
}

// OptWithNormalize sets whether names are normalized by gnparser.
// Runtime-only field - not in ToOptions().
func OptWithNormalize(b bool) Option {
	return func(c *Config) {
		c.WithNormalize = b
	}
}

// OptBackend sets the taxonomy store.
// Valid values: "sqlite", "postgres", "dump".
func OptBackend(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Backend", s) {
			c.Backend = s
		}
	}
}

// OptTaxdumpURL sets the URL of NCBI taxdump archive.
func OptTaxdumpURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Taxdump URL", s) {
			c.TaxdumpURL = s
		}
	}
}

// OptArchiveFile sets the path for the downloaded archive.
func OptArchiveFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Archive File", s) {
			c.ArchiveFile = s
		}
	}
}

// OptFailFile sets the path of unresolved names report.
func OptFailFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Fail File", s) {
			c.FailFile = s
		}
	}
}

// OptFlagErrors sets how malformed command line flags are treated.
// Valid values: "strict", "warn".
func OptFlagErrors(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("FlagErrors", s) {
			c.FlagErrors = s
		}
	}
}

// OptFormat sets the output format.
// Valid values: "tsv", "csv", "compact", "pretty".
func OptFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Format", s) {
			c.Format = s
		}
	}
}

// OptNomCode sets the nomenclatural code for name normalization.
// Valid values: "zoological", "botanical".
func OptNomCode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("NomCode", s) {
			c.NomCode = s
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of records per bulk copy.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
