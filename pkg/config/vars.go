package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "sp2tax"

	// TaxdumpURL is the default location of NCBI taxonomy dump.
	TaxdumpURL = "https://ftp.ncbi.nlm.nih.gov/pub/taxonomy/taxdump.tar.gz"

	// ArchiveFile is the default name of the downloaded dump archive.
	ArchiveFile = "taxdump.tar.gz"

	// FailFile is the default name of the file with unresolved names.
	FailFile = "failed_taxids.tsv"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/sp2tax by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/sp2tax by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/sp2tax/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/sp2tax/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// DumpDir returns the directory where taxdump files are extracted.
// Returns ~/.cache/sp2tax/taxdump by default.
func DumpDir(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), "taxdump")
}

// SQLitePath returns the path to the local taxonomy database.
// Returns ~/.cache/sp2tax/taxonomy.sqlite by default.
func SQLitePath(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), "taxonomy.sqlite")
}
