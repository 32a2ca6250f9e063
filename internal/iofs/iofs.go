// Package iofs prepares the file system layout of sp2tax: config, cache
// and log directories and the default config file.
package iofs

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"

	"github.com/gnames/gnsys"
	"github.com/gnames/sp2tax/pkg/config"
)

// ConfigYAML is the documented default configuration written on the
// first run.
//
//go:embed config.yaml
var ConfigYAML string

// EnsureDirs creates config, cache and log directories under homeDir.
func EnsureDirs(homeDir string) error {
	for _, v := range []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
	} {
		if err := gnsys.MakeDir(v); err != nil {
			return CreateDirError(v, err)
		}
	}
	return nil
}

// EnsureConfigFile writes default config.yaml unless the user already
// has one.
func EnsureConfigFile(homeDir string) error {
	path := config.ConfigFilePath(homeDir)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	err := os.WriteFile(path, []byte(ConfigYAML), 0644)
	if err != nil {
		return CopyFileError(path, err)
	}
	return nil
}

// RemoveIfExists deletes a file, a missing file is not an error.
func RemoveIfExists(path string) error {
	err := os.Remove(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return RemoveFileError(path, err)
}
