// Package iospecies reads the list of species names.
package iospecies

import (
	"bufio"
	"log/slog"
	"os"
	"strings"
)

// Read loads names from a file with one name per line. Lines are not
// validated, empty lines and duplicates are kept. The line break that
// ends the file does not create an extra record.
func Read(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, FileAccessError(path, err)
	}
	defer f.Close()

	var res []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		res = append(res, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err = sc.Err(); err != nil {
		return nil, FileAccessError(path, err)
	}

	slog.Info("Species list loaded", "file", path, "records", len(res))
	return res, nil
}

// Unique removes repeated names keeping the order of the first
// occurrence.
func Unique(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	res := make([]string, 0, len(names))
	for _, v := range names {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		res = append(res, v)
	}
	return res
}
