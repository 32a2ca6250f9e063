// Package iotaxdump downloads, extracts and parses NCBI taxonomy dump
// (taxdump.tar.gz). It also provides an in-memory Resolver that works
// directly with the extracted dump files.
package iotaxdump

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/sp2tax/pkg/taxonomy"
)

const (
	// NodesFile contains parent-child relations and ranks.
	NodesFile = "nodes.dmp"
	// NamesFile contains scientific names, synonyms and common names.
	NamesFile = "names.dmp"
	// MergedFile maps retired identifiers to current ones.
	MergedFile = "merged.dmp"

	fieldSep = "\t|\t"
	lineEnd  = "\t|"
)

// Handler receives records of a taxonomy dump.
type Handler interface {
	Node(taxonomy.Node) error
	Name(taxonomy.Name) error
	Merged(taxonomy.Merged) error
}

// ReadDir feeds all records of the dump files from dir to h. Nodes come
// first, then names, then merged identifiers. Missing merged.dmp is
// not an error.
func ReadDir(dir string, h Handler) error {
	err := ReadNodesFile(filepath.Join(dir, NodesFile), h.Node)
	if err != nil {
		return err
	}

	err = ReadNamesFile(filepath.Join(dir, NamesFile), h.Name)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, MergedFile)
	if !exists(path) {
		return nil
	}
	return ReadMergedFile(path, h.Merged)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadNodesFile opens nodes.dmp and calls fn for every record.
func ReadNodesFile(path string, fn func(taxonomy.Node) error) error {
	return readFile(path, func(r io.Reader) error {
		return ReadNodes(r, path, fn)
	})
}

// ReadNamesFile opens names.dmp and calls fn for every record.
func ReadNamesFile(path string, fn func(taxonomy.Name) error) error {
	return readFile(path, func(r io.Reader) error {
		return ReadNames(r, path, fn)
	})
}

// ReadMergedFile opens merged.dmp and calls fn for every record.
func ReadMergedFile(path string, fn func(taxonomy.Merged) error) error {
	return readFile(path, func(r io.Reader) error {
		return ReadMerged(r, path, fn)
	})
}

func readFile(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return MissingDumpFileError(path, err)
	}
	defer f.Close()
	return read(f)
}

// ReadNodes parses nodes.dmp content. The src is used in error messages.
func ReadNodes(r io.Reader, src string, fn func(taxonomy.Node) error) error {
	return scan(r, src, 3, func(fields []string, line int) error {
		ids, err := parseIDs(fields[0], fields[1])
		if err != nil {
			return ParseError(src, line, err)
		}
		return fn(taxonomy.Node{
			ID:       ids[0],
			ParentID: ids[1],
			Rank:     strings.TrimSpace(fields[2]),
		})
	})
}

// ReadNames parses names.dmp content. The src is used in error messages.
func ReadNames(r io.Reader, src string, fn func(taxonomy.Name) error) error {
	return scan(r, src, 4, func(fields []string, line int) error {
		ids, err := parseIDs(fields[0])
		if err != nil {
			return ParseError(src, line, err)
		}
		return fn(taxonomy.Name{
			TaxID: ids[0],
			Name:  strings.TrimSpace(fields[1]),
			Class: strings.TrimSpace(fields[3]),
		})
	})
}

// ReadMerged parses merged.dmp content. The src is used in error messages.
func ReadMerged(r io.Reader, src string, fn func(taxonomy.Merged) error) error {
	return scan(r, src, 2, func(fields []string, line int) error {
		ids, err := parseIDs(fields[0], fields[1])
		if err != nil {
			return ParseError(src, line, err)
		}
		return fn(taxonomy.Merged{OldID: ids[0], NewID: ids[1]})
	})
}

func scan(
	r io.Reader,
	src string,
	minFields int,
	fn func(fields []string, line int) error,
) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lineNum int
	for sc.Scan() {
		lineNum++
		line := strings.TrimRight(sc.Text(), "\r\n")
		if line == "" {
			continue
		}
		line = strings.TrimSuffix(line, lineEnd)
		fields := strings.Split(line, fieldSep)
		if len(fields) < minFields {
			err := fmt.Errorf("expected at least %d fields, got %d",
				minFields, len(fields))
			return ParseError(src, lineNum, err)
		}
		if err := fn(fields, lineNum); err != nil {
			return err
		}
		if lineNum%500_000 == 0 {
			progressReport(lineNum, filepath.Base(src))
		}
	}
	if err := sc.Err(); err != nil {
		return ParseError(src, lineNum, err)
	}
	if lineNum >= 500_000 {
		clearProgress()
	}
	return nil
}

func parseIDs(ss ...string) ([]taxonomy.TaxID, error) {
	res := make([]taxonomy.TaxID, len(ss))
	for i, s := range ss {
		id, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("bad taxonomy ID '%s': %w", s, err)
		}
		res[i] = taxonomy.TaxID(id)
	}
	return res, nil
}

func progressReport(recNum int, entity string) {
	str := fmt.Sprintf("Processed %s lines of %s",
		humanize.Comma(int64(recNum)), entity)
	fmt.Fprintf(os.Stderr, "\r%s", strings.Repeat(" ", 80))
	fmt.Fprintf(os.Stderr, "\r%s", str)
}

func clearProgress() {
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", 80))
}
