// Package normalizer converts species names to canonical forms using a
// pool of gnparser instances.
// This is a pure package - parsing is computation, not I/O.
package normalizer

import (
	"runtime"
	"strings"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
	"golang.org/x/sync/errgroup"
)

// Normalizer converts name-strings to their simple canonical forms, for
// example "Homo sapiens Linnaeus, 1758" to "Homo sapiens".
type Normalizer interface {
	// Canonical returns the simple canonical form of a name-string.
	// Names that cannot be parsed are returned trimmed but otherwise
	// unchanged.
	Canonical(name string) string

	// Canonicals normalizes a batch of names concurrently. The result
	// is aligned with the input.
	Canonicals(names []string) []string

	// Close shuts down the parser pool.
	// After calling Close, the normalizer should not be used.
	Close()
}

type normalizer struct {
	ch       chan gnparser.GNparser
	poolSize int
}

// New creates a Normalizer with jobsNum parsers using the given
// nomenclatural code.
// If jobsNum is 0, it defaults to runtime.NumCPU().
func New(code nomcode.Code, jobsNum int) Normalizer {
	poolSize := jobsNum
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
	}

	cfg := gnparser.NewConfig(gnparser.OptCode(code))
	return &normalizer{
		ch:       gnparser.NewPool(cfg, poolSize),
		poolSize: poolSize,
	}
}

// CodeFromString converts configuration value to nomenclatural code.
// Botanical code keeps names like "Aus (Bus)" from being treated as
// subgenera.
func CodeFromString(s string) nomcode.Code {
	if strings.ToLower(s) == "botanical" {
		return nomcode.Botanical
	}
	return nomcode.Zoological
}

func (n *normalizer) Canonical(name string) string {
	// Get a parser from the pool (blocks if all parsers are busy)
	parser := <-n.ch
	parsed := parser.ParseName(name)
	n.ch <- parser

	if !parsed.Parsed {
		return strings.TrimSpace(name)
	}
	return parsed.Canonical.Simple
}

func (n *normalizer) Canonicals(names []string) []string {
	res := make([]string, len(names))

	var g errgroup.Group
	g.SetLimit(n.poolSize)
	for i := range names {
		g.Go(func() error {
			res[i] = n.Canonical(names[i])
			return nil
		})
	}
	_ = g.Wait()

	return res
}

func (n *normalizer) Close() {
	if n.ch != nil {
		close(n.ch)
		// Drain the channel
		for range n.ch {
		}
		n.ch = nil
	}
}
