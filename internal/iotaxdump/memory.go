package iotaxdump

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"

	"github.com/gnames/sp2tax/pkg/config"
	"github.com/gnames/sp2tax/pkg/sp2tax"
	"github.com/gnames/sp2tax/pkg/taxonomy"
	"golang.org/x/sync/errgroup"
)

// memory is a Resolver that keeps the whole taxonomy in maps. It is
// loaded lazily from the extracted dump files on the first request.
type memory struct {
	src Source

	mu     sync.Mutex
	loaded bool

	parents    map[taxonomy.TaxID]taxonomy.TaxID
	ranks      map[taxonomy.TaxID]string
	sciNames   map[taxonomy.TaxID]string
	sciIndex   map[string][]taxonomy.TaxID
	otherIndex map[string][]taxonomy.TaxID
	merged     map[taxonomy.TaxID]taxonomy.TaxID
}

// New creates the 'dump' backend. It reads dump files from the cache
// directory and keeps them there after a refresh.
func New(cfg *config.Config) sp2tax.Resolver {
	src := NewSource(cfg)
	src.KeepDump = true
	return NewFromSource(src)
}

// NewFromSource creates the 'dump' backend for a custom Source.
func NewFromSource(src Source) sp2tax.Resolver {
	return &memory{src: src}
}

func (m *memory) Translate(
	ctx context.Context,
	names []string,
) (map[string][]taxonomy.TaxID, error) {
	if err := m.load(); err != nil {
		return nil, err
	}

	res := make(map[string][]taxonomy.TaxID)
	for _, v := range names {
		ids := m.sciIndex[v]
		if len(ids) == 0 {
			ids = m.otherIndex[v]
		}
		if len(ids) == 0 {
			continue
		}
		res[v] = slices.Clone(ids)
	}
	return res, nil
}

func (m *memory) Lineage(
	ctx context.Context,
	id taxonomy.TaxID,
) ([]taxonomy.TaxID, error) {
	if err := m.load(); err != nil {
		return nil, err
	}

	if newID, ok := m.merged[id]; ok {
		id = newID
	}
	if _, ok := m.parents[id]; !ok {
		return nil, nil
	}

	var res []taxonomy.TaxID
	seen := make(map[taxonomy.TaxID]struct{})
	for cur := id; ; {
		if _, ok := seen[cur]; ok {
			break
		}
		seen[cur] = struct{}{}
		res = append(res, cur)

		parent, ok := m.parents[cur]
		if !ok || parent == cur {
			break
		}
		cur = parent
	}
	slices.Reverse(res)
	return res, nil
}

func (m *memory) RankOf(
	ctx context.Context,
	ids []taxonomy.TaxID,
) (map[taxonomy.TaxID]string, error) {
	if err := m.load(); err != nil {
		return nil, err
	}
	return pick(m.ranks, ids), nil
}

func (m *memory) NameOf(
	ctx context.Context,
	ids []taxonomy.TaxID,
) (map[taxonomy.TaxID]string, error) {
	if err := m.load(); err != nil {
		return nil, err
	}
	return pick(m.sciNames, ids), nil
}

func (m *memory) Refresh(ctx context.Context) error {
	return m.src.Refresh(ctx, func(_ context.Context, _ string) error {
		m.mu.Lock()
		m.loaded = false
		m.mu.Unlock()
		return m.load()
	})
}

func (m *memory) HasData(ctx context.Context) (bool, error) {
	if err := m.load(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded, nil
}

func (m *memory) Close() error {
	return nil
}

// load reads dump files if they exist and were not read yet. Missing
// files leave the backend empty.
func (m *memory) load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded || !HasDump(m.src.DumpDir) {
		return nil
	}

	slog.Info("Loading taxonomy dump into memory", "dir", m.src.DumpDir)
	parents := make(map[taxonomy.TaxID]taxonomy.TaxID)
	ranks := make(map[taxonomy.TaxID]string)
	sciNames := make(map[taxonomy.TaxID]string)
	sciIndex := make(map[string][]taxonomy.TaxID)
	otherIndex := make(map[string][]taxonomy.TaxID)
	merged := make(map[taxonomy.TaxID]taxonomy.TaxID)

	var g errgroup.Group
	g.Go(func() error {
		path := filepath.Join(m.src.DumpDir, NodesFile)
		return ReadNodesFile(path, func(n taxonomy.Node) error {
			parents[n.ID] = n.ParentID
			ranks[n.ID] = n.Rank
			return nil
		})
	})

	g.Go(func() error {
		path := filepath.Join(m.src.DumpDir, NamesFile)
		return ReadNamesFile(path, func(n taxonomy.Name) error {
			if n.Class == taxonomy.ScientificClass {
				sciNames[n.TaxID] = n.Name
				sciIndex[n.Name] = append(sciIndex[n.Name], n.TaxID)
				return nil
			}
			otherIndex[n.Name] = append(otherIndex[n.Name], n.TaxID)
			return nil
		})
	})

	g.Go(func() error {
		path := filepath.Join(m.src.DumpDir, MergedFile)
		if !exists(path) {
			return nil
		}
		return ReadMergedFile(path, func(mr taxonomy.Merged) error {
			merged[mr.OldID] = mr.NewID
			return nil
		})
	})

	if err := g.Wait(); err != nil {
		return err
	}

	sortIndex(sciIndex)
	sortIndex(otherIndex)

	m.parents = parents
	m.ranks = ranks
	m.sciNames = sciNames
	m.sciIndex = sciIndex
	m.otherIndex = otherIndex
	m.merged = merged
	m.loaded = true
	slog.Info("Taxonomy dump is loaded", "nodes", len(parents))
	return nil
}

func sortIndex(idx map[string][]taxonomy.TaxID) {
	for k, v := range idx {
		slices.Sort(v)
		idx[k] = slices.Compact(v)
	}
}

func pick(
	data map[taxonomy.TaxID]string,
	ids []taxonomy.TaxID,
) map[taxonomy.TaxID]string {
	res := make(map[taxonomy.TaxID]string, len(ids))
	for _, id := range ids {
		if v, ok := data[id]; ok {
			res[id] = v
		}
	}
	return res
}
