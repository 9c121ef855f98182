package database

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/arthamitra/finassist-be/types"
)

// LocalIndex is a brute-force cosine-distance vector index held in
// process memory and persisted as an opaque gob file per collection.
// A single RWMutex serializes writers; queries take the read lock so
// they never observe a partial insert.
type LocalIndex struct {
	mu   sync.RWMutex
	name string
	path string // empty for a purely in-memory index
	dim  int
	docs []types.IndexedDocument
	ids  map[string]struct{}
}

type indexSnapshot struct {
	Dimension int
	Docs      []types.IndexedDocument
}

// NewLocalIndex opens (or creates) the index persisted under dir for the
// given collection name. An empty dir yields a volatile in-memory index,
// which is what tests use.
func NewLocalIndex(dir, name string) (*LocalIndex, error) {
	ix := &LocalIndex{
		name: name,
		ids:  make(map[string]struct{}),
	}
	if dir == "" {
		return ix, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: create index dir: %v", types.ErrIndexUnavailable, err)
	}
	ix.path = filepath.Join(dir, name+".idx")
	if err := ix.load(); err != nil {
		return nil, err
	}
	return ix, nil
}

func (ix *LocalIndex) load() error {
	f, err := os.Open(ix.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", types.ErrIndexUnavailable, ix.path, err)
	}
	defer f.Close()

	var snap indexSnapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return fmt.Errorf("%w: decode %s: %v", types.ErrIndexUnavailable, ix.path, err)
	}
	ix.dim = snap.Dimension
	ix.docs = snap.Docs
	for _, doc := range ix.docs {
		ix.ids[doc.ID] = struct{}{}
	}
	return nil
}

// flushLocked writes the current state to disk via rename so a crashed
// write never corrupts the previous file. Caller holds the write lock.
func (ix *LocalIndex) flushLocked() error {
	if ix.path == "" {
		return nil
	}
	tmp := ix.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", types.ErrIndexUnavailable, tmp, err)
	}
	snap := indexSnapshot{Dimension: ix.dim, Docs: ix.docs}
	if err := gob.NewEncoder(f).Encode(&snap); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: encode %s: %v", types.ErrIndexUnavailable, tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: close %s: %v", types.ErrIndexUnavailable, tmp, err)
	}
	return os.Rename(tmp, ix.path)
}

func (ix *LocalIndex) Add(ctx context.Context, doc *types.IndexedDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc.ID == "" {
		return fmt.Errorf("%w: document id is empty", types.ErrIndexUnavailable)
	}
	if len(doc.Embedding) == 0 {
		return fmt.Errorf("%w: document %s has no embedding", types.ErrIndexUnavailable, doc.ID)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, exists := ix.ids[doc.ID]; exists {
		return fmt.Errorf("%w: %s", types.ErrDuplicateID, doc.ID)
	}
	if ix.dim == 0 {
		ix.dim = len(doc.Embedding)
	} else if len(doc.Embedding) != ix.dim {
		return fmt.Errorf("%w: dimension %d does not match index dimension %d",
			types.ErrIndexUnavailable, len(doc.Embedding), ix.dim)
	}

	ix.docs = append(ix.docs, *doc)
	ix.ids[doc.ID] = struct{}{}
	return ix.flushLocked()
}

func (ix *LocalIndex) Query(ctx context.Context, vector []float32, k int, filter *types.MetadataFilter) ([]types.QueryResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = 5
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	type scored struct {
		order    int
		distance float32
	}
	matches := make([]scored, 0, len(ix.docs))
	for i := range ix.docs {
		if filter != nil && !filter.Matches(ix.docs[i].Metadata) {
			continue
		}
		matches = append(matches, scored{order: i, distance: cosineDistance(vector, ix.docs[i].Embedding)})
	}
	// Stable sort keeps insertion order among equal distances.
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].distance < matches[b].distance
	})
	if len(matches) > k {
		matches = matches[:k]
	}

	results := make([]types.QueryResult, 0, len(matches))
	for _, m := range matches {
		doc := ix.docs[m.order]
		results = append(results, types.QueryResult{
			Content:  doc.Content,
			Metadata: doc.Metadata,
			Distance: m.distance,
		})
	}
	return results, nil
}

func (ix *LocalIndex) DeleteWhere(ctx context.Context, filter types.MetadataFilter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if filter.IsZero() {
		return 0, fmt.Errorf("%w: refusing to delete with an empty filter", types.ErrIndexUnavailable)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	kept := ix.docs[:0]
	removed := 0
	for _, doc := range ix.docs {
		if filter.Matches(doc.Metadata) {
			delete(ix.ids, doc.ID)
			removed++
			continue
		}
		kept = append(kept, doc)
	}
	ix.docs = kept
	if removed == 0 {
		return 0, nil
	}
	return removed, ix.flushLocked()
}

func (ix *LocalIndex) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs), nil
}

func (ix *LocalIndex) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.flushLocked()
}

// cosineDistance is 1 - cosine similarity, so lower means more similar.
// A zero-norm operand yields the maximum distance 1.
func cosineDistance(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return float32(1 - dot/(math.Sqrt(na)*math.Sqrt(nb)))
}
