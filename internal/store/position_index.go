package store

import (
	"sync"

	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"
)

// PositionIndex maps a Zobrist hash to every GamePosition that reached
// it. Collisions (same hash, distinct FEN) are tolerated and merely
// counted for diagnostics.
type PositionIndex struct {
	mu         sync.RWMutex
	postings   map[uint64][]model.GamePosition
	collisions int
}

// NewPositionIndex returns an empty PositionIndex.
func NewPositionIndex() *PositionIndex {
	return &PositionIndex{postings: make(map[uint64][]model.GamePosition)}
}

// Add records that hash was reached at gp, bumping the collision
// counter if an existing entry in the same bucket has a different FEN.
func (idx *PositionIndex) Add(hash uint64, gp model.GamePosition) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	bucket := idx.postings[hash]
	for _, existing := range bucket {
		if existing.FEN != gp.FEN {
			idx.collisions++
			break
		}
	}
	idx.postings[hash] = append(bucket, gp)
}

// Lookup returns every GamePosition recorded under hash.
func (idx *PositionIndex) Lookup(hash uint64) []model.GamePosition {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	bucket := idx.postings[hash]
	out := make([]model.GamePosition, len(bucket))
	copy(out, bucket)
	return out
}

// GameIDs returns the posting set of game IDs that ever reached hash.
func (idx *PositionIndex) GameIDs(hash uint64) GameIDSet {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	set := make(GameIDSet)
	for _, gp := range idx.postings[hash] {
		set.Add(gp.GameID)
	}
	return set
}

// Collisions returns the number of distinct-FEN collisions observed.
func (idx *PositionIndex) Collisions() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.collisions
}
