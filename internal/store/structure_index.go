package store

import (
	"sync"

	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"
)

// StructureIndex maps each PawnStructure tag to the set of positions it
// was detected in.
type StructureIndex struct {
	mu       sync.RWMutex
	postings map[model.PawnStructure]map[model.GamePosition]struct{}
}

// NewStructureIndex returns an empty StructureIndex.
func NewStructureIndex() *StructureIndex {
	return &StructureIndex{postings: make(map[model.PawnStructure]map[model.GamePosition]struct{})}
}

// Add records that tag was detected at gp.
func (idx *StructureIndex) Add(tag model.PawnStructure, gp model.GamePosition) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	set, ok := idx.postings[tag]
	if !ok {
		set = make(map[model.GamePosition]struct{})
		idx.postings[tag] = set
	}
	set[gp] = struct{}{}
}

// Positions returns every GamePosition tagged with the given structure.
func (idx *StructureIndex) Positions(tag model.PawnStructure) []model.GamePosition {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]model.GamePosition, 0, len(idx.postings[tag]))
	for gp := range idx.postings[tag] {
		out = append(out, gp)
	}
	return out
}

// GameIDs returns the posting set of game IDs that ever reached a
// position tagged with the given structure.
func (idx *StructureIndex) GameIDs(tag model.PawnStructure) GameIDSet {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	set := make(GameIDSet)
	for gp := range idx.postings[tag] {
		set.Add(gp.GameID)
	}
	return set
}
