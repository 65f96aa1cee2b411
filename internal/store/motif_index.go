package store

import (
	"sync"

	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"
)

// MotifIndex maps each TacticalMotif to the set of positions it was
// detected in, plus a per-game ply→motif-set map for sequence lookups.
type MotifIndex struct {
	mu       sync.RWMutex
	postings map[model.TacticalMotif]map[model.GamePosition]struct{}
	byGame   map[uint32]map[int]map[model.TacticalMotif]struct{}
}

// NewMotifIndex returns an empty MotifIndex.
func NewMotifIndex() *MotifIndex {
	return &MotifIndex{
		postings: make(map[model.TacticalMotif]map[model.GamePosition]struct{}),
		byGame:   make(map[uint32]map[int]map[model.TacticalMotif]struct{}),
	}
}

// Add records that motif was detected at gp.
func (idx *MotifIndex) Add(motif model.TacticalMotif, gp model.GamePosition) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	set, ok := idx.postings[motif]
	if !ok {
		set = make(map[model.GamePosition]struct{})
		idx.postings[motif] = set
	}
	set[gp] = struct{}{}

	byPly, ok := idx.byGame[gp.GameID]
	if !ok {
		byPly = make(map[int]map[model.TacticalMotif]struct{})
		idx.byGame[gp.GameID] = byPly
	}
	motifs, ok := byPly[gp.Ply]
	if !ok {
		motifs = make(map[model.TacticalMotif]struct{})
		byPly[gp.Ply] = motifs
	}
	motifs[motif] = struct{}{}
}

// Positions returns every GamePosition tagged with the given motif.
func (idx *MotifIndex) Positions(motif model.TacticalMotif) []model.GamePosition {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]model.GamePosition, 0, len(idx.postings[motif]))
	for gp := range idx.postings[motif] {
		out = append(out, gp)
	}
	return out
}

// GameIDs returns the posting set of game IDs that ever reached a
// position tagged with the given motif.
func (idx *MotifIndex) GameIDs(motif model.TacticalMotif) GameIDSet {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	set := make(GameIDSet)
	for gp := range idx.postings[motif] {
		set.Add(gp.GameID)
	}
	return set
}

// MotifsAtPly returns the motifs detected for gameID at ply.
func (idx *MotifIndex) MotifsAtPly(gameID uint32, ply int) []model.TacticalMotif {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	motifs := idx.byGame[gameID][ply]
	out := make([]model.TacticalMotif, 0, len(motifs))
	for m := range motifs {
		out = append(out, m)
	}
	return out
}
