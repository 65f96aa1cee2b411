package store

import (
	"sync"

	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"
)

// SeqEntry is one entry in a game's move sequence, as exposed by
// MoveIndex.Sequence for ordered lookups.
type SeqEntry struct {
	SAN string
	Ply int
	FEN string
}

// MoveIndex maps each SAN string to the set of positions reached by
// playing it, plus a per-game ordered move sequence for replay-order
// lookups.
type MoveIndex struct {
	mu     sync.RWMutex
	bySAN  map[string]map[model.GamePosition]struct{}
	byGame map[uint32][]SeqEntry
}

// NewMoveIndex returns an empty MoveIndex.
func NewMoveIndex() *MoveIndex {
	return &MoveIndex{
		bySAN:  make(map[string]map[model.GamePosition]struct{}),
		byGame: make(map[uint32][]SeqEntry),
	}
}

// Add records that san was played, reaching gp.
func (idx *MoveIndex) Add(san string, gp model.GamePosition) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	set, ok := idx.bySAN[san]
	if !ok {
		set = make(map[model.GamePosition]struct{})
		idx.bySAN[san] = set
	}
	set[gp] = struct{}{}

	idx.byGame[gp.GameID] = append(idx.byGame[gp.GameID], SeqEntry{SAN: san, Ply: gp.Ply, FEN: gp.FEN})
}

// FindMove returns every GamePosition reached by playing san.
func (idx *MoveIndex) FindMove(san string) []model.GamePosition {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]model.GamePosition, 0, len(idx.bySAN[san]))
	for gp := range idx.bySAN[san] {
		out = append(out, gp)
	}
	return out
}

// GameIDs returns the posting set of game IDs that ever played san.
func (idx *MoveIndex) GameIDs(san string) GameIDSet {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	set := make(GameIDSet)
	for gp := range idx.bySAN[san] {
		set.Add(gp.GameID)
	}
	return set
}

// Sequence returns a game's moves in ply order.
func (idx *MoveIndex) Sequence(gameID uint32) []SeqEntry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	src := idx.byGame[gameID]
	out := make([]SeqEntry, len(src))
	copy(out, src)
	return out
}
