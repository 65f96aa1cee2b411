package store

import (
	"sync"

	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/chess"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"
)

// MaterialIndex maps a material signature to the positions that have
// it, plus an imbalance index for range queries. The imbalance index is
// an unordered map; ImbalanceRange scans every key.
type MaterialIndex struct {
	mu          sync.RWMutex
	bySignature map[string][]model.GamePosition
	byImbalance map[int][]model.GamePosition
}

// NewMaterialIndex returns an empty MaterialIndex.
func NewMaterialIndex() *MaterialIndex {
	return &MaterialIndex{
		bySignature: make(map[string][]model.GamePosition),
		byImbalance: make(map[int][]model.GamePosition),
	}
}

// Add records gp under both its signature string and its imbalance.
func (idx *MaterialIndex) Add(sig chess.MaterialSignature, gp model.GamePosition) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.bySignature[sig.String()] = append(idx.bySignature[sig.String()], gp)
	idx.byImbalance[sig.Imbalance()] = append(idx.byImbalance[sig.Imbalance()], gp)
}

// BySignature returns every GamePosition with the given signature
// string (chess.MaterialSignature.String()).
func (idx *MaterialIndex) BySignature(sig string) []model.GamePosition {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	src := idx.bySignature[sig]
	out := make([]model.GamePosition, len(src))
	copy(out, src)
	return out
}

// ImbalanceRange returns every GamePosition whose imbalance falls in
// [min, max] inclusive.
func (idx *MaterialIndex) ImbalanceRange(min, max int) []model.GamePosition {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var out []model.GamePosition
	for imbalance, gps := range idx.byImbalance {
		if imbalance >= min && imbalance <= max {
			out = append(out, gps...)
		}
	}
	return out
}

// GameIDsBySignature returns the posting set of game IDs that ever
// reached the given material signature.
func (idx *MaterialIndex) GameIDsBySignature(sig string) GameIDSet {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	set := make(GameIDSet)
	for _, gp := range idx.bySignature[sig] {
		set.Add(gp.GameID)
	}
	return set
}
