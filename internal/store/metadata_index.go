package store

import (
	"strconv"
	"strings"
	"sync"

	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"
)

// MetadataIndex holds the offset→id map and the tag-derived inverted
// and range indexes: player, event, eco, result (inverted) and elo,
// date (queried by range). The elo and date maps are unordered Go maps;
// a range query scans every indexed key. It is the only index every ingest
// always builds, since Builder.Execute needs it to resolve candidate
// game IDs back to archive offsets.
type MetadataIndex struct {
	mu sync.RWMutex

	gameOffset map[uint32]uint64
	player     map[string]GameIDSet
	event      map[string]GameIDSet
	eco        map[string]GameIDSet
	result     map[string]GameIDSet
	elo        map[int]GameIDSet
	date       map[string]GameIDSet
}

// NewMetadataIndex returns an empty MetadataIndex.
func NewMetadataIndex() *MetadataIndex {
	return &MetadataIndex{
		gameOffset: make(map[uint32]uint64),
		player:     make(map[string]GameIDSet),
		event:      make(map[string]GameIDSet),
		eco:        make(map[string]GameIDSet),
		result:     make(map[string]GameIDSet),
		elo:        make(map[int]GameIDSet),
		date:       make(map[string]GameIDSet),
	}
}

// AddGame records a game's archive offset and derives postings from
// its tags. Player and event keys are lowercased and trimmed, ECO is
// uppercased, result is kept literal.
func (idx *MetadataIndex) AddGame(id uint32, offset uint64, tags *model.TagMap) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.gameOffset[id] = offset

	if white, ok := tags.Get("White"); ok {
		addTo(idx.player, normalizeKey(white), id)
	}
	if black, ok := tags.Get("Black"); ok {
		addTo(idx.player, normalizeKey(black), id)
	}
	if event, ok := tags.Get("Event"); ok {
		addTo(idx.event, normalizeKey(event), id)
	}
	if eco, ok := tags.Get("ECO"); ok && eco != "" {
		addTo(idx.eco, strings.ToUpper(strings.TrimSpace(eco)), id)
	}
	if result, ok := tags.Get("Result"); ok {
		addTo(idx.result, result, id)
	}
	if elo, ok := tags.Get("WhiteElo"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(elo)); err == nil {
			addToElo(idx.elo, n, id)
		}
	}
	if elo, ok := tags.Get("BlackElo"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(elo)); err == nil {
			addToElo(idx.elo, n, id)
		}
	}
	if date, ok := tags.Get("Date"); ok && date != "" {
		addTo(idx.date, date, id)
	}
}

func normalizeKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func addTo(m map[string]GameIDSet, key string, id uint32) {
	set, ok := m[key]
	if !ok {
		set = make(GameIDSet)
		m[key] = set
	}
	set.Add(id)
}

func addToElo(m map[int]GameIDSet, elo int, id uint32) {
	set, ok := m[elo]
	if !ok {
		set = make(GameIDSet)
		m[elo] = set
	}
	set.Add(id)
}

// Offset returns the archive offset for a game ID.
func (idx *MetadataIndex) Offset(id uint32) (uint64, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	off, ok := idx.gameOffset[id]
	return off, ok
}

// OffsetsSnapshot returns a copy of the full offset→id map, used by the
// query layer to enumerate "every game" when no predicate is active.
func (idx *MetadataIndex) OffsetsSnapshot() map[uint32]uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make(map[uint32]uint64, len(idx.gameOffset))
	for id, off := range idx.gameOffset {
		out[id] = off
	}
	return out
}

// GameCount returns the number of games recorded.
func (idx *MetadataIndex) GameCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.gameOffset)
}

// Players returns the posting set for a player name (case-insensitive,
// trimmed).
func (idx *MetadataIndex) Players(name string) GameIDSet {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.player[normalizeKey(name)].Clone()
}

// Events returns the posting set for an event name.
func (idx *MetadataIndex) Events(name string) GameIDSet {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.event[normalizeKey(name)].Clone()
}

// EventsContaining unions the posting sets for every indexed event name
// containing substr (case-insensitive), backing CQL's `event CONTAINS`.
func (idx *MetadataIndex) EventsContaining(substr string) GameIDSet {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	needle := normalizeKey(substr)
	var sets []GameIDSet
	for name, set := range idx.event {
		if strings.Contains(name, needle) {
			sets = append(sets, set)
		}
	}
	return UnionSets(sets...)
}

// ECO returns the posting set for an ECO code.
func (idx *MetadataIndex) ECO(code string) GameIDSet {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.eco[strings.ToUpper(strings.TrimSpace(code))].Clone()
}

// Results returns the posting set for a literal result string.
func (idx *MetadataIndex) Results(result string) GameIDSet {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.result[result].Clone()
}

// EloRange unions the posting sets for every indexed Elo value within
// [min, max] inclusive. Unspecified bounds should be passed as 0 and
// 3000 respectively, the full rating domain.
func (idx *MetadataIndex) EloRange(min, max int) GameIDSet {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var sets []GameIDSet
	for elo, set := range idx.elo {
		if elo >= min && elo <= max {
			sets = append(sets, set)
		}
	}
	return UnionSets(sets...)
}

// DateRange unions the posting sets for every indexed date string within
// [start, end] under lexicographic comparison — valid because dates are
// stored "YYYY.MM.DD".
func (idx *MetadataIndex) DateRange(start, end string) GameIDSet {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var sets []GameIDSet
	for date, set := range idx.date {
		if date >= start && date <= end {
			sets = append(sets, set)
		}
	}
	return UnionSets(sets...)
}

// Stats summarizes the metadata index, surfaced through Database.Stats.
type Stats struct {
	GameCount    int
	PlayerCount  int
	EventCount   int
	ECOCount     int
	MinElo       int
	MaxElo       int
	MinDate      string
	MaxDate      string
}

// Stats computes a snapshot of index-wide counts and ranges.
func (idx *MetadataIndex) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	s := Stats{
		GameCount:   len(idx.gameOffset),
		PlayerCount: len(idx.player),
		EventCount:  len(idx.event),
		ECOCount:    len(idx.eco),
	}
	first := true
	for elo := range idx.elo {
		if first || elo < s.MinElo {
			s.MinElo = elo
		}
		if first || elo > s.MaxElo {
			s.MaxElo = elo
		}
		first = false
	}
	first = true
	for date := range idx.date {
		if first || date < s.MinDate {
			s.MinDate = date
		}
		if first || date > s.MaxDate {
			s.MaxDate = date
		}
		first = false
	}
	return s
}
