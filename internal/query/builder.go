// Package query implements the fluent predicate builder and execution
// engine: a query is a conjunction of filters over a fixed set of
// predicate slots, executed by intersecting index posting sets and
// resolving the surviving game IDs through the archive.
package query

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/chess"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/store"
)

// Builder accumulates predicates over a fixed set of slots: player,
// event, eco, result, min_elo, max_elo, start_date, end_date, fen,
// pawn_structure, commentary, san_move, motif. Execute() intersects
// their posting sets; Count() does the same without reading games back.
type Builder struct {
	indexes *store.IndexSet
	reader  *store.Reader
	log     zerolog.Logger

	predicates []predicate
}

// predicate is one active filter, resolved to a posting set lazily so
// Execute/Count can short-circuit as soon as any predicate is empty.
type predicate struct {
	name    string
	resolve func() store.GameIDSet
}

// New returns a Builder reading postings from indexes and games from
// reader.
func New(indexes *store.IndexSet, reader *store.Reader, log zerolog.Logger) *Builder {
	return &Builder{indexes: indexes, reader: reader, log: log}
}

func (b *Builder) add(name string, resolve func() store.GameIDSet) *Builder {
	b.predicates = append(b.predicates, predicate{name: name, resolve: resolve})
	return b
}

// Player filters to games either side of which matches name
// (case-insensitive, trimmed).
func (b *Builder) Player(name string) *Builder {
	return b.add("player", func() store.GameIDSet { return b.indexes.Metadata.Players(name) })
}

// Event filters to games tagged with the given event name.
func (b *Builder) Event(name string) *Builder {
	return b.add("event", func() store.GameIDSet { return b.indexes.Metadata.Events(name) })
}

// EventContains filters to games whose event name contains substr
// (case-insensitive), backing CQL's `event CONTAINS`.
func (b *Builder) EventContains(substr string) *Builder {
	return b.add("event_contains", func() store.GameIDSet { return b.indexes.Metadata.EventsContaining(substr) })
}

// ECO filters to games tagged with the given ECO code.
func (b *Builder) ECO(code string) *Builder {
	return b.add("eco", func() store.GameIDSet { return b.indexes.Metadata.ECO(code) })
}

// Result filters to games with the given literal result string.
func (b *Builder) Result(result string) *Builder {
	return b.add("result", func() store.GameIDSet { return b.indexes.Metadata.Results(result) })
}

// EloRange filters to games with an indexed WhiteElo or BlackElo within
// [min, max] inclusive.
func (b *Builder) EloRange(min, max int) *Builder {
	return b.add("elo", func() store.GameIDSet { return b.indexes.Metadata.EloRange(min, max) })
}

// DateRange filters to games whose Date tag falls within
// [start, end] lexicographically (ISO-like "YYYY.MM.DD" strings).
func (b *Builder) DateRange(start, end string) *Builder {
	return b.add("date", func() store.GameIDSet { return b.indexes.Metadata.DateRange(start, end) })
}

// FEN filters to games that ever reached exactly this position (full
// FEN string, matched by Zobrist hash and then exact FEN equality to
// filter out hash collisions).
func (b *Builder) FEN(fen string) *Builder {
	return b.add("fen", func() store.GameIDSet {
		pos, err := chess.FromFEN(fen)
		if err != nil {
			b.log.Warn().Err(err).Str("fen", fen).Msg("query: malformed FEN predicate")
			return store.GameIDSet{}
		}
		hash := chess.Hash(pos)
		set := make(store.GameIDSet)
		for _, gp := range b.indexes.Position.Lookup(hash) {
			if gp.FEN == pos.ToFEN() {
				set.Add(gp.GameID)
			}
		}
		return set
	})
}

// PawnStructureTag filters to games that ever reached a position tagged
// with the given pawn structure.
func (b *Builder) PawnStructureTag(tag model.PawnStructure) *Builder {
	return b.add("pawn_structure", func() store.GameIDSet { return b.indexes.Structure.GameIDs(tag) })
}

// Commentary filters to games with a move comment containing token (a
// single token match; CQL's CONTAINS lowers a phrase to an AND of these).
func (b *Builder) Commentary(token string) *Builder {
	return b.add("commentary", func() store.GameIDSet { return b.indexes.Comment.GameIDs(token) })
}

// SANMove filters to games that ever played the exact SAN string.
func (b *Builder) SANMove(san string) *Builder {
	return b.add("san_move", func() store.GameIDSet { return b.indexes.Move.GameIDs(san) })
}

// Motif filters to games that ever reached a position tagged with the
// given tactical motif.
func (b *Builder) Motif(tag model.TacticalMotif) *Builder {
	return b.add("motif", func() store.GameIDSet { return b.indexes.Motif.GameIDs(tag) })
}

// candidateIDs resolves every predicate's posting set and intersects
// them, short-circuiting to empty as soon as one predicate is empty.
// No active predicates matches every game that has an archive offset.
func (b *Builder) candidateIDs() store.GameIDSet {
	if len(b.predicates) == 0 {
		set := make(store.GameIDSet)
		for id := range b.indexes.Metadata.OffsetsSnapshot() {
			set.Add(id)
		}
		return set
	}
	sets := make([]store.GameIDSet, 0, len(b.predicates))
	for _, p := range b.predicates {
		set := p.resolve()
		if len(set) == 0 {
			return store.GameIDSet{}
		}
		sets = append(sets, set)
	}
	return store.IntersectSets(sets...)
}

// Execute runs the query: intersect posting sets, resolve candidates to
// archive offsets, and read each game back. Read errors are logged and
// skipped rather than aborting the query.
func (b *Builder) Execute() ([]*model.Game, error) {
	if b.reader == nil {
		return nil, fmt.Errorf("query: builder has no archive reader")
	}
	candidates := b.candidateIDs()
	games := make([]*model.Game, 0, len(candidates))
	for id := range candidates {
		offset, ok := b.indexes.Metadata.Offset(id)
		if !ok {
			b.log.Warn().Uint32("game_id", id).Msg("query: no archive offset for candidate game")
			continue
		}
		tags, moves, err := b.reader.ReadAt(offset)
		if err != nil {
			b.log.Warn().Uint32("game_id", id).Err(err).Msg("query: failed to read game, skipping")
			continue
		}
		games = append(games, model.NewGame(id, tags, moves))
	}
	return games, nil
}

// Count returns the size of the predicate intersection without reading
// any games back.
func (b *Builder) Count() int {
	return len(b.candidateIDs())
}

// Union returns a Builder-like result representing b's results unioned
// with other's: both sides are evaluated independently and their game
// ID sets are unioned. Union reads games back immediately since there
// is no single posting set left to chain further predicates onto.
func (b *Builder) Union(other *Builder) ([]*model.Game, error) {
	left := b.candidateIDs()
	right := other.candidateIDs()
	merged := store.UnionSets(left, right)

	games := make([]*model.Game, 0, len(merged))
	for id := range merged {
		offset, ok := b.indexes.Metadata.Offset(id)
		if !ok {
			b.log.Warn().Uint32("game_id", id).Msg("query: no archive offset for candidate game during union")
			continue
		}
		tags, moves, err := b.reader.ReadAt(offset)
		if err != nil {
			b.log.Warn().Uint32("game_id", id).Err(err).Msg("query: failed to read game during union, skipping")
			continue
		}
		games = append(games, model.NewGame(id, tags, moves))
	}
	return games, nil
}
