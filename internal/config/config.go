// Package config holds the ingest-time feature flags controlling which
// index families an IndexBuilder constructs while replaying a game's
// moves. Flags are resolved once, at Database construction, and apply
// to every game ingested through that handle.
package config

// Flags controls which indexes an ingest run builds. The archive and
// metadata index are always built; everything else is opt-in because it
// costs a full move replay per game.
type Flags struct {
	// EnablePositionIndexing builds the position (Zobrist), material,
	// and pawn-structure indexes. Move and motif indexing both require
	// this to be set, since they need the replayed Position stream.
	EnablePositionIndexing bool

	// EnableCommentIndexing builds the inverted comment-token index.
	// Independent of EnablePositionIndexing. Comments are indexed during
	// move replay, so comments on moves after a replay failure are not
	// indexed.
	EnableCommentIndexing bool

	// EnableMoveIndexing builds the SAN move index and per-game move
	// sequence map. Requires EnablePositionIndexing.
	EnableMoveIndexing bool

	// EnableMotifIndexing builds the tactical-motif index and per-game
	// ply→motif map. Requires EnablePositionIndexing.
	EnableMotifIndexing bool
}

// DefaultFlags returns the flag set a plain Open/Ingest call uses when
// the caller doesn't specify one: every index family enabled. Disabling
// indexing is an opt-out for ingest speed, not the default.
func DefaultFlags() Flags {
	return Flags{
		EnablePositionIndexing: true,
		EnableCommentIndexing:  true,
		EnableMoveIndexing:     true,
		EnableMotifIndexing:    true,
	}
}

// Normalize enforces the dependency EnableMoveIndexing and
// EnableMotifIndexing have on EnablePositionIndexing — both need the
// replayed Position stream — returning a corrected copy rather than
// mutating the receiver.
func (f Flags) Normalize() Flags {
	if !f.EnablePositionIndexing {
		f.EnableMoveIndexing = false
		f.EnableMotifIndexing = false
	}
	return f
}
