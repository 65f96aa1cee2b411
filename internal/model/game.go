package model

// Move is one ply: the SAN token as read from PGN, verbatim, plus the
// most recent brace comment that followed it, if any.
type Move struct {
	SAN     string
	Comment string
}

// HasComment reports whether the move carries a non-empty comment.
func (m Move) HasComment() bool { return m.Comment != "" }

// sevenTagRoster lists the tags every Game guarantees, with their
// default values when the source PGN omits them.
var sevenTagRoster = []struct {
	key, def string
}{
	{"Event", "?"},
	{"Site", "?"},
	{"Date", "????.??.??"},
	{"Round", "?"},
	{"White", "?"},
	{"Black", "?"},
	{"Result", "*"},
}

// Game is an immutable parsed game: an ingest-assigned ID, its PGN tag
// pairs in first-occurrence order, and its move sequence.
type Game struct {
	ID    uint32
	Tags  *TagMap
	Moves []Move
}

// NewGame fills in Seven Tag Roster defaults for any tag TagMap is
// missing, then returns a Game wrapping it.
func NewGame(id uint32, tags *TagMap, moves []Move) *Game {
	if tags == nil {
		tags = NewTagMap()
	}
	for _, t := range sevenTagRoster {
		if _, ok := tags.Get(t.key); !ok {
			tags.Set(t.key, t.def)
		}
	}
	return &Game{ID: id, Tags: tags, Moves: moves}
}

// Tag returns a tag value, or "" if absent.
func (g *Game) Tag(key string) string {
	v, _ := g.Tags.Get(key)
	return v
}

// TagOr returns a tag value, or def if absent.
func (g *Game) TagOr(key, def string) string {
	if v, ok := g.Tags.Get(key); ok {
		return v
	}
	return def
}

func (g *Game) Event() string  { return g.TagOr("Event", "?") }
func (g *Game) Site() string   { return g.TagOr("Site", "?") }
func (g *Game) Date() string   { return g.TagOr("Date", "????.??.??") }
func (g *Game) Round() string  { return g.TagOr("Round", "?") }
func (g *Game) White() string  { return g.TagOr("White", "?") }
func (g *Game) Black() string  { return g.TagOr("Black", "?") }
func (g *Game) Result() string { return g.TagOr("Result", "*") }
func (g *Game) ECO() string    { return g.Tag("ECO") }

// GamePosition identifies one reached position by game and ply, carrying
// its FEN so indexes can reconstruct it without replaying the archive.
// Two GamePositions are equal exactly when GameID and Ply match; ply 0
// is the starting position, ply k is the position after k half-moves.
type GamePosition struct {
	GameID uint32
	Ply    int
	FEN    string
}
