package query

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"

	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/config"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/store"
)

type testGame struct {
	white, black, result string
	elo                  int
	moves                []model.Move
}

// newTestDB ingests games into a fresh in-memory archive and returns a
// predicate-free Builder reading it back, plus the raw IndexSet for
// assertions that bypass the query layer.
func newTestDB(t *testing.T, games []testGame) (*Builder, *store.IndexSet) {
	t.Helper()
	var buf bytes.Buffer
	w, err := store.NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	indexes := store.NewIndexSet()
	ib := store.NewBuilder(w, indexes, config.DefaultFlags(), zerolog.Nop())

	for _, g := range games {
		tags := model.NewTagMap()
		tags.Set("White", g.white)
		tags.Set("Black", g.black)
		tags.Set("Result", g.result)
		if g.elo != 0 {
			tags.Set("WhiteElo", itoa(g.elo))
		}
		if _, err := ib.IngestGame(tags, g.moves); err != nil {
			t.Fatalf("IngestGame: %v", err)
		}
	}

	reader, err := store.NewReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	return New(indexes, reader, zerolog.Nop()), indexes
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// TestPlayerAndResultIntersection checks that a player filter
// intersected with a result filter picks out exactly the one game
// where that player won.
func TestPlayerAndResultIntersection(t *testing.T) {
	b, _ := newTestDB(t, []testGame{
		{white: "Carlsen, Magnus", black: "X, Y", result: "1-0"},
		{white: "X, Y", black: "Carlsen, Magnus", result: "0-1"},
		{white: "Kasparov, Garry", black: "Y, Z", result: "1/2-1/2"},
	})

	games, err := b.Player("Carlsen, Magnus").Result("1-0").Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("got %d games, want 1", len(games))
	}
	if games[0].White() != "Carlsen, Magnus" {
		t.Fatalf("got white=%q, want Carlsen, Magnus", games[0].White())
	}
}

// TestEloRangeExcludesOutOfBand checks that an elo > 2700 AND
// elo < 2800 range keeps the 2750-rated game and drops the 2680-rated
// one.
func TestEloRangeExcludesOutOfBand(t *testing.T) {
	b, _ := newTestDB(t, []testGame{
		{white: "A", black: "B", result: "*", elo: 2750},
		{white: "C", black: "D", result: "*", elo: 2680},
	})

	games, err := b.EloRange(2701, 2799).Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("got %d games, want 1", len(games))
	}
	if games[0].Tag("WhiteElo") != "2750" {
		t.Fatalf("got white elo=%q, want 2750", games[0].Tag("WhiteElo"))
	}
}

// TestNoPredicatesMatchesEveryGame exercises the candidateIDs special
// case: an empty Builder returns every ingested game.
func TestNoPredicatesMatchesEveryGame(t *testing.T) {
	b, _ := newTestDB(t, []testGame{
		{white: "A", black: "B", result: "*"},
		{white: "C", black: "D", result: "*"},
	})

	if b.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", b.Count())
	}
}

// TestEmptyPredicateShortCircuits checks that an unmatched predicate
// yields zero results without erroring.
func TestEmptyPredicateShortCircuits(t *testing.T) {
	b, _ := newTestDB(t, []testGame{
		{white: "A", black: "B", result: "*"},
	})

	games, err := b.Player("Nobody").Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("got %d games, want 0", len(games))
	}
}

// TestUnionCombinesDisjointFilters exercises the OR escape hatch: two
// independently-resolved Builders' results merge without duplicates.
func TestUnionCombinesDisjointFilters(t *testing.T) {
	b, indexes := newTestDB(t, []testGame{
		{white: "Carlsen, Magnus", black: "A", result: "1-0"},
		{white: "B", black: "Kasparov, Garry", result: "0-1"},
		{white: "C", black: "D", result: "1/2-1/2"},
	})

	left := b.Player("Carlsen, Magnus")
	right := New(indexes, b.reader, zerolog.Nop()).Player("Kasparov, Garry")

	games, err := left.Union(right)
	if err != nil {
		t.Fatalf("Union: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}
}
