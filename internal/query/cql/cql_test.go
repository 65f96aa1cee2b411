package cql

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"

	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/config"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/query"
	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/store"
)

func TestLexBasic(t *testing.T) {
	tokens, err := Lex(`player = "Carlsen, Magnus" AND elo >= 2700`)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	wantKinds := []TokenKind{
		TokenIdent, TokenOp, TokenString, TokenAnd, TokenIdent, TokenOp, TokenNumber, TokenEOF,
	}
	if len(tokens) != len(wantKinds) {
		t.Fatalf("got %d tokens, want %d: %+v", len(tokens), len(wantKinds), tokens)
	}
	for i, want := range wantKinds {
		if tokens[i].Kind != want {
			t.Fatalf("token %d kind = %v, want %v (%+v)", i, tokens[i].Kind, want, tokens[i])
		}
	}
}

func TestLexUnterminatedStringIsError(t *testing.T) {
	if _, err := Lex(`player = "Carlsen`); err == nil {
		t.Fatal("expected LexError for unterminated string")
	}
}

func TestLexUnknownCharacterIsError(t *testing.T) {
	if _, err := Lex(`player ~ "x"`); err == nil {
		t.Fatal("expected LexError for unknown character '~'")
	}
}

func TestParsePrecedenceAndGrouping(t *testing.T) {
	expr, err := Parse(`player = "A" AND result = "1-0" OR player = "B"`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	top, ok := expr.(*BinaryExpr)
	if !ok || top.Op != OpOr {
		t.Fatalf("top-level node = %#v, want OR (AND binds tighter than OR)", expr)
	}
	left, ok := top.Left.(*BinaryExpr)
	if !ok || left.Op != OpAnd {
		t.Fatalf("left side = %#v, want AND", top.Left)
	}
}

func TestParseParenthesesOverridePrecedence(t *testing.T) {
	expr, err := Parse(`player = "A" AND (result = "1-0" OR result = "0-1")`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	top, ok := expr.(*BinaryExpr)
	if !ok || top.Op != OpAnd {
		t.Fatalf("top-level node = %#v, want AND", expr)
	}
	right, ok := top.Right.(*BinaryExpr)
	if !ok || right.Op != OpOr {
		t.Fatalf("right side = %#v, want OR", top.Right)
	}
}

func TestParseIncompleteComparisonIsSyntaxError(t *testing.T) {
	if _, err := Parse(`player CONTAINS`); err == nil {
		t.Fatal("expected parse error for incomplete comparison")
	}
}

// testGame mirrors the unexported helper in the query package's own
// tests; cql_test.go needs its own copy since it drives the store
// layer directly to build a fixture database.
type testGame struct {
	white, black, event, result, date, eco string
	elo                                    int
	moves                                  []model.Move
}

func buildTestDB(t *testing.T, games []testGame) (*store.IndexSet, *store.Reader) {
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
		if g.event != "" {
			tags.Set("Event", g.event)
		}
		if g.date != "" {
			tags.Set("Date", g.date)
		}
		if g.eco != "" {
			tags.Set("ECO", g.eco)
		}
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
	return indexes, reader
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

// TestCQLEquivalence checks that, for each of player, event, eco,
// result, date, elo, compiling `field=X` through the lexer/parser/
// compiler yields the same result set as calling the equivalent
// query.Builder method directly.
func TestCQLEquivalence(t *testing.T) {
	indexes, reader := buildTestDB(t, []testGame{
		{white: "Carlsen, Magnus", black: "X, Y", result: "1-0", event: "Superbet Chess Classic", date: "2024.05.10", eco: "B90", elo: 2830},
		{white: "X, Y", black: "Carlsen, Magnus", result: "0-1", event: "Other Open", date: "2023.01.01", elo: 2400},
	})

	cases := []struct {
		name   string
		cql    string
		direct func() *query.Builder
	}{
		{"player", `player = "Carlsen, Magnus"`, func() *query.Builder {
			return query.New(indexes, reader, zerolog.Nop()).Player("Carlsen, Magnus")
		}},
		{"event", `event = "Other Open"`, func() *query.Builder {
			return query.New(indexes, reader, zerolog.Nop()).Event("Other Open")
		}},
		{"eco", `eco = "B90"`, func() *query.Builder {
			return query.New(indexes, reader, zerolog.Nop()).ECO("B90")
		}},
		{"result", `result = "1-0"`, func() *query.Builder {
			return query.New(indexes, reader, zerolog.Nop()).Result("1-0")
		}},
		{"date", `date = "2024.05.10"`, func() *query.Builder {
			return query.New(indexes, reader, zerolog.Nop()).DateRange("2024.05.10", "2024.05.10")
		}},
		{"elo_eq", `elo = 2830`, func() *query.Builder {
			return query.New(indexes, reader, zerolog.Nop()).EloRange(2830, 2830)
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			expr, err := Parse(c.cql)
			if err != nil {
				t.Fatalf("Parse(%q): %v", c.cql, err)
			}
			run, err := Compile(expr, indexes, reader, zerolog.Nop())
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			got, err := run()
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			want, err := c.direct().Execute()
			if err != nil {
				t.Fatalf("direct Execute: %v", err)
			}
			if len(got) != len(want) {
				t.Fatalf("%s: got %d games, want %d", c.name, len(got), len(want))
			}
			gotIDs := map[uint32]bool{}
			for _, g := range got {
				gotIDs[g.ID] = true
			}
			for _, g := range want {
				if !gotIDs[g.ID] {
					t.Fatalf("%s: game %d present in direct result but not CQL result", c.name, g.ID)
				}
			}
		})
	}
}

// TestCQLEloComparisonBounds checks the strict elo bound adjustment
// rule: '>' raises min_elo by one beyond the literal, so a game rated
// exactly 2700 is excluded by `elo > 2700`.
func TestCQLEloComparisonBounds(t *testing.T) {
	indexes, reader := buildTestDB(t, []testGame{
		{white: "A", black: "B", result: "*", elo: 2700},
		{white: "C", black: "D", result: "*", elo: 2701},
	})

	expr, err := Parse(`elo > 2700`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	run, err := Compile(expr, indexes, reader, zerolog.Nop())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	games, err := run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(games) != 1 || games[0].Tag("WhiteElo") != "2701" {
		t.Fatalf("elo > 2700 = %+v, want only the 2701 game", games)
	}
}

// TestCQLAndConjunction exercises the scenario-5-style range query
// expressed directly in CQL: elo > 2700 AND elo < 2800 should keep a
// 2750-rated game and drop games outside that band.
func TestCQLAndConjunction(t *testing.T) {
	indexes, reader := buildTestDB(t, []testGame{
		{white: "A", black: "B", result: "*", elo: 2750},
		{white: "C", black: "D", result: "*", elo: 2680},
	})

	expr, err := Parse(`elo > 2700 AND elo < 2800`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	run, err := Compile(expr, indexes, reader, zerolog.Nop())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	games, err := run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(games) != 1 || games[0].Tag("WhiteElo") != "2750" {
		t.Fatalf("elo > 2700 AND elo < 2800 = %+v, want only the 2750 game", games)
	}
}

// TestCQLOrUnion checks that OR at the top level merges two otherwise
// disjoint player filters.
func TestCQLOrUnion(t *testing.T) {
	indexes, reader := buildTestDB(t, []testGame{
		{white: "Carlsen, Magnus", black: "A", result: "1-0"},
		{white: "B", black: "Kasparov, Garry", result: "0-1"},
		{white: "C", black: "D", result: "1/2-1/2"},
	})

	expr, err := Parse(`player = "Carlsen, Magnus" OR player = "Kasparov, Garry"`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	run, err := Compile(expr, indexes, reader, zerolog.Nop())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	games, err := run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}
}

// TestCQLUnknownFieldIsCompileError checks that an unrecognized field
// rejects the query rather than silently matching nothing or
// everything.
func TestCQLUnknownFieldIsCompileError(t *testing.T) {
	indexes, reader := buildTestDB(t, nil)
	expr, err := Parse(`opening_name = "Sicilian"`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := Compile(expr, indexes, reader, zerolog.Nop()); err == nil {
		t.Fatal("expected CompileError for unknown field")
	}
}

// TestCQLBadOperatorOnKnownFieldIsCompileError checks that a field
// which only supports '=' rejects an inequality operator.
func TestCQLBadOperatorOnKnownFieldIsCompileError(t *testing.T) {
	indexes, reader := buildTestDB(t, nil)
	expr, err := Parse(`player > "A"`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := Compile(expr, indexes, reader, zerolog.Nop()); err == nil {
		t.Fatal("expected CompileError for '>' on player")
	}
}
