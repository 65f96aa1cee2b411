package pgn

import (
	"strings"
	"testing"
)

const wellFormedA = `[Event "Test Open"]
[Site "Somewhere"]
[Date "2024.01.01"]
[Round "1"]
[White "Carlsen, Magnus"]
[Black "Example, X"]
[Result "1-0"]

1. e4 e5 2. Nf3 Nc6 3. Bb5 {the Ruy Lopez} a6 4. Ba4 Nf6 5. O-O 1-0
`

const malformed = `[Event "Broken
1. e4 e5
`

const wellFormedB = `[Event "Round 2"]
[Site "Elsewhere"]
[Date "2024.01.02"]
[Round "2"]
[White "Kasparov, Garry"]
[Black "Example, Y"]
[Result "1/2-1/2"]

1. d4 d5 1/2-1/2
`

func TestParseTolerance(t *testing.T) {
	input := wellFormedA + "\n" + malformed + "\n" + wellFormedB
	p := NewParser()
	games := p.Parse(strings.NewReader(input))

	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}
	if p.Errors() == nil || len(p.Errors()) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(p.Errors()), p.Errors())
	}

	white, _ := games[0].Tags.Get("White")
	if white != "Carlsen, Magnus" {
		t.Errorf("games[0].White = %q", white)
	}
	white2, _ := games[1].Tags.Get("White")
	if white2 != "Kasparov, Garry" {
		t.Errorf("games[1].White = %q", white2)
	}
}

func TestMovesAndComments(t *testing.T) {
	p := NewParser()
	games := p.Parse(strings.NewReader(wellFormedA))
	if len(games) != 1 {
		t.Fatalf("got %d games, want 1", len(games))
	}
	moves := games[0].Moves
	wantSAN := []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6", "Ba4", "Nf6", "O-O"}
	if len(moves) != len(wantSAN) {
		t.Fatalf("got %d moves, want %d: %v", len(moves), len(wantSAN), moves)
	}
	for i, san := range wantSAN {
		if moves[i].SAN != san {
			t.Errorf("move[%d].SAN = %q, want %q", i, moves[i].SAN, san)
		}
	}
	if moves[4].Comment != "the Ruy Lopez" {
		t.Errorf("move[4].Comment = %q, want %q", moves[4].Comment, "the Ruy Lopez")
	}
}

func TestTagsExtractedInOrder(t *testing.T) {
	p := NewParser()
	games := p.Parse(strings.NewReader("[Event \"X\"]\n\n1. e4 1-0\n"))
	if len(games) != 1 {
		t.Fatalf("got %d games", len(games))
	}
	if v, _ := games[0].Tags.Get("Event"); v != "X" {
		t.Errorf("Event = %q", v)
	}
}
