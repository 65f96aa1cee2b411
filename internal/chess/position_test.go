package chess

import "testing"

func TestSquareAlgebraicRoundTrip(t *testing.T) {
	for file := 0; file < 8; file++ {
		for rank := 0; rank < 8; rank++ {
			sq := NewSquare(file, rank)
			got := ParseSquare(sq.String())
			if got != sq {
				t.Fatalf("round trip %d,%d: got %v, want %v", file, rank, got, sq)
			}
		}
	}
}

func TestStartingPositionFEN(t *testing.T) {
	want := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	got := StartingPosition().ToFEN()
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
		"rnbq1rk1/ppp2ppp/3p1n2/2bPp3/2P5/2N2N2/PP2PPPP/R1BQKB1R b - - 0 7",
	}
	for _, fen := range fens {
		pos, err := FromFEN(fen)
		if err != nil {
			t.Fatalf("FromFEN(%q): %v", fen, err)
		}
		if got := pos.ToFEN(); got != fen {
			t.Fatalf("round trip %q, got %q", fen, got)
		}
	}
}

func TestZobristHashStableAndDistinguishesPositions(t *testing.T) {
	start := StartingPosition()
	h1 := Hash(start)
	h2 := Hash(start.Clone())
	if h1 != h2 {
		t.Fatalf("hash not stable across clones: %d != %d", h1, h2)
	}

	e := Engine{}
	next, _, err := e.Apply(start, "e4")
	if err != nil {
		t.Fatalf("Apply e4: %v", err)
	}
	if Hash(next) == h1 {
		t.Fatal("hash did not change after a move")
	}
}

func TestZobristHashMatchesAcrossTranspositionViaFEN(t *testing.T) {
	// 1.Nf3 Nf6 2.Ng1 Ng8 transposes back to the starting position
	// (modulo fullmove/halfmove clocks, which Equal and Hash both
	// ignore), and FEN round-tripping it should hash identically too.
	start := StartingPosition()
	e := Engine{}

	pos := start
	for _, san := range []string{"Nf3", "Nf6", "Ng1", "Ng8"} {
		next, _, err := e.Apply(pos, san)
		if err != nil {
			t.Fatalf("Apply(%q): %v", san, err)
		}
		pos = next
	}

	if !pos.Equal(start) {
		t.Fatalf("transposed position not Equal to start: %s", pos.ToFEN())
	}
	if Hash(pos) != Hash(start) {
		t.Fatalf("transposed position hash %d != start hash %d", Hash(pos), Hash(start))
	}

	reparsed, err := FromFEN(pos.ToFEN())
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	if Hash(reparsed) != Hash(pos) {
		t.Fatalf("hash changed across a FEN round trip")
	}
}

func TestRuyLopezReplay(t *testing.T) {
	moves := []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6", "Ba4", "Nf6", "O-O"}
	pos := StartingPosition()
	e := Engine{}
	for _, san := range moves {
		next, _, err := e.Apply(pos, san)
		if err != nil {
			t.Fatalf("Apply(%q): %v", san, err)
		}
		pos = next
	}
	if pos.CastlingRights&(WhiteKingside|WhiteQueenside) != 0 {
		t.Fatalf("white castling rights = %#x, want cleared", pos.CastlingRights)
	}
	if pos.CastlingRights&(BlackKingside|BlackQueenside) != (BlackKingside | BlackQueenside) {
		t.Fatalf("black castling rights = %#x, want 0xC (both intact)", pos.CastlingRights)
	}
	if pos.Piece(G1) != WhiteKing || pos.Piece(F1) != WhiteRook {
		t.Fatalf("white king/rook not castled: g1=%v f1=%v", pos.Piece(G1), pos.Piece(F1))
	}
}

func TestEnPassantCaptureSetsTargetAndRemovesPawn(t *testing.T) {
	pos := StartingPosition()
	e := Engine{}

	for _, san := range []string{"e4", "d5", "e5", "f5"} {
		next, _, err := e.Apply(pos, san)
		if err != nil {
			t.Fatalf("Apply(%q): %v", san, err)
		}
		pos = next
	}
	if pos.EnPassant != F6 {
		t.Fatalf("en passant target = %v, want f6", pos.EnPassant)
	}

	next, applied, err := e.Apply(pos, "exf6")
	if err != nil {
		t.Fatalf("Apply(exf6): %v", err)
	}
	if applied.To != F6 {
		t.Fatalf("applied.To = %v, want f6", applied.To)
	}
	if next.Piece(F6) != WhitePawn {
		t.Fatalf("f6 = %v, want white pawn", next.Piece(F6))
	}
	if next.Piece(F5) != NoPiece {
		t.Fatalf("f5 = %v, want empty (captured pawn removed)", next.Piece(F5))
	}
}

func TestPromotion(t *testing.T) {
	pos, err := FromFEN("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	e := Engine{}
	next, applied, err := e.Apply(pos, "a8=Q")
	if err != nil {
		t.Fatalf("Apply(a8=Q): %v", err)
	}
	if applied.Promotion != Queen {
		t.Fatalf("applied.Promotion = %d, want Queen", applied.Promotion)
	}
	if next.Piece(A8) != WhiteQueen {
		t.Fatalf("a8 = %v, want white queen", next.Piece(A8))
	}
}
