package chess

import (
	"testing"

	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"
)

func hasStructure(tags []model.PawnStructure, want model.PawnStructure) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

func classify(t *testing.T, fen string) []model.PawnStructure {
	t.Helper()
	pos, err := FromFEN(fen)
	if err != nil {
		t.Fatalf("FromFEN(%q): %v", fen, err)
	}
	return ClassifyPawnStructure(pos)
}

func TestClassifyNoPawnsIsNone(t *testing.T) {
	tags := classify(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if len(tags) != 1 || tags[0] != model.PawnStructureNone {
		t.Fatalf("got %v, want only NONE", tags)
	}
}

func TestClassifyIsolatedQueenPawn(t *testing.T) {
	tags := classify(t, "4k3/8/8/8/3P4/8/8/4K3 w - - 0 1")
	if !hasStructure(tags, model.IQP) {
		t.Fatalf("expected IQP, got %v", tags)
	}
}

func TestClassifyMaroczyBind(t *testing.T) {
	tags := classify(t, "4k3/8/8/8/2P1P2/8/8/4K3 w - - 0 1")
	if !hasStructure(tags, model.MaroczyBind) {
		t.Fatalf("expected MAROCZY_BIND, got %v", tags)
	}
}

func TestClassifyDoubledPawns(t *testing.T) {
	tags := classify(t, "4k3/8/8/8/8/P7/P7/4K3 w - - 0 1")
	if !hasStructure(tags, model.DoubledPawns) {
		t.Fatalf("expected DOUBLED_PAWNS, got %v", tags)
	}
}

func TestClassifyHangingPawns(t *testing.T) {
	tags := classify(t, "4k3/8/8/8/2PP4/8/8/4K3 w - - 0 1")
	if !hasStructure(tags, model.HangingPawns) {
		t.Fatalf("expected HANGING_PAWNS, got %v", tags)
	}
}

// TestClassifyPassedPawnScansTowardPromotionForBothColors is a
// regression test for the direction bug in hasPassedPawn: a black pawn
// on d5 must scan toward rank 1 (decreasing rank) to decide whether it
// is passed, not toward rank 8. A white pawn sitting on d6 — behind the
// black pawn from black's point of view — must not block it.
func TestClassifyPassedPawnScansTowardPromotionForBothColors(t *testing.T) {
	tags := classify(t, "4k3/8/3P4/3p4/8/8/8/4K3 w - - 0 1")
	if !hasStructure(tags, model.PassedPawn) {
		t.Fatalf("expected PASSED_PAWN (black pawn d5 unblocked toward rank 1), got %v", tags)
	}

	// The white d6 pawn is itself passed, so the tag above holds either
	// way; check the black side's scan directly.
	var white, black pawnBoard
	white[3][5] = true
	black[3][4] = true
	if !hasPassedPawn(black, white, false) {
		t.Fatalf("black pawn on d5 with a white pawn on d6 should be passed toward rank 1")
	}
}
