package chess

import (
	"testing"

	"github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"
)

func hasMotif(tags []model.TacticalMotif, want model.TacticalMotif) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

// TestDetectForkKnightOnKingAndRook checks a classic fork shape: a
// white knight on c7 simultaneously attacks the black king on e8 and
// the black rook on a8.
func TestDetectForkKnightOnKingAndRook(t *testing.T) {
	pos, err := FromFEN("r3k3/2N5/8/8/8/8/4K3/8 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	if !hasMotif(DetectMotifs(pos), model.Fork) {
		t.Fatalf("expected FORK, got %v", DetectMotifs(pos))
	}
}

func TestDetectPinWeakerPieceInFrontOfStrongerPiece(t *testing.T) {
	pos, err := FromFEN("q7/8/8/8/n7/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	tags := DetectMotifs(pos)
	if !hasMotif(tags, model.Pin) {
		t.Fatalf("expected PIN, got %v", tags)
	}
	if hasMotif(tags, model.Skewer) {
		t.Fatalf("did not expect SKEWER alongside PIN: %v", tags)
	}
}

func TestDetectSkewerStrongerPieceInFrontOfWeakerPiece(t *testing.T) {
	pos, err := FromFEN("r7/8/8/8/q7/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	tags := DetectMotifs(pos)
	if !hasMotif(tags, model.Skewer) {
		t.Fatalf("expected SKEWER, got %v", tags)
	}
	if hasMotif(tags, model.Pin) {
		t.Fatalf("did not expect PIN alongside SKEWER: %v", tags)
	}
}

func TestDetectDoubleAttackTwoAttackersOneSquare(t *testing.T) {
	pos, err := FromFEN("8/8/8/4n3/8/8/8/B3Q3 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	if !hasMotif(DetectMotifs(pos), model.DoubleAttack) {
		t.Fatalf("expected DOUBLE_ATTACK, got %v", DetectMotifs(pos))
	}
}

func TestDetectMotifsReturnsNilOnQuietPosition(t *testing.T) {
	if tags := DetectMotifs(StartingPosition()); tags != nil {
		t.Fatalf("expected no motifs on the starting position, got %v", tags)
	}
}
