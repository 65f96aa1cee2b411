package chess

import "github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"

// rayDirections lists the 8 compass (file, rank) steps a sliding piece
// can walk.
var rayDirections = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

var bishopDirections = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
var rookDirections = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

func directionsFor(pieceType int) [][2]int {
	switch pieceType {
	case Bishop:
		return bishopDirections[:]
	case Rook:
		return rookDirections[:]
	case Queen:
		return rayDirections[:]
	default:
		return nil
	}
}

// DetectMotifs returns the union of every tactical motif detector that
// triggers on p, or nil if none do.
func DetectMotifs(p *Position) []model.TacticalMotif {
	var tags []model.TacticalMotif
	pin, skewer := detectPinsAndSkewers(p)
	if pin {
		tags = append(tags, model.Pin)
	}
	if skewer {
		tags = append(tags, model.Skewer)
	}
	if detectFork(p) {
		tags = append(tags, model.Fork)
	}
	if detectDoubleAttack(p) {
		tags = append(tags, model.DoubleAttack)
	}
	return tags
}

// detectPinsAndSkewers walks every sliding attacker's rays and
// classifies the first two pieces found along each ray.
func detectPinsAndSkewers(p *Position) (pin, skewer bool) {
	for sq := A1; sq <= H8; sq++ {
		attacker := p.Board[sq]
		if attacker == NoPiece {
			continue
		}
		dirs := directionsFor(attacker.Type())
		if dirs == nil {
			continue
		}
		for _, d := range dirs {
			front, back, ok := firstTwoAlongRay(p, sq, d)
			if !ok {
				continue
			}
			if front.Color() == attacker.Color() || back.Color() == attacker.Color() {
				continue
			}
			if front.Value() < back.Value() {
				pin = true
			} else if front.Value() > back.Value() && front.Value() >= 3 {
				skewer = true
			}
		}
	}
	return pin, skewer
}

// firstTwoAlongRay walks from sq in direction d, returning the first two
// occupied squares' pieces. ok is false if fewer than two pieces lie
// along the ray before the board edge.
func firstTwoAlongRay(p *Position, sq Square, d [2]int) (front, back Piece, ok bool) {
	file, rank := sq.File(), sq.Rank()
	var found []Piece
	for {
		file += d[0]
		rank += d[1]
		if file < 0 || file > 7 || rank < 0 || rank > 7 {
			break
		}
		piece := p.Board[NewSquare(file, rank)]
		if piece == NoPiece {
			continue
		}
		found = append(found, piece)
		if len(found) == 2 {
			return found[0], found[1], true
		}
	}
	return NoPiece, NoPiece, false
}

// detectFork reports whether some piece attacks two or more enemy pieces
// each at least as valuable as itself.
func detectFork(p *Position) bool {
	for sq := A1; sq <= H8; sq++ {
		attacker := p.Board[sq]
		if attacker == NoPiece {
			continue
		}
		count := 0
		for _, target := range attacksFrom(p, sq, attacker) {
			victim := p.Board[target]
			if victim == NoPiece || victim.Color() == attacker.Color() {
				continue
			}
			// A king has no material value but any attack on it is always
			// significant, so it always qualifies as a fork target.
			if victim.Type() == King || victim.Value() >= attacker.Value() {
				count++
			}
		}
		if count >= 2 {
			return true
		}
	}
	return false
}

// detectDoubleAttack reports whether some square holding an enemy piece
// (from the attacker's perspective) is attacked by two or more
// same-side pieces.
func detectDoubleAttack(p *Position) bool {
	var whiteAttackers, blackAttackers [64]int
	for sq := A1; sq <= H8; sq++ {
		attacker := p.Board[sq]
		if attacker == NoPiece {
			continue
		}
		for _, target := range attacksFrom(p, sq, attacker) {
			if attacker.IsWhite() {
				whiteAttackers[target]++
			} else {
				blackAttackers[target]++
			}
		}
	}
	for sq := A1; sq <= H8; sq++ {
		victim := p.Board[sq]
		if victim == NoPiece {
			continue
		}
		if victim.IsWhite() && blackAttackers[sq] >= 2 {
			return true
		}
		if !victim.IsWhite() && whiteAttackers[sq] >= 2 {
			return true
		}
	}
	return false
}

// knightOffsets and kingOffsets are (file, rank) deltas.
var knightOffsets = [8][2]int{
	{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}
var kingOffsets = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// attacksFrom returns every square a piece at sq pseudo-legally attacks.
// Sliding attacks stop at the first occupied square (inclusive); pawns
// attack diagonally forward only.
func attacksFrom(p *Position, sq Square, piece Piece) []Square {
	file, rank := sq.File(), sq.Rank()

	switch piece.Type() {
	case Pawn:
		direction := -1
		if piece.IsWhite() {
			direction = 1
		}
		var out []Square
		for _, df := range [2]int{-1, 1} {
			if s := NewSquare(file+df, rank+direction); s.IsValid() {
				out = append(out, s)
			}
		}
		return out

	case Knight:
		var out []Square
		for _, d := range knightOffsets {
			if s := NewSquare(file+d[0], rank+d[1]); s.IsValid() {
				out = append(out, s)
			}
		}
		return out

	case King:
		var out []Square
		for _, d := range kingOffsets {
			if s := NewSquare(file+d[0], rank+d[1]); s.IsValid() {
				out = append(out, s)
			}
		}
		return out

	case Bishop, Rook, Queen:
		var out []Square
		for _, d := range directionsFor(piece.Type()) {
			f, r := file, rank
			for {
				f += d[0]
				r += d[1]
				s := NewSquare(f, r)
				if !s.IsValid() {
					break
				}
				out = append(out, s)
				if p.Board[s] != NoPiece {
					break
				}
			}
		}
		return out

	default:
		return nil
	}
}
