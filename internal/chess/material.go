package chess

import "strconv"

// MaterialSignature counts non-king pieces per side. Two positions with
// the same signature have the same material balance, independent of
// square placement.
type MaterialSignature struct {
	WhiteQueens, WhiteRooks, WhiteBishops, WhiteKnights, WhitePawns int
	BlackQueens, BlackRooks, BlackBishops, BlackKnights, BlackPawns int
}

// MaterialSignatureOf builds a MaterialSignature from a Position.
func MaterialSignatureOf(p *Position) MaterialSignature {
	var counts [12]int
	for sq := A1; sq <= H8; sq++ {
		piece := p.Board[sq]
		if piece == NoPiece {
			continue
		}
		counts[zobristPieceIndex(piece)]++
	}
	return MaterialSignature{
		WhiteQueens: counts[zobristPieceIndex(WhiteQueen)],
		WhiteRooks:  counts[zobristPieceIndex(WhiteRook)],
		WhiteBishops: counts[zobristPieceIndex(WhiteBishop)],
		WhiteKnights: counts[zobristPieceIndex(WhiteKnight)],
		WhitePawns:   counts[zobristPieceIndex(WhitePawn)],
		BlackQueens:  counts[zobristPieceIndex(BlackQueen)],
		BlackRooks:   counts[zobristPieceIndex(BlackRook)],
		BlackBishops: counts[zobristPieceIndex(BlackBishop)],
		BlackKnights: counts[zobristPieceIndex(BlackKnight)],
		BlackPawns:   counts[zobristPieceIndex(BlackPawn)],
	}
}

// Imbalance returns the material difference in pawns, positive favoring
// white, using standard values Q=9 R=5 B=3 N=3 P=1.
func (m MaterialSignature) Imbalance() int {
	white := m.WhiteQueens*9 + m.WhiteRooks*5 + m.WhiteBishops*3 + m.WhiteKnights*3 + m.WhitePawns
	black := m.BlackQueens*9 + m.BlackRooks*5 + m.BlackBishops*3 + m.BlackKnights*3 + m.BlackPawns
	return white - black
}

// TotalPieceCount returns the non-king piece count across both sides.
func (m MaterialSignature) TotalPieceCount() int {
	return m.WhiteQueens + m.WhiteRooks + m.WhiteBishops + m.WhiteKnights + m.WhitePawns +
		m.BlackQueens + m.BlackRooks + m.BlackBishops + m.BlackKnights + m.BlackPawns
}

// IsEndgame reports whether 10 or fewer non-king pieces remain.
func (m MaterialSignature) IsEndgame() bool { return m.TotalPieceCount() <= 10 }

// String renders the signature as e.g. "Q+R+3P vs R+B+2P", used as the
// material index's key.
func (m MaterialSignature) String() string {
	return sideNotation(m.WhiteQueens, m.WhiteRooks, m.WhiteBishops, m.WhiteKnights, m.WhitePawns) +
		" vs " +
		sideNotation(m.BlackQueens, m.BlackRooks, m.BlackBishops, m.BlackKnights, m.BlackPawns)
}

func sideNotation(q, r, b, n, p int) string {
	var s string
	s += countedLetter(q, 'Q')
	s += countedLetter(r, 'R')
	s += countedLetter(b, 'B')
	s += countedLetter(n, 'N')
	s += countedLetter(p, 'P')
	if s == "" {
		return "K"
	}
	return s[:len(s)-1]
}

func countedLetter(count int, letter byte) string {
	if count <= 0 {
		return ""
	}
	if count == 1 {
		return string(letter) + "+"
	}
	return strconv.Itoa(count) + string(letter) + "+"
}
