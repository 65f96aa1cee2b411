package chess

import "fmt"

// AppliedMove records what Engine.Apply actually did, for callers that
// want a UCI-style move without re-deriving it from the SAN string.
type AppliedMove struct {
	From      Square
	To        Square
	Promotion int // -1 if none
}

// UCI renders the applied move as long algebraic notation, e.g. "e2e4",
// "e7e8q".
func (m AppliedMove) UCI() string {
	s := m.From.String() + m.To.String()
	if m.Promotion >= 0 {
		s += string(pieceLetters[m.Promotion] + ('a' - 'A'))
	}
	return s
}

// Engine applies SAN moves to a Position, resolving the source square by
// scanning the board for a piece of the right type that can legally
// reach the destination. It does not generate moves and does not verify
// that the side to move isn't left in check — legality checking beyond
// SAN resolution is out of scope.
type Engine struct{}

// Apply resolves and applies one SAN move against pos, returning the
// resulting position and the move actually played. It does not mutate
// pos.
func (Engine) Apply(pos *Position, san string) (*Position, AppliedMove, error) {
	parsed, ok := ParseSAN(san, pos.SideToMove)
	if !ok {
		return nil, AppliedMove{}, fmt.Errorf("chess: cannot parse SAN move %q", san)
	}

	if parsed.IsCastleKingside {
		np, err := applyCastling(pos, true)
		if err != nil {
			return nil, AppliedMove{}, err
		}
		if pos.SideToMove == White {
			return np, AppliedMove{From: E1, To: G1, Promotion: -1}, nil
		}
		return np, AppliedMove{From: E8, To: G8, Promotion: -1}, nil
	}
	if parsed.IsCastleQueenside {
		np, err := applyCastling(pos, false)
		if err != nil {
			return nil, AppliedMove{}, err
		}
		if pos.SideToMove == White {
			return np, AppliedMove{From: E1, To: C1, Promotion: -1}, nil
		}
		return np, AppliedMove{From: E8, To: C8, Promotion: -1}, nil
	}

	from := findSourceSquare(pos, parsed)
	if from == NoSquare {
		return nil, AppliedMove{}, fmt.Errorf("chess: no piece can reach %s for %q", parsed.ToSquare, san)
	}

	promo := -1
	if parsed.PromotionType >= 0 {
		promo = parsed.PromotionType
	}
	np := applyNormalMove(pos, from, parsed.ToSquare, promo)
	return np, AppliedMove{From: from, To: parsed.ToSquare, Promotion: promo}, nil
}

// findSourceSquare scans every square for a piece matching parsed's type
// and side, disambiguation hints, and reachability, returning the first
// match. SAN is written so exactly one piece qualifies in a legal game.
func findSourceSquare(pos *Position, parsed ParsedMove) Square {
	want := NewPiece(parsed.PieceType, parsed.Side)
	for sq := A1; sq <= H8; sq++ {
		if pos.Board[sq] != want {
			continue
		}
		if parsed.FromFile != -1 && sq.File() != parsed.FromFile {
			continue
		}
		if parsed.FromRank != -1 && sq.Rank() != parsed.FromRank {
			continue
		}
		if canPieceReach(pos, sq, parsed.ToSquare, want) {
			return sq
		}
	}
	return NoSquare
}

// canPieceReach is a simplified reachability check: it recognizes each
// piece type's movement pattern and, for sliding pieces, that the path is
// clear. It does not check whether the move leaves the mover's own king
// in check.
func canPieceReach(pos *Position, from, to Square, piece Piece) bool {
	fromFile, fromRank := from.File(), from.Rank()
	toFile, toRank := to.File(), to.Rank()
	fileDiff := abs(toFile - fromFile)
	rankDiff := abs(toRank - fromRank)

	switch piece.Type() {
	case Pawn:
		isWhite := piece.IsWhite()
		direction := -1
		if isWhite {
			direction = 1
		}
		if fromFile == toFile && pos.Board[to] == NoPiece {
			if toRank == fromRank+direction {
				return true
			}
			if (isWhite && fromRank == 1 && toRank == 3) || (!isWhite && fromRank == 6 && toRank == 4) {
				mid := NewSquare(fromFile, fromRank+direction)
				if pos.Board[mid] == NoPiece {
					return true
				}
			}
		}
		if fileDiff == 1 && toRank == fromRank+direction {
			if pos.Board[to] != NoPiece || to == pos.EnPassant {
				return true
			}
		}
		return false

	case Knight:
		return (fileDiff == 2 && rankDiff == 1) || (fileDiff == 1 && rankDiff == 2)

	case Bishop:
		if fileDiff != rankDiff {
			return false
		}
		return isPathClear(pos, from, to)

	case Rook:
		if fromFile != toFile && fromRank != toRank {
			return false
		}
		return isPathClear(pos, from, to)

	case Queen:
		if fromFile != toFile && fromRank != toRank && fileDiff != rankDiff {
			return false
		}
		return isPathClear(pos, from, to)

	case King:
		return fileDiff <= 1 && rankDiff <= 1

	default:
		return false
	}
}

// isPathClear reports whether every square strictly between from and to
// is empty. Callers must already know from and to are aligned.
func isPathClear(pos *Position, from, to Square) bool {
	fromFile, fromRank := from.File(), from.Rank()
	toFile, toRank := to.File(), to.Rank()
	fileStep, rankStep := sign(toFile-fromFile), sign(toRank-fromRank)

	file, rank := fromFile+fileStep, fromRank+rankStep
	for file != toFile || rank != toRank {
		if pos.Board[NewSquare(file, rank)] != NoPiece {
			return false
		}
		file += fileStep
		rank += rankStep
	}
	return true
}

// applyNormalMove applies a non-castling move and returns the resulting
// position. It reads the destination square's occupancy before
// overwriting it to decide whether the halfmove clock resets — reading
// it after the overwrite would make every capture look like a
// non-capture and never reset the clock.
func applyNormalMove(pos *Position, from, to Square, promotionType int) *Position {
	np := pos.Clone()
	piece := np.Board[from]
	wasCapture := np.Board[to] != NoPiece

	np.Board[from] = NoPiece
	if promotionType >= 0 {
		np.Board[to] = NewPiece(promotionType, piece.Color())
	} else {
		np.Board[to] = piece
	}

	if piece.Type() == Pawn && to == pos.EnPassant {
		capturedPawnSq := to - 8
		if !piece.IsWhite() {
			capturedPawnSq = to + 8
		}
		np.Board[capturedPawnSq] = NoPiece
		wasCapture = true
	}

	np.CastlingRights = updateCastlingRights(pos.CastlingRights, from, to)

	np.EnPassant = NoSquare
	if piece.Type() == Pawn && abs(to.Rank()-from.Rank()) == 2 {
		np.EnPassant = NewSquare(from.File(), (from.Rank()+to.Rank())/2)
	}

	if piece.Type() == Pawn || wasCapture {
		np.HalfmoveClock = 0
	} else {
		np.HalfmoveClock = pos.HalfmoveClock + 1
	}

	np.FullmoveNumber = pos.FullmoveNumber
	if pos.SideToMove == Black {
		np.FullmoveNumber++
	}

	if pos.SideToMove == White {
		np.SideToMove = Black
	} else {
		np.SideToMove = White
	}

	return np
}

func applyCastling(pos *Position, kingside bool) (*Position, error) {
	np := pos.Clone()
	isWhite := pos.SideToMove == White

	if kingside {
		if isWhite {
			if pos.CastlingRights&WhiteKingside == 0 {
				return nil, fmt.Errorf("chess: white has lost kingside castling rights")
			}
			np.Board[E1], np.Board[H1] = NoPiece, NoPiece
			np.Board[G1], np.Board[F1] = WhiteKing, WhiteRook
		} else {
			if pos.CastlingRights&BlackKingside == 0 {
				return nil, fmt.Errorf("chess: black has lost kingside castling rights")
			}
			np.Board[E8], np.Board[H8] = NoPiece, NoPiece
			np.Board[G8], np.Board[F8] = BlackKing, BlackRook
		}
	} else {
		if isWhite {
			if pos.CastlingRights&WhiteQueenside == 0 {
				return nil, fmt.Errorf("chess: white has lost queenside castling rights")
			}
			np.Board[E1], np.Board[A1] = NoPiece, NoPiece
			np.Board[C1], np.Board[D1] = WhiteKing, WhiteRook
		} else {
			if pos.CastlingRights&BlackQueenside == 0 {
				return nil, fmt.Errorf("chess: black has lost queenside castling rights")
			}
			np.Board[E8], np.Board[A8] = NoPiece, NoPiece
			np.Board[C8], np.Board[D8] = BlackKing, BlackRook
		}
	}

	if isWhite {
		np.CastlingRights &^= WhiteKingside | WhiteQueenside
	} else {
		np.CastlingRights &^= BlackKingside | BlackQueenside
	}

	np.EnPassant = NoSquare
	np.HalfmoveClock = pos.HalfmoveClock + 1
	np.FullmoveNumber = pos.FullmoveNumber
	if !isWhite {
		np.FullmoveNumber++
	}
	if isWhite {
		np.SideToMove = Black
	} else {
		np.SideToMove = White
	}
	return np, nil
}

func updateCastlingRights(rights int, from, to Square) int {
	if from == E1 {
		rights &^= WhiteKingside | WhiteQueenside
	}
	if from == E8 {
		rights &^= BlackKingside | BlackQueenside
	}
	if from == H1 || to == H1 {
		rights &^= WhiteKingside
	}
	if from == A1 || to == A1 {
		rights &^= WhiteQueenside
	}
	if from == H8 || to == H8 {
		rights &^= BlackKingside
	}
	if from == A8 || to == A8 {
		rights &^= BlackQueenside
	}
	return rights
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
