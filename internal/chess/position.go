package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// Castling right bits. Kept stable across releases so Zobrist castling
// indices never shift underneath a persisted archive.
const (
	WhiteKingside  = 0x1
	WhiteQueenside = 0x2
	BlackKingside  = 0x4
	BlackQueenside = 0x8
	AllCastling    = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

// Position is an immutable chess position: board, side to move, castling
// rights, en-passant target, and the two move clocks.
type Position struct {
	Board          [64]Piece
	SideToMove     int
	CastlingRights int
	EnPassant      Square
	HalfmoveClock  int
	FullmoveNumber int
}

// Piece returns the piece on sq, or NoPiece.
func (p *Position) Piece(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	return p.Board[sq]
}

// Clone returns a deep copy. Position is a value type but callers that
// want to mutate a workspace before publishing a new Position should
// start from a Clone rather than aliasing Board directly.
func (p *Position) Clone() *Position {
	np := *p
	return &np
}

// Equal compares board, side to move, castling rights, and en passant —
// the components that determine transposition identity. Halfmove clock
// and fullmove number are deliberately excluded so transposition
// hashing matches across move-clock differences.
func (p *Position) Equal(o *Position) bool {
	if p.SideToMove != o.SideToMove || p.CastlingRights != o.CastlingRights || p.EnPassant != o.EnPassant {
		return false
	}
	return p.Board == o.Board
}

// StartingPosition returns the standard chess starting position.
func StartingPosition() *Position {
	p := &Position{
		Board:          zeroPieceBoard,
		SideToMove:     White,
		CastlingRights: AllCastling,
		EnPassant:      NoSquare,
		HalfmoveClock:  0,
		FullmoveNumber: 1,
	}
	back := [8]int{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file := 0; file < 8; file++ {
		p.Board[NewSquare(file, 0)] = NewPiece(back[file], White)
		p.Board[NewSquare(file, 1)] = NewPiece(Pawn, White)
		p.Board[NewSquare(file, 6)] = NewPiece(Pawn, Black)
		p.Board[NewSquare(file, 7)] = NewPiece(back[file], Black)
	}
	return p
}

// ToFEN renders the position as a FEN string.
func (p *Position) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.Board[NewSquare(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(pc.FENByte())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	if p.CastlingRights == 0 {
		sb.WriteByte('-')
	} else {
		if p.CastlingRights&WhiteKingside != 0 {
			sb.WriteByte('K')
		}
		if p.CastlingRights&WhiteQueenside != 0 {
			sb.WriteByte('Q')
		}
		if p.CastlingRights&BlackKingside != 0 {
			sb.WriteByte('k')
		}
		if p.CastlingRights&BlackQueenside != 0 {
			sb.WriteByte('q')
		}
	}

	sb.WriteByte(' ')
	if p.EnPassant.IsValid() {
		sb.WriteString(p.EnPassant.String())
	} else {
		sb.WriteByte('-')
	}

	fmt.Fprintf(&sb, " %d %d", p.HalfmoveClock, p.FullmoveNumber)
	return sb.String()
}

// FromFEN parses a FEN string into a Position.
func FromFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("chess: malformed FEN %q: need at least 4 fields", fen)
	}

	p := &Position{Board: zeroPieceBoard, EnPassant: NoSquare, HalfmoveClock: 0, FullmoveNumber: 1}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("chess: malformed FEN %q: expected 8 ranks, got %d", fen, len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, c := range rankStr {
			switch {
			case c >= '1' && c <= '8':
				file += int(c - '0')
			default:
				side := White
				letter := byte(c)
				if c >= 'a' && c <= 'z' {
					side = Black
					letter -= 'a' - 'A'
				}
				pieceType := pieceTypeFromFENLetter(letter)
				if pieceType < 0 || file > 7 {
					return nil, fmt.Errorf("chess: malformed FEN %q: bad piece %q", fen, string(c))
				}
				p.Board[NewSquare(file, rank)] = NewPiece(pieceType, side)
				file++
			}
		}
	}

	switch fields[1] {
	case "w":
		p.SideToMove = White
	case "b":
		p.SideToMove = Black
	default:
		return nil, fmt.Errorf("chess: malformed FEN %q: bad side to move %q", fen, fields[1])
	}

	if fields[2] != "-" {
		for _, c := range fields[2] {
			switch c {
			case 'K':
				p.CastlingRights |= WhiteKingside
			case 'Q':
				p.CastlingRights |= WhiteQueenside
			case 'k':
				p.CastlingRights |= BlackKingside
			case 'q':
				p.CastlingRights |= BlackQueenside
			}
		}
	}

	if fields[3] != "-" {
		p.EnPassant = ParseSquare(fields[3])
	}

	if len(fields) >= 5 {
		if n, err := strconv.Atoi(fields[4]); err == nil {
			p.HalfmoveClock = n
		}
	}
	if len(fields) >= 6 {
		if n, err := strconv.Atoi(fields[5]); err == nil {
			p.FullmoveNumber = n
		}
	}

	return p, nil
}

var zeroPieceBoard = func() [64]Piece {
	var b [64]Piece
	for i := range b {
		b[i] = NoPiece
	}
	return b
}()

func pieceTypeFromFENLetter(c byte) int {
	switch c {
	case 'P':
		return Pawn
	case 'N':
		return Knight
	case 'B':
		return Bishop
	case 'R':
		return Rook
	case 'Q':
		return Queen
	case 'K':
		return King
	default:
		return -1
	}
}
