// Package chess implements the position representation, SAN move
// resolution, FEN codec, and Zobrist hashing that every index in the
// database replays games through.
package chess

import "fmt"

// Square is a board index 0..63, file = sq%8 (a..h), rank = sq/8 (1..8).
type Square int

// NoSquare is the sentinel for "no square" (e.g. no en-passant target).
const NoSquare Square = -1

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// File returns the file index 0..7 (a..h).
func (s Square) File() int { return int(s) % 8 }

// Rank returns the rank index 0..7 (rank 1..8).
func (s Square) Rank() int { return int(s) / 8 }

// IsValid reports whether s is a real board square.
func (s Square) IsValid() bool { return s >= A1 && s <= H8 }

// NewSquare builds a Square from 0-based file and rank indices.
func NewSquare(file, rank int) Square {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return Square(rank*8 + file)
}

// String renders the square in algebraic notation, e.g. "e4".
func (s Square) String() string {
	if !s.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+byte(s.File()), '1'+byte(s.Rank()))
}

// ParseSquare parses algebraic notation ("e4") into a Square, returning
// NoSquare for anything malformed.
func ParseSquare(s string) Square {
	if len(s) != 2 {
		return NoSquare
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return NewSquare(file, rank)
}
