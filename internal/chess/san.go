package chess

import "strings"

// ParsedMove is the result of resolving a SAN token against a side to
// move, before a source square has been found on any particular board.
type ParsedMove struct {
	PieceType         int // Pawn..King
	Side              int
	ToSquare          Square
	FromFile          int // -1 if not specified
	FromRank          int // -1 if not specified
	IsCapture         bool
	IsCastleKingside  bool
	IsCastleQueenside bool
	PromotionType     int // -1 if no promotion
	IsCheck           bool
	IsMate            bool
}

// ParseSAN parses a Standard Algebraic Notation move token, e.g. "e4",
// "Nf3", "Bxe5", "O-O", "e8=Q", "Nbd7", "R1a3". It resolves piece type,
// destination, disambiguation hints, and promotion, but does not touch a
// board — pairing a ParsedMove with a Position to find the source square
// is Engine.Apply's job.
func ParseSAN(san string, side int) (ParsedMove, bool) {
	if san == "" {
		return ParsedMove{}, false
	}

	isCheck := strings.Contains(san, "+")
	isMate := strings.Contains(san, "#")
	san = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(san, "+", ""), "#", ""))

	if san == "O-O" || san == "0-0" {
		return ParsedMove{
			PieceType: -1, Side: side, ToSquare: NoSquare,
			FromFile: -1, FromRank: -1, PromotionType: -1,
			IsCastleKingside: true, IsCheck: isCheck, IsMate: isMate,
		}, true
	}
	if san == "O-O-O" || san == "0-0-0" {
		return ParsedMove{
			PieceType: -1, Side: side, ToSquare: NoSquare,
			FromFile: -1, FromRank: -1, PromotionType: -1,
			IsCastleQueenside: true, IsCheck: isCheck, IsMate: isMate,
		}, true
	}

	pos := 0
	pieceType := Pawn
	fromFile, fromRank := -1, -1
	isCapture := false
	promotionType := -1

	first := san[pos]
	if first >= 'A' && first <= 'Z' {
		pieceType = pieceTypeFromSANLetter(first)
		if pieceType < 0 {
			return ParsedMove{}, false
		}
		pos++
	}

	if capturePos := strings.IndexByte(san[pos:], 'x'); capturePos != -1 {
		capturePos += pos
		isCapture = true
		before := san[pos:capturePos]
		switch len(before) {
		case 1:
			c := before[0]
			if c >= 'a' && c <= 'h' {
				fromFile = int(c - 'a')
			} else if c >= '1' && c <= '8' {
				fromRank = int(c - '1')
			}
		case 2:
			fromFile = int(before[0] - 'a')
			fromRank = int(before[1] - '1')
		}
		pos = capturePos + 1
	} else {
		destStart := -1
		for i := pos; i < len(san)-1; i++ {
			c, next := san[i], san[i+1]
			if c >= 'a' && c <= 'h' && next >= '1' && next <= '8' {
				destStart = i
				break
			}
		}
		if destStart > pos {
			disambig := san[pos:destStart]
			switch len(disambig) {
			case 1:
				c := disambig[0]
				if c >= 'a' && c <= 'h' {
					fromFile = int(c - 'a')
				} else if c >= '1' && c <= '8' {
					fromRank = int(c - '1')
				}
			case 2:
				fromFile = int(disambig[0] - 'a')
				fromRank = int(disambig[1] - '1')
			}
			pos = destStart
		}
	}

	if pos+1 >= len(san) {
		return ParsedMove{}, false
	}
	fileChar, rankChar := san[pos], san[pos+1]
	if fileChar < 'a' || fileChar > 'h' || rankChar < '1' || rankChar > '8' {
		return ParsedMove{}, false
	}
	toSquare := ParseSquare(san[pos : pos+2])
	pos += 2

	if pos < len(san) && san[pos] == '=' {
		pos++
		if pos < len(san) {
			promotionType = pieceTypeFromSANLetter(san[pos])
		}
	}

	return ParsedMove{
		PieceType:     pieceType,
		Side:          side,
		ToSquare:      toSquare,
		FromFile:      fromFile,
		FromRank:      fromRank,
		IsCapture:     isCapture,
		PromotionType: promotionType,
		IsCheck:       isCheck,
		IsMate:        isMate,
	}, true
}
