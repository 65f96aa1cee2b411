package chess

import "github.com/GhassanAlhamoud/oriondb-chess-engine/internal/model"

// pawnBoard is an 8x8 grid (file-major boolean[file][rank]) used by
// the detectors below.
type pawnBoard [8][8]bool

// ClassifyPawnStructure returns every pawn-structure tag detected in p,
// or {NONE} if none trigger.
func ClassifyPawnStructure(p *Position) []model.PawnStructure {
	var white, black pawnBoard
	for sq := A1; sq <= H8; sq++ {
		piece := p.Board[sq]
		switch piece {
		case WhitePawn:
			white[sq.File()][sq.Rank()] = true
		case BlackPawn:
			black[sq.File()][sq.Rank()] = true
		}
	}

	var tags []model.PawnStructure
	if hasIQP(white, true) || hasIQP(black, false) {
		tags = append(tags, model.IQP)
	}
	if hasMaroczyBind(white) || hasMaroczyBind(black) {
		tags = append(tags, model.MaroczyBind)
	}
	if hasDoubledPawns(white) || hasDoubledPawns(black) {
		tags = append(tags, model.DoubledPawns)
	}
	if hasPassedPawn(white, black, true) || hasPassedPawn(black, white, false) {
		tags = append(tags, model.PassedPawn)
	}
	if hasHangingPawns(white) || hasHangingPawns(black) {
		tags = append(tags, model.HangingPawns)
	}
	if len(tags) == 0 {
		tags = append(tags, model.PawnStructureNone)
	}
	return tags
}

// hasIQP checks for a same-color pawn on the d-file at its 4th rank from
// that color's perspective, with no same-color pawns on the c- or
// e-file at any rank.
func hasIQP(pawns pawnBoard, isWhite bool) bool {
	const dFile, cFile, eFile = 3, 2, 4
	targetRank := 3
	if !isWhite {
		targetRank = 4
	}
	if !pawns[dFile][targetRank] {
		return false
	}
	for rank := 0; rank < 8; rank++ {
		if pawns[cFile][rank] || pawns[eFile][rank] {
			return false
		}
	}
	return true
}

// hasMaroczyBind checks for same-color pawns on c4 and e4 (rank index 3,
// that color's 4th rank).
func hasMaroczyBind(pawns pawnBoard) bool {
	const cFile, eFile, rank4 = 2, 4, 3
	return pawns[cFile][rank4] && pawns[eFile][rank4]
}

// hasDoubledPawns checks whether any file carries 2 or more same-color
// pawns.
func hasDoubledPawns(pawns pawnBoard) bool {
	for file := 0; file < 8; file++ {
		count := 0
		for rank := 0; rank < 8; rank++ {
			if pawns[file][rank] {
				count++
			}
		}
		if count >= 2 {
			return true
		}
	}
	return false
}

// hasPassedPawn checks whether any ourPawns pawn has no enemyPawns pawn
// on its file or an adjacent file at any rank ahead of it, toward
// promotion — increasing rank for white, decreasing rank for black.
func hasPassedPawn(ourPawns, enemyPawns pawnBoard, isWhite bool) bool {
	ahead := func(rank int) []int {
		var ranks []int
		if isWhite {
			for r := rank + 1; r < 8; r++ {
				ranks = append(ranks, r)
			}
		} else {
			for r := rank - 1; r >= 0; r-- {
				ranks = append(ranks, r)
			}
		}
		return ranks
	}

	for file := 0; file < 8; file++ {
		for rank := 0; rank < 8; rank++ {
			if !ourPawns[file][rank] {
				continue
			}
			passed := true
			for _, r := range ahead(rank) {
				if enemyPawns[file][r] {
					passed = false
					break
				}
				if file > 0 && enemyPawns[file-1][r] {
					passed = false
					break
				}
				if file < 7 && enemyPawns[file+1][r] {
					passed = false
					break
				}
			}
			if passed {
				return true
			}
		}
	}
	return false
}

// hasHangingPawns checks for two adjacent same-color pawns on the 4th
// rank with no same-color supporting pawn behind on either flank file
// (file-1 or file+2, matching the asymmetric span the two pawns cover).
func hasHangingPawns(pawns pawnBoard) bool {
	const rank4 = 3
	for file := 0; file < 7; file++ {
		if !pawns[file][rank4] || !pawns[file+1][rank4] {
			continue
		}
		leftSupport, rightSupport := false, false
		if file > 0 {
			for rank := 0; rank < rank4; rank++ {
				if pawns[file-1][rank] {
					leftSupport = true
				}
			}
		}
		if file < 6 {
			for rank := 0; rank < rank4; rank++ {
				if pawns[file+2][rank] {
					rightSupport = true
				}
			}
		}
		if !leftSupport && !rightSupport {
			return true
		}
	}
	return false
}
