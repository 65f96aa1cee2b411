// Package model holds the plain data types that flow between the chess
// engine kernel, the PGN parser, and the storage layer: games, moves,
// and the pawn-structure/tactical-motif tags the classifier and
// detector attach to a Position.
package model

// PawnStructure tags a structural pattern in a pawn skeleton. Only IQP,
// MaroczyBind, DoubledPawns, PassedPawn, and HangingPawns are ever
// produced by the classifier; the remaining tags are carried for callers
// that want a richer vocabulary to extend detection into later.
type PawnStructure int

const (
	PawnStructureNone PawnStructure = iota
	IQP
	Carlsbad
	MaroczyBind
	HangingPawns
	PawnChain
	DoubledPawns
	PassedPawn
	BackwardPawn
)

var pawnStructureNames = map[PawnStructure]string{
	PawnStructureNone: "none",
	IQP:                "iqp",
	Carlsbad:           "carlsbad",
	MaroczyBind:        "maroczy_bind",
	HangingPawns:       "hanging_pawns",
	PawnChain:          "pawn_chain",
	DoubledPawns:       "doubled_pawns",
	PassedPawn:         "passed_pawn",
	BackwardPawn:       "backward_pawn",
}

// String renders the tag's index key, e.g. "iqp", "maroczy_bind".
func (s PawnStructure) String() string {
	if name, ok := pawnStructureNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParsePawnStructure resolves an index key back to its tag, for callers
// (the CQL compiler) that only have the string form. An unrecognized
// key resolves to PawnStructureNone, which matches nothing in the
// index.
func ParsePawnStructure(key string) PawnStructure {
	for tag, name := range pawnStructureNames {
		if name == key {
			return tag
		}
	}
	return PawnStructureNone
}
