package model

// TacticalMotif tags a tactical pattern. Only Pin, Fork, Skewer, and
// DoubleAttack are ever produced by the detector; the rest are carried
// for callers building a richer motif vocabulary on top of it.
type TacticalMotif int

const (
	Pin TacticalMotif = iota
	Fork
	Skewer
	DiscoveredAttack
	DoubleAttack
	Sacrifice
	Deflection
	Decoy
	RemovalOfDefender
	Interference
	Overloading
	Zugzwang
)

var tacticalMotifNames = map[TacticalMotif]string{
	Pin:                "pin",
	Fork:                "fork",
	Skewer:              "skewer",
	DiscoveredAttack:    "discovered_attack",
	DoubleAttack:        "double_attack",
	Sacrifice:           "sacrifice",
	Deflection:          "deflection",
	Decoy:               "decoy",
	RemovalOfDefender:   "removal_of_defender",
	Interference:        "interference",
	Overloading:         "overloading",
	Zugzwang:            "zugzwang",
}

// String renders the motif's index key, e.g. "pin", "double_attack".
func (m TacticalMotif) String() string {
	if name, ok := tacticalMotifNames[m]; ok {
		return name
	}
	return "unknown"
}

// unknownTacticalMotif is returned by ParseTacticalMotif for an
// unrecognized key. TacticalMotif has no "none" tag (unlike
// PawnStructure), so this sentinel stands in; it matches no index
// postings since Add is only ever called with a detector's own tags.
const unknownTacticalMotif TacticalMotif = -1

// ParseTacticalMotif resolves an index key back to its tag, for callers
// (the CQL compiler) that only have the string form.
func ParseTacticalMotif(key string) TacticalMotif {
	for tag, name := range tacticalMotifNames {
		if name == key {
			return tag
		}
	}
	return unknownTacticalMotif
}
