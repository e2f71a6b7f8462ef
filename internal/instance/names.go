package instance

import (
	"github.com/agnivade/levenshtein"
)

// Relation enumerates the fields the visualizer may read from an instance.
type Relation int

const (
	Row Relation = iota
	Col
	Location
	Position
	Turn
	Next
	Connections
	relationCount
)

var relationNames = [...]string{
	Row:         "row",
	Col:         "col",
	Location:    "location",
	Position:    "position",
	Turn:        "turn",
	Next:        "next",
	Connections: "connections",
}

func (r Relation) String() string {
	if !r.Valid() {
		return "relation(?)"
	}
	return relationNames[r]
}

// Valid reports whether r is a member of the allow-list.
func (r Relation) Valid() bool { return r >= 0 && r < relationCount }

// Relations returns every allowed relation in declaration order.
func Relations() []Relation {
	out := make([]Relation, 0, relationCount)
	for r := Relation(0); r < relationCount; r++ {
		out = append(out, r)
	}
	return out
}

// ParseRelation maps a field label onto the allow-list.
func ParseRelation(name string) (Relation, error) {
	for r, n := range relationNames {
		if n == name {
			return Relation(r), nil
		}
	}
	return 0, &NameError{Kind: "relation", Name: name, Suggestion: suggest(name, relationNames[:])}
}

// Sig enumerates the signatures the visualizer may read from an instance.
type Sig int

const (
	Int Sig = iota
	Univ
	Player
	Minotaur
	PossibleTurn
	MinotaurTurn1
	Theseus
	Exit
	MinotaurTurn2
	TheseusTurn
	Game
	Square
	sigCount
)

var sigNames = [...]string{
	Int:           "Int",
	Univ:          "univ",
	Player:        "Player",
	Minotaur:      "Minotaur",
	PossibleTurn:  "PossibleTurn",
	MinotaurTurn1: "MinotaurTurn1",
	Theseus:       "Theseus",
	Exit:          "Exit",
	MinotaurTurn2: "MinotaurTurn2",
	TheseusTurn:   "TheseusTurn",
	Game:          "Game",
	Square:        "Square",
}

func (s Sig) String() string {
	if !s.Valid() {
		return "sig(?)"
	}
	return sigNames[s]
}

// Valid reports whether s is a member of the allow-list.
func (s Sig) Valid() bool { return s >= 0 && s < sigCount }

// Sigs returns every allowed signature in declaration order.
func Sigs() []Sig {
	out := make([]Sig, 0, sigCount)
	for s := Sig(0); s < sigCount; s++ {
		out = append(out, s)
	}
	return out
}

// ParseSig maps a signature label onto the allow-list.
func ParseSig(name string) (Sig, error) {
	for s, n := range sigNames {
		if n == name {
			return Sig(s), nil
		}
	}
	return 0, &NameError{Kind: "signature", Name: name, Suggestion: suggest(name, sigNames[:])}
}

// suggest returns the closest candidate within a third of the name length, if any.
func suggest(name string, candidates []string) string {
	best, bestDist := "", len(name)/3+1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(name, c)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
