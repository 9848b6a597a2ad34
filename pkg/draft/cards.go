package draft

import (
	"fmt"

	"github.com/freeeve/colori/api/pkg/cardset"
)

// CardType identifies what a card does. Many card instances share a type.
type CardType uint8

const (
	Red CardType = iota
	Yellow
	Blue
	Green
	Orange
	Purple
	Brown
	Gold
	NumTypes
)

var typeNames = [NumTypes]string{"red", "yellow", "blue", "green", "orange", "purple", "brown", "gold"}

// points and pairBonus define scoring: each card is worth points, each
// complete pair of a type adds pairBonus.
var (
	points    = [NumTypes]int{1, 1, 2, 2, 3, 3, 0, 4}
	pairBonus = [NumTypes]int{0, 2, 0, 1, 0, 0, 6, 0}
)

// varietyBonus is awarded per distinct type a player drafted.
const varietyBonus = 2

func (t CardType) String() string {
	if t < NumTypes {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// registry maps card instances to types. It is built once per game and
// shared read-only by every copy of the game state.
type registry struct {
	types [cardset.MaxID]CardType
	masks [NumTypes]cardset.Set
	all   cardset.Set
}

func newRegistry(copies int) *registry {
	r := &registry{}
	for i := 0; i < copies*int(NumTypes); i++ {
		id := uint8(i)
		t := CardType(i % int(NumTypes))
		r.types[id] = t
		r.masks[t].Insert(id)
		r.all.Insert(id)
	}
	return r
}

// typeCounts returns how many cards of each type s holds.
func (r *registry) typeCounts(s cardset.Set) [NumTypes]int {
	var counts [NumTypes]int
	for t := CardType(0); t < NumTypes; t++ {
		counts[t] = s.Intersection(r.masks[t]).Len()
	}
	return counts
}

// rawScore is the end-of-game score of a drafted collection.
func (r *registry) rawScore(drafted cardset.Set) int {
	score := 0
	for t, c := range r.typeCounts(drafted) {
		if c == 0 {
			continue
		}
		score += points[t]*c + pairBonus[t]*(c/2) + varietyBonus
	}
	return score
}
