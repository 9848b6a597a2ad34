package draft

import (
	"math/rand"

	"github.com/freeeve/colori/api/pkg/game"
)

// Rules adapts the draft game to the search engines.
type Rules struct{}

var _ game.Oracle[*State, Action] = Rules{}

// LegalActions returns one pick per distinct card type in the current
// hand, in type order.
func (Rules) LegalActions(s *State) []Action {
	if s.Over {
		return nil
	}
	hand := s.Hands[s.Current]
	var out []Action
	for t := CardType(0); t < NumTypes; t++ {
		if !hand.Intersection(s.reg.masks[t]).IsEmpty() {
			out = append(out, Action{Type: t})
		}
	}
	return out
}

// Apply plays a in place. Illegal picks leave the state unchanged.
func (Rules) Apply(s *State, a Action, rng *rand.Rand) *State {
	if s.Over || a.Type >= NumTypes || !s.take(a.Type) {
		return s
	}
	s.advance(rng)
	return s
}

func (Rules) Status(s *State, maxRound int) game.Status {
	if s.Over || (maxRound > 0 && s.Round > maxRound) {
		return game.Terminated(game.NormalizeScores(s.RawScores()))
	}
	return game.Awaiting(s.Current)
}

func (Rules) IsLegal(s *State, a Action) bool {
	if s.Over || a.Type >= NumTypes {
		return false
	}
	return !s.Hands[s.Current].Intersection(s.reg.masks[a.Type]).IsEmpty()
}

// Determinize copies s and re-deals every hand the perspective seat cannot
// account for. The deck needs no shuffling: it is unordered and every deal
// samples it uniformly.
func (Rules) Determinize(s *State, perspective int, seen game.Observations, rng *rand.Rand) *State {
	d := s.Clone()
	if d.Over {
		return d
	}
	view := game.DraftView{
		Perspective: perspective,
		Direction:   d.Direction,
		PickNumber:  d.Pick,
		Picks:       d.Picks,
	}
	game.Redistribute(d.Hands, game.KnownHands(view, seen), rng)
	return d
}

// RolloutStep takes a uniformly random card from the current hand.
func (Rules) RolloutStep(s *State, rng *rand.Rand) *State {
	if s.Over {
		return s
	}
	id, ok := s.Hands[s.Current].PickRandom(rng)
	if !ok {
		return s
	}
	s.take(s.reg.types[id])
	s.advance(rng)
	return s
}
