// Package game defines the contract between the search engines and a rules
// engine, plus the helpers shared by every hidden-information card game that
// plugs into them: terminal score normalization and hand determinization.
package game

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/freeeve/colori/api/pkg/cardset"
)

// Oracle is everything the search engines need to know about a game.
//
// The action type A is the canonical, abstract identity of a move: two
// concrete moves that are strategically identical must map to the same A.
// LegalActions returns each abstract action once, IsLegal tests the abstract
// action, and Apply resolves it to a concrete move of the given position.
type Oracle[P any, A comparable] interface {
	// LegalActions enumerates the actions available to the player to move.
	// The order must be deterministic for a given position.
	LegalActions(p P) []A

	// Apply plays a on p and returns the resulting position. It may mutate
	// and return p.
	Apply(p P, a A, rng *rand.Rand) P

	// Status reports whether p awaits an action or is over. maxRound > 0
	// ends the game once that round has been completed.
	Status(p P, maxRound int) Status

	// IsLegal reports whether a is currently available in p.
	IsLegal(p P, a A) bool

	// Determinize returns an independent, fully specified copy of p with
	// every piece of information hidden from perspective re-sampled
	// consistently with what perspective has observed.
	Determinize(p P, perspective int, seen Observations, rng *rand.Rand) P

	// RolloutStep advances p by one cheap playout move. It may mutate and
	// return p.
	RolloutStep(p P, rng *rand.Rand) P
}

// Observations is the history of hands the searching player has looked at
// during the current drafting round, one entry per pick in pick order.
type Observations []cardset.Set

// Status is either "awaiting an action from Player" or "terminated with
// Scores", one entry per seat.
type Status struct {
	Terminal bool
	Player   int
	Scores   []float64
}

// Awaiting returns the status of a position where player must act.
func Awaiting(player int) Status {
	return Status{Player: player}
}

// Terminated returns the status of a finished position.
func Terminated(scores []float64) Status {
	return Status{Terminal: true, Scores: scores}
}

// NormalizeScores converts raw end-of-game scores into outcome shares: the
// player(s) with the maximal raw score split 1.0 equally, all others get 0.
func NormalizeScores(raw []float64) []float64 {
	out := make([]float64, len(raw))
	if len(raw) == 0 {
		return out
	}
	best := floats.Max(raw)
	winners := floats.Count(func(v float64) bool { return v == best }, raw)
	share := 1.0 / float64(winners)
	for i, v := range raw {
		if v == best {
			out[i] = share
		}
	}
	return out
}
