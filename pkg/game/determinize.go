package game

import (
	"math/rand"

	"github.com/freeeve/colori/api/pkg/cardset"
)

// DraftView is the public part of a pick-and-pass drafting round that the
// known-hand reconstruction needs. Picks are face up, so every seat's pick
// sequence for the current round is public knowledge.
type DraftView struct {
	Perspective int
	Direction   int       // +1 passes to the next seat, -1 to the previous one
	PickNumber  int       // 0-based index of the pick in progress
	Picks       [][]uint8 // Picks[seat][i] is the card seat took at pick i
}

func (v DraftView) numPlayers() int { return len(v.Picks) }

func (v DraftView) next(seat int) int {
	n := v.numPlayers()
	return ((seat+v.Direction)%n + n) % n
}

// KnownHands reports, per seat, whether the perspective player can tell
// exactly which cards that seat is holding right now.
//
// The perspective player's own hand is always known. For every hand it saw
// earlier in the round, the hand is followed around the table: the recorded
// pick of each seat that received it must be in the traced hand and is
// removed before moving on. A seat currently holding a fully traced hand is
// known. Tracing a hand stops at the first pick that does not fit.
func KnownHands(v DraftView, seen Observations) []bool {
	n := v.numPlayers()
	known := make([]bool, n)
	if n == 0 {
		return known
	}
	known[v.Perspective] = true

	for round, hand := range seen {
		if hand.IsEmpty() || round >= v.PickNumber {
			continue
		}
		own := v.Picks[v.Perspective]
		if round >= len(own) || !hand.Contains(own[round]) {
			continue
		}
		current := hand
		current.Remove(own[round])

		receiver := v.Perspective
		for step := 0; step < n-1; step++ {
			receiver = v.next(receiver)
			if receiver == v.Perspective {
				break
			}
			pickRound := round + step + 1
			if pickRound > v.PickNumber {
				break
			}
			picks := v.Picks[receiver]
			if pickRound >= len(picks) {
				// Receiver has not picked from this hand yet.
				if pickRound == v.PickNumber {
					known[receiver] = true
				}
				break
			}
			if !current.Contains(picks[pickRound]) {
				break
			}
			current.Remove(picks[pickRound])
			if pickRound == v.PickNumber {
				known[receiver] = true
				break
			}
		}
	}
	return known
}

// Redistribute pools the hands of every seat not marked known and deals
// each of them a uniformly random hand of its original size from the pool.
// Known hands are left untouched.
func Redistribute(hands []cardset.Set, known []bool, rng *rand.Rand) {
	var pool cardset.Set
	sizes := make([]int, len(hands))
	for i := range hands {
		if known[i] {
			continue
		}
		sizes[i] = hands[i].Len()
		pool = pool.Union(hands[i])
		hands[i] = cardset.Set{}
	}
	for i := range hands {
		if known[i] {
			continue
		}
		hands[i] = pool.DrawMultiple(sizes[i], rng)
	}
}
