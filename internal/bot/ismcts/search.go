// Package ismcts implements Information-Set Monte Carlo Tree Search.
//
// A single tree is refined across many determinizations of the searching
// player's information set. Each child keeps an availability count next to
// its visit count so that actions which are often unavailable are not
// mistaken for weak ones by the UCB1 selection.
package ismcts

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/colori/api/pkg/game"
)

// Search defaults.
const (
	DefaultExploration     = math.Sqrt2
	DefaultMaxRolloutSteps = 1000
)

// ErrNoLegalActions is returned when the oracle reports no legal actions
// for a position that is not terminal.
var ErrNoLegalActions = errors.New("no legal actions at non-terminal position")

// Config controls a search.
type Config struct {
	Iterations      int
	Exploration     float64 // UCB1 constant; 0 selects DefaultExploration
	MaxRolloutSteps int     // 0 selects DefaultMaxRolloutSteps
	MaxRound        int     // 0 plays rollouts to the real end of the game
}

func (c Config) withDefaults() Config {
	if c.Exploration == 0 {
		c.Exploration = DefaultExploration
	}
	if c.MaxRolloutSteps == 0 {
		c.MaxRolloutSteps = DefaultMaxRolloutSteps
	}
	return c
}

// ChildStats describes one root child after the search.
type ChildStats[A comparable] struct {
	Action       A
	Visits       int
	Availability int
	Reward       float64
}

// Result is the outcome of a search.
type Result[A comparable] struct {
	Action A

	// Shortcut is set when the position had a single legal action and no
	// search was run.
	Shortcut bool
	// RandomFallback is set when the root never acquired children and
	// Action was drawn uniformly from the legal actions.
	RandomFallback bool

	Iterations int
	// Fallbacks counts iterations that did not descend into a root child,
	// because the determinization was terminal or no child was available.
	Fallbacks int
	Children  []ChildStats[A]
}

type searcher[P any, A comparable] struct {
	oracle game.Oracle[P, A]
	cfg    Config
	rng    *rand.Rand
	buf    []A
}

// Search picks an action for perspective at pos. seen is the perspective
// player's observation history used when determinizing.
//
// The tree, scratch positions and rng are owned by the call; independent
// calls may run concurrently as long as they do not share rng.
func Search[P any, A comparable](oracle game.Oracle[P, A], pos P, perspective int, seen game.Observations, cfg Config, rng *rand.Rand) (Result[A], error) {
	cfg = cfg.withDefaults()

	legal := append([]A(nil), oracle.LegalActions(pos)...)
	switch len(legal) {
	case 0:
		return Result[A]{}, fmt.Errorf("search root: %w", ErrNoLegalActions)
	case 1:
		return Result[A]{Action: legal[0], Shortcut: true}, nil
	}

	s := &searcher[P, A]{oracle: oracle, cfg: cfg, rng: rng}
	root := newRoot[A](perspective)
	var res Result[A]

	for i := 0; i < cfg.Iterations; i++ {
		det := oracle.Determinize(pos, perspective, seen, rng)
		before := root.childVisits()
		if _, err := s.iterate(root, det); err != nil {
			return res, fmt.Errorf("iteration %d: %w", i, err)
		}
		res.Iterations++
		if root.childVisits() == before {
			res.Fallbacks++
		}
	}

	res.Children = make([]ChildStats[A], len(root.children))
	for i, c := range root.children {
		res.Children[i] = ChildStats[A]{
			Action:       c.action,
			Visits:       c.visits,
			Availability: c.availability,
			Reward:       c.reward,
		}
	}

	bestVisits := 0
	if best := root.mostVisited(); best != nil {
		res.Action = best.action
		bestVisits = best.visits
	} else {
		res.Action = legal[rng.Intn(len(legal))]
		res.RandomFallback = true
	}

	log.Debug().
		Int("player", perspective).
		Int("iterations", res.Iterations).
		Int("fallbacks", res.Fallbacks).
		Int("children", len(root.children)).
		Int("bestVisits", bestVisits).
		Bool("randomFallback", res.RandomFallback).
		Msg("ismcts search complete")
	return res, nil
}

// iterate runs one selection/expansion/simulation pass below n and returns
// the simulated score vector, nil when the outcome is unknown.
func (s *searcher[P, A]) iterate(n *node[A], pos P) ([]float64, error) {
	st := s.oracle.Status(pos, s.cfg.MaxRound)
	if st.Terminal {
		n.record(st.Scores)
		return st.Scores, nil
	}

	if err := s.expand(n, pos, st.Player); err != nil {
		return nil, err
	}

	c := s.selectChild(n, pos)
	if c == nil {
		n.record(nil)
		return nil, nil
	}

	pos = s.oracle.Apply(pos, c.action, s.rng)

	var scores []float64
	if c.visits == 0 {
		scores = s.rollout(pos)
		c.record(scores)
	} else {
		var err error
		if scores, err = s.iterate(c, pos); err != nil {
			return nil, err
		}
	}

	n.record(scores)
	return scores, nil
}

// expand bumps the availability of every child legal in pos and adds at
// most one new child, chosen in random order.
func (s *searcher[P, A]) expand(n *node[A], pos P, player int) error {
	legal := s.oracle.LegalActions(pos)
	if len(legal) == 0 {
		return ErrNoLegalActions
	}
	s.buf = append(s.buf[:0], legal...)
	s.rng.Shuffle(len(s.buf), func(i, j int) { s.buf[i], s.buf[j] = s.buf[j], s.buf[i] })

	added := false
	for _, a := range s.buf {
		if c := n.child(a); c != nil {
			c.availability++
			continue
		}
		if !added {
			n.addChild(a, player)
			added = true
		}
	}
	return nil
}

// selectChild returns the child legal in pos with the highest UCB1 score,
// unvisited children first, or nil if none is legal.
func (s *searcher[P, A]) selectChild(n *node[A], pos P) *node[A] {
	var best *node[A]
	bestValue := math.Inf(-1)
	for _, c := range n.children {
		if !s.oracle.IsLegal(pos, c.action) {
			continue
		}
		value := math.Inf(1)
		if c.visits > 0 {
			total := c.availability
			if n.root {
				total = n.visits
			}
			value = c.ucb1(total, s.cfg.Exploration)
		}
		if best == nil || value > bestValue {
			best = c
			bestValue = value
		}
	}
	return best
}

// rollout plays pos out with the oracle's playout policy. It returns nil if
// the step cap is hit first.
func (s *searcher[P, A]) rollout(pos P) []float64 {
	for i := 0; i < s.cfg.MaxRolloutSteps; i++ {
		st := s.oracle.Status(pos, s.cfg.MaxRound)
		if st.Terminal {
			return st.Scores
		}
		pos = s.oracle.RolloutStep(pos, s.rng)
	}
	if st := s.oracle.Status(pos, s.cfg.MaxRound); st.Terminal {
		return st.Scores
	}
	return nil
}
