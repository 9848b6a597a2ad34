// Package neural implements a PUCT search guided by a policy/value
// evaluator, run over determinizations of a hidden-information game.
package neural

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
	DefaultIterations = 200
	DefaultCPuct      = 1.5
)

// ErrNoLegalActions is returned when the oracle reports no legal actions
// for a position that is not terminal.
var ErrNoLegalActions = errors.New("no legal actions at non-terminal position")

// Encoder turns positions and actions into evaluator inputs.
type Encoder[P any, A comparable] interface {
	EncodeState(p P, player int) []float32
	EncodeAction(p P, a A) []float32
	NumPlayers(p P) int
}

// Config controls a search. Zero fields select the defaults.
type Config struct {
	Iterations int
	CPuct      float64
	MaxRound   int
}

func (c Config) withDefaults() Config {
	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if c.CPuct == 0 {
		c.CPuct = DefaultCPuct
	}
	return c
}

// ActionProb is one entry of the root visit distribution.
type ActionProb[A comparable] struct {
	Action   A
	Fraction float64
}

// Result is the outcome of a search.
type Result[A comparable] struct {
	Action A
	// Distribution lists root children that were visited, with the share of
	// root visits each received. It is the policy training target.
	Distribution []ActionProb[A]

	Iterations     int
	Fallbacks      int
	Shortcut       bool
	RandomFallback bool
	// RootValue is the mean backed-up value for the searching player.
	RootValue float64
}

type node[A comparable] struct {
	action A
	player int // seat that chose action
	prior  float64

	visits   int
	valueSum []float64 // indexed by absolute seat

	expanded bool
	children []*node[A]
}

func (n *node[A]) record(values []float64) {
	n.visits++
	if values == nil {
		return
	}
	if n.valueSum == nil {
		n.valueSum = make([]float64, len(values))
	}
	for i := 0; i < len(values) && i < len(n.valueSum); i++ {
		n.valueSum[i] += values[i]
	}
}

// q is the mean value of n for seat.
func (n *node[A]) q(seat int) float64 {
	if n.visits == 0 || seat >= len(n.valueSum) {
		return 0
	}
	return n.valueSum[seat] / float64(n.visits)
}

type searcher[P any, A comparable] struct {
	oracle game.Oracle[P, A]
	enc    Encoder[P, A]
	eval   Evaluator
	cfg    Config
	rng    *rand.Rand
}

// Search picks an action for perspective at pos and reports the root visit
// distribution.
func Search[P any, A comparable](oracle game.Oracle[P, A], enc Encoder[P, A], eval Evaluator, pos P, perspective int, seen game.Observations, cfg Config, rng *rand.Rand) (Result[A], error) {
	cfg = cfg.withDefaults()

	legal := append([]A(nil), oracle.LegalActions(pos)...)
	switch len(legal) {
	case 0:
		return Result[A]{}, fmt.Errorf("search root: %w", ErrNoLegalActions)
	case 1:
		return Result[A]{
			Action:       legal[0],
			Distribution: []ActionProb[A]{{Action: legal[0], Fraction: 1}},
			Shortcut:     true,
		}, nil
	}

	s := &searcher[P, A]{oracle: oracle, enc: enc, eval: eval, cfg: cfg, rng: rng}
	root := &node[A]{player: perspective}
	var res Result[A]

	for i := 0; i < cfg.Iterations; i++ {
		det := oracle.Determinize(pos, perspective, seen, rng)
		before := childVisits(root)
		if _, err := s.iterate(root, det); err != nil {
			return res, fmt.Errorf("iteration %d: %w", i, err)
		}
		res.Iterations++
		// The expanding iteration and terminal determinizations do not
		// reach a child.
		if childVisits(root) == before {
			res.Fallbacks++
		}
	}
	res.RootValue = root.q(perspective)

	total := childVisits(root)
	var best *node[A]
	for _, c := range root.children {
		if best == nil || c.visits > best.visits {
			best = c
		}
		if c.visits > 0 {
			res.Distribution = append(res.Distribution, ActionProb[A]{
				Action:   c.action,
				Fraction: float64(c.visits) / float64(total),
			})
		}
	}

	if best != nil && best.visits > 0 {
		res.Action = best.action
	} else {
		res.Action = legal[rng.Intn(len(legal))]
		res.Distribution = []ActionProb[A]{{Action: res.Action, Fraction: 1}}
		res.RandomFallback = true
	}

	log.Debug().
		Int("player", perspective).
		Int("iterations", res.Iterations).
		Int("fallbacks", res.Fallbacks).
		Float64("rootValue", res.RootValue).
		Bool("randomFallback", res.RandomFallback).
		Msg("puct search complete")
	return res, nil
}

func childVisits[A comparable](n *node[A]) int {
	sum := 0
	for _, c := range n.children {
		sum += c.visits
	}
	return sum
}

// iterate runs one pass below n and returns the absolute per-seat value
// vector, nil when nothing could be learned.
func (s *searcher[P, A]) iterate(n *node[A], pos P) ([]float64, error) {
	st := s.oracle.Status(pos, s.cfg.MaxRound)
	if st.Terminal {
		n.record(st.Scores)
		return st.Scores, nil
	}

	if !n.expanded {
		values, err := s.expand(n, pos, st.Player)
		if err != nil {
			return nil, err
		}
		n.record(values)
		return values, nil
	}

	c := s.selectChild(n, pos)
	if c == nil {
		n.record(nil)
		return nil, nil
	}

	values, err := s.iterate(c, s.oracle.Apply(pos, c.action, s.rng))
	if err != nil {
		return nil, err
	}
	n.record(values)
	return values, nil
}

// expand evaluates pos once, creates a child per legal action and returns
// the evaluator's value vector mapped to absolute seats.
func (s *searcher[P, A]) expand(n *node[A], pos P, player int) ([]float64, error) {
	legal := s.oracle.LegalActions(pos)
	if len(legal) == 0 {
		return nil, ErrNoLegalActions
	}

	state := s.enc.EncodeState(pos, player)
	actions := make([][]float32, len(legal))
	for i, a := range legal {
		actions[i] = s.enc.EncodeAction(pos, a)
	}
	priors, rotated, err := s.eval.Evaluate(state, actions)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	n.children = make([]*node[A], len(legal))
	for i, a := range legal {
		var prior float64
		if i < len(priors) {
			prior = float64(priors[i])
		}
		n.children[i] = &node[A]{action: a, player: player, prior: prior}
	}
	n.expanded = true

	return unrotate(rotated, player, s.enc.NumPlayers(pos)), nil
}

// unrotate maps a value vector indexed from the player to act back to
// absolute seats. Missing entries are 0.
func unrotate(rotated []float32, player, numPlayers int) []float64 {
	values := make([]float64, numPlayers)
	for slot := 0; slot < numPlayers && slot < len(rotated); slot++ {
		values[(player+slot)%numPlayers] = float64(rotated[slot])
	}
	return values
}

// selectChild maximizes Q + cPuct*prior*sqrt(N)/(1+n) among children legal
// in pos. Q is taken from the seat that chose the child.
func (s *searcher[P, A]) selectChild(n *node[A], pos P) *node[A] {
	sqrtN := math.Sqrt(float64(n.visits))
	var best *node[A]
	bestValue := math.Inf(-1)
	for _, c := range n.children {
		if !s.oracle.IsLegal(pos, c.action) {
			continue
		}
		value := c.q(c.player) + s.cfg.CPuct*c.prior*sqrtN/float64(1+c.visits)
		if best == nil || value > bestValue {
			best = c
			bestValue = value
		}
	}
	return best
}
