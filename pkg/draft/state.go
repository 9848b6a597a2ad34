// Package draft implements a compact pick-and-pass drafting card game.
//
// Each round every seat is dealt a hidden hand from a shared deck. Seats
// pick one card at a time in seat order; once every seat has picked, the
// hands pass to the neighbouring seat, alternating direction each round.
// Picks are placed face up. After the last round the drafted collections
// are scored and the best collection wins.
package draft

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/freeeve/colori/api/pkg/cardset"
	"github.com/freeeve/colori/api/pkg/game"
)

// MaxPlayers is the largest supported table.
const MaxPlayers = 4

// ErrInvalidConfig is returned by NewGame for unplayable configurations.
var ErrInvalidConfig = errors.New("invalid draft config")

// Config describes a game.
type Config struct {
	Players  int
	Rounds   int
	HandSize int
	Copies   int // instances of each card type in the deck
}

// DefaultConfig is a three-player, three-round game.
func DefaultConfig() Config {
	return Config{Players: 3, Rounds: 3, HandSize: 6, Copies: 12}
}

func (c Config) validate() error {
	switch {
	case c.Players < 2 || c.Players > MaxPlayers:
		return fmt.Errorf("%w: players %d not in [2,%d]", ErrInvalidConfig, c.Players, MaxPlayers)
	case c.Rounds < 1:
		return fmt.Errorf("%w: rounds %d", ErrInvalidConfig, c.Rounds)
	case c.HandSize < 1:
		return fmt.Errorf("%w: hand size %d", ErrInvalidConfig, c.HandSize)
	case c.Copies < 1 || c.Copies*int(NumTypes) > cardset.MaxID:
		return fmt.Errorf("%w: %d copies exceed %d cards", ErrInvalidConfig, c.Copies, cardset.MaxID)
	case c.Players*c.Rounds*c.HandSize > c.Copies*int(NumTypes):
		return fmt.Errorf("%w: deck of %d cannot deal %d", ErrInvalidConfig,
			c.Copies*int(NumTypes), c.Players*c.Rounds*c.HandSize)
	}
	return nil
}

// Action picks one card of the given type from the current hand. Card
// instances of the same type are interchangeable, so the type is the
// action's identity; Apply takes the lowest-numbered matching instance.
type Action struct {
	Type CardType
}

func (a Action) String() string { return "pick " + a.Type.String() }

// State is a complete game position, including information some seats
// cannot see. Use Rules.Determinize to obtain a seat's view of it.
type State struct {
	cfg Config
	reg *registry

	Deck    cardset.Set
	Hands   []cardset.Set
	Drafted []cardset.Set // everything each seat has taken this game
	Picks   [][]uint8     // this round's picks in order, per seat
	Seen    []game.Observations

	Round     int // 1-based
	Pick      int // 0-based within the round
	Current   int
	Direction int
	Over      bool
}

// NewGame shuffles a fresh deck and deals the first round.
func NewGame(cfg Config, rng *rand.Rand) (*State, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	reg := newRegistry(cfg.Copies)
	s := &State{
		cfg:       cfg,
		reg:       reg,
		Deck:      reg.all,
		Hands:     make([]cardset.Set, cfg.Players),
		Drafted:   make([]cardset.Set, cfg.Players),
		Picks:     make([][]uint8, cfg.Players),
		Seen:      make([]game.Observations, cfg.Players),
		Round:     1,
		Direction: 1,
	}
	s.deal(rng)
	return s, nil
}

// Config returns the game configuration.
func (s *State) Config() Config { return s.cfg }

// TypeOf returns the type of a card instance.
func (s *State) TypeOf(id uint8) CardType { return s.reg.types[id] }

// Clone returns a deep copy sharing only the read-only card registry.
func (s *State) Clone() *State {
	c := *s
	c.Hands = append([]cardset.Set(nil), s.Hands...)
	c.Drafted = append([]cardset.Set(nil), s.Drafted...)
	c.Picks = make([][]uint8, len(s.Picks))
	for i, p := range s.Picks {
		c.Picks[i] = append([]uint8(nil), p...)
	}
	c.Seen = make([]game.Observations, len(s.Seen))
	for i, o := range s.Seen {
		c.Seen[i] = append(game.Observations(nil), o...)
	}
	return &c
}

// RawScores returns every seat's current collection score.
func (s *State) RawScores() []float64 {
	out := make([]float64, len(s.Drafted))
	for i, d := range s.Drafted {
		out[i] = float64(s.reg.rawScore(d))
	}
	return out
}

func (s *State) deal(rng *rand.Rand) {
	for i := range s.Hands {
		s.Hands[i] = s.Deck.DrawMultiple(s.cfg.HandSize, rng)
		s.Picks[i] = nil
		s.Seen[i] = nil
	}
	s.Pick = 0
	s.Current = 0
}

func (s *State) nextSeat(seat int) int {
	n := s.cfg.Players
	return ((seat+s.Direction)%n + n) % n
}

// take removes one card of type t from the current hand. It reports false
// if the hand holds no such card.
func (s *State) take(t CardType) bool {
	seat := s.Current
	hand := s.Hands[seat]
	id, ok := hand.Intersection(s.reg.masks[t]).Lowest()
	if !ok {
		return false
	}
	s.Seen[seat] = append(s.Seen[seat], hand)
	s.Hands[seat].Remove(id)
	s.Drafted[seat].Insert(id)
	s.Picks[seat] = append(s.Picks[seat], id)
	return true
}

// advance moves to the next seat, passing hands and dealing new rounds as
// needed.
func (s *State) advance(rng *rand.Rand) {
	s.Current++
	if s.Current < s.cfg.Players {
		return
	}
	s.Current = 0
	s.Pick++
	passed := make([]cardset.Set, len(s.Hands))
	for i, h := range s.Hands {
		passed[s.nextSeat(i)] = h
	}
	s.Hands = passed
	if s.Pick < s.cfg.HandSize {
		return
	}

	s.Round++
	if s.Round > s.cfg.Rounds {
		s.Over = true
		return
	}
	s.Direction = -s.Direction
	s.deal(rng)
}
