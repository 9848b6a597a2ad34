package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/freeeve/colori/api/internal/logger"
	"github.com/freeeve/colori/api/pkg/draft"
)

// ArenaConfig configures a batch of bot-vs-bot games.
type ArenaConfig struct {
	Game    draft.Config
	Seats   []string // strategy name per seat
	Search  SearchConfig
	Games   int
	Workers int
	Seed    int64 // 0 = random; otherwise game i uses Seed+i
}

// GameResult describes one completed game.
type GameResult struct {
	GameID    string       `json:"gameId"`
	Seed      int64        `json:"seed"`
	Seats     []string     `json:"seats"`
	RawScores []float64    `json:"rawScores"`
	Scores    []float64    `json:"scores"`
	Picks     int          `json:"picks"`
	Moves     []MoveRecord `json:"moves"`
}

// MoveRecord is one pick of a game in play order.
type MoveRecord struct {
	Seq    int    `json:"seq"`
	Round  int    `json:"round"`
	Pick   int    `json:"pick"`
	Player int    `json:"player"`
	Choice string `json:"choice"`
	Card   uint8  `json:"card"` // instance the choice resolved to
}

// ArenaResult aggregates an arena run.
type ArenaResult struct {
	Games  []*GameResult `json:"games"`
	Errors int           `json:"errors"`
	// WinShare is each seat's mean normalized score over completed games.
	WinShare []float64 `json:"winShare"`
}

// RunGame plays one game to the end with one strategy per seat.
func RunGame(ctx context.Context, cfg draft.Config, seats []Strategy, seed int64) (*GameResult, error) {
	if len(seats) != cfg.Players {
		return nil, fmt.Errorf("%w: %d strategies for %d players", draft.ErrInvalidConfig, len(seats), cfg.Players)
	}
	rng := NewRng(seed)
	s, err := draft.NewGame(cfg, rng)
	if err != nil {
		return nil, err
	}

	id := logger.GameIDFromContext(ctx)
	if id == "" {
		id = logger.NewGameID()
		ctx = logger.WithGameID(ctx, id)
	}
	l := logger.ForGame(ctx)

	var rules draft.Rules
	res := &GameResult{GameID: id, Seed: seed}
	for _, st := range seats {
		res.Seats = append(res.Seats, st.Name())
	}

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		status := rules.Status(s, 0)
		if status.Terminal {
			res.Scores = status.Scores
			break
		}
		player := status.Player
		a, err := seats[player].ChooseAction(s, player, rng)
		if err != nil {
			return nil, fmt.Errorf("round %d pick %d: %w", s.Round, s.Pick, err)
		}
		if !rules.IsLegal(s, a) {
			return nil, fmt.Errorf("round %d pick %d: %s chose illegal %v", s.Round, s.Pick, seats[player].Name(), a)
		}
		l.Debug().Int("round", s.Round).Int("pick", s.Pick).Int("seat", player).Stringer("action", a).Msg("pick")
		move := MoveRecord{Seq: res.Picks, Round: s.Round, Pick: s.Pick, Player: player, Choice: a.Type.String()}
		before := s.Drafted[player]
		rules.Apply(s, a, rng)
		move.Card, _ = s.Drafted[player].Difference(before).Lowest()
		res.Moves = append(res.Moves, move)
		res.Picks++
	}
	res.RawScores = s.RawScores()

	l.Info().Floats64("raw", res.RawScores).Floats64("scores", res.Scores).Msg("Game completed")
	return res, nil
}

// RunArena plays cfg.Games independent games across cfg.Workers goroutines.
// Each game owns its state, trees and rng; strategies are shared.
// Failed games are counted and skipped; cancellation stops the run.
func RunArena(ctx context.Context, cfg ArenaConfig) (*ArenaResult, error) {
	if cfg.Games <= 0 {
		cfg.Games = 1
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	seats, err := buildSeats(cfg.Seats, cfg.Game.Players, cfg.Search)
	if err != nil {
		return nil, err
	}

	seeds := make([]int64, cfg.Games)
	for i := range seeds {
		if cfg.Seed != 0 {
			seeds[i] = cfg.Seed + int64(i)
		} else {
			seeds[i] = NewSeed()
		}
	}

	results := make([]*GameResult, cfg.Games)
	var mu sync.Mutex
	errCount := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := 0; i < cfg.Games; i++ {
		idx := i
		g.Go(func() error {
			gameCtx := logger.WithGameID(gctx, logger.NewGameID())
			r, err := RunGame(gameCtx, cfg.Game, seats, seeds[idx])
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				log.Error().Err(err).Int("game", idx+1).Msg("Game failed")
				mu.Lock()
				errCount++
				mu.Unlock()
				return nil
			}
			results[idx] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &ArenaResult{Errors: errCount, WinShare: make([]float64, cfg.Game.Players)}
	for _, r := range results {
		if r == nil {
			continue
		}
		out.Games = append(out.Games, r)
		for seat, v := range r.Scores {
			out.WinShare[seat] += v
		}
	}
	if n := len(out.Games); n > 0 {
		for i := range out.WinShare {
			out.WinShare[i] /= float64(n)
		}
	}
	return out, nil
}

func buildSeats(names []string, players int, cfg SearchConfig) ([]Strategy, error) {
	if len(names) != players {
		return nil, fmt.Errorf("%w: %d seats configured for %d players", draft.ErrInvalidConfig, len(names), players)
	}
	byName := make(map[string]Strategy)
	seats := make([]Strategy, players)
	for i, name := range names {
		st, ok := byName[name]
		if !ok {
			var err error
			if st, err = StrategyFor(name, cfg); err != nil {
				return nil, fmt.Errorf("seat %d: %w", i, err)
			}
			byName[name] = st
		}
		seats[i] = st
	}
	return seats, nil
}
