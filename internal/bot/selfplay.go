package bot

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/freeeve/colori/api/internal/bot/neural"
	"github.com/freeeve/colori/api/internal/logger"
	"github.com/freeeve/colori/api/pkg/draft"
)

// Self-play move selection: the first TempThreshold picks of a game sample
// the visit distribution as is, later picks sharpen it with LateTemperature.
const (
	TempThreshold   = 30
	LateTemperature = 0.1
)

// SelfPlayConfig configures training-data generation.
type SelfPlayConfig struct {
	Game      draft.Config
	Neural    neural.Config
	ModelPath string
	Games     int
	Workers   int
	Seed      int64 // 0 = random; otherwise game i uses Seed+i
}

// Sample is one training record: the position seen by Player, the legal
// action encodings, the search's visit distribution aligned with Actions,
// and the final normalized scores rotated so index 0 is Player.
type Sample struct {
	GameID  string      `json:"gameId"`
	Player  int         `json:"player"`
	Round   int         `json:"round"`
	Pick    int         `json:"pick"`
	State   []float32   `json:"state"`
	Actions [][]float32 `json:"actions"`
	Policy  []float64   `json:"policy"`
	Value   []float64   `json:"value"`
}

// SelfPlay plays cfg.Games games with the neural search in every seat and
// passes each game's samples to emit once the game ends. emit is never
// called concurrently. It returns the number of samples emitted.
func SelfPlay(ctx context.Context, cfg SelfPlayConfig, emit func(Sample) error) (int, error) {
	if cfg.Games <= 0 {
		cfg.Games = 1
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	st := &NeuralStrategy{
		Config:    cfg.Neural,
		Evaluator: neural.EvaluatorOrUniform(cfg.ModelPath, cfg.Game.Players),
	}

	var mu sync.Mutex
	emitted := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := 0; i < cfg.Games; i++ {
		seed := cfg.Seed + int64(i)
		if cfg.Seed == 0 {
			seed = NewSeed()
		}
		g.Go(func() error {
			ctx := logger.WithGameID(gctx, logger.NewGameID())
			samples, err := selfPlayGame(ctx, cfg.Game, st, seed)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, s := range samples {
				if err := emit(s); err != nil {
					return fmt.Errorf("emit sample: %w", err)
				}
				emitted++
			}
			return nil
		})
	}
	err := g.Wait()
	return emitted, err
}

func selfPlayGame(ctx context.Context, cfg draft.Config, st *NeuralStrategy, seed int64) ([]Sample, error) {
	rng := NewRng(seed)
	s, err := draft.NewGame(cfg, rng)
	if err != nil {
		return nil, err
	}
	id := logger.GameIDFromContext(ctx)
	l := logger.ForGame(ctx)

	var rules draft.Rules
	var samples []Sample
	moves := 0
	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		status := rules.Status(s, 0)
		if status.Terminal {
			for i := range samples {
				samples[i].Value = rotate(status.Scores, samples[i].Player)
			}
			l.Debug().Int("samples", len(samples)).Floats64("scores", status.Scores).Msg("self-play game completed")
			return samples, nil
		}

		player := status.Player
		res, err := st.Search(s, player, rng)
		if err != nil {
			return nil, err
		}

		legal := rules.LegalActions(s)
		sample := Sample{
			GameID:  id,
			Player:  player,
			Round:   s.Round,
			Pick:    s.Pick,
			State:   rules.EncodeState(s, player),
			Actions: make([][]float32, len(legal)),
			Policy:  make([]float64, len(legal)),
		}
		for i, a := range legal {
			sample.Actions[i] = rules.EncodeAction(s, a)
			for _, p := range res.Distribution {
				if p.Action == a {
					sample.Policy[i] = p.Fraction
				}
			}
		}
		samples = append(samples, sample)

		moves++
		temperature := 1.0
		if moves > TempThreshold {
			temperature = LateTemperature
		}
		rules.Apply(s, sampleAction(res, temperature, rng), rng)
	}
}

// sampleAction draws from the visit distribution raised to 1/temperature,
// falling back to the search's chosen action.
func sampleAction(res neural.Result[draft.Action], temperature float64, rng *rand.Rand) draft.Action {
	weights := make([]float64, len(res.Distribution))
	for i, p := range res.Distribution {
		weights[i] = math.Pow(p.Fraction, 1/temperature)
	}
	total := floats.Sum(weights)
	if total <= 0 {
		return res.Action
	}
	r := rng.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if r <= cum {
			return res.Distribution[i].Action
		}
	}
	return res.Action
}

// rotate reorders absolute per-seat scores so index 0 is player.
func rotate(scores []float64, player int) []float64 {
	n := len(scores)
	out := make([]float64, n)
	for slot := range out {
		out[slot] = scores[(player+slot)%n]
	}
	return out
}
