package bot

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/colori/api/internal/bot/ismcts"
	"github.com/freeeve/colori/api/internal/bot/neural"
	"github.com/freeeve/colori/api/pkg/draft"
)

// ErrUnknownStrategy is returned by StrategyFor for unregistered names.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy picks a move for one seat. Implementations are safe for
// concurrent use; all per-decision state lives in the call.
type Strategy interface {
	Name() string
	ChooseAction(s *draft.State, player int, rng *rand.Rand) (draft.Action, error)
}

// SearchConfig holds the settings shared by the search strategies.
type SearchConfig struct {
	ISMCTS ismcts.Config
	Neural neural.Config
	// ModelPath selects an ONNX model for the neural strategy. Empty or
	// unloadable paths fall back to uniform priors.
	ModelPath string
}

type strategyFactory func(cfg SearchConfig) Strategy

var strategies = map[string]strategyFactory{
	"random": func(SearchConfig) Strategy { return RandomStrategy{} },
	"ismcts": func(cfg SearchConfig) Strategy { return &ISMCTSStrategy{Config: cfg.ISMCTS} },
	"neural": func(cfg SearchConfig) Strategy { return newNeuralStrategy(cfg) },
}

// StrategyFor returns the strategy registered under name.
func StrategyFor(name string, cfg SearchConfig) (Strategy, error) {
	f, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return f(cfg), nil
}

// StrategyNames lists the registered strategies in sorted order.
func StrategyNames() []string {
	names := make([]string, 0, len(strategies))
	for n := range strategies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// --- RandomStrategy ---

// RandomStrategy picks a uniformly random legal action.
type RandomStrategy struct{}

func (RandomStrategy) Name() string { return "random" }

func (RandomStrategy) ChooseAction(s *draft.State, _ int, rng *rand.Rand) (draft.Action, error) {
	legal := draft.Rules{}.LegalActions(s)
	if len(legal) == 0 {
		return draft.Action{}, ismcts.ErrNoLegalActions
	}
	return legal[rng.Intn(len(legal))], nil
}

// --- ISMCTSStrategy ---

// ISMCTSStrategy searches with information-set MCTS and random rollouts.
type ISMCTSStrategy struct {
	Config ismcts.Config
}

func (*ISMCTSStrategy) Name() string { return "ismcts" }

func (st *ISMCTSStrategy) ChooseAction(s *draft.State, player int, rng *rand.Rand) (draft.Action, error) {
	res, err := ismcts.Search[*draft.State, draft.Action](draft.Rules{}, s, player, s.Seen[player], st.Config, rng)
	if err != nil {
		return draft.Action{}, fmt.Errorf("ismcts seat %d: %w", player, err)
	}
	return res.Action, nil
}

// --- NeuralStrategy ---

// NeuralStrategy searches with PUCT guided by an evaluator.
type NeuralStrategy struct {
	Config neural.Config
	// Evaluator may be nil, in which case uniform priors sized to the game
	// are used.
	Evaluator neural.Evaluator
}

func newNeuralStrategy(cfg SearchConfig) *NeuralStrategy {
	st := &NeuralStrategy{Config: cfg.Neural}
	if cfg.ModelPath == "" {
		return st
	}
	e, err := neural.LoadOnnxEvaluator(cfg.ModelPath)
	if err != nil {
		log.Warn().Err(err).Msg("bot: neural model load failed; falling back to uniform priors")
		return st
	}
	st.Evaluator = e
	return st
}

func (*NeuralStrategy) Name() string { return "neural" }

func (st *NeuralStrategy) ChooseAction(s *draft.State, player int, rng *rand.Rand) (draft.Action, error) {
	res, err := st.Search(s, player, rng)
	if err != nil {
		return draft.Action{}, err
	}
	return res.Action, nil
}

// Search runs the PUCT search and returns the full result, including the
// root visit distribution.
func (st *NeuralStrategy) Search(s *draft.State, player int, rng *rand.Rand) (neural.Result[draft.Action], error) {
	eval := st.Evaluator
	if eval == nil {
		eval = neural.UniformEvaluator{NumPlayers: s.Config().Players}
	}
	var rules draft.Rules
	res, err := neural.Search[*draft.State, draft.Action](rules, rules, eval, s, player, s.Seen[player], st.Config, rng)
	if err != nil {
		return res, fmt.Errorf("neural seat %d: %w", player, err)
	}
	return res, nil
}
