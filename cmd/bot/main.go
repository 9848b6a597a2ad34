// Command bot analyzes a single decision: it deals a game, plays a number of
// random picks, then runs both searches for the player to act and prints
// their root statistics side by side.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/colori/api/internal/bot"
	"github.com/freeeve/colori/api/internal/bot/ismcts"
	"github.com/freeeve/colori/api/internal/bot/neural"
	"github.com/freeeve/colori/api/internal/config"
	"github.com/freeeve/colori/api/internal/logger"
	"github.com/freeeve/colori/api/pkg/draft"
)

func main() {
	_ = godotenv.Load()
	logger.Init()

	seed := flag.Int64("seed", 1, "game seed")
	picks := flag.Int("picks", 0, "random picks to play before analyzing")
	iterations := flag.Int("iterations", 0, "ISMCTS iterations (default from config)")
	modelPath := flag.String("model", "", "ONNX model for the PUCT search")
	flag.Parse()

	cfg := config.Load()
	if *iterations > 0 {
		cfg.Iterations = *iterations
	}
	if *modelPath != "" {
		cfg.ModelPath = *modelPath
	}

	rng := bot.NewRng(*seed)
	s, err := draft.NewGame(draft.Config{Players: cfg.Players, Rounds: cfg.Rounds, HandSize: cfg.HandSize, Copies: cfg.Copies}, rng)
	if err != nil {
		log.Fatal().Err(err).Msg("Bad game config")
	}
	var rules draft.Rules
	for i := 0; i < *picks && !rules.Status(s, 0).Terminal; i++ {
		rules.RolloutStep(s, rng)
	}
	if rules.Status(s, 0).Terminal {
		log.Fatal().Int("picks", *picks).Msg("Game over before the analyzed decision")
	}
	player := s.Current

	fmt.Printf("Round %d pick %d, seat %d holds %v\n", s.Round, s.Pick+1, player, s.Hands[player])

	ires, err := ismcts.Search[*draft.State, draft.Action](rules, s, player, s.Seen[player], ismcts.Config{
		Iterations:      cfg.Iterations,
		Exploration:     cfg.Exploration,
		MaxRolloutSteps: cfg.MaxRolloutSteps,
		MaxRound:        cfg.MaxRound,
	}, rng)
	if err != nil {
		log.Fatal().Err(err).Msg("ISMCTS failed")
	}
	printISMCTS(ires)

	eval := neural.EvaluatorOrUniform(cfg.ModelPath, cfg.Players)
	nres, err := neural.Search[*draft.State, draft.Action](rules, rules, eval, s, player, s.Seen[player], neural.Config{
		Iterations: cfg.NeuralIterations,
		CPuct:      cfg.CPuct,
		MaxRound:   cfg.MaxRound,
	}, rng)
	if err != nil {
		log.Fatal().Err(err).Msg("PUCT failed")
	}
	printPUCT(nres)
}

func printISMCTS(res ismcts.Result[draft.Action]) {
	fmt.Printf("\nISMCTS: %s (%d iterations, %d fallbacks)\n", res.Action, res.Iterations, res.Fallbacks)
	if res.Shortcut {
		fmt.Println("  single legal action")
		return
	}
	children := append([]ismcts.ChildStats[draft.Action](nil), res.Children...)
	sort.SliceStable(children, func(i, j int) bool { return children[i].Visits > children[j].Visits })
	for _, c := range children {
		mean := 0.0
		if c.Visits > 0 {
			mean = c.Reward / float64(c.Visits)
		}
		fmt.Printf("  %-12s visits %6d  avail %6d  mean %.3f\n", c.Action, c.Visits, c.Availability, mean)
	}
}

func printPUCT(res neural.Result[draft.Action]) {
	fmt.Printf("\nPUCT: %s (%d iterations, root value %.3f)\n", res.Action, res.Iterations, res.RootValue)
	dist := append([]neural.ActionProb[draft.Action](nil), res.Distribution...)
	sort.SliceStable(dist, func(i, j int) bool { return dist[i].Fraction > dist[j].Fraction })
	for _, p := range dist {
		fmt.Fprintf(os.Stdout, "  %-12s %.3f\n", p.Action, p.Fraction)
	}
}
