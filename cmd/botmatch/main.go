package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

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

	var (
		seatCfg   string
		matchup   string
		cfgPath   string
		numGames  int
		workers   int
		seed      int64
		modelPath string
		jsonOut   bool
		selfPlay  bool
	)

	flag.StringVar(&seatCfg, "p", "", "Seat config (e.g. 0=ismcts,*=random)")
	flag.StringVar(&matchup, "matchup", "", "Shorthand seat-0-vs-rest (e.g. ismcts-vs-random)")
	flag.StringVar(&cfgPath, "config", "", "YAML config overlay")
	flag.IntVar(&numGames, "n", 1, "Number of games to run")
	flag.IntVar(&workers, "workers", 0, "Concurrency (parallel games, default from WORKERS)")
	flag.Int64Var(&seed, "seed", 0, "Base seed (0 = from config, else random)")
	flag.StringVar(&modelPath, "model", "", "ONNX model for the neural strategy")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	flag.BoolVar(&selfPlay, "selfplay", false, "Write self-play samples as JSON lines to stdout")
	flag.Parse()

	cfg := config.Load()
	if cfgPath != "" {
		var err error
		if cfg, err = config.LoadFile(cfgPath); err != nil {
			log.Fatal().Err(err).Msg("Config load failed")
		}
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if modelPath != "" {
		cfg.ModelPath = modelPath
	}

	game := draft.Config{Players: cfg.Players, Rounds: cfg.Rounds, HandSize: cfg.HandSize, Copies: cfg.Copies}
	search := bot.SearchConfig{
		ISMCTS: ismcts.Config{
			Iterations:      cfg.Iterations,
			Exploration:     cfg.Exploration,
			MaxRolloutSteps: cfg.MaxRolloutSteps,
			MaxRound:        cfg.MaxRound,
		},
		Neural: neural.Config{
			Iterations: cfg.NeuralIterations,
			CPuct:      cfg.CPuct,
			MaxRound:   cfg.MaxRound,
		},
		ModelPath: cfg.ModelPath,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	if selfPlay {
		runSelfPlay(ctx, game, search, cfg, numGames)
		return
	}

	var seats []string
	var err error
	switch {
	case seatCfg != "":
		seats, err = bot.ParseSeatConfig(seatCfg, game.Players)
	case matchup != "":
		seats, err = bot.ParseMatchup(matchup, game.Players)
	default:
		seats, err = bot.ParseSeatConfig("0=ismcts,*=random", game.Players)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Bad seat config")
	}

	res, err := bot.RunArena(ctx, bot.ArenaConfig{
		Game:    game,
		Seats:   seats,
		Search:  search,
		Games:   numGames,
		Workers: cfg.Workers,
		Seed:    cfg.Seed,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Arena failed")
	}

	if jsonOut {
		printJSON(res)
	} else {
		printSummary(res, seats)
	}
}

func runSelfPlay(ctx context.Context, game draft.Config, search bot.SearchConfig, cfg *config.Config, numGames int) {
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	enc := json.NewEncoder(w)

	n, err := bot.SelfPlay(ctx, bot.SelfPlayConfig{
		Game:      game,
		Neural:    search.Neural,
		ModelPath: search.ModelPath,
		Games:     numGames,
		Workers:   cfg.Workers,
		Seed:      cfg.Seed,
	}, func(s bot.Sample) error { return enc.Encode(s) })
	if err != nil {
		log.Error().Err(err).Int("samples", n).Msg("Self-play stopped")
		return
	}
	log.Info().Int("games", numGames).Int("samples", n).Msg("Self-play complete")
}

func printSummary(res *bot.ArenaResult, seats []string) {
	fmt.Printf("\nResults: %s (%d games):\n", bot.MatchLabel(seats), len(res.Games))
	if res.Errors > 0 {
		fmt.Printf("  (%d games failed)\n", res.Errors)
	}

	wins := make([]float64, len(seats))
	totals := make([]float64, len(seats))
	for _, g := range res.Games {
		for i, v := range g.Scores {
			if v == 1 {
				wins[i]++
			}
			totals[i] += g.RawScores[i]
		}
	}
	for i, name := range seats {
		avg := 0.0
		if len(res.Games) > 0 {
			avg = totals[i] / float64(len(res.Games))
		}
		fmt.Printf("  seat %d (%-7s):  %.0f outright wins, win share %.3f  -- avg score: %.1f\n",
			i, name, wins[i], res.WinShare[i], avg)
	}
}

func printJSON(res *bot.ArenaResult) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		log.Error().Err(err).Msg("Encode results failed")
	}
}
