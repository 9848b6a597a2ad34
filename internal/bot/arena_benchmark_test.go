//go:build integration

package bot

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/freeeve/colori/api/internal/bot/ismcts"
	"github.com/freeeve/colori/api/pkg/draft"
)

// benchNumGames returns BENCH_GAMES env var as int, or the provided default.
func benchNumGames(defaultN int) int {
	if s := os.Getenv("BENCH_GAMES"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return defaultN
}

// TestISMCTSBeatsRandom plays seat 0 with ISMCTS against random opponents.
// A random seat expects a 1/3 share in a three-player game.
func TestISMCTSBeatsRandom(t *testing.T) {
	res, err := RunArena(context.Background(), ArenaConfig{
		Game:    draft.DefaultConfig(),
		Seats:   []string{"ismcts", "random", "random"},
		Search:  SearchConfig{ISMCTS: ismcts.Config{Iterations: 400}},
		Games:   benchNumGames(40),
		Workers: 4,
		Seed:    2024,
	})
	if err != nil {
		t.Fatalf("RunArena: %v", err)
	}
	t.Logf("win share %v over %d games", res.WinShare, len(res.Games))
	if res.WinShare[0] < 0.45 {
		t.Errorf("expected ISMCTS to clearly beat random, got share %.3f", res.WinShare[0])
	}
}

func TestNeuralUniformBeatsRandom(t *testing.T) {
	res, err := RunArena(context.Background(), ArenaConfig{
		Game:    draft.DefaultConfig(),
		Seats:   []string{"neural", "random", "random"},
		Games:   benchNumGames(40),
		Workers: 4,
		Seed:    4048,
	})
	if err != nil {
		t.Fatalf("RunArena: %v", err)
	}
	t.Logf("win share %v over %d games", res.WinShare, len(res.Games))
	if res.WinShare[0] < 0.4 {
		t.Errorf("expected PUCT to beat random, got share %.3f", res.WinShare[0])
	}
}
