package bot

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/freeeve/colori/api/pkg/draft"
)

// ---------------------------------------------------------------------------
// Seat parsing
// ---------------------------------------------------------------------------

func TestParseSeatConfig(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"random", "random", "random"}},
		{"*=ismcts", []string{"ismcts", "ismcts", "ismcts"}},
		{"1=neural,*=ismcts", []string{"ismcts", "neural", "ismcts"}},
		{"0=ismcts", []string{"ismcts", "random", "random"}},
	}
	for _, tt := range tests {
		got, err := ParseSeatConfig(tt.in, 3)
		if err != nil {
			t.Fatalf("%q: %v", tt.in, err)
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("%q: expected %v, got %v", tt.in, tt.want, got)
				break
			}
		}
	}
}

func TestParseSeatConfigErrors(t *testing.T) {
	for _, in := range []string{"3=ismcts", "x=ismcts", "ismcts", "0="} {
		if _, err := ParseSeatConfig(in, 3); err == nil {
			t.Errorf("%q: expected an error", in)
		}
	}
}

func TestParseMatchupAndLabel(t *testing.T) {
	seats, err := ParseMatchup("ismcts-vs-random", 3)
	if err != nil {
		t.Fatal(err)
	}
	if seats[0] != "ismcts" || seats[1] != "random" || seats[2] != "random" {
		t.Errorf("unexpected seats %v", seats)
	}
	if got := MatchLabel(seats); got != "ismcts vs 2 randoms" {
		t.Errorf("unexpected label %q", got)
	}
	all, _ := ParseMatchup("neural", 2)
	if got := MatchLabel(all); got != "all-neural" {
		t.Errorf("unexpected label %q", got)
	}
}

// ---------------------------------------------------------------------------
// Games
// ---------------------------------------------------------------------------

func TestRunGameCompletes(t *testing.T) {
	cfg := draft.DefaultConfig()
	seats := []Strategy{RandomStrategy{}, RandomStrategy{}, RandomStrategy{}}
	r, err := RunGame(context.Background(), cfg, seats, 11)
	if err != nil {
		t.Fatalf("RunGame: %v", err)
	}
	if want := cfg.Players * cfg.Rounds * cfg.HandSize; r.Picks != want {
		t.Errorf("expected %d picks, got %d", want, r.Picks)
	}
	if r.GameID == "" {
		t.Error("expected a game id")
	}
	sum := 0.0
	for _, v := range r.Scores {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("scores should sum to 1, got %v", r.Scores)
	}
}

func TestRunGameRecordsMoves(t *testing.T) {
	cfg := draft.Config{Players: 3, Rounds: 2, HandSize: 4, Copies: 6}
	seats := []Strategy{RandomStrategy{}, RandomStrategy{}, RandomStrategy{}}
	r, err := RunGame(context.Background(), cfg, seats, 21)
	if err != nil {
		t.Fatalf("RunGame: %v", err)
	}
	if len(r.Moves) != r.Picks {
		t.Fatalf("expected %d moves, got %d", r.Picks, len(r.Moves))
	}
	// Same copies, same card registry.
	ref, err := draft.NewGame(cfg, NewRng(1))
	if err != nil {
		t.Fatal(err)
	}
	cards := map[uint8]bool{}
	perSeat := make([]int, cfg.Players)
	for i, m := range r.Moves {
		if m.Seq != i {
			t.Errorf("move %d: expected seq %d, got %d", i, i, m.Seq)
		}
		if want := i/(cfg.Players*cfg.HandSize) + 1; m.Round != want {
			t.Errorf("move %d: expected round %d, got %d", i, want, m.Round)
		}
		if want := i % cfg.Players; m.Player != want {
			t.Errorf("move %d: expected player %d, got %d", i, want, m.Player)
		}
		if got := ref.TypeOf(m.Card).String(); got != m.Choice {
			t.Errorf("move %d: card %d is %s, choice was %s", i, m.Card, got, m.Choice)
		}
		if cards[m.Card] {
			t.Errorf("move %d: card %d taken twice", i, m.Card)
		}
		cards[m.Card] = true
		perSeat[m.Player]++
	}
	for seat, n := range perSeat {
		if want := cfg.Rounds * cfg.HandSize; n != want {
			t.Errorf("seat %d: expected %d picks, got %d", seat, want, n)
		}
	}
}

func TestRunGameSeatMismatch(t *testing.T) {
	_, err := RunGame(context.Background(), draft.DefaultConfig(), []Strategy{RandomStrategy{}}, 1)
	if !errors.Is(err, draft.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRunGameIsReproducible(t *testing.T) {
	cfg := draft.DefaultConfig()
	seats := []Strategy{&ISMCTSStrategy{Config: testSearchConfig().ISMCTS}, RandomStrategy{}, RandomStrategy{}}
	a, err := RunGame(context.Background(), cfg, seats, 12)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunGame(context.Background(), cfg, seats, 12)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.RawScores {
		if a.RawScores[i] != b.RawScores[i] {
			t.Fatalf("same seed produced %v and %v", a.RawScores, b.RawScores)
		}
	}
}

func TestRunArena(t *testing.T) {
	cfg := ArenaConfig{
		Game:    draft.Config{Players: 2, Rounds: 2, HandSize: 4, Copies: 8},
		Seats:   []string{"ismcts", "random"},
		Search:  testSearchConfig(),
		Games:   6,
		Workers: 3,
		Seed:    100,
	}
	res, err := RunArena(context.Background(), cfg)
	if err != nil {
		t.Fatalf("RunArena: %v", err)
	}
	if len(res.Games) != 6 || res.Errors != 0 {
		t.Fatalf("expected 6 games and no errors, got %d / %d", len(res.Games), res.Errors)
	}
	if math.Abs(res.WinShare[0]+res.WinShare[1]-1) > 1e-9 {
		t.Errorf("win shares should sum to 1, got %v", res.WinShare)
	}
	ids := map[string]bool{}
	for i, g := range res.Games {
		if g.Seed != cfg.Seed+int64(i) {
			t.Errorf("game %d: expected seed %d, got %d", i, cfg.Seed+int64(i), g.Seed)
		}
		if ids[g.GameID] {
			t.Errorf("duplicate game id %s", g.GameID)
		}
		ids[g.GameID] = true
	}
}

func TestRunArenaUnknownStrategy(t *testing.T) {
	cfg := ArenaConfig{Game: draft.Config{Players: 2, Rounds: 1, HandSize: 2, Copies: 4}, Seats: []string{"random", "bogus"}}
	if _, err := RunArena(context.Background(), cfg); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestRunArenaCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := ArenaConfig{Game: draft.DefaultConfig(), Seats: []string{"random", "random", "random"}, Games: 2}
	if _, err := RunArena(ctx, cfg); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
