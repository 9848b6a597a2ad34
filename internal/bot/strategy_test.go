package bot

import (
	"errors"
	"testing"

	"github.com/freeeve/colori/api/internal/bot/ismcts"
	"github.com/freeeve/colori/api/internal/bot/neural"
	"github.com/freeeve/colori/api/pkg/draft"
)

func testSearchConfig() SearchConfig {
	return SearchConfig{
		ISMCTS: ismcts.Config{Iterations: 30},
		Neural: neural.Config{Iterations: 20},
	}
}

func TestStrategyForRegistered(t *testing.T) {
	for _, name := range []string{"random", "ismcts", "neural"} {
		st, err := StrategyFor(name, testSearchConfig())
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if st.Name() != name {
			t.Errorf("expected name %q, got %q", name, st.Name())
		}
	}
	if got := StrategyNames(); len(got) != 3 || got[0] != "ismcts" {
		t.Errorf("unexpected strategy names %v", got)
	}
}

func TestStrategyForUnknown(t *testing.T) {
	if _, err := StrategyFor("hard", testSearchConfig()); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestNeuralStrategyFallsBackWithoutModel(t *testing.T) {
	cfg := testSearchConfig()
	cfg.ModelPath = t.TempDir() + "/missing.onnx"
	st, err := StrategyFor("neural", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if ns := st.(*NeuralStrategy); ns.Evaluator != nil {
		t.Errorf("expected no evaluator after a failed load, got %T", ns.Evaluator)
	}
}

func TestStrategiesPickLegalActions(t *testing.T) {
	rng := NewRng(1)
	s, err := draft.NewGame(draft.DefaultConfig(), rng)
	if err != nil {
		t.Fatal(err)
	}
	var rules draft.Rules
	for _, name := range StrategyNames() {
		st, _ := StrategyFor(name, testSearchConfig())
		a, err := st.ChooseAction(s, s.Current, rng)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !rules.IsLegal(s, a) {
			t.Errorf("%s chose illegal %v", name, a)
		}
	}
}

func TestSeedBotRngIsDeterministic(t *testing.T) {
	defer ResetBotRng()
	SeedBotRng(7)
	a := []int64{NewSeed(), NewSeed()}
	SeedBotRng(7)
	b := []int64{NewSeed(), NewSeed()}
	if a[0] != b[0] || a[1] != b[1] {
		t.Errorf("seeded sequences differ: %v vs %v", a, b)
	}
	ResetBotRng()
	if NewSeed() < 0 {
		t.Error("seeds should be non-negative")
	}
}
