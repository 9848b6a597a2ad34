// Command check_selfplay reads self-play JSONL samples and checks them
// before they are handed to training.
//
// Usage:
//
//	go run ./cmd/botmatch -selfplay -n 100 | go run ./cmd/check_selfplay
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"

	"github.com/freeeve/colori/api/internal/bot"
	"github.com/freeeve/colori/api/internal/logger"
	"github.com/freeeve/colori/api/pkg/draft"
)

var errBadSample = errors.New("bad sample")

type summary struct {
	Samples int
	Invalid int
	Games   int
	Actions int // total legal actions across valid samples
}

func main() {
	logger.Init()

	inputFile := flag.String("input", "", "Path to JSONL file (default stdin)")
	stateWidth := flag.Int("state-width", draft.StateEncodingSize, "Expected state encoding width")
	actionWidth := flag.Int("action-width", draft.ActionEncodingSize, "Expected action encoding width")
	flag.Parse()

	var in io.Reader = os.Stdin
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			log.Fatal().Err(err).Msg("open input")
		}
		defer f.Close()
		in = f
	}

	sum, err := check(in, *stateWidth, *actionWidth)
	if err != nil {
		log.Fatal().Err(err).Msg("read input")
	}
	avg := 0.0
	if valid := sum.Samples - sum.Invalid; valid > 0 {
		avg = float64(sum.Actions) / float64(valid)
	}
	fmt.Printf("%d samples from %d games, %d invalid, %.2f actions per sample\n",
		sum.Samples, sum.Games, sum.Invalid, avg)
	if sum.Invalid > 0 {
		os.Exit(1)
	}
}

func check(r io.Reader, stateWidth, actionWidth int) (summary, error) {
	var sum summary
	games := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		sum.Samples++
		var s bot.Sample
		if err := json.Unmarshal(scanner.Bytes(), &s); err != nil {
			log.Warn().Err(err).Int("line", line).Msg("unparseable sample")
			sum.Invalid++
			continue
		}
		if err := validateSample(s, stateWidth, actionWidth); err != nil {
			log.Warn().Err(err).Int("line", line).Str("gameId", s.GameID).Msg("invalid sample")
			sum.Invalid++
			continue
		}
		games[s.GameID] = true
		sum.Actions += len(s.Actions)
	}
	sum.Games = len(games)
	return sum, scanner.Err()
}

func validateSample(s bot.Sample, stateWidth, actionWidth int) error {
	if len(s.State) != stateWidth {
		return fmt.Errorf("%w: state width %d, expected %d", errBadSample, len(s.State), stateWidth)
	}
	if len(s.Actions) == 0 {
		return fmt.Errorf("%w: no actions", errBadSample)
	}
	if len(s.Policy) != len(s.Actions) {
		return fmt.Errorf("%w: %d policy entries for %d actions", errBadSample, len(s.Policy), len(s.Actions))
	}
	for i, a := range s.Actions {
		if len(a) != actionWidth {
			return fmt.Errorf("%w: action %d width %d, expected %d", errBadSample, i, len(a), actionWidth)
		}
	}
	if !sumsToOne(s.Policy) {
		return fmt.Errorf("%w: policy does not sum to 1", errBadSample)
	}
	if !sumsToOne(s.Value) {
		return fmt.Errorf("%w: value does not sum to 1", errBadSample)
	}
	return nil
}

// sumsToOne reports whether v is a non-empty probability vector.
func sumsToOne(v []float64) bool {
	if len(v) == 0 || floats.Min(v) < 0 {
		return false
	}
	return math.Abs(floats.Sum(v)-1) < 1e-4
}
