package neural

import (
	"errors"

	"github.com/chewxy/math32"
)

// ErrModelNotLoaded is returned by evaluators without a usable model.
var ErrModelNotLoaded = errors.New("model not loaded")

// Evaluator scores a position for the PUCT search.
//
// state is the position encoded for the player to act and actions holds one
// encoding per legal action. priors has one probability per action (missing
// entries are treated as 0). values holds one expected score per seat,
// rotated so index 0 is the player to act.
type Evaluator interface {
	Evaluate(state []float32, actions [][]float32) (priors []float32, values []float32, err error)
}

// UniformEvaluator gives every action the same prior and every seat the
// same value. It stands in when no model is available.
type UniformEvaluator struct {
	NumPlayers int
}

func (u UniformEvaluator) Evaluate(_ []float32, actions [][]float32) ([]float32, []float32, error) {
	priors := make([]float32, len(actions))
	if len(actions) > 0 {
		p := 1 / float32(len(actions))
		for i := range priors {
			priors[i] = p
		}
	}
	var values []float32
	if u.NumPlayers > 0 {
		values = make([]float32, u.NumPlayers)
		v := 1 / float32(u.NumPlayers)
		for i := range values {
			values[i] = v
		}
	}
	return priors, values, nil
}

// Softmax converts logits to probabilities. A degenerate input (all -Inf)
// yields a uniform distribution.
func Softmax(logits []float32) []float32 {
	if len(logits) == 0 {
		return nil
	}
	maxL := math32.Inf(-1)
	for _, l := range logits {
		if l > maxL {
			maxL = l
		}
	}
	out := make([]float32, len(logits))
	var sum float32
	for i, l := range logits {
		w := math32.Exp(l - maxL)
		out[i] = w
		sum += w
	}
	if sum > 0 && !math32.IsNaN(sum) && !math32.IsInf(sum, 0) {
		for i := range out {
			out[i] /= sum
		}
		return out
	}
	uniform := 1 / float32(len(out))
	for i := range out {
		out[i] = uniform
	}
	return out
}
