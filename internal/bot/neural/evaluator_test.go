package neural

import (
	"errors"
	"math"
	"testing"

	gonnx "github.com/advancedclimatesystems/gonnx"
	"gorgonia.org/tensor"
)

// ---------------------------------------------------------------------------
// Softmax
// ---------------------------------------------------------------------------

func TestSoftmaxBasic(t *testing.T) {
	p := Softmax([]float32{1, 2, 3})
	if len(p) != 3 {
		t.Fatalf("expected 3 probabilities, got %d", len(p))
	}
	var sum float32
	for _, v := range p {
		sum += v
	}
	if math.Abs(float64(sum-1)) > 1e-5 {
		t.Errorf("probabilities sum to %f, want 1", sum)
	}
	if p[2] <= p[1] || p[1] <= p[0] {
		t.Error("probabilities should be strictly increasing")
	}
}

func TestSoftmaxEmpty(t *testing.T) {
	if Softmax(nil) != nil {
		t.Error("expected nil for empty input")
	}
}

func TestSoftmaxDegenerate(t *testing.T) {
	inf := float32(math.Inf(-1))
	p := Softmax([]float32{inf, inf})
	if p[0] != 0.5 || p[1] != 0.5 {
		t.Errorf("expected uniform fallback, got %v", p)
	}
}

// ---------------------------------------------------------------------------
// Evaluators
// ---------------------------------------------------------------------------

func TestUniformEvaluator(t *testing.T) {
	priors, values, err := UniformEvaluator{NumPlayers: 4}.Evaluate(nil, make([][]float32, 5))
	if err != nil {
		t.Fatal(err)
	}
	if len(priors) != 5 || priors[0] != 0.2 {
		t.Errorf("unexpected priors %v", priors)
	}
	if len(values) != 4 || values[3] != 0.25 {
		t.Errorf("unexpected values %v", values)
	}
}

func TestOnnxEvaluatorNotLoaded(t *testing.T) {
	var e *OnnxEvaluator
	if _, _, err := e.Evaluate(nil, [][]float32{{1}}); !errors.Is(err, ErrModelNotLoaded) {
		t.Errorf("expected ErrModelNotLoaded, got %v", err)
	}
}

func TestLoadOnnxEvaluatorMissingFile(t *testing.T) {
	if _, err := LoadOnnxEvaluator(t.TempDir() + "/missing.onnx"); err == nil {
		t.Error("expected an error for a missing model")
	}
}

func TestEvaluatorOrUniformFallsBack(t *testing.T) {
	if _, ok := EvaluatorOrUniform("", 3).(UniformEvaluator); !ok {
		t.Error("empty path should select the uniform evaluator")
	}
	e := EvaluatorOrUniform(t.TempDir()+"/missing.onnx", 3)
	u, ok := e.(UniformEvaluator)
	if !ok || u.NumPlayers != 3 {
		t.Errorf("load failure should fall back to uniform, got %T", e)
	}
}

func TestFloatOutput(t *testing.T) {
	outputs := gonnx.Tensors{
		"f32": tensor.New(tensor.WithShape(1, 2), tensor.WithBacking([]float32{1, 2})),
		"f64": tensor.New(tensor.WithShape(1, 2), tensor.WithBacking([]float64{3, 4})),
		"i64": tensor.New(tensor.WithShape(1), tensor.WithBacking([]int64{5})),
	}
	if got, err := floatOutput(outputs, "f32"); err != nil || got[1] != 2 {
		t.Errorf("f32: got %v, %v", got, err)
	}
	if got, err := floatOutput(outputs, "f64"); err != nil || got[0] != 3 {
		t.Errorf("f64: got %v, %v", got, err)
	}
	if _, err := floatOutput(outputs, "i64"); err == nil {
		t.Error("expected an error for int64 output")
	}
	if _, err := floatOutput(outputs, "missing"); err == nil {
		t.Error("expected an error for a missing output")
	}
}
