package neural

import (
	"fmt"
	"sync"

	gonnx "github.com/advancedclimatesystems/gonnx"
	"github.com/rs/zerolog/log"
	"gorgonia.org/tensor"
)

// ONNX graph input and output names.
const (
	InputState          = "state"
	InputActionFeatures = "action_features"
	InputActionMask     = "action_mask"
	OutputPolicyLogits  = "policy_logits"
	OutputValue         = "value"
)

// OnnxEvaluator runs a policy/value network through gonnx. Inference is
// serialized; a single evaluator may be shared by concurrent searches.
type OnnxEvaluator struct {
	model *gonnx.Model
	path  string
	mu    sync.Mutex
}

// LoadOnnxEvaluator loads the model at path.
func LoadOnnxEvaluator(path string) (*OnnxEvaluator, error) {
	model, err := gonnx.NewModelFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load onnx model %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("onnx evaluator loaded")
	return &OnnxEvaluator{model: model, path: path}, nil
}

// EvaluatorOrUniform loads the model at path, falling back to a uniform
// evaluator when path is empty or the model cannot be loaded.
func EvaluatorOrUniform(path string, numPlayers int) Evaluator {
	if path == "" {
		return UniformEvaluator{NumPlayers: numPlayers}
	}
	e, err := LoadOnnxEvaluator(path)
	if err != nil {
		log.Warn().Err(err).Msg("neural: falling back to uniform evaluator")
		return UniformEvaluator{NumPlayers: numPlayers}
	}
	return e
}

func (e *OnnxEvaluator) Path() string { return e.path }

func (e *OnnxEvaluator) Evaluate(state []float32, actions [][]float32) ([]float32, []float32, error) {
	if e == nil || e.model == nil {
		return nil, nil, ErrModelNotLoaded
	}
	n := len(actions)
	if n == 0 {
		return nil, nil, nil
	}

	width := len(actions[0])
	features := make([]float32, 0, n*width)
	for i, a := range actions {
		if len(a) != width {
			return nil, nil, fmt.Errorf("action %d: encoding width %d, expected %d", i, len(a), width)
		}
		features = append(features, a...)
	}
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}

	inputs := gonnx.Tensors{
		InputState: tensor.New(
			tensor.WithShape(1, len(state)),
			tensor.Of(tensor.Float32),
			tensor.WithBacking(append([]float32(nil), state...)),
		),
		InputActionFeatures: tensor.New(
			tensor.WithShape(1, n, width),
			tensor.Of(tensor.Float32),
			tensor.WithBacking(features),
		),
		InputActionMask: tensor.New(
			tensor.WithShape(1, n),
			tensor.Of(tensor.Bool),
			tensor.WithBacking(mask),
		),
	}

	e.mu.Lock()
	outputs, err := e.model.Run(inputs)
	e.mu.Unlock()
	if err != nil {
		return nil, nil, fmt.Errorf("onnx run: %w", err)
	}

	logits, err := floatOutput(outputs, OutputPolicyLogits)
	if err != nil {
		return nil, nil, err
	}
	if len(logits) > n {
		logits = logits[:n]
	}
	values, err := floatOutput(outputs, OutputValue)
	if err != nil {
		return nil, nil, err
	}
	return Softmax(logits), values, nil
}

// floatOutput extracts a named output as float32, converting float64
// backings.
func floatOutput(outputs gonnx.Tensors, name string) ([]float32, error) {
	out, ok := outputs[name]
	if !ok {
		return nil, fmt.Errorf("onnx output %q not found", name)
	}
	switch d := out.Data().(type) {
	case []float32:
		return d, nil
	case []float64:
		f32 := make([]float32, len(d))
		for i, v := range d {
			f32[i] = float32(v)
		}
		return f32, nil
	default:
		return nil, fmt.Errorf("onnx output %q: unexpected type %T", name, d)
	}
}
