package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds match and search settings loaded from environment variables,
// optionally overlaid by a YAML file.
type Config struct {
	// Game setup.
	Players  int `yaml:"players"`
	Rounds   int `yaml:"rounds"`
	HandSize int `yaml:"handSize"`
	Copies   int `yaml:"copies"`

	// ISMCTS.
	Iterations      int     `yaml:"iterations"`
	Exploration     float64 `yaml:"exploration"`
	MaxRolloutSteps int     `yaml:"maxRolloutSteps"`

	// PUCT.
	NeuralIterations int     `yaml:"neuralIterations"`
	CPuct            float64 `yaml:"cPuct"`
	ModelPath        string  `yaml:"modelPath"`

	// MaxRound cuts searches off after this round; 0 searches to the end.
	MaxRound int   `yaml:"maxRound"`
	Workers  int   `yaml:"workers"`
	Seed     int64 `yaml:"seed"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Players:          envInt("COLORI_PLAYERS", 3),
		Rounds:           envInt("COLORI_ROUNDS", 3),
		HandSize:         envInt("COLORI_HAND_SIZE", 6),
		Copies:           envInt("COLORI_COPIES", 12),
		Iterations:       envInt("ISMCTS_ITERATIONS", 1000),
		Exploration:      envFloat("ISMCTS_EXPLORATION", 1.4142135623730951),
		MaxRolloutSteps:  envInt("ISMCTS_MAX_ROLLOUT_STEPS", 1000),
		NeuralIterations: envInt("NN_ITERATIONS", 200),
		CPuct:            envFloat("NN_CPUCT", 1.5),
		ModelPath:        envOrDefault("NN_MODEL_PATH", ""),
		MaxRound:         envInt("SEARCH_MAX_ROUND", 0),
		Workers:          envInt("WORKERS", 1),
		Seed:             int64(envInt("SEED", 0)),
	}
}

// LoadFile reads the environment configuration and overlays the fields set
// in the YAML file at path.
func LoadFile(path string) (*Config, error) {
	cfg := Load()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(envOrDefault(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(envOrDefault(key, ""), 64)
	if err != nil {
		return fallback
	}
	return f
}
