package cluster

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the YAML representation of the engine settings.
type Config struct {
	Clusters       int    `yaml:"clusters"`
	MaxIterations  int    `yaml:"max_iterations"`
	Convergence    string `yaml:"convergence"`    // early-exit | fixed-count
	Initialization string `yaml:"initialization"` // random-sample | scrambled-midpoint
	Assignment     string `yaml:"assignment"`     // sequential | parallel
	ChunkSize      int    `yaml:"chunk_size"`
	EmptyClusters  string `yaml:"empty_clusters"` // nan | fail | reseed
	Seed           int64  `yaml:"seed"`           // 0 seeds from the clock
}

// DefaultConfig returns the settings NewKMeans starts with.
func DefaultConfig() Config {
	return Config{
		Clusters:       2,
		MaxIterations:  DefaultMaxIterations,
		Convergence:    EarlyExit.String(),
		Initialization: "random-sample",
		Assignment:     "sequential",
		ChunkSize:      DefaultChunkSize,
		EmptyClusters:  PropagateNaN.String(),
	}
}

// LoadConfig reads a YAML config file. Keys missing from the file keep their
// DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	return ParseConfig(bytes.NewReader(data))
}

// ParseConfig decodes a YAML config. Unknown keys are rejected so that typos
// surface as errors.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("config: failed to parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the config values.
func (c Config) Validate() error {
	if c.Clusters < 1 {
		return fmt.Errorf("config: %w: clusters must be at least 1", ErrInvalidArgument)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("config: %w: max_iterations must be at least 1", ErrInvalidArgument)
	}
	if _, err := c.convergence(); err != nil {
		return err
	}
	if _, err := c.initialization(); err != nil {
		return err
	}
	if _, err := c.assignment(); err != nil {
		return err
	}
	if _, err := c.emptyClusters(); err != nil {
		return err
	}
	return nil
}

// Apply configures km according to c.
func (c Config) Apply(km *KMeans) error {
	if err := c.Validate(); err != nil {
		return err
	}
	km.MaxIterationNumber = c.MaxIterations
	km.Convergence, _ = c.convergence()
	km.InitializationFunc, _ = c.initialization()
	km.AssignmentFunc, _ = c.assignment()
	km.EmptyClusters, _ = c.emptyClusters()

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	km.Rand = rand.New(rand.NewSource(seed))
	return nil
}

func (c Config) convergence() (ConvergencePolicy, error) {
	switch c.Convergence {
	case "early-exit":
		return EarlyExit, nil
	case "fixed-count":
		return FixedCount, nil
	}
	return 0, fmt.Errorf("config: %w: unknown convergence %q", ErrInvalidArgument, c.Convergence)
}

func (c Config) initialization() (InitializationFunction, error) {
	switch c.Initialization {
	case "random-sample":
		return InitRandomSample, nil
	case "scrambled-midpoint":
		return InitScrambledMidpoint, nil
	}
	return nil, fmt.Errorf("config: %w: unknown initialization %q", ErrInvalidArgument, c.Initialization)
}

func (c Config) assignment() (AssignmentFunction, error) {
	switch c.Assignment {
	case "sequential":
		return AssignSequential, nil
	case "parallel":
		return AssignParallel(c.ChunkSize), nil
	}
	return nil, fmt.Errorf("config: %w: unknown assignment %q", ErrInvalidArgument, c.Assignment)
}

func (c Config) emptyClusters() (EmptyClusterPolicy, error) {
	for _, p := range []EmptyClusterPolicy{PropagateNaN, FailOnEmpty, ReseedFarthest} {
		if c.EmptyClusters == p.String() {
			return p, nil
		}
	}
	return 0, fmt.Errorf("config: %w: unknown empty_clusters %q", ErrInvalidArgument, c.EmptyClusters)
}
