package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lao-tseu-is-alive/go-boids-world/pkg/flock"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrUnsupportedConfigFormat is returned by LoadConfig for files that are neither .json nor .toml.
var ErrUnsupportedConfigFormat = errors.New("unsupported config format")

//go:embed config.schema.json
var configSchema string

type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth" toml:"worldWidth"`
	WorldHeight float64 `json:"worldHeight" toml:"worldHeight"`

	// Population
	NumBoids int    `json:"numBoids" toml:"numBoids"`
	Seed     uint64 `json:"seed" toml:"seed"` // 0 picks a time based seed

	// Driver
	TicksPerSecond int    `json:"ticksPerSecond" toml:"ticksPerSecond"` // 0 runs unthrottled (headless only)
	Steps          int    `json:"steps" toml:"steps"`                   // headless run length
	RecordPath     string `json:"recordPath" toml:"recordPath"`         // empty disables recording
	PredatorOrbit  bool   `json:"predatorOrbit" toml:"predatorOrbit"`   // headless: move a predator around the center

	// Boids flocking parameters (matching pkg/flock/rules.go)
	AvoidFactor     float64 `json:"avoidFactor" toml:"avoidFactor"`
	VisibleRange    float64 `json:"visibleRange" toml:"visibleRange"`
	MatchingFactor  float64 `json:"matchingFactor" toml:"matchingFactor"`
	TurnFactor      float64 `json:"turnFactor" toml:"turnFactor"`
	MaxSpeed        float64 `json:"maxSpeed" toml:"maxSpeed"`
	MinSpeed        float64 `json:"minSpeed" toml:"minSpeed"`
	CenteringFactor float64 `json:"centeringFactor" toml:"centeringFactor"`
	ProtectedRange  float64 `json:"protectedRange" toml:"protectedRange"`

	PredatorTurnFactor float64 `json:"predatorTurnFactor" toml:"predatorTurnFactor"`
	PredatorRange      float64 `json:"predatorRange" toml:"predatorRange"`
	MarginRatio        float64 `json:"marginRatio" toml:"marginRatio"`
}

func DefaultConfig() *Config {
	r := flock.DefaultRules()
	return &Config{
		WorldWidth:         1000,
		WorldHeight:        800,
		NumBoids:           500,
		TicksPerSecond:     60,
		Steps:              600,
		AvoidFactor:        float64(r.AvoidFactor),
		VisibleRange:       float64(r.VisibleRange),
		MatchingFactor:     float64(r.MatchingFactor),
		TurnFactor:         float64(r.TurnFactor),
		MaxSpeed:           float64(r.MaxSpeed),
		MinSpeed:           float64(r.MinSpeed),
		CenteringFactor:    float64(r.CenteringFactor),
		ProtectedRange:     float64(r.ProtectedRange),
		PredatorTurnFactor: float64(r.PredatorTurnFactor),
		PredatorRange:      float64(r.PredatorRange),
		MarginRatio:        float64(r.MarginRatio),
	}
}

// Rules converts the flocking parameters for the simulation core.
func (c *Config) Rules() flock.Rules {
	return flock.Rules{
		AvoidFactor:        float32(c.AvoidFactor),
		VisibleRange:       float32(c.VisibleRange),
		MatchingFactor:     float32(c.MatchingFactor),
		TurnFactor:         float32(c.TurnFactor),
		MaxSpeed:           float32(c.MaxSpeed),
		MinSpeed:           float32(c.MinSpeed),
		CenteringFactor:    float32(c.CenteringFactor),
		ProtectedRange:     float32(c.ProtectedRange),
		PredatorTurnFactor: float32(c.PredatorTurnFactor),
		PredatorRange:      float32(c.PredatorRange),
		MarginRatio:        float32(c.MarginRatio),
	}
}

// NewWorld builds the world described by the config.
func (c *Config) NewWorld() *flock.World {
	var opts []flock.Option
	if c.Seed != 0 {
		opts = append(opts, flock.WithSeed(c.Seed))
	}
	return flock.New(float32(c.WorldWidth), float32(c.WorldHeight), c.NumBoids, c.Rules(), opts...)
}

// LoadConfig loads configuration from a JSON or TOML file and validates it against the schema.
// Values missing from the file keep their DefaultConfig value.
func LoadConfig(configFile string) (*Config, error) {
	// 1. Compile Schema
	sch, err := jsonschema.CompileString("config.schema.json", configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	cfg := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(configFile)); ext {
	case ".json":
		// 2. Read Config File
		b, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		// 3. Validate the document as written
		if err := validateJSON(sch, b); err != nil {
			return nil, err
		}
		// 4. Unmarshal into Struct
		if err := json.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}

	case ".toml":
		// Decode to a raw document first, so unknown keys reach the schema
		var raw map[string]any
		if _, err := toml.DecodeFile(configFile, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode config toml: %w", err)
		}
		b, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to encode config for validation: %w", err)
		}
		if err := validateJSON(sch, b); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedConfigFormat, ext)
	}

	return cfg, nil
}

func validateJSON(sch *jsonschema.Schema, b []byte) error {
	var v interface{}
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&v); err != nil {
		return fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
