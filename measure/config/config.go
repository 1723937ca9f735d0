// Package config holds the measurement configuration shared by every stage of
// the impulse response pipeline.
//
// A Config is a plain value: it is loaded once per measurement run (from YAML
// or built from defaults and options) and handed to each component's
// constructor. Nothing in the module caches it globally.
//
// # Usage
//
//	cfg, err := config.Load("params.yaml")
//	if err != nil {
//	    return err
//	}
//	cfg = config.Apply(cfg, config.WithSampleRate(44100))
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/farcloser/primordium/fault"
	"gopkg.in/yaml.v3"
)

// Errors returned by configuration loading and validation.
var (
	ErrNotMapping        = errors.New("config: document root must be a mapping")
	ErrMalformed         = errors.New("config: malformed document")
	ErrInvalidSampleRate = errors.New("config: sample rate must be positive")
	ErrInvalidDuration   = errors.New("config: sweep duration must be positive")
	ErrInvalidFrequency  = errors.New("config: sweep frequencies must be positive")
	ErrFrequencyOrder    = errors.New("config: sweep_freq_min must be less than sweep_freq_max")
	ErrNegativeTime      = errors.New("config: silence, tail and window times must not be negative")
	ErrInvalidSmoothing  = errors.New("config: response_smoothing must not be negative")
)

// Default values, used for every key absent from a configuration document.
const (
	DefaultSampleRate          = 48000.0
	DefaultSweepDuration       = 8.0
	DefaultSweepFreqMin        = 20.0
	DefaultSweepFreqMax        = 20000.0
	DefaultSilencePre          = 0.0
	DefaultSilencePost         = 0.0
	DefaultRecordTail          = 0.0
	DefaultEarlyReflectionTime = 0.08
	DefaultMinPeakDB           = -25.0
	DefaultMinPeakDistanceMs   = 1.0
	DefaultMinEnergy           = 1e-9
	DefaultTrimIR              = true
	DefaultTrimPreDirect       = 0.05
	DefaultResponseWindow      = "hann"
	DefaultResponseSmoothing   = 0
)

// Config is the immutable per-run measurement configuration.
// Times are in seconds unless the field name says otherwise.
type Config struct {
	SampleRate          float64 `yaml:"fs"`
	SweepDuration       float64 `yaml:"sweep_duration"`
	SweepFreqMin        float64 `yaml:"sweep_freq_min"`
	SweepFreqMax        float64 `yaml:"sweep_freq_max"`
	SilencePre          float64 `yaml:"silence_pre"`
	SilencePost         float64 `yaml:"silence_post"`
	RecordTail          float64 `yaml:"record_tail"`
	EarlyReflectionTime float64 `yaml:"early_reflection_time"`
	MinPeakDB           float64 `yaml:"min_peak_db"`
	MinPeakDistanceMs   float64 `yaml:"min_peak_distance_ms"`
	MinEnergy           float64 `yaml:"min_energy"`

	// Post-processing of the deconvolved response.
	TrimIR            bool    `yaml:"trim_ir"`
	TrimPreDirect     float64 `yaml:"trim_pre_direct"`
	ResponseWindow    string  `yaml:"response_window"`
	ResponseSmoothing int     `yaml:"response_smoothing"` // 1/N octave, 0 disables
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		SampleRate:          DefaultSampleRate,
		SweepDuration:       DefaultSweepDuration,
		SweepFreqMin:        DefaultSweepFreqMin,
		SweepFreqMax:        DefaultSweepFreqMax,
		SilencePre:          DefaultSilencePre,
		SilencePost:         DefaultSilencePost,
		RecordTail:          DefaultRecordTail,
		EarlyReflectionTime: DefaultEarlyReflectionTime,
		MinPeakDB:           DefaultMinPeakDB,
		MinPeakDistanceMs:   DefaultMinPeakDistanceMs,
		MinEnergy:           DefaultMinEnergy,
		TrimIR:              DefaultTrimIR,
		TrimPreDirect:       DefaultTrimPreDirect,
		ResponseWindow:      DefaultResponseWindow,
		ResponseSmoothing:   DefaultResponseSmoothing,
	}
}

// Load reads and parses a YAML configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes a YAML document on top of the defaults.
// Keys that are absent keep their default value; an empty or null document
// yields the defaults unchanged.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if len(root.Content) == 0 {
		return cfg, nil
	}

	doc := root.Content[0]
	if doc.Kind == yaml.ScalarNode && doc.Tag == "!!null" {
		return cfg, nil
	}

	if doc.Kind != yaml.MappingNode {
		return Config{}, fmt.Errorf("%w: got %s", ErrNotMapping, kindName(doc.Kind))
	}

	if err := doc.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	cfg.normalize()

	return cfg, nil
}

// normalize replaces values that would make the eps floor meaningless.
func (c *Config) normalize() {
	if c.MinEnergy <= 0 {
		c.MinEnergy = DefaultMinEnergy
	}

	if c.ResponseWindow == "" {
		c.ResponseWindow = DefaultResponseWindow
	}
}

// Validate reports configuration values that cannot produce a physically
// meaningful measurement. The pipeline itself does not call it: degenerate
// configurations produce degenerate, never panicking, output.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}

	if c.SweepDuration <= 0 {
		return ErrInvalidDuration
	}

	if c.SweepFreqMin <= 0 || c.SweepFreqMax <= 0 {
		return ErrInvalidFrequency
	}

	if c.SweepFreqMin >= c.SweepFreqMax {
		return ErrFrequencyOrder
	}

	if c.SilencePre < 0 || c.SilencePost < 0 || c.RecordTail < 0 ||
		c.EarlyReflectionTime < 0 || c.MinPeakDistanceMs < 0 || c.TrimPreDirect < 0 {
		return ErrNegativeTime
	}

	if c.ResponseSmoothing < 0 {
		return ErrInvalidSmoothing
	}

	return nil
}

// Samples converts a duration in seconds to a whole number of samples,
// truncating toward zero. Negative durations give zero.
func (c Config) Samples(seconds float64) int {
	n := int(seconds * c.SampleRate)
	if n < 0 {
		return 0
	}

	return n
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	case yaml.MappingNode:
		return "mapping"
	default:
		return fmt.Sprintf("kind %d", k)
	}
}
