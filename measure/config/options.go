package config

// Option mutates a Config.
type Option func(*Config)

// WithSampleRate sets the measurement sample rate.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithSweep sets the sweep duration and frequency range.
func WithSweep(duration, freqMin, freqMax float64) Option {
	return func(cfg *Config) {
		cfg.SweepDuration = duration
		cfg.SweepFreqMin = freqMin
		cfg.SweepFreqMax = freqMax
	}
}

// WithSilence sets the zero padding around the excitation.
func WithSilence(pre, post float64) Option {
	return func(cfg *Config) {
		if pre >= 0 {
			cfg.SilencePre = pre
		}

		if post >= 0 {
			cfg.SilencePost = post
		}
	}
}

// WithRecordTail sets how long capture continues after the excitation ends.
func WithRecordTail(seconds float64) Option {
	return func(cfg *Config) {
		if seconds >= 0 {
			cfg.RecordTail = seconds
		}
	}
}

// WithEarlyReflectionTime sets the end of the early-reflection window,
// measured from the direct sound.
func WithEarlyReflectionTime(seconds float64) Option {
	return func(cfg *Config) {
		if seconds >= 0 {
			cfg.EarlyReflectionTime = seconds
		}
	}
}

// WithPeakDetection sets the reflection threshold (dB relative to the IR
// peak) and minimum inter-peak distance.
func WithPeakDetection(minPeakDB, minDistanceMs float64) Option {
	return func(cfg *Config) {
		cfg.MinPeakDB = minPeakDB
		if minDistanceMs >= 0 {
			cfg.MinPeakDistanceMs = minDistanceMs
		}
	}
}

// WithMinEnergy sets the energy floor. Non-positive values are ignored.
func WithMinEnergy(eps float64) Option {
	return func(cfg *Config) {
		if eps > 0 {
			cfg.MinEnergy = eps
		}
	}
}

// WithTrim enables or disables trimming the response to shortly before the
// direct sound, keeping pre seconds of lead-in.
func WithTrim(enabled bool, pre float64) Option {
	return func(cfg *Config) {
		cfg.TrimIR = enabled
		if pre >= 0 {
			cfg.TrimPreDirect = pre
		}
	}
}

// WithResponse sets the window name and 1/N-octave smoothing of the
// frequency response.
func WithResponse(windowName string, smoothing int) Option {
	return func(cfg *Config) {
		if windowName != "" {
			cfg.ResponseWindow = windowName
		}

		if smoothing >= 0 {
			cfg.ResponseSmoothing = smoothing
		}
	}
}

// Apply returns a copy of base with the options applied in order.
func Apply(base Config, opts ...Option) Config {
	cfg := base

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
