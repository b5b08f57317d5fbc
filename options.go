package sinkdag

import (
	"log/slog"
	"time"
)

const defaultPhaseTimeout = 5 * time.Second

// buildConfig holds the resolved configuration for a single Build call.
// Defaults are applied in Build before any BuildOption runs, the same
// shape as tigerwill90-fox's Router construction applying defaults before
// folding in Options.
type buildConfig struct {
	phaseTimeout   time.Duration
	maxConcurrency int
	logger         *slog.Logger
}

func defaultBuildConfig() buildConfig {
	return buildConfig{
		phaseTimeout:   defaultPhaseTimeout,
		maxConcurrency: 0, // 0 means runtime.GOMAXPROCS(0), resolved in fanout.go
		logger:         nil,
	}
}

// BuildOption configures a call to Build. Grounded on
// tigerwill90-fox/options.go's functional-option pattern
// (Option/optionFunc wrapping a closure over the thing being configured).
type BuildOption interface {
	apply(*buildConfig)
}

type buildOptionFunc func(*buildConfig)

func (f buildOptionFunc) apply(c *buildConfig) { f(c) }

// WithPhaseTimeout bounds each build-phase coordination step (spec.md
// section 5: "a bounded wait (~5 seconds by default)"). Exceeding it aborts
// the whole build with a Timeout error.
func WithPhaseTimeout(d time.Duration) BuildOption {
	return buildOptionFunc(func(c *buildConfig) {
		if d > 0 {
			c.phaseTimeout = d
		}
	})
}

// WithMaxConcurrency bounds how many suffix-chain ascents (C3/C4) run at
// once during construction. n <= 0 means "use runtime.GOMAXPROCS(0)",
// which is also the default.
func WithMaxConcurrency(n int) BuildOption {
	return buildOptionFunc(func(c *buildConfig) {
		c.maxConcurrency = n
	})
}

// WithLogger attaches a logger for structured build-phase diagnostics. A
// nil logger (the default) disables logging entirely rather than writing
// to a default destination, so construction never logs unless asked to.
func WithLogger(logger *slog.Logger) BuildOption {
	return buildOptionFunc(func(c *buildConfig) {
		c.logger = logger
	})
}
