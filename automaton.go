package sinkdag

import (
	"context"
)

// Build implements the top-level constructor (spec.md section 6):
// insert every target (C2), discover shareable suffix chains (C3), merge
// them (C4), and freeze the result (C5). Control flow is strictly
// sequential across phases with respect to the caller, exactly as spec.md
// section 5 requires; only the reverse-traversal fan-outs inside C3 and C4
// run concurrently.
//
// Build fails fast with ErrEmptyInput, ErrEmptyTarget, a *TimeoutError, or
// an *InvariantViolationError; on any error no Automaton is returned and
// no user-visible state survives (the half-built store is simply dropped).
func Build(targets []string, opts ...BuildOption) (*Automaton, error) {
	cfg := defaultBuildConfig()
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	logger := resolveLogger(cfg.logger)

	if len(targets) == 0 {
		return nil, ErrEmptyInput
	}

	s := newStore()
	ctx := context.Background()

	logger.Debug("sinkdag: build phase starting", "phase", phaseBuild.String(), "targets", len(targets))
	if err := s.insertAll(targets); err != nil {
		logger.Warn("sinkdag: build phase failed", "phase", phaseBuild.String(), "error", err)
		return nil, err
	}

	logger.Debug("sinkdag: build phase starting", "phase", phaseIndex.String())
	index, err := s.buildSuffixIndex(ctx, cfg.phaseTimeout, cfg.maxConcurrency)
	if err != nil {
		logger.Warn("sinkdag: build phase failed", "phase", phaseIndex.String(), "error", err)
		return nil, err
	}

	logger.Debug("sinkdag: build phase starting", "phase", phaseMerge.String(), "chains", len(index))
	if err := s.mergeSuffixes(ctx, cfg.phaseTimeout, cfg.maxConcurrency, index); err != nil {
		logger.Warn("sinkdag: build phase failed", "phase", phaseMerge.String(), "error", err)
		return nil, err
	}

	logger.Debug("sinkdag: build phase starting", "phase", phaseFrozen.String())
	a, err := freeze(s, logger)
	if err != nil {
		logger.Warn("sinkdag: build phase failed", "phase", phaseFrozen.String(), "error", err)
		return nil, err
	}

	logger.Debug("sinkdag: build complete", "nodes", len(s.nodes))
	return a, nil
}

// Teardown releases all resources held by the automaton. After Teardown,
// the Automaton must not be used.
func Teardown(a *Automaton) {
	if a == nil {
		return
	}
	a.s.nodes = nil
	a.s = nil
}

func (a *Automaton) requirePhase(op string, required phase) error {
	if a == nil || a.s == nil {
		return newPhaseError(op, phaseFrozen, required)
	}
	if a.phase != required {
		return newPhaseError(op, a.phase, required)
	}
	return nil
}
