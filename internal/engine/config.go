package engine

import (
	"fmt"
	"math"
)

// StreakMode selects how an incorrect answer affects the streak counter.
type StreakMode string

const (
	// StreakResetting resets the streak to zero on an incorrect answer.
	// The streak is never negative in this mode.
	StreakResetting StreakMode = "resetting"

	// StreakSigned counts consecutive incorrect answers as a negative streak.
	StreakSigned StreakMode = "signed"
)

// FallbackPolicy selects the question served when nothing in the bank lies
// within SuitableBand of the target difficulty.
type FallbackPolicy string

const (
	// FallbackFirst serves the first unanswered question in bank order.
	FallbackFirst FallbackPolicy = "first"

	// FallbackClosest serves the unanswered question whose difficulty is
	// closest to the target, bank order breaking ties.
	FallbackClosest FallbackPolicy = "closest"
)

// Config holds the per-session engine settings.
type Config struct {
	// MinDifficulty and MaxDifficulty bound the difficulty scale shared by
	// questions and session state.
	MinDifficulty float64
	MaxDifficulty float64

	// Seed seeds the pattern classifier's random source. Zero picks a
	// random seed, making pattern classification non-reproducible.
	Seed uint64

	StreakMode StreakMode
	Fallback   FallbackPolicy
}

// DefaultConfig returns a Config with a 1-10 scale and the original
// streak and fallback behavior.
func DefaultConfig() Config {
	return Config{
		MinDifficulty: 1,
		MaxDifficulty: 10,
		StreakMode:    StreakResetting,
		Fallback:      FallbackFirst,
	}
}

// Validate checks the difficulty range and enum fields. Empty enum fields
// are accepted and treated as their defaults.
func (c Config) Validate() error {
	if isNaNOrInf(c.MinDifficulty) {
		return &ConfigError{Field: "min_difficulty", Reason: "must be a finite number"}
	}
	if isNaNOrInf(c.MaxDifficulty) {
		return &ConfigError{Field: "max_difficulty", Reason: "must be a finite number"}
	}
	if c.MinDifficulty > c.MaxDifficulty {
		return &ConfigError{
			Field:  "min_difficulty",
			Reason: fmt.Sprintf("%g is greater than max_difficulty %g", c.MinDifficulty, c.MaxDifficulty),
		}
	}
	switch c.StreakMode {
	case "", StreakResetting, StreakSigned:
	default:
		return &ConfigError{Field: "streak_mode", Reason: fmt.Sprintf("unknown mode %q", c.StreakMode)}
	}
	switch c.Fallback {
	case "", FallbackFirst, FallbackClosest:
	default:
		return &ConfigError{Field: "fallback", Reason: fmt.Sprintf("unknown policy %q", c.Fallback)}
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.StreakMode == "" {
		c.StreakMode = StreakResetting
	}
	if c.Fallback == "" {
		c.Fallback = FallbackFirst
	}
	return c
}

func isNaNOrInf(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
