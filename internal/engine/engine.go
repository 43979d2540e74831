// Package engine implements the adaptive difficulty and item-selection
// engine behind a computerized adaptive test. An Engine owns the state of
// exactly one test session; it performs no I/O and is not safe for
// concurrent use.
package engine

import (
	"fmt"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"
)

// Engine drives one adaptive test session over a fixed question bank.
type Engine struct {
	cfg      Config
	bank     []Question
	index    map[string]int // question ID -> bank position
	answered map[string]bool
	state    SessionState

	tracker MasteryTracker
	rng     *rand.Rand
	log     *zap.Logger
}

// Option customizes an Engine at construction.
type Option func(*Engine)

// WithLogger routes engine debug records to l.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithTracker installs a MasteryTracker that maintains the strength and
// weakness areas.
func WithTracker(t MasteryTracker) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracker = t
		}
	}
}

// WithRand replaces the random source used by the pattern classifier.
// It takes precedence over Config.Seed.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// New creates an engine for one session over bank. The session starts in
// the middle of the configured difficulty range with confidence 0.5.
func New(bank []Question, cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(bank) == 0 {
		return nil, &ConfigError{Field: "bank", Reason: "must contain at least one question"}
	}

	index := make(map[string]int, len(bank))
	for i, q := range bank {
		if q.ID == "" {
			return nil, &ConfigError{Field: "bank", Reason: fmt.Sprintf("question at position %d has no id", i)}
		}
		if _, dup := index[q.ID]; dup {
			return nil, &ConfigError{Field: "bank", Reason: fmt.Sprintf("duplicate question id %q", q.ID)}
		}
		index[q.ID] = i
	}

	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:      cfg,
		bank:     append([]Question(nil), bank...),
		index:    index,
		answered: make(map[string]bool, len(bank)),
		state:    newSessionState(cfg.MinDifficulty, cfg.MaxDifficulty),
		tracker:  NoopTracker{},
		rng:      newRand(cfg.Seed),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Config returns the effective engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// State returns a deep copy of the session state.
func (e *Engine) State() SessionState {
	return e.state.clone()
}

// CurrentDifficulty returns the session's current difficulty.
func (e *Engine) CurrentDifficulty() float64 {
	return e.state.CurrentDifficulty
}

// Confidence returns the session's current confidence level.
func (e *Engine) Confidence() float64 {
	return e.state.ConfidenceLevel
}

// Progress summarizes answered and correct counts.
type Progress struct {
	Total      int
	Correct    int
	Percentage int // rounded correct/total*100, 0 when nothing was answered
}

// Progress returns the answered/correct counts and the rounded percentage.
func (e *Engine) Progress() Progress {
	p := Progress{
		Total:   e.state.TotalQuestions,
		Correct: e.state.CorrectAnswers,
	}
	if p.Total > 0 {
		p.Percentage = int(math.Round(float64(p.Correct) / float64(p.Total) * 100))
	}
	return p
}

// Remaining returns the number of bank questions not yet answered.
func (e *Engine) Remaining() int {
	return len(e.bank) - len(e.answered)
}

// Completed reports whether every question in the bank has been answered.
// It is the same condition under which SelectNextQuestion reports false.
func (e *Engine) Completed() bool {
	return e.Remaining() == 0
}

// Question looks up a bank question by ID.
func (e *Engine) Question(id string) (Question, bool) {
	i, ok := e.index[id]
	if !ok {
		return Question{}, false
	}
	return e.bank[i], true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
