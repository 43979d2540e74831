// Package registry hosts many concurrent engine sessions. An engine is
// single-threaded; the registry confines each one behind its own lock so
// callers on different goroutines can share a session safely.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/quizcat/internal/engine"
)

// ErrSessionNotFound is returned when an ID names no active session.
var ErrSessionNotFound = errors.New("session not found")

// Outcome is the final report of a finished session.
type Outcome struct {
	SessionID       string
	Bank            string
	Progress        engine.Progress
	FinalDifficulty float64
	Confidence      float64
	Strengths       []string
	Weaknesses      []string
	Prediction      engine.PerformancePrediction
	Feedback        engine.PersonalizedFeedback
	StartedAt       time.Time
	FinishedAt      time.Time
}

type entry struct {
	mu       sync.Mutex
	eng      *engine.Engine
	bank     string
	started  time.Time
	finished bool
}

// Registry maps session IDs to live engines.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger. Each session's engine logs through
// a child logger tagged with the session ID.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithClock overrides the time source used for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]*entry),
		log:      zap.NewNop(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start creates a session over questions and returns its ID. bankName is
// carried into the Outcome. Extra engine options are applied after the
// registry's own logger option.
func (r *Registry) Start(bankName string, questions []engine.Question, cfg engine.Config, opts ...engine.Option) (string, error) {
	id := r.newID()
	engOpts := append([]engine.Option{engine.WithLogger(r.log.With(zap.String("session", id)))}, opts...)

	eng, err := engine.New(questions, cfg, engOpts...)
	if err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}

	r.mu.Lock()
	r.sessions[id] = &entry{eng: eng, bank: bankName, started: r.now()}
	active := len(r.sessions)
	r.mu.Unlock()

	r.log.Info("session started",
		zap.String("session", id),
		zap.String("bank", bankName),
		zap.Int("questions", len(questions)),
		zap.Int("active", active))
	return id, nil
}

// Do runs fn with exclusive access to the session's engine. Calls on the
// same session are serialized; calls on different sessions run in
// parallel. The engine must not be retained after fn returns.
func (r *Registry) Do(id string, fn func(*engine.Engine) error) error {
	e, err := r.lookup(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.finished {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return fn(e.eng)
}

// Finish removes the session and returns its outcome. It waits for any
// in-flight Do on the session to complete.
func (r *Registry) Finish(id string) (Outcome, error) {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.finished = true

	st := e.eng.State()
	out := Outcome{
		SessionID:       id,
		Bank:            e.bank,
		Progress:        e.eng.Progress(),
		FinalDifficulty: e.eng.CurrentDifficulty(),
		Confidence:      st.ConfidenceLevel,
		Strengths:       sortedKeys(st.StrengthAreas),
		Weaknesses:      sortedKeys(st.WeaknessAreas),
		Prediction:      e.eng.PredictPerformance(),
		Feedback:        e.eng.GeneratePersonalizedFeedback(),
		StartedAt:       e.started,
		FinishedAt:      r.now(),
	}
	r.log.Info("session finished",
		zap.String("session", id),
		zap.Int("answered", out.Progress.Total),
		zap.Int("percentage", out.Progress.Percentage),
		zap.Duration("elapsed", out.FinishedAt.Sub(out.StartedAt)))
	return out, nil
}

// Active returns the number of live sessions.
func (r *Registry) Active() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// IDs returns the live session IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *Registry) lookup(id string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	if !ok {
		r.log.Warn("unknown session", zap.String("session", id))
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return e, nil
}
