// Package mastery tracks per-objective mastery during a session and
// reports strength and weakness areas to the engine.
package mastery

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/quizcat/internal/engine"
)

// Config holds the thresholds that move an objective between states.
type Config struct {
	// MinAttempts is the number of answers before an objective can be
	// judged mastered or struggling.
	MinAttempts int

	MasteryAccuracy float64 // accuracy needed for mastered
	MasteryFluency  float64 // fluency score needed for mastered

	// StruggleAccuracy is the accuracy below which an objective is
	// struggling. Recovering to it or above returns it to learning.
	StruggleAccuracy float64

	// TimeBudgetSecs is the per-question budget used for speed scoring.
	TimeBudgetSecs float64

	SpeedWindow int
	StreakCap   int
}

// DefaultConfig returns the default mastery thresholds.
func DefaultConfig() Config {
	return Config{
		MinAttempts:      3,
		MasteryAccuracy:  0.8,
		MasteryFluency:   0.7,
		StruggleAccuracy: 0.5,
		TimeBudgetSecs:   30,
		SpeedWindow:      DefaultSpeedWindow,
		StreakCap:        DefaultStreakCap,
	}
}

// Validate checks the thresholds.
func (c Config) Validate() error {
	if c.MinAttempts < 1 {
		return fmt.Errorf("mastery: min attempts must be at least 1, got %d", c.MinAttempts)
	}
	for name, v := range map[string]float64{
		"mastery accuracy":  c.MasteryAccuracy,
		"mastery fluency":   c.MasteryFluency,
		"struggle accuracy": c.StruggleAccuracy,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("mastery: %s must be within [0, 1], got %g", name, v)
		}
	}
	if c.StruggleAccuracy > c.MasteryAccuracy {
		return fmt.Errorf("mastery: struggle accuracy %g above mastery accuracy %g", c.StruggleAccuracy, c.MasteryAccuracy)
	}
	if c.TimeBudgetSecs < 0 {
		return fmt.Errorf("mastery: negative time budget %g", c.TimeBudgetSecs)
	}
	return nil
}

// Tracker implements engine.MasteryTracker over learning objectives.
type Tracker struct {
	cfg         Config
	objectives  map[string]*ObjectiveMastery
	order       []string // first-seen order
	transitions []StateTransition
	log         *zap.Logger
}

var _ engine.MasteryTracker = (*Tracker)(nil)

// NewTracker creates a tracker. A nil logger disables logging.
func NewTracker(cfg Config, log *zap.Logger) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		cfg:        cfg,
		objectives: make(map[string]*ObjectiveMastery),
		log:        log,
	}, nil
}

// Get returns the mastery record for an objective.
// Returns a default (StateNew) record if the objective hasn't been
// encountered; the default is not stored.
func (t *Tracker) Get(objective string) ObjectiveMastery {
	if om, ok := t.objectives[objective]; ok {
		return *om
	}
	return ObjectiveMastery{Objective: objective, State: StateNew, Fluency: t.defaultFluency()}
}

// Observe updates the question's objective after a response.
func (t *Tracker) Observe(q engine.Question, r engine.AnsweredResponse) {
	om, ok := t.objectives[q.LearningObjective]
	if !ok {
		om = &ObjectiveMastery{
			Objective: q.LearningObjective,
			State:     StateNew,
			Fluency:   t.defaultFluency(),
		}
		t.objectives[q.LearningObjective] = om
		t.order = append(t.order, q.LearningObjective)
	}

	if om.State == StateNew {
		t.transition(om, StateLearning, "first-attempt")
	}

	om.TotalAttempts++
	if r.IsCorrect {
		om.CorrectCount++
		om.Fluency.Streak++
	} else {
		om.Fluency.Streak = 0
	}
	RecordSpeed(&om.Fluency, SpeedScore(r.TimeSpentSeconds, t.cfg.TimeBudgetSecs))

	if om.TotalAttempts < t.cfg.MinAttempts {
		return
	}

	acc := om.Accuracy()
	fluent := acc >= t.cfg.MasteryAccuracy && om.FluencyScore() >= t.cfg.MasteryFluency
	switch om.State {
	case StateLearning:
		switch {
		case fluent:
			t.transition(om, StateMastered, "fluency-reached")
		case acc < t.cfg.StruggleAccuracy:
			t.transition(om, StateStruggling, "accuracy-low")
		}
	case StateMastered:
		if !fluent {
			t.transition(om, StateLearning, "fluency-lost")
		}
	case StateStruggling:
		if acc >= t.cfg.StruggleAccuracy {
			t.transition(om, StateLearning, "recovered")
		}
	}
}

// Strengths returns mastered objectives in first-seen order.
func (t *Tracker) Strengths() []string {
	return t.inState(StateMastered)
}

// Weaknesses returns struggling objectives in first-seen order.
func (t *Tracker) Weaknesses() []string {
	return t.inState(StateStruggling)
}

// Transitions returns every state change observed so far, oldest first.
func (t *Tracker) Transitions() []StateTransition {
	out := make([]StateTransition, len(t.transitions))
	copy(out, t.transitions)
	return out
}

func (t *Tracker) inState(state MasteryState) []string {
	var out []string
	for _, obj := range t.order {
		if t.objectives[obj].State == state {
			out = append(out, obj)
		}
	}
	return out
}

func (t *Tracker) transition(om *ObjectiveMastery, to MasteryState, trigger string) {
	st := StateTransition{Objective: om.Objective, From: om.State, To: to, Trigger: trigger}
	om.State = to
	t.transitions = append(t.transitions, st)
	t.log.Debug("mastery transition",
		zap.String("objective", st.Objective),
		zap.String("from", string(st.From)),
		zap.String("to", string(st.To)),
		zap.String("trigger", trigger))
}

func (t *Tracker) defaultFluency() FluencyMetrics {
	f := DefaultFluencyMetrics()
	if t.cfg.SpeedWindow > 0 {
		f.SpeedWindow = t.cfg.SpeedWindow
	}
	if t.cfg.StreakCap > 0 {
		f.StreakCap = t.cfg.StreakCap
	}
	return f
}
