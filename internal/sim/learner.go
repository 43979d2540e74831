package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizcat/internal/bank"
	"github.com/abhisek/quizcat/internal/engine"
)

// Attempt is a learner's reply to one question.
type Attempt struct {
	Answer  string  // graded against the bank when the item stores an answer
	Correct bool    // used when the item has no stored answer
	Seconds float64 // time spent
}

// Learner answers questions during a simulated session. ok is false when
// the learner stops before the bank is exhausted. By then the selection
// has already adjusted the difficulty; learners that know in advance
// they are out of replies should also implement Finisher.
type Learner interface {
	Respond(q engine.Question, item bank.Item) (a Attempt, ok bool)
}

// Finisher is implemented by learners that can tell, before a question is
// selected, that they will not answer it.
type Finisher interface {
	Done() bool
}

// ThresholdLearner answers correctly exactly when the question's
// difficulty is at or below Ability.
type ThresholdLearner struct {
	Ability float64
	Seconds float64
}

func (l ThresholdLearner) Respond(q engine.Question, item bank.Item) (Attempt, bool) {
	correct := q.Difficulty <= l.Ability
	return Attempt{Answer: answerFor(item, correct), Correct: correct, Seconds: l.Seconds}, true
}

// ScriptStep is one scripted reply.
type ScriptStep struct {
	Correct bool    `yaml:"correct"`
	Seconds float64 `yaml:"seconds"`
	Answer  string  `yaml:"answer,omitempty"`
}

// ScriptedLearner replays a fixed sequence of replies regardless of which
// question is served, then stops.
type ScriptedLearner struct {
	Steps []ScriptStep `yaml:"steps"`

	next int
}

// LoadScript reads a YAML script of the form
//
//	steps:
//	  - {correct: true, seconds: 8}
//	  - {correct: false, seconds: 70}
func LoadScript(path string) (*ScriptedLearner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	var l ScriptedLearner
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}
	if len(l.Steps) == 0 {
		return nil, fmt.Errorf("parse script %s: no steps", path)
	}
	for i, s := range l.Steps {
		if s.Seconds < 0 {
			return nil, fmt.Errorf("parse script %s: step %d: negative seconds", path, i+1)
		}
	}
	return &l, nil
}

// Done reports whether every scripted reply has been used.
func (l *ScriptedLearner) Done() bool { return l.next >= len(l.Steps) }

func (l *ScriptedLearner) Respond(_ engine.Question, item bank.Item) (Attempt, bool) {
	if l.next >= len(l.Steps) {
		return Attempt{}, false
	}
	s := l.Steps[l.next]
	l.next++

	ans := s.Answer
	if ans == "" {
		ans = answerFor(item, s.Correct)
	}
	return Attempt{Answer: ans, Correct: s.Correct, Seconds: s.Seconds}, true
}

// answerFor returns the stored answer when correct, otherwise the first
// option that differs from it.
func answerFor(item bank.Item, correct bool) string {
	if correct {
		return item.Answer
	}
	for _, o := range item.Options {
		if o != item.Answer {
			return o
		}
	}
	return ""
}
