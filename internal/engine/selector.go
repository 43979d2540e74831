package engine

import (
	"math"

	"go.uber.org/zap"
)

const (
	// SuitableBand is the maximum distance from the target difficulty for
	// a question to be a selection candidate.
	SuitableBand = 1.0

	highConfidence  = 0.7
	lowConfidence   = 0.3
	confidenceNudge = 0.5

	// Streak nudges on the target difficulty. The negative threshold is only
	// reachable under StreakSigned.
	warmStreak  = 3
	coolStreak  = -2
	streakNudge = 0.3

	// Candidate score weights.
	weightDistance  = 0.4
	weightObjective = 0.3
	weightType      = 0.2
	distanceCeiling = 10.0

	// onLevelBand is how far a question may sit from the current difficulty
	// and still be described as on level.
	onLevelBand = 0.5
)

// ReasonCode classifies why a question was recommended.
type ReasonCode string

const (
	ReasonOnLevel   ReasonCode = "on-level"
	ReasonStretch   ReasonCode = "stretch"
	ReasonReinforce ReasonCode = "reinforce"
	ReasonWeakArea  ReasonCode = "weak-area"
	ReasonFallback  ReasonCode = "fallback"
)

var reasonText = map[ReasonCode]string{
	ReasonOnLevel:   "This question matches your current level.",
	ReasonStretch:   "A slightly harder question to stretch your skills.",
	ReasonReinforce: "A slightly easier question to consolidate what you know.",
	ReasonWeakArea:  "This question targets a learning objective you are still working on.",
	ReasonFallback:  "No question near your level remains, so this one keeps the test going.",
}

// Recommendation is the selector's choice of the next question.
type Recommendation struct {
	QuestionID         string
	Reason             string
	ReasonCode         ReasonCode
	ExpectedDifficulty float64
	LearningObjective  string
	Confidence         float64
}

// SelectNextQuestion adjusts the difficulty and picks the best unanswered
// question for the resulting target. It reports false once every question
// in the bank has been answered, which ends the adaptive phase.
func (e *Engine) SelectNextQuestion() (Recommendation, bool) {
	available := e.available()
	if len(available) == 0 {
		return Recommendation{}, false
	}

	e.AdjustDifficulty()
	target := e.targetDifficulty()

	var suitable []Question
	for _, q := range available {
		if math.Abs(q.Difficulty-target) <= SuitableBand {
			suitable = append(suitable, q)
		}
	}

	var pick Question
	var code ReasonCode
	if len(suitable) == 0 {
		pick = e.fallback(available, target)
		code = ReasonFallback
	} else {
		pick = e.best(suitable)
		code = e.reasonFor(pick)
	}

	e.log.Debug("question selected",
		zap.String("question_id", pick.ID),
		zap.Float64("target", target),
		zap.Float64("question_difficulty", pick.Difficulty),
		zap.Int("candidates", len(suitable)),
		zap.String("reason", string(code)),
	)

	return Recommendation{
		QuestionID:         pick.ID,
		Reason:             reasonText[code],
		ReasonCode:         code,
		ExpectedDifficulty: pick.Difficulty,
		LearningObjective:  pick.LearningObjective,
		Confidence:         e.state.ConfidenceLevel,
	}, true
}

// available returns the unanswered questions in bank order.
func (e *Engine) available() []Question {
	out := make([]Question, 0, e.Remaining())
	for _, q := range e.bank {
		if !e.answered[q.ID] {
			out = append(out, q)
		}
	}
	return out
}

// targetDifficulty nudges the current difficulty by confidence and streak.
func (e *Engine) targetDifficulty() float64 {
	s := e.state
	target := s.CurrentDifficulty

	switch {
	case s.ConfidenceLevel > highConfidence:
		target += confidenceNudge
	case s.ConfidenceLevel < lowConfidence:
		target -= confidenceNudge
	}

	switch {
	case s.CurrentStreak >= warmStreak:
		target += streakNudge
	case s.CurrentStreak <= coolStreak:
		target -= streakNudge
	}

	return clamp(target, e.cfg.MinDifficulty, e.cfg.MaxDifficulty)
}

// score rates a candidate; higher is better.
func (e *Engine) score(q Question) float64 {
	s := weightDistance * (distanceCeiling - math.Abs(q.Difficulty-e.state.CurrentDifficulty))
	if !e.state.StrengthAreas[q.LearningObjective] {
		s += weightObjective
	}
	if q.Type == QuestionTypeMultipleChoice {
		s += weightType
	}
	return s
}

// best returns the highest scoring candidate, keeping the first on ties.
func (e *Engine) best(candidates []Question) Question {
	pick := candidates[0]
	top := e.score(pick)
	for _, q := range candidates[1:] {
		if s := e.score(q); s > top {
			pick, top = q, s
		}
	}
	return pick
}

func (e *Engine) fallback(available []Question, target float64) Question {
	if e.cfg.Fallback != FallbackClosest {
		return available[0]
	}
	pick := available[0]
	dist := math.Abs(pick.Difficulty - target)
	for _, q := range available[1:] {
		if d := math.Abs(q.Difficulty - target); d < dist {
			pick, dist = q, d
		}
	}
	return pick
}

func (e *Engine) reasonFor(q Question) ReasonCode {
	if e.state.WeaknessAreas[q.LearningObjective] {
		return ReasonWeakArea
	}
	switch diff := q.Difficulty - e.state.CurrentDifficulty; {
	case diff > onLevelBand:
		return ReasonStretch
	case diff < -onLevelBand:
		return ReasonReinforce
	}
	return ReasonOnLevel
}
