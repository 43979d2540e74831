package engine

import (
	"fmt"

	"go.uber.org/zap"
)

// Confidence deltas applied per response.
const (
	confidenceCorrect   = 0.05
	confidenceIncorrect = -0.08

	confidenceFast = 0.02
	confidenceSlow = -0.03

	// confidenceAtOrAbove rewards a correct answer to a question at or above
	// the current difficulty; confidenceAtOrBelow penalizes an incorrect
	// answer to a question at or below it.
	confidenceAtOrAbove = 0.03
	confidenceAtOrBelow = -0.05

	// SlowConfidenceSecs is the response time (exclusive) above which an
	// answer lowers confidence.
	SlowConfidenceSecs = 60
)

// ProcessResponse records one answered question and updates the streak,
// confidence level, learning pattern and mastery areas. Responses for
// questions outside the bank, or for questions already answered, are
// rejected and leave the state untouched.
func (e *Engine) ProcessResponse(r AnsweredResponse) error {
	i, ok := e.index[r.QuestionID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, r.QuestionID)
	}
	if e.answered[r.QuestionID] {
		return fmt.Errorf("%w: %q", ErrAlreadyAnswered, r.QuestionID)
	}

	s := &e.state
	s.ResponseHistory = append(s.ResponseHistory, r)
	e.answered[r.QuestionID] = true
	s.TotalQuestions++
	if r.IsCorrect {
		s.CorrectAnswers++
	}
	s.CurrentStreak = nextStreak(e.cfg.StreakMode, s.CurrentStreak, r.IsCorrect)

	delta := confidenceDelta(r, s.CurrentDifficulty)
	s.ConfidenceLevel = clamp(s.ConfidenceLevel+delta, 0, 1)

	s.LearningPattern = classifyPattern(s.LearningPattern, r, e.rng)

	e.tracker.Observe(e.bank[i], r)
	s.StrengthAreas = setOf(e.tracker.Strengths())
	s.WeaknessAreas = setOf(e.tracker.Weaknesses())

	e.log.Debug("response processed",
		zap.String("question_id", r.QuestionID),
		zap.Bool("correct", r.IsCorrect),
		zap.Int("streak", s.CurrentStreak),
		zap.Float64("confidence", s.ConfidenceLevel),
		zap.String("pattern", string(s.LearningPattern)),
	)
	return nil
}

// confidenceDelta sums the correctness, time and difficulty terms for one
// response measured against the difficulty in effect when it was answered.
func confidenceDelta(r AnsweredResponse, currentDifficulty float64) float64 {
	delta := confidenceIncorrect
	if r.IsCorrect {
		delta = confidenceCorrect
	}

	switch {
	case r.TimeSpentSeconds < FastResponseSecs:
		delta += confidenceFast
	case r.TimeSpentSeconds > SlowConfidenceSecs:
		delta += confidenceSlow
	}

	switch {
	case r.IsCorrect && r.Difficulty >= currentDifficulty:
		delta += confidenceAtOrAbove
	case !r.IsCorrect && r.Difficulty <= currentDifficulty:
		delta += confidenceAtOrBelow
	}
	return delta
}

func nextStreak(mode StreakMode, streak int, correct bool) int {
	if mode == StreakSigned {
		switch {
		case correct && streak < 0:
			return 1
		case correct:
			return streak + 1
		case streak > 0:
			return -1
		default:
			return streak - 1
		}
	}
	if correct {
		return streak + 1
	}
	return 0
}
