package engine

import "go.uber.org/zap"

// RecentWindow is the number of most recent responses the difficulty
// adjuster looks at.
const RecentWindow = 3

const (
	deltaAllCorrect  = 0.5
	deltaMostCorrect = 0.2
	deltaFewCorrect  = -0.2
	deltaNoneCorrect = -0.5

	// Streak bonus thresholds. The negative threshold is only reachable
	// under StreakSigned.
	hotStreak   = 5
	coldStreak  = -3
	streakBonus = 0.3
)

// AdjustDifficulty moves the current difficulty by the recent-window
// performance and the streak bonus, clamps it to the configured range,
// stores it and returns it.
func (e *Engine) AdjustDifficulty() float64 {
	s := &e.state
	delta := windowDelta(s.ResponseHistory) + streakDelta(s.CurrentStreak)

	before := s.CurrentDifficulty
	s.CurrentDifficulty = clamp(before+delta, e.cfg.MinDifficulty, e.cfg.MaxDifficulty)

	e.log.Debug("difficulty adjusted",
		zap.Float64("from", before),
		zap.Float64("to", s.CurrentDifficulty),
		zap.Float64("delta", delta),
	)
	return s.CurrentDifficulty
}

// windowDelta buckets the correct ratio of the last RecentWindow responses.
// Shorter histories use whatever is available; an empty history yields 0.
func windowDelta(history []AnsweredResponse) float64 {
	n := min(len(history), RecentWindow)
	if n == 0 {
		return 0
	}
	correct := 0
	for _, r := range history[len(history)-n:] {
		if r.IsCorrect {
			correct++
		}
	}

	switch {
	case correct == n:
		return deltaAllCorrect
	case 3*correct >= 2*n:
		return deltaMostCorrect
	case 3*correct >= n:
		return deltaFewCorrect
	default:
		return deltaNoneCorrect
	}
}

func streakDelta(streak int) float64 {
	switch {
	case streak >= hotStreak:
		return streakBonus
	case streak <= coldStreak:
		return -streakBonus
	}
	return 0
}
