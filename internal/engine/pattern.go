package engine

import "math/rand/v2"

const (
	// FastResponseSecs is the response time (exclusive) under which an
	// answer counts as fast.
	FastResponseSecs = 10

	// SlowPatternSecs is the response time (exclusive) above which an
	// incorrect answer suggests a kinesthetic learner.
	SlowPatternSecs = 30
)

// classifyPattern reclassifies the learning pattern after one response.
// A fast correct answer settles a mixed learner on visual or auditory,
// chosen at random; a slow incorrect answer marks the learner kinesthetic.
func classifyPattern(current LearningPattern, r AnsweredResponse, rng *rand.Rand) LearningPattern {
	switch {
	case r.TimeSpentSeconds < FastResponseSecs && r.IsCorrect && current == PatternMixed:
		if rng.IntN(2) == 0 {
			return PatternVisual
		}
		return PatternAuditory
	case r.TimeSpentSeconds > SlowPatternSecs && !r.IsCorrect:
		return PatternKinesthetic
	}
	return current
}
