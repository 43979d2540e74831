package engine

const (
	excellentScore = 80
	goodScore      = 60

	reviewConfidence    = 0.5
	challengeConfidence = 0.7
	challengeStreak     = 3
)

// Feedback text.
const (
	MessageExcellent     = "Excellent work! You have a solid command of this material."
	MessageGood          = "Good job, keep practicing to strengthen your understanding."
	MessageEncouragement = "Don't be discouraged. Every question you answer helps you improve."

	SuggestReviewBasics    = "Review the basic concepts."
	SuggestSimpleExercises = "Practice with some simple exercises."
	SuggestKeepChallenging = "Keep challenging yourself."
	SuggestHarderQuestions = "Try some harder questions."

	StepContinue         = "Continue the test to refine the evaluation."
	StepHarderChallenges = "Prepare for harder challenges."
	StepUnderstand       = "Focus on understanding the concepts."
)

// PersonalizedFeedback is the learner-facing summary of a session.
type PersonalizedFeedback struct {
	Message     string
	Suggestions []string
	NextSteps   []string
}

// GeneratePersonalizedFeedback turns the current performance prediction
// into a message, suggestions and next steps.
func (e *Engine) GeneratePersonalizedFeedback() PersonalizedFeedback {
	pred := e.PredictPerformance()
	s := e.state

	fb := PersonalizedFeedback{
		Suggestions: []string{},
		NextSteps:   []string{StepContinue},
	}

	switch {
	case pred.ExpectedScore >= excellentScore:
		fb.Message = MessageExcellent
	case pred.ExpectedScore >= goodScore:
		fb.Message = MessageGood
	default:
		fb.Message = MessageEncouragement
	}

	if s.ConfidenceLevel < reviewConfidence {
		fb.Suggestions = append(fb.Suggestions, SuggestReviewBasics, SuggestSimpleExercises)
	}
	if s.CurrentStreak > challengeStreak {
		fb.Suggestions = append(fb.Suggestions, SuggestKeepChallenging, SuggestHarderQuestions)
	}

	if s.ConfidenceLevel > challengeConfidence {
		fb.NextSteps = append(fb.NextSteps, StepHarderChallenges)
	} else {
		fb.NextSteps = append(fb.NextSteps, StepUnderstand)
	}
	return fb
}
