package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneratePersonalizedFeedback_MessageTiers(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []bool
		want     string
	}{
		{"perfect", []bool{true, true, true, true, true}, MessageExcellent},
		{"exactly eighty", []bool{true, true, true, true, false}, MessageExcellent},
		{"good", []bool{true, true, false, true, true, false, true, false, true, true}, MessageGood},
		{"struggling", []bool{false, false, true, false}, MessageEncouragement},
		{"nothing answered", nil, MessageEncouragement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bank := uniformBank(max(len(tt.outcomes), 1), 5.5)
			e := newTestEngine(t, bank, DefaultConfig())
			for i, c := range tt.outcomes {
				answer(t, e, bank[i].ID, c, 20)
			}
			assert.Equal(t, tt.want, e.GeneratePersonalizedFeedback().Message)
		})
	}
}

func TestGeneratePersonalizedFeedback_SuggestionsAndSteps(t *testing.T) {
	tests := []struct {
		name        string
		confidence  float64
		streak      int
		suggestions []string
		nextSteps   []string
	}{
		{
			name:        "middling",
			confidence:  0.6,
			streak:      2,
			suggestions: []string{},
			nextSteps:   []string{StepContinue, StepUnderstand},
		},
		{
			name:        "low confidence",
			confidence:  0.3,
			streak:      0,
			suggestions: []string{SuggestReviewBasics, SuggestSimpleExercises},
			nextSteps:   []string{StepContinue, StepUnderstand},
		},
		{
			name:        "confident and on a run",
			confidence:  0.9,
			streak:      4,
			suggestions: []string{SuggestKeepChallenging, SuggestHarderQuestions},
			nextSteps:   []string{StepContinue, StepHarderChallenges},
		},
		{
			name:        "streak of three is not a run",
			confidence:  0.7,
			streak:      3,
			suggestions: []string{},
			nextSteps:   []string{StepContinue, StepUnderstand},
		},
		{
			name:        "unsure but on a run",
			confidence:  0.45,
			streak:      6,
			suggestions: []string{SuggestReviewBasics, SuggestSimpleExercises, SuggestKeepChallenging, SuggestHarderQuestions},
			nextSteps:   []string{StepContinue, StepUnderstand},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, mockBank(), mockConfig())
			e.state.ConfidenceLevel = tt.confidence
			e.state.CurrentStreak = tt.streak

			fb := e.GeneratePersonalizedFeedback()
			assert.Equal(t, tt.suggestions, fb.Suggestions)
			assert.Equal(t, tt.nextSteps, fb.NextSteps)
		})
	}
}
