package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// mockBank mirrors the five-question bank used across the engine tests:
// every question sits at or above 5.5 on a 3-8 scale.
func mockBank() []Question {
	return []Question{
		{ID: "q1", Difficulty: 5.5, LearningObjective: "fractions", Type: QuestionTypeMultipleChoice},
		{ID: "q2", Difficulty: 6.0, LearningObjective: "fractions", Type: QuestionTypeMultipleChoice},
		{ID: "q3", Difficulty: 6.5, LearningObjective: "decimals", Type: "short_answer"},
		{ID: "q4", Difficulty: 7.0, LearningObjective: "decimals", Type: QuestionTypeMultipleChoice},
		{ID: "q5", Difficulty: 7.5, LearningObjective: "percentages", Type: QuestionTypeMultipleChoice},
	}
}

func mockConfig() Config {
	cfg := DefaultConfig()
	cfg.MinDifficulty = 3
	cfg.MaxDifficulty = 8
	cfg.Seed = 42
	return cfg
}

func newTestEngine(t *testing.T, bank []Question, cfg Config, opts ...Option) *Engine {
	t.Helper()
	e, err := New(bank, cfg, opts...)
	require.NoError(t, err)
	return e
}

// uniformBank builds n questions at the same difficulty.
func uniformBank(n int, difficulty float64) []Question {
	bank := make([]Question, n)
	for i := range bank {
		bank[i] = Question{
			ID:                fmt.Sprintf("q%d", i+1),
			Difficulty:        difficulty,
			LearningObjective: "arithmetic",
			Type:              QuestionTypeMultipleChoice,
		}
	}
	return bank
}

// answer records a response for question id with the given outcome.
func answer(t *testing.T, e *Engine, id string, correct bool, secs float64) {
	t.Helper()
	q, ok := e.Question(id)
	require.True(t, ok, "question %q not in bank", id)
	require.NoError(t, e.ProcessResponse(AnsweredResponse{
		QuestionID:       id,
		SelectedAnswer:   "A",
		CorrectAnswer:    "A",
		TimeSpentSeconds: secs,
		Difficulty:       q.Difficulty,
		IsCorrect:        correct,
	}))
}

// stubTracker reports fixed strengths and weaknesses and counts observations.
type stubTracker struct {
	strengths  []string
	weaknesses []string
	observed   []string
}

func (s *stubTracker) Observe(q Question, _ AnsweredResponse) {
	s.observed = append(s.observed, q.ID)
}

func (s *stubTracker) Strengths() []string { return s.strengths }

func (s *stubTracker) Weaknesses() []string { return s.weaknesses }
