package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectNextQuestion_ExhaustedBank(t *testing.T) {
	e := newTestEngine(t, mockBank(), mockConfig())
	for _, q := range mockBank() {
		answer(t, e, q.ID, true, 20)
	}

	rec, ok := e.SelectNextQuestion()
	assert.False(t, ok)
	assert.Equal(t, Recommendation{}, rec)
}

func TestSelectNextQuestion_NeverRepeats(t *testing.T) {
	e := newTestEngine(t, mockBank(), mockConfig())
	seen := make(map[string]bool)

	for {
		rec, ok := e.SelectNextQuestion()
		if !ok {
			break
		}
		require.False(t, seen[rec.QuestionID], "question %s recommended twice", rec.QuestionID)
		seen[rec.QuestionID] = true
		answer(t, e, rec.QuestionID, true, 20)
	}
	assert.Len(t, seen, len(mockBank()))
}

func TestSelectNextQuestion_InterleavedTrajectory(t *testing.T) {
	e := newTestEngine(t, mockBank(), mockConfig())

	// Each selection adjusts once, so three correct answers served one at
	// a time climb by a full step per selection.
	var got []float64
	for i := 0; i < 4; i++ {
		rec, ok := e.SelectNextQuestion()
		require.True(t, ok)
		got = append(got, e.CurrentDifficulty())
		if i < 3 {
			answer(t, e, rec.QuestionID, true, 20)
		}
	}
	assert.InDeltaSlice(t, []float64{5.5, 6.0, 6.5, 7.0}, got, 1e-9)
}

func TestSelectNextQuestion_PrefersClosestToCurrent(t *testing.T) {
	bank := []Question{
		{ID: "far", Difficulty: 6.4, LearningObjective: "a", Type: QuestionTypeMultipleChoice},
		{ID: "near", Difficulty: 5.2, LearningObjective: "a", Type: QuestionTypeMultipleChoice},
		{ID: "mid", Difficulty: 4.8, LearningObjective: "a", Type: QuestionTypeMultipleChoice},
	}
	e := newTestEngine(t, bank, DefaultConfig())

	rec, ok := e.SelectNextQuestion()
	require.True(t, ok)
	assert.Equal(t, "near", rec.QuestionID)
	assert.Equal(t, 5.2, rec.ExpectedDifficulty)
	assert.Equal(t, "a", rec.LearningObjective)
	assert.Equal(t, InitialConfidence, rec.Confidence)
}

func TestSelectNextQuestion_MultipleChoiceBonus(t *testing.T) {
	bank := []Question{
		{ID: "open", Difficulty: 5.0, LearningObjective: "a", Type: "short_answer"},
		{ID: "mc", Difficulty: 6.0, LearningObjective: "a", Type: QuestionTypeMultipleChoice},
	}
	e := newTestEngine(t, bank, DefaultConfig())

	rec, ok := e.SelectNextQuestion()
	require.True(t, ok)
	assert.Equal(t, "mc", rec.QuestionID)
}

func TestSelectNextQuestion_TiesKeepBankOrder(t *testing.T) {
	bank := []Question{
		{ID: "below", Difficulty: 5.0, LearningObjective: "a", Type: QuestionTypeMultipleChoice},
		{ID: "above", Difficulty: 6.0, LearningObjective: "a", Type: QuestionTypeMultipleChoice},
	}
	e := newTestEngine(t, bank, DefaultConfig())

	rec, ok := e.SelectNextQuestion()
	require.True(t, ok)
	assert.Equal(t, "below", rec.QuestionID)
}

func TestSelectNextQuestion_StrengthAreasLoseBonus(t *testing.T) {
	bank := []Question{
		{ID: "done", Difficulty: 5.0, LearningObjective: "fractions", Type: QuestionTypeMultipleChoice},
		{ID: "fresh", Difficulty: 5.5, LearningObjective: "decimals", Type: QuestionTypeMultipleChoice},
		{ID: "seed", Difficulty: 1.0, LearningObjective: "warmup", Type: "short_answer"},
	}
	tr := &stubTracker{strengths: []string{"fractions"}}
	e := newTestEngine(t, bank, DefaultConfig(), WithTracker(tr))
	// A response populates the strength set through the tracker. One
	// incorrect answer moves difficulty from 5.5 to 5.0, where "done" would
	// outscore "fresh" without the objective bonus.
	answer(t, e, "seed", false, 20)

	rec, ok := e.SelectNextQuestion()
	require.True(t, ok)
	assert.Equal(t, 5.0, e.CurrentDifficulty())
	assert.Equal(t, "fresh", rec.QuestionID)
}

func TestSelectNextQuestion_HighConfidenceRaisesTarget(t *testing.T) {
	bank := []Question{
		{ID: "easier", Difficulty: 4.7, LearningObjective: "a", Type: QuestionTypeMultipleChoice},
		{ID: "harder", Difficulty: 6.9, LearningObjective: "a", Type: QuestionTypeMultipleChoice},
	}

	e := newTestEngine(t, bank, DefaultConfig())
	rec, ok := e.SelectNextQuestion()
	require.True(t, ok)
	assert.Equal(t, "easier", rec.QuestionID)

	e = newTestEngine(t, bank, DefaultConfig())
	e.state.ConfidenceLevel = 0.8
	rec, ok = e.SelectNextQuestion()
	require.True(t, ok)
	assert.Equal(t, "harder", rec.QuestionID)
}

func TestSelectNextQuestion_LowConfidenceLowersTarget(t *testing.T) {
	bank := []Question{
		{ID: "harder", Difficulty: 6.3, LearningObjective: "a", Type: QuestionTypeMultipleChoice},
		{ID: "easier", Difficulty: 4.1, LearningObjective: "a", Type: QuestionTypeMultipleChoice},
	}
	e := newTestEngine(t, bank, DefaultConfig())
	e.state.ConfidenceLevel = 0.2

	rec, ok := e.SelectNextQuestion()
	require.True(t, ok)
	assert.Equal(t, "easier", rec.QuestionID)
}

func TestTargetDifficulty(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		streak     int
		want       float64
	}{
		{"neutral", 0.5, 0, 5.5},
		{"high confidence", 0.75, 0, 6.0},
		{"low confidence", 0.25, 0, 5.0},
		{"warm streak", 0.5, 3, 5.8},
		{"cool streak", 0.5, -2, 5.2},
		{"both up", 0.9, 4, 6.3},
		{"boundary confidence is neutral", 0.7, 2, 5.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, mockBank(), DefaultConfig())
			e.state.ConfidenceLevel = tt.confidence
			e.state.CurrentStreak = tt.streak
			assert.InDelta(t, tt.want, e.targetDifficulty(), 1e-9)
		})
	}
}

func TestTargetDifficulty_Clamped(t *testing.T) {
	e := newTestEngine(t, mockBank(), mockConfig())
	e.state.CurrentDifficulty = 8
	e.state.ConfidenceLevel = 0.9
	e.state.CurrentStreak = 6
	assert.Equal(t, 8.0, e.targetDifficulty())
}

func TestSelectNextQuestion_Fallback(t *testing.T) {
	bank := []Question{
		{ID: "high", Difficulty: 9.0, LearningObjective: "a", Type: QuestionTypeMultipleChoice},
		{ID: "low", Difficulty: 3.0, LearningObjective: "a", Type: QuestionTypeMultipleChoice},
	}

	tests := []struct {
		policy FallbackPolicy
		want   string
	}{
		{FallbackFirst, "high"},
		{FallbackClosest, "low"},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Fallback = tt.policy
			e := newTestEngine(t, bank, cfg)

			rec, ok := e.SelectNextQuestion()
			require.True(t, ok)
			assert.Equal(t, tt.want, rec.QuestionID)
			assert.Equal(t, ReasonFallback, rec.ReasonCode)
			assert.NotEmpty(t, rec.Reason)
		})
	}
}

func TestSelectNextQuestion_ReasonCodes(t *testing.T) {
	tests := []struct {
		name       string
		difficulty float64
		weak       []string
		want       ReasonCode
	}{
		{"on level", 5.5, nil, ReasonOnLevel},
		{"half a point above is still on level", 6.0, nil, ReasonOnLevel},
		{"stretch", 6.1, nil, ReasonStretch},
		{"reinforce", 4.9, nil, ReasonReinforce},
		{"weak area wins", 6.1, []string{"a"}, ReasonWeakArea},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bank := []Question{{ID: "only", Difficulty: tt.difficulty, LearningObjective: "a", Type: QuestionTypeMultipleChoice}}
			e := newTestEngine(t, bank, DefaultConfig())
			e.state.WeaknessAreas = setOf(tt.weak)

			rec, ok := e.SelectNextQuestion()
			require.True(t, ok)
			assert.Equal(t, tt.want, rec.ReasonCode)
			assert.Equal(t, reasonText[tt.want], rec.Reason)
		})
	}
}

func TestSelectNextQuestion_AdjustsOncePerCall(t *testing.T) {
	e := newTestEngine(t, mockBank(), mockConfig())
	for _, id := range []string{"q1", "q2", "q3"} {
		answer(t, e, id, true, 20)
	}

	_, ok := e.SelectNextQuestion()
	require.True(t, ok)
	assert.Equal(t, 6.0, e.CurrentDifficulty())
}

func TestSelectNextQuestion_ExhaustedDoesNotAdjust(t *testing.T) {
	e := newTestEngine(t, mockBank(), mockConfig())
	for _, q := range mockBank() {
		answer(t, e, q.ID, true, 20)
	}
	before := e.CurrentDifficulty()

	_, ok := e.SelectNextQuestion()
	require.False(t, ok)
	assert.Equal(t, before, e.CurrentDifficulty())
}
