package engine

// LearningPattern is a coarse heuristic label inferred from response speed
// and correctness.
type LearningPattern string

const (
	PatternVisual      LearningPattern = "visual"
	PatternAuditory    LearningPattern = "auditory"
	PatternKinesthetic LearningPattern = "kinesthetic"
	PatternMixed       LearningPattern = "mixed"
)

// QuestionTypeMultipleChoice is the question type favored by the selector.
const QuestionTypeMultipleChoice = "multiple_choice"

// Question is the part of a bank item the engine reads. Display fields
// live with the caller.
type Question struct {
	ID                string
	Difficulty        float64
	LearningObjective string
	Type              string
}

// AnsweredResponse records one answered question. The caller grades the
// answer and measures elapsed time before handing it to the engine.
type AnsweredResponse struct {
	QuestionID       string
	SelectedAnswer   string
	CorrectAnswer    string
	TimeSpentSeconds float64
	// Difficulty is the question's difficulty at answer time.
	Difficulty float64
	IsCorrect  bool
}

// SessionState tracks a single test-taker's progress.
type SessionState struct {
	// CurrentDifficulty stays within the configured [min, max] range.
	CurrentDifficulty float64

	// ConfidenceLevel estimates how well CurrentDifficulty matches the
	// learner's ability (0.0-1.0).
	ConfidenceLevel float64

	LearningPattern LearningPattern

	// StrengthAreas and WeaknessAreas are learning objective sets filled
	// by the session's MasteryTracker.
	StrengthAreas map[string]bool
	WeaknessAreas map[string]bool

	// ResponseHistory is append-only, in answer order.
	ResponseHistory []AnsweredResponse

	// CurrentStreak counts consecutive correct answers. It is negative only
	// under StreakSigned after consecutive incorrect answers.
	CurrentStreak int

	TotalQuestions int
	CorrectAnswers int
}

// InitialConfidence is the confidence level of a fresh session.
const InitialConfidence = 0.5

func newSessionState(minDifficulty, maxDifficulty float64) SessionState {
	return SessionState{
		CurrentDifficulty: (minDifficulty + maxDifficulty) / 2,
		ConfidenceLevel:   InitialConfidence,
		LearningPattern:   PatternMixed,
		StrengthAreas:     make(map[string]bool),
		WeaknessAreas:     make(map[string]bool),
	}
}

// clone returns a deep copy so callers never alias engine-owned storage.
func (s SessionState) clone() SessionState {
	out := s
	out.StrengthAreas = copySet(s.StrengthAreas)
	out.WeaknessAreas = copySet(s.WeaknessAreas)
	if s.ResponseHistory != nil {
		out.ResponseHistory = make([]AnsweredResponse, len(s.ResponseHistory))
		copy(out.ResponseHistory, s.ResponseHistory)
	}
	return out
}

func copySet(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func setOf(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, it := range items {
		out[it] = true
	}
	return out
}
