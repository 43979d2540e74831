// Package sim drives an engine session with a synthetic learner, following
// the host control flow: select, answer, ingest.
package sim

import (
	"fmt"

	"github.com/abhisek/quizcat/internal/bank"
	"github.com/abhisek/quizcat/internal/engine"
)

// StopReason says why a simulated session ended.
type StopReason string

const (
	StopExhausted StopReason = "exhausted"    // every question answered
	StopLimit     StopReason = "limit"        // maxQuestions reached
	StopLearner   StopReason = "learner_done" // learner declined to answer
)

// Step records one served question and the engine's state afterwards.
type Step struct {
	Index           int
	Recommendation  engine.Recommendation
	Answer          string
	Correct         bool
	Seconds         float64
	DifficultyAfter float64
	ConfidenceAfter float64
	Pattern         engine.LearningPattern
}

// Transcript is the full record of a simulated session.
type Transcript struct {
	Bank            string
	Steps           []Step
	Stopped         StopReason
	Progress        engine.Progress
	FinalDifficulty float64
	Prediction      engine.PerformancePrediction
	Feedback        engine.PersonalizedFeedback
}

// Run serves questions from eng to l until the bank is exhausted, the
// learner stops, or maxQuestions have been answered (0 means no limit).
// Answers are graded with b when the item stores an answer.
func Run(eng *engine.Engine, b *bank.Bank, l Learner, maxQuestions int) (Transcript, error) {
	t := Transcript{Bank: b.Name}

	for {
		if maxQuestions > 0 && len(t.Steps) >= maxQuestions {
			t.Stopped = StopLimit
			break
		}
		if f, ok := l.(Finisher); ok && f.Done() {
			t.Stopped = StopLearner
			break
		}

		rec, ok := eng.SelectNextQuestion()
		if !ok {
			t.Stopped = StopExhausted
			break
		}
		q, _ := eng.Question(rec.QuestionID)
		item, found := b.Item(rec.QuestionID)
		if !found {
			return t, fmt.Errorf("question %q missing from bank %q", rec.QuestionID, b.Name)
		}

		a, ok := l.Respond(q, item)
		if !ok {
			t.Stopped = StopLearner
			break
		}

		correct := a.Correct
		if item.Answer != "" {
			graded, err := b.CheckAnswer(item.ID, a.Answer)
			if err != nil {
				return t, err
			}
			correct = graded
		}

		resp := engine.AnsweredResponse{
			QuestionID:       q.ID,
			SelectedAnswer:   a.Answer,
			CorrectAnswer:    item.Answer,
			TimeSpentSeconds: a.Seconds,
			Difficulty:       q.Difficulty,
			IsCorrect:        correct,
		}
		if err := eng.ProcessResponse(resp); err != nil {
			return t, fmt.Errorf("step %d: %w", len(t.Steps)+1, err)
		}

		st := eng.State()
		t.Steps = append(t.Steps, Step{
			Index:           len(t.Steps) + 1,
			Recommendation:  rec,
			Answer:          a.Answer,
			Correct:         correct,
			Seconds:         a.Seconds,
			DifficultyAfter: st.CurrentDifficulty,
			ConfidenceAfter: st.ConfidenceLevel,
			Pattern:         st.LearningPattern,
		})
	}

	t.Progress = eng.Progress()
	t.FinalDifficulty = eng.CurrentDifficulty()
	t.Prediction = eng.PredictPerformance()
	t.Feedback = eng.GeneratePersonalizedFeedback()
	return t, nil
}
