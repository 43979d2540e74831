package engine

// PredictionWindow is the number of most recent responses behind the
// recent-accuracy trend.
const PredictionWindow = 5

const (
	trendAdjustment = 5.0

	lowConfidenceAdvice = 0.4
	coldStreakAdvice    = -2
)

// Advice strings attached to a PerformancePrediction.
const (
	AdviceFocusBasics = "Focus on the basic concepts before moving on to harder material."
	AdviceSlowDown    = "Slow down and analyze each question carefully before answering."
	AdviceVisualize   = "Try to visualize abstract concepts with diagrams or hands-on examples."
)

// PerformancePrediction estimates the final outcome of the session.
type PerformancePrediction struct {
	ExpectedScore   float64 // 0-100
	Confidence      float64
	Recommendations []string
}

// PredictPerformance estimates a final score from overall accuracy,
// adjusted by whether recent answers trend above or below it.
func (e *Engine) PredictPerformance() PerformancePrediction {
	s := e.state

	var accuracy float64
	if s.TotalQuestions > 0 {
		accuracy = float64(s.CorrectAnswers) / float64(s.TotalQuestions)
	}
	recent := recentAccuracy(s.ResponseHistory, PredictionWindow)

	score := accuracy * 100
	switch {
	case recent > accuracy:
		score += trendAdjustment
	case recent < accuracy:
		score -= trendAdjustment
	}

	recs := []string{}
	if s.ConfidenceLevel < lowConfidenceAdvice {
		recs = append(recs, AdviceFocusBasics)
	}
	if s.CurrentStreak < coldStreakAdvice {
		recs = append(recs, AdviceSlowDown)
	}
	if s.LearningPattern == PatternKinesthetic {
		recs = append(recs, AdviceVisualize)
	}

	return PerformancePrediction{
		ExpectedScore:   clamp(score, 0, 100),
		Confidence:      s.ConfidenceLevel,
		Recommendations: recs,
	}
}

func recentAccuracy(history []AnsweredResponse, window int) float64 {
	n := min(len(history), window)
	if n == 0 {
		return 0
	}
	correct := 0
	for _, r := range history[len(history)-n:] {
		if r.IsCorrect {
			correct++
		}
	}
	return float64(correct) / float64(n)
}
