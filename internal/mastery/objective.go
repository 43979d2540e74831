package mastery

// ObjectiveMastery holds the mastery data for one learning objective.
type ObjectiveMastery struct {
	Objective     string
	State         MasteryState
	TotalAttempts int
	CorrectCount  int
	Fluency       FluencyMetrics
}

// Accuracy returns the current accuracy ratio.
func (om *ObjectiveMastery) Accuracy() float64 {
	if om.TotalAttempts == 0 {
		return 0.0
	}
	return float64(om.CorrectCount) / float64(om.TotalAttempts)
}

// FluencyScore returns the computed fluency score (0.0-1.0).
func (om *ObjectiveMastery) FluencyScore() float64 {
	return FluencyScore(&om.Fluency, om.Accuracy())
}
