package mastery

// MasteryState represents a learning objective's position in the mastery
// lifecycle within one session.
type MasteryState string

const (
	StateNew        MasteryState = "new"
	StateLearning   MasteryState = "learning"
	StateMastered   MasteryState = "mastered"
	StateStruggling MasteryState = "struggling"
)

// StateTransition records a mastery state change.
type StateTransition struct {
	Objective string
	From      MasteryState
	To        MasteryState
	Trigger   string // "first-attempt", "fluency-reached", "fluency-lost", "accuracy-low", "recovered"
}
