package engine

// MasteryTracker maintains per-objective strengths and weaknesses for a
// session. The engine calls Observe once per accepted response and then
// copies Strengths and Weaknesses into the session state.
type MasteryTracker interface {
	Observe(q Question, r AnsweredResponse)
	Strengths() []string
	Weaknesses() []string
}

// NoopTracker never classifies an objective, leaving both sets empty.
type NoopTracker struct{}

func (NoopTracker) Observe(Question, AnsweredResponse) {}

func (NoopTracker) Strengths() []string { return nil }

func (NoopTracker) Weaknesses() []string { return nil }
