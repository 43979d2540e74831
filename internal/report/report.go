// Package report renders sessions, outcomes and recorded history for the
// terminal.
package report

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizcat/internal/bank"
	"github.com/abhisek/quizcat/internal/engine"
	"github.com/abhisek/quizcat/internal/registry"
	"github.com/abhisek/quizcat/internal/sim"
	"github.com/abhisek/quizcat/internal/store"
)

// Renderer formats reports. A Plain renderer emits no styling, which keeps
// output stable for pipes and tests.
type Renderer struct {
	Width int
	Plain bool
}

// New returns a styled Renderer of the given width (60 when width <= 0).
func New(width int) *Renderer {
	if width <= 0 {
		width = 60
	}
	return &Renderer{Width: width}
}

func (r *Renderer) style(s lipgloss.Style) lipgloss.Style {
	if r.Plain {
		return lipgloss.NewStyle()
	}
	return s
}

func (r *Renderer) divider() string {
	return r.style(dimStyle).Render(strings.Repeat("─", r.Width))
}

func (r *Renderer) heading(b *strings.Builder, title string) {
	b.WriteString(r.style(headingStyle).Render(title))
	b.WriteString("\n")
	b.WriteString(r.divider())
	b.WriteString("\n")
}

// Steps renders one line per served question.
func (r *Renderer) Steps(steps []sim.Step) string {
	var b strings.Builder
	r.heading(&b, "Questions")

	if len(steps) == 0 {
		b.WriteString(r.style(dimStyle).Render("  no questions served"))
		b.WriteString("\n")
		return b.String()
	}

	for _, s := range steps {
		mark := r.style(correctStyle).Render("✓")
		if !s.Correct {
			mark = r.style(incorrectStyle).Render("✗")
		}
		line := fmt.Sprintf("%3d  %-12s d=%.2f  %s  %5.1fs  difficulty %.2f  confidence %.2f  %s",
			s.Index,
			s.Recommendation.QuestionID,
			s.Recommendation.ExpectedDifficulty,
			mark,
			s.Seconds,
			s.DifficultyAfter,
			s.ConfidenceAfter,
			r.style(dimStyle).Render(string(s.Recommendation.ReasonCode)),
		)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// Outcome renders the final report of a finished session. cfg supplies
// the difficulty range for the difficulty gauge.
func (r *Renderer) Outcome(o registry.Outcome, cfg engine.Config) string {
	var b strings.Builder

	b.WriteString(r.style(titleStyle).Render(fmt.Sprintf("Session %s complete", shortID(o.SessionID))))
	b.WriteString("\n")
	if o.Bank != "" {
		b.WriteString(r.style(dimStyle).Render("Bank: " + o.Bank))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(r.style(bodyStyle).Render(fmt.Sprintf("Questions: %d    Correct: %d    Accuracy: %d%%",
		o.Progress.Total, o.Progress.Correct, o.Progress.Percentage)))
	b.WriteString("\n")
	if d := o.FinishedAt.Sub(o.StartedAt); d > 0 {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		b.WriteString(r.style(dimStyle).Render(fmt.Sprintf("Duration: %d:%02d", mins, secs)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(Bar{Label: "Confidence", Fraction: o.Confidence, ShowPercent: true, Width: r.Width}.render(r))
	b.WriteString("\n")
	span := cfg.MaxDifficulty - cfg.MinDifficulty
	pos := 0.0
	if span > 0 {
		pos = (o.FinalDifficulty - cfg.MinDifficulty) / span
	}
	b.WriteString(Bar{Label: fmt.Sprintf("Difficulty %.2f", o.FinalDifficulty), Fraction: pos, Width: r.Width}.render(r))
	b.WriteString("\n\n")

	if len(o.Strengths) > 0 {
		b.WriteString(r.style(correctStyle).Render("Strengths: ") + strings.Join(o.Strengths, ", ") + "\n")
	}
	if len(o.Weaknesses) > 0 {
		b.WriteString(r.style(incorrectStyle).Render("Needs work: ") + strings.Join(o.Weaknesses, ", ") + "\n")
	}
	if len(o.Strengths)+len(o.Weaknesses) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(r.Prediction(o.Prediction))
	b.WriteString("\n")
	b.WriteString(r.Feedback(o.Feedback, o.Prediction.ExpectedScore))
	return b.String()
}

// Prediction renders the expected score and its recommendations.
func (r *Renderer) Prediction(p engine.PerformancePrediction) string {
	var b strings.Builder
	r.heading(&b, "Prediction")

	score := r.style(lipgloss.NewStyle().Foreground(scoreColor(p.ExpectedScore)).Bold(true)).
		Render(fmt.Sprintf("%.0f", p.ExpectedScore))
	b.WriteString(fmt.Sprintf("  Expected score: %s / 100\n", score))
	for _, rec := range p.Recommendations {
		b.WriteString("  • " + rec + "\n")
	}
	return b.String()
}

// Feedback renders the personalized feedback inside a card.
func (r *Renderer) Feedback(f engine.PersonalizedFeedback, score float64) string {
	var lines []string
	lines = append(lines, r.style(lipgloss.NewStyle().Foreground(scoreColor(score)).Bold(true)).Render(f.Message))
	if len(f.Suggestions) > 0 {
		lines = append(lines, "", r.style(headingStyle).Render("Suggestions"))
		for _, s := range f.Suggestions {
			lines = append(lines, "  • "+s)
		}
	}
	if len(f.NextSteps) > 0 {
		lines = append(lines, "", r.style(headingStyle).Render("Next steps"))
		for _, s := range f.NextSteps {
			lines = append(lines, "  • "+s)
		}
	}
	body := strings.Join(lines, "\n")
	if r.Plain {
		return body + "\n"
	}
	return cardStyle.Width(r.Width).Render(body) + "\n"
}

// Results renders recorded outcomes newest first with their summary.
func (r *Renderer) Results(results []store.Result, sum store.Summary) string {
	var b strings.Builder
	r.heading(&b, "Recorded sessions")

	if len(results) == 0 {
		b.WriteString(r.style(dimStyle).Render("  no sessions recorded yet"))
		b.WriteString("\n")
		return b.String()
	}

	for _, res := range results {
		line := fmt.Sprintf("  %s  %-8s  %-16s  %2d/%-2d  %3d%%  expected %3.0f  difficulty %.2f",
			res.FinishedAt.Local().Format("2006-01-02 15:04"),
			shortID(res.ID),
			res.Bank,
			res.Correct, res.Total,
			res.Percentage,
			res.ExpectedScore,
			res.FinalDifficulty,
		)
		b.WriteString(r.style(bodyStyle).Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(r.style(dimStyle).Render(fmt.Sprintf("  %d sessions    mean accuracy %.1f%%    mean expected score %.1f",
		sum.Sessions, sum.MeanPercentage, sum.MeanExpectation)))
	b.WriteString("\n")
	return b.String()
}

// Bank renders a validated bank's overview.
func (r *Renderer) Bank(bk *bank.Bank, cfg engine.Config) string {
	var b strings.Builder
	b.WriteString(r.style(titleStyle).Render(bk.Name))
	b.WriteString("\n")
	if bk.Description != "" {
		b.WriteString(r.style(dimStyle).Render(bk.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	qs := bk.Questions()
	objectives := make(map[string]int)
	var order []string
	lo, hi := qs[0].Difficulty, qs[0].Difficulty
	for _, q := range qs {
		if objectives[q.LearningObjective] == 0 {
			order = append(order, q.LearningObjective)
		}
		objectives[q.LearningObjective]++
		lo = min(lo, q.Difficulty)
		hi = max(hi, q.Difficulty)
	}

	b.WriteString(fmt.Sprintf("  Questions:   %d\n", len(qs)))
	b.WriteString(fmt.Sprintf("  Difficulty:  %.2f to %.2f (range %.2f to %.2f)\n", lo, hi, cfg.MinDifficulty, cfg.MaxDifficulty))
	b.WriteString("\n")
	r.heading(&b, "Learning objectives")
	for _, obj := range order {
		b.WriteString(fmt.Sprintf("  %-24s %d\n", obj, objectives[obj]))
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
