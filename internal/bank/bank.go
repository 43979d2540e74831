// Package bank loads question banks from YAML or JSON files and turns them
// into engine questions.
package bank

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizcat/internal/engine"
)

// ErrInvalidBank is returned (wrapped) when a bank file fails schema or
// structural validation.
var ErrInvalidBank = errors.New("invalid question bank")

// Item is one question as stored in a bank file. Text, Options and Answer
// are presentation and grading data the engine never sees.
type Item struct {
	ID                string   `yaml:"id"`
	Difficulty        float64  `yaml:"difficulty"`
	LearningObjective string   `yaml:"learning_objective"`
	Type              string   `yaml:"type"`
	Text              string   `yaml:"text,omitempty"`
	Options           []string `yaml:"options,omitempty"`
	Answer            string   `yaml:"answer,omitempty"`
}

type file struct {
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description,omitempty"`
	MinDifficulty *float64 `yaml:"min_difficulty,omitempty"`
	MaxDifficulty *float64 `yaml:"max_difficulty,omitempty"`
	Questions     []Item   `yaml:"questions"`
}

// Bank is a validated, immutable question bank.
type Bank struct {
	Name        string
	Description string

	minDifficulty *float64
	maxDifficulty *float64
	items         []Item
	index         map[string]int
}

// Load reads and parses the bank file at path.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return b, nil
}

// Parse decodes a YAML or JSON bank document, validates it against the
// embedded schema and checks the structural rules the schema cannot
// express.
func Parse(data []byte) (*Bank, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidBank, err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBank, err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidBank, err)
	}
	if err := checkItems(f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBank, err)
	}

	b := &Bank{
		Name:          f.Name,
		Description:   f.Description,
		minDifficulty: f.MinDifficulty,
		maxDifficulty: f.MaxDifficulty,
		items:         f.Questions,
		index:         make(map[string]int, len(f.Questions)),
	}
	for i, it := range f.Questions {
		b.index[it.ID] = i
	}
	return b, nil
}

// checkItems reports every structural problem in f as one error.
func checkItems(f file) error {
	var errs []string

	if f.MinDifficulty != nil && f.MaxDifficulty != nil && *f.MinDifficulty > *f.MaxDifficulty {
		errs = append(errs, fmt.Sprintf("min_difficulty %g is greater than max_difficulty %g", *f.MinDifficulty, *f.MaxDifficulty))
	}

	seen := make(map[string]bool, len(f.Questions))
	for _, it := range f.Questions {
		if seen[it.ID] {
			errs = append(errs, fmt.Sprintf("duplicate question ID: %q", it.ID))
		}
		seen[it.ID] = true

		if f.MinDifficulty != nil && it.Difficulty < *f.MinDifficulty {
			errs = append(errs, fmt.Sprintf("question %q: difficulty %g below min_difficulty", it.ID, it.Difficulty))
		}
		if f.MaxDifficulty != nil && it.Difficulty > *f.MaxDifficulty {
			errs = append(errs, fmt.Sprintf("question %q: difficulty %g above max_difficulty", it.ID, it.Difficulty))
		}

		if it.Type == engine.QuestionTypeMultipleChoice {
			if len(it.Options) < 2 {
				errs = append(errs, fmt.Sprintf("question %q: multiple_choice needs at least 2 options", it.ID))
			} else if it.Answer != "" && !containsAnswer(it.Options, it.Answer) {
				errs = append(errs, fmt.Sprintf("question %q: answer %q is not one of the options", it.ID, it.Answer))
			}
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func containsAnswer(options []string, answer string) bool {
	for _, o := range options {
		if normalize(o) == normalize(answer) {
			return true
		}
	}
	return false
}

// Len returns the number of questions in the bank.
func (b *Bank) Len() int { return len(b.items) }

// Questions returns the bank as engine questions, in file order.
func (b *Bank) Questions() []engine.Question {
	qs := make([]engine.Question, len(b.items))
	for i, it := range b.items {
		qs[i] = engine.Question{
			ID:                it.ID,
			Difficulty:        it.Difficulty,
			LearningObjective: it.LearningObjective,
			Type:              it.Type,
		}
	}
	return qs
}

// Item returns the stored question with the given ID.
func (b *Bank) Item(id string) (Item, bool) {
	i, ok := b.index[id]
	if !ok {
		return Item{}, false
	}
	return b.items[i], true
}

// CheckAnswer grades given against the stored answer, ignoring case and
// surrounding or repeated whitespace. Questions without a stored answer
// cannot be graded.
func (b *Bank) CheckAnswer(id, given string) (bool, error) {
	it, ok := b.Item(id)
	if !ok {
		return false, fmt.Errorf("check answer: %w: %q", engine.ErrUnknownQuestion, id)
	}
	if it.Answer == "" {
		return false, fmt.Errorf("check answer: question %q has no stored answer", id)
	}
	return normalize(given) == normalize(it.Answer), nil
}

// EngineConfig returns base with the difficulty range replaced by the
// bank's own range where the bank declares one. It fails when the
// resulting range is invalid or leaves a question outside it.
func (b *Bank) EngineConfig(base engine.Config) (engine.Config, error) {
	if b.minDifficulty != nil {
		base.MinDifficulty = *b.minDifficulty
	}
	if b.maxDifficulty != nil {
		base.MaxDifficulty = *b.maxDifficulty
	}
	if err := base.Validate(); err != nil {
		return base, fmt.Errorf("%w: %s: %w", ErrInvalidBank, b.Name, err)
	}

	var errs []string
	for _, it := range b.items {
		if it.Difficulty < base.MinDifficulty || it.Difficulty > base.MaxDifficulty {
			errs = append(errs, fmt.Sprintf("question %q: difficulty %g outside %g to %g", it.ID, it.Difficulty, base.MinDifficulty, base.MaxDifficulty))
		}
	}
	if len(errs) > 0 {
		return base, fmt.Errorf("%w: %s: %s", ErrInvalidBank, b.Name, strings.Join(errs, "; "))
	}
	return base, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
