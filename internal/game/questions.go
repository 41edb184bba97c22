package game

import (
	"errors"
	"fmt"

	"learning-timer/internal/models"
)

var ErrInvalidQuestionBank = errors.New("invalid question bank")

// QuestionBank maps 1-based levels to questions.
type QuestionBank struct {
	questions []models.Question
}

func NewQuestionBank(questions []models.Question) (*QuestionBank, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions configured", ErrInvalidQuestionBank)
	}

	bank := &QuestionBank{questions: make([]models.Question, 0, len(questions))}
	for i, q := range questions {
		level := i + 1
		if q.Prompt == "" {
			return nil, fmt.Errorf("%w: level %d has an empty prompt", ErrInvalidQuestionBank, level)
		}
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("%w: level %d has no options", ErrInvalidQuestionBank, level)
		}

		seen := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			if seen[opt] {
				return nil, fmt.Errorf("%w: level %d repeats option %q", ErrInvalidQuestionBank, level, opt)
			}
			seen[opt] = true
		}
		if !seen[q.CorrectAnswer] {
			return nil, fmt.Errorf("%w: level %d answer %q is not one of its options", ErrInvalidQuestionBank, level, q.CorrectAnswer)
		}

		bank.questions = append(bank.questions, models.Question{
			Prompt:        q.Prompt,
			Options:       append([]string(nil), q.Options...),
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	return bank, nil
}

func DefaultQuestionBank() *QuestionBank {
	bank, err := NewQuestionBank([]models.Question{
		{Prompt: "What is 2 + 2?", Options: []string{"3", "4", "5"}, CorrectAnswer: "4"},
		{Prompt: "Capital of France?", Options: []string{"Berlin", "Paris", "Rome"}, CorrectAnswer: "Paris"},
		{Prompt: "Which is largest planet?", Options: []string{"Earth", "Jupiter", "Mars"}, CorrectAnswer: "Jupiter"},
	})
	if err != nil {
		panic(err)
	}
	return bank
}

// Question returns the question configured for level; ok is false past the
// last level.
func (b *QuestionBank) Question(level int) (q models.Question, ok bool) {
	if level < 1 || level > len(b.questions) {
		return models.Question{}, false
	}
	q = b.questions[level-1]
	q.Options = append([]string(nil), q.Options...)
	return q, true
}

func (b *QuestionBank) Levels() int {
	return len(b.questions)
}
