package game

import (
	"testing"

	"learning-timer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuestionBank_Validation(t *testing.T) {
	valid := models.Question{Prompt: "2 + 2?", Options: []string{"3", "4"}, CorrectAnswer: "4"}

	tests := []struct {
		name        string
		questions   []models.Question
		expectedErr string
	}{
		{
			name:        "empty bank",
			questions:   nil,
			expectedErr: "no questions configured",
		},
		{
			name:        "empty prompt",
			questions:   []models.Question{valid, {Prompt: "", Options: []string{"a"}, CorrectAnswer: "a"}},
			expectedErr: "level 2 has an empty prompt",
		},
		{
			name:        "no options",
			questions:   []models.Question{{Prompt: "q", CorrectAnswer: "a"}},
			expectedErr: "level 1 has no options",
		},
		{
			name:        "duplicate option",
			questions:   []models.Question{{Prompt: "q", Options: []string{"a", "b", "a"}, CorrectAnswer: "a"}},
			expectedErr: `level 1 repeats option "a"`,
		},
		{
			name:        "answer not an option",
			questions:   []models.Question{valid, valid, {Prompt: "q", Options: []string{"a", "b"}, CorrectAnswer: "A"}},
			expectedErr: `level 3 answer "A" is not one of its options`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuestionBank(tt.questions)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidQuestionBank)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestQuestionBank_LevelsAreOneBased(t *testing.T) {
	bank := DefaultQuestionBank()
	require.Equal(t, 3, bank.Levels())

	q, ok := bank.Question(1)
	require.True(t, ok)
	assert.Equal(t, "What is 2 + 2?", q.Prompt)
	assert.Equal(t, []string{"3", "4", "5"}, q.Options)
	assert.Equal(t, "4", q.CorrectAnswer)

	q, ok = bank.Question(3)
	require.True(t, ok)
	assert.Equal(t, "Jupiter", q.CorrectAnswer)

	for _, level := range []int{0, -1, 4, 100} {
		_, ok := bank.Question(level)
		assert.False(t, ok, "level %d", level)
	}
}

func TestQuestionBank_IsImmutable(t *testing.T) {
	source := []models.Question{{Prompt: "q", Options: []string{"a", "b"}, CorrectAnswer: "a"}}
	bank, err := NewQuestionBank(source)
	require.NoError(t, err)

	source[0].Options[0] = "changed"
	q, _ := bank.Question(1)
	q.Options[1] = "mutated"

	again, _ := bank.Question(1)
	assert.Equal(t, []string{"a", "b"}, again.Options)
}
