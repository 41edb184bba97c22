package client

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"learning-timer/config"
	"learning-timer/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlBank = `
- prompt: "What is 3 * 3?"
  options: ["6", "9", "12"]
  answer: "9"
- prompt: "Largest ocean?"
  options: ["Atlantic", "Pacific"]
  answer: "Pacific"
`

const jsonBank = `[
  {"prompt": "Boiling point of water in C?", "options": ["90", "100"], "answer": "100"}
]`

type fakeObjects struct {
	objects map[string][]byte
	calls   []string
}

func (f *fakeObjects) ReadObject(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	f.calls = append(f.calls, bucketName+"/"+objectName)
	data, ok := f.objects[bucketName+"/"+objectName]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestQuestionSource_Default(t *testing.T) {
	bank, err := NewQuestionSource(&config.GameConfig{}, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, bank.Levels())

	q, ok := bank.Question(2)
	require.True(t, ok)
	assert.Equal(t, "Capital of France?", q.Prompt)
}

func TestQuestionSource_YAMLFile(t *testing.T) {
	cfg := &config.GameConfig{QuestionsFile: writeFile(t, "questions.yaml", yamlBank)}

	bank, err := NewQuestionSource(cfg, nil).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, bank.Levels())

	q, ok := bank.Question(1)
	require.True(t, ok)
	assert.Equal(t, "What is 3 * 3?", q.Prompt)
	assert.Equal(t, []string{"6", "9", "12"}, q.Options)
	assert.Equal(t, "9", q.CorrectAnswer)
}

func TestQuestionSource_JSONFile(t *testing.T) {
	cfg := &config.GameConfig{QuestionsFile: writeFile(t, "questions.JSON", jsonBank)}

	bank, err := NewQuestionSource(cfg, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, bank.Levels())
}

func TestQuestionSource_FileTakesPrecedence(t *testing.T) {
	objects := &fakeObjects{}
	cfg := &config.GameConfig{
		QuestionsFile:   writeFile(t, "questions.yaml", yamlBank),
		QuestionsBucket: "quiz",
		QuestionsObject: "questions.yaml",
	}

	_, err := NewQuestionSource(cfg, objects).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, objects.calls)
}

func TestQuestionSource_Bucket(t *testing.T) {
	objects := &fakeObjects{objects: map[string][]byte{"quiz/bank.json": []byte(jsonBank)}}
	cfg := &config.GameConfig{QuestionsBucket: "quiz", QuestionsObject: "bank.json"}

	bank, err := NewQuestionSource(cfg, objects).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, bank.Levels())
	assert.Equal(t, []string{"quiz/bank.json"}, objects.calls)
}

func TestQuestionSource_Errors(t *testing.T) {
	tests := []struct {
		name       string
		cfg        *config.GameConfig
		objects    ObjectReader
		invalidErr bool
	}{
		{
			name: "missing file",
			cfg:  &config.GameConfig{QuestionsFile: filepath.Join(t.TempDir(), "absent.yaml")},
		},
		{
			name: "unparseable file",
			cfg:  &config.GameConfig{QuestionsFile: writeFile(t, "broken.json", `{"prompt":`)},
		},
		{
			name:       "empty bank",
			cfg:        &config.GameConfig{QuestionsFile: writeFile(t, "empty.yaml", `[]`)},
			invalidErr: true,
		},
		{
			name: "answer outside options",
			cfg: &config.GameConfig{QuestionsFile: writeFile(t, "bad.yaml", `
- prompt: "Pick one"
  options: ["a", "b"]
  answer: "c"
`)},
			invalidErr: true,
		},
		{
			name: "bucket without object store",
			cfg:  &config.GameConfig{QuestionsBucket: "quiz", QuestionsObject: "questions.yaml"},
		},
		{
			name:    "object not found",
			cfg:     &config.GameConfig{QuestionsBucket: "quiz", QuestionsObject: "questions.yaml"},
			objects: &fakeObjects{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bank, err := NewQuestionSource(tt.cfg, tt.objects).Load(context.Background())
			require.Error(t, err)
			assert.Nil(t, bank)
			assert.Equal(t, tt.invalidErr, errors.Is(err, game.ErrInvalidQuestionBank))
		})
	}
}
