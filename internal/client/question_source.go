package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"learning-timer/config"
	"learning-timer/internal/game"
	"learning-timer/internal/models"

	"gopkg.in/yaml.v3"
)

type ObjectReader interface {
	ReadObject(ctx context.Context, bucketName, objectName string) ([]byte, error)
}

// QuestionSource resolves the question bank from a local file, an object
// store, or the built-in default, in that order of preference.
type QuestionSource struct {
	cfg     *config.GameConfig
	objects ObjectReader
}

func NewQuestionSource(cfg *config.GameConfig, objects ObjectReader) *QuestionSource {
	return &QuestionSource{
		cfg:     cfg,
		objects: objects,
	}
}

func (s *QuestionSource) Load(ctx context.Context) (*game.QuestionBank, error) {
	switch {
	case s.cfg.QuestionsFile != "":
		data, err := os.ReadFile(s.cfg.QuestionsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read questions file: %w", err)
		}
		return parseBank(data, s.cfg.QuestionsFile)

	case s.cfg.QuestionsBucket != "":
		if s.objects == nil {
			return nil, fmt.Errorf("questions bucket %q configured without an object store", s.cfg.QuestionsBucket)
		}
		data, err := s.objects.ReadObject(ctx, s.cfg.QuestionsBucket, s.cfg.QuestionsObject)
		if err != nil {
			return nil, err
		}
		return parseBank(data, s.cfg.QuestionsObject)

	default:
		return game.DefaultQuestionBank(), nil
	}
}

func parseBank(data []byte, name string) (*game.QuestionBank, error) {
	questions, err := DecodeQuestions(data, filepath.Ext(name))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return game.NewQuestionBank(questions)
}

// DecodeQuestions parses a list of questions in level order. ext selects JSON
// for ".json" and YAML otherwise.
func DecodeQuestions(data []byte, ext string) ([]models.Question, error) {
	var questions []models.Question

	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &questions); err != nil {
			return nil, err
		}
		return questions, nil
	}

	if err := yaml.Unmarshal(data, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}
