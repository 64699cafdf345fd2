package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"live-quiz-service/internal/domain"
)

var extensions = []string{".json", ".yaml", ".yml"}

// QuizLoader reads quiz definitions from <dir>/<quizID>.{json,yaml,yml}.
// A file holds either a bare list of questions or an object with "questions".
type QuizLoader struct {
	dir string
}

func NewQuizLoader(dir string) *QuizLoader {
	return &QuizLoader{dir: dir}
}

func (l *QuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	if quizID == "" || strings.ContainsAny(quizID, `/\`) || strings.HasPrefix(quizID, ".") {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	for _, ext := range extensions {
		path := filepath.Join(l.dir, quizID+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("read quiz %s: %w", quizID, err)
		}
		quiz, err := Decode(data, ext)
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("decode %s: %w", path, err)
		}
		quiz.ID = quizID
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

// List returns the ids of every quiz file in the directory.
func (l *QuizLoader) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	seen := make(map[string]struct{})
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !knownExtension(ext) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ext)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Decode parses quiz content in JSON or YAML depending on ext.
func Decode(data []byte, ext string) (domain.Quiz, error) {
	var (
		quiz      domain.Quiz
		questions []domain.Question
	)
	if ext == ".json" {
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
			err := json.Unmarshal(trimmed, &questions)
			return domain.Quiz{Questions: questions}, err
		}
		err := json.Unmarshal(data, &quiz)
		return quiz, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return domain.Quiz{}, err
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		err := node.Decode(&questions)
		return domain.Quiz{Questions: questions}, err
	}
	err := node.Decode(&quiz)
	return quiz, err
}

func knownExtension(ext string) bool {
	for _, known := range extensions {
		if ext == known {
			return true
		}
	}
	return false
}
