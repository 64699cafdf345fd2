package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"live-quiz-service/internal/domain"
)

func TestLoadJSONArray(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Q1.json", `[{"question":"Pick A","options":["A","B"],"correctIndex":0}]`)

	quiz, err := NewQuizLoader(dir).LoadQuiz(context.Background(), "Q1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if quiz.ID != "Q1" || len(quiz.Questions) != 1 {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}
	q := quiz.Questions[0]
	if q.Prompt != "Pick A" || len(q.Options) != 2 || q.CorrectIndex != 0 {
		t.Fatalf("unexpected question: %+v", q)
	}
}

func TestLoadYAMLObject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "capitals.yaml", `
questions:
  - question: Capital of France?
    options: [Berlin, Paris, Rome]
    correctIndex: 1
`)

	quiz, err := NewQuizLoader(dir).LoadQuiz(context.Background(), "capitals")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(quiz.Questions) != 1 || quiz.Questions[0].Options[1] != "Paris" || quiz.Questions[0].CorrectIndex != 1 {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}
}

func TestLoadMissingAndTraversal(t *testing.T) {
	loader := NewQuizLoader(t.TempDir())
	for _, id := range []string{"missing", "../etc/passwd", ".hidden", ""} {
		if _, err := loader.LoadQuiz(context.Background(), id); !errors.Is(err, domain.ErrQuizNotFound) {
			t.Fatalf("%q: expected not found, got %v", id, err)
		}
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `[{"question":`)

	_, err := NewQuizLoader(dir).LoadQuiz(context.Background(), "broken")
	if err == nil || errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yml", "[]")
	writeFile(t, dir, "a.json", "[]")
	writeFile(t, dir, "notes.txt", "ignored")

	ids, err := NewQuizLoader(dir).List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
