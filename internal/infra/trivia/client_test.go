package trivia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const samplePayload = `{
	"response_code": 0,
	"results": [
		{
			"category": "Geography",
			"difficulty": "medium",
			"question": "What&#039;s the capital of Sweden?",
			"correct_answer": "Stockholm",
			"incorrect_answers": ["Oslo", "Copenhagen", "Helsinki"]
		},
		{
			"category": "Geography",
			"difficulty": "medium",
			"question": "Broken entry",
			"correct_answer": "Yes",
			"incorrect_answers": ["No"]
		}
	]
}`

func TestFetchDecodesAndUnescapes(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(samplePayload))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	questions, err := client.Fetch(context.Background(), 2, "22", "medium")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(questions) != 1 {
		t.Fatalf("expected malformed entry dropped, got %d questions", len(questions))
	}
	q := questions[0]
	if q.Prompt != "What's the capital of Sweden?" {
		t.Fatalf("expected unescaped prompt, got %q", q.Prompt)
	}
	if q.CorrectAnswer != "Stockholm" || len(q.IncorrectAnswers) != 3 {
		t.Fatalf("unexpected question: %+v", q)
	}
	if q.CategoryID != "22" {
		t.Fatalf("expected category stamp, got %q", q.CategoryID)
	}

	for _, want := range []string{"amount=2", "category=22", "difficulty=medium", "type=multiple"} {
		if !strings.Contains(gotQuery, want) {
			t.Fatalf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestFetchRejectsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response_code": 2, "results": []}`))
	}))
	defer server.Close()

	client := NewClientWithBaseURL(server.URL)
	if _, err := client.Fetch(context.Background(), 5, "", ""); err == nil {
		t.Fatalf("expected error on non-zero response code")
	}
}
