package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"quiztimer-service/internal/domain"
)

// DefaultBaseURL is the Open Trivia Database question endpoint.
const DefaultBaseURL = "https://opentdb.com/api.php"

// Client imports multiple-choice questions from the Open Trivia Database.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient() *Client {
	return NewClientWithBaseURL(DefaultBaseURL)
}

// NewClientWithBaseURL points the client at a different endpoint, mainly
// for tests.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
	}
}

type triviaResponse struct {
	ResponseCode int            `json:"response_code"`
	Results      []triviaResult `json:"results"`
}

type triviaResult struct {
	Category         string   `json:"category"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// Fetch pulls up to amount multiple-choice questions, optionally filtered
// by opentdb category and difficulty. Payload fields arrive HTML-encoded
// and are unescaped here; results that are not a 1-correct-3-incorrect
// shape are dropped. The opentdb category filter doubles as the CategoryID
// stamped on imported questions.
func (c *Client) Fetch(ctx context.Context, amount int, category, difficulty string) ([]domain.Question, error) {
	params := url.Values{}
	params.Set("amount", strconv.Itoa(amount))
	if category != "" {
		params.Set("category", category)
	}
	if difficulty != "" {
		params.Set("difficulty", difficulty)
	}
	params.Set("type", "multiple")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch questions: unexpected status %s", resp.Status)
	}

	var payload triviaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if payload.ResponseCode != 0 {
		return nil, fmt.Errorf("trivia api returned code %d", payload.ResponseCode)
	}

	questions := make([]domain.Question, 0, len(payload.Results))
	for _, result := range payload.Results {
		if len(result.IncorrectAnswers) != 3 {
			continue
		}
		q := domain.Question{
			Prompt:           html.UnescapeString(result.Question),
			CorrectAnswer:    html.UnescapeString(result.CorrectAnswer),
			IncorrectAnswers: make([]string, len(result.IncorrectAnswers)),
			CategoryID:       category,
		}
		for i, a := range result.IncorrectAnswers {
			q.IncorrectAnswers[i] = html.UnescapeString(a)
		}
		if q.Complete() {
			questions = append(questions, q)
		}
	}
	return questions, nil
}
