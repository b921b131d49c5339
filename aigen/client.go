package aigen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/chat/completions"
	defaultModel   = "gemini-1.5-flash"

	clientTimeout = 30 * time.Second
)

// Client talks to an OpenAI-compatible chat-completion endpoint.
type Client struct {
	apiKey  string
	model   string
	baseURL string

	httpClient *http.Client
}

func NewClient(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = defaultModel
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,

		httpClient: &http.Client{Timeout: clientTimeout},
	}
}

func (c *Client) Model() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// complete sends a single-user-message completion request and returns the
// first choice's content.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	reqJSON, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewBuffer(reqJSON))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", err
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

func (c *Client) Summarize(ctx context.Context, highlights []Highlight, collectionTitle string) (string, error) {
	if collectionTitle == "" {
		collectionTitle = "Study Collection"
	}

	prompt := fmt.Sprintf(`You are an expert educational content summarizer. Please create a comprehensive, well-structured summary based on the following highlights from a study collection.

Collection Title: %s

Highlights:
%s
Please create a summary that:
1. Synthesizes the key concepts and main ideas
2. Maintains logical flow and coherence
3. Uses clear, academic language
4. Is comprehensive but concise (aim for 300-500 words)
5. Organizes information in a logical structure

Summary:`, collectionTitle, highlightsText(highlights))

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if content == "" {
		return "", fmt.Errorf("empty summary generated")
	}
	return content, nil
}

func (c *Client) Quizify(ctx context.Context, summary string, numQuestions int) (Quiz, error) {
	prompt := fmt.Sprintf(`You are an expert educational quiz creator. Please create %d multiple-choice questions based on the following summary.

Summary:
%s

Please create a quiz that:
1. Tests understanding of key concepts from the summary
2. Has 4 options (A, B, C, D) for each question
3. Has only one correct answer per question
4. Covers different aspects of the content
5. Uses clear, unambiguous language

Return the response as a JSON object with this exact structure:
{
    "title": "Quiz based on the summary",
    "questions": [
        {
            "question": "Question text here?",
            "options": {
                "A": "Option A text",
                "B": "Option B text",
                "C": "Option C text",
                "D": "Option D text"
            },
            "correct_answer": "A"
        }
    ]
}

Make sure the JSON is valid and properly formatted.`, numQuestions, summary)

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return Quiz{}, err
	}

	quiz, err := parseQuiz(content)
	if err != nil {
		return Quiz{}, err
	}
	return quiz, nil
}

// parseQuiz decodes the model output, rescuing JSON embedded in surrounding
// prose, and validates the structure.
func parseQuiz(content string) (Quiz, error) {
	var quiz Quiz
	if err := json.Unmarshal([]byte(content), &quiz); err != nil {
		start := strings.Index(content, "{")
		end := strings.LastIndex(content, "}")
		if start == -1 || end <= start {
			return Quiz{}, fmt.Errorf("no JSON object in quiz response")
		}
		if err := json.Unmarshal([]byte(content[start:end+1]), &quiz); err != nil {
			return Quiz{}, fmt.Errorf("could not parse quiz response: %v", err)
		}
	}

	if err := validateQuiz(quiz); err != nil {
		return Quiz{}, err
	}
	return quiz, nil
}

func validateQuiz(quiz Quiz) error {
	if quiz.Title == "" || len(quiz.Questions) == 0 {
		return fmt.Errorf("quiz is missing title or questions")
	}

	for i, q := range quiz.Questions {
		if q.Question == "" {
			return fmt.Errorf("question %d has no text", i)
		}
		for _, key := range []string{"A", "B", "C", "D"} {
			if _, ok := q.Options[key]; !ok {
				return fmt.Errorf("question %d is missing option %s", i, key)
			}
		}
		if _, ok := q.Options[q.CorrectAnswer]; !ok {
			return fmt.Errorf("question %d has an invalid correct answer %q", i, q.CorrectAnswer)
		}
	}
	return nil
}

// TestConnection sends a trivial prompt and reports whether a response came
// back.
func (c *Client) TestConnection(ctx context.Context) bool {
	content, err := c.complete(ctx, "Hello, please respond with 'ok' if you can read this.")
	return err == nil && content != ""
}
