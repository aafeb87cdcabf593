package words

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Word is the oracle's answer: a secret word and a short description of
// the theme it belongs to.
type Word struct {
	SecretWord string `json:"secret_word"`
	Category   string `json:"category"`
}

// Oracle produces a secret word for a theme, avoiding the forbidden
// words when it can. Failures are surfaced as errors, never as a
// fabricated fallback word.
type Oracle interface {
	Generate(ctx context.Context, theme string, forbidden []string) (Word, error)
}

const systemPrompt = `You are a game master. Return ONLY a valid JSON object of the form ` +
	`{ "secret_word": "...", "category": "..." } based on the theme given by the user. ` +
	`The secret word must be something specific and interesting related to the theme. ` +
	`The category must be a brief description of the theme.`

// maxForbiddenPrompt caps the forbidden list sent to the model so the
// prompt stays bounded.
const maxForbiddenPrompt = 20

func NewClient(config Config) *Client {
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
	}
}

// Client calls an OpenAI-compatible chat completions endpoint in JSON
// mode.
type Client struct {
	config Config
	http   *http.Client
}

var _ Oracle = (*Client)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages       []chatMessage  `json:"messages"`
	Model          string         `json:"model"`
	Temperature    float64        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) Generate(ctx context.Context, theme string, forbidden []string) (Word, error) {
	userMessage := "Theme: " + theme
	if len(forbidden) > 0 {
		if len(forbidden) > maxForbiddenPrompt {
			forbidden = forbidden[len(forbidden)-maxForbiddenPrompt:]
		}
		userMessage += "\n\nIMPORTANT: the secret word must NOT be any of these already used words: " +
			strings.Join(forbidden, ", ") + ". Generate a NEW and DIFFERENT word related to the theme."
	}

	payload := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
		Model:          c.config.Model,
		Temperature:    0.6,
		MaxTokens:      200,
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Word{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		strings.TrimSuffix(c.config.BaseURL, "/")+"/chat/completions",
		bytes.NewReader(body),
	)
	if err != nil {
		return Word{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return Word{}, fmt.Errorf("oracle call: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Word{}, fmt.Errorf("read oracle response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Word{}, fmt.Errorf("oracle status %d: %s", resp.StatusCode, truncate(string(data), 256))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Word{}, fmt.Errorf("parse oracle response: %w", err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return Word{}, fmt.Errorf("empty oracle response")
	}

	var word Word
	if err := json.Unmarshal([]byte(parsed.Choices[0].Message.Content), &word); err != nil {
		return Word{}, fmt.Errorf("parse oracle content: %w", err)
	}

	if word.SecretWord == "" || word.Category == "" {
		return Word{}, fmt.Errorf("invalid oracle response: secret_word or category missing")
	}

	return word, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
