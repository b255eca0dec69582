package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/licenseprep/curricula/pkg/logger"
)

// Client calls a chat-completions-style text-generation endpoint. On a
// timeout or quota error it retries once on the configured fallback model
// before surfacing the failure.
type Client struct {
	baseURL       string
	apiKey        string
	model         string
	fallbackModel string
	httpc         *http.Client
	log           *logger.Logger
}

func NewClient(baseURL, apiKey, model, fallbackModel string, timeout time.Duration, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:       baseURL,
		apiKey:        apiKey,
		model:         model,
		fallbackModel: fallbackModel,
		httpc:         &http.Client{Timeout: timeout},
		log:           log.With("component", "genai"),
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// errRetryable marks failures worth one attempt on the fallback model.
var errRetryable = errors.New("retryable generation failure")

func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	out, err := c.complete(ctx, c.model, prompt, maxTokens)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, errRetryable) || c.fallbackModel == "" || c.fallbackModel == c.model {
		return "", err
	}

	c.log.Warn("generation failed, retrying on fallback model",
		"model", c.model, "fallback", c.fallbackModel, "error", err)
	out, err = c.complete(ctx, c.fallbackModel, prompt, maxTokens)
	if err != nil {
		return "", fmt.Errorf("fallback model %s: %w", c.fallbackModel, err)
	}
	return out, nil
}

func (c *Client) complete(ctx context.Context, model, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:     model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", errRetryable, err)
		}
		var urlTimeout interface{ Timeout() bool }
		if errors.As(err, &urlTimeout) && urlTimeout.Timeout() {
			return "", fmt.Errorf("%w: %v", errRetryable, err)
		}
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", fmt.Errorf("%w: server returned status %d", errRetryable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("generation server returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if parsed.Error != nil {
		if parsed.Error.Type == "insufficient_quota" {
			return "", fmt.Errorf("%w: %s", errRetryable, parsed.Error.Message)
		}
		return "", fmt.Errorf("generation error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty generation response")
	}
	return parsed.Choices[0].Message.Content, nil
}
