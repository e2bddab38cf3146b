package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
)

// ErrEmptyAnswer indicates the model returned no content.
var ErrEmptyAnswer = errors.New("oracle returned an empty answer")

// TooManyRequestsError represents rate limiting signal from the model API.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// HTTPClient calls a chat completions API with structured JSON output.
type HTTPClient struct {
	baseURL    *url.URL
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type jsonSchema struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
	Strict bool           `json:"strict"`
}

type responseFormat struct {
	Type       string     `json:"type"`
	JSONSchema jsonSchema `json:"json_schema"`
}

type completionRequest struct {
	Model          string         `json:"model"`
	Messages       []message      `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

// completionResponse mirrors the part of the API answer we read.
type completionResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
			Refusal *string `json:"refusal"`
		} `json:"message"`
	} `json:"choices"`
}

// NewHTTPClient creates a model API client.
func NewHTTPClient(baseURL, apiKey, modelName string, logger *zap.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse oracle url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("oracle url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		model:   modelName,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}, nil
}

// Request sends prompt and decodes the schema conforming answer into out.
// Errors never include the prompt text.
func (c *HTTPClient) Request(ctx context.Context, prompt model.Prompt, schema model.Schema, out any) error {
	messages := make([]message, 0, 2)
	if strings.TrimSpace(prompt.System) != "" {
		messages = append(messages, message{Role: "system", Content: prompt.System})
	}
	messages = append(messages, message{Role: "user", Content: prompt.User})

	payload, err := json.Marshal(completionRequest{
		Model:    c.model,
		Messages: messages,
		ResponseFormat: responseFormat{
			Type:       "json_schema",
			JSONSchema: jsonSchema{Name: schema.Name, Schema: schema.Definition, Strict: true},
		},
	})
	if err != nil {
		return fmt.Errorf("encode oracle request: %w", err)
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/v1/chat/completions")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var data completionResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return fmt.Errorf("decode oracle response: %w", err)
		}
		return decodeAnswer(data, out)
	case http.StatusTooManyRequests:
		return TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		c.logger.Error("oracle request failed", zap.Int("status", resp.StatusCode), zap.String("schema", schema.Name))
		return fmt.Errorf("oracle error: %s", resp.Status)
	}
}

func decodeAnswer(data completionResponse, out any) error {
	if len(data.Choices) == 0 {
		return ErrEmptyAnswer
	}
	msg := data.Choices[0].Message
	if msg.Refusal != nil && *msg.Refusal != "" {
		return errors.New("oracle refused to answer")
	}
	if msg.Content == nil || strings.TrimSpace(*msg.Content) == "" {
		return ErrEmptyAnswer
	}
	if err := json.Unmarshal([]byte(*msg.Content), out); err != nil {
		return fmt.Errorf("decode oracle answer: %w", err)
	}
	return nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}

// Disabled is used when no API key is configured. Every request fails, so
// callers take their local fallback.
type Disabled struct{}

// Request always returns ErrOracleUnavailable.
func (Disabled) Request(context.Context, model.Prompt, model.Schema, any) error {
	return domainErrors.ErrOracleUnavailable
}
