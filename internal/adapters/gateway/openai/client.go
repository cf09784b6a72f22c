// Package openai talks to an OpenAI-compatible chat completion API. Any
// server exposing /chat/completions and /models works, which covers the
// usual proxy deployments.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/XueJourney/AgentRound/internal/domain"
	"github.com/XueJourney/AgentRound/internal/ports"
)

const maxResponseBytes = 1 << 20

var (
	_ ports.CompletionGateway = (*Client)(nil)
	_ ports.ModelSource       = (*Client)(nil)
)

// TemperatureRange bounds the per-request sampling temperature. Each request
// draws uniformly from [Min, Max] so agents answering the same prompt do not
// collapse into one voice.
type TemperatureRange struct {
	Min float64
	Max float64
}

func (r TemperatureRange) draw() float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min)
}

// Client implements ports.CompletionGateway and ports.ModelSource against an
// OpenAI-compatible endpoint.
type Client struct {
	BaseURL        string
	APIKey         string
	HTTPClient     *http.Client
	Temperature    TemperatureRange
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type modelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the history to the model named by agentID and returns the
// generated text with its token usage. The history slice is only read.
func (c *Client) Complete(ctx context.Context, history []domain.Message, agentID string, maxResponseTokens int) (ports.Completion, error) {
	endpoint, err := c.endpoint("chat/completions")
	if err != nil {
		return ports.Completion{}, err
	}

	payload := chatRequest{
		Model:       agentID,
		Messages:    make([]wireMessage, len(history)),
		Temperature: c.Temperature.draw(),
		MaxTokens:   maxResponseTokens,
	}
	for i, msg := range history {
		payload.Messages[i] = wireMessage{Role: string(msg.Role), Content: msg.Content}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return ports.Completion{}, fmt.Errorf("encode chat request: %w", err)
	}

	requestID := uuid.NewString()
	logger := c.logger().With(
		zap.String("request_id", requestID),
		zap.String("model", agentID),
	)
	logger.Debug("dispatching chat completion",
		zap.Int("messages", len(history)),
		zap.Float64("temperature", payload.Temperature),
		zap.Int("max_tokens", maxResponseTokens),
	)

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return ports.Completion{}, fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return ports.Completion{}, fmt.Errorf("send chat request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := c.statusError(resp)
		logger.Warn("chat completion failed",
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return ports.Completion{}, err
	}

	var parsed chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&parsed); err != nil {
		return ports.Completion{}, fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return ports.Completion{}, errors.New("chat response has no choices")
	}

	logger.Debug("chat completion received",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("prompt_tokens", parsed.Usage.PromptTokens),
		zap.Int("completion_tokens", parsed.Usage.CompletionTokens),
	)
	return ports.Completion{
		Text:             strings.TrimSpace(parsed.Choices[0].Message.Content),
		PromptTokens:     parsed.Usage.PromptTokens,
		CompletionTokens: parsed.Usage.CompletionTokens,
	}, nil
}

// ListModels fetches the identifiers the endpoint can serve.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	endpoint, err := c.endpoint("models")
	if err != nil {
		return nil, err
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create models request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("send models request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var parsed modelsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode models response: %w", err)
	}

	models := make([]string, 0, len(parsed.Data))
	for _, model := range parsed.Data {
		if model.ID != "" {
			models = append(models, model.ID)
		}
	}
	return models, nil
}

// statusError maps provider status codes onto domain sentinels so callers
// can branch without knowing HTTP.
func (c *Client) statusError(resp *http.Response) error {
	detail := decodeErrorMessage(resp)

	var sentinel error
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		sentinel = domain.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		sentinel = domain.ErrModelNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		sentinel = domain.ErrRateLimited
	case resp.StatusCode >= http.StatusInternalServerError:
		sentinel = domain.ErrProvider
	default:
		return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, detail)
	}

	if detail == "" {
		return fmt.Errorf("status %d: %w", resp.StatusCode, sentinel)
	}
	return fmt.Errorf("status %d (%s): %w", resp.StatusCode, detail, sentinel)
}

func decodeErrorMessage(resp *http.Response) string {
	var parsed errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&parsed); err != nil {
		return ""
	}
	return parsed.Error.Message
}

func (c *Client) endpoint(path string) (string, error) {
	if c.BaseURL == "" {
		return "", errors.New("base url is required")
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("base url host is required")
	}
	return strings.TrimSuffix(parsed.String(), "/") + "/" + path, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	timeout := c.RequestTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return context.WithTimeout(ctx, timeout)
}

func (c *Client) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}
