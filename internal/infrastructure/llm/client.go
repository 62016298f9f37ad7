package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/productivity/domain"
)

// Config holds the connection settings for an OpenAI-compatible chat-completions endpoint.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client talks to the chat-completions API over fasthttp.
type Client struct {
	cfg    Config
	http   *fasthttp.Client
	logger *zap.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// New returns a client. It returns nil when no API key is configured, so callers
// can treat a nil Completer as "remote path unavailable".
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg: cfg,
		http: &fasthttp.Client{
			Name:                     "productivity",
			NoDefaultUserAgentHeader: true,
			ReadTimeout:              cfg.Timeout,
			WriteTimeout:             cfg.Timeout,
		},
		logger: logger,
	}
}

// Complete sends one chat request and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return "", domain.RemoteError("request cancelled", err)
	}

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", domain.RemoteError("encode request", err)
	}

	httpReq := fasthttp.AcquireRequest()
	httpResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(httpReq)
	defer fasthttp.ReleaseResponse(httpResp)

	httpReq.SetRequestURI(c.cfg.BaseURL + "/chat/completions")
	httpReq.Header.SetMethod(fasthttp.MethodPost)
	httpReq.Header.SetContentType("application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.SetBody(body)

	if err := c.do(ctx, httpReq, httpResp); err != nil {
		return "", domain.RemoteError("chat completion request failed", err)
	}

	status := httpResp.StatusCode()
	if status < 200 || status >= 300 {
		var apiErr apiError
		msg := strings.TrimSpace(string(httpResp.Body()))
		if json.Unmarshal(httpResp.Body(), &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return "", domain.RemoteError(fmt.Sprintf("chat completion returned status %d", status), errors.New(msg))
	}

	var parsed chatResponse
	if err := json.Unmarshal(httpResp.Body(), &parsed); err != nil {
		return "", domain.RemoteError("malformed chat completion response", err)
	}
	if len(parsed.Choices) == 0 {
		return "", domain.RemoteError("chat completion returned no choices", nil)
	}

	c.logger.Debug("chat completion received", zap.Int("status", status), zap.Int("bytes", len(httpResp.Body())))
	return parsed.Choices[0].Message.Content, nil
}

func (c *Client) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if deadline, ok := ctx.Deadline(); ok {
		if c.cfg.Timeout > 0 {
			if capped := time.Now().Add(c.cfg.Timeout); capped.Before(deadline) {
				deadline = capped
			}
		}
		return c.http.DoDeadline(req, resp, deadline)
	}
	if c.cfg.Timeout > 0 {
		return c.http.DoTimeout(req, resp, c.cfg.Timeout)
	}
	return c.http.Do(req, resp)
}
