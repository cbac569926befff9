package llm

import (
	"context"
	"fmt"
	"time"

	xhttp "AntVillage/pkg/http"
	"AntVillage/pkg/logger"

	domservice "AntVillage/internal/domain/service"
)

const (
	ProviderNone      = "none"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Client calls a hosted text-generation API. It implements
// service.TextGenerator. Provider "none" short-circuits every call to
// ErrNotConfigured so the pipeline can degrade without special-casing.
type Client struct {
	provider    string
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	http        *xhttp.Client
	log         *logger.Logger
}

type Option func(*Client)

func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http = xhttp.NewClient(xhttp.WithTimeout(timeout))
	}
}

func WithMaxTokens(n int) Option {
	return func(c *Client) {
		c.maxTokens = n
	}
}

func WithTemperature(t float64) Option {
	return func(c *Client) {
		c.temperature = t
	}
}

// New creates a text-generation client for the given provider.
func New(provider, baseURL, apiKey, model string, opts ...Option) *Client {
	c := &Client{
		provider:    provider,
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		maxTokens:   1500,
		temperature: 0.7,
		http:        xhttp.NewClient(xhttp.WithTimeout(60 * time.Second)),
		log:         logger.NewNop(),
	}
	if c.provider == "" {
		c.provider = ProviderNone
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a real provider is wired.
func (c *Client) Configured() bool {
	return c.provider != ProviderNone && c.apiKey != ""
}

// Generate sends one system+user prompt pair and returns the reply text.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.Configured() {
		return "", domservice.ErrNotConfigured
	}

	start := time.Now()
	var (
		reply string
		err   error
	)
	switch c.provider {
	case ProviderOpenAI:
		reply, err = c.generateOpenAI(ctx, systemPrompt, userPrompt)
	case ProviderAnthropic:
		reply, err = c.generateAnthropic(ctx, systemPrompt, userPrompt)
	default:
		return "", domservice.ErrNotConfigured
	}
	if err != nil {
		c.log.Warn("text generation failed",
			logger.String("provider", c.provider),
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(err))
		return "", err
	}

	c.log.Debug("text generation completed",
		logger.String("provider", c.provider),
		logger.String("model", c.model),
		logger.Duration("elapsed", time.Since(start)))
	return reply, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (c *Client) generateOpenAI(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	var resp chatResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/chat/completions",
		Headers: map[string]string{
			"Authorization": "Bearer " + c.apiKey,
			"Content-Type":  "application/json",
		},
		Body: req,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("chat completion: %s (%s)", resp.Error.Message, resp.Error.Type)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

type anthropicRequest struct {
	Model     string        `json:"model"`
	System    string        `json:"system,omitempty"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *Client) generateAnthropic(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := anthropicRequest{
		Model:     c.model,
		System:    systemPrompt,
		Messages:  []chatMessage{{Role: "user", Content: userPrompt}},
		MaxTokens: c.maxTokens,
	}

	var resp anthropicResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/v1/messages",
		Headers: map[string]string{
			"x-api-key":         c.apiKey,
			"anthropic-version": "2023-06-01",
			"Content-Type":      "application/json",
		},
		Body: req,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("messages api: %w", err)
	}
	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("messages api: no text block in response")
}
