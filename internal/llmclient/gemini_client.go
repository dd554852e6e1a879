// File: internal/llmclient/gemini_client.go

// Package llmclient wraps the hosted Gemini models behind a small text and
// vision interface with rate limiting and bounded retries.
package llmclient

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/xkilldash9x/trackscope-cli/internal/config"
)

// Client is the surface the analysis collaborators consume.
type Client interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	GenerateVision(ctx context.Context, systemPrompt, userPrompt string, imageDataURL string) (string, error)
}

// GeminiClient implements Client on the Gemini API.
type GeminiClient struct {
	client  *genai.Client
	cfg     config.LLMConfig
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewGeminiClient initializes the client. The API key is required; callers
// check LLMConfig.Configured before any browser work starts so a missing key
// fails fast.
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	rpm := cfg.RequestsPerMin
	if rpm <= 0 {
		rpm = 30
	}

	return &GeminiClient{
		client:  client,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		logger:  logger.Named("llm_client.gemini"),
	}, nil
}

// GenerateText runs a text-only generation against the configured text model.
func (c *GeminiClient) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(userPrompt, genai.RoleUser),
	}
	return c.generate(ctx, c.cfg.TextModel, contents, systemPrompt)
}

// GenerateVision runs a generation with an attached screenshot against the
// configured vision model. The screenshot arrives as a data URL.
func (c *GeminiClient) GenerateVision(ctx context.Context, systemPrompt, userPrompt string, imageDataURL string) (string, error) {
	imageBytes, mimeType, err := DecodeDataURL(imageDataURL)
	if err != nil {
		return "", fmt.Errorf("invalid screenshot payload: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(imageBytes, mimeType),
		genai.NewPartFromText(userPrompt),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	return c.generate(ctx, c.cfg.VisionModel, contents, systemPrompt)
}

func (c *GeminiClient) generate(ctx context.Context, model string, contents []*genai.Content, systemPrompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait aborted: %w", err)
	}

	temperature := c.cfg.Temperature
	genConfig := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(c.cfg.MaxTokens),
	}
	if systemPrompt != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.cfg.MaxRetryElapsed
	b.MaxInterval = c.cfg.MaxRetryInterval

	var responseText string

	operation := func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.APITimeout)
		defer cancel()

		startTime := time.Now()
		resp, err := c.client.Models.GenerateContent(callCtx, model, contents, genConfig)
		duration := time.Since(startTime)

		if err != nil {
			return c.classifyError(err)
		}

		text := resp.Text()
		if strings.TrimSpace(text) == "" {
			return backoff.Permanent(fmt.Errorf("gemini returned an empty response"))
		}

		c.logger.Debug("LLM generation complete.",
			zap.String("model", model),
			zap.Duration("duration", duration),
			zap.Int("response_chars", len(text)))

		responseText = text
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", err
	}
	return responseText, nil
}

// classifyError decides retryability: rate limits, 5xx, and network errors
// retry; auth and bad-request errors propagate immediately.
func (c *GeminiClient) classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 500, 503:
			c.logger.Warn("Transient LLM API error, retrying.",
				zap.Int("code", apiErr.Code), zap.String("status", apiErr.Status))
			return fmt.Errorf("gemini API error %d: %s", apiErr.Code, apiErr.Message)
		default:
			return backoff.Permanent(fmt.Errorf("gemini API error %d: %s", apiErr.Code, apiErr.Message))
		}
	}
	if errors.Is(err, context.Canceled) {
		return backoff.Permanent(err)
	}
	// Network-class failure.
	c.logger.Warn("Network error during LLM request, retrying.", zap.Error(err))
	return err
}

// DecodeDataURL splits a base64 data URL into raw bytes and its MIME type.
func DecodeDataURL(dataURL string) ([]byte, string, error) {
	rest, found := strings.CutPrefix(dataURL, "data:")
	if !found {
		return nil, "", fmt.Errorf("not a data URL")
	}
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return nil, "", fmt.Errorf("malformed data URL")
	}
	mimeType, _, _ := strings.Cut(meta, ";")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode data URL payload: %w", err)
	}
	return raw, mimeType, nil
}
