// Package ai wraps the external text-generation capability used for
// semantic similarity scoring and explanation repair.
//
// The package models the provider as a narrow capability: given a prompt
// and generation parameters, return a completion or a classified error.
// Rate-limit errors are distinguishable (ErrRateLimited) because callers
// treat them differently from every other failure: a batch similarity scan
// aborts on the first rate limit instead of burning the rest of its calls.
package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/semaphore"
)

// Model constants. Similarity scoring is a simple judgment task, so the
// default is the cost-efficient model; explanation repair defaults to the
// stronger one.
const (
	// ModelDefault is used for generation-quality tasks.
	ModelDefault = "claude-sonnet-4-5-20250929"

	// ModelScoring is the cost-efficient model used for similarity scores.
	ModelScoring = "claude-3-5-haiku-20241022"
)

// GetDefaultModel returns the generation model, honoring the
// QPOOL_MODEL_DEFAULT override.
func GetDefaultModel() string {
	if model := os.Getenv("QPOOL_MODEL_DEFAULT"); model != "" {
		return model
	}
	return ModelDefault
}

// GetScoringModel returns the scoring model, honoring the
// QPOOL_MODEL_SCORING override.
func GetScoringModel() string {
	if model := os.Getenv("QPOOL_MODEL_SCORING"); model != "" {
		return model
	}
	return ModelScoring
}

// Completer is the capability interface core packages depend on. The
// concrete Client implements it; tests substitute a stub.
type Completer interface {
	// Complete makes a single completion call with no internal retry.
	// Errors are classified: rate limits satisfy IsRateLimit.
	Complete(ctx context.Context, prompt string, operation string, maxTokens int) (string, error)

	// CompleteWithRetry retries transient failures with exponential
	// backoff. Used for operations where waiting out a rate limit is
	// preferable to aborting (explanation repair).
	CompleteWithRetry(ctx context.Context, prompt string, operation string, maxTokens int) (string, error)
}

// Client is the Anthropic-backed Completer.
type Client struct {
	client         *anthropic.Client
	model          string
	retry          RetryConfig
	circuitBreaker *CircuitBreaker
	concurrencySem *semaphore.Weighted
}

// Compile-time check that Client implements Completer.
var _ Completer = (*Client)(nil)

// Config holds client configuration.
type Config struct {
	APIKey string      // Anthropic API key (if empty, reads ANTHROPIC_API_KEY)
	Model  string      // Model to use (default: scoring model)
	Retry  RetryConfig // Retry configuration (defaults if zero)
}

// NewClient creates a client for the external text-generation service.
func NewClient(cfg *Config) (*Client, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
	}

	model := cfg.Model
	if model == "" {
		model = GetScoringModel()
	}

	retry := cfg.Retry
	if retry.MaxRetries == 0 {
		retry = DefaultRetryConfig()
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	var circuitBreaker *CircuitBreaker
	if retry.CircuitBreakerEnabled {
		circuitBreaker = NewCircuitBreaker(retry.FailureThreshold, retry.SuccessThreshold, retry.OpenTimeout)
	}

	var concurrencySem *semaphore.Weighted
	if retry.MaxConcurrentCalls > 0 {
		concurrencySem = semaphore.NewWeighted(int64(retry.MaxConcurrentCalls))
	}

	return &Client{
		client:         &client,
		model:          model,
		retry:          retry,
		circuitBreaker: circuitBreaker,
		concurrencySem: concurrencySem,
	}, nil
}

// Complete implements Completer. One attempt, classified error.
func (c *Client) Complete(ctx context.Context, prompt string, operation string, maxTokens int) (string, error) {
	if c.concurrencySem != nil {
		if err := c.concurrencySem.Acquire(ctx, 1); err != nil {
			return "", fmt.Errorf("acquire concurrency slot for %s: %w", operation, err)
		}
		defer c.concurrencySem.Release(1)
	}

	if c.circuitBreaker != nil {
		if err := c.circuitBreaker.Allow(); err != nil {
			return "", fmt.Errorf("%s blocked: %w", operation, err)
		}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.retry.Timeout)
	defer cancel()

	text, err := c.callOnce(attemptCtx, prompt, operation, maxTokens)
	if err != nil {
		if c.circuitBreaker != nil && isRetriableError(err) {
			c.circuitBreaker.RecordFailure()
		}
		return "", classify(err)
	}
	if c.circuitBreaker != nil {
		c.circuitBreaker.RecordSuccess()
	}
	return text, nil
}

// CompleteWithRetry implements Completer with backoff on transient errors.
func (c *Client) CompleteWithRetry(ctx context.Context, prompt string, operation string, maxTokens int) (string, error) {
	var responseText string
	err := c.retryWithBackoff(ctx, operation, func(attemptCtx context.Context) error {
		text, callErr := c.callOnce(attemptCtx, prompt, operation, maxTokens)
		if callErr != nil {
			return callErr
		}
		responseText = text
		return nil
	})
	if err != nil {
		return "", classify(err)
	}
	return responseText, nil
}

// callOnce performs one Messages API request and concatenates text blocks.
func (c *Client) callOnce(ctx context.Context, prompt string, operation string, maxTokens int) (string, error) {
	startTime := time.Now()

	if maxTokens == 0 {
		maxTokens = 1024
	}

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var responseText string
	for _, block := range resp.Content {
		if block.Type == "text" {
			responseText += block.Text
		}
	}

	fmt.Printf("AI %s call: input=%d tokens, output=%d tokens, duration=%v\n",
		operation, resp.Usage.InputTokens, resp.Usage.OutputTokens, time.Since(startTime))

	return responseText, nil
}
