// FilmKompass - Movie Discovery and Social Lists
// Copyright 2026 FilmKompass Team
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmkompass-team/filmkompass

// Package generation calls the hosted text-generation endpoint (Groq
// chat-completions API) that powers AI recommendations. The endpoint is the
// only outbound dependency of the system and is treated as unreliable: every
// call carries an explicit timeout, outbound QPS is limited, and a circuit
// breaker sheds load while the endpoint is failing. The response is free
// text; making sense of it is the recommendation pipeline's job.
package generation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/filmkompass-team/filmkompass/internal/config"
	"github.com/filmkompass-team/filmkompass/internal/logging"
	"github.com/filmkompass-team/filmkompass/internal/metrics"
)

var (
	// ErrUpstreamUnavailable covers transport failures, non-2xx responses,
	// and an open circuit breaker.
	ErrUpstreamUnavailable = errors.New("generation endpoint unavailable")

	// ErrUpstreamTimeout indicates the round trip exceeded the configured
	// timeout.
	ErrUpstreamTimeout = errors.New("generation request timed out")
)

const breakerName = "groq-api"

// Generator produces free text for a recommendation request.
type Generator interface {
	Generate(ctx context.Context, req *Request) (string, error)
}

// Client is the Groq chat-completions client.
type Client struct {
	cfg     config.GroqConfig
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[string]
	limiter *rate.Limiter
}

// chat-completions wire types. Only the fields this client reads or writes.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewClient creates a generation client from config.
//
// Breaker policy: opens at a 60% failure rate over at least 5 requests,
// waits 30 seconds before probing half-open. Rejected calls surface as
// ErrUpstreamUnavailable without touching the network.
func NewClient(cfg *config.GroqConfig) *Client {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		cfg:     *cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: breaker,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Generate runs one generation round trip and returns the model's raw text.
// There are no retries: a recommendation is interactive and the caller would
// rather get an error than wait through a retry storm.
func (c *Client) Generate(ctx context.Context, req *Request) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.GenerationFailures.WithLabelValues("rate_limited").Inc()
		return "", fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	start := time.Now()
	text, err := c.breaker.Execute(func() (string, error) {
		return c.call(ctx, req)
	})
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		return text, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.GenerationFailures.WithLabelValues("breaker_open").Inc()
		logging.Warn().Err(err).Msg("Generation call rejected by circuit breaker")
		return "", fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	case errors.Is(err, ErrUpstreamTimeout):
		metrics.GenerationFailures.WithLabelValues("timeout").Inc()
		return "", err
	default:
		metrics.GenerationFailures.WithLabelValues("unavailable").Inc()
		return "", err
	}
}

func (c *Client) call(ctx context.Context, req *Request) (string, error) {
	payload := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(req)},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %w", ErrUpstreamTimeout, err)
		}
		return "", fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logging.Warn().
			Int("status", resp.StatusCode).
			Str("body", string(snippet)).
			Msg("Generation endpoint returned error status")
		return "", fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %w", ErrUpstreamUnavailable, err)
	}
	if len(parsed.Choices) == 0 {
		// The original treated a missing choice as an empty array; keep that.
		return "[]", nil
	}
	return parsed.Choices[0].Message.Content, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}
