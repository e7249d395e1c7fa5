package ai

import (
	"context"
	"time"
)

// RetryPolicy retries transient embed/generate failures at the boundary.
// Core retrieval code never retries on its own.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration // doubled after each failed attempt
}

func NewRetryPolicy(maxAttempts int, backoff time.Duration) RetryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	return RetryPolicy{MaxAttempts: maxAttempts, Backoff: backoff}
}

func (p RetryPolicy) do(ctx context.Context, fn func() error) error {
	var err error
	backoff := p.Backoff
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == p.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}

// RetryingEmbedder wraps an Embedder with a RetryPolicy.
type RetryingEmbedder struct {
	Inner  Embedder
	Policy RetryPolicy
}

func (r *RetryingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var vec []float32
	err := r.Policy.do(ctx, func() error {
		var innerErr error
		vec, innerErr = r.Inner.Embed(ctx, text)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return vec, nil
}

// RetryingGenerator wraps a Generator with a RetryPolicy.
type RetryingGenerator struct {
	Inner  Generator
	Policy RetryPolicy
}

func (r *RetryingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var out string
	err := r.Policy.do(ctx, func() error {
		var innerErr error
		out, innerErr = r.Inner.Generate(ctx, prompt)
		return innerErr
	})
	if err != nil {
		return "", err
	}
	return out, nil
}
