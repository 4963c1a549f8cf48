package generation

import (
	"context"
	"encoding/json"

	"golang.org/x/time/rate"

	"financeqa/internal/domain"
)

// RateLimitedClient throttles outbound completion calls. The generation
// endpoint is shared across concurrent requests and every question costs two
// calls (extraction + answer), so the limiter guards the upstream quota.
type RateLimitedClient struct {
	inner   domain.GenerationClient
	limiter *rate.Limiter
}

// NewRateLimitedClient wraps inner with a token-bucket limiter of rps
// requests per second and the given burst.
func NewRateLimitedClient(inner domain.GenerationClient, rps float64, burst int) *RateLimitedClient {
	return &RateLimitedClient{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Complete waits for limiter capacity, honoring context cancellation, then
// delegates to the wrapped client.
func (c *RateLimitedClient) Complete(ctx context.Context, messages []domain.Message, schema domain.ResponseSchema) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.inner.Complete(ctx, messages, schema)
}
