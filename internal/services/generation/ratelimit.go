package generation

import (
	"context"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/time/rate"
)

// rateLimitedClient wraps a MessagesClient and enforces a minimum interval
// between outbound API calls.
type rateLimitedClient struct {
	inner   MessagesClient
	limiter *rate.Limiter
}

func newRateLimitedClient(inner MessagesClient, interval time.Duration) MessagesClient {
	if interval <= 0 {
		return inner
	}
	return &rateLimitedClient{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (c *rateLimitedClient) New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.inner.New(ctx, body, opts...)
}
