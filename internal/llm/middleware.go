package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Middleware decorates a Client to inject cross-cutting concerns
// (rate limiting, caching, logging).
type Middleware func(Client) Client

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner Client, mws ...Middleware) Client {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Logging --------

// WithLogging logs request size and errors, attributed to the pipeline stage
// carried in the context. Provide a custom logger or nil for log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next Client) Client {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next Client
	log  *log.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) Generate(ctx context.Context, msgs []Message) (string, error) {
	size := 0
	for _, m := range msgs {
		size += len(m.Content)
	}
	l.log.Printf("LLM request (%s): %d turns, %d bytes", StageFrom(ctx), len(msgs), size)
	text, err := l.next.Generate(ctx, msgs)
	if err != nil {
		l.log.Printf("LLM error (%s): %v", StageFrom(ctx), err)
	}
	return text, err
}

// -------- Response cache --------

// WithCache memoizes responses in an expirable LRU keyed by the client name
// and the full message list. Failed generations are never cached.
func WithCache(size int, ttl time.Duration) Middleware {
	if size <= 0 {
		size = 128
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return func(next Client) Client {
		return &cached{
			next: next,
			lru:  expirable.NewLRU[string, string](size, nil, ttl),
		}
	}
}

type cached struct {
	next Client
	lru  *expirable.LRU[string, string]
}

func (c *cached) Name() string { return c.next.Name() }
func (c *cached) Close() error { return c.next.Close() }

func (c *cached) Generate(ctx context.Context, msgs []Message) (string, error) {
	key := cacheKey(c.next.Name(), msgs)
	if text, ok := c.lru.Get(key); ok {
		return text, nil
	}
	text, err := c.next.Generate(ctx, msgs)
	if err != nil {
		return "", err
	}
	c.lru.Add(key, text)
	return text, nil
}

func cacheKey(name string, msgs []Message) string {
	h := sha256.New()
	h.Write([]byte(name))
	for _, m := range msgs {
		h.Write([]byte{0})
		h.Write([]byte(m.Role))
		h.Write([]byte{0})
		h.Write([]byte(m.Content))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// -------- Rate limiting --------

// RateLimit throttles Generate calls to at most rps requests per second with
// the given burst capacity. If rps <= 0 the limiter is disabled.
func RateLimit(rps float64, burst int) Middleware {
	return func(next Client) Client {
		return &rateLimited{next: next, rl: newRPSLimiter(rps, burst)}
	}
}

type rateLimited struct {
	next Client
	rl   *rpsLimiter
}

func (r *rateLimited) Name() string { return r.next.Name() }
func (r *rateLimited) Close() error {
	r.rl.Stop()
	return r.next.Close()
}

func (r *rateLimited) Generate(ctx context.Context, msgs []Message) (string, error) {
	if err := r.rl.Acquire(ctx); err != nil {
		return "", err
	}
	return r.next.Generate(ctx, msgs)
}
