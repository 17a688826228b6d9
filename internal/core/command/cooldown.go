package command

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// BucketType selects the key a cooldown window is scoped to.
type BucketType int

const (
	BucketGlobal BucketType = iota
	BucketUser
	BucketChannel
	BucketGuild
	BucketCustom
)

func (b BucketType) String() string {
	switch b {
	case BucketGlobal:
		return "global"
	case BucketUser:
		return "user"
	case BucketChannel:
		return "channel"
	case BucketGuild:
		return "guild"
	case BucketCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Key derives the bucket key for a context. Custom buckets are keyed by the
// rule's own key function.
func (b BucketType) Key(c *Context) string {
	switch b {
	case BucketUser:
		return c.Message.Author.ID
	case BucketChannel:
		return c.Message.Channel.ID
	case BucketGuild:
		return c.Message.Guild.ID
	default:
		return ""
	}
}

// Cooldown is a token-bucket rate limit owned by a single command: at most
// Rate invocations per rolling window of width Per, tracked independently per
// bucket key.
type Cooldown struct {
	Rate   int
	Per    time.Duration
	Bucket BucketType

	keyFunc  func(c *Context) string
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewCooldown(rateN int, per time.Duration, bucket BucketType) *Cooldown {
	return &Cooldown{
		Rate:     rateN,
		Per:      per,
		Bucket:   bucket,
		limiters: make(map[string]*rate.Limiter),
	}
}

// NewCustomCooldown builds a cooldown keyed by an arbitrary function of the
// context.
func NewCustomCooldown(rateN int, per time.Duration, keyFunc func(c *Context) string) *Cooldown {
	c := NewCooldown(rateN, per, BucketCustom)
	c.keyFunc = keyFunc
	return c
}

func (c *Cooldown) key(ctx *Context) string {
	if c.Bucket == BucketCustom && c.keyFunc != nil {
		return c.keyFunc(ctx)
	}
	return c.Bucket.Key(ctx)
}

// Reserve atomically checks and consumes one token from the context's bucket.
// When the bucket is exhausted it consumes nothing and reports the time until
// the next token becomes available.
func (c *Cooldown) Reserve(ctx *Context) (retryAfter time.Duration, ok bool) {
	key := c.key(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	lim, found := c.limiters[key]
	if !found {
		lim = rate.NewLimiter(rate.Limit(float64(c.Rate)/c.Per.Seconds()), c.Rate)
		c.limiters[key] = lim
	}

	r := lim.Reserve()
	if !r.OK() {
		return c.Per, false
	}
	if delay := r.Delay(); delay > 0 {
		r.Cancel()
		return delay, false
	}
	return 0, true
}

// Reset drops all tracked windows.
func (c *Cooldown) Reset() {
	c.mu.Lock()
	c.limiters = make(map[string]*rate.Limiter)
	c.mu.Unlock()
}
