package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"wikiquiz/internal/domain"
	"wikiquiz/internal/logger"
)

const maxAttempts = 3

// retryDelays is the per-attempt backoff schedule for rate-limit errors.
var retryDelays = []time.Duration{
	15 * time.Second,
	30 * time.Second,
	60 * time.Second,
}

// rateLimitIndicators mark an error as provider-side throttling.
var rateLimitIndicators = []string{
	"429",
	"quota",
	"rate",
	"resource_exhausted",
	"too many",
}

// Caller invokes the completion service with bounded retry on rate-limit
// errors. It is the only component performing network I/O to the model
// provider.
type Caller struct {
	completer Completer
	sleep     func(time.Duration)
}

// NewCaller creates a Caller around the given completion client.
func NewCaller(completer Completer) *Caller {
	return &Caller{
		completer: completer,
		sleep:     time.Sleep,
	}
}

// Call invokes the model with prompt. The label identifies the call in
// logs and error messages ("Quiz", "Entities"). Blank responses are
// retried without delay; rate-limit errors are retried after the
// scheduled delay; any other error is fatal immediately.
func (c *Caller) Call(ctx context.Context, prompt, label string) (string, error) {
	l := logger.Get()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		text, err := c.completer.Complete(ctx, prompt)
		if err != nil {
			if isRateLimitError(err) && attempt < maxAttempts-1 {
				delay := retryDelays[attempt]
				l.Warn("Model call rate-limited, retrying",
					zap.String("label", label),
					zap.Int("attempt", attempt+1),
					zap.Duration("delay", delay),
					zap.Error(err),
				)
				c.sleep(delay)
				continue
			}
			return "", domain.NewModelCallError(
				fmt.Sprintf("%s model call failed", label), err)
		}

		if strings.TrimSpace(text) == "" {
			l.Warn("Model returned an empty response, retrying",
				zap.String("label", label),
				zap.Int("attempt", attempt+1),
			)
			continue
		}

		return text, nil
	}

	return "", domain.NewModelCallError(
		fmt.Sprintf("%s model call produced no usable response after %d attempts", label, maxAttempts), nil)
}

func isRateLimitError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, indicator := range rateLimitIndicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
