package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/report"
	"github.com/kkambbaki/backend/internal/infrastructure/config"
)

// AdviceCount is the number of items a valid response carries
const AdviceCount = 2

// ErrInvalidResponse wraps every parse or shape failure of a completion
var ErrInvalidResponse = errors.New("invalid advice response")

// AdviceItem is one generated recommendation
type AdviceItem struct {
	Title       string
	Description string
}

// AdvisorConfig tunes retries and the circuit breaker
type AdvisorConfig struct {
	MaxRetries       int
	RetryDelay       time.Duration
	BreakerFailures  uint32
	BreakerOpenDelay time.Duration
}

// AdvisorConfigFrom maps the LLM configuration, applying defaults
func AdvisorConfigFrom(cfg *config.LLMConfig) AdvisorConfig {
	ac := AdvisorConfig{
		MaxRetries:       cfg.MaxRetries,
		RetryDelay:       cfg.RetryDelay,
		BreakerOpenDelay: cfg.BreakerOpenDelay,
	}
	if cfg.BreakerFailures > 0 {
		ac.BreakerFailures = uint32(cfg.BreakerFailures)
	}
	return ac.withDefaults()
}

func (c AdvisorConfig) withDefaults() AdvisorConfig {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 5
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = 5
	}
	if c.BreakerOpenDelay <= 0 {
		c.BreakerOpenDelay = time.Minute
	}
	return c
}

// Advisor turns game report statistics into advice.
type Advisor struct {
	client  Client
	cfg     AdvisorConfig
	breaker *gobreaker.CircuitBreaker[string]
	logger  *zap.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewAdvisor wraps the client in a circuit breaker shared by every call
func NewAdvisor(client Client, cfg AdvisorConfig, logger *zap.Logger) *Advisor {
	cfg = cfg.withDefaults()
	a := &Advisor{
		client: client,
		cfg:    cfg,
		logger: logger,
		sleep:  sleepContext,
	}
	a.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "llm-" + client.Provider(),
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenDelay,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("llm circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return a
}

// BreakerState exposes the breaker state for health reporting
func (a *Advisor) BreakerState() gobreaker.State {
	return a.breaker.State()
}

// Generate produces exactly AdviceCount items for the game report.
// recent are the latest results, newest first.
func (a *Advisor) Generate(ctx context.Context, code game.Code, gr *report.GameReport, recent []game.Result) ([]AdviceItem, error) {
	prompt, err := BuildPrompt(code, gr, recent)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= a.cfg.MaxRetries; attempt++ {
		items, err := a.attempt(ctx, prompt)
		if err == nil {
			return items, nil
		}
		lastErr = err
		a.logger.Warn("advice generation attempt failed",
			zap.String("game_code", string(code)),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			break
		}
		if attempt < a.cfg.MaxRetries {
			if err := a.sleep(ctx, a.cfg.RetryDelay); err != nil {
				lastErr = err
				break
			}
		}
	}
	return nil, fmt.Errorf("Advice generation failed after %d attempts: %w", a.cfg.MaxRetries, lastErr)
}

func (a *Advisor) attempt(ctx context.Context, prompt Prompt) ([]AdviceItem, error) {
	// Parse errors count as breaker failures.
	raw, err := a.breaker.Execute(func() (string, error) {
		text, err := a.client.Complete(ctx, prompt)
		if err != nil {
			return "", err
		}
		if _, err := ParseAdvice(text); err != nil {
			return "", err
		}
		return text, nil
	})
	if err != nil {
		return nil, err
	}
	return ParseAdvice(raw)
}

// ParseAdvice extracts the analysis array from a completion.
// Markdown code fences around the JSON are tolerated.
func ParseAdvice(text string) ([]AdviceItem, error) {
	text = stripCodeFence(text)
	if !gjson.Valid(text) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidResponse)
	}
	analysis := gjson.Get(text, "analysis")
	if !analysis.IsArray() {
		return nil, fmt.Errorf("%w: analysis must be a list", ErrInvalidResponse)
	}
	entries := analysis.Array()
	if len(entries) != AdviceCount {
		return nil, fmt.Errorf("%w: expected %d items, got %d", ErrInvalidResponse, AdviceCount, len(entries))
	}

	items := make([]AdviceItem, 0, len(entries))
	for i, entry := range entries {
		title := entry.Get("title")
		description := entry.Get("description")
		if title.Type != gjson.String || description.Type != gjson.String {
			return nil, fmt.Errorf("%w: item %d needs string title and description", ErrInvalidResponse, i)
		}
		items = append(items, AdviceItem{
			Title:       strings.TrimSpace(title.String()),
			Description: strings.TrimSpace(description.String()),
		})
	}
	return items, nil
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
