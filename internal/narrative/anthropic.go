package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"go.uber.org/zap"
)

const systemPrompt = "You narrate turn-based tabletop combat. " +
	"Given the mechanical outcome of one attack, respond with one or two vivid " +
	"sentences of third-person prose. Never change the facts: who acted, who was " +
	"hit, how much damage was dealt, and whether the target fell."

// AnthropicNarrator narrates combat events with the Anthropic Messages API.
type AnthropicNarrator struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
	timeout   time.Duration
	logger    *zap.Logger
}

// NewAnthropicNarrator creates a narrator backed by the Anthropic API. The
// client reads ANTHROPIC_API_KEY from the environment.
//
// Precondition: model must be non-empty; maxTokens >= 1; timeout > 0.
func NewAnthropicNarrator(model string, maxTokens int, timeout time.Duration, logger *zap.Logger) *AnthropicNarrator {
	return &AnthropicNarrator{
		client:    anthropic.NewClient(),
		model:     anthropic.Model(model),
		maxTokens: int64(maxTokens),
		timeout:   timeout,
		logger:    logger,
	}
}

// Narrate asks the model for prose describing the event. The request is
// bounded by the configured timeout.
//
// Postcondition: Returns non-empty prose or a non-nil error.
func (a *AnthropicNarrator) Narrate(ctx context.Context, event Event) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(event))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("narrating event: %w", err)
	}

	var b strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	prose := strings.TrimSpace(b.String())
	if prose == "" {
		return "", errors.New("narrative: model returned no text")
	}

	a.logger.Debug("narration generated",
		zap.String("actor", event.Actor),
		zap.String("target", event.Target),
		zap.Duration("elapsed", time.Since(start)),
	)
	return prose, nil
}

// buildPrompt serializes the mechanical outcome for the model.
func buildPrompt(event Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Round %d. %s attacks %s. ", event.Round, event.Actor, event.Target)
	switch {
	case !event.Hit:
		b.WriteString("The attack misses.")
	case event.Critical:
		fmt.Fprintf(&b, "Critical hit for %d damage.", event.Damage)
	default:
		fmt.Fprintf(&b, "Hit for %d damage.", event.Damage)
	}
	if event.Defeated {
		fmt.Fprintf(&b, " %s is defeated.", event.Target)
	}
	return b.String()
}
