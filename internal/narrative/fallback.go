package narrative

import (
	"context"

	"go.uber.org/zap"
)

// FallbackNarrator tries a primary narrator and falls back to a secondary one
// when the primary fails. Narration is flavor; a degraded narrator must never
// abort an encounter.
type FallbackNarrator struct {
	primary  Narrator
	fallback Narrator
	logger   *zap.Logger
}

// NewFallbackNarrator chains primary and fallback.
//
// Precondition: primary, fallback, and logger must be non-nil.
func NewFallbackNarrator(primary, fallback Narrator, logger *zap.Logger) *FallbackNarrator {
	return &FallbackNarrator{primary: primary, fallback: fallback, logger: logger}
}

// Narrate delegates to the primary narrator, switching to the fallback on error.
func (f *FallbackNarrator) Narrate(ctx context.Context, event Event) (string, error) {
	prose, err := f.primary.Narrate(ctx, event)
	if err == nil {
		return prose, nil
	}
	f.logger.Warn("primary narrator failed, using fallback", zap.Error(err))
	return f.fallback.Narrate(ctx, event)
}
