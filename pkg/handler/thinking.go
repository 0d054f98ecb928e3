package handler

import (
	"context"
	"log/slog"
	"time"
)

const thinkingMarker = "..."

// startThinking grows the placeholder text every interval so the user sees progress.
// The returned stop func cancels the refresher and waits for it to exit, so no
// update can land after the final answer.
func (h *Handler) startThinking(ctx context.Context, logger *slog.Logger, channelID, ts string) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)

		ticker := time.NewTicker(h.thinkingInterval)
		defer ticker.Stop()

		text := h.cfg.ThinkingText
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				text += thinkingMarker
				if err := h.slack.UpdateText(ctx, channelID, ts, text); err != nil && ctx.Err() == nil {
					logger.Warn("Failed to update thinking message", "channel", channelID, "ts", ts, "error", err)
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
