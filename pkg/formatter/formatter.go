// Package formatter renders model answers as Slack Block Kit messages.
package formatter

import (
	"fmt"

	"github.com/shnish23/slack-sampleapp/pkg/models"
	"github.com/slack-go/slack"
)

const (
	// ChunkSize is the largest text Slack accepts in one section block
	ChunkSize = 3000

	// FallbackSize bounds the plain text notification copy
	FallbackSize = 2800

	// Claude 3 Sonnet on-demand prices in USD
	InputPricePer1000  = 0.003
	OutputPricePer1000 = 0.015
)

// Cost returns the estimated price of a call in USD
func Cost(usage models.Usage) float64 {
	inputCost := float64(usage.InputTokens) / 1000 * InputPricePer1000
	outputCost := float64(usage.OutputTokens) / 1000 * OutputPricePer1000
	return inputCost + outputCost
}

// SplitChunks splits text into pieces of at most size characters, in order
func SplitChunks(text string, size int) []string {
	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for i := 0; i < len(runes); i += size {
		end := min(i+size, len(runes))
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// UsageText describes token counts and estimated cost
func UsageText(usage models.Usage) string {
	return fmt.Sprintf("Input tokens: %d, Output tokens: %d, Estimated cost: $%.4f",
		usage.InputTokens, usage.OutputTokens, Cost(usage))
}

// Blocks builds one section per chunk of text followed by a usage context block
func Blocks(text string, usage models.Usage) []slack.Block {
	chunks := SplitChunks(text, ChunkSize)
	blocks := make([]slack.Block, 0, len(chunks)+1)
	for _, chunk := range chunks {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, chunk, false, false), nil, nil,
		))
	}

	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType, UsageText(usage), false, false),
	))
	return blocks
}

// FallbackText is the notification text for clients that cannot render blocks
func FallbackText(text string) string {
	chunks := SplitChunks(text, ChunkSize)
	if len(chunks) == 0 {
		return ""
	}
	if first := []rune(chunks[0]); len(first) > FallbackSize {
		return string(first[:FallbackSize])
	}
	return chunks[0]
}
