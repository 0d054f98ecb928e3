package formatter

import (
	"math"
	"strings"
	"testing"

	"github.com/shnish23/slack-sampleapp/pkg/models"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCost(t *testing.T) {
	tests := []struct {
		name  string
		usage models.Usage
		want  float64
	}{
		{"zero usage", models.Usage{}, 0},
		{"thousand each", models.Usage{InputTokens: 1000, OutputTokens: 1000}, 0.018},
		{"input only", models.Usage{InputTokens: 2500}, 0.0075},
		{"output only", models.Usage{OutputTokens: 200}, 0.003},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cost(tt.usage)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Cost() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUsageText(t *testing.T) {
	got := UsageText(models.Usage{InputTokens: 1000, OutputTokens: 1000})
	want := "Input tokens: 1000, Output tokens: 1000, Estimated cost: $0.0180"
	if got != want {
		t.Errorf("UsageText() = %q, want %q", got, want)
	}
}

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		name string
		text string
		size int
		want []string
	}{
		{"empty", "", 3, []string{}},
		{"shorter than size", "ab", 3, []string{"ab"}},
		{"exact multiple", "abcdef", 3, []string{"abc", "def"}},
		{"remainder", "abcdefg", 3, []string{"abc", "def", "g"}},
		{"multibyte characters", "こんにちは", 2, []string{"こん", "にち", "は"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitChunks(tt.text, tt.size))
		})
	}
}

func TestBlocks(t *testing.T) {
	text := strings.Repeat("a", ChunkSize) + strings.Repeat("b", ChunkSize) + "c"
	usage := models.Usage{InputTokens: 10, OutputTokens: 20}

	blocks := Blocks(text, usage)

	// ceil(6001/3000) sections plus one context block
	require.Len(t, blocks, 4)
	wantSections := []string{strings.Repeat("a", ChunkSize), strings.Repeat("b", ChunkSize), "c"}
	for i, want := range wantSections {
		section, ok := blocks[i].(*slack.SectionBlock)
		require.True(t, ok, "block %d is %T, want *slack.SectionBlock", i, blocks[i])
		assert.Equal(t, slack.MarkdownType, section.Text.Type)
		assert.Equal(t, want, section.Text.Text)
	}

	context, ok := blocks[3].(*slack.ContextBlock)
	require.True(t, ok, "last block is %T, want *slack.ContextBlock", blocks[3])
	require.Len(t, context.ContextElements.Elements, 1)
	element, ok := context.ContextElements.Elements[0].(*slack.TextBlockObject)
	require.True(t, ok)
	assert.Equal(t, UsageText(usage), element.Text)
}

func TestBlocksShortText(t *testing.T) {
	blocks := Blocks("hello", models.Usage{})
	require.Len(t, blocks, 2)
	assert.Equal(t, slack.MBTSection, blocks[0].BlockType())
	assert.Equal(t, slack.MBTContext, blocks[1].BlockType())
}

func TestFallbackText(t *testing.T) {
	assert.Equal(t, "", FallbackText(""))
	assert.Equal(t, "short answer", FallbackText("short answer"))

	long := strings.Repeat("x", 5000)
	assert.Equal(t, strings.Repeat("x", FallbackSize), FallbackText(long))

	multibyte := strings.Repeat("あ", 2900)
	assert.Equal(t, strings.Repeat("あ", FallbackSize), FallbackText(multibyte))
}
