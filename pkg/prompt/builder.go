// Package prompt turns a Slack thread into Claude Messages API turns.
package prompt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shnish23/slack-sampleapp/pkg/models"
	"golang.org/x/sync/errgroup"
)

const (
	// Placeholder opens a prompt whose thread has no leading user turn
	Placeholder = "----"

	mergeSeparator   = "\n----\n"
	attachmentHeader = "\n[Attachments]\n"
)

// ThreadSource reads thread history and the files shared in it
type ThreadSource interface {
	GetThreadReplies(ctx context.Context, channelID, ts string) ([]models.ThreadMessage, error)
	DownloadFile(ctx context.Context, url string) (string, error)
}

// Builder assembles prompts from Slack threads
type Builder struct {
	source ThreadSource
	logger *slog.Logger
}

// NewBuilder creates a new prompt builder
func NewBuilder(source ThreadSource, logger *slog.Logger) *Builder {
	return &Builder{
		source: source,
		logger: logger,
	}
}

// Build fetches the thread containing the triggering message and converts it to prompt messages.
// Any failed file download fails the whole build.
func (b *Builder) Build(ctx context.Context, channelID, ts, threadTS string) ([]models.PromptMessage, error) {
	targetTS := ts
	if threadTS != "" && threadTS != ts {
		targetTS = threadTS
	}

	thread, err := b.source.GetThreadReplies(ctx, channelID, targetTS)
	if err != nil {
		return nil, fmt.Errorf("get thread: %w", err)
	}
	b.logger.Info("slackThreadSearched", "channel", channelID, "ts", targetTS, "messages", len(thread))

	thread = Trim(thread)

	images, err := b.downloadImages(ctx, thread)
	if err != nil {
		return nil, err
	}

	prompts := Assemble(thread, images)
	b.logger.Info("promptGenerated", "prompts", len(prompts))
	return prompts, nil
}

// downloadImages fetches the first file of every message concurrently.
// The result is indexed like thread; messages without files get "".
func (b *Builder) downloadImages(ctx context.Context, thread []models.ThreadMessage) ([]string, error) {
	images := make([]string, len(thread))

	g, gctx := errgroup.WithContext(ctx)
	for i, msg := range thread {
		if len(msg.Files) == 0 {
			continue
		}
		i, url := i, msg.Files[0].URL
		g.Go(func() error {
			data, err := b.source.DownloadFile(gctx, url)
			if err != nil {
				return fmt.Errorf("download file: %w", err)
			}
			images[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return images, nil
}

// Trim drops a trailing bot reply, which is this bot's own previous answer
func Trim(thread []models.ThreadMessage) []models.ThreadMessage {
	if n := len(thread); n > 0 && thread[n-1].IsBot() {
		return thread[:n-1]
	}
	return thread
}

// Assemble folds a trimmed thread into prompt messages.
// images[i] holds the base64 data for thread[i]'s first file, if any.
func Assemble(thread []models.ThreadMessage, images []string) []models.PromptMessage {
	var prompts []models.PromptMessage
	if len(thread) == 0 || thread[0].IsBot() {
		prompts = append(prompts, models.PromptMessage{Role: models.RoleUser, Text: Placeholder})
	}

	for i, msg := range thread {
		var image string
		if i < len(images) {
			image = images[i]
		}
		prompts = appendMessage(prompts, msg, image)
	}

	return prompts
}

func appendMessage(prompts []models.PromptMessage, msg models.ThreadMessage, image string) []models.PromptMessage {
	role := msg.Role()
	content := messageContent(msg)

	if n := len(prompts); n > 0 && prompts[n-1].Role == role {
		prompts[n-1] = merge(prompts[n-1], content)
	} else {
		prompts = append(prompts, models.PromptMessage{Role: role, Text: content})
	}

	// only the first file of a message is sent
	if len(msg.Files) > 0 {
		last := &prompts[len(prompts)-1]
		last.Text = ""
		last.Blocks = []models.ContentBlock{
			models.NewImageBlock(msg.Files[0].MimeType, image),
			models.NewTextBlock(content),
		}
	}

	return prompts
}

func merge(prev models.PromptMessage, content string) models.PromptMessage {
	if !prev.IsStructured() {
		prev.Text += mergeSeparator + content
		return prev
	}

	blocks := make([]models.ContentBlock, len(prev.Blocks))
	copy(blocks, prev.Blocks)
	for i := len(blocks) - 1; i >= 0; i-- {
		if blocks[i].Type == "text" {
			blocks[i].Text += mergeSeparator + content
			prev.Blocks = blocks
			return prev
		}
	}
	prev.Blocks = append(blocks, models.NewTextBlock(content))
	return prev
}

func messageContent(msg models.ThreadMessage) string {
	if len(msg.Attachments) == 0 {
		return msg.Text
	}

	parts := make([]string, len(msg.Attachments))
	for i, att := range msg.Attachments {
		parts[i] = attachmentHeader + string(att)
	}
	return msg.Text + strings.Join(parts, "\n")
}
