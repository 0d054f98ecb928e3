package slack

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shnish23/slack-sampleapp/pkg/models"
	"github.com/slack-go/slack"
)

// FetchError reports a failed file download
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client wraps the Slack SDK client for use throughout the application
type Client struct {
	client *slack.Client
	logger *slog.Logger
}

// NewClient creates a new Slack client with bot token.
// The token also authenticates file downloads.
func NewClient(botToken string, logger *slog.Logger, opts ...slack.Option) *Client {
	return &Client{
		client: slack.New(botToken, opts...),
		logger: logger,
	}
}

// PostMessage posts a plain text message into a thread and returns its timestamp
func (c *Client) PostMessage(ctx context.Context, channelID, threadTS, text string) (string, error) {
	_, timestamp, err := c.client.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(threadTS),
	)
	if err != nil {
		return "", fmt.Errorf("post message: %w", err)
	}

	return timestamp, nil
}

// UpdateText replaces the text of an existing message
func (c *Client) UpdateText(ctx context.Context, channelID, ts, text string) error {
	_, _, _, err := c.client.UpdateMessageContext(ctx, channelID, ts, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("update message: %w", err)
	}

	return nil
}

// UpdateBlocks replaces an existing message with Block Kit content.
// fallback is shown by clients that cannot render blocks.
func (c *Client) UpdateBlocks(ctx context.Context, channelID, ts string, blocks []slack.Block, fallback string) error {
	_, _, _, err := c.client.UpdateMessageContext(ctx, channelID, ts,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fallback, false),
	)
	if err != nil {
		return fmt.Errorf("update message blocks: %w", err)
	}

	return nil
}

// GetThreadReplies returns every message of the thread rooted at ts, oldest first
func (c *Client) GetThreadReplies(ctx context.Context, channelID, ts string) ([]models.ThreadMessage, error) {
	var thread []models.ThreadMessage

	params := &slack.GetConversationRepliesParameters{
		ChannelID: channelID,
		Timestamp: ts,
	}
	for {
		msgs, hasMore, nextCursor, err := c.client.GetConversationRepliesContext(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("get conversation replies: %w", err)
		}

		for _, msg := range msgs {
			tm, err := toThreadMessage(msg)
			if err != nil {
				return nil, err
			}
			thread = append(thread, tm)
		}

		if !hasMore || nextCursor == "" {
			break
		}
		params.Cursor = nextCursor
	}

	return thread, nil
}

// DownloadFile fetches a private file and returns it base64 encoded
func (c *Client) DownloadFile(ctx context.Context, url string) (string, error) {
	var buf bytes.Buffer
	if err := c.client.GetFileContext(ctx, url, &buf); err != nil {
		c.logger.Error("Error fetching file", "url", url, "error", err)
		return "", &FetchError{URL: url, Err: err}
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func toThreadMessage(msg slack.Message) (models.ThreadMessage, error) {
	tm := models.ThreadMessage{
		BotID: msg.BotID,
		Text:  msg.Text,
	}

	for _, att := range msg.Attachments {
		raw, err := attachmentJSON(att)
		if err != nil {
			return models.ThreadMessage{}, err
		}
		tm.Attachments = append(tm.Attachments, raw)
	}

	for _, f := range msg.Files {
		tm.Files = append(tm.Files, models.FileRef{
			URL:      f.URLPrivate,
			MimeType: f.Mimetype,
		})
	}

	return tm, nil
}

// attachmentJSON serializes an attachment without the null fields the SDK
// adds for parts Slack did not send
func attachmentJSON(att slack.Attachment) (json.RawMessage, error) {
	raw, err := json.Marshal(att)
	if err != nil {
		return nil, fmt.Errorf("marshal attachment: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal attachment: %w", err)
	}
	for k, v := range fields {
		if string(v) == "null" {
			delete(fields, k)
		}
	}

	raw, err = json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal attachment: %w", err)
	}
	return raw, nil
}
