package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/oklog/ulid/v2"
	"github.com/shnish23/slack-sampleapp/pkg/config"
	"github.com/shnish23/slack-sampleapp/pkg/formatter"
	"github.com/shnish23/slack-sampleapp/pkg/models"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// Slack request headers
const (
	HeaderSignature = "X-Slack-Signature"
	HeaderTimestamp = "X-Slack-Request-Timestamp"
	HeaderRetryNum  = "X-Slack-Retry-Num"
)

// SlackAPI defines the Slack operations the handler needs
type SlackAPI interface {
	PostMessage(ctx context.Context, channelID, threadTS, text string) (string, error)
	UpdateText(ctx context.Context, channelID, ts, text string) error
	UpdateBlocks(ctx context.Context, channelID, ts string, blocks []slack.Block, fallback string) error
}

// PromptBuilder turns the thread around an event into a prompt
type PromptBuilder interface {
	Build(ctx context.Context, channelID, ts, threadTS string) ([]models.PromptMessage, error)
}

// ModelInvoker generates an answer for a prompt. It never fails; errors become fallback text.
type ModelInvoker interface {
	Invoke(ctx context.Context, prompts []models.PromptMessage) models.ModelResult
}

// Handler handles Slack Events API deliveries arriving through API Gateway
type Handler struct {
	cfg              config.Config
	slack            SlackAPI
	prompts          PromptBuilder
	model            ModelInvoker
	logger           *slog.Logger
	thinkingInterval time.Duration
}

// New creates a new event handler
func New(cfg config.Config, slackAPI SlackAPI, prompts PromptBuilder, model ModelInvoker, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:              cfg,
		slack:            slackAPI,
		prompts:          prompts,
		model:            model,
		logger:           logger,
		thinkingInterval: cfg.GetThinkingInterval(),
	}
}

// Handle is the Lambda entry point for a single Slack event
func (h *Handler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := h.logger.With("invocation_id", ulid.Make().String())

	body, err := requestBody(request)
	if err != nil {
		logger.Error("Verification failed", "error", err)
		return verificationFailed(), nil
	}

	if !ValidateSlackRequest(
		body,
		header(request.Headers, HeaderTimestamp),
		header(request.Headers, HeaderSignature),
		h.cfg.SlackSigningSecret,
	) {
		logger.Error("Verification failed", "timestamp", header(request.Headers, HeaderTimestamp))
		return verificationFailed(), nil
	}

	var callback models.SlackEventCallback
	if err := json.Unmarshal(body, &callback); err != nil {
		logger.Error("Failed to parse Slack event", "error", err)
		return badRequest("Invalid event format"), nil
	}

	// Handle URL verification challenge
	if callback.Type == slackevents.URLVerification {
		logger.Info("Responding to Slack URL verification challenge")
		return challengeResponse(callback.Challenge), nil
	}

	// Slack redelivers when we take longer than 3 seconds; the first delivery is still running
	if retry := header(request.Headers, HeaderRetryNum); retry != "" {
		logger.Info("Ignoring retry delivery", "retry_num", retry)
		return okResponse(), nil
	}

	event := callback.Event
	logger.Info("slackMentionReceived",
		"type", event.Type,
		"channel", event.Channel,
		"ts", event.TS,
		"thread_ts", event.ThreadTS,
		"user", event.User,
	)

	if event.IsBotAuthored() {
		return okResponse(), nil
	}

	if event.Channel == "" || event.TS == "" {
		logger.Info("Ignoring event without a message", "type", callback.Type)
		return okResponse(), nil
	}

	if err := h.respond(ctx, logger, event); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	return okResponse(), nil
}

// respond posts a placeholder, generates the answer and replaces the placeholder with it
func (h *Handler) respond(ctx context.Context, logger *slog.Logger, event models.SlackEventBody) error {
	placeholderTS, err := h.slack.PostMessage(ctx, event.Channel, event.ThreadRoot(), h.cfg.ThinkingText)
	if err != nil {
		return fmt.Errorf("post thinking message: %w", err)
	}

	result, err := h.generate(ctx, logger, event, placeholderTS)
	if err != nil {
		logger.Error("Failed to generate response", "error", err)
		return err
	}

	blocks := formatter.Blocks(result.Text, result.Usage)
	if err := h.slack.UpdateBlocks(ctx, event.Channel, placeholderTS, blocks, formatter.FallbackText(result.Text)); err != nil {
		return fmt.Errorf("post response: %w", err)
	}

	logger.Info("responsePosted",
		"channel", event.Channel,
		"ts", placeholderTS,
		"input_tokens", result.Usage.InputTokens,
		"output_tokens", result.Usage.OutputTokens,
		"cost", formatter.Cost(result.Usage),
	)
	return nil
}

// generate runs prompt building and the model call while the placeholder keeps ticking
func (h *Handler) generate(ctx context.Context, logger *slog.Logger, event models.SlackEventBody, placeholderTS string) (models.ModelResult, error) {
	stop := h.startThinking(ctx, logger, event.Channel, placeholderTS)
	defer stop()

	prompts, err := h.prompts.Build(ctx, event.Channel, event.TS, event.ThreadTS)
	if err != nil {
		return models.ModelResult{}, fmt.Errorf("build prompt: %w", err)
	}

	return h.model.Invoke(ctx, prompts), nil
}

func requestBody(request events.APIGatewayProxyRequest) ([]byte, error) {
	if !request.IsBase64Encoded {
		return []byte(request.Body), nil
	}

	body, err := base64.StdEncoding.DecodeString(request.Body)
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	return body, nil
}

// header looks up a header case-insensitively. REST APIs keep the
// sender's casing while HTTP APIs and function URLs lower-case names.
func header(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
