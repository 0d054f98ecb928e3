package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/shnish23/slack-sampleapp/pkg/models"
)

const (
	// AnthropicVersion is the Messages API version Bedrock expects
	AnthropicVersion = "bedrock-2023-05-31"

	// MaxTokens caps the length of every answer
	MaxTokens = 2000

	// ErrorText is returned to the user when the model call fails
	ErrorText = "An error occurred while calling the AI model."

	// EmptyResponseText is returned when the model produced no text
	EmptyResponseText = "There was no response from the AI model."
)

// InvokeModelAPI is the subset of the Bedrock Runtime client used here
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Client is a client for AWS Bedrock Runtime (Claude models)
type Client struct {
	api          InvokeModelAPI
	modelID      string
	systemPrompt string
	logger       *slog.Logger
}

// NewClient creates a new Bedrock client
func NewClient(cfg aws.Config, modelID, systemPrompt string, logger *slog.Logger) *Client {
	return NewClientWithAPI(bedrockruntime.NewFromConfig(cfg), modelID, systemPrompt, logger)
}

// NewClientWithAPI creates a Bedrock client around an existing runtime API
func NewClientWithAPI(api InvokeModelAPI, modelID, systemPrompt string, logger *slog.Logger) *Client {
	return &Client{
		api:          api,
		modelID:      modelID,
		systemPrompt: systemPrompt,
		logger:       logger,
	}
}

// BedrockRequest represents a request to Bedrock (Claude Messages API format)
type BedrockRequest struct {
	AnthropicVersion string                 `json:"anthropic_version"`
	MaxTokens        int                    `json:"max_tokens"`
	System           string                 `json:"system,omitempty"`
	Messages         []models.PromptMessage `json:"messages"`
}

// BedrockResponse represents a response from Bedrock
type BedrockResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string       `json:"model"`
	StopReason string       `json:"stop_reason"`
	Usage      models.Usage `json:"usage"`
}

// Invoke sends the prompt to Claude and returns the answer with its usage.
// Failures are logged and turned into ErrorText with zero usage.
func (c *Client) Invoke(ctx context.Context, prompts []models.PromptMessage) models.ModelResult {
	response, err := c.invoke(ctx, prompts)
	if err != nil {
		c.logger.Error("Error calling AI model", "model_id", c.modelID, "error", err)
		return models.ModelResult{Text: ErrorText}
	}

	c.logger.Info("aiResponseReceived",
		"id", response.ID,
		"stop_reason", response.StopReason,
		"input_tokens", response.Usage.InputTokens,
		"output_tokens", response.Usage.OutputTokens,
	)

	text := EmptyResponseText
	if len(response.Content) > 0 {
		text = response.Content[0].Text
	}

	return models.ModelResult{Text: text, Usage: response.Usage}
}

func (c *Client) invoke(ctx context.Context, prompts []models.PromptMessage) (*BedrockResponse, error) {
	// Build request in Claude Messages API format
	req := BedrockRequest{
		AnthropicVersion: AnthropicVersion,
		MaxTokens:        MaxTokens,
		System:           c.systemPrompt,
		Messages:         prompts,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	output, err := c.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("invoke bedrock model: %w", err)
	}

	var response BedrockResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &response, nil
}
