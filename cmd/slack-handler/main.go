package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/shnish23/slack-sampleapp/pkg/bedrock"
	appconfig "github.com/shnish23/slack-sampleapp/pkg/config"
	"github.com/shnish23/slack-sampleapp/pkg/handler"
	"github.com/shnish23/slack-sampleapp/pkg/prompt"
	slackclient "github.com/shnish23/slack-sampleapp/pkg/slack"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load application configuration once per cold start
	cfg, err := appconfig.Load()
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize AWS SDK
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Error("Failed to load AWS config", "error", err)
		os.Exit(1)
	}

	// Initialize clients
	slackClient := slackclient.NewClient(cfg.SlackBotToken, logger)
	builder := prompt.NewBuilder(slackClient, logger)
	model := bedrock.NewClient(awsCfg, cfg.ModelID, cfg.CharacterConfig, logger)

	h := handler.New(cfg, slackClient, builder, model, logger)
	lambda.Start(h.Handle)
}
