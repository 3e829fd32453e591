// Package main is the entry point for the translation Lambda function.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstranslate "github.com/aws/aws-sdk-go-v2/service/translate"

	"github.com/glossalabs/translate-lambda/internal/config"
	"github.com/glossalabs/translate-lambda/internal/handler"
	"github.com/glossalabs/translate-lambda/internal/langs"
	"github.com/glossalabs/translate-lambda/internal/storage"
	"github.com/glossalabs/translate-lambda/internal/translate"
	"github.com/glossalabs/translate-lambda/internal/validate"
)

func main() {
	ctx := context.Background()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if !cfg.HasObjectStorage() {
		logger.Warn("object storage not fully configured, persistence degraded")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		logger.Error("failed to load AWS config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Clients are created once per process and reused across warm
	// invocations.
	objects := storage.NewS3Store(s3.NewFromConfig(awsCfg))
	tables := storage.NewDynamoStore(dynamodb.NewFromConfig(awsCfg))
	archiver := storage.NewArchiver(objects, tables, cfg, logger)
	translator := translate.NewAWSTranslator(awstranslate.NewFromConfig(awsCfg))
	driver := translate.NewDriver(translator, logger)

	h := handler.New(validate.New(langs.Supported), driver, archiver, objects, cfg, logger)
	warmer := NewWarmer(lambdasdk.NewFromConfig(awsCfg), logger)

	lambda.Start(func(ctx context.Context, event json.RawMessage) (any, error) {
		// Warmup detection runs before any other processing.
		if warmup, ok := IsWarmupEvent(event); ok {
			return warmer.Handle(ctx, warmup)
		}
		return h.Route(ctx, event)
	})
}
