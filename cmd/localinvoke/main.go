// Package main runs a sample translation request through the handler
// locally, outside the Lambda runtime. Credentials and bucket/table
// names come from the environment or a .env file.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstranslate "github.com/aws/aws-sdk-go-v2/service/translate"
	"github.com/joho/godotenv"

	"github.com/glossalabs/translate-lambda/internal/config"
	"github.com/glossalabs/translate-lambda/internal/handler"
	"github.com/glossalabs/translate-lambda/internal/langs"
	"github.com/glossalabs/translate-lambda/internal/storage"
	"github.com/glossalabs/translate-lambda/internal/translate"
	"github.com/glossalabs/translate-lambda/internal/validate"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		logger.Error("failed to load AWS config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	objects := storage.NewS3Store(s3.NewFromConfig(awsCfg))
	tables := storage.NewDynamoStore(dynamodb.NewFromConfig(awsCfg))
	archiver := storage.NewArchiver(objects, tables, cfg, logger)
	translator := translate.NewAWSTranslator(awstranslate.NewFromConfig(awsCfg))
	driver := translate.NewDriver(translator, logger)
	h := handler.New(validate.New(langs.Supported), driver, archiver, objects, cfg, logger)

	event := json.RawMessage(`{
		"source_language": "en",
		"target_language": "es",
		"texts": [
			"Hello, world!",
			"How are you today?",
			"This is a test translation."
		]
	}`)

	response, err := h.Route(ctx, event)
	if err != nil {
		logger.Error("invocation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	out, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		logger.Error("failed to encode response", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(string(out))
}
