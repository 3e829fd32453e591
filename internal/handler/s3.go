package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/glossalabs/translate-lambda/internal/domain"
	"github.com/glossalabs/translate-lambda/internal/storage"
)

// Key prefixes written by this service; uploads carrying them are
// outputs of a previous run and must not be reprocessed.
var skipPrefixes = []string{"api-request-", "file-request-", "s3-response-"}

// S3Summary is the response for a processed storage notification.
type S3Summary struct {
	Message        string          `json:"message"`
	ProcessedFiles []ProcessedFile `json:"processed_files"`
}

// ProcessedFile reports the outcome for one uploaded object.
type ProcessedFile struct {
	File          string `json:"file"`
	Status        string `json:"status"`
	TranslationID string `json:"translation_id,omitempty"`
	Error         string `json:"error,omitempty"`
	Timestamp     string `json:"timestamp"`
}

// HandleS3Event processes uploaded request files. Only JSON objects in
// the configured request bucket are handled; per-file failures are
// reported inline and never abort the remaining records.
func (h *Handler) HandleS3Event(ctx context.Context, event events.S3Event) S3Summary {
	var processed []ProcessedFile

	for _, record := range event.Records {
		bucket := record.S3.Bucket.Name
		key := record.S3.Object.Key
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}

		logger := h.logger.With(slog.String("bucket", bucket), slog.String("key", key))

		if bucket != h.cfg.RequestBucket {
			logger.Warn("file from unexpected bucket")
			continue
		}
		if !strings.HasSuffix(strings.ToLower(key), ".json") {
			logger.Info("skipping non-JSON file")
			continue
		}
		if hasSkipPrefix(key) {
			logger.Info("skipping already processed file")
			continue
		}

		file := h.processUpload(ctx, bucket, key, logger)
		processed = append(processed, file)
	}

	return S3Summary{
		Message:        "S3 files processed successfully",
		ProcessedFiles: processed,
	}
}

// processUpload fetches one uploaded request file, translates it, and
// persists the result under an s3-response- key.
func (h *Handler) processUpload(ctx context.Context, bucket, key string, logger *slog.Logger) ProcessedFile {
	timestamp := h.now().UTC().Format(time.RFC3339)

	fail := func(message string) ProcessedFile {
		logger.Error("failed to process upload", slog.String("error", message))
		return ProcessedFile{File: key, Status: "error", Error: message, Timestamp: timestamp}
	}

	body, err := h.objects.GetObject(ctx, bucket, key)
	if err != nil {
		return fail(err.Error())
	}

	var request domain.Request
	if err := json.Unmarshal(body, &request); err != nil {
		return fail("invalid JSON request file: " + err.Error())
	}

	if err := h.validator.Request(&request); err != nil {
		return fail(err.Error())
	}

	translationID := h.newID()
	start := h.now()

	result := h.driver.Run(ctx, request)
	result.RequestMetadata.TranslationID = translationID

	h.archiver.SaveResult(ctx, "s3", translationID, request, result, lambdaRequestID(ctx))
	h.archiver.SaveMetadata(ctx, storage.MetadataRow{
		TranslationID:  translationID,
		UserID:         "anonymous",
		SourceLanguage: request.SourceLanguage,
		TargetLanguage: request.TargetLanguage,
		RequestType:    triggerFile,
		TextCount:      len(request.Texts),
		SuccessCount:   result.RequestMetadata.Successful,
		FileName:       key,
		ProcessingTime: h.now().Sub(start).Seconds(),
	})

	logger.Info("upload processed",
		slog.String("translation_id", translationID),
		slog.Int("successful", result.RequestMetadata.Successful))

	return ProcessedFile{
		File:          key,
		Status:        "processed",
		TranslationID: translationID,
		Timestamp:     timestamp,
	}
}

func hasSkipPrefix(key string) bool {
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}
