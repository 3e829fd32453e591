package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/glossalabs/translate-lambda/internal/config"
	"github.com/glossalabs/translate-lambda/internal/domain"
)

// Version tag written into stored result envelopes.
const Version = "1.0"

// Retention periods, enforced by DynamoDB TTL.
const (
	metadataTTL = 90 * 24 * time.Hour
	historyTTL  = 365 * 24 * time.Hour
)

// MetadataRow is the flat record written to the translation metadata table.
type MetadataRow struct {
	TranslationID  string  `dynamodbav:"translation_id"`
	UserID         string  `dynamodbav:"user_id"`
	SourceLanguage string  `dynamodbav:"source_language"`
	TargetLanguage string  `dynamodbav:"target_language"`
	RequestType    string  `dynamodbav:"request_type"`
	TextCount      int     `dynamodbav:"text_count"`
	SuccessCount   int     `dynamodbav:"success_count"`
	FileName       string  `dynamodbav:"file_name,omitempty"`
	CreatedAt      string  `dynamodbav:"created_at"`
	ProcessingTime float64 `dynamodbav:"processing_time"`
	TTL            int64   `dynamodbav:"ttl"`
}

// HistoryRow is the per-user record written to the user history table.
type HistoryRow struct {
	UserID         string `dynamodbav:"user_id"`
	Timestamp      string `dynamodbav:"timestamp"`
	TranslationID  string `dynamodbav:"translation_id"`
	SourceLanguage string `dynamodbav:"source_language"`
	TargetLanguage string `dynamodbav:"target_language"`
	TextCount      int    `dynamodbav:"text_count"`
	SuccessCount   int    `dynamodbav:"success_count"`
	CreatedAt      string `dynamodbav:"created_at"`
	TTL            int64  `dynamodbav:"ttl"`
}

// Archiver performs the best-effort persistence writes. Every write is
// independent: a failure is logged and swallowed, and never alters the
// response returned to the caller.
type Archiver struct {
	objects ObjectStore
	tables  MetadataStore
	cfg     config.Config
	logger  *slog.Logger
	now     func() time.Time
}

// NewArchiver creates an Archiver over the given stores.
func NewArchiver(objects ObjectStore, tables MetadataStore, cfg config.Config, logger *slog.Logger) *Archiver {
	return &Archiver{
		objects: objects,
		tables:  tables,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (a *Archiver) WithClock(now func() time.Time) *Archiver {
	a.now = now
	return a
}

// SaveRequest writes the original request to the request bucket.
func (a *Archiver) SaveRequest(ctx context.Context, trigger, translationID string, req domain.Request, userID string) {
	if a.cfg.RequestBucket == "" {
		a.logger.Warn("request bucket not configured, skipping request save")
		return
	}

	now := a.now().UTC()
	key := objectKey(trigger, "request", translationID, now)

	stored := domain.StoredRequest{
		RequestData: req,
		Metadata: domain.RequestEnvelope{
			UserID:         userID,
			RequestType:    trigger,
			Timestamp:      now.Format(time.RFC3339),
			SourceLanguage: req.SourceLanguage,
			TargetLanguage: req.TargetLanguage,
			TextCount:      len(req.Texts),
		},
	}

	body, err := json.Marshal(stored)
	if err != nil {
		a.logger.Error("failed to encode stored request", slog.String("error", err.Error()))
		return
	}

	metadata := map[string]string{
		"user-id":         userID,
		"request-type":    trigger,
		"source-language": req.SourceLanguage,
		"target-language": req.TargetLanguage,
		"text-count":      strconv.Itoa(len(req.Texts)),
		"timestamp":       now.Format(time.RFC3339),
	}

	if err := a.objects.PutObject(ctx, a.cfg.RequestBucket, key, body, "application/json", metadata); err != nil {
		a.logger.Warn("failed to save request", slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	a.logger.Info("request saved", slog.String("key", key))
}

// SaveResult writes the complete result envelope to the response bucket.
func (a *Archiver) SaveResult(ctx context.Context, trigger, translationID string, req domain.Request, result domain.Result, lambdaRequestID string) {
	if a.cfg.ResponseBucket == "" {
		a.logger.Warn("response bucket not configured, skipping result save")
		return
	}

	now := a.now().UTC()
	key := objectKey(trigger, "response", translationID, now)

	stored := domain.StoredResult{
		OriginalRequest:   req,
		TranslationResult: result,
		Metadata: domain.ResultEnvelope{
			ProcessedAt:     now.Format(time.RFC3339),
			LambdaRequestID: lambdaRequestID,
			Version:         Version,
			RequestBucket:   a.cfg.RequestBucket,
			ResponseBucket:  a.cfg.ResponseBucket,
		},
	}

	body, err := json.Marshal(stored)
	if err != nil {
		a.logger.Error("failed to encode stored result", slog.String("error", err.Error()))
		return
	}

	metadata := map[string]string{
		"source-language":         req.SourceLanguage,
		"target-language":         req.TargetLanguage,
		"texts-count":             strconv.Itoa(len(req.Texts)),
		"successful-translations": strconv.Itoa(result.RequestMetadata.Successful),
		"success-rate":            strconv.FormatFloat(result.Summary.SuccessRate, 'f', -1, 64),
		"total-characters":        strconv.Itoa(result.Summary.TotalCharacters),
		"processed-at":            now.Format(time.RFC3339),
	}

	if err := a.objects.PutObject(ctx, a.cfg.ResponseBucket, key, body, "application/json", metadata); err != nil {
		a.logger.Warn("failed to save result", slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	a.logger.Info("result saved", slog.String("key", key))
}

// SaveMetadata writes the flat metadata row for a translation. The
// created-at timestamp and TTL are filled in here.
func (a *Archiver) SaveMetadata(ctx context.Context, row MetadataRow) {
	if a.cfg.TranslationTable == "" {
		a.logger.Warn("translation table not configured, skipping metadata save")
		return
	}

	now := a.now().UTC()
	row.CreatedAt = now.Format(time.RFC3339)
	row.TTL = now.Add(metadataTTL).Unix()
	if row.UserID == "" {
		row.UserID = "anonymous"
	}

	if err := a.tables.PutItem(ctx, a.cfg.TranslationTable, row); err != nil {
		a.logger.Warn("failed to save translation metadata",
			slog.String("translation_id", row.TranslationID),
			slog.String("error", err.Error()))
		return
	}
	a.logger.Info("translation metadata saved", slog.String("translation_id", row.TranslationID))
}

// SaveUserHistory writes a history row for a non-anonymous user.
func (a *Archiver) SaveUserHistory(ctx context.Context, userID string, result domain.Result) {
	if a.cfg.UserDataTable == "" {
		return
	}
	if userID == "" || userID == "anonymous" {
		return
	}

	now := a.now().UTC()
	row := HistoryRow{
		UserID:         userID,
		Timestamp:      now.Format(time.RFC3339),
		TranslationID:  result.RequestMetadata.TranslationID,
		SourceLanguage: result.RequestMetadata.SourceLanguage,
		TargetLanguage: result.RequestMetadata.TargetLanguage,
		TextCount:      len(result.Translations),
		SuccessCount:   result.RequestMetadata.Successful,
		CreatedAt:      now.Format(time.RFC3339),
		TTL:            now.Add(historyTTL).Unix(),
	}

	if err := a.tables.PutItem(ctx, a.cfg.UserDataTable, row); err != nil {
		a.logger.Warn("failed to save user history",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return
	}
	a.logger.Info("user history saved", slog.String("user_id", userID))
}

// objectKey builds keys like "api-request-20250114-093015-<id>.json".
func objectKey(trigger, kind, translationID string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%s-%s.json", trigger, kind, now.Format("20060102-150405"), translationID)
}
