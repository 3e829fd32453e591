package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/glossalabs/translate-lambda/internal/config"
	"github.com/glossalabs/translate-lambda/internal/domain"
)

type fakeObjectStore struct {
	puts    []putCall
	failPut bool
}

type putCall struct {
	bucket, key, contentType string
	body                     []byte
	metadata                 map[string]string
}

func (f *fakeObjectStore) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string, metadata map[string]string) error {
	if f.failPut {
		return fmt.Errorf("bucket unavailable")
	}
	f.puts = append(f.puts, putCall{bucket, key, contentType, body, metadata})
	return nil
}

func (f *fakeObjectStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	return nil, fmt.Errorf("not found")
}

type fakeMetadataStore struct {
	items   []tableItem
	failPut bool
}

type tableItem struct {
	table string
	item  any
}

func (f *fakeMetadataStore) PutItem(ctx context.Context, table string, item any) error {
	if f.failPut {
		return fmt.Errorf("table unavailable")
	}
	f.items = append(f.items, tableItem{table, item})
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.Config {
	return config.Config{
		RequestBucket:    "req-bucket",
		ResponseBucket:   "resp-bucket",
		UserDataTable:    "user-history",
		TranslationTable: "translation-metadata",
	}
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, 1, 14, 9, 30, 15, 0, time.UTC)
	}
}

func sampleRequest() domain.Request {
	return domain.Request{
		SourceLanguage: "en",
		TargetLanguage: "es",
		Texts:          []string{"Hello", "World"},
	}
}

func TestSaveRequest(t *testing.T) {
	objects := &fakeObjectStore{}
	a := NewArchiver(objects, &fakeMetadataStore{}, testConfig(), testLogger()).WithClock(fixedClock())

	a.SaveRequest(context.Background(), "api", "abc-123", sampleRequest(), "user-1")

	if len(objects.puts) != 1 {
		t.Fatalf("got %d puts, want 1", len(objects.puts))
	}
	put := objects.puts[0]
	if put.bucket != "req-bucket" {
		t.Errorf("bucket = %q, want req-bucket", put.bucket)
	}
	if put.key != "api-request-20250114-093015-abc-123.json" {
		t.Errorf("key = %q", put.key)
	}
	if put.contentType != "application/json" {
		t.Errorf("contentType = %q", put.contentType)
	}
	if put.metadata["user-id"] != "user-1" {
		t.Errorf("metadata user-id = %q", put.metadata["user-id"])
	}
	if put.metadata["text-count"] != "2" {
		t.Errorf("metadata text-count = %q", put.metadata["text-count"])
	}

	var stored domain.StoredRequest
	if err := json.Unmarshal(put.body, &stored); err != nil {
		t.Fatalf("stored request is not valid JSON: %v", err)
	}
	if stored.Metadata.RequestType != "api" {
		t.Errorf("stored request_type = %q", stored.Metadata.RequestType)
	}
	if len(stored.RequestData.Texts) != 2 {
		t.Errorf("stored texts = %d, want 2", len(stored.RequestData.Texts))
	}
}

func TestSaveResult(t *testing.T) {
	objects := &fakeObjectStore{}
	a := NewArchiver(objects, &fakeMetadataStore{}, testConfig(), testLogger()).WithClock(fixedClock())

	result := domain.Result{
		RequestMetadata: domain.RequestMetadata{
			SourceLanguage: "en",
			TargetLanguage: "es",
			TotalTexts:     2,
			Successful:     2,
			TranslationID:  "abc-123",
		},
		Summary: domain.Summary{SuccessRate: 100, TotalCharacters: 21},
	}

	a.SaveResult(context.Background(), "api", "abc-123", sampleRequest(), result, "lambda-req-1")

	if len(objects.puts) != 1 {
		t.Fatalf("got %d puts, want 1", len(objects.puts))
	}
	put := objects.puts[0]
	if put.bucket != "resp-bucket" {
		t.Errorf("bucket = %q, want resp-bucket", put.bucket)
	}
	if !strings.HasPrefix(put.key, "api-response-") || !strings.HasSuffix(put.key, ".json") {
		t.Errorf("key = %q", put.key)
	}
	if put.metadata["successful-translations"] != "2" {
		t.Errorf("metadata successful-translations = %q", put.metadata["successful-translations"])
	}
	if put.metadata["success-rate"] != "100" {
		t.Errorf("metadata success-rate = %q", put.metadata["success-rate"])
	}

	var stored domain.StoredResult
	if err := json.Unmarshal(put.body, &stored); err != nil {
		t.Fatalf("stored result is not valid JSON: %v", err)
	}
	if stored.Metadata.Version != Version {
		t.Errorf("stored version = %q", stored.Metadata.Version)
	}
	if stored.Metadata.LambdaRequestID != "lambda-req-1" {
		t.Errorf("stored lambda_request_id = %q", stored.Metadata.LambdaRequestID)
	}
}

func TestSaveMetadataFillsDerivedFields(t *testing.T) {
	tables := &fakeMetadataStore{}
	a := NewArchiver(&fakeObjectStore{}, tables, testConfig(), testLogger()).WithClock(fixedClock())

	a.SaveMetadata(context.Background(), MetadataRow{
		TranslationID:  "abc-123",
		SourceLanguage: "en",
		TargetLanguage: "es",
		RequestType:    "api",
		TextCount:      2,
		SuccessCount:   2,
	})

	if len(tables.items) != 1 {
		t.Fatalf("got %d items, want 1", len(tables.items))
	}
	if tables.items[0].table != "translation-metadata" {
		t.Errorf("table = %q", tables.items[0].table)
	}
	row := tables.items[0].item.(MetadataRow)
	if row.UserID != "anonymous" {
		t.Errorf("UserID = %q, want anonymous default", row.UserID)
	}
	if row.CreatedAt == "" {
		t.Error("CreatedAt not filled")
	}
	wantTTL := fixedClock()().Add(metadataTTL).Unix()
	if row.TTL != wantTTL {
		t.Errorf("TTL = %d, want %d", row.TTL, wantTTL)
	}
}

func TestSaveUserHistorySkipsAnonymous(t *testing.T) {
	tables := &fakeMetadataStore{}
	a := NewArchiver(&fakeObjectStore{}, tables, testConfig(), testLogger()).WithClock(fixedClock())

	a.SaveUserHistory(context.Background(), "anonymous", domain.Result{})
	a.SaveUserHistory(context.Background(), "", domain.Result{})

	if len(tables.items) != 0 {
		t.Fatalf("anonymous history should not be written, got %d items", len(tables.items))
	}

	a.SaveUserHistory(context.Background(), "user-1", domain.Result{
		RequestMetadata: domain.RequestMetadata{TranslationID: "abc-123", Successful: 1},
		Translations:    []domain.ItemResult{{}},
	})

	if len(tables.items) != 1 {
		t.Fatalf("got %d items, want 1", len(tables.items))
	}
	row := tables.items[0].item.(HistoryRow)
	if row.UserID != "user-1" {
		t.Errorf("UserID = %q", row.UserID)
	}
	wantTTL := fixedClock()().Add(historyTTL).Unix()
	if row.TTL != wantTTL {
		t.Errorf("TTL = %d, want %d", row.TTL, wantTTL)
	}
}

func TestWritesDegradeWithoutConfig(t *testing.T) {
	objects := &fakeObjectStore{}
	tables := &fakeMetadataStore{}
	a := NewArchiver(objects, tables, config.Config{}, testLogger()).WithClock(fixedClock())

	a.SaveRequest(context.Background(), "api", "id", sampleRequest(), "user-1")
	a.SaveResult(context.Background(), "api", "id", sampleRequest(), domain.Result{}, "")
	a.SaveMetadata(context.Background(), MetadataRow{TranslationID: "id"})
	a.SaveUserHistory(context.Background(), "user-1", domain.Result{})

	if len(objects.puts) != 0 || len(tables.items) != 0 {
		t.Error("unconfigured storage should be a no-op")
	}
}

func TestWriteFailuresAreSwallowed(t *testing.T) {
	objects := &fakeObjectStore{failPut: true}
	tables := &fakeMetadataStore{failPut: true}
	a := NewArchiver(objects, tables, testConfig(), testLogger()).WithClock(fixedClock())

	// None of these may panic or propagate an error.
	a.SaveRequest(context.Background(), "api", "id", sampleRequest(), "user-1")
	a.SaveResult(context.Background(), "api", "id", sampleRequest(), domain.Result{}, "")
	a.SaveMetadata(context.Background(), MetadataRow{TranslationID: "id"})
	a.SaveUserHistory(context.Background(), "user-1", domain.Result{})
}
