package translate

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/glossalabs/translate-lambda/internal/domain"
)

const (
	// DefaultAttempts is the total number of tries per text.
	DefaultAttempts = 3

	// DefaultBackoff is multiplied by the attempt number between tries.
	DefaultBackoff = 500 * time.Millisecond
)

// Driver runs a translation batch item by item. A single item's
// failure never aborts the batch; partial success is the designed
// behavior.
type Driver struct {
	translator Translator
	logger     *slog.Logger
	attempts   int
	backoff    time.Duration
	sleep      func(time.Duration)
}

// Option configures a Driver.
type Option func(*Driver)

// WithAttempts sets the total tries per text.
func WithAttempts(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.attempts = n
		}
	}
}

// WithBackoff sets the base delay between tries.
func WithBackoff(base time.Duration) Option {
	return func(d *Driver) { d.backoff = base }
}

// WithSleep replaces the sleep function, so tests run without delays.
func WithSleep(sleep func(time.Duration)) Option {
	return func(d *Driver) { d.sleep = sleep }
}

// NewDriver creates a Driver over the given translator.
func NewDriver(translator Translator, logger *slog.Logger, opts ...Option) *Driver {
	d := &Driver{
		translator: translator,
		logger:     logger,
		attempts:   DefaultAttempts,
		backoff:    DefaultBackoff,
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run translates every text in req sequentially, preserving input
// order in the result.
func (d *Driver) Run(ctx context.Context, req domain.Request) domain.Result {
	d.logger.Info("starting translation batch",
		slog.String("source", req.SourceLanguage),
		slog.String("target", req.TargetLanguage),
		slog.Int("texts", len(req.Texts)))

	translations := make([]domain.ItemResult, 0, len(req.Texts))
	successful := 0
	failed := 0
	totalCharacters := 0

	for i, text := range req.Texts {
		if strings.TrimSpace(text) == "" {
			translations = append(translations, domain.ItemResult{
				OriginalText:   text,
				TranslatedText: text,
				Index:          i,
				Status:         domain.StatusSkipped,
				Reason:         "empty_text",
			})
			continue
		}

		result, err := d.translateWithRetry(ctx, strings.TrimSpace(text), req.SourceLanguage, req.TargetLanguage)
		if err != nil {
			d.logger.Error("translation failed",
				slog.Int("index", i),
				slog.String("error", err.Error()))
			failed++
			translations = append(translations, domain.ItemResult{
				OriginalText: text,
				Index:        i,
				Status:       domain.StatusError,
				Error:        err.Error(),
			})
			continue
		}

		successful++
		totalCharacters += utf8.RuneCountInString(result.Text)

		detected := result.Source
		if detected == "" {
			detected = req.SourceLanguage
		}
		resolved := result.Target
		if resolved == "" {
			resolved = req.TargetLanguage
		}

		translations = append(translations, domain.ItemResult{
			OriginalText:   text,
			TranslatedText: result.Text,
			Index:          i,
			Status:         domain.StatusSuccess,
			DetectedSource: detected,
			ResolvedTarget: resolved,
		})
	}

	total := len(req.Texts)
	successRate := 0.0
	if total > 0 {
		successRate = math.Round(float64(successful)/float64(total)*100*100) / 100
	}

	d.logger.Info("translation batch complete",
		slog.Int("successful", successful),
		slog.Int("failed", failed),
		slog.Float64("success_rate", successRate))

	return domain.Result{
		RequestMetadata: domain.RequestMetadata{
			SourceLanguage: req.SourceLanguage,
			TargetLanguage: req.TargetLanguage,
			TotalTexts:     total,
			Successful:     successful,
			Failed:         failed,
			Timestamp:      time.Now().UTC().Format(time.RFC3339),
		},
		Translations: translations,
		Summary: domain.Summary{
			SuccessRate:     successRate,
			TotalCharacters: totalCharacters,
		},
	}
}

// translateWithRetry tries the upstream call up to d.attempts times
// with a linear backoff between tries.
func (d *Driver) translateWithRetry(ctx context.Context, text, source, target string) (Translation, error) {
	var lastErr error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		result, err := d.translator.Translate(ctx, text, source, target)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if attempt < d.attempts {
			d.sleep(d.backoff * time.Duration(attempt))
		}
	}
	return Translation{}, lastErr
}
