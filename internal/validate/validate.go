// Package validate checks translation requests before any upstream call.
package validate

import (
	"fmt"

	"github.com/glossalabs/translate-lambda/internal/domain"
	"github.com/glossalabs/translate-lambda/internal/langs"
)

// Limits enforced on incoming requests.
const (
	MaxTexts     = 100
	MaxTextBytes = 5000
)

// Validator checks requests against a supported-language set.
type Validator struct {
	supported langs.Set
}

// New creates a Validator for the given language set.
func New(supported langs.Set) *Validator {
	return &Validator{supported: supported}
}

// Request validates req. Checks run in a fixed order and the first
// failure wins; a nil return means the request is valid.
func (v *Validator) Request(req *domain.Request) error {
	if req == nil {
		return fmt.Errorf("request data must be a valid JSON object")
	}
	if req.SourceLanguage == "" {
		return fmt.Errorf("missing required field: source_language")
	}
	if req.TargetLanguage == "" {
		return fmt.Errorf("missing required field: target_language")
	}
	if req.Texts == nil {
		return fmt.Errorf("missing required field: texts")
	}
	if !v.supported.Contains(req.SourceLanguage) {
		return fmt.Errorf("unsupported source language: %s", req.SourceLanguage)
	}
	if !v.supported.Contains(req.TargetLanguage) {
		return fmt.Errorf("unsupported target language: %s", req.TargetLanguage)
	}
	if len(req.Texts) == 0 {
		return fmt.Errorf("field 'texts' cannot be empty")
	}
	if len(req.Texts) > MaxTexts {
		return fmt.Errorf("field 'texts' exceeds %d items", MaxTexts)
	}
	for i, text := range req.Texts {
		if len(text) > MaxTextBytes {
			return fmt.Errorf("text at index %d exceeds %d bytes limit", i, MaxTextBytes)
		}
	}
	return nil
}
