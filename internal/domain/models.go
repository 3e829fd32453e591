// Package domain contains the core value types for the translation service.
package domain

// Item statuses reported per translated text.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// Request is a translation request: a batch of texts and a language pair.
type Request struct {
	SourceLanguage string   `json:"source_language"`
	TargetLanguage string   `json:"target_language"`
	Texts          []string `json:"texts"`
}

// ItemResult is the outcome for a single text. Index preserves the
// ordinal position of the text in the request.
type ItemResult struct {
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text,omitempty"`
	Index          int    `json:"index"`
	Status         string `json:"status"`
	Reason         string `json:"reason,omitempty"`
	Error          string `json:"error,omitempty"`
	DetectedSource string `json:"source_language_detected,omitempty"`
	ResolvedTarget string `json:"target_language,omitempty"`
}

// RequestMetadata summarises a completed batch.
type RequestMetadata struct {
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	TotalTexts     int    `json:"total_texts"`
	Successful     int    `json:"successful_translations"`
	Failed         int    `json:"failed_translations"`
	Timestamp      string `json:"timestamp"`
	TranslationID  string `json:"translation_id,omitempty"`
}

// Summary holds batch-level statistics.
type Summary struct {
	SuccessRate     float64 `json:"success_rate"`
	TotalCharacters int     `json:"total_characters_translated"`
}

// Result is the complete outcome of one translation request. It is
// returned to the caller and written verbatim to the response bucket.
type Result struct {
	RequestMetadata RequestMetadata `json:"request_metadata"`
	Translations    []ItemResult    `json:"translations"`
	Summary         Summary         `json:"summary"`
}

// StoredRequest wraps a request with derived metadata before it is
// written to the request bucket.
type StoredRequest struct {
	RequestData Request         `json:"request_data"`
	Metadata    RequestEnvelope `json:"metadata"`
}

// RequestEnvelope is the metadata block attached to a stored request.
type RequestEnvelope struct {
	UserID         string `json:"user_id"`
	RequestType    string `json:"request_type"`
	Timestamp      string `json:"timestamp"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	TextCount      int    `json:"text_count"`
}

// StoredResult wraps a result together with its originating request
// before it is written to the response bucket.
type StoredResult struct {
	OriginalRequest   Request        `json:"original_request"`
	TranslationResult Result         `json:"translation_result"`
	Metadata          ResultEnvelope `json:"metadata"`
}

// ResultEnvelope is the processing metadata attached to a stored result.
type ResultEnvelope struct {
	ProcessedAt     string `json:"processed_at"`
	LambdaRequestID string `json:"lambda_request_id"`
	Version         string `json:"version"`
	RequestBucket   string `json:"request_bucket"`
	ResponseBucket  string `json:"response_bucket"`
}
