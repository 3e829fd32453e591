// Package translate wraps the upstream translation engine and runs
// translation batches.
package translate

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/translate"
)

// Translation is the outcome of a single upstream call. Source and
// Target carry the codes reported by the engine, which may differ from
// the requested pair (e.g. when the engine auto-detects the source).
type Translation struct {
	Text   string
	Source string
	Target string
}

// Translator is the upstream translation collaborator.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (Translation, error)
}

// TranslateAPI is the slice of the AWS Translate client used here.
type TranslateAPI interface {
	TranslateText(ctx context.Context, params *translate.TranslateTextInput, optFns ...func(*translate.Options)) (*translate.TranslateTextOutput, error)
}

// AWSTranslator calls AWS Translate.
type AWSTranslator struct {
	api TranslateAPI
}

// NewAWSTranslator creates a Translator backed by the given client.
func NewAWSTranslator(api TranslateAPI) *AWSTranslator {
	return &AWSTranslator{api: api}
}

// Translate translates one text.
func (t *AWSTranslator) Translate(ctx context.Context, text, source, target string) (Translation, error) {
	out, err := t.api.TranslateText(ctx, &translate.TranslateTextInput{
		Text:               aws.String(text),
		SourceLanguageCode: aws.String(source),
		TargetLanguageCode: aws.String(target),
	})
	if err != nil {
		return Translation{}, fmt.Errorf("translate text: %w", err)
	}

	return Translation{
		Text:   aws.ToString(out.TranslatedText),
		Source: aws.ToString(out.SourceLanguageCode),
		Target: aws.ToString(out.TargetLanguageCode),
	}, nil
}
