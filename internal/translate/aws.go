package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awstranslate "github.com/aws/aws-sdk-go-v2/service/translate"
	"go.uber.org/zap"
)

// TextTranslationAPI is the subset of the AWS Translate client used here.
type TextTranslationAPI interface {
	TranslateText(ctx context.Context, params *awstranslate.TranslateTextInput, optFns ...func(*awstranslate.Options)) (*awstranslate.TranslateTextOutput, error)
}

// AWSTranslator calls Amazon Translate.
type AWSTranslator struct {
	client TextTranslationAPI
	logger *zap.Logger
}

// NewAWSTranslator loads the default AWS credential chain for region.
func NewAWSTranslator(ctx context.Context, region string, logger *zap.Logger) (*AWSTranslator, error) {
	if region == "" {
		return nil, errors.New("translate: aws region is required")
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("translate: failed to load aws config: %w", err)
	}
	return NewAWSTranslatorWithClient(awstranslate.NewFromConfig(cfg), logger), nil
}

// NewAWSTranslatorWithClient wraps an existing client.
func NewAWSTranslatorWithClient(client TextTranslationAPI, logger *zap.Logger) *AWSTranslator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AWSTranslator{client: client, logger: logger}
}

func (t *AWSTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	source, target = NormalizeLang(source), NormalizeLang(target)
	if source == target {
		return text, nil
	}
	if source == "" || source == LangAuto {
		source = "auto" // Amazon Translate runs its own detection
	}

	out, err := t.client.TranslateText(ctx, &awstranslate.TranslateTextInput{
		Text:               aws.String(text),
		SourceLanguageCode: aws.String(source),
		TargetLanguageCode: aws.String(target),
	})
	if err != nil {
		t.logger.Warn("aws translate failed", zap.String("source", source), zap.String("target", target), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return aws.ToString(out.TranslatedText), nil
}
