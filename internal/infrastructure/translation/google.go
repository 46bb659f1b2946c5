package translation

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	translate "google.golang.org/api/translate/v2"

	apperrors "github.com/orris-inc/newsdigest/internal/shared/errors"
	"github.com/orris-inc/newsdigest/internal/shared/logger"
)

const defaultTimeout = 60 * time.Second

type GoogleConfig struct {
	// CredentialsFile is a service account JSON file. Takes precedence over APIKey.
	CredentialsFile string
	APIKey          string
	// Endpoint overrides the provider base URL.
	Endpoint string
	Timeout  time.Duration
}

// GoogleTranslator calls the Cloud Translation v2 API with one batch per call.
type GoogleTranslator struct {
	service *translate.Service
	timeout time.Duration
	logger  logger.Interface
}

var _ Translator = (*GoogleTranslator)(nil)

// NewGoogleTranslator builds the API client. Extra options are appended after
// the ones derived from config.
func NewGoogleTranslator(ctx context.Context, config GoogleConfig, logger logger.Interface, opts ...option.ClientOption) (*GoogleTranslator, error) {
	var clientOpts []option.ClientOption
	switch {
	case config.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(config.CredentialsFile))
	case config.APIKey != "":
		clientOpts = append(clientOpts, option.WithAPIKey(config.APIKey))
	}
	if config.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(config.Endpoint))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := translate.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to create translation client", err.Error())
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &GoogleTranslator{
		service: service,
		timeout: timeout,
		logger:  logger,
	}, nil
}

func (t *GoogleTranslator) Translate(ctx context.Context, texts []string, target string) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	t.logger.Infow("sending translation batch",
		"texts", len(texts),
		"target", target,
	)

	resp, err := t.service.Translations.Translate(&translate.TranslateTextRequest{
		Q:      texts,
		Target: target,
		Format: "text",
	}).Context(ctx).Do()
	if err != nil {
		return nil, apperrors.NewTranslationError("translation request failed", err, target)
	}

	if len(resp.Translations) != len(texts) {
		return nil, apperrors.NewTranslationError("translation batch rejected", apperrors.ErrTranslationMismatch,
			fmt.Sprintf("sent %d, received %d", len(texts), len(resp.Translations)))
	}

	out := make([]string, len(resp.Translations))
	for i, tr := range resp.Translations {
		if tr == nil {
			return nil, apperrors.NewTranslationError("translation batch rejected", apperrors.ErrTranslationMismatch,
				fmt.Sprintf("missing translation at index %d", i))
		}
		out[i] = tr.TranslatedText
	}
	return out, nil
}
