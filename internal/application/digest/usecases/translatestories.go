package usecases

import (
	"context"

	"github.com/orris-inc/newsdigest/internal/domain/digest"
	apperrors "github.com/orris-inc/newsdigest/internal/shared/errors"
	"github.com/orris-inc/newsdigest/internal/shared/logger"
)

type TranslateStoriesUseCase struct {
	translator TextTranslator
	logger     logger.Interface
}

func NewTranslateStoriesUseCase(
	translator TextTranslator,
	logger logger.Interface,
) *TranslateStoriesUseCase {
	return &TranslateStoriesUseCase{
		translator: translator,
		logger:     logger,
	}
}

// Execute translates every fetched title and abstract in one batch. Any
// failure is fatal and nothing partial is returned.
func (uc *TranslateStoriesUseCase) Execute(ctx context.Context, sections []*digest.Section, target string) ([]digest.TranslatedSection, error) {
	batch := digest.NewTranslationBatch(sections)
	if batch.Len() == 0 {
		return batch.Apply(sections, nil)
	}

	uc.logger.Infow("translating stories",
		"texts", batch.Len(),
		"target", target,
	)

	translated, err := uc.translator.Translate(ctx, batch.Texts, target)
	if err != nil {
		uc.logger.Errorw("translation failed", "error", err)
		if apperrors.IsTranslationError(err) {
			return nil, err
		}
		return nil, apperrors.NewTranslationError("translation request failed", err, target)
	}

	result, err := batch.Apply(sections, translated)
	if err != nil {
		uc.logger.Errorw("translation batch rejected",
			"sent", batch.Len(),
			"received", len(translated),
		)
		return nil, err
	}

	return result, nil
}
