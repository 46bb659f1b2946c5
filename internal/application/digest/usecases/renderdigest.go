package usecases

import (
	"github.com/orris-inc/newsdigest/internal/domain/digest"
	"github.com/orris-inc/newsdigest/internal/infrastructure/template"
	"github.com/orris-inc/newsdigest/internal/shared/logger"
)

type RenderDigestUseCase struct {
	renderer DigestRenderer
	logger   logger.Interface
}

func NewRenderDigestUseCase(renderer DigestRenderer, logger logger.Interface) *RenderDigestUseCase {
	return &RenderDigestUseCase{
		renderer: renderer,
		logger:   logger,
	}
}

func (uc *RenderDigestUseCase) Execute(sections []digest.TranslatedSection, meta template.Meta) (*digest.Document, error) {
	doc, err := uc.renderer.Render(sections, meta)
	if err != nil {
		uc.logger.Errorw("failed to render digest", "error", err)
		return nil, err
	}

	uc.logger.Infow("digest rendered",
		"sections", len(doc.Sections),
		"stories", doc.StoryCount(),
		"subject", doc.Subject,
	)
	return doc, nil
}
