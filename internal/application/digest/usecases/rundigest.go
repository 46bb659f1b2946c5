package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/newsdigest/internal/domain/digest"
	"github.com/orris-inc/newsdigest/internal/infrastructure/template"
	"github.com/orris-inc/newsdigest/internal/shared/biztime"
	apperrors "github.com/orris-inc/newsdigest/internal/shared/errors"
	"github.com/orris-inc/newsdigest/internal/shared/logger"
)

type RunDigestCommand struct {
	Sections       []string
	MaxPerSection  int
	TargetLanguage string
	Recipients     []string
	DryRun         bool
	BriefingTitle  string
	EmailSubject   string
	IntroMarkdown  string
}

type RunDigestResult struct {
	Sections []*digest.Section
	Document *digest.Document
	Delivery *DeliverDigestResult
	// Skipped is true when no section produced a story. SkipReason then
	// wraps ErrNoStories.
	Skipped    bool
	SkipReason error
}

// RunDigestUseCase runs fetch, translate, render and deliver in order.
type RunDigestUseCase struct {
	fetch     *FetchStoriesUseCase
	translate *TranslateStoriesUseCase
	render    *RenderDigestUseCase
	deliver   *DeliverDigestUseCase
	clock     biztime.Clock
	logger    logger.Interface
}

func NewRunDigestUseCase(
	fetch *FetchStoriesUseCase,
	translate *TranslateStoriesUseCase,
	render *RenderDigestUseCase,
	deliver *DeliverDigestUseCase,
	clock biztime.Clock,
	logger logger.Interface,
) *RunDigestUseCase {
	return &RunDigestUseCase{
		fetch:     fetch,
		translate: translate,
		render:    render,
		deliver:   deliver,
		clock:     clock,
		logger:    logger,
	}
}

func (uc *RunDigestUseCase) Execute(ctx context.Context, cmd RunDigestCommand) (*RunDigestResult, error) {
	uc.logger.Infow("digest run started",
		"sections", cmd.Sections,
		"target_language", cmd.TargetLanguage,
		"dry_run", cmd.DryRun,
	)

	sections, err := uc.fetch.Execute(ctx, FetchStoriesCommand{
		Sections:      cmd.Sections,
		MaxPerSection: cmd.MaxPerSection,
	})
	if err != nil {
		return nil, err
	}
	result := &RunDigestResult{Sections: sections}

	if digest.CountStories(sections) == 0 {
		result.Skipped = true
		result.SkipReason = fmt.Errorf("%w: %d sections", apperrors.ErrNoStories, len(sections))
		uc.logger.Warnw("skipping translation and delivery",
			"reason", result.SkipReason,
		)
		return result, nil
	}

	translated, err := uc.translate.Execute(ctx, sections, cmd.TargetLanguage)
	if err != nil {
		return nil, err
	}

	doc, err := uc.render.Execute(translated, template.Meta{
		BriefingTitle:  cmd.BriefingTitle,
		EmailSubject:   cmd.EmailSubject,
		TargetLanguage: cmd.TargetLanguage,
		IntroMarkdown:  cmd.IntroMarkdown,
		GeneratedAt:    uc.clock.Now(),
	})
	if err != nil {
		return nil, err
	}
	result.Document = doc

	delivery, err := uc.deliver.Execute(ctx, DeliverDigestCommand{
		Document:   doc,
		Recipients: cmd.Recipients,
		DryRun:     cmd.DryRun,
	})
	result.Delivery = delivery
	if err != nil {
		return result, err
	}

	uc.logger.Infow("digest run finished",
		"stories", doc.StoryCount(),
		"dry_run", cmd.DryRun,
	)
	return result, nil
}
