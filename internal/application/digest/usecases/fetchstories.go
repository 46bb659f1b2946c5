package usecases

import (
	"context"
	"errors"

	"github.com/orris-inc/newsdigest/internal/domain/digest"
	apperrors "github.com/orris-inc/newsdigest/internal/shared/errors"
	"github.com/orris-inc/newsdigest/internal/shared/logger"
)

type FetchStoriesCommand struct {
	Sections      []string
	MaxPerSection int
}

type FetchStoriesUseCase struct {
	client StoryClient
	pacer  Pacer
	logger logger.Interface
}

func NewFetchStoriesUseCase(
	client StoryClient,
	pacer Pacer,
	logger logger.Interface,
) *FetchStoriesUseCase {
	return &FetchStoriesUseCase{
		client: client,
		pacer:  pacer,
		logger: logger,
	}
}

// Execute fetches every section in order. A section that fails is kept empty
// with its failure recorded; only cancellation aborts the whole fetch.
func (uc *FetchStoriesUseCase) Execute(ctx context.Context, cmd FetchStoriesCommand) ([]*digest.Section, error) {
	uc.logger.Infow("fetching top stories",
		"sections", len(cmd.Sections),
		"max_per_section", cmd.MaxPerSection,
	)

	sections := make([]*digest.Section, 0, len(cmd.Sections))
	for _, id := range cmd.Sections {
		if err := uc.pacer.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			uc.logger.Warnw("pacer wait failed", "section", id, "error", err)
		}

		section := digest.NewSection(id)
		sections = append(sections, section)

		stories, err := uc.client.TopStories(ctx, section.ID(), cmd.MaxPerSection)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			status := digest.FetchStatusFailed
			if errors.Is(err, apperrors.ErrRateLimitExhausted) {
				status = digest.FetchStatusRateLimited
			}
			section.MarkFailed(status, err.Error())
			uc.logger.Warnw("section fetch failed, continuing with empty section",
				"section", section.ID(),
				"status", status,
				"error", err,
			)
			continue
		}

		section.RecordStories(stories, cmd.MaxPerSection)
		uc.logger.Infow("section fetched",
			"section", section.ID(),
			"stories", section.Len(),
		)
	}

	return sections, nil
}
