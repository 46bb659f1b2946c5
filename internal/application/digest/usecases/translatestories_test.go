package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/orris-inc/newsdigest/internal/shared/errors"
)

func TestTranslateStoriesUseCase_Execute_Success(t *testing.T) {
	sections := fetchedSections(t, map[string]int{"world": 3, "science": 3}, "world", "science")
	translator := new(mockTranslator)

	translator.On("Translate", mock.Anything, mock.MatchedBy(func(texts []string) bool {
		return len(texts) == 12 && texts[0] == "world title 1" && texts[1] == "world abstract 1"
	}), "de").Return(func() []string {
		texts := make([]string, 0, 12)
		for _, s := range sections {
			for _, st := range s.Stories() {
				texts = append(texts, st.Title(), st.Abstract())
			}
		}
		return prefixAll("de:", texts)
	}(), nil).Once()

	result, err := NewTranslateStoriesUseCase(translator, newMockLogger()).
		Execute(context.Background(), sections, "de")

	require.NoError(t, err)
	require.Len(t, result, 2)
	require.Len(t, result[1].Stories, 3)
	assert.Equal(t, "de:science title 2", result[1].Stories[1].TranslatedTitle())
	assert.Equal(t, "de:science abstract 2", result[1].Stories[1].TranslatedAbstract())
	assert.Equal(t, "science title 2", result[1].Stories[1].Title())
	translator.AssertExpectations(t)
}

func TestTranslateStoriesUseCase_Execute_CountMismatchIsFatal(t *testing.T) {
	sections := fetchedSections(t, map[string]int{"world": 3}, "world")
	translator := new(mockTranslator)

	translator.On("Translate", mock.Anything, mock.Anything, "de").
		Return([]string{"a", "b", "c", "d", "e"}, nil)

	result, err := NewTranslateStoriesUseCase(translator, newMockLogger()).
		Execute(context.Background(), sections, "de")

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, apperrors.ErrTranslationMismatch))
}

func TestTranslateStoriesUseCase_Execute_ProviderErrorIsFatal(t *testing.T) {
	sections := fetchedSections(t, map[string]int{"world": 1}, "world")
	translator := new(mockTranslator)

	translator.On("Translate", mock.Anything, mock.Anything, "de").
		Return(nil, errors.New("connection reset"))

	_, err := NewTranslateStoriesUseCase(translator, newMockLogger()).
		Execute(context.Background(), sections, "de")

	require.Error(t, err)
	assert.True(t, apperrors.IsTranslationError(err))
}

func TestTranslateStoriesUseCase_Execute_EmptyBatchSkipsProvider(t *testing.T) {
	sections := fetchedSections(t, map[string]int{"world": 0}, "world")
	translator := new(mockTranslator)

	result, err := NewTranslateStoriesUseCase(translator, newMockLogger()).
		Execute(context.Background(), sections, "de")

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.True(t, result[0].IsEmpty())
	translator.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything, mock.Anything)
}
