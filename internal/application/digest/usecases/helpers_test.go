package usecases

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orris-inc/newsdigest/internal/domain/digest"
)

func makeStories(t *testing.T, section string, n int) []digest.Story {
	t.Helper()
	stories := make([]digest.Story, 0, n)
	for i := 1; i <= n; i++ {
		story, err := digest.NewStory(section,
			fmt.Sprintf("%s title %d", section, i),
			fmt.Sprintf("%s abstract %d", section, i),
			fmt.Sprintf("https://example.com/%s/%d", section, i),
			"By Staff",
		)
		require.NoError(t, err)
		stories = append(stories, story)
	}
	return stories
}

func fetchedSections(t *testing.T, counts map[string]int, order ...string) []*digest.Section {
	t.Helper()
	sections := make([]*digest.Section, 0, len(order))
	for _, id := range order {
		s := digest.NewSection(id)
		s.RecordStories(makeStories(t, id, counts[id]), counts[id])
		sections = append(sections, s)
	}
	return sections
}

// prefixAll mimics a translator that tags every input.
func prefixAll(prefix string, texts []string) []string {
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = prefix + text
	}
	return out
}
