package digest

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FetchStatus records how a section's fetch ended.
type FetchStatus string

const (
	FetchStatusPending     FetchStatus = "pending"
	FetchStatusOK          FetchStatus = "ok"
	FetchStatusRateLimited FetchStatus = "rate_limited"
	FetchStatusFailed      FetchStatus = "failed"
)

// Section is a configured news category and the stories fetched for it.
type Section struct {
	id      string
	stories []Story
	status  FetchStatus
	failure string
}

func NewSection(id string) *Section {
	return &Section{
		id:     strings.TrimSpace(id),
		status: FetchStatusPending,
	}
}

// RecordStories stores the fetched stories, keeping at most limit of them.
func (s *Section) RecordStories(stories []Story, limit int) {
	if limit >= 0 && len(stories) > limit {
		stories = stories[:limit]
	}
	s.stories = append([]Story(nil), stories...)
	s.status = FetchStatusOK
	s.failure = ""
}

// MarkFailed leaves the section empty and remembers why.
func (s *Section) MarkFailed(status FetchStatus, reason string) {
	s.stories = nil
	s.status = status
	s.failure = reason
}

func (s *Section) ID() string          { return s.id }
func (s *Section) Status() FetchStatus { return s.status }
func (s *Section) Failure() string     { return s.failure }
func (s *Section) Len() int            { return len(s.stories) }
func (s *Section) IsEmpty() bool       { return len(s.stories) == 0 }

// Stories returns a copy of the section's stories in fetch order.
func (s *Section) Stories() []Story {
	return append([]Story(nil), s.stories...)
}

// Title returns the heading shown in the digest, e.g. "nyregion" -> "Nyregion",
// "arts/design" -> "Arts & Design".
func (s *Section) Title() string {
	return SectionTitle(s.id)
}

func SectionTitle(id string) string {
	name := strings.ReplaceAll(id, "_", " ")
	name = strings.ReplaceAll(name, "/", " & ")
	return cases.Title(language.English).String(name)
}

// TranslatedSection is a section ready for rendering.
type TranslatedSection struct {
	ID      string
	Title   string
	Status  FetchStatus
	Stories []TranslatedStory
}

func (s TranslatedSection) IsEmpty() bool {
	return len(s.Stories) == 0
}

// CountStories sums the stories across sections.
func CountStories(sections []*Section) int {
	total := 0
	for _, s := range sections {
		total += s.Len()
	}
	return total
}
