package digest

import (
	"fmt"
	"strings"
)

// Story is one news item as returned by the provider. It is immutable once
// created; translation produces a TranslatedStory instead of mutating it.
type Story struct {
	sectionID string
	title     string
	abstract  string
	url       string
	byline    string
}

func NewStory(sectionID, title, abstract, url, byline string) (Story, error) {
	sectionID = strings.TrimSpace(sectionID)
	if sectionID == "" {
		return Story{}, fmt.Errorf("section ID is required")
	}
	return Story{
		sectionID: sectionID,
		title:     strings.TrimSpace(title),
		abstract:  strings.TrimSpace(abstract),
		url:       strings.TrimSpace(url),
		byline:    strings.TrimSpace(byline),
	}, nil
}

func (s Story) SectionID() string { return s.sectionID }
func (s Story) Title() string     { return s.title }
func (s Story) Abstract() string  { return s.abstract }
func (s Story) URL() string       { return s.url }
func (s Story) Byline() string    { return s.byline }

// TranslatedStory pairs a Story with its translated title and abstract.
type TranslatedStory struct {
	Story
	translatedTitle    string
	translatedAbstract string
}

func NewTranslatedStory(story Story, title, abstract string) TranslatedStory {
	return TranslatedStory{
		Story:              story,
		translatedTitle:    title,
		translatedAbstract: abstract,
	}
}

func (t TranslatedStory) TranslatedTitle() string    { return t.translatedTitle }
func (t TranslatedStory) TranslatedAbstract() string { return t.translatedAbstract }
