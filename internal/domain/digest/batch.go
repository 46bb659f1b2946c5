package digest

import (
	"fmt"

	apperrors "github.com/orris-inc/newsdigest/internal/shared/errors"
)

// Field identifies which story text a batch entry came from.
type Field int

const (
	FieldTitle Field = iota
	FieldAbstract
)

func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldAbstract:
		return "abstract"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// FieldKey locates a batch entry: section index, story index within the
// section, and field.
type FieldKey struct {
	Section int
	Story   int
	Field   Field
}

// TranslationBatch is the flat list of strings sent to the translator plus
// the parallel index that maps each entry back to its story.
// Keys[i] describes Texts[i].
type TranslationBatch struct {
	Texts []string
	Keys  []FieldKey
}

// NewTranslationBatch flattens every story's title then abstract, section by
// section and story by story.
func NewTranslationBatch(sections []*Section) TranslationBatch {
	n := 2 * CountStories(sections)
	batch := TranslationBatch{
		Texts: make([]string, 0, n),
		Keys:  make([]FieldKey, 0, n),
	}
	for si, section := range sections {
		for ti, story := range section.stories {
			batch.add(story.Title(), FieldKey{Section: si, Story: ti, Field: FieldTitle})
			batch.add(story.Abstract(), FieldKey{Section: si, Story: ti, Field: FieldAbstract})
		}
	}
	return batch
}

func (b *TranslationBatch) add(text string, key FieldKey) {
	b.Texts = append(b.Texts, text)
	b.Keys = append(b.Keys, key)
}

func (b TranslationBatch) Len() int {
	return len(b.Texts)
}

// Apply maps translated strings back onto the sections the batch was built
// from. A result of a different length is a broken positional contract and
// fails without partial output.
func (b TranslationBatch) Apply(sections []*Section, translated []string) ([]TranslatedSection, error) {
	if len(translated) != len(b.Texts) {
		return nil, apperrors.NewTranslationError(
			"translation batch size mismatch",
			apperrors.ErrTranslationMismatch,
			fmt.Sprintf("sent %d, received %d", len(b.Texts), len(translated)),
		)
	}

	type pair struct{ title, abstract string }
	texts := make([][]pair, len(sections))
	for si, section := range sections {
		texts[si] = make([]pair, section.Len())
	}

	for i, key := range b.Keys {
		if key.Section >= len(texts) || key.Story >= len(texts[key.Section]) {
			return nil, apperrors.NewTranslationError(
				"translation batch index out of range",
				apperrors.ErrTranslationMismatch,
				fmt.Sprintf("entry %d: section %d story %d", i, key.Section, key.Story),
			)
		}
		switch key.Field {
		case FieldTitle:
			texts[key.Section][key.Story].title = translated[i]
		case FieldAbstract:
			texts[key.Section][key.Story].abstract = translated[i]
		}
	}

	result := make([]TranslatedSection, len(sections))
	for si, section := range sections {
		stories := make([]TranslatedStory, section.Len())
		for ti, story := range section.stories {
			p := texts[si][ti]
			stories[ti] = NewTranslatedStory(story, p.title, p.abstract)
		}
		result[si] = TranslatedSection{
			ID:      section.ID(),
			Title:   section.Title(),
			Status:  section.Status(),
			Stories: stories,
		}
	}
	return result, nil
}
