package template

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/orris-inc/newsdigest/internal/domain/digest"
	"github.com/orris-inc/newsdigest/internal/shared/biztime"
	apperrors "github.com/orris-inc/newsdigest/internal/shared/errors"
	"github.com/orris-inc/newsdigest/internal/shared/services/markdown"
)

const (
	DefaultBriefingTitle = "Daily News Digest"
	DefaultEmailSubject  = "Daily News Digest - {date}"

	datePlaceholder = "{date}"
)

// Meta carries the per-run values that are not part of the stories.
type Meta struct {
	BriefingTitle  string
	EmailSubject   string
	TargetLanguage string
	IntroMarkdown  string
	GeneratedAt    time.Time
}

type storyView struct {
	Title    string
	Abstract string
	URL      string
	Byline   string
}

type sectionView struct {
	Title   string
	Empty   bool
	Stories []storyView
}

type documentView struct {
	Title        string
	DateISO      string
	DateLong     string
	LanguageCode string
	LanguageName string
	IntroHTML    htmltemplate.HTML
	Sections     []sectionView
}

// Renderer produces the digest document. Output depends only on its inputs.
type Renderer struct {
	templates *Templates
	markdown  markdown.Service
}

func NewRenderer(templates *Templates, markdown markdown.Service) *Renderer {
	return &Renderer{
		templates: templates,
		markdown:  markdown,
	}
}

func (r *Renderer) Render(sections []digest.TranslatedSection, meta Meta) (*digest.Document, error) {
	view, err := r.buildView(sections, meta)
	if err != nil {
		return nil, err
	}

	var html bytes.Buffer
	if err := r.templates.HTML.Execute(&html, view); err != nil {
		return nil, apperrors.NewRenderError("failed to render html digest", err)
	}

	var text bytes.Buffer
	if err := r.templates.Text.Execute(&text, view); err != nil {
		return nil, apperrors.NewRenderError("failed to render text digest", err)
	}

	return &digest.Document{
		Subject:     Subject(meta.EmailSubject, meta.GeneratedAt),
		HTML:        html.String(),
		Text:        text.String(),
		GeneratedAt: meta.GeneratedAt,
		Sections:    sections,
	}, nil
}

func (r *Renderer) buildView(sections []digest.TranslatedSection, meta Meta) (*documentView, error) {
	title := meta.BriefingTitle
	if title == "" {
		title = DefaultBriefingTitle
	}

	var intro htmltemplate.HTML
	if r.markdown != nil && meta.IntroMarkdown != "" {
		out, err := r.markdown.ToHTMLSanitized(meta.IntroMarkdown)
		if err != nil {
			return nil, apperrors.NewRenderError("failed to render intro", err)
		}
		// Sanitized by the markdown service.
		intro = htmltemplate.HTML(out)
	}

	view := &documentView{
		Title:        title,
		DateISO:      biztime.ISODate(meta.GeneratedAt),
		DateLong:     biztime.LongDate(meta.GeneratedAt),
		LanguageCode: meta.TargetLanguage,
		LanguageName: LanguageName(meta.TargetLanguage),
		IntroHTML:    intro,
		Sections:     make([]sectionView, 0, len(sections)),
	}

	for _, s := range sections {
		sv := sectionView{
			Title:   s.Title,
			Empty:   s.IsEmpty(),
			Stories: make([]storyView, 0, len(s.Stories)),
		}
		if sv.Title == "" {
			sv.Title = digest.SectionTitle(s.ID)
		}
		for _, st := range s.Stories {
			sv.Stories = append(sv.Stories, storyView{
				Title:    st.TranslatedTitle(),
				Abstract: st.TranslatedAbstract(),
				URL:      st.URL(),
				Byline:   st.Byline(),
			})
		}
		view.Sections = append(view.Sections, sv)
	}

	return view, nil
}

// Subject fills the {date} placeholder with the short date.
func Subject(pattern string, at time.Time) string {
	if pattern == "" {
		pattern = DefaultEmailSubject
	}
	return strings.ReplaceAll(pattern, datePlaceholder, biztime.ShortDate(at))
}

// LanguageName returns the name of a language in that language itself
// ("de" -> "Deutsch"), then the English name, then the code.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	if name := display.Languages(language.English).Name(tag); name != "" {
		return name
	}
	return code
}
