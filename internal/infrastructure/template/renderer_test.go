package template

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/newsdigest/internal/domain/digest"
	apperrors "github.com/orris-inc/newsdigest/internal/shared/errors"
	"github.com/orris-inc/newsdigest/internal/shared/logger"
	"github.com/orris-inc/newsdigest/internal/shared/services/markdown"
)

var generatedAt = time.Date(2024, time.March, 5, 7, 30, 0, 0, time.UTC)

func translatedStory(t *testing.T, section, title, abstract, url string) digest.TranslatedStory {
	t.Helper()
	story, err := digest.NewStory(section, title, abstract, url, "By Someone")
	require.NoError(t, err)
	return digest.NewTranslatedStory(story, "DE "+title, "DE "+abstract)
}

func testSections(t *testing.T) []digest.TranslatedSection {
	return []digest.TranslatedSection{
		{
			ID:     "world",
			Title:  "World",
			Status: digest.FetchStatusOK,
			Stories: []digest.TranslatedStory{
				translatedStory(t, "world", "Summit <ends> & talks", "Leaders met.", "https://example.com/w1"),
				translatedStory(t, "world", "Flooding", "Rivers rose.", "https://example.com/w2"),
			},
		},
		{
			ID:     "arts/design",
			Status: digest.FetchStatusFailed,
		},
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	templates, err := NewDigestTemplateLoader("", logger.NewNopLogger()).Load()
	require.NoError(t, err)
	return NewRenderer(templates, markdown.NewService())
}

func testMeta() Meta {
	return Meta{
		BriefingTitle:  "Morgenbriefing",
		EmailSubject:   "Briefing {date}",
		TargetLanguage: "de",
		GeneratedAt:    generatedAt,
	}
}

func TestRenderer_Render(t *testing.T) {
	doc, err := newTestRenderer(t).Render(testSections(t), testMeta())
	require.NoError(t, err)

	assert.Equal(t, "Briefing 05.03.2024", doc.Subject)
	assert.Equal(t, generatedAt, doc.GeneratedAt)
	assert.Equal(t, 2, doc.StoryCount())

	assert.Contains(t, doc.HTML, "<h1>Morgenbriefing</h1>")
	assert.Contains(t, doc.HTML, `<time class="digest-date" datetime="2024-03-05">March 5, 2024</time>`)
	assert.Contains(t, doc.HTML, "Deutsch")
	assert.Contains(t, doc.HTML, `<a href="https://example.com/w1">DE Summit &lt;ends&gt; &amp; talks</a>`)
	assert.Contains(t, doc.HTML, "DE Leaders met.")
	assert.Contains(t, doc.HTML, "By Someone")

	assert.Contains(t, doc.Text, "== World ==")
	assert.Contains(t, doc.Text, "https://example.com/w2")
}

func TestRenderer_EmptySection(t *testing.T) {
	doc, err := newTestRenderer(t).Render(testSections(t), testMeta())
	require.NoError(t, err)

	assert.Contains(t, doc.HTML, "<h2>Arts &amp; Design</h2>")
	assert.Contains(t, doc.HTML, `<p class="section-empty">No stories available.</p>`)
	assert.Contains(t, doc.Text, "== Arts & Design ==\nNo stories available.")
}

func TestRenderer_IsDeterministic(t *testing.T) {
	r := newTestRenderer(t)

	first, err := r.Render(testSections(t), testMeta())
	require.NoError(t, err)
	second, err := r.Render(testSections(t), testMeta())
	require.NoError(t, err)

	assert.Equal(t, first.HTML, second.HTML)
	assert.Equal(t, first.Text, second.Text)
}

func TestRenderer_Intro(t *testing.T) {
	meta := testMeta()
	meta.IntroMarkdown = "Good **morning**<script>x()</script>"

	doc, err := newTestRenderer(t).Render(testSections(t), meta)
	require.NoError(t, err)

	assert.Contains(t, doc.HTML, "<strong>morning</strong>")
	assert.NotContains(t, doc.HTML, "<script>")
}

func TestRenderer_Defaults(t *testing.T) {
	doc, err := newTestRenderer(t).Render(nil, Meta{TargetLanguage: "fr", GeneratedAt: generatedAt})
	require.NoError(t, err)

	assert.Equal(t, "Daily News Digest - 05.03.2024", doc.Subject)
	assert.Contains(t, doc.HTML, "<h1>Daily News Digest</h1>")
	assert.Contains(t, doc.HTML, "français")
}

func TestDigestTemplateLoader_Override(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.html")
	require.NoError(t, os.WriteFile(path, []byte(`<p>{{.Title}}: {{len .Sections}}</p>`), 0o600))

	templates, err := NewDigestTemplateLoader(path, logger.NewNopLogger()).Load()
	require.NoError(t, err)
	assert.Equal(t, path, templates.Source)

	doc, err := NewRenderer(templates, nil).Render(testSections(t), testMeta())
	require.NoError(t, err)
	assert.Equal(t, "<p>Morgenbriefing: 2</p>", doc.HTML)
}

func TestDigestTemplateLoader_MissingOverrideFallsBack(t *testing.T) {
	templates, err := NewDigestTemplateLoader(filepath.Join(t.TempDir(), "nope.html"), logger.NewNopLogger()).Load()
	require.NoError(t, err)
	assert.Empty(t, templates.Source)
}

func TestDigestTemplateLoader_BrokenOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.html")
	require.NoError(t, os.WriteFile(path, []byte(`{{.Title`), 0o600))

	_, err := NewDigestTemplateLoader(path, logger.NewNopLogger()).Load()
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRender))
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "Deutsch", LanguageName("de"))
	assert.Equal(t, "español", LanguageName("es"))
	assert.Equal(t, "français", LanguageName("fr"))
	assert.Equal(t, "??", LanguageName("??"))
}
