// Package template renders the digest document from translated sections.
package template

import (
	"embed"
	"errors"
	htmltemplate "html/template"
	"io/fs"
	"os"
	texttemplate "text/template"

	apperrors "github.com/orris-inc/newsdigest/internal/shared/errors"
	"github.com/orris-inc/newsdigest/internal/shared/logger"
)

const (
	htmlTemplateName = "digest.html.tmpl"
	textTemplateName = "digest.txt.tmpl"
)

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

// Templates holds the parsed HTML body and plain-text alternative.
type Templates struct {
	HTML *htmltemplate.Template
	Text *texttemplate.Template
	// Source is the override file in use, or "" for the embedded template.
	Source string
}

// DigestTemplateLoader loads the HTML template, preferring an override file
// when one is configured.
type DigestTemplateLoader struct {
	path   string
	logger logger.Interface
}

func NewDigestTemplateLoader(path string, logger logger.Interface) *DigestTemplateLoader {
	return &DigestTemplateLoader{
		path:   path,
		logger: logger,
	}
}

// Load parses the templates. A missing override file falls back to the
// embedded template; an override that fails to parse is an error.
func (l *DigestTemplateLoader) Load() (*Templates, error) {
	text, err := texttemplate.ParseFS(defaultTemplates, "templates/"+textTemplateName)
	if err != nil {
		return nil, apperrors.NewRenderError("failed to parse text template", err)
	}

	if l.path != "" {
		content, err := os.ReadFile(l.path)
		switch {
		case err == nil:
			html, err := htmltemplate.New(htmlTemplateName).Parse(string(content))
			if err != nil {
				return nil, apperrors.NewRenderError("failed to parse template override", err, l.path)
			}
			l.logger.Infow("loaded digest template",
				"file", l.path,
				"size", len(content),
			)
			return &Templates{HTML: html, Text: text, Source: l.path}, nil
		case errors.Is(err, fs.ErrNotExist):
			l.logger.Warnw("digest template not found, using default template", "path", l.path)
		default:
			l.logger.Warnw("failed to read digest template, using default template",
				"path", l.path,
				"error", err,
			)
		}
	}

	html, err := htmltemplate.ParseFS(defaultTemplates, "templates/"+htmlTemplateName)
	if err != nil {
		return nil, apperrors.NewRenderError("failed to parse default template", err)
	}
	return &Templates{HTML: html, Text: text}, nil
}
