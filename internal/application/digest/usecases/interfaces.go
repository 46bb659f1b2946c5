package usecases

import (
	"context"

	"github.com/orris-inc/newsdigest/internal/domain/digest"
	"github.com/orris-inc/newsdigest/internal/infrastructure/email"
	"github.com/orris-inc/newsdigest/internal/infrastructure/template"
)

// StoryClient fetches the top stories of one section.
type StoryClient interface {
	TopStories(ctx context.Context, section string, limit int) ([]digest.Story, error)
}

// Pacer blocks before each section request.
type Pacer interface {
	Wait(ctx context.Context) error
}

type TextTranslator interface {
	Translate(ctx context.Context, texts []string, target string) ([]string, error)
}

type DigestRenderer interface {
	Render(sections []digest.TranslatedSection, meta template.Meta) (*digest.Document, error)
}

type MailSender interface {
	Send(ctx context.Context, recipients []string, msg email.Message) (*email.DeliveryReport, error)
}

// LocalWriter stores the rendered HTML and returns where it went.
type LocalWriter interface {
	Write(html string) (string, error)
}
