// Package translation sends story text to a machine translation provider.
package translation

import "context"

// Translator translates texts into one target language. The result has the
// same length and order as texts.
type Translator interface {
	Translate(ctx context.Context, texts []string, target string) ([]string, error)
}
