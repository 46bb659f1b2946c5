package digest

import "time"

// Document is the rendered digest for one run.
type Document struct {
	Subject     string
	HTML        string
	Text        string
	GeneratedAt time.Time
	Sections    []TranslatedSection
}

func (d *Document) StoryCount() int {
	total := 0
	for _, s := range d.Sections {
		total += len(s.Stories)
	}
	return total
}
