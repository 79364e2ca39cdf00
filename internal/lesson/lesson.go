package lesson

import (
	"time"

	"github.com/abhisek/lessonforge/internal/cefr"
)

// FormatVersion is the semantic version of the Lesson JSON shape. Readers
// accept any lesson with the same major version.
const FormatVersion = "v1.1.0"

// Lesson is the assembled output handed to storage and export.
type Lesson struct {
	ID             string      `json:"id"`
	FormatVersion  string      `json:"format_version"`
	LessonType     Type        `json:"lesson_type"`
	Level          cefr.Level  `json:"level"`
	TargetLanguage string      `json:"target_language"`
	Title          string      `json:"title"`
	Sections       Sections    `json:"sections"`
	Provenance     *Provenance `json:"provenance,omitempty"`
	Topics         *Topics     `json:"topics,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// Topics is the key vocabulary and themes the sections were generated and
// validated against. Lessons written before format v1.1.0 omit it.
type Topics struct {
	Vocabulary []string `json:"vocabulary"`
	Themes     []string `json:"themes"`
}

// Provenance is extraction metadata passed through unmodified.
type Provenance struct {
	SourceURL      string `json:"source_url,omitempty"`
	Domain         string `json:"domain,omitempty"`
	BannerImageURL string `json:"banner_image_url,omitempty"`
	Author         string `json:"author,omitempty"`
}

// ProvenanceFrom returns nil when the extraction carries no provenance.
func ProvenanceFrom(e *Extraction) *Provenance {
	if e == nil {
		return nil
	}
	p := &Provenance{
		SourceURL:      e.SourceURL,
		Domain:         e.Domain,
		BannerImageURL: e.BannerImageURL,
		Author:         e.Author,
	}
	if *p == (Provenance{}) {
		return nil
	}
	return p
}
