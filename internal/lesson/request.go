package lesson

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/lessonforge/internal/cefr"
)

// MinSourceLength is the shortest source text, in characters, that can carry
// a full lesson.
const MinSourceLength = 200

// Request holds the caller's lesson parameters. Every field except
// SourceLanguage is required.
type Request struct {
	SourceText     string     `json:"source_text" validate:"required,min=200"`
	LessonType     Type       `json:"lesson_type" validate:"required,lesson_type"`
	Level          cefr.Level `json:"level" validate:"required,cefr_level"`
	TargetLanguage string     `json:"target_language" validate:"required,max=40"`
	SourceLanguage string     `json:"source_language,omitempty" validate:"max=40"`
}

// Extraction is page metadata from the content extractor. Only Text is
// expected; everything else may be empty.
type Extraction struct {
	Text           string `json:"text"`
	Title          string `json:"title,omitempty"`
	Author         string `json:"author,omitempty"`
	Domain         string `json:"domain,omitempty"`
	SourceURL      string `json:"source_url,omitempty" validate:"omitempty,url"`
	BannerImageURL string `json:"banner_image_url,omitempty" validate:"omitempty,url"`
	WordCount      int    `json:"word_count,omitempty"`
	ReadingTime    int    `json:"reading_time,omitempty"`
}

// RequestError reports the first invalid request field.
type RequestError struct {
	Field  string
	Reason string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid lesson request: %s %s", e.Field, e.Reason)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("cefr_level", func(fl validator.FieldLevel) bool {
		return cefr.Level(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("lesson_type", func(fl validator.FieldLevel) bool {
		return Type(fl.Field().String()).Valid()
	})
	return v
}

// Normalize trims whitespace and canonicalizes the level and type spelling.
func (r Request) Normalize() Request {
	r.SourceText = strings.TrimSpace(r.SourceText)
	r.LessonType = Type(strings.ToLower(strings.TrimSpace(string(r.LessonType))))
	r.Level = cefr.Level(strings.ToUpper(strings.TrimSpace(string(r.Level))))
	r.TargetLanguage = strings.TrimSpace(r.TargetLanguage)
	r.SourceLanguage = strings.TrimSpace(r.SourceLanguage)
	return r
}

// Validate fails fast on a missing or malformed field. It never substitutes
// defaults.
func (r Request) Validate() error {
	return structError(validate.Struct(r))
}

// Validate checks the optional URLs of an extraction.
func (e *Extraction) Validate() error {
	if e == nil {
		return nil
	}
	return structError(validate.Struct(e))
}

func structError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &RequestError{Field: fe.Field(), Reason: reason(fe)}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "cefr_level":
		return "must be one of A1, A2, B1, B2, C1"
	case "lesson_type":
		return fmt.Sprintf("must be one of %s", strings.Join(typeNames(), ", "))
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed %q", fe.Tag())
	}
}
