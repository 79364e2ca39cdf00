// Package batch generates many lessons from a YAML manifest with bounded
// concurrency.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/lessonforge/internal/cefr"
	"github.com/abhisek/lessonforge/internal/lesson"
)

// Manifest lists the lessons to generate.
//
//	defaults:
//	  lesson_type: discussion
//	  level: B1
//	  target_language: English
//	jobs:
//	  - name: climate
//	    source: articles/climate.html
//	    title: "Climate change speeds up"
type Manifest struct {
	Defaults JobSpec   `yaml:"defaults"`
	Jobs     []JobSpec `yaml:"jobs"`
}

// JobSpec is one manifest entry. Empty fields take the manifest defaults.
type JobSpec struct {
	Name           string `yaml:"name"`
	Source         string `yaml:"source"`
	LessonType     string `yaml:"lesson_type"`
	Level          string `yaml:"level"`
	TargetLanguage string `yaml:"target_language"`
	SourceLanguage string `yaml:"source_language"`
	Title          string `yaml:"title"`
	URL            string `yaml:"url"`
	Author         string `yaml:"author"`
	Domain         string `yaml:"domain"`
}

// Job is a resolved manifest entry ready to generate.
type Job struct {
	Name       string
	Request    lesson.Request
	Extraction *lesson.Extraction
}

// LoadManifest reads a manifest and the source files it names. Relative
// source paths are resolved against the manifest's directory.
func LoadManifest(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if len(m.Jobs) == 0 {
		return nil, fmt.Errorf("manifest %s has no jobs", path)
	}

	dir := filepath.Dir(path)
	seen := make(map[string]bool, len(m.Jobs))
	jobs := make([]Job, 0, len(m.Jobs))
	for i, spec := range m.Jobs {
		spec = spec.withDefaults(m.Defaults)
		if spec.Source == "" {
			return nil, fmt.Errorf("job %d: source is required", i+1)
		}
		if spec.Name == "" {
			spec.Name = strings.TrimSuffix(filepath.Base(spec.Source), filepath.Ext(spec.Source))
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("job %d: duplicate name %q", i+1, spec.Name)
		}
		seen[spec.Name] = true

		src := spec.Source
		if !filepath.IsAbs(src) {
			src = filepath.Join(dir, src)
		}
		text, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("job %q: read source: %w", spec.Name, err)
		}
		jobs = append(jobs, spec.job(string(text)))
	}
	return jobs, nil
}

func (s JobSpec) withDefaults(d JobSpec) JobSpec {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&s.LessonType, d.LessonType)
	fill(&s.Level, d.Level)
	fill(&s.TargetLanguage, d.TargetLanguage)
	fill(&s.SourceLanguage, d.SourceLanguage)
	fill(&s.Domain, d.Domain)
	fill(&s.Author, d.Author)
	return s
}

func (s JobSpec) job(text string) Job {
	return Job{
		Name: s.Name,
		Request: lesson.Request{
			SourceText:     text,
			LessonType:     lesson.Type(s.LessonType),
			Level:          cefr.Level(s.Level),
			TargetLanguage: s.TargetLanguage,
			SourceLanguage: s.SourceLanguage,
		},
		Extraction: &lesson.Extraction{
			Text:      text,
			Title:     s.Title,
			Author:    s.Author,
			Domain:    s.Domain,
			SourceURL: s.URL,
		},
	}
}
