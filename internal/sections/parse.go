package sections

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/llm"
)

var (
	labelRe    = regexp.MustCompile(`^\s*(?:[-*•]\s*)?\**([A-Za-z][A-Za-z ]{0,24}?)\**\s*:\s*(.*)$`)
	numberedRe = regexp.MustCompile(`^\s*(?:Q?\d{1,2}[.):]|[-*•])\s+(.+)$`)
	markdownRe = regexp.MustCompile(`^\*+|\*+$`)
)

// parseSection tries the strict JSON contract first, then the tolerant
// labelled-line form. Neither path invents missing content.
func parseSection[T lesson.Section](kind lesson.Kind, text string, strict func(string) (T, error), tolerant func(string) (T, bool)) (T, error) {
	s, err := strict(text)
	if err == nil {
		return s, nil
	}
	if tolerant != nil {
		if s, ok := tolerant(text); ok {
			return s, nil
		}
	}
	var zero T
	return zero, &ParseError{Kind: kind, Err: err}
}

// decodeStrict decodes fenced or bare JSON after checking it against schema.
func decodeStrict(text string, schema *llm.Schema, out any) error {
	raw := json.RawMessage(llm.CleanJSONBlock(text))
	if !json.Valid(raw) {
		return errors.New("response is not valid JSON")
	}
	if err := llm.ValidateJSON(schema, raw); err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

const itemLabel = "ITEM"

type field struct {
	label string
	value string
}

// labelledFields reads "LABEL: value" lines. Numbered or bulleted lines
// become ITEM fields; other unlabelled lines continue the previous field.
// Labels are upper-cased with single spaces.
func labelledFields(text string) []field {
	if looksLikeJSON(text) {
		return nil
	}
	var out []field
	for _, line := range strings.Split(text, "\n") {
		if m := labelRe.FindStringSubmatch(line); m != nil {
			out = append(out, field{
				label: strings.Join(strings.Fields(strings.ToUpper(m[1])), " "),
				value: clean(m[2]),
			})
			continue
		}
		if m := numberedRe.FindStringSubmatch(line); m != nil {
			out = append(out, field{label: itemLabel, value: clean(m[1])})
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" || len(out) == 0 {
			continue
		}
		last := &out[len(out)-1]
		if last.value == "" {
			last.value = clean(line)
		} else {
			last.value += " " + clean(line)
		}
	}
	return out
}

// numberedItems returns the text of numbered or bulleted lines.
func numberedItems(text string) []string {
	if looksLikeJSON(text) {
		return nil
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if m := numberedRe.FindStringSubmatch(line); m != nil {
			if item := clean(m[1]); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func looksLikeJSON(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[") || strings.HasPrefix(t, "```")
}

func clean(s string) string {
	s = strings.TrimSpace(s)
	s = markdownRe.ReplaceAllString(s, "")
	s = strings.Trim(s, `"`)
	return strings.TrimSpace(s)
}

func hasLabel(label string, names ...string) bool {
	for _, n := range names {
		if label == n {
			return true
		}
	}
	return false
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
