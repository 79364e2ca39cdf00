package sharedctx

import (
	"strings"
	"unicode"
)

// minStemLength is the shortest word that may match an inflected form.
const minStemLength = 3

var inflections = []string{"ing", "ed", "es", "s"}

// Words splits text into lowercase whole words for term matching. Hyphens
// separate words; a possessive 's is dropped.
func Words(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '’'
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'’")
		f = strings.TrimSuffix(strings.TrimSuffix(f, "'s"), "’s")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Mentions reports whether text uses term as a whole word, or as a
// sequence of whole words for multi-word terms. Regular inflections of
// either side match ("melt" and "melting", "rise" and "rising").
func Mentions(text, term string) bool {
	return MentionedIn(Words(text), term)
}

// MentionedIn is Mentions over words already split by Words.
func MentionedIn(words []string, term string) bool {
	want := Words(term)
	if len(want) == 0 || len(want) > len(words) {
		return false
	}
outer:
	for i := 0; i+len(want) <= len(words); i++ {
		for j, w := range want {
			if !SameWord(words[i+j], w) {
				continue outer
			}
		}
		return true
	}
	return false
}

// CountMentioned returns how many of terms appear in text.
func CountMentioned(text string, terms []string) int {
	words := Words(text)
	n := 0
	for _, t := range terms {
		if MentionedIn(words, t) {
			n++
		}
	}
	return n
}

// SameWord reports whether a and b are the same lowercase word up to a
// regular inflection, including two inflections of one stem ("melts" and
// "melting").
func SameWord(a, b string) bool {
	if a == b {
		return true
	}
	sb := stems(b)
	for _, x := range stems(a) {
		for _, y := range sb {
			if x == y {
				return true
			}
		}
	}
	return false
}

// stems returns w and the bases it may be inflected from.
func stems(w string) []string {
	out := []string{w}
	add := func(s string) {
		if len(s) >= minStemLength {
			out = append(out, s)
		}
	}
	if strings.HasSuffix(w, "ies") || strings.HasSuffix(w, "ied") {
		add(w[:len(w)-3] + "y")
	}
	for _, suf := range inflections {
		if !strings.HasSuffix(w, suf) {
			continue
		}
		base := w[:len(w)-len(suf)]
		if len(base) < minStemLength {
			continue
		}
		add(base)
		if suf == "ed" || suf == "ing" {
			add(base + "e")
			if n := len(base); base[n-1] == base[n-2] {
				add(base[:n-1])
			}
		}
	}
	return out
}
