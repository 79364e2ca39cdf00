package sharedctx

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	wordRe     = regexp.MustCompile(`[\p{L}][\p{L}'’-]*`)
	sentenceRe = regexp.MustCompile(`[^.!?\n]+[.!?]*`)
)

const minVocabLength = 4

func tokenize(text string) []string {
	raw := wordRe.FindAllString(text, -1)
	out := make([]string, 0, len(raw))
	for _, w := range raw {
		w = strings.Trim(strings.ToLower(w), "'’-")
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// keyVocabulary ranks content words by frequency, ties broken by first
// appearance, and returns at most n of them.
func keyVocabulary(tokens []string, n int) []string {
	type cand struct {
		word  string
		count int
		first int
	}
	byWord := make(map[string]*cand)
	var order []*cand
	for i, t := range tokens {
		if len([]rune(t)) < minVocabLength || stopwords[t] || strings.ContainsAny(t, "'’") {
			continue
		}
		c, ok := byWord[t]
		if !ok {
			c = &cand{word: t, first: i}
			byWord[t] = c
			order = append(order, c)
		}
		c.count++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})

	out := make([]string, 0, n)
	for _, c := range order {
		if len(out) == n {
			break
		}
		out = append(out, c.word)
	}
	return out
}

// detectThemes tags the text with lexicon themes. A theme needs two keyword
// hits, or one when the text is short.
func detectThemes(tokens []string) []string {
	need := 2
	if len(tokens) < 120 {
		need = 1
	}

	type hit struct {
		theme string
		count int
	}
	var hits []hit
	for _, th := range themeLexicon {
		n := 0
		for _, t := range tokens {
			for _, kw := range th.keywords {
				if t == kw || (len(kw) >= 5 && strings.HasPrefix(t, kw)) {
					n++
					break
				}
			}
		}
		if n >= need {
			hits = append(hits, hit{th.name, n})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].count > hits[j].count })
	out := make([]string, 0, 3)
	for _, h := range hits {
		if len(out) == 3 {
			break
		}
		out = append(out, h.theme)
	}
	return out
}

func measureDifficulty(text string, tokens []string) Difficulty {
	if len(tokens) == 0 {
		return Difficulty{Label: "unknown"}
	}

	sentences := 0
	for _, s := range sentenceRe.FindAllString(text, -1) {
		if strings.IndexFunc(s, unicode.IsLetter) >= 0 {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}

	letters, long := 0, 0
	for _, t := range tokens {
		n := len([]rune(t))
		letters += n
		if n >= 7 {
			long++
		}
	}

	d := Difficulty{
		AvgSentenceLength: float64(len(tokens)) / float64(sentences),
		AvgWordLength:     float64(letters) / float64(len(tokens)),
		LongWordRatio:     float64(long) / float64(len(tokens)),
	}
	d.Score = 0.4*unit(d.AvgSentenceLength/25) +
		0.3*unit((d.AvgWordLength-3)/4) +
		0.3*unit(d.LongWordRatio/0.35)

	switch {
	case d.Score < 0.35:
		d.Label = "easy"
	case d.Score < 0.6:
		d.Label = "moderate"
	default:
		d.Label = "challenging"
	}
	return d
}

func unit(x float64) float64 {
	return max(0, min(1, x))
}
