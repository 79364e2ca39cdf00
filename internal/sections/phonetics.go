package sections

import (
	"regexp"
	"sort"
	"strings"
)

// SoundCategory groups words by the spelling pattern that makes them hard
// to pronounce.
type SoundCategory string

const (
	SoundConsonantDigraph SoundCategory = "consonant_digraph"
	SoundVowelDigraph     SoundCategory = "vowel_digraph"
	SoundSilentLetter     SoundCategory = "silent_letter"
	SoundCluster          SoundCategory = "consonant_cluster"
	SoundLength           SoundCategory = "length"
)

const (
	weightConsonantDigraph = 2.0
	weightVowelDigraph     = 1.5
	weightSilentLetter     = 3.0
	weightCluster          = 2.5
	weightPerExtraLetter   = 0.5
	maxLengthWeight        = 2.0
	minCandidateLength     = 4
)

var (
	consonantDigraphs = []string{"th", "sh", "ch", "ph", "wh", "ng", "gh", "ck", "dge", "tch"}
	vowelDigraphs     = []string{"ea", "ee", "oo", "ou", "ow", "ai", "ay", "ie", "ei", "oa", "au", "aw", "oi", "oy", "ue", "ui"}
	silentPrefixes    = []string{"kn", "wr", "gn", "ps", "pn", "mn", "rh"}
	silentSuffixes    = []string{"mb", "mn", "gn", "stle", "ght", "lk", "lm"}
	silentInfixes     = []string{"ght", "alf", "ould", "isl", "sten", "bt"}

	clusterRe = regexp.MustCompile(`[bcdfgjklmnpqrstvwxz]{3,}|^(?:str|spr|scr|spl|squ|thr|shr|sk|sp|st|sl|sn|sm|bl|br|cl|cr|dr|fl|fr|gl|gr|pl|pr|tr|tw)`)
	wordOnlyRe = regexp.MustCompile(`^[a-z]+$`)
)

// WordDifficulty is the heuristic score of one word.
type WordDifficulty struct {
	Word     string
	Score    float64
	Category SoundCategory
}

// ScoreWord rates a word by its spelling patterns. The category is the
// pattern with the largest weighted contribution.
func ScoreWord(word string) WordDifficulty {
	w := strings.ToLower(word)
	contrib := map[SoundCategory]float64{}

	for _, d := range consonantDigraphs {
		if strings.Contains(w, d) {
			contrib[SoundConsonantDigraph] += weightConsonantDigraph
		}
	}
	for _, d := range vowelDigraphs {
		if strings.Contains(w, d) {
			contrib[SoundVowelDigraph] += weightVowelDigraph
		}
	}
	if hasSilentLetter(w) {
		contrib[SoundSilentLetter] += weightSilentLetter
	}
	if n := len(clusterRe.FindAllString(w, -1)); n > 0 {
		contrib[SoundCluster] += weightCluster * float64(n)
	}
	if extra := len(w) - 6; extra > 0 {
		contrib[SoundLength] += min(maxLengthWeight, float64(extra)*weightPerExtraLetter)
	}

	d := WordDifficulty{Word: w, Category: SoundLength}
	best := -1.0
	// Fixed order keeps ties deterministic.
	for _, c := range []SoundCategory{SoundSilentLetter, SoundCluster, SoundConsonantDigraph, SoundVowelDigraph, SoundLength} {
		v := contrib[c]
		d.Score += v
		if v > best {
			best = v
			d.Category = c
		}
	}
	return d
}

func hasSilentLetter(w string) bool {
	for _, p := range silentPrefixes {
		if strings.HasPrefix(w, p) {
			return true
		}
	}
	for _, s := range silentSuffixes {
		if strings.HasSuffix(w, s) {
			return true
		}
	}
	for _, i := range silentInfixes {
		if strings.Contains(w, i) {
			return true
		}
	}
	return false
}

// SelectPronunciationWords ranks candidates and picks n of them, first one
// per sound category in score order, then the best of the rest.
func SelectPronunciationWords(candidates []string, n int) []WordDifficulty {
	seen := make(map[string]bool)
	var scored []WordDifficulty
	for _, c := range candidates {
		w := strings.ToLower(strings.TrimSpace(c))
		if len(w) < minCandidateLength || !wordOnlyRe.MatchString(w) || seen[w] {
			continue
		}
		seen[w] = true
		if d := ScoreWord(w); d.Score > 0 {
			scored = append(scored, d)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Word < scored[j].Word
	})

	picked := make([]WordDifficulty, 0, n)
	used := make(map[string]bool)
	covered := make(map[SoundCategory]bool)
	for _, d := range scored {
		if len(picked) == n {
			break
		}
		if !covered[d.Category] {
			covered[d.Category] = true
			used[d.Word] = true
			picked = append(picked, d)
		}
	}
	for _, d := range scored {
		if len(picked) == n {
			break
		}
		if !used[d.Word] {
			used[d.Word] = true
			picked = append(picked, d)
		}
	}
	return picked
}
