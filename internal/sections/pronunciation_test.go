package sections

import (
	"encoding/json"
	"testing"

	"github.com/abhisek/lessonforge/internal/cefr"
	"github.com/abhisek/lessonforge/internal/lesson"
	"github.com/abhisek/lessonforge/internal/llm"
)

func TestScoreWord(t *testing.T) {
	tests := []struct {
		word     string
		category SoundCategory
	}{
		{"thought", SoundConsonantDigraph},
		{"knight", SoundSilentLetter},
		{"strengths", SoundCluster},
		{"beautiful", SoundVowelDigraph},
	}
	for _, tt := range tests {
		if got := ScoreWord(tt.word); got.Category != tt.category {
			t.Errorf("ScoreWord(%q).Category = %s, want %s", tt.word, got.Category, tt.category)
		}
	}
	if ScoreWord("strengths").Score <= ScoreWord("sheep").Score {
		t.Error("strengths should score above sheep")
	}
	if ScoreWord("cat").Score != 0 {
		t.Error("cat has no difficult pattern")
	}
}

func TestSelectPronunciationWords_Diversity(t *testing.T) {
	candidates := []string{"thought", "through", "knight", "strengths", "beautiful", "cat", "sheep", "Thought"}

	got := SelectPronunciationWords(candidates, 3)
	want := []string{"strengths", "thought", "knight"}
	if len(got) != len(want) {
		t.Fatalf("expected %d words, got %d", len(want), len(got))
	}
	seen := map[SoundCategory]bool{}
	for i, d := range got {
		if d.Word != want[i] {
			t.Errorf("word %d = %q, want %q", i, d.Word, want[i])
		}
		if seen[d.Category] {
			t.Errorf("category %s selected twice", d.Category)
		}
		seen[d.Category] = true
	}

	all := SelectPronunciationWords(candidates, 10)
	if len(all) != 6 {
		t.Errorf("expected 6 unique scored words, got %d", len(all))
	}
}

func TestPronunciation_DropsIncompleteWords(t *testing.T) {
	c := testContext(t, cefr.B1, lesson.TypePronunciation)
	in := Input{Context: c, Attempt: 1}
	selected := SelectPronunciationWords(pronunciationCandidates(in), 5)
	if len(selected) < 5 {
		t.Fatalf("expected 5 candidates from the source, got %d", len(selected))
	}

	type word struct {
		Word             string   `json:"word"`
		IPA              string   `json:"ipa"`
		Tips             []string `json:"tips"`
		PracticeSentence string   `json:"practice_sentence"`
	}
	var words []word
	for _, d := range selected {
		words = append(words, word{Word: d.Word, IPA: "/x/", Tips: []string{"Go slowly."}, PracticeSentence: "Say " + d.Word + " twice."})
	}
	words[1].IPA = ""
	words[3].PracticeSentence = "This sentence forgets it."
	body, _ := json.Marshal(map[string]any{"words": words})

	mock := llm.NewMockProvider(llm.MockResponse{Content: body})
	s, err := generate(t, testSet(mock), lesson.KindPronunciation, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := s.(lesson.Pronunciation)
	if len(p.Words) != 3 {
		t.Fatalf("expected 3 complete words, got %d", len(p.Words))
	}
	for _, w := range p.Words {
		if !WordComplete(w) {
			t.Errorf("incomplete word kept: %+v", w)
		}
	}
}

func TestWordComplete_PracticeSentenceNeedsWholeWord(t *testing.T) {
	tests := []struct {
		sentence string
		want     bool
	}{
		{"The cat sleeps on the sofa.", true},
		{"Two cats sleep on the sofa.", true},
		{"Education matters to everyone.", false},
		{"They scattered the seeds.", false},
	}
	for _, tt := range tests {
		w := lesson.PronunciationWord{Word: "cat", IPA: "/kæt/", Tips: []string{"Short vowel."}, PracticeSentence: tt.sentence}
		if got := WordComplete(w); got != tt.want {
			t.Errorf("WordComplete(%q) = %v, want %v", tt.sentence, got, tt.want)
		}
	}
}

func TestPronunciation_Tolerant(t *testing.T) {
	p, ok := tolerantPronunciation(`WORD: thought
IPA: /θɔːt/
TIP: Put your tongue between your teeth.
TIP: The gh is silent.
SENTENCE: I thought about it.

TWISTER: Three thin thinkers thought.
PHONEMES: θ, ɔː
DIFFICULTY: Medium`)
	if !ok {
		t.Fatal("expected tolerant parse")
	}
	if len(p.Words) != 1 || len(p.Words[0].Tips) != 2 {
		t.Fatalf("unexpected words: %+v", p.Words)
	}
	if len(p.TongueTwisters) != 1 || p.TongueTwisters[0].Difficulty != "medium" || len(p.TongueTwisters[0].TargetPhonemes) != 2 {
		t.Errorf("unexpected twisters: %+v", p.TongueTwisters)
	}
}
