// Package lesson holds the data model shared by the generation pipeline:
// requests, kind-tagged sections and the assembled lesson.
package lesson

// Kind tags a lesson section.
type Kind string

const (
	KindWarmUp           Kind = "warm_up"
	KindVocabulary       Kind = "vocabulary"
	KindReading          Kind = "reading"
	KindComprehension    Kind = "comprehension"
	KindDiscussion       Kind = "discussion"
	KindDialoguePractice Kind = "dialogue_practice"
	KindDialogueFillGap  Kind = "dialogue_fill_gap"
	KindGrammar          Kind = "grammar"
	KindPronunciation    Kind = "pronunciation"
	KindWrapUp           Kind = "wrap_up"
	KindTitle            Kind = "title"
)

// GenerationOrder is the fixed order sections are produced in. Later
// sections may reuse what earlier ones selected.
var GenerationOrder = []Kind{
	KindWarmUp,
	KindVocabulary,
	KindReading,
	KindComprehension,
	KindDiscussion,
	KindDialoguePractice,
	KindDialogueFillGap,
	KindGrammar,
	KindPronunciation,
	KindWrapUp,
	KindTitle,
}

// Valid reports whether k is a known section kind.
func (k Kind) Valid() bool {
	for _, v := range GenerationOrder {
		if v == k {
			return true
		}
	}
	return false
}

// Section is a closed set of kind-tagged payloads. Only the types in this
// package implement it.
type Section interface {
	Kind() Kind
	isSection()
}

// WarmUp opens the lesson with short personal questions.
type WarmUp struct {
	Questions []string `json:"questions"`
}

// Vocabulary lists key words with definitions and example sentences.
type Vocabulary struct {
	Entries []VocabEntry `json:"entries"`
}

type VocabEntry struct {
	Word         string   `json:"word"`
	PartOfSpeech string   `json:"part_of_speech,omitempty"`
	Definition   string   `json:"definition"`
	Examples     []string `json:"examples"`
}

// Reading is a level-adapted passage built from the source text.
type Reading struct {
	Heading string `json:"heading,omitempty"`
	Passage string `json:"passage"`
}

type Comprehension struct {
	Questions []ComprehensionQuestion `json:"questions"`
}

type ComprehensionQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Discussion struct {
	Questions []string `json:"questions"`
}

// DialogueVariant distinguishes the two dialogue sections.
type DialogueVariant string

const (
	VariantPractice DialogueVariant = "practice"
	VariantFillGap  DialogueVariant = "fill_gap"
)

// GapMarker replaces the missing phrase in a gapped dialogue line.
const GapMarker = "___"

type Dialogue struct {
	Variant    DialogueVariant `json:"variant"`
	Scenario   string          `json:"scenario,omitempty"`
	Characters []Character     `json:"characters"`
	Lines      []DialogueLine  `json:"lines"`

	// AnswerKey holds one answer per gapped line, in line order.
	AnswerKey []string `json:"answer_key,omitempty"`
}

type Character struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type DialogueLine struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Gapped  bool   `json:"gapped,omitempty"`
}

// GapCount returns the number of gapped lines.
func (d Dialogue) GapCount() int {
	n := 0
	for _, l := range d.Lines {
		if l.Gapped {
			n++
		}
	}
	return n
}

// RoleOf returns the role of the named speaker, or "".
func (d Dialogue) RoleOf(speaker string) string {
	for _, c := range d.Characters {
		if c.Name == speaker {
			return c.Role
		}
	}
	return ""
}

type Grammar struct {
	RuleName  string     `json:"rule_name"`
	Form      string     `json:"form"`
	Usage     string     `json:"usage"`
	Examples  []string   `json:"examples"`
	Exercises []Exercise `json:"exercises"`
}

type Exercise struct {
	Prompt      string `json:"prompt"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
}

type Pronunciation struct {
	Words          []PronunciationWord `json:"words"`
	TongueTwisters []TongueTwister     `json:"tongue_twisters,omitempty"`
}

type PronunciationWord struct {
	Word             string   `json:"word"`
	IPA              string   `json:"ipa"`
	Tips             []string `json:"tips"`
	PracticeSentence string   `json:"practice_sentence"`
}

type TongueTwister struct {
	Text           string   `json:"text"`
	TargetPhonemes []string `json:"target_phonemes"`
	Difficulty     string   `json:"difficulty"`
}

type WrapUp struct {
	Summary   string   `json:"summary"`
	Questions []string `json:"questions"`
}

// TitleSource records which rung of the title fallback ladder produced it.
type TitleSource string

const (
	TitleFromAI       TitleSource = "ai"
	TitleFromMetadata TitleSource = "metadata"
	TitleFromText     TitleSource = "source_text"
	TitleGeneric      TitleSource = "generic"
)

type Title struct {
	Text   string      `json:"text"`
	Source TitleSource `json:"source"`
}

func (WarmUp) Kind() Kind        { return KindWarmUp }
func (Vocabulary) Kind() Kind    { return KindVocabulary }
func (Reading) Kind() Kind       { return KindReading }
func (Comprehension) Kind() Kind { return KindComprehension }
func (Discussion) Kind() Kind    { return KindDiscussion }
func (Grammar) Kind() Kind       { return KindGrammar }
func (Pronunciation) Kind() Kind { return KindPronunciation }
func (WrapUp) Kind() Kind        { return KindWrapUp }
func (Title) Kind() Kind         { return KindTitle }

func (d Dialogue) Kind() Kind {
	if d.Variant == VariantFillGap {
		return KindDialogueFillGap
	}
	return KindDialoguePractice
}

func (WarmUp) isSection()        {}
func (Vocabulary) isSection()    {}
func (Reading) isSection()       {}
func (Comprehension) isSection() {}
func (Discussion) isSection()    {}
func (Dialogue) isSection()      {}
func (Grammar) isSection()       {}
func (Pronunciation) isSection() {}
func (WrapUp) isSection()        {}
func (Title) isSection()         {}
