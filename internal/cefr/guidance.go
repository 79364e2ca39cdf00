package cefr

// Band is an inclusive integer range.
type Band struct {
	Min, Max int
}

// Contains reports whether n lies within the band.
func (b Band) Contains(n int) bool {
	return n >= b.Min && n <= b.Max
}

// Guidance is the complexity envelope for one level.
type Guidance struct {
	Level       Level
	Descriptor  string
	KeyVocab    int  // shared-context vocabulary size
	VocabWords  int  // entries in the vocabulary section
	Examples    int  // example sentences per vocabulary word, exact
	Sentence    Band // words per sentence in generated prose
	Discussion  Band // words per discussion question
	Reading     Band // words in the reading passage
	Tenses      []string
	Structures  []string // grammar points suited to the level
	PatternRule PatternRule
}

// PatternRule says how perfect-aspect and passive constructions are treated
// in dialogue at a level.
type PatternRule int

const (
	// PatternsForbidden rejects perfect and passive forms.
	PatternsForbidden PatternRule = iota
	// PatternsAllowed neither requires nor rejects them.
	PatternsAllowed
	// PatternsRequired expects at least one such form.
	PatternsRequired
)

var guidance = map[Level]Guidance{
	A1: {
		Level:       A1,
		Descriptor:  "beginner: familiar everyday expressions and very basic phrases",
		KeyVocab:    6,
		VocabWords:  5,
		Examples:    5,
		Sentence:    Band{4, 8},
		Discussion:  Band{4, 12},
		Reading:     Band{80, 180},
		Tenses:      []string{"present simple", "present continuous", "can/can't"},
		Structures:  []string{"present simple", "there is / there are", "can for ability", "possessive adjectives"},
		PatternRule: PatternsForbidden,
	},
	A2: {
		Level:       A2,
		Descriptor:  "elementary: routine tasks and simple descriptions of background and environment",
		KeyVocab:    8,
		VocabWords:  6,
		Examples:    5,
		Sentence:    Band{6, 12},
		Discussion:  Band{5, 15},
		Reading:     Band{150, 250},
		Tenses:      []string{"present simple", "present continuous", "past simple", "going to", "will"},
		Structures:  []string{"past simple", "comparatives and superlatives", "going to for plans", "countable and uncountable nouns"},
		PatternRule: PatternsForbidden,
	},
	B1: {
		Level:       B1,
		Descriptor:  "intermediate: main points on familiar matters, connected text on topics of interest",
		KeyVocab:    10,
		VocabWords:  7,
		Examples:    4,
		Sentence:    Band{8, 16},
		Discussion:  Band{6, 18},
		Reading:     Band{200, 350},
		Tenses:      []string{"present simple", "past simple", "past continuous", "present perfect", "will", "first conditional"},
		Structures:  []string{"present perfect vs past simple", "first conditional", "modals of obligation", "relative clauses"},
		PatternRule: PatternsAllowed,
	},
	B2: {
		Level:       B2,
		Descriptor:  "upper intermediate: complex texts on concrete and abstract topics, clear detailed argument",
		KeyVocab:    12,
		VocabWords:  8,
		Examples:    3,
		Sentence:    Band{10, 22},
		Discussion:  Band{8, 22},
		Reading:     Band{250, 450},
		Tenses:      []string{"all simple and continuous forms", "present perfect continuous", "past perfect", "passive voice", "second and third conditionals"},
		Structures:  []string{"passive voice", "second conditional", "third conditional", "reported speech", "past perfect"},
		PatternRule: PatternsRequired,
	},
	C1: {
		Level:       C1,
		Descriptor:  "advanced: demanding longer texts, implicit meaning, flexible and effective language",
		KeyVocab:    14,
		VocabWords:  8,
		Examples:    3,
		Sentence:    Band{12, 28},
		Discussion:  Band{10, 25},
		Reading:     Band{300, 550},
		Tenses:      []string{"full tense system", "perfect continuous forms", "passive with modals", "mixed conditionals"},
		Structures:  []string{"inversion for emphasis", "mixed conditionals", "cleft sentences", "advanced passive forms", "participle clauses"},
		PatternRule: PatternsRequired,
	},
}

// For returns the guidance for l. Unknown levels get B1 guidance; callers
// are expected to have parsed the level already.
func For(l Level) Guidance {
	if g, ok := guidance[l]; ok {
		return g
	}
	return guidance[B1]
}
