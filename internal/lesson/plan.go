package lesson

import "slices"

// Type is the lesson flavour requested by the caller. It selects which
// sections are generated and who opens the dialogues.
type Type string

const (
	TypeDiscussion    Type = "discussion"
	TypeGrammar       Type = "grammar"
	TypeVocabulary    Type = "vocabulary"
	TypePronunciation Type = "pronunciation"
	TypeTravel        Type = "travel"
	TypeBusiness      Type = "business"
	TypeGeneral       Type = "general"
)

type typeSpec struct {
	sections []Kind
	focus    []Kind
	opener   string
	partner  string
	label    string
}

var types = map[Type]typeSpec{
	TypeDiscussion: {
		sections: []Kind{KindWarmUp, KindVocabulary, KindReading, KindComprehension, KindDiscussion, KindDialoguePractice, KindWrapUp, KindTitle},
		focus:    []Kind{KindDiscussion},
		opener:   "Host",
		partner:  "Guest",
		label:    "Discussion",
	},
	TypeGrammar: {
		sections: []Kind{KindWarmUp, KindVocabulary, KindReading, KindComprehension, KindDialogueFillGap, KindGrammar, KindWrapUp, KindTitle},
		focus:    []Kind{KindGrammar},
		opener:   "Student",
		partner:  "Teacher",
		label:    "Grammar",
	},
	TypeVocabulary: {
		sections: []Kind{KindWarmUp, KindVocabulary, KindReading, KindComprehension, KindDialogueFillGap, KindPronunciation, KindWrapUp, KindTitle},
		focus:    []Kind{KindVocabulary},
		opener:   "Host",
		partner:  "Guest",
		label:    "Vocabulary",
	},
	TypePronunciation: {
		sections: []Kind{KindWarmUp, KindVocabulary, KindReading, KindDialoguePractice, KindPronunciation, KindWrapUp, KindTitle},
		focus:    []Kind{KindPronunciation},
		opener:   "Host",
		partner:  "Guest",
		label:    "Pronunciation",
	},
	TypeTravel: {
		sections: []Kind{KindWarmUp, KindVocabulary, KindReading, KindComprehension, KindDialoguePractice, KindDialogueFillGap, KindPronunciation, KindWrapUp, KindTitle},
		focus:    []Kind{KindDialoguePractice, KindDialogueFillGap},
		opener:   "Traveler",
		partner:  "Local",
		label:    "Travel",
	},
	TypeBusiness: {
		sections: []Kind{KindWarmUp, KindVocabulary, KindReading, KindComprehension, KindDiscussion, KindDialoguePractice, KindGrammar, KindWrapUp, KindTitle},
		focus:    []Kind{KindDialoguePractice, KindDiscussion},
		opener:   "Manager",
		partner:  "Colleague",
		label:    "Business",
	},
	TypeGeneral: {
		sections: GenerationOrder,
		focus:    []Kind{KindReading, KindDiscussion},
		opener:   "Host",
		partner:  "Guest",
		label:    "General",
	},
}

// Valid reports whether t is a known lesson type.
func (t Type) Valid() bool {
	_, ok := types[t]
	return ok
}

// Plan returns the sections to generate for t, in generation order.
// Unknown types get the full plan.
func (t Type) Plan() []Kind {
	spec, ok := types[t]
	if !ok {
		spec = types[TypeGeneral]
	}
	return slices.Clone(spec.sections)
}

// IsFocus reports whether k is a focus section of t. Focus sections weigh
// more in the quality report.
func (t Type) IsFocus(k Kind) bool {
	return slices.Contains(types[t].focus, k)
}

// DialogueRoles returns the role that must open a dialogue for t and the
// role of the other speaker.
func (t Type) DialogueRoles() (opener, partner string) {
	spec, ok := types[t]
	if !ok {
		spec = types[TypeGeneral]
	}
	return spec.opener, spec.partner
}

// Label is the display name used in generic titles.
func (t Type) Label() string {
	if spec, ok := types[t]; ok {
		return spec.label
	}
	return "General"
}

func typeNames() []string {
	names := make([]string, 0, len(types))
	for t := range types {
		names = append(names, string(t))
	}
	slices.Sort(names)
	return names
}
