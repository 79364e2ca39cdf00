package sections

import "github.com/abhisek/lessonforge/internal/llm"

func stringArray(desc string, minItems int) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string", "minLength": 1},
		"minItems":    minItems,
		"description": desc,
	}
}

func object(required []any, props map[string]any) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

var questionsSchema = &llm.Schema{
	Name:        "lesson-questions",
	Description: "An ordered list of questions for learners",
	Definition: object([]any{"questions"}, map[string]any{
		"questions": stringArray("Questions in the order they should be asked", 1),
	}),
}

var readingSchema = &llm.Schema{
	Name:        "reading-passage",
	Description: "A level-adapted reading passage",
	Definition: object([]any{"heading", "passage"}, map[string]any{
		"heading": map[string]any{"type": "string", "description": "A short heading for the passage"},
		"passage": map[string]any{"type": "string", "minLength": 1, "description": "The passage, paragraphs separated by blank lines"},
	}),
}

var comprehensionSchema = &llm.Schema{
	Name:        "comprehension-questions",
	Description: "Questions about the reading passage with model answers",
	Definition: object([]any{"questions"}, map[string]any{
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": object([]any{"question", "answer"}, map[string]any{
				"question": map[string]any{"type": "string"},
				"answer":   map[string]any{"type": "string"},
			}),
		},
	}),
}

var wrapUpSchema = &llm.Schema{
	Name:        "wrap-up",
	Description: "A lesson summary and reflection questions",
	Definition: object([]any{"summary", "questions"}, map[string]any{
		"summary":   map[string]any{"type": "string", "description": "Two or three sentences recapping the lesson"},
		"questions": stringArray("Reflection questions", 1),
	}),
}

var vocabularySchema = &llm.Schema{
	Name:        "vocabulary-entries",
	Description: "Vocabulary entries with definitions and example sentences",
	Definition: object([]any{"entries"}, map[string]any{
		"entries": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": object([]any{"word", "part_of_speech", "definition", "examples"}, map[string]any{
				"word":           map[string]any{"type": "string"},
				"part_of_speech": map[string]any{"type": "string"},
				"definition":     map[string]any{"type": "string"},
				"examples":       stringArray("Example sentences that each contain the word", 1),
			}),
		},
	}),
}

var dialogueSchema = &llm.Schema{
	Name:        "dialogue",
	Description: "A two-person dialogue",
	Definition: object([]any{"characters", "lines"}, map[string]any{
		"scenario": map[string]any{"type": "string"},
		"characters": map[string]any{
			"type":     "array",
			"minItems": 2,
			"maxItems": 2,
			"items": object([]any{"name", "role"}, map[string]any{
				"name": map[string]any{"type": "string"},
				"role": map[string]any{"type": "string"},
			}),
		},
		"lines": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": object([]any{"speaker", "text"}, map[string]any{
				"speaker": map[string]any{"type": "string", "description": "Character name"},
				"text":    map[string]any{"type": "string"},
			}),
		},
		"answer_key": stringArray("One answer per gap, in order. Empty for a practice dialogue.", 0),
	}),
}

var grammarSchema = &llm.Schema{
	Name:        "grammar-point",
	Description: "A grammar point with form, usage, examples and exercises",
	Definition: object([]any{"rule_name", "form", "usage", "examples", "exercises"}, map[string]any{
		"rule_name": map[string]any{"type": "string"},
		"form":      map[string]any{"type": "string", "description": "How the structure is built"},
		"usage":     map[string]any{"type": "string", "description": "When and why it is used"},
		"examples":  stringArray("Example sentences on the lesson topic", 1),
		"exercises": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": object([]any{"prompt", "answer", "explanation"}, map[string]any{
				"prompt":      map[string]any{"type": "string"},
				"answer":      map[string]any{"type": "string"},
				"explanation": map[string]any{"type": "string"},
			}),
		},
	}),
}

var pronunciationSchema = &llm.Schema{
	Name:        "pronunciation-words",
	Description: "Pronunciation guidance for selected words",
	Definition: object([]any{"words"}, map[string]any{
		"words": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": object([]any{"word", "ipa", "tips", "practice_sentence"}, map[string]any{
				"word":              map[string]any{"type": "string"},
				"ipa":               map[string]any{"type": "string", "description": "IPA transcription between slashes"},
				"tips":              stringArray("Short articulation tips", 1),
				"practice_sentence": map[string]any{"type": "string", "description": "A sentence containing the word"},
			}),
		},
		"tongue_twisters": map[string]any{
			"type": "array",
			"items": object([]any{"text", "target_phonemes", "difficulty"}, map[string]any{
				"text":            map[string]any{"type": "string"},
				"target_phonemes": stringArray("IPA phonemes practised", 1),
				"difficulty":      map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}},
			}),
		},
	}),
}

var titleSchema = &llm.Schema{
	Name:        "lesson-title",
	Description: "A short topic-forward lesson title",
	Definition: object([]any{"title"}, map[string]any{
		"title": map[string]any{"type": "string", "minLength": 1, "maxLength": 90},
	}),
}
