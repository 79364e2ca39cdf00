package sections

import "github.com/abhisek/lessonforge/internal/lesson"

// Config controls generation budgets and sampling.
type Config struct {
	// MaxTokens is the output token budget per section kind. Kinds not
	// listed use DefaultMaxTokens.
	MaxTokens map[lesson.Kind]int

	DefaultMaxTokens int

	// Temperature is used for the first attempt. Each retry raises it by
	// RetryTemperatureStep, capped at 1.0.
	Temperature          float64
	RetryTemperatureStep float64

	// PronunciationWords is the target word count; fewer than
	// MinPronunciationWords complete words makes the section unusable.
	PronunciationWords int
}

// MinPronunciationWords is the smallest acceptable pronunciation set.
const MinPronunciationWords = 3

// DefaultConfig returns the recommended budgets.
func DefaultConfig() Config {
	return Config{
		MaxTokens: map[lesson.Kind]int{
			lesson.KindWarmUp:           512,
			lesson.KindVocabulary:       2048,
			lesson.KindReading:          1536,
			lesson.KindComprehension:    1024,
			lesson.KindDiscussion:       768,
			lesson.KindDialoguePractice: 1536,
			lesson.KindDialogueFillGap:  1536,
			lesson.KindGrammar:          2048,
			lesson.KindPronunciation:    1536,
			lesson.KindWrapUp:           768,
			lesson.KindTitle:            128,
		},
		DefaultMaxTokens:     1024,
		Temperature:          0.7,
		RetryTemperatureStep: 0.1,
		PronunciationWords:   5,
	}
}

func (c Config) budget(k lesson.Kind) int {
	if n, ok := c.MaxTokens[k]; ok && n > 0 {
		return n
	}
	if c.DefaultMaxTokens > 0 {
		return c.DefaultMaxTokens
	}
	return 1024
}

func (c Config) temperature(attempt int) float64 {
	t := c.Temperature
	if attempt > 1 {
		t += float64(attempt-1) * c.RetryTemperatureStep
	}
	return min(t, 1.0)
}

func (c Config) pronunciationTarget() int {
	if c.PronunciationWords < MinPronunciationWords {
		return 5
	}
	return c.PronunciationWords
}
