// Package cefr defines CEFR proficiency levels and the per-level guidance
// tables that drive prompt construction and validation.
package cefr

import (
	"fmt"
	"strings"
)

// Level is a CEFR proficiency tier.
type Level string

const (
	A1 Level = "A1"
	A2 Level = "A2"
	B1 Level = "B1"
	B2 Level = "B2"
	C1 Level = "C1"
)

var levels = []Level{A1, A2, B1, B2, C1}

// Levels returns every supported level, lowest first.
func Levels() []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	return out
}

// Parse accepts a level name in any case. Anything outside A1–C1 is an error.
func Parse(s string) (Level, error) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("unknown CEFR level %q (want one of A1, A2, B1, B2, C1)", s)
	}
	return l, nil
}

// Valid reports whether l is a supported level.
func (l Level) Valid() bool {
	return l.Rank() >= 0
}

// Rank orders levels from 0 (A1) to 4 (C1); -1 for unknown values.
func (l Level) Rank() int {
	for i, v := range levels {
		if v == l {
			return i
		}
	}
	return -1
}

// Below reports whether l is strictly lower than other.
func (l Level) Below(other Level) bool {
	return l.Rank() < other.Rank()
}

// Above reports whether l is strictly higher than other.
func (l Level) Above(other Level) bool {
	return l.Rank() > other.Rank()
}

func (l Level) String() string { return string(l) }
