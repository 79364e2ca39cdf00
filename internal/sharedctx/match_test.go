package sharedctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMentions(t *testing.T) {
	tests := []struct {
		text, term string
		want       bool
	}{
		{"Climate change is real.", "change", true},
		{"Is there a chance of rain?", "change", false},
		{"We eat breakfast at eight.", "faster", false},
		{"The ice melts in spring.", "melting", true},
		{"Temperatures keep rising.", "rise", true},
		{"Many cities flood.", "city", true},
		{"They stopped the project.", "stop", true},
		{"Education matters.", "cat", false},
		{"The cat's bowl is empty.", "cat", true},
		{"Sea levels are climbing.", "sea levels", true},
		{"The sea is calm and levels vary.", "sea levels", false},
		{"A climate-friendly plan.", "climate", true},
		{"Anything", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Mentions(tt.text, tt.term), "%q in %q", tt.term, tt.text)
	}
}

func TestCountMentioned(t *testing.T) {
	terms := []string{"climate", "change", "emissions", "faster"}
	assert.Equal(t, 0, CountMentioned("A good chance to eat breakfast.", terms))
	assert.Equal(t, 3, CountMentioned("Climate change and car emission limits.", terms))
}
