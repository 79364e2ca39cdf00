package sharedctx

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	htmlTagRe  = regexp.MustCompile(`(?i)<(html|body|p|div|article|main|section|span|br|h[1-6]|li)\b`)
	spaceRe    = regexp.MustCompile(`[ \t\f\v]+`)
	newlinesRe = regexp.MustCompile(`\s*\n\s*`)
)

var contentSelectors = []string{"main", "article", "[role=main]", ".content", "#content"}

const noiseSelector = "nav, footer, header, aside, script, style, noscript, form, iframe, .ad, .ads, .advertisement, .cookie-banner, .newsletter, .share, .related"

// Normalize converts HTML input to plain text and collapses whitespace.
// Plain text passes through with whitespace collapsed only.
func Normalize(source string) (string, error) {
	if !htmlTagRe.MatchString(source) {
		return cleanWhitespace(source), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	doc.Find(noiseSelector).Remove()

	// Block elements would otherwise run their text together.
	doc.Find("p, li, br, div, h1, h2, h3, h4, h5, h6, tr, blockquote").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	var main *goquery.Selection
	for _, sel := range contentSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			main = found.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	return cleanWhitespace(main.Text()), nil
}

func cleanWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = spaceRe.ReplaceAllString(s, " ")
	s = newlinesRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
