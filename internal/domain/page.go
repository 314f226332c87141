package domain

import (
	"regexp"
	"strings"
)

// Page is one extracted page of a source document. Page numbers are
// 1-based and preserved through the whole pipeline for citations.
type Page struct {
	Number int
	Text   string
}

var (
	multiSpaceRe = regexp.MustCompile(`\s+`)
	// a sentence stop glued to the next word, e.g. "end.Next"
	tightStopRe = regexp.MustCompile(`\.([A-Z])`)
	bulletRe    = regexp.MustCompile(`[•◦▪]`)
)

// CleanPageText normalizes raw extracted text: null bytes are dropped,
// bullet glyphs become dashes, whitespace runs collapse to single
// spaces, and sentence stops glued to the next capitalized word get a
// space restored.
func CleanPageText(text string) string {
	text = strings.ReplaceAll(text, "\x00", "")
	text = bulletRe.ReplaceAllString(text, "- ")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	text = tightStopRe.ReplaceAllString(text, ". $1")
	return strings.TrimSpace(text)
}
