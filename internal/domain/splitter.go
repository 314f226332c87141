package domain

import "strings"

// splitIntoSentences splits text at terminal punctuation (. ! ?)
// followed by whitespace or end of text. The terminator stays attached
// to its sentence.
func splitIntoSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])

		if runes[i] == '.' || runes[i] == '!' || runes[i] == '?' {
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t' {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// splitOnWordBoundaries breaks an over-long sentence into groups of
// whole words, each at most maxLen characters. Words are never cut
// mid-word; a single word longer than maxLen becomes its own group.
func splitOnWordBoundaries(sentence string, maxLen int) []string {
	words := strings.Fields(sentence)
	if len(words) == 0 {
		return nil
	}

	var groups []string
	var buf strings.Builder

	for _, word := range words {
		if buf.Len() > 0 && buf.Len()+1+len(word) > maxLen {
			groups = append(groups, buf.String())
			buf.Reset()
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(word)
	}
	if buf.Len() > 0 {
		groups = append(groups, buf.String())
	}
	return groups
}
