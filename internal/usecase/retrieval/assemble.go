package retrieval

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// budget reserved when truncating the last candidate into the
	// remaining space.
	truncateReserve = 100
	// minimum remaining space worth filling with a truncated chunk.
	minUsefulRemainder = 200
)

// AssembleContext builds the bounded context blob from ranked
// candidates. A per-page cap keeps one page from dominating: summary
// questions cap lower to maximize page diversity, fact questions allow
// more chunks per page. Each included chunk is prefixed with its page
// number and relevance so downstream strategies can cite sources.
func AssembleContext(sc *StageContext, logger *slog.Logger) {
	maxPerPage := 4
	if sc.Intent.RequiresSummary {
		maxPerPage = 2
	}

	var parts []string
	var pages []int
	pageCounts := make(map[int]int)
	pageSeen := make(map[int]bool)
	currentLength := 0

	for _, hit := range sc.Ranked {
		page := hit.Chunk.Page
		if pageCounts[page] >= maxPerPage {
			continue
		}

		annotated := fmt.Sprintf("[Page %d, Relevance: %.2f]\n%s",
			page, hit.Score, cleanChunkText(hit.Chunk.Text))

		if currentLength+len(annotated) > sc.MaxContextChars {
			remaining := sc.MaxContextChars - currentLength - truncateReserve
			if remaining > minUsefulRemainder {
				// back off to a rune boundary so the cut never splits
				// a multi-byte character
				cut := remaining
				for cut > 0 && !utf8.RuneStart(annotated[cut]) {
					cut--
				}
				parts = append(parts, annotated[:cut]+"...")
				if !pageSeen[page] {
					pageSeen[page] = true
					pages = append(pages, page)
				}
			}
			break
		}

		parts = append(parts, annotated)
		currentLength += len(annotated)
		pageCounts[page]++
		if !pageSeen[page] {
			pageSeen[page] = true
			pages = append(pages, page)
		}
	}

	sc.ContextText = strings.Join(parts, "\n\n")
	sc.ContextPages = pages

	logger.Info("context_assembled",
		slog.String("retrieval_id", sc.RetrievalID),
		slog.Int("parts", len(parts)),
		slog.Int("length", len(sc.ContextText)),
		slog.Int("pages", len(pages)))
}

// cleanChunkText collapses whitespace and drops obvious header or
// footer lines that survived extraction.
func cleanChunkText(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 5 {
			continue
		}
		if isAllDigits(line) {
			continue
		}
		if strings.HasPrefix(line, "Page ") || strings.HasPrefix(line, "Chapter ") || strings.HasPrefix(line, "Section ") {
			continue
		}
		kept = append(kept, line)
	}
	joined := strings.Join(kept, " ")
	return strings.Join(strings.Fields(joined), " ")
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SourcePages returns the sorted distinct pages of the first topN
// ranked hits. These become the Result's source citations.
func SourcePages(sc *StageContext, topN int) []int {
	if topN > len(sc.Ranked) {
		topN = len(sc.Ranked)
	}
	seen := make(map[int]bool)
	var pages []int
	for _, hit := range sc.Ranked[:topN] {
		if !seen[hit.Chunk.Page] {
			seen[hit.Chunk.Page] = true
			pages = append(pages, hit.Chunk.Page)
		}
	}
	sort.Ints(pages)
	return pages
}
