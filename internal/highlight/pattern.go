package highlight

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/wordtrace/internal/domain"
)

// span is a half-open [start, end) byte range inside a text node.
type span struct {
	start int
	end   int
}

// matcher finds whole-word occurrences of a tracked vocabulary inside
// plain text. Matching is case-insensitive; alternatives are ordered
// longest-first so that at a shared prefix the longer word wins
// ("quantum-leap" over "quantum").
type matcher struct {
	re     *regexp.Regexp
	counts map[string]int
}

func newMatcher(recs []domain.WordRecord) *matcher {
	counts := make(map[string]int, len(recs))
	words := make([]string, 0, len(recs))
	for _, rec := range recs {
		word := domain.NormalizeWord(rec.Word)
		if word == "" {
			continue
		}
		if _, seen := counts[word]; !seen {
			words = append(words, word)
		}
		counts[word] = rec.Count
	}
	if len(words) == 0 {
		return nil
	}

	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})

	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}

	return &matcher{
		re:     regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`),
		counts: counts,
	}
}

// countFor returns the lifetime lookup count for a matched fragment.
func (m *matcher) countFor(fragment string) int {
	return m.counts[strings.ToLower(fragment)]
}

// find returns the whole-word matches in text. Candidate matches flanked
// by a letter, digit, or underscore are discarded, so "cat" never matches
// inside "scatter". A rejected candidate must not consume its text: the
// search resumes one byte past its start, so a shorter tracked word
// overlapping the rejected span is still found.
func (m *matcher) find(text string) []span {
	var spans []span
	offset := 0
	for offset < len(text) {
		loc := m.re.FindStringIndex(text[offset:])
		if loc == nil {
			break
		}
		start, end := offset+loc[0], offset+loc[1]
		if isWordRune(runeBefore(text, start)) || isWordRune(runeAfter(text, end)) {
			offset = start + 1
			continue
		}
		spans = append(spans, span{start: start, end: end})
		offset = end
	}
	return spans
}

func runeBefore(text string, i int) rune {
	if i == 0 {
		return -1
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return r
}

func runeAfter(text string, i int) rune {
	if i >= len(text) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return r
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
