package domain

import "strings"

const (
	minWordLength = 1
	maxWordLength = 50
)

// IsValidWord reports whether a raw selection is trackable: after trimming it
// must be 1–50 characters, start with an ASCII letter, and contain only ASCII
// letters, spaces, and hyphens. Pure, no I/O.
func IsValidWord(candidate string) bool {
	trimmed := strings.TrimSpace(candidate)
	n := len(trimmed)
	if n < minWordLength || n > maxWordLength {
		return false
	}
	if !isASCIILetter(trimmed[0]) {
		return false
	}
	for i := 1; i < n; i++ {
		c := trimmed[i]
		if !isASCIILetter(c) && c != ' ' && c != '-' {
			return false
		}
	}
	return true
}

// NormalizeWord produces the storage key for a word: trimmed and lowercased.
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
