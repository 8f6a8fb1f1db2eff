package tokenizer

import (
	"iter"
	"strings"
	"unicode"
)

// Split yields the whitespace-delimited runs of content, in order.
func Split(content string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := -1
		for i, char := range content {
			if unicode.IsSpace(char) {
				if start >= 0 && !yield(content[start:i]) {
					return
				}
				start = -1
				continue
			}
			if start < 0 {
				start = i
			}
		}

		if start >= 0 {
			yield(content[start:])
		}
	}
}

func ToLower(seq iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for token := range seq {
			if !yield(strings.ToLower(token)) {
				return
			}
		}
	}
}

// Tokenize returns the lowercase whitespace tokens of text. It is used for
// both indexed fields and queries, so the two always agree.
func Tokenize(text string) []string {
	var tokens []string
	for token := range ToLower(Split(text)) {
		tokens = append(tokens, token)
	}
	return tokens
}

// Unique returns the distinct tokens of all fields, first occurrence first.
func Unique(fields ...string) []string {
	seen := make(map[string]struct{})
	var tokens []string
	for _, field := range fields {
		for token := range ToLower(Split(field)) {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			tokens = append(tokens, token)
		}
	}
	return tokens
}
