package kb

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize    = 1000
	DefaultOverlapWords = 10
)

// ChunkText splits text into word-aligned chunks of at most size characters
// (counted in runes). Consecutive chunks share the last overlapWords words.
// A single word longer than size becomes its own chunk.
func ChunkText(text string, size, overlapWords int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlapWords < 0 {
		overlapWords = 0
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	currentLen := 0

	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)
		if currentLen > 0 && currentLen+1+wordLen > size {
			chunks = append(chunks, strings.Join(current, " "))

			start := len(current) - overlapWords
			if start < 1 {
				// always make progress
				start = 1
			}
			if start > len(current) {
				start = len(current)
			}
			current = append([]string(nil), current[start:]...)
			currentLen = joinedLen(current)
			for currentLen > 0 && currentLen+1+wordLen > size {
				current = current[1:]
				currentLen = joinedLen(current)
			}
		}

		if currentLen > 0 {
			currentLen++
		}
		current = append(current, word)
		currentLen += wordLen
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

func joinedLen(words []string) int {
	if len(words) == 0 {
		return 0
	}
	n := len(words) - 1
	for _, w := range words {
		n += utf8.RuneCountInString(w)
	}
	return n
}
