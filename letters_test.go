package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawLetterExhaustsAlphabetBeforeRepeating(t *testing.T) {
	const alphabet = "ABCDEF"

	var used []rune
	var drawn []rune

	for i := 0; i < len(alphabet); i++ {
		var letter rune
		letter, used = drawLetter(alphabet, used)
		drawn = append(drawn, letter)
	}

	seen := make(map[rune]struct{})
	for _, letter := range drawn {
		require.True(t, strings.ContainsRune(alphabet, letter))
		_, dup := seen[letter]
		require.False(t, dup, "letter %c drawn twice before the alphabet was exhausted", letter)
		seen[letter] = struct{}{}
	}

	// The cycle resets once every letter has been drawn, so the next
	// draw is allowed to repeat.
	letter, used := drawLetter(alphabet, used)
	assert.True(t, strings.ContainsRune(alphabet, letter))
	assert.Len(t, used, 1)
}

func TestRandomIndexBounds(t *testing.T) {
	assert.Zero(t, randomIndex(0))
	assert.Zero(t, randomIndex(1))

	for i := 0; i < 1000; i++ {
		n := randomIndex(26)
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, 26)
	}
}

func TestDrawLetterEmptyAlphabet(t *testing.T) {
	letter, used := drawLetter("", nil)

	assert.Equal(t, fallbackLetter, letter)
	assert.Empty(t, used)
}

func TestDrawLetterPathologicalAlphabetTerminates(t *testing.T) {
	// An alphabet of duplicated characters can never produce a novel
	// letter once 'A' is used; the bounded retry count must kick in.
	used := []rune{'A'}

	letter, next := drawLetter("AAAA", used)

	assert.Equal(t, 'A', letter)
	assert.Len(t, next, 2)
}
