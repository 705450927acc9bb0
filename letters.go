/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"crypto/rand"
	"math/big"
	"slices"
)

// fallbackLetter is returned if a draw is ever attempted against an empty
// alphabet. start() refuses empty alphabets, so this should never be seen.
const fallbackLetter = 'D'

// maxLetterDraws bounds the rejection loop so a pathological alphabet
// (e.g. one made entirely of duplicated characters) cannot hang a game.
const maxLetterDraws = 64

// randomIndex returns a uniform random int in [0, n).
func randomIndex(n int) int {
	if n <= 1 {
		return 0
	}

	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}

	return int(v.Int64())
}

// drawLetter picks a uniform random letter from alphabet, avoiding letters
// already in used. Once every letter has been drawn, the cycle resets. The
// returned slice is the new used set.
func drawLetter(alphabet string, used []rune) (rune, []rune) {
	letters := []rune(alphabet)
	if len(letters) == 0 {
		return fallbackLetter, used
	}

	if len(used) >= len(letters) {
		used = used[:0]
	}

	letter := letters[randomIndex(len(letters))]
	for draws := 1; slices.Contains(used, letter) && draws < maxLetterDraws; draws++ {
		letter = letters[randomIndex(len(letters))]
	}

	return letter, append(used, letter)
}
