/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldAnswer lowercases s and strips diacritics, so that "Éléphant"
// folds to "elephant".
func foldAnswer(s string) string {
	folded, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// firstLetter returns the first letter or digit of the folded form of s.
func firstLetter(s string) (rune, bool) {
	for _, r := range foldAnswer(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r, true
		}
	}
	return 0, false
}

// answerValid reports whether answer starts with the round's letter,
// ignoring case and accents. Empty answers are invalid.
func answerValid(letter rune, answer string) bool {
	first, ok := firstLetter(answer)
	if !ok {
		return false
	}
	want, ok := firstLetter(string(letter))
	if !ok {
		return false
	}
	return first == want
}

// answerAccepted reports whether strictly more than half of the recorded
// votes are positive. An empty vote set is a rejection.
func answerAccepted(votes map[string]bool) bool {
	if len(votes) == 0 {
		return false
	}
	positive := 0
	for _, vote := range votes {
		if vote {
			positive++
		}
	}
	return positive*2 > len(votes)
}

func normalizeAnswer(answer string) string {
	return strings.Join(strings.Fields(strings.ToLower(answer)), " ")
}

// sameAnswer compares two answers after lowercasing, trimming, and
// collapsing internal whitespace.
func sameAnswer(a, b string) bool {
	return normalizeAnswer(a) == normalizeAnswer(b)
}
