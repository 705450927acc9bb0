package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnswerValid(t *testing.T) {
	cases := []struct {
		name   string
		letter rune
		answer string
		want   bool
	}{
		{"simple match", 'C', "Chat", true},
		{"case insensitive", 'c', "CHAT", true},
		{"accent folded", 'E', "Éléphant", true},
		{"leading whitespace", 'C', "  chien", true},
		{"wrong letter", 'C', "Dauphin", false},
		{"empty answer", 'C', "", false},
		{"whitespace only", 'C', "   ", false},
		{"punctuation only", 'C', "!!!", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, answerValid(tc.letter, tc.answer))
		})
	}
}

func TestAnswerAccepted(t *testing.T) {
	cases := []struct {
		name  string
		votes map[string]bool
		want  bool
	}{
		{"strict majority", map[string]bool{"a": true, "b": true, "c": false}, true},
		{"unanimous", map[string]bool{"a": true, "b": true}, true},
		{"exact tie rejected", map[string]bool{"a": true, "b": false}, false},
		{"minority rejected", map[string]bool{"a": true, "b": false, "c": false}, false},
		{"no votes rejected", map[string]bool{}, false},
		{"nil votes rejected", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, answerAccepted(tc.votes))
		})
	}
}

func TestSameAnswer(t *testing.T) {
	assert.True(t, sameAnswer("Chat", "chat"))
	assert.True(t, sameAnswer("  chat  ", "chat"))
	assert.True(t, sameAnswer("le  chat", "Le Chat"))
	assert.False(t, sameAnswer("chat", "chats"))
	assert.False(t, sameAnswer("chat", "chien"))
}

func TestFoldAnswer(t *testing.T) {
	assert.Equal(t, "elephant", foldAnswer("Éléphant"))
	assert.Equal(t, "garcon", foldAnswer("Garçon"))
	assert.Equal(t, "chat", foldAnswer("chat"))
}
