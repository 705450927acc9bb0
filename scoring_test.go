package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func acceptedBallot(answer string) *ballot {
	return &ballot{
		Answer: strPtr(answer),
		Valid:  true,
		Votes:  map[string]bool{"a": true, "b": true, "c": true},
	}
}

func TestScoreAnswerPriorities(t *testing.T) {
	scores := ScoreValues{Valid: 10, Duplicate: 5, Invalid: -1, Refused: -2, Empty: -3}
	others := map[string]*ballot{"other": acceptedBallot("Chien")}

	cases := []struct {
		name string
		own  *ballot
		want int
	}{
		{"missing ballot", nil, scores.Empty},
		{"nil answer", &ballot{Answer: nil}, scores.Empty},
		{"empty answer", &ballot{Answer: strPtr("")}, scores.Empty},
		{"invalid answer", &ballot{Answer: strPtr("Zebre"), Valid: false}, scores.Invalid},
		{
			"refused by vote",
			&ballot{Answer: strPtr("Chat"), Valid: true, Votes: map[string]bool{"a": false, "b": false, "c": true}},
			scores.Refused,
		},
		{"duplicate", acceptedBallot("chien"), scores.Duplicate},
		{"unique valid", acceptedBallot("Chat"), scores.Valid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, scoreAnswer(tc.own, others, "self", scores))
		})
	}
}

func TestScoreAnswerDuplicatesSharePoints(t *testing.T) {
	// Two players answering "Chat" split duplicate points, the third keeps
	// full points for a unique answer.
	scores := defaultConfiguration().Scores
	ballots := map[string]*ballot{
		"a": acceptedBallot("Chat"),
		"b": acceptedBallot("chat"),
		"c": acceptedBallot("Chien"),
	}

	assert.Equal(t, scores.Duplicate, scoreAnswer(ballots["a"], ballots, "a", scores))
	assert.Equal(t, scores.Duplicate, scoreAnswer(ballots["b"], ballots, "b", scores))
	assert.Equal(t, scores.Valid, scoreAnswer(ballots["c"], ballots, "c", scores))
}

func TestComputeScoresSharedRanks(t *testing.T) {
	configuration := defaultConfiguration()
	configuration.Categories = []string{"Animal", "Ville", "Pays"}

	// a and b answer every category, c leaves one empty: 30, 30, 20.
	rounds := map[int]*gameRound{
		1: {
			letter: 'C',
			ballots: ballotSet{
				"Animal": {"a": acceptedBallot("Chat"), "b": acceptedBallot("Chien"), "c": acceptedBallot("Cheval")},
				"Ville":  {"a": acceptedBallot("Caen"), "b": acceptedBallot("Calais"), "c": acceptedBallot("Cannes")},
				"Pays":   {"a": acceptedBallot("Chili"), "b": acceptedBallot("Chine"), "c": {Answer: nil}},
			},
		},
	}

	results := computeScores(rounds, []string{"a", "b", "c"}, configuration)

	require.Len(t, results, 3)
	assert.Equal(t, 30, results[0].Score)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, 30, results[1].Score)
	assert.Equal(t, 1, results[1].Rank)
	assert.Equal(t, 20, results[2].Score)
	assert.Equal(t, "c", results[2].UUID)
	assert.Equal(t, 2, results[2].Rank, "rank after a tie advances by one, not by the tie size")
}

func TestComputeScoresSkipsUnvotedRounds(t *testing.T) {
	configuration := defaultConfiguration()
	configuration.Categories = []string{"Animal"}

	rounds := map[int]*gameRound{
		1: {
			letter: 'C',
			ballots: ballotSet{
				"Animal": {"a": acceptedBallot("Chat")},
			},
		},
		2: {letter: 'D'}, // interrupted before voting, no ballots
	}

	results := computeScores(rounds, []string{"a"}, configuration)

	require.Len(t, results, 1)
	assert.Equal(t, configuration.Scores.Valid, results[0].Score)
}

func TestAssembleBallotsSeedsVotesFromValidity(t *testing.T) {
	round := &gameRound{
		letter: 'C',
		answers: map[string]answerSheet{
			"a": {"Animal": recordedAnswer{Answer: strPtr("Chat"), Valid: true}},
			"b": {"Animal": recordedAnswer{Answer: strPtr("Zebre"), Valid: false}},
		},
	}

	ballots := assembleBallots(round, []string{"a", "b"})

	require.NotNil(t, ballots["Animal"]["a"])
	require.NotNil(t, ballots["Animal"]["b"])

	assert.Equal(t, map[string]bool{"a": true, "b": true}, ballots["Animal"]["a"].Votes)
	assert.Equal(t, map[string]bool{"a": false, "b": false}, ballots["Animal"]["b"].Votes)
}

func TestAssembleBallotsIncludesOfflineAuthors(t *testing.T) {
	// A player who answered and then disconnected still appears in the
	// vote, judged by whoever is left online.
	round := &gameRound{
		letter: 'C',
		answers: map[string]answerSheet{
			"gone": {"Animal": recordedAnswer{Answer: strPtr("Chat"), Valid: true}},
		},
	}

	ballots := assembleBallots(round, []string{"here"})

	require.NotNil(t, ballots["Animal"]["gone"])
	assert.Equal(t, map[string]bool{"here": true}, ballots["Animal"]["gone"].Votes)
}
