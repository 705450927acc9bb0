/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import "sort"

// recordedAnswer is one player's answer for one category in one round.
// Answer is nil when the player never filled in the category.
type recordedAnswer struct {
	Answer *string `json:"answer"`
	Valid  bool    `json:"valid"`
}

func (a recordedAnswer) empty() bool {
	return a.Answer == nil || *a.Answer == ""
}

// answerSheet maps category -> recorded answer.
type answerSheet map[string]recordedAnswer

// ballot carries the peer votes on one player's answer for one category.
type ballot struct {
	Answer *string         `json:"answer"`
	Valid  bool            `json:"valid"`
	Votes  map[string]bool `json:"votes"`
}

// ballotSet maps category -> answering player UUID -> ballot.
type ballotSet map[string]map[string]*ballot

type gameRound struct {
	letter  rune
	answers map[string]answerSheet
	ballots ballotSet
}

type finalScore struct {
	UUID  string `json:"uuid"`
	Score int    `json:"score"`
	Rank  int    `json:"rank"`
}

// assembleBallots turns a round's answer sheets into ballots, seeding each
// ballot with one vote per online player matching the answer's own
// validity: valid answers start accepted by everyone, invalid ones start
// rejected.
func assembleBallots(round *gameRound, onlineUUIDs []string) ballotSet {
	ballots := make(ballotSet)

	for uuid, sheet := range round.answers {
		for category, answer := range sheet {
			if ballots[category] == nil {
				ballots[category] = make(map[string]*ballot)
			}

			votes := make(map[string]bool, len(onlineUUIDs))
			for _, voter := range onlineUUIDs {
				votes[voter] = answer.Valid
			}

			ballots[category][uuid] = &ballot{
				Answer: answer.Answer,
				Valid:  answer.Valid,
				Votes:  votes,
			}
		}
	}

	return ballots
}

// scoreAnswer computes the contribution of a single (player, round,
// category) cell. The checks are ordered: missing/empty beats invalid,
// invalid beats refused, and only accepted answers are checked for
// uniqueness against the other recorded answers in the category.
func scoreAnswer(own *ballot, others map[string]*ballot, uuid string, scores ScoreValues) int {
	switch {
	case own == nil || own.empty():
		return scores.Empty
	case !own.Valid:
		return scores.Invalid
	case !answerAccepted(own.Votes):
		return scores.Refused
	}

	for otherUUID, other := range others {
		if otherUUID == uuid {
			continue
		}
		if other.Answer != nil && sameAnswer(*own.Answer, *other.Answer) {
			return scores.Duplicate
		}
	}

	return scores.Valid
}

func (b *ballot) empty() bool {
	return b.Answer == nil || *b.Answer == ""
}

// computeScores totals every player's score across all rounds and
// categories, then ranks the results. Players share a rank on equal
// scores; the next lower score gets the next rank.
func computeScores(rounds map[int]*gameRound, playerUUIDs []string, configuration Configuration) []finalScore {
	results := make([]finalScore, 0, len(playerUUIDs))

	for _, uuid := range playerUUIDs {
		score := 0

		for _, round := range rounds {
			if round.ballots == nil {
				continue
			}

			for _, category := range configuration.Categories {
				ballots := round.ballots[category]
				if ballots == nil {
					continue
				}

				score += scoreAnswer(ballots[uuid], ballots, uuid, configuration.Scores)
			}
		}

		results = append(results, finalScore{UUID: uuid, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	rank := 1
	for i := range results {
		if i > 0 && results[i].Score < results[i-1].Score {
			rank++
		}
		results[i].Rank = rank
	}

	return results
}
