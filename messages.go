/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

// Messages coming from clients
type clientMessage struct {
	Type          string            `json:"type"`                    // "join", "update_config", "set_categories_by_everyone", "switch_master", "set_lock", "kick", "start", "submit_answers", "cast_vote", "mark_ready", "restart"
	Pseudonym     string            `json:"pseudonym,omitempty"`     // join
	Configuration map[string]any    `json:"configuration,omitempty"` // update_config (loosely typed, validated server-side)
	Enabled       *bool             `json:"enabled,omitempty"`       // set_categories_by_everyone
	Locked        *bool             `json:"locked,omitempty"`        // set_lock
	TargetUUID    string            `json:"target_uuid,omitempty"`   // switch_master / kick
	Answers       map[string]string `json:"answers,omitempty"`       // submit_answers
	Category      string            `json:"category,omitempty"`      // cast_vote
	AuthorUUID    string            `json:"author_uuid,omitempty"`   // cast_vote
	Vote          *bool             `json:"vote,omitempty"`          // cast_vote
}

// playerInfo is the player representation shared with clients.
type playerInfo struct {
	UUID      string `json:"uuid"`
	Pseudonym string `json:"pseudonym"`
	Ready     bool   `json:"ready"`
	Master    bool   `json:"master"`
	Online    bool   `json:"online"`
}

// playerRef identifies a player in events that only need the UUID.
type playerRef struct {
	UUID string `json:"uuid"`
}

type playerJoinedMessage struct {
	Type   string     `json:"type"` // "player_joined"
	Player playerInfo `json:"player"`
}

type playerLeftMessage struct {
	Type   string    `json:"type"` // "player_left"
	Player playerRef `json:"player"`
}

type configUpdatedMessage struct {
	Type          string        `json:"type"` // "config_updated"
	Configuration Configuration `json:"configuration"`
}

type lockChangedMessage struct {
	Type   string `json:"type"` // "lock_changed"
	Locked bool   `json:"locked"`
}

type categoriesByEveryoneMessage struct {
	Type    string `json:"type"` // "categories_by_everyone_changed"
	Enabled bool   `json:"enabled"`
}

type masterChangedMessage struct {
	Type   string    `json:"type"` // "master_changed"
	Master playerRef `json:"master"`
}

type roundStartsSoonMessage struct {
	Type      string `json:"type"`      // "round_starts_soon"
	Countdown int    `json:"countdown"` // seconds until the round begins
}

type roundStartedMessage struct {
	Type   string `json:"type"` // "round_started"
	Round  int    `json:"round"`
	Letter string `json:"letter"`
}

type playerReadyMessage struct {
	Type   string    `json:"type"` // "player_ready"
	Player playerRef `json:"player"`
}

type roundEndedMessage struct {
	Type string `json:"type"` // "round_ended"
}

type voteStartedMessage struct {
	Type          string    `json:"type"` // "vote_started"
	Ballots       ballotSet `json:"ballots"`
	InterruptedBy *string   `json:"interrupted_by"` // UUID, or null if the round ran its course
}

type voteChangedMessage struct {
	Type     string    `json:"type"` // "vote_changed"
	Voter    playerRef `json:"voter"`
	Author   playerRef `json:"author"`
	Category string    `json:"category"`
	Vote     bool      `json:"vote"`
}

type gameEndedMessage struct {
	Type   string       `json:"type"` // "game_ended"
	Scores []finalScore `json:"scores"`
}

type gameRestartedMessage struct {
	Type string `json:"type"` // "game_restarted"
}

type kickedMessage struct {
	Type   string `json:"type"`   // "kicked"
	Locked bool   `json:"locked"` // true when refused by a locked game, false when removed by the master
}

// catchUpMessage reconstructs the current phase for a client joining
// mid-game; exactly one of Countdown, Round, Vote, or End is set.
type catchUpMessage struct {
	Type      string        `json:"type"`  // "catch_up_snapshot"
	State     string        `json:"state"` // COLLECTING_FINAL is reported as ANSWERING
	Countdown *int          `json:"countdown,omitempty"`
	Round     *catchUpRound `json:"round,omitempty"`
	Vote      *catchUpVote  `json:"vote,omitempty"`
	End       *catchUpEnd   `json:"end,omitempty"`
}

type catchUpRound struct {
	Round        int      `json:"round"`
	Letter       string   `json:"letter"`
	TimeLeft     *int     `json:"time_left"` // seconds, or null when the round has no deadline
	PlayersReady []string `json:"players_ready"`
}

type catchUpVote struct {
	Ballots       ballotSet `json:"ballots"`
	InterruptedBy *string   `json:"interrupted_by"`
	PlayersReady  []string  `json:"players_ready"`
}

type catchUpEnd struct {
	Scores []finalScore `json:"scores"`
}
