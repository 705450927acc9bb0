/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Categories game
//
// Each round, a random letter is drawn and every player fills in one answer
// per configured category, each starting with that letter. Once answers are
// collected, players vote on each other's answers, scores are tallied, and
// the next round begins until the configured number of turns is played.
//
// Features:
// - WebSockets per game ID: /categories/:gameid and /categories/:gameid/ws
// - First player to join a game becomes its master
// - Master configures categories, turns, time limit, alphabet, and scoring
// - Master can lock the game (no new players), kick players, and hand off
//   mastery to another connected player
// - Players identified by cookie (playerID), stable across reconnects
// - Mid-game joiners receive a catch-up snapshot of the current phase
// - Games with no online players are destroyed after a configurable timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - In-browser QR button to share the current session, backed by go-qrcode

package main

import (
	"sort"
	"sync"
	"time"
)

type gameState string

const (
	stateConfig          gameState = "CONFIG"
	stateCountdown       gameState = "COUNTDOWN"
	stateAnswering       gameState = "ANSWERING"
	stateCollectingFinal gameState = "COLLECTING_FINAL"
	stateVoting          gameState = "VOTING"
	stateEnded           gameState = "ENDED"
)

// player holds the data we store server-side. Connections are tracked
// separately (Game.conns), so a player entry can outlive its socket.
type player struct {
	uuid      string
	pseudonym string
	ready     bool
	online    bool
	master    bool
}

func (p *player) info() playerInfo {
	return playerInfo{
		UUID:      p.uuid,
		Pseudonym: p.pseudonym,
		Ready:     p.ready,
		Master:    p.master,
		Online:    p.online,
	}
}

// Game is one session, identified by its slug. All mutation is serialized
// through mu: every exported entry point and every timer callback takes it,
// so no caller can observe a half-applied transition.
type Game struct {
	slug      string
	cfg       *Config
	directory *GameDirectory

	mu sync.Mutex

	state                gameState
	locked               bool
	categoriesByEveryone bool
	configuration        Configuration

	players    map[string]*player
	conns      map[string]*client
	masterUUID string

	currentRound     int
	currentLetter    rune
	countdownStarted time.Time
	roundStarted     time.Time
	interruptedBy    *string
	finalReceived    []string
	votesReady       []string

	rounds      map[int]*gameRound
	finalScores []finalScore
	usedLetters []rune

	countdownTimer *time.Timer
	roundTimer     *time.Timer
	idleTimer      *time.Timer
}

func newGame(slug string, cfg *Config, directory *GameDirectory) *Game {
	return &Game{
		slug:          slug,
		cfg:           cfg,
		directory:     directory,
		state:         stateConfig,
		configuration: defaultConfiguration(),
		players:       make(map[string]*player),
		conns:         make(map[string]*client),
		rounds:        make(map[int]*gameRound),
	}
}

func (g *Game) onlineUUIDsLocked() []string {
	uuids := make([]string, 0, len(g.players))
	for uuid, p := range g.players {
		if p.online {
			uuids = append(uuids, uuid)
		}
	}
	return uuids
}

func (g *Game) onlineCountLocked() int {
	count := 0
	for _, p := range g.players {
		if p.online {
			count++
		}
	}
	return count
}

func (g *Game) isValidPlayerLocked(uuid string) bool {
	_, ok := g.players[uuid]
	return ok
}

func (g *Game) isValidCategoryLocked(category string) bool {
	for _, c := range g.configuration.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// containsAll reports whether every item of target is present in set.
func containsAll(set, target []string) bool {
	for _, want := range target {
		found := false
		for _, have := range set {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// trySendLocked queues a message for one connection, dropping the client
// if its buffer is full. Delivery is fire-and-forget; the state machine
// never blocks on it.
func (g *Game) trySendLocked(uuid string, msg any) {
	c := g.conns[uuid]
	if c == nil {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(g.conns, uuid)
		close(c.send)
	}
}

func (g *Game) broadcastLocked(msg any) {
	for uuid, p := range g.players {
		if !p.online {
			continue
		}
		g.trySendLocked(uuid, msg)
	}
}

func (g *Game) sendToLocked(uuid string, msg any) {
	p := g.players[uuid]
	if p == nil || !p.online {
		return
	}
	g.trySendLocked(uuid, msg)
}

func (g *Game) startIdleTimerLocked() {
	if g.idleTimer != nil {
		return
	}

	g.idleTimer = time.AfterFunc(g.cfg.sessionTimeout, func() {
		g.mu.Lock()
		if g.onlineCountLocked() > 0 {
			g.mu.Unlock()
			return
		}
		g.mu.Unlock()

		logf(g.cfg, "GAMES: %s without players: destroying game %s", g.cfg.sessionTimeout, g.slug)
		g.directory.remove(g.slug)
	})
}

func (g *Game) stopIdleTimerLocked() {
	if g.idleTimer != nil {
		g.idleTimer.Stop()
		g.idleTimer = nil
	}
}

// join handles both first-time joins and reconnections: a known UUID is
// rebound to its new connection, keeping its recorded answers, while an
// unknown UUID creates a new player unless the game is locked. The first
// online player always becomes (or stays) master.
func (g *Game) join(c *client, pseudonym string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	uuid := c.playerID
	becomesMaster := g.onlineCountLocked() == 0 || g.masterUUID == uuid

	p := g.players[uuid]
	if p != nil {
		p.online = true
		p.pseudonym = pseudonym // It may change.
		p.master = becomesMaster
		g.conns[uuid] = c
	} else {
		if g.locked {
			g.kickLocked(uuid, true, c)
			return
		}

		p = &player{
			uuid:      uuid,
			pseudonym: pseudonym,
			ready:     true,
			online:    true,
			master:    becomesMaster,
		}
		g.players[uuid] = p
		g.conns[uuid] = c
	}

	if becomesMaster && g.masterUUID != uuid {
		// The seat may still point at a departed player.
		if previous := g.players[g.masterUUID]; previous != nil {
			previous.master = false
		}
		g.masterUUID = uuid
	}

	g.broadcastLocked(playerJoinedMessage{Type: "player_joined", Player: p.info()})

	// The new player gets the rest of the roster, then the current
	// configuration and lock state.
	for otherUUID, other := range g.players {
		if otherUUID == uuid {
			continue
		}
		g.trySendLocked(uuid, playerJoinedMessage{Type: "player_joined", Player: other.info()})
	}

	g.sendToLocked(uuid, configUpdatedMessage{Type: "config_updated", Configuration: g.configuration})
	g.sendToLocked(uuid, lockChangedMessage{Type: "lock_changed", Locked: g.locked})

	if g.categoriesByEveryone {
		g.sendToLocked(uuid, categoriesByEveryoneMessage{Type: "categories_by_everyone_changed", Enabled: true})
	}

	if g.state != stateConfig {
		g.catchUpLocked(uuid)
	}

	logf(g.cfg, "GAMES: Player %q (%s) joined %s (online: %d/%d)",
		pseudonym, uuid, g.slug, g.onlineCountLocked(), len(g.players))

	g.stopIdleTimerLocked()
}

// disconnect is called when a socket closes. A stale close from a
// connection that has already been replaced is ignored; a close from a
// connection that was dropped for falling behind still has to take the
// player offline, or completion checks would wait on it forever.
func (g *Game) disconnect(c *client) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if current, ok := g.conns[c.playerID]; ok && current != c {
		return
	}

	g.leftLocked(c.playerID, false)
}

// leftLocked removes a player while in CONFIG (or when forget is set), and
// marks it offline otherwise so its answers survive a reconnection. A
// departure can complete the current phase, so the round and vote checks
// are re-run against the remaining online players.
func (g *Game) leftLocked(uuid string, forget bool) {
	p := g.players[uuid]
	if p == nil {
		return
	}

	if g.state == stateConfig || forget {
		delete(g.players, uuid)
	} else {
		p.online = false
	}
	delete(g.conns, uuid)

	g.broadcastLocked(playerLeftMessage{Type: "player_left", Player: playerRef{UUID: uuid}})

	logf(g.cfg, "GAMES: Player %q (%s) left %s (still online: %d/%d)",
		p.pseudonym, uuid, g.slug, g.onlineCountLocked(), len(g.players))

	switch g.state {
	case stateAnswering, stateCollectingFinal:
		g.checkRoundEndLocked()
	case stateVoting:
		g.checkVoteEndLocked()
	}

	if g.onlineCountLocked() == 0 {
		g.startIdleTimerLocked()
	}

	if g.masterUUID == uuid {
		g.electRandomMasterLocked()
	}
}

// kickLocked notifies the target before severing it, so the client can
// display whether it was locked out or removed by the master.
func (g *Game) kickLocked(uuid string, lockedOut bool, c *client) {
	logf(g.cfg, "GAMES: Kicking player %s from %s (locked: %t)", uuid, g.slug, lockedOut)

	if c == nil {
		c = g.conns[uuid]
	}
	if c == nil && g.players[uuid] == nil {
		return
	}

	if c != nil {
		select {
		case c.send <- kickedMessage{Type: "kicked", Locked: lockedOut}:
		default:
		}
	}

	if g.players[uuid] != nil {
		g.leftLocked(uuid, g.locked)
	}

	if c != nil {
		close(c.send)
		c.shutdown()
	}
}

func (g *Game) kickByMaster(uuid, targetUUID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.masterUUID != uuid || uuid == targetUUID {
		return
	}

	g.kickLocked(targetUUID, false, nil)
}

func (g *Game) electRandomMasterLocked() {
	uuids := g.onlineUUIDsLocked()
	if len(uuids) == 0 {
		return
	}
	sort.Strings(uuids)
	g.electMasterLocked(uuids[randomIndex(len(uuids))])
}

func (g *Game) electMasterLocked(newMasterUUID string) {
	newMaster := g.players[newMasterUUID]
	if newMaster == nil {
		return
	}

	if oldMaster := g.players[g.masterUUID]; oldMaster != nil {
		oldMaster.master = false
	}

	newMaster.master = true
	g.masterUUID = newMasterUUID

	g.broadcastLocked(masterChangedMessage{Type: "master_changed", Master: playerRef{UUID: newMasterUUID}})
}

func (g *Game) switchMaster(uuid, newMasterUUID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.masterUUID != uuid {
		return
	}

	target := g.players[newMasterUUID]
	if target == nil || !target.online {
		return
	}

	g.electMasterLocked(newMasterUUID)
}

func (g *Game) setLock(uuid string, locked bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.masterUUID != uuid {
		return
	}

	g.locked = locked
	g.broadcastLocked(lockChangedMessage{Type: "lock_changed", Locked: locked})
}

// setCategoriesByEveryone toggles whether non-master players may edit the
// category list. A non-master toggle is answered with the opposite value,
// unicast, to reset an optimistic client.
func (g *Game) setCategoriesByEveryone(uuid string, enabled bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.masterUUID != uuid {
		g.sendToLocked(uuid, categoriesByEveryoneMessage{Type: "categories_by_everyone_changed", Enabled: !enabled})
		return
	}

	g.categoriesByEveryone = enabled
	g.broadcastLocked(categoriesByEveryoneMessage{Type: "categories_by_everyone_changed", Enabled: enabled})
}

// updateConfiguration merges a configuration edit. Rejected edits re-send
// the authoritative configuration to the sender only, overwriting any
// optimistic client-side change.
func (g *Game) updateConfiguration(uuid string, incoming map[string]any) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != stateConfig || !g.isValidPlayerLocked(uuid) {
		return
	}

	merged, accepted := mergeConfiguration(g.configuration, incoming, g.masterUUID == uuid, g.categoriesByEveryone)
	if !accepted {
		g.sendToLocked(uuid, configUpdatedMessage{Type: "config_updated", Configuration: g.configuration})
		return
	}

	g.configuration = merged
	g.broadcastLocked(configUpdatedMessage{Type: "config_updated", Configuration: g.configuration})
}

func (g *Game) start(uuid string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != stateConfig || !g.isValidPlayerLocked(uuid) || g.masterUUID != uuid {
		return
	}
	if len(g.configuration.Categories) == 0 || len(g.configuration.Alphabet) == 0 {
		return
	}

	logf(g.cfg, "GAMES: Starting game %s", g.slug)
	g.nextRoundLocked()
}

func (g *Game) nextRoundLocked() {
	g.state = stateCountdown
	g.countdownStarted = time.Now()

	g.broadcastLocked(roundStartsSoonMessage{
		Type:      "round_starts_soon",
		Countdown: int(g.cfg.countdown / time.Second),
	})

	g.countdownTimer = time.AfterFunc(g.cfg.countdown, func() {
		g.mu.Lock()
		defer g.mu.Unlock()

		// The game may have been torn down or restarted since the
		// countdown was scheduled.
		if g.state != stateCountdown {
			return
		}

		g.beginRoundLocked()
	})
}

func (g *Game) beginRoundLocked() {
	g.state = stateAnswering
	g.currentRound++
	g.currentLetter, g.usedLetters = drawLetter(g.configuration.Alphabet, g.usedLetters)

	g.interruptedBy = nil
	g.finalReceived = nil
	g.votesReady = nil

	g.rounds[g.currentRound] = &gameRound{
		letter:  g.currentLetter,
		answers: make(map[string]answerSheet),
	}

	g.broadcastLocked(roundStartedMessage{
		Type:   "round_started",
		Round:  g.currentRound,
		Letter: string(g.currentLetter),
	})

	logf(g.cfg, "GAMES: Starting round #%d of %s with letter %s", g.currentRound, g.slug, string(g.currentLetter))

	g.roundStarted = time.Now()

	if g.configuration.Time != infiniteTime {
		round := g.currentRound
		g.roundTimer = time.AfterFunc(time.Duration(g.configuration.Time)*time.Second, func() {
			g.mu.Lock()
			defer g.mu.Unlock()

			// A deadline firing after the round already closed through
			// full completion must be a no-op.
			if g.state != stateAnswering || g.currentRound != round {
				return
			}

			g.endRoundLocked()
		})
	}
}

// receiveAnswers records a player's answer sheet for the current round.
// Resubmission overwrites the previous sheet. During ANSWERING a submission
// can end the round (stop-on-first-completion, or everyone done); during
// COLLECTING_FINAL it counts toward the final sweep.
func (g *Game) receiveAnswers(uuid string, answers map[string]string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.isValidPlayerLocked(uuid) {
		return
	}
	if g.state != stateAnswering && g.state != stateCollectingFinal {
		return
	}

	sheet := make(answerSheet, len(g.configuration.Categories))
	for _, category := range g.configuration.Categories {
		text, submitted := answers[category]
		if !submitted {
			sheet[category] = recordedAnswer{Answer: nil, Valid: false}
			continue
		}

		answer := text
		sheet[category] = recordedAnswer{
			Answer: &answer,
			Valid:  answerValid(g.currentLetter, answer),
		}
	}

	g.rounds[g.currentRound].answers[uuid] = sheet

	if g.state == stateAnswering {
		g.broadcastLocked(playerReadyMessage{Type: "player_ready", Player: playerRef{UUID: uuid}})

		if g.configuration.StopOnFirstCompletion {
			interruptor := uuid
			g.interruptedBy = &interruptor
			g.endRoundLocked()
		}
	} else {
		g.finalReceived = append(g.finalReceived, uuid)
	}

	g.checkRoundEndLocked()
}

func (g *Game) checkRoundEndLocked() {
	switch g.state {
	case stateAnswering:
		answered := make([]string, 0, len(g.rounds[g.currentRound].answers))
		for uuid := range g.rounds[g.currentRound].answers {
			answered = append(answered, uuid)
		}
		if containsAll(answered, g.onlineUUIDsLocked()) {
			g.endRoundLocked()
		}

	case stateCollectingFinal:
		if containsAll(g.finalReceived, g.onlineUUIDsLocked()) {
			g.startVoteLocked()
		}
	}
}

func (g *Game) endRoundLocked() {
	if g.state != stateAnswering {
		return
	}

	if g.roundTimer != nil {
		g.roundTimer.Stop()
		g.roundTimer = nil
	}

	g.state = stateCollectingFinal
	g.broadcastLocked(roundEndedMessage{Type: "round_ended"})

	logf(g.cfg, "GAMES: Round #%d of %s ended, collecting answers", g.currentRound, g.slug)

	// With no one left online the final sweep can never complete, so the
	// vote starts immediately with whatever was recorded.
	if g.onlineCountLocked() == 0 {
		g.startVoteLocked()
	}
}

func (g *Game) startVoteLocked() {
	logf(g.cfg, "GAMES: Starting vote for round #%d of %s", g.currentRound, g.slug)

	round := g.rounds[g.currentRound]
	round.ballots = assembleBallots(round, g.onlineUUIDsLocked())

	g.broadcastLocked(voteStartedMessage{
		Type:          "vote_started",
		Ballots:       round.ballots,
		InterruptedBy: g.interruptedBy,
	})

	g.state = stateVoting
}

// receiveVote flips a single voter's bit on one ballot. Votes against
// ballots that were never assembled (e.g. targeting a player who joined
// after the sweep) are dropped.
func (g *Game) receiveVote(uuid, category, authorUUID string, vote bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != stateVoting {
		return
	}
	if !g.isValidPlayerLocked(uuid) || !g.isValidPlayerLocked(authorUUID) || !g.isValidCategoryLocked(category) {
		return
	}

	target := g.rounds[g.currentRound].ballots[category][authorUUID]
	if target == nil {
		return
	}

	target.Votes[uuid] = vote

	g.broadcastLocked(voteChangedMessage{
		Type:     "vote_changed",
		Voter:    playerRef{UUID: uuid},
		Author:   playerRef{UUID: authorUUID},
		Category: category,
		Vote:     vote,
	})
}

func (g *Game) receiveVoteReady(uuid string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != stateVoting || !g.isValidPlayerLocked(uuid) {
		return
	}

	g.votesReady = append(g.votesReady, uuid)
	g.broadcastLocked(playerReadyMessage{Type: "player_ready", Player: playerRef{UUID: uuid}})

	g.checkVoteEndLocked()
}

func (g *Game) checkVoteEndLocked() {
	if g.state != stateVoting {
		return
	}

	if !containsAll(g.votesReady, g.onlineUUIDsLocked()) {
		return
	}

	if g.currentRound >= g.configuration.Turns {
		g.endGameLocked()
	} else {
		g.nextRoundLocked()
	}
}

func (g *Game) endGameLocked() {
	if g.state != stateVoting {
		return
	}

	logf(g.cfg, "GAMES: Ending game %s", g.slug)

	// Everyone who ever joined is scored, offline players included.
	uuids := make([]string, 0, len(g.players))
	for uuid := range g.players {
		uuids = append(uuids, uuid)
	}
	sort.Strings(uuids)

	g.finalScores = computeScores(g.rounds, uuids, g.configuration)

	g.broadcastLocked(gameEndedMessage{Type: "game_ended", Scores: g.finalScores})
	g.state = stateEnded
}

// restart returns an ended game to the configuration phase, keeping online
// players (and their UUIDs) while purging offline ones.
func (g *Game) restart(uuid string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != stateEnded || g.masterUUID != uuid {
		return
	}

	g.state = stateConfig

	g.currentRound = 0
	g.currentLetter = 0
	g.interruptedBy = nil
	g.finalReceived = nil
	g.votesReady = nil

	g.rounds = make(map[int]*gameRound)
	g.finalScores = nil

	for playerUUID, p := range g.players {
		if !p.online {
			delete(g.players, playerUUID)
		}
	}

	g.broadcastLocked(gameRestartedMessage{Type: "game_restarted"})
}

// catchUpLocked sends a joining client a snapshot of the current phase.
// Joining during the final collection sweep or the vote also registers the
// player as already done for that phase, since it has nothing to submit
// retroactively.
func (g *Game) catchUpLocked(uuid string) {
	if g.state == stateConfig {
		return
	}

	reported := g.state
	if reported == stateCollectingFinal {
		reported = stateAnswering
	}

	msg := catchUpMessage{
		Type:  "catch_up_snapshot",
		State: string(reported),
	}

	switch g.state {
	case stateCountdown:
		remaining := g.cfg.countdown - time.Since(g.countdownStarted)
		if remaining < 0 {
			remaining = 0
		}
		countdown := int(remaining.Round(time.Second) / time.Second)
		msg.Countdown = &countdown

	case stateAnswering, stateCollectingFinal:
		round := g.rounds[g.currentRound]

		ready := make([]string, 0, len(round.answers))
		for answered := range round.answers {
			ready = append(ready, answered)
		}
		sort.Strings(ready)

		var timeLeft *int
		if g.configuration.Time != infiniteTime {
			left := g.configuration.Time - int(time.Since(g.roundStarted)/time.Second)
			if left < 0 {
				left = 0
			}
			timeLeft = &left
		}

		msg.Round = &catchUpRound{
			Round:        g.currentRound,
			Letter:       string(g.currentLetter),
			TimeLeft:     timeLeft,
			PlayersReady: ready,
		}

	case stateVoting:
		msg.Vote = &catchUpVote{
			Ballots:       g.rounds[g.currentRound].ballots,
			InterruptedBy: g.interruptedBy,
			PlayersReady:  g.votesReady,
		}

	case stateEnded:
		msg.End = &catchUpEnd{Scores: g.finalScores}
	}

	switch g.state {
	case stateCollectingFinal:
		g.finalReceived = append(g.finalReceived, uuid)
	case stateVoting:
		g.votesReady = append(g.votesReady, uuid)
	}

	g.sendToLocked(uuid, msg)
}

// closeAll disconnects every client of this game (used by the directory
// when a game expires).
func (g *Game) closeAll() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.countdownTimer != nil {
		g.countdownTimer.Stop()
	}
	if g.roundTimer != nil {
		g.roundTimer.Stop()
	}
	g.stopIdleTimerLocked()

	for uuid, c := range g.conns {
		close(c.send)
		c.shutdown()
		delete(g.conns, uuid)
	}
}
