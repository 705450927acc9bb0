/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import "sync"

// GameDirectory holds the set of games keyed by slug, so each
// $path/$gameid is its own isolated session. Lookup and creation are safe
// against concurrent connection handlers; everything inside a game is
// serialized by the game's own lock.
type GameDirectory struct {
	cfg *Config

	mu    sync.Mutex
	games map[string]*Game
}

func newGameDirectory(cfg *Config) *GameDirectory {
	return &GameDirectory{
		cfg:   cfg,
		games: make(map[string]*Game),
	}
}

func (d *GameDirectory) get(slug string) *Game {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.games[slug]
}

func (d *GameDirectory) getOrCreate(slug string) *Game {
	d.mu.Lock()
	defer d.mu.Unlock()

	if game, ok := d.games[slug]; ok {
		return game
	}

	game := newGame(slug, d.cfg, d)
	d.games[slug] = game

	return game
}

// newGameID generates a random game slug, ensuring it doesn't collide
// with a running game.
func (d *GameDirectory) newGameID() string {
	for {
		slug := newRandomSlug()

		d.mu.Lock()
		_, exists := d.games[slug]
		d.mu.Unlock()

		if !exists {
			return slug
		}
	}
}

// remove destroys a game, disconnecting any remaining clients. Called by
// each game's idle-expiry timer once it has had no online players for the
// configured threshold.
func (d *GameDirectory) remove(slug string) {
	d.mu.Lock()
	game := d.games[slug]
	delete(d.games, slug)
	d.mu.Unlock()

	if game != nil {
		game.closeAll()
	}
}
