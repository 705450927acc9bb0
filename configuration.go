/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	defaultAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	defaultTurns = 4
	minimumTurns = 1

	defaultTime = 400
	minimumTime = 15

	// infiniteTime is a sentinel: a round with this duration has no
	// deadline and only ends through player completion.
	infiniteTime = 600
)

type ScoreValues struct {
	// The answer is valid, accepted by the players, and not duplicated.
	Valid int `json:"valid"`

	// Same as the above, but another player gave the same answer for
	// this category.
	Duplicate int `json:"duplicate"`

	// The answer does not start with the round's letter.
	Invalid int `json:"invalid"`

	// The answer is valid, but was refused by the other players.
	Refused int `json:"refused"`

	// The answer is empty.
	Empty int `json:"empty"`
}

type Configuration struct {
	Categories            []string    `json:"categories"`
	StopOnFirstCompletion bool        `json:"stopOnFirstCompletion"`
	Turns                 int         `json:"turns"`
	Time                  int         `json:"time"`
	Alphabet              string      `json:"alphabet"`
	Scores                ScoreValues `json:"scores"`
}

func defaultConfiguration() Configuration {
	return Configuration{
		Categories:            []string{},
		StopOnFirstCompletion: true,
		Turns:                 defaultTurns,
		Time:                  infiniteTime,
		Alphabet:              "",
		Scores: ScoreValues{
			Valid:     10,
			Duplicate: 5,
			Invalid:   0,
			Refused:   0,
			Empty:     0,
		},
	}
}

// coerceInt converts a loosely-typed JSON value to an int, falling back to
// def when the value is missing, unparseable, or zero.
func coerceInt(value any, def int) int {
	n, ok := toInt(value)
	if !ok || n == 0 {
		return def
	}
	return n
}

// coerceScore is like coerceInt, except zero is a meaningful score and is
// kept as-is.
func coerceScore(value any, def int) int {
	n, ok := toInt(value)
	if !ok {
		return def
	}
	return n
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			f, ferr := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return n, true
	default:
		return 0, false
	}
}

func coerceBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v != "" && v != "false" && v != "0"
	case float64:
		return v != 0
	case nil:
		return false
	default:
		return true
	}
}

func clampPositive(n, minimum int) int {
	if n < 0 {
		n = -n
	}
	if n < minimum {
		n = minimum
	}
	return n
}

// parseCategories validates and cleans up a submitted category list:
// anything but an array is rejected, elements are stringified, duplicates
// are dropped (first occurrence wins), and the survivors are trimmed.
func parseCategories(value any) ([]string, bool) {
	raw, ok := value.([]any)
	if !ok {
		return nil, false
	}

	seen := make(map[string]struct{}, len(raw))
	categories := make([]string, 0, len(raw))
	for _, item := range raw {
		category := fmt.Sprint(item)
		if _, dup := seen[category]; dup {
			continue
		}
		seen[category] = struct{}{}
		categories = append(categories, strings.TrimSpace(category))
	}

	return categories, true
}

// mergeConfiguration applies a loosely-typed configuration update from a
// player against the existing configuration. Non-masters may only
// contribute categories, and only while categoriesByEveryone is enabled;
// every other field they send is discarded. The second return value is
// false if the update is rejected outright, in which case the existing
// configuration is returned unchanged.
func mergeConfiguration(existing Configuration, incoming map[string]any, isMaster, categoriesByEveryone bool) (Configuration, bool) {
	if incoming == nil {
		return existing, false
	}

	categories, ok := parseCategories(incoming["categories"])
	if !ok {
		return existing, false
	}

	if !isMaster {
		if !categoriesByEveryone {
			return existing, false
		}

		merged := existing
		merged.Categories = categories
		return merged, true
	}

	scores, ok := incoming["scores"].(map[string]any)
	if !ok {
		return existing, false
	}

	alphabet, _ := incoming["alphabet"].(string)
	if alphabet == "" {
		alphabet = defaultAlphabet
	}

	return Configuration{
		Categories:            categories,
		StopOnFirstCompletion: coerceBool(incoming["stopOnFirstCompletion"]),
		Turns:                 clampPositive(coerceInt(incoming["turns"], defaultTurns), minimumTurns),
		Time:                  clampPositive(coerceInt(incoming["time"], defaultTime), minimumTime),
		Alphabet:              alphabet,
		Scores: ScoreValues{
			Valid:     coerceScore(scores["valid"], 10),
			Duplicate: coerceScore(scores["duplicate"], 5),
			Invalid:   coerceScore(scores["invalid"], 0),
			Refused:   coerceScore(scores["refused"], 0),
			Empty:     coerceScore(scores["empty"], 0),
		},
	}, true
}
