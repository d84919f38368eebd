package models

import (
	"encoding/json"
	"strings"
)

// Difficulty is a closed set. The zero value is DifficultyUnknown.
type Difficulty uint8

const (
	DifficultyUnknown Difficulty = iota
	DifficultyEasy
	DifficultyMedium
	DifficultyHard
)

// ParseDifficulty maps English or Chinese labels onto a Difficulty.
// Unrecognised input is DifficultyUnknown.
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "简单":
		return DifficultyEasy
	case "medium", "中等":
		return DifficultyMedium
	case "hard", "困难":
		return DifficultyHard
	}
	return DifficultyUnknown
}

// DetectDifficulty looks for a difficulty label anywhere in free text,
// e.g. "难度：Medium". Easy wins over medium, medium over hard.
func DetectDifficulty(text string) Difficulty {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "easy") || strings.Contains(text, "简单"):
		return DifficultyEasy
	case strings.Contains(lower, "medium") || strings.Contains(text, "中等"):
		return DifficultyMedium
	case strings.Contains(lower, "hard") || strings.Contains(text, "困难"):
		return DifficultyHard
	}
	return DifficultyUnknown
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return "unknown"
	}
}

// Label is the display name.
func (d Difficulty) Label() string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	default:
		return "Unknown"
	}
}

func (d Difficulty) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON never fails: anything that is not a known label string
// becomes DifficultyUnknown.
func (d *Difficulty) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*d = DifficultyUnknown
		return nil
	}
	*d = ParseDifficulty(s)
	return nil
}
