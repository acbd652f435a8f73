package models

import (
	"fmt"
	"strings"
	"time"
)

// DojoType is the learning domain a run belongs to.
type DojoType string

const (
	DojoKana       DojoType = "kana"
	DojoKanji      DojoType = "kanji"
	DojoVocabulary DojoType = "vocabulary"
)

// DojoTypes lists every dojo in display order.
var DojoTypes = []DojoType{DojoKana, DojoKanji, DojoVocabulary}

// ParseDojoType accepts a dojo name case-insensitively.
func ParseDojoType(s string) (DojoType, error) {
	switch DojoType(strings.ToLower(strings.TrimSpace(s))) {
	case DojoKana:
		return DojoKana, nil
	case DojoKanji:
		return DojoKanji, nil
	case DojoVocabulary:
		return DojoVocabulary, nil
	default:
		return "", fmt.Errorf("unknown dojo type %q", s)
	}
}

type Difficulty string

const (
	DifficultyNormal       Difficulty = "normal"
	DifficultyHard         Difficulty = "hard"
	DifficultyInstantDeath Difficulty = "instant-death"
)

// ParseDifficulty accepts "normal", "hard" and "instant-death" (or "instantdeath").
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal":
		return DifficultyNormal, nil
	case "hard":
		return DifficultyHard, nil
	case "instant-death", "instantdeath", "instant_death":
		return DifficultyInstantDeath, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
}

// GameMode selects the answer modality.
type GameMode string

const (
	ModeType GameMode = "Type"
	ModePick GameMode = "Pick"
)

func ParseGameMode(s string) (GameMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "type":
		return ModeType, nil
	case "pick":
		return ModePick, nil
	default:
		return "", fmt.Errorf("unknown game mode %q", s)
	}
}

// GauntletSessionStats is the immutable summary of a finished run.
type GauntletSessionStats struct {
	ID                 string     `json:"id"`
	DojoType           DojoType   `json:"dojoType"`
	Difficulty         Difficulty `json:"difficulty"`
	GameMode           GameMode   `json:"gameMode"`
	RepetitionsPerChar int        `json:"repetitionsPerChar"`
	TotalCharacters    int        `json:"totalCharacters"`
	CorrectAnswers     int        `json:"correctAnswers"`
	WrongAnswers       int        `json:"wrongAnswers"`
	BestStreak         int        `json:"bestStreak"`
	TotalTimeMs        int64      `json:"totalTimeMs"`
	Completed          bool       `json:"completed"`
	Timestamp          time.Time  `json:"timestamp"`
}

// BestTimeKey identifies a configuration for best-time lookup.
func BestTimeKey(difficulty Difficulty, repetitions int, mode GameMode, totalCharacters int) string {
	return fmt.Sprintf("%s-%d-%s-%d", difficulty, repetitions, mode, totalCharacters)
}

// Key returns the best-time key of the session's configuration.
func (s GauntletSessionStats) Key() string {
	return BestTimeKey(s.Difficulty, s.RepetitionsPerChar, s.GameMode, s.TotalCharacters)
}

// StatsSchemaVersion is the only document version the stats store accepts.
const StatsSchemaVersion = 1

// MaxStoredSessions caps the persisted session log.
const MaxStoredSessions = 100

// StoredGauntletData is the persisted stats document.
type StoredGauntletData struct {
	Version   int                           `json:"version"`
	Sessions  []GauntletSessionStats        `json:"sessions"`
	BestTimes map[DojoType]map[string]int64 `json:"bestTimes"`
}

// NewStoredGauntletData returns an empty document at the current schema version.
func NewStoredGauntletData() *StoredGauntletData {
	d := &StoredGauntletData{
		Version:   StatsSchemaVersion,
		Sessions:  []GauntletSessionStats{},
		BestTimes: map[DojoType]map[string]int64{},
	}
	d.ensureBestTimes()
	return d
}

// Normalize fills in maps missing from older or hand-edited documents.
func (d *StoredGauntletData) Normalize() {
	if d.Sessions == nil {
		d.Sessions = []GauntletSessionStats{}
	}
	d.ensureBestTimes()
}

func (d *StoredGauntletData) ensureBestTimes() {
	if d.BestTimes == nil {
		d.BestTimes = map[DojoType]map[string]int64{}
	}
	for _, dojo := range DojoTypes {
		if d.BestTimes[dojo] == nil {
			d.BestTimes[dojo] = map[string]int64{}
		}
	}
}

// SaveResult reports the outcome of persisting a session.
type SaveResult struct {
	Saved     bool                 `json:"saved"`
	IsNewBest bool                 `json:"isNewBest"`
	Session   GauntletSessionStats `json:"session"`
}

// OverallStats aggregates every stored session of one dojo.
type OverallStats struct {
	TotalSessions     int    `json:"totalSessions"`
	CompletedSessions int    `json:"completedSessions"`
	TotalCorrect      int    `json:"totalCorrect"`
	TotalWrong        int    `json:"totalWrong"`
	BestStreak        int    `json:"bestStreak"`
	FastestTimeMs     *int64 `json:"fastestTimeMs"`
}
