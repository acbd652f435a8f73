package models

import "time"

// RunStatus is the lifecycle state of a gauntlet run.
type RunStatus string

const (
	RunIdle    RunStatus = "idle"
	RunActive  RunStatus = "active"
	RunWon     RunStatus = "won"
	RunLost    RunStatus = "lost"
	RunAborted RunStatus = "aborted"
)

// Terminal reports whether no further transitions are possible.
func (s RunStatus) Terminal() bool {
	return s == RunWon || s == RunLost || s == RunAborted
}

// RunView is the read-only snapshot a host renders.
type RunView struct {
	ID           string     `json:"id"`
	DojoType     DojoType   `json:"dojoType"`
	Difficulty   Difficulty `json:"difficulty"`
	GameMode     GameMode   `json:"gameMode"`
	SelectedSets []string   `json:"selectedSets"`
	Status       RunStatus  `json:"status"`

	CurrentIndex   int `json:"currentIndex"`
	TotalQuestions int `json:"totalQuestions"`

	Lives                 int  `json:"lives"`
	MaxLives              int  `json:"maxLives"`
	Regenerates           bool `json:"regenerates"`
	RegenThreshold        int  `json:"regenThreshold"`
	CorrectSinceLastRegen int  `json:"correctSinceLastRegen"`
	RegenRemaining        int  `json:"regenRemaining"`

	Streak         int   `json:"streak"`
	BestStreak     int   `json:"bestStreak"`
	CorrectAnswers int   `json:"correctAnswers"`
	WrongAnswers   int   `json:"wrongAnswers"`
	ElapsedTimeMs  int64 `json:"elapsedTimeMs"`

	Prompt          string   `json:"prompt,omitempty"`
	Reversed        bool     `json:"reversed"`
	Options         []string `json:"options,omitempty"`
	DisabledOptions []string `json:"disabledOptions,omitempty"`

	LastAnswerCorrect *bool  `json:"lastAnswerCorrect"`
	ExpectedAnswer    string `json:"expectedAnswer,omitempty"`
	LifeJustGained    bool   `json:"lifeJustGained"`
	LifeJustLost      bool   `json:"lifeJustLost"`

	Summary    *GauntletSessionStats `json:"summary,omitempty"`
	SaveResult *SaveResult           `json:"saveResult,omitempty"`
	FinishedAt *time.Time            `json:"finishedAt,omitempty"`
}
