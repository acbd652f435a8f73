// Package gauntlet implements the survival quiz engine: difficulty policy,
// question sequencing, answer evaluation and the per-run state machine.
package gauntlet

import (
	"fmt"

	"github.com/vytor/gauntlet/internal/models"
)

// Policy describes the life rules of a difficulty tier.
type Policy struct {
	MaxLives       int  `json:"maxLives"`
	Regenerates    bool `json:"regenerates"`
	RegenThreshold int  `json:"regenThreshold"`
}

var policies = map[models.Difficulty]Policy{
	models.DifficultyNormal:       {MaxLives: 3, Regenerates: true, RegenThreshold: 10},
	models.DifficultyHard:         {MaxLives: 3, Regenerates: false},
	models.DifficultyInstantDeath: {MaxLives: 1, Regenerates: false},
}

// PolicyFor returns the policy of a known tier. Callers validate user input
// with ValidDifficulty first; an unknown tier here is a bug.
func PolicyFor(d models.Difficulty) Policy {
	p, ok := policies[d]
	if !ok {
		panic(fmt.Sprintf("gauntlet: no policy for difficulty %q", d))
	}
	return p
}

// ValidDifficulty reports whether a policy exists for d.
func ValidDifficulty(d models.Difficulty) bool {
	_, ok := policies[d]
	return ok
}
