package gauntlet

import "github.com/vytor/gauntlet/internal/models"

// View renders the game into the snapshot hosts display. Run identity and the
// save result are filled in by the caller that owns them.
func (g *Game) View() models.RunView {
	s := g.State()
	v := models.RunView{
		DojoType:              g.dojo,
		Difficulty:            g.cfg.Difficulty,
		GameMode:              g.cfg.GameMode,
		SelectedSets:          append([]string(nil), g.cfg.SelectedSets...),
		Status:                s.Status,
		CurrentIndex:          s.CurrentIndex,
		TotalQuestions:        len(g.slots),
		Lives:                 s.Lives,
		MaxLives:              s.MaxLives,
		Regenerates:           g.policy.Regenerates,
		RegenThreshold:        g.policy.RegenThreshold,
		CorrectSinceLastRegen: s.CorrectSinceLastRegen,
		RegenRemaining:        g.RegenRemaining(),
		Streak:                s.Streak,
		BestStreak:            s.BestStreakThisRun,
		CorrectAnswers:        s.CorrectAnswers,
		WrongAnswers:          s.WrongAnswers,
		ElapsedTimeMs:         s.ElapsedTimeMs,
		LastAnswerCorrect:     s.LastAnswerCorrect,
	}
	if slot, ok := g.Current(); ok {
		v.Prompt = slot.Prompt()
		v.Reversed = slot.Reversed
		v.Options = g.Options()
		v.DisabledOptions = g.DisabledOptions()
	}
	if fb, ok := g.LastFeedback(); ok {
		v.ExpectedAnswer = fb.ExpectedAnswer
		v.LifeJustGained = fb.LifeGained
		v.LifeJustLost = fb.LifeLost
	}
	if sum, ok := g.Summary(); ok {
		v.Summary = &sum
	}
	if at, ok := g.FinishedAt(); ok {
		v.FinishedAt = &at
	}
	return v
}

// RegenRemaining is the number of correct answers still needed for the next
// life, or 0 when no regeneration is pending.
func (g *Game) RegenRemaining() int {
	if !g.policy.Regenerates || g.state.Lives >= g.state.MaxLives {
		return 0
	}
	n := g.policy.RegenThreshold - g.state.CorrectSinceLastRegen
	if n < 0 {
		return 0
	}
	return n
}
