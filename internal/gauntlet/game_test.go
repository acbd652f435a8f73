package gauntlet_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/gauntlet/internal/gauntlet"
	"github.com/vytor/gauntlet/internal/models"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newGame(t *testing.T, difficulty models.Difficulty, mode models.GameMode, items []gauntlet.Item, reps int) *gauntlet.Game {
	t.Helper()
	g := gauntlet.New(models.DojoKana, seeded(), gauntlet.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, g.Start(gauntlet.Config{
		Difficulty:         difficulty,
		GameMode:           mode,
		RepetitionsPerChar: reps,
		Items:              items,
		SelectedSets:       []string{"test"},
	}))
	return g
}

func answerCorrect(t *testing.T, g *gauntlet.Game) gauntlet.Feedback {
	t.Helper()
	slot, ok := g.Current()
	require.True(t, ok)
	fb, err := g.SubmitAnswer(gauntlet.CorrectOption(slot))
	require.NoError(t, err)
	require.True(t, fb.Correct)
	return fb
}

func answerWrong(t *testing.T, g *gauntlet.Game) gauntlet.Feedback {
	t.Helper()
	fb, err := g.SubmitAnswer("definitely wrong")
	require.NoError(t, err)
	require.False(t, fb.Correct)
	return fb
}

func wrongOption(t *testing.T, g *gauntlet.Game) string {
	t.Helper()
	slot, ok := g.Current()
	require.True(t, ok)
	for _, o := range g.Options() {
		if !gauntlet.SameAnswer(o, gauntlet.CorrectOption(slot)) && !contains(g.DisabledOptions(), o) {
			return o
		}
	}
	t.Fatal("no wrong option available")
	return ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestStart_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  gauntlet.Config
		want error
	}{
		{"empty pool", gauntlet.Config{Difficulty: models.DifficultyNormal, GameMode: models.ModeType, RepetitionsPerChar: 1}, gauntlet.ErrNoItems},
		{"zero repetitions", gauntlet.Config{Difficulty: models.DifficultyNormal, GameMode: models.ModeType, Items: makeItems(2)}, gauntlet.ErrInvalidRepetitions},
		{"bad difficulty", gauntlet.Config{Difficulty: "easy", GameMode: models.ModeType, RepetitionsPerChar: 1, Items: makeItems(2)}, gauntlet.ErrInvalidDifficulty},
		{"bad mode", gauntlet.Config{Difficulty: models.DifficultyHard, GameMode: "Speak", RepetitionsPerChar: 1, Items: makeItems(2)}, gauntlet.ErrInvalidMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gauntlet.New(models.DojoKana, seeded())
			assert.ErrorIs(t, g.Start(tt.cfg), tt.want)
			assert.Equal(t, models.RunIdle, g.Status())
		})
	}
}

func TestStart_InitializesRun(t *testing.T) {
	g := newGame(t, models.DifficultyNormal, models.ModeType, makeItems(4), 3)

	s := g.State()
	assert.Equal(t, models.RunActive, s.Status)
	assert.Equal(t, 3, s.Lives)
	assert.Equal(t, 3, s.MaxLives)
	assert.Nil(t, s.LastAnswerCorrect)
	assert.Equal(t, 12, g.TotalQuestions())

	err := g.Start(gauntlet.Config{Difficulty: models.DifficultyHard, GameMode: models.ModeType, RepetitionsPerChar: 1, Items: makeItems(1)})
	assert.ErrorIs(t, err, gauntlet.ErrAlreadyStarted)
}

func TestGame_HardScenario(t *testing.T) {
	g := newGame(t, models.DifficultyHard, models.ModeType, makeItems(10), 1)

	answerCorrect(t, g)
	answerWrong(t, g)
	answerWrong(t, g)
	answerCorrect(t, g)
	answerWrong(t, g)

	s := g.State()
	assert.Equal(t, 0, s.Lives)
	assert.Equal(t, models.RunLost, s.Status)
	assert.Equal(t, 2, s.CorrectAnswers)
	assert.Equal(t, 3, s.WrongAnswers)
	assert.Equal(t, 0, s.Streak)
	assert.Equal(t, 1, s.BestStreakThisRun)

	sum, ok := g.Summary()
	require.True(t, ok)
	assert.False(t, sum.Completed)
	assert.Equal(t, 10, sum.TotalCharacters)
	assert.Equal(t, fixedNow, sum.Timestamp)
}

func TestGame_InstantDeathEndsOnFirstMiss(t *testing.T) {
	g := newGame(t, models.DifficultyInstantDeath, models.ModeType, makeItems(10), 2)

	for i := 0; i < 5; i++ {
		answerCorrect(t, g)
	}
	fb := answerWrong(t, g)

	assert.True(t, fb.LifeLost)
	assert.Equal(t, models.RunLost, g.Status())
	assert.Equal(t, 0, g.State().Lives)
	assert.Equal(t, 5, g.State().BestStreakThisRun)
}

func TestGame_NormalRegeneratesAfterThreshold(t *testing.T) {
	g := newGame(t, models.DifficultyNormal, models.ModeType, makeItems(20), 1)

	answerWrong(t, g)
	require.Equal(t, 2, g.State().Lives)
	assert.Equal(t, 10, g.RegenRemaining())

	for i := 0; i < 9; i++ {
		fb := answerCorrect(t, g)
		assert.False(t, fb.LifeGained)
	}
	assert.Equal(t, 1, g.RegenRemaining())

	fb := answerCorrect(t, g)
	assert.True(t, fb.LifeGained)
	s := g.State()
	assert.Equal(t, 3, s.Lives)
	assert.Equal(t, 0, s.CorrectSinceLastRegen)
	assert.Equal(t, 0, g.RegenRemaining())
}

func TestGame_NormalNoRegenAtFullLives(t *testing.T) {
	g := newGame(t, models.DifficultyNormal, models.ModeType, makeItems(20), 1)

	for i := 0; i < 10; i++ {
		fb := answerCorrect(t, g)
		assert.False(t, fb.LifeGained)
	}
	s := g.State()
	assert.Equal(t, 3, s.Lives)
	assert.Equal(t, 10, s.CorrectSinceLastRegen)
}

func TestGame_HardNeverRegenerates(t *testing.T) {
	g := newGame(t, models.DifficultyHard, models.ModeType, makeItems(20), 1)

	answerWrong(t, g)
	for i := 0; i < 15; i++ {
		answerCorrect(t, g)
	}
	assert.Equal(t, 2, g.State().Lives)
	assert.Equal(t, 0, g.RegenRemaining())
}

func TestGame_TypeMissAdvancesWithExpectedAnswer(t *testing.T) {
	g := newGame(t, models.DifficultyNormal, models.ModeType, makeItems(5), 1)
	slot, _ := g.Current()

	fb := answerWrong(t, g)

	assert.Equal(t, gauntlet.CorrectOption(slot), fb.ExpectedAnswer)
	assert.Equal(t, 1, g.State().CurrentIndex)
	require.NotNil(t, g.State().LastAnswerCorrect)
	assert.False(t, *g.State().LastAnswerCorrect)

	answerCorrect(t, g)
	assert.True(t, *g.State().LastAnswerCorrect)
	last, ok := g.LastFeedback()
	require.True(t, ok)
	assert.False(t, last.LifeLost, "feedback is replaced by the next submission")
}

func TestGame_TypeMissOnLastQuestionStillWins(t *testing.T) {
	g := newGame(t, models.DifficultyHard, models.ModeType, makeItems(3), 1)

	answerCorrect(t, g)
	answerCorrect(t, g)
	answerWrong(t, g)

	assert.Equal(t, models.RunWon, g.Status())
	sum, _ := g.Summary()
	assert.True(t, sum.Completed)
}

func TestGame_EmptyAnswerIsRejected(t *testing.T) {
	g := newGame(t, models.DifficultyHard, models.ModeType, makeItems(3), 1)
	before := g.State()

	_, err := g.SubmitAnswer("   ")

	assert.ErrorIs(t, err, gauntlet.ErrEmptyAnswer)
	assert.Equal(t, before, g.State())
}

func TestGame_WinRecordsSummary(t *testing.T) {
	g := newGame(t, models.DifficultyNormal, models.ModeType, makeItems(3), 2)

	for i := 0; i < 6; i++ {
		assert.True(t, g.Tick(250))
		answerCorrect(t, g)
	}

	assert.Equal(t, models.RunWon, g.Status())
	sum, ok := g.Summary()
	require.True(t, ok)
	assert.Equal(t, models.GauntletSessionStats{
		DojoType:           models.DojoKana,
		Difficulty:         models.DifficultyNormal,
		GameMode:           models.ModeType,
		RepetitionsPerChar: 2,
		TotalCharacters:    3,
		CorrectAnswers:     6,
		BestStreak:         6,
		TotalTimeMs:        1500,
		Completed:          true,
		Timestamp:          fixedNow,
	}, sum)

	_, err := g.SubmitAnswer("answer-0")
	assert.ErrorIs(t, err, gauntlet.ErrNotActive)
	assert.False(t, g.Tick(100))
	assert.Equal(t, int64(1500), g.State().ElapsedTimeMs)
}

func TestGame_PickMissDisablesOptionAndKeepsQuestion(t *testing.T) {
	g := newGame(t, models.DifficultyNormal, models.ModePick, makeItems(6), 1)
	require.Len(t, g.Options(), 3)
	slot, _ := g.Current()

	wrong := wrongOption(t, g)
	fb, err := g.SelectOption(wrong)
	require.NoError(t, err)

	assert.False(t, fb.Correct)
	assert.True(t, fb.LifeLost)
	assert.Empty(t, fb.ExpectedAnswer)
	assert.Equal(t, 0, g.State().CurrentIndex)
	assert.Equal(t, 2, g.State().Lives)
	assert.Equal(t, []string{wrong}, g.DisabledOptions())
	assert.Contains(t, g.Options(), wrong, "rejected option stays visible")

	_, err = g.SelectOption(wrong)
	assert.ErrorIs(t, err, gauntlet.ErrOptionDisabled)
	assert.Equal(t, 2, g.State().Lives)

	_, err = g.SelectOption("not on screen")
	assert.ErrorIs(t, err, gauntlet.ErrUnknownOption)

	fb, err = g.SelectOption(gauntlet.CorrectOption(slot))
	require.NoError(t, err)
	assert.True(t, fb.Correct)
	assert.Equal(t, 1, g.State().CurrentIndex)
	assert.Empty(t, g.DisabledOptions())
}

func TestGame_PickLosesWhenLivesRunOut(t *testing.T) {
	g := newGame(t, models.DifficultyHard, models.ModePick, makeItems(6), 1)

	for i := 0; i < 2; i++ {
		_, err := g.SelectOption(wrongOption(t, g))
		require.NoError(t, err)
	}
	slot, _ := g.Current()
	_, err := g.SelectOption(gauntlet.CorrectOption(slot))
	require.NoError(t, err)
	_, err = g.SelectOption(wrongOption(t, g))
	require.NoError(t, err)

	assert.Equal(t, models.RunLost, g.Status())
	assert.Equal(t, 3, g.State().WrongAnswers)
	assert.Empty(t, g.Options())
}

func TestGame_OptionCount(t *testing.T) {
	g := gauntlet.New(models.DojoKana, seeded(), gauntlet.WithOptionCount(4))
	require.NoError(t, g.Start(gauntlet.Config{
		Difficulty:         models.DifficultyHard,
		GameMode:           models.ModePick,
		RepetitionsPerChar: 1,
		Items:              makeItems(6),
	}))
	assert.Len(t, g.Options(), 4)
}

func TestGame_WrongModality(t *testing.T) {
	typed := newGame(t, models.DifficultyNormal, models.ModeType, makeItems(3), 1)
	_, err := typed.SelectOption("answer-0")
	assert.ErrorIs(t, err, gauntlet.ErrWrongMode)

	picked := newGame(t, models.DifficultyNormal, models.ModePick, makeItems(3), 1)
	_, err = picked.SubmitAnswer("answer-0")
	assert.ErrorIs(t, err, gauntlet.ErrWrongMode)
}

func TestGame_CancelAborts(t *testing.T) {
	g := newGame(t, models.DifficultyNormal, models.ModeType, makeItems(3), 1)
	g.Tick(1200)
	answerCorrect(t, g)

	require.NoError(t, g.Cancel())

	assert.Equal(t, models.RunAborted, g.Status())
	sum, ok := g.Summary()
	require.True(t, ok)
	assert.False(t, sum.Completed)
	assert.Equal(t, int64(1200), sum.TotalTimeMs)
	assert.ErrorIs(t, g.Cancel(), gauntlet.ErrNotActive)
	assert.False(t, g.Tick(500))
}

func TestGame_IdleIgnoresEvents(t *testing.T) {
	g := gauntlet.New(models.DojoKanji, seeded())

	assert.False(t, g.Tick(100))
	assert.ErrorIs(t, g.Cancel(), gauntlet.ErrNotActive)
	_, err := g.SubmitAnswer("x")
	assert.ErrorIs(t, err, gauntlet.ErrNotActive)
	_, ok := g.Summary()
	assert.False(t, ok)
}

func TestGame_ViewReflectsState(t *testing.T) {
	g := newGame(t, models.DifficultyNormal, models.ModePick, makeItems(4), 1)
	answerWrongPick := wrongOption(t, g)
	_, err := g.SelectOption(answerWrongPick)
	require.NoError(t, err)

	v := g.View()
	assert.Equal(t, models.RunActive, v.Status)
	assert.Equal(t, models.DojoKana, v.DojoType)
	assert.Equal(t, []string{"test"}, v.SelectedSets)
	assert.Equal(t, 2, v.Lives)
	assert.True(t, v.LifeJustLost)
	assert.Equal(t, 10, v.RegenRemaining)
	assert.NotEmpty(t, v.Prompt)
	assert.Len(t, v.Options, 3)
	assert.Equal(t, []string{answerWrongPick}, v.DisabledOptions)
	assert.Nil(t, v.Summary)

	require.NoError(t, g.Cancel())
	v = g.View()
	require.NotNil(t, v.Summary)
	require.NotNil(t, v.FinishedAt)
	assert.Empty(t, v.Prompt)
}
