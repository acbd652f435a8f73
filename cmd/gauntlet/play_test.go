package main

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/gauntlet/internal/catalog"
	"github.com/vytor/gauntlet/internal/gauntlet"
	"github.com/vytor/gauntlet/internal/models"
	"github.com/vytor/gauntlet/internal/repository/memory"
	"github.com/vytor/gauntlet/internal/services"
)

// okItem accepts "ok" whatever the prompt.
type okItem struct{ n int }

func (i okItem) ID() string                    { return fmt.Sprintf("item-%d", i.n) }
func (i okItem) Prompt(bool) string            { return i.ID() }
func (i okItem) AcceptedAnswers(bool) []string { return []string{"ok"} }

type okCatalog struct{ size int }

func (c okCatalog) Sets(models.DojoType) []catalog.SetInfo {
	return []catalog.SetInfo{{Name: "ok", Size: c.size}}
}

func (c okCatalog) Items(models.DojoType, []string) ([]gauntlet.Item, error) {
	items := make([]gauntlet.Item, c.size)
	for i := range items {
		items[i] = okItem{n: i}
	}
	return items, nil
}

func (c okCatalog) Reversible(models.DojoType) bool { return false }

type inlineQueue struct {
	stats services.GauntletStatsService
}

func (q inlineQueue) EnqueueSessionSave(s models.GauntletSessionStats, onSaved func(models.SaveResult)) error {
	onSaved(q.stats.SaveSession(context.Background(), s))
	return nil
}

type playHarness struct {
	runs  services.GauntletService
	lines chan string
	ticks chan time.Time
	out   bytes.Buffer
	done  chan *models.RunView
}

func startPlay(t *testing.T, mode models.GameMode, difficulty models.Difficulty) *playHarness {
	t.Helper()
	stats := services.NewGauntletStatsService(memory.NewKVRepository(), "cli-test")
	h := &playHarness{
		runs: services.NewGauntletService(okCatalog{size: 2}, inlineQueue{stats: stats}, services.GauntletServiceConfig{
			NewRand: func() *rand.Rand { return rand.New(rand.NewSource(3)) },
		}),
		lines: make(chan string),
		ticks: make(chan time.Time),
		done:  make(chan *models.RunView, 1),
	}

	view, err := h.runs.StartRun(context.Background(), services.StartRunRequest{
		DojoType:           models.DojoKana,
		Difficulty:         difficulty,
		GameMode:           mode,
		RepetitionsPerChar: 1,
	})
	require.NoError(t, err)

	p := &player{runs: h.runs, out: &h.out}
	go func() {
		final, err := p.play(context.Background(), view, h.lines, h.ticks)
		assert.NoError(t, err)
		h.done <- final
	}()
	return h
}

func (h *playHarness) wait(t *testing.T) *models.RunView {
	t.Helper()
	select {
	case v := <-h.done:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("play did not return")
		return nil
	}
}

func TestPlay_TypeRunWithClock(t *testing.T) {
	h := startPlay(t, models.ModeType, models.DifficultyHard)

	t0 := time.Unix(1700000000, 0)
	h.ticks <- t0
	h.ticks <- t0.Add(250 * time.Millisecond)
	h.ticks <- t0.Add(1250 * time.Millisecond)
	h.lines <- "ok"
	h.lines <- " OK "

	final := h.wait(t)
	assert.Equal(t, models.RunWon, final.Status)
	require.NotNil(t, final.Summary)
	assert.Equal(t, int64(1250), final.Summary.TotalTimeMs)
	assert.Equal(t, 2, final.Summary.CorrectAnswers)
	assert.Contains(t, h.out.String(), "Correct!")
	assert.Contains(t, h.out.String(), "♥♥♥")
}

func TestPlay_MissThenQuit(t *testing.T) {
	h := startPlay(t, models.ModeType, models.DifficultyNormal)

	h.lines <- "nope"
	h.lines <- ":q"

	final := h.wait(t)
	assert.Equal(t, models.RunAborted, final.Status)
	out := h.out.String()
	assert.Contains(t, out, `It was "ok"`)
	assert.Contains(t, out, "-1 life")
	assert.Contains(t, out, "♥♥♡")
	assert.Contains(t, out, "+1 in 10")
}

func TestPlay_InputClosedCancels(t *testing.T) {
	h := startPlay(t, models.ModeType, models.DifficultyInstantDeath)
	close(h.lines)

	final := h.wait(t)
	assert.Equal(t, models.RunAborted, final.Status)
	require.NotNil(t, final.SaveResult)
	assert.True(t, final.SaveResult.Saved)
}

func TestPlay_PickRejectsUnknownOption(t *testing.T) {
	h := startPlay(t, models.ModePick, models.DifficultyHard)

	h.lines <- "5"
	h.lines <- "1"
	h.lines <- "ok"

	final := h.wait(t)
	assert.Equal(t, models.RunWon, final.Status)
	assert.Contains(t, h.out.String(), "option")
	assert.Contains(t, h.out.String(), "1) ok")
}

func TestResolveOption(t *testing.T) {
	options := []string{"one", "two", "three"}
	assert.Equal(t, "two", resolveOption(options, "2"))
	assert.Equal(t, "three", resolveOption(options, " 3 "))
	assert.Equal(t, "4", resolveOption(options, "4"))
	assert.Equal(t, "0", resolveOption(options, "0"))
	assert.Equal(t, "one", resolveOption(options, "one"))
}

func TestHearts(t *testing.T) {
	assert.Equal(t, "♥♥♡", hearts(2, 3))
	assert.Equal(t, "♡♡♡", hearts(-1, 3))
	assert.Equal(t, "♥", hearts(4, 1))
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, &models.RunView{
		Status: models.RunWon,
		Summary: &models.GauntletSessionStats{
			CorrectAnswers: 46,
			WrongAnswers:   1,
			BestStreak:     30,
			TotalTimeMs:    83450,
		},
		SaveResult: &models.SaveResult{Saved: true, IsNewBest: true},
	})

	out := buf.String()
	assert.Contains(t, out, "Gauntlet cleared!")
	assert.Contains(t, out, "Time: 1:23.45")
	assert.Contains(t, out, "New best time!")

	buf.Reset()
	printSummary(&buf, &models.RunView{
		Status:  models.RunLost,
		Summary: &models.GauntletSessionStats{},
	})
	assert.Contains(t, buf.String(), "Out of lives.")
	assert.Contains(t, buf.String(), "could not be saved")
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, confirm(strings.NewReader("y\n"), &out, "Sure?"))
	assert.True(t, confirm(strings.NewReader("YES"), &out, "Sure?"))
	assert.False(t, confirm(strings.NewReader("\n"), &out, "Sure?"))
	assert.False(t, confirm(strings.NewReader(""), &out, "Sure?"))
	assert.Contains(t, out.String(), "Sure? [y/N]")
}
