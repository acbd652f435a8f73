package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/vytor/gauntlet/internal/errors"
	"github.com/vytor/gauntlet/internal/gauntlet"
	"github.com/vytor/gauntlet/internal/models"
	"github.com/vytor/gauntlet/internal/services"
)

const tickInterval = 100 * time.Millisecond

var (
	playDojo       string
	playDifficulty string
	playMode       string
	playReps       int
	playSets       []string
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a gauntlet run in the terminal",
		Long: "Play a gauntlet run. Type answers and press enter; in Pick mode enter the option\n" +
			"number or its text. Enter :q to give up.",
		Args: cobra.NoArgs,
		RunE: runPlayCmd,
	}
	cmd.Flags().StringVar(&playDojo, "dojo", string(models.DojoKana), "kana, kanji or vocabulary")
	cmd.Flags().StringVar(&playDifficulty, "difficulty", string(models.DifficultyNormal), "normal, hard or instant-death")
	cmd.Flags().StringVar(&playMode, "mode", "type", "type or pick")
	cmd.Flags().IntVar(&playReps, "reps", 1, "repetitions per item")
	cmd.Flags().StringSliceVar(&playSets, "sets", nil, "sets or set groups to draw from (default: all)")
	return cmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	dojo, err := models.ParseDojoType(playDojo)
	if err != nil {
		return err
	}
	difficulty, err := models.ParseDifficulty(playDifficulty)
	if err != nil {
		return err
	}
	mode, err := models.ParseGameMode(playMode)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	a.Start(ctx)
	closed := false
	defer func() {
		if !closed {
			a.Close()
		}
	}()

	view, err := a.Runs.StartRun(ctx, services.StartRunRequest{
		DojoType:           dojo,
		Difficulty:         difficulty,
		GameMode:           mode,
		RepetitionsPerChar: playReps,
		Sets:               playSets,
	})
	if err != nil {
		return err
	}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	out := cmd.OutOrStdout()
	p := &player{runs: a.Runs, out: out}
	final, err := p.play(ctx, view, readLines(os.Stdin), ticker.C)
	if err != nil {
		return err
	}

	// Closing drains the save pool so the save result is final.
	a.Close()
	closed = true
	if v, err := a.Runs.GetRun(ctx, final.ID); err == nil {
		final = v
	}
	printSummary(out, final)

	if sum := final.Summary; sum != nil {
		if best, ok := a.Stats.BestTime(ctx, dojo, difficulty, sum.RepetitionsPerChar, mode, sum.TotalCharacters); ok {
			fmt.Fprintf(out, "Best time for this setup: %s\n", gauntlet.FormatTime(best))
		}
	}
	return nil
}

// readLines streams r line by line; the channel closes at EOF.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()
	return lines
}

// player drives one run from terminal input.
type player struct {
	runs services.GauntletService
	out  io.Writer
}

// play feeds answers and clock ticks to the run until it ends. A closed input
// cancels the run.
func (p *player) play(ctx context.Context, view *models.RunView, lines <-chan string, ticks <-chan time.Time) (*models.RunView, error) {
	id := view.ID
	var lastTick time.Time
	p.render(view)

	for !view.Status.Terminal() {
		select {
		case <-ctx.Done():
			return view, ctx.Err()

		case now := <-ticks:
			if lastTick.IsZero() {
				lastTick = now
				continue
			}
			delta := now.Sub(lastTick).Milliseconds()
			lastTick = now
			if delta <= 0 {
				continue
			}
			v, err := p.runs.Tick(ctx, id, delta)
			if err != nil {
				return view, err
			}
			view = v

		case line, ok := <-lines:
			if !ok || strings.TrimSpace(line) == ":q" {
				v, err := p.runs.Cancel(ctx, id)
				if err != nil {
					return view, err
				}
				return v, nil
			}
			v, err := p.answer(ctx, view, line)
			if err != nil {
				if appErr, isApp := apperrors.As(err); isApp && appErr.Status < 500 {
					fmt.Fprintf(p.out, "  %s\n", appErr.Message)
					continue
				}
				return view, err
			}
			view = v
			p.feedback(view)
			if !view.Status.Terminal() {
				p.render(view)
			}
		}
	}
	return view, nil
}

func (p *player) answer(ctx context.Context, view *models.RunView, line string) (*models.RunView, error) {
	if view.GameMode == models.ModePick {
		return p.runs.SelectOption(ctx, view.ID, resolveOption(view.Options, line))
	}
	return p.runs.SubmitAnswer(ctx, view.ID, line)
}

// resolveOption maps a 1-based option number onto its text. Anything else is
// taken as the option text itself.
func resolveOption(options []string, input string) string {
	input = strings.TrimSpace(input)
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(options) {
		return options[n-1]
	}
	return input
}

func (p *player) render(v *models.RunView) {
	status := fmt.Sprintf("[%d/%d] %s  streak %d  %s",
		v.CurrentIndex+1, v.TotalQuestions, hearts(v.Lives, v.MaxLives), v.Streak, gauntlet.FormatElapsed(v.ElapsedTimeMs))
	if hint := gauntlet.RegenHint(v.RegenRemaining); hint != "" {
		status += "  " + hint
	}
	fmt.Fprintln(p.out, status)
	fmt.Fprintf(p.out, "  %s\n", v.Prompt)

	if v.GameMode != models.ModePick {
		return
	}
	disabled := make(map[string]bool, len(v.DisabledOptions))
	for _, o := range v.DisabledOptions {
		disabled[o] = true
	}
	for i, o := range v.Options {
		if disabled[o] {
			fmt.Fprintf(p.out, "  %d) %s  x\n", i+1, o)
			continue
		}
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, o)
	}
}

func (p *player) feedback(v *models.RunView) {
	msg := gauntlet.FeedbackMessage(v.GameMode, v.LastAnswerCorrect, v.ExpectedAnswer)
	switch {
	case v.LifeJustGained:
		msg += "  +1 life"
	case v.LifeJustLost:
		msg += "  -1 life"
	}
	fmt.Fprintf(p.out, "  %s\n", msg)
}

func hearts(lives, maxLives int) string {
	lives = min(max(lives, 0), maxLives)
	return strings.Repeat("♥", lives) + strings.Repeat("♡", maxLives-lives)
}

func printSummary(out io.Writer, v *models.RunView) {
	sum := v.Summary
	if sum == nil {
		return
	}
	switch v.Status {
	case models.RunWon:
		fmt.Fprintln(out, "Gauntlet cleared!")
	case models.RunLost:
		fmt.Fprintln(out, "Out of lives.")
	default:
		fmt.Fprintln(out, "Run abandoned.")
	}
	fmt.Fprintf(out, "Correct: %d  Wrong: %d  Best streak: %d  Time: %s\n",
		sum.CorrectAnswers, sum.WrongAnswers, sum.BestStreak, gauntlet.FormatTime(sum.TotalTimeMs))

	res := v.SaveResult
	switch {
	case res == nil || !res.Saved:
		fmt.Fprintln(out, "Stats could not be saved.")
	case res.IsNewBest:
		fmt.Fprintln(out, "New best time!")
	}
}
