package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vytor/gauntlet/internal/gauntlet"
	"github.com/vytor/gauntlet/internal/models"
)

var (
	statsDojo       string
	statsLimit      int
	boardDifficulty string
	bestDifficulty  string
	statsMode       string
	statsReps       int
	statsTotal      int
	statsYes        bool
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show or clear saved gauntlet stats",
	}
	cmd.PersistentFlags().StringVar(&statsDojo, "dojo", string(models.DojoKana), "kana, kanji or vocabulary")

	history := &cobra.Command{
		Use:   "history",
		Short: "Most recent sessions",
		Args:  cobra.NoArgs,
		RunE:  runStatsHistory,
	}
	history.Flags().IntVar(&statsLimit, "limit", 0, "number of sessions (default 20)")

	leaderboard := &cobra.Command{
		Use:   "leaderboard",
		Short: "Fastest completed sessions",
		Args:  cobra.NoArgs,
		RunE:  runStatsLeaderboard,
	}
	leaderboard.Flags().IntVar(&statsLimit, "limit", 0, "number of sessions (default 10)")
	leaderboard.Flags().StringVar(&boardDifficulty, "difficulty", "", "only this difficulty")

	best := &cobra.Command{
		Use:   "best",
		Short: "Best time for one configuration",
		Args:  cobra.NoArgs,
		RunE:  runStatsBest,
	}
	best.Flags().StringVar(&bestDifficulty, "difficulty", string(models.DifficultyNormal), "normal, hard or instant-death")
	best.Flags().StringVar(&statsMode, "mode", "type", "type or pick")
	best.Flags().IntVar(&statsReps, "reps", 1, "repetitions per item")
	best.Flags().IntVar(&statsTotal, "total", 0, "number of distinct items in the run")
	_ = best.MarkFlagRequired("total")

	overall := &cobra.Command{
		Use:   "overall",
		Short: "Totals across every session",
		Args:  cobra.NoArgs,
		RunE:  runStatsOverall,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all saved gauntlet stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsClear,
	}
	clearCmd.Flags().BoolVarP(&statsYes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(history, leaderboard, best, overall, clearCmd)
	return cmd
}

func runStatsHistory(cmd *cobra.Command, _ []string) error {
	dojo, err := models.ParseDojoType(statsDojo)
	if err != nil {
		return err
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	sessions := a.Stats.SessionHistory(cmd.Context(), dojo, statsLimit)
	printSessions(cmd.OutOrStdout(), sessions)
	return nil
}

func runStatsLeaderboard(cmd *cobra.Command, _ []string) error {
	dojo, err := models.ParseDojoType(statsDojo)
	if err != nil {
		return err
	}
	var difficulty models.Difficulty
	if boardDifficulty != "" {
		if difficulty, err = models.ParseDifficulty(boardDifficulty); err != nil {
			return err
		}
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	printSessions(cmd.OutOrStdout(), a.Stats.Leaderboard(cmd.Context(), dojo, difficulty, statsLimit))
	return nil
}

func runStatsBest(cmd *cobra.Command, _ []string) error {
	dojo, err := models.ParseDojoType(statsDojo)
	if err != nil {
		return err
	}
	difficulty, err := models.ParseDifficulty(bestDifficulty)
	if err != nil {
		return err
	}
	mode, err := models.ParseGameMode(statsMode)
	if err != nil {
		return err
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	best, ok := a.Stats.BestTime(cmd.Context(), dojo, difficulty, statsReps, mode, statsTotal)
	if !ok {
		fmt.Fprintln(out, "No completed run for this configuration yet.")
		return nil
	}
	fmt.Fprintf(out, "%s  %s\n", models.BestTimeKey(difficulty, statsReps, mode, statsTotal), gauntlet.FormatTime(best))
	return nil
}

func runStatsOverall(cmd *cobra.Command, _ []string) error {
	dojo, err := models.ParseDojoType(statsDojo)
	if err != nil {
		return err
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	printOverall(cmd.OutOrStdout(), a.Stats.OverallStats(cmd.Context(), dojo))
	return nil
}

func runStatsClear(cmd *cobra.Command, _ []string) error {
	if !statsYes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Delete all gauntlet stats?") {
		return nil
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Stats.ClearAllStats(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear stats: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Stats cleared.")
	return nil
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printSessions(out io.Writer, sessions []models.GauntletSessionStats) {
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions yet.")
		return
	}
	fmt.Fprintf(out, "%-16s  %-13s  %-4s  %4s  %7s  %5s  %6s  %9s  %s\n",
		"DATE", "DIFFICULTY", "MODE", "REPS", "CORRECT", "WRONG", "STREAK", "TIME", "RESULT")
	for _, s := range sessions {
		result := "lost"
		if s.Completed {
			result = "cleared"
		}
		fmt.Fprintf(out, "%-16s  %-13s  %-4s  %4d  %7d  %5d  %6d  %9s  %s\n",
			s.Timestamp.Local().Format("2006-01-02 15:04"), s.Difficulty, s.GameMode, s.RepetitionsPerChar,
			s.CorrectAnswers, s.WrongAnswers, s.BestStreak, gauntlet.FormatTime(s.TotalTimeMs), result)
	}
}

func printOverall(out io.Writer, o models.OverallStats) {
	fmt.Fprintf(out, "Sessions:    %d (%d cleared)\n", o.TotalSessions, o.CompletedSessions)
	fmt.Fprintf(out, "Answers:     %d correct, %d wrong\n", o.TotalCorrect, o.TotalWrong)
	fmt.Fprintf(out, "Best streak: %d\n", o.BestStreak)
	if o.FastestTimeMs != nil {
		fmt.Fprintf(out, "Fastest:     %s\n", gauntlet.FormatTime(*o.FastestTimeMs))
	}
}
