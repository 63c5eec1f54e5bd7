package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/codexa-learn/codexa/internal/daemon"
	"github.com/codexa-learn/codexa/internal/domain"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats <learner>",
	Short: "Show a learner's progression summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	p, err := d.DB.LoadProfile(args[0])
	if errors.Is(err, domain.ErrProfileNotFound) {
		fmt.Printf("No progress recorded for %q yet.\n", args[0])
		return nil
	}
	if err != nil {
		return err
	}

	rules := d.Engine.Rules()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Learner:\t%s %s\n", p.Avatar, p.ID)
	fmt.Fprintf(w, "Level:\t%d (%s)\n", p.Level, p.Rank)
	fmt.Fprintf(w, "XP:\t%d (%d to next level)\n", p.XP, rules.XPToNextLevel(p.XP))
	fmt.Fprintf(w, "Badge:\t%s\n", rules.BadgeForQuizzes(p.QuizCount))
	fmt.Fprintf(w, "Coins:\t%d\n", p.Coins)
	fmt.Fprintf(w, "Credits:\t%d\n", p.Credits)
	fmt.Fprintf(w, "Daily streak:\t%d (best %d)\n", p.DailyStreak, p.LongestDailyStreak)
	fmt.Fprintf(w, "Correct streak:\t%d (best %d)\n", p.CorrectStreak, p.LongestCorrectStreak)
	fmt.Fprintf(w, "Quizzes:\t%d (%d perfect)\n", p.QuizCount, p.PerfectQuizzes)
	fmt.Fprintf(w, "Accuracy:\t%.0f%%\n", p.Accuracy()*100)
	fmt.Fprintf(w, "Achievements:\t%d\n", len(p.Achievements))
	return w.Flush()
}
