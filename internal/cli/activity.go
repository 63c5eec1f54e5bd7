package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/codexa-learn/codexa/internal/daemon"
)

func init() {
	activityCmd.Flags().IntVar(&activityDays, "days", 30, "Window size in days")
	rootCmd.AddCommand(activityCmd)
}

var activityDays int

var activityCmd = &cobra.Command{
	Use:   "activity <learner>",
	Short: "Show a learner's recent daily activity",
	Args:  cobra.ExactArgs(1),
	RunE:  runActivity,
}

func runActivity(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	days, err := d.DB.ActivitySummary(args[0], activityDays, time.Now())
	if err != nil {
		return err
	}
	if len(days) == 0 {
		fmt.Printf("No activity in the last %d days.\n", activityDays)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tQUIZZES\tCORRECT\tXP\t")
	for _, day := range days {
		// One block per quiz gives a rough terminal heatmap.
		fmt.Fprintf(w, "%s\t%d\t%d/%d\t%d\t%s\n",
			day.Date.Format("2006-01-02"),
			day.Quizzes, day.Correct, day.Questions, day.XP,
			strings.Repeat("▰", day.Quizzes))
	}
	return w.Flush()
}
