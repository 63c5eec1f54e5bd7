package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/codexa-learn/codexa/internal/daemon"
	"github.com/codexa-learn/codexa/internal/domain"
)

func init() {
	rootCmd.AddCommand(questsCmd)
}

var questsCmd = &cobra.Command{
	Use:   "quests <learner>",
	Short: "Show a learner's daily and weekly quests",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuests,
}

func runQuests(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	p, err := d.DB.LoadProfile(args[0])
	if errors.Is(err, domain.ErrProfileNotFound) {
		p = domain.NewProfile(args[0], time.Now())
	} else if err != nil {
		return err
	}

	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "QUEST\tPERIOD\tPROGRESS\tREWARD\tSTATUS")
	for _, def := range d.Catalogs.Quests.Definitions() {
		count := 0
		completed := false
		if prog, ok := p.Quests[def.ID]; ok && prog.PeriodStart.Equal(def.Period.PeriodStart(now)) {
			count = prog.Count
			completed = prog.Completed
		}
		status := "open"
		if completed {
			status = "done"
		}
		fmt.Fprintf(w, "%s\t%s\t%d/%d\t%d XP, %d coins\t%s\n",
			def.Name, def.Period, count, def.Target,
			def.RewardXP, def.RewardCoins, status)
	}
	return w.Flush()
}
