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
	rootCmd.AddCommand(achievementsCmd)
}

var achievementsCmd = &cobra.Command{
	Use:     "achievements <learner>",
	Aliases: []string{"badges"},
	Short:   "Show a learner's achievements",
	Args:    cobra.ExactArgs(1),
	RunE:    runAchievements,
}

func runAchievements(cmd *cobra.Command, args []string) error {
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

	unlockedAt := make(map[string]time.Time, len(p.Achievements))
	for _, a := range p.Achievements {
		unlockedAt[a.ID] = a.UnlockedAt
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACHIEVEMENT\tREWARD\tUNLOCKED")
	for _, def := range d.Catalogs.Achievements.Definitions() {
		when := "—"
		if at, ok := unlockedAt[def.ID]; ok {
			when = at.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s %s\t%d XP\t%s\n", def.Icon, def.Name, def.RewardXP, when)
	}
	return w.Flush()
}
