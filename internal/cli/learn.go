package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/codexa-learn/codexa/internal/daemon"
	"github.com/codexa-learn/codexa/internal/domain"
)

func init() {
	rootCmd.AddCommand(learnCmd)
}

var learnCmd = &cobra.Command{
	Use:   "learn <learner> <subject> <chapter>",
	Short: "Fetch a lesson from the tutor and record the lesson view",
	Args:  cobra.ExactArgs(3),
	RunE:  runLearn,
}

func runLearn(cmd *cobra.Command, args []string) error {
	learnerID, subject, chapter := args[0], args[1], args[2]

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	if d.Tutor == nil {
		return fmt.Errorf("tutor is disabled, enable [tutor] in %s/config.toml", daemon.CodexaHome())
	}

	lesson, err := d.Tutor.Lesson(cmd.Context(), subject, chapter)
	if err != nil {
		return err
	}
	fmt.Println(lesson)
	fmt.Println()

	_, res, err := applyEvent(d, learnerID, domain.LessonViewed{
		Subject:    subject,
		Chapter:    chapter,
		OccurredAt: time.Now(),
	})
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}
