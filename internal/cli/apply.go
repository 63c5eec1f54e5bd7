package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/codexa-learn/codexa/internal/daemon"
	"github.com/codexa-learn/codexa/internal/domain"
)

// applyEvent runs the load-apply-save cycle against the local store, the
// same cycle the HTTP API runs per request. CLI invocations are
// single-process so no per-learner lock is needed here.
func applyEvent(d *daemon.Daemon, learnerID string, ev domain.Event) (domain.LearnerProfile, domain.Result, error) {
	p, err := d.DB.LoadProfile(learnerID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		p = domain.NewProfile(learnerID, time.Now())
	} else if err != nil {
		return domain.LearnerProfile{}, domain.Result{}, err
	}

	next, res, err := d.Engine.Apply(p, ev)
	if err != nil {
		return domain.LearnerProfile{}, domain.Result{}, err
	}
	if err := d.DB.SaveProfile(next); err != nil {
		return domain.LearnerProfile{}, domain.Result{}, fmt.Errorf("save profile: %w", err)
	}
	if res.Activity != nil {
		if err := d.DB.AppendActivity(learnerID, *res.Activity); err != nil {
			return domain.LearnerProfile{}, domain.Result{}, fmt.Errorf("append activity: %w", err)
		}
	}
	// Notification queueing is best effort, same as the API path.
	_ = d.Notifier.RecordResult(learnerID, res, d.Catalogs, time.Now())
	return next, res, nil
}

// printResult reports the reward deltas of one applied event.
func printResult(res domain.Result) {
	if res.XPDelta != 0 {
		fmt.Printf("+%d XP\n", res.XPDelta)
	}
	if res.CoinsDelta > 0 {
		fmt.Printf("+%d coins\n", res.CoinsDelta)
	} else if res.CoinsDelta < 0 {
		fmt.Printf("%d coins\n", res.CoinsDelta)
	}
	if res.CreditsDelta > 0 {
		fmt.Printf("+%d credits\n", res.CreditsDelta)
	} else if res.CreditsDelta < 0 {
		fmt.Printf("%d credits\n", res.CreditsDelta)
	}
	if res.LevelUp {
		fmt.Printf("Level up! Now level %d (%s)\n", res.Level, res.Rank)
	}
	for _, q := range res.CompletedQuests {
		fmt.Printf("Quest complete: %s\n", q)
	}
	for _, a := range res.UnlockedAchievements {
		fmt.Printf("Achievement unlocked: %s\n", a)
	}
}
