// Package health provides periodic health checks for the Codexa daemon:
// storage, data directory, and the tutor backend.
package health

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/codexa-learn/codexa/internal/infra/sqlite"
)

// Check defines a single health check.
type Check struct {
	Name    string
	CheckFn func(ctx context.Context) error
}

// Status represents the result of a health check.
type Status struct {
	Name      string    `json:"name"`
	Healthy   bool      `json:"healthy"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// TutorProbe reports whether the tutor backend answers.
// Satisfied by the Ollama client's Reachable method.
type TutorProbe interface {
	Reachable(ctx context.Context) error
}

// Checker runs periodic health checks.
type Checker struct {
	mu       sync.RWMutex
	checks   []Check
	statuses []Status
	interval time.Duration
}

// NewChecker creates a checker for the standard set: sqlite ping, data
// directory, and tutor reachability. tutor may be nil when the tutor is
// not configured; the check is skipped rather than reported unhealthy.
func NewChecker(db *sqlite.DB, dataDir string, tutor TutorProbe) *Checker {
	checks := []Check{
		{
			Name: "sqlite",
			CheckFn: func(ctx context.Context) error {
				return db.Ping()
			},
		},
		{
			Name: "data_dir",
			CheckFn: func(ctx context.Context) error {
				return checkDataDir(dataDir)
			},
		},
	}
	if tutor != nil {
		checks = append(checks, Check{
			Name: "tutor",
			CheckFn: func(ctx context.Context) error {
				probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
				defer cancel()
				return tutor.Reachable(probeCtx)
			},
		})
	}
	return &Checker{
		interval: 60 * time.Second,
		checks:   checks,
	}
}

// Run starts the health check loop. Call in a goroutine.
func (c *Checker) Run(ctx context.Context) {
	// Run immediately on start
	c.runAll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.runAll(ctx)
		}
	}
}

func (c *Checker) runAll(ctx context.Context) {
	statuses := make([]Status, len(c.checks))
	for i, check := range c.checks {
		s := Status{
			Name:      check.Name,
			CheckedAt: time.Now(),
		}
		if err := check.CheckFn(ctx); err != nil {
			s.Healthy = false
			s.Error = err.Error()
		} else {
			s.Healthy = true
		}
		statuses[i] = s
	}

	c.mu.Lock()
	c.statuses = statuses
	c.mu.Unlock()
}

// Statuses returns the latest health check results.
func (c *Checker) Statuses() []Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]Status, len(c.statuses))
	copy(result, c.statuses)
	return result
}

// IsHealthy returns true if all checks pass. The tutor check is
// advisory: quizzes degrade, progression keeps working, so it does not
// flip overall health.
func (c *Checker) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.statuses {
		if s.Name == "tutor" {
			continue
		}
		if !s.Healthy {
			return false
		}
	}
	return true
}

// ─── Check Implementations ──────────────────────────────────────────────────

func checkDataDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Created lazily on first write
		}
		return fmt.Errorf("check data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
