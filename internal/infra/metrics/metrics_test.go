package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func gatheredNames(t *testing.T) map[string]bool {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

func TestProgressionCounters(t *testing.T) {
	EventsApplied.WithLabelValues("quiz_completed").Inc()
	EventsRejected.WithLabelValues("quiz_completed", "invalid").Inc()
	XPGranted.Add(90)
	LevelUps.Inc()
	QuizzesCompleted.WithLabelValues("pass").Inc()
	QuestsCompleted.WithLabelValues("q_daily_quiz").Inc()
	AchievementsUnlocked.WithLabelValues("first_steps").Inc()

	names := gatheredNames(t)
	expected := []string{
		"codexa_events_applied_total",
		"codexa_events_rejected_total",
		"codexa_xp_granted_total",
		"codexa_level_ups_total",
		"codexa_quizzes_completed_total",
		"codexa_quests_completed_total",
		"codexa_achievements_unlocked_total",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestEconomyCounters(t *testing.T) {
	CoinsSpent.WithLabelValues("avatar").Add(20)
	CreditsSpent.Inc()

	names := gatheredNames(t)
	if !names["codexa_coins_spent_total"] {
		t.Error("codexa_coins_spent_total not found")
	}
	if !names["codexa_credits_spent_total"] {
		t.Error("codexa_credits_spent_total not found")
	}
}

func TestTutorMetrics(t *testing.T) {
	TutorLatency.WithLabelValues("quiz").Observe(2.3)
	TutorErrors.WithLabelValues("chat").Inc()
	QuizParseRetries.Inc()

	names := gatheredNames(t)
	expected := []string{
		"codexa_tutor_latency_seconds",
		"codexa_tutor_errors_total",
		"codexa_quiz_parse_retries_total",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestHTTPMetrics(t *testing.T) {
	HTTPRequests.WithLabelValues("/v1/events", "2xx").Inc()
	HTTPDuration.WithLabelValues("/v1/events").Observe(0.012)

	names := gatheredNames(t)
	if !names["codexa_http_requests_total"] {
		t.Error("codexa_http_requests_total not found")
	}
	if !names["codexa_http_request_duration_seconds"] {
		t.Error("codexa_http_request_duration_seconds not found")
	}
}

func TestAllMetricsGatherable(t *testing.T) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	count := 0
	for _, f := range families {
		if len(f.GetName()) > 7 && f.GetName()[:7] == "codexa_" {
			count++
		}
	}
	if count < 10 {
		t.Errorf("expected at least 10 codexa_ metric families, got %d", count)
	}
}
