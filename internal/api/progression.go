package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/codexa-learn/codexa/internal/domain"
	"github.com/codexa-learn/codexa/internal/infra/metrics"
)

// ─── Profile ────────────────────────────────────────────────────────────────

// loadOrCreate returns the learner's profile, creating a fresh one on
// first contact. Callers must hold the learner lock if they save.
func (s *Server) loadOrCreate(learnerID string) (domain.LearnerProfile, error) {
	p, err := s.db.LoadProfile(learnerID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return domain.NewProfile(learnerID, time.Now()), nil
	}
	return p, err
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	learnerID := chi.URLParam(r, "learnerID")

	p, err := s.loadOrCreate(learnerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	learnerID := chi.URLParam(r, "learnerID")

	p, err := s.loadOrCreate(learnerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rules := s.engine.Rules()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"learner_id":      p.ID,
		"xp":              p.XP,
		"level":           p.Level,
		"rank":            p.Rank,
		"level_progress":  rules.LevelProgressPct(p.XP),
		"xp_to_next":      rules.XPToNextLevel(p.XP),
		"badge":           rules.BadgeForQuizzes(p.QuizCount),
		"coins":           p.Coins,
		"credits":         p.Credits,
		"daily_streak":    p.DailyStreak,
		"correct_streak":  p.CorrectStreak,
		"accuracy":        p.Accuracy(),
		"quizzes":         p.QuizCount,
		"perfect_quizzes": p.PerfectQuizzes,
		"achievements":    len(p.Achievements),
		"avatar":          p.Avatar,
	})
}

// ─── Events ─────────────────────────────────────────────────────────────────

// decodeEvent unmarshals the request body into the concrete event type
// named by its kind tag.
func decodeEvent(r *http.Request) (domain.Event, error) {
	var tag struct {
		Kind domain.EventKind `json:"kind"`
	}
	body := json.NewDecoder(r.Body)
	raw := json.RawMessage{}
	if err := body.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEvent, err)
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEvent, err)
	}

	var ev domain.Event
	switch tag.Kind {
	case domain.EventQuizCompleted:
		var e domain.QuizCompleted
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEvent, err)
		}
		ev = e
	case domain.EventLessonViewed:
		var e domain.LessonViewed
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEvent, err)
		}
		ev = e
	case domain.EventGamePlayed:
		var e domain.GamePlayed
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEvent, err)
		}
		ev = e
	case domain.EventAvatarPurchased:
		var e domain.AvatarPurchased
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEvent, err)
		}
		ev = e
	case domain.EventCreditPackPurchased:
		var e domain.CreditPackPurchased
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEvent, err)
		}
		ev = e
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidEvent, tag.Kind)
	}
	return ev, nil
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	learnerID := chi.URLParam(r, "learnerID")

	ev, err := decodeEvent(r)
	if err != nil {
		metrics.EventsRejected.WithLabelValues("unknown", "decode").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	lock := s.learnerLock(learnerID)
	lock.Lock()
	defer lock.Unlock()

	p, err := s.loadOrCreate(learnerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	next, res, err := s.engine.Apply(p, ev)
	if err != nil {
		metrics.EventsRejected.WithLabelValues(string(ev.Kind()), rejectReason(err)).Inc()
		writeError(w, statusForEngineError(err), err.Error())
		return
	}

	if err := s.db.SaveProfile(next); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.Activity != nil {
		if err := s.db.AppendActivity(learnerID, *res.Activity); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if s.notifier != nil {
		// Notification failures never fail the event; the profile is
		// already saved.
		_ = s.notifier.RecordResult(learnerID, res, s.catalogs, time.Now())
	}

	recordEventMetrics(ev, res)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile": next,
		"result":  res,
	})
}

func recordEventMetrics(ev domain.Event, res domain.Result) {
	metrics.EventsApplied.WithLabelValues(string(ev.Kind())).Inc()
	if res.XPDelta > 0 {
		metrics.XPGranted.Add(float64(res.XPDelta))
	}
	if res.LevelUp {
		metrics.LevelUps.Inc()
	}
	for _, id := range res.CompletedQuests {
		metrics.QuestsCompleted.WithLabelValues(id).Inc()
	}
	for _, id := range res.UnlockedAchievements {
		metrics.AchievementsUnlocked.WithLabelValues(id).Inc()
	}

	switch e := ev.(type) {
	case domain.QuizCompleted:
		outcome := "fail"
		if res.Passed {
			outcome = "pass"
		}
		metrics.QuizzesCompleted.WithLabelValues(outcome).Inc()
	case domain.GamePlayed:
		metrics.CreditsSpent.Add(float64(e.CreditsSpent))
	case domain.AvatarPurchased:
		metrics.CoinsSpent.WithLabelValues("avatar").Add(float64(e.Cost))
	case domain.CreditPackPurchased:
		metrics.CoinsSpent.WithLabelValues("credit_pack").Add(float64(e.CoinsSpent))
	}
}

func statusForEngineError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrAlreadyOwned):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownCatalogID):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidEvent):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrAlreadyOwned):
		return "already_owned"
	case errors.Is(err, domain.ErrUnknownCatalogID):
		return "unknown_item"
	default:
		return "invalid"
	}
}

// ─── Quests & Achievements ──────────────────────────────────────────────────

func (s *Server) handleQuests(w http.ResponseWriter, r *http.Request) {
	learnerID := chi.URLParam(r, "learnerID")

	p, err := s.loadOrCreate(learnerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	now := time.Now()
	type questView struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Period      string `json:"period"`
		Target      int    `json:"target"`
		Count       int    `json:"count"`
		Completed   bool   `json:"completed"`
		RewardXP    int64  `json:"reward_xp"`
		RewardCoins int64  `json:"reward_coins"`
	}

	out := []questView{}
	for _, def := range s.catalogs.Quests.Definitions() {
		v := questView{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Period:      string(def.Period),
			Target:      def.Target,
			RewardXP:    def.RewardXP,
			RewardCoins: def.RewardCoins,
		}
		// Progress from a previous period reads as zero.
		if prog, ok := p.Quests[def.ID]; ok && prog.PeriodStart.Equal(def.Period.PeriodStart(now)) {
			v.Count = prog.Count
			v.Completed = prog.Completed
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"quests": out})
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	learnerID := chi.URLParam(r, "learnerID")

	p, err := s.loadOrCreate(learnerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	unlockedAt := make(map[string]time.Time, len(p.Achievements))
	for _, a := range p.Achievements {
		unlockedAt[a.ID] = a.UnlockedAt
	}

	type achievementView struct {
		ID          string     `json:"id"`
		Name        string     `json:"name"`
		Description string     `json:"description"`
		Icon        string     `json:"icon"`
		RewardXP    int64      `json:"reward_xp"`
		Unlocked    bool       `json:"unlocked"`
		UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
	}

	out := []achievementView{}
	for _, def := range s.catalogs.Achievements.Definitions() {
		v := achievementView{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			RewardXP:    def.RewardXP,
		}
		if at, ok := unlockedAt[def.ID]; ok {
			v.Unlocked = true
			v.UnlockedAt = &at
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"achievements": out})
}

// ─── Activity ───────────────────────────────────────────────────────────────

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	learnerID := chi.URLParam(r, "learnerID")

	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			writeError(w, http.StatusBadRequest, "days must be between 1 and 365")
			return
		}
		days = n
	}

	summary, err := s.db.ActivitySummary(learnerID, days, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"days":     days,
		"activity": summary,
	})
}

// ─── Notifications ──────────────────────────────────────────────────────────

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	learnerID := chi.URLParam(r, "learnerID")

	pending, err := s.notifier.Pending(learnerID, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": pending})
}

func (s *Server) handleNotificationShown(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := s.notifier.MarkShown(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─── Catalogs ───────────────────────────────────────────────────────────────

func (s *Server) handleShopCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": s.catalogs.Shop.Items(),
	})
}

func (s *Server) handleQuestCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quests": s.catalogs.Quests.Definitions(),
	})
}

func (s *Server) handleAchievementCatalog(w http.ResponseWriter, r *http.Request) {
	type achievementView struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
		RewardXP    int64  `json:"reward_xp"`
	}
	defs := s.catalogs.Achievements.Definitions()
	out := make([]achievementView, len(defs))
	for i, def := range defs {
		out[i] = achievementView{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			RewardXP:    def.RewardXP,
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"achievements": out})
}
