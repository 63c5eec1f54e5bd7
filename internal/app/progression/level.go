package progression

// LevelForXP returns the level reached at the given cumulative XP:
// the highest level whose threshold is at or below xp. The table is
// re-walked from the bottom on every apply — pure recomputation, never
// incremental, so level can never drift from XP.
func (r Rules) LevelForXP(xp int64) int {
	level := 1
	for i, threshold := range r.LevelThresholds {
		if xp >= threshold {
			level = i + 1
		} else {
			break
		}
	}
	return level
}

// RankForLevel maps a level to its rank name via the ladder.
// Rank is a pure function of level.
func (r Rules) RankForLevel(level int) string {
	rank := r.RankLadder[0].Name
	for _, step := range r.RankLadder {
		if level >= step.MinLevel {
			rank = step.Name
		}
	}
	return rank
}

// MaxLevel is the cap implied by the threshold table.
func (r Rules) MaxLevel() int {
	return len(r.LevelThresholds)
}

// XPToNextLevel returns how much XP remains until the next level,
// or 0 at the cap.
func (r Rules) XPToNextLevel(xp int64) int64 {
	level := r.LevelForXP(xp)
	if level >= r.MaxLevel() {
		return 0
	}
	remaining := r.LevelThresholds[level] - xp
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// LevelProgressPct returns progress through the current level (0–100).
func (r Rules) LevelProgressPct(xp int64) float64 {
	level := r.LevelForXP(xp)
	if level >= r.MaxLevel() {
		return 100.0
	}
	floor := r.LevelThresholds[level-1]
	ceil := r.LevelThresholds[level]
	span := ceil - floor
	if span <= 0 {
		return 100.0
	}
	pct := float64(xp-floor) / float64(span) * 100.0
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

// BadgeForQuizzes maps a lifetime quiz count to its display badge.
func (r Rules) BadgeForQuizzes(quizzes int) string {
	badge := ""
	for _, step := range r.BadgeLadder {
		if quizzes >= step.MinQuizzes {
			badge = step.Name
		}
	}
	return badge
}
