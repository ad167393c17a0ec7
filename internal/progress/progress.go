// Package progress holds the habit progress engine: availability checks,
// streak recomputation, badge awards and statistics. All functions are pure,
// operate on caller-supplied values and compare calendar days in UTC.
package progress

import (
	"time"

	"github.com/limbo/momentum/pkg/entity"
)

var badgeRules = []struct {
	name        string
	description string
	icon        string
	qualifies   func(h *entity.Habit) bool
}{
	{
		name:        "Week Warrior",
		description: "Maintained a 7-day streak!",
		icon:        "🔥",
		qualifies:   func(h *entity.Habit) bool { return h.CurrentStreak >= 7 },
	},
	{
		name:        "Monthly Master",
		description: "Maintained a 30-day streak!",
		icon:        "⭐",
		qualifies:   func(h *entity.Habit) bool { return h.CurrentStreak >= 30 },
	},
	{
		name:        "Century Club",
		description: "Completed the habit 100 times!",
		icon:        "💯",
		qualifies:   func(h *entity.Habit) bool { return h.TotalCompletions >= 100 },
	},
}

func sameCalendarDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// IsAvailableForCompletion reports whether the habit can accept a new
// completion: never completed, or last completed on an earlier calendar day.
// The daily-boundary check applies regardless of frequency.
func IsAvailableForCompletion(h *entity.Habit, now time.Time) bool {
	if h.LastCompleted == nil {
		return true
	}
	return !sameCalendarDay(*h.LastCompleted, now)
}

// IsPreferredTimeOfDay reports whether now falls inside the habit's preferred
// window. Unrecognized values are treated as anytime.
func IsPreferredTimeOfDay(timeOfDay entity.TimeOfDay, now time.Time) bool {
	hour := now.UTC().Hour()
	switch timeOfDay {
	case entity.TimeOfDayMorning:
		return hour >= 5 && hour < 12
	case entity.TimeOfDayAfternoon:
		return hour >= 12 && hour < 17
	case entity.TimeOfDayEvening:
		return hour >= 17 && hour < 22
	default:
		return true
	}
}

// RecordCompletion applies a completion event to the habit: appends it to the
// history, bumps counters, recomputes streaks and evaluates badges. It returns
// the badges earned by this event, empty if none. A second completion on a
// calendar day that already holds one keeps the history and counters growing
// but leaves CurrentStreak untouched.
func RecordCompletion(h *entity.Habit, completedAt time.Time) []entity.Badge {
	h.CompletionHistory = append(h.CompletionHistory, entity.Completion{
		Date:      completedAt,
		Completed: true,
	})
	ts := completedAt
	h.LastCompleted = &ts
	h.TotalCompletions++

	if !completedEarlierSameDay(h, completedAt) {
		switch h.Frequency {
		case entity.FrequencyWeekly:
			h.CurrentStreak = nextWeeklyStreak(h, completedAt)
		default:
			h.CurrentStreak = nextDailyStreak(h, completedAt)
		}
		if h.CurrentStreak > h.LongestStreak {
			h.LongestStreak = h.CurrentStreak
		}
	}
	return EvaluateBadges(h, completedAt)
}

// completedEarlierSameDay looks for a completed entry strictly before
// completedAt on the same calendar day. The entry just appended is excluded
// by the strict comparison.
func completedEarlierSameDay(h *entity.Habit, completedAt time.Time) bool {
	for i := range h.CompletionHistory {
		c := &h.CompletionHistory[i]
		if c.Completed && c.Date.Before(completedAt) && sameCalendarDay(c.Date, completedAt) {
			return true
		}
	}
	return false
}

func nextDailyStreak(h *entity.Habit, completedAt time.Time) int {
	yesterday := completedAt.UTC().AddDate(0, 0, -1)
	for i := range h.CompletionHistory {
		c := &h.CompletionHistory[i]
		if c.Completed && sameCalendarDay(c.Date, yesterday) {
			return h.CurrentStreak + 1
		}
	}
	return 1
}

func nextWeeklyStreak(h *entity.Habit, completedAt time.Time) int {
	var latest *time.Time
	for i := range h.CompletionHistory {
		c := &h.CompletionHistory[i]
		if !c.Completed || !c.Date.Before(completedAt) {
			continue
		}
		if latest == nil || c.Date.After(*latest) {
			latest = &h.CompletionHistory[i].Date
		}
	}
	if latest == nil {
		return 1
	}
	weekAgo := completedAt.UTC().AddDate(0, 0, -7)
	if !latest.UTC().Before(weekAgo) {
		return h.CurrentStreak + 1
	}
	return 1
}

// EvaluateBadges awards every badge whose threshold the habit meets and which
// is not already held. Idempotent: a repeated call on the same state awards
// nothing. DateEarned is fixed to evaluatedAt.
func EvaluateBadges(h *entity.Habit, evaluatedAt time.Time) []entity.Badge {
	earned := make([]entity.Badge, 0)
	for _, rule := range badgeRules {
		if h.HasBadge(rule.name) || !rule.qualifies(h) {
			continue
		}
		earned = append(earned, entity.Badge{
			Name:        rule.name,
			Description: rule.description,
			Icon:        rule.icon,
			DateEarned:  evaluatedAt,
		})
	}
	h.Badges = append(h.Badges, earned...)
	return earned
}
