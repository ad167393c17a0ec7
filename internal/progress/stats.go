package progress

import (
	"fmt"
	"sort"
	"time"

	errorvalues "github.com/limbo/momentum/internal/error_values"
	"github.com/limbo/momentum/pkg/entity"
)

type categoryAccumulator struct {
	total     int
	completed int
	streakSum int
}

// ComputeStatistics builds per-habit window counts and rates plus category and
// overall aggregates over the inclusive [windowStart, windowEnd] range.
// Aggregation is a map-reduction over zero-value accumulators; averages are
// taken once at the end. An empty habit slice yields ErrNoHabits so that no
// NaN ever reaches a response.
func ComputeStatistics(habits []*entity.Habit, windowStart, windowEnd time.Time) (*entity.StatsReport, error) {
	if len(habits) == 0 {
		return nil, errorvalues.ErrNoHabits
	}
	totalDays := daysInWindow(windowStart, windowEnd)
	if totalDays < 1 {
		return nil, errorvalues.ErrInvalidReportPeriod
	}

	report := entity.StatsReport{
		Habits:     make([]entity.HabitStats, 0, len(habits)),
		Categories: make(map[entity.Category]entity.CategoryStats),
	}
	accumulators := make(map[entity.Category]*categoryAccumulator)
	streakSum := 0
	for _, h := range habits {
		count := countInWindow(h, windowStart, windowEnd)
		report.Habits = append(report.Habits, entity.HabitStats{
			ID:               h.ID,
			Title:            h.Title,
			Category:         h.Category,
			CurrentStreak:    h.CurrentStreak,
			LongestStreak:    h.LongestStreak,
			TotalCompletions: h.TotalCompletions,
			WindowCount:      count,
			CompletionRate:   float64(count) / float64(totalDays) * 100,
			Badges:           h.Badges,
		})

		acc, ok := accumulators[h.Category]
		if !ok {
			acc = &categoryAccumulator{}
			accumulators[h.Category] = acc
		}
		acc.total++
		acc.completed += h.TotalCompletions
		acc.streakSum += h.CurrentStreak

		report.Overall.TotalHabits++
		report.Overall.TotalCompletions += h.TotalCompletions
		report.Overall.TotalBadges += len(h.Badges)
		streakSum += h.CurrentStreak
	}
	for category, acc := range accumulators {
		report.Categories[category] = entity.CategoryStats{
			Total:     acc.total,
			Completed: acc.completed,
			AvgStreak: float64(acc.streakSum) / float64(acc.total),
		}
	}
	report.Overall.AvgStreak = float64(streakSum) / float64(len(habits))
	return &report, nil
}

// BuildMonthlyReport aggregates completions and badge awards that fall inside
// the given month. Month is 1-based.
func BuildMonthlyReport(habits []*entity.Habit, year, month int) (*entity.MonthlyReport, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, errorvalues.ErrInvalidReportPeriod
	}
	if len(habits) == 0 {
		return nil, errorvalues.ErrNoHabits
	}
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)
	daysInMonth := monthStart.AddDate(0, 1, -1).Day()

	report := entity.MonthlyReport{
		Period: fmt.Sprintf("%d/%d", month, year),
		Habits: make([]entity.HabitMonthly, 0, len(habits)),
	}
	rateSum := 0.0
	for _, h := range habits {
		count := countInWindow(h, monthStart, monthEnd)
		earned := make([]entity.Badge, 0)
		for _, b := range h.Badges {
			if !b.DateEarned.Before(monthStart) && !b.DateEarned.After(monthEnd) {
				earned = append(earned, b)
			}
		}
		rate := float64(count) / float64(daysInMonth) * 100
		report.Habits = append(report.Habits, entity.HabitMonthly{
			ID:             h.ID,
			Title:          h.Title,
			Category:       h.Category,
			Completions:    count,
			CompletionRate: rate,
			StreakInMonth:  h.CurrentStreak,
			BadgesEarned:   earned,
		})
		report.Summary.TotalCompletions += count
		report.Summary.TotalBadgesEarned += len(earned)
		rateSum += rate
	}
	report.Summary.AverageCompletionRate = rateSum / float64(len(habits))
	return &report, nil
}

// BuildSummary produces the dashboard roll-up: totals across habits plus the
// count of habits already completed on now's calendar day.
func BuildSummary(habits []*entity.Habit, now time.Time) *entity.HabitSummary {
	summary := entity.HabitSummary{
		ActiveStreaks: make([]entity.ActiveStreak, 0, len(habits)),
	}
	for _, h := range habits {
		summary.TotalHabits++
		summary.TotalCompletions += h.TotalCompletions
		summary.TotalBadges += len(h.Badges)
		if h.LongestStreak > summary.LongestStreak {
			summary.LongestStreak = h.LongestStreak
		}
		if !IsAvailableForCompletion(h, now) {
			summary.HabitsCompletedToday++
		}
		summary.ActiveStreaks = append(summary.ActiveStreaks, entity.ActiveStreak{
			HabitID:       h.ID,
			Title:         h.Title,
			CurrentStreak: h.CurrentStreak,
		})
	}
	return &summary
}

// CollectAchievements flattens earned badges across habits, most recent
// first, capped at limit.
func CollectAchievements(habits []*entity.Habit, limit int) []entity.Achievement {
	achievements := make([]entity.Achievement, 0)
	for _, h := range habits {
		for _, b := range h.Badges {
			achievements = append(achievements, entity.Achievement{
				HabitID:    h.ID,
				HabitTitle: h.Title,
				Badge:      b,
			})
		}
	}
	sort.Slice(achievements, func(i, j int) bool {
		return achievements[i].Badge.DateEarned.After(achievements[j].Badge.DateEarned)
	})
	if limit > 0 && len(achievements) > limit {
		achievements = achievements[:limit]
	}
	return achievements
}

// daysInWindow counts distinct UTC calendar days touched by the inclusive
// range. A 30-day report window [now-29d, now] therefore spans 30 days.
func daysInWindow(start, end time.Time) int {
	startDay := truncateToDay(start)
	endDay := truncateToDay(end)
	if endDay.Before(startDay) {
		return 0
	}
	return int(endDay.Sub(startDay).Hours()/24) + 1
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func countInWindow(h *entity.Habit, start, end time.Time) int {
	count := 0
	for i := range h.CompletionHistory {
		d := h.CompletionHistory[i].Date
		if !d.Before(start) && !d.After(end) {
			count++
		}
	}
	return count
}
