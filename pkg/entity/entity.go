package entity

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryHealth       Category = "health"
	CategoryProductivity Category = "productivity"
	CategoryLearning     Category = "learning"
	CategoryFitness      Category = "fitness"
	CategoryMindfulness  Category = "mindfulness"
	CategoryOther        Category = "other"
)

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "morning"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayEvening   TimeOfDay = "evening"
	TimeOfDayAnytime   TimeOfDay = "anytime"
)

type User struct {
	ID                    uuid.UUID
	Name                  string
	Email                 string
	PasswordHash          string
	ProfilePicture        string
	PhoneNumber           string
	Bio                   string
	Address               string
	IsVerified            bool
	VerificationOTP       string
	VerificationOTPExpiry *time.Time
	ResetOTP              string
	ResetOTPExpiry        *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Completion is a single entry of a habit's completion history.
// Entries are append-only and kept in recording order.
type Completion struct {
	Date      time.Time `json:"date"`
	Completed bool      `json:"completed"`
}

// Badge is immutable once earned; DateEarned is fixed at award time.
type Badge struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	DateEarned  time.Time `json:"date_earned"`
}

type Habit struct {
	ID                uuid.UUID    `json:"id"`
	UserID            uuid.UUID    `json:"uid"`
	Title             string       `json:"title"`
	Description       string       `json:"desc"`
	Category          Category     `json:"category"`
	Frequency         Frequency    `json:"frequency"`
	TimeOfDay         TimeOfDay    `json:"time_of_day"`
	CurrentStreak     int          `json:"current_streak"`
	LongestStreak     int          `json:"longest_streak"`
	TotalCompletions  int          `json:"total_completions"`
	CompletionHistory []Completion `json:"completion_history"`
	Badges            []Badge      `json:"badges"`
	LastCompleted     *time.Time   `json:"last_completed,omitempty"`
	StartDate         time.Time    `json:"start_date"`
	Active            bool         `json:"active"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// HasBadge reports whether a badge with the given name was already earned.
func (h *Habit) HasBadge(name string) bool {
	for i := range h.Badges {
		if h.Badges[i].Name == name {
			return true
		}
	}
	return false
}

type HabitStats struct {
	ID               uuid.UUID `json:"habit_id"`
	Title            string    `json:"title"`
	Category         Category  `json:"category"`
	CurrentStreak    int       `json:"current_streak"`
	LongestStreak    int       `json:"longest_streak"`
	TotalCompletions int       `json:"total_completions"`
	WindowCount      int       `json:"completions_in_window"`
	CompletionRate   float64   `json:"completion_rate"`
	Badges           []Badge   `json:"badges"`
}

type CategoryStats struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	AvgStreak float64 `json:"avg_streak"`
}

type OverallStats struct {
	TotalHabits      int     `json:"total_habits"`
	TotalCompletions int     `json:"total_completions"`
	AvgStreak        float64 `json:"avg_streak"`
	TotalBadges      int     `json:"total_badges"`
}

type StatsReport struct {
	Habits     []HabitStats               `json:"habits"`
	Categories map[Category]CategoryStats `json:"category_stats"`
	Overall    OverallStats               `json:"overall_stats"`
}

type HabitMonthly struct {
	ID             uuid.UUID `json:"habit_id"`
	Title          string    `json:"title"`
	Category       Category  `json:"category"`
	Completions    int       `json:"completions"`
	CompletionRate float64   `json:"completion_rate"`
	StreakInMonth  int       `json:"streak_in_month"`
	BadgesEarned   []Badge   `json:"badges_earned"`
}

type MonthlyReport struct {
	Period  string         `json:"period"`
	Habits  []HabitMonthly `json:"habits"`
	Summary MonthlySummary `json:"summary"`
}

type MonthlySummary struct {
	TotalCompletions      int     `json:"total_completions"`
	AverageCompletionRate float64 `json:"average_completion_rate"`
	TotalBadgesEarned     int     `json:"total_badges_earned"`
}

type ActiveStreak struct {
	HabitID       uuid.UUID `json:"habit_id"`
	Title         string    `json:"title"`
	CurrentStreak int       `json:"current_streak"`
}

type HabitSummary struct {
	TotalHabits          int            `json:"total_habits"`
	TotalCompletions     int            `json:"total_completions"`
	TotalBadges          int            `json:"total_badges"`
	LongestStreak        int            `json:"longest_streak"`
	HabitsCompletedToday int            `json:"habits_completed_today"`
	ActiveStreaks        []ActiveStreak `json:"active_streaks"`
}

type Achievement struct {
	HabitID    uuid.UUID `json:"habit_id"`
	HabitTitle string    `json:"habit_title"`
	Badge      Badge     `json:"badge"`
}
