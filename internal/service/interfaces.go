package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/momentum/pkg/entity"
)

type RegisterRequest struct {
	Name        string `validate:"required,printable_text,min=1,max=100"`
	Email       string `validate:"required,email,max=255"`
	Password    string `validate:"required,min=8,max=72"`
	PhoneNumber string `validate:"omitempty,max=32"`
}

type UpdateProfileRequest struct {
	Name           *string `validate:"omitempty,printable_text,min=1,max=100"`
	PhoneNumber    *string `validate:"omitempty,max=32"`
	Bio            *string `validate:"omitempty,max=500"`
	Address        *string `validate:"omitempty,max=255"`
	ProfilePicture *string `validate:"omitempty,max=512"`
}

type UserServiceI interface {
	// Validates credentials, creates an unverified user and mails the
	// verification code. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Confirms the emailed verification code and marks the user verified
	VerifyEmail(ctx context.Context, email, code string, now time.Time) error
	// Compares given credentials. If ok, gives back user's data with ID
	Login(ctx context.Context, email, password string) (*entity.User, error)
	// Issues a password reset code and mails it
	ForgotPassword(ctx context.Context, email string, now time.Time) error
	// Checks a reset code without consuming it
	VerifyResetOTP(ctx context.Context, email, code string, now time.Time) error
	// Consumes a valid reset code and stores the new password hash
	ResetPassword(ctx context.Context, email, code, newPassword string, now time.Time) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*entity.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

type CreateHabitRequest struct {
	Title       string           `validate:"required,printable_text,min=1,max=200"`
	Description string           `validate:"max=1000"`
	Category    entity.Category  `validate:"required,oneof=health productivity learning fitness mindfulness other"`
	Frequency   entity.Frequency `validate:"required,oneof=daily weekly"`
	TimeOfDay   entity.TimeOfDay `validate:"required,oneof=morning afternoon evening anytime"`
}

// UpdateHabitRequest is the allow-list patch for habit edits. Owner, history
// and badges are not representable here and therefore can't be touched.
type UpdateHabitRequest struct {
	Title       *string           `validate:"omitempty,printable_text,min=1,max=200"`
	Description *string           `validate:"omitempty,max=1000"`
	Category    *entity.Category  `validate:"omitempty,oneof=health productivity learning fitness mindfulness other"`
	Frequency   *entity.Frequency `validate:"omitempty,oneof=daily weekly"`
	TimeOfDay   *entity.TimeOfDay `validate:"omitempty,oneof=morning afternoon evening anytime"`
	Active      *bool
}

type PaginationOpts struct {
	Limit  int
	Offset int
}

type HabitsServiceI interface {
	CreateHabit(ctx context.Context, uid uuid.UUID, req *CreateHabitRequest) (*entity.Habit, error)
	// Lists the user's active habits with history and badges loaded
	GetUserHabits(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.Habit, error)
	GetHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error)
	UpdateHabit(ctx context.Context, habitID, userID uuid.UUID, req *UpdateHabitRequest) (*entity.Habit, error)
	// Soft delete: the habit is excluded from listings but its data survives
	ArchiveHabit(ctx context.Context, habitID, userID uuid.UUID) error
}

// CompletionResult is what a completion event produced: the updated habit and
// the badges earned by exactly this event.
type CompletionResult struct {
	Habit     *entity.Habit  `json:"habit"`
	NewBadges []entity.Badge `json:"new_badges"`
}

type CompletionsServiceI interface {
	CompleteHabit(ctx context.Context, habitID, userID uuid.UUID, completedAt time.Time) (*CompletionResult, error)
}

type StatsServiceI interface {
	// 30-day window report ending at now
	GetStats(ctx context.Context, userID uuid.UUID, now time.Time) (*entity.StatsReport, error)
	GetMonthlyReport(ctx context.Context, userID uuid.UUID, year, month int) (*entity.MonthlyReport, error)
	GetSummary(ctx context.Context, userID uuid.UUID, now time.Time) (*entity.HabitSummary, error)
	GetRecentAchievements(ctx context.Context, userID uuid.UUID) ([]entity.Achievement, error)
}

type ReminderServiceI interface {
	// Mails a reminder for every habit that is available and in its preferred
	// window. Returns how many reminders went out
	SendReminders(ctx context.Context, userID uuid.UUID, now time.Time) (int, error)
}
