package service

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/momentum/internal/error_values"
	"github.com/limbo/momentum/internal/progress"
	"github.com/limbo/momentum/internal/repository"
	"github.com/limbo/momentum/pkg/mailer"
)

type ReminderService struct {
	usersRepo  repository.UsersRepositoryI
	habitsRepo repository.HabitsRepositoryI
	mailer     mailer.MailerI
}

func NewReminderService(usersRepo repository.UsersRepositoryI, habitsRepo repository.HabitsRepositoryI, m mailer.MailerI) *ReminderService {
	if usersRepo == nil || habitsRepo == nil || m == nil {
		log.Fatal("on reminder service provided nil deps")
	}
	return &ReminderService{
		usersRepo:  usersRepo,
		habitsRepo: habitsRepo,
		mailer:     m,
	}
}

// SendReminders mails the user about every active habit that is still
// available today and sits in its preferred time window. A failed send is
// logged and skipped, the rest still go out.
func (serv *ReminderService) SendReminders(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	user, err := serv.usersRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return 0, err
		}
		return 0, errors.New("repository error: " + err.Error())
	}
	habits, err := serv.habitsRepo.GetByUserID(ctx, userID, statsHabitLimit, 0)
	if err != nil {
		return 0, errors.New("repository error: " + err.Error())
	}
	sent := 0
	for _, habit := range habits {
		if !progress.IsAvailableForCompletion(habit, now) {
			continue
		}
		if !progress.IsPreferredTimeOfDay(habit.TimeOfDay, now) {
			continue
		}
		err = serv.mailer.SendHabitReminderEmail(ctx, user.Email, user.Name, habit.Title, habit.TimeOfDay)
		if err != nil {
			slog.Error("sending habit reminder failed",
				slog.String("habit_id", habit.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		sent++
	}
	return sent, nil
}
