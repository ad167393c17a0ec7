package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/momentum/internal/error_values"
	"github.com/limbo/momentum/internal/progress"
	"github.com/limbo/momentum/internal/repository"
)

type CompletionsService struct {
	habitsRepo      repository.HabitsRepositoryI
	completionsRepo repository.CompletionsRepositoryI
	badgesRepo      repository.BadgesRepositoryI
}

func NewCompletionsService(habitsRepo repository.HabitsRepositoryI, completionsRepo repository.CompletionsRepositoryI, badgesRepo repository.BadgesRepositoryI) *CompletionsService {
	if habitsRepo == nil || completionsRepo == nil || badgesRepo == nil {
		log.Fatal("on completions service provided nil repos")
	}
	return &CompletionsService{
		habitsRepo:      habitsRepo,
		completionsRepo: completionsRepo,
		badgesRepo:      badgesRepo,
	}
}

// CompleteHabit records a completion event through the progress engine and
// persists its outcome. Completing an already-completed period is not an
// error: the event is absorbed and the streak stays put.
func (serv *CompletionsService) CompleteHabit(ctx context.Context, habitID, userID uuid.UUID, completedAt time.Time) (*CompletionResult, error) {
	habit, err := serv.habitsRepo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	if habit.UserID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	if !habit.Active {
		return nil, errorvalues.ErrHabitArchived
	}
	if completedAt.After(time.Now()) {
		return nil, errorvalues.ErrCompletionInFuture
	}
	if err = loadHabitProgress(ctx, habit, serv.completionsRepo, serv.badgesRepo); err != nil {
		return nil, err
	}

	newBadges := progress.RecordCompletion(habit, completedAt)

	entry := habit.CompletionHistory[len(habit.CompletionHistory)-1]
	if err = serv.completionsRepo.Create(ctx, habitID, entry); err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	if err = serv.habitsRepo.SaveProgress(ctx, habit); err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	for _, badge := range newBadges {
		if err = serv.badgesRepo.Create(ctx, habitID, badge); err != nil {
			return nil, errors.New("repository error: " + err.Error())
		}
	}
	return &CompletionResult{
		Habit:     habit,
		NewBadges: newBadges,
	}, nil
}
