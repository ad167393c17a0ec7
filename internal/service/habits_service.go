package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/momentum/internal/error_values"
	"github.com/limbo/momentum/internal/repository"
	"github.com/limbo/momentum/pkg/entity"
)

type HabitsService struct {
	repo            repository.HabitsRepositoryI
	completionsRepo repository.CompletionsRepositoryI
	badgesRepo      repository.BadgesRepositoryI
}

func NewHabitsService(habitsRepo repository.HabitsRepositoryI, completionsRepo repository.CompletionsRepositoryI, badgesRepo repository.BadgesRepositoryI) *HabitsService {
	if habitsRepo == nil || completionsRepo == nil || badgesRepo == nil {
		log.Fatal("on habits service provided nil repos")
	}
	return &HabitsService{
		repo:            habitsRepo,
		completionsRepo: completionsRepo,
		badgesRepo:      badgesRepo,
	}
}

// loadHabitProgress fills the habit's completion history and badges from
// their repositories.
func loadHabitProgress(ctx context.Context, habit *entity.Habit,
	completionsRepo repository.CompletionsRepositoryI, badgesRepo repository.BadgesRepositoryI) error {
	history, err := completionsRepo.ListByHabitID(ctx, habit.ID)
	if err != nil {
		return errors.New("completions repository error: " + err.Error())
	}
	badges, err := badgesRepo.ListByHabitID(ctx, habit.ID)
	if err != nil {
		return errors.New("badges repository error: " + err.Error())
	}
	habit.CompletionHistory = history
	habit.Badges = badges
	return nil
}

func (hs *HabitsService) CreateHabit(ctx context.Context, uid uuid.UUID, req *CreateHabitRequest) (*entity.Habit, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	h := entity.Habit{
		UserID:      uid,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Frequency:   req.Frequency,
		TimeOfDay:   req.TimeOfDay,
	}
	id, err := hs.repo.Create(ctx, &h)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrOwnerNotFound):
			return nil, errorvalues.ErrUserNotFound
		case errors.Is(err, errorvalues.ErrUserHasHabit):
			return nil, errorvalues.ErrUserHasHabit
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	habit, err := hs.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	habit.CompletionHistory = make([]entity.Completion, 0)
	habit.Badges = make([]entity.Badge, 0)
	return habit, nil
}

func (hs *HabitsService) GetUserHabits(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.Habit, error) {
	habits, err := hs.repo.GetByUserID(ctx, uid, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	for _, habit := range habits {
		if err = loadHabitProgress(ctx, habit, hs.completionsRepo, hs.badgesRepo); err != nil {
			return nil, err
		}
	}
	return habits, nil
}

func (hs *HabitsService) GetHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error) {
	habit, err := hs.repo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	if habit.UserID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	if err = loadHabitProgress(ctx, habit, hs.completionsRepo, hs.badgesRepo); err != nil {
		return nil, err
	}
	return habit, nil
}

func (hs *HabitsService) UpdateHabit(ctx context.Context, habitID, userID uuid.UUID, req *UpdateHabitRequest) (*entity.Habit, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	habit, err := hs.repo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	if habit.UserID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	if req.Title != nil {
		habit.Title = *req.Title
	}
	if req.Description != nil {
		habit.Description = *req.Description
	}
	if req.Category != nil {
		habit.Category = *req.Category
	}
	if req.Frequency != nil {
		habit.Frequency = *req.Frequency
	}
	if req.TimeOfDay != nil {
		habit.TimeOfDay = *req.TimeOfDay
	}
	if req.Active != nil {
		habit.Active = *req.Active
	}
	if err = hs.repo.Update(ctx, habit); err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	if err = loadHabitProgress(ctx, habit, hs.completionsRepo, hs.badgesRepo); err != nil {
		return nil, err
	}
	return habit, nil
}

func (hs *HabitsService) ArchiveHabit(ctx context.Context, habitID, userID uuid.UUID) error {
	habit, err := hs.repo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	if habit.UserID != userID {
		return errorvalues.ErrWrongOwner
	}
	err = hs.repo.Archive(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	return nil
}
