package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/momentum/internal/progress"
	"github.com/limbo/momentum/internal/repository"
	"github.com/limbo/momentum/pkg/entity"
)

// statsHabitLimit caps how many habits a single report folds over. Accounts
// hold a handful of habits in practice.
const statsHabitLimit = 200

const statsWindowDays = 30

type StatsService struct {
	habitsRepo      repository.HabitsRepositoryI
	completionsRepo repository.CompletionsRepositoryI
	badgesRepo      repository.BadgesRepositoryI
}

func NewStatsService(habitsRepo repository.HabitsRepositoryI, completionsRepo repository.CompletionsRepositoryI, badgesRepo repository.BadgesRepositoryI) *StatsService {
	if habitsRepo == nil || completionsRepo == nil || badgesRepo == nil {
		log.Fatal("on stats service provided nil repos")
	}
	return &StatsService{
		habitsRepo:      habitsRepo,
		completionsRepo: completionsRepo,
		badgesRepo:      badgesRepo,
	}
}

func (serv *StatsService) loadActiveHabits(ctx context.Context, userID uuid.UUID) ([]*entity.Habit, error) {
	habits, err := serv.habitsRepo.GetByUserID(ctx, userID, statsHabitLimit, 0)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	for _, habit := range habits {
		if err = loadHabitProgress(ctx, habit, serv.completionsRepo, serv.badgesRepo); err != nil {
			return nil, err
		}
	}
	return habits, nil
}

func (serv *StatsService) GetStats(ctx context.Context, userID uuid.UUID, now time.Time) (*entity.StatsReport, error) {
	habits, err := serv.loadActiveHabits(ctx, userID)
	if err != nil {
		return nil, err
	}
	windowStart := now.UTC().AddDate(0, 0, -(statsWindowDays - 1))
	return progress.ComputeStatistics(habits, windowStart, now)
}

func (serv *StatsService) GetMonthlyReport(ctx context.Context, userID uuid.UUID, year, month int) (*entity.MonthlyReport, error) {
	habits, err := serv.loadActiveHabits(ctx, userID)
	if err != nil {
		return nil, err
	}
	return progress.BuildMonthlyReport(habits, year, month)
}

func (serv *StatsService) GetSummary(ctx context.Context, userID uuid.UUID, now time.Time) (*entity.HabitSummary, error) {
	habits, err := serv.loadActiveHabits(ctx, userID)
	if err != nil {
		return nil, err
	}
	return progress.BuildSummary(habits, now), nil
}

const recentAchievementsLimit = 10

func (serv *StatsService) GetRecentAchievements(ctx context.Context, userID uuid.UUID) ([]entity.Achievement, error) {
	habits, err := serv.loadActiveHabits(ctx, userID)
	if err != nil {
		return nil, err
	}
	return progress.CollectAchievements(habits, recentAchievementsLimit), nil
}
