package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/momentum/internal/error_values"
	"github.com/limbo/momentum/internal/repository"
	"github.com/limbo/momentum/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
)

func TestCreateCompletion(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewCompletionsRepoWithConn(mock)
	hid := uuid.New()
	completion := entity.Completion{
		Date:      time.Now().UTC(),
		Completed: true,
	}
	query := regexp.QuoteMeta(`INSERT INTO habit_completions (habit_id, completion_date, completed) VALUES ($1, $2, $3);`)
	ctx := context.Background()
	t.Run("successfully created", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(hid, completion.Date, completion.Completed).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		err := repo.Create(ctx, hid, completion)
		assert.NoError(t, err)
	})
	t.Run("FK violation", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(hid, completion.Date, completion.Completed).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		err := repo.Create(ctx, hid, completion)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(hid, completion.Date, completion.Completed).
			WillReturnError(errors.New("db error"))
		err := repo.Create(ctx, hid, completion)
		assert.Error(t, err)
	})
}

func TestListCompletionsByHabitID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewCompletionsRepoWithConn(mock)
	hid := uuid.New()
	history := []entity.Completion{
		{Date: time.Now().UTC().AddDate(0, 0, -2), Completed: true},
		{Date: time.Now().UTC().AddDate(0, 0, -1), Completed: true},
		{Date: time.Now().UTC(), Completed: true},
	}
	query := regexp.QuoteMeta(`SELECT completion_date, completed FROM habit_completions WHERE habit_id = $1 ORDER BY recorded_at ASC, id ASC;`)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"completion_date", "completed"})
		for _, c := range history {
			rows.AddRow(c.Date, c.Completed)
		}
		mock.ExpectQuery(query).
			WithArgs(hid).
			WillReturnRows(rows)
		result, err := repo.ListByHabitID(ctx, hid)
		assert.NoError(t, err)
		assert.Equal(t, history, result)
	})
	t.Run("no entries", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(hid).
			WillReturnRows(pgxmock.NewRows([]string{"completion_date", "completed"}))
		result, err := repo.ListByHabitID(ctx, hid)
		assert.NoError(t, err)
		assert.Equal(t, 0, len(result))
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(hid).
			WillReturnError(errors.New("db error"))
		_, err := repo.ListByHabitID(ctx, hid)
		assert.Error(t, err)
	})
}

func TestCountCompletionsByHabitID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewCompletionsRepoWithConn(mock)
	hid := uuid.New()
	query := regexp.QuoteMeta(`SELECT COUNT(*) FROM habit_completions WHERE habit_id = $1;`)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(hid).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))
		count, err := repo.CountByHabitID(ctx, hid)
		assert.NoError(t, err)
		assert.Equal(t, 42, count)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(hid).
			WillReturnError(errors.New("db error"))
		_, err := repo.CountByHabitID(ctx, hid)
		assert.Error(t, err)
	})
}

func TestCompletionsIntegrational(t *testing.T) {
	cfg := setupHabitsTestDB(t)
	habitsRepo := repository.NewHabitsRepo(cfg)
	repo := repository.NewCompletionsRepo(cfg)
	ctx := context.Background()
	hid, err := habitsRepo.Create(ctx, &entity.Habit{
		UserID:      ownerID,
		Title:       "morning run",
		Description: "5k around the block",
		Category:    entity.CategoryFitness,
		Frequency:   entity.FrequencyDaily,
		TimeOfDay:   entity.TimeOfDayMorning,
	})
	if err != nil {
		t.Fatal(err)
	}
	entries := []entity.Completion{
		{Date: time.Date(2025, time.June, 13, 9, 0, 0, 0, time.UTC), Completed: true},
		{Date: time.Date(2025, time.June, 14, 9, 30, 0, 0, time.UTC), Completed: true},
		{Date: time.Date(2025, time.June, 15, 8, 45, 0, 0, time.UTC), Completed: true},
	}
	t.Run("create", func(t *testing.T) {
		t.Run("success", func(t *testing.T) {
			for _, c := range entries {
				assert.NoError(t, repo.Create(ctx, hid, c))
			}
		})
		t.Run("unknown habit error", func(t *testing.T) {
			err := repo.Create(ctx, uuid.New(), entries[0])
			assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
		})
	})
	t.Run("list in recording order", func(t *testing.T) {
		result, err := repo.ListByHabitID(ctx, hid)
		assert.NoError(t, err)
		assert.Equal(t, 3, len(result))
		for i := range result {
			assert.True(t, entries[i].Date.Equal(result[i].Date))
			assert.True(t, result[i].Completed)
		}
	})
	t.Run("count", func(t *testing.T) {
		count, err := repo.CountByHabitID(ctx, hid)
		assert.NoError(t, err)
		assert.Equal(t, 3, count)
	})
	t.Run("list for unknown habit", func(t *testing.T) {
		result, err := repo.ListByHabitID(ctx, uuid.New())
		assert.NoError(t, err)
		assert.Equal(t, 0, len(result))
	})
}
