package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/limbo/momentum/internal/error_values"
	"github.com/limbo/momentum/pkg/cleanup"
	"github.com/limbo/momentum/pkg/entity"
)

const habitColumns = `user_id, title, description, category, frequency, time_of_day,
		current_streak, longest_streak, total_completions, last_completed, start_date, active, created_at, updated_at`

type HabitsRepository struct {
	conn PgConnection
}

func NewHabitsRepo(cfg DBConfig) *HabitsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for habitsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &HabitsRepository{
		conn: pool,
	}
}

func NewHabitsRepoWithConn(conn PgConnection) *HabitsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	return &HabitsRepository{
		conn: conn,
	}
}

func (hr *HabitsRepository) Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error) {
	tx, err := hr.conn.Begin(ctx)
	if err != nil {
		return uuid.UUID{}, errors.New("starting habit creation tx error: " + err.Error())
	}
	defer tx.Rollback(ctx)
	_, err = tx.Exec(ctx, `INSERT INTO habits (user_id, title, description, category, frequency, time_of_day) VALUES ($1, $2, $3, $4, $5, $6);`,
		habit.UserID,
		habit.Title,
		habit.Description,
		habit.Category,
		habit.Frequency,
		habit.TimeOfDay,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return uuid.UUID{}, errorvalues.ErrUserHasHabit
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrOwnerNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating habit db error: " + err.Error())
	}
	var id uuid.UUID
	row := tx.QueryRow(ctx, `SELECT id FROM habits WHERE title = $1 AND user_id = $2;`, habit.Title, habit.UserID)
	if err = row.Scan(&id); err != nil {
		return uuid.UUID{}, errors.New("reading created habit id error: " + err.Error())
	}
	if err = tx.Commit(ctx); err != nil {
		return uuid.UUID{}, errors.New("committing habit creation error: " + err.Error())
	}
	return id, nil
}

func scanHabit(row pgx.Row, habit *entity.Habit) error {
	return row.Scan(
		&habit.UserID,
		&habit.Title,
		&habit.Description,
		&habit.Category,
		&habit.Frequency,
		&habit.TimeOfDay,
		&habit.CurrentStreak,
		&habit.LongestStreak,
		&habit.TotalCompletions,
		&habit.LastCompleted,
		&habit.StartDate,
		&habit.Active,
		&habit.CreatedAt,
		&habit.UpdatedAt,
	)
}

func (hr *HabitsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	var habit entity.Habit
	habit.ID = id
	row := hr.conn.QueryRow(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = $1;`, id)
	if err := scanHabit(row, &habit); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrHabitNotFound
		}
		return nil, errors.New("getting habit by id error: " + err.Error())
	}
	return &habit, nil
}

func (hr *HabitsRepository) GetByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Habit, error) {
	habits := make([]*entity.Habit, 0)
	rows, err := hr.conn.Query(ctx, `SELECT id, `+habitColumns+` FROM habits
		WHERE user_id = $1 AND active = TRUE ORDER BY created_at DESC LIMIT $2 OFFSET $3;`, uid, limit, offset)
	if err != nil {
		return nil, errors.New("getting habits by uid error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		h := entity.Habit{}
		err = rows.Scan(&h.ID, &h.UserID, &h.Title, &h.Description, &h.Category, &h.Frequency, &h.TimeOfDay,
			&h.CurrentStreak, &h.LongestStreak, &h.TotalCompletions, &h.LastCompleted, &h.StartDate, &h.Active,
			&h.CreatedAt, &h.UpdatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling habit error: " + err.Error())
		}
		habits = append(habits, &h)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return habits, nil
}

func (hr *HabitsRepository) Update(ctx context.Context, habit *entity.Habit) error {
	ct, err := hr.conn.Exec(ctx, `UPDATE habits SET title = $1, description = $2, category = $3, frequency = $4, time_of_day = $5, active = $6, updated_at = NOW() WHERE id = $7;`,
		habit.Title,
		habit.Description,
		habit.Category,
		habit.Frequency,
		habit.TimeOfDay,
		habit.Active,
		habit.ID,
	)
	if err != nil {
		return errors.New("error updating habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) Archive(ctx context.Context, id uuid.UUID) error {
	ct, err := hr.conn.Exec(ctx, `UPDATE habits SET active = FALSE, updated_at = NOW() WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error archiving habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) SaveProgress(ctx context.Context, habit *entity.Habit) error {
	ct, err := hr.conn.Exec(ctx, `UPDATE habits SET current_streak = $1, longest_streak = $2, total_completions = $3, last_completed = $4, updated_at = NOW() WHERE id = $5;`,
		habit.CurrentStreak,
		habit.LongestStreak,
		habit.TotalCompletions,
		habit.LastCompleted,
		habit.ID,
	)
	if err != nil {
		return errors.New("error saving habit progress: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}
