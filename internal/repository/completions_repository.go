package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/limbo/momentum/internal/error_values"
	"github.com/limbo/momentum/pkg/cleanup"
	"github.com/limbo/momentum/pkg/entity"
)

type CompletionsRepository struct {
	conn PgConnection
}

func NewCompletionsRepo(cfg DBConfig) *CompletionsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for completionsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for completionsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &CompletionsRepository{
		conn: pool,
	}
}

func NewCompletionsRepoWithConn(conn PgConnection) *CompletionsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for completionsRepo: " + err.Error())
	}
	return &CompletionsRepository{
		conn: conn,
	}
}

func (cr *CompletionsRepository) Create(ctx context.Context, habitID uuid.UUID, completion entity.Completion) error {
	_, err := cr.conn.Exec(
		ctx,
		`INSERT INTO habit_completions (habit_id, completion_date, completed) VALUES ($1, $2, $3);`,
		habitID,
		completion.Date,
		completion.Completed,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return errorvalues.ErrHabitNotFound
			}
		}
		return errors.New("creating completion error: " + err.Error())
	}
	return nil
}

func (cr *CompletionsRepository) ListByHabitID(ctx context.Context, habitID uuid.UUID) ([]entity.Completion, error) {
	rows, err := cr.conn.Query(
		ctx,
		`SELECT completion_date, completed FROM habit_completions WHERE habit_id = $1 ORDER BY recorded_at ASC, id ASC;`,
		habitID,
	)
	if err != nil {
		return nil, errors.New("getting completion history error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.Completion, 0)
	for rows.Next() {
		c := entity.Completion{}
		err = rows.Scan(&c.Date, &c.Completed)
		if err != nil {
			return nil, errors.New("completion row parsing error: " + err.Error())
		}
		result = append(result, c)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected completion rows error: " + rows.Err().Error())
	}
	return result, nil
}

func (cr *CompletionsRepository) CountByHabitID(ctx context.Context, habitID uuid.UUID) (int, error) {
	row := cr.conn.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM habit_completions WHERE habit_id = $1;`,
		habitID,
	)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, errors.New("error counting completions: " + err.Error())
	}
	return count, nil
}
