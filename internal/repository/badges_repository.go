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

type BadgesRepository struct {
	conn PgConnection
}

func NewBadgesRepo(cfg DBConfig) *BadgesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for badgesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for badgesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &BadgesRepository{
		conn: pool,
	}
}

func NewBadgesRepoWithConn(conn PgConnection) *BadgesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for badgesRepo: " + err.Error())
	}
	return &BadgesRepository{
		conn: conn,
	}
}

func (br *BadgesRepository) Create(ctx context.Context, habitID uuid.UUID, badge entity.Badge) error {
	// Uniqueness by (habit_id, name); re-awards are kept idempotent
	_, err := br.conn.Exec(
		ctx,
		`INSERT INTO habit_badges (habit_id, name, description, icon, date_earned) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (habit_id, name) DO NOTHING;`,
		habitID,
		badge.Name,
		badge.Description,
		badge.Icon,
		badge.DateEarned,
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
		return errors.New("creating badge error: " + err.Error())
	}
	return nil
}

func (br *BadgesRepository) ListByHabitID(ctx context.Context, habitID uuid.UUID) ([]entity.Badge, error) {
	rows, err := br.conn.Query(
		ctx,
		`SELECT name, description, icon, date_earned FROM habit_badges WHERE habit_id = $1 ORDER BY date_earned ASC, id ASC;`,
		habitID,
	)
	if err != nil {
		return nil, errors.New("getting badges error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.Badge, 0)
	for rows.Next() {
		b := entity.Badge{}
		err = rows.Scan(&b.Name, &b.Description, &b.Icon, &b.DateEarned)
		if err != nil {
			return nil, errors.New("badge row parsing error: " + err.Error())
		}
		result = append(result, b)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected badge rows error: " + rows.Err().Error())
	}
	return result, nil
}
