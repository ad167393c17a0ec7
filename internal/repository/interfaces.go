package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/limbo/momentum/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by email. Can be used for login
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Updates user's profile fields
	Update(ctx context.Context, user *entity.User) error
	// Stores or clears the email verification code and flag
	SetVerification(ctx context.Context, uid uuid.UUID, code string, expiry *time.Time, verified bool) error
	// Stores or clears the password reset code
	SetResetOTP(ctx context.Context, uid uuid.UUID, code string, expiry *time.Time) error
	// Replaces the stored password hash
	UpdatePassword(ctx context.Context, uid uuid.UUID, passwordHash string) error
	// Deletes user
	Delete(ctx context.Context, uid uuid.UUID) error
}

type HabitsRepositoryI interface {
	// Creates new habit in database. Title, UserID and the enum fields are necessary
	Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error)
	// Searches habit with given id. History and badges are loaded separately
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error)
	// Lists active habits owned by user with uid, newest first. Requires pagination params
	GetByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Habit, error)
	// Updates the mutable fields of habit by ID (ID in habit is necessary)
	Update(ctx context.Context, habit *entity.Habit) error
	// Soft-deletes habit with id (active=false)
	Archive(ctx context.Context, id uuid.UUID) error
	// Persists the derived progress state: streaks, totals, last completion
	SaveProgress(ctx context.Context, habit *entity.Habit) error
}

type CompletionsRepositoryI interface {
	// Appends a completion entry for habitID
	Create(ctx context.Context, habitID uuid.UUID, completion entity.Completion) error
	// Lists completion history of habitID in recording order
	ListByHabitID(ctx context.Context, habitID uuid.UUID) ([]entity.Completion, error)
	// Returns count of completion entries for habitID
	CountByHabitID(ctx context.Context, habitID uuid.UUID) (int, error)
}

type BadgesRepositoryI interface {
	// Stores an earned badge for habitID; already-stored names are kept as is
	Create(ctx context.Context, habitID uuid.UUID, badge entity.Badge) error
	// Lists badges earned on habitID in award order
	ListByHabitID(ctx context.Context, habitID uuid.UUID) ([]entity.Badge, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
