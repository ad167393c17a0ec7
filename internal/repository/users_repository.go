package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/limbo/momentum/internal/error_values"
	"github.com/limbo/momentum/pkg/cleanup"
	"github.com/limbo/momentum/pkg/entity"
)

const userColumns = `id, name, email, password_hash, profile_picture, phone_number, bio, address,
		is_verified, verification_otp, verification_otp_expiry, reset_otp, reset_otp_expiry, created_at, updated_at`

type UsersRepository struct {
	conn PgConnection
}

func NewUsersRepo(cfg DBConfig) *UsersRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for usersRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for usersRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &UsersRepository{
		conn: pool,
	}
}

func NewUsersRepoWithConn(conn PgConnection) *UsersRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for usersRepo: " + err.Error())
	}
	return &UsersRepository{
		conn: conn,
	}
}

func (ur *UsersRepository) Create(ctx context.Context, user *entity.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	_, err := ur.conn.Exec(ctx, `INSERT INTO users (name, email, password_hash, profile_picture, phone_number, bio, address, verification_otp, verification_otp_expiry)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.ProfilePicture,
		user.PhoneNumber,
		user.Bio,
		user.Address,
		user.VerificationOTP,
		user.VerificationOTPExpiry,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return errorvalues.ErrUserExists
			}
		}
		return errors.New("creating user db error: " + err.Error())
	}
	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.ProfilePicture,
		&user.PhoneNumber,
		&user.Bio,
		&user.Address,
		&user.IsVerified,
		&user.VerificationOTP,
		&user.VerificationOTPExpiry,
		&user.ResetOTP,
		&user.ResetOTPExpiry,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (ur *UsersRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := ur.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1;`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("searching user by email error: " + err.Error())
	}
	return user, nil
}

func (ur *UsersRepository) FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error) {
	row := ur.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1;`, uid)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("searching user by id error: " + err.Error())
	}
	return user, nil
}

func (ur *UsersRepository) Update(ctx context.Context, user *entity.User) error {
	ct, err := ur.conn.Exec(ctx, `UPDATE users SET name = $1, profile_picture = $2, phone_number = $3, bio = $4, address = $5, updated_at = NOW() WHERE id = $6;`,
		user.Name,
		user.ProfilePicture,
		user.PhoneNumber,
		user.Bio,
		user.Address,
		user.ID,
	)
	if err != nil {
		return errors.New("updating user error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}

func (ur *UsersRepository) SetVerification(ctx context.Context, uid uuid.UUID, code string, expiry *time.Time, verified bool) error {
	ct, err := ur.conn.Exec(ctx, `UPDATE users SET verification_otp = $1, verification_otp_expiry = $2, is_verified = $3, updated_at = NOW() WHERE id = $4;`,
		code,
		expiry,
		verified,
		uid,
	)
	if err != nil {
		return errors.New("updating user verification error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}

func (ur *UsersRepository) SetResetOTP(ctx context.Context, uid uuid.UUID, code string, expiry *time.Time) error {
	ct, err := ur.conn.Exec(ctx, `UPDATE users SET reset_otp = $1, reset_otp_expiry = $2, updated_at = NOW() WHERE id = $3;`,
		code,
		expiry,
		uid,
	)
	if err != nil {
		return errors.New("updating user reset code error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}

func (ur *UsersRepository) UpdatePassword(ctx context.Context, uid uuid.UUID, passwordHash string) error {
	ct, err := ur.conn.Exec(ctx, `UPDATE users SET password_hash = $1, reset_otp = '', reset_otp_expiry = NULL, updated_at = NOW() WHERE id = $2;`,
		passwordHash,
		uid,
	)
	if err != nil {
		return errors.New("updating user password error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}

func (ur *UsersRepository) Delete(ctx context.Context, uid uuid.UUID) error {
	ct, err := ur.conn.Exec(ctx, `DELETE FROM users WHERE id = $1;`, uid)
	if err != nil {
		return errors.New("deleting user error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}
