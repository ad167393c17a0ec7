package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	errorvalues "github.com/limbo/momentum/internal/error_values"
	"github.com/limbo/momentum/internal/repository"
	"github.com/limbo/momentum/pkg/entity"
	"github.com/limbo/momentum/pkg/mailer"
	"github.com/limbo/momentum/pkg/otp"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo   repository.UsersRepositoryI
	mailer mailer.MailerI
}

func NewUserService(usersRepo repository.UsersRepositoryI, m mailer.MailerI) *UserService {
	if usersRepo == nil || m == nil {
		log.Fatal("on user service provided nil deps")
	}
	return &UserService{
		repo:   usersRepo,
		mailer: m,
	}
}

func Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func validateStruct(req any) error {
	err := validate.Struct(req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errorvalues.ErrValidation
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return err
		}
		return errors.New("validation unexpected error: " + err.Error())
	}
	return nil
}

func (us *UserService) Register(ctx context.Context, req *RegisterRequest) (*entity.User, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	passwordHash, err := Hash(req.Password)
	if err != nil {
		return nil, errors.New("hashing password error: " + err.Error())
	}
	code, err := otp.Generate()
	if err != nil {
		return nil, errors.New("generating verification code error: " + err.Error())
	}
	expiry := otp.Expiry(time.Now())
	err = us.repo.Create(ctx, &entity.User{
		Name:                  req.Name,
		Email:                 req.Email,
		PasswordHash:          passwordHash,
		PhoneNumber:           req.PhoneNumber,
		VerificationOTP:       code,
		VerificationOTPExpiry: &expiry,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserExists) {
			return nil, errorvalues.ErrUserExists
		}
		return nil, errors.New("repository creating error: " + err.Error())
	}
	user, err := us.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("repository searching error: " + err.Error())
	}
	if err = us.mailer.SendVerificationEmail(ctx, user.Email, user.Name, code); err != nil {
		return nil, errors.New("sending verification email error: " + err.Error())
	}
	return user, nil
}

func (us *UserService) VerifyEmail(ctx context.Context, email, code string, now time.Time) error {
	user, err := us.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return errorvalues.ErrUserNotFound
		}
		return errors.New("repository searching error: " + err.Error())
	}
	if !otp.Valid(user.VerificationOTP, code, user.VerificationOTPExpiry, now) {
		return errorvalues.ErrInvalidOTP
	}
	err = us.repo.SetVerification(ctx, user.ID, "", nil, true)
	if err != nil {
		return errors.New("repository verification update error: " + err.Error())
	}
	return nil
}

func (us *UserService) Login(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := us.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errorvalues.ErrWrongCredentials
	}
	if !user.IsVerified {
		return nil, errorvalues.ErrUserNotVerified
	}
	return user, nil
}

func (us *UserService) ForgotPassword(ctx context.Context, email string, now time.Time) error {
	user, err := us.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return errorvalues.ErrUserNotFound
		}
		return errors.New("repository searching error: " + err.Error())
	}
	code, err := otp.Generate()
	if err != nil {
		return errors.New("generating reset code error: " + err.Error())
	}
	expiry := otp.Expiry(now)
	if err = us.repo.SetResetOTP(ctx, user.ID, code, &expiry); err != nil {
		return errors.New("repository reset code update error: " + err.Error())
	}
	if err = us.mailer.SendResetOTPEmail(ctx, user.Email, code); err != nil {
		return errors.New("sending reset email error: " + err.Error())
	}
	return nil
}

func (us *UserService) VerifyResetOTP(ctx context.Context, email, code string, now time.Time) error {
	user, err := us.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return errorvalues.ErrUserNotFound
		}
		return errors.New("repository searching error: " + err.Error())
	}
	if !otp.Valid(user.ResetOTP, code, user.ResetOTPExpiry, now) {
		return errorvalues.ErrInvalidOTP
	}
	return nil
}

func (us *UserService) ResetPassword(ctx context.Context, email, code, newPassword string, now time.Time) error {
	user, err := us.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return errorvalues.ErrUserNotFound
		}
		return errors.New("repository searching error: " + err.Error())
	}
	if !otp.Valid(user.ResetOTP, code, user.ResetOTPExpiry, now) {
		return errorvalues.ErrInvalidOTP
	}
	if len(newPassword) < 8 || len(newPassword) > 72 {
		return errors.Join(errorvalues.ErrValidation, errors.New("password must be 8-72 characters"))
	}
	passwordHash, err := Hash(newPassword)
	if err != nil {
		return errors.New("hashing password error: " + err.Error())
	}
	if err = us.repo.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return errors.New("repository password update error: " + err.Error())
	}
	return nil
}

func (us *UserService) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := us.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return user, nil
}

func (us *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*entity.User, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	user, err := us.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}
	if err = us.repo.Update(ctx, user); err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("repository updating error: " + err.Error())
	}
	return user, nil
}

func (us *UserService) DeleteAccount(ctx context.Context, id uuid.UUID, password string) error {
	user, err := us.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return errorvalues.ErrUserNotFound
		}
		return errors.New("repository searching error: " + err.Error())
	}
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return errorvalues.ErrWrongCredentials
	}
	err = us.repo.Delete(ctx, user.ID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return errorvalues.ErrUserNotFound
		}
		return errors.New("repository deletion error: " + err.Error())
	}
	return nil
}
