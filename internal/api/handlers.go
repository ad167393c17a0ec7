package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	errorvalues "github.com/limbo/momentum/internal/error_values"
	"github.com/limbo/momentum/internal/service"
	"github.com/limbo/momentum/pkg/entity"
	"github.com/limbo/momentum/pkg/httputil"
)

type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

type UpdateProfileRequest struct {
	Name           *string `json:"name"`
	PhoneNumber    *string `json:"phone_number"`
	Bio            *string `json:"bio"`
	Address        *string `json:"address"`
	ProfilePicture *string `json:"profile_picture"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type ProfileResponse struct {
	ID             string `json:"uid"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	Bio            string `json:"bio,omitempty"`
	Address        string `json:"address,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	IsVerified     bool   `json:"is_verified"`
	CreatedAt      string `json:"created_at"`
}

func profileFromUser(user *entity.User) ProfileResponse {
	return ProfileResponse{
		ID:             user.ID.String(),
		Name:           user.Name,
		Email:          user.Email,
		PhoneNumber:    user.PhoneNumber,
		Bio:            user.Bio,
		Address:        user.Address,
		ProfilePicture: user.ProfilePicture,
		IsVerified:     user.IsVerified,
		CreatedAt:      user.CreatedAt.Format(time.RFC3339),
	}
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req RegisterRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("registering error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.Register(ctx, &service.RegisterRequest{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("registering error: invalid fields")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid registration fields", err)
		case errors.Is(err, errorvalues.ErrUserExists):
			logger.Error("registering error: existed user")
			httputil.WriteErrorResponse(w, http.StatusConflict, "user with such email already exists", nil)
		default:
			logger.Error("registering error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during registration", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{
		"uid": user.ID.String(),
	})
	logger.Info("successful registration")
}

func (s *Server) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req VerifyEmailRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("email verification error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.userService.VerifyEmail(ctx, req.Email, req.Code, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("email verification error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user with such email doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrInvalidOTP):
			logger.Error("email verification error: wrong or expired code")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid or expired verification code", nil)
		default:
			logger.Error("email verification error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during email verification", nil)
		}
		return
	}
	httputil.WriteMessageResponse(w, http.StatusOK, "email verified")
	logger.Info("email verified")
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req LoginRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("login error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("login error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user with such email doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrWrongCredentials):
			logger.Error("login error: wrong password")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "invalid email or password", nil)
		case errors.Is(err, errorvalues.ErrUserNotVerified):
			logger.Error("login error: email not verified")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "email is not verified", nil)
		default:
			logger.Error("login error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during login", nil)
		}
		return
	}
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		logger.Error("login error: generating token error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error creating token", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"uid":   user.ID.String(),
		"token": token,
	})
	logger.Info("successful login")
}

func (s *Server) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req ForgotPasswordRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("forgot password error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.userService.ForgotPassword(ctx, req.Email, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("forgot password error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user with such email doesn't exist", nil)
		default:
			logger.Error("forgot password error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during password reset request", nil)
		}
		return
	}
	httputil.WriteMessageResponse(w, http.StatusOK, "password reset code sent")
	logger.Info("reset code issued")
}

func (s *Server) VerifyResetOTP(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req VerifyEmailRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("reset code check error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.userService.VerifyResetOTP(ctx, req.Email, req.Code, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("reset code check error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user with such email doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrInvalidOTP):
			logger.Error("reset code check error: wrong or expired code")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid or expired reset code", nil)
		default:
			logger.Error("reset code check error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during reset code check", nil)
		}
		return
	}
	httputil.WriteMessageResponse(w, http.StatusOK, "reset code is valid")
	logger.Info("reset code verified")
}

func (s *Server) ResetPassword(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req ResetPasswordRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("reset password error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.userService.ResetPassword(ctx, req.Email, req.Code, req.NewPassword, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("reset password error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user with such email doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrInvalidOTP):
			logger.Error("reset password error: wrong or expired code")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid or expired reset code", nil)
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("reset password error: weak password")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid new password", err)
		default:
			logger.Error("reset password error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during password reset", nil)
		}
		return
	}
	httputil.WriteMessageResponse(w, http.StatusOK, "password updated")
	logger.Info("password reset")
}

func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get profile error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			logger.Error("get profile error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user doesn't exist", nil)
			return
		}
		logger.Error("get profile error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting profile", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, profileFromUser(user))
	logger.Info("profile provided")
}

func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update profile error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req UpdateProfileRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update profile error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.UpdateProfile(ctx, uid, &service.UpdateProfileRequest{
		Name:           req.Name,
		PhoneNumber:    req.PhoneNumber,
		Bio:            req.Bio,
		Address:        req.Address,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("update profile error: invalid fields")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid profile fields", err)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("update profile error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user doesn't exist", nil)
		default:
			logger.Error("update profile error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while updating profile", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, profileFromUser(user))
	logger.Info("profile updated")
}

func (s *Server) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("account deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req DeleteAccountRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("account deletion error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.userService.DeleteAccount(ctx, uid, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("account deletion error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrWrongCredentials):
			logger.Error("account deletion error: wrong password")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "invalid password", nil)
		default:
			logger.Error("account deletion error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting account", nil)
		}
		return
	}
	httputil.WriteMessageResponse(w, http.StatusOK, "account deleted")
	logger.Info("account deleted")
}
