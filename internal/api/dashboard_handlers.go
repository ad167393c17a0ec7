package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	errorvalues "github.com/limbo/momentum/internal/error_values"
	"github.com/limbo/momentum/pkg/httputil"
)

func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("dashboard error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	user, err := s.userService.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			logger.Error("dashboard error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user doesn't exist", nil)
			return
		}
		logger.Error("dashboard error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while building dashboard", nil)
		return
	}
	summary, err := s.statsService.GetSummary(ctx, uid, time.Now())
	if err != nil {
		logger.Error("dashboard error: summary error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while building dashboard", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"user":          profileFromUser(user),
		"habit_summary": summary,
	})
	logger.Info("dashboard provided")
}

func (s *Server) Achievements(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("achievements error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	achievements, err := s.statsService.GetRecentAchievements(ctx, uid)
	if err != nil {
		logger.Error("achievements error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting achievements", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"achievements": achievements,
	})
	logger.Info("achievements provided")
}
