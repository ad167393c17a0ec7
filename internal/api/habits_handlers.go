package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	errorvalues "github.com/limbo/momentum/internal/error_values"
	"github.com/limbo/momentum/internal/service"
	"github.com/limbo/momentum/pkg/entity"
	"github.com/limbo/momentum/pkg/httputil"
)

type CreateHabitRequest struct {
	Title       string `json:"title"`
	Description string `json:"desc"`
	Category    string `json:"category"`
	Frequency   string `json:"frequency"`
	TimeOfDay   string `json:"time_of_day"`
}

type UpdateHabitRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"desc"`
	Category    *string `json:"category"`
	Frequency   *string `json:"frequency"`
	TimeOfDay   *string `json:"time_of_day"`
	Active      *bool   `json:"active"`
}

type GetHabitsResponse struct {
	UserID string          `json:"uid"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
	Habits []*entity.Habit `json:"habits"`
}

func habitIDFromPath(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func (s *Server) CreateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create habit error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateHabitRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create habit error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	habit, err := s.habitsService.CreateHabit(ctx, uid, &service.CreateHabitRequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    entity.Category(req.Category),
		Frequency:   entity.Frequency(req.Frequency),
		TimeOfDay:   entity.TimeOfDay(req.TimeOfDay),
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("create habit error: invalid fields")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit fields", err)
		case errors.Is(err, errorvalues.ErrUserHasHabit):
			logger.Error("create habit error: attempt to create existed habit")
			httputil.WriteErrorResponse(w, http.StatusConflict, "habit already exists", nil)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("create habit error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "couldn't create habit: user doesn't exists", nil)
		default:
			logger.Error("create habit error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating habit", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, habit)
	logger.Info("habit created")
}

func (s *Server) GetHabits(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get habits error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 10
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	habits, err := s.habitsService.GetUserHabits(ctx, uid, service.PaginationOpts{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		logger.Error("getting habits list error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting habits list", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetHabitsResponse{
		UserID: uid.String(),
		Page:   page,
		Limit:  limit,
		Habits: habits,
	})
	logger.Info("habits provided")
}

func (s *Server) GetHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get habit error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := habitIDFromPath(r)
	if err != nil {
		logger.Error("get habit error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	habit, err := s.habitsService.GetHabit(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrHabitNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("get habit error: unexist habit")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
		default:
			logger.Error("get habit error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting habit", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
	logger.Info("habit provided")
}

func (s *Server) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update habit error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := habitIDFromPath(r)
	if err != nil {
		logger.Error("update habit error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	var req UpdateHabitRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update habit error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	patch := service.UpdateHabitRequest{
		Title:       req.Title,
		Description: req.Description,
		Active:      req.Active,
	}
	if req.Category != nil {
		category := entity.Category(*req.Category)
		patch.Category = &category
	}
	if req.Frequency != nil {
		frequency := entity.Frequency(*req.Frequency)
		patch.Frequency = &frequency
	}
	if req.TimeOfDay != nil {
		timeOfDay := entity.TimeOfDay(*req.TimeOfDay)
		patch.TimeOfDay = &timeOfDay
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	habit, err := s.habitsService.UpdateHabit(ctx, id, uid, &patch)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("update habit error: invalid fields")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit fields", err)
		case errors.Is(err, errorvalues.ErrHabitNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("update habit error: unexist habit")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
		default:
			logger.Error("update habit error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while updating habit", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
	logger.Info("habit updated")
}

func (s *Server) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("habit deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := habitIDFromPath(r)
	if err != nil {
		logger.Error("habit deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.habitsService.ArchiveHabit(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrHabitNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("habit deletion error: unexist habit")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
		default:
			logger.Error("habit deletion error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting habit", nil)
		}
		return
	}
	httputil.WriteMessageResponse(w, http.StatusOK, "habit archived")
	logger.Info("habit archived")
}

func (s *Server) CompleteHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("habit completion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := habitIDFromPath(r)
	if err != nil {
		logger.Error("habit completion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	result, err := s.completionsService.CompleteHabit(ctx, id, uid, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrHabitNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("habit completion error: unexist habit")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "habit doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrHabitArchived):
			logger.Error("habit completion error: archived habit")
			httputil.WriteErrorResponse(w, http.StatusConflict, "habit is archived", nil)
		case errors.Is(err, errorvalues.ErrCompletionInFuture):
			logger.Error("habit completion error: future timestamp")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "completion time is in the future", nil)
		default:
			logger.Error("habit completion error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while completing habit", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, result)
	logger.Info("habit completed", slog.Int("new_badges", len(result.NewBadges)))
}

func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get stats error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	report, err := s.statsService.GetStats(ctx, uid, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrNoHabits):
			logger.Error("get stats error: no habits")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "no habits to report on", nil)
		default:
			logger.Error("get stats error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while building stats", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, report)
	logger.Info("stats provided")
}

func (s *Server) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("monthly report error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	now := time.Now().UTC()
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		year = now.Year()
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		month = int(now.Month())
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	report, err := s.statsService.GetMonthlyReport(ctx, uid, year, month)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrInvalidReportPeriod):
			logger.Error("monthly report error: invalid period")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid report period", nil)
		case errors.Is(err, errorvalues.ErrNoHabits):
			logger.Error("monthly report error: no habits")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "no habits to report on", nil)
		default:
			logger.Error("monthly report error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while building monthly report", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, report)
	logger.Info("monthly report provided")
}

func (s *Server) CheckReminders(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("reminders check error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()
	sent, err := s.reminderService.SendReminders(ctx, uid, time.Now())
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			logger.Error("reminders check error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user doesn't exist", nil)
			return
		}
		logger.Error("reminders check error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while sending reminders", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"sent": sent})
	logger.Info("reminders dispatched", slog.Int("sent", sent))
}
