package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/limbo/momentum/internal/api"
	errorvalues "github.com/limbo/momentum/internal/error_values"
	"github.com/limbo/momentum/internal/repository"
	"github.com/limbo/momentum/internal/service"
	"github.com/limbo/momentum/internal/service/mocks"
	"github.com/limbo/momentum/pkg/entity"
	jwtservice "github.com/limbo/momentum/pkg/jwt_service"
	"github.com/limbo/momentum/pkg/mailer"
	"github.com/pressly/goose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	service.InitValidator()
	m.Run()
}

var (
	username        = "test_name"
	email           = "test@example.com"
	password        = "test_password"
	passwordHash, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userID          = uuid.New()
)

type UserServiceMock struct {
	success bool
}

func (usmock *UserServiceMock) ChangeState(success bool) {
	usmock.success = success
}

func (usmock *UserServiceMock) mockedUser() (*entity.User, error) {
	if usmock.success {
		return &entity.User{
			ID:           userID,
			Name:         username,
			Email:        email,
			PasswordHash: string(passwordHash),
			IsVerified:   true,
		}, nil
	}
	return nil, errors.New("mocked error")
}

func (usmock *UserServiceMock) Register(ctx context.Context, req *service.RegisterRequest) (*entity.User, error) {
	return usmock.mockedUser()
}

func (usmock *UserServiceMock) Login(ctx context.Context, email, password string) (*entity.User, error) {
	return usmock.mockedUser()
}

func (usmock *UserServiceMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return usmock.mockedUser()
}

func (usmock *UserServiceMock) VerifyEmail(ctx context.Context, email, code string, now time.Time) error {
	if usmock.success {
		return nil
	}
	return errors.New("mocked error")
}

func (usmock *UserServiceMock) ForgotPassword(ctx context.Context, email string, now time.Time) error {
	if usmock.success {
		return nil
	}
	return errors.New("mocked error")
}

func (usmock *UserServiceMock) VerifyResetOTP(ctx context.Context, email, code string, now time.Time) error {
	if usmock.success {
		return nil
	}
	return errors.New("mocked error")
}

func (usmock *UserServiceMock) ResetPassword(ctx context.Context, email, code, newPassword string, now time.Time) error {
	if usmock.success {
		return nil
	}
	return errors.New("mocked error")
}

func (usmock *UserServiceMock) UpdateProfile(ctx context.Context, id uuid.UUID, req *service.UpdateProfileRequest) (*entity.User, error) {
	return usmock.mockedUser()
}

func (usmock *UserServiceMock) DeleteAccount(ctx context.Context, id uuid.UUID, password string) error {
	if usmock.success {
		return nil
	}
	return errors.New("mocked error")
}

func authedRequest(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), "User-ID", userID))
}

func withHabitID(r *http.Request, id uuid.UUID) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id.String())
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestRegister(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.RegisterRequest{
		Name:     username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatal(err)
	}
	var req *http.Request
	mock := UserServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: &mock,
	})
	t.Run("registered", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		mock.ChangeState(true)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		mock.ChangeState(false)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", nil)
		mock.ChangeState(true)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestLogin(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatal(err)
	}
	var req *http.Request
	mock := UserServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: &mock,
		JwtService:  jwtservice.New("secret"),
	})
	t.Run("logged in", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		mock.ChangeState(true)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		mock.ChangeState(true)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		mock.ChangeState(false)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestVerifyEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	uService := mocks.NewMockUserServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		UserService: uService,
	})
	body, err := sonic.ConfigDefault.Marshal(api.VerifyEmailRequest{
		Email: email,
		Code:  "123456",
	})
	require.NoError(t, err)

	testCases := []struct {
		ExpectedCode int
		MockPrepFunc func()
		Body         io.Reader
	}{
		{
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				uService.EXPECT().VerifyEmail(gomock.Any(), email, "123456", gomock.Any()).Return(nil)
			},
			Body: bytes.NewReader(body),
		},
		{
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {
				uService.EXPECT().VerifyEmail(gomock.Any(), email, "123456", gomock.Any()).Return(errorvalues.ErrInvalidOTP)
			},
			Body: bytes.NewReader(body),
		},
		{
			ExpectedCode: http.StatusNotFound,
			MockPrepFunc: func() {
				uService.EXPECT().VerifyEmail(gomock.Any(), email, "123456", gomock.Any()).Return(errorvalues.ErrUserNotFound)
			},
			Body: bytes.NewReader(body),
		},
		{
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {},
			Body:         bytes.NewReader([]byte("corrupted")),
		},
	}
	for _, tc := range testCases {
		tc.MockPrepFunc()
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/verify-email", tc.Body)
		serv.VerifyEmail(rr, r)
		assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	uService := mocks.NewMockUserServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		UserService: uService,
	})
	t.Run("forgot password", func(t *testing.T) {
		body, err := sonic.ConfigDefault.Marshal(api.ForgotPasswordRequest{Email: email})
		require.NoError(t, err)
		uService.EXPECT().ForgotPassword(gomock.Any(), email, gomock.Any()).Return(nil)
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/forgot-password", bytes.NewReader(body))
		serv.ForgotPassword(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("verify reset code", func(t *testing.T) {
		body, err := sonic.ConfigDefault.Marshal(api.VerifyEmailRequest{Email: email, Code: "654321"})
		require.NoError(t, err)
		uService.EXPECT().VerifyResetOTP(gomock.Any(), email, "654321", gomock.Any()).Return(nil)
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/verify-otp", bytes.NewReader(body))
		serv.VerifyResetOTP(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("reset password", func(t *testing.T) {
		body, err := sonic.ConfigDefault.Marshal(api.ResetPasswordRequest{
			Email:       email,
			Code:        "654321",
			NewPassword: "brand_new_password",
		})
		require.NoError(t, err)
		uService.EXPECT().ResetPassword(gomock.Any(), email, "654321", "brand_new_password", gomock.Any()).Return(nil)
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/reset-password", bytes.NewReader(body))
		serv.ResetPassword(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("reset password: expired code", func(t *testing.T) {
		body, err := sonic.ConfigDefault.Marshal(api.ResetPasswordRequest{
			Email:       email,
			Code:        "654321",
			NewPassword: "brand_new_password",
		})
		require.NoError(t, err)
		uService.EXPECT().ResetPassword(gomock.Any(), email, "654321", "brand_new_password", gomock.Any()).Return(errorvalues.ErrInvalidOTP)
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/reset-password", bytes.NewReader(body))
		serv.ResetPassword(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestCreateHabit(t *testing.T) {
	ctrl := gomock.NewController(t)
	hService := mocks.NewMockHabitsServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		HabitsService: hService,
	})
	habit := api.CreateHabitRequest{
		Title:       "test_habit",
		Description: "test_habit_description",
		Category:    "health",
		Frequency:   "daily",
		TimeOfDay:   "morning",
	}
	body, err := sonic.ConfigDefault.Marshal(habit)
	require.NoError(t, err)
	habitID := uuid.New()
	serviceReq := &service.CreateHabitRequest{
		Title:       habit.Title,
		Description: habit.Description,
		Category:    entity.CategoryHealth,
		Frequency:   entity.FrequencyDaily,
		TimeOfDay:   entity.TimeOfDayMorning,
	}

	testCases := []struct {
		ExpectedCode int
		MockPrepFunc func()
		Body         io.Reader
	}{
		{
			ExpectedCode: http.StatusCreated,
			MockPrepFunc: func() {
				hService.EXPECT().CreateHabit(gomock.Any(), userID, serviceReq).Return(&entity.Habit{
					ID:          habitID,
					UserID:      userID,
					Title:       habit.Title,
					Description: habit.Description,
					Category:    entity.CategoryHealth,
					Frequency:   entity.FrequencyDaily,
					TimeOfDay:   entity.TimeOfDayMorning,
					Active:      true,
					CreatedAt:   time.Now(),
					UpdatedAt:   time.Now(),
				}, nil)
			},
			Body: bytes.NewReader(body),
		},
		{
			ExpectedCode: http.StatusConflict,
			MockPrepFunc: func() {
				hService.EXPECT().CreateHabit(gomock.Any(), userID, serviceReq).Return(nil, errorvalues.ErrUserHasHabit)
			},
			Body: bytes.NewReader(body),
		},
		{
			ExpectedCode: http.StatusNotFound,
			MockPrepFunc: func() {
				hService.EXPECT().CreateHabit(gomock.Any(), userID, serviceReq).Return(nil, errorvalues.ErrUserNotFound)
			},
			Body: bytes.NewReader(body),
		},
		{
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {
				hService.EXPECT().CreateHabit(gomock.Any(), userID, serviceReq).Return(nil, fmt.Errorf("invalid habit fields: %w", errorvalues.ErrValidation))
			},
			Body: bytes.NewReader(body),
		},
		{
			ExpectedCode: http.StatusInternalServerError,
			MockPrepFunc: func() {
				hService.EXPECT().CreateHabit(gomock.Any(), userID, serviceReq).Return(nil, errors.New("service error"))
			},
			Body: bytes.NewReader(body),
		},
		{
			ExpectedCode: http.StatusBadRequest,
			MockPrepFunc: func() {},
			Body:         bytes.NewReader([]byte("corrupted")),
		},
	}
	for _, tc := range testCases {
		tc.MockPrepFunc()
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/habits", tc.Body)
		r = authedRequest(r)
		serv.CreateHabit(rr, r)
		assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
	}
}

func TestGetHabits(t *testing.T) {
	ctrl := gomock.NewController(t)
	hService := mocks.NewMockHabitsServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		HabitsService: hService,
	})
	habits := make([]*entity.Habit, 0, 10)
	for i := range 10 {
		habits = append(habits, &entity.Habit{
			ID:          uuid.New(),
			UserID:      userID,
			Title:       fmt.Sprintf("test_habit_%d", i+1),
			Description: "blah blah blah",
			Category:    entity.CategoryOther,
			Frequency:   entity.FrequencyDaily,
			TimeOfDay:   entity.TimeOfDayAnytime,
			Active:      true,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		})
	}
	testCases := []struct {
		ExpectedCode        int
		MockPrepFunc        func()
		Limit               int
		Page                int
		ExpectedHabitsCount int
	}{
		{
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				hService.EXPECT().GetUserHabits(gomock.Any(), userID, service.PaginationOpts{
					Limit:  10,
					Offset: 0,
				}).Return(habits, nil)
			},
			Page:                1,
			Limit:               10,
			ExpectedHabitsCount: 10,
		},
		{
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				hService.EXPECT().GetUserHabits(gomock.Any(), userID, service.PaginationOpts{
					Limit:  4,
					Offset: 4,
				}).Return(habits[2:6], nil)
			},
			Page:                2,
			Limit:               4,
			ExpectedHabitsCount: 4,
		},
		{
			ExpectedCode: http.StatusInternalServerError,
			MockPrepFunc: func() {
				hService.EXPECT().GetUserHabits(gomock.Any(), userID, service.PaginationOpts{
					Limit:  10,
					Offset: 0,
				}).Return(nil, errors.New("service error"))
			},
			Page:                1,
			Limit:               10,
			ExpectedHabitsCount: 0,
		},
	}
	for _, tc := range testCases {
		tc.MockPrepFunc()
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/habits", nil)
		q := r.URL.Query()
		q.Add("limit", strconv.Itoa(tc.Limit))
		q.Add("page", strconv.Itoa(tc.Page))
		r.URL.RawQuery = q.Encode()
		r = authedRequest(r)
		serv.GetHabits(rr, r)
		assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		if rr.Result().StatusCode == http.StatusOK {
			var resp api.GetHabitsResponse
			err := sonic.ConfigDefault.NewDecoder(rr.Body).Decode(&resp)
			require.NoError(t, err)
			assert.Equal(t, tc.ExpectedHabitsCount, len(resp.Habits))
		}
	}
}

func TestDeleteHabit(t *testing.T) {
	ctrl := gomock.NewController(t)
	hService := mocks.NewMockHabitsServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		HabitsService: hService,
	})
	habitID := uuid.New()
	testCases := []struct {
		ExpectedCode int
		MockPrepFunc func()
	}{
		{
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				hService.EXPECT().ArchiveHabit(gomock.Any(), habitID, userID).Return(nil)
			},
		},
		{
			ExpectedCode: http.StatusNotFound,
			MockPrepFunc: func() {
				hService.EXPECT().ArchiveHabit(gomock.Any(), habitID, userID).Return(errorvalues.ErrHabitNotFound)
			},
		},
		{
			ExpectedCode: http.StatusNotFound,
			MockPrepFunc: func() {
				hService.EXPECT().ArchiveHabit(gomock.Any(), habitID, userID).Return(errorvalues.ErrWrongOwner)
			},
		},
		{
			ExpectedCode: http.StatusInternalServerError,
			MockPrepFunc: func() {
				hService.EXPECT().ArchiveHabit(gomock.Any(), habitID, userID).Return(errors.New("service error"))
			},
		},
	}
	for _, tc := range testCases {
		tc.MockPrepFunc()
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/api/v1/habits/"+habitID.String(), nil)
		r = authedRequest(r)
		r = withHabitID(r, habitID)
		serv.DeleteHabit(rr, r)
		assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
	}
}

func TestCompleteHabit(t *testing.T) {
	ctrl := gomock.NewController(t)
	cService := mocks.NewMockCompletionsServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		CompletionsService: cService,
	})
	habitID := uuid.New()
	completed := &entity.Habit{
		ID:               habitID,
		UserID:           userID,
		Title:            "test_habit",
		Category:         entity.CategoryFitness,
		Frequency:        entity.FrequencyDaily,
		TimeOfDay:        entity.TimeOfDayAnytime,
		CurrentStreak:    7,
		LongestStreak:    7,
		TotalCompletions: 7,
		Active:           true,
	}
	testCases := []struct {
		ExpectedCode      int
		MockPrepFunc      func()
		ExpectedNewBadges int
	}{
		{
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				cService.EXPECT().CompleteHabit(gomock.Any(), habitID, userID, gomock.Any()).Return(&service.CompletionResult{
					Habit: completed,
					NewBadges: []entity.Badge{{
						Name:        "Week Warrior",
						Description: "Maintained a 7-day streak!",
						Icon:        "🔥",
						DateEarned:  time.Now(),
					}},
				}, nil)
			},
			ExpectedNewBadges: 1,
		},
		{
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				cService.EXPECT().CompleteHabit(gomock.Any(), habitID, userID, gomock.Any()).Return(&service.CompletionResult{
					Habit:     completed,
					NewBadges: []entity.Badge{},
				}, nil)
			},
			ExpectedNewBadges: 0,
		},
		{
			ExpectedCode: http.StatusNotFound,
			MockPrepFunc: func() {
				cService.EXPECT().CompleteHabit(gomock.Any(), habitID, userID, gomock.Any()).Return(nil, errorvalues.ErrHabitNotFound)
			},
		},
		{
			ExpectedCode: http.StatusConflict,
			MockPrepFunc: func() {
				cService.EXPECT().CompleteHabit(gomock.Any(), habitID, userID, gomock.Any()).Return(nil, errorvalues.ErrHabitArchived)
			},
		},
		{
			ExpectedCode: http.StatusInternalServerError,
			MockPrepFunc: func() {
				cService.EXPECT().CompleteHabit(gomock.Any(), habitID, userID, gomock.Any()).Return(nil, errors.New("service error"))
			},
		},
	}
	for _, tc := range testCases {
		tc.MockPrepFunc()
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/habits/"+habitID.String()+"/complete", nil)
		r = authedRequest(r)
		r = withHabitID(r, habitID)
		serv.CompleteHabit(rr, r)
		assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		if rr.Result().StatusCode == http.StatusOK {
			var resp service.CompletionResult
			err := sonic.ConfigDefault.NewDecoder(rr.Body).Decode(&resp)
			require.NoError(t, err)
			assert.Equal(t, tc.ExpectedNewBadges, len(resp.NewBadges))
		}
	}
}

func TestGetStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	sService := mocks.NewMockStatsServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		StatsService: sService,
	})
	testCases := []struct {
		ExpectedCode int
		MockPrepFunc func()
	}{
		{
			ExpectedCode: http.StatusOK,
			MockPrepFunc: func() {
				sService.EXPECT().GetStats(gomock.Any(), userID, gomock.Any()).Return(&entity.StatsReport{
					Habits:     []entity.HabitStats{},
					Categories: map[entity.Category]entity.CategoryStats{},
				}, nil)
			},
		},
		{
			ExpectedCode: http.StatusNotFound,
			MockPrepFunc: func() {
				sService.EXPECT().GetStats(gomock.Any(), userID, gomock.Any()).Return(nil, errorvalues.ErrNoHabits)
			},
		},
		{
			ExpectedCode: http.StatusInternalServerError,
			MockPrepFunc: func() {
				sService.EXPECT().GetStats(gomock.Any(), userID, gomock.Any()).Return(nil, errors.New("service error"))
			},
		},
	}
	for _, tc := range testCases {
		tc.MockPrepFunc()
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/habits/stats", nil)
		r = authedRequest(r)
		serv.GetStats(rr, r)
		assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
	}
}

func TestGetMonthlyReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	sService := mocks.NewMockStatsServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		StatsService: sService,
	})
	testCases := []struct {
		Desc         string
		ExpectedCode int
		Query        string
		MockPrepFunc func()
	}{
		{
			Desc:         "explicit period",
			ExpectedCode: http.StatusOK,
			Query:        "year=2025&month=2",
			MockPrepFunc: func() {
				sService.EXPECT().GetMonthlyReport(gomock.Any(), userID, 2025, 2).Return(&entity.MonthlyReport{
					Period: "2025-02",
					Habits: []entity.HabitMonthly{},
				}, nil)
			},
		},
		{
			Desc:         "invalid month",
			ExpectedCode: http.StatusBadRequest,
			Query:        "year=2025&month=13",
			MockPrepFunc: func() {
				sService.EXPECT().GetMonthlyReport(gomock.Any(), userID, 2025, 13).Return(nil, errorvalues.ErrInvalidReportPeriod)
			},
		},
		{
			Desc:         "no habits",
			ExpectedCode: http.StatusNotFound,
			Query:        "year=2025&month=2",
			MockPrepFunc: func() {
				sService.EXPECT().GetMonthlyReport(gomock.Any(), userID, 2025, 2).Return(nil, errorvalues.ErrNoHabits)
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			rr := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/v1/habits/report/monthly?"+tc.Query, nil)
			r = authedRequest(r)
			serv.GetMonthlyReport(rr, r)
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		})
	}
}

func TestCheckReminders(t *testing.T) {
	ctrl := gomock.NewController(t)
	rService := mocks.NewMockReminderServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		ReminderService: rService,
	})
	t.Run("sent", func(t *testing.T) {
		rService.EXPECT().SendReminders(gomock.Any(), userID, gomock.Any()).Return(3, nil)
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/habits/check-reminders", nil)
		r = authedRequest(r)
		serv.CheckReminders(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]any)
		err := sonic.ConfigDefault.NewDecoder(rr.Body).Decode(&result)
		require.NoError(t, err)
		assert.Equal(t, float64(3), result["sent"])
	})
	t.Run("service error", func(t *testing.T) {
		rService.EXPECT().SendReminders(gomock.Any(), userID, gomock.Any()).Return(0, errors.New("service error"))
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/habits/check-reminders", nil)
		r = authedRequest(r)
		serv.CheckReminders(rr, r)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestDashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	uService := mocks.NewMockUserServiceI(ctrl)
	sService := mocks.NewMockStatsServiceI(ctrl)
	serv := api.New(&api.ServicesList{
		UserService:  uService,
		StatsService: sService,
	})
	t.Run("ok", func(t *testing.T) {
		uService.EXPECT().GetByID(gomock.Any(), userID).Return(&entity.User{
			ID:    userID,
			Name:  username,
			Email: email,
		}, nil)
		sService.EXPECT().GetSummary(gomock.Any(), userID, gomock.Any()).Return(&entity.HabitSummary{
			TotalHabits:   2,
			LongestStreak: 9,
		}, nil)
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/me", nil)
		r = authedRequest(r)
		serv.Dashboard(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("unexist user", func(t *testing.T) {
		uService.EXPECT().GetByID(gomock.Any(), userID).Return(nil, errorvalues.ErrUserNotFound)
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/me", nil)
		r = authedRequest(r)
		serv.Dashboard(rr, r)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("achievements", func(t *testing.T) {
		sService.EXPECT().GetRecentAchievements(gomock.Any(), userID).Return([]entity.Achievement{
			{
				HabitID:    uuid.New(),
				HabitTitle: "test_habit",
				Badge: entity.Badge{
					Name:       "Week Warrior",
					Icon:       "🔥",
					DateEarned: time.Now(),
				},
			},
		}, nil)
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/achievements", nil)
		r = authedRequest(r)
		serv.Achievements(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
}

func testHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := api.GetUIDFromContext(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"uid": "` + uid.String() + `"}`))
}

func TestAuthMiddleware(t *testing.T) {
	secret := "secret"
	cfg := setupUsersTestDB(t)
	repo := repository.NewUsersRepo(cfg)
	userService := service.NewUserService(repo, mailer.Noop{})
	serv := api.New(&api.ServicesList{
		UserService: userService,
		JwtService:  jwtservice.New(secret),
	})
	handler := serv.AuthMiddleware(http.HandlerFunc(testHandler))
	body, err := sonic.ConfigDefault.Marshal(api.RegisterRequest{
		Name:     username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Run("creating user", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		serv.Register(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("verifying email", func(t *testing.T) {
		user, err := repo.FindByEmail(context.Background(), email)
		require.NoError(t, err)
		verifyBody, err := sonic.ConfigDefault.Marshal(api.VerifyEmailRequest{
			Email: email,
			Code:  user.VerificationOTP,
		})
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/verify-email", bytes.NewReader(verifyBody))
		serv.VerifyEmail(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	var token string
	var ok bool
	t.Run("logging in and getting token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		serv.Login(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]any)
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result)
		if err != nil {
			t.Fatal(err)
		}
		token, ok = result["token"].(string)
		if !ok || token == "" {
			t.Error("invalid token")
		}
	})
	t.Run("successful auth", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
}

type testPGConfig struct {
	connStr string
}

func (cfg *testPGConfig) ConnString() string {
	return cfg.connStr
}

func setupUsersTestDB(t *testing.T) *testPGConfig {
	container, err := postgres.Run(context.Background(), "postgres:17",
		postgres.WithUsername("test_user"),
		postgres.WithDatabase("momentum"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatal("error running test container: " + err.Error())
	}
	connStr, err := container.ConnectionString(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	connStr += "sslmode=disable"
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatal(err)
	}
	err = goose.Up(conn, "../../migrations")
	if err != nil {
		t.Fatal(err)
	}

	conn.Close()
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})
	return &testPGConfig{
		connStr: connStr,
	}
}
