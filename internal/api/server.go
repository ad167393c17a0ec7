package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/limbo/momentum/internal/service"
)

type Server struct {
	mx                 *chi.Mux
	userService        service.UserServiceI
	habitsService      service.HabitsServiceI
	completionsService service.CompletionsServiceI
	statsService       service.StatsServiceI
	reminderService    service.ReminderServiceI
	jwtService         JWTServiceI
}

type ServicesList struct {
	UserService        service.UserServiceI
	HabitsService      service.HabitsServiceI
	CompletionsService service.CompletionsServiceI
	StatsService       service.StatsServiceI
	ReminderService    service.ReminderServiceI
	JwtService         JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:                 chi.NewMux(),
		userService:        servicesOptions.UserService,
		habitsService:      servicesOptions.HabitsService,
		completionsService: servicesOptions.CompletionsService,
		statsService:       servicesOptions.StatsService,
		reminderService:    servicesOptions.ReminderService,
		jwtService:         servicesOptions.JwtService,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.Register)
			r.Post("/verify-email", s.VerifyEmail)
			r.Post("/login", s.Login)
			r.Post("/forgot-password", s.ForgotPassword)
			r.Post("/verify-otp", s.VerifyResetOTP)
			r.Post("/reset-password", s.ResetPassword)
			r.Group(func(r chi.Router) {
				r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
				r.Get("/profile", s.GetProfile)
				r.Put("/profile", s.UpdateProfile)
				r.Delete("/account", s.DeleteAccount)
			})
		})
		r.Route("/habits", func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Post("/", s.CreateHabit)
			r.Get("/", s.GetHabits)
			r.Get("/stats", s.GetStats)
			r.Get("/report/monthly", s.GetMonthlyReport)
			r.Post("/check-reminders", s.CheckReminders)
			r.Get("/{id}", s.GetHabit)
			r.Put("/{id}", s.UpdateHabit)
			r.Delete("/{id}", s.DeleteHabit)
			r.Post("/{id}/complete", s.CompleteHabit)
		})
		r.Route("/dashboard", func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Get("/me", s.Dashboard)
			r.Get("/achievements", s.Achievements)
		})
	})
}

func (s *Server) Run(address string) error {
	return http.ListenAndServe(address, s.mx)
}

// Handler exposes the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mx
}
