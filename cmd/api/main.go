// @title Habit-tracker API
// @description API for habit-tracker app "Momentum"
// @BasePath /api/v1
// @schemes http
package main

import (
	"log"
	"strconv"

	"github.com/limbo/momentum/internal/api"
	"github.com/limbo/momentum/internal/repository"
	"github.com/limbo/momentum/internal/service"
	"github.com/limbo/momentum/pkg/cleanup"
	"github.com/limbo/momentum/pkg/config"
	jwtservice "github.com/limbo/momentum/pkg/jwt_service"
	"github.com/limbo/momentum/pkg/mailer"
)

func init() {
	service.InitValidator()
}

func newMailer(cfg *config.Config) mailer.MailerI {
	host := cfg.GetString("SMTP_HOST")
	if host == "" {
		log.Println("SMTP_HOST is not set, outbound mail is disabled")
		return mailer.Noop{}
	}
	port, err := strconv.Atoi(cfg.GetStringOrDefault("SMTP_PORT", "465"))
	if err != nil {
		log.Fatal("invalid SMTP_PORT: " + err.Error())
	}
	m, err := mailer.New(&mailer.SMTPConfig{
		Host:     host,
		Port:     port,
		Username: cfg.GetString("SMTP_USERNAME"),
		Password: cfg.GetString("SMTP_PASSWORD"),
		From:     cfg.GetString("SMTP_FROM"),
	})
	if err != nil {
		log.Fatal("creating mailer error: " + err.Error())
	}
	return m
}

func main() {
	defer cleanup.CleanUp()
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	usersRepo := repository.NewUsersRepo(&dbCfg)
	habitsRepo := repository.NewHabitsRepo(&dbCfg)
	completionsRepo := repository.NewCompletionsRepo(&dbCfg)
	badgesRepo := repository.NewBadgesRepo(&dbCfg)
	m := newMailer(cfg)
	serv := api.New(&api.ServicesList{
		UserService:        service.NewUserService(usersRepo, m),
		HabitsService:      service.NewHabitsService(habitsRepo, completionsRepo, badgesRepo),
		CompletionsService: service.NewCompletionsService(habitsRepo, completionsRepo, badgesRepo),
		StatsService:       service.NewStatsService(habitsRepo, completionsRepo, badgesRepo),
		ReminderService:    service.NewReminderService(usersRepo, habitsRepo, m),
		JwtService:         jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	err := serv.Run(cfg.GetString("API_ADDRESS"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
