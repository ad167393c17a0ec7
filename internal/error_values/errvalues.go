package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong email or password")
	ErrUserNotVerified  = errors.New("user email is not verified")
	ErrInvalidOTP       = errors.New("invalid or expired one-time code")
	ErrInvalidToken     = errors.New("invalid token")
	ErrValidation       = errors.New("validation failed")

	ErrHabitNotFound = errors.New("habit doesn't exist")
	ErrOwnerNotFound = errors.New("habit owner doesn't exist")
	ErrUserHasHabit  = errors.New("user already has habit with such title")
	ErrWrongOwner    = errors.New("habit belongs to another user")
	ErrHabitArchived = errors.New("habit is archived")

	ErrCompletionInFuture  = errors.New("completion date is in the future")
	ErrNoHabits            = errors.New("no active habits to aggregate")
	ErrInvalidReportPeriod = errors.New("invalid report month or year")
)
