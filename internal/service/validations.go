package service

import (
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("printable_text", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			for i, char := range value {
				// No control characters anywhere
				if unicode.IsControl(char) {
					return false
				}
				// Cannot start or end with whitespace
				if (i == 0 || i == len(value)-len(string(char))) && unicode.IsSpace(char) {
					return false
				}
			}
			return true
		})
	})
}
