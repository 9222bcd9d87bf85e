package config

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

func NewValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if len(value) != 10 {
			return false
		}
		for _, r := range value {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})

	_ = v.RegisterValidation("digits5", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if len(value) != 5 {
			return false
		}
		for _, r := range value {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})

	_ = v.RegisterValidation("adminsecret", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if len(value) < 8 {
			return false
		}
		var hasUpper, hasSymbol bool
		for _, r := range value {
			switch {
			case unicode.IsUpper(r):
				hasUpper = true
			case unicode.IsPunct(r) || unicode.IsSymbol(r):
				hasSymbol = true
			}
		}
		return hasUpper && hasSymbol
	})

	return v
}
