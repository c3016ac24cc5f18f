package services

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

type registration struct {
	Username string `validate:"notblank,max=64"`
	Email    string `validate:"required,email,max=120"`
	Password string `validate:"required"`
}
