package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

var cepPattern = regexp.MustCompile(`^\d{5}-?\d{3}$`)

func init() {
	// Non-nil UUID fields
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})

	// Brazilian postal code, with or without the dash (01310-100 / 01310100)
	validate.RegisterValidation("cep", func(fl validator.FieldLevel) bool {
		return cepPattern.MatchString(fl.Field().String())
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}
