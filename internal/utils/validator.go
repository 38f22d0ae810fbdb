// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/agrihedge/agrihedge-backend/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("commodity_type", validateCommodityType)
	validate.RegisterValidation("unit", validateUnit)
	validate.RegisterValidation("indian_phone", validateIndianPhone)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateCommodityType(fl validator.FieldLevel) bool {
	return models.CommodityType(fl.Field().String()).IsValid()
}

func validateUnit(fl validator.FieldLevel) bool {
	return models.Unit(fl.Field().String()).IsValid()
}

func validateIndianPhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	if phone == "" {
		return true
	}
	matched, _ := regexp.MatchString(`^\+?[0-9]{10,13}$`, phone)
	return matched
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "commodity_type":
		return "Unknown commodity type"
	case "unit":
		return "Unit must be kg or tonne"
	case "indian_phone":
		return "Phone number must be 10-13 digits"
	default:
		return e.Field() + " is invalid"
	}
}
