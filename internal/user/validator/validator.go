package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("phone", validatePhone); err != nil {
		return
	}
	if err := validate.RegisterValidation("start_time", validateStartTime); err != nil {
		return
	}
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// FormatError turns the first validation failure into a message that names
// the offending field, e.g. "danceType is required".
func FormatError(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", field)
		case "email":
			return fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case "max":
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		case "phone":
			return fmt.Sprintf("%s must be a valid phone number", field)
		case "datetime":
			return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
		case "start_time":
			return fmt.Sprintf("%s must be a time in HH:MM format", field)
		default:
			return fmt.Sprintf("%s is invalid", field)
		}
	}
	return "invalid input"
}

func validatePhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	re := regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{5,19}$`)
	return re.MatchString(phone)
}

func validateStartTime(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	return re.MatchString(fl.Field().String())
}
