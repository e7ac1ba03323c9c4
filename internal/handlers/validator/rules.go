package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// employee codes are short upper-case alphanumerics issued by HR
var employeeCodeRegex = regexp.MustCompile(`^[A-Z0-9]{2,12}$`)

func employeeCodeValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	if val == "" {
		return true
	}
	return employeeCodeRegex.MatchString(val)
}

func NewAssignValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: func(v *validator.Validate) {
				_ = v.RegisterValidation("employee_code", employeeCodeValidator)
			},
		},
	}
}
