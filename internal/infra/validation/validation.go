package validation

import (
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// New returns a validator with the custom rules used across the services.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("strongpwd", strongPassword)
	return v
}

// strongPassword requires at least 8 runes, one upper-case letter and one
// digit.
func strongPassword(fl validator.FieldLevel) bool {
	pwd := fl.Field().String()
	if utf8.RuneCountInString(pwd) < 8 {
		return false
	}
	var hasUpper, hasDigit bool
	for _, r := range pwd {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}
	return hasUpper && hasDigit
}
