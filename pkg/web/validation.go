package web

import "github.com/go-playground/validator/v10"

// GetErrorMsg maps a failed validation tag to a user readable message.
// The caller prepends the field name.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " is required"
	case "email":
		return " must be a valid email address"
	case "alphanum":
		return " must contain only letters and numbers"
	case "min":
		return " must be at least " + fe.Param() + " characters long"
	case "max":
		return " must be at most " + fe.Param() + " characters long"
	case "accnumber":
		return " must be a valid 10-digit account number"
	case "oneof":
		return " must be one of: " + fe.Param()
	}

	return " is invalid"
}
