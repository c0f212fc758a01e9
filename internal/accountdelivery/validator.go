package accountdelivery

import (
	"github.com/go-playground/validator/v10"

	"github.com/go-demi/demi-bank/pkg/randompkg"
)

// ValidAccountNumber validates an account number field: exactly ten digits.
var ValidAccountNumber validator.Func = func(fl validator.FieldLevel) bool {
	n, ok := fl.Field().Interface().(string)
	if !ok || len(n) != randompkg.AccountNumberLength {
		return false
	}

	for _, r := range n {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
