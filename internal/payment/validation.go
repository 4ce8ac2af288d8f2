package payment

import (
	"errors"
	"math"

	"github.com/go-playground/validator/v10"

	"paymentmcp/internal/pkg/utils"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// GSM numbers are digits only: no sign, spaces or separators.
	_ = validate.RegisterValidation("gsm", func(fl validator.FieldLevel) bool {
		return utils.IsDigits(fl.Field().String())
	})
	_ = validate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsInf(f, 0) && !math.IsNaN(f)
	})
}

// ValidateRequest checks the request fields and returns the first failure.
// Fields are checked in declaration order of PaymentRequest.
func ValidateRequest(req PaymentRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return NewValidationError("Invalid payment request: " + err.Error())
	}
	return NewValidationError(validationMessage(verrs[0]))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gt":
		return "Payment amount must be greater than 0"
	case "finite":
		return "Payment amount must be a finite number"
	case "contains":
		return "Invalid email format"
	case "gsm":
		return "GSM number must contain only digits"
	}
	return fe.Field() + " failed " + fe.Tag()
}
