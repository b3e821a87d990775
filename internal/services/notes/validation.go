package notes

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ErrRegisterColorRule is returned when the notecolor tag cannot be registered.
var ErrRegisterColorRule = errors.New("failed to register notecolor validation")

// colorRule accepts palette names, palette hex values and the empty string.
func colorRule(fl validator.FieldLevel) bool {
	_, ok := ParseColor(fl.Field().String())
	return ok
}

// RegisterColorValidator registers the "notecolor" validation tag with the validator
func RegisterColorValidator(v *validator.Validate) error {
	if err := v.RegisterValidation("notecolor", colorRule); err != nil {
		return ErrRegisterColorRule
	}
	return nil
}
