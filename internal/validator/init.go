package validator

import (
	"ctchen222/Tic-Tac-Toe-Client/internal/game"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	// Initialize validation
	validate = validator.New(validator.WithRequiredStructEnabled())

	if err := validate.RegisterValidation("mark", validateMark); err != nil {
		panic(err)
	}
}

func GetValidator() *validator.Validate {
	return validate
}

// validateMark accepts the two player marks.
func validateMark(fl validator.FieldLevel) bool {
	return game.Mark(fl.Field().String()).IsPlayer()
}
