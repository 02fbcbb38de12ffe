package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/parcops/parc_backend/models"
)

// RegisterBindingValidations adds the closed-enum checks to gin's binding
// engine. Call once from main before serving.
func RegisterBindingValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("resourcekind", func(fl validator.FieldLevel) bool {
		return models.ResourceKind(fl.Field().String()).IsValid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("movementaction", func(fl validator.FieldLevel) bool {
		return models.MovementAction(fl.Field().String()).IsValid()
	})
}
