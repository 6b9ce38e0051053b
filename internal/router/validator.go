package router

import (
	"github.com/aurora-digital/identity/internal/service"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs custom binding rules on Gin's validator.
// Safe to call more than once.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return service.ValidatePassword(fl.Field().String()) == nil
	})
}
