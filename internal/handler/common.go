package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aurora-digital/identity/internal/constants"
	apperrors "github.com/aurora-digital/identity/internal/errors"
	"github.com/aurora-digital/identity/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError maps a service error to its HTTP representation. Domain
// errors carry their own status and code; anything else becomes an
// opaque 500 and is logged with its cause.
func respondError(c *gin.Context, err error) {
	domainErr := apperrors.GetDomainError(err)
	if domainErr == nil {
		logger.ErrorWithContext(c.Request.Context(), "Unhandled error").Err(err).Log()
		c.JSON(http.StatusInternalServerError,
			constants.BuildErrorResponse(apperrors.ErrInternal.Code, apperrors.ErrInternal.Message, nil))
		return
	}

	if domainErr.Code == apperrors.ErrInternal.Code {
		logger.ErrorWithContext(c.Request.Context(), "Internal error").Err(err).Log()
	}

	c.JSON(apperrors.ToHTTPStatus(domainErr),
		constants.BuildErrorResponse(domainErr.Code, domainErr.Message, nil))
}

// respondBindingError turns request binding failures into a 400 with
// per-field details when the validator produced them.
func respondBindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make(map[string]string, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details[strings.ToLower(fieldErr.Field())] = validationMessage(fieldErr)
		}
		c.JSON(http.StatusBadRequest,
			constants.BuildErrorResponse(apperrors.ErrInvalidInput.Code, apperrors.ErrInvalidInput.Message, details))
		return
	}

	c.JSON(http.StatusBadRequest,
		constants.BuildErrorResponse(apperrors.ErrInvalidInput.Code, apperrors.ErrInvalidInput.Message, nil))
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "too short (minimum " + fieldErr.Param() + ")"
	case "max":
		return "too long (maximum " + fieldErr.Param() + ")"
	case "strongpassword":
		return apperrors.ErrWeakPassword.Message
	case "oneof":
		return "must be one of: " + fieldErr.Param()
	case "alphanum":
		return "only letters and digits allowed"
	case "url":
		return "must be a valid URL"
	default:
		return "invalid value"
	}
}
