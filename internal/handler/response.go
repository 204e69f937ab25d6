package handler

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	apperrors "truetimer/backend/internal/errors"
)

// writeError renders the APIError itself as the body, so message sits at the
// top level next to code and details.
func writeError(c *gin.Context, apiErr *apperrors.APIError) {
	if apiErr == nil {
		apiErr = apperrors.Internal("")
	}
	c.JSON(apiErr.Status, apiErr)
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// bindError classifies a binding failure: well-formed JSON with missing,
// mistyped or out-of-range fields is 422, anything unparsable is 400.
func bindError(err error) *apperrors.APIError {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := lo.Map(validationErrs, func(fe validator.FieldError, _ int) fieldError {
			return fieldError{
				Field: strings.ToLower(fe.Field()),
				Rule:  fe.Tag(),
				Param: fe.Param(),
			}
		})
		return apperrors.Unprocessable("invalid request body", details)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.Unprocessable("invalid request body", []fieldError{{
			Field: typeErr.Field,
			Rule:  "type",
			Param: typeErr.Type.String(),
		}})
	}

	return apperrors.BadRequest("invalid_json", "invalid request body")
}
