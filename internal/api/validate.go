package api

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError describes one rejected request attribute.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type validationErrorResponse struct {
	Error   string            `json:"error"`
	Details []ValidationError `json:"details"`
}

// validateRequest checks obj against its validate tags.
func validateRequest(obj any) []ValidationError {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Message: err.Error(), Type: "invalid"}}
	}

	details := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, ValidationError{
			Field:   fieldPath(fe),
			Message: errorMessage(fe),
			Type:    fe.Tag(),
		})
	}
	return details
}

// fieldPath drops the request type name from the namespace. Embedded
// metadata fields are reported at the top level.
func fieldPath(fe validator.FieldError) string {
	_, path, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		return fe.Field()
	}
	return strings.TrimPrefix(path, "passMetadata.")
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "rgb":
		return "Must be a CSS color such as rgb(255, 255, 255)"
	case "iso4217":
		return "Must be an ISO 4217 currency code"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "max":
		return "Value is too long"
	case "latitude", "longitude":
		return "Invalid coordinate"
	default:
		return "Invalid value"
	}
}

// decodeValid decodes and validates a request body, writing a 400 response
// and returning false when either fails.
func decodeValid(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := decodeJSON(r, target); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if details := validateRequest(target); details != nil {
		jsonResponse(w, http.StatusBadRequest, validationErrorResponse{
			Error:   "invalid request data",
			Details: details,
		})
		return false
	}
	return true
}
