package server

import (
	"errors"
	"reflect"
	"strings"

	"medifind/internal/service"

	"github.com/go-playground/validator/v10"
)

// requestValidator plugs go-playground/validator into echo and reports field
// errors by their json path, e.g. "items[0].quantity".
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &requestValidator{validate: v}
}

func (v *requestValidator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		path := fe.Namespace()
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest
		}

		reason := fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		fields[path] = reason
	}

	return &service.ValidationError{Message: "Invalid input", Fields: fields}
}
