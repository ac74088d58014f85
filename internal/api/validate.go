package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kalambet/skinrec/internal/skin"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		validate.RegisterValidation("skin_type", func(fl validator.FieldLevel) bool {
			_, err := skin.ParseSkinType(fl.Field().String())
			return err == nil
		})
		validate.RegisterValidation("age_range", func(fl validator.FieldLevel) bool {
			_, err := skin.ParseAgeRange(fl.Field().String())
			return err == nil
		})
		validate.RegisterValidation("method", func(fl validator.FieldLevel) bool {
			_, err := skin.ParseMethod(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

var fieldMessages = map[string]string{
	"required":  "%s is required",
	"skin_type": "%s must be one of Normal, Dry, Oily, Unsure",
	"age_range": "%s must be one of 18-25, 25-35, 35-45, 45+",
	"method":    "%s is not a known treatment method",
}

var paramMessages = map[string]string{
	"gte": "%s must be greater than or equal to %s",
	"lte": "%s must be less than or equal to %s",
	"min": "%s must have at least %s",
	"max": "%s must have at most %s",
}

// validateStruct returns nil or an error listing every failed field.
func validateStruct(v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = translateError(fe)
	}
	return errors.New(strings.Join(msgs, "; "))
}

func translateError(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, after, ok := strings.Cut(field, "."); ok {
		field = after
	}
	if tmpl, ok := fieldMessages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	if tmpl, ok := paramMessages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
