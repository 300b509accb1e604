package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

// StructValidator подключает validator/v10 к Bind() в Fiber
type StructValidator struct {
	validate *validator.Validate
}

// NewStructValidator создаёт валидатор, который называет поля по json-тегам
func NewStructValidator() *StructValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &StructValidator{validate: v}
}

// Validate реализует fiber.StructValidator
func (v *StructValidator) Validate(out any) error {
	err := v.validate.Struct(out)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return &models.Error{
		Kind:    models.KindValidation,
		Message: strings.Join(msgs, "; "),
		Cause:   err,
	}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("поле %s обязательно", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("поле %s должно быть не меньше %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("поле %s должно быть не больше %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("поле %s должно быть одним из: %s", fe.Field(), fe.Param())
	case "uuid", "uuid4":
		return fmt.Sprintf("поле %s должно быть UUID", fe.Field())
	case "url":
		return fmt.Sprintf("поле %s должно быть URL", fe.Field())
	default:
		return fmt.Sprintf("поле %s не прошло проверку %s", fe.Field(), fe.Tag())
	}
}
