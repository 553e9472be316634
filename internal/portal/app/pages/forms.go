package pages

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ClassForm - поля формы занятия.
type ClassForm struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Price       string `json:"price" validate:"required,price"`
}

// LoginRequest - вход по логину и паролю.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RoleRequest - выбор роли перед OAuth входом.
type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user creator"`
}

var fieldMessages = map[string]string{
	"required": "The field '%s' is required.",
	"price":    "The field '%s' must be a non-negative number.",
	"oneof":    "The field '%s' must be one of %s.",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := registerRules(v, customRules); err != nil {
		panic(fmt.Sprintf("pages: register validation rules: %v", err))
	}
	return v
}

var customRules = map[string]validator.Func{
	"price": func(fl validator.FieldLevel) bool {
		value, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
		return err == nil && value >= 0
	},
}

func registerRules(v *validator.Validate, rules map[string]validator.Func) error {
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("%s: %w", tag, err)
		}
	}
	return nil
}

// FieldErrors - ошибки полей формы по json именам.
type FieldErrors map[string]string

// check валидирует форму. Возвращает первую ошибку как сообщение и все ошибки по полям.
func (s *Service) check(form any) (string, FieldErrors) {
	err := s.validate.Struct(form)
	if err == nil {
		return "", nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error(), nil
	}

	fields := make(FieldErrors, len(verrs))
	first := ""
	for _, fe := range verrs {
		msg := fieldMessage(fe)
		fields[fe.Field()] = msg
		if first == "" {
			first = msg
		}
	}
	return first, fields
}

func fieldMessage(fe validator.FieldError) string {
	msg, ok := fieldMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("Field '%s' is invalid: %s", fe.Field(), fe.Tag())
	}
	if strings.Count(msg, "%s") == 2 {
		return fmt.Sprintf(msg, fe.Field(), fe.Param())
	}
	return fmt.Sprintf(msg, fe.Field())
}
