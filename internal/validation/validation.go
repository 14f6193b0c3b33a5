// Package validation checks admin and public form submissions. Every rule
// violation is collected, one message per field, so a client can highlight
// all invalid inputs at once.
package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Result is the outcome of validating one form.
type Result struct {
	IsValid     bool              `json:"is_valid"`
	FieldErrors map[string]string `json:"field_errors"`
}

// Err returns nil for a valid result, otherwise an *Error carrying the field map.
func (r Result) Err() error {
	if r.IsValid {
		return nil
	}
	return &Error{Fields: r.FieldErrors}
}

// Error is returned by services when a form fails validation.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("datos inválidos: %s", strings.Join(keys, ", "))
}

// collector accumulates field errors; the first message for a field wins.
type collector map[string]string

func (c collector) add(field, message string) {
	if _, exists := c[field]; !exists {
		c[field] = message
	}
}

func (c collector) has(field string) bool {
	_, ok := c[field]
	return ok
}

func (c collector) result() Result {
	return Result{IsValid: len(c) == 0, FieldErrors: map[string]string(c)}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// engine returns the shared validator with the custom tags registered.
func engine() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		// Report fields by their JSON name so clients can match them to inputs.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return IsValidPhone(fl.Field().String())
		})

		_ = validate.RegisterValidation("plate", func(fl validator.FieldLevel) bool {
			plate := strings.TrimSpace(fl.Field().String())
			if len(plate) < 5 || len(plate) > 10 {
				return false
			}
			for _, r := range plate {
				if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
					return false
				}
			}
			return true
		})
	})
	return validate
}

// checkStruct runs the tag rules of form and records a message for each
// failing field, using overrides before the generic per-tag messages.
func checkStruct(form any, errs collector, overrides map[string]string) {
	err := engine().Struct(form)
	if err == nil {
		return
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.add("form", "Formulario inválido")
		return
	}

	for _, fe := range verrs {
		field := fe.Field()
		if msg, ok := overrides[field+"."+fe.Tag()]; ok {
			errs.add(field, msg)
			continue
		}
		if msg, ok := overrides[field]; ok {
			errs.add(field, msg)
			continue
		}
		errs.add(field, tagMessage(fe))
	}
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo obligatorio"
	case "gt":
		return fmt.Sprintf("Debe ser mayor que %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Debe ser mayor o igual a %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Debe ser menor o igual a %s", fe.Param())
	case "min":
		return fmt.Sprintf("Debe tener al menos %s caracteres", fe.Param())
	case "max":
		return fmt.Sprintf("Debe tener como máximo %s caracteres", fe.Param())
	case "oneof":
		return fmt.Sprintf("Valor inválido, opciones: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return "Correo electrónico inválido"
	case "phone":
		return "Teléfono inválido: debe tener 10 u 11 dígitos"
	case "plate":
		return "Placa inválida"
	default:
		return "Valor inválido"
	}
}

// NormalizePhone strips everything but digits.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidPhone reports whether phone normalizes to 10 or 11 digits.
func IsValidPhone(phone string) bool {
	n := len(NormalizePhone(phone))
	return n == 10 || n == 11
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func runeLen(s string) int {
	return len([]rune(strings.TrimSpace(s)))
}
