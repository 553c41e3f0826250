// Package httpjson junta los helpers de request/response JSON que antes
// estaban duplicados por handler (writeJSON en pets/events).
package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidJSON = errors.New("invalid json")
)

// ValidationError lleva un mensaje legible para el cliente.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type errorBody struct {
	Detail string `json:"detail"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Reportar errores con el nombre del campo JSON, no el del struct.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error escribe {"detail": msg}. No exponemos códigos de error máquina.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, errorBody{Detail: msg})
}

// Decode parsea el body y aplica los tags `validate`.
// Devuelve ErrInvalidJSON o *ValidationError.
func Decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return ErrInvalidJSON
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrInvalidJSON
		}
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return Validate(dst)
}

func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return &ValidationError{Message: strings.Join(msgs, "; ")}
}

// DecodeError traduce un error de Decode a 400.
func DecodeError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		Error(w, http.StatusBadRequest, ve.Message)
		return
	}
	Error(w, http.StatusBadRequest, "invalid json")
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}
