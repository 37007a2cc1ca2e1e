// Package validation decodes request bodies strictly and checks them against
// struct rules before any handler logic runs.
package validation

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

// bcryptMaxBytes is the longest input bcrypt accepts.
const bcryptMaxBytes = 72

type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error is returned for any body that cannot be accepted as-is.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		if f.Path == "" {
			parts[i] = f.Message
			continue
		}
		parts[i] = f.Path + ": " + f.Message
	}
	return "invalid request body: " + strings.Join(parts, "; ")
}

// Normalizer is implemented by request types that trim or canonicalize their
// fields. It runs before the struct rules are checked.
type Normalizer interface {
	Normalize()
}

// FieldsValidator is implemented by request types with rules that struct
// tags cannot express. It runs after the tag rules pass.
type FieldsValidator interface {
	ValidateFields() []FieldError
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names, not Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= bcryptMaxBytes
	})

	return &Validator{v: v}
}

// DecodeJSON reads exactly one JSON object from r into dst, rejecting unknown
// fields, then normalizes and validates it. Every failure is an *Error,
// except a body cut off by http.MaxBytesReader, which is returned as is.
func (v *Validator) DecodeJSON(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if dec.More() {
		return &Error{Fields: []FieldError{{Message: "Request body must contain a single JSON object"}}}
	}

	return v.Struct(dst)
}

// Struct normalizes and validates an already decoded value.
func (v *Validator) Struct(dst any) error {
	if n, ok := dst.(Normalizer); ok {
		n.Normalize()
	}

	if err := v.v.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate: %w", err)
		}
		fields := make([]FieldError, len(verrs))
		for i, fe := range verrs {
			fields[i] = FieldError{Path: fieldPath(fe), Message: message(fe)}
		}
		return &Error{Fields: fields}
	}

	if fv, ok := dst.(FieldsValidator); ok {
		if fields := fv.ValidateFields(); len(fields) > 0 {
			return &Error{Fields: fields}
		}
	}
	return nil
}

func decodeError(err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		tooLarge  *http.MaxBytesError
	)

	switch {
	case errors.As(err, &tooLarge):
		return err
	case errors.Is(err, io.EOF):
		return &Error{Fields: []FieldError{{Message: "Request body is empty"}}}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &Error{Fields: []FieldError{{Message: "Malformed JSON"}}}
	case errors.As(err, &typeErr):
		return &Error{Fields: []FieldError{{
			Path:    typeErr.Field,
			Message: "Expected " + jsonKind(typeErr.Type),
		}}}
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return &Error{Fields: []FieldError{{Path: field, Message: "Unrecognized key"}}}
	default:
		return &Error{Fields: []FieldError{{Message: "Invalid request body"}}}
	}
}

// fieldPath turns "signUpRequest.photos[0].url" into "photos.0.url".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	ns = strings.ReplaceAll(ns, "[", ".")
	return strings.ReplaceAll(ns, "]", "")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Invalid email address"
	case "url":
		return "Invalid URL"
	case "datetime":
		return "Expected a date formatted as " + fe.Param()
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "bcryptmax":
		return fmt.Sprintf("Must be at most %d bytes", bcryptMaxBytes)
	case "min", "max":
		return boundMessage(fe)
	default:
		return "Invalid value"
	}
}

func boundMessage(fe validator.FieldError) string {
	word := "at least"
	if fe.Tag() == "max" {
		word = "at most"
	}

	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("Must be %s %s characters", word, fe.Param())
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("Must contain %s %s items", word, fe.Param())
	default:
		return fmt.Sprintf("Must be %s %s", word, fe.Param())
	}
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}
