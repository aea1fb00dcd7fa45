package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// FieldError is one entry of a 422 response body: where, what and which kind.
type FieldError struct {
	Loc  []interface{} `json:"loc"`
	Msg  string        `json:"msg"`
	Type string        `json:"type"`
}

// RequestError reports that a request did not have the expected shape.
type RequestError struct {
	Fields []FieldError
}

func (e *RequestError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("request validation failed: %s", e.Fields[0].Msg)
	}
	return fmt.Sprintf("request validation failed: %d errors", len(e.Fields))
}

// FromBindError converts a JSON decoding error into a RequestError.
func FromBindError(err error) *RequestError {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		ve        validatorv10.ValidationErrors
	)
	switch {
	case errors.Is(err, io.EOF):
		return &RequestError{Fields: []FieldError{{Loc: []interface{}{"body"}, Msg: "Field required", Type: "missing"}}}
	case errors.Is(err, io.ErrUnexpectedEOF):
		return &RequestError{Fields: []FieldError{{Loc: []interface{}{"body"}, Msg: "JSON decode error", Type: "json_invalid"}}}
	case errors.Is(err, ErrTrailingData):
		return &RequestError{Fields: []FieldError{{Loc: []interface{}{"body"}, Msg: "JSON decode error: " + err.Error(), Type: "json_invalid"}}}
	case errors.As(err, &syntaxErr):
		return &RequestError{Fields: []FieldError{{Loc: []interface{}{"body", syntaxErr.Offset}, Msg: "JSON decode error", Type: "json_invalid"}}}
	case errors.As(err, &typeErr):
		loc := []interface{}{"body"}
		if typeErr.Field != "" {
			for _, part := range strings.Split(typeErr.Field, ".") {
				loc = append(loc, part)
			}
		}
		kind := typeErr.Type.Kind().String()
		return &RequestError{Fields: []FieldError{{Loc: loc, Msg: "Input should be a valid " + kind, Type: kind + "_type"}}}
	case errors.As(err, &ve):
		return FromValidationErrors(ve)
	default:
		return &RequestError{Fields: []FieldError{{Loc: []interface{}{"body"}, Msg: err.Error(), Type: "value_error"}}}
	}
}

// FromValidationErrors converts validator output into a RequestError.
func FromValidationErrors(ve validatorv10.ValidationErrors) *RequestError {
	out := &RequestError{Fields: make([]FieldError, 0, len(ve))}
	for _, fe := range ve {
		out.Fields = append(out.Fields, FieldError{
			Loc:  location(fe.Namespace()),
			Msg:  message(fe),
			Type: errorType(fe.Tag()),
		})
	}
	return out
}

// location turns "Receipt.items[0].price" into ["body", "items", 0, "price"].
func location(namespace string) []interface{} {
	loc := []interface{}{"body"}
	parts := strings.Split(namespace, ".")
	if len(parts) > 0 {
		parts = parts[1:] // root struct name
	}
	for _, part := range parts {
		name, rest, found := strings.Cut(part, "[")
		loc = append(loc, name)
		if !found {
			continue
		}
		idx := strings.TrimSuffix(rest, "]")
		if n, err := strconv.Atoi(idx); err == nil {
			loc = append(loc, n)
		} else {
			loc = append(loc, idx)
		}
	}
	return loc
}

func message(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field required"
	case "min":
		return fmt.Sprintf("List should have at least %s item after validation", fe.Param())
	case "datetime":
		return fmt.Sprintf("Input should match the layout '%s'", fe.Param())
	}
	if re, ok := patterns[fe.Tag()]; ok {
		return fmt.Sprintf("String should match pattern '%s'", re.String())
	}
	return fe.Error()
}

func errorType(tag string) string {
	switch tag {
	case "required":
		return "missing"
	case "min":
		return "too_short"
	case "datetime":
		return "value_error"
	}
	if _, ok := patterns[tag]; ok {
		return "string_pattern_mismatch"
	}
	return tag
}
