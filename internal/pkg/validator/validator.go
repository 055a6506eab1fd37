package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(fieldName)
}

// Errors maps a request field to its human readable messages.
type Errors map[string][]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Merge copies the messages of other into e.
func (e Errors) Merge(other Errors) {
	for f, msgs := range other {
		e[f] = append(e[f], msgs...)
	}
}

// OrNil returns nil when no message was recorded so callers can return it as an error.
func (e Errors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Single builds an Errors value holding one message.
func Single(field, message string) Errors {
	return Errors{field: {message}}
}

// Messages overrides the generated text for a rule, keyed "field.tag".
// Slice indices are written as "*", e.g. "features.*.name.required".
type Messages map[string]string

// Validate checks struct tags and returns nil when v is valid.
func Validate(v interface{}) Errors {
	return ValidateWith(v, nil)
}

// ValidateWith is Validate with per-rule message overrides.
func ValidateWith(v interface{}, msgs Messages) Errors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	return translate(err, msgs)
}

// FromBindError converts an error produced by gin binding into field messages.
func FromBindError(err error) Errors {
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return translate(ve, nil)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field := typeErr.Field
		return Single(field, fmt.Sprintf("The %s must be a valid %s.", label(field), typeErr.Type.Kind()))
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return Single("query", fmt.Sprintf("The value %q is not a valid number.", numErr.Num))
	}

	return Single("body", "The request body is malformed.")
}

func translate(err error, msgs Messages) Errors {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return Single("body", err.Error())
	}

	out := make(Errors, len(ve))
	for _, fe := range ve {
		field := fieldPath(fe)
		if m, ok := msgs[ruleKey(field, fe.Tag())]; ok {
			out.Add(field, m)
			continue
		}
		out.Add(field, message(fe, field))
	}
	return out
}

func ruleKey(field, tag string) string {
	parts := strings.Split(field, ".")
	for i, p := range parts {
		if _, err := strconv.Atoi(p); err == nil {
			parts[i] = "*"
		}
	}
	return strings.Join(parts, ".") + "." + tag
}

// fieldPath turns "CreateApartmentRequest.features[0].name" into "features.0.name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	ns = strings.ReplaceAll(ns, "[", ".")
	ns = strings.ReplaceAll(ns, "]", "")
	return ns
}

func label(field string) string {
	if i := strings.LastIndex(field, "."); i >= 0 {
		field = field[i+1:]
	}
	return strings.ReplaceAll(field, "_", " ")
}

func message(fe validator.FieldError, field string) string {
	name := label(field)
	switch fe.Tag() {
	case "required", "required_with", "required_without":
		return fmt.Sprintf("The %s field is required.", name)
	case "min", "gte":
		if isLengthKind(fe.Kind()) {
			return fmt.Sprintf("The %s must have at least %s items.", name, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", name, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s may not be greater than %s characters.", name, fe.Param())
		}
		if isLengthKind(fe.Kind()) {
			return fmt.Sprintf("The %s may not have more than %s items.", name, fe.Param())
		}
		return fmt.Sprintf("The %s may not be greater than %s.", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", name)
	case "url", "http_url":
		return fmt.Sprintf("The %s format is invalid.", name)
	case "dive":
		return fmt.Sprintf("The %s contains an invalid value.", name)
	}
	return fmt.Sprintf("The %s is invalid.", name)
}

func isLengthKind(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array || k == reflect.Map
}

func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}
