// Package validation checks form payloads against declarative struct-tag
// rules before anything is sent to the store.
//
// Rules (comma-separated in the `validate` tag):
//
//	tmin=N      trimmed string has at least N characters
//	tmax=N      trimmed string has at most N characters
//	temail      trimmed string is a valid email address
//	required    value is not empty (no trimming, like a select box)
//	min=N       slice has at least N items, or string has N characters
//	eqfield=F   value equals sibling field F
//
// Messages come from the `msg` tag as `rule=message` pairs separated by
// semicolons. Only the first violated rule of each field is reported.
package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"

	"github.com/go-playground/validator/v10"
)

// DefaultMessage is used when a rule has no `msg` entry.
const DefaultMessage = "Campo inválido"

// FieldErrors maps a field path to the message of its first violated rule.
type FieldErrors map[string]string

// Get returns the message for field, if any.
func (e FieldErrors) Get(field string) (string, bool) {
	msg, ok := e[field]
	return msg, ok
}

// Clear removes the error of a single field.
func (e FieldErrors) Clear(field string) {
	delete(e, field)
}

// ClearAll removes every error.
func (e FieldErrors) ClearAll() {
	clear(e)
}

// Result is the outcome of validating one form.
type Result struct {
	Valid  bool        `json:"valid"`
	Errors FieldErrors `json:"errors"`
}

// Err converts a failed result into a domain validation error.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &domain.ErrValidation{Message: "Por favor, corrija os campos assinalados.", Fields: r.Errors}
}

// Validator wraps a configured go-playground validator. It is safe for
// concurrent use.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the trimmed rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	// Registration only fails on empty tags or nil funcs.
	_ = v.RegisterValidation("tmin", trimmedLen(func(n, limit int) bool { return n >= limit }))
	_ = v.RegisterValidation("tmax", trimmedLen(func(n, limit int) bool { return n <= limit }))
	_ = v.RegisterValidation("temail", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		return s != "" && v.Var(s, "email") == nil
	})

	return &Validator{v: v}
}

func trimmedLen(cmp func(n, limit int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		n := utf8.RuneCountInString(strings.TrimSpace(fl.Field().String()))
		return cmp(n, limit)
	}
}

// Validate checks form (a struct or pointer to struct) and never mutates it.
// A passing validation returns an empty error map.
func (v *Validator) Validate(form any) Result {
	res := Result{Valid: true, Errors: FieldErrors{}}

	err := v.v.Struct(form)
	if err == nil {
		return res
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.Valid = false
		res.Errors["_form"] = DefaultMessage
		return res
	}

	t := reflect.TypeOf(form)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	for _, fe := range verrs {
		path := fieldPath(fe)
		if _, seen := res.Errors[path]; seen {
			continue
		}
		res.Errors[path] = messageFor(t, fe)
	}
	res.Valid = len(res.Errors) == 0
	return res
}

// fieldPath drops the root struct name from the json-tag namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func messageFor(root reflect.Type, fe validator.FieldError) string {
	names := strings.Split(fe.StructNamespace(), ".")
	t := root
	var field reflect.StructField
	for _, name := range names[1:] {
		if t.Kind() != reflect.Struct {
			return DefaultMessage
		}
		f, ok := t.FieldByName(name)
		if !ok {
			return DefaultMessage
		}
		field = f
		t = f.Type
		for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice {
			t = t.Elem()
		}
	}

	for _, pair := range strings.Split(field.Tag.Get("msg"), ";") {
		rule, msg, ok := strings.Cut(pair, "=")
		if ok && strings.TrimSpace(rule) == fe.Tag() {
			return strings.TrimSpace(msg)
		}
	}
	return DefaultMessage
}
