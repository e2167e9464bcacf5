// Package validation runs field rules for request models and aggregates their failures.
//
// Struct tags (go-playground/validator) are checked first. A model's own rules then run
// in declaration order; a field that already failed is not checked again, while failures
// on different fields are collected into a single Error.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/mavedb-backend/internal/platform/apierr"
)

// Model is implemented by request shapes that carry custom rules.
type Model interface {
	Rules() []Rule
}

// Rule checks one field. A rule built with Nested validates a child model under a prefix.
type Rule struct {
	Field  string
	Check  func() error
	nested Model
}

func Field(name string, check func() error) Rule {
	return Rule{Field: name, Check: check}
}

func Nested(prefix string, m Model) Rule {
	return Rule{Field: prefix, nested: m}
}

// Error carries every failed field of one model.
type Error struct {
	Fields []apierr.FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, "; ")
}

// Has reports whether field failed.
func (e *Error) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Message returns the failure recorded for field, or "".
func (e *Error) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Fail builds an Error for a single field.
func Fail(field, message string) *Error {
	return &Error{Fields: []apierr.FieldError{{Field: field, Message: message}}}
}

var (
	tagOnce sync.Once
	tags    *validator.Validate
)

func tagValidator() *validator.Validate {
	tagOnce.Do(func() {
		tags = validator.New(validator.WithRequiredStructEnabled())
		tags.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return tags
}

// Validate runs tag checks and custom rules for m and returns *Error when anything failed.
func Validate(m Model) error {
	c := &collector{failed: map[string]bool{}}
	if err := tagValidator().Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			c.add(namespace(fe.Namespace()), tagMessage(fe))
		}
	}
	c.run("", m)
	if len(c.errs) == 0 {
		return nil
	}
	return &Error{Fields: c.errs}
}

type collector struct {
	errs   []apierr.FieldError
	failed map[string]bool
}

func (c *collector) add(field, msg string) {
	c.failed[field] = true
	c.errs = append(c.errs, apierr.FieldError{Field: field, Message: msg})
}

func (c *collector) run(prefix string, m Model) {
	for _, r := range m.Rules() {
		field := join(prefix, r.Field)
		if c.blocked(field) {
			continue
		}
		if r.nested != nil {
			c.run(field, r.nested)
			continue
		}
		if err := r.Check(); err != nil {
			c.add(field, err.Error())
		}
	}
}

// blocked reports whether field or one of its parents already failed.
func (c *collector) blocked(field string) bool {
	if c.failed[field] {
		return true
	}
	for i := len(field) - 1; i > 0; i-- {
		if field[i] == '.' && c.failed[field[:i]] {
			return true
		}
	}
	return false
}

func join(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	default:
		return prefix + "." + field
	}
}

// namespace drops the root struct name validator puts in front of every path.
func namespace(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "min":
		if k := fe.Kind(); k == reflect.Slice || k == reflect.Map {
			return fmt.Sprintf("ensure this list has at least %s items", fe.Param())
		}
		return fmt.Sprintf("ensure this value has at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("ensure this value has at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("ensure this value is greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("value is not one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
