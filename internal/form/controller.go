// Package form holds form state between input and submission.
package form

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"hrportal/internal/validation"

	"github.com/gin-gonic/gin/binding"
)

var (
	ErrSubmitInProgress = errors.New("form: submission already in progress")
	ErrUnknownField     = errors.New("form: unknown field")
)

// Controller holds the values of one form, its per-field errors and the
// loading flag. T must be a struct whose string fields carry `form` tags.
// Values are trimmed unless the tag has the `raw` option; `text` fields lose
// their markup. Both happen before validation, so the validator sees exactly
// what Submit passes on.
//
// While a submission is in flight the controller refuses a second one, so
// the loading flag also acts as the disabled state of the submit control.
type Controller[T any] struct {
	validator *validation.Validator
	fields    map[string]fieldInfo

	mu      sync.Mutex
	values  T
	errors  validation.FieldErrors
	loading bool
}

// NewController returns a controller initialised with the zero value of T.
func NewController[T any](v *validation.Validator) *Controller[T] {
	var zero T
	return &Controller[T]{
		validator: v,
		fields:    fieldsOf(reflect.TypeOf(zero)),
	}
}

// Set updates one field by its form name and re-validates that field.
func (c *Controller[T]) Set(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.assign(&c.values, name, value); err != nil {
		return err
	}
	c.refreshField(name)
	return nil
}

// Bind copies every known field from posted form values through gin's form
// mapper. Keys that are absent keep their current value; errors are not
// refreshed until Validate or Submit.
func (c *Controller[T]) Bind(values url.Values) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	candidate := c.values
	if err := binding.MapFormWithTag(&candidate, values, "form"); err != nil {
		return fmt.Errorf("bind form: %w", err)
	}
	c.normalize(&candidate)
	c.values = candidate
	return nil
}

// Load replaces all values, typically with a struct bound by gin from the
// request.
func (c *Controller[T]) Load(values T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.normalize(&values)
	c.values = values
}

// Check validates a candidate value for one field without storing it.
func (c *Controller[T]) Check(name, value string) string {
	c.mu.Lock()
	candidate := c.values
	c.mu.Unlock()
	if err := c.assign(&candidate, name, value); err != nil {
		return err.Error()
	}
	return c.validator.Field(candidate, name)
}

// Validate re-runs validation for all fields and stores the result.
func (c *Controller[T]) Validate() validation.FieldErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = c.validator.Struct(c.values)
	return copyErrors(c.errors)
}

// Submit validates all fields and, when the form is valid, calls fn with the
// current values. An invalid form returns *validation.Error and fn is not
// called. The loading flag is set for the duration of fn and cleared on
// every outcome.
func (c *Controller[T]) Submit(ctx context.Context, fn func(context.Context, T) error) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrSubmitInProgress
	}
	c.errors = c.validator.Struct(c.values)
	if len(c.errors) > 0 {
		errs := copyErrors(c.errors)
		c.mu.Unlock()
		return &validation.Error{Fields: errs}
	}
	c.loading = true
	values := c.values
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()
	return fn(ctx, values)
}

func (c *Controller[T]) Values() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values
}

func (c *Controller[T]) Errors() validation.FieldErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyErrors(c.errors)
}

func (c *Controller[T]) FieldError(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors[name]
}

func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller[T]) refreshField(name string) {
	msg := c.validator.Field(c.values, name)
	if msg == "" {
		delete(c.errors, name)
		return
	}
	if c.errors == nil {
		c.errors = make(validation.FieldErrors)
	}
	c.errors[name] = msg
}

func (c *Controller[T]) assign(target *T, name, value string) error {
	info, ok := c.fields[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if err := binding.MapFormWithTag(target, map[string][]string{name: {value}}, "form"); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	field := reflect.ValueOf(target).Elem().Field(info.index)
	field.SetString(info.clean(field.String()))
	return nil
}

func (c *Controller[T]) normalize(target *T) {
	v := reflect.ValueOf(target).Elem()
	for _, info := range c.fields {
		field := v.Field(info.index)
		field.SetString(info.clean(field.String()))
	}
}

type fieldInfo struct {
	index int
	raw   bool
	text  bool
}

func (f fieldInfo) clean(value string) string {
	switch {
	case f.text:
		return validation.PlainText(value)
	case f.raw:
		return value
	default:
		return strings.TrimSpace(value)
	}
}

var fieldCache sync.Map

func fieldsOf(typ reflect.Type) map[string]fieldInfo {
	if typ == nil || typ.Kind() != reflect.Struct {
		panic(fmt.Sprintf("form: controller value must be a struct, got %v", typ))
	}
	if cached, ok := fieldCache.Load(typ); ok {
		return cached.(map[string]fieldInfo)
	}
	fields := make(map[string]fieldInfo, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("form")
		if tag == "" || tag == "-" || f.Type.Kind() != reflect.String || !f.IsExported() {
			continue
		}
		parts := strings.Split(tag, ",")
		info := fieldInfo{index: i}
		for _, opt := range parts[1:] {
			switch strings.TrimSpace(opt) {
			case "raw":
				info.raw = true
			case "text":
				info.text = true
			}
		}
		fields[parts[0]] = info
	}
	fieldCache.Store(typ, fields)
	return fields
}

func copyErrors(errs validation.FieldErrors) validation.FieldErrors {
	if len(errs) == 0 {
		return nil
	}
	out := make(validation.FieldErrors, len(errs))
	for k, v := range errs {
		out[k] = v
	}
	return out
}
