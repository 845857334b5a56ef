// Package validation checks form values against declarative struct tags and
// turns failures into the messages shown under each input.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"hrportal/internal/auth"
	"hrportal/internal/entity"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a form field name to its error message.
type FieldErrors map[string]string

// Error is returned when a form fails validation.
type Error struct {
	Fields FieldErrors
}

func (e *Error) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Options tunes the validator.
type Options struct {
	// RejectUnsetRole makes role 0 ("Choose role...") a missing value.
	RejectUnsetRole bool
	// Messages overrides default messages keyed by "<field>.<rule>".
	Messages map[string]string
}

type Option func(*Options)

func WithRejectUnsetRole(reject bool) Option {
	return func(o *Options) { o.RejectUnsetRole = reject }
}

func WithMessages(messages map[string]string) Option {
	return func(o *Options) {
		if len(messages) == 0 {
			return
		}
		if o.Messages == nil {
			o.Messages = make(map[string]string, len(messages))
		}
		for k, v := range messages {
			o.Messages[k] = v
		}
	}
}

// Validator wraps a go-playground validator configured with the portal rules.
type Validator struct {
	engine *validator.Validate
	opts   Options

	metaMu sync.RWMutex
	meta   map[reflect.Type]map[string]fieldMeta
}

// fieldMeta is read from the `label` and `message` tags of a form field.
// `message:"email=Invalid email address"` replaces the default text of one
// rule for that form only; several rules are separated by ";".
type fieldMeta struct {
	label    string
	messages map[string]string
}

// New builds a Validator. Role 0 is rejected unless overridden.
func New(opts ...Option) *Validator {
	options := Options{RejectUnsetRole: true}
	for _, opt := range opts {
		opt(&options)
	}

	engine := validator.New(validator.WithRequiredStructEnabled())
	engine.RegisterTagNameFunc(formFieldName)

	v := &Validator{
		engine: engine,
		opts:   options,
		meta:   make(map[reflect.Type]map[string]fieldMeta),
	}

	// 注册自定义规则；名称固定，失败只可能来自编程错误
	mustRegister(engine, "password", func(fl validator.FieldLevel) bool {
		return auth.PasswordStrong(fl.Field().String())
	})
	mustRegister(engine, "role", func(fl validator.FieldLevel) bool {
		role, ok := parseRole(fl.Field())
		if !ok {
			return false
		}
		if role == entity.RoleUnset {
			return !v.opts.RejectUnsetRole
		}
		return true
	})
	mustRegister(engine, "nonnegative", func(fl validator.FieldLevel) bool {
		return nonNegative(fl.Field())
	})
	// text: 去掉标记后仍需有内容，校验的是最终提交的值
	mustRegister(engine, "text", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.String && PlainText(fl.Field().String()) != ""
	})
	return v
}

func mustRegister(engine *validator.Validate, tag string, fn validator.Func) {
	if err := engine.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Struct validates every field of form, which must be a struct or a pointer
// to one. It returns nil when the form is valid.
func (v *Validator) Struct(form any) FieldErrors {
	err := v.engine.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if _, exists := out[name]; exists {
			continue
		}
		out[name] = v.message(form, fe)
	}
	return out
}

// Field validates form and returns the message for one field, or "" when
// that field is valid.
func (v *Validator) Field(form any, name string) string {
	return v.Struct(form)[name]
}

// Check is Struct wrapped as an error.
func (v *Validator) Check(form any) error {
	if errs := v.Struct(form); len(errs) > 0 {
		return &Error{Fields: errs}
	}
	return nil
}

func (v *Validator) message(form any, fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	if override, ok := v.opts.Messages[field+"."+tag]; ok && strings.TrimSpace(override) != "" {
		return override
	}
	meta := v.fieldMeta(form, fe.StructField())
	if msg, ok := meta.messages[tag]; ok {
		return msg
	}
	label := meta.label

	switch tag {
	case "required", "text":
		return label + " is required"
	case "email":
		return "Invalid email"
	case "password":
		return "Password must contain at least 8 characters, 1 symbol, and 1 uppercase letter"
	case "numeric", "number":
		return label + " must be a number"
	case "nonnegative":
		return label + " must not be negative"
	case "datetime":
		return label + " must be a valid date"
	case "role":
		if role, ok := parseRole(reflect.ValueOf(fe.Value())); ok && role == entity.RoleUnset {
			return label + " is required"
		}
		return "Invalid " + strings.ToLower(label)
	default:
		return label + " is invalid"
	}
}

// fieldMeta returns the label and per-rule messages of a struct field. The
// label falls back to the field name.
func (v *Validator) fieldMeta(form any, structField string) fieldMeta {
	typ := reflect.TypeOf(form)
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return fieldMeta{label: structField}
	}

	v.metaMu.RLock()
	fields, ok := v.meta[typ]
	v.metaMu.RUnlock()
	if !ok {
		fields = make(map[string]fieldMeta, typ.NumField())
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			meta := fieldMeta{label: strings.TrimSpace(f.Tag.Get("label"))}
			if meta.label == "" {
				meta.label = f.Name
			}
			meta.messages = parseMessageTag(f.Tag.Get("message"))
			fields[f.Name] = meta
		}
		v.metaMu.Lock()
		v.meta[typ] = fields
		v.metaMu.Unlock()
	}
	if meta, ok := fields[structField]; ok {
		return meta
	}
	return fieldMeta{label: structField}
}

func parseMessageTag(tag string) map[string]string {
	if strings.TrimSpace(tag) == "" {
		return nil
	}
	out := make(map[string]string)
	for _, part := range strings.Split(tag, ";") {
		rule, msg, ok := strings.Cut(part, "=")
		rule, msg = strings.TrimSpace(rule), strings.TrimSpace(msg)
		if !ok || rule == "" || msg == "" {
			continue
		}
		out[rule] = msg
	}
	return out
}

func formFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	default:
		return name
	}
}

func nonNegative(value reflect.Value) bool {
	switch value.Kind() {
	case reflect.String:
		n, err := strconv.ParseFloat(strings.TrimSpace(value.String()), 64)
		return err == nil && n >= 0
	case reflect.Float32, reflect.Float64:
		return value.Float() >= 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Int() >= 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func parseRole(value reflect.Value) (entity.Role, bool) {
	if !value.IsValid() {
		return entity.RoleUnset, false
	}
	var id int
	switch value.Kind() {
	case reflect.String:
		trimmed := strings.TrimSpace(value.String())
		if trimmed == "" {
			return entity.RoleUnset, true
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return entity.RoleUnset, false
		}
		id = n
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		id = int(value.Int())
	default:
		return entity.RoleUnset, false
	}
	role, err := entity.ParseRole(id)
	if err != nil {
		return entity.RoleUnset, false
	}
	return role, true
}
