package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/aryan0dhankhar/leaddesk/internal/domain"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

var (
	once     sync.Once
	validate *validator.Validate
)

// instance returns the shared validator with the form tags registered
func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		mustRegister(v, "looseemail", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
		mustRegister(v, "mobile10", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if len(s) != 10 {
				return false
			}
			for _, r := range s {
				if r < '0' || r > '9' {
					return false
				}
			}
			return true
		})
		mustRegister(v, "leadstatus", func(fl validator.FieldLevel) bool {
			return domain.LeadStatus(fl.Field().String()).Valid()
		})
		mustRegister(v, "leadprogress", func(fl validator.FieldLevel) bool {
			return domain.LeadProgress(fl.Field().String()).Valid()
		})
		mustRegister(v, "leadtype", func(fl validator.FieldLevel) bool {
			return domain.LeadType(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// FieldError is one failed form field
type FieldError struct {
	Field   string
	Message string
}

// Errors holds form failures in field declaration order
type Errors struct {
	fields []FieldError
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the failures in order
func (e *Errors) Fields() []FieldError {
	return append([]FieldError(nil), e.fields...)
}

// Get returns the message for field, or ""
func (e *Errors) Get(field string) string {
	for _, f := range e.fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Map returns failures keyed by field
func (e *Errors) Map() map[string]string {
	out := make(map[string]string, len(e.fields))
	for _, f := range e.fields {
		out[f.Field] = f.Message
	}
	return out
}

func (e *Errors) add(field, message string) {
	if e.Get(field) == "" {
		e.fields = append(e.fields, FieldError{Field: field, Message: message})
	}
}

// As reports whether err carries form failures
func As(err error) (*Errors, bool) {
	var verr *Errors
	ok := errors.As(err, &verr)
	return verr, ok
}

// messages maps "field.tag" to the user-facing message
type messages map[string]string

func check(form any, msgs messages) error {
	err := instance().Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Errors{}
	for _, fe := range verrs {
		msg, ok := msgs[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		out.add(fe.Field(), msg)
	}
	return out
}

// SanitizeMobile keeps digits only and truncates to ten
func SanitizeMobile(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 10 {
				break
			}
		}
	}
	return b.String()
}
