package volt

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance for tag-based state checks.
var validate = validator.New()

// Validator is implemented by state types that define their own validation
// logic. When state validation is enabled, Validate runs after every
// reduction and a non-nil error rejects the new state.
type Validator interface {
	Validate() error
}

// checkState validates a reduced state before it is committed. States
// implementing Validator are asked directly; otherwise struct states are
// checked against go-playground/validator tags. Non-struct states without a
// Validator pass unchecked.
func (s *Store[S]) checkState(state S) error {
	if v, ok := any(state).(Validator); ok {
		return v.Validate()
	}

	rv := reflect.ValueOf(state)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	return validate.Struct(state)
}
