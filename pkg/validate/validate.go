// Package validate performs client-side payload validation so that malformed
// create/update requests are rejected before any network call is made.
package validate

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Error reports a payload rejected locally. It carries the offending field so
// forms can attach the message inline.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

type StructValidator struct {
	validate *validator.Validate
}

func NewStructValidator() *StructValidator {
	return &StructValidator{validate: validator.New()}
}

// Validate checks struct tags on v and converts the first violation into an
// *Error. Required-field violations read "<field> is required".
func (s *StructValidator) Validate(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return &Error{Field: fe.Field(), Message: fmt.Sprintf("%s is required", fe.Field())}
		}
		return &Error{Field: fe.Field(), Message: fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())}
	}
	return err
}
