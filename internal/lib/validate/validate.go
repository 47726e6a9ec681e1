package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var instance = validator.New(validator.WithRequiredStructEnabled())

// Struct validates a struct against its `validate` tags and flattens
// the result into a single field-level error message.
func Struct(s interface{}) error {
	err := instance.Struct(s)
	if err == nil {
		return nil
	}

	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		return err
	}

	msgs := make([]string, 0, len(verr))
	for _, fe := range verr {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is required", fe.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email", fe.Field()))
		case "len":
			msgs = append(msgs, fmt.Sprintf("field %s must be %s characters long", fe.Field(), fe.Param()))
		case "numeric":
			msgs = append(msgs, fmt.Sprintf("field %s must be numeric", fe.Field()))
		case "e164":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid phone number", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of [%s]", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is invalid", fe.Field()))
		}
	}

	return errors.New(strings.Join(msgs, "; "))
}
