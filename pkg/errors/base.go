package errors

import (
	"fmt"
	"strings"
)

/*
Error collects construction-time failures together with free-form context
messages, so a caller sees every missing dependency at once.
*/
type Error struct {
	Errs []error
	Msgs []any
}

func NewError(errs ...any) error {
	err := &Error{}

	for _, msg := range errs {
		switch v := msg.(type) {
		case error:
			err.Errs = append(err.Errs, v)
		case string:
			err.Msgs = append(err.Msgs, v)
		}
	}

	return err
}

func (err *Error) Error() string {
	builder := &strings.Builder{}

	for _, e := range err.Errs {
		builder.WriteString(e.Error())
		builder.WriteString("\n")
	}

	for _, msg := range err.Msgs {
		builder.WriteString(fmt.Sprintf("%v\n", msg))
	}

	return strings.TrimSuffix(builder.String(), "\n")
}

func (err *Error) Unwrap() []error {
	return err.Errs
}
