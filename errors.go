package aim

import (
	"errors"
	"fmt"
)

// Internal sentinel to stop the streaming decoder.
var errStop = errors.New("stop")

var errInvalidFormat = errors.New("aim: invalid format")

type invalidFormatError struct {
	err error
}

func (e *invalidFormatError) Error() string {
	return fmt.Sprintf("aim: invalid format: %s", e.err)
}

func (e *invalidFormatError) Is(target error) bool {
	return target == errInvalidFormat
}

func newInvalidFormatError(err error) error {
	return &invalidFormatError{err: err}
}

func newInvalidFormatErrorf(format string, args ...any) error {
	return &invalidFormatError{err: fmt.Errorf(format, args...)}
}

// IsInvalidFormat reports whether err signals a malformed or unsupported
// image container.
func IsInvalidFormat(err error) bool {
	return errors.Is(err, errInvalidFormat)
}
