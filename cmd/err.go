package cmd

import (
	"fmt"
	"os"
	"sync"
)

import (
	"github.com/pkg/errors"
)

// Exit codes of the gref commands. Usage errors keep the code they are
// built with.
const (
	ExitFailure = 1 // anything not classified below
	ExitConfig  = 2 // options, config files, indices and strategies
	ExitIO      = 3 // files that cannot be read, written or parsed
	ExitQuery   = 4 // queries that cannot be answered
)

// Error carries the exit code the process should end with.
type Error struct {
	Err      error
	ExitCode int
}

var exits struct {
	sync.Mutex
	causes []cause
}

type cause struct {
	err  error
	code int
}

// ExitOn makes Fail exit with code on any error caused by one of errs.
// Earlier registrations win.
func ExitOn(code int, errs ...error) {
	exits.Lock()
	defer exits.Unlock()
	for _, err := range errs {
		exits.causes = append(exits.causes, cause{err, code})
	}
}

// ExitCode classifies err by its cause. Errors nothing was registered for
// exit with ExitIO when a file operation failed and ExitFailure
// otherwise.
func ExitCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.ExitCode
	}
	exits.Lock()
	defer exits.Unlock()
	for _, c := range exits.causes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return ExitIO
	}
	return ExitFailure
}

// Fail is the *Error of err with the exit code of its cause.
func Fail(err error) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{Err: err, ExitCode: ExitCode(err)}
}

func Err(code int, err error) *Error {
	return &Error{Err: err, ExitCode: code}
}

func Errorf(code int, format string, args ...interface{}) *Error {
	return &Error{Err: fmt.Errorf(format, args...), ExitCode: code}
}

// Usage builds an error holding the usage of cmd. With no message the
// full usage is shown, as for --help.
func Usage(cmd Runnable, code int, formatAndArgs ...interface{}) *Error {
	var err error
	if len(formatAndArgs) > 0 {
		format := formatAndArgs[0].(string)
		args := formatAndArgs[1:]
		err = fmt.Errorf("error: %v\n\n%v\n", fmt.Sprintf(format, args...), cmd.ShortUsage())
	} else {
		err = fmt.Errorf("%v\n\n%v\n", cmd.ShortUsage(), cmd.Usage())
	}
	return &Error{Err: err, ExitCode: code}
}

func (c *Error) Error() string {
	return c.Err.Error()
}

func (c *Error) String() string {
	return c.Err.Error()
}

func (c *Error) Unwrap() error {
	return c.Err
}
