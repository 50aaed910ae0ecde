package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/flux/elementz/internal/style"
)

const (
	// CodeRuntime is returned for failures while reading inputs or writing
	// outputs.
	CodeRuntime = 1
	// CodeConfig is returned for invalid configuration or arguments.
	CodeConfig = 2
)

type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e ExitError) Unwrap() error {
	return e.Err
}

func ExitWithError(code int, err error) error {
	return ExitError{Code: code, Err: err}
}

// ExitCode reports err on stderr and maps it to a process exit code. Errors
// that are not an ExitError count as runtime failures.
func ExitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var ee ExitError
	if errors.As(err, &ee) {
		if ee.Err != nil && ee.Code != 0 {
			printError(stderr, ee.Err)
		}
		return ee.Code
	}
	printError(stderr, err)
	return CodeRuntime
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", style.Error.Render("error:"), err)
}
