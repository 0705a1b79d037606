package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/daycounter/internal/constants"
	"github.com/julianstephens/daycounter/internal/logger"
)

var (
	// ErrInvalidFormat is returned when a start date/time matches none of the accepted layouts.
	ErrInvalidFormat = stderrors.New("invalid date/time format")

	// ErrCapacityExceeded is returned when adding an entry to a full store.
	ErrCapacityExceeded = fmt.Errorf("entry limit reached (max %d entries)", constants.MaxEntries)

	// ErrInvalidFunNumber is returned when a fun-number token is not a positive integer.
	ErrInvalidFunNumber = stderrors.New("invalid fun number")

	// ErrNotLoaded is returned by store accessors called before Load.
	ErrNotLoaded = stderrors.New("storage not loaded")
)

// Hint returns a short user-facing suggestion for known errors, or "".
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, ErrInvalidFormat):
		return constants.InputFormatHint
	case stderrors.Is(err, ErrCapacityExceeded):
		return "delete an entry before adding another"
	case stderrors.Is(err, ErrInvalidFunNumber):
		return "fun numbers are positive integers separated by commas or spaces"
	case stderrors.Is(err, ErrNotLoaded):
		return "load the data file first"
	}
	return ""
}

// Format formats an error message with a consistent "Error: " prefix,
// followed by a hint line when one is known.
func Format(err error) string {
	if err == nil {
		return ""
	}
	if hint := Hint(err); hint != "" {
		return fmt.Sprintf("Error: %v\n       Hint: %s", err, hint)
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
