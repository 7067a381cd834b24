package cli

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/yaklabco/mdinbox/pkg/remote"
)

// Exit codes for mdinbox.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitFailure indicates a failure with no more specific code.
	ExitFailure = 1

	// ExitDropped indicates a publish was dropped because another was in flight.
	ExitDropped = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitDataError indicates input that could not be converted.
	ExitDataError = 65

	// ExitNotConfigured indicates a remote operation without a token or repository.
	ExitNotConfigured = 66

	// ExitRemoteError indicates the remote rejected a request or could not be reached.
	ExitRemoteError = 69

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 78
)

// ErrPublishDropped signals a publish that was not attempted.
var ErrPublishDropped = errors.New("publish dropped: another save is in flight")

// ErrRoundTripUnstable signals a convert --check or check failure.
var ErrRoundTripUnstable = errors.New("round trip is not stable")

// ErrCheckFailed signals files that check could not read.
var ErrCheckFailed = errors.New("some files could not be checked")

// exitError attaches an exit code to an error. A reported error was
// already shown to the user.
type exitError struct {
	code     int
	err      error
	reported bool
}

// reported marks err as already shown to the user.
func reported(err error) error {
	return &exitError{code: ExitCode(err), err: err, reported: true}
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var coded *exitError
	if errors.As(err, &coded) {
		return coded.code
	}

	switch {
	case errors.Is(err, ErrPublishDropped):
		return ExitDropped
	case errors.Is(err, ErrRoundTripUnstable):
		return ExitDataError
	case remote.IsNotConfigured(err):
		return ExitNotConfigured
	case remote.IsRemoteRejected(err), remote.IsTransport(err),
		goerrors.IsCategory(err, goerrors.CategoryNotFound):
		return ExitRemoteError
	case goerrors.IsValidation(err):
		return ExitConfigError
	default:
		return ExitFailure
	}
}

// IsSilent reports whether err was already reported on stdout and should
// not be logged again.
func IsSilent(err error) bool {
	var coded *exitError
	if errors.As(err, &coded) && coded.reported {
		return true
	}
	return errors.Is(err, ErrPublishDropped) || errors.Is(err, ErrRoundTripUnstable)
}
