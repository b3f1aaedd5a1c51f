package hwid

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a gateway failure.
type Kind int

const (
	// KindUnavailable a read could not be satisfied by any mechanism.
	KindUnavailable Kind = iota + 1
	// KindPermissionDenied a write was attempted without elevation.
	KindPermissionDenied
	// KindInvalidFormat malformed user input (MAC, GUID).
	KindInvalidFormat
	// KindAdapterNotFound no adapter or adapter subkey matched.
	KindAdapterNotFound
	// KindKeyNotFound a registry key or value is absent.
	KindKeyNotFound
	// KindExternalTool a spawned utility exited non-zero or timed out.
	KindExternalTool
	// KindFileNotFound a backup file is missing.
	KindFileNotFound
	// KindImport reg import rejected the backup file.
	KindImport
	// KindRegistryWrite the registry API refused a write.
	KindRegistryWrite
	// KindCancelled the user declined a confirmation.
	KindCancelled
	// KindUnsupported the operation has no implementation on this platform.
	KindUnsupported
	// KindIO a local file could not be read or written.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindPermissionDenied:
		return "permission denied"
	case KindInvalidFormat:
		return "invalid format"
	case KindAdapterNotFound:
		return "adapter not found"
	case KindKeyNotFound:
		return "key not found"
	case KindExternalTool:
		return "external tool error"
	case KindFileNotFound:
		return "file not found"
	case KindImport:
		return "import error"
	case KindRegistryWrite:
		return "registry write error"
	case KindCancelled:
		return "cancelled"
	case KindUnsupported:
		return "unsupported"
	case KindIO:
		return "io error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels for errors.Is. Any *Error with the same Kind matches.
var (
	ErrUnavailable      = &Error{Kind: KindUnavailable}
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	ErrInvalidFormat    = &Error{Kind: KindInvalidFormat}
	ErrAdapterNotFound  = &Error{Kind: KindAdapterNotFound}
	ErrKeyNotFound      = &Error{Kind: KindKeyNotFound}
	ErrExternalTool     = &Error{Kind: KindExternalTool}
	ErrFileNotFound     = &Error{Kind: KindFileNotFound}
	ErrImport           = &Error{Kind: KindImport}
	ErrRegistryWrite    = &Error{Kind: KindRegistryWrite}
	ErrCancelled        = &Error{Kind: KindCancelled}
	ErrUnsupported      = &Error{Kind: KindUnsupported}
	ErrIO               = &Error{Kind: KindIO}
)

// Error is returned by every gateway operation.
type Error struct {
	Kind    Kind   // failure class
	Op      string // gateway operation, e.g. "WriteMachineGuid"
	Message string // human readable detail
	Err     error  // underlying cause
}

// Error formats as "hwid: Op: [kind] message (caused by: err)".
func (e *Error) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, "hwid: "+e.Op+":")
	} else {
		parts = append(parts, "hwid:")
	}
	parts = append(parts, "["+e.Kind.String()+"]")
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Err != nil {
		parts = append(parts, fmt.Sprintf("(caused by: %v)", e.Err))
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind Kind, op, msg string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: msg, Err: cause}
}

// CommandError records a failed system command execution.
// Use [errors.As] to extract the command name and diagnostics.
type CommandError struct {
	Command  string // command name, e.g. "powershell", "wmic", "reg"
	ExitCode int    // -1 when the process did not start or was killed
	Stderr   string // trimmed stderr, may be empty
	Err      error  // underlying error from exec
}

// Error returns a human-readable description of the command failure.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q failed", e.Command)
	if e.ExitCode >= 0 {
		msg += fmt.Sprintf(" with exit code %d", e.ExitCode)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	} else if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// diagnostic returns the most useful text for a user-facing message.
func diagnostic(err error) string {
	var ce *CommandError
	if errors.As(err, &ce) && ce.Stderr != "" {
		return ce.Stderr
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
