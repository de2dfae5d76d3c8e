// Package errkind implements the error taxonomy: a small set
// of error kinds that local recovery and RPC translation both key off of,
// independent of the concrete Go error type.
package errkind

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.viam.com/micrordk/resource"
)

// Kind is one of the taxonomy entries.
type Kind int

const (
	Unknown Kind = iota
	ConfigErrorKind
	ResourceErrorKind
	AuthFailedKind
	TransientKind
	FatalKind
	CancelledKind
	NotFoundKind
)

func (k Kind) String() string {
	switch k {
	case ConfigErrorKind:
		return "ConfigError"
	case ResourceErrorKind:
		return "ResourceError"
	case AuthFailedKind:
		return "AuthFailed"
	case TransientKind:
		return "Transient"
	case FatalKind:
		return "Fatal"
	case CancelledKind:
		return "Cancelled"
	case NotFoundKind:
		return "NotFound"
	default:
		return "Unknown"
	}
}

// kindError wraps an underlying error with its taxonomy kind.
type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string { return e.kind.String() + ": " + e.err.Error() }
func (e *kindError) Unwrap() error { return e.err }

func New(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: err}
}

func ConfigError(err error) error   { return New(ConfigErrorKind, err) }
func ResourceError(err error) error { return New(ResourceErrorKind, err) }
func AuthFailed(err error) error    { return New(AuthFailedKind, err) }
func Transient(err error) error     { return New(TransientKind, err) }
func Fatal(err error) error         { return New(FatalKind, err) }
func Cancelled(err error) error     { return New(CancelledKind, err) }
func NotFound(err error) error      { return New(NotFoundKind, err) }

// KindOf extracts the Kind from err, defaulting to Unknown. A
// *resource.NotFoundError is recognized as NotFoundKind even when it
// wasn't routed through New/NotFound, since LocalRobot.Get/Dispatch
// return it directly.
func KindOf(err error) Kind {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	var nf *resource.NotFoundError
	if errors.As(err, &nf) {
		return NotFoundKind
	}
	return Unknown
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// GRPCStatus translates err into a gRPC status code (OK, INVALID_ARGUMENT,
// NOT_FOUND, FAILED_PRECONDITION, UNAVAILABLE, INTERNAL, CANCELLED, or
// UNKNOWN for an error of no known kind). RPC handlers call this at the
// boundary before writing trailers.
func GRPCStatus(err error) *status.Status {
	if err == nil {
		return status.New(codes.OK, "")
	}
	switch KindOf(err) {
	case ConfigErrorKind:
		return status.New(codes.InvalidArgument, err.Error())
	case ResourceErrorKind:
		return status.New(codes.Internal, err.Error())
	case AuthFailedKind:
		return status.New(codes.FailedPrecondition, err.Error())
	case TransientKind:
		return status.New(codes.Unavailable, err.Error())
	case FatalKind:
		return status.New(codes.Internal, err.Error())
	case CancelledKind:
		return status.New(codes.Canceled, err.Error())
	case NotFoundKind:
		return status.New(codes.NotFound, err.Error())
	default:
		return status.New(codes.Unknown, err.Error())
	}
}
