// Package phoenixerr defines the tagged error taxonomy used across the
// Phoenix control plane. Go has no sum types, so the reference exception
// hierarchy (PhoenixError/DeviceNotFoundError/TransportError/...) becomes a
// single struct with a Kind discriminator that callers can switch on.
package phoenixerr

import (
	"fmt"
	"strings"
)

// Kind discriminates the error taxonomy. External surfaces match on Kind
// rather than on concrete Go types.
type Kind string

const (
	KindDeviceNotFound      Kind = "device_not_found"
	KindTransportError      Kind = "transport_error"
	KindPecError            Kind = "pec_error"
	KindTimeout             Kind = "timeout"
	KindInvalidArgument     Kind = "invalid_argument"
	KindUnsupportedOp       Kind = "unsupported_operation"
	KindPartialWrite        Kind = "partial_write"
	KindUnknownHandle       Kind = "unknown_handle"
	KindResetTimeout        Kind = "reset_timeout"
)

// TransportErrorKind further discriminates TransportError per §7.
type TransportErrorKind string

const (
	TransportNak            TransportErrorKind = "nak"
	TransportBusError       TransportErrorKind = "bus_error"
	TransportFramingError   TransportErrorKind = "framing_error"
	TransportAdapterMissing TransportErrorKind = "adapter_not_found"
	TransportAdapterBusy    TransportErrorKind = "adapter_busy"
)

// Error is the single error type used throughout the core. Code carries an
// optional reference-taxonomy status code (see phoenixerr.Code*) purely for
// diagnostic display; Kind is the discriminator callers must switch on.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Code    int
	Err     error

	// TransportKind further discriminates a KindTransportError; zero value
	// for every other Kind.
	TransportKind TransportErrorKind
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is supports errors.Is comparisons against a bare Kind sentinel created via
// New(kind, "", "").
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

func Wrap(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

func NewDeviceNotFound(op string, addr uint8) *Error {
	return &Error{Kind: KindDeviceNotFound, Op: op, Message: fmt.Sprintf("no device responded at address 0x%02X", addr)}
}

func NewTransportError(op string, kind TransportErrorKind, context string, err error) *Error {
	return &Error{
		Kind:          KindTransportError,
		Op:            op,
		Message:       fmt.Sprintf("%s: %s", kind, context),
		Err:           err,
		TransportKind: kind,
		Code:          transportErrorCode(op, kind),
	}
}

// transportErrorCode maps a TransportErrorKind (and, for bus errors, the
// read/write direction named in op) onto the reference BCMStatus-style code
// (see SPEC_FULL.md §12.4).
func transportErrorCode(op string, kind TransportErrorKind) int {
	switch kind {
	case TransportAdapterMissing:
		return CodeAdapterMissing
	case TransportBusError:
		if strings.Contains(strings.ToLower(op), "write") {
			return CodeI2CWriteFailed
		}
		return CodeI2CReadFailed
	default:
		return CodeFailed
	}
}

func NewPecError(op string, expected, computed uint8) *Error {
	return &Error{
		Kind:    KindPecError,
		Op:      op,
		Message: fmt.Sprintf("PEC mismatch: expected 0x%02X, computed 0x%02X", expected, computed),
		Code:    CodePECFail,
	}
}

func NewTimeout(op string) *Error {
	return &Error{Kind: KindTimeout, Op: op, Message: "deadline exceeded", Code: CodeTimeout}
}

func NewInvalidArgument(op, reason string) *Error {
	return &Error{Kind: KindInvalidArgument, Op: op, Message: reason, Code: CodeInvalidParam}
}

func NewUnsupportedOperation(name string) *Error {
	return &Error{Kind: KindUnsupportedOp, Op: name, Message: "operation not supported by current firmware", Code: CodeUnsupported}
}

func NewPartialWrite(op string, addr uint32) *Error {
	return &Error{Kind: KindPartialWrite, Op: op, Message: fmt.Sprintf("write interrupted at register 0x%04X", addr)}
}

func NewUnknownHandle(handle uint32) *Error {
	return &Error{Kind: KindUnknownHandle, Op: "registry.Get", Message: fmt.Sprintf("no device for handle %d", handle)}
}

func NewResetTimeout(op string) *Error {
	return &Error{Kind: KindResetTimeout, Op: op, Message: "device did not come back after reset"}
}

// Reference BCMStatus-style numeric codes, carried only for diagnostic
// display alongside the Kind discriminator (see SPEC_FULL.md §12.4).
const (
	CodeSuccess        = 0x0000
	CodeFailed         = 0x0001
	CodeUnsupported    = 0x0002
	CodeInvalidParam   = 0x0003
	CodeAdapterMissing = 0x0004
	CodeI2CWriteFailed = 0x0811
	CodeI2CReadFailed  = 0x0812
	CodePECFail        = 0x0602
	CodeTimeout        = 0x0706
)
