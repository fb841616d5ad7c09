package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a Failure independently of its HTTP code.
type Kind string

const (
	KindValidation             Kind = "validation_error"
	KindInvalidArgument        Kind = "invalid_argument"
	KindInvalidStateTransition Kind = "invalid_state_transition"
	KindAlreadyRated           Kind = "already_rated"
	KindGracePeriodNotElapsed  Kind = "grace_period_not_elapsed"
	KindBusinessRuleViolation  Kind = "business_rule_violation"
	KindNoAvailableSlot        Kind = "no_available_slot"
	KindLockTimeout            Kind = "lock_timeout"
	KindConcurrentModification Kind = "concurrent_modification"
	KindNotFound               Kind = "not_found"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind,omitempty"`
	Message string `json:"message"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Kind: KindValidation, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Kind: KindValidation, Message: "invalid limit parameter"}

// Sentinels for errors.Is. Constructors below produce failures that match them by Kind.
var (
	ErrValidation             = &Failure{Code: http.StatusBadRequest, Kind: KindValidation, Message: "validation error"}
	ErrInvalidArgument        = &Failure{Code: http.StatusInternalServerError, Kind: KindInvalidArgument, Message: "invalid argument"}
	ErrInvalidStateTransition = &Failure{Code: http.StatusConflict, Kind: KindInvalidStateTransition, Message: "invalid state transition"}
	ErrAlreadyRated           = &Failure{Code: http.StatusConflict, Kind: KindAlreadyRated, Message: "booking already rated"}
	ErrGracePeriodNotElapsed  = &Failure{Code: http.StatusConflict, Kind: KindGracePeriodNotElapsed, Message: "grace period not elapsed"}
	ErrBusinessRuleViolation  = &Failure{Code: http.StatusUnprocessableEntity, Kind: KindBusinessRuleViolation, Message: "business rule violation"}
	ErrNoAvailableSlot        = &Failure{Code: http.StatusConflict, Kind: KindNoAvailableSlot, Message: "no available slot"}
	ErrLockTimeout            = &Failure{Code: http.StatusServiceUnavailable, Kind: KindLockTimeout, Message: "lock timeout"}
	ErrConcurrentModification = &Failure{Code: http.StatusConflict, Kind: KindConcurrentModification, Message: "concurrent modification"}
	ErrNotFound               = &Failure{Code: http.StatusNotFound, Kind: KindNotFound, Message: "not found"}
)

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// Is reports whether target is a Failure of the same Kind.
func (e *Failure) Is(target error) bool {
	var t *Failure
	if !errors.As(target, &t) {
		return false
	}

	return t.Kind != "" && t.Kind == e.Kind
}

func newf(sentinel *Failure, format string, args ...any) error {
	return &Failure{
		Code:    sentinel.Code,
		Kind:    sentinel.Kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Kind:    KindValidation,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: msg,
	}
}

// Validation reports malformed input or a violated bound.
func Validation(format string, args ...any) error {
	return newf(ErrValidation, format, args...)
}

// InvalidArgument reports a calculator input that can only come from a programming error.
func InvalidArgument(format string, args ...any) error {
	return newf(ErrInvalidArgument, format, args...)
}

func InvalidStateTransition(from, to string) error {
	return newf(ErrInvalidStateTransition, "cannot transition booking from %s to %s", from, to)
}

// InvalidState reports an operation attempted in a status that does not allow it.
func InvalidState(format string, args ...any) error {
	return newf(ErrInvalidStateTransition, format, args...)
}

func AlreadyRated(bookingID string) error {
	return newf(ErrAlreadyRated, "booking %s has already been rated", bookingID)
}

func GracePeriodNotElapsed(format string, args ...any) error {
	return newf(ErrGracePeriodNotElapsed, format, args...)
}

func BusinessRuleViolation(format string, args ...any) error {
	return newf(ErrBusinessRuleViolation, format, args...)
}

func NoAvailableSlot(format string, args ...any) error {
	return newf(ErrNoAvailableSlot, format, args...)
}

func LockTimeout(key string) error {
	return newf(ErrLockTimeout, "timed out waiting for lock %s", key)
}

func ConcurrentModification(entity, id string) error {
	return newf(ErrConcurrentModification, "%s %s was modified concurrently", entity, id)
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the Kind of a Failure in the chain, or an empty Kind.
func GetKind(err error) Kind {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return ""
}

// IsTransient reports whether the caller may retry the operation with backoff.
func IsTransient(err error) bool {
	return errors.Is(err, ErrLockTimeout) || errors.Is(err, ErrConcurrentModification)
}
