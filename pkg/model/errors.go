package model

import (
	"errors"
	"fmt"
)

// ErrorKind identifies the collaborator boundary an error crossed.
type ErrorKind string

const (
	KindSource      ErrorKind = "source"      // battery hardware missing or platform query failed
	KindPersistence ErrorKind = "persistence" // history store unavailable or write failed
	KindDelivery    ErrorKind = "delivery"    // notification subsystem unavailable
	KindTelemetry   ErrorKind = "telemetry"   // reading could not be published
)

// Error is a failure at one of the collaborator boundaries.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// SourceError wraps a Reading Source failure.
func SourceError(msg string, err error) *Error {
	return &Error{Kind: KindSource, Msg: msg, Err: err}
}

// PersistenceError wraps a History Sink failure.
func PersistenceError(msg string, err error) *Error {
	return &Error{Kind: KindPersistence, Msg: msg, Err: err}
}

// DeliveryError wraps a notification delivery failure.
func DeliveryError(msg string, err error) *Error {
	return &Error{Kind: KindDelivery, Msg: msg, Err: err}
}

// TelemetryError wraps a telemetry publish failure.
func TelemetryError(msg string, err error) *Error {
	return &Error{Kind: KindTelemetry, Msg: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
