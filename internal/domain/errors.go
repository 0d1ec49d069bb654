package domain

import "errors"

type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindInvalidState Kind = "invalid_state"
	KindDuplicate    Kind = "duplicate"
	KindEmptyResult  Kind = "empty_result"
	KindStoreFailure Kind = "store_failure"
)

// Sentinels for errors.Is; an *Error matches the sentinel of its Kind.
var (
	ErrNotFound     = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrInvalidState = &Error{Kind: KindInvalidState, Msg: "invalid state"}
	ErrDuplicate    = &Error{Kind: KindDuplicate, Msg: "duplicate"}
	ErrEmptyResult  = &Error{Kind: KindEmptyResult, Msg: "no record found"}
	ErrStoreFailure = &Error{Kind: KindStoreFailure, Msg: "store failure"}
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func NotFound(msg string) error     { return &Error{Kind: KindNotFound, Msg: msg} }
func InvalidState(msg string) error { return &Error{Kind: KindInvalidState, Msg: msg} }
func Duplicate(msg string) error    { return &Error{Kind: KindDuplicate, Msg: msg} }
func EmptyResult(msg string) error  { return &Error{Kind: KindEmptyResult, Msg: msg} }

// StoreFailure wraps a persistence error. Already classified errors pass
// through unchanged.
func StoreFailure(err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: KindStoreFailure, Msg: "store failure", Err: err}
}

// KindOf classifies err; anything unclassified counts as a store failure.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStoreFailure
}

// Message returns the caller-facing text. Store failures never expose the
// wrapped cause.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Kind != KindStoreFailure {
		return de.Msg
	}
	return "something went wrong, please try again"
}
