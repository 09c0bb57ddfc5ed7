// Package bridgeerr defines the module-level error kinds of spec §7 as a
// typed, context-carrying error value, ported from the idiom in
// accumulate-lite-client-2/liteclient/errors (ErrorCode + struct, fluent
// WithContext, HTTPStatus for the query surface).
package bridgeerr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Code identifies one of the module-level error kinds of spec §7.
type Code string

const (
	// CodeInvalidStorageProof: trie proof malformed or root mismatch.
	CodeInvalidStorageProof Code = "INVALID_STORAGE_PROOF"
	// CodeInvalidValidatorSetProof: proof structurally valid but the
	// required key is absent or unreadable.
	CodeInvalidValidatorSetProof Code = "INVALID_VALIDATOR_SET_PROOF"
	// CodeValidatorSetMismatch: encoded expected set != retrieved value.
	CodeValidatorSetMismatch Code = "VALIDATOR_SET_MISMATCH"
	// CodeAncestorNotFound: header-chain ancestry proof does not link
	// child to claimed ancestor.
	CodeAncestorNotFound Code = "ANCESTOR_NOT_FOUND"
	// CodeJustificationDecode: justification bytes do not parse.
	CodeJustificationDecode Code = "JUSTIFICATION_DECODE"
	// CodeBadJustification: parses but fails a semantic check.
	CodeBadJustification Code = "BAD_JUSTIFICATION"
	// CodeNotFound: a query referenced a bridge id that doesn't exist.
	CodeNotFound Code = "NOT_FOUND"
	// CodeInvalidArgument: a dispatch call received a malformed argument,
	// e.g. a non-monotone block number (§4.G monotonicity).
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
)

// Error is the module's typed error: the justification verifier and the
// bridge registry report verification failures as *Error, so callers have
// a Code to switch on and a Reason for logs. The lower-level packages
// (pkg/ancestry, pkg/headerchain, pkg/trieproof) return their own sentinel
// errors, and storage failures are passed through unwrapped.
type Error struct {
	Code      Code
	Reason    string
	Context   map[string]any
	Timestamp time.Time
	Cause     error
}

// New constructs an Error with no reason text beyond the code's meaning.
func New(code Code) *Error {
	return &Error{Code: code, Timestamp: time.Now()}
}

// Newf constructs an Error with a formatted reason, matching
// BadJustification(reason) in spec §7.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Reason: fmt.Sprintf(format, args...), Timestamp: time.Now()}
}

// Wrap attaches an underlying cause without leaking its text into Reason
// (spec §7: "must NOT reveal which signature failed beyond the generic
// message").
func Wrap(code Code, cause error) *Error {
	return &Error{Code: code, Cause: cause, Timestamp: time.Now()}
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair for structured logging, returning
// e for chaining.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// HTTPStatus maps a Code to the status the query surface (pkg/server)
// reports it under.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidArgument, CodeJustificationDecode:
		return http.StatusBadRequest
	case CodeInvalidStorageProof, CodeInvalidValidatorSetProof, CodeValidatorSetMismatch,
		CodeAncestorNotFound, CodeBadJustification:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Is reports whether err is a *Error carrying the given code, for
// errors.Is-style checks in callers and tests.
func Is(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}
