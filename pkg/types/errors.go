/*
Copyright © 2022 - 2025 SUSE LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package types

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies which of the five outcomes a core operation failed with.
type Kind int

const (
	// Unsupported marks an unknown bootloader name or a required tool
	// missing from PATH.
	Unsupported Kind = iota
	// NotBootable marks a slot with no bootname.
	NotBootable
	// BackendError marks a failed subprocess invocation; it carries stderr.
	BackendError
	// ParseError marks bootloader state that couldn't be interpreted; it
	// carries the offending line or value.
	ParseError
	// NoPrimary marks the (normal, reportable) absence of any good slot.
	NoPrimary
)

func (k Kind) String() string {
	switch k {
	case Unsupported:
		return "Unsupported"
	case NotBootable:
		return "NotBootable"
	case BackendError:
		return "BackendError"
	case ParseError:
		return "ParseError"
	case NoPrimary:
		return "NoPrimary"
	default:
		return "Unknown"
	}
}

// Error is the single error type returned by the dispatcher and every
// backend. Callers switch on Kind() rather than string-matching messages.
type Error struct {
	kind    Kind
	msg     string
	cause   error
	offline string
}

func (e *Error) Error() string {
	if e.offline != "" {
		return fmt.Sprintf("%s: %s (offending: %q)", e.kind, e.msg, e.offline)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

// Unwrap lets errors.Is/errors.As see through to the wrapped cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Kind reports which of the five outcomes this error represents.
func (e *Error) Kind() Kind {
	return e.kind
}

// Cause returns the underlying error responsible, if any, using the same
// unwrapping rules as github.com/pkg/errors.
func Cause(err error) error {
	return errors.Cause(err)
}

func NewUnsupported(msg string, args ...interface{}) error {
	return &Error{kind: Unsupported, msg: fmt.Sprintf(msg, args...)}
}

func NewNotBootable(slotName string) error {
	return &Error{kind: NotBootable, msg: fmt.Sprintf("slot %q has no bootname", slotName)}
}

func NewBackendError(cause error, stderr string) error {
	wrapped := errors.Wrap(cause, "subprocess failed")
	msg := stderr
	if msg == "" {
		msg = wrapped.Error()
	}
	return &Error{kind: BackendError, msg: msg, cause: wrapped}
}

func NewParseError(msg string, offendingLine string) error {
	return &Error{kind: ParseError, msg: msg, offline: offendingLine}
}

func NewNoPrimary(msg string, args ...interface{}) error {
	return &Error{kind: NoPrimary, msg: fmt.Sprintf(msg, args...)}
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.kind == k
}
