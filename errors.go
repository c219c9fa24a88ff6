/*
Copyright 2023 Alexander Bartolomey (github@alexanderbartolomey.de)

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

package netflow

import (
	"errors"
	"fmt"
)

// Sentinel errors. Wrap with the constructor functions below to attach
// context; callers can still test with errors.Is against these values.
//
// Tier 1 (programmer errors, never recovered internally): ErrArgumentNull,
// ErrArgumentRange, ErrArgumentMismatch, ErrStateViolation, ErrUseAfterClose.
//
// Tier 2 (stream-level, propagated verbatim): io.EOF and whatever the
// caller's io.Reader/io.Writer returns; this package adds nothing here.
//
// Tier 3 (packet-level, recoverable — the set's framing is already consumed,
// so the Reader remains usable for the next ReadSet call): ErrFormatError,
// ErrMissingTemplate.
var (
	ErrArgumentNull     error = errors.New("required argument was nil")
	ErrArgumentRange    error = errors.New("argument out of range")
	ErrArgumentMismatch error = errors.New("argument value mismatch")
	ErrStateViolation   error = errors.New("operation invalid in current state")
	ErrUseAfterClose    error = errors.New("use of reader or writer after close")
	ErrFormatError      error = errors.New("malformed record")
	ErrMissingTemplate  error = errors.New("template not found")
	ErrUnknownVersion   error = errors.New("unknown protocol version")
	ErrUnknownSetID     error = errors.New("unknown set id")
	ErrEndOfStream      error = errors.New("unexpected end of stream")
)

// ArgumentNull reports that a required reference-typed argument was nil.
func ArgumentNull(what string) error {
	return fmt.Errorf("%w: %s", ErrArgumentNull, what)
}

// ArgumentRange reports a value outside its legal range, e.g. a template id
// below 256, a negative offset, or a length that doesn't fit in a uint16.
func ArgumentRange(what string, got any) error {
	return fmt.Errorf("%w: %s (got %v)", ErrArgumentRange, what, got)
}

// ArgumentMismatch reports a value whose shape disagrees with what was
// expected, e.g. an IPv6 address where only IPv4 is legal, or a value whose
// serialized length differs from the template field's declared length.
func ArgumentMismatch(want, got string) error {
	return fmt.Errorf("%w: expected %s, got %s", ErrArgumentMismatch, want, got)
}

// StateViolation reports an operation attempted while the reader or writer
// was in a state that doesn't permit it.
func StateViolation(state, op string) error {
	return fmt.Errorf("%w: cannot %s while in state %s", ErrStateViolation, op, state)
}

// UseAfterClose reports an operation on a reader or writer that has already
// been disposed.
func UseAfterClose() error {
	return ErrUseAfterClose
}

// FormatError reports a malformed template or options-template header, e.g.
// a v9 scopes/options length that isn't a multiple of 4. Recoverable: the
// caller should skip the current set and keep reading.
func FormatError(reason string) error {
	return fmt.Errorf("%w: %s", ErrFormatError, reason)
}

// TemplateNotFound reports that a data set referenced a template id that
// isn't registered for its observation domain / source id.
func TemplateNotFound(observationDomainID uint32, templateID uint16) error {
	return fmt.Errorf("%w: id %d in observation domain %d", ErrMissingTemplate, templateID, observationDomainID)
}

// UnknownVersion reports a packet header whose version field is none of 5, 9, 10.
func UnknownVersion(version uint16) error {
	return fmt.Errorf("%w: %d, only 5, 9, and 10 are supported", ErrUnknownVersion, version)
}

// UnknownSetID reports a set id below 256 that isn't one of the recognized
// template/options-template ids. Per spec, this set is skipped, not fatal.
func UnknownSetID(id uint16) error {
	return fmt.Errorf("%w: %d", ErrUnknownSetID, id)
}
