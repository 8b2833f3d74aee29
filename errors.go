// {{{ Copyright (c) Paul R. Tagliamonte <paultag@gmail.com>, 2017
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE. }}}

package pkistatus

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/cryptobyte/asn1"

	"pault.ag/go/pkistatus/internal/encoding"
)

const (
	codeStructural = iota + 1
	codeUnexpectedValue
)

// Error is returned by everything in this package that can fail on bad
// input. The two kinds of failure are exported as StructuralError and
// UnexpectedValueError, which can be matched with errors.Is or Equal.
type Error struct {

	// Kind of failure. Compare against the Code of StructuralError or
	// UnexpectedValueError, or just use errors.Is.
	Code int

	// Human readable kind of failure.
	Message string

	// Absolute byte offset into the decoded input of the value that caused
	// the failure, or -1 when the error didn't come from decoding bytes.
	Offset int

	// ASN.1 field name the failure is attributed to, if any.
	Field string

	// Details about what was wrong.
	Detail string

	// Expected and Found are only meaningful when Tagged is set.
	Expected asn1.Tag
	Found    asn1.Tag
	Tagged   bool

	// internal marker to know where this fell out of, decode or new.
	where string
}

var (
	// StructuralError covers tag and length mismatches, truncated input,
	// trailing bytes and missing mandatory fields.
	StructuralError = Error{Code: codeStructural, Message: "Structural Error", Offset: -1}

	// UnexpectedValueError covers fields that are well formed on the wire but
	// carry a value that isn't allowed: an unknown status, bad UTF-8, or a
	// malformed BIT STRING unused bit count.
	UnexpectedValueError = Error{Code: codeUnexpectedValue, Message: "Unexpected Value", Offset: -1}
)

// Check to see if another Error is of the same kind as our struct. This
// compares the underlying Code integer.
func (e Error) Equal(err error) bool {
	var otherError Error
	if !errors.As(err, &otherError) {
		return false
	}
	return e.Code == otherError.Code
}

// Is lets errors.Is match any Error against the exported kinds.
func (e Error) Is(target error) bool {
	otherError, ok := target.(Error)
	if !ok {
		return false
	}
	return e.Code == otherError.Code
}

// Error interface. This will sprintf a string containing where this error
// came from, the kind of failure, where in the input it happened, and the
// tags involved, to aid with debugging.
func (e Error) Error() string {
	var b strings.Builder
	b.WriteString("pkistatus")
	if e.where != "" {
		b.WriteString(" " + e.where)
	}
	b.WriteString(": " + e.Message)
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " in %s", e.Field)
	}
	if e.Detail != "" {
		b.WriteString(": " + e.Detail)
	}
	if e.Tagged {
		fmt.Fprintf(&b, " (expected %s, found %s)",
			encoding.TagName(e.Expected), encoding.TagName(e.Found))
	}
	return b.String()
}

func newError(kind Error, where string, offset int, field, format string, args ...interface{}) Error {
	kind.where = where
	kind.Offset = offset
	kind.Field = field
	kind.Detail = fmt.Sprintf(format, args...)
	return kind
}

func structuralError(offset int, field, format string, args ...interface{}) Error {
	return newError(StructuralError, "decode", offset, field, format, args...)
}

func valueError(offset int, field, format string, args ...interface{}) Error {
	return newError(UnexpectedValueError, "decode", offset, field, format, args...)
}

// constructionError is an UnexpectedValueError raised while building a
// value in memory, so it has no offset.
func constructionError(field, format string, args ...interface{}) Error {
	return newError(UnexpectedValueError, "new", -1, field, format, args...)
}

func tagMismatch(offset int, field string, expected, found asn1.Tag) Error {
	err := structuralError(offset, field, "unexpected tag")
	err.Expected = expected
	err.Found = found
	err.Tagged = true
	return err
}

// Take an error out of the internal encoding layer and turn it into a
// StructuralError attributed to field.
func fromHeaderError(err error, field string) error {
	var headerError *encoding.HeaderError
	if errors.As(err, &headerError) {
		return structuralError(headerError.Offset, field, "%s", headerError.Msg)
	}
	return err
}

// vim: foldmethod=marker
