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
	"fmt"
)

// Status is the PKIStatus code of a time-stamping response, as defined in
// RFC 3161 section 2.4.2.
type Status int

const (
	// When the PKIStatus contains the value zero a TimeStampToken, as
	// requested, is present.
	Granted Status = iota

	// When the PKIStatus contains the value one a TimeStampToken, with
	// modifications, is present.
	GrantedWithMods

	// The request was rejected, more information is in the failInfo.
	Rejection

	// The request body part has not yet been processed, expect to hear more
	// later.
	Waiting

	// A warning that a revocation is imminent.
	RevocationWarning

	// Notification that a revocation has occurred.
	RevocationNotification
)

var statusNames = [...]string{
	Granted:                "granted",
	GrantedWithMods:        "grantedWithMods",
	Rejection:              "rejection",
	Waiting:                "waiting",
	RevocationWarning:      "revocationWarning",
	RevocationNotification: "revocationNotification",
}

// Valid returns true if the Status is one of the defined codes.
func (s Status) Valid() bool {
	return s >= Granted && s <= RevocationNotification
}

// String returns the ASN.1 identifier of the status, or the bare number
// when it isn't one we know.
func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// Statuses returns every defined Status, in code order.
func Statuses() []Status {
	ret := make([]Status, len(statusNames))
	for i := range statusNames {
		ret[i] = Status(i)
	}
	return ret
}

// ParseStatus looks a Status up by its ASN.1 identifier, like
// "grantedWithMods".
func ParseStatus(name string) (Status, error) {
	for i, statusName := range statusNames {
		if statusName == name {
			return Status(i), nil
		}
	}
	return 0, constructionError("status", "unknown status %q", name)
}

// StatusFromInt64 maps an integer onto a Status. Anything outside the
// defined codes is an UnexpectedValueError; nothing is clamped.
func StatusFromInt64(value int64) (Status, error) {
	status := Status(value)
	if int64(status) != value || !status.Valid() {
		return 0, constructionError("status", "status code %d is not defined", value)
	}
	return status, nil
}

// vim: foldmethod=marker
