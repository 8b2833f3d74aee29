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
	"strings"
	"unicode/utf8"
)

// StatusInfo is a decoded PKIStatusInfo.
//
// The optional fields remember whether they were present at all. A
// statusString that was left out and one that was an empty SEQUENCE are
// different values, and encode to different bytes.
//
// A StatusInfo can't be changed once it's built; build a new one with New
// instead.
type StatusInfo struct {
	status Status

	statusStrings    []string
	hasStatusStrings bool

	failInfo    FailureInfo
	hasFailInfo bool
}

// Option sets one of the optional fields when building a StatusInfo.
type Option func(*StatusInfo) error

// WithStatusStrings marks the statusString field as present, holding strs
// in order. Passing no strings at all gives a present but empty list.
func WithStatusStrings(strs ...string) Option {
	return func(s *StatusInfo) error {
		for i, str := range strs {
			if !utf8.ValidString(str) {
				return constructionError("statusString", "element %d is not valid UTF-8", i)
			}
		}
		s.statusStrings = append([]string{}, strs...)
		s.hasStatusStrings = true
		return nil
	}
}

// WithFailureInfo marks the failInfo field as present.
func WithFailureInfo(info FailureInfo) Option {
	return func(s *StatusInfo) error {
		s.failInfo = FailureInfo{bits: info.Bytes(), unused: info.unused}
		s.hasFailInfo = true
		return nil
	}
}

// New builds a StatusInfo. The status has to be one of the defined codes.
func New(status Status, opts ...Option) (*StatusInfo, error) {
	if !status.Valid() {
		return nil, constructionError("status", "status code %d is not defined", int(status))
	}
	info := StatusInfo{status: status}
	for _, opt := range opts {
		if err := opt(&info); err != nil {
			return nil, err
		}
	}
	return &info, nil
}

func (s *StatusInfo) Status() Status {
	return s.status
}

// Granted returns true if the request was granted, with or without
// modifications.
func (s *StatusInfo) Granted() bool {
	return s.status == Granted || s.status == GrantedWithMods
}

// StatusStrings returns a copy of the free text, and whether the field was
// present at all.
func (s *StatusInfo) StatusStrings() ([]string, bool) {
	if !s.hasStatusStrings {
		return nil, false
	}
	return append([]string{}, s.statusStrings...), true
}

// FailureInfo returns the failure bits, and whether the field was present at
// all.
func (s *StatusInfo) FailureInfo() (FailureInfo, bool) {
	if !s.hasFailInfo {
		return FailureInfo{}, false
	}
	return s.failInfo, true
}

// Equal returns true if both records have the same status and the same
// optional fields, with the same contents.
func (s *StatusInfo) Equal(other *StatusInfo) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.status != other.status {
		return false
	}
	if s.hasStatusStrings != other.hasStatusStrings || len(s.statusStrings) != len(other.statusStrings) {
		return false
	}
	for i := range s.statusStrings {
		if s.statusStrings[i] != other.statusStrings[i] {
			return false
		}
	}
	if s.hasFailInfo != other.hasFailInfo {
		return false
	}
	return s.failInfo.Equal(other.failInfo)
}

func (s *StatusInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "PKIStatusInfo{status: %s(%d)", s.status, int(s.status))
	if s.hasStatusStrings {
		quoted := make([]string, len(s.statusStrings))
		for i, str := range s.statusStrings {
			quoted[i] = fmt.Sprintf("%q", str)
		}
		fmt.Fprintf(&b, ", statusString: [%s]", strings.Join(quoted, ", "))
	}
	if s.hasFailInfo {
		fmt.Fprintf(&b, ", failInfo: %s", s.failInfo)
	}
	b.WriteString("}")
	return b.String()
}

// vim: foldmethod=marker
