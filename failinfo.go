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
	"bytes"
	"fmt"
	"strings"
)

// FailureFlag is a bit position in the PKIFailureInfo BIT STRING.
type FailureFlag int

// PKIFailureInfo is defined in RFC 2510 3.2.3 and RFC 3161 2.4.2. Positions
// 10 through 13 and 18 through 24 have no name.
const (
	BadAlg              FailureFlag = 0  // unrecognized or unsupported Algorithm Identifier
	BadMessageCheck     FailureFlag = 1  // integrity check failed
	BadRequest          FailureFlag = 2  // transaction not permitted or supported
	BadTime             FailureFlag = 3  // messageTime was not sufficiently close to the system time
	BadCertID           FailureFlag = 4  // no certificate could be found matching the provided criteria
	BadDataFormat       FailureFlag = 5  // the data submitted has the wrong format
	WrongAuthority      FailureFlag = 6  // the authority indicated in the request is different from the one creating the response token
	IncorrectData       FailureFlag = 7  // the requester's data is incorrect
	MissingTimeStamp    FailureFlag = 8  // the timestamp is missing but should be there
	BadPOP              FailureFlag = 9  // the proof-of-possession failed
	TimeNotAvailable    FailureFlag = 14 // the TSA's time source is not available
	UnacceptedPolicy    FailureFlag = 15 // the requested TSA policy is not supported by the TSA
	UnacceptedExtension FailureFlag = 16 // the requested extension is not supported by the TSA
	AddInfoNotAvailable FailureFlag = 17 // the additional information requested could not be understood
	SystemFailure       FailureFlag = 25 // the request cannot be handled due to system failure
)

var failureFlagNames = map[FailureFlag]string{
	BadAlg:              "badAlg",
	BadMessageCheck:     "badMessageCheck",
	BadRequest:          "badRequest",
	BadTime:             "badTime",
	BadCertID:           "badCertId",
	BadDataFormat:       "badDataFormat",
	WrongAuthority:      "wrongAuthority",
	IncorrectData:       "incorrectData",
	MissingTimeStamp:    "missingTimeStamp",
	BadPOP:              "badPOP",
	TimeNotAvailable:    "timeNotAvailable",
	UnacceptedPolicy:    "unacceptedPolicy",
	UnacceptedExtension: "unacceptedExtension",
	AddInfoNotAvailable: "addInfoNotAvailable",
	SystemFailure:       "systemFailure",
}

var failureFlags = []FailureFlag{
	BadAlg, BadMessageCheck, BadRequest, BadTime, BadCertID, BadDataFormat,
	WrongAuthority, IncorrectData, MissingTimeStamp, BadPOP,
	TimeNotAvailable, UnacceptedPolicy, UnacceptedExtension,
	AddInfoNotAvailable, SystemFailure,
}

// maxFailureBit bounds the positions NewFailureInfo will set, so a typo
// can't allocate a huge BIT STRING.
const maxFailureBit = 255

// FailureFlags returns every named flag, in bit order.
func FailureFlags() []FailureFlag {
	return append([]FailureFlag{}, failureFlags...)
}

// Known returns true if the bit position has a name.
func (f FailureFlag) Known() bool {
	_, ok := failureFlagNames[f]
	return ok
}

func (f FailureFlag) String() string {
	if name, ok := failureFlagNames[f]; ok {
		return name
	}
	return fmt.Sprintf("bit(%d)", int(f))
}

// ParseFailureFlag looks a flag up by its ASN.1 identifier, like "badAlg".
func ParseFailureFlag(name string) (FailureFlag, error) {
	for _, flag := range failureFlags {
		if failureFlagNames[flag] == name {
			return flag, nil
		}
	}
	return 0, constructionError("failInfo", "unknown failure flag %q", name)
}

// FailureInfo is the PKIFailureInfo BIT STRING. It keeps the exact bit
// content and unused bit count it was built or decoded with, including any
// set bits that have no name, so that it encodes back to the same bytes.
//
// A FailureInfo is immutable; the zero value is an empty BIT STRING.
type FailureInfo struct {
	bits   []byte
	unused uint8
}

// NewFailureInfo builds a FailureInfo with the given flags set, in the DER
// form for named bit lists: trailing zero bits are dropped.
func NewFailureInfo(flags ...FailureFlag) (FailureInfo, error) {
	highest := -1
	for _, flag := range flags {
		if flag < 0 || flag > maxFailureBit {
			return FailureInfo{}, constructionError("failInfo", "bit position %d is out of range", int(flag))
		}
		if int(flag) > highest {
			highest = int(flag)
		}
	}
	if highest < 0 {
		return FailureInfo{}, nil
	}

	bits := make([]byte, highest/8+1)
	for _, flag := range flags {
		bits[flag/8] |= 0x80 >> uint(flag%8)
	}
	return FailureInfo{bits: bits, unused: uint8(7 - highest%8)}, nil
}

// checkBits returns a description of what is wrong with a BIT STRING's
// content, or an empty string if it is fine.
func checkBits(bits []byte, unusedBits int) string {
	switch {
	case unusedBits < 0 || unusedBits > 7:
		return fmt.Sprintf("unused bit count %d is not between 0 and 7", unusedBits)
	case len(bits) == 0 && unusedBits != 0:
		return fmt.Sprintf("unused bit count %d on an empty BIT STRING", unusedBits)
	case len(bits) > 0 && bits[len(bits)-1]&(1<<uint(unusedBits)-1) != 0:
		return "unused bits are not zero"
	}
	return ""
}

// FailureInfoFromBits builds a FailureInfo from literal BIT STRING content.
// The unused bit count must be between 0 and 7, zero for empty content, and
// the unused bits themselves must be zero.
func FailureInfoFromBits(bits []byte, unusedBits int) (FailureInfo, error) {
	if problem := checkBits(bits, unusedBits); problem != "" {
		return FailureInfo{}, constructionError("failInfo", "%s", problem)
	}
	return FailureInfo{
		bits:   append([]byte(nil), bits...),
		unused: uint8(unusedBits),
	}, nil
}

// BitLength is the number of meaningful bits.
func (f FailureInfo) BitLength() int {
	return len(f.bits)*8 - int(f.unused)
}

// Bytes returns a copy of the bit content.
func (f FailureInfo) Bytes() []byte {
	return append([]byte(nil), f.bits...)
}

// UnusedBits returns the number of unused bits in the final octet.
func (f FailureInfo) UnusedBits() int {
	return int(f.unused)
}

func (f FailureInfo) bit(position int) bool {
	if position < 0 || position >= f.BitLength() {
		return false
	}
	return f.bits[position/8]&(0x80>>uint(position%8)) != 0
}

// Has returns true if the flag's bit is set.
func (f FailureInfo) Has(flag FailureFlag) bool {
	return f.bit(int(flag))
}

// Flags returns the named flags that are set, in bit order.
func (f FailureInfo) Flags() []FailureFlag {
	ret := []FailureFlag{}
	for _, flag := range failureFlags {
		if f.Has(flag) {
			ret = append(ret, flag)
		}
	}
	return ret
}

// Unknown returns the positions of set bits that have no name. They are
// carried along untouched.
func (f FailureInfo) Unknown() []int {
	ret := []int{}
	for position := 0; position < f.BitLength(); position++ {
		if f.bit(position) && !FailureFlag(position).Known() {
			ret = append(ret, position)
		}
	}
	return ret
}

// Equal compares the literal content, not just the set flags.
func (f FailureInfo) Equal(other FailureInfo) bool {
	return f.unused == other.unused && bytes.Equal(f.bits, other.bits)
}

func (f FailureInfo) String() string {
	names := []string{}
	for _, flag := range f.Flags() {
		names = append(names, flag.String())
	}
	for _, position := range f.Unknown() {
		names = append(names, FailureFlag(position).String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// vim: foldmethod=marker
