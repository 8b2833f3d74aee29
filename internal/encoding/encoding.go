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

package encoding

import (
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// Every DER value on the wire is an identifier octet, a dynamic length
// header, and then that many bytes of content. Only the low tag number form
// is understood, and only definite lengths of up to four length octets.

// Header is the identifier and length octets in front of a value.
type Header struct {
	Tag    asn1.Tag
	Length int

	// Number of bytes taken up by the identifier and length octets.
	Size int
}

// Element is a single value read out of a Reader, with enough bookkeeping
// to point back into the original input.
type Element struct {
	Header

	// Absolute offset of the identifier octet.
	Offset int

	// Content octets, aliasing the input.
	Body []byte

	// Identifier, length and content octets, aliasing the input.
	Full []byte
}

// BodyOffset is the absolute offset of the first content octet.
func (e Element) BodyOffset() int {
	return e.Offset + e.Size
}

// HeaderError is returned when the identifier or length octets can't be
// read, or declare more content than there is input left.
type HeaderError struct {
	Offset    int
	Msg       string
	Truncated bool
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("encoding: %s at offset %d", e.Msg, e.Offset)
}

// Reader walks a run of values. Offsets it reports are absolute, relative
// to the base it was created with, so nested Readers agree with the
// outermost one.
type Reader struct {
	s    cryptobyte.String
	base int
	size int
}

// NewReader creates a Reader over data, where data[0] lives at absolute
// offset base.
func NewReader(data []byte, base int) *Reader {
	return &Reader{s: cryptobyte.String(data), base: base, size: len(data)}
}

// Offset of the next unread byte.
func (r *Reader) Offset() int {
	return r.base + r.size - len(r.s)
}

func (r *Reader) Empty() bool {
	return r.s.Empty()
}

func (r *Reader) Remaining() int {
	return len(r.s)
}

// Rest returns the unread bytes.
func (r *Reader) Rest() []byte {
	return []byte(r.s)
}

// PeekTag returns the identifier octet of the next value without consuming
// anything. The second return is false when the Reader is empty.
func (r *Reader) PeekTag() (asn1.Tag, bool) {
	if r.s.Empty() {
		return 0, false
	}
	return asn1.Tag(r.s[0]), true
}

func (r *Reader) headerError(offset int, truncated bool, format string, args ...interface{}) error {
	return &HeaderError{Offset: offset, Msg: fmt.Sprintf(format, args...), Truncated: truncated}
}

// ReadHeader consumes the identifier and length octets of the next value.
// Long form lengths that could have been written shorter are accepted,
// since they are still valid BER.
func (r *Reader) ReadHeader() (Header, error) {
	start := r.Offset()

	var tag uint8
	if !r.s.ReadUint8(&tag) {
		return Header{}, r.headerError(start, true, "missing identifier octet")
	}
	if tag&0x1f == 0x1f {
		return Header{}, r.headerError(start, false, "high tag number form is not supported")
	}

	var first uint8
	if !r.s.ReadUint8(&first) {
		return Header{}, r.headerError(start, true, "missing length octet")
	}

	length := 0
	switch {
	case first < 0x80:
		length = int(first)
	case first == 0x80:
		return Header{}, r.headerError(start, false, "indefinite length is not permitted in DER")
	case first == 0xff:
		return Header{}, r.headerError(start, false, "reserved length octet 0xff")
	default:
		count := int(first & 0x7f)
		if count > 4 {
			return Header{}, r.headerError(start, false, "length of %d octets is too large", count)
		}
		var lengthBytes []byte
		if !r.s.ReadBytes(&lengthBytes, count) {
			return Header{}, r.headerError(start, true, "truncated length octets")
		}
		for _, b := range lengthBytes {
			length = length<<8 | int(b)
		}
	}

	if length > len(r.s) {
		return Header{}, r.headerError(
			start, true, "declared length %d exceeds the %d bytes remaining",
			length, len(r.s),
		)
	}

	return Header{
		Tag:    asn1.Tag(tag),
		Length: length,
		Size:   r.Offset() - start,
	}, nil
}

// ReadElement consumes one complete value.
func (r *Reader) ReadElement() (Element, error) {
	offset := r.Offset()
	full := []byte(r.s)

	header, err := r.ReadHeader()
	if err != nil {
		return Element{}, err
	}

	var body []byte
	if !r.s.ReadBytes(&body, header.Length) {
		// ReadHeader already checked this, but don't trust it.
		return Element{}, r.headerError(offset, true, "truncated content")
	}

	return Element{
		Header: header,
		Offset: offset,
		Body:   body,
		Full:   full[:header.Size+header.Length],
	}, nil
}

// ParseInteger decodes the content octets of an INTEGER. The encoding must
// be minimal: no leading 0x00 in front of a positive byte, no leading 0xff
// in front of a negative one.
func ParseInteger(body []byte) (*big.Int, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("empty INTEGER")
	}
	if len(body) > 1 {
		if (body[0] == 0x00 && body[1]&0x80 == 0) || (body[0] == 0xff && body[1]&0x80 == 0x80) {
			return nil, fmt.Errorf("INTEGER is not minimally encoded")
		}
	}

	value := new(big.Int).SetBytes(body)
	if body[0]&0x80 == 0x80 {
		// Two's complement: subtract 2^(8*len).
		offset := new(big.Int).Lsh(big.NewInt(1), uint(len(body))*8)
		value.Sub(value, offset)
	}
	return value, nil
}

// SplitBitString breaks the content octets of a BIT STRING into the
// unused bit count and the bit content. Validation of the two is left to
// the caller.
func SplitBitString(body []byte) (int, []byte, error) {
	if len(body) == 0 {
		return 0, nil, fmt.Errorf("BIT STRING is missing its unused bit count")
	}
	return int(body[0]), body[1:], nil
}

// AddBitString writes a BIT STRING with the given unused bit count and
// literal bit content. cryptobyte's own AddASN1BitString can only write
// whole octets.
func AddBitString(b *cryptobyte.Builder, tag asn1.Tag, unusedBits uint8, bits []byte) {
	b.AddASN1(tag, func(b *cryptobyte.Builder) {
		b.AddUint8(unusedBits)
		b.AddBytes(bits)
	})
}

// AddString writes a primitive string type, such as a UTF8String.
func AddString(b *cryptobyte.Builder, tag asn1.Tag, value string) {
	b.AddASN1(tag, func(b *cryptobyte.Builder) {
		b.AddBytes([]byte(value))
	})
}

var tagNames = map[asn1.Tag]string{
	asn1.BOOLEAN:           "BOOLEAN",
	asn1.INTEGER:           "INTEGER",
	asn1.BIT_STRING:        "BIT STRING",
	asn1.OCTET_STRING:      "OCTET STRING",
	asn1.NULL:              "NULL",
	asn1.OBJECT_IDENTIFIER: "OBJECT IDENTIFIER",
	asn1.ENUM:              "ENUMERATED",
	asn1.UTF8String:        "UTF8String",
	asn1.SEQUENCE:          "SEQUENCE",
	asn1.SET:               "SET",
	asn1.PrintableString:   "PrintableString",
	asn1.T61String:         "T61String",
	asn1.IA5String:         "IA5String",
	asn1.UTCTime:           "UTCTime",
	asn1.GeneralizedTime:   "GeneralizedTime",
	asn1.GeneralString:     "GeneralString",
}

// TagName returns a human readable name for a tag, for error messages.
func TagName(tag asn1.Tag) string {
	if name, ok := tagNames[tag]; ok {
		return name
	}

	class := "UNIVERSAL"
	switch tag & 0xc0 {
	case 0x40:
		class = "APPLICATION"
	case 0x80:
		class = "CONTEXT"
	case 0xc0:
		class = "PRIVATE"
	}
	form := ""
	if tag&0x20 != 0 {
		form = " constructed"
	}
	return fmt.Sprintf("[%s %d%s]", class, int(tag&0x1f), form)
}

// vim: foldmethod=marker
