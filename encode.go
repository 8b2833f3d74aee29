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

	"golang.org/x/crypto/cryptobyte"

	"pault.ag/go/pkistatus/internal/encoding"
)

// Encode a StatusInfo into its DER form. Optional fields that aren't
// present are left out entirely; a present but empty statusString is
// written as an empty SEQUENCE.
func (s *StatusInfo) Encode() ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("pkistatus: can't encode a nil StatusInfo")
	}

	schema := StatusInfoSchema()
	b := cryptobyte.NewBuilder(nil)
	b.AddASN1(schema.Tag(), func(b *cryptobyte.Builder) {
		for _, field := range schema.Fields() {
			switch field.Kind {
			case FieldInteger:
				b.AddASN1Int64WithTag(int64(s.status), field.Tag)
			case FieldSequenceOfUTF8String:
				if !s.hasStatusStrings {
					continue
				}
				b.AddASN1(field.Tag, func(b *cryptobyte.Builder) {
					for _, str := range s.statusStrings {
						encoding.AddString(b, field.ElementTag, str)
					}
				})
			case FieldBitString:
				if !s.hasFailInfo {
					continue
				}
				encoding.AddBitString(b, field.Tag, s.failInfo.unused, s.failInfo.bits)
			}
		}
	})
	return b.Bytes()
}

// MarshalBinary encodes the record to DER.
// This method implements encoding.BinaryMarshaler
func (s *StatusInfo) MarshalBinary() ([]byte, error) {
	return s.Encode()
}

// Marshal encodes info to DER.
func Marshal(info *StatusInfo) ([]byte, error) {
	return info.Encode()
}

// vim: foldmethod=marker
