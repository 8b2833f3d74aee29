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
	"sync"

	"golang.org/x/crypto/cryptobyte/asn1"

	"pault.ag/go/pkistatus/internal/encoding"
)

// FieldKind is the encoding rule used for a field.
type FieldKind int

const (
	// INTEGER
	FieldInteger FieldKind = iota

	// SEQUENCE OF UTF8String
	FieldSequenceOfUTF8String

	// BIT STRING
	FieldBitString
)

func (k FieldKind) String() string {
	switch k {
	case FieldInteger:
		return "INTEGER"
	case FieldSequenceOfUTF8String:
		return "SEQUENCE OF UTF8String"
	case FieldBitString:
		return "BIT STRING"
	}
	return "unknown"
}

// Field describes one member of the SEQUENCE.
type Field struct {
	// ASN.1 name of the field, like "statusString".
	Name string

	// Tag the field is encoded with. For optional fields, this is also how
	// the decoder tells whether the field is present.
	Tag asn1.Tag

	// Tag of each element, for FieldSequenceOfUTF8String only.
	ElementTag asn1.Tag

	Kind     FieldKind
	Optional bool
}

func (f Field) String() string {
	ret := f.Name + " " + f.Kind.String() + " [" + encoding.TagName(f.Tag) + "]"
	if f.Optional {
		ret += " OPTIONAL"
	}
	return ret
}

// Schema is the fixed layout of the PKIStatusInfo SEQUENCE. It is immutable
// once built, so it can be shared between goroutines without locking.
type Schema struct {
	name   string
	tag    asn1.Tag
	fields []Field
}

// Name of the structure.
func (s *Schema) Name() string {
	return s.name
}

// Tag of the outer SEQUENCE.
func (s *Schema) Tag() asn1.Tag {
	return s.tag
}

// Fields returns the members in the order they appear on the wire.
func (s *Schema) Fields() []Field {
	return append([]Field{}, s.fields...)
}

// Field looks a member up by its ASN.1 name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, field := range s.fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

func (s *Schema) StatusField() Field {
	return s.fields[0]
}

func (s *Schema) StatusStringField() Field {
	return s.fields[1]
}

func (s *Schema) FailInfoField() Field {
	return s.fields[2]
}

var (
	statusInfoSchema     *Schema
	statusInfoSchemaOnce sync.Once
)

// StatusInfoSchema returns the layout of PKIStatusInfo:
//
//	PKIStatusInfo ::= SEQUENCE {
//	    status        PKIStatus,
//	    statusString  PKIFreeText     OPTIONAL,
//	    failInfo      PKIFailureInfo  OPTIONAL }
//
// It is built the first time it's asked for and never changes after that.
func StatusInfoSchema() *Schema {
	statusInfoSchemaOnce.Do(func() {
		statusInfoSchema = &Schema{
			name: "PKIStatusInfo",
			tag:  asn1.SEQUENCE,
			fields: []Field{
				{
					Name: "status",
					Tag:  asn1.INTEGER,
					Kind: FieldInteger,
				},
				{
					Name:       "statusString",
					Tag:        asn1.SEQUENCE,
					ElementTag: asn1.UTF8String,
					Kind:       FieldSequenceOfUTF8String,
					Optional:   true,
				},
				{
					Name:     "failInfo",
					Tag:      asn1.BIT_STRING,
					Kind:     FieldBitString,
					Optional: true,
				},
			},
		}
	})
	return statusInfoSchema
}

// vim: foldmethod=marker
