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
	"unicode/utf8"

	"pault.ag/go/pkistatus/internal/encoding"
)

// Decode parses exactly one DER encoded PKIStatusInfo. Any bytes after the
// end of the SEQUENCE are a StructuralError.
func Decode(der []byte) (*StatusInfo, error) {
	info, rest, err := DecodePrefix(der)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, structuralError(
			len(der)-len(rest), "", "%d trailing bytes after %s",
			len(rest), StatusInfoSchema().Name(),
		)
	}
	return info, nil
}

// DecodePrefix parses the PKIStatusInfo at the start of data, and returns
// whatever follows it.
func DecodePrefix(data []byte) (*StatusInfo, []byte, error) {
	return decodeAt(data, 0)
}

// decodeAt does the work for DecodePrefix; base is the absolute offset of
// data[0], for error messages.
func decodeAt(data []byte, base int) (*StatusInfo, []byte, error) {
	schema := StatusInfoSchema()
	reader := encoding.NewReader(data, base)

	if tag, ok := reader.PeekTag(); ok && tag != schema.Tag() {
		return nil, nil, tagMismatch(reader.Offset(), schema.Name(), schema.Tag(), tag)
	}
	outer, err := reader.ReadElement()
	if err != nil {
		return nil, nil, fromHeaderError(err, schema.Name())
	}

	body := encoding.NewReader(outer.Body, outer.BodyOffset())

	status, err := decodeStatus(body, schema.StatusField())
	if err != nil {
		return nil, nil, err
	}
	info := StatusInfo{status: status}

	// The optional fields have to show up in schema order, and are told
	// apart by tag alone.
	field := schema.StatusStringField()
	if tag, ok := body.PeekTag(); ok && tag == field.Tag {
		strs, err := decodeFreeText(body, field)
		if err != nil {
			return nil, nil, err
		}
		info.statusStrings = strs
		info.hasStatusStrings = true
	}

	field = schema.FailInfoField()
	if tag, ok := body.PeekTag(); ok && tag == field.Tag {
		failInfo, err := decodeFailInfo(body, field)
		if err != nil {
			return nil, nil, err
		}
		info.failInfo = failInfo
		info.hasFailInfo = true
	}

	if tag, ok := body.PeekTag(); ok {
		return nil, nil, structuralError(
			body.Offset(), schema.Name(),
			"unexpected %s after the last field, %d bytes left in the SEQUENCE",
			encoding.TagName(tag), body.Remaining(),
		)
	}

	return &info, reader.Rest(), nil
}

func decodeStatus(reader *encoding.Reader, field Field) (Status, error) {
	tag, ok := reader.PeekTag()
	if !ok {
		return 0, structuralError(reader.Offset(), field.Name, "mandatory field is missing")
	}
	if tag != field.Tag {
		return 0, tagMismatch(reader.Offset(), field.Name, field.Tag, tag)
	}

	el, err := reader.ReadElement()
	if err != nil {
		return 0, fromHeaderError(err, field.Name)
	}
	value, err := encoding.ParseInteger(el.Body)
	if err != nil {
		return 0, structuralError(el.Offset, field.Name, "%s", err)
	}

	if !value.IsInt64() {
		return 0, valueError(el.Offset, field.Name, "status code %s is not defined", value.String())
	}
	status, err := StatusFromInt64(value.Int64())
	if err != nil {
		return 0, valueError(el.Offset, field.Name, "status code %s is not defined", value.String())
	}
	return status, nil
}

func decodeFreeText(reader *encoding.Reader, field Field) ([]string, error) {
	el, err := reader.ReadElement()
	if err != nil {
		return nil, fromHeaderError(err, field.Name)
	}

	strs := []string{}
	elements := encoding.NewReader(el.Body, el.BodyOffset())
	for !elements.Empty() {
		str, err := elements.ReadElement()
		if err != nil {
			return nil, fromHeaderError(err, field.Name)
		}
		if str.Tag != field.ElementTag {
			err := valueError(str.Offset, field.Name, "element %d is not a %s",
				len(strs), encoding.TagName(field.ElementTag))
			err.Expected = field.ElementTag
			err.Found = str.Tag
			err.Tagged = true
			return nil, err
		}
		if !utf8.Valid(str.Body) {
			return nil, valueError(str.Offset, field.Name, "element %d is not valid UTF-8", len(strs))
		}
		strs = append(strs, string(str.Body))
	}
	return strs, nil
}

func decodeFailInfo(reader *encoding.Reader, field Field) (FailureInfo, error) {
	el, err := reader.ReadElement()
	if err != nil {
		return FailureInfo{}, fromHeaderError(err, field.Name)
	}

	unusedBits, bits, err := encoding.SplitBitString(el.Body)
	if err != nil {
		return FailureInfo{}, valueError(el.Offset, field.Name, "%s", err)
	}
	if problem := checkBits(bits, unusedBits); problem != "" {
		return FailureInfo{}, valueError(el.Offset, field.Name, "%s", problem)
	}
	return FailureInfo{
		bits:   append([]byte(nil), bits...),
		unused: uint8(unusedBits),
	}, nil
}

// vim: foldmethod=marker
