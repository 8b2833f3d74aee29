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

package pkistatus_test

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pault.ag/go/pkistatus"
)

func fromHex(t *testing.T, s string) []byte {
	t.Helper()
	data, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	require.NoError(t, err)
	return data
}

// DER encodings that are canonical, and so must survive a decode/encode
// cycle byte for byte.
var canonicalFixtures = []struct {
	name string
	der  string
}{
	{"granted", "30 03 02 01 00"},
	{"rejection badAlg badRequest", "30 07 02 01 02 03 02 05 a0"},
	{"one status string", "30 09 02 01 00 30 04 0c 02 6f 6b"},
	{"empty status strings", "30 05 02 01 00 30 00"},
	{"everything", "30 11 02 01 02 30 05 0c 03 62 61 64 03 05 06 00 00 00 40"},
	{"unnamed bit", "30 08 02 01 02 03 03 05 00 20"},
	{"trailing zero bits kept", "30 07 02 01 02 03 02 00 80"},
	{"empty failInfo", "30 06 02 01 02 03 01 00"},
	{"waiting", "30 03 02 01 03"},
}

func TestDecodeGranted(t *testing.T) {
	info, err := pkistatus.Decode(fromHex(t, "30 03 02 01 00"))
	require.NoError(t, err)

	assert.Equal(t, pkistatus.Granted, info.Status())
	assert.True(t, info.Granted())

	strs, ok := info.StatusStrings()
	assert.False(t, ok)
	assert.Nil(t, strs)

	_, ok = info.FailureInfo()
	assert.False(t, ok)
}

func TestDecodeRejection(t *testing.T) {
	info, err := pkistatus.Decode(fromHex(t, "30 07 02 01 02 03 02 05 a0"))
	require.NoError(t, err)

	assert.Equal(t, pkistatus.Rejection, info.Status())
	assert.False(t, info.Granted())

	failInfo, ok := info.FailureInfo()
	require.True(t, ok)
	assert.Equal(t, []pkistatus.FailureFlag{pkistatus.BadAlg, pkistatus.BadRequest}, failInfo.Flags())
	for _, flag := range pkistatus.FailureFlags() {
		if flag == pkistatus.BadAlg || flag == pkistatus.BadRequest {
			continue
		}
		assert.False(t, failInfo.Has(flag), "%s should be clear", flag)
	}
	assert.Empty(t, failInfo.Unknown())
}

func TestDecodeEverything(t *testing.T) {
	info, err := pkistatus.Decode(fromHex(t, "30 11 02 01 02 30 05 0c 03 62 61 64 03 05 06 00 00 00 40"))
	require.NoError(t, err)

	strs, ok := info.StatusStrings()
	require.True(t, ok)
	assert.Equal(t, []string{"bad"}, strs)

	failInfo, ok := info.FailureInfo()
	require.True(t, ok)
	assert.Equal(t, []pkistatus.FailureFlag{pkistatus.SystemFailure}, failInfo.Flags())
	assert.Equal(t, 6, failInfo.UnusedBits())
	assert.Equal(t, 26, failInfo.BitLength())
}

func TestDecodeAbsentVersusEmpty(t *testing.T) {
	absent, err := pkistatus.Decode(fromHex(t, "30 03 02 01 00"))
	require.NoError(t, err)
	empty, err := pkistatus.Decode(fromHex(t, "30 05 02 01 00 30 00"))
	require.NoError(t, err)

	_, ok := absent.StatusStrings()
	assert.False(t, ok)

	strs, ok := empty.StatusStrings()
	assert.True(t, ok)
	assert.Empty(t, strs)

	assert.False(t, absent.Equal(empty))

	absentDER, err := absent.Encode()
	require.NoError(t, err)
	emptyDER, err := empty.Encode()
	require.NoError(t, err)
	assert.Equal(t, fromHex(t, "30 03 02 01 00"), absentDER)
	assert.Equal(t, fromHex(t, "30 05 02 01 00 30 00"), emptyDER)
}

func TestDecodeUnnamedBitsArePreserved(t *testing.T) {
	info, err := pkistatus.Decode(fromHex(t, "30 08 02 01 02 03 03 05 00 20"))
	require.NoError(t, err)

	failInfo, ok := info.FailureInfo()
	require.True(t, ok)
	assert.Empty(t, failInfo.Flags())
	assert.Equal(t, []int{10}, failInfo.Unknown())
}

func TestDecodeNonMinimalLength(t *testing.T) {
	// BER allows the long form here, DER doesn't. It decodes, and comes
	// back out in the short form.
	info, err := pkistatus.Decode(fromHex(t, "30 81 03 02 01 00"))
	require.NoError(t, err)
	assert.Equal(t, pkistatus.Granted, info.Status())

	der, err := info.Encode()
	require.NoError(t, err)
	assert.Equal(t, fromHex(t, "30 03 02 01 00"), der)
}

func TestDecodePrefix(t *testing.T) {
	info, rest, err := pkistatus.DecodePrefix(fromHex(t, "30 03 02 01 01 ca fe"))
	require.NoError(t, err)
	assert.Equal(t, pkistatus.GrantedWithMods, info.Status())
	assert.Equal(t, []byte{0xca, 0xfe}, rest)
}

func TestDecodeErrors(t *testing.T) {
	for _, test := range []struct {
		name   string
		der    string
		kind   pkistatus.Error
		offset int
	}{
		{"empty input", "", pkistatus.StructuralError, 0},
		{"not a sequence", "31 03 02 01 00", pkistatus.StructuralError, 0},
		{"length past the end", "30 05 02 01 00", pkistatus.StructuralError, 0},
		{"indefinite length", "30 80 02 01 00 00 00", pkistatus.StructuralError, 0},
		{"high tag number", "3f 01 00", pkistatus.StructuralError, 0},
		{"missing status", "30 00", pkistatus.StructuralError, 2},
		{"status is not an INTEGER", "30 03 04 01 00", pkistatus.StructuralError, 2},
		{"status not minimal", "30 04 02 02 00 01", pkistatus.StructuralError, 2},
		{"empty status", "30 02 02 00", pkistatus.StructuralError, 2},
		{"status too big", "30 03 02 01 06", pkistatus.UnexpectedValueError, 2},
		{"status negative", "30 03 02 01 ff", pkistatus.UnexpectedValueError, 2},
		{"status huge", "30 0b 02 09 01 00 00 00 00 00 00 00 00", pkistatus.UnexpectedValueError, 2},
		{"unknown trailing field", "30 05 02 01 00 05 00", pkistatus.StructuralError, 5},
		{"fields out of order", "30 09 02 01 02 03 02 05 a0 30 00", pkistatus.StructuralError, 9},
		{"status string twice", "30 07 02 01 00 30 00 30 00", pkistatus.StructuralError, 7},
		{"inner length past the end", "30 05 02 01 00 30 05", pkistatus.StructuralError, 5},
		{"status string not UTF-8", "30 08 02 01 00 30 03 0c 01 ff", pkistatus.UnexpectedValueError, 7},
		{"status string is an IA5String", "30 09 02 01 00 30 04 16 02 6f 6b", pkistatus.UnexpectedValueError, 7},
		{"status string element truncated", "30 07 02 01 00 30 02 0c 05", pkistatus.StructuralError, 7},
		{"unused bits too big", "30 07 02 01 02 03 02 08 00", pkistatus.UnexpectedValueError, 5},
		{"unused bits not zero", "30 07 02 01 02 03 02 05 a1", pkistatus.UnexpectedValueError, 5},
		{"unused bits on empty", "30 06 02 01 02 03 01 03", pkistatus.UnexpectedValueError, 5},
		{"no unused bit count", "30 05 02 01 02 03 00", pkistatus.UnexpectedValueError, 5},
		{"trailing byte", "30 03 02 01 00 00", pkistatus.StructuralError, 5},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := pkistatus.Decode(fromHex(t, test.der))
			require.Error(t, err)
			assert.True(t, errors.Is(err, test.kind), "wrong kind of error: %s", err)

			var decodeErr pkistatus.Error
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, test.offset, decodeErr.Offset, "wrong offset: %s", err)
		})
	}
}

func TestDecodeTagMismatchDetails(t *testing.T) {
	_, err := pkistatus.Decode(fromHex(t, "30 03 04 01 00"))
	require.Error(t, err)

	var decodeErr pkistatus.Error
	require.True(t, errors.As(err, &decodeErr))
	assert.True(t, decodeErr.Tagged)
	assert.Equal(t, "status", decodeErr.Field)
	assert.Contains(t, err.Error(), "expected INTEGER, found OCTET STRING")
	assert.Contains(t, err.Error(), "at offset 2")
}

func TestDecodeTruncated(t *testing.T) {
	for _, fixture := range canonicalFixtures {
		t.Run(fixture.name, func(t *testing.T) {
			der := fromHex(t, fixture.der)
			_, err := pkistatus.Decode(der[:len(der)-1])
			require.Error(t, err)
			assert.True(t, errors.Is(err, pkistatus.StructuralError), "%s", err)
		})
	}
}

func TestDecodeTrailingByte(t *testing.T) {
	for _, fixture := range canonicalFixtures {
		t.Run(fixture.name, func(t *testing.T) {
			der := append(fromHex(t, fixture.der), 0x00)
			_, err := pkistatus.Decode(der)
			require.Error(t, err)
			assert.True(t, errors.Is(err, pkistatus.StructuralError), "%s", err)
		})
	}
}

func TestDecodeDoesNotAliasInput(t *testing.T) {
	der := fromHex(t, "30 07 02 01 02 03 02 05 a0")
	info, err := pkistatus.Decode(der)
	require.NoError(t, err)

	der[8] = 0xff
	failInfo, _ := info.FailureInfo()
	assert.Equal(t, []byte{0xa0}, failInfo.Bytes())
}

// vim: foldmethod=marker
