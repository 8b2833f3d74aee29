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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/cryptobyte/asn1"

	"pault.ag/go/pkistatus"
)

func TestSchemaLayout(t *testing.T) {
	schema := pkistatus.StatusInfoSchema()
	assert.Equal(t, "PKIStatusInfo", schema.Name())
	assert.Equal(t, asn1.SEQUENCE, schema.Tag())

	fields := schema.Fields()
	require.Len(t, fields, 3)

	assert.Equal(t, "status", fields[0].Name)
	assert.Equal(t, asn1.INTEGER, fields[0].Tag)
	assert.False(t, fields[0].Optional)

	assert.Equal(t, "statusString", fields[1].Name)
	assert.Equal(t, asn1.SEQUENCE, fields[1].Tag)
	assert.Equal(t, asn1.UTF8String, fields[1].ElementTag)
	assert.True(t, fields[1].Optional)

	assert.Equal(t, "failInfo", fields[2].Name)
	assert.Equal(t, asn1.BIT_STRING, fields[2].Tag)
	assert.True(t, fields[2].Optional)

	assert.Equal(t, "failInfo BIT STRING [BIT STRING] OPTIONAL", fields[2].String())
}

func TestSchemaCannotBeChanged(t *testing.T) {
	schema := pkistatus.StatusInfoSchema()
	fields := schema.Fields()
	fields[0].Tag = asn1.OCTET_STRING

	assert.Equal(t, asn1.INTEGER, schema.StatusField().Tag)
	assert.Same(t, schema, pkistatus.StatusInfoSchema())

	field, ok := schema.Field("statusString")
	require.True(t, ok)
	assert.Equal(t, schema.StatusStringField(), field)

	_, ok = schema.Field("timeStampToken")
	assert.False(t, ok)
}

func TestConcurrentDecode(t *testing.T) {
	der := fromHex(t, "30 11 02 01 02 30 05 0c 03 62 61 64 03 05 06 00 00 00 40")

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			info, err := pkistatus.Decode(der)
			if err != nil {
				errs <- err
				return
			}
			if _, err := info.Encode(); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

// vim: foldmethod=marker
