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

package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	err := app.Run(append([]string{"pkistatus"}, args...))
	return buf.String(), err
}

func TestEncodeCommand(t *testing.T) {
	out, err := run(t, "encode", "--status", "rejection", "--fail", "badAlg", "--fail", "badRequest")
	require.NoError(t, err)
	assert.Equal(t, "3007020102030205a0\n", out)

	out, err = run(t, "encode", "--empty-text", "--output-encoding", "base64")
	require.NoError(t, err)
	assert.Equal(t, "MAUCAQAwAA==\n", out)
}

func TestEncodeCommandErrors(t *testing.T) {
	_, err := run(t, "encode", "--status", "maybe")
	assert.Error(t, err)

	_, err = run(t, "encode", "--fail", "badVibes")
	assert.Error(t, err)
}

func TestDecodeCommand(t *testing.T) {
	out, err := run(t, "--no-color", "decode", "30 11 02 01 02 30 05 0c 03 62 61 64 03 05 06 00 00 00 40")
	require.NoError(t, err)
	assert.Contains(t, out, "rejection (2)")
	assert.Contains(t, out, `"bad"`)
	assert.Contains(t, out, "systemFailure")
}

func TestDecodeCommandJSON(t *testing.T) {
	out, err := run(t, "decode", "--format", "json", "30030201003003020106")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 records failed")

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "granted", records[0]["status"])
	assert.Contains(t, records[1]["error"], "Unexpected Value")
}

func TestDecodeCommandFraming(t *testing.T) {
	_, err := run(t, "decode", "--input-encoding", "hex", "3003020100300902")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input framing")
}

func TestFlagsCommand(t *testing.T) {
	out, err := run(t, "flags")
	require.NoError(t, err)
	assert.Contains(t, out, "revocationNotification")
	assert.Contains(t, out, "25  systemFailure")
	assert.Contains(t, out, "PKIStatusInfo ::= SEQUENCE {")
}

// vim: foldmethod=marker
