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

package format

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// Encoding is how DER bytes are carried in a file or on the command line.
type Encoding string

const (
	Auto   Encoding = "auto"
	DER    Encoding = "der"
	Hex    Encoding = "hex"
	Base64 Encoding = "base64"
)

// ParseEncoding checks an encoding name from the command line.
func ParseEncoding(name string) (Encoding, error) {
	switch enc := Encoding(strings.ToLower(name)); enc {
	case Auto, DER, Hex, Base64:
		return enc, nil
	}
	return "", fmt.Errorf("unknown encoding %q (want auto, der, hex or base64)", name)
}

// ReadInput reads input from: a file path, "-" or "" for stdin, or the
// argument itself when it isn't a file.
func ReadInput(input string, stdin io.Reader) ([]byte, error) {
	if input == "-" || input == "" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return b, nil
	}

	if _, err := os.Stat(input); err == nil {
		b, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("reading file %s: %w", input, err)
		}
		return b, nil
	}

	// Treat as a literal hex or base64 string
	return []byte(input), nil
}

// Decode turns raw input into DER bytes. With Auto, text that is entirely
// hex is read as hex, then text that is valid base64 as base64, and
// anything else is taken to be DER already.
func Decode(raw []byte, enc Encoding) ([]byte, error) {
	switch enc {
	case DER:
		return raw, nil
	case Hex:
		return decodeHex(raw)
	case Base64:
		return decodeBase64(raw)
	case Auto:
		if isHex(raw) {
			return decodeHex(raw)
		}
		if b, err := decodeBase64(raw); err == nil && len(b) > 0 {
			return b, nil
		}
		return raw, nil
	}
	return nil, fmt.Errorf("unknown encoding %q", enc)
}

// Encode renders DER bytes for output. Text encodings get a trailing
// newline.
func Encode(der []byte, enc Encoding) ([]byte, error) {
	switch enc {
	case DER, Auto:
		return der, nil
	case Hex:
		return []byte(hex.EncodeToString(der) + "\n"), nil
	case Base64:
		return []byte(base64.StdEncoding.EncodeToString(der) + "\n"), nil
	}
	return nil, fmt.Errorf("unknown encoding %q", enc)
}

func stripSpace(raw []byte) string {
	return strings.Join(strings.Fields(string(raw)), "")
}

func isHex(raw []byte) bool {
	s := stripSpace(raw)
	if s == "" || len(s)%2 != 0 {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}

func decodeHex(raw []byte) ([]byte, error) {
	b, err := hex.DecodeString(stripSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding hex: %w", err)
	}
	return b, nil
}

// decodeBase64 accepts standard and URL-safe alphabets, padded or not.
func decodeBase64(raw []byte) ([]byte, error) {
	s := strings.TrimRight(stripSpace(raw), "=")
	enc := base64.RawStdEncoding
	if strings.ContainsAny(s, "-_") {
		enc = base64.RawURLEncoding
	}
	b, err := enc.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decoding base64: %w", err)
	}
	return b, nil
}

// vim: foldmethod=marker
