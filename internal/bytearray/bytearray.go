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

package bytearray

import (
	"pault.ag/go/pkistatus/internal/encoding"
)

// Take some DER values, and return the concatenation of all of them. It's
// basically like append, but for a list of encoded values.
func Join(els ...[]byte) []byte {
	out := []byte{}
	for _, el := range els {
		out = append(out, el...)
	}
	return out
}

// Split a run of concatenated DER values into one slice per value, without
// looking inside any of them. The returned slices alias data.
//
// If a value's header is broken, the values framed before it are returned
// along with the error, since everything after it can't be located.
func Split(data []byte) ([][]byte, error) {
	ret := [][]byte{}
	reader := encoding.NewReader(data, 0)
	for !reader.Empty() {
		el, err := reader.ReadElement()
		if err != nil {
			return ret, err
		}
		ret = append(ret, el.Full)
	}
	return ret, nil
}

// vim: foldmethod=marker
