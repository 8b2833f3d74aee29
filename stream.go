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
	"pault.ag/go/pkistatus/internal/bytearray"
)

// Scanner walks a run of concatenated PKIStatusInfo values, decoding them
// one at a time. A record that is framed correctly but fails to decode is
// reported through Err and skipped, and the scan carries on with the next
// one. A broken frame stops the scan, since nothing after it can be found;
// that is reported through FramingErr.
//
//	scanner := pkistatus.NewScanner(data)
//	for scanner.Scan() {
//		if err := scanner.Err(); err != nil {
//			log.Printf("record %d: %s", scanner.Index(), err)
//			continue
//		}
//		fmt.Println(scanner.Record())
//	}
//	if err := scanner.FramingErr(); err != nil {
//		...
//	}
type Scanner struct {
	frames     [][]byte
	offsets    []int
	framingErr error

	index  int
	record *StatusInfo
	err    error
}

// NewScanner creates a Scanner over data. The data must not be changed while
// the Scanner is in use.
func NewScanner(data []byte) *Scanner {
	frames, err := bytearray.Split(data)

	offsets := make([]int, len(frames))
	offset := 0
	for i, frame := range frames {
		offsets[i] = offset
		offset += len(frame)
	}

	return &Scanner{
		frames:     frames,
		offsets:    offsets,
		framingErr: fromHeaderError(err, StatusInfoSchema().Name()),
		index:      -1,
	}
}

// Scan moves to the next record, returning false once there are none left.
func (s *Scanner) Scan() bool {
	s.record, s.err = nil, nil
	if s.index+1 >= len(s.frames) {
		s.index = len(s.frames)
		return false
	}
	s.index++

	info, _, err := decodeAt(s.frames[s.index], s.offsets[s.index])
	if err != nil {
		s.err = err
		return true
	}
	s.record = info
	return true
}

// Record is the current record, or nil if it failed to decode.
func (s *Scanner) Record() *StatusInfo {
	return s.record
}

// Err is the decode error for the current record, if any.
func (s *Scanner) Err() error {
	return s.err
}

// Index of the current record, counting from zero.
func (s *Scanner) Index() int {
	return s.index
}

// Offset of the current record in the scanned data.
func (s *Scanner) Offset() int {
	if s.index < 0 || s.index >= len(s.offsets) {
		return -1
	}
	return s.offsets[s.index]
}

// FramingErr is the error that stopped the scan early, if any. It is known
// as soon as the Scanner is created, but is only interesting once Scan has
// returned false.
func (s *Scanner) FramingErr() error {
	return s.framingErr
}

// EncodeAll encodes each record and concatenates the results, in a form that
// a Scanner can read back.
func EncodeAll(records ...*StatusInfo) ([]byte, error) {
	encoded := make([][]byte, 0, len(records))
	for _, record := range records {
		der, err := record.Encode()
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, der)
	}
	return bytearray.Join(encoded...), nil
}

// vim: foldmethod=marker
