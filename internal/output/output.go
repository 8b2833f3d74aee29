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

package output

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"pault.ag/go/pkistatus"
)

// Format is how records are printed.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat checks a format name from the command line.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case Text, JSON, YAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json or yaml)", name)
}

type Options struct {
	Format  Format
	NoColor bool
}

// FailInfo is the printable form of a PKIFailureInfo.
type FailInfo struct {
	Flags      []string `json:"flags" yaml:"flags"`
	Unknown    []int    `json:"unknownBits,omitempty" yaml:"unknownBits,omitempty"`
	Bits       string   `json:"bits" yaml:"bits"`
	UnusedBits int      `json:"unusedBits" yaml:"unusedBits"`
}

// Record is the printable form of one scanned PKIStatusInfo. Absent
// optional fields are nil and left out; present but empty ones are kept.
type Record struct {
	Index  int `json:"index" yaml:"index"`
	Offset int `json:"offset" yaml:"offset"`

	Status        string    `json:"status,omitempty" yaml:"status,omitempty"`
	StatusCode    *int      `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	StatusStrings *[]string `json:"statusStrings,omitempty" yaml:"statusStrings,omitempty"`
	FailInfo      *FailInfo `json:"failInfo,omitempty" yaml:"failInfo,omitempty"`

	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewRecord builds the printable form of info. If err is set, info is
// ignored and only the error is reported.
func NewRecord(index, offset int, info *pkistatus.StatusInfo, err error) Record {
	record := Record{Index: index, Offset: offset}
	if err != nil {
		record.Error = err.Error()
		return record
	}

	code := int(info.Status())
	record.Status = info.Status().String()
	record.StatusCode = &code

	if strs, ok := info.StatusStrings(); ok {
		record.StatusStrings = &strs
	}

	if failInfo, ok := info.FailureInfo(); ok {
		flags := []string{}
		for _, flag := range failInfo.Flags() {
			flags = append(flags, flag.String())
		}
		record.FailInfo = &FailInfo{
			Flags:      flags,
			Unknown:    failInfo.Unknown(),
			Bits:       hex.EncodeToString(failInfo.Bytes()),
			UnusedBits: failInfo.UnusedBits(),
		}
	}
	return record
}

// Print writes records to w in the requested format.
func Print(w io.Writer, records []Record, opts Options) error {
	switch opts.Format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	case Text, "":
		return newPrinter(opts).print(w, records)
	}
	return fmt.Errorf("unknown format %q", opts.Format)
}

type printer struct {
	header *color.Color
	label  *color.Color
	value  *color.Color
	dim    *color.Color
	good   *color.Color
	bad    *color.Color
}

func newPrinter(opts Options) printer {
	p := printer{
		header: color.New(color.FgCyan, color.Bold),
		label:  color.New(color.FgYellow),
		value:  color.New(color.FgWhite),
		dim:    color.New(color.Faint),
		good:   color.New(color.FgGreen),
		bad:    color.New(color.FgRed),
	}
	if opts.NoColor {
		for _, c := range []*color.Color{p.header, p.label, p.value, p.dim, p.good, p.bad} {
			c.DisableColor()
		}
	}
	return p
}

func (p printer) field(w io.Writer, name string, c *color.Color, format string, args ...interface{}) {
	p.label.Fprintf(w, "  %-14s", name+":")
	c.Fprintf(w, format, args...)
	fmt.Fprintln(w)
}

func (p printer) print(w io.Writer, records []Record) error {
	for i, record := range records {
		if i > 0 {
			fmt.Fprintln(w)
		}
		p.header.Fprintf(w, "PKIStatusInfo #%d", record.Index)
		p.dim.Fprintf(w, " (offset %d)\n", record.Offset)

		if record.Error != "" {
			p.field(w, "error", p.bad, "%s", record.Error)
			continue
		}

		statusColor := p.bad
		if record.Status == pkistatus.Granted.String() || record.Status == pkistatus.GrantedWithMods.String() {
			statusColor = p.good
		}
		p.field(w, "status", statusColor, "%s (%d)", record.Status, *record.StatusCode)

		if record.StatusStrings == nil {
			p.field(w, "statusString", p.dim, "absent")
		} else if len(*record.StatusStrings) == 0 {
			p.field(w, "statusString", p.dim, "present, empty")
		} else {
			for i, str := range *record.StatusStrings {
				p.field(w, "statusString", p.value, "[%d] %q", i, str)
			}
		}

		if record.FailInfo == nil {
			p.field(w, "failInfo", p.dim, "absent")
			continue
		}
		names := append([]string{}, record.FailInfo.Flags...)
		for _, position := range record.FailInfo.Unknown {
			names = append(names, pkistatus.FailureFlag(position).String())
		}
		flags := "none"
		if len(names) > 0 {
			flags = strings.Join(names, ", ")
		}
		p.field(w, "failInfo", p.value, "%s", flags)
		bits := record.FailInfo.Bits
		if bits == "" {
			bits = "no bits"
		}
		p.dim.Fprintf(w, "  %-14s%s, %d unused\n", "", bits, record.FailInfo.UnusedBits)
	}
	return nil
}

// vim: foldmethod=marker
