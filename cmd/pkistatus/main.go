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
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli"

	"pault.ag/go/pkistatus"
	"pault.ag/go/pkistatus/internal/format"
	"pault.ag/go/pkistatus/internal/output"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "pkistatus"
	app.Usage = "Decode and encode RFC 3161 PKIStatusInfo structures"

	var verbose bool = false
	var noColor bool = false

	var logger *slog.Logger

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:        "verbose",
			Usage:       "Log debugging information to stderr",
			Destination: &verbose,
			EnvVar:      "PKISTATUS_VERBOSE",
		},

		cli.BoolFlag{
			Name:        "no-color",
			Usage:       "Don't color text output",
			Destination: &noColor,
			EnvVar:      "PKISTATUS_NO_COLOR",
		},
	}

	app.Before = func(c *cli.Context) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return nil
	}

	app.Commands = []cli.Command{
		cli.Command{
			Name:      "decode",
			Usage:     "Decode one or more concatenated PKIStatusInfo values",
			ArgsUsage: "[FILE | - | HEX | BASE64]",
			Action: func(c *cli.Context) error {
				return Decode(c, logger, noColor)
			},
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:   "format",
					Value:  "text",
					Usage:  "Output format: text, json or yaml",
					EnvVar: "PKISTATUS_FORMAT",
				},
				cli.StringFlag{
					Name:   "input-encoding",
					Value:  "auto",
					Usage:  "How the input is encoded: auto, der, hex or base64",
					EnvVar: "PKISTATUS_INPUT_ENCODING",
				},
			},
		},
		cli.Command{
			Name:  "encode",
			Usage: "Build a PKIStatusInfo and write its DER encoding",
			Action: func(c *cli.Context) error {
				return Encode(c, logger)
			},
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "status",
					Value: "granted",
					Usage: "Status name, see the flags command",
				},
				cli.StringSliceFlag{
					Name:  "text",
					Usage: "Status string to include, may be repeated",
				},
				cli.BoolFlag{
					Name:  "empty-text",
					Usage: "Include an empty statusString when no --text is given",
				},
				cli.StringSliceFlag{
					Name:  "fail",
					Usage: "Failure flag to set, may be repeated",
				},
				cli.StringFlag{
					Name:   "output-encoding",
					Value:  "hex",
					Usage:  "How to write the output: der, hex or base64",
					EnvVar: "PKISTATUS_OUTPUT_ENCODING",
				},
			},
		},
		cli.Command{
			Name:  "flags",
			Usage: "List the known status codes and failure flags",
			Action: func(c *cli.Context) error {
				return Flags(c)
			},
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "pkistatus: %s\n", err)
		os.Exit(1)
	}
}

func Decode(c *cli.Context, logger *slog.Logger, noColor bool) error {
	outputFormat, err := output.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}
	inputEncoding, err := format.ParseEncoding(c.String("input-encoding"))
	if err != nil {
		return err
	}

	raw, err := format.ReadInput(c.Args().First(), os.Stdin)
	if err != nil {
		return err
	}
	der, err := format.Decode(raw, inputEncoding)
	if err != nil {
		return err
	}
	logger.Debug("read input", "bytes", len(der), "encoding", inputEncoding)

	records := []output.Record{}
	failed := 0

	scanner := pkistatus.NewScanner(der)
	for scanner.Scan() {
		if err := scanner.Err(); err != nil {
			logger.Warn("skipping record", "index", scanner.Index(), "offset", scanner.Offset(), "error", err)
			failed++
		}
		records = append(records, output.NewRecord(scanner.Index(), scanner.Offset(), scanner.Record(), scanner.Err()))
	}

	if err := output.Print(c.App.Writer, records, output.Options{Format: outputFormat, NoColor: noColor}); err != nil {
		return fmt.Errorf("printing records: %w", err)
	}

	if err := scanner.FramingErr(); err != nil {
		return fmt.Errorf("input framing: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d records failed to decode", failed, len(records))
	}
	if len(records) == 0 {
		return fmt.Errorf("no records in input")
	}
	return nil
}

func Encode(c *cli.Context, logger *slog.Logger) error {
	status, err := pkistatus.ParseStatus(c.String("status"))
	if err != nil {
		return err
	}
	outputEncoding, err := format.ParseEncoding(c.String("output-encoding"))
	if err != nil {
		return err
	}

	opts := []pkistatus.Option{}
	if texts := c.StringSlice("text"); len(texts) > 0 || c.Bool("empty-text") {
		opts = append(opts, pkistatus.WithStatusStrings(texts...))
	}

	if names := c.StringSlice("fail"); len(names) > 0 {
		flags := []pkistatus.FailureFlag{}
		for _, name := range names {
			flag, err := pkistatus.ParseFailureFlag(name)
			if err != nil {
				return err
			}
			flags = append(flags, flag)
		}
		failInfo, err := pkistatus.NewFailureInfo(flags...)
		if err != nil {
			return err
		}
		opts = append(opts, pkistatus.WithFailureInfo(failInfo))
	}

	info, err := pkistatus.New(status, opts...)
	if err != nil {
		return err
	}
	logger.Debug("built record", "record", info.String())

	der, err := info.Encode()
	if err != nil {
		return err
	}
	out, err := format.Encode(der, outputEncoding)
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(out)
	return err
}

func Flags(c *cli.Context) error {
	w := c.App.Writer

	fmt.Fprintln(w, "PKIStatus:")
	for _, status := range pkistatus.Statuses() {
		fmt.Fprintf(w, "  %2d  %s\n", int(status), status)
	}

	fmt.Fprintln(w, "PKIFailureInfo:")
	for _, flag := range pkistatus.FailureFlags() {
		fmt.Fprintf(w, "  %2d  %s\n", int(flag), flag)
	}

	schema := pkistatus.StatusInfoSchema()
	fields := []string{}
	for _, field := range schema.Fields() {
		fields = append(fields, field.String())
	}
	fmt.Fprintf(w, "%s ::= SEQUENCE {\n  %s }\n", schema.Name(), strings.Join(fields, ",\n  "))
	return nil
}

// vim: foldmethod=marker
